// Package format holds pure formatting helpers shared by the CLI and TUI:
// durations, counts, byte sizes, progress bars and ETA estimates.
package format

import (
	"strconv"
	"time"
)

// FormatExecutionDuration picks the unit a run time reads best in: whole
// microseconds below 1ms, whole milliseconds below 1s, and Go's duration
// syntax above.
func FormatExecutionDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return strconv.FormatInt(d.Microseconds(), 10) + "µs"
	case d < time.Second:
		return strconv.FormatInt(d.Milliseconds(), 10) + "ms"
	}
	return d.String()
}
