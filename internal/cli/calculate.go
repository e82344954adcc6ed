package cli

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/agbru/primecalc/internal/config"
	"github.com/agbru/primecalc/internal/format"
	"github.com/agbru/primecalc/internal/orchestration"
	"github.com/agbru/primecalc/internal/sieve"
	"github.com/agbru/primecalc/internal/ui"
)

// PrintExecutionConfig writes the run header: bound and timeout, the host,
// and the sieve tuning in effect. Zero tuning values are shown as "auto".
func PrintExecutionConfig(cfg config.AppConfig, out io.Writer) {
	detail := func(v any) string { return ui.ColorCyan() + fmt.Sprint(v) + ui.ColorReset() }
	auto := func(v uint64) string {
		if v == 0 {
			return "auto"
		}
		return format.FormatNumber(v)
	}

	fmt.Fprintln(out, "--- Execution Configuration ---")
	fmt.Fprintf(out, "Bound:   primes < %s%s%s (timeout %s%s%s)\n",
		ui.ColorMagenta(), format.FormatNumber(cfg.N), ui.ColorReset(),
		ui.ColorYellow(), cfg.Timeout, ui.ColorReset())
	fmt.Fprintf(out, "Host:    %s CPUs, %s, %s/%s\n",
		detail(runtime.NumCPU()), detail(runtime.Version()), runtime.GOOS, runtime.GOARCH)
	fmt.Fprintf(out, "Tuning:  segment=%s workers=%s\n",
		detail(auto(cfg.SegmentSize)), detail(auto(uint64(max(cfg.Workers, 0)))))
	fmt.Fprintf(out, "Cutover: segmented from %s, parallel from %s\n",
		format.FormatNumber(sieve.SegmentThreshold), format.FormatNumber(sieve.ParallelThreshold))
}

// PrintExecutionMode names the algorithms about to run.
func PrintExecutionMode(runners []orchestration.Runner, out io.Writer) {
	names := make([]string, len(runners))
	for i, r := range runners {
		names[i] = ui.ColorGreen() + r.Name() + ui.ColorReset()
	}
	switch len(runners) {
	case 0:
		fmt.Fprintln(out, "Mode:    nothing to run")
	case 1:
		fmt.Fprintf(out, "Mode:    single run, %s\n", names[0])
	default:
		fmt.Fprintf(out, "Mode:    cross-check of %d sieves (%s)\n", len(runners), strings.Join(names, ", "))
	}
	fmt.Fprintln(out, "\n--- Starting Execution ---")
}
