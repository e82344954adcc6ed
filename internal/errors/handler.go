package apperrors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// ColorProvider supplies the ANSI sequences used when rendering an error.
// A nil ColorProvider renders plain text.
type ColorProvider interface {
	Red() string
	Yellow() string
	Reset() string
}

// HandleGenerationError prints a human-readable description of err and
// maps it to a process exit code.
//
// Parameters:
//   - err: The error returned by a generation run (nil means success).
//   - duration: How long the run lasted before failing, 0 if unknown.
//   - out: The writer for the error report.
//   - colors: Optional color provider.
//
// Returns:
//   - int: The exit code matching the error class.
func HandleGenerationError(err error, duration time.Duration, out io.Writer, colors ColorProvider) int {
	if err == nil {
		return ExitSuccess
	}
	red, yellow, reset := "", "", ""
	if colors != nil {
		red, yellow, reset = colors.Red(), colors.Yellow(), colors.Reset()
	}
	suffix := ""
	if duration > 0 {
		suffix = fmt.Sprintf(" after %s%s%s", yellow, duration, reset)
	}

	var (
		configErr ConfigError
		memErr    MemoryError
	)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		fmt.Fprintf(out, "%sTimeout%s: %v%s\n", red, reset, err, suffix)
		return ExitErrorTimeout
	case errors.Is(err, context.Canceled):
		fmt.Fprintf(out, "%sCanceled%s%s\n", yellow, reset, suffix)
		return ExitErrorCanceled
	case errors.As(err, &configErr):
		fmt.Fprintf(out, "%sConfiguration error%s: %v\n", red, reset, err)
		return ExitErrorConfig
	case errors.As(err, &memErr):
		fmt.Fprintf(out, "%sMemory budget exceeded%s: %v%s\n", red, reset, err, suffix)
		return ExitErrorGeneric
	default:
		fmt.Fprintf(out, "%sGeneration failed%s: %v%s\n", red, reset, err, suffix)
		return ExitErrorGeneric
	}
}
