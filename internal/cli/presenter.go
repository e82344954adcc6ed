package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	apperrors "github.com/agbru/primecalc/internal/errors"
	"github.com/agbru/primecalc/internal/format"
	"github.com/agbru/primecalc/internal/memory"
	"github.com/agbru/primecalc/internal/orchestration"
	"github.com/agbru/primecalc/internal/progress"
	"github.com/agbru/primecalc/internal/ui"
)

// CLIProgressReporter shows the spinner and progress bar on stderr.
type CLIProgressReporter struct{}

var _ orchestration.ProgressReporter = CLIProgressReporter{}

// DisplayProgress runs DisplayProgress.
func (CLIProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.Update, numRuns int, out io.Writer) {
	DisplayProgress(wg, progressChan, numRuns, out)
}

// CLIResultPresenter prints results for a terminal or a pipe.
type CLIResultPresenter struct{}

var (
	_ orchestration.ResultPresenter   = CLIResultPresenter{}
	_ orchestration.DurationFormatter = CLIResultPresenter{}
	_ orchestration.ErrorHandler      = CLIResultPresenter{}
)

type comparisonRow struct {
	name, duration, count string
	status, statusColor   string
}

// PresentComparisonTable prints one row per run: name, duration, prime count
// and status. Columns are padded by hand since tabwriter would count the
// color escapes as text.
func (CLIResultPresenter) PresentComparisonTable(results []orchestration.RunResult, out io.Writer) {
	widths := [3]int{len("Algorithm"), len("Duration"), len("Primes")}
	rows := make([]comparisonRow, len(results))
	for i, res := range results {
		row := comparisonRow{
			name:        res.Name,
			duration:    tableDuration(res.Duration),
			count:       "-",
			status:      fmt.Sprintf("❌ Failure (%v)", res.Err),
			statusColor: ui.ColorRed(),
		}
		if res.Err == nil {
			row.count = format.FormatNumber(uint64(res.Count()))
			row.status, row.statusColor = "✅ Success", ui.ColorGreen()
		}
		for c, text := range [3]string{row.name, row.duration, row.count} {
			widths[c] = max(widths[c], utf8.RuneCountInString(text))
		}
		rows[i] = row
	}

	fmt.Fprint(out, "\n--- Comparison Summary ---\n")
	u := ui.ColorUnderline()
	fmt.Fprintf(out, "%s   %s   %s   %s\n",
		cell(u, "Algorithm", widths[0]), cell(u, "Duration", widths[1]), cell(u, "Primes", widths[2]), cell(u, "Status", 0))
	for _, row := range rows {
		fmt.Fprintf(out, "%s   %s   %s   %s\n",
			cell(ui.ColorBlue(), row.name, widths[0]),
			cell(ui.ColorYellow(), row.duration, widths[1]),
			cell("", row.count, widths[2]),
			cell(row.statusColor, row.status, 0))
	}
}

// cell colors text and pads it to width visible characters.
func cell(color, text string, width int) string {
	pad := strings.Repeat(" ", max(width-utf8.RuneCountInString(text), 0))
	if color == "" {
		return text + pad
	}
	return color + text + ui.ColorReset() + pad
}

func tableDuration(d time.Duration) string {
	if d == 0 {
		return "< 1µs"
	}
	return format.FormatExecutionDuration(d)
}

// PresentResult prints the reference result: its count alone when quiet,
// else the summary.
func (CLIResultPresenter) PresentResult(result orchestration.RunResult, opts orchestration.PresentationOptions, out io.Writer) {
	if opts.Quiet {
		DisplayCount(out, result.Count())
		return
	}
	DisplayResultSummary(out, opts.N, result)
}

// FormatDuration formats like every other CLI duration.
func (CLIResultPresenter) FormatDuration(d time.Duration) string {
	return format.FormatExecutionDuration(d)
}

// HandleError prints err in the active palette and returns its exit code.
func (CLIResultPresenter) HandleError(err error, duration time.Duration, out io.Writer) int {
	return apperrors.HandleGenerationError(err, duration, out, CLIColorProvider{})
}

// CLIColorProvider exposes the active palette to the error handler.
type CLIColorProvider struct{}

var _ apperrors.ColorProvider = CLIColorProvider{}

func (CLIColorProvider) Red() string    { return ui.ColorRed() }
func (CLIColorProvider) Yellow() string { return ui.ColorYellow() }
func (CLIColorProvider) Reset() string  { return ui.ColorReset() }

// DisplayMemoryStats prints what the runtime did while the collector was
// paused. A zero pause total means no collection ran at all.
func DisplayMemoryStats(s memory.GCStats, out io.Writer) {
	pause := "0ms (GC disabled)"
	if s.PauseTotalNs > 0 {
		pause = fmt.Sprintf("%.2fms", float64(s.PauseTotalNs)/1e6)
	}
	fmt.Fprintf(out, "\nMemory Stats:\n"+
		"  Peak heap:       %s\n"+
		"  Total allocated: %s\n"+
		"  GC cycles:       %d\n"+
		"  GC pause total:  %s\n",
		format.FormatBytes(s.HeapAlloc), format.FormatBytes(s.TotalAlloc), s.NumGC, pause)
}
