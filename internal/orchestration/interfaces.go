package orchestration

import (
	"io"
	"sync"
	"time"

	"github.com/agbru/primecalc/internal/progress"
	"github.com/agbru/primecalc/internal/sieve"
)

// RunResult encapsulates the outcome of a single algorithm run.
// It serves as the shared domain type between orchestration and presentation layers.
type RunResult struct {
	// Name is the display name of the algorithm (e.g., "Segmented Sieve").
	Name string
	// Algorithm is the algorithm that produced the result.
	Algorithm sieve.Algorithm
	// Primes is the ascending list of primes below N. It is nil on error.
	Primes []uint64
	// Duration is the time taken by the run.
	Duration time.Duration
	// Err contains any error that occurred during the run.
	Err error
}

// Count returns the number of primes found.
func (r RunResult) Count() int { return len(r.Primes) }

// Largest returns the largest prime found and whether there was one.
func (r RunResult) Largest() (uint64, bool) {
	if len(r.Primes) == 0 {
		return 0, false
	}
	return r.Primes[len(r.Primes)-1], true
}

// PresentationOptions configures how results are presented to the user.
type PresentationOptions struct {
	N     uint64
	Quiet bool
}

// ProgressReporter displays progress while runs execute.
//
// DisplayProgress is started in its own goroutine before the first run and
// must consume progressChan until it is closed, then call wg.Done.
type ProgressReporter interface {
	DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.Update, numRuns int, out io.Writer)
}

// ProgressReporterFunc is a function adapter that implements ProgressReporter.
type ProgressReporterFunc func(wg *sync.WaitGroup, progressChan <-chan progress.Update, numRuns int, out io.Writer)

// DisplayProgress calls the underlying function.
func (f ProgressReporterFunc) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.Update, numRuns int, out io.Writer) {
	f(wg, progressChan, numRuns, out)
}

// NullProgressReporter drains the progress channel without displaying
// anything. Useful for testing.
type NullProgressReporter struct{}

// DisplayProgress drains the channel without output.
func (NullProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.Update, _ int, _ io.Writer) {
	defer wg.Done()
	DrainChannel(progressChan)
}

// ResultPresenter presents run results.
type ResultPresenter interface {
	// PresentComparisonTable displays the comparison summary table.
	PresentComparisonTable(results []RunResult, out io.Writer)

	// PresentResult displays the summary of the reference result.
	PresentResult(result RunResult, opts PresentationOptions, out io.Writer)
}

// DurationFormatter formats durations for display.
type DurationFormatter interface {
	FormatDuration(d time.Duration) string
}

// ErrorHandler reports run errors and returns exit codes.
type ErrorHandler interface {
	HandleError(err error, duration time.Duration, out io.Writer) int
}

// RunObserver is notified of run lifecycle events. Metrics collectors
// implement it. Methods may be called concurrently from different runs.
type RunObserver interface {
	RunStarted(name string, n uint64)
	SegmentsCompleted(name string, delta int)
	RunFinished(name string, primes int, duration time.Duration, err error)
}
