package orchestration

import (
	"context"
	"fmt"
	"io"
	"slices"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/agbru/primecalc/internal/errors"
	"github.com/agbru/primecalc/internal/progress"
)

// ProgressBufferMultiplier defines the buffer size multiplier for the progress
// channel. A larger buffer reduces the likelihood of blocking the observer
// goroutines when the UI is slow to consume updates.
const ProgressBufferMultiplier = 16

// ExecuteRuns runs every runner concurrently on bound n and returns their
// results in runner order.
//
// When reporter is nil no progress is tracked at all and the engines run
// with nil callbacks. Otherwise a progress channel is created, handed to the
// reporter, and closed once every run has returned.
//
// The sieve engines cannot be interrupted mid-run. When ctx ends first, the
// affected result carries ctx's error immediately and the abandoned run
// finishes in the background with its progress silenced.
func ExecuteRuns(ctx context.Context, runners []Runner, n uint64, reporter ProgressReporter, out io.Writer, observers ...RunObserver) []RunResult {
	g, ctx := errgroup.WithContext(ctx)
	results := make([]RunResult, len(runners))

	var (
		relay     *progressRelay
		displayWg sync.WaitGroup
	)
	if reporter != nil {
		ch := make(chan progress.Update, max(len(runners), 1)*ProgressBufferMultiplier)
		relay = &progressRelay{ch: ch}
		displayWg.Add(1)
		go reporter.DisplayProgress(&displayWg, ch, len(runners), out)
	}

	for i, r := range runners {
		idx, runner := i, r
		g.Go(func() error {
			results[idx] = runOne(ctx, idx, runner, n, relay, observers)
			return nil
		})
	}

	_ = g.Wait()
	if relay != nil {
		relay.close()
		displayWg.Wait()
	}
	return results
}

// runOne executes a single runner and waits for it or for ctx.
func runOne(ctx context.Context, idx int, runner Runner, n uint64, relay *progressRelay, observers []RunObserver) RunResult {
	name := runner.Name()
	for _, o := range observers {
		o.RunStarted(name, n)
	}

	var sinks []progress.Callback
	if relay != nil {
		tracker := progress.NewTracker(runner.ProgressTotal(n))
		sinks = append(sinks, func(delta int) {
			relay.send(progress.Update{Index: idx, Value: tracker.Add(delta)})
		})
	}
	for _, o := range observers {
		obs := o
		sinks = append(sinks, func(delta int) { obs.SegmentsCompleted(name, delta) })
	}
	onProgress := progress.Fanout(sinks...)

	type outcome struct {
		primes []uint64
		err    error
	}
	done := make(chan outcome, 1)
	start := time.Now()
	go func() {
		primes, err := runner.Generate(n, onProgress)
		done <- outcome{primes, err}
	}()

	result := RunResult{Name: name, Algorithm: runner.Algorithm()}
	select {
	case o := <-done:
		result.Primes, result.Err = o.primes, o.err
	case <-ctx.Done():
		result.Err = apperrors.WrapError(ctx.Err(), "%s abandoned", name)
	}
	result.Duration = time.Since(start)

	if relay != nil && result.Err == nil {
		relay.send(progress.Update{Index: idx, Value: 1})
	}
	for _, o := range observers {
		o.RunFinished(name, result.Count(), result.Duration, result.Err)
	}
	return result
}

// progressRelay forwards updates to the reporter channel until closed.
// After close, sends from abandoned runs are dropped instead of panicking.
type progressRelay struct {
	mu     sync.Mutex
	closed bool
	ch     chan progress.Update
}

func (r *progressRelay) send(u progress.Update) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.ch <- u
}

func (r *progressRelay) close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	close(r.ch)
}

// AnalyzeComparisonResults processes the results of several algorithms run
// on the same bound and prints a summary report.
//
// It sorts the results by execution time, checks that every successful run
// produced the identical prime list, and displays a comparative table.
// A mismatch returns ExitErrorMismatch; if every run failed, the first
// failure decides the exit code.
func AnalyzeComparisonResults(results []RunResult, opts PresentationOptions, presenter ResultPresenter, handler ErrorHandler, out io.Writer) int {
	sort.SliceStable(results, func(i, j int) bool {
		if (results[i].Err == nil) != (results[j].Err == nil) {
			return results[i].Err == nil
		}
		return results[i].Duration < results[j].Duration
	})

	var firstValidResult *RunResult
	var firstError error
	successCount := 0

	for i := range results {
		if results[i].Err != nil {
			if firstError == nil {
				firstError = results[i].Err
			}
		} else {
			successCount++
			if firstValidResult == nil {
				firstValidResult = &results[i]
			}
		}
	}

	presenter.PresentComparisonTable(results, out)

	if successCount == 0 {
		fmt.Fprintf(out, "\nGlobal Status: Failure. No algorithm could complete the generation.\n")
		return handler.HandleError(firstError, 0, out)
	}

	for _, res := range results {
		if res.Err == nil && !slices.Equal(res.Primes, firstValidResult.Primes) {
			fmt.Fprintf(out, "\nGlobal Status: CRITICAL ERROR! %s and %s disagree (%d vs %d primes).\n",
				firstValidResult.Name, res.Name, firstValidResult.Count(), res.Count())
			return apperrors.ExitErrorMismatch
		}
	}

	fmt.Fprintf(out, "\nGlobal Status: Success. All valid results are consistent.\n")
	presenter.PresentResult(*firstValidResult, opts, out)
	return apperrors.ExitSuccess
}
