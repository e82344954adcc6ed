package tui

import (
	"io"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	apperrors "github.com/agbru/primecalc/internal/errors"
	"github.com/agbru/primecalc/internal/format"
	"github.com/agbru/primecalc/internal/orchestration"
	"github.com/agbru/primecalc/internal/progress"
)

// programRef lets commands and reporters reach the running program. The
// model is copied on every Update, so they share this pointer instead.
type programRef struct {
	mu   sync.RWMutex
	send func(tea.Msg)
}

// SetProgram routes later messages to p.
func (r *programRef) SetProgram(p *tea.Program) { r.attach(p.Send) }

func (r *programRef) attach(send func(tea.Msg)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.send = send
}

// Send delivers msg, or drops it while no program is attached.
func (r *programRef) Send(msg tea.Msg) {
	r.mu.RLock()
	send := r.send
	r.mu.RUnlock()
	if send != nil {
		send(msg)
	}
}

// TUIProgressReporter relays aggregated progress to the dashboard.
type TUIProgressReporter struct {
	ref *programRef
}

var _ orchestration.ProgressReporter = (*TUIProgressReporter)(nil)

// DisplayProgress sends one ProgressMsg per update and a ProgressDoneMsg
// once progressChan is closed.
func (t *TUIProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.Update, numRuns int, _ io.Writer) {
	defer wg.Done()
	agg := orchestration.NewProgressAggregator(numRuns)
	if agg == nil {
		orchestration.DrainChannel(progressChan)
		return
	}
	for u := range progressChan {
		p := agg.Update(u)
		t.ref.Send(ProgressMsg{Index: p.Index, Value: p.Value, AverageProgress: p.AverageProgress, ETA: p.ETA})
	}
	t.ref.Send(ProgressDoneMsg{})
}

// TUIResultPresenter sends results to the dashboard instead of stdout and
// keeps the reference result, which is written out after the screen closes.
type TUIResultPresenter struct {
	ref *programRef

	mu    sync.Mutex
	final *orchestration.RunResult
}

var (
	_ orchestration.ResultPresenter   = (*TUIResultPresenter)(nil)
	_ orchestration.DurationFormatter = (*TUIResultPresenter)(nil)
	_ orchestration.ErrorHandler      = (*TUIResultPresenter)(nil)
)

// PresentComparisonTable sends every run result.
func (t *TUIResultPresenter) PresentComparisonTable(results []orchestration.RunResult, _ io.Writer) {
	t.ref.Send(ComparisonResultsMsg{Results: results})
}

// PresentResult records and sends the reference result.
func (t *TUIResultPresenter) PresentResult(result orchestration.RunResult, opts orchestration.PresentationOptions, _ io.Writer) {
	t.mu.Lock()
	t.final = &result
	t.mu.Unlock()
	t.ref.Send(FinalResultMsg{Result: result, N: opts.N})
}

// Final returns the reference result of the last successful session.
func (t *TUIResultPresenter) Final() *orchestration.RunResult {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.final
}

// FormatDuration formats like the CLI does.
func (t *TUIResultPresenter) FormatDuration(d time.Duration) string {
	return format.FormatExecutionDuration(d)
}

// HandleError shows err on the dashboard and maps it to an exit code.
func (t *TUIResultPresenter) HandleError(err error, duration time.Duration, _ io.Writer) int {
	t.ref.Send(ErrorMsg{Err: err, Duration: duration})
	return apperrors.HandleGenerationError(err, duration, io.Discard, nil)
}
