package orchestration

import (
	"time"

	"github.com/agbru/primecalc/internal/format"
	"github.com/agbru/primecalc/internal/progress"
)

// ProgressAggregator folds the per-run updates of a session into one average
// and ETA. The CLI spinner and the dashboard both read progress through it.
type ProgressAggregator struct {
	state   *format.ProgressWithETA
	numRuns int
}

// NewProgressAggregator tracks numRuns runs. It returns nil when there is
// nothing to track; callers then drain the channel instead.
func NewProgressAggregator(numRuns int) *ProgressAggregator {
	if numRuns <= 0 {
		return nil
	}
	return &ProgressAggregator{state: format.NewProgressWithETA(numRuns), numRuns: numRuns}
}

// AggregatedProgress is one update seen together with the session average.
type AggregatedProgress struct {
	Index           int
	Value           float64
	AverageProgress float64
	ETA             time.Duration
}

// Update records u and returns the new session average.
func (a *ProgressAggregator) Update(u progress.Update) AggregatedProgress {
	avg, eta := a.state.UpdateWithETA(u.Index, u.Value)
	return AggregatedProgress{Index: u.Index, Value: u.Value, AverageProgress: avg, ETA: eta}
}

// CalculateAverage returns the session average without recording anything.
func (a *ProgressAggregator) CalculateAverage() float64 { return a.state.CalculateAverage() }

// GetETA returns the current estimate without recording anything.
func (a *ProgressAggregator) GetETA() time.Duration { return a.state.GetETA() }

// NumRuns returns the number of tracked runs.
func (a *ProgressAggregator) NumRuns() int { return a.numRuns }

// IsMultiRun reports whether several runs share the display, as in verify mode.
func (a *ProgressAggregator) IsMultiRun() bool { return a.numRuns > 1 }

// DrainChannel discards updates until progressChan is closed, so senders
// never block on a session nobody displays.
func DrainChannel(progressChan <-chan progress.Update) {
	for range progressChan {
	}
}
