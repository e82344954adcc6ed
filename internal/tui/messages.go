package tui

import (
	"time"

	"github.com/agbru/primecalc/internal/metrics"
	"github.com/agbru/primecalc/internal/orchestration"
	"github.com/agbru/primecalc/internal/sysmon"
)

// ProgressMsg carries one aggregated progress update from the bridge.
type ProgressMsg struct {
	Index           int
	Value           float64
	AverageProgress float64
	ETA             time.Duration
}

// ProgressDoneMsg signals that the progress channel was closed.
type ProgressDoneMsg struct{}

// ComparisonResultsMsg carries every run result, sorted by duration.
type ComparisonResultsMsg struct {
	Results []orchestration.RunResult
}

// FinalResultMsg carries the reference result of a successful session.
type FinalResultMsg struct {
	Result orchestration.RunResult
	N      uint64
}

// IndicatorsMsg carries indicators computed off the UI goroutine.
type IndicatorsMsg struct {
	Indicators *metrics.Indicators
}

// ErrorMsg reports a failed session.
type ErrorMsg struct {
	Err      error
	Duration time.Duration
}

// TickMsg drives periodic sampling.
type TickMsg time.Time

// RuntimeStatsMsg carries a Go runtime memory sample.
type RuntimeStatsMsg struct {
	metrics.RuntimeSample
}

// HostStatsMsg carries a host CPU and memory sample.
type HostStatsMsg struct {
	sysmon.Host
}

// RunCompleteMsg reports that orchestration finished.
type RunCompleteMsg struct {
	ExitCode   int
	Generation uint64
}

// ContextCancelledMsg reports that the session context ended.
type ContextCancelledMsg struct {
	Err        error
	Generation uint64
}
