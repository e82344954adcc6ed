package tui

import (
	"context"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/primecalc/internal/metrics"
	"github.com/agbru/primecalc/internal/orchestration"
	"github.com/agbru/primecalc/internal/sysmon"
)

// sampleInterval is the dashboard's refresh period for runtime and host stats.
const sampleInterval = 500 * time.Millisecond

func tickCmd() tea.Cmd {
	return tea.Tick(sampleInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// startRunCmd runs the session's algorithms and reports their exit code.
// Progress and results reach the dashboard through the program reference
// while the command is still running.
func (m Model) startRunCmd() tea.Cmd {
	ctx, gen, n := m.ctx, m.generation, m.cfg.N
	runners, observers := m.runners, m.observers
	reporter := &TUIProgressReporter{ref: m.ref}
	presenter := m.presenter
	return func() tea.Msg {
		results := orchestration.ExecuteRuns(ctx, runners, n, reporter, io.Discard, observers...)
		code := orchestration.AnalyzeComparisonResults(results, orchestration.PresentationOptions{N: n}, presenter, presenter, io.Discard)
		return RunCompleteMsg{ExitCode: code, Generation: gen}
	}
}

func readRuntimeCmd() tea.Cmd {
	return func() tea.Msg { return RuntimeStatsMsg{metrics.ReadRuntime()} }
}

// readHostCmd samples the host. Partial readings are still charted.
func readHostCmd(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		h, _ := sysmon.Read(ctx)
		return HostStatsMsg{h}
	}
}

// computeIndicatorsCmd computes indicators off the UI goroutine; the gap
// scan touches every prime.
func computeIndicatorsCmd(msg FinalResultMsg) tea.Cmd {
	return func() tea.Msg {
		return IndicatorsMsg{Indicators: metrics.Compute(msg.Result.Primes, msg.N, msg.Result.Duration)}
	}
}

// watchContextCmd reports the end of the session context.
func watchContextCmd(ctx context.Context, gen uint64) tea.Cmd {
	return func() tea.Msg {
		<-ctx.Done()
		return ContextCancelledMsg{Err: ctx.Err(), Generation: gen}
	}
}
