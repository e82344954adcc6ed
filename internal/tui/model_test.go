package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/primecalc/internal/config"
	apperrors "github.com/agbru/primecalc/internal/errors"
	"github.com/agbru/primecalc/internal/metrics"
	"github.com/agbru/primecalc/internal/orchestration"
	"github.com/agbru/primecalc/internal/sieve"
	"github.com/agbru/primecalc/internal/sysmon"
)

func newTestModel(t *testing.T, n uint64) Model {
	t.Helper()
	gen := sieve.NewGenerator(sieve.WithSegmentSize(1000), sieve.WithWorkers(2))
	runners := []orchestration.Runner{orchestration.NewRunner(gen, sieve.AlgorithmSegmented)}
	m := NewModel(context.Background(), runners, config.AppConfig{N: n, SegmentSize: 1000, Workers: 2}, "v1.2.0")
	t.Cleanup(func() { m.cancel() })
	return m
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

var (
	keyPause   = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")}
	keyRestart = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")}
)

func TestComputePanels(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		want          panels
	}{
		{"roomy", 120, 40, panels{width: 120, body: 38, logsW: 72, rightW: 48, metricsH: 7, chartH: 31}},
		{"short terminal", 80, 10, panels{width: 80, body: 8, logsW: 48, rightW: 32, metricsH: 4, chartH: 4}},
		{"tiny terminal", 20, 3, panels{width: 20, body: minBodyRows, logsW: 12, rightW: 8, metricsH: 2, chartH: 2}},
	}
	for _, tt := range tests {
		if got := computePanels(tt.width, tt.height); got != tt.want {
			t.Errorf("%s: computePanels(%d, %d) = %+v, want %+v", tt.name, tt.width, tt.height, got, tt.want)
		}
	}
}

func TestModel_View(t *testing.T) {
	m := newTestModel(t, 100)
	if got := m.View(); got != "Initializing..." {
		t.Errorf("view before the first resize = %q", got)
	}

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	view := m.View()
	for _, want := range []string{"primecalc monitor v1.2.0", "primes < 100", "Metrics", "Progress Chart", "Segmented Sieve", "RUNNING"} {
		if !strings.Contains(view, want) {
			t.Errorf("dashboard missing %q", want)
		}
	}
}

func TestModel_RunsToCompletion(t *testing.T) {
	m := newTestModel(t, 10_000)

	msg, ok := m.startRunCmd()().(RunCompleteMsg)
	if !ok || msg.ExitCode != apperrors.ExitSuccess || msg.Generation != 0 {
		t.Fatalf("run ended with %+v", msg)
	}
	final := m.presenter.Final()
	if final == nil || final.Count() != 1229 {
		t.Fatalf("final result = %+v, want 1229 primes below 10000", final)
	}

	m, _ = update(t, m, msg)
	if !m.done || m.footer.Status() != "DONE" || !m.chart.done {
		t.Errorf("completion not reflected: done=%v footer=%s chart=%v", m.done, m.footer.Status(), m.chart.done)
	}
}

func TestModel_DropsStaleSessionMessages(t *testing.T) {
	tests := []struct {
		name     string
		msg      tea.Msg
		wantQuit bool
	}{
		{"completion", RunCompleteMsg{ExitCode: apperrors.ExitErrorMismatch, Generation: 2}, false},
		{"cancellation", ContextCancelledMsg{Err: context.Canceled, Generation: 2}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel(t, 100)
			m.generation = 3

			m, cmd := update(t, m, tt.msg)
			if m.done || cmd != nil {
				t.Fatal("message from an abandoned session was applied")
			}

			m.generation = 2
			m, cmd = update(t, m, tt.msg)
			if !m.done {
				t.Error("current session message was ignored")
			}
			if gotQuit := cmd != nil; gotQuit != tt.wantQuit {
				t.Errorf("quit command = %v, want %v", gotQuit, tt.wantQuit)
			}
		})
	}
}

func TestModel_PauseFreezesDisplay(t *testing.T) {
	m := newTestModel(t, 100)
	m, _ = update(t, m, keyPause)
	if !m.paused || m.footer.Status() != "PAUSED" {
		t.Fatalf("paused=%v footer=%s", m.paused, m.footer.Status())
	}

	m, _ = update(t, m, ProgressMsg{Value: 0.4, AverageProgress: 0.4})
	if m.chart.averageProgress != 0 {
		t.Error("progress recorded while paused")
	}

	m, _ = update(t, m, keyPause)
	m, _ = update(t, m, ProgressMsg{Value: 0.4, AverageProgress: 0.4})
	if m.chart.averageProgress != 0.4 {
		t.Errorf("average progress = %v after resuming", m.chart.averageProgress)
	}
}

func TestModel_OnTick(t *testing.T) {
	m := newTestModel(t, 100)
	if m.onTick() == nil {
		t.Error("a running session should sample")
	}
	m.paused = true
	if m.onTick() == nil {
		t.Error("a paused session should keep ticking")
	}
	m.done = true
	if m.onTick() != nil {
		t.Error("a finished session should stop ticking")
	}
}

func TestModel_SamplesReachPanels(t *testing.T) {
	m := newTestModel(t, 100)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	m, _ = update(t, m, RuntimeStatsMsg{metrics.RuntimeSample{HeapInUse: 3 << 20, Goroutines: 5}})
	m, _ = update(t, m, HostStatsMsg{sysmon.Host{CPUPercent: 40, MemPercent: 55}})

	if m.metrics.runtime.HeapInUse != 3<<20 || m.metrics.runtime.Goroutines != 5 {
		t.Errorf("runtime sample not shown: %+v", m.metrics.runtime)
	}
	if m.chart.cpuHistory.Last() != 40 || m.chart.memHistory.Last() != 55 {
		t.Error("host sample not charted")
	}
}

func TestModel_QuitCancelsSession(t *testing.T) {
	m := newTestModel(t, 100)
	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("no command after ctrl+c")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c should quit")
	}
	if m.ctx.Err() == nil {
		t.Error("session context still live after quit")
	}
}

func TestModel_Restart(t *testing.T) {
	m := newTestModel(t, 100)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m, _ = update(t, m, ErrorMsg{Err: context.DeadlineExceeded})
	m, _ = update(t, m, keyPause)
	old := m.ctx

	m, cmd := update(t, m, keyRestart)
	t.Cleanup(func() { m.cancel() })

	if cmd == nil {
		t.Fatal("restart returned no commands")
	}
	if old.Err() == nil {
		t.Error("previous session was not cancelled")
	}
	if m.ctx.Err() != nil || m.generation != 1 || m.done || m.paused {
		t.Errorf("restarted session: gen=%d done=%v paused=%v ctx=%v", m.generation, m.done, m.paused, m.ctx.Err())
	}
	if m.exitCode != apperrors.ExitSuccess || m.footer.Status() != "RUNNING" {
		t.Errorf("exit code %d, footer %s after restart", m.exitCode, m.footer.Status())
	}
	if m.metrics.width != m.size.rightW {
		t.Error("fresh metrics panel lost its size")
	}
}

func TestModel_ErrorEndsSession(t *testing.T) {
	m := newTestModel(t, 100)
	m, _ = update(t, m, ErrorMsg{Err: context.DeadlineExceeded})
	if !m.done || m.footer.Status() != "ERROR" {
		t.Errorf("done=%v footer=%s", m.done, m.footer.Status())
	}
}

func TestComputeIndicatorsCmd(t *testing.T) {
	msg := FinalResultMsg{Result: orchestration.RunResult{Primes: []uint64{2, 3, 5, 7}}, N: 10}
	out, ok := computeIndicatorsCmd(msg)().(IndicatorsMsg)
	if !ok || out.Indicators == nil || out.Indicators.Largest != 7 || out.Indicators.Count != 4 {
		t.Fatalf("indicators = %+v", out)
	}
}
