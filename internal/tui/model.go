package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/primecalc/internal/config"
	apperrors "github.com/agbru/primecalc/internal/errors"
	"github.com/agbru/primecalc/internal/orchestration"
)

// session is one run of the selected algorithms. Restarting the dashboard
// replaces it, and messages still in flight from an older session carry a
// stale generation.
type session struct {
	ctx        context.Context
	cancel     context.CancelFunc
	generation uint64
	done       bool
	exitCode   int
}

func newSession(parent context.Context, generation uint64) session {
	ctx, cancel := context.WithCancel(parent)
	return session{ctx: ctx, cancel: cancel, generation: generation, exitCode: apperrors.ExitSuccess}
}

// Model is the root bubbletea model of the dashboard.
type Model struct {
	header  HeaderModel
	logs    LogsModel
	metrics MetricsModel
	chart   ChartModel
	footer  FooterModel
	keymap  KeyMap

	session
	size   panels
	paused bool

	root      context.Context
	cfg       config.AppConfig
	runners   []orchestration.Runner
	observers []orchestration.RunObserver
	ref       *programRef
	presenter *TUIResultPresenter
}

// NewModel creates the dashboard for runners. Observers receive run
// lifecycle events alongside it.
func NewModel(ctx context.Context, runners []orchestration.Runner, cfg config.AppConfig, version string, observers ...orchestration.RunObserver) Model {
	names := make([]string, len(runners))
	for i, r := range runners {
		names[i] = r.Name()
	}
	logs := NewLogsModel(names)
	logs.AddExecutionConfig(cfg)

	ref := &programRef{}
	return Model{
		header:    NewHeaderModel(version, cfg.N),
		logs:      logs,
		metrics:   NewMetricsModel(),
		chart:     NewChartModel(),
		footer:    NewFooterModel(),
		keymap:    DefaultKeyMap(),
		session:   newSession(ctx, 0),
		root:      ctx,
		cfg:       cfg,
		runners:   runners,
		observers: observers,
		ref:       ref,
		presenter: &TUIResultPresenter{ref: ref},
	}
}

// Init starts the session's run, the sampling clock and the context watch.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), m.startRunCmd(), watchContextCmd(m.ctx, m.generation))
}

// Update applies one message.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case ProgressMsg:
		if !m.paused {
			m.logs.AddProgressEntry(msg)
			m.chart.AddDataPoint(msg.Value, msg.AverageProgress, msg.ETA)
			m.metrics.UpdateProgress(msg.AverageProgress)
		}

	case ComparisonResultsMsg:
		m.logs.AddResults(msg.Results)

	case FinalResultMsg:
		m.logs.AddFinalResult(msg)
		if msg.Result.Err == nil {
			return m, computeIndicatorsCmd(msg)
		}

	case IndicatorsMsg:
		m.metrics.SetIndicators(msg.Indicators)

	case ErrorMsg:
		m.logs.AddError(msg)
		m.footer.SetError(true)
		m.finish()

	case TickMsg:
		return m, m.onTick()

	case RuntimeStatsMsg:
		m.metrics.SetRuntime(msg.RuntimeSample)

	case HostStatsMsg:
		m.chart.RecordHost(msg.Host)

	case RunCompleteMsg:
		if msg.Generation == m.generation {
			m.exitCode = msg.ExitCode
			m.finish()
			m.chart.SetDone(m.header.Elapsed())
		}

	case ContextCancelledMsg:
		if msg.Generation == m.generation {
			m.finish()
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *Model) finish() {
	m.done = true
	m.header.SetDone()
	m.footer.SetDone(true)
}

// onTick samples the runtime and host unless the session is over. A paused
// dashboard keeps the clock but stops sampling.
func (m Model) onTick() tea.Cmd {
	switch {
	case m.done:
		return nil
	case m.paused:
		return tickCmd()
	}
	return tea.Batch(readRuntimeCmd(), readHostCmd(m.ctx), tickCmd())
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.cancel()
		return m, tea.Quit
	case key.Matches(msg, m.keymap.Pause):
		m.paused = !m.paused
		m.footer.SetPaused(m.paused)
	case key.Matches(msg, m.keymap.Reset):
		return m.restart()
	case key.Matches(msg, m.keymap.Up, m.keymap.Down, m.keymap.PageUp, m.keymap.PageDown):
		m.logs.Update(msg)
	}
	return m, nil
}

// restart cancels the current run and starts the same algorithms again on a
// cleared dashboard.
func (m Model) restart() (tea.Model, tea.Cmd) {
	m.cancel()
	m.session = newSession(m.root, m.generation+1)
	m.paused = false

	m.header.Reset()
	m.logs.Reset()
	m.chart.Reset()
	m.footer.Reset()
	m.metrics = NewMetricsModel()
	m.metrics.SetSize(m.size.rightW, m.size.metricsH)

	return m, m.Init()
}

func (m *Model) resize(width, height int) {
	m.size = computePanels(width, height)
	m.header.SetWidth(width)
	m.footer.SetWidth(width)
	m.logs.SetSize(m.size.logsW, m.size.body)
	m.metrics.SetSize(m.size.rightW, m.size.metricsH)
	m.chart.SetSize(m.size.rightW, m.size.chartH)
}

// View renders the dashboard.
func (m Model) View() string {
	if m.size.width == 0 {
		return "Initializing..."
	}
	right := lipgloss.JoinVertical(lipgloss.Left, m.metrics.View(), m.chart.View())
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.logs.renderToHeight(lipgloss.Height(right)), right)
	return lipgloss.JoinVertical(lipgloss.Left, m.header.View(), body, m.footer.View())
}

// Run shows the dashboard until the user quits. It returns the exit code
// and the reference result of the last successful session, if any, so the
// caller can write it out once the screen is restored.
func Run(ctx context.Context, runners []orchestration.Runner, cfg config.AppConfig, version string, observers ...orchestration.RunObserver) (int, *orchestration.RunResult) {
	initTUIStyles()

	m := NewModel(ctx, runners, cfg, version, observers...)
	defer m.cancel()

	p := tea.NewProgram(m, tea.WithAltScreen())
	m.ref.SetProgram(p)

	final, err := p.Run()
	if err != nil {
		return apperrors.ExitErrorGeneric, nil
	}
	code := apperrors.ExitSuccess
	if fm, ok := final.(Model); ok {
		fm.cancel()
		code = fm.exitCode
	}
	return code, m.presenter.Final()
}
