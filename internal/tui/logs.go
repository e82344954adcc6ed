package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/primecalc/internal/config"
	"github.com/agbru/primecalc/internal/format"
	"github.com/agbru/primecalc/internal/orchestration"
)

// progressLogStep is the fraction between two logged progress entries of a run.
const progressLogStep = 0.25

type logKind int

const (
	logInfo logKind = iota
	logProgress
	logSuccess
	logError
)

type logEntry struct {
	at   time.Time
	kind logKind
	run  string
	text string
}

// LogsModel is the scrollable event log of the session.
type LogsModel struct {
	runNames   []string
	entries    []logEntry
	lastLogged []float64
	offset     int // lines scrolled up from the bottom
	keymap     KeyMap
	width      int
	height     int
}

// NewLogsModel creates a log for the given runs.
func NewLogsModel(runNames []string) LogsModel {
	return LogsModel{
		runNames:   runNames,
		lastLogged: make([]float64, len(runNames)),
		keymap:     DefaultKeyMap(),
	}
}

// SetSize updates dimensions.
func (l *LogsModel) SetSize(w, h int) {
	l.width = w
	l.height = h
}

// Reset clears the log, keeping the run names.
func (l *LogsModel) Reset() {
	l.entries = nil
	l.offset = 0
	clear(l.lastLogged)
}

func (l *LogsModel) add(kind logKind, run, text string) {
	l.entries = append(l.entries, logEntry{at: time.Now(), kind: kind, run: run, text: text})
}

// AddExecutionConfig logs the settings of the session.
func (l *LogsModel) AddExecutionConfig(cfg config.AppConfig) {
	l.add(logInfo, "", fmt.Sprintf("Generating primes below %s", format.FormatNumber(cfg.N)))
	l.add(logInfo, "", fmt.Sprintf("Segment %s, %d workers, timeout %s",
		format.FormatNumber(cfg.SegmentSize), cfg.Workers, cfg.Timeout))
	l.add(logInfo, "", "Runs: "+strings.Join(l.runNames, ", "))
}

// AddProgressEntry logs a run's progress each time it crosses another
// progressLogStep.
func (l *LogsModel) AddProgressEntry(msg ProgressMsg) {
	if msg.Index < 0 || msg.Index >= len(l.runNames) {
		return
	}
	if msg.Value < 1 && msg.Value-l.lastLogged[msg.Index] < progressLogStep {
		return
	}
	if msg.Value == l.lastLogged[msg.Index] {
		return
	}
	l.lastLogged[msg.Index] = msg.Value
	l.add(logProgress, l.runNames[msg.Index], fmt.Sprintf("%5.1f%%", msg.Value*100))
}

// AddResults logs every run outcome.
func (l *LogsModel) AddResults(results []orchestration.RunResult) {
	for _, r := range results {
		if r.Err != nil {
			l.add(logError, r.Name, fmt.Sprintf("failed after %s: %v", format.FormatExecutionDuration(r.Duration), r.Err))
			continue
		}
		l.add(logSuccess, r.Name, fmt.Sprintf("%s primes in %s",
			format.FormatNumber(uint64(r.Count())), format.FormatExecutionDuration(r.Duration)))
	}
}

// AddFinalResult logs the reference result.
func (l *LogsModel) AddFinalResult(msg FinalResultMsg) {
	largest, ok := msg.Result.Largest()
	if !ok {
		l.add(logSuccess, msg.Result.Name, fmt.Sprintf("No primes less than %d", msg.N))
		return
	}
	l.add(logSuccess, msg.Result.Name, fmt.Sprintf("Largest prime < %d is %d", msg.N, largest))
}

// AddError logs a session failure.
func (l *LogsModel) AddError(msg ErrorMsg) {
	l.add(logError, "", fmt.Sprintf("Error: %v", msg.Err))
}

// Update scrolls the log.
func (l *LogsModel) Update(msg tea.KeyMsg) {
	page := max(l.height-2, 1)
	maxOffset := max(len(l.entries)-page, 0)
	switch {
	case key.Matches(msg, l.keymap.Up):
		l.offset++
	case key.Matches(msg, l.keymap.Down):
		l.offset--
	case key.Matches(msg, l.keymap.PageUp):
		l.offset += page
	case key.Matches(msg, l.keymap.PageDown):
		l.offset -= page
	}
	l.offset = min(max(l.offset, 0), maxOffset)
}

func (l LogsModel) renderEntry(e logEntry) string {
	var text string
	switch e.kind {
	case logProgress:
		text = logProgressStyle.Render(e.text)
	case logSuccess:
		text = logSuccessStyle.Render(e.text)
	case logError:
		text = logErrorStyle.Render(e.text)
	default:
		text = e.text
	}
	line := logTimeStyle.Render(e.at.Format("15:04:05")) + " "
	if e.run != "" {
		line += logRunStyle.Render(e.run) + " "
	}
	return line + text
}

// renderToHeight renders the visible window of the log in a panel of the
// given outer height.
func (l LogsModel) renderToHeight(height int) string {
	visible := max(height-2, 1)
	end := max(len(l.entries)-l.offset, 0)
	start := max(end-visible, 0)

	lines := make([]string, 0, visible)
	for _, e := range l.entries[start:end] {
		lines = append(lines, l.renderEntry(e))
	}
	return panelStyle.
		Width(max(l.width-2, 0)).
		Height(visible).
		Render(strings.Join(lines, "\n"))
}

// View renders the log at its configured height.
func (l LogsModel) View() string {
	return l.renderToHeight(l.height)
}
