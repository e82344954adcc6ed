package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/primecalc/internal/format"
)

// HeaderModel is the top bar: program, bound and session clock.
type HeaderModel struct {
	title   string
	bound   string
	started time.Time
	stopped time.Time
	width   int
}

// NewHeaderModel starts the session clock for a run below n.
func NewHeaderModel(version string, n uint64) HeaderModel {
	title := "primecalc monitor"
	if version != "" && version != "dev" {
		title += " " + version
	}
	return HeaderModel{
		title:   title,
		bound:   "primes < " + format.FormatNumber(n),
		started: time.Now(),
	}
}

// SetDone stops the clock.
func (h *HeaderModel) SetDone() { h.stopped = time.Now() }

// Reset restarts the clock.
func (h *HeaderModel) Reset() { h.started, h.stopped = time.Now(), time.Time{} }

// SetWidth updates the available width.
func (h *HeaderModel) SetWidth(w int) { h.width = w }

// Elapsed returns the session time, frozen once SetDone was called.
func (h HeaderModel) Elapsed() time.Duration {
	if h.stopped.IsZero() {
		return time.Since(h.started)
	}
	return h.stopped.Sub(h.started)
}

// View renders the header.
func (h HeaderModel) View() string {
	sep := versionStyle.Render(" | ")
	line := titleStyle.Render(h.title) + sep +
		versionStyle.Render(h.bound) + sep +
		elapsedStyle.Render("Elapsed: "+format.FormatExecutionDuration(h.Elapsed()))
	return headerStyle.Width(h.width).Render(line + spaces(h.width-2-lipgloss.Width(line)))
}

func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(" ", n)
}
