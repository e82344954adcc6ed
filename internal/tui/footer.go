package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// FooterModel renders key hints and the session status.
type FooterModel struct {
	keymap KeyMap
	width  int
	done   bool
	failed bool
	paused bool
}

// NewFooterModel creates a footer using the default key map.
func NewFooterModel() FooterModel {
	return FooterModel{keymap: DefaultKeyMap()}
}

// SetWidth updates the available width.
func (f *FooterModel) SetWidth(w int) { f.width = w }

// SetDone marks the session finished.
func (f *FooterModel) SetDone(done bool) { f.done = done }

// SetError marks the session failed.
func (f *FooterModel) SetError(failed bool) { f.failed = failed }

// SetPaused toggles the paused indicator.
func (f *FooterModel) SetPaused(paused bool) { f.paused = paused }

// Status returns the status label.
func (f FooterModel) Status() string {
	switch {
	case f.failed:
		return "ERROR"
	case f.done:
		return "DONE"
	case f.paused:
		return "PAUSED"
	}
	return "RUNNING"
}

// View renders the footer.
func (f FooterModel) View() string {
	hints := make([]string, 0, len(f.keymap.ShortHelp()))
	for _, b := range f.keymap.ShortHelp() {
		h := b.Help()
		hints = append(hints, footerKeyStyle.Render(h.Key)+" "+footerDescStyle.Render(h.Desc))
	}
	left := " " + strings.Join(hints, "  ")

	var status string
	switch f.Status() {
	case "ERROR":
		status = statusErrorStyle.Render("ERROR")
	case "DONE":
		status = statusDoneStyle.Render("DONE")
	case "PAUSED":
		status = statusPausedStyle.Render("PAUSED")
	default:
		status = statusRunningStyle.Render("RUNNING")
	}

	gap := max(f.width-lipgloss.Width(left)-lipgloss.Width(status)-1, 1)
	return left + spaces(gap) + status
}

// Reset returns the footer to the running state.
func (f *FooterModel) Reset() { f.done, f.failed, f.paused = false, false, false }
