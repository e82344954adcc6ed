package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/primecalc/internal/ui"
)

// Style variables for the monitor.
// Initialized from the ui theme system via initTUIStyles().
var (
	panelStyle         lipgloss.Style
	headerStyle        lipgloss.Style
	titleStyle         lipgloss.Style
	versionStyle       lipgloss.Style
	elapsedStyle       lipgloss.Style
	logTimeStyle       lipgloss.Style
	logRunStyle        lipgloss.Style
	logProgressStyle   lipgloss.Style
	logSuccessStyle    lipgloss.Style
	logErrorStyle      lipgloss.Style
	metricLabelStyle   lipgloss.Style
	metricValueStyle   lipgloss.Style
	footerKeyStyle     lipgloss.Style
	footerDescStyle    lipgloss.Style
	statusRunningStyle lipgloss.Style
	statusPausedStyle  lipgloss.Style
	statusDoneStyle    lipgloss.Style
	statusErrorStyle   lipgloss.Style
	chartStyle         lipgloss.Style
	cpuSparklineStyle  lipgloss.Style
	memSparklineStyle  lipgloss.Style

	// barColor is the solid fill of the progress bar, empty without colors.
	barColor string
)

func init() {
	initTUIStyles()
}

// initTUIStyles rebuilds all TUI styles from the current ui palette.
// Called at package init and again from Run() after InitTheme has been invoked.
func initTUIStyles() {
	t := ui.Dashboard()

	panelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Foreground(t.Text)

	headerStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Accent).
		Padding(0, 1)

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(t.Accent)
	versionStyle = lipgloss.NewStyle().Foreground(t.Dim)
	elapsedStyle = lipgloss.NewStyle().Foreground(t.Accent)

	logTimeStyle = lipgloss.NewStyle().Foreground(t.Dim)
	logRunStyle = lipgloss.NewStyle().Foreground(t.Info)
	logProgressStyle = lipgloss.NewStyle().Foreground(t.Accent)
	logSuccessStyle = lipgloss.NewStyle().Foreground(t.Success)
	logErrorStyle = lipgloss.NewStyle().Foreground(t.Error)

	metricLabelStyle = lipgloss.NewStyle().Foreground(t.Dim)
	metricValueStyle = lipgloss.NewStyle().Foreground(t.Accent).Bold(true)

	footerKeyStyle = lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	footerDescStyle = lipgloss.NewStyle().Foreground(t.Dim)

	statusRunningStyle = lipgloss.NewStyle().Foreground(t.Success).Bold(true)
	statusPausedStyle = lipgloss.NewStyle().Foreground(t.Warning).Bold(true)
	statusDoneStyle = lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	statusErrorStyle = lipgloss.NewStyle().Foreground(t.Error).Bold(true)

	chartStyle = lipgloss.NewStyle().Foreground(t.Accent)
	cpuSparklineStyle = lipgloss.NewStyle().Foreground(t.Accent)
	memSparklineStyle = lipgloss.NewStyle().Foreground(t.Warning)

	barColor = ""
	if c, ok := t.Accent.(lipgloss.Color); ok {
		barColor = string(c)
	}
}
