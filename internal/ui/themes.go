package ui

import (
	"os"
	"sync/atomic"

	"github.com/charmbracelet/lipgloss"
)

// Palette is the set of ANSI sequences used by the line-oriented output:
// prime listings, totals, warnings and the calibration tables.
type Palette struct {
	Name string

	Count     string // totals and prime counts
	Bound     string // the bound n and other inputs
	Detail    string // tuning values, sizes, workers
	OK        string
	Warn      string
	Fail      string
	Bold      string
	Underline string
	Reset     string
}

// Names of the two palettes.
const (
	PaletteColor = "color"
	PalettePlain = "plain"
)

// ColorPalette is the default 256-color palette.
var ColorPalette = Palette{
	Name:      PaletteColor,
	Count:     "\033[38;5;39m",
	Bound:     "\033[38;5;141m",
	Detail:    "\033[38;5;245m",
	OK:        "\033[38;5;82m",
	Warn:      "\033[38;5;220m",
	Fail:      "\033[38;5;196m",
	Bold:      "\033[1m",
	Underline: "\033[4m",
	Reset:     "\033[0m",
}

// PlainPalette emits no escape sequences.
var PlainPalette = Palette{Name: PalettePlain}

var active atomic.Pointer[Palette]

func init() {
	p := ColorPalette
	active.Store(&p)
}

// CurrentPalette returns the palette in use.
func CurrentPalette() Palette { return *active.Load() }

// SetPalette replaces the palette in use. Tests use it to restore state.
func SetPalette(p Palette) { active.Store(&p) }

// InitTheme selects the plain palette when noColor is set or NO_COLOR is
// present in the environment (https://no-color.org/), and the color palette
// otherwise.
func InitTheme(noColor bool) {
	if _, set := os.LookupEnv("NO_COLOR"); noColor || set {
		SetPalette(PlainPalette)
		return
	}
	SetPalette(ColorPalette)
}

// DashboardPalette holds the lipgloss colors of the TUI dashboard.
type DashboardPalette struct {
	Text    lipgloss.TerminalColor
	Border  lipgloss.TerminalColor
	Accent  lipgloss.TerminalColor
	Dim     lipgloss.TerminalColor
	Info    lipgloss.TerminalColor
	Success lipgloss.TerminalColor
	Warning lipgloss.TerminalColor
	Error   lipgloss.TerminalColor
}

var (
	colorDashboard = DashboardPalette{
		Text:    lipgloss.Color("#E0E0E0"),
		Border:  lipgloss.Color("#3B82F6"),
		Accent:  lipgloss.Color("#38BDF8"),
		Dim:     lipgloss.Color("#6B7280"),
		Info:    lipgloss.Color("#A78BFA"),
		Success: lipgloss.Color("#4ADE80"),
		Warning: lipgloss.Color("#FACC15"),
		Error:   lipgloss.Color("#F87171"),
	}
	plainDashboard = DashboardPalette{
		Text:    lipgloss.NoColor{},
		Border:  lipgloss.NoColor{},
		Accent:  lipgloss.NoColor{},
		Dim:     lipgloss.NoColor{},
		Info:    lipgloss.NoColor{},
		Success: lipgloss.NoColor{},
		Warning: lipgloss.NoColor{},
		Error:   lipgloss.NoColor{},
	}
)

// Dashboard returns the TUI colors matching the current palette.
func Dashboard() DashboardPalette {
	if CurrentPalette().Name == PalettePlain {
		return plainDashboard
	}
	return colorDashboard
}
