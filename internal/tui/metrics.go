package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/primecalc/internal/format"
	"github.com/agbru/primecalc/internal/metrics"
)

// rateMeter smooths the session's progress rate, in fractions per second.
type rateMeter struct {
	rate float64
	last float64
	at   time.Time
}

// minRateInterval keeps bursts of progress messages from skewing the rate.
const minRateInterval = 50 * time.Millisecond

func (r *rateMeter) observe(progress float64, now time.Time) {
	dt := now.Sub(r.at)
	if dt <= minRateInterval {
		return
	}
	if dp := progress - r.last; dp > 0 {
		instant := dp / dt.Seconds()
		if r.rate == 0 {
			r.rate = instant
		} else {
			r.rate = 0.7*r.rate + 0.3*instant
		}
	}
	r.last, r.at = progress, now
}

// MetricsModel shows the runtime's memory use, the progress rate and, once
// the reference result is known, its indicators.
type MetricsModel struct {
	runtime    metrics.RuntimeSample
	meter      rateMeter
	indicators *metrics.Indicators
	width      int
	height     int
}

// NewMetricsModel creates an empty metrics panel.
func NewMetricsModel() MetricsModel {
	return MetricsModel{meter: rateMeter{at: time.Now()}}
}

// SetSize updates dimensions.
func (m *MetricsModel) SetSize(w, h int) {
	m.width, m.height = w, h
}

// SetRuntime replaces the runtime sample on display.
func (m *MetricsModel) SetRuntime(s metrics.RuntimeSample) { m.runtime = s }

// UpdateProgress feeds the aggregated progress into the rate meter.
func (m *MetricsModel) UpdateProgress(progress float64) {
	m.meter.observe(progress, time.Now())
}

// SetIndicators shows the indicators of the reference result.
func (m *MetricsModel) SetIndicators(ind *metrics.Indicators) { m.indicators = ind }

type metricCell struct{ label, value string }

func (m MetricsModel) cells() []metricCell {
	rate := "-"
	if m.meter.rate > 0 {
		rate = fmt.Sprintf("%.1f%%/s", m.meter.rate*100)
	}
	rt := m.runtime
	cells := []metricCell{
		{"Heap:", format.FormatBytes(rt.HeapInUse)},
		{"Reserved:", format.FormatBytes(rt.HeapReserved)},
		{"Speed:", rate},
		{"Goroutines:", fmt.Sprint(rt.Goroutines)},
		{"GC:", fmt.Sprintf("%d (%.1fms)", rt.GCCycles, float64(rt.GCPause)/float64(time.Millisecond))},
	}
	if ind := m.indicators; ind != nil {
		cells = append(cells,
			metricCell{"Primes:", format.FormatNumber(uint64(ind.Count))},
			metricCell{"Largest:", fmt.Sprint(ind.Largest)},
			metricCell{"Rate:", metrics.FormatRate(ind.PrimesPerSecond)},
			metricCell{"Max gap:", fmt.Sprintf("%d after %d", ind.MaxGap, ind.MaxGapAt)},
			metricCell{"Twins:", format.FormatNumber(uint64(ind.TwinPairs))},
			metricCell{"π(n)·ln n/n:", fmt.Sprintf("%.4f", ind.Ratio)},
		)
	}
	return cells
}

// View lays the cells out two per row.
func (m MetricsModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(" Metrics"))

	colWidth := max((m.width-6)/2, 0)
	cells := m.cells()
	for i := 0; i < len(cells); i += 2 {
		b.WriteString("\n")
		b.WriteString(renderCell(cells[i], colWidth))
		if i+1 < len(cells) {
			b.WriteString(renderCell(cells[i+1], colWidth))
		}
	}

	return panelStyle.
		Width(max(m.width-2, 0)).
		Height(max(m.height-2, 0)).
		Render(b.String())
}

// renderCell pads a label and value to colWidth visible columns.
func renderCell(c metricCell, colWidth int) string {
	s := " " + metricLabelStyle.Render(fmt.Sprintf("%-12s", c.label)) + " " + metricValueStyle.Render(c.value)
	if pad := colWidth - lipgloss.Width(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}
