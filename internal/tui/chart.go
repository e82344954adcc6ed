package tui

import (
	"fmt"
	"strings"
	"time"

	progressbar "github.com/charmbracelet/bubbles/progress"

	"github.com/agbru/primecalc/internal/format"
	"github.com/agbru/primecalc/internal/sysmon"
)

const (
	// sparklineWidth is the space taken by the label and value of a sparkline row.
	sparklineWidth = 17
	// minBarWidth is the narrowest chart that still renders a progress bar.
	minBarWidth = 12
	// minSparklineHeight is the smallest chart height showing sparklines.
	minSparklineHeight = 10
)

// ChartModel renders the aggregated progress bar, a dot chart of progress
// over time, and CPU and memory sparklines.
type ChartModel struct {
	averageProgress float64
	eta             time.Duration
	elapsed         time.Duration
	done            bool
	bar             progressbar.Model
	progressHistory *RingBuffer
	cpuHistory      *RingBuffer
	memHistory      *RingBuffer
	width           int
	height          int
}

// NewChartModel creates an empty chart.
func NewChartModel() ChartModel {
	opts := []progressbar.Option{progressbar.WithoutPercentage()}
	if barColor != "" {
		opts = append(opts, progressbar.WithSolidFill(barColor))
	}
	return ChartModel{
		bar:             progressbar.New(opts...),
		progressHistory: NewRingBuffer(64),
		cpuHistory:      NewRingBuffer(32),
		memHistory:      NewRingBuffer(32),
	}
}

// SetSize updates dimensions and resizes the history buffers to the width.
func (c *ChartModel) SetSize(w, h int) {
	c.width = w
	c.height = h
	c.progressHistory.Resize(max((w-4)*2, 1))
	c.cpuHistory.Resize(max(w-sparklineWidth, 1))
	c.memHistory.Resize(max(w-sparklineWidth, 1))
}

// AddDataPoint records the aggregated progress of the session.
func (c *ChartModel) AddDataPoint(_, average float64, eta time.Duration) {
	c.averageProgress = average
	c.eta = eta
	c.progressHistory.Push(average * 100)
}

// RecordHost appends a host sample to the CPU and memory sparklines.
func (c *ChartModel) RecordHost(h sysmon.Host) {
	c.cpuHistory.Push(h.CPUPercent)
	c.memHistory.Push(h.MemPercent)
}

// SetDone freezes the chart with the final elapsed time.
func (c *ChartModel) SetDone(elapsed time.Duration) {
	c.done = true
	c.elapsed = elapsed
	c.averageProgress = 1
	c.eta = 0
}

// Reset clears every series.
func (c *ChartModel) Reset() {
	c.averageProgress = 0
	c.eta = 0
	c.done = false
	c.elapsed = 0
	c.progressHistory.Reset()
	c.cpuHistory.Reset()
	c.memHistory.Reset()
}

// renderProgressBar returns the bar with its percentage, or "" when the
// panel is too narrow.
func (c ChartModel) renderProgressBar() string {
	inner := c.width - 4
	pct := fmt.Sprintf(" %5.1f%%", c.averageProgress*100)
	barWidth := inner - len(pct)
	if barWidth < minBarWidth {
		return ""
	}
	bar := c.bar
	bar.Width = barWidth
	return bar.ViewAs(c.averageProgress) + pct
}

// View renders the chart panel.
func (c ChartModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(" Progress Chart"))
	if c.done {
		b.WriteString(versionStyle.Render("  done in " + format.FormatExecutionDuration(c.elapsed)))
	} else {
		b.WriteString(versionStyle.Render("  ETA: " + format.FormatETA(c.eta)))
	}

	if bar := c.renderProgressBar(); bar != "" {
		b.WriteString("\n ")
		b.WriteString(bar)
	}

	showSparklines := c.height >= minSparklineHeight
	chartRows := c.height - 4
	if showSparklines {
		chartRows -= 2
	}
	if chartRows > 0 {
		for _, line := range RenderBrailleChart(c.progressHistory.Slice(), max(c.width-4, 1), chartRows) {
			b.WriteString("\n ")
			b.WriteString(chartStyle.Render(line))
		}
	}

	if showSparklines {
		b.WriteString("\n ")
		b.WriteString(metricLabelStyle.Render(fmt.Sprintf("CPU %5.1f%% ", c.cpuHistory.Last())))
		b.WriteString(cpuSparklineStyle.Render(RenderSparkline(c.cpuHistory.Slice())))
		b.WriteString("\n ")
		b.WriteString(metricLabelStyle.Render(fmt.Sprintf("MEM %5.1f%% ", c.memHistory.Last())))
		b.WriteString(memSparklineStyle.Render(RenderSparkline(c.memHistory.Slice())))
	}

	return panelStyle.
		Width(max(c.width-2, 0)).
		Height(max(c.height-2, 0)).
		Render(b.String())
}
