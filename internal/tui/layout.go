package tui

// Dashboard geometry, in terminal cells.
const (
	headerRows   = 1
	footerRows   = 1
	minBodyRows  = 4
	logsWidthPct = 60
	// metricsRows fits the runtime cells; the panel grows by three rows once
	// indicators are shown.
	metricsRows = 7
)

// panels is the size of every dashboard panel for one terminal size. The
// logs take the left column; metrics sit above the chart on the right.
type panels struct {
	width    int
	body     int
	logsW    int
	rightW   int
	metricsH int
	chartH   int
}

func computePanels(width, height int) panels {
	body := max(height-headerRows-footerRows, minBodyRows)
	logsW := width * logsWidthPct / 100
	metricsH := min(metricsRows, body/2)
	return panels{
		width:    width,
		body:     body,
		logsW:    logsW,
		rightW:   width - logsW,
		metricsH: metricsH,
		chartH:   body - metricsH,
	}
}
