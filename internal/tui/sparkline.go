package tui

// sparkLevels maps eight intensity levels to Unicode block elements.
var sparkLevels = [8]rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// RingBuffer keeps the most recent samples of a series, oldest first.
type RingBuffer struct {
	samples []float64
	limit   int
}

// NewRingBuffer creates a buffer holding up to capacity samples.
func NewRingBuffer(capacity int) *RingBuffer {
	limit := max(capacity, 1)
	return &RingBuffer{samples: make([]float64, 0, limit), limit: limit}
}

// Push appends v, dropping the oldest sample when full.
func (r *RingBuffer) Push(v float64) {
	if len(r.samples) == r.limit {
		copy(r.samples, r.samples[1:])
		r.samples = r.samples[:r.limit-1]
	}
	r.samples = append(r.samples, v)
}

func (r *RingBuffer) Len() int { return len(r.samples) }
func (r *RingBuffer) Cap() int { return r.limit }

// Last returns the newest sample, 0 when empty.
func (r *RingBuffer) Last() float64 {
	if n := len(r.samples); n > 0 {
		return r.samples[n-1]
	}
	return 0
}

// Slice returns a copy of the samples, oldest first.
func (r *RingBuffer) Slice() []float64 {
	if len(r.samples) == 0 {
		return nil
	}
	return append([]float64(nil), r.samples...)
}

// Resize changes the capacity, keeping the newest samples that fit.
func (r *RingBuffer) Resize(capacity int) {
	r.limit = max(capacity, 1)
	if extra := len(r.samples) - r.limit; extra > 0 {
		r.samples = append(r.samples[:0], r.samples[extra:]...)
	}
}

func (r *RingBuffer) Reset() { r.samples = r.samples[:0] }

// RenderSparkline draws percentages (0..100) as one row of block glyphs.
func RenderSparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	out := make([]rune, len(values))
	for i, v := range values {
		out[i] = sparkLevels[min(int(clampPercent(v)/100*7), 7)]
	}
	return string(out)
}

// brailleBits[col][row] is the dot bit of a braille cell (2 columns, 4 rows).
var brailleBits = [2][4]rune{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// RenderBrailleChart plots percentages (0..100) as a dot chart of rows text
// lines and width cells, two samples per cell, newest on the right.
func RenderBrailleChart(values []float64, width, rows int) []string {
	if width <= 0 || rows <= 0 || len(values) == 0 {
		return nil
	}
	dotRows, dotCols := rows*4, width*2
	if len(values) > dotCols {
		values = values[len(values)-dotCols:]
	}
	offset := dotCols - len(values)

	grid := make([][]rune, rows)
	for r := range grid {
		grid[r] = make([]rune, width)
		for c := range grid[r] {
			grid[r][c] = 0x2800
		}
	}
	for i, v := range values {
		x := offset + i
		y := dotRows - 1 - int(clampPercent(v)/100*float64(dotRows-1))
		grid[y/4][x/2] |= brailleBits[x%2][y%4]
	}

	lines := make([]string, rows)
	for r := range grid {
		lines[r] = string(grid[r])
	}
	return lines
}

func clampPercent(v float64) float64 {
	return min(max(v, 0), 100)
}
