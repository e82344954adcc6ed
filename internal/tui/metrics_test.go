package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/primecalc/internal/metrics"
)

func TestRateMeter(t *testing.T) {
	t0 := time.Unix(1_700_000_000, 0)
	tests := []struct {
		name     string
		steps    []float64 // progress observed one second apart
		wantRate float64
	}{
		{"first sample sets the rate", []float64{0.2}, 0.2},
		{"smoothed", []float64{0.2, 0.7}, 0.7*0.2 + 0.3*0.5},
		{"stall keeps the rate", []float64{0.2, 0.2}, 0.2},
		{"restart backwards is ignored", []float64{0.6, 0.1}, 0.6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := rateMeter{at: t0}
			for i, p := range tt.steps {
				r.observe(p, t0.Add(time.Duration(i+1)*time.Second))
			}
			if diff := r.rate - tt.wantRate; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("rate = %v, want %v", r.rate, tt.wantRate)
			}
		})
	}
}

func TestRateMeter_IgnoresBursts(t *testing.T) {
	t0 := time.Unix(1_700_000_000, 0)
	r := rateMeter{at: t0}
	r.observe(0.4, t0.Add(10*time.Millisecond))
	if r.rate != 0 || r.last != 0 {
		t.Errorf("update within %v was recorded: %+v", minRateInterval, r)
	}
}

func TestMetricsModel_View(t *testing.T) {
	m := NewMetricsModel()
	m.SetSize(70, 12)
	m.SetRuntime(metrics.RuntimeSample{
		HeapInUse:    48 << 20,
		HeapReserved: 64 << 20,
		GCCycles:     12,
		GCPause:      2500 * time.Microsecond,
		Goroutines:   9,
	})

	view := m.View()
	for _, want := range []string{"Metrics", "48.0 MiB", "64.0 MiB", "12 (2.5ms)", "Goroutines:", "Speed:"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if strings.Contains(view, "Largest:") {
		t.Error("indicators shown before the result is known")
	}
}

func TestMetricsModel_ViewWithIndicators(t *testing.T) {
	m := NewMetricsModel()
	m.SetSize(80, 12)
	m.SetIndicators(metrics.Compute([]uint64{2, 3, 5, 7, 11, 13, 17, 19, 23, 29}, 30, time.Millisecond))

	if got := len(m.cells()); got != 11 {
		t.Fatalf("cells = %d, want 5 runtime and 6 indicator cells", got)
	}
	view := m.View()
	for _, want := range []string{"Primes:", "Largest:", "29", "Twins:", "6 after 23"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestRenderCell_PadsToColumn(t *testing.T) {
	cell := renderCell(metricCell{"Heap:", "1.0 KiB"}, 40)
	if w := lipgloss.Width(cell); w != 40 {
		t.Errorf("width = %d, want 40", w)
	}
	if wide := renderCell(metricCell{"Max gap:", strings.Repeat("9", 50)}, 10); lipgloss.Width(wide) <= 10 {
		t.Error("a value wider than the column should not be cut")
	}
}
