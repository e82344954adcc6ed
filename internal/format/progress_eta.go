package format

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// maxETA caps displayed estimates; anything beyond is noise.
const maxETA = 24 * time.Hour

// ProgressState tracks the completion fraction of several concurrent runs
// and reports their average.
type ProgressState struct {
	mu         sync.Mutex
	numRuns    int
	progresses []float64
}

// NewProgressState creates a state for numRuns runs, all at zero.
func NewProgressState(numRuns int) *ProgressState {
	if numRuns < 0 {
		numRuns = 0
	}
	return &ProgressState{numRuns: numRuns, progresses: make([]float64, numRuns)}
}

// Update records the fraction of run index, clamped to [0, 1]. Out of range
// indices are ignored.
func (ps *ProgressState) Update(index int, value float64) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if index < 0 || index >= len(ps.progresses) {
		return
	}
	ps.progresses[index] = clamp01(value)
}

// CalculateAverage returns the mean fraction over all runs.
func (ps *ProgressState) CalculateAverage() float64 {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return ps.averageLocked()
}

func (ps *ProgressState) averageLocked() float64 {
	if ps.numRuns == 0 {
		return 0
	}
	var sum float64
	for _, p := range ps.progresses {
		sum += p
	}
	return sum / float64(ps.numRuns)
}

// ProgressWithETA extends ProgressState with a completion-rate estimate.
type ProgressWithETA struct {
	*ProgressState
	numRuns      int
	startTime    time.Time
	progressRate float64 // fraction per second
}

// NewProgressWithETA starts the clock for numRuns runs.
func NewProgressWithETA(numRuns int) *ProgressWithETA {
	return &ProgressWithETA{
		ProgressState: NewProgressState(numRuns),
		numRuns:       numRuns,
		startTime:     time.Now(),
	}
}

// UpdateWithETA records a run's fraction and returns the new average with
// the estimated time remaining.
func (p *ProgressWithETA) UpdateWithETA(index int, value float64) (float64, time.Duration) {
	p.Update(index, value)
	avg := p.CalculateAverage()
	if elapsed := time.Since(p.startTime).Seconds(); elapsed > 0 && avg > 0 {
		p.progressRate = avg / elapsed
	}
	return avg, p.GetETA()
}

// GetETA returns the estimated time remaining, zero while unknown.
func (p *ProgressWithETA) GetETA() time.Duration {
	if p.progressRate <= 0 {
		return 0
	}
	remaining := 1 - p.CalculateAverage()
	if remaining <= 0 {
		return 0
	}
	eta := time.Duration(remaining / p.progressRate * float64(time.Second))
	if eta > maxETA || eta < 0 {
		return maxETA
	}
	return eta
}

// FormatETA renders an estimate compactly, e.g. "2m30s" or "1h15m".
func FormatETA(eta time.Duration) string {
	switch {
	case eta <= 0:
		return "calculating..."
	case eta < time.Second:
		return "< 1s"
	case eta < time.Minute:
		return fmt.Sprintf("%ds", int(eta.Seconds()))
	case eta < time.Hour:
		m := int(eta.Minutes())
		if s := int(eta.Seconds()) % 60; s > 0 {
			return fmt.Sprintf("%dm%ds", m, s)
		}
		return fmt.Sprintf("%dm", m)
	default:
		h := int(eta.Hours())
		if m := int(eta.Minutes()) % 60; m > 0 {
			return fmt.Sprintf("%dh%dm", h, m)
		}
		return fmt.Sprintf("%dh", h)
	}
}

// ProgressBar renders a bar of length cells for a fraction in [0, 1].
func ProgressBar(progress float64, length int) string {
	filled := int(clamp01(progress) * float64(length))
	return strings.Repeat("█", filled) + strings.Repeat("░", length-filled)
}

// FormatProgressBarWithETA renders "[bar]  42.0% ETA: 1m3s".
func FormatProgressBarWithETA(progress float64, eta time.Duration, width int) string {
	return fmt.Sprintf("[%s] %5.1f%% ETA: %s", ProgressBar(progress, width), clamp01(progress)*100, FormatETA(eta))
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
