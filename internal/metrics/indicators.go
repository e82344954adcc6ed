package metrics

import (
	"fmt"
	"math"
	"time"
)

// Indicators summarizes a generated prime list.
type Indicators struct {
	Count           int
	Largest         uint64
	PrimesPerSecond float64
	// Density is the fraction of integers below n that are prime.
	Density float64
	// Ratio compares Count with the n/ln(n) approximation.
	Ratio      float64
	MaxGap     uint64
	MaxGapAt   uint64 // the prime that opens the largest gap
	TwinPairs  int
	AverageGap float64
}

// Compute derives indicators from primes, the ascending primes below n,
// generated in duration. It returns nil for an empty list.
func Compute(primes []uint64, n uint64, duration time.Duration) *Indicators {
	if len(primes) == 0 {
		return nil
	}
	ind := &Indicators{
		Count:   len(primes),
		Largest: primes[len(primes)-1],
		Density: float64(len(primes)) / float64(n),
	}
	if secs := duration.Seconds(); secs > 0 {
		ind.PrimesPerSecond = float64(len(primes)) / secs
	}
	if n > 2 {
		ind.Ratio = float64(len(primes)) / (float64(n) / math.Log(float64(n)))
	}
	for i := 1; i < len(primes); i++ {
		gap := primes[i] - primes[i-1]
		if gap > ind.MaxGap {
			ind.MaxGap, ind.MaxGapAt = gap, primes[i-1]
		}
		if gap == 2 {
			ind.TwinPairs++
		}
	}
	if len(primes) > 1 {
		ind.AverageGap = float64(ind.Largest-primes[0]) / float64(len(primes)-1)
	}
	return ind
}

// FormatRate renders a per-second rate with a metric suffix.
func FormatRate(perSecond float64) string {
	switch {
	case perSecond >= 1e9:
		return fmt.Sprintf("%.2fG/s", perSecond/1e9)
	case perSecond >= 1e6:
		return fmt.Sprintf("%.2fM/s", perSecond/1e6)
	case perSecond >= 1e3:
		return fmt.Sprintf("%.2fK/s", perSecond/1e3)
	}
	return fmt.Sprintf("%.0f/s", perSecond)
}
