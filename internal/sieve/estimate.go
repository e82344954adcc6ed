package sieve

import "math"

// isqrt returns ⌊√n⌋ exactly for every uint64.
func isqrt(n uint64) uint64 {
	r := uint64(math.Sqrt(float64(n)))
	// float64 rounding can be off by one in either direction near 2^64.
	for r > 0 && (r > math.MaxUint32 || r*r > n) {
		r--
	}
	for r+1 <= math.MaxUint32 && (r+1)*(r+1) <= n {
		r++
	}
	return r
}

// EstimatePrimeCount returns a capacity hint for the number of primes below n,
// based on the prime number theorem with a 10% margin.
func EstimatePrimeCount(n uint64) int {
	if n <= 2 {
		return 0
	}
	if n < 17 {
		return 6
	}
	f := float64(n)
	return int(f / math.Log(f) * 1.1)
}

// segmentCapacity returns a capacity hint for the primes in [low, high).
func segmentCapacity(low, high uint64) int {
	if high <= low || high <= 2 {
		return 0
	}
	if high < 64 {
		return 18
	}
	return int(float64(high-low)/math.Log(float64(high))*1.2) + 1
}

// SegmentCount returns ⌈n / segmentSize⌉, the number of segments covering
// [0, n). segmentSize must be positive.
func SegmentCount(n, segmentSize uint64) int {
	c := n / segmentSize
	if n%segmentSize != 0 {
		c++
	}
	return int(c)
}

// SegmentBounds returns the half-open range [low, high) of segment index.
func SegmentBounds(index int, n, segmentSize uint64) (low, high uint64) {
	low = uint64(index) * segmentSize
	if segmentSize >= n-low {
		return low, n
	}
	return low, low + segmentSize
}

// OddCount returns how many scratch bytes SieveSegment needs for [low, high):
// the number of odd integers in [max(low, 3), high).
func OddCount(low, high uint64) int {
	oddLow := firstOdd(low)
	if oddLow >= high {
		return 0
	}
	return int((high - oddLow + 1) / 2)
}

// ScratchSize returns a scratch length large enough for any segment of the
// given width.
func ScratchSize(segmentSize uint64) int {
	return int(segmentSize/2 + 1)
}

// firstOdd returns the smallest odd integer that is ≥ max(low, 3).
func firstOdd(low uint64) uint64 {
	if low < 3 {
		return 3
	}
	if low%2 == 0 {
		return low + 1
	}
	return low
}

// normalizeSegmentSize maps a zero size to DefaultSegmentSize.
func normalizeSegmentSize(segmentSize uint64) uint64 {
	if segmentSize == 0 {
		return DefaultSegmentSize
	}
	return segmentSize
}

// EstimateMemory returns an approximate peak byte count for running alg on n.
// It counts the sieve arrays and the output slices, not the Go runtime.
func EstimateMemory(n uint64, alg Algorithm, workers int, segmentSize uint64) uint64 {
	if n <= 2 {
		return 0
	}
	segmentSize = normalizeSegmentSize(segmentSize)
	output := uint64(EstimatePrimeCount(n)) * 8
	base := uint64(EstimatePrimeCount(isqrt(n)+1))*8 + (isqrt(n)+1)/2
	scratch := uint64(ScratchSize(segmentSize))

	switch alg {
	case AlgorithmBase:
		return n/2 + output
	case AlgorithmSegmented:
		return base + scratch + output
	case AlgorithmParallel:
		if workers <= 0 {
			workers = 1
		}
		if segs := SegmentCount(n, segmentSize); workers > segs {
			workers = segs
		}
		// Per-segment lists and the concatenated result coexist briefly.
		return base + uint64(workers)*scratch + 2*output
	}
	return 0
}
