package sieve

import "github.com/agbru/primecalc/internal/progress"

// Segmented returns every prime below n using the sequential segmented sieve.
//
// [0, n) is split into SegmentCount(n, segmentSize) consecutive segments of
// segmentSize values (the last may be shorter). Base primes are computed once
// and a single scratch buffer is reused for every segment, so working memory
// stays O(√n + segmentSize) apart from the output. A segmentSize of 0 selects
// DefaultSegmentSize.
//
// onProgress, when non-nil, is called with 1 after each segment completes,
// degenerate ones included, so the deltas sum to the segment count.
func Segmented(n, segmentSize uint64, onProgress progress.Callback) []uint64 {
	if n <= 2 {
		return nil
	}
	segmentSize = normalizeSegmentSize(segmentSize)

	basePrimes := BasePrimes(n)
	scratch := make([]byte, ScratchSize(segmentSize))
	primes := make([]uint64, 0, EstimatePrimeCount(n))

	segments := SegmentCount(n, segmentSize)
	for i := 0; i < segments; i++ {
		low, high := SegmentBounds(i, n, segmentSize)
		primes = appendSegment(primes, low, high, basePrimes, scratch)
		if onProgress != nil {
			onProgress(1)
		}
	}
	return primes
}
