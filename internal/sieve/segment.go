package sieve

import (
	"errors"
	"fmt"
)

// ErrScratchTooSmall is returned by SieveSegment when the scratch buffer
// cannot hold the segment's odd window.
var ErrScratchTooSmall = errors.New("scratch buffer too small for segment")

// SieveSegment returns the primes in [low, high) in ascending order.
//
// basePrimes must hold every odd prime ≤ ⌊√(high-1)⌋ in ascending order; 2
// is handled separately and emitted when low ≤ 2 < high. scratch must hold at
// least OddCount(low, high) bytes and is overwritten: the first OddCount
// bytes are reset before marking, anything beyond is left untouched.
// Degenerate ranges (high ≤ 2, low ≥ high) return an empty result without
// touching scratch.
func SieveSegment(low, high uint64, basePrimes []uint64, scratch []byte) ([]uint64, error) {
	if need := OddCount(low, high); len(scratch) < need {
		return nil, fmt.Errorf("%w: need %d bytes, have %d", ErrScratchTooSmall, need, len(scratch))
	}
	return appendSegment(make([]uint64, 0, segmentCapacity(low, high)), low, high, basePrimes, scratch), nil
}

// appendSegment appends the primes of [low, high) to dst. The caller
// guarantees scratch is large enough.
func appendSegment(dst []uint64, low, high uint64, basePrimes []uint64, scratch []byte) []uint64 {
	if high <= 2 || low >= high {
		return dst
	}
	if low <= 2 {
		dst = append(dst, 2)
	}

	oddLow := firstOdd(low)
	if oddLow >= high {
		return dst
	}
	window := scratch[:(high-oddLow+1)/2]
	for i := range window {
		window[i] = 1
	}

	for _, p := range basePrimes {
		// p² ≥ high: no composite in range has p as its least factor, and the
		// list is ascending. Written as a division to avoid overflow.
		if p > (high-1)/p {
			break
		}
		start := p * p
		if low > start {
			start = (low + p - 1) / p * p
		}
		if start%2 == 0 {
			start += p
		}
		for j := (start - oddLow) / 2; j < uint64(len(window)); j += p {
			window[j] = 0
		}
	}

	return appendSurvivors(dst, window, oddLow)
}
