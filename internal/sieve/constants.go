package sieve

// ─────────────────────────────────────────────────────────────────────────────
// Algorithm Selection Constants
// ─────────────────────────────────────────────────────────────────────────────
//
// These values are part of the observable contract: changing them changes
// which algorithm runs for a given bound.

const (
	// SegmentThreshold is the smallest bound handled by the segmented sieve.
	// Below it the plain sieve's N/2-byte array is small enough that
	// segmentation only adds overhead.
	SegmentThreshold = 1_000_000

	// ParallelThreshold is the smallest bound for which a parallel request is
	// honored. Below it worker coordination costs more than it saves.
	ParallelThreshold = 100_000_000

	// DefaultSegmentSize is the width of one segment when the caller does not
	// choose one. A segment needs DefaultSegmentSize/2 scratch bytes, which
	// keeps a worker's buffer inside a typical L2 cache.
	DefaultSegmentSize = 1_000_000

	// ProgressSegmentSize replaces DefaultSegmentSize when progress is
	// displayed, so that small runs still produce a visibly moving bar.
	ProgressSegmentSize = 100_000
)

// Algorithm identifies the driver chosen for a bound.
type Algorithm int

const (
	// AlgorithmNone means the bound has no primes below it.
	AlgorithmNone Algorithm = iota
	// AlgorithmBase is the plain Sieve of Eratosthenes.
	AlgorithmBase
	// AlgorithmSegmented is the sequential segmented sieve.
	AlgorithmSegmented
	// AlgorithmParallel is the parallel segmented sieve.
	AlgorithmParallel
)

// String returns the short algorithm name used in flags, logs and metrics.
func (a Algorithm) String() string {
	switch a {
	case AlgorithmNone:
		return "none"
	case AlgorithmBase:
		return "base"
	case AlgorithmSegmented:
		return "segmented"
	case AlgorithmParallel:
		return "parallel"
	}
	return "unknown"
}

// Segmented reports whether the algorithm works segment by segment and
// therefore reports progress.
func (a Algorithm) Segmented() bool {
	return a == AlgorithmSegmented || a == AlgorithmParallel
}
