package sieve

import (
	"slices"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestSegmentedEqualsBase_PropertyBased checks that segmentation never changes
// the result, whatever the bound and segment width.
func TestSegmentedEqualsBase_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 60
	properties := gopter.NewProperties(parameters)

	properties.Property("Segmented(n, size) == Sieve(n)", prop.ForAll(
		func(n, size uint64) bool {
			return slices.Equal(Segmented(n, size, nil), Sieve(n))
		},
		gen.UInt64Range(0, 200_000),
		gen.UInt64Range(1, 5_000),
	))

	properties.TestingRun(t)
}

// TestParallelEqualsSegmented_PropertyBased checks that the worker count and
// scheduling never change the result.
func TestParallelEqualsSegmented_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 40
	properties := gopter.NewProperties(parameters)

	properties.Property("Parallel(n, workers, size) == Segmented(n, size)", prop.ForAll(
		func(n, size uint64, workers int) bool {
			got, err := Parallel(n, ParallelOptions{Workers: workers, SegmentSize: size})
			if err != nil {
				t.Logf("Parallel(%d) error: %v", n, err)
				return false
			}
			return slices.Equal(got, Segmented(n, size, nil))
		},
		gen.UInt64Range(0, 150_000),
		gen.UInt64Range(1, 10_000),
		gen.IntRange(1, 8),
	))

	properties.TestingRun(t)
}

// TestSieveSegment_PropertyBased checks arbitrary windows against a
// reference sieve, including ones that start on even and odd values.
func TestSieveSegment_PropertyBased(t *testing.T) {
	const limit = 1_100_000
	ref := Sieve(limit)

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("SieveSegment(low, high) == primes of [low, high)", prop.ForAll(
		func(low, width uint64) bool {
			high := low + width
			got, err := SieveSegment(low, high, BasePrimes(high), make([]byte, OddCount(low, high)))
			if err != nil {
				t.Logf("SieveSegment(%d, %d) error: %v", low, high, err)
				return false
			}
			return slices.Equal(got, primesInRange(ref, low, high))
		},
		gen.UInt64Range(0, 1_000_000),
		gen.UInt64Range(0, 5_000),
	))

	properties.TestingRun(t)
}

// TestOutputIsPrime_PropertyBased checks every element of the output against
// trial division and checks strict ordering.
func TestOutputIsPrime_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 30
	properties := gopter.NewProperties(parameters)

	properties.Property("every element is prime and ascending", prop.ForAll(
		func(n uint64) bool {
			primes := Segmented(n, 4_096, nil)
			for i, p := range primes {
				if p >= n || !IsPrime(p) {
					return false
				}
				if i > 0 && p <= primes[i-1] {
					return false
				}
			}
			return true
		},
		gen.UInt64Range(0, 50_000),
	))

	properties.TestingRun(t)
}
