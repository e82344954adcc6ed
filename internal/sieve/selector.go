//go:generate mockgen -source=selector.go -destination=mocks/mock_drivers.go -package=mocks

package sieve

import (
	"os"
	"runtime"

	"github.com/agbru/primecalc/internal/logging"
	"github.com/agbru/primecalc/internal/memory"
	"github.com/agbru/primecalc/internal/progress"
)

// Choose maps a bound and a parallel request to an algorithm. It is a pure
// function; the rules are evaluated in order:
//
//	n ≤ 2                                   → AlgorithmNone
//	parallel and n ≥ ParallelThreshold      → AlgorithmParallel
//	n ≥ SegmentThreshold                    → AlgorithmSegmented
//	otherwise                               → AlgorithmBase
func Choose(n uint64, parallel bool) Algorithm {
	switch {
	case n <= 2:
		return AlgorithmNone
	case parallel && n >= ParallelThreshold:
		return AlgorithmParallel
	case n >= SegmentThreshold:
		return AlgorithmSegmented
	default:
		return AlgorithmBase
	}
}

// ParallelIgnored reports whether a parallel request for n will be silently
// downgraded, so callers can warn about it.
func ParallelIgnored(n uint64, parallel bool) bool {
	return parallel && n > 2 && n < ParallelThreshold
}

// Drivers runs the three algorithms. The default implementation calls the
// package functions; tests substitute a mock to observe routing.
type Drivers interface {
	Base(n uint64) []uint64
	Segmented(n, segmentSize uint64, onProgress progress.Callback) []uint64
	Parallel(n uint64, opts ParallelOptions) ([]uint64, error)
}

type engine struct{}

func (engine) Base(n uint64) []uint64 { return Sieve(n) }

func (engine) Segmented(n, segmentSize uint64, onProgress progress.Callback) []uint64 {
	return Segmented(n, segmentSize, onProgress)
}

func (engine) Parallel(n uint64, opts ParallelOptions) ([]uint64, error) {
	return Parallel(n, opts)
}

// DefaultDrivers returns the Drivers backed by Sieve, Segmented and Parallel.
func DefaultDrivers() Drivers { return engine{} }

// Generator runs Choose and dispatches to the selected driver.
type Generator struct {
	drivers     Drivers
	segmentSize uint64
	workers     int
	arena       *memory.ScratchArena
	logger      logging.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithDrivers replaces the algorithm implementations.
func WithDrivers(d Drivers) Option {
	return func(g *Generator) { g.drivers = d }
}

// WithSegmentSize sets the segment width for both segmented algorithms.
func WithSegmentSize(size uint64) Option {
	return func(g *Generator) { g.segmentSize = size }
}

// WithWorkers sets the parallel worker count.
func WithWorkers(workers int) Option {
	return func(g *Generator) { g.workers = workers }
}

// WithArena sets the scratch arena used by the parallel driver.
func WithArena(arena *memory.ScratchArena) Option {
	return func(g *Generator) { g.arena = arena }
}

// WithLogger sets the logger.
func WithLogger(logger logging.Logger) Option {
	return func(g *Generator) { g.logger = logger }
}

// NewGenerator creates a Generator with default drivers, DefaultSegmentSize
// and one worker per CPU, then applies opts.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		drivers:     DefaultDrivers(),
		segmentSize: DefaultSegmentSize,
		workers:     runtime.NumCPU(),
		logger:      logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// SegmentSize returns the configured segment width.
func (g *Generator) SegmentSize() uint64 { return normalizeSegmentSize(g.segmentSize) }

// Workers returns the configured worker count.
func (g *Generator) Workers() int { return g.workers }

// Generate returns every prime below n using the algorithm Choose selects,
// along with that algorithm. onProgress only fires for the segmented
// algorithms; the plain sieve reports nothing.
func (g *Generator) Generate(n uint64, parallel bool, onProgress progress.Callback) ([]uint64, Algorithm, error) {
	alg := Choose(n, parallel)
	if ParallelIgnored(n, parallel) {
		g.logger.Warn("parallel request ignored below threshold",
			logging.Uint64("n", n),
			logging.Uint64("threshold", ParallelThreshold),
		)
	}
	primes, err := g.Run(alg, n, onProgress)
	return primes, alg, err
}

// Run forces alg for bound n, bypassing Choose. It is how callers compare
// algorithms against each other on the same bound. AlgorithmNone and unknown
// algorithms yield no primes.
func (g *Generator) Run(alg Algorithm, n uint64, onProgress progress.Callback) ([]uint64, error) {
	if n <= 2 {
		return nil, nil
	}
	switch alg {
	case AlgorithmBase:
		return g.drivers.Base(n), nil
	case AlgorithmSegmented:
		return g.drivers.Segmented(n, g.SegmentSize(), onProgress), nil
	case AlgorithmParallel:
		primes, err := g.drivers.Parallel(n, ParallelOptions{
			Workers:     g.workers,
			SegmentSize: g.SegmentSize(),
			OnProgress:  onProgress,
			Arena:       g.arena,
			Logger:      g.logger,
		})
		if err != nil {
			return nil, err
		}
		return primes, nil
	}
	return nil, nil
}

// Generate returns every prime below n with default settings. Warnings,
// such as a parallel request below ParallelThreshold, go to stderr.
func Generate(n uint64, parallel bool, onProgress progress.Callback) ([]uint64, error) {
	logger := logging.NewConsoleLogger(os.Stderr, "warn")
	primes, _, err := NewGenerator(WithLogger(logger)).Generate(n, parallel, onProgress)
	return primes, err
}
