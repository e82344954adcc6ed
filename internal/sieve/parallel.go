package sieve

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	apperrors "github.com/agbru/primecalc/internal/errors"
	"github.com/agbru/primecalc/internal/logging"
	"github.com/agbru/primecalc/internal/memory"
	"github.com/agbru/primecalc/internal/parallel"
	"github.com/agbru/primecalc/internal/progress"
)

// segmentFunc sieves one segment into a freshly allocated slice.
type segmentFunc func(low, high uint64, basePrimes []uint64, scratch []byte) ([]uint64, error)

// ParallelOptions configures Parallel. The zero value is usable.
type ParallelOptions struct {
	// Workers is the number of sieving goroutines. Zero or negative selects
	// runtime.NumCPU(). It is capped at the number of segments.
	Workers int
	// SegmentSize is the width of one segment. Zero selects
	// DefaultSegmentSize.
	SegmentSize uint64
	// OnProgress receives segment-completion deltas. When nil, no counter is
	// maintained and no observer goroutine is started.
	OnProgress progress.Callback
	// PollInterval is the observer polling period. Zero selects
	// progress.DefaultPollInterval.
	PollInterval time.Duration
	// Arena supplies the per-worker scratch buffers. Nil means an unlimited
	// private arena.
	Arena *memory.ScratchArena
	// Logger receives run diagnostics. Nil discards them.
	Logger logging.Logger

	sieve segmentFunc
}

type segmentWork struct {
	index     int
	low, high uint64
}

type segmentResult struct {
	index  int
	primes []uint64
}

// parallelRun holds the shared state of one Parallel invocation.
type parallelRun struct {
	basePrimes  []uint64
	scratchSize int
	arena       *memory.ScratchArena
	sieve       segmentFunc
	counter     *progress.Counter

	work    chan segmentWork
	results chan segmentResult
	errs    parallel.ErrorCollector
}

// Parallel returns every prime below n using the segmented sieve spread over
// a worker pool.
//
// One producer enqueues segments in ascending order on a bounded channel;
// each worker checks out one scratch buffer for its lifetime and sieves
// whatever it pulls. Results come back in completion order and are slotted
// into a per-segment table, which is concatenated by index once every worker
// has finished. The output is therefore identical to Segmented(n, ...) for
// any worker count and any scheduling.
//
// If any segment fails (scratch budget exhausted, scratch too small, or a
// panic while sieving) the run is aborted: the producer stops, the remaining
// workers drain the queue without sieving, and Parallel returns a
// GenerationError and no primes. A segment that has started always runs to
// completion.
func Parallel(n uint64, opts ParallelOptions) ([]uint64, error) {
	if n <= 2 {
		return nil, nil
	}
	segmentSize := normalizeSegmentSize(opts.SegmentSize)
	segments := SegmentCount(n, segmentSize)

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > segments {
		workers = segments
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	run := &parallelRun{
		basePrimes:  BasePrimes(n),
		scratchSize: ScratchSize(segmentSize),
		arena:       opts.Arena,
		sieve:       opts.sieve,
		work:        make(chan segmentWork, 2*workers),
		results:     make(chan segmentResult, 2*workers),
	}
	if run.arena == nil {
		run.arena = &memory.ScratchArena{}
	}
	if run.sieve == nil {
		run.sieve = SieveSegment
	}

	var observer *progress.Observer
	if opts.OnProgress != nil {
		interval := opts.PollInterval
		if interval <= 0 {
			interval = progress.DefaultPollInterval
		}
		run.counter = &progress.Counter{}
		observer = progress.NewObserver(run.counter, opts.OnProgress, interval)
		observer.Start()
	}

	logger.Debug("parallel sieve started",
		logging.Uint64("n", n),
		logging.Int("workers", workers),
		logging.Int("segments", segments),
		logging.Uint64("segment_size", segmentSize),
	)
	start := time.Now()

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(id int) {
			defer wg.Done()
			run.worker(id)
		}(w)
	}

	go run.produce(n, segmentSize, segments)

	go func() {
		wg.Wait()
		close(run.results)
	}()

	perSegment := make([][]uint64, segments)
	total := 0
	for r := range run.results {
		perSegment[r.index] = r.primes
		total += len(r.primes)
	}

	if observer != nil {
		observer.Stop()
	}

	if err := run.errs.Err(); err != nil {
		logger.Error("parallel sieve aborted", err, logging.Uint64("n", n))
		return nil, apperrors.GenerationError{Algorithm: AlgorithmParallel.String(), Cause: err}
	}

	primes := make([]uint64, 0, total)
	for _, seg := range perSegment {
		primes = append(primes, seg...)
	}

	logger.Debug("parallel sieve finished",
		logging.Uint64("n", n),
		logging.Int("primes", len(primes)),
		logging.Duration("elapsed", time.Since(start)),
	)
	return primes, nil
}

// produce enqueues every segment in ascending order and closes the queue.
// It stops early once a worker has failed.
func (r *parallelRun) produce(n, segmentSize uint64, segments int) {
	defer close(r.work)
	for i := 0; i < segments; i++ {
		if r.errs.Failed() {
			return
		}
		low, high := SegmentBounds(i, n, segmentSize)
		r.work <- segmentWork{index: i, low: low, high: high}
	}
}

// worker owns one scratch buffer for its whole life. After a failure it
// keeps draining the queue so the producer never blocks.
func (r *parallelRun) worker(id int) {
	scratch, err := r.arena.Acquire(r.scratchSize)
	if err != nil {
		r.errs.SetError(apperrors.WrapError(err, "worker %d: acquire scratch", id))
		for range r.work {
		}
		return
	}
	defer scratch.Release()
	buf := scratch.Bytes()

	for w := range r.work {
		if r.errs.Failed() {
			continue
		}
		primes, err := r.sieveOne(w, buf)
		if err != nil {
			r.errs.SetError(err)
			continue
		}
		if r.counter != nil {
			r.counter.Add(1)
		}
		r.results <- segmentResult{index: w.index, primes: primes}
	}
}

func (r *parallelRun) sieveOne(w segmentWork, buf []byte) (primes []uint64, err error) {
	defer func() {
		if p := recover(); p != nil {
			primes = nil
			err = apperrors.SegmentError{Index: w.index, Low: w.low, High: w.high, Cause: fmt.Errorf("panic: %v", p)}
		}
	}()
	primes, err = r.sieve(w.low, w.high, r.basePrimes, buf)
	if err != nil {
		return nil, apperrors.SegmentError{Index: w.index, Low: w.low, High: w.high, Cause: err}
	}
	return primes, nil
}

// ParallelSegmented is Parallel with only the worker count, segment size and
// progress callback set.
func ParallelSegmented(n uint64, workers int, segmentSize uint64, onProgress progress.Callback) ([]uint64, error) {
	return Parallel(n, ParallelOptions{Workers: workers, SegmentSize: segmentSize, OnProgress: onProgress})
}
