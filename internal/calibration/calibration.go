// Package calibration benchmarks sieve tuning on the current machine and
// caches the fastest settings in a JSON profile reused by later runs.
package calibration

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/agbru/primecalc/internal/config"
	apperrors "github.com/agbru/primecalc/internal/errors"
	"github.com/agbru/primecalc/internal/logging"
	"github.com/agbru/primecalc/internal/sieve"
)

// DefaultCalibrationN is the bound sieved for every measurement.
const DefaultCalibrationN = 20_000_000

// MaxProfileAge is how long a cached profile is trusted.
const MaxProfileAge = 30 * 24 * time.Hour

// calibrationResult is one timed configuration.
type calibrationResult struct {
	SegmentSize uint64
	Workers     int
	Duration    time.Duration
	Count       int
	Err         error
}

// Options configures a calibration session. Zero fields select defaults.
type Options struct {
	N           uint64
	Sizes       []uint64
	WorkerCount []int
	Logger      logging.Logger

	// run replaces the parallel driver in tests.
	run func(n uint64, opts sieve.ParallelOptions) ([]uint64, error)
}

func (o Options) withDefaults() Options {
	if o.N == 0 {
		o.N = DefaultCalibrationN
	}
	if len(o.Sizes) == 0 {
		o.Sizes = GenerateSegmentSizes()
	}
	if len(o.WorkerCount) == 0 {
		o.WorkerCount = GenerateWorkerCounts()
	}
	if o.Logger == nil {
		o.Logger = logging.NewNopLogger()
	}
	if o.run == nil {
		o.run = sieve.Parallel
	}
	return o
}

// measure times every segment size with the most workers, then every worker
// count with the fastest size. The context is checked between measurements;
// a measurement that has started always completes.
func measure(ctx context.Context, opts Options) (sizes, workers []calibrationResult, err error) {
	maxWorkers := opts.WorkerCount[len(opts.WorkerCount)-1]
	expected := -1

	timeOne := func(size uint64, w int) calibrationResult {
		start := time.Now()
		primes, err := opts.run(opts.N, sieve.ParallelOptions{Workers: w, SegmentSize: size, Logger: opts.Logger})
		res := calibrationResult{SegmentSize: size, Workers: w, Duration: time.Since(start), Count: len(primes), Err: err}
		if err == nil {
			if expected < 0 {
				expected = res.Count
			} else if res.Count != expected {
				res.Err = fmt.Errorf("found %d primes, earlier runs found %d", res.Count, expected)
			}
		}
		opts.Logger.Debug("calibration measurement",
			logging.Uint64("segment", size), logging.Int("workers", w),
			logging.Duration("duration", res.Duration), logging.Int("primes", res.Count))
		return res
	}

	for _, size := range opts.Sizes {
		if err := ctx.Err(); err != nil {
			return sizes, nil, err
		}
		sizes = append(sizes, timeOne(size, maxWorkers))
	}
	best, ok := fastest(sizes)
	if !ok {
		return sizes, nil, fmt.Errorf("every segment size failed: %w", sizes[0].Err)
	}

	for _, w := range opts.WorkerCount {
		if err := ctx.Err(); err != nil {
			return sizes, workers, err
		}
		if w == maxWorkers {
			workers = append(workers, best)
			continue
		}
		workers = append(workers, timeOne(best.SegmentSize, w))
	}
	return sizes, workers, nil
}

// fastest returns the quickest successful result.
func fastest(results []calibrationResult) (calibrationResult, bool) {
	var best calibrationResult
	found := false
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		if !found || r.Duration < best.Duration {
			best, found = r, true
		}
	}
	return best, found
}

// Calibrate benchmarks the sieve and returns a profile holding the fastest
// segment size and worker count.
func Calibrate(ctx context.Context, opts Options) (*CalibrationProfile, error) {
	profile, _, _, err := calibrate(ctx, opts.withDefaults())
	return profile, err
}

func calibrate(ctx context.Context, opts Options) (*CalibrationProfile, []calibrationResult, []calibrationResult, error) {
	start := time.Now()
	sizes, workers, err := measure(ctx, opts)
	if err != nil {
		return nil, sizes, workers, err
	}
	bestSize, _ := fastest(sizes)
	bestWorkers, ok := fastest(workers)
	if !ok {
		bestWorkers = bestSize
	}

	profile := NewProfile()
	profile.OptimalSegmentSize = bestSize.SegmentSize
	profile.OptimalWorkers = bestWorkers.Workers
	profile.CalibrationN = opts.N
	profile.CalibrationTime = time.Since(start).Round(time.Millisecond).String()
	return profile, sizes, workers, nil
}

// RunCalibration runs a full calibration, prints the result tables to out,
// saves the profile, and returns the exit code.
func RunCalibration(ctx context.Context, cfg config.AppConfig, out io.Writer, logger logging.Logger) int {
	opts := Options{N: cfg.N, Logger: logger}.withDefaults()
	if cfg.SegmentSize != 0 {
		opts.Sizes = []uint64{cfg.SegmentSize}
	}
	if cfg.Workers != 0 {
		opts.WorkerCount = []int{cfg.Workers}
	}

	fmt.Fprintf(out, "Calibrating on n=%d (%d segment sizes, %d worker counts)...\n",
		opts.N, len(opts.Sizes), len(opts.WorkerCount))

	profile, sizes, workers, err := calibrate(ctx, opts)
	if len(sizes) > 0 {
		best, _ := fastest(sizes)
		writeSweep(out, "Segment size", sizes, best, func(r calibrationResult) string {
			return fmt.Sprintf("%d", r.SegmentSize)
		})
	}
	if len(workers) > 0 {
		best, _ := fastest(workers)
		writeSweep(out, "Workers", workers, best, func(r calibrationResult) string {
			return fmt.Sprintf("%d", r.Workers)
		})
	}
	if err != nil {
		if apperrors.IsContextError(err) {
			fmt.Fprintln(out, "Calibration interrupted.")
			return apperrors.ExitErrorCanceled
		}
		logger.Error("calibration failed", err)
		return apperrors.ExitErrorGeneric
	}

	path := ResolveProfilePath(cfg)
	if err := profile.SaveProfile(path); err != nil {
		logger.Warn("could not save calibration profile", logging.String("path", path), logging.Err(err))
	} else {
		fmt.Fprintf(out, "Profile saved to %s\n", path)
	}
	writeChoice(out, profile)
	return apperrors.ExitSuccess
}

// LoadCachedCalibration fills the sizing fields still left at zero from a
// valid, fresh cached profile. It reports whether a profile was applied.
func LoadCachedCalibration(cfg config.AppConfig, logger logging.Logger) (config.AppConfig, bool) {
	if cfg.SegmentSize != 0 && cfg.Workers != 0 {
		return cfg, false
	}
	path := ResolveProfilePath(cfg)
	profile, err := loadProfile(path)
	if err != nil {
		return cfg, false
	}
	if !profile.IsValid() || profile.IsStale(MaxProfileAge) {
		logger.Debug("ignoring calibration profile", logging.String("path", path))
		return cfg, false
	}

	if cfg.SegmentSize == 0 && profile.OptimalSegmentSize != 0 {
		cfg.SegmentSize = profile.OptimalSegmentSize
	}
	if cfg.Workers == 0 && profile.OptimalWorkers != 0 {
		cfg.Workers = profile.OptimalWorkers
	}
	logger.Debug("applied calibration profile", logging.String("path", path),
		logging.Uint64("segment", cfg.SegmentSize), logging.Int("workers", cfg.Workers))
	return cfg, true
}
