package config

import (
	"runtime"

	"github.com/agbru/primecalc/internal/sieve"
)

// Sizing resolution chain (highest priority first):
//   1. CLI flags (--workers, --segment)
//   2. Environment variables (PRIMECALC_WORKERS, PRIMECALC_SEGMENT)
//   3. YAML config file
//   4. Cached calibration profile (~/.primecalc_calibration.json)
//   5. Progress display: the smaller ProgressSegmentSize
//   6. Adaptive hardware estimation (this file)

// ApplyAdaptiveDefaults fills in worker count and segment size when they are
// still zero, preserving any value chosen by an earlier stage.
func ApplyAdaptiveDefaults(cfg AppConfig) AppConfig {
	if cfg.Workers == 0 {
		cfg.Workers = EstimateOptimalWorkers()
	}
	if cfg.SegmentSize == 0 {
		if cfg.Progress {
			cfg.SegmentSize = sieve.ProgressSegmentSize
		} else {
			cfg.SegmentSize = EstimateOptimalSegmentSize()
		}
	}
	return cfg
}

// EstimateOptimalWorkers returns one sieving worker per logical CPU.
// Sieving is memory-bound, so hyperthreads still help a little.
func EstimateOptimalWorkers() int {
	return max(runtime.NumCPU(), 1)
}

// EstimateOptimalSegmentSize provides a heuristic segment width without
// running benchmarks. A segment uses half its width in scratch bytes, and
// the result is chosen to keep that inside a typical L2 cache.
func EstimateOptimalSegmentSize() uint64 {
	wordSize := 32 << (^uint(0) >> 63)

	if wordSize == 64 {
		return sieve.DefaultSegmentSize
	}
	return 262_144 // 128 KiB of scratch on 32-bit targets
}
