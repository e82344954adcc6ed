package orchestration

import (
	"github.com/agbru/primecalc/internal/config"
	"github.com/agbru/primecalc/internal/progress"
	"github.com/agbru/primecalc/internal/sieve"
)

// Runner is one algorithm able to produce the primes below n.
type Runner interface {
	// Name is the display name used in tables and logs.
	Name() string
	// Algorithm identifies the underlying driver.
	Algorithm() sieve.Algorithm
	// ProgressTotal is the number of progress units a run on n reports,
	// zero when the algorithm reports none.
	ProgressTotal(n uint64) int64
	// Generate runs the algorithm. onProgress may be nil.
	Generate(n uint64, onProgress progress.Callback) ([]uint64, error)
}

// sieveRunner forces one algorithm of a sieve.Generator.
type sieveRunner struct {
	gen *sieve.Generator
	alg sieve.Algorithm
}

// NewRunner returns a Runner executing alg through gen.
func NewRunner(gen *sieve.Generator, alg sieve.Algorithm) Runner {
	return sieveRunner{gen: gen, alg: alg}
}

func (r sieveRunner) Name() string { return DisplayName(r.alg) }

func (r sieveRunner) Algorithm() sieve.Algorithm { return r.alg }

func (r sieveRunner) ProgressTotal(n uint64) int64 {
	if !r.alg.Segmented() || n <= 2 {
		return 0
	}
	return int64(sieve.SegmentCount(n, r.gen.SegmentSize()))
}

func (r sieveRunner) Generate(n uint64, onProgress progress.Callback) ([]uint64, error) {
	return r.gen.Run(r.alg, n, onProgress)
}

// DisplayName returns the human-readable name of alg.
func DisplayName(alg sieve.Algorithm) string {
	switch alg {
	case sieve.AlgorithmBase:
		return "Base Sieve"
	case sieve.AlgorithmSegmented:
		return "Segmented Sieve"
	case sieve.AlgorithmParallel:
		return "Parallel Sieve"
	}
	return "None"
}

// GetRunnersToRun determines which algorithms run for cfg. In verify mode
// every algorithm runs on the same bound, in ascending order of algorithm;
// otherwise the single algorithm selected by sieve.Choose runs.
func GetRunnersToRun(cfg config.AppConfig, gen *sieve.Generator) []Runner {
	if cfg.Verify {
		return []Runner{
			NewRunner(gen, sieve.AlgorithmBase),
			NewRunner(gen, sieve.AlgorithmSegmented),
			NewRunner(gen, sieve.AlgorithmParallel),
		}
	}
	return []Runner{NewRunner(gen, sieve.Choose(cfg.N, cfg.Parallel))}
}
