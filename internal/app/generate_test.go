package app

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/agbru/primecalc/internal/cli"
	apperrors "github.com/agbru/primecalc/internal/errors"
	"github.com/agbru/primecalc/internal/orchestration"
	"github.com/agbru/primecalc/internal/progress"
	"github.com/agbru/primecalc/internal/sieve"
)

// callbackRunner records whether the engine was handed a progress callback.
type callbackRunner struct {
	gotCallback bool
}

func (r *callbackRunner) Name() string { return "Segmented Sieve" }
func (r *callbackRunner) Algorithm() sieve.Algorithm { return sieve.AlgorithmSegmented }
func (r *callbackRunner) ProgressTotal(n uint64) int64 { return int64(sieve.SegmentCount(n, 1_000)) }
func (r *callbackRunner) Generate(n uint64, cb progress.Callback) ([]uint64, error) {
	r.gotCallback = cb != nil
	return sieve.Sieve(n), nil
}

func TestProgressReporter(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name            string
		progress, quiet bool
		wantReporter    bool
	}{
		{"progress off", false, false, false},
		{"progress on", true, false, true},
		{"quiet wins", true, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := newTestConfig(50_000, false)
			cfg.Progress, cfg.Quiet = tt.progress, tt.quiet
			a := &Application{Config: cfg}

			reporter := a.progressReporter()
			if !tt.wantReporter {
				if reporter != nil {
					t.Fatalf("expected no reporter, got %T", reporter)
				}
			} else if _, ok := reporter.(cli.CLIProgressReporter); !ok {
				t.Fatalf("expected the CLI reporter, got %T", reporter)
			}
		})
	}
}

func TestGenerateWithoutProgressPassesNilCallback(t *testing.T) {
	t.Parallel()
	a := &Application{Config: newTestConfig(50_000, false)}
	runner := &callbackRunner{}

	results := orchestration.ExecuteRuns(context.Background(), []orchestration.Runner{runner}, 50_000, a.progressReporter(), io.Discard)
	if results[0].Err != nil {
		t.Fatal(results[0].Err)
	}
	if runner.gotCallback {
		t.Error("engine received a progress callback with progress off")
	}
	if results[0].Count() != 5_133 {
		t.Errorf("found %d primes below 50,000, want 5133", results[0].Count())
	}
}

func TestNew_ParsesMemoryLimitOnce(t *testing.T) {
	t.Parallel()
	profile := filepath.Join(t.TempDir(), "profile.json")
	a, err := New([]string{"primecalc", "--calibration-profile", profile, "--memory-limit", "2MiB", "1000"}, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if a.memLimit != 2<<20 {
		t.Errorf("memLimit = %d, want %d", a.memLimit, 2<<20)
	}

	_, err = New([]string{"primecalc", "--calibration-profile", profile, "--memory-limit", "lots", "1000"}, io.Discard)
	var cfgErr apperrors.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Errorf("expected a ConfigError for a bad limit, got %v", err)
	}
}
