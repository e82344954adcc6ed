package app

import (
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperrors "github.com/agbru/primecalc/internal/errors"
	"github.com/agbru/primecalc/internal/orchestration"
)

// runApp builds and runs the application with an isolated calibration
// profile and no colors, returning the exit code, stdout and stderr.
func runApp(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	profile := filepath.Join(t.TempDir(), "profile.json")
	full := append([]string{"primecalc", "--no-color", "--calibration-profile", profile}, args...)

	var stdout, stderr bytes.Buffer
	application, err := New(full, &stderr, WithInput(strings.NewReader(stdin)))
	if err != nil {
		return ExitCodeForError(err), "", stderr.String()
	}
	code := application.Run(context.Background(), &stdout)
	return code, stdout.String(), stderr.String()
}

func TestHasVersionFlag(t *testing.T) {
	t.Parallel()
	tests := []struct {
		args []string
		want bool
	}{
		{[]string{"--version"}, true},
		{[]string{"-n", "10", "-V"}, true},
		{[]string{"-version"}, true},
		{[]string{"-n", "10"}, false},
		{[]string{"--", "--version"}, false},
		{nil, false},
	}
	for _, tt := range tests {
		if got := HasVersionFlag(tt.args); got != tt.want {
			t.Errorf("HasVersionFlag(%v) = %v, want %v", tt.args, got, tt.want)
		}
	}
}

func TestPrintVersion(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	PrintVersion(&buf)
	if !strings.HasPrefix(buf.String(), "primecalc "+Version) {
		t.Errorf("unexpected version output %q", buf.String())
	}
}

func TestNew_Errors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		args []string
		want int
	}{
		{"help", []string{"primecalc", "--help"}, apperrors.ExitSuccess},
		{"unknown flag", []string{"primecalc", "--bogus"}, apperrors.ExitErrorConfig},
		{"bad bound", []string{"primecalc", "ten"}, apperrors.ExitErrorConfig},
		{"bad format", []string{"primecalc", "--format", "xml", "100"}, apperrors.ExitErrorConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.args, io.Discard)
			if err == nil {
				t.Fatal("expected an error")
			}
			if got := ExitCodeForError(err); got != tt.want {
				t.Errorf("exit code = %d, want %d (err %v)", got, tt.want, err)
			}
		})
	}
}

func TestNew_AppliesAdaptiveDefaults(t *testing.T) {
	t.Parallel()
	profile := filepath.Join(t.TempDir(), "missing.json")
	application, err := New([]string{"primecalc", "--calibration-profile", profile, "100"}, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if application.Config.Workers == 0 || application.Config.SegmentSize == 0 {
		t.Errorf("expected sizing to be filled, got workers=%d segment=%d",
			application.Config.Workers, application.Config.SegmentSize)
	}
}

func TestRun_Quiet(t *testing.T) {
	t.Parallel()
	code, stdout, _ := runApp(t, "", "-q", "100")
	if code != apperrors.ExitSuccess {
		t.Fatalf("exit code %d", code)
	}
	if stdout != "25\n" {
		t.Errorf("stdout = %q, want %q", stdout, "25\n")
	}
}

func TestRun_TextListsPrimes(t *testing.T) {
	t.Parallel()
	code, stdout, stderr := runApp(t, "", "30")
	if code != apperrors.ExitSuccess {
		t.Fatalf("exit code %d: %s", code, stderr)
	}
	want := "Primes less than 30: 2, 3, 5, 7, 11, 13, 17, 19, 23, 29\nTotal primes: 10\n"
	if stdout != want {
		t.Errorf("stdout = %q, want %q", stdout, want)
	}
	if !strings.Contains(stderr, "Done! Largest prime < 30 is 29") {
		t.Errorf("stderr missing summary: %q", stderr)
	}
}

func TestRun_NoPrimes(t *testing.T) {
	t.Parallel()
	code, stdout, _ := runApp(t, "", "2")
	if code != apperrors.ExitSuccess {
		t.Fatalf("exit code %d", code)
	}
	if stdout != "No primes less than 2\n" {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestRun_PromptsForBound(t *testing.T) {
	t.Parallel()
	code, stdout, stderr := runApp(t, "1_000\n", "--format", "count")
	if code != apperrors.ExitSuccess {
		t.Fatalf("exit code %d: %s", code, stderr)
	}
	if !strings.Contains(stderr, "Enter upper bound (n): ") {
		t.Errorf("expected the prompt on stderr, got %q", stderr)
	}
	if stdout != "168\n" {
		t.Errorf("stdout = %q, want %q", stdout, "168\n")
	}
}

func TestRun_PromptRejectsGarbage(t *testing.T) {
	t.Parallel()
	code, _, _ := runApp(t, "lots\n")
	if code != apperrors.ExitErrorConfig {
		t.Errorf("exit code = %d, want %d", code, apperrors.ExitErrorConfig)
	}
}

func TestRun_ParallelIgnoredWarning(t *testing.T) {
	t.Parallel()
	code, _, stderr := runApp(t, "", "-p", "-q", "1000")
	if code != apperrors.ExitSuccess {
		t.Fatalf("exit code %d", code)
	}
	if !strings.Contains(stderr, "--parallel ignored: n=1000 is below threshold 100000000") {
		t.Errorf("expected the parallel warning, got %q", stderr)
	}
}

func TestRun_Verify(t *testing.T) {
	t.Parallel()
	code, stdout, stderr := runApp(t, "", "--verify", "--segment", "1000", "20000")
	if code != apperrors.ExitSuccess {
		t.Fatalf("exit code %d: %s", code, stderr)
	}
	for _, want := range []string{"Base Sieve", "Segmented Sieve", "Parallel Sieve", "Success", "2,262"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("verify output missing %q:\n%s", want, stdout)
		}
	}
}

func TestRun_MemoryLimitExceeded(t *testing.T) {
	t.Parallel()
	code, stdout, stderr := runApp(t, "", "--memory-limit", "1K", "1000000")
	if code != apperrors.ExitErrorGeneric {
		t.Errorf("exit code = %d, want %d", code, apperrors.ExitErrorGeneric)
	}
	if stdout != "" {
		t.Errorf("expected no output, got %q", stdout)
	}
	if !strings.Contains(stderr, "Memory budget exceeded") {
		t.Errorf("expected a memory error, got %q", stderr)
	}
}

func TestRun_WritesCompressedOutput(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "out", "primes.txt.gz")
	code, stdout, stderr := runApp(t, "", "-o", path, "100")
	if code != apperrors.ExitSuccess {
		t.Fatalf("exit code %d: %s", code, stderr)
	}
	if !strings.Contains(stdout, "Total primes: 25") {
		t.Errorf("stdout = %q", stdout)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	zr, err := gzip.NewReader(f)
	if err != nil {
		t.Fatal(err)
	}
	data, err := io.ReadAll(zr)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	if !strings.Contains(text, "# N: 100") || !strings.Contains(text, "Total primes: 25") {
		t.Errorf("unexpected file content:\n%s", text)
	}
	if !strings.Contains(text, "# Run: ") {
		t.Error("expected a run id in the header")
	}
}

func TestEstimateMemory_VerifyAddsRuns(t *testing.T) {
	t.Parallel()
	single := &Application{Config: newTestConfig(10_000_000, false)}
	verify := &Application{Config: newTestConfig(10_000_000, true)}
	if verify.estimateMemory() <= single.estimateMemory() {
		t.Errorf("verify estimate %d should exceed single %d", verify.estimateMemory(), single.estimateMemory())
	}
}

func TestFastestResult(t *testing.T) {
	t.Parallel()
	results := []orchestration.RunResult{
		{Name: "slow", Duration: 3},
		{Name: "failed", Duration: 1, Err: io.ErrUnexpectedEOF},
		{Name: "fast", Duration: 2},
	}
	if got := fastestResult(results); got == nil || got.Name != "fast" {
		t.Errorf("fastestResult = %+v, want fast", got)
	}
	if fastestResult(results[1:2]) != nil {
		t.Error("expected nil when every run failed")
	}
}
