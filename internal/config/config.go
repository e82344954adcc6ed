// Package config parses and validates primecalc's configuration.
//
// Values are resolved in this order, highest priority first: command-line
// flags, PRIMECALC_* environment variables, the YAML file named by --config
// (or PRIMECALC_CONFIG), then built-in defaults. Zero values for workers and
// segment size mean "choose automatically" and are filled in later by
// ApplyAdaptiveDefaults or a cached calibration profile.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/agbru/primecalc/internal/errors"
	"github.com/agbru/primecalc/internal/memory"
)

const (
	// EnvPrefix prefixes every environment variable read by the CLI.
	EnvPrefix = "PRIMECALC_"

	// DefaultTimeout bounds a whole run, including output.
	DefaultTimeout = 10 * time.Minute

	// DefaultCalibrationProfile is the file name of the cached calibration
	// profile, resolved against the user's home directory.
	DefaultCalibrationProfile = ".primecalc_calibration.json"
)

// Output formats.
const (
	FormatText   = "text"
	FormatCount  = "count"
	FormatBitmap = "bitmap"
)

// AppConfig holds the fully resolved configuration of one invocation.
type AppConfig struct {
	// N is the exclusive upper bound. NSet is false when neither a flag, a
	// positional argument, the environment nor the config file supplied it,
	// in which case the CLI prompts for it.
	N    uint64
	NSet bool

	Parallel    bool
	Workers     int
	SegmentSize uint64

	Progress   bool
	Quiet      bool
	OutputFile string
	Format     string
	NoColor    bool
	LogLevel   string

	Timeout     time.Duration
	MemoryLimit string
	GCMode      string

	Verify             bool
	TUI                bool
	Calibrate          bool
	CalibrationProfile string
	MetricsAddr        string
	ConfigFile         string
}

// ParseConfig parses args (without the program name) into an AppConfig.
// Usage and parse errors are written to errorWriter. flag.ErrHelp is
// returned unchanged so callers can exit cleanly on --help.
func ParseConfig(programName string, args []string, errorWriter io.Writer) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)

	config := AppConfig{}
	fs.Uint64Var(&config.N, "n", 0, "Exclusive upper bound: list every prime below N.")
	fs.BoolVar(&config.Parallel, "parallel", false, "Use the parallel sieve (only honored for N ≥ 100,000,000).")
	fs.BoolVar(&config.Parallel, "p", false, "Shorthand for --parallel.")
	fs.IntVar(&config.Workers, "workers", 0, "Parallel worker count (0 = one per CPU).")
	fs.IntVar(&config.Workers, "w", 0, "Shorthand for --workers.")
	fs.Uint64Var(&config.SegmentSize, "segment", 0, "Segment width for the segmented sieves (0 = automatic).")
	fs.BoolVar(&config.Progress, "progress", false, "Display a progress bar for segmented runs.")
	fs.BoolVar(&config.Progress, "P", false, "Shorthand for --progress.")
	fs.BoolVar(&config.Quiet, "quiet", false, "Print only the prime count.")
	fs.BoolVar(&config.Quiet, "q", false, "Shorthand for --quiet.")
	fs.StringVar(&config.OutputFile, "output", "", "Write the primes to this file (.gz, .zst and .lz4 are compressed).")
	fs.StringVar(&config.OutputFile, "o", "", "Shorthand for --output.")
	fs.StringVar(&config.Format, "format", FormatText, "Output format: text, count or bitmap.")
	fs.DurationVar(&config.Timeout, "timeout", DefaultTimeout, "Maximum duration of the run.")
	fs.BoolVar(&config.Verify, "verify", false, "Run every applicable algorithm and compare their results.")
	fs.BoolVar(&config.TUI, "tui", false, "Show an interactive progress view.")
	fs.StringVar(&config.MetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address during the run.")
	fs.StringVar(&config.MemoryLimit, "memory-limit", "", "Refuse runs whose estimated memory exceeds this (e.g. 512M, 8GiB).")
	fs.StringVar(&config.GCMode, "gc", string(memory.GCAuto), "Garbage collector policy: auto, aggressive or disabled.")
	fs.StringVar(&config.ConfigFile, "config", "", "YAML configuration file.")
	fs.StringVar(&config.LogLevel, "log-level", "info", "Log level: debug, info, warn or error.")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colored output.")
	fs.BoolVar(&config.Calibrate, "calibrate", false, "Benchmark segment sizes and save the fastest.")
	fs.StringVar(&config.CalibrationProfile, "calibration-profile", "", "Path of the calibration profile.")

	fs.Usage = func() {
		fmt.Fprintf(errorWriter, "Usage: %s [flags] [N]\n\nList every prime below N.\n\nFlags:\n", programName)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return AppConfig{}, err
		}
		return AppConfig{}, apperrors.NewConfigError("%v", err)
	}

	given := collectGivenFlags(fs)
	config.NSet = given["n"]
	switch fs.NArg() {
	case 0:
	case 1:
		if config.NSet {
			return AppConfig{}, apperrors.NewConfigError("N given both as -n and as an argument")
		}
		n, err := ParseBound(fs.Arg(0))
		if err != nil {
			return AppConfig{}, err
		}
		config.N, config.NSet = n, true
	default:
		return AppConfig{}, apperrors.NewConfigError("unexpected arguments: %s", strings.Join(fs.Args()[1:], " "))
	}
	// A positional N outranks the file and the environment like -n does.
	given["n"] = config.NSet

	if config.ConfigFile == "" {
		config.ConfigFile = lookupEnv("CONFIG")
	}
	if config.ConfigFile != "" {
		file, err := LoadFile(config.ConfigFile)
		if err != nil {
			return AppConfig{}, err
		}
		file.apply(&config, given)
	}
	applyEnvOverrides(&config, given)

	if err := config.Validate(); err != nil {
		fmt.Fprintln(errorWriter, "Error:", err)
		return AppConfig{}, err
	}
	return config, nil
}

// ParseBound parses N, accepting underscores and commas as digit separators.
func ParseBound(s string) (uint64, error) {
	clean := strings.NewReplacer("_", "", ",", "").Replace(strings.TrimSpace(s))
	n, err := strconv.ParseUint(clean, 10, 64)
	if err != nil {
		return 0, apperrors.NewConfigError("invalid N %q: must be a non-negative integer", s)
	}
	return n, nil
}

// Validate checks the semantic consistency of the configuration.
func (c AppConfig) Validate() error {
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("timeout must be positive, got %s", c.Timeout)
	}
	if c.Workers < 0 {
		return apperrors.NewConfigError("workers must be ≥ 0, got %d", c.Workers)
	}
	switch c.Format {
	case FormatText, FormatCount, FormatBitmap:
	default:
		return apperrors.NewConfigError("unknown format %q (want text, count or bitmap)", c.Format)
	}
	if c.Format == FormatBitmap && c.OutputFile == "" && !c.Verify {
		return apperrors.NewConfigError("--format bitmap requires --output")
	}
	if !memory.ValidGCPolicy(c.GCMode) {
		return apperrors.NewConfigError("unknown GC mode %q (want auto, aggressive or disabled)", c.GCMode)
	}
	if c.MemoryLimit != "" {
		if _, err := memory.ParseMemoryLimit(c.MemoryLimit); err != nil {
			return apperrors.NewConfigError("invalid --memory-limit: %v", err)
		}
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled":
	default:
		return apperrors.NewConfigError("unknown log level %q", c.LogLevel)
	}
	if c.Verify && c.TUI {
		return apperrors.NewConfigError("--verify and --tui cannot be combined")
	}
	return nil
}
