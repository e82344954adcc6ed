package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// givenFlags records the flags set on the command line. Flags with a short
// alias are registered twice, so a setting is given when any of its names is.
type givenFlags map[string]bool

func collectGivenFlags(fs *flag.FlagSet) givenFlags {
	given := givenFlags{}
	fs.Visit(func(f *flag.Flag) { given[f.Name] = true })
	return given
}

func (g givenFlags) any(names ...string) bool {
	for _, name := range names {
		if g[name] {
			return true
		}
	}
	return false
}

// lookupEnv returns the value of EnvPrefix+key, or "" when unset.
func lookupEnv(key string) string {
	return os.Getenv(EnvPrefix + key)
}

// envBinding ties one PRIMECALC_ variable to the setting it overrides and to
// the flags that take precedence over it.
type envBinding struct {
	key   string
	flags []string
	set   func(*AppConfig, string) error
}

// bindEnv builds a setter that parses a value into the field chosen by dst.
func bindEnv[T any](dst func(*AppConfig) *T, parse func(string) (T, error)) func(*AppConfig, string) error {
	return func(c *AppConfig, v string) error {
		parsed, err := parse(v)
		if err != nil {
			return err
		}
		*dst(c) = parsed
		return nil
	}
}

func asIs(v string) (string, error)  { return v, nil }
func lower(v string) (string, error) { return strings.ToLower(v), nil }

func parseUint(v string) (uint64, error) { return strconv.ParseUint(v, 10, 64) }

// parseSwitch accepts the usual spellings of a boolean variable.
func parseSwitch(v string) (bool, error) {
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off":
		return false, nil
	}
	return false, fmt.Errorf("not a boolean: %q", v)
}

var envBindings = []envBinding{
	{"N", []string{"n"}, func(c *AppConfig, v string) error {
		n, err := ParseBound(v)
		if err == nil {
			c.N, c.NSet = n, true
		}
		return err
	}},
	{"WORKERS", []string{"workers", "w"}, bindEnv(func(c *AppConfig) *int { return &c.Workers }, strconv.Atoi)},
	{"SEGMENT", []string{"segment"}, bindEnv(func(c *AppConfig) *uint64 { return &c.SegmentSize }, parseUint)},
	{"TIMEOUT", []string{"timeout"}, bindEnv(func(c *AppConfig) *time.Duration { return &c.Timeout }, time.ParseDuration)},
	{"OUTPUT", []string{"output", "o"}, bindEnv(func(c *AppConfig) *string { return &c.OutputFile }, asIs)},
	{"FORMAT", []string{"format"}, bindEnv(func(c *AppConfig) *string { return &c.Format }, lower)},
	{"MEMORY_LIMIT", []string{"memory-limit"}, bindEnv(func(c *AppConfig) *string { return &c.MemoryLimit }, asIs)},
	{"GC", []string{"gc"}, bindEnv(func(c *AppConfig) *string { return &c.GCMode }, lower)},
	{"LOG_LEVEL", []string{"log-level"}, bindEnv(func(c *AppConfig) *string { return &c.LogLevel }, asIs)},
	{"METRICS_ADDR", []string{"metrics-addr"}, bindEnv(func(c *AppConfig) *string { return &c.MetricsAddr }, asIs)},
	{"CALIBRATION_PROFILE", []string{"calibration-profile"}, bindEnv(func(c *AppConfig) *string { return &c.CalibrationProfile }, asIs)},
	{"PARALLEL", []string{"parallel", "p"}, bindEnv(func(c *AppConfig) *bool { return &c.Parallel }, parseSwitch)},
	{"PROGRESS", []string{"progress", "P"}, bindEnv(func(c *AppConfig) *bool { return &c.Progress }, parseSwitch)},
	{"QUIET", []string{"quiet", "q"}, bindEnv(func(c *AppConfig) *bool { return &c.Quiet }, parseSwitch)},
	{"NO_COLOR", []string{"no-color"}, bindEnv(func(c *AppConfig) *bool { return &c.NoColor }, parseSwitch)},
	{"TUI", []string{"tui"}, bindEnv(func(c *AppConfig) *bool { return &c.TUI }, parseSwitch)},
}

// applyEnvOverrides copies PRIMECALC_ variables into config for every
// setting whose flags were not given. A value that does not parse leaves the
// setting as the file or the default had it.
func applyEnvOverrides(config *AppConfig, given givenFlags) {
	for _, b := range envBindings {
		if given.any(b.flags...) {
			continue
		}
		if v := lookupEnv(b.key); v != "" {
			_ = b.set(config, v)
		}
	}
}
