package config

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	apperrors "github.com/agbru/primecalc/internal/errors"
)

// FileConfig is the YAML configuration file. Absent keys leave the
// corresponding setting untouched; unknown keys are rejected.
//
//	n: 100000000
//	parallel: true
//	workers: 8
//	segment_size: 262144
//	timeout: 2m
//	memory_limit: 4GiB
type FileConfig struct {
	N                  *uint64 `yaml:"n"`
	Parallel           *bool   `yaml:"parallel"`
	Workers            *int    `yaml:"workers"`
	SegmentSize        *uint64 `yaml:"segment_size"`
	Progress           *bool   `yaml:"progress"`
	Quiet              *bool   `yaml:"quiet"`
	Output             *string `yaml:"output"`
	Format             *string `yaml:"format"`
	Timeout            *string `yaml:"timeout"`
	MemoryLimit        *string `yaml:"memory_limit"`
	GC                 *string `yaml:"gc"`
	LogLevel           *string `yaml:"log_level"`
	NoColor            *bool   `yaml:"no_color"`
	MetricsAddr        *string `yaml:"metrics_addr"`
	CalibrationProfile *string `yaml:"calibration_profile"`

	timeout time.Duration
}

// LoadFile reads and decodes a YAML configuration file.
func LoadFile(path string) (FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FileConfig{}, apperrors.NewConfigError("reading config file: %v", err)
	}
	return decodeFile(data, path)
}

func decodeFile(data []byte, name string) (FileConfig, error) {
	var fc FileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return FileConfig{}, apperrors.NewConfigError("parsing %s: %v", name, err)
	}
	if fc.Timeout != nil {
		d, err := time.ParseDuration(*fc.Timeout)
		if err != nil {
			return FileConfig{}, apperrors.NewConfigError("parsing %s: invalid timeout %q", name, *fc.Timeout)
		}
		fc.timeout = d
	}
	return fc, nil
}

// apply copies every value present in the file into config unless the
// matching flag was given explicitly.
func (fc FileConfig) apply(config *AppConfig, given givenFlags) {
	if fc.N != nil && !given.any("n") {
		config.N, config.NSet = *fc.N, true
	}
	if fc.Parallel != nil && !given.any("parallel", "p") {
		config.Parallel = *fc.Parallel
	}
	if fc.Workers != nil && !given.any("workers", "w") {
		config.Workers = *fc.Workers
	}
	if fc.SegmentSize != nil && !given.any("segment") {
		config.SegmentSize = *fc.SegmentSize
	}
	if fc.Progress != nil && !given.any("progress", "P") {
		config.Progress = *fc.Progress
	}
	if fc.Quiet != nil && !given.any("quiet", "q") {
		config.Quiet = *fc.Quiet
	}
	if fc.Output != nil && !given.any("output", "o") {
		config.OutputFile = *fc.Output
	}
	if fc.Format != nil && !given.any("format") {
		config.Format = strings.ToLower(*fc.Format)
	}
	if fc.Timeout != nil && !given.any("timeout") {
		config.Timeout = fc.timeout
	}
	if fc.MemoryLimit != nil && !given.any("memory-limit") {
		config.MemoryLimit = *fc.MemoryLimit
	}
	if fc.GC != nil && !given.any("gc") {
		config.GCMode = strings.ToLower(*fc.GC)
	}
	if fc.LogLevel != nil && !given.any("log-level") {
		config.LogLevel = *fc.LogLevel
	}
	if fc.NoColor != nil && !given.any("no-color") {
		config.NoColor = *fc.NoColor
	}
	if fc.MetricsAddr != nil && !given.any("metrics-addr") {
		config.MetricsAddr = *fc.MetricsAddr
	}
	if fc.CalibrationProfile != nil && !given.any("calibration-profile") {
		config.CalibrationProfile = *fc.CalibrationProfile
	}
}
