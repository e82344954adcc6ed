package apperrors

import (
	"context"
	"errors"
	"fmt"
)

// Process exit codes.
const (
	ExitSuccess       = 0
	ExitErrorGeneric  = 1
	ExitErrorTimeout  = 2   // --timeout expired before the run finished
	ExitErrorMismatch = 3   // --verify found algorithms disagreeing
	ExitErrorConfig   = 4   // bad flag, env value, config file or prompt input
	ExitErrorCanceled = 130 // SIGINT or SIGTERM
)

// ConfigError is a problem with user input: flags, PRIMECALC_* variables,
// the YAML file or the interactive prompt.
type ConfigError struct {
	Message string
}

func (e ConfigError) Error() string { return e.Message }

// NewConfigError formats a ConfigError.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// GenerationError is a run that was aborted as a whole. No prime list
// accompanies it.
type GenerationError struct {
	Algorithm string // "segmented", "parallel", ...
	Cause     error
}

func (e GenerationError) Error() string {
	if e.Algorithm == "" {
		return e.Cause.Error()
	}
	return fmt.Sprintf("%s sieve failed: %v", e.Algorithm, e.Cause)
}

func (e GenerationError) Unwrap() error { return e.Cause }

// SegmentError identifies the segment [Low, High) a worker could not sieve.
type SegmentError struct {
	Index int
	Low   uint64
	High  uint64
	Cause error
}

func (e SegmentError) Error() string {
	return fmt.Sprintf("segment %d [%d, %d): %v", e.Index, e.Low, e.High, e.Cause)
}

func (e SegmentError) Unwrap() error { return e.Cause }

// MemoryError reports an estimate or allocation over budget. Available and
// Limit are 0 when unknown or unset.
type MemoryError struct {
	Requested uint64
	Available uint64
	Limit     uint64
}

func (e MemoryError) Error() string {
	return fmt.Sprintf("memory error: requested %d bytes, available %d bytes (limit: %d)", e.Requested, e.Available, e.Limit)
}

// WrapError prefixes err with a formatted message, keeping it unwrappable.
// It returns nil for a nil err.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// IsContextError reports whether err stems from context cancellation or
// deadline expiry.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
