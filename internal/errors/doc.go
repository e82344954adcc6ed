// Package apperrors holds the error types of primecalc and their mapping to
// process exit codes. Types that carry a cause implement Unwrap, so callers
// classify errors with errors.Is and errors.As.
package apperrors
