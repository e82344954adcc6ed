// Package progress carries segment-completion progress from the sieve drivers
// to whatever renders it.
//
// Progress is always reported as a delta: each Callback invocation says how
// many segments completed since the previous invocation, never a running
// total and never a percentage. Concurrent producers share a Counter; an
// Observer turns the counter's growth into deltas so no tick is lost when
// several segments complete between two observations.
package progress
