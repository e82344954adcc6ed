// Package memory manages the sieve's scratch memory: per-worker segment
// buffers handed out by a budgeted arena, memory limit parsing, and garbage
// collector control for large runs.
package memory
