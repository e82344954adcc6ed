// Package parallel holds small coordination primitives shared by the
// concurrent sieve drivers.
package parallel

import (
	"sync"
	"sync/atomic"
)

// ErrorCollector records the first non-nil error reported by any of a set of
// goroutines. Later errors are dropped. Failed can be polled cheaply by
// workers that should stop taking new work once something went wrong.
type ErrorCollector struct {
	mu     sync.Mutex
	err    error
	failed atomic.Bool
}

// SetError records err if it is the first non-nil error. Nil is ignored.
func (c *ErrorCollector) SetError(err error) {
	if err == nil {
		return
	}
	c.mu.Lock()
	if c.err == nil {
		c.err = err
		c.failed.Store(true)
	}
	c.mu.Unlock()
}

// Err returns the first recorded error, or nil.
func (c *ErrorCollector) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Failed reports whether an error has been recorded.
func (c *ErrorCollector) Failed() bool {
	return c.failed.Load()
}
