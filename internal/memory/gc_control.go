package memory

import (
	"runtime"
	"runtime/debug"

	"github.com/rs/zerolog"
)

// GCPolicy is the --gc setting.
type GCPolicy string

const (
	// GCAuto pauses the collector only for bounds of at least GCAutoThreshold.
	GCAuto GCPolicy = "auto"
	// GCAggressive pauses the collector for every run.
	GCAggressive GCPolicy = "aggressive"
	// GCDisabled leaves the collector alone.
	GCDisabled GCPolicy = "disabled"
)

// GCAutoThreshold is the smallest bound for which GCAuto pauses the collector.
// Smaller runs allocate too little for collection pauses to matter.
const GCAutoThreshold uint64 = 100_000_000

// heapHeadroom multiplies the heap in use at Pause into the soft memory limit
// kept while the collector is off, when no explicit ceiling is given.
const heapHeadroom = 3

// ValidGCPolicy reports whether s names a GC policy.
func ValidGCPolicy(s string) bool {
	switch GCPolicy(s) {
	case GCAuto, GCAggressive, GCDisabled:
		return true
	}
	return false
}

// GCStats is what the runtime did between Pause and Resume.
type GCStats struct {
	HeapAlloc    uint64
	TotalAlloc   uint64
	NumGC        uint32
	PauseTotalNs uint64
}

// GCPause turns the collector off for the duration of one large sieve run.
// The sieve keeps its prime list and scratch buffers alive until the end, so
// collections during the run only rescan memory that cannot be freed yet.
// A soft memory limit stays in place so the runtime still collects before
// the process outgrows its budget.
type GCPause struct {
	policy  GCPolicy
	enabled bool
	ceiling int64
	logger  zerolog.Logger

	prevPercent int
	prevLimit   int64
	before      runtime.MemStats
	after       runtime.MemStats
}

// GCOption configures a GCPause.
type GCOption func(*GCPause)

// WithGCLogger sets the logger receiving pause and resume events.
func WithGCLogger(l zerolog.Logger) GCOption {
	return func(p *GCPause) { p.logger = l }
}

// WithSoftLimit caps the heap at bytes while paused. Zero keeps the default
// of heapHeadroom times the memory in use when the pause starts.
func WithSoftLimit(bytes uint64) GCOption {
	return func(p *GCPause) {
		if bytes > 0 && bytes <= 1<<62 {
			p.ceiling = int64(bytes)
		}
	}
}

// NewGCPause decides from policy and the bound n whether a run pauses the
// collector. Unknown policies behave like GCDisabled.
func NewGCPause(policy string, n uint64, opts ...GCOption) *GCPause {
	p := &GCPause{policy: GCPolicy(policy), logger: zerolog.Nop()}
	switch p.policy {
	case GCAggressive:
		p.enabled = true
	case GCAuto:
		p.enabled = n >= GCAutoThreshold
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Enabled reports whether Pause will turn the collector off.
func (p *GCPause) Enabled() bool { return p.enabled }

// Pause turns the collector off and installs the soft memory limit.
func (p *GCPause) Pause() {
	if !p.enabled {
		return
	}
	runtime.ReadMemStats(&p.before)
	limit := p.ceiling
	if limit == 0 {
		limit = int64(p.before.Sys) * heapHeadroom
	}
	p.prevPercent = debug.SetGCPercent(-1)
	p.prevLimit = debug.SetMemoryLimit(-1)
	if limit > 0 {
		debug.SetMemoryLimit(limit)
	}
	p.logger.Debug().
		Str("policy", string(p.policy)).
		Uint64("heap_bytes", p.before.HeapAlloc).
		Int64("soft_limit_bytes", limit).
		Msg("gc paused")
}

// Resume restores the collector settings found by Pause, runs one collection
// and returns what the runtime did in between. It returns zero stats when
// the pause was not enabled.
func (p *GCPause) Resume() GCStats {
	if !p.enabled {
		return GCStats{}
	}
	runtime.ReadMemStats(&p.after)
	debug.SetGCPercent(p.prevPercent)
	debug.SetMemoryLimit(p.prevLimit)
	runtime.GC()

	s := GCStats{
		HeapAlloc:    p.after.HeapAlloc,
		TotalAlloc:   p.after.TotalAlloc - p.before.TotalAlloc,
		NumGC:        p.after.NumGC - p.before.NumGC,
		PauseTotalNs: p.after.PauseTotalNs - p.before.PauseTotalNs,
	}
	p.logger.Debug().
		Str("policy", string(p.policy)).
		Uint64("heap_bytes", s.HeapAlloc).
		Uint64("allocated_bytes", s.TotalAlloc).
		Uint32("gc_cycles", s.NumGC).
		Msg("gc resumed")
	return s
}
