// Package metrics computes run indicators and exports run and runtime
// statistics to Prometheus.
package metrics

import (
	"runtime"
	"time"
)

// RuntimeSample is one reading of the Go runtime's memory accounting, as
// shown in the dashboard's metrics panel.
type RuntimeSample struct {
	HeapInUse    uint64
	HeapReserved uint64
	// Allocated is cumulative; Since turns it into a delta.
	Allocated  uint64
	GCCycles   uint32
	GCPause    time.Duration
	Goroutines int
}

// ReadRuntime samples the runtime. It stops the world briefly and should not
// be called more than a few times per second.
func ReadRuntime() RuntimeSample {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return RuntimeSample{
		HeapInUse:    ms.HeapAlloc,
		HeapReserved: ms.HeapSys,
		Allocated:    ms.TotalAlloc,
		GCCycles:     ms.NumGC,
		GCPause:      time.Duration(ms.PauseTotalNs),
		Goroutines:   runtime.NumGoroutine(),
	}
}

// Since returns s with its cumulative counters taken relative to prev.
func (s RuntimeSample) Since(prev RuntimeSample) RuntimeSample {
	s.Allocated -= prev.Allocated
	s.GCCycles -= prev.GCCycles
	s.GCPause -= prev.GCPause
	return s
}
