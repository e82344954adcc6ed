package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var heldPrimes []uint64

func TestReadRuntime(t *testing.T) {
	before := ReadRuntime()
	heldPrimes = make([]uint64, 1<<17)
	after := ReadRuntime()

	assert.NotZero(t, after.HeapInUse)
	assert.GreaterOrEqual(t, after.HeapReserved, after.HeapInUse)
	assert.Positive(t, after.Goroutines)

	d := after.Since(before)
	assert.GreaterOrEqual(t, d.Allocated, uint64(8<<17), "the prime slice should be counted")
	assert.Equal(t, after.HeapInUse, d.HeapInUse)
}

func TestRuntimeSample_Since(t *testing.T) {
	t.Parallel()
	prev := RuntimeSample{Allocated: 100, GCCycles: 2, GCPause: time.Millisecond, HeapInUse: 10}
	cur := RuntimeSample{Allocated: 350, GCCycles: 5, GCPause: 4 * time.Millisecond, HeapInUse: 40, Goroutines: 9}

	want := RuntimeSample{Allocated: 250, GCCycles: 3, GCPause: 3 * time.Millisecond, HeapInUse: 40, Goroutines: 9}
	assert.Equal(t, want, cur.Since(prev))
}
