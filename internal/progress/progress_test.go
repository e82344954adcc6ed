package progress

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestCounter_ConcurrentAdd(t *testing.T) {
	t.Parallel()
	var c Counter
	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				c.Add(1)
			}
		}()
	}
	wg.Wait()
	if got := c.Load(); got != 64_000 {
		t.Errorf("Load() = %d, want 64000", got)
	}
}

// TestObserver_DeltasSumToTotal verifies that no tick is lost: whatever the
// interleaving between producers and the observer, the deltas add up to the
// final counter value and every delta is positive.
func TestObserver_DeltasSumToTotal(t *testing.T) {
	t.Parallel()
	for _, interval := range []time.Duration{0, time.Microsecond, time.Millisecond} {
		var c Counter
		var sum atomic.Int64
		var nonPositive atomic.Int64
		obs := NewObserver(&c, func(delta int) {
			if delta <= 0 {
				nonPositive.Add(1)
			}
			sum.Add(int64(delta))
		}, interval)
		obs.Start()

		var wg sync.WaitGroup
		for w := 0; w < 8; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 500; j++ {
					c.Add(1)
				}
			}()
		}
		wg.Wait()
		obs.Stop()

		if sum.Load() != 4000 {
			t.Errorf("interval %v: sum of deltas = %d, want 4000", interval, sum.Load())
		}
		if nonPositive.Load() != 0 {
			t.Errorf("interval %v: observer reported %d non-positive deltas", interval, nonPositive.Load())
		}
	}
}

func TestObserver_StopIsIdempotent(t *testing.T) {
	t.Parallel()
	var c Counter
	calls := 0
	obs := NewObserver(&c, func(int) { calls++ }, time.Millisecond)
	obs.Start()
	c.Add(3)
	obs.Stop()
	obs.Stop()
	if calls == 0 {
		t.Error("expected at least one callback after Stop flush")
	}
}

func TestObserver_NoGrowthNoCalls(t *testing.T) {
	t.Parallel()
	var c Counter
	calls := 0
	obs := NewObserver(&c, func(int) { calls++ }, time.Millisecond)
	obs.Start()
	time.Sleep(5 * time.Millisecond)
	obs.Stop()
	if calls != 0 {
		t.Errorf("expected no callbacks without counter growth, got %d", calls)
	}
}

func TestFanout(t *testing.T) {
	t.Parallel()

	t.Run("nil when empty", func(t *testing.T) {
		t.Parallel()
		if Fanout() != nil || Fanout(nil, nil) != nil {
			t.Error("Fanout of nothing should be nil")
		}
	})

	t.Run("delivers to all", func(t *testing.T) {
		t.Parallel()
		var a, b int
		cb := Fanout(func(d int) { a += d }, nil, func(d int) { b += d })
		cb(2)
		cb(3)
		if a != 5 || b != 5 {
			t.Errorf("got a=%d b=%d, want 5 and 5", a, b)
		}
	})
}

func TestTracker(t *testing.T) {
	t.Parallel()
	tr := NewTracker(4)
	cb := tr.Callback()

	if tr.Fraction() != 0 {
		t.Errorf("initial Fraction() = %f, want 0", tr.Fraction())
	}
	cb(1)
	cb(1)
	if tr.Percent() != 50 {
		t.Errorf("Percent() = %d, want 50", tr.Percent())
	}
	cb(5)
	if tr.Fraction() != 1 {
		t.Errorf("Fraction() should clamp at 1, got %f", tr.Fraction())
	}
	if tr.Completed() != 7 {
		t.Errorf("Completed() = %d, want 7", tr.Completed())
	}
	if NewTracker(0).Fraction() != 1 {
		t.Error("zero total should count as done")
	}
}

func TestTrackerAdd(t *testing.T) {
	t.Parallel()
	tracker := NewTracker(4)
	if got := tracker.Add(1); got != 0.25 {
		t.Errorf("Add(1) = %v, want 0.25", got)
	}
	if got := tracker.Add(5); got != 1 {
		t.Errorf("Add(5) = %v, want clamped 1", got)
	}
	if tracker.Completed() != 6 {
		t.Errorf("Completed() = %d, want 6", tracker.Completed())
	}
}
