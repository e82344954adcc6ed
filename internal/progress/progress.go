package progress

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sys/cpu"
)

// Callback receives the number of segments completed since its previous call.
type Callback func(delta int)

// Counter is a monotonically increasing completed-segment counter shared by
// concurrent workers. It is padded to its own cache line because every
// worker hits it once per segment.
type Counter struct {
	_ cpu.CacheLinePad
	n atomic.Uint64
	_ cpu.CacheLinePad
}

// Add increments the counter by delta.
func (c *Counter) Add(delta uint64) { c.n.Add(delta) }

// Load returns the current count.
func (c *Counter) Load() uint64 { return c.n.Load() }

// DefaultPollInterval is the observer polling period used by the drivers.
const DefaultPollInterval = time.Millisecond

// Observer polls a Counter and forwards its growth to a Callback as deltas.
// The callback is only ever invoked from the observer goroutine, and once
// more from Stop for the final flush, so callbacks need not be concurrency
// safe with respect to each other.
type Observer struct {
	counter  *Counter
	callback Callback
	interval time.Duration

	lastSeen uint64
	stopCh   chan struct{}
	doneCh   chan struct{}
	stopOnce sync.Once
}

// NewObserver creates an observer for counter. An interval of zero makes the
// observer spin with runtime.Gosched between polls.
func NewObserver(counter *Counter, callback Callback, interval time.Duration) *Observer {
	return &Observer{
		counter:  counter,
		callback: callback,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start launches the polling goroutine.
func (o *Observer) Start() {
	go o.loop()
}

func (o *Observer) loop() {
	defer close(o.doneCh)
	var ticker *time.Ticker
	if o.interval > 0 {
		ticker = time.NewTicker(o.interval)
		defer ticker.Stop()
	}
	for {
		o.flush()
		if ticker == nil {
			select {
			case <-o.stopCh:
				return
			default:
				runtime.Gosched()
			}
			continue
		}
		select {
		case <-o.stopCh:
			return
		case <-ticker.C:
		}
	}
}

// flush reports counter growth since the last observation.
func (o *Observer) flush() {
	current := o.counter.Load()
	if current > o.lastSeen {
		delta := current - o.lastSeen
		o.lastSeen = current
		o.callback(int(delta))
	}
}

// Stop terminates the polling goroutine and reports any remaining growth, so
// that the deltas delivered over the observer's lifetime sum to the final
// counter value. Stop is idempotent.
func (o *Observer) Stop() {
	o.stopOnce.Do(func() {
		close(o.stopCh)
		<-o.doneCh
		o.flush()
	})
}

// Fanout returns a Callback delivering each delta to every non-nil callback
// in order. It returns nil when no callback is non-nil, so a fan-out of
// nothing keeps the drivers on their zero-overhead path.
func Fanout(callbacks ...Callback) Callback {
	var live []Callback
	for _, cb := range callbacks {
		if cb != nil {
			live = append(live, cb)
		}
	}
	switch len(live) {
	case 0:
		return nil
	case 1:
		return live[0]
	}
	return func(delta int) {
		for _, cb := range live {
			cb(delta)
		}
	}
}

// Tracker accumulates deltas against a known total. It is safe for
// concurrent use and is what renderers read from.
type Tracker struct {
	total     int64
	completed atomic.Int64
}

// NewTracker creates a tracker expecting total segments.
func NewTracker(total int64) *Tracker {
	return &Tracker{total: total}
}

// Callback returns a Callback that feeds the tracker.
func (t *Tracker) Callback() Callback {
	return func(delta int) { t.completed.Add(int64(delta)) }
}

// Total returns the expected segment count.
func (t *Tracker) Total() int64 { return t.total }

// Completed returns the number of segments reported so far.
func (t *Tracker) Completed() int64 { return t.completed.Load() }

// Fraction returns the completed fraction in [0, 1]. A zero total counts as done.
func (t *Tracker) Fraction() float64 {
	if t.total <= 0 {
		return 1
	}
	f := float64(t.completed.Load()) / float64(t.total)
	if f > 1 {
		return 1
	}
	return f
}

// Percent returns the completed fraction as an integer percentage.
func (t *Tracker) Percent() int {
	return int(t.Fraction() * 100)
}

// Update is a fractional progress snapshot of one run among several, as
// consumed by the CLI and TUI renderers.
type Update struct {
	// Index identifies the run.
	Index int
	// Value is the completed fraction in [0, 1].
	Value float64
}

// Add records delta completed segments and returns the new fraction.
func (t *Tracker) Add(delta int) float64 {
	t.completed.Add(int64(delta))
	return t.Fraction()
}
