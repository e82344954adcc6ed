package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Namespace prefixes every exported metric.
const Namespace = "primecalc"

// RunCollector records generation runs as Prometheus metrics. It satisfies
// orchestration.RunObserver and is safe for concurrent use.
type RunCollector struct {
	runs     *prometheus.CounterVec
	active   *prometheus.GaugeVec
	segments *prometheus.CounterVec
	primes   *prometheus.GaugeVec
	duration *prometheus.HistogramVec
	bound    prometheus.Gauge
}

// NewRunCollector creates the run metrics. They are not registered until
// Register is called.
func NewRunCollector() *RunCollector {
	return &RunCollector{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "runs_total",
			Help:      "Generation runs by algorithm and outcome.",
		}, []string{"algorithm", "status"}),
		active: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "active_runs",
			Help:      "Generation runs in progress.",
		}, []string{"algorithm"}),
		segments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "segments_completed_total",
			Help:      "Sieve segments completed.",
		}, []string{"algorithm"}),
		primes: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "primes_generated",
			Help:      "Primes produced by the last successful run.",
		}, []string{"algorithm"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall-clock duration of generation runs.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"algorithm"}),
		bound: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "upper_bound",
			Help:      "Exclusive upper bound of the latest run.",
		}),
	}
}

// Register adds every run metric to reg.
func (c *RunCollector) Register(reg prometheus.Registerer) error {
	for _, col := range []prometheus.Collector{c.runs, c.active, c.segments, c.primes, c.duration, c.bound} {
		if err := reg.Register(col); err != nil {
			return err
		}
	}
	return nil
}

// RunStarted marks a run as active.
func (c *RunCollector) RunStarted(name string, n uint64) {
	c.active.WithLabelValues(name).Inc()
	c.bound.Set(float64(n))
}

// SegmentsCompleted counts finished segments.
func (c *RunCollector) SegmentsCompleted(name string, delta int) {
	c.segments.WithLabelValues(name).Add(float64(delta))
}

// RunFinished records the outcome of a run.
func (c *RunCollector) RunFinished(name string, primes int, duration time.Duration, err error) {
	c.active.WithLabelValues(name).Dec()
	c.duration.WithLabelValues(name).Observe(duration.Seconds())
	status := "success"
	if err != nil {
		status = "failure"
	} else {
		c.primes.WithLabelValues(name).Set(float64(primes))
	}
	c.runs.WithLabelValues(name, status).Inc()
}
