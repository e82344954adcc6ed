package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/agbru/primecalc/internal/logging"
	"github.com/agbru/primecalc/internal/metrics"
)

func TestMetrics_ActiveRequestsGauge(t *testing.T) {
	t.Parallel()
	m := NewMetrics()
	m.IncrementActiveRequests()
	m.IncrementActiveRequests()
	m.DecrementActiveRequests()
	if got := testutil.ToFloat64(m.activeRequests); got != 1 {
		t.Errorf("active requests = %v, want 1", got)
	}
}

func TestServer_CountsRequestsByPath(t *testing.T) {
	t.Parallel()
	m := NewMetrics()
	s := New("127.0.0.1:0", m, nil)

	for _, path := range []string{"/healthz", "/healthz", "/metrics"} {
		s.http.Handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, http.NoBody))
	}

	if got := testutil.ToFloat64(m.requestsTotal.WithLabelValues("/healthz")); got != 2 {
		t.Errorf("/healthz requests = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.requestsTotal.WithLabelValues("/metrics")); got != 1 {
		t.Errorf("/metrics requests = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.activeRequests); got != 0 {
		t.Errorf("active requests = %v after all requests returned", got)
	}
}

func TestServer_ExposesRunMetrics(t *testing.T) {
	t.Parallel()
	m := NewMetrics()
	run := metrics.NewRunCollector()
	if err := m.Register(run); err != nil {
		t.Fatal(err)
	}
	run.RunStarted("Parallel Segmented Sieve", 1_000_000)
	run.SegmentsCompleted("Parallel Segmented Sieve", 10)
	run.RunFinished("Parallel Segmented Sieve", 78_498, 40*time.Millisecond, nil)
	run.RunStarted("Segmented Sieve", 1_000_000)
	run.RunFinished("Segmented Sieve", 0, time.Millisecond, errors.New("arena exhausted"))

	rec := httptest.NewRecorder()
	m.WritePrometheus(rec, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))
	body := rec.Body.String()

	for _, want := range []string{
		`primecalc_primes_generated{algorithm="Parallel Segmented Sieve"} 78498`,
		`primecalc_segments_completed_total{algorithm="Parallel Segmented Sieve"} 10`,
		`primecalc_runs_total{algorithm="Segmented Sieve",status="failure"} 1`,
		`primecalc_upper_bound 1e+06`,
		"go_goroutines",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestServer_RegisterTwiceFails(t *testing.T) {
	t.Parallel()
	m := NewMetrics()
	run := metrics.NewRunCollector()
	if err := m.Register(run); err != nil {
		t.Fatal(err)
	}
	if err := m.Register(run); err == nil {
		t.Error("expected a duplicate registration error")
	}
}

func TestServer_StartServesMetricsAndHealth(t *testing.T) {
	m := NewMetrics()
	run := metrics.NewRunCollector()
	if err := m.Register(run); err != nil {
		t.Fatal(err)
	}
	run.RunStarted("Base Sieve", 100)
	run.RunFinished("Base Sieve", 25, time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	addr, err := New("127.0.0.1:0", m, logging.NewNopLogger()).Start(ctx)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	for path, want := range map[string]string{
		"/healthz": "ok",
		"/metrics": `primecalc_primes_generated{algorithm="Base Sieve"} 25`,
	} {
		resp, err := http.Get("http://" + addr.String() + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s status = %d", path, resp.StatusCode)
		}
		if !strings.Contains(string(body), want) {
			t.Errorf("GET %s body missing %q", path, want)
		}
	}
}

func TestServer_StartFailsOnBusyAddress(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	addr, err := New("127.0.0.1:0", NewMetrics(), nil).Start(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := New(addr.String(), NewMetrics(), nil).Start(ctx); err == nil {
		t.Error("expected an error binding an address already in use")
	}
}
