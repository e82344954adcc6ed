package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSecurityMiddleware_MetricsEndpoint(t *testing.T) {
	t.Parallel()
	s := New("127.0.0.1:0", NewMetrics(), nil)

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{"scrape", http.MethodGet, "/metrics", http.StatusOK},
		{"health", http.MethodGet, "/healthz", http.StatusOK},
		{"preflight", http.MethodOptions, "/metrics", http.StatusNoContent},
		{"write rejected", http.MethodPost, "/metrics", http.StatusMethodNotAllowed},
	}
	wantHeaders := map[string]string{
		"X-Content-Type-Options":  "nosniff",
		"X-Frame-Options":         "DENY",
		"Referrer-Policy":         "strict-origin-when-cross-origin",
		"Content-Security-Policy": "default-src 'none'; frame-ancestors 'none'",
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := httptest.NewRecorder()
			s.http.Handler.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, http.NoBody))

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			for h, want := range wantHeaders {
				if got := rec.Header().Get(h); got != want {
					t.Errorf("%s = %q, want %q", h, got, want)
				}
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
				t.Errorf("default config should allow any scraper origin, got %q", got)
			}
		})
	}
}

func TestSecurityMiddleware_PreflightSkipsHandler(t *testing.T) {
	t.Parallel()
	called := false
	handler := SecurityMiddleware(DefaultSecurityConfig(), func(http.ResponseWriter, *http.Request) { called = true })

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodOptions, "/metrics", http.NoBody))

	if called {
		t.Error("preflight reached the metrics handler")
	}
	if got := rec.Header().Get("Access-Control-Allow-Methods"); got != "GET, OPTIONS" {
		t.Errorf("Access-Control-Allow-Methods = %q", got)
	}
}

func TestSecurityMiddleware_Origins(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		config  SecurityConfig
		origin  string
		wantACO string
	}{
		{"listed dashboard", SecurityConfig{EnableCORS: true, AllowedOrigins: []string{"http://grafana:3000"}}, "http://grafana:3000", "http://grafana:3000"},
		{"unlisted origin", SecurityConfig{EnableCORS: true, AllowedOrigins: []string{"http://grafana:3000"}}, "http://evil.example", ""},
		{"no origin header", SecurityConfig{EnableCORS: true, AllowedOrigins: []string{"http://grafana:3000"}}, "", ""},
		{"cors disabled", SecurityConfig{AllowedOrigins: []string{"*"}}, "http://grafana:3000", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			handler := SecurityMiddleware(tt.config, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
			req := httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rec := httptest.NewRecorder()
			handler(rec, req)

			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantACO {
				t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, tt.wantACO)
			}
			if rec.Code != http.StatusOK {
				t.Errorf("status = %d, want 200", rec.Code)
			}
		})
	}
}
