package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"arclens/internal/application"
	"arclens/internal/domain"
)

type stubAnalyzer struct {
	result domain.AnalyticsResult
	err    error
	calls  int
}

func (s *stubAnalyzer) Analyze(ctx context.Context, address string) (domain.AnalyticsResult, error) {
	s.calls++
	if s.err != nil {
		return domain.AnalyticsResult{}, s.err
	}
	result := s.result
	result.Address = address
	return result, nil
}

type stubPinger struct{ err error }

func (s *stubPinger) Ping(ctx context.Context) error { return s.err }

type denyLimiter struct{}

func (denyLimiter) Allow(ctx context.Context, key string) bool { return false }

const testAddress = "0x1234567890AbCdEf1234567890abcdef12345678"

func newTestServer(t *testing.T, analyzer Analyzer) *Server {
	t.Helper()
	server, err := NewServer(analyzer, &stubPinger{}, &stubPinger{}, nil, NewMetrics(), BuildInfo{Version: "test"})
	if err != nil {
		t.Fatalf("server init failed: %v", err)
	}
	return server
}

func TestAnalytics_HappyPath(t *testing.T) {
	analyzer := &stubAnalyzer{result: domain.AnalyticsResult{
		Balance:           "2.5000",
		TotalTransactions: 3,
	}}
	server := newTestServer(t, analyzer)

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/analytics?address="+testAddress, nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("expected permissive CORS origin, got %q", got)
	}

	var payload domain.AnalyticsResult
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload.Address != testAddress {
		t.Errorf("expected address echoed back, got %s", payload.Address)
	}
	if payload.Balance != "2.5000" || payload.TotalTransactions != 3 {
		t.Errorf("unexpected payload %+v", payload)
	}
}

func TestAnalytics_PreflightProbe(t *testing.T) {
	server := newTestServer(t, &stubAnalyzer{})

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/analytics", nil))

	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204 for preflight, got %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("expected empty preflight body, got %q", rec.Body)
	}
	if got := rec.Header().Get("Access-Control-Allow-Methods"); !strings.Contains(got, "GET") {
		t.Errorf("expected GET in allowed methods, got %q", got)
	}
}

func TestAnalytics_MethodNotAllowed(t *testing.T) {
	analyzer := &stubAnalyzer{}
	server := newTestServer(t, analyzer)

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		rec := httptest.NewRecorder()
		server.Handler().ServeHTTP(rec, httptest.NewRequest(method, "/api/analytics?address="+testAddress, nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405 for %s, got %d", method, rec.Code)
		}
	}
	if analyzer.calls != 0 {
		t.Errorf("expected no analyzer calls, got %d", analyzer.calls)
	}
}

func TestAnalytics_BadAddress(t *testing.T) {
	analyzer := &stubAnalyzer{}
	server := newTestServer(t, analyzer)

	for _, query := range []string{"", "?address=0x123", "?address=not-an-address"} {
		rec := httptest.NewRecorder()
		server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/analytics"+query, nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400 for %q, got %d", query, rec.Code)
		}
		var body map[string]string
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("decode error body: %v", err)
		}
		if body["error"] == "" {
			t.Errorf("expected error message for %q", query)
		}
	}
	if analyzer.calls != 0 {
		t.Errorf("expected no analyzer calls for invalid addresses, got %d", analyzer.calls)
	}
}

func TestAnalytics_UpstreamFailure(t *testing.T) {
	server := newTestServer(t, &stubAnalyzer{err: errors.New("rpc timeout")})

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/analytics?address="+testAddress, nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if !strings.Contains(body["error"], "rpc timeout") {
		t.Errorf("expected failure message surfaced, got %q", body["error"])
	}
}

func TestAnalytics_ValidationFromAnalyzer(t *testing.T) {
	server := newTestServer(t, &stubAnalyzer{err: application.ErrInvalidAddress})

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/analytics?address="+testAddress, nil))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for analyzer validation error, got %d", rec.Code)
	}
}

func TestAnalytics_Throttled(t *testing.T) {
	analyzer := &stubAnalyzer{}
	server, err := NewServer(analyzer, &stubPinger{}, &stubPinger{}, denyLimiter{}, NewMetrics(), BuildInfo{})
	if err != nil {
		t.Fatalf("server init failed: %v", err)
	}

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/analytics?address="+testAddress, nil))

	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", rec.Code)
	}
	if analyzer.calls != 0 {
		t.Errorf("expected no analyzer calls when throttled, got %d", analyzer.calls)
	}
}

func TestReady_ReportsUpstreamOutage(t *testing.T) {
	server, err := NewServer(&stubAnalyzer{}, &stubPinger{err: errors.New("down")}, &stubPinger{}, nil, NewMetrics(), BuildInfo{})
	if err != nil {
		t.Fatalf("server init failed: %v", err)
	}

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 when rpc is down, got %d", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	server := newTestServer(t, &stubAnalyzer{})

	// One good request, one bad, so the counters move.
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/analytics?address="+testAddress, nil))
	rec = httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/analytics?address=bad", nil))

	rec = httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "arclens_requests_total 2") {
		t.Errorf("expected 2 total requests in metrics, got:\n%s", body)
	}
	if !strings.Contains(body, "arclens_bad_requests 1") {
		t.Errorf("expected 1 bad request in metrics, got:\n%s", body)
	}
	if !strings.Contains(body, "arclens_requests_ok 1") {
		t.Errorf("expected 1 ok request in metrics, got:\n%s", body)
	}
}

func TestHealth(t *testing.T) {
	server := newTestServer(t, &stubAnalyzer{})

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}
