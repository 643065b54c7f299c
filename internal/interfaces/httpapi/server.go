package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"arclens/internal/application"
	"arclens/internal/domain"
)

// Analyzer produces the analytics payload for one account.
type Analyzer interface {
	Analyze(ctx context.Context, address string) (domain.AnalyticsResult, error)
}

// Pinger reports upstream reachability for the readiness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RequestLimiter throttles clients; a nil limiter allows everything.
type RequestLimiter interface {
	Allow(ctx context.Context, key string) bool
}

type BuildInfo struct {
	Version   string
	Commit    string
	BuildTime string
}

type Server struct {
	analyzer  Analyzer
	chain     Pinger
	explorer  Pinger
	limiter   RequestLimiter
	metrics   *Metrics
	buildInfo BuildInfo
}

func NewServer(analyzer Analyzer, chain, explorer Pinger, limiter RequestLimiter, metrics *Metrics, buildInfo BuildInfo) (*Server, error) {
	if analyzer == nil {
		return nil, errors.New("http server analyzer must not be nil")
	}
	if metrics == nil {
		metrics = NewMetrics()
	}
	return &Server{
		analyzer:  analyzer,
		chain:     chain,
		explorer:  explorer,
		limiter:   limiter,
		metrics:   metrics,
		buildInfo: buildInfo,
	}, nil
}

func (s *Server) MetricsObserver() *Metrics {
	return s.metrics
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/analytics", s.handleAnalytics)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.HandleFunc("/version", s.handleVersion)
	mux.HandleFunc("/metrics", s.handleMetrics)
	return mux
}

func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	writeCORS(w)
	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusNoContent)
		return
	case http.MethodGet:
	default:
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	s.metrics.OnRequest()
	if s.limiter != nil && !s.limiter.Allow(r.Context(), clientKey(r)) {
		s.metrics.OnThrottled()
		respondError(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	address := r.URL.Query().Get("address")
	if err := application.ValidateAddress(address); err != nil {
		s.metrics.OnBadRequest()
		respondError(w, http.StatusBadRequest, "address must be a 0x-prefixed 40 hex digit string")
		return
	}

	tracer := otel.Tracer("arclens/httpapi")
	ctx, span := tracer.Start(r.Context(), "analytics.request")
	span.SetAttributes(attribute.String("account.address", address))
	defer span.End()

	started := time.Now()
	result, err := s.analyzer.Analyze(ctx, address)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if errors.Is(err, application.ErrInvalidAddress) {
			s.metrics.OnBadRequest()
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.metrics.OnUpstreamError()
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	span.SetAttributes(attribute.Int("account.transactions", result.TotalTransactions))

	s.metrics.OnReport(address, result.TotalTransactions, time.Since(started))
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeCORS(w)
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	writeCORS(w)
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if s.chain != nil {
		if err := s.chain.Ping(ctx); err != nil {
			respondError(w, http.StatusServiceUnavailable, "rpc not ready")
			return
		}
	}
	if s.explorer != nil {
		if err := s.explorer.Ping(ctx); err != nil {
			respondError(w, http.StatusServiceUnavailable, "explorer not ready")
			return
		}
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeCORS(w)
	respondJSON(w, http.StatusOK, s.buildInfo)
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	snap := s.metrics.Snapshot()

	uptime := time.Since(snap.StartTime).Seconds()
	fmt.Fprintf(w, "arclens_uptime_seconds %.0f\n", uptime)
	fmt.Fprintf(w, "arclens_requests_total %d\n", snap.RequestsTotal)
	fmt.Fprintf(w, "arclens_requests_ok %d\n", snap.RequestsOK)
	fmt.Fprintf(w, "arclens_bad_requests %d\n", snap.BadRequests)
	fmt.Fprintf(w, "arclens_upstream_errors %d\n", snap.UpstreamErrs)
	fmt.Fprintf(w, "arclens_throttled_requests %d\n", snap.Throttled)
	fmt.Fprintf(w, "arclens_last_request_seconds %.3f\n", snap.LastDuration.Seconds())
	fmt.Fprintf(w, "arclens_max_request_seconds %.3f\n", snap.MaxDuration.Seconds())
	fmt.Fprintf(w, "arclens_transactions_reported_total %d\n", snap.TotalTxReported)
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
