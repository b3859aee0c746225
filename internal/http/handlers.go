package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const readyPingTimeout = 5 * time.Second

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	health := map[string]any{
		"status":    "ok",
		"timestamp": s.now().Format(time.RFC3339),
		"uptime":    time.Since(s.appMetrics.uptime).Round(time.Second).String(),
	}

	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(health)
}

// handleReady checks the templates and pings the data API.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	ctx, cancel := context.WithTimeout(r.Context(), readyPingTimeout)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]any)

	if s.templates == nil {
		checks["templates"] = "failed: templates not loaded"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["templates"] = "ok"
	}

	if err := s.backend.Ping(ctx); err != nil {
		checks["data_api"] = map[string]any{"backend": s.backendName, "status": fmt.Sprintf("failed: %v", err)}
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["data_api"] = map[string]any{"backend": s.backendName, "status": "ok"}
	}

	checks["sessions"] = map[string]any{
		"active": s.sessions.size(),
		"status": "ok",
	}
	checks["rate_limiter"] = map[string]any{
		"active_clients": s.rateLimiter.ActiveClients(),
		"status":         "ok",
	}

	response := map[string]any{
		"status":    status,
		"timestamp": s.now().Format(time.RFC3339),
		"checks":    checks,
	}

	w.WriteHeader(httpStatus)
	_ = json.NewEncoder(w).Encode(response)
}

// handleMetrics provides application and security metrics in Prometheus text format.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")

	securityMetrics := s.securityDetector.GetMetrics()
	rateLimitMetrics := s.rateLimiter.GetMetrics()
	traceMetrics := s.traceMiddleware.GetMetrics()

	w.WriteHeader(http.StatusOK)

	metric := func(name, kind, help string, value any) {
		fmt.Fprintf(w, "# HELP %s %s\n", name, help)
		fmt.Fprintf(w, "# TYPE %s %s\n", name, kind)
		fmt.Fprintf(w, "%s %v\n\n", name, value)
	}

	metric("http_requests_total", "counter", "Total number of HTTP requests", traceMetrics.TotalRequests)
	metric("http_requests_in_flight", "gauge", "Requests currently being served", traceMetrics.InFlight)
	metric("http_request_duration_seconds_avg", "gauge", "Mean request handling time",
		fmt.Sprintf("%.6f", traceMetrics.AverageDuration().Seconds()))
	metric("mutations_total", "counter", "Successful create, update and delete operations", s.appMetrics.mutations.Load())
	metric("validation_failures_total", "counter", "Form submissions rejected by validation", s.appMetrics.validation.Load())
	metric("upstream_errors_total", "counter", "Failed data API calls", s.appMetrics.upstreamErrors.Load())
	metric("search_superseded_total", "counter", "Search requests answered 204 because a newer one won", s.appMetrics.superseded.Load())
	metric("filter_sessions", "gauge", "Live filter sessions", s.sessions.size())
	metric("rate_limit_hits_total", "counter", "Total rate limit hits", rateLimitMetrics.TotalHits)
	metric("active_rate_limit_clients", "gauge", "Currently tracked rate limit clients", rateLimitMetrics.ClientCount)
	metric("suspicious_requests_total", "counter", "Total suspicious requests detected", securityMetrics.SuspiciousRequests)
	metric("uptime_seconds", "gauge", "Application uptime in seconds",
		fmt.Sprintf("%.0f", time.Since(s.appMetrics.uptime).Seconds()))
}
