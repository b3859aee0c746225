package trace

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"vibes/internal/log"
)

// ContextKey type for context keys
type ContextKey string

const (
	// RequestIDKey is the context key for request ID
	RequestIDKey ContextKey = "request_id"

	// HeaderRequestID is echoed on every response and honoured when a
	// well-formed value arrives from a proxy.
	HeaderRequestID = "X-Request-ID"
)

// Middleware assigns request ids and keeps request counters.
type Middleware struct {
	counters counters
}

// Metrics tracks request metrics
type Metrics struct {
	TotalRequests int64
	InFlight      int64
	TotalDuration time.Duration
}

// AverageDuration is the mean handling time across all requests.
func (m Metrics) AverageDuration() time.Duration {
	if m.TotalRequests == 0 {
		return 0
	}
	return m.TotalDuration / time.Duration(m.TotalRequests)
}

type counters struct {
	total    atomic.Int64
	inFlight atomic.Int64
	nanos    atomic.Int64
}

// NewMiddleware creates a new trace middleware
func NewMiddleware() *Middleware {
	return &Middleware{}
}

// Middleware returns HTTP middleware for request tracing. The request logger
// in the context gains the request_id field.
func (m *Middleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := requestIDFrom(r)

		ctx := context.WithValue(r.Context(), RequestIDKey, requestID)
		logger := log.FromContext(ctx).With(log.FieldRequestID, requestID)
		ctx = log.NewContext(ctx, logger)
		w.Header().Set(HeaderRequestID, requestID)

		m.counters.total.Add(1)
		m.counters.inFlight.Add(1)
		defer func() {
			m.counters.inFlight.Add(-1)
			m.counters.nanos.Add(int64(time.Since(start)))
		}()

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func requestIDFrom(r *http.Request) string {
	if id := r.Header.Get(HeaderRequestID); id != "" {
		if _, err := uuid.Parse(id); err == nil {
			return id
		}
	}
	return GenerateRequestID()
}

// GenerateRequestID creates a unique request ID for tracing
func GenerateRequestID() string {
	return uuid.NewString()
}

// GetRequestID extracts the request ID from context
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}

// GetMetrics returns current metrics
func (m *Middleware) GetMetrics() Metrics {
	return Metrics{
		TotalRequests: m.counters.total.Load(),
		InFlight:      m.counters.inFlight.Load(),
		TotalDuration: time.Duration(m.counters.nanos.Load()),
	}
}
