package http

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"vibes/internal/api"
	"vibes/internal/cache"
	"vibes/internal/config"
	"vibes/internal/filter"
	"vibes/internal/log"
	"vibes/internal/middleware/ratelimit"
	"vibes/internal/middleware/security"
	"vibes/internal/middleware/trace"
	"vibes/internal/services"
	appweb "vibes/web"
)

const sessionSweepInterval = time.Minute

// Server serves the pages and partials of the dashboard.
type Server struct {
	http.Server
	templates *template.Template
	backend   api.Backend
	logger    *log.Logger
	now       func() time.Time

	lister     *services.ExpenseLister
	expenses   *services.ExpenseService
	categories *services.CategoryService
	reports    *services.ReportService

	sessions         *sessions
	cacheManager     *cache.Manager
	rateLimiter      *ratelimit.Limiter
	securityDetector *security.Detector
	traceMiddleware  *trace.Middleware
	backendName      string

	appMetrics   appMetrics
	shutdownOnce sync.Once
}

type appMetrics struct {
	uptime         time.Time
	mutations      atomic.Int64
	validation     atomic.Int64
	upstreamErrors atomic.Int64
	superseded     atomic.Int64
}

// Option customises a Server, mostly for tests.
type Option func(*serverOptions)

type serverOptions struct {
	clock filter.Clock
	now   func() time.Time
}

// WithClock sets the clock driving the search debounce.
func WithClock(c filter.Clock) Option {
	return func(o *serverOptions) { o.clock = c }
}

// WithNow sets the clock used for "today" in period filters and form defaults.
func WithNow(now func() time.Time) Option {
	return func(o *serverOptions) { o.now = now }
}

// NewServer configures routes, middleware and templates.
func NewServer(cfg *config.Config, backend api.Backend, logger *log.Logger, opts ...Option) (*Server, error) {
	o := serverOptions{clock: filter.SystemClock{}, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if logger == nil {
		logger = log.Discard()
	}
	httpLogger := logger.WithComponent(log.ComponentHTTP)

	t, err := template.New("").Funcs(templateFuncs()).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	limiter := ratelimit.NewLimiter(ratelimit.Config{
		RequestsPerMinute: cfg.RateLimitPerMinute,
		Burst:             cfg.RateLimitBurst,
	})
	s := &Server{
		templates:        t,
		backend:          backend,
		logger:           httpLogger,
		now:              o.now,
		lister:           services.NewExpenseLister(backend, backend, services.WithClampPage(cfg.ClampPage), services.WithClock(o.now)),
		expenses:         services.NewExpenseService(backend),
		categories:       services.NewCategoryService(backend),
		reports:          services.NewReportService(backend),
		sessions:         newSessions(cfg.SessionMax, cfg.SessionTTL, o.clock, cfg.SearchDebounce, logger.WithComponent(log.ComponentFilter)),
		cacheManager:     cache.NewManager(logger),
		rateLimiter:      limiter,
		securityDetector: security.NewDetector(),
		traceMiddleware:  trace.NewMiddleware(),
		backendName:      cfg.DataBackend,
	}
	s.appMetrics.uptime = time.Now()
	s.cacheManager.Register(s.sessions.store)
	s.cacheManager.StartCleanup(sessionSweepInterval)

	s.Server = http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        s.middleware(s.routes(), logger),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16,
	}
	return s, nil
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("GET /static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		s.logger.Warn("Failed to mount embedded static FS", log.FieldError, err)
	}

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /dashboard", s.handleDashboard)
	mux.HandleFunc("GET /reports", s.handleReports)
	mux.HandleFunc("GET /reports/export.csv", s.handleReportExport)

	mux.HandleFunc("GET /expenses", s.handleExpensesPage)
	mux.HandleFunc("GET /ui/expenses/table", s.handleExpenseTable)
	mux.HandleFunc("POST /ui/expenses/search", s.handleExpenseSearch)
	mux.HandleFunc("POST /ui/expenses/filter", s.handleExpenseFilter)
	mux.HandleFunc("GET /ui/expenses/form", s.handleExpenseForm)
	mux.HandleFunc("POST /ui/expenses", s.handleCreateExpense)
	mux.HandleFunc("PATCH /ui/expenses/{id}", s.handleUpdateExpense)
	mux.HandleFunc("GET /ui/expenses/{id}/confirm", s.handleConfirmExpenseDelete)
	mux.HandleFunc("DELETE /ui/expenses/{id}", s.handleDeleteExpense)

	mux.HandleFunc("GET /categories", s.handleCategoriesPage)
	mux.HandleFunc("GET /ui/categories/list", s.handleCategoryList)
	mux.HandleFunc("GET /ui/categories/form", s.handleCategoryForm)
	mux.HandleFunc("POST /ui/categories", s.handleCreateCategory)
	mux.HandleFunc("PATCH /ui/categories/{id}", s.handleUpdateCategory)
	mux.HandleFunc("GET /ui/categories/{id}/confirm", s.handleConfirmCategoryDelete)
	mux.HandleFunc("DELETE /ui/categories/{id}", s.handleDeleteCategory)

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)
	return mux
}

// middleware wraps h from the outside in: base logger, request id, access
// log, probe detection, security headers, then mutation rate limiting.
func (s *Server) middleware(h http.Handler, logger *log.Logger) http.Handler {
	clientIP := s.securityDetector.ExtractClientIP
	limited := s.rateLimiter.Middleware(clientIP, limitedRequest, s.handleRateLimited)(h)
	secured := security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(limited)
	detected := s.securityDetector.Middleware(secured)
	logged := log.AccessMiddleware(clientIP)(detected)
	traced := s.traceMiddleware.Middleware(logged)
	return log.Middleware(logger)(traced)
}

// limitedRequest picks the requests that consume rate limit tokens:
// mutations, but not the search and filter inputs fired while typing.
func limitedRequest(r *http.Request) bool {
	if !ratelimit.Mutating(r) {
		return false
	}
	return !strings.HasPrefix(r.URL.Path, "/ui/expenses/search") &&
		!strings.HasPrefix(r.URL.Path, "/ui/expenses/filter")
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	log.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
		log.FieldClientIP, s.securityDetector.ExtractClientIP(r),
		log.FieldMethod, r.Method,
		log.FieldPath, r.URL.Path)
	ErrorResponse(http.StatusTooManyRequests, "Muitas requisições. Tente novamente em instantes.").
		TriggerErrorNotification("Muitas requisições. Tente novamente em instantes.").
		Write(w)
}

// Shutdown stops background routines, closes every filter session and
// shuts the HTTP server down.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.Stop()
		s.sessions.close()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// respond writes b, logging a template failure recorded by Render.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, b *HTMXResponseBuilder) {
	if err := b.Err(); err != nil {
		log.FromContext(r.Context()).WithComponent(log.ComponentTemplate).ErrorContext(r.Context(), "Template execution failed",
			log.FieldError, err,
			log.FieldOperation, log.OpRender)
	}
	b.Write(w)
}

// render writes a full page or partial with the given status.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	s.respond(w, r, NewHTMXResponse().Status(status).Render(s.templates, name, data))
}
