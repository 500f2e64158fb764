// Package http serves dashboard views as JSON and XLSX.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"painel/internal/cache"
	"painel/internal/dashboard"
	"painel/internal/log"
	"painel/internal/middleware/ratelimit"
	"painel/internal/middleware/security"
	"painel/internal/middleware/trace"

	"github.com/go-chi/chi/v5"
)

// Options tune a Server. Zero values fall back to defaults.
type Options struct {
	Logger *log.Logger
	// RefreshPerMinute limits manual refreshes per client.
	RefreshPerMinute int
	Headers          *security.HeadersConfig
	// Views, when set, reports view cache counters on /readyz.
	Views cache.StatsReporter
}

// Server exposes the board over HTTP.
type Server struct {
	http.Server
	board   *dashboard.Board
	views   cache.StatsReporter
	logger  *log.Logger
	access  *log.StructuredLogger
	limiter *ratelimit.Limiter
	tracer  *trace.Middleware
	started time.Time

	shutdownOnce sync.Once
}

// NewServer configures routes and returns a server ready to listen on addr.
func NewServer(addr string, board *dashboard.Board, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.Discard()
	}
	headers := security.DefaultHeadersConfig()
	if opts.Headers != nil {
		headers = *opts.Headers
	}

	s := &Server{
		board:   board,
		views:   opts.Views,
		logger:  logger.WithComponent(log.ComponentHTTP),
		access:  log.NewStructuredLogger(logger),
		limiter: ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RefreshPerMinute}),
		tracer:  trace.NewMiddleware(logger.WithComponent(log.ComponentHTTP), security.ClientIP),
		started: time.Now(),
	}

	r := chi.NewRouter()
	r.Use(s.tracer.Handler)
	r.Use(security.Headers(headers))
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found", Kind: "not_found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed", Kind: "method_not_allowed"})
	})

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Route("/api/pages", func(r chi.Router) {
		r.Get("/", s.handleListPages)
		r.Route("/{page}", func(r chi.Router) {
			r.Get("/", s.handleView)
			r.Get("/export.xlsx", s.handleExport)
			r.With(s.limiter.Middleware(security.ClientIP, s.handleRateLimited)).
				Post("/refresh", s.handleRefresh)
		})
	})

	s.Addr = addr
	s.Handler = r
	s.ReadHeaderTimeout = 5 * time.Second
	s.ReadTimeout = 10 * time.Second
	// Refreshes wait on the upstream sheet.
	s.WriteTimeout = 60 * time.Second
	s.IdleTimeout = 60 * time.Second
	s.MaxHeaderBytes = 1 << 16 // 64KB
	return s
}

// Shutdown stops the rate limiter and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		s.logger.Info("Shutting down HTTP server",
			"uptime", time.Since(s.started).Round(time.Second).String(),
			"requests", s.tracer.TotalRequests(),
			log.FieldOperation, log.OpShutdown)
		err = s.Server.Shutdown(ctx)
	})
	return err
}
