// Package http exposes the expense store and its views as a JSON API.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"spendlog/internal/core"
	applog "spendlog/internal/log"
	"spendlog/internal/middleware/ratelimit"
	"spendlog/internal/middleware/security"
	"spendlog/internal/middleware/trace"
	"spendlog/internal/services"
	"spendlog/internal/store"
	"spendlog/internal/tips"
)

// Observable is the live-query side of the record store.
type Observable interface {
	Observe(order core.Order, fn store.Listener) (cancel func())
}

// Dependencies are the collaborators the handlers call into.
type Dependencies struct {
	Expenses *services.ExpenseService
	Views    *services.ViewService
	Sync     *services.SyncService
	Tips     *tips.Loader
	Live     Observable
	Logger   *applog.Logger

	// Location is the calendar used for "today" and "this week".
	// Defaults to time.Local.
	Location *time.Location
	// Now defaults to time.Now.
	Now func() time.Time
	// RateLimitPerMinute caps mutating requests per client. Zero disables it.
	RateLimitPerMinute int
}

type Server struct {
	http.Server

	expenses *services.ExpenseService
	views    *services.ViewService
	sync     *services.SyncService
	tips     *tips.Loader
	live     Observable
	logger   *applog.Logger
	trace    *trace.Middleware
	limiter  *ratelimit.Limiter
	loc      *time.Location
	clock    func() time.Time

	// closed when Shutdown starts so open streams end
	shutdownCh   chan struct{}
	shutdownOnce sync.Once
}

// NewServer configures routes and returns a ready-to-run server.
func NewServer(addr string, deps Dependencies) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	loc := deps.Location
	if loc == nil {
		loc = time.Local
	}
	clock := deps.Now
	if clock == nil {
		clock = time.Now
	}

	s := &Server{
		expenses:   deps.Expenses,
		views:      deps.Views,
		sync:       deps.Sync,
		tips:       deps.Tips,
		live:       deps.Live,
		logger:     logger.WithComponent(applog.ComponentHTTP),
		trace:      trace.NewMiddleware(logger, clientIP),
		limiter:    ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: deps.RateLimitPerMinute}),
		loc:        loc,
		clock:      clock,
		shutdownCh: make(chan struct{}),
	}

	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.trace.Handler)
	r.Use(security.Headers(security.DefaultHeadersConfig()))
	r.Use(s.limiter.Middleware(clientIP, s.handleRateLimited))

	r.Get("/healthz", s.handleHealth)
	r.Get("/categories", s.handleCategories)

	r.Route("/expenses", func(r chi.Router) {
		r.Get("/", s.handleListExpenses)
		r.Post("/", s.handleCreateExpense)
		r.Get("/stream", s.handleStreamExpenses)
		r.Get("/{id}", s.handleGetExpense)
		r.Put("/{id}", s.handleUpdateExpense)
		r.Delete("/{id}", s.handleDeleteExpense)
	})

	r.Get("/analytics", s.handleAnalytics)

	r.Get("/tips", s.handleTips)
	r.Post("/tips/refresh", s.handleRefreshTips)

	r.Get("/sync", s.handleSyncState)
	r.Post("/sync", s.handleSyncNow)

	return r
}

// Metrics reports request counters collected by the trace middleware.
func (s *Server) Metrics() trace.Metrics {
	return s.trace.Metrics()
}

// now returns the current instant in the configured calendar location.
func (s *Server) now() time.Time {
	return s.clock().In(s.loc)
}

// Shutdown ends open streams and then shuts the HTTP server down.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		close(s.shutdownCh)
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}
