// Package http exposes the ledger as a JSON API.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"moneyx/internal/cache"
	"moneyx/internal/core"
	"moneyx/internal/ledger"
	"moneyx/internal/log"
	"moneyx/internal/store"
)

// StateReader returns a private copy of the signed-in user's state.
type StateReader interface {
	Snapshot() (store.State, bool)
}

// Sessions is the part of session.Manager the API drives.
type Sessions interface {
	Login(ctx context.Context, userID string) error
	Logout(ctx context.Context)
	CurrentUserID() (string, bool)
}

// Config holds the server settings taken from the environment.
type Config struct {
	Addr               string
	RateLimitPerMinute int
	IdempotencyTTL     time.Duration
}

type Server struct {
	http.Server
	ledger   *ledger.Service
	state    StateReader
	sessions Sessions
	ready    func(context.Context) error
	logger   *log.Logger
	now      func() time.Time

	limiter *rateLimiter
	idem    *idempotency
	caches  *cache.Manager
	metrics securityMetrics

	stopCleanup  context.CancelFunc
	shutdownOnce sync.Once
}

type Option func(*Server)

func WithLogger(logger *log.Logger) Option {
	return func(s *Server) { s.logger = logger.WithComponent(log.ComponentHTTP) }
}

// WithReadiness makes /readyz report fn's result.
func WithReadiness(fn func(context.Context) error) Option {
	return func(s *Server) { s.ready = fn }
}

func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// NewServer configures routes and middleware, returning a ready-to-run
// server. Call Shutdown to stop it and its background cleanup.
func NewServer(cfg Config, svc *ledger.Service, state StateReader, sessions Sessions, opts ...Option) *Server {
	s := &Server{
		ledger:   svc,
		state:    state,
		sessions: sessions,
		logger:   log.Discard(),
		now:      time.Now,
		limiter:  newRateLimiter(cfg.RateLimitPerMinute),
		idem:     newIdempotency(cfg.IdempotencyTTL),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.caches = cache.NewManager(s.logger)
	ctx, cancel := context.WithCancel(context.Background())
	s.stopCleanup = cancel
	if s.idem != nil {
		s.caches.Register(s.idem.responses)
		go s.caches.Run(ctx, 10*time.Minute)
	}

	mux := http.NewServeMux()
	s.routes(mux)

	s.Server = http.Server{
		Addr:              cfg.Addr,
		Handler:           s.withRequestContext(s.withSecurity(s.withIdempotency(mux))),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("POST /api/session/login", s.handleLogin)
	mux.HandleFunc("POST /api/session/logout", s.handleLogout)
	mux.HandleFunc("GET /api/state", s.handleState)

	mux.HandleFunc("GET /api/accounts", s.handleListAccounts)
	mux.HandleFunc("POST /api/accounts", s.handleCreateAccount)
	mux.HandleFunc("PATCH /api/accounts/{id}", s.handleUpdateAccount)
	mux.HandleFunc("DELETE /api/accounts/{id}", s.handleDeleteAccount)

	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("GET /api/transactions/export", s.handleExportTransactions)
	mux.HandleFunc("PATCH /api/transactions/{id}", s.handleUpdateTransaction)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)
	mux.HandleFunc("POST /api/transfers", s.handleTransfer)

	mux.HandleFunc("GET /api/goals", s.handleListGoals)
	mux.HandleFunc("POST /api/goals", s.handleCreateGoal)
	mux.HandleFunc("PATCH /api/goals/{id}", s.handleUpdateGoal)
	mux.HandleFunc("DELETE /api/goals/{id}", s.handleDeleteGoal)
	mux.HandleFunc("POST /api/goals/{id}/fund", s.handleFundGoal)

	mux.HandleFunc("GET /api/bills", s.handleListBills)
	mux.HandleFunc("POST /api/bills", s.handleCreateBill)
	mux.HandleFunc("PATCH /api/bills/{id}", s.handleUpdateBill)
	mux.HandleFunc("DELETE /api/bills/{id}", s.handleDeleteBill)
	mux.HandleFunc("POST /api/bills/{id}/pay", s.handlePayBill)

	mux.HandleFunc("GET /api/categories", s.handleListCategories)
	mux.HandleFunc("POST /api/categories", s.handleCreateCategory)
	mux.HandleFunc("PATCH /api/categories/{id}", s.handleUpdateCategory)
	mux.HandleFunc("DELETE /api/categories/{id}", s.handleDeleteCategory)

	mux.HandleFunc("GET /api/budgets", s.handleListBudgets)
	mux.HandleFunc("PUT /api/budgets", s.handleSetBudget)
	mux.HandleFunc("DELETE /api/budgets/{id}", s.handleDeleteBudget)

	mux.HandleFunc("GET /api/notifications", s.handleListNotifications)
	mux.HandleFunc("POST /api/notifications/{id}/read", s.handleMarkNotificationRead)
	mux.HandleFunc("GET /api/preferences", s.handleGetPreferences)
	mux.HandleFunc("PATCH /api/preferences", s.handleUpdatePreferences)

	mux.HandleFunc("GET /api/dashboard", s.handleDashboard)
	mux.HandleFunc("GET /api/insights", s.handleInsights)
}

// Shutdown stops background cleanup and gracefully shuts the server down.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		if s.stopCleanup != nil {
			s.stopCleanup()
		}
		err = s.Server.Shutdown(ctx)
	})
	return err
}

// snapshot loads the state for a read, answering 401 when nobody is
// signed in.
func (s *Server) snapshot(w http.ResponseWriter, r *http.Request) (store.State, bool) {
	st, ok := s.state.Snapshot()
	if !ok {
		writeError(w, r, core.NoActiveUser("read"))
	}
	return st, ok
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.ready(ctx); err != nil {
			log.FromContext(r.Context()).WarnContext(r.Context(), "Readiness check failed", log.FieldError, err)
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
