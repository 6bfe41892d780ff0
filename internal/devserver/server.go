// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package devserver

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"

	"github.com/zenitalk/zenitalk-tui/internal/api"
	"github.com/zenitalk/zenitalk-tui/internal/config"
)

// ============================================================================
// STATS
// ============================================================================

// Stats counts requests by outcome.
type Stats struct {
	Registrations int64     `json:"registrations"`
	Logins        int64     `json:"logins"`
	FailedLogins  int64     `json:"failed_logins"`
	Chats         int64     `json:"chats"`
	QuotaRejected int64     `json:"quota_rejected"`
	Throttled     int64     `json:"throttled"`
	StartTime     time.Time `json:"start_time"`
}

// statsBook guards Stats.
type statsBook struct {
	mu    sync.Mutex
	stats Stats
}

func (b *statsBook) record(fn func(*Stats)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fn(&b.stats)
}

func (b *statsBook) snapshot() Stats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stats
}

// ============================================================================
// SERVER
// ============================================================================

// Server is the development backend.
type Server struct {
	cfg    config.DevServerConfig
	engine *gin.Engine
	server *http.Server

	users    *userStore
	quotas   *quotaBook
	tokens   *tokenSigner
	limiter  *rate.Limiter
	answerer Answerer
	stats    *statsBook
	logger   *zap.Logger

	bcryptCost int
	now        func() time.Time

	mu sync.Mutex
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock replaces time.Now for token expiry and quota days.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// WithAnswerer replaces the canned answers.
func WithAnswerer(a Answerer) Option {
	return func(s *Server) {
		if a != nil {
			s.answerer = a
		}
	}
}

// WithBcryptCost sets the password hashing cost. Tests use bcrypt.MinCost.
func WithBcryptCost(cost int) Option {
	return func(s *Server) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			s.bcryptCost = cost
		}
	}
}

// New builds a server from cfg. Zero-valued fields take config defaults.
func New(cfg config.DevServerConfig, opts ...Option) *Server {
	defaults := config.Default().DevServer
	if cfg.Addr == "" {
		cfg.Addr = defaults.Addr
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = defaults.JWTSecret
	}
	if cfg.TokenTTLHours <= 0 {
		cfg.TokenTTLHours = defaults.TokenTTLHours
	}
	if cfg.AnonymousDailyLimit <= 0 {
		cfg.AnonymousDailyLimit = defaults.AnonymousDailyLimit
	}
	if cfg.UserDailyLimit <= 0 {
		cfg.UserDailyLimit = defaults.UserDailyLimit
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = defaults.RequestsPerSecond
	}

	s := &Server{
		cfg:        cfg,
		users:      newUserStore(),
		answerer:   cannedAnswerer{},
		logger:     zap.NewNop(),
		bcryptCost: bcrypt.DefaultCost,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	burst := int(cfg.RequestsPerSecond)
	if burst < 1 {
		burst = 1
	}
	s.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	s.quotas = newQuotaBook(s.now)
	s.tokens = &tokenSigner{
		secret: []byte(cfg.JWTSecret),
		ttl:    time.Duration(cfg.TokenTTLHours) * time.Hour,
		now:    s.now,
	}
	s.stats = &statsBook{stats: Stats{StartTime: s.now()}}

	s.setupRoutes()
	return s
}

// Handler returns the HTTP handler, for httptest and embedding.
func (s *Server) Handler() http.Handler { return s.engine }

// Addr returns the configured listen address.
func (s *Server) Addr() string { return s.cfg.Addr }

// Stats returns a snapshot of the request counters.
func (s *Server) Stats() Stats { return s.stats.snapshot() }

// ============================================================================
// ROUTES
// ============================================================================

func (s *Server) setupRoutes() {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(recovery(s.logger))
	r.Use(requestID())
	r.Use(securityHeaders())
	r.Use(requestLogger(s.logger))

	r.NoRoute(func(c *gin.Context) {
		fail(c, http.StatusNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		fail(c, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.GET("/health", s.handleHealth)

	limited := r.Group("/")
	limited.Use(rateLimit(s.limiter, s.stats))
	limited.POST(api.PathRegister, s.handleRegister)
	limited.POST(api.PathLogin, s.handleLogin)
	limited.GET(api.PathMe, s.handleMe)
	limited.POST(api.PathChat, s.handleChat)

	s.engine = r
}

// ============================================================================
// LIFECYCLE
// ============================================================================

// Start listens on the configured address and blocks until Shutdown.
func (s *Server) Start() error {
	s.mu.Lock()
	s.server = &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	srv := s.server
	s.mu.Unlock()

	s.logger.Info("devserver_start", zap.String("addr", s.cfg.Addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops a running server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.server
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	st := s.stats.snapshot()
	s.logger.Info("devserver_shutdown",
		zap.Int64("chats", st.Chats),
		zap.Int64("registrations", st.Registrations))
	return srv.Shutdown(ctx)
}
