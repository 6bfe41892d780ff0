// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/zenitalk/zenitalk-tui/internal/api"
	"github.com/zenitalk/zenitalk-tui/internal/logging"
	"github.com/zenitalk/zenitalk-tui/internal/storage"
)

// ErrNotAuthenticated is returned by operations that need a token.
var ErrNotAuthenticated = errors.New("not logged in")

// Authenticator is the subset of the backend client the store needs.
type Authenticator interface {
	Login(ctx context.Context, req api.LoginRequest) (*api.AuthResponse, error)
	Register(ctx context.Context, req api.RegisterRequest) (*api.AuthResponse, error)
	Me(ctx context.Context, token string) (*api.User, error)
}

// DefaultInvalidatingStatuses are the /auth/me statuses that destroy a session.
var DefaultInvalidatingStatuses = []int{401}

// =============================================================================
// STATE
// =============================================================================

// State is a point-in-time copy of the session.
type State struct {
	User    *api.User
	Token   string
	Loading bool
}

// Authenticated reports whether a token is held.
func (s State) Authenticated() bool { return s.Token != "" }

// Outcome describes what Reconcile did.
type Outcome int

const (
	// OutcomeNoToken: nothing to reconcile.
	OutcomeNoToken Outcome = iota
	// OutcomeCached: a cached profile was trusted without a network call.
	OutcomeCached
	// OutcomeAdopted: /auth/me succeeded and its profile was stored.
	OutcomeAdopted
	// OutcomeInvalidated: the token was rejected and the session destroyed.
	OutcomeInvalidated
	// OutcomeKept: /auth/me failed ambiguously; the session was kept.
	OutcomeKept
	// OutcomeStale: the token changed while /auth/me was in flight.
	OutcomeStale
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNoToken:
		return "no-token"
	case OutcomeCached:
		return "cached"
	case OutcomeAdopted:
		return "adopted"
	case OutcomeInvalidated:
		return "invalidated"
	case OutcomeKept:
		return "kept"
	case OutcomeStale:
		return "stale"
	default:
		return "unknown"
	}
}

// =============================================================================
// STORE
// =============================================================================

// Store is the single source of truth for identity.
type Store struct {
	mu sync.Mutex

	kv     storage.KV
	auth   Authenticator
	logger *zap.Logger

	invalidating map[int]bool

	user    *api.User
	token   string
	loading bool

	// generation changes whenever the token changes, so a slow /auth/me
	// cannot overwrite a newer login or logout.
	generation uint64

	listeners    map[int]func(State)
	nextListener int
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithInvalidatingStatuses replaces the set of /auth/me statuses that
// destroy the session. An empty list keeps the default.
func WithInvalidatingStatuses(statuses []int) Option {
	return func(s *Store) {
		if len(statuses) == 0 {
			return
		}
		s.invalidating = make(map[int]bool, len(statuses))
		for _, st := range statuses {
			s.invalidating[st] = true
		}
	}
}

// NewStore restores the session from kv. The returned store is loading
// until Reconcile runs.
func NewStore(kv storage.KV, auth Authenticator, opts ...Option) *Store {
	s := &Store{
		kv:        kv,
		auth:      auth,
		logger:    zap.NewNop(),
		loading:   true,
		listeners: make(map[int]func(State)),
	}
	WithInvalidatingStatuses(DefaultInvalidatingStatuses)(s)
	for _, opt := range opts {
		opt(s)
	}
	s.restore()
	return s
}

// restore reads the persisted token and profile. A corrupt profile is
// dropped; a profile without a token is never adopted.
func (s *Store) restore() {
	token, ok, err := s.kv.Get(storage.KeyToken)
	if err != nil {
		s.logger.Warn("session_restore_token_failed", zap.Error(err))
		return
	}
	if !ok || token == "" {
		if _, had, _ := s.kv.Get(storage.KeyUser); had {
			_ = s.kv.Remove(storage.KeyUser)
		}
		return
	}
	s.token = token

	raw, ok, err := s.kv.Get(storage.KeyUser)
	if err != nil || !ok || raw == "" {
		return
	}
	var user api.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		s.logger.Warn("session_cached_user_corrupt", zap.Error(err))
		_ = s.kv.Remove(storage.KeyUser)
		return
	}
	s.user = &user
}

// Snapshot returns the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() State {
	st := State{Token: s.token, Loading: s.loading}
	if s.user != nil {
		u := *s.user
		st.User = &u
	}
	return st
}

// Token returns the current bearer token ("" when anonymous).
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Subscribe registers fn to receive every state change. Call the returned
// function to unsubscribe. fn runs on the goroutine that made the change.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextListener
	s.nextListener++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// notify must be called without s.mu held.
func (s *Store) notify() {
	s.mu.Lock()
	st := s.snapshotLocked()
	fns := make([]func(State), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(st)
	}
}

// =============================================================================
// OPERATIONS
// =============================================================================

// Login authenticates with email and password. On success the token and
// profile are set together and persisted. Failures return *AuthError.
func (s *Store) Login(ctx context.Context, email, password string) error {
	resp, err := s.auth.Login(ctx, api.LoginRequest{Email: email, Password: password})
	if err != nil {
		s.logger.Info("login_failed", zap.Int("status", api.StatusOf(err)), zap.Bool("transport", api.IsTransport(err)))
		return newAuthError(OpLogin, err)
	}
	s.adopt(resp)
	s.logger.Info("login_ok", logging.Token(resp.AccessToken))
	return nil
}

// Register creates an account. Same contract as Login.
func (s *Store) Register(ctx context.Context, name, surname, email, password string) error {
	resp, err := s.auth.Register(ctx, api.RegisterRequest{
		Name:     name,
		Surname:  surname,
		Email:    email,
		Password: password,
	})
	if err != nil {
		s.logger.Info("register_failed", zap.Int("status", api.StatusOf(err)), zap.Bool("transport", api.IsTransport(err)))
		return newAuthError(OpRegister, err)
	}
	s.adopt(resp)
	s.logger.Info("register_ok", logging.Token(resp.AccessToken))
	return nil
}

func (s *Store) adopt(resp *api.AuthResponse) {
	s.mu.Lock()
	s.generation++
	user := *resp.User
	s.token = resp.AccessToken
	s.user = &user
	s.loading = false
	s.persistLocked()
	s.mu.Unlock()

	s.notify()
}

// Logout clears the token and profile from memory and storage.
// It never touches the network.
func (s *Store) Logout() {
	s.mu.Lock()
	s.logoutLocked()
	s.mu.Unlock()

	s.notify()
	s.logger.Info("logout")
}

func (s *Store) logoutLocked() {
	s.generation++
	s.token = ""
	s.user = nil
	s.loading = false
	if err := s.kv.Remove(storage.KeyToken); err != nil {
		s.logger.Warn("session_remove_token_failed", zap.Error(err))
	}
	if err := s.kv.Remove(storage.KeyUser); err != nil {
		s.logger.Warn("session_remove_user_failed", zap.Error(err))
	}
}

// persistLocked writes token and profile. Storage failures are logged; the
// in-memory session stays authoritative.
func (s *Store) persistLocked() {
	if err := s.kv.Set(storage.KeyToken, s.token); err != nil {
		s.logger.Warn("session_persist_token_failed", zap.Error(err))
	}
	if s.user == nil {
		return
	}
	data, err := json.Marshal(s.user)
	if err != nil {
		s.logger.Warn("session_encode_user_failed", zap.Error(err))
		return
	}
	if err := s.kv.Set(storage.KeyUser, string(data)); err != nil {
		s.logger.Warn("session_persist_user_failed", zap.Error(err))
	}
}

// NeedsReconcile reports a token without a cached profile.
func (s *Store) NeedsReconcile() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token != "" && s.user == nil
}

// Reconcile settles the loading state. With a token and no cached profile it
// asks /auth/me: success adopts the profile, an invalidating status logs out,
// anything else keeps the session. Loading is false afterwards in every case.
func (s *Store) Reconcile(ctx context.Context) Outcome {
	s.mu.Lock()
	token := s.token
	gen := s.generation
	switch {
	case token == "":
		s.loading = false
		s.mu.Unlock()
		s.notify()
		return OutcomeNoToken
	case s.user != nil:
		s.loading = false
		s.mu.Unlock()
		s.notify()
		return OutcomeCached
	}
	s.mu.Unlock()

	user, err := s.auth.Me(ctx, token)

	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		s.logger.Debug("reconcile_stale")
		return OutcomeStale
	}

	var outcome Outcome
	switch {
	case err == nil:
		u := *user
		s.user = &u
		s.persistLocked()
		outcome = OutcomeAdopted
	case s.invalidating[api.StatusOf(err)]:
		s.logoutLocked()
		outcome = OutcomeInvalidated
	default:
		outcome = OutcomeKept
	}
	s.loading = false
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn("reconcile_failed",
			zap.String("outcome", outcome.String()),
			zap.Int("status", api.StatusOf(err)),
			zap.Bool("transport", api.IsTransport(err)),
			logging.Token(token),
			zap.Error(err))
	} else {
		s.logger.Info("reconcile_ok", logging.Token(token))
	}

	s.notify()
	return outcome
}

// =============================================================================
// STATUS
// =============================================================================

// Status summarizes the session for status displays.
type Status struct {
	Authenticated bool
	Loading       bool
	DisplayName   string
	Email         string
	TokenFP       string
}

// GetStatus returns a display-safe summary. The token itself is never included.
func (s *Store) GetStatus() Status {
	st := s.Snapshot()
	status := Status{
		Authenticated: st.Authenticated(),
		Loading:       st.Loading,
		TokenFP:       logging.Fingerprint(st.Token),
	}
	if st.User != nil {
		status.DisplayName = st.User.DisplayName()
		status.Email = st.User.Email
	}
	return status
}
