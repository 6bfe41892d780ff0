// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zenitalk/zenitalk-tui/internal/api"
	chatctl "github.com/zenitalk/zenitalk-tui/internal/chat"
	"github.com/zenitalk/zenitalk-tui/internal/guard"
	"github.com/zenitalk/zenitalk-tui/internal/session"
	"github.com/zenitalk/zenitalk-tui/internal/storage"
	uichat "github.com/zenitalk/zenitalk-tui/internal/ui/chat"
	"github.com/zenitalk/zenitalk-tui/internal/ui/components"
	"github.com/zenitalk/zenitalk-tui/internal/ui/styles"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

type fakeAuth struct {
	mu       sync.Mutex
	resp     *api.AuthResponse
	err      error
	meErr    error
	lastUser string
}

func (f *fakeAuth) Login(_ context.Context, req api.LoginRequest) (*api.AuthResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastUser = req.Email
	return f.resp, f.err
}

func (f *fakeAuth) Register(_ context.Context, req api.RegisterRequest) (*api.AuthResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastUser = req.Email
	return f.resp, f.err
}

func (f *fakeAuth) Me(_ context.Context, _ string) (*api.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.meErr != nil {
		return nil, f.meErr
	}
	return f.resp.User, nil
}

type answerBackend struct{ answer string }

func (b answerBackend) Chat(context.Context, string, api.ChatRequest) (*api.ChatResponse, error) {
	return &api.ChatResponse{Answer: b.answer}, nil
}

// gatedBackend holds every request until gate closes or the request is
// cancelled.
type gatedBackend struct {
	calls int32
	gate  chan struct{}
}

func (b *gatedBackend) Chat(ctx context.Context, _ string, _ api.ChatRequest) (*api.ChatResponse, error) {
	atomic.AddInt32(&b.calls, 1)
	select {
	case <-b.gate:
		return &api.ChatResponse{Answer: "late answer"}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func ada() *api.User {
	return &api.User{ID: "7", Name: "Ada", Surname: "Lovelace", Email: "ada@example.com"}
}

type fixture struct {
	app   *Model
	store *session.Store
	ctrl  *chatctl.Controller
	auth  *fakeAuth
}

func newFixture(t *testing.T, token string, requireLogin bool) fixture {
	t.Helper()
	return newFixtureWithBackend(t, token, requireLogin, answerBackend{answer: "Here you go"})
}

func newFixtureWithBackend(t *testing.T, token string, requireLogin bool, backend chatctl.Backend) fixture {
	t.Helper()
	kv := storage.NewMemoryStore()
	if token != "" {
		require.NoError(t, kv.Set(storage.KeyToken, token))
	}
	auth := &fakeAuth{resp: &api.AuthResponse{AccessToken: "tok-new", User: ada()}}
	store := session.NewStore(kv, auth)
	ctrl := chatctl.NewController(backend, store, chatctl.Options{
		SessionID:        "user_1700000000000_abcdefghi",
		RotationInterval: time.Hour,
	})
	m := New(Options{
		Store:        store,
		Controller:   ctrl,
		Theme:        styles.NewTheme(styles.ModeDark),
		RequireLogin: requireLogin,
		AuthTimeout:  time.Second,
	})
	m.Update(tea.WindowSizeMsg{Width: 110, Height: 36})
	return fixture{app: m, store: store, ctrl: ctrl, auth: auth}
}

// messages runs cmd and flattens batches. Commands that block (cursor
// blink timers) are abandoned.
func messages(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()

	select {
	case msg := <-ch:
		if batch, ok := msg.(tea.BatchMsg); ok {
			var out []tea.Msg
			for _, c := range batch {
				out = append(out, messages(c)...)
			}
			return out
		}
		if msg == nil {
			return nil
		}
		return []tea.Msg{msg}
	case <-time.After(50 * time.Millisecond):
		return nil
	}
}

// pump feeds the app's own follow-up messages back into it until none remain.
func (f fixture) pump(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	var seen []tea.Msg
	queue := messages(cmd)
	for i := 0; len(queue) > 0 && i < 50; i++ {
		msg := queue[0]
		queue = queue[1:]
		seen = append(seen, msg)
		switch msg.(type) {
		case spinner.TickMsg, tea.QuitMsg:
			continue
		}
		_, next := f.app.Update(msg)
		queue = append(queue, messages(next)...)
	}
	return seen
}

func (f fixture) key(t *testing.T, k tea.KeyType) []tea.Msg {
	t.Helper()
	_, cmd := f.app.Update(tea.KeyMsg{Type: k})
	return f.pump(t, cmd)
}

func (f fixture) keyString(t *testing.T, s string) []tea.Msg {
	t.Helper()
	_, cmd := f.app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return f.pump(t, cmd)
}

func (f fixture) init(t *testing.T) {
	t.Helper()
	f.pump(t, f.app.Init())
}

// =============================================================================
// STARTUP AND GUARD
// =============================================================================

func TestStartsOnHomeAsGuest(t *testing.T) {
	f := newFixture(t, "", false)
	f.init(t)

	assert.Equal(t, components.PageHome, f.app.Active())
	view := f.app.View()
	assert.Contains(t, view, HeroTitle)
	assert.Contains(t, view, components.GuestLabel)
}

func TestAccountWaitsWhileReconciling(t *testing.T) {
	f := newFixture(t, "tok-old", false)

	f.key(t, tea.KeyF5)
	assert.Equal(t, components.PageAccount, f.app.Active())
	assert.Contains(t, f.app.View(), guard.WaitingText)

	f.init(t)
	assert.Equal(t, components.PageAccount, f.app.Active())
	assert.Contains(t, f.app.View(), "ada@example.com")
}

func TestAccountRedirectsGuestToLogin(t *testing.T) {
	f := newFixture(t, "", false)
	f.init(t)

	f.key(t, tea.KeyF5)
	assert.Equal(t, components.PageLogin, f.app.Active())
	assert.Contains(t, f.app.View(), "Log in to open Account.")
}

func TestExpiredTokenIsReported(t *testing.T) {
	f := newFixture(t, "tok-old", false)
	f.auth.meErr = &api.Error{Status: 401, Message: "Token has expired"}
	f.init(t)

	assert.False(t, f.store.Snapshot().Authenticated())
	assert.Equal(t, NoticeExpired, f.app.Notice())
}

func TestAmbiguousReconcileKeepsSession(t *testing.T) {
	f := newFixture(t, "tok-old", false)
	f.auth.meErr = &api.Error{Status: 500}
	f.init(t)

	assert.True(t, f.store.Snapshot().Authenticated())
	f.key(t, tea.KeyF5)
	assert.Equal(t, components.PageAccount, f.app.Active())
}

// =============================================================================
// LOGIN AND REGISTER
// =============================================================================

func TestLoginNavigatesToChat(t *testing.T) {
	f := newFixture(t, "", false)
	f.init(t)

	f.key(t, tea.KeyF3)
	f.keyString(t, "ada@example.com")
	f.key(t, tea.KeyTab)
	f.keyString(t, "engine42")
	f.key(t, tea.KeyEnter)

	assert.Equal(t, components.PageChat, f.app.Active())
	assert.Equal(t, "ada@example.com", f.auth.lastUser)
	assert.Equal(t, "tok-new", f.store.Token())
	assert.Equal(t, "Welcome, Ada Lovelace.", f.app.Notice())
	assert.Contains(t, f.app.View(), "Ada Lovelace")
}

func TestLoginValidationStaysLocal(t *testing.T) {
	f := newFixture(t, "", false)
	f.init(t)

	f.key(t, tea.KeyF3)
	f.keyString(t, "not-an-email")
	f.key(t, tea.KeyTab)
	f.keyString(t, "pw")
	f.key(t, tea.KeyEnter)

	assert.Equal(t, components.PageLogin, f.app.Active())
	assert.Empty(t, f.auth.lastUser)
	assert.Contains(t, f.app.View(), session.ErrEmailInvalid.Error())
}

func TestLoginFailureShowsBackendMessage(t *testing.T) {
	f := newFixture(t, "", false)
	f.auth.err = &api.Error{Status: 401, Message: "Invalid email or password"}
	f.init(t)

	f.key(t, tea.KeyF3)
	f.keyString(t, "ada@example.com")
	f.key(t, tea.KeyTab)
	f.keyString(t, "wrong")
	f.key(t, tea.KeyEnter)

	assert.Equal(t, components.PageLogin, f.app.Active())
	assert.False(t, f.store.Snapshot().Authenticated())
	assert.Contains(t, f.app.View(), "Invalid email or password")
}

func TestRegisterRejectsMismatchedPasswords(t *testing.T) {
	f := newFixture(t, "", false)
	f.init(t)

	f.key(t, tea.KeyF4)
	for _, v := range []string{"Ada", "Lovelace", "ada@example.com", "engine42"} {
		f.keyString(t, v)
		f.key(t, tea.KeyTab)
	}
	f.keyString(t, "engine43")
	f.key(t, tea.KeyEnter)

	assert.Equal(t, components.PageRegister, f.app.Active())
	assert.Empty(t, f.auth.lastUser)
	assert.Contains(t, f.app.View(), session.ErrPasswordMismatch.Error())
}

func TestRegisterLogsIn(t *testing.T) {
	f := newFixture(t, "", false)
	f.init(t)

	f.key(t, tea.KeyF4)
	for _, v := range []string{"Ada", "Lovelace", "ada@example.com", "engine42"} {
		f.keyString(t, v)
		f.key(t, tea.KeyTab)
	}
	f.keyString(t, "engine42")
	f.key(t, tea.KeyEnter)

	assert.Equal(t, components.PageChat, f.app.Active())
	assert.True(t, f.store.Snapshot().Authenticated())
}

func TestRedirectReturnsToAccountAfterLogin(t *testing.T) {
	f := newFixture(t, "", false)
	f.init(t)

	f.key(t, tea.KeyF5)
	require.Equal(t, components.PageLogin, f.app.Active())
	f.keyString(t, "ada@example.com")
	f.key(t, tea.KeyTab)
	f.keyString(t, "engine42")
	f.key(t, tea.KeyEnter)

	assert.Equal(t, components.PageAccount, f.app.Active())
}

// =============================================================================
// LOGOUT
// =============================================================================

func TestLogoutFromAccount(t *testing.T) {
	f := newFixture(t, "tok-old", false)
	f.init(t)

	f.key(t, tea.KeyF5)
	require.Equal(t, components.PageAccount, f.app.Active())
	f.keyString(t, "o")

	assert.Equal(t, components.PageHome, f.app.Active())
	assert.False(t, f.store.Snapshot().Authenticated())
	assert.Equal(t, NoticeLoggedOut, f.app.Notice())

	// a late session notification must not bounce the user to login
	f.pump(t, func() tea.Msg { return SessionChangedMsg{State: f.store.Snapshot()} })
	assert.Equal(t, components.PageHome, f.app.Active())
}

func TestLogoutDuringPendingSendClearsConversation(t *testing.T) {
	backend := &gatedBackend{gate: make(chan struct{})}
	defer close(backend.gate)
	f := newFixtureWithBackend(t, "tok-old", false, backend)
	f.init(t)

	f.key(t, tea.KeyF2)
	f.keyString(t, "my private question")
	_, cmd := f.app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	go messages(cmd)
	require.Eventually(t, func() bool { return atomic.LoadInt32(&backend.calls) == 1 }, time.Second, time.Millisecond)
	require.True(t, f.ctrl.Sending())

	f.key(t, tea.KeyF5)
	require.Equal(t, components.PageAccount, f.app.Active())
	f.keyString(t, "o")
	require.False(t, f.store.Snapshot().Authenticated())

	require.Eventually(t, func() bool { return !f.ctrl.Sending() }, time.Second, time.Millisecond)
	msgs := f.ctrl.Transcript()
	require.Len(t, msgs, 1)
	assert.Equal(t, chatctl.WelcomeMessage, msgs[0].Text)
	for _, m := range msgs {
		assert.NotContains(t, m.Text, "my private question")
	}
	assert.Nil(t, f.ctrl.Usage())
}

// =============================================================================
// CHAT
// =============================================================================

func TestAnonymousChatIsOpenByDefault(t *testing.T) {
	f := newFixture(t, "", false)
	f.init(t)

	f.key(t, tea.KeyF2)
	assert.Equal(t, components.PageChat, f.app.Active())
	f.keyString(t, "hello")
	f.key(t, tea.KeyEnter)

	assert.Contains(t, f.app.View(), "Here you go")
}

func TestRequireLoginGuardsChat(t *testing.T) {
	f := newFixture(t, "", true)
	f.init(t)

	f.key(t, tea.KeyF2)
	assert.Equal(t, components.PageLogin, f.app.Active())
	assert.Contains(t, f.app.View(), "Log in to open Chat.")
}

func TestChatResultReachesPageOffScreen(t *testing.T) {
	f := newFixture(t, "", false)
	f.init(t)
	f.key(t, tea.KeyF2)

	f.keyString(t, "hello")
	_, cmd := f.app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	f.key(t, tea.KeyF1)
	require.Equal(t, components.PageHome, f.app.Active())

	seen := f.pump(t, cmd)
	var gotResult bool
	for _, msg := range seen {
		if _, ok := msg.(uichat.ResultMsg); ok {
			gotResult = true
		}
	}
	require.True(t, gotResult)

	f.key(t, tea.KeyF2)
	assert.Contains(t, f.app.View(), "Here you go")
	assert.NotContains(t, f.app.View(), "waiting for the answer")
}

// =============================================================================
// CHROME
// =============================================================================

func TestCtrlCQuits(t *testing.T) {
	f := newFixture(t, "", false)
	_, cmd := f.app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestHomeShortcuts(t *testing.T) {
	f := newFixture(t, "", false)
	f.init(t)

	f.keyString(t, "r")
	assert.Equal(t, components.PageRegister, f.app.Active())
	f.key(t, tea.KeyEsc)
	assert.Equal(t, components.PageHome, f.app.Active())
	f.keyString(t, "c")
	assert.Equal(t, components.PageChat, f.app.Active())
}

func TestViewFillsTerminal(t *testing.T) {
	f := newFixture(t, "", false)
	f.init(t)
	view := f.app.View()
	assert.Len(t, strings.Split(view, "\n"), 36)
}

func TestSessionChangedUpdatesNavbar(t *testing.T) {
	f := newFixture(t, "", false)
	f.init(t)

	f.app.Update(SessionChangedMsg{State: session.State{Token: "t", User: ada()}})
	assert.Contains(t, f.app.View(), "Ada Lovelace")
}
