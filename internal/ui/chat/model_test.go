// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zenitalk/zenitalk-tui/internal/api"
	chatctl "github.com/zenitalk/zenitalk-tui/internal/chat"
	"github.com/zenitalk/zenitalk-tui/internal/ui/components"
	"github.com/zenitalk/zenitalk-tui/internal/ui/styles"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

type noToken struct{}

func (noToken) Token() string { return "" }

type stubBackend struct {
	calls int32
	gate  chan struct{}
	resp  *api.ChatResponse
	err   error
}

func (s *stubBackend) Chat(ctx context.Context, _ string, _ api.ChatRequest) (*api.ChatResponse, error) {
	atomic.AddInt32(&s.calls, 1)
	if s.gate != nil {
		select {
		case <-s.gate:
		case <-ctx.Done():
			return nil, &api.TransportError{Op: "POST /chat", Err: ctx.Err()}
		}
	}
	return s.resp, s.err
}

func newPage(t *testing.T, b chatctl.Backend) Model {
	t.Helper()
	theme := styles.NewTheme(styles.ModeDark)
	theme.SetSize(100, 30)
	ctrl := chatctl.NewController(b, noToken{}, chatctl.Options{
		SessionID:        "user_1700000000000_abcdefghi",
		RotationInterval: time.Hour,
	})
	m := New(theme, ctrl, nil)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return next.(Model)
}

func press(m Model, k tea.KeyType) (Model, tea.Cmd) {
	next, cmd := m.Update(tea.KeyMsg{Type: k})
	return next.(Model), cmd
}

func typeText(m Model, s string) Model {
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return next.(Model)
}

// findResult runs every command in cmd and returns the ResultMsg among them.
func findResult(cmd tea.Cmd) (ResultMsg, bool) {
	if cmd == nil {
		return ResultMsg{}, false
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			if r, ok := findResult(c); ok {
				return r, true
			}
		}
		return ResultMsg{}, false
	}
	r, ok := msg.(ResultMsg)
	return r, ok
}

func resultFrom(t *testing.T, cmd tea.Cmd) ResultMsg {
	t.Helper()
	r, ok := findResult(cmd)
	require.True(t, ok, "no ResultMsg produced")
	return r
}

// =============================================================================
// SEND
// =============================================================================

func TestSubmitAnswersAndClearsInput(t *testing.T) {
	b := &stubBackend{resp: &api.ChatResponse{
		Answer: "Hi there",
		Usage:  &api.Usage{DailyCount: 1, DailyLimit: 5, Remaining: 4},
	}}
	m := newPage(t, b)
	m = typeText(m, "hello")

	m, cmd := press(m, tea.KeyEnter)
	assert.Empty(t, m.InputValue())
	assert.True(t, m.Controller().Sending())
	require.Len(t, m.Controller().Transcript(), 3)

	res := resultFrom(t, cmd)
	assert.Equal(t, chatctl.OutcomeAnswered, res.Result.Outcome)

	next, _ := m.Update(res)
	m = next.(Model)
	assert.False(t, m.Controller().Sending())
	assert.Empty(t, m.Status())

	view := m.View()
	assert.Contains(t, view, "Hi there")
	assert.Contains(t, view, "1/5 today")
}

func TestEmptySubmitIsIgnored(t *testing.T) {
	b := &stubBackend{resp: &api.ChatResponse{Answer: "x"}}
	m := newPage(t, b)
	m = typeText(m, "   ")

	m, cmd := press(m, tea.KeyEnter)
	assert.Nil(t, cmd)
	assert.Len(t, m.Controller().Transcript(), 1)
	assert.Equal(t, int32(0), atomic.LoadInt32(&b.calls))
}

func TestSecondSubmitWhileSendingIsRefused(t *testing.T) {
	b := &stubBackend{gate: make(chan struct{}), resp: &api.ChatResponse{Answer: "done"}}
	m := newPage(t, b)

	m = typeText(m, "first")
	m, cmd := press(m, tea.KeyEnter)
	require.NotNil(t, cmd)

	m = typeText(m, "second")
	m, again := press(m, tea.KeyEnter)
	assert.Nil(t, again)
	assert.Equal(t, StatusBusy, m.Status())
	assert.Equal(t, "second", m.InputValue())
	assert.Len(t, m.Controller().Transcript(), 3)

	close(b.gate)
	res := resultFrom(t, cmd)
	assert.Equal(t, "done", res.Result.Text)
}

func TestEscCancelsPendingSend(t *testing.T) {
	b := &stubBackend{gate: make(chan struct{})}
	m := newPage(t, b)
	m = typeText(m, "slow question")
	m, cmd := press(m, tea.KeyEnter)

	done := make(chan ResultMsg, 1)
	go func() {
		r, _ := findResult(cmd)
		done <- r
	}()

	require.Eventually(t, func() bool { return atomic.LoadInt32(&b.calls) == 1 }, time.Second, time.Millisecond)
	m, navCmd := press(m, tea.KeyEsc)
	assert.Nil(t, navCmd)

	var res ResultMsg
	select {
	case res = <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("send did not finish after cancel")
	}
	assert.Equal(t, chatctl.OutcomeCancelled, res.Result.Outcome)

	next, _ := m.Update(res)
	m = next.(Model)
	assert.Equal(t, StatusCancelled, m.Status())
}

func TestEscWhenIdleGoesHome(t *testing.T) {
	m := newPage(t, &stubBackend{})
	_, cmd := press(m, tea.KeyEsc)
	require.NotNil(t, cmd)
	assert.Equal(t, components.NavigateMsg{To: components.PageHome}, cmd())
}

// =============================================================================
// LIMITS AND RESET
// =============================================================================

func TestAnonymousLimitShowsUpgradePrompt(t *testing.T) {
	b := &stubBackend{err: &api.Error{
		Status:       429,
		Message:      "Daily limit reached",
		UserType:     api.UserTypeAnonymous,
		LimitReached: true,
	}}
	m := newPage(t, b)
	m = typeText(m, "one more")
	m, cmd := press(m, tea.KeyEnter)

	next, _ := m.Update(resultFrom(t, cmd))
	m = next.(Model)
	assert.Equal(t, StatusLimit, m.Status())
	assert.Contains(t, m.View(), UpgradeTitle)
	assert.Contains(t, m.View(), chatctl.LimitExceededMessage[:20])

	m, _ = press(m, tea.KeyCtrlX)
	assert.False(t, m.Controller().UpgradePrompt())
	assert.NotContains(t, m.View(), UpgradeTitle)
}

func TestResetStartsNewConversation(t *testing.T) {
	b := &stubBackend{resp: &api.ChatResponse{Answer: "answer"}}
	m := newPage(t, b)
	m = typeText(m, "q")
	m, cmd := press(m, tea.KeyEnter)
	next, _ := m.Update(resultFrom(t, cmd))
	m = next.(Model)
	require.Len(t, m.Controller().Transcript(), 3)

	m, _ = press(m, tea.KeyCtrlN)
	assert.Equal(t, StatusNewChat, m.Status())
	assert.Len(t, m.Controller().Transcript(), 1)
}

func TestResetWhileSendingIsRefused(t *testing.T) {
	b := &stubBackend{gate: make(chan struct{}), resp: &api.ChatResponse{Answer: "a"}}
	m := newPage(t, b)
	m = typeText(m, "q")
	m, cmd := press(m, tea.KeyEnter)

	m, _ = press(m, tea.KeyCtrlN)
	assert.Equal(t, StatusBusy, m.Status())
	assert.Len(t, m.Controller().Transcript(), 3)

	close(b.gate)
	resultFrom(t, cmd)
}

func TestTranscriptChangedRefreshesView(t *testing.T) {
	b := &stubBackend{resp: &api.ChatResponse{Answer: "fresh"}}
	m := newPage(t, b)
	_, err := m.Controller().Ask(context.Background(), "outside the page")
	require.NoError(t, err)

	next, _ := m.Update(TranscriptChangedMsg{})
	m = next.(Model)
	assert.Contains(t, m.View(), "fresh")
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name   string
		result chatctl.Result
		want   string
	}{
		{"answered", chatctl.Result{Outcome: chatctl.OutcomeAnswered}, ""},
		{"cancelled", chatctl.Result{Outcome: chatctl.OutcomeCancelled}, StatusCancelled},
		{"anonymous", chatctl.Result{Outcome: chatctl.OutcomeAnonymousLimit}, StatusLimit},
		{"quota", chatctl.Result{Outcome: chatctl.OutcomeQuota}, "Daily limit reached."},
		{"http", chatctl.Result{Outcome: chatctl.OutcomeFailed, Err: &api.Error{Status: 500}}, "Backend error (HTTP 500)."},
		{"transport", chatctl.Result{Outcome: chatctl.OutcomeFailed, Err: &api.TransportError{Op: "POST /chat", Err: errors.New("refused")}}, "Backend unreachable."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.result))
		})
	}
}
