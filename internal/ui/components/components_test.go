// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zenitalk/zenitalk-tui/internal/api"
	"github.com/zenitalk/zenitalk-tui/internal/chat"
	"github.com/zenitalk/zenitalk-tui/internal/session"
	"github.com/zenitalk/zenitalk-tui/internal/ui/render"
	"github.com/zenitalk/zenitalk-tui/internal/ui/styles"
)

func testTheme(width int) *styles.Theme {
	t := styles.NewTheme(styles.ModeDark)
	t.SetSize(width, 30)
	return t
}

func typeRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// =============================================================================
// NAVIGATION
// =============================================================================

func TestPageKeysRoundTrip(t *testing.T) {
	for _, p := range Pages {
		got, ok := PageForKey(p.Key())
		require.True(t, ok, p.String())
		assert.Equal(t, p, got)
	}
	_, ok := PageForKey("f9")
	assert.False(t, ok)
	assert.Equal(t, "Unknown", Page(42).String())
}

func TestNavigateCommand(t *testing.T) {
	msg := Navigate(PageLogin)()
	assert.Equal(t, NavigateMsg{To: PageLogin}, msg)
}

// =============================================================================
// NAVBAR
// =============================================================================

func TestNavbar_Identity(t *testing.T) {
	n := NewNavbar(testTheme(120))
	assert.Equal(t, GuestLabel, n.Identity())

	n.SetIdentity(session.State{Token: "tok", User: &api.User{Name: "Ada", Surname: "Lovelace", Email: "ada@example.com"}})
	assert.Equal(t, "Ada Lovelace", n.Identity())

	n.SetIdentity(session.State{Token: "tok", User: &api.User{Email: "ada@example.com"}})
	assert.Equal(t, "ada@example.com", n.Identity())

	n.SetIdentity(session.State{Token: "tok"})
	assert.Equal(t, "signed in", n.Identity())

	n.SetIdentity(session.State{})
	assert.Equal(t, GuestLabel, n.Identity())
}

func TestNavbar_ViewFitsOneLine(t *testing.T) {
	for _, width := range []int{40, 80, 140} {
		n := NewNavbar(testTheme(width))
		n.SetWidth(width)
		n.SetActive(PageChat)
		n.SetIdentity(session.State{Token: "tok", User: &api.User{Name: "Ada"}})

		view := n.View()
		assert.NotContains(t, view, "\n", "width %d", width)
		assert.LessOrEqual(t, lipgloss.Width(view), width, "width %d", width)
		assert.Contains(t, view, "Chat")
	}
}

func TestNavbar_LoadingHidesIdentity(t *testing.T) {
	n := NewNavbar(testTheme(120))
	n.SetWidth(120)
	n.SetIdentity(session.State{Token: "tok", Loading: true, User: &api.User{Name: "Ada"}})
	assert.Contains(t, n.View(), "...")
	assert.NotContains(t, n.View(), "Ada")
}

// =============================================================================
// STATUS BAR
// =============================================================================

func TestStatusBar_DropsHintsWhenNarrow(t *testing.T) {
	s := NewStatusBar(testTheme(120))
	s.SetWidth(120)
	s.Status = "Ready"
	s.Shortcuts = []Shortcut{{Key: "enter", Desc: "send"}, {Key: "esc", Desc: "back"}}
	assert.Contains(t, s.View(), "send")

	narrow := NewStatusBar(testTheme(40))
	narrow.SetWidth(40)
	narrow.Status = "Ready"
	narrow.Shortcuts = s.Shortcuts
	view := narrow.View()
	assert.Contains(t, view, "Ready")
	assert.NotContains(t, view, "send")
	assert.LessOrEqual(t, lipgloss.Width(view), 40)
}

// =============================================================================
// FORM
// =============================================================================

func newLoginForm() *Form {
	return NewForm(testTheme(80), "Log in", "Log in",
		NewField("Email", "you@example.com", false),
		NewField("Password", "", true))
}

func TestForm_FocusCycles(t *testing.T) {
	f := newLoginForm()
	assert.Equal(t, 0, f.Focus())
	assert.True(t, f.Fields[0].Focused())

	f.Next()
	assert.Equal(t, 1, f.Focus())
	assert.True(t, f.OnLast())
	assert.False(t, f.Fields[0].Focused())

	f.Next()
	assert.Equal(t, 0, f.Focus())
	f.Prev()
	assert.Equal(t, 1, f.Focus())
}

func TestForm_TypingGoesToFocusedField(t *testing.T) {
	f := newLoginForm()
	f.Update(typeRunes("ada@example.com"))
	f.Next()
	f.Update(typeRunes("secret"))

	assert.Equal(t, "ada@example.com", f.Fields[0].Value())
	assert.Equal(t, "secret", f.Fields[1].Value())
	assert.NotContains(t, f.View(), "secret")
}

func TestForm_BusyIgnoresInput(t *testing.T) {
	f := newLoginForm()
	f.SetBusy(true)
	f.Update(typeRunes("x"))
	assert.Empty(t, f.Fields[0].Value())
	assert.Contains(t, f.View(), "Log in...")
}

func TestForm_ErrorAndReset(t *testing.T) {
	f := newLoginForm()
	f.Fields[0].SetValue("ada@example.com")
	f.Next()
	f.SetError("Invalid email or password")
	f.SetBusy(true)
	assert.Contains(t, f.View(), "Invalid email or password")

	f.Reset()
	assert.Empty(t, f.Error())
	assert.False(t, f.Busy())
	assert.Empty(t, f.Fields[0].Value())
	assert.Equal(t, 0, f.Focus())
}

// =============================================================================
// INPUT AREA
// =============================================================================

func TestInputArea(t *testing.T) {
	in := NewInputArea(testTheme(80))
	in.SetWidth(80)
	in.Update(typeRunes("hello"))
	assert.Equal(t, "hello", in.Value())

	in.SetDisabled(true)
	assert.True(t, in.Disabled())
	in.Reset()
	assert.Contains(t, in.View(), "esc to cancel")

	in.SetDisabled(false)
	assert.Contains(t, in.View(), "Type your question")
}

func TestInputArea_CounterNearLimit(t *testing.T) {
	in := NewInputArea(testTheme(80))
	in.SetValue(strings.Repeat("a", MaxQuestionChars-10))
	assert.Contains(t, in.View(), "/4000")
}

// =============================================================================
// MESSAGE VIEW
// =============================================================================

func TestMessageView_Labels(t *testing.T) {
	v := NewMessageView(testTheme(100), nil)
	v.Width = 100
	at := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)

	user := v.Render(chat.Message{Text: "hi there", Sender: chat.SenderUser, CreatedAt: at}, "")
	assert.Contains(t, user, "You")
	assert.Contains(t, user, "09:30")
	assert.Contains(t, user, "hi there")

	bot := v.Render(chat.Message{Text: "hello", Sender: chat.SenderBot}, "")
	assert.Contains(t, bot, "ZeniTalk")
	assert.Contains(t, bot, "hello")
}

func TestMessageView_PlaceholderShowsSpinnerFrame(t *testing.T) {
	v := NewMessageView(testTheme(100), nil)
	out := v.Render(chat.Message{Text: "Thinking...", Sender: chat.SenderBot, IsLoading: true}, "|")
	assert.Contains(t, out, "| Thinking...")
}

func TestMessageView_MarkdownAnswers(t *testing.T) {
	v := NewMessageView(testTheme(100), render.New(true, "dark"))
	v.Width = 100
	out := v.Render(chat.Message{Text: "**bold** answer", Sender: chat.SenderBot}, "")
	assert.Contains(t, out, "bold")
	assert.NotContains(t, out, "**")
}

func TestMessageView_WrapsToWidth(t *testing.T) {
	v := NewMessageView(testTheme(50), nil)
	v.Width = 50
	out := v.Render(chat.Message{Text: strings.Repeat("word ", 40), Sender: chat.SenderUser}, "")
	assert.LessOrEqual(t, maxLineWidth(out), 50)
}

func TestMessageView_RenderAll(t *testing.T) {
	v := NewMessageView(testTheme(80), nil)
	out := v.RenderAll([]chat.Message{
		{Text: "one", Sender: chat.SenderUser},
		{Text: "two", Sender: chat.SenderBot},
	}, "")
	assert.Less(t, strings.Index(out, "one"), strings.Index(out, "two"))
}

func TestWordWrap(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  string
	}{
		{"fits", "short text", 20, "short text"},
		{"wraps", "aaa bbb ccc", 7, "aaa bbb\nccc"},
		{"keeps newlines", "a\n\nb", 10, "a\n\nb"},
		{"zero width", "a b", 0, "a b"},
		{"long word", "abcdefghij x", 4, "abcdefghij\nx"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, wordWrap(tt.text, tt.width))
		})
	}
}
