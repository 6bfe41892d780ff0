// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zenitalk/zenitalk-tui/internal/session"
	"github.com/zenitalk/zenitalk-tui/internal/ui/components"
)

// =============================================================================
// SESSION MESSAGES
// =============================================================================

// SessionChangedMsg carries a new session snapshot.
type SessionChangedMsg struct {
	State session.State
}

// ReconciledMsg reports the startup reconcile.
type ReconciledMsg struct {
	Outcome session.Outcome
}

// SubscribeProgram forwards every store change to p and returns the
// unsubscribe function. Delivery is asynchronous because Logout runs inside
// Update, where a blocking Send would deadlock the event loop.
func SubscribeProgram(store *session.Store, p interface{ Send(tea.Msg) }) func() {
	return store.Subscribe(func(st session.State) {
		go p.Send(SessionChangedMsg{State: st})
	})
}

// =============================================================================
// PAGE MESSAGES
// =============================================================================

// authResultMsg is the outcome of a login or registration request.
type authResultMsg struct {
	page components.Page
	err  error
}

// redirectMsg is issued by a guard whose session settled without a token.
type redirectMsg struct {
	from components.Page
}

// guardCheckMsg makes a guard re-evaluate right after navigation.
type guardCheckMsg struct{}

// logoutMsg asks the app to leave the current page and end the session.
type logoutMsg struct{}

func requestLogout() tea.Msg { return logoutMsg{} }

func redirectTo(from components.Page) tea.Cmd {
	return func() tea.Msg { return redirectMsg{from: from} }
}
