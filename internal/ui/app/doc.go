// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package app is the root of the zenitalk TUI.

Model owns the navbar, the status bar and the five pages (home, chat, login,
register, account). The account page, and the chat page when login is
required, sit behind guard.Model: they show a spinner while the session is
reconciling and redirect to login once it settles without a token. After a
successful login the user returns to the page that redirected them, or to
chat.

# Routing

Keys go to the page on screen, except F1-F5 (pages) and ctrl+c (quit).
Chat results and transcript changes always reach the chat page so a send
can finish while another page is shown. Session changes re-check the guard
of the page on screen.

# Usage

	m := app.New(app.Options{Store: store, Controller: ctrl, Theme: theme})
	p := tea.NewProgram(m, tea.WithAltScreen())
	defer app.SubscribeProgram(store, p)()
	ctrl.OnChange(uichat.NotifyProgram(p))
	_, err := p.Run()
*/
package app
