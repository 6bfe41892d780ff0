// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import tea "github.com/charmbracelet/bubbletea"

// Page identifies a top-level screen.
type Page int

const (
	PageHome Page = iota
	PageChat
	PageLogin
	PageRegister
	PageAccount
)

// Pages lists every page in navbar order.
var Pages = []Page{PageHome, PageChat, PageLogin, PageRegister, PageAccount}

// String returns the navbar label.
func (p Page) String() string {
	switch p {
	case PageHome:
		return "Home"
	case PageChat:
		return "Chat"
	case PageLogin:
		return "Login"
	case PageRegister:
		return "Register"
	case PageAccount:
		return "Account"
	default:
		return "Unknown"
	}
}

// Key is the function key that opens the page from anywhere.
func (p Page) Key() string {
	switch p {
	case PageHome:
		return "f1"
	case PageChat:
		return "f2"
	case PageLogin:
		return "f3"
	case PageRegister:
		return "f4"
	case PageAccount:
		return "f5"
	default:
		return ""
	}
}

// PageForKey maps a function key back to its page.
func PageForKey(key string) (Page, bool) {
	for _, p := range Pages {
		if p.Key() == key {
			return p, true
		}
	}
	return PageHome, false
}

// NavigateMsg asks the app to show another page.
type NavigateMsg struct {
	To Page
}

// Navigate returns a command that emits NavigateMsg.
func Navigate(to Page) tea.Cmd {
	return func() tea.Msg { return NavigateMsg{To: to} }
}
