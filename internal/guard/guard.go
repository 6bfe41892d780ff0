// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package guard gates protected views on the session state.
//
// Decide is a pure read of a session.State. Model wraps any Bubble Tea model
// and applies the decision: a spinner while the session is reconciling, a
// single redirect command once it settles without a token, and the wrapped
// model unchanged otherwise.
package guard

import "github.com/zenitalk/zenitalk-tui/internal/session"

// Decision is the guard's verdict for a protected view.
type Decision int

const (
	// Wait: the session is still reconciling.
	Wait Decision = iota
	// Redirect: settled with no token; send the user to login.
	Redirect
	// Allow: render the protected view.
	Allow
)

func (d Decision) String() string {
	switch d {
	case Wait:
		return "wait"
	case Redirect:
		return "redirect"
	case Allow:
		return "allow"
	default:
		return "unknown"
	}
}

// Decide maps session state to a Decision. It has no side effects.
func Decide(st session.State) Decision {
	switch {
	case st.Loading:
		return Wait
	case st.Token == "":
		return Redirect
	default:
		return Allow
	}
}
