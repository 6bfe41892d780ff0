// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import "github.com/zenitalk/zenitalk-tui/internal/api"

// Auth operations.
const (
	OpLogin    = "login"
	OpRegister = "register"
)

// Generic messages used when the backend gives no reason.
const (
	MsgLoginFailed    = "Login failed"
	MsgRegisterFailed = "Registration failed"
	MsgUnreachable    = "could not reach the server"
)

// AuthError is a rejected login or registration. Error returns text fit for
// showing on the form.
type AuthError struct {
	Op      string
	Message string
	Err     error
}

func (e *AuthError) Error() string { return e.Message }

func (e *AuthError) Unwrap() error { return e.Err }

func newAuthError(op string, err error) *AuthError {
	generic := MsgLoginFailed
	if op == OpRegister {
		generic = MsgRegisterFailed
	}

	msg := api.MessageOf(err)
	switch {
	case msg != "":
	case api.IsTransport(err):
		msg = generic + ": " + MsgUnreachable
	default:
		msg = generic
	}
	return &AuthError{Op: op, Message: msg, Err: err}
}
