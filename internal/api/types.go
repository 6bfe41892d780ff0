// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// UserID accepts both string and numeric ids from the backend.
type UserID string

// UnmarshalJSON implements json.Unmarshaler.
func (id *UserID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = UserID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("user id: %w", err)
	}
	if _, err := strconv.ParseFloat(n.String(), 64); err != nil {
		return fmt.Errorf("user id: %w", err)
	}
	*id = UserID(n.String())
	return nil
}

// User is the profile record returned by the auth endpoints.
type User struct {
	ID      UserID `json:"id"`
	Name    string `json:"name"`
	Surname string `json:"surname"`
	Email   string `json:"email"`
}

// DisplayName returns "Name Surname", falling back to the email.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	switch {
	case u.Name != "" && u.Surname != "":
		return u.Name + " " + u.Surname
	case u.Name != "":
		return u.Name
	default:
		return u.Email
	}
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is the success body of login and register.
type AuthResponse struct {
	AccessToken string `json:"access_token"`
	User        *User  `json:"user"`
}

// MeResponse is the success body of GET /auth/me.
type MeResponse struct {
	User *User `json:"user"`
}

// ChatRequest is the body of POST /chat.
// SessionID is sent whether or not a token is attached.
type ChatRequest struct {
	Question  string `json:"question"`
	SessionID string `json:"session_id,omitempty"`
}

// Usage is the caller's metered quota for the day.
type Usage struct {
	DailyCount int `json:"daily_count"`
	DailyLimit int `json:"daily_limit"`
	Remaining  int `json:"remaining"`
}

// ChatResponse is the success body of POST /chat.
// Usage is nil when the backend omits it.
type ChatResponse struct {
	Answer string `json:"answer"`
	Usage  *Usage `json:"usage,omitempty"`
}

// ErrorPayload is the body of any non-200 response.
// Flask-JWT style backends report auth failures under "msg".
type ErrorPayload struct {
	Error        string `json:"error,omitempty"`
	Msg          string `json:"msg,omitempty"`
	UserType     string `json:"user_type,omitempty"`
	LimitReached bool   `json:"limit_reached,omitempty"`
}
