// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"errors"
	"fmt"
	"net/http"
)

// UserTypeAnonymous is the user_type reported for visitors without a token.
const UserTypeAnonymous = "anonymous"

// Error is a non-200 response from the backend.
type Error struct {
	Status       int
	Message      string
	UserType     string
	LimitReached bool
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend error (HTTP %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("backend error (HTTP %d)", e.Status)
}

// IsRateLimited reports a 429 response.
func (e *Error) IsRateLimited() bool {
	return e.Status == http.StatusTooManyRequests
}

// IsAnonymousLimit reports the anonymous daily limit being reached.
func (e *Error) IsAnonymousLimit() bool {
	return e.IsRateLimited() && e.UserType == UserTypeAnonymous && e.LimitReached
}

// TransportError wraps a request that never produced an HTTP response
// (connection failure, timeout, cancellation, unreadable body).
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsTransport reports whether err is a transport failure.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// MessageOf returns the backend message carried by err, or "".
func MessageOf(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}
