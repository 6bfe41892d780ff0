// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"errors"
	"net/mail"
	"strings"
	"unicode/utf8"
)

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 6

// Form validation errors. These never reach the network.
var (
	ErrNameRequired     = errors.New("name is required")
	ErrSurnameRequired  = errors.New("surname is required")
	ErrEmailInvalid     = errors.New("a valid email is required")
	ErrPasswordRequired = errors.New("password is required")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
)

// RegisterForm is the registration input including the confirmation field.
type RegisterForm struct {
	Name            string
	Surname         string
	Email           string
	Password        string
	ConfirmPassword string
}

// ValidateLogin checks login input before it is sent.
func ValidateLogin(email, password string) error {
	if !validEmail(email) {
		return ErrEmailInvalid
	}
	if password == "" {
		return ErrPasswordRequired
	}
	return nil
}

// ValidateRegister checks registration input in form order and returns the
// first problem.
func ValidateRegister(f RegisterForm) error {
	switch {
	case strings.TrimSpace(f.Name) == "":
		return ErrNameRequired
	case strings.TrimSpace(f.Surname) == "":
		return ErrSurnameRequired
	case !validEmail(f.Email):
		return ErrEmailInvalid
	case f.Password != f.ConfirmPassword:
		return ErrPasswordMismatch
	case utf8.RuneCountInString(f.Password) < MinPasswordLength:
		return ErrPasswordTooShort
	}
	return nil
}

func validEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
