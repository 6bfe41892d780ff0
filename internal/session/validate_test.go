// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateLogin(t *testing.T) {
	assert.NoError(t, ValidateLogin("ada@example.com", "x"))
	assert.ErrorIs(t, ValidateLogin("", "secret1"), ErrEmailInvalid)
	assert.ErrorIs(t, ValidateLogin("not-an-email", "secret1"), ErrEmailInvalid)
	assert.ErrorIs(t, ValidateLogin("Ada <ada@example.com>", "secret1"), ErrEmailInvalid)
	assert.ErrorIs(t, ValidateLogin("ada@example.com", ""), ErrPasswordRequired)
}

func TestValidateRegister(t *testing.T) {
	valid := RegisterForm{
		Name:            "Ada",
		Surname:         "Lovelace",
		Email:           "ada@example.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	}

	testCases := []struct {
		name   string
		mutate func(*RegisterForm)
		want   error
	}{
		{"valid", func(f *RegisterForm) {}, nil},
		{"blank name", func(f *RegisterForm) { f.Name = "  " }, ErrNameRequired},
		{"blank surname", func(f *RegisterForm) { f.Surname = "" }, ErrSurnameRequired},
		{"bad email", func(f *RegisterForm) { f.Email = "ada" }, ErrEmailInvalid},
		{"mismatch", func(f *RegisterForm) { f.ConfirmPassword = "secret2" }, ErrPasswordMismatch},
		{"short", func(f *RegisterForm) { f.Password, f.ConfirmPassword = "abc", "abc" }, ErrPasswordTooShort},
		{"six multibyte runes", func(f *RegisterForm) { f.Password, f.ConfirmPassword = "şifreğ", "şifreğ" }, nil},
		{"name checked first", func(f *RegisterForm) { f.Name = ""; f.Password = "x" }, ErrNameRequired},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			form := valid
			tc.mutate(&form)
			err := ValidateRegister(form)
			if tc.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.want)
			}
		})
	}
}
