// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package devserver

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrMissingHeader means no Authorization header was sent.
	ErrMissingHeader = errors.New("missing Authorization header")
	// ErrMalformedHeader means the header is not "Bearer <token>".
	ErrMalformedHeader = errors.New("bad Authorization header, expected 'Bearer <JWT>'")
	// ErrTokenExpired means the token signature is valid but it has expired.
	ErrTokenExpired = errors.New("token has expired")
	// ErrTokenInvalid covers bad signatures, bad algorithms and garbage.
	ErrTokenInvalid = errors.New("invalid token")
)

// =============================================================================
// PASSWORDS
// =============================================================================

// hashPassword returns a bcrypt hash at the given cost.
func hashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// checkPassword reports whether password matches hash.
func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// =============================================================================
// TOKENS
// =============================================================================

// tokenSigner issues and verifies HS256 access tokens.
type tokenSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// Sign returns a token whose subject is userID.
func (ts *tokenSigner) Sign(userID string) (string, error) {
	now := ts.now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ts.ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ts.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify returns the subject of a valid token.
func (ts *tokenSigner) Verify(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return ts.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(ts.now),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "", ErrTokenExpired
	case err != nil:
		return "", ErrTokenInvalid
	case claims.Subject == "":
		return "", ErrTokenInvalid
	}
	return claims.Subject, nil
}

// bearerToken extracts the token from an Authorization header value.
func bearerToken(header string) (string, error) {
	if strings.TrimSpace(header) == "" {
		return "", ErrMissingHeader
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", ErrMalformedHeader
	}
	return parts[1], nil
}
