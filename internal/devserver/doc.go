// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package devserver provides an in-memory zenitalk backend for local
// development and integration tests.
//
// # Endpoints
//
//   - POST /auth/register - Create an account, returns {access_token, user}
//   - POST /auth/login    - Exchange credentials for {access_token, user}
//   - GET  /auth/me       - Profile for the bearer token
//   - POST /chat          - Answer a question, bearer token optional
//   - GET  /health        - Liveness and counters
//
// # Behaviour
//
//   - Passwords are bcrypt hashed; tokens are HS256 JWTs
//   - /auth/me answers 401 for invalid or expired tokens and 422 for a
//     malformed Authorization header
//   - /chat enforces daily quotas per user id, or per session_id for
//     anonymous visitors, and answers 429 with limit details when exceeded
//   - A global token bucket answers a generic 429 under load
//
// # Key Types
//
//   - Server: gin engine plus user, quota and rate-limit state
//   - Stats: request counters reported by /health
//
// # Usage
//
//	srv := devserver.New(cfg.DevServer, devserver.WithLogger(logger))
//	go srv.Start()
//	defer srv.Shutdown(ctx)
package devserver
