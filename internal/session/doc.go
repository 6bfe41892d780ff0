// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns the client's identity: the bearer token, the cached
// user profile, and whether the persisted token has been reconciled with the
// backend yet.
//
// A Store is created once by the application root and handed to every
// consumer (route guard, chat controller, UI pages, CLI commands). There is
// no package-level instance.
//
// # Key Types
//
//   - Store: Identity state with Login, Register, Logout and Reconcile
//   - State: Immutable snapshot of {User, Token, Loading}
//   - Outcome: What a reconciliation did
//   - AuthError: Human-readable login/register failure
//
// # Reconciliation
//
// A restored token without a cached profile is checked against /auth/me.
// Only statuses in the invalidating set (401 by default) destroy the session;
// every other failure, including network errors, keeps it.
//
// # Usage
//
//	store := session.NewStore(kv, client, session.WithLogger(logger))
//	store.Reconcile(ctx)
//	if err := store.Login(ctx, email, password); err != nil {
//	    fmt.Println(err) // backend message, e.g. "Invalid email or password"
//	}
//
// The anonymous correlation key is managed separately by AnonymousID.
package session
