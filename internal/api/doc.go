// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the zenitalk inference backend.
//
// Four endpoints are consumed: POST /auth/login, POST /auth/register,
// GET /auth/me and POST /chat. Non-200 responses become *Error values carrying
// the status code and the backend's error payload; requests that never
// complete become transport errors (see IsTransport).
//
// # Usage
//
//	client := api.NewClient(cfg.API.BaseURL).
//	    WithTimeouts(cfg.AuthTimeout(), cfg.RequestTimeout()).
//	    WithLogger(logger)
//
//	resp, err := client.Chat(ctx, token, api.ChatRequest{Question: "hello", SessionID: sid})
//	var apiErr *api.Error
//	if errors.As(err, &apiErr) && apiErr.IsAnonymousLimit() {
//	    // show upgrade prompt
//	}
package api
