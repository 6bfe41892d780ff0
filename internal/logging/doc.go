// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging builds the structured zap logger used across zenitalk.
//
// The terminal UI owns stdout, so the client logs to a file. The dev backend
// may log to stderr instead.
//
// # Usage
//
//	logger, err := logging.FromConfig(cfg)
//	if err != nil {
//	    return err
//	}
//	defer logger.Sync()
//	logger.Info("login_ok", logging.Token(token))
package logging
