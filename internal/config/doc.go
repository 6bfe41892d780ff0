// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for zenitalk.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - APIConfig: Backend URL and request timeouts
//   - SessionConfig: Which /auth/me statuses destroy a stored session
//   - StorageConfig: Persistent key-value backend selection
//   - ChatConfig: Placeholder rotation and chat access
//   - DevServerConfig: Local development backend settings
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (ZENITALK_*), optionally from a .env file
//   - ~/.zenitalk/config.toml
//   - ~/.zenitalk/config.json
//   - Built-in defaults
//
// # Usage
//
//	_ = config.LoadDotEnv()
//	cfg, err := config.Load()
//	if err != nil {
//	    return err
//	}
//	client := api.NewClient(cfg.API.BaseURL)
package config
