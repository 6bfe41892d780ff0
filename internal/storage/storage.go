// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"fmt"
	"strings"

	"github.com/zenitalk/zenitalk-tui/internal/config"
)

// Persisted keys.
const (
	KeyToken     = "token"
	KeyUser      = "user"
	KeySessionID = "session_id"
)

// KV is a synchronous string key-value store.
// Get reports ok=false for a missing key; Remove of a missing key is not an error.
type KV interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Remove(key string) error
	Close() error
}

// Open creates the backend selected by cfg.Storage.
func Open(cfg *config.Config) (KV, error) {
	backend := strings.ToLower(cfg.Storage.Backend)
	if backend == "memory" {
		return NewMemoryStore(), nil
	}

	path, err := cfg.StoragePath()
	if err != nil {
		return nil, err
	}

	switch backend {
	case "file":
		return OpenFileStore(path)
	case "sqlite":
		return OpenSQLiteStore(path)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
