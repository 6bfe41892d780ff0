// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the persistent key-value store that holds the
// client's credentials and anonymous session id between runs.
//
// # Key Types
//
//   - KV: The string key-value contract used by the session store
//   - MemoryStore: Process-local store, used by tests and --storage=memory
//   - FileStore: JSON document written atomically with 0600 permissions
//   - SQLiteStore: Single-table SQLite database (pure Go driver)
//
// # Keys
//
// Three keys are used: "token", "user" (JSON profile) and "session_id".
//
// # Usage
//
//	kv, err := storage.Open(cfg)
//	if err != nil {
//	    return err
//	}
//	defer kv.Close()
//	token, ok, err := kv.Get(storage.KeyToken)
package storage
