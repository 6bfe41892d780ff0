// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zenitalk/zenitalk-tui/internal/config"
)

func backends(t *testing.T) map[string]KV {
	t.Helper()
	dir := t.TempDir()

	fs, err := OpenFileStore(filepath.Join(dir, "state.json"))
	require.NoError(t, err)
	sq, err := OpenSQLiteStore(filepath.Join(dir, "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sq.Close() })

	return map[string]KV{
		"memory": NewMemoryStore(),
		"file":   fs,
		"sqlite": sq,
	}
}

func TestKV_Contract(t *testing.T) {
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := kv.Get(KeyToken)
			require.NoError(t, err)
			assert.False(t, ok, "missing key")

			require.NoError(t, kv.Set(KeyToken, "abc"))
			v, ok, err := kv.Get(KeyToken)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "abc", v)

			require.NoError(t, kv.Set(KeyToken, "def"))
			v, _, _ = kv.Get(KeyToken)
			assert.Equal(t, "def", v, "overwrite")

			require.NoError(t, kv.Set(KeyUser, `{"id":"1"}`))
			require.NoError(t, kv.Remove(KeyToken))
			_, ok, _ = kv.Get(KeyToken)
			assert.False(t, ok, "removed")
			_, ok, _ = kv.Get(KeyUser)
			assert.True(t, ok, "other keys untouched")

			assert.NoError(t, kv.Remove("never-set"))
		})
	}
}

func TestKV_EmptyValueIsPresent(t *testing.T) {
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, kv.Set(KeySessionID, ""))
			v, ok, err := kv.Get(KeySessionID)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Empty(t, v)
		})
	}
}

func TestFileStore_PersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")

	s1, err := OpenFileStore(path)
	require.NoError(t, err)
	require.NoError(t, s1.Set(KeySessionID, "user_1700000000000_abcdefghi"))
	require.NoError(t, s1.Set(KeyToken, "tok"))
	require.NoError(t, s1.Remove(KeyToken))

	s2, err := OpenFileStore(path)
	require.NoError(t, err)
	v, ok, _ := s2.Get(KeySessionID)
	assert.True(t, ok)
	assert.Equal(t, "user_1700000000000_abcdefghi", v)
	_, ok, _ = s2.Get(KeyToken)
	assert.False(t, ok)

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	}
}

func TestFileStore_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, err := OpenFileStore(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "corrupt")
}

func TestFileStore_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, nil, 0600))

	s, err := OpenFileStore(path)
	require.NoError(t, err)
	_, ok, _ := s.Get(KeyToken)
	assert.False(t, ok)
}

func TestSQLiteStore_PersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")

	s1, err := OpenSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, s1.Set(KeyUser, `{"id":"42","name":"Ada"}`))
	require.NoError(t, s1.Close())

	s2, err := OpenSQLiteStore(path)
	require.NoError(t, err)
	defer s2.Close()
	v, ok, err := s2.Get(KeyUser)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"id":"42","name":"Ada"}`, v)
}

func TestOpen_SelectsBackend(t *testing.T) {
	dir := t.TempDir()

	testCases := []struct {
		backend string
		path    string
		check   func(t *testing.T, kv KV)
	}{
		{"memory", "", func(t *testing.T, kv KV) { assert.IsType(t, &MemoryStore{}, kv) }},
		{"file", filepath.Join(dir, "s.json"), func(t *testing.T, kv KV) { assert.IsType(t, &FileStore{}, kv) }},
		{"sqlite", filepath.Join(dir, "s.db"), func(t *testing.T, kv KV) { assert.IsType(t, &SQLiteStore{}, kv) }},
	}

	for _, tc := range testCases {
		t.Run(tc.backend, func(t *testing.T) {
			cfg := config.Default()
			cfg.Storage.Backend = tc.backend
			cfg.Storage.Path = tc.path

			kv, err := Open(cfg)
			require.NoError(t, err)
			defer kv.Close()
			tc.check(t, kv)
		})
	}
}

func TestOpen_UnknownBackend(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.Backend = "etcd"
	cfg.Storage.Path = filepath.Join(t.TempDir(), "x")
	_, err := Open(cfg)
	assert.Error(t, err)
}
