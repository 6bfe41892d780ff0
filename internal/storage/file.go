// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/zenitalk/zenitalk-tui/internal/util"
)

// FileStore persists all keys in one JSON document.
// Every mutation rewrites the document atomically.
type FileStore struct {
	mu   sync.Mutex
	path string
	data map[string]string
}

// OpenFileStore loads (or prepares) the JSON document at path.
func OpenFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	s := &FileStore{path: path, data: make(map[string]string)}

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read storage file: %w", err)
	}
	if len(raw) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(raw, &s.data); err != nil {
		return nil, fmt.Errorf("storage file %s is corrupt: %w", path, err)
	}
	if s.data == nil {
		s.data = make(map[string]string)
	}
	return s, nil
}

// Path returns the backing file location.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, had := s.data[key]
	s.data[key] = value
	if err := s.flushLocked(); err != nil {
		if had {
			s.data[key] = prev
		} else {
			delete(s.data, key)
		}
		return err
	}
	return nil
}

func (s *FileStore) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, had := s.data[key]
	if !had {
		return nil
	}
	delete(s.data, key)
	if err := s.flushLocked(); err != nil {
		s.data[key] = prev
		return err
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

// flushLocked writes the document. Caller must hold s.mu.
func (s *FileStore) flushLocked() error {
	data, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode storage: %w", err)
	}
	// SECURITY: the document holds a bearer token.
	if err := util.AtomicWriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	return nil
}
