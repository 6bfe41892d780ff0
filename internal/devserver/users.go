// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package devserver

import (
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/zenitalk/zenitalk-tui/internal/api"
)

// ErrEmailTaken is returned when registering an existing email.
var ErrEmailTaken = errors.New("email already registered")

type account struct {
	user         api.User
	passwordHash string
}

// userStore keeps accounts in memory, keyed by id and lower-cased email.
type userStore struct {
	mu      sync.RWMutex
	byID    map[string]*account
	byEmail map[string]*account
}

func newUserStore() *userStore {
	return &userStore{
		byID:    make(map[string]*account),
		byEmail: make(map[string]*account),
	}
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// create adds an account with a fresh id.
func (s *userStore) create(name, surname, email, passwordHash string) (api.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := emailKey(email)
	if _, exists := s.byEmail[key]; exists {
		return api.User{}, ErrEmailTaken
	}
	acct := &account{
		user: api.User{
			ID:      api.UserID(uuid.NewString()),
			Name:    strings.TrimSpace(name),
			Surname: strings.TrimSpace(surname),
			Email:   strings.TrimSpace(email),
		},
		passwordHash: passwordHash,
	}
	s.byID[string(acct.user.ID)] = acct
	s.byEmail[key] = acct
	return acct.user, nil
}

func (s *userStore) byEmailAddr(email string) (account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acct, ok := s.byEmail[emailKey(email)]
	if !ok {
		return account{}, false
	}
	return *acct, true
}

func (s *userStore) get(id string) (api.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acct, ok := s.byID[id]
	if !ok {
		return api.User{}, false
	}
	return acct.user, true
}

func (s *userStore) count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}
