// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"sync"
	"time"

	"github.com/zenitalk/zenitalk-tui/internal/storage"
)

const (
	anonPrefix    = "user_"
	anonSuffixLen = 9
	anonAlphabet  = "0123456789abcdefghijklmnopqrstuvwxyz"
)

var anonMu sync.Mutex

// AnonymousID returns the persisted anonymous correlation key, generating and
// storing one if absent. It never replaces a key that is already stored.
func AnonymousID(kv storage.KV) (string, error) {
	anonMu.Lock()
	defer anonMu.Unlock()

	if id, ok, err := kv.Get(storage.KeySessionID); err != nil {
		return "", fmt.Errorf("read session id: %w", err)
	} else if ok && id != "" {
		return id, nil
	}

	id, err := newAnonymousID(time.Now())
	if err != nil {
		return "", err
	}
	if err := kv.Set(storage.KeySessionID, id); err != nil {
		return "", fmt.Errorf("persist session id: %w", err)
	}
	return id, nil
}

// newAnonymousID builds "user_<unix-millis>_<9 base36 chars>".
func newAnonymousID(now time.Time) (string, error) {
	suffix := make([]byte, anonSuffixLen)
	max := big.NewInt(int64(len(anonAlphabet)))
	for i := range suffix {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate session id: %w", err)
		}
		suffix[i] = anonAlphabet[n.Int64()]
	}
	return anonPrefix + strconv.FormatInt(now.UnixMilli(), 10) + "_" + string(suffix), nil
}
