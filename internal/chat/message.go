// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// =============================================================================
// SENDER TYPE
// =============================================================================

// Sender identifies who wrote a message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// DisplayName returns a human-readable name for the sender.
func (s Sender) DisplayName() string {
	switch s {
	case SenderUser:
		return "You"
	case SenderBot:
		return "ZeniTalk"
	default:
		return string(s)
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is one transcript entry.
// Text changes only while IsLoading or when the placeholder is finalized.
type Message struct {
	ID        string
	Text      string
	Sender    Sender
	IsLoading bool
	CreatedAt time.Time
}

// IsPlaceholder reports a bot message still waiting for its answer.
func (m Message) IsPlaceholder() bool {
	return m.Sender == SenderBot && m.IsLoading
}

// =============================================================================
// IDS
// =============================================================================

// idGenerator issues ULIDs that sort in creation order, even within the
// same millisecond.
type idGenerator struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

func newIDGenerator() *idGenerator {
	return &idGenerator{entropy: ulid.Monotonic(rand.Reader, 0)}
}

func (g *idGenerator) next(now time.Time) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(now), g.entropy).String()
}
