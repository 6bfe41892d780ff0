// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	tea "github.com/charmbracelet/bubbletea"

	chatctl "github.com/zenitalk/zenitalk-tui/internal/chat"
)

// =============================================================================
// CONTROLLER MESSAGES
// =============================================================================

// TranscriptChangedMsg is sent whenever the controller mutates the
// transcript, including placeholder rotation from its own goroutine.
type TranscriptChangedMsg struct{}

// ResultMsg carries the terminal result of a send.
type ResultMsg struct {
	PlaceholderID string
	Result        chatctl.Result
}

// NotifyProgram returns a controller change listener that forwards changes
// to a running program. Submit notifies from inside Update, where a blocking
// Send would deadlock the event loop, so delivery is asynchronous.
func NotifyProgram(p interface{ Send(tea.Msg) }) func() {
	return func() { go p.Send(TranscriptChangedMsg{}) }
}
