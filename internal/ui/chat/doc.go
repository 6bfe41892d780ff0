// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the chat page of the zenitalk TUI.

The page is a thin view over a chat.Controller from internal/chat: the
controller owns the transcript, the single in-flight send and the
placeholder rotation; the page renders the transcript into a viewport,
hands input to Submit and runs the returned send in a tea.Cmd.

# Key Types

  - Model: the Bubble Tea page
  - KeyMap: page key bindings
  - TranscriptChangedMsg: controller change notification
  - ResultMsg: terminal result of one send

# Usage

	ctrl := chat.NewController(client, store, opts)
	page := uichat.New(theme, ctrl, renderer)
	program := tea.NewProgram(app)
	ctrl.OnChange(uichat.NotifyProgram(program))

# Keys

	enter      send the question
	esc        cancel the pending send, or go home when idle
	C-n        start a new conversation
	C-x        dismiss the upgrade prompt
	PgUp/PgDn  scroll the transcript
*/
package chat
