// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat owns one conversation: the transcript, the single in-flight
// send, the placeholder rotation shown while waiting, and the usage and
// upgrade-prompt state reported by the backend.
//
// # Key Types
//
//   - Controller: Transcript and send lifecycle for one conversation
//   - Send: A submitted question waiting to be run
//   - Message: One transcript entry (user or bot)
//   - Result: How a send ended
//
// # Send Lifecycle
//
// Submit appends the user message and a loading bot placeholder in one step
// and starts the rotation. Run performs the request and always finalizes the
// placeholder in place, stops the rotation and clears the sending flag,
// whatever happens. A Submit while another send is pending returns ErrBusy.
//
// # Usage
//
//	ctrl := chat.NewController(client, store, chat.Options{SessionID: sid})
//	ctrl.OnChange(func() { program.Send(transcriptChangedMsg{}) })
//
//	send, err := ctrl.Submit(input)
//	if err != nil {
//	    return // ErrBusy or ErrEmptyInput
//	}
//	result := send.Run(ctx)
package chat
