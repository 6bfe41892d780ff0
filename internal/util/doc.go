// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across zenitalk.
//
// # Key Functions
//
// String Utilities:
//   - TruncateRunes: UTF-8 safe string truncation with ellipsis
//   - TruncateWidth: display-width truncation (CJK aware, via go-runewidth)
//   - NormalizeInput: NFC normalization and trimming of user input
//
// File Operations:
//   - AtomicWriteFile: Crash-safe file writing with fsync
//
// # Usage
//
//	display := util.TruncateWidth(answer, 40)
//	question := util.NormalizeInput(raw)
//	err := util.AtomicWriteFile(path, data, 0600)
package util
