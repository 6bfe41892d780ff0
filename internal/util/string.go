// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across zenitalk.
package util

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/unicode/norm"
)

// UNICODE: Rune-aware truncation preserves multi-byte characters.
// Turkish and other non-ASCII text must never be cut mid-character.

// TruncateRunes truncates a string to a maximum number of runes (characters).
// If the string is truncated, "..." is appended.
func TruncateRunes(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	if maxRunes <= 3 {
		return string(runes[:maxRunes])
	}
	return string(runes[:maxRunes-3]) + "..."
}

// TruncateWidth truncates a string to a maximum display width.
// Double-width characters (CJK, emoji) take 2 columns.
func TruncateWidth(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return runewidth.Truncate(s, maxWidth, "")
	}
	return runewidth.Truncate(s, maxWidth, "...")
}

// StringWidth returns the display width of a string.
func StringWidth(s string) int {
	return runewidth.StringWidth(s)
}

// NormalizeInput prepares user-typed text for sending: NFC normalization
// (so composed and decomposed forms of the same letter compare equal on the
// backend) followed by whitespace trimming.
func NormalizeInput(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}

// SingleLine collapses newlines so a value can be shown in a status row.
func SingleLine(s string) string {
	s = strings.ReplaceAll(s, "\r", "")
	return strings.ReplaceAll(s, "\n", " ")
}
