// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/zenitalk/zenitalk-tui/internal/ui/styles"
	"github.com/zenitalk/zenitalk-tui/internal/util"
)

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// Shortcut is a key hint such as "enter send".
type Shortcut struct {
	Key  string
	Desc string
}

// StatusBar is the bottom row: a left status text and right key hints.
type StatusBar struct {
	Width     int
	Status    string
	Shortcuts []Shortcut
	theme     *styles.Theme
}

// NewStatusBar creates an empty status bar.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{Width: 80, theme: theme}
}

// SetWidth updates the width.
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// View renders the status bar on one line. Hints are dropped before the
// status text is truncated.
func (s *StatusBar) View() string {
	inner := max(s.Width-2, 0)
	status := util.TruncateWidth(util.SingleLine(s.Status), inner)

	hints := s.renderShortcuts()
	gap := inner - lipgloss.Width(status) - lipgloss.Width(hints)
	if gap < 1 || s.theme.GetLayoutMode() == styles.LayoutNarrow {
		hints = ""
		gap = max(inner-lipgloss.Width(status), 0)
	}
	return s.theme.StatusBar.Width(s.Width).Render(status + strings.Repeat(" ", gap) + hints)
}

func (s *StatusBar) renderShortcuts() string {
	parts := make([]string, 0, len(s.Shortcuts))
	for _, sc := range s.Shortcuts {
		parts = append(parts, s.theme.ShortcutKey.Render(sc.Key)+" "+s.theme.ShortcutDesc.Render(sc.Desc))
	}
	return strings.Join(parts, "  ")
}
