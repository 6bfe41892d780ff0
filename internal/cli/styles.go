// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// styles.go - Shared styling for zenitalk commands.
//
// Colors are disabled for non-TTY output and when NO_COLOR is set.

package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/zenitalk/zenitalk-tui/internal/ui/styles"
)

func init() {
	lipgloss.SetColorProfile(GetColorProfile())
}

// =============================================================================
// SHARED STYLES
// =============================================================================

var (
	// TitleStyle is used for command titles and headers
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.Indigo)

	// SectionStyle is used for section headers within commands
	SectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.TextPrimary).
			MarginTop(1)

	// LabelStyle is used for field labels
	LabelStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary).
			Width(16)

	// SuccessStyle is used for success messages
	SuccessStyle = lipgloss.NewStyle().
			Foreground(styles.Emerald).
			Bold(true)

	// ErrorStyle is used for error messages
	ErrorStyle = lipgloss.NewStyle().
			Foreground(styles.Rose).
			Bold(true)

	// WarningStyle is used for warnings
	WarningStyle = lipgloss.NewStyle().
			Foreground(styles.Amber)

	// DimStyle is used for hints
	DimStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted)

	// PromptStyle is the chat REPL prompt
	PromptStyle = lipgloss.NewStyle().
			Foreground(styles.Cyan).
			Bold(true)

	// BotStyle labels answers in the chat REPL
	BotStyle = lipgloss.NewStyle().
			Foreground(styles.Indigo).
			Bold(true)
)

// RenderLabel renders a label with consistent width.
func RenderLabel(label string, width ...int) string {
	if len(width) > 0 && width[0] > 0 {
		return LabelStyle.Copy().Width(width[0]).Render(label)
	}
	return LabelStyle.Render(label)
}

// RenderSeparator renders a horizontal rule.
func RenderSeparator(width int) string {
	if width <= 0 {
		width = 40
	}
	return DimStyle.Render(strings.Repeat("─", width))
}

// RenderStatus renders a bracketed status marker.
func RenderStatus(status string) string {
	switch strings.ToLower(status) {
	case "ok", "yes":
		return SuccessStyle.Render("[OK]")
	case "fail", "no":
		return ErrorStyle.Render("[FAIL]")
	case "warn":
		return WarningStyle.Render("[WARN]")
	default:
		return DimStyle.Render("[" + strings.ToUpper(status) + "]")
	}
}
