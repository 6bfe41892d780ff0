// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// ACCENT COLORS
// =============================================================================

// Indigo - Brand color, navbar, primary buttons
var Indigo = lipgloss.AdaptiveColor{Light: "#4F46E5", Dark: "#818CF8"}

// IndigoDeep - Darker indigo for backgrounds
var IndigoDeep = lipgloss.AdaptiveColor{Light: "#3730A3", Dark: "#312E81"}

// Cyan - Links, focused fields
var Cyan = lipgloss.AdaptiveColor{Light: "#0891B2", Dark: "#22D3EE"}

// Emerald - Success, logged-in identity
var Emerald = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}

// Rose - Errors
var Rose = lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"}

// Amber - Warnings, quota and upgrade prompts
var Amber = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}

// =============================================================================
// SURFACE AND TEXT
// =============================================================================

var SurfaceDim = lipgloss.AdaptiveColor{Light: "#F5F5F5", Dark: "#181825"}
var Overlay = lipgloss.AdaptiveColor{Light: "#E5E5E5", Dark: "#313244"}

var TextPrimary = lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#CDD6F4"}
var TextSecondary = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#A6ADC8"}
var TextMuted = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6C7086"}
var TextInverse = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1E1E2E"}

// =============================================================================
// MESSAGE BUBBLES
// =============================================================================

// User message bubble - Blue tones
var UserBubbleFg = lipgloss.AdaptiveColor{Light: "#1E40AF", Dark: "#E0F2FE"}
var UserBubbleBorder = lipgloss.AdaptiveColor{Light: "#3B82F6", Dark: "#3B82F6"}

// Bot message bubble - Soft indigo
var BotBubbleFg = lipgloss.AdaptiveColor{Light: "#3730A3", Dark: "#E0E7FF"}
var BotBubbleBorder = lipgloss.AdaptiveColor{Light: "#A5B4FC", Dark: "#6366F1"}

// =============================================================================
// STATUS INDICATORS
// =============================================================================

// StatusIndicatorSet contains text indicators for status states.
type StatusIndicatorSet struct {
	Success string
	Error   string
	Warning string
	Info    string
}

// StatusIndicators are ASCII so they survive any terminal.
var StatusIndicators = StatusIndicatorSet{
	Success: "[OK]",
	Error:   "[X]",
	Warning: "[!]",
	Info:    "[i]",
}

// RenderSuccess renders a success line with its indicator.
func RenderSuccess(message string) string {
	return lipgloss.NewStyle().Foreground(Emerald).Bold(true).
		Render(StatusIndicators.Success + " " + message)
}

// RenderError renders an error line with its indicator.
func RenderError(message string) string {
	return lipgloss.NewStyle().Foreground(Rose).Bold(true).
		Render(StatusIndicators.Error + " " + message)
}

// RenderWarning renders a warning line with its indicator.
func RenderWarning(message string) string {
	return lipgloss.NewStyle().Foreground(Amber).Bold(true).
		Render(StatusIndicators.Warning + " " + message)
}

// RenderInfo renders an info line with its indicator.
func RenderInfo(message string) string {
	return lipgloss.NewStyle().Foreground(Cyan).
		Render(StatusIndicators.Info + " " + message)
}
