// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme modes accepted by NewTheme, matching the [ui] theme setting.
const (
	ModeAuto  = "auto"
	ModeDark  = "dark"
	ModeLight = "light"
)

// Theme holds the styled components for every page.
type Theme struct {
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	Width  int
	Height int

	// ==========================================================================
	// NAVBAR
	// ==========================================================================

	Navbar        lipgloss.Style
	NavBrand      lipgloss.Style
	NavLink       lipgloss.Style
	NavLinkActive lipgloss.Style
	NavIdentity   lipgloss.Style
	NavGuest      lipgloss.Style

	// ==========================================================================
	// HOME
	// ==========================================================================

	HeroBox      lipgloss.Style
	HeroTitle    lipgloss.Style
	HeroSubtitle lipgloss.Style
	HeroKey      lipgloss.Style

	// ==========================================================================
	// FORMS
	// ==========================================================================

	FormBox        lipgloss.Style
	FormTitle      lipgloss.Style
	FormLabel      lipgloss.Style
	FormLabelFocus lipgloss.Style
	FormButton     lipgloss.Style
	FormButtonBusy lipgloss.Style
	FormHint       lipgloss.Style

	// ==========================================================================
	// CHAT
	// ==========================================================================

	UserBubble      lipgloss.Style
	BotBubble       lipgloss.Style
	PlaceholderText lipgloss.Style
	SenderLabel     lipgloss.Style
	InputContainer  lipgloss.Style
	InputPrompt     lipgloss.Style
	UpgradeBox      lipgloss.Style
	UsageLabel      lipgloss.Style

	// ==========================================================================
	// STATUS AND FEEDBACK
	// ==========================================================================

	StatusBar    lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style
	Spinner      lipgloss.Style
	ErrorStyle   lipgloss.Style
	SuccessStyle lipgloss.Style
	Muted        lipgloss.Style
}

// NewTheme creates a theme. mode is auto, dark or light; auto asks the
// terminal for its background.
func NewTheme(mode string) *Theme {
	profile := termenv.ColorProfile()

	var isDark bool
	switch strings.ToLower(mode) {
	case ModeDark:
		isDark = true
	case ModeLight:
		isDark = false
	default:
		isDark = termenv.HasDarkBackground()
	}
	lipgloss.SetHasDarkBackground(isDark)

	t := &Theme{
		IsDark:       isDark,
		HasTrueColor: profile == termenv.TrueColor,
		ColorProfile: profile,
	}
	t.initStyles()
	return t
}

func (t *Theme) initStyles() {
	// Navbar
	t.Navbar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Padding(0, 1)
	t.NavBrand = lipgloss.NewStyle().
		Bold(true).
		Foreground(Indigo).
		PaddingRight(2)
	t.NavLink = lipgloss.NewStyle().
		Foreground(TextSecondary).
		PaddingRight(2)
	t.NavLinkActive = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true).
		Underline(true).
		PaddingRight(2)
	t.NavIdentity = lipgloss.NewStyle().
		Foreground(Emerald).
		Bold(true)
	t.NavGuest = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// Home
	t.HeroBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Indigo).
		Padding(1, 4).
		Align(lipgloss.Center)
	t.HeroTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Indigo)
	t.HeroSubtitle = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)
	t.HeroKey = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	// Forms
	t.FormBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(1, 3)
	t.FormTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Indigo).
		MarginBottom(1)
	t.FormLabel = lipgloss.NewStyle().
		Foreground(TextSecondary)
	t.FormLabelFocus = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)
	t.FormButton = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Indigo).
		Padding(0, 2).
		MarginTop(1)
	t.FormButtonBusy = lipgloss.NewStyle().
		Foreground(TextMuted).
		Background(Overlay).
		Padding(0, 2).
		MarginTop(1)
	t.FormHint = lipgloss.NewStyle().
		Foreground(TextMuted).
		MarginTop(1)

	// Chat
	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(UserBubbleBorder).
		Padding(0, 1)
	t.BotBubble = lipgloss.NewStyle().
		Foreground(BotBubbleFg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(BotBubbleBorder).
		Padding(0, 1)
	t.PlaceholderText = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)
	t.SenderLabel = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Bold(true)
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(Overlay).
		Padding(0, 1)
	t.InputPrompt = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)
	t.UpgradeBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Amber).
		Foreground(Amber).
		Padding(0, 2)
	t.UsageLabel = lipgloss.NewStyle().
		Foreground(TextSecondary)

	// Status and feedback
	t.StatusBar = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Background(SurfaceDim).
		Padding(0, 1)
	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)
	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)
	t.Spinner = lipgloss.NewStyle().
		Foreground(Indigo)
	t.ErrorStyle = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)
	t.SuccessStyle = lipgloss.NewStyle().
		Foreground(Emerald).
		Bold(true)
	t.Muted = lipgloss.NewStyle().
		Foreground(TextMuted)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// BubbleWidth is the widest a message bubble may be in the current layout.
func (t *Theme) BubbleWidth() int {
	switch t.GetLayoutMode() {
	case LayoutNarrow:
		return max(t.Width-4, 10)
	case LayoutMedium:
		return t.Width * 4 / 5
	default:
		return t.Width * 2 / 3
	}
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // > 100 columns
)
