// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the zenitalk TUI.

All colors use Lip Gloss AdaptiveColor so the same palette works on light
and dark terminals.

# Color System (colors.go)

  - Indigo - Brand color for the navbar, titles and buttons
  - Cyan - Focused fields, shortcuts and links
  - Emerald - Success and the logged-in identity
  - Amber - Quota warnings and the upgrade prompt
  - Rose - Errors

Status lines carry ASCII indicators ([OK], [X], [!], [i]) alongside color.

# Theme System (theme.go)

	theme := styles.NewTheme(cfg.UI.Theme) // "auto", "dark" or "light"
	theme.SetSize(width, height)
	bubble := theme.BotBubble.Width(theme.BubbleWidth())

# Animation System (animations.go)

	sp := spinner.New(spinner.WithSpinner(styles.LineSpinner.Bubbles()))
	bar := styles.RenderUsage(10, usage.DailyCount, usage.DailyLimit)
*/
package styles
