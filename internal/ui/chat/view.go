// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/zenitalk/zenitalk-tui/internal/ui/styles"
)

// upgradeBoxHeight is the rendered height of the upgrade prompt:
// two text lines inside a rounded border.
const upgradeBoxHeight = 4

// UpgradeTitle heads the prompt shown after the anonymous limit.
const UpgradeTitle = "You've reached the free limit for today"

// =============================================================================
// MAIN VIEW
// =============================================================================

// renderChat stacks usage line, transcript, upgrade prompt, input and the
// status note. The viewport height is fixed in handleResize; the final
// block is clamped so a mismatch never pushes the input off screen.
func (m Model) renderChat() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	parts := []string{m.renderUsage(), m.viewport.View()}
	if m.ctrl.UpgradePrompt() {
		parts = append(parts, m.renderUpgrade())
	}
	parts = append(parts, m.input.View(), m.renderStatus())

	return lipgloss.NewStyle().
		MaxHeight(m.height).
		Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// renderUsage shows today's quota when the backend reported one.
func (m Model) renderUsage() string {
	u := m.ctrl.Usage()
	if u == nil {
		return m.theme.Muted.Render("Usage: n/a")
	}
	barWidth := 10
	if m.theme.GetLayoutMode() == styles.LayoutNarrow {
		barWidth = 5
	}
	return m.theme.UsageLabel.Render("Usage: " + styles.RenderUsage(barWidth, u.DailyCount, u.DailyLimit))
}

// renderUpgrade renders the login/register offer.
func (m Model) renderUpgrade() string {
	body := strings.Join([]string{
		UpgradeTitle,
		"F3 log in  F4 register  C-x dismiss",
	}, "\n")
	return m.theme.UpgradeBox.Render(body)
}

// renderStatus renders the last outcome note, or the pending hint.
func (m Model) renderStatus() string {
	switch {
	case m.ctrl.Sending():
		return m.theme.Muted.Render(m.spinner.View() + " waiting for the answer")
	case m.status == StatusNewChat:
		return styles.RenderSuccess(m.status)
	case m.status != "":
		return styles.RenderWarning(m.status)
	default:
		return ""
	}
}
