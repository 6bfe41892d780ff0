// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/zenitalk/zenitalk-tui/internal/chat"
	"github.com/zenitalk/zenitalk-tui/internal/ui/render"
	"github.com/zenitalk/zenitalk-tui/internal/ui/styles"
	"github.com/zenitalk/zenitalk-tui/internal/util"
)

// =============================================================================
// MESSAGE BUBBLE COMPONENT
// =============================================================================

// MessageView renders transcript messages as bubbles. User bubbles sit on
// the right, bot bubbles on the left.
type MessageView struct {
	Width    int
	renderer *render.Renderer
	theme    *styles.Theme
}

// NewMessageView creates a message renderer. renderer may be nil for plain text.
func NewMessageView(theme *styles.Theme, renderer *render.Renderer) *MessageView {
	return &MessageView{Width: 80, renderer: renderer, theme: theme}
}

// Render renders one message. spinnerFrame prefixes a loading placeholder.
func (v *MessageView) Render(m chat.Message, spinnerFrame string) string {
	t := v.theme
	maxWidth := max(t.BubbleWidth(), 16)
	if v.Width > 0 {
		maxWidth = min(maxWidth, v.Width-2)
	}
	contentWidth := max(maxWidth-4, 8)

	var body string
	switch {
	case m.IsPlaceholder():
		body = t.PlaceholderText.Render(strings.TrimSpace(spinnerFrame + " " + m.Text))
	case m.Sender == chat.SenderBot && v.renderer.Enabled():
		body = v.renderer.Markdown(m.Text, contentWidth)
	default:
		body = wordWrap(m.Text, contentWidth)
	}

	bubbleStyle := t.BotBubble
	if m.Sender == chat.SenderUser {
		bubbleStyle = t.UserBubble
	}
	bubbleWidth := min(maxLineWidth(body)+4, maxWidth)
	bubble := bubbleStyle.Width(bubbleWidth).Render(body)

	label := t.SenderLabel.Render(m.Sender.DisplayName())
	if !m.CreatedAt.IsZero() {
		label += " " + t.Muted.Render(m.CreatedAt.Format("15:04"))
	}
	block := lipgloss.JoinVertical(lipgloss.Left, label, bubble)

	if m.Sender == chat.SenderUser && v.Width > 0 {
		return lipgloss.PlaceHorizontal(v.Width, lipgloss.Right, block)
	}
	return block
}

// RenderAll renders a transcript separated by blank lines.
func (v *MessageView) RenderAll(msgs []chat.Message, spinnerFrame string) string {
	parts := make([]string, 0, len(msgs))
	for _, m := range msgs {
		parts = append(parts, v.Render(m, spinnerFrame))
	}
	return strings.Join(parts, "\n\n")
}

// =============================================================================
// HELPERS
// =============================================================================

// wordWrap wraps text at word boundaries to width display columns.
func wordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	var result strings.Builder
	for lineIdx, line := range strings.Split(text, "\n") {
		if lineIdx > 0 {
			result.WriteString("\n")
		}
		words := strings.Fields(line)
		if len(words) == 0 {
			continue
		}

		current := words[0]
		for _, word := range words[1:] {
			if util.StringWidth(current)+1+util.StringWidth(word) <= width {
				current += " " + word
				continue
			}
			result.WriteString(current)
			result.WriteString("\n")
			current = word
		}
		result.WriteString(current)
	}
	return result.String()
}

// maxLineWidth returns the widest line in display columns.
func maxLineWidth(text string) int {
	widest := 0
	for _, line := range strings.Split(text, "\n") {
		widest = max(widest, lipgloss.Width(line))
	}
	return widest
}
