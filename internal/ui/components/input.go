// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zenitalk/zenitalk-tui/internal/ui/styles"
)

// =============================================================================
// INPUT AREA COMPONENT
// =============================================================================

// MaxQuestionChars bounds a single question.
const MaxQuestionChars = 4000

// InputArea is the chat question input.
type InputArea struct {
	input    textinput.Model
	width    int
	disabled bool
	theme    *styles.Theme
}

// NewInputArea creates a focused input.
func NewInputArea(theme *styles.Theme) *InputArea {
	ti := textinput.New()
	ti.Placeholder = "Type your question..."
	ti.CharLimit = MaxQuestionChars
	ti.Width = 70
	ti.Prompt = "> "
	ti.PromptStyle = lipgloss.NewStyle().Foreground(styles.Cyan).Bold(true)
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.TextPrimary)
	ti.PlaceholderStyle = lipgloss.NewStyle().Foreground(styles.TextMuted).Italic(true)
	ti.Cursor.Style = lipgloss.NewStyle().Foreground(styles.Cyan)
	ti.Focus()

	return &InputArea{input: ti, width: 80, theme: theme}
}

// Focus focuses the input.
func (i *InputArea) Focus() tea.Cmd { return i.input.Focus() }

// SetWidth sets the input width.
func (i *InputArea) SetWidth(width int) {
	i.width = width
	i.input.Width = max(width-14, 20)
}

// SetDisabled shows the input as unavailable while a send is in flight.
func (i *InputArea) SetDisabled(disabled bool) {
	i.disabled = disabled
	if disabled {
		i.input.Placeholder = "Waiting for the answer... (esc to cancel)"
	} else {
		i.input.Placeholder = "Type your question..."
	}
}

// Disabled reports the disabled state.
func (i *InputArea) Disabled() bool { return i.disabled }

// Value returns the current text.
func (i *InputArea) Value() string { return i.input.Value() }

// SetValue replaces the text.
func (i *InputArea) SetValue(v string) { i.input.SetValue(v) }

// Reset clears the text.
func (i *InputArea) Reset() { i.input.Reset() }

// Update forwards msg to the text input. Typing stays possible while
// disabled; only submitting is blocked.
func (i *InputArea) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	i.input, cmd = i.input.Update(msg)
	return cmd
}

// View renders the input with a character counter near the limit.
func (i *InputArea) View() string {
	view := i.input.View()
	count := len([]rune(i.input.Value()))
	if count > MaxQuestionChars*3/4 {
		counter := fmt.Sprintf(" %d/%d", count, MaxQuestionChars)
		view += i.theme.Muted.Render(counter)
	}
	return i.theme.InputContainer.Width(i.width).Render(view)
}
