// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zenitalk/zenitalk-tui/internal/ui/styles"
)

// =============================================================================
// FIELD
// =============================================================================

// Field is a labelled single-line input.
type Field struct {
	Label string
	input textinput.Model
}

// NewField creates a field. secret masks the value.
func NewField(label, placeholder string, secret bool) *Field {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 256
	ti.Width = 40
	ti.Prompt = ""
	ti.PlaceholderStyle = lipgloss.NewStyle().Foreground(styles.TextMuted).Italic(true)
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.TextPrimary)
	ti.Cursor.Style = lipgloss.NewStyle().Foreground(styles.Cyan)
	if secret {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '*'
	}
	return &Field{Label: label, input: ti}
}

// Value returns the raw value.
func (f *Field) Value() string { return f.input.Value() }

// SetValue replaces the value.
func (f *Field) SetValue(v string) { f.input.SetValue(v) }

// Focused reports focus.
func (f *Field) Focused() bool { return f.input.Focused() }

// =============================================================================
// FORM
// =============================================================================

// Form is a vertical list of fields with one submit action.
type Form struct {
	Title  string
	Submit string
	Hint   string
	Fields []*Field

	focus int
	err   string
	busy  bool
	width int
	theme *styles.Theme
}

// NewForm creates a form with the first field focused.
func NewForm(theme *styles.Theme, title, submit string, fields ...*Field) *Form {
	f := &Form{
		Title:  title,
		Submit: submit,
		Fields: fields,
		width:  60,
		theme:  theme,
	}
	f.setFocus(0)
	return f
}

// SetWidth sizes the inputs to the available width.
func (f *Form) SetWidth(width int) {
	f.width = width
	inputWidth := min(max(width-12, 16), 60)
	for _, field := range f.Fields {
		field.input.Width = inputWidth
	}
}

// Focus returns the index of the focused field.
func (f *Form) Focus() int { return f.focus }

func (f *Form) setFocus(i int) tea.Cmd {
	if len(f.Fields) == 0 {
		return nil
	}
	f.focus = (i + len(f.Fields)) % len(f.Fields)
	var cmd tea.Cmd
	for idx, field := range f.Fields {
		if idx == f.focus {
			cmd = field.input.Focus()
		} else {
			field.input.Blur()
		}
	}
	return cmd
}

// Next moves focus down, wrapping.
func (f *Form) Next() tea.Cmd { return f.setFocus(f.focus + 1) }

// Prev moves focus up, wrapping.
func (f *Form) Prev() tea.Cmd { return f.setFocus(f.focus - 1) }

// OnLast reports whether the last field has focus.
func (f *Form) OnLast() bool { return f.focus == len(f.Fields)-1 }

// SetError shows msg under the fields. "" clears it.
func (f *Form) SetError(msg string) { f.err = msg }

// Error returns the shown error.
func (f *Form) Error() string { return f.err }

// SetBusy disables the submit action while a request runs.
func (f *Form) SetBusy(busy bool) { f.busy = busy }

// Busy reports whether a request is running.
func (f *Form) Busy() bool { return f.busy }

// Reset clears every value, the error and the busy flag.
func (f *Form) Reset() tea.Cmd {
	for _, field := range f.Fields {
		field.input.Reset()
	}
	f.err = ""
	f.busy = false
	return f.setFocus(0)
}

// Update forwards msg to the focused field. Busy forms ignore input.
func (f *Form) Update(msg tea.Msg) tea.Cmd {
	if f.busy || len(f.Fields) == 0 {
		return nil
	}
	var cmd tea.Cmd
	field := f.Fields[f.focus]
	field.input, cmd = field.input.Update(msg)
	return cmd
}

// View renders the form box.
func (f *Form) View() string {
	t := f.theme
	var sb strings.Builder

	sb.WriteString(t.FormTitle.Render(f.Title))
	sb.WriteString("\n")
	for i, field := range f.Fields {
		label := t.FormLabel.Render(field.Label)
		if i == f.focus {
			label = t.FormLabelFocus.Render("> " + field.Label)
		}
		sb.WriteString(label)
		sb.WriteString("\n")
		sb.WriteString("  " + field.input.View())
		sb.WriteString("\n")
	}

	if f.err != "" {
		sb.WriteString("\n")
		sb.WriteString(styles.RenderError(f.err))
		sb.WriteString("\n")
	}

	if f.busy {
		sb.WriteString(t.FormButtonBusy.Render(f.Submit + "..."))
	} else {
		sb.WriteString(t.FormButton.Render(f.Submit))
	}
	if f.Hint != "" {
		sb.WriteString("\n")
		sb.WriteString(t.FormHint.Render(f.Hint))
	}

	return t.FormBox.Render(sb.String())
}
