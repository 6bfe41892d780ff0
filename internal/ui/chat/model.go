// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	chatctl "github.com/zenitalk/zenitalk-tui/internal/chat"
	"github.com/zenitalk/zenitalk-tui/internal/ui/components"
	"github.com/zenitalk/zenitalk-tui/internal/ui/render"
	"github.com/zenitalk/zenitalk-tui/internal/ui/styles"
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat page. The transcript lives in
// the controller; the model only renders it and drives sends.
type Model struct {
	ctrl  *chatctl.Controller
	theme *styles.Theme
	keys  KeyMap

	// Dimensions of the page area (navbar and status bar excluded)
	width  int
	height int

	// UI Components
	viewport viewport.Model
	input    *components.InputArea
	bubbles  *components.MessageView
	spinner  spinner.Model

	// status is the last outcome note shown under the input.
	status string

	// followTail keeps the viewport pinned to the newest message until the
	// user scrolls up.
	followTail bool
}

// New creates the chat page over ctrl. renderer may be nil for plain text.
func New(theme *styles.Theme, ctrl *chatctl.Controller, renderer *render.Renderer) Model {
	vp := viewport.New(80, 20)
	vp.SetContent("")

	sp := spinner.New()
	sp.Spinner = styles.LineSpinner.Bubbles()
	sp.Style = theme.Spinner

	m := Model{
		ctrl:       ctrl,
		theme:      theme,
		keys:       DefaultKeyMap(),
		viewport:   vp,
		input:      components.NewInputArea(theme),
		bubbles:    components.NewMessageView(theme, renderer),
		spinner:    sp,
		followTail: true,
	}
	m.input.SetDisabled(ctrl.Sending())
	m.refresh()
	return m
}

// Controller returns the conversation controller.
func (m Model) Controller() *chatctl.Controller { return m.ctrl }

// Keys returns the key bindings.
func (m Model) Keys() KeyMap { return m.keys }

// Status returns the last outcome note.
func (m Model) Status() string { return m.status }

// InputValue returns the text being typed.
func (m Model) InputValue() string { return m.input.Value() }

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init focuses the input and resumes the spinner if a send is pending.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.input.Focus()}
	if m.ctrl.Sending() {
		cmds = append(cmds, m.spinner.Tick)
	}
	return tea.Batch(cmds...)
}

// View renders the page.
func (m Model) View() string {
	return m.renderChat()
}

// =============================================================================
// VIEWPORT
// =============================================================================

// refresh re-renders the transcript into the viewport.
func (m *Model) refresh() {
	m.bubbles.Width = m.viewport.Width
	content := m.bubbles.RenderAll(m.ctrl.Transcript(), m.spinner.View())
	m.viewport.SetContent(content)
	if m.followTail {
		m.viewport.GotoBottom()
	}
}
