// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zenitalk/zenitalk-tui/internal/api"
	chatctl "github.com/zenitalk/zenitalk-tui/internal/chat"
	"github.com/zenitalk/zenitalk-tui/internal/ui/components"
)

// Status notes shown under the input.
const (
	StatusBusy      = "Still waiting for the previous answer."
	StatusCancelled = "Request cancelled."
	StatusLimit     = "Free messages used up for today. F3 to log in, F4 to register."
	StatusNewChat   = "Started a new conversation."
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		m.followTail = m.viewport.AtBottom()
		return m, cmd

	case TranscriptChangedMsg:
		m.input.SetDisabled(m.ctrl.Sending())
		m.refresh()
		return m, nil

	case ResultMsg:
		return m.handleResult(msg)

	case spinner.TickMsg:
		if msg.ID != m.spinner.ID() || !m.ctrl.Sending() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.refresh()
		return m, cmd
	}

	return m, m.input.Update(msg)
}

// =============================================================================
// MESSAGE HANDLERS
// =============================================================================

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	m.viewport.Width = max(m.width, 1)
	m.viewport.Height = max(m.height-m.reservedHeight(), 1)
	m.input.SetWidth(m.width)
	m.refresh()
	return m, nil
}

// reservedHeight is the space below and above the viewport: usage line,
// input box, status note and the upgrade box when shown.
func (m Model) reservedHeight() int {
	const (
		usageHeight  = 1
		inputHeight  = 2
		statusHeight = 1
	)
	h := usageHeight + inputHeight + statusHeight
	if m.ctrl.UpgradePrompt() {
		h += upgradeBoxHeight
	}
	return h
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.submit()

	case key.Matches(msg, m.keys.Cancel):
		if m.ctrl.Sending() {
			m.ctrl.Cancel()
			return m, nil
		}
		return m, components.Navigate(components.PageHome)

	case key.Matches(msg, m.keys.Reset):
		if err := m.ctrl.Reset(); err != nil {
			m.status = StatusBusy
			return m, nil
		}
		m.status = StatusNewChat
		m.followTail = true
		m.input.Reset()
		m.viewport.Height = max(m.height-m.reservedHeight(), 1)
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.Dismiss):
		m.ctrl.DismissUpgradePrompt()
		m.viewport.Height = max(m.height-m.reservedHeight(), 1)
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.viewport.LineUp(1)
		m.followTail = false
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.viewport.LineDown(1)
		m.followTail = m.viewport.AtBottom()
		return m, nil
	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
		m.followTail = false
		return m, nil
	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
		m.followTail = m.viewport.AtBottom()
		return m, nil
	case key.Matches(msg, m.keys.Top):
		m.viewport.GotoTop()
		m.followTail = false
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.viewport.GotoBottom()
		m.followTail = true
		return m, nil
	}

	return m, m.input.Update(msg)
}

// submit hands the input to the controller. The controller owns the
// in-flight check; a refused submit leaves the input untouched.
func (m Model) submit() (tea.Model, tea.Cmd) {
	send, err := m.ctrl.Submit(m.input.Value())
	switch {
	case errors.Is(err, chatctl.ErrEmptyInput):
		return m, nil
	case errors.Is(err, chatctl.ErrBusy):
		m.status = StatusBusy
		return m, nil
	case err != nil:
		m.status = err.Error()
		return m, nil
	}

	m.status = ""
	m.followTail = true
	m.input.Reset()
	m.input.SetDisabled(true)
	m.refresh()
	return m, tea.Batch(runSend(send), m.spinner.Tick)
}

// runSend performs the request off the event loop.
func runSend(send *chatctl.Send) tea.Cmd {
	return func() tea.Msg {
		return ResultMsg{
			PlaceholderID: send.PlaceholderID(),
			Result:        send.Run(context.Background()),
		}
	}
}

func (m Model) handleResult(msg ResultMsg) (tea.Model, tea.Cmd) {
	m.input.SetDisabled(false)
	m.status = statusFor(msg.Result)
	m.viewport.Height = max(m.height-m.reservedHeight(), 1)
	m.refresh()
	return m, nil
}

// statusFor summarizes a result for the status note. Answers need none;
// the transcript already shows them.
func statusFor(r chatctl.Result) string {
	switch r.Outcome {
	case chatctl.OutcomeCancelled:
		return StatusCancelled
	case chatctl.OutcomeAnonymousLimit:
		return StatusLimit
	case chatctl.OutcomeQuota:
		return "Daily limit reached."
	case chatctl.OutcomeFailed:
		if st := api.StatusOf(r.Err); st != 0 {
			return fmt.Sprintf("Backend error (HTTP %d).", st)
		}
		if api.IsTransport(r.Err) {
			return "Backend unreachable."
		}
		return ""
	default:
		return ""
	}
}
