// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package guard

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zenitalk/zenitalk-tui/internal/session"
)

// StateSource is anything that can report the current session state.
type StateSource interface {
	Snapshot() session.State
}

// WaitingText is shown next to the spinner while the session reconciles.
const WaitingText = "Loading..."

// Model wraps a protected tea.Model.
type Model struct {
	source     StateSource
	inner      tea.Model
	redirect   tea.Cmd
	spinner    spinner.Model
	redirected bool
	style      lipgloss.Style
}

// Wrap protects inner. redirect is issued once when the session settles
// without a token.
func Wrap(source StateSource, inner tea.Model, redirect tea.Cmd) Model {
	s := spinner.New()
	s.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}
	return Model{
		source:   source,
		inner:    inner,
		redirect: redirect,
		spinner:  s,
		style:    lipgloss.NewStyle().Faint(true),
	}
}

// WithStyle sets the style of the waiting indicator.
func (m Model) WithStyle(style lipgloss.Style) Model {
	m.style = style
	return m
}

// Inner returns the wrapped model.
func (m Model) Inner() tea.Model { return m.inner }

// Decision returns the current verdict.
func (m Model) Decision() Decision { return Decide(m.source.Snapshot()) }

// Init starts the spinner and the wrapped model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.inner.Init())
}

// Update applies the decision to msg.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.Decision() {
	case Wait:
		m.redirected = false
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case Redirect:
		if m.redirected {
			return m, nil
		}
		m.redirected = true
		return m, m.redirect

	default:
		m.redirected = false
		var cmd tea.Cmd
		m.inner, cmd = m.inner.Update(msg)
		return m, cmd
	}
}

// Rearm allows one more redirect. Call it when the protected view is shown
// again after an earlier redirect.
func (m Model) Rearm() Model {
	m.redirected = false
	return m
}

// Deliver passes msg to the wrapped model without applying the decision.
// Use it for async results addressed to a page that is not on screen.
func (m Model) Deliver(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.inner, cmd = m.inner.Update(msg)
	return m, cmd
}

// View renders the spinner, nothing, or the wrapped view.
func (m Model) View() string {
	switch m.Decision() {
	case Wait:
		return m.spinner.View() + " " + m.style.Render(WaitingText)
	case Redirect:
		return ""
	default:
		return m.inner.View()
	}
}
