// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zenitalk/zenitalk-tui/internal/session"
	"github.com/zenitalk/zenitalk-tui/internal/ui/components"
	"github.com/zenitalk/zenitalk-tui/internal/ui/styles"
)

// Hero texts.
const (
	HeroTitle    = "Conversations that are good for your mind"
	HeroSubtitle = "Ask anything. Registered users get more messages every day."
)

// homePage is the landing screen.
type homePage struct {
	theme  *styles.Theme
	width  int
	height int
}

func newHomePage(theme *styles.Theme) *homePage {
	return &homePage{theme: theme}
}

func (h *homePage) setSize(width, height int) {
	h.width = width
	h.height = height
}

// update maps single-letter shortcuts to pages. q quits.
func (h *homePage) update(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "c", "enter":
		return components.Navigate(components.PageChat)
	case "l":
		return components.Navigate(components.PageLogin)
	case "r":
		return components.Navigate(components.PageRegister)
	case "a":
		return components.Navigate(components.PageAccount)
	case "q":
		return tea.Quit
	}
	return nil
}

func (h *homePage) view(st session.State) string {
	t := h.theme
	var sb strings.Builder

	sb.WriteString(t.HeroTitle.Render(HeroTitle))
	sb.WriteString("\n\n")
	sb.WriteString(t.HeroSubtitle.Render(HeroSubtitle))
	sb.WriteString("\n\n")

	entries := [][2]string{{"c", "start chatting"}}
	if st.Authenticated() {
		entries = append(entries, [2]string{"a", "your account"})
	} else {
		entries = append(entries, [2]string{"l", "log in"}, [2]string{"r", "create an account"})
	}
	entries = append(entries, [2]string{"q", "quit"})
	for _, e := range entries {
		sb.WriteString(t.HeroKey.Render(e[0]) + "  " + e[1] + "\n")
	}

	box := t.HeroBox.Render(strings.TrimRight(sb.String(), "\n"))
	if h.width == 0 || h.height == 0 {
		return box
	}
	return lipgloss.Place(h.width, h.height, lipgloss.Center, lipgloss.Center, box)
}
