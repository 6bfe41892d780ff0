// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	chatctl "github.com/zenitalk/zenitalk-tui/internal/chat"
	"github.com/zenitalk/zenitalk-tui/internal/logging"
	"github.com/zenitalk/zenitalk-tui/internal/session"
	"github.com/zenitalk/zenitalk-tui/internal/ui/components"
	"github.com/zenitalk/zenitalk-tui/internal/ui/styles"
)

// accountPage shows the profile, today's usage and the logout action. It is
// only reachable through the route guard.
type accountPage struct {
	store  *session.Store
	ctrl   *chatctl.Controller
	theme  *styles.Theme
	width  int
	height int
}

func newAccountPage(theme *styles.Theme, store *session.Store, ctrl *chatctl.Controller) accountPage {
	return accountPage{store: store, ctrl: ctrl, theme: theme}
}

func (a accountPage) Init() tea.Cmd { return nil }

func (a accountPage) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "o":
			return a, requestLogout
		case "c", "enter":
			return a, components.Navigate(components.PageChat)
		case "esc":
			return a, components.Navigate(components.PageHome)
		}
	}
	return a, nil
}

func (a accountPage) View() string {
	t := a.theme
	st := a.store.Snapshot()

	rows := [][2]string{}
	if u := st.User; u != nil {
		rows = append(rows,
			[2]string{"Name", u.Name},
			[2]string{"Surname", u.Surname},
			[2]string{"Email", u.Email},
		)
		if u.ID != "" {
			rows = append(rows, [2]string{"User ID", string(u.ID)})
		}
	} else {
		rows = append(rows, [2]string{"Profile", "not loaded yet"})
	}
	rows = append(rows, [2]string{"Token", logging.Fingerprint(st.Token)})

	usage := "no messages yet this session"
	if u := a.ctrl.Usage(); u != nil {
		usage = styles.RenderUsage(10, u.DailyCount, u.DailyLimit)
	}
	rows = append(rows, [2]string{"Usage", usage})

	var sb strings.Builder
	sb.WriteString(t.FormTitle.Render("Your account"))
	sb.WriteString("\n")
	for _, r := range rows {
		sb.WriteString(t.FormLabel.Width(10).Render(r[0]))
		sb.WriteString(r[1])
		sb.WriteString("\n")
	}
	sb.WriteString(t.FormHint.Render("c chat  o log out  esc home"))

	box := t.FormBox.Render(sb.String())
	if a.width == 0 || a.height == 0 {
		return box
	}
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, box)
}
