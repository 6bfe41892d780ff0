// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/zenitalk/zenitalk-tui/internal/session"
	"github.com/zenitalk/zenitalk-tui/internal/ui/styles"
	"github.com/zenitalk/zenitalk-tui/internal/util"
)

// =============================================================================
// NAVBAR COMPONENT
// =============================================================================

// GuestLabel is shown when no one is logged in.
const GuestLabel = "guest"

// Navbar is the top row: brand, page links and identity.
type Navbar struct {
	Title  string
	Width  int
	Active Page

	identity string
	loading  bool
	theme    *styles.Theme
}

// NewNavbar creates a navbar on the home page.
func NewNavbar(theme *styles.Theme) *Navbar {
	return &Navbar{
		Title:    "ZeniTalk",
		Width:    80,
		Active:   PageHome,
		identity: GuestLabel,
		theme:    theme,
	}
}

// SetWidth updates the navbar width.
func (n *Navbar) SetWidth(width int) {
	n.Width = width
}

// SetActive marks the current page.
func (n *Navbar) SetActive(p Page) {
	n.Active = p
}

// SetIdentity derives the identity label from a session state.
func (n *Navbar) SetIdentity(st session.State) {
	n.loading = st.Loading
	switch {
	case st.User != nil:
		n.identity = st.User.DisplayName()
		if n.identity == "" {
			n.identity = st.User.Email
		}
	case st.Authenticated():
		n.identity = "signed in"
	default:
		n.identity = GuestLabel
	}
}

// Identity returns the label currently shown.
func (n *Navbar) Identity() string { return n.identity }

// View renders the navbar on one line.
func (n *Navbar) View() string {
	t := n.theme
	brand := t.NavBrand.Render(n.Title)

	links := make([]string, 0, len(Pages))
	for _, p := range Pages {
		label := strings.ToUpper(p.Key()) + " " + p.String()
		if p == n.Active {
			links = append(links, t.NavLinkActive.Render(label))
		} else {
			links = append(links, t.NavLink.Render(label))
		}
	}

	identity := n.identity
	if n.loading {
		identity = "..."
	}
	var right string
	if identity == GuestLabel || n.loading {
		right = t.NavGuest.Render(identity)
	} else {
		right = t.NavIdentity.Render(util.TruncateWidth(identity, 24))
	}

	inner := max(n.Width-2, 0)
	left := brand + strings.Join(links, "")
	if lipgloss.Width(left)+lipgloss.Width(right)+1 > inner {
		left = brand + t.NavLinkActive.Render(n.Active.String())
	}
	gap := inner - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		left = util.TruncateWidth(n.Title, max(inner-lipgloss.Width(right)-1, 0))
		gap = max(inner-lipgloss.Width(left)-lipgloss.Width(right), 1)
	}
	return t.Navbar.Width(n.Width).Render(left + strings.Repeat(" ", gap) + right)
}
