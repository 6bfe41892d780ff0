// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the reusable UI pieces of the zenitalk TUI.

# Key Types

  - Page, NavigateMsg: page identifiers and the navigation message
  - Navbar: top row with page links and the current identity
  - StatusBar: bottom row with a status line and key hints
  - Field, Form: labelled text inputs with focus cycling and an error line
  - InputArea: the chat question input
  - MessageView: renders one transcript message as a bubble

# Usage

	nav := components.NewNavbar(theme)
	nav.SetWidth(width)
	nav.SetActive(components.PageChat)
	nav.SetIdentity(state)
	top := nav.View()

Pages request navigation by returning components.Navigate(page).
*/
package components
