// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zenitalk/zenitalk-tui/internal/session"
	"github.com/zenitalk/zenitalk-tui/internal/ui/components"
	"github.com/zenitalk/zenitalk-tui/internal/ui/styles"
)

// =============================================================================
// SHARED FORM HANDLING
// =============================================================================

// formPage is a login or registration screen.
type formPage struct {
	page   components.Page
	form   *components.Form
	theme  *styles.Theme
	width  int
	height int

	// notice is shown above the form, e.g. why the user was redirected.
	notice string

	// submit validates and starts the request. It returns an error for
	// local validation failures.
	submit func() (tea.Cmd, error)
}

func (p *formPage) setSize(width, height int) {
	p.width = width
	p.height = height
	p.form.SetWidth(min(width, 70))
}

// reset clears the form unless a request is running.
func (p *formPage) reset() tea.Cmd {
	if p.form.Busy() {
		return nil
	}
	return p.form.Reset()
}

// update handles input. While logged in the form is replaced by a notice
// and only esc is live.
func (p *formPage) update(msg tea.Msg, st session.State) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return p.form.Update(msg)
	}

	switch key.String() {
	case "esc":
		return components.Navigate(components.PageHome)
	}
	if st.Authenticated() && !p.form.Busy() {
		return nil
	}

	switch key.String() {
	case "tab", "down":
		return p.form.Next()
	case "shift+tab", "up":
		return p.form.Prev()
	case "enter":
		if p.form.Busy() {
			return nil
		}
		if !p.form.OnLast() {
			return p.form.Next()
		}
		cmd, err := p.submit()
		if err != nil {
			p.form.SetError(err.Error())
			return nil
		}
		p.form.SetError("")
		p.form.SetBusy(true)
		return cmd
	}
	return p.form.Update(msg)
}

// finish applies a request result. It reports whether the request succeeded.
func (p *formPage) finish(err error) bool {
	p.form.SetBusy(false)
	if err != nil {
		p.form.SetError(err.Error())
		return false
	}
	p.notice = ""
	p.form.Reset()
	return true
}

func (p *formPage) view(st session.State) string {
	t := p.theme
	var body string
	if st.Authenticated() && !p.form.Busy() {
		name := "you"
		if st.User != nil {
			name = st.User.DisplayName()
		}
		body = t.FormBox.Render(
			t.FormTitle.Render(p.form.Title) + "\n" +
				styles.RenderSuccess("Logged in as "+name) + "\n" +
				t.FormHint.Render("F2 chat  F5 account"))
	} else {
		body = p.form.View()
		if p.notice != "" {
			body = styles.RenderInfo(p.notice) + "\n" + body
		}
	}
	if p.width == 0 || p.height == 0 {
		return body
	}
	return lipgloss.Place(p.width, p.height, lipgloss.Center, lipgloss.Center, body)
}

// authCmd runs fn with a timeout off the event loop.
func authCmd(page components.Page, timeout time.Duration, fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		return authResultMsg{page: page, err: fn(ctx)}
	}
}

// =============================================================================
// LOGIN
// =============================================================================

func newLoginPage(theme *styles.Theme, store *session.Store, timeout time.Duration) *formPage {
	email := components.NewField("Email", "you@example.com", false)
	password := components.NewField("Password", "", true)
	form := components.NewForm(theme, "Log in", "Log in", email, password)
	form.Hint = "tab next field  enter submit  F4 create an account"

	p := &formPage{page: components.PageLogin, form: form, theme: theme}
	p.submit = func() (tea.Cmd, error) {
		addr := strings.TrimSpace(email.Value())
		pw := password.Value()
		if err := session.ValidateLogin(addr, pw); err != nil {
			return nil, err
		}
		return authCmd(components.PageLogin, timeout, func(ctx context.Context) error {
			return store.Login(ctx, addr, pw)
		}), nil
	}
	return p
}

// =============================================================================
// REGISTER
// =============================================================================

func newRegisterPage(theme *styles.Theme, store *session.Store, timeout time.Duration) *formPage {
	name := components.NewField("Name", "Ada", false)
	surname := components.NewField("Surname", "Lovelace", false)
	email := components.NewField("Email", "you@example.com", false)
	password := components.NewField("Password", "at least 6 characters", true)
	confirm := components.NewField("Confirm password", "", true)
	form := components.NewForm(theme, "Create an account", "Register",
		name, surname, email, password, confirm)
	form.Hint = "tab next field  enter submit  F3 log in instead"

	p := &formPage{page: components.PageRegister, form: form, theme: theme}
	p.submit = func() (tea.Cmd, error) {
		f := session.RegisterForm{
			Name:            strings.TrimSpace(name.Value()),
			Surname:         strings.TrimSpace(surname.Value()),
			Email:           strings.TrimSpace(email.Value()),
			Password:        password.Value(),
			ConfirmPassword: confirm.Value(),
		}
		if err := session.ValidateRegister(f); err != nil {
			return nil, err
		}
		return authCmd(components.PageRegister, timeout, func(ctx context.Context) error {
			return store.Register(ctx, f.Name, f.Surname, f.Email, f.Password)
		}), nil
	}
	return p
}
