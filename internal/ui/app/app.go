// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	chatctl "github.com/zenitalk/zenitalk-tui/internal/chat"
	"github.com/zenitalk/zenitalk-tui/internal/guard"
	"github.com/zenitalk/zenitalk-tui/internal/session"
	uichat "github.com/zenitalk/zenitalk-tui/internal/ui/chat"
	"github.com/zenitalk/zenitalk-tui/internal/ui/components"
	"github.com/zenitalk/zenitalk-tui/internal/ui/render"
	"github.com/zenitalk/zenitalk-tui/internal/ui/styles"
)

// Notices shown in the status bar.
const (
	NoticeExpired   = "Your session has expired. Please log in again."
	NoticeLoggedOut = "Logged out."
	NoticeChecking  = "Checking your session..."
)

// Options wires the application root.
type Options struct {
	Store      *session.Store
	Controller *chatctl.Controller
	Theme      *styles.Theme
	// Renderer formats bot answers; nil renders plain text.
	Renderer *render.Renderer
	// RequireLogin puts the chat page behind the route guard.
	RequireLogin bool
	// AuthTimeout bounds login, registration and the startup reconcile.
	AuthTimeout time.Duration
	Logger      *zap.Logger
}

// =============================================================================
// APPLICATION MODEL
// =============================================================================

// Model is the root Bubble Tea model: navbar, the active page and the
// status bar.
type Model struct {
	store        *session.Store
	ctrl         *chatctl.Controller
	theme        *styles.Theme
	logger       *zap.Logger
	authTimeout  time.Duration
	requireLogin bool

	// Dimensions
	width  int
	height int

	active   components.Page
	returnTo components.Page
	notice   string

	navbar    *components.Navbar
	statusBar *components.StatusBar

	// Pages
	home     *homePage
	login    *formPage
	register *formPage
	account  guard.Model
	chat     tea.Model // uichat.Model, or a guard.Model around it
}

// New creates the root model on the home page.
func New(opts Options) *Model {
	theme := opts.Theme
	if theme == nil {
		theme = styles.NewTheme(styles.ModeAuto)
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &Model{
		store:        opts.Store,
		ctrl:         opts.Controller,
		theme:        theme,
		logger:       logger,
		authTimeout:  opts.AuthTimeout,
		requireLogin: opts.RequireLogin,
		active:       components.PageHome,
		returnTo:     components.PageChat,
		navbar:       components.NewNavbar(theme),
		statusBar:    components.NewStatusBar(theme),
		home:         newHomePage(theme),
		login:        newLoginPage(theme, opts.Store, opts.AuthTimeout),
		register:     newRegisterPage(theme, opts.Store, opts.AuthTimeout),
	}

	m.account = guard.Wrap(opts.Store, newAccountPage(theme, opts.Store, opts.Controller),
		redirectTo(components.PageAccount)).WithStyle(theme.Muted)

	chatPage := uichat.New(theme, opts.Controller, opts.Renderer)
	if opts.RequireLogin {
		m.chat = guard.Wrap(opts.Store, chatPage, redirectTo(components.PageChat)).WithStyle(theme.Muted)
	} else {
		m.chat = chatPage
	}

	m.navbar.SetIdentity(opts.Store.Snapshot())
	return m
}

// Active returns the page on screen.
func (m *Model) Active() components.Page { return m.active }

// Notice returns the status bar notice.
func (m *Model) Notice() string { return m.notice }

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init starts the session reconcile.
func (m *Model) Init() tea.Cmd {
	return m.reconcile()
}

// reconcile settles the persisted session off the event loop.
func (m *Model) reconcile() tea.Cmd {
	store, timeout := m.store, m.authTimeout
	return func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		return ReconciledMsg{Outcome: store.Reconcile(ctx)}
	}
}

// Update routes messages. Keys go to the active page only; chat results
// always reach the chat page so it can settle while off screen.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m, m.resize(msg)

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case components.NavigateMsg:
		return m, m.navigate(msg.To)

	case redirectMsg:
		m.returnTo = msg.from
		m.login.notice = "Log in to open " + msg.from.String() + "."
		return m, m.navigate(components.PageLogin)

	case SessionChangedMsg:
		m.navbar.SetIdentity(msg.State)
		return m, m.checkGuard()

	case ReconciledMsg:
		m.logger.Debug("reconciled", zap.String("outcome", msg.Outcome.String()))
		if msg.Outcome == session.OutcomeInvalidated {
			m.notice = NoticeExpired
		}
		m.navbar.SetIdentity(m.store.Snapshot())
		return m, m.checkGuard()

	case authResultMsg:
		return m, m.handleAuthResult(msg)

	case logoutMsg:
		return m, m.logout()

	case uichat.TranscriptChangedMsg, uichat.ResultMsg:
		return m, m.deliverChat(msg)
	}

	return m, m.updateActive(msg)
}

// View renders navbar, page and status bar.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	nav := m.navbar.View()
	m.updateStatus()
	status := m.statusBar.View()

	bodyHeight := max(m.height-lipgloss.Height(nav)-lipgloss.Height(status), 1)
	body := lipgloss.NewStyle().
		Width(m.width).
		Height(bodyHeight).
		MaxHeight(bodyHeight).
		Render(m.pageView())

	return lipgloss.JoinVertical(lipgloss.Left, nav, body, status)
}

func (m *Model) pageView() string {
	st := m.store.Snapshot()
	switch m.active {
	case components.PageChat:
		return m.chat.View()
	case components.PageLogin:
		return m.login.view(st)
	case components.PageRegister:
		return m.register.view(st)
	case components.PageAccount:
		return m.account.View()
	default:
		return m.home.view(st)
	}
}

// =============================================================================
// ROUTING
// =============================================================================

// pageHeight is the body height once navbar and status bar are placed.
func (m *Model) pageHeight() int {
	const chrome = 2
	return max(m.height-chrome, 1)
}

func (m *Model) resize(msg tea.WindowSizeMsg) tea.Cmd {
	m.width = msg.Width
	m.height = msg.Height
	m.theme.SetSize(msg.Width, msg.Height)
	m.navbar.SetWidth(msg.Width)
	m.statusBar.SetWidth(msg.Width)

	page := tea.WindowSizeMsg{Width: msg.Width, Height: m.pageHeight()}
	m.home.setSize(page.Width, page.Height)
	m.login.setSize(page.Width, page.Height)
	m.register.setSize(page.Width, page.Height)

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.account, cmd = m.account.Deliver(page)
	cmds = append(cmds, cmd, m.deliverChat(page))
	return tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		m.ctrl.Cancel()
		return tea.Quit
	}
	if p, ok := components.PageForKey(msg.String()); ok {
		return m.navigate(p)
	}

	switch m.active {
	case components.PageHome:
		return m.home.update(msg)
	default:
		return m.updateActive(msg)
	}
}

// updateActive hands msg to the page on screen.
func (m *Model) updateActive(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.active {
	case components.PageChat:
		m.chat, cmd = m.chat.Update(msg)
	case components.PageLogin:
		cmd = m.login.update(msg, m.store.Snapshot())
	case components.PageRegister:
		cmd = m.register.update(msg, m.store.Snapshot())
	case components.PageAccount:
		var next tea.Model
		next, cmd = m.account.Update(msg)
		m.account = next.(guard.Model)
	}
	return cmd
}

// deliverChat updates the chat page whether or not it is on screen,
// bypassing its guard.
func (m *Model) deliverChat(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if g, ok := m.chat.(guard.Model); ok {
		m.chat, cmd = g.Deliver(msg)
		return cmd
	}
	m.chat, cmd = m.chat.Update(msg)
	return cmd
}

// guarded reports whether p sits behind the route guard.
func (m *Model) guarded(p components.Page) bool {
	return p == components.PageAccount || (p == components.PageChat && m.requireLogin)
}

// checkGuard lets a guarded page on screen react to a session change.
func (m *Model) checkGuard() tea.Cmd {
	if !m.guarded(m.active) {
		return nil
	}
	return m.updateActive(guardCheckMsg{})
}

// navigate shows page to. Guarded pages are initialized and checked at once
// so a settled session without a token redirects without waiting for input.
func (m *Model) navigate(to components.Page) tea.Cmd {
	from := m.active
	m.active = to
	m.navbar.SetActive(to)
	if from != to {
		m.notice = ""
	}
	m.logger.Debug("navigate", zap.String("from", from.String()), zap.String("to", to.String()))

	switch to {
	case components.PageLogin:
		return m.login.reset()
	case components.PageRegister:
		return m.register.reset()
	case components.PageAccount:
		m.account = m.account.Rearm()
		return tea.Batch(m.account.Init(), m.checkGuard())
	case components.PageChat:
		if g, ok := m.chat.(guard.Model); ok {
			m.chat = g.Rearm()
			return tea.Batch(m.chat.Init(), m.checkGuard())
		}
		return m.chat.Init()
	}
	return nil
}

func (m *Model) handleAuthResult(msg authResultMsg) tea.Cmd {
	page := m.login
	if msg.page == components.PageRegister {
		page = m.register
	}
	if !page.finish(msg.err) {
		m.logger.Debug("auth_failed", zap.String("page", msg.page.String()), zap.Error(msg.err))
		return nil
	}

	st := m.store.Snapshot()
	m.navbar.SetIdentity(st)
	m.login.notice = ""

	to := m.returnTo
	m.returnTo = components.PageChat
	if to != components.PageAccount {
		to = components.PageChat
	}
	cmd := m.navigate(to)
	if st.User != nil {
		m.notice = "Welcome, " + st.User.DisplayName() + "."
	}
	return cmd
}

// logout leaves the page first so no guard redirects on the way out, then
// ends the session and starts a fresh conversation.
func (m *Model) logout() tea.Cmd {
	cmd := m.navigate(components.PageHome)
	m.store.Logout()
	// A pending send is cancelled; the reset lands when it is released.
	m.ctrl.Clear()
	m.navbar.SetIdentity(m.store.Snapshot())
	m.notice = NoticeLoggedOut
	return cmd
}

// =============================================================================
// STATUS BAR
// =============================================================================

func (m *Model) updateStatus() {
	st := m.store.Snapshot()
	switch {
	case st.Loading:
		m.statusBar.Status = NoticeChecking
	case m.notice != "":
		m.statusBar.Status = m.notice
	default:
		m.statusBar.Status = "zenitalk"
	}
	m.statusBar.Shortcuts = shortcutsFor(m.active)
}

func shortcutsFor(p components.Page) []components.Shortcut {
	switch p {
	case components.PageChat:
		return []components.Shortcut{{Key: "enter", Desc: "send"}, {Key: "esc", Desc: "cancel/back"}, {Key: "C-n", Desc: "new chat"}, {Key: "C-c", Desc: "quit"}}
	case components.PageLogin, components.PageRegister:
		return []components.Shortcut{{Key: "tab", Desc: "next"}, {Key: "enter", Desc: "submit"}, {Key: "esc", Desc: "home"}}
	case components.PageAccount:
		return []components.Shortcut{{Key: "o", Desc: "log out"}, {Key: "c", Desc: "chat"}, {Key: "esc", Desc: "home"}}
	default:
		return []components.Shortcut{{Key: "c", Desc: "chat"}, {Key: "F1-F5", Desc: "pages"}, {Key: "q", Desc: "quit"}}
	}
}
