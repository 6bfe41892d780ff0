// zenitalk - A terminal client for the ZeniTalk chatbot.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/zenitalk/zenitalk-tui/internal/cli"
	"github.com/zenitalk/zenitalk-tui/internal/ui/app"
	uichat "github.com/zenitalk/zenitalk-tui/internal/ui/chat"
	"github.com/zenitalk/zenitalk-tui/internal/ui/render"
	"github.com/zenitalk/zenitalk-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse(os.Args[1:])

	if cmd == cli.CmdTUI {
		if err := runTUI(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(cli.GetExitCode(err))
		}
		return
	}

	os.Exit(cli.Run(context.Background(), cmd, args, cli.StdIO()))
}

// runTUI starts the full-screen interface.
func runTUI(args cli.Args) error {
	cfg, err := cli.LoadConfig(args)
	if err != nil {
		return err
	}

	// The alternate screen owns the terminal, so -v raises the file log level
	// instead of logging to stderr.
	if args.Verbose {
		cfg.Log.Level = "debug"
		args.Verbose = false
	}
	rt, err := cli.OpenRuntime(cfg, args)
	if err != nil {
		return err
	}
	defer rt.Close()

	rt.Logger.Info("tui_start",
		zap.String("version", Version),
		zap.String("api", rt.Client.BaseURL()),
		zap.Bool("require_login", cfg.Chat.RequireLogin))

	m := app.New(app.Options{
		Store:        rt.Store,
		Controller:   rt.Chat,
		Theme:        styles.NewTheme(cfg.UI.Theme),
		Renderer:     render.New(cfg.UI.Markdown, cfg.UI.Theme),
		RequireLogin: cfg.Chat.RequireLogin,
		AuthTimeout:  cfg.AuthTimeout(),
		Logger:       rt.Logger.Named("ui"),
	})

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),       // Use alternate screen buffer
		tea.WithMouseCellMotion(), // Enable mouse support
	)

	unsubscribe := app.SubscribeProgram(rt.Store, p)
	defer unsubscribe()
	rt.Chat.OnChange(uichat.NotifyProgram(p))
	defer rt.Chat.OnChange(nil)

	if _, err := p.Run(); err != nil {
		rt.Logger.Error("tui_failed", zap.Error(err))
		return fmt.Errorf("tui: %w", err)
	}
	rt.Logger.Info("tui_exit")
	return nil
}
