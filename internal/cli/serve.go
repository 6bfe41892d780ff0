// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// serve.go - The "serve-dev" command.
//
// Command: serve-dev
// Short:   Run the in-memory development backend
// Aliases: devserver
//
// Examples:
//   zenitalk serve-dev
//   zenitalk serve-dev --addr 127.0.0.1:5001
//
// Users and quotas live in memory and vanish on exit.

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/zenitalk/zenitalk-tui/internal/config"
	"github.com/zenitalk/zenitalk-tui/internal/devserver"
	"github.com/zenitalk/zenitalk-tui/internal/logging"
)

// shutdownTimeout bounds the graceful stop of the dev backend.
const shutdownTimeout = 5 * time.Second

// HandleServeDev handles the "serve-dev" command. It blocks until ctx is
// cancelled or the process receives SIGINT/SIGTERM.
func HandleServeDev(ctx context.Context, io *IO, args Args) error {
	cfg, err := LoadConfig(args)
	if err != nil {
		return err
	}
	p := args.Parser()
	if addr := p.Flag("addr", "a"); addr != "" {
		cfg.DevServer.Addr = addr
	}

	level := cfg.Log.Level
	if args.Verbose {
		level = "debug"
	}
	logger, err := logging.New(level, logging.Stderr)
	if err != nil {
		return &CommandError{Command: "serve-dev", Reason: err.Error(), Err: err}
	}
	defer func() { _ = logger.Sync() }()

	if cfg.DevServer.JWTSecret == config.Default().DevServer.JWTSecret {
		logger.Warn("devserver_default_secret",
			zap.String("hint", "set ZENITALK_JWT_SECRET to sign tokens with your own secret"))
	}

	srv := devserver.New(cfg.DevServer, devserver.WithLogger(logger))

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	if !args.Quiet {
		fmt.Fprintf(io.Err, "%s http://%s  (Ctrl+C to stop)\n",
			SuccessStyle.Render("Dev backend listening on"), srv.Addr())
	}

	select {
	case err := <-errCh:
		if err != nil {
			return &CommandError{Command: "serve-dev", Reason: err.Error(), Err: err}
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return &CommandError{Command: "serve-dev", Reason: "shutdown failed", Err: err}
	}
	select {
	case err := <-errCh:
		return err
	case <-shutdownCtx.Done():
		return nil
	}
}
