// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// runtime.go - Wiring shared by the TUI and the session commands.

package cli

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/zenitalk/zenitalk-tui/internal/api"
	"github.com/zenitalk/zenitalk-tui/internal/chat"
	"github.com/zenitalk/zenitalk-tui/internal/config"
	"github.com/zenitalk/zenitalk-tui/internal/logging"
	"github.com/zenitalk/zenitalk-tui/internal/session"
	"github.com/zenitalk/zenitalk-tui/internal/storage"
	"github.com/zenitalk/zenitalk-tui/internal/ui/render"
)

// LoadConfig loads .env, the config file and the command-line overrides.
func LoadConfig(args Args) (*config.Config, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, &CommandError{Command: "config", Reason: "cannot read .env", Err: err}
	}

	var (
		cfg *config.Config
		err error
	)
	if args.ConfigPath != "" {
		cfg, err = config.LoadFromPath(args.ConfigPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, &CommandError{Command: "config", Reason: err.Error(), Err: err}
	}

	if args.APIURL != "" {
		cfg.API.BaseURL = args.APIURL
		if err := cfg.Validate(); err != nil {
			return nil, &UsageError{Reason: fmt.Sprintf("--api: %v", err)}
		}
	}
	return cfg, nil
}

// Runtime holds the long-lived objects one process needs.
type Runtime struct {
	Config *config.Config
	Logger *zap.Logger
	KV     storage.KV
	Client *api.Client
	Store  *session.Store
	Chat   *chat.Controller
}

// OpenRuntime opens the logger and storage from cfg and builds the runtime.
// With --verbose the log goes to stderr at debug level instead of the file.
func OpenRuntime(cfg *config.Config, args Args) (*Runtime, error) {
	var (
		logger *zap.Logger
		err    error
	)
	if args.Verbose {
		logger, err = logging.New("debug", logging.Stderr)
	} else {
		logger, err = logging.FromConfig(cfg)
	}
	if err != nil {
		return nil, &CommandError{Command: "log", Reason: err.Error(), Err: err}
	}

	kv, err := storage.Open(cfg)
	if err != nil {
		_ = logger.Sync()
		return nil, &CommandError{Command: "storage", Reason: err.Error(), Err: err}
	}

	rt, err := NewRuntime(cfg, logger, kv)
	if err != nil {
		_ = kv.Close()
		_ = logger.Sync()
		return nil, err
	}
	return rt, nil
}

// NewRuntime builds the client, session store and chat controller over an
// open store.
func NewRuntime(cfg *config.Config, logger *zap.Logger, kv storage.KV) (*Runtime, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	client := api.NewClient(cfg.API.BaseURL).
		WithLogger(logger.Named("api")).
		WithTimeouts(cfg.AuthTimeout(), cfg.RequestTimeout())

	store := session.NewStore(kv, client,
		session.WithLogger(logger.Named("session")),
		session.WithInvalidatingStatuses(cfg.Session.InvalidatingStatuses))

	sessionID, err := session.AnonymousID(kv)
	if err != nil {
		return nil, &CommandError{Command: "storage", Reason: err.Error(), Err: err}
	}

	ctrl := chat.NewController(client, store, chat.Options{
		SessionID:        sessionID,
		RotationInterval: cfg.RotationInterval(),
		Phrases:          cfg.Chat.PlaceholderPhrases,
		Logger:           logger.Named("chat"),
	})

	return &Runtime{
		Config: cfg,
		Logger: logger,
		KV:     kv,
		Client: client,
		Store:  store,
		Chat:   ctrl,
	}, nil
}

// Renderer returns the markdown renderer for output on io. Markdown is only
// styled when writing to a terminal.
func (rt *Runtime) Renderer(io *IO) *render.Renderer {
	return render.New(rt.Config.UI.Markdown && io.IsStdoutTTY(), rt.Config.UI.Theme)
}

// Close cancels any pending send and releases storage and the logger.
func (rt *Runtime) Close() error {
	rt.Chat.Cancel()
	err := rt.KV.Close()
	_ = rt.Logger.Sync()
	return err
}
