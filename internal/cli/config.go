// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config.go - The "config" command.
//
// Command: config [show|path]
//
// Examples:
//   zenitalk config              Show the effective configuration as TOML
//   zenitalk config show --json  Same, as JSON
//   zenitalk config path         Show where config, state and logs live
//
// The dev JWT secret is always redacted.

package cli

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/zenitalk/zenitalk-tui/internal/config"
)

const redacted = "[REDACTED]"

// HandleConfig handles the "config" command.
func HandleConfig(io *IO, args Args) error {
	p := args.Parser()
	switch sub := p.Subcommand(); sub {
	case "", "show":
		return handleConfigShow(io, args)
	case "path", "paths":
		return handleConfigPath(io, args)
	default:
		return &UsageError{Reason: fmt.Sprintf("unknown config subcommand %q (use show or path)", sub)}
	}
}

func handleConfigShow(io *IO, args Args) error {
	cfg, err := LoadConfig(args)
	if err != nil {
		return err
	}
	safe := cfg.Clone()
	if safe.DevServer.JWTSecret != "" {
		safe.DevServer.JWTSecret = redacted
	}

	if args.JSON {
		return NewJSONResponse("config", safe).Print(io.Out)
	}

	if !args.Quiet {
		source := activeConfigFile(args)
		if source == "" {
			source = "defaults (no config file)"
		}
		fmt.Fprintln(io.Out, DimStyle.Render("# "+source))
	}
	if err := toml.NewEncoder(io.Out).Encode(safe); err != nil {
		return &CommandError{Command: "config", Reason: "cannot encode configuration", Err: err}
	}
	return nil
}

// ConfigPaths is the JSON payload of "config path --json".
type ConfigPaths struct {
	ConfigDir  string `json:"config_dir"`
	ConfigTOML string `json:"config_toml"`
	ConfigJSON string `json:"config_json"`
	Active     string `json:"active,omitempty"`
	State      string `json:"state,omitempty"`
	Log        string `json:"log"`
}

func handleConfigPath(io *IO, args Args) error {
	cfg, err := LoadConfig(args)
	if err != nil {
		return err
	}

	var paths ConfigPaths
	paths.ConfigDir, _ = config.ConfigDir()
	paths.ConfigTOML, _ = config.ConfigPathTOML()
	paths.ConfigJSON, _ = config.ConfigPathJSON()
	paths.Active = activeConfigFile(args)
	if cfg.Storage.Backend != "memory" {
		paths.State, _ = cfg.StoragePath()
	}
	paths.Log, _ = cfg.LogPath()

	if args.JSON {
		return NewJSONResponse("config", paths).Print(io.Out)
	}

	rows := [][2]string{
		{"Config dir", paths.ConfigDir},
		{"TOML file", paths.ConfigTOML},
		{"JSON file", paths.ConfigJSON},
		{"Active", orDash(paths.Active)},
		{"State", orDash(paths.State)},
		{"Log", paths.Log},
	}
	for _, r := range rows {
		fmt.Fprintln(io.Out, RenderLabel(r[0])+r[1])
	}
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
