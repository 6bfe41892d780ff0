// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line parsing and the non-TUI commands of
// zenitalk.
//
// The TUI and the commands share one Runtime (config, logger, storage, API
// client, session store, chat controller), so a question asked with
// "zenitalk ask" behaves exactly like one typed into the chat page.
//
// # Key Types
//
//   - Command: Enumeration of the available commands
//   - Args: Global flags plus the raw command arguments
//   - ArgParser: Flag and positional parsing for one command
//   - Runtime: The wired session and chat objects
//   - IO: The streams a command reads and writes
//
// # Usage
//
//	cmd, args := cli.Parse(os.Args[1:])
//	if cmd == cli.CmdTUI {
//	    runTUI(args)
//	    return
//	}
//	os.Exit(cli.Run(ctx, cmd, args, cli.StdIO()))
//
// # Commands
//
//   - ask: Single question
//   - chat: Line-based chat with history
//   - login, register, logout, whoami: Session management
//   - status: Configuration and session summary
//   - config: Effective configuration and file locations
//   - serve-dev: In-memory development backend
//
// status, whoami, ask, config and version support --json.
package cli
