// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - Command parsing and dispatch for zenitalk.

package cli

import (
	"context"
	"fmt"
	"runtime"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdChat
	CmdLogin
	CmdRegister
	CmdLogout
	CmdWhoami
	CmdStatus
	CmdConfig
	CmdServeDev
	CmdVersion
	CmdHelp
	CmdUnknown
)

var commandNames = map[Command]string{
	CmdTUI:      "tui",
	CmdAsk:      "ask",
	CmdChat:     "chat",
	CmdLogin:    "login",
	CmdRegister: "register",
	CmdLogout:   "logout",
	CmdWhoami:   "whoami",
	CmdStatus:   "status",
	CmdConfig:   "config",
	CmdServeDev: "serve-dev",
	CmdVersion:  "version",
	CmdHelp:     "help",
}

func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return "unknown"
}

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	JSON       bool
	Quiet      bool
	Verbose    bool
	ConfigPath string // --config: explicit config file
	APIURL     string // --api: backend base URL override

	// Name is the command word as typed, kept for error messages.
	Name string

	// Raw holds the arguments after the command word.
	Raw []string
}

// Parser returns an ArgParser over the command arguments.
func (a Args) Parser(boolNames ...string) *ArgParser {
	return NewArgParser(a.Raw, boolNames...)
}

const usageText = `zenitalk - a calm place to talk things through, in your terminal

Usage:
  zenitalk                      Start the TUI (default)
  zenitalk ask "question"       Ask a single question and print the answer
  zenitalk chat                 Interactive chat in the terminal
  zenitalk login                Log in (prompts for email and password)
  zenitalk register             Create an account
  zenitalk logout               Forget the stored session
  zenitalk whoami               Verify the session and show who is logged in
  zenitalk status, s            Show configuration and session summary
  zenitalk config [show|path]   Show the effective configuration
  zenitalk serve-dev            Run the local development backend
  zenitalk version              Show version information
  zenitalk help                 Show this help

Login flags:
  --email ADDRESS               Skip the email prompt

Register flags:
  --name NAME --surname NAME --email ADDRESS

Serve-dev flags:
  --addr HOST:PORT              Listen address (default from [devserver])

Global flags:
  --json                        Machine-readable output (status, whoami, ask, config, version)
  --config PATH                 Use a specific config file (.toml or .json)
  --api URL                     Override the backend base URL
  -q, --quiet                   Minimal output
  -v, --verbose                 Log to stderr at debug level

Chat commands:
  /new                          Start a new conversation
  /usage                        Show today's usage
  /help                         Show chat commands
  /quit                         Leave the chat (also Ctrl+D)

Examples:
  zenitalk ask "How do I deal with exam stress?"
  zenitalk --api http://localhost:5001 chat
  zenitalk serve-dev --addr 127.0.0.1:5001
  zenitalk status --json

Version: %s
`

// PrintUsage prints the usage/help text.
func PrintUsage(io *IO) {
	fmt.Fprintf(io.Out, usageText, Version)
}

// VersionData is the JSON payload of "version --json".
type VersionData struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
}

// HandleVersion prints version information.
func HandleVersion(io *IO, args Args) error {
	if args.JSON {
		return NewJSONResponse("version", VersionData{
			Version:   Version,
			GitCommit: GitCommit,
			BuildDate: BuildDate,
			GoVersion: runtime.Version(),
		}).Print(io.Out)
	}
	fmt.Fprintf(io.Out, "zenitalk version %s\n", Version)
	fmt.Fprintf(io.Out, "  Git commit: %s\n", GitCommit)
	fmt.Fprintf(io.Out, "  Build date: %s\n", BuildDate)
	return nil
}

// =============================================================================
// PARSING
// =============================================================================

// Parse parses command-line arguments (without the program name) and
// returns the command and args.
func Parse(argv []string) (Command, Args) {
	remaining, parsedArgs := parseGlobalFlags(argv)

	if len(remaining) == 0 {
		return CmdTUI, parsedArgs
	}

	cmd := strings.ToLower(remaining[0])
	parsedArgs.Name = cmd
	parsedArgs.Raw = remaining[1:]

	switch cmd {
	case "tui":
		return CmdTUI, parsedArgs
	case "ask", "a":
		return CmdAsk, parsedArgs
	case "chat":
		return CmdChat, parsedArgs
	case "login", "signin":
		return CmdLogin, parsedArgs
	case "register", "signup":
		return CmdRegister, parsedArgs
	case "logout", "signout":
		return CmdLogout, parsedArgs
	case "whoami", "me":
		return CmdWhoami, parsedArgs
	case "status", "s":
		return CmdStatus, parsedArgs
	case "config":
		return CmdConfig, parsedArgs
	case "serve-dev", "devserver":
		return CmdServeDev, parsedArgs
	case "version", "--version":
		return CmdVersion, parsedArgs
	case "help", "-h", "--help":
		return CmdHelp, parsedArgs
	default:
		return CmdUnknown, parsedArgs
	}
}

// parseGlobalFlags extracts global flags from args and returns remaining args.
func parseGlobalFlags(args []string) ([]string, Args) {
	var remaining []string
	var parsedArgs Args

	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch arg {
		case "--json":
			parsedArgs.JSON = true
		case "-q", "--quiet":
			parsedArgs.Quiet = true
		case "-v", "--verbose":
			parsedArgs.Verbose = true
		case "--config":
			if i+1 < len(args) {
				i++
				parsedArgs.ConfigPath = args[i]
			}
		case "--api":
			if i+1 < len(args) {
				i++
				parsedArgs.APIURL = args[i]
			}
		default:
			switch {
			case strings.HasPrefix(arg, "--config="):
				parsedArgs.ConfigPath = strings.TrimPrefix(arg, "--config=")
			case strings.HasPrefix(arg, "--api="):
				parsedArgs.APIURL = strings.TrimPrefix(arg, "--api=")
			default:
				remaining = append(remaining, arg)
			}
		}
	}

	return remaining, parsedArgs
}

// =============================================================================
// DISPATCH
// =============================================================================

// Run executes a non-TUI command and returns the process exit code.
// Errors are printed as "Error: ..." on stderr.
func Run(ctx context.Context, cmd Command, args Args, io *IO) int {
	err := dispatch(ctx, cmd, args, io)
	if err == nil {
		return ExitSuccess
	}
	DisplayError(io, err, args.JSON)
	return GetExitCode(err)
}

func dispatch(ctx context.Context, cmd Command, args Args, io *IO) error {
	switch cmd {
	case CmdHelp:
		PrintUsage(io)
		return nil
	case CmdVersion:
		return HandleVersion(io, args)
	case CmdConfig:
		return HandleConfig(io, args)
	case CmdServeDev:
		return HandleServeDev(ctx, io, args)
	case CmdUnknown:
		return &UsageError{Reason: fmt.Sprintf("unknown command %q (see 'zenitalk help')", args.Name)}
	case CmdTUI:
		return &UsageError{Reason: "the TUI is started by the zenitalk binary"}
	}

	cfg, err := LoadConfig(args)
	if err != nil {
		return err
	}
	rt, err := OpenRuntime(cfg, args)
	if err != nil {
		return err
	}
	defer rt.Close()

	return Handle(ctx, rt, cmd, args, io)
}

// Handle runs a command that needs the session and chat runtime.
func Handle(ctx context.Context, rt *Runtime, cmd Command, args Args, io *IO) error {
	switch cmd {
	case CmdAsk:
		return HandleAsk(ctx, rt, io, args)
	case CmdChat:
		return HandleChat(ctx, rt, io, args)
	case CmdLogin:
		return HandleLogin(ctx, rt, io, args)
	case CmdRegister:
		return HandleRegister(ctx, rt, io, args)
	case CmdLogout:
		return HandleLogout(rt, io, args)
	case CmdWhoami:
		return HandleWhoami(ctx, rt, io, args)
	case CmdStatus:
		return HandleStatus(rt, io, args)
	default:
		return &UsageError{Reason: fmt.Sprintf("command %q needs no session", cmd)}
	}
}
