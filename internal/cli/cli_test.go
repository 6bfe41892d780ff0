// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// PARSE TESTS
// =============================================================================

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		argv    []string
		wantCmd Command
		check   func(t *testing.T, a Args)
	}{
		{name: "no args starts the TUI", argv: nil, wantCmd: CmdTUI},
		{name: "explicit tui", argv: []string{"tui"}, wantCmd: CmdTUI},
		{
			name:    "ask keeps the question",
			argv:    []string{"ask", "how", "are", "you"},
			wantCmd: CmdAsk,
			check: func(t *testing.T, a Args) {
				assert.Equal(t, []string{"how", "are", "you"}, a.Raw)
				assert.Equal(t, "ask", a.Name)
			},
		},
		{name: "alias a", argv: []string{"a", "hi"}, wantCmd: CmdAsk},
		{name: "status alias", argv: []string{"s"}, wantCmd: CmdStatus},
		{name: "signin alias", argv: []string{"signin"}, wantCmd: CmdLogin},
		{name: "signup alias", argv: []string{"signup"}, wantCmd: CmdRegister},
		{name: "logout", argv: []string{"logout"}, wantCmd: CmdLogout},
		{name: "me alias", argv: []string{"me"}, wantCmd: CmdWhoami},
		{name: "config", argv: []string{"config", "path"}, wantCmd: CmdConfig},
		{name: "devserver alias", argv: []string{"devserver"}, wantCmd: CmdServeDev},
		{name: "help flag", argv: []string{"--help"}, wantCmd: CmdHelp},
		{name: "version flag", argv: []string{"--version"}, wantCmd: CmdVersion},
		{name: "case insensitive", argv: []string{"CHAT"}, wantCmd: CmdChat},
		{
			name:    "global flags anywhere",
			argv:    []string{"--json", "status", "--api", "http://x.test", "-v", "--config=/tmp/c.toml"},
			wantCmd: CmdStatus,
			check: func(t *testing.T, a Args) {
				assert.True(t, a.JSON)
				assert.True(t, a.Verbose)
				assert.Equal(t, "http://x.test", a.APIURL)
				assert.Equal(t, "/tmp/c.toml", a.ConfigPath)
				assert.Empty(t, a.Raw)
			},
		},
		{
			name:    "global flags alone start the TUI",
			argv:    []string{"--api=http://x.test"},
			wantCmd: CmdTUI,
			check: func(t *testing.T, a Args) {
				assert.Equal(t, "http://x.test", a.APIURL)
			},
		},
		{
			name:    "unknown command",
			argv:    []string{"frobnicate"},
			wantCmd: CmdUnknown,
			check: func(t *testing.T, a Args) {
				assert.Equal(t, "frobnicate", a.Name)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, args := Parse(tt.argv)
			assert.Equal(t, tt.wantCmd, cmd)
			if tt.check != nil {
				tt.check(t, args)
			}
		})
	}
}

func TestCommandString(t *testing.T) {
	assert.Equal(t, "serve-dev", CmdServeDev.String())
	assert.Equal(t, "ask", CmdAsk.String())
	assert.Equal(t, "unknown", Command(99).String())
}

// =============================================================================
// RUN TESTS
// =============================================================================

func bufferIO(input string) (*IO, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return NewIO(strings.NewReader(input), &out, &errOut), &out, &errOut
}

func TestRun_UnknownCommand(t *testing.T) {
	io, out, errOut := bufferIO("")
	_, args := Parse([]string{"frobnicate"})

	code := Run(context.Background(), CmdUnknown, args, io)

	assert.Equal(t, ExitUsageError, code)
	assert.Empty(t, out.String())
	assert.Equal(t, "Error: unknown command \"frobnicate\" (see 'zenitalk help')\n", errOut.String())
}

func TestRun_Help(t *testing.T) {
	io, out, _ := bufferIO("")

	code := Run(context.Background(), CmdHelp, Args{}, io)

	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, out.String(), "zenitalk ask \"question\"")
	assert.Contains(t, out.String(), "Version: "+Version)
}

func TestRun_VersionJSON(t *testing.T) {
	io, out, _ := bufferIO("")

	code := Run(context.Background(), CmdVersion, Args{JSON: true}, io)
	require.Equal(t, ExitSuccess, code)

	var resp struct {
		Success bool        `json:"success"`
		Command string      `json:"command"`
		Data    VersionData `json:"data"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "version", resp.Command)
	assert.Equal(t, Version, resp.Data.Version)
	assert.NotEmpty(t, resp.Data.GoVersion)
}

func TestRun_VersionText(t *testing.T) {
	io, out, _ := bufferIO("")

	require.Equal(t, ExitSuccess, Run(context.Background(), CmdVersion, Args{}, io))
	assert.Contains(t, out.String(), "zenitalk version "+Version)
}

// =============================================================================
// ERROR DISPLAY TESTS
// =============================================================================

func TestDisplayError(t *testing.T) {
	io, out, errOut := bufferIO("")

	DisplayError(io, &CommandError{Command: "ask", Reason: "Daily limit reached."}, false)

	assert.Empty(t, out.String())
	assert.Equal(t, "Error: ask: Daily limit reached.\n", errOut.String())
}

func TestDisplayErrorJSON(t *testing.T) {
	io, out, errOut := bufferIO("")
	cause := errors.New("boom")

	DisplayError(io, &CommandError{Command: "login", Reason: "Invalid credentials", Err: cause}, true)

	assert.Empty(t, errOut.String())
	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &payload))
	assert.Equal(t, false, payload["success"])
	assert.Equal(t, "command_error", payload["error_type"])
	assert.Equal(t, "login", payload["command"])
	assert.Equal(t, "Invalid credentials", payload["reason"])
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitUsageError, GetExitCode(&UsageError{Reason: "bad"}))
	assert.Equal(t, ExitGeneralError, GetExitCode(errors.New("x")))

	wrapped := &CommandError{Command: "ask", Reason: "x", Err: &UsageError{Reason: "inner"}}
	assert.Equal(t, ExitUsageError, GetExitCode(wrapped))
}
