// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"strings"
	"testing"
)

// =============================================================================
// ARG PARSER TESTS
// =============================================================================

func TestArgParser_BasicParsing(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		boolNames []string
		wantSub   string
		validate  func(*testing.T, *ArgParser)
	}{
		{
			name:    "simple subcommand",
			args:    []string{"show"},
			wantSub: "show",
		},
		{
			name:    "subcommand with flag",
			args:    []string{"show", "--email", "ada@example.com"},
			wantSub: "show",
			validate: func(t *testing.T, p *ArgParser) {
				if p.Flag("email") != "ada@example.com" {
					t.Errorf("Flag(email) = %q, want %q", p.Flag("email"), "ada@example.com")
				}
			},
		},
		{
			name:    "flag with equals",
			args:    []string{"--addr=127.0.0.1:5001"},
			wantSub: "",
			validate: func(t *testing.T, p *ArgParser) {
				if p.Flag("addr") != "127.0.0.1:5001" {
					t.Errorf("Flag(addr) = %q, want %q", p.Flag("addr"), "127.0.0.1:5001")
				}
			},
		},
		{
			name:    "trailing boolean flag",
			args:    []string{"show", "--json"},
			wantSub: "show",
			validate: func(t *testing.T, p *ArgParser) {
				if !p.BoolFlag("json") {
					t.Error("BoolFlag(json) should be true")
				}
			},
		},
		{
			name:      "declared boolean does not swallow the question",
			args:      []string{"--raw", "how", "are", "you"},
			boolNames: []string{"raw"},
			wantSub:   "how",
			validate: func(t *testing.T, p *ArgParser) {
				if !p.BoolFlag("raw") {
					t.Error("BoolFlag(raw) should be true")
				}
				if got := JoinPositionalArgs(p, 0); got != "how are you" {
					t.Errorf("JoinPositionalArgs = %q, want %q", got, "how are you")
				}
			},
		},
		{
			name:    "explicit boolean value",
			args:    []string{"--json=false"},
			wantSub: "",
			validate: func(t *testing.T, p *ArgParser) {
				if p.BoolFlag("json") {
					t.Error("BoolFlag(json) should be false")
				}
				if !p.HasFlag("json") {
					t.Error("HasFlag(json) should be true")
				}
			},
		},
		{
			name:    "double dash ends flags",
			args:    []string{"--", "-not-a-flag", "text"},
			wantSub: "-not-a-flag",
			validate: func(t *testing.T, p *ArgParser) {
				if p.PositionalCount() != 2 {
					t.Errorf("PositionalCount() = %d, want 2", p.PositionalCount())
				}
			},
		},
		{
			name:    "lone dash is positional",
			args:    []string{"-"},
			wantSub: "-",
		},
		{
			name:    "multiple positional args",
			args:    []string{"how", "do", "I", "relax"},
			wantSub: "how",
			validate: func(t *testing.T, p *ArgParser) {
				joined := strings.Join(p.PositionalFrom(1), " ")
				if joined != "do I relax" {
					t.Errorf("PositionalFrom(1) joined = %q, want %q", joined, "do I relax")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := NewArgParser(tt.args, tt.boolNames...)
			if parser.Subcommand() != tt.wantSub {
				t.Errorf("Subcommand() = %q, want %q", parser.Subcommand(), tt.wantSub)
			}
			if tt.validate != nil {
				tt.validate(t, parser)
			}
		})
	}
}

func TestArgParser_FlagAliases(t *testing.T) {
	parser := NewArgParser([]string{"-e", "ada@example.com", "-h"})

	if got := parser.Flag("email", "e"); got != "ada@example.com" {
		t.Errorf("Flag(email, e) = %q, want %q", got, "ada@example.com")
	}
	if !parser.BoolFlag("help", "h") {
		t.Error("BoolFlag(help, h) should be true")
	}
	if parser.Flag("surname") != "" {
		t.Error("Flag(surname) should be empty")
	}
}

func TestArgParser_FlagInt(t *testing.T) {
	parser := NewArgParser([]string{"--limit", "5", "--bad", "x"})

	if n, err := parser.FlagInt("limit"); err != nil || n != 5 {
		t.Errorf("FlagInt(limit) = %d, %v; want 5, nil", n, err)
	}
	if _, err := parser.FlagInt("bad"); err == nil {
		t.Error("FlagInt(bad) should fail")
	}
	if _, err := parser.FlagInt("missing"); err == nil {
		t.Error("FlagInt(missing) should fail")
	}
	if got := parser.FlagOrDefault("missing", "fallback"); got != "fallback" {
		t.Errorf("FlagOrDefault = %q, want fallback", got)
	}
}

func TestArgParser_OutOfRange(t *testing.T) {
	parser := NewArgParser(nil)

	if parser.Positional(3) != "" || parser.Positional(-1) != "" {
		t.Error("out of range Positional should be empty")
	}
	if len(parser.PositionalFrom(1)) != 0 {
		t.Error("out of range PositionalFrom should be empty")
	}
	if len(parser.Raw()) != 0 {
		t.Error("Raw() should be empty")
	}
}
