// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// args.go - Argument parsing shared by all zenitalk commands.

package cli

import (
	"fmt"
	"strconv"
	"strings"
)

// =============================================================================
// ARG PARSER
// =============================================================================

// ArgParser splits raw command arguments into flags and positionals.
// It handles:
//   - Long flags: --flag value or --flag=value
//   - Short flags: -f value
//   - Boolean flags: --flag (no value needed)
//   - Positional arguments: arguments without flags
//   - Subcommands: first positional argument
//
// Flags named in boolNames never consume the following argument, so
// "ask --json hello" keeps "hello" as the question.
type ArgParser struct {
	subcommand string
	flags      map[string]string
	boolFlags  map[string]bool
	positional []string
	raw        []string
}

// NewArgParser parses raw. boolNames lists flags that never take a value.
//
// Example:
//
//	args := NewArgParser([]string{"show", "--email", "a@b.co", "--json"}, "json")
//	args.Subcommand()     // "show"
//	args.Flag("email")    // "a@b.co"
//	args.BoolFlag("json") // true
func NewArgParser(raw []string, boolNames ...string) *ArgParser {
	parser := &ArgParser{
		flags:      make(map[string]string),
		boolFlags:  make(map[string]bool),
		positional: make([]string, 0),
		raw:        raw,
	}

	isBool := make(map[string]bool, len(boolNames))
	for _, n := range boolNames {
		isBool[n] = true
	}

	i := 0
	for i < len(raw) {
		arg := raw[i]

		// "--" ends flag parsing; the rest is positional.
		if arg == "--" {
			parser.positional = append(parser.positional, raw[i+1:]...)
			break
		}

		if strings.HasPrefix(arg, "-") && len(arg) > 1 {
			if strings.Contains(arg, "=") {
				parts := strings.SplitN(arg, "=", 2)
				flagName := strings.TrimLeft(parts[0], "-")
				flagValue := parts[1]

				// Boolean flags can be explicit: --json=true, --json=false
				if flagValue == "true" || flagValue == "false" {
					parser.boolFlags[flagName] = flagValue == "true"
				} else {
					parser.flags[flagName] = flagValue
				}
				i++
				continue
			}

			flagName := strings.TrimLeft(arg, "-")
			if !isBool[flagName] && i+1 < len(raw) && !strings.HasPrefix(raw[i+1], "-") {
				parser.flags[flagName] = raw[i+1]
				i += 2
			} else {
				parser.boolFlags[flagName] = true
				i++
			}
			continue
		}

		parser.positional = append(parser.positional, arg)
		i++
	}

	if len(parser.positional) > 0 {
		parser.subcommand = parser.positional[0]
	}

	return parser
}

// Subcommand returns the first positional argument, or "".
func (p *ArgParser) Subcommand() string {
	return p.subcommand
}

// Flag returns the value of a string flag, or "" if absent. Several names
// may be given to accept aliases, e.g. Flag("email", "e").
func (p *ArgParser) Flag(names ...string) string {
	for _, name := range names {
		name = strings.TrimLeft(name, "-")
		if val, ok := p.flags[name]; ok {
			return val
		}
	}
	return ""
}

// FlagOrDefault returns the flag value or a default if not found.
func (p *ArgParser) FlagOrDefault(name, defaultValue string) string {
	if val := p.Flag(name); val != "" {
		return val
	}
	return defaultValue
}

// FlagInt returns the flag value as an integer.
func (p *ArgParser) FlagInt(name string) (int, error) {
	val := p.Flag(name)
	if val == "" {
		return 0, fmt.Errorf("flag %s not found", name)
	}
	return strconv.Atoi(val)
}

// BoolFlag reports whether any of the given boolean flags is set.
func (p *ArgParser) BoolFlag(names ...string) bool {
	for _, name := range names {
		if p.boolFlags[strings.TrimLeft(name, "-")] {
			return true
		}
	}
	return false
}

// Positional returns the positional argument at index, or "".
// Index 0 is the subcommand.
func (p *ArgParser) Positional(index int) string {
	if index < 0 || index >= len(p.positional) {
		return ""
	}
	return p.positional[index]
}

// PositionalFrom returns all positional arguments starting from index.
func (p *ArgParser) PositionalFrom(index int) []string {
	if index < 0 || index >= len(p.positional) {
		return []string{}
	}
	return p.positional[index:]
}

// PositionalCount returns the number of positional arguments.
func (p *ArgParser) PositionalCount() int {
	return len(p.positional)
}

// HasFlag returns true if the flag exists (either as string or bool flag).
func (p *ArgParser) HasFlag(name string) bool {
	name = strings.TrimLeft(name, "-")
	_, hasString := p.flags[name]
	_, hasBool := p.boolFlags[name]
	return hasString || hasBool
}

// Raw returns the original raw arguments.
func (p *ArgParser) Raw() []string {
	return p.raw
}

// JoinPositionalArgs joins positional arguments from startIndex into one
// string, for commands that take a multi-word question.
func JoinPositionalArgs(parser *ArgParser, startIndex int) string {
	return strings.Join(parser.PositionalFrom(startIndex), " ")
}
