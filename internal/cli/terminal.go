// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// terminal.go - Terminal detection and prompting for zenitalk commands.
//
// Commands talk to the user through an IO value instead of the os package
// so they can run against buffers in tests. When the streams are real
// terminals we get:
// - hidden password entry
// - readline editing in the chat REPL
// - colors and markdown rendering

package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// =============================================================================
// IO
// =============================================================================

// IO bundles the streams a command uses.
type IO struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer

	reader *bufio.Reader
}

// StdIO returns the process streams.
func StdIO() *IO {
	return &IO{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// NewIO wraps arbitrary streams, typically buffers in tests.
func NewIO(in io.Reader, out, errOut io.Writer) *IO {
	return &IO{In: in, Out: out, Err: errOut}
}

func (s *IO) buffered() *bufio.Reader {
	if s.reader == nil {
		s.reader = bufio.NewReader(s.In)
	}
	return s.reader
}

// =============================================================================
// TTY DETECTION
// =============================================================================

func isTerminal(v interface{}) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// IsTTY reports whether input is an interactive terminal.
func (s *IO) IsTTY() bool { return isTerminal(s.In) }

// IsStdoutTTY reports whether output goes to a terminal.
func (s *IO) IsStdoutTTY() bool { return isTerminal(s.Out) }

const (
	// DefaultTerminalWidth is the fallback width when detection fails
	DefaultTerminalWidth = 80

	// MinTerminalWidth is the minimum width we'll use for wrapping
	MinTerminalWidth = 40
)

// TerminalWidth returns the output width, or DefaultTerminalWidth when it
// cannot be determined.
func (s *IO) TerminalWidth() int {
	f, ok := s.Out.(*os.File)
	if !ok {
		return DefaultTerminalWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return DefaultTerminalWidth
	}
	return max(width, MinTerminalWidth)
}

// =============================================================================
// PROMPTS
// =============================================================================

// ReadLine prints prompt to stderr and reads one line. EOF with no input
// is returned as io.EOF.
func (s *IO) ReadLine(prompt string) (string, error) {
	if prompt != "" {
		fmt.Fprint(s.Err, prompt)
	}
	line, err := s.buffered().ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// ReadSecret reads a password. On a terminal the input is not echoed;
// otherwise it falls back to ReadLine so passwords can be piped in.
func (s *IO) ReadSecret(prompt string) (string, error) {
	f, ok := s.In.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return s.ReadLine(prompt)
	}
	fmt.Fprint(s.Err, prompt)
	secret, err := term.ReadPassword(int(f.Fd()))
	fmt.Fprintln(s.Err)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(secret), nil
}

// =============================================================================
// COLOR OUTPUT CONTROL
// =============================================================================

var (
	colorsEnabled     bool
	colorsEnabledOnce sync.Once
)

// ColorsEnabled returns true if colored output should be used.
// NO_COLOR disables colors, FORCE_COLOR forces them, otherwise stdout
// must be a terminal.
func ColorsEnabled() bool {
	colorsEnabledOnce.Do(func() {
		if os.Getenv("NO_COLOR") != "" {
			colorsEnabled = false
			return
		}
		if os.Getenv("FORCE_COLOR") != "" {
			colorsEnabled = true
			return
		}
		colorsEnabled = isTerminal(os.Stdout)
	})
	return colorsEnabled
}

// GetColorProfile returns the termenv profile for command output.
func GetColorProfile() termenv.Profile {
	if !ColorsEnabled() {
		return termenv.Ascii
	}
	return termenv.ColorProfile()
}
