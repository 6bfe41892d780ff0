// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - The "ask" command: one question, one answer.
//
// Command: ask
// Short:   Ask a single question and print the answer
// Aliases: a
//
// Examples:
//   zenitalk ask "How do I calm down before an exam?"
//   echo "What is mindfulness?" | zenitalk ask
//   zenitalk ask --json "Hello"
//
// The question goes through the same chat controller as the TUI, so the
// anonymous limit, usage and error messages are identical.

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/zenitalk/zenitalk-tui/internal/api"
	"github.com/zenitalk/zenitalk-tui/internal/chat"
	"github.com/zenitalk/zenitalk-tui/internal/ui/render"
	"github.com/zenitalk/zenitalk-tui/internal/ui/styles"
)

// upgradeHint follows the anonymous limit message outside the TUI.
const upgradeHint = "Run 'zenitalk register' to create an account or 'zenitalk login' to keep chatting."

// AskData is the JSON payload of "ask --json".
type AskData struct {
	Question string     `json:"question"`
	Answer   string     `json:"answer"`
	Outcome  string     `json:"outcome"`
	Usage    *api.Usage `json:"usage,omitempty"`
}

// HandleAsk handles the "ask" command.
func HandleAsk(ctx context.Context, rt *Runtime, io *IO, args Args) error {
	p := args.Parser()
	question := JoinPositionalArgs(p, 0)
	if strings.TrimSpace(question) == "" && !io.IsTTY() {
		data, err := readAllLimited(io.In)
		if err != nil {
			return &CommandError{Command: "ask", Reason: "cannot read question from stdin", Err: err}
		}
		question = data
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	res, err := rt.Chat.Ask(ctx, question)
	if errors.Is(err, chat.ErrEmptyInput) {
		return &UsageError{Reason: "ask needs a question, e.g. zenitalk ask \"How are you?\""}
	}
	if err != nil {
		return &CommandError{Command: "ask", Reason: err.Error(), Err: err}
	}

	if res.Outcome != chat.OutcomeAnswered {
		if res.Outcome == chat.OutcomeAnonymousLimit && !args.JSON {
			fmt.Fprintln(io.Err, WarningStyle.Render(upgradeHint))
		}
		return &CommandError{Command: "ask", Reason: res.Text, Err: res.Err}
	}

	if args.JSON {
		return NewJSONResponse("ask", AskData{
			Question: question,
			Answer:   res.Text,
			Outcome:  res.Outcome.String(),
			Usage:    res.Usage,
		}).Print(io.Out)
	}

	printAnswer(io, rt.Renderer(io), res.Text)
	if res.Usage != nil && !args.Quiet {
		fmt.Fprintln(io.Err, DimStyle.Render(usageLine(res.Usage)))
	}
	return nil
}

// printAnswer writes an answer, rendered as markdown when r is enabled.
func printAnswer(io *IO, r *render.Renderer, text string) {
	width := io.TerminalWidth()
	if width > render.DefaultWordWrap {
		width = render.DefaultWordWrap
	}
	fmt.Fprintln(io.Out, r.Markdown(text, width))
}

// usageLine formats the daily quota, e.g. "Usage: [###-------] 3/10 today".
func usageLine(u *api.Usage) string {
	if u == nil {
		return "Usage: n/a"
	}
	return "Usage: " + styles.RenderUsage(10, u.DailyCount, u.DailyLimit)
}

// readAllLimited reads at most 64 KiB of piped input.
func readAllLimited(r io.Reader) (string, error) {
	const limit = 64 << 10
	data, err := io.ReadAll(io.LimitReader(r, limit))
	if err != nil {
		return "", err
	}
	return string(data), nil
}
