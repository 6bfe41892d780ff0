// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Interactive chat in the plain terminal.
//
// Command: chat
// Short:   Start an interactive chat session
//
// Interactive Commands (during chat):
//   /help, /h           Show available commands
//   /new, /clear        Start a new conversation
//   /usage              Show today's usage
//   /quit, /q           Exit chat
//   Ctrl+C              Cancel the pending answer (exit when idle)
//   Ctrl+D              Exit chat

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"

	"github.com/peterh/liner"

	"github.com/zenitalk/zenitalk-tui/internal/chat"
	"github.com/zenitalk/zenitalk-tui/internal/config"
	"github.com/zenitalk/zenitalk-tui/internal/ui/render"
)

// =============================================================================
// INPUT
// =============================================================================

// lineReader reads one line of chat input.
type lineReader interface {
	Prompt(prompt string) (string, error)
	Close() error
}

// linerReader provides history and line editing on a terminal.
type linerReader struct {
	line        *liner.State
	historyFile string
}

func newLinerReader() *linerReader {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	r := &linerReader{line: line}
	if dir, err := config.ConfigDir(); err == nil {
		r.historyFile = filepath.Join(dir, "chat_history")
		if f, err := os.Open(r.historyFile); err == nil {
			_, _ = line.ReadHistory(f)
			f.Close()
		}
	}
	return r
}

func (r *linerReader) Prompt(prompt string) (string, error) {
	input, err := r.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		r.line.AppendHistory(input)
	}
	return input, nil
}

// Close saves history with owner-only permissions and restores the terminal.
func (r *linerReader) Close() error {
	if r.historyFile != "" {
		if err := os.MkdirAll(filepath.Dir(r.historyFile), 0700); err == nil {
			if f, err := os.OpenFile(r.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
				_, _ = r.line.WriteHistory(f)
				f.Close()
			}
		}
	}
	return r.line.Close()
}

// plainReader reads piped input.
type plainReader struct {
	io *IO
}

func (r plainReader) Prompt(string) (string, error) { return r.io.ReadLine("") }
func (r plainReader) Close() error                  { return nil }

// =============================================================================
// REPL
// =============================================================================

const chatHelp = `Commands:
  /new      start a new conversation
  /usage    show today's usage
  /help     show this help
  /quit     leave (also Ctrl+D)
Ctrl+C cancels a pending answer.`

type repl struct {
	rt       *Runtime
	io       *IO
	renderer *render.Renderer
	quiet    bool

	// live status line showing the rotating placeholder
	liveMu sync.Mutex
	live   string
	tty    bool
}

// HandleChat handles the "chat" command.
func HandleChat(ctx context.Context, rt *Runtime, io *IO, args Args) error {
	var in lineReader
	if io.IsTTY() {
		in = newLinerReader()
	} else {
		in = plainReader{io: io}
	}
	defer in.Close()

	r := &repl{
		rt:       rt,
		io:       io,
		renderer: rt.Renderer(io),
		quiet:    args.Quiet,
		tty:      isTerminal(io.Err),
	}
	return r.run(ctx, in)
}

func (r *repl) run(ctx context.Context, in lineReader) error {
	ctrl := r.rt.Chat
	ctrl.OnChange(r.showPlaceholder)
	defer ctrl.OnChange(nil)

	// Ctrl+C while waiting cancels the send; at the prompt liner aborts.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	defer signal.Stop(sigChan)
	go func() {
		for range sigChan {
			ctrl.Cancel()
		}
	}()

	r.printWelcome()

	for {
		input, err := in.Prompt(PromptStyle.Render("you> "))
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				r.printExitSummary()
				return nil
			}
			return &CommandError{Command: "chat", Reason: "cannot read input", Err: err}
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			if !r.handleSlashCommand(input) {
				r.printExitSummary()
				return nil
			}
			continue
		}
		if strings.EqualFold(input, "exit") || strings.EqualFold(input, "quit") {
			r.printExitSummary()
			return nil
		}

		r.ask(ctx, input)
	}
}

// ask sends one question and prints the outcome.
func (r *repl) ask(ctx context.Context, input string) {
	send, err := r.rt.Chat.Submit(input)
	if err != nil {
		fmt.Fprintf(r.io.Err, "%s %v\n", ErrorStyle.Render("[Error]"), err)
		return
	}

	r.setLive(send.PlaceholderID())
	r.showPlaceholder()
	res := send.Run(ctx)
	r.setLive("")

	switch res.Outcome {
	case chat.OutcomeAnswered:
		fmt.Fprintln(r.io.Out, BotStyle.Render(chat.SenderBot.DisplayName()+":"))
		printAnswer(r.io, r.renderer, res.Text)
	case chat.OutcomeAnonymousLimit:
		fmt.Fprintln(r.io.Out, WarningStyle.Render(res.Text))
		fmt.Fprintln(r.io.Out, DimStyle.Render(upgradeHint))
	case chat.OutcomeCancelled:
		fmt.Fprintln(r.io.Err, WarningStyle.Render("["+res.Text+"]"))
	default:
		fmt.Fprintln(r.io.Out, ErrorStyle.Render(res.Text))
	}
}

// handleSlashCommand runs a /command. It returns false to leave the REPL.
func (r *repl) handleSlashCommand(input string) bool {
	fields := strings.Fields(input)
	switch strings.ToLower(fields[0]) {
	case "/quit", "/q", "/exit":
		return false
	case "/help", "/h", "/?":
		fmt.Fprintln(r.io.Out, chatHelp)
	case "/new", "/clear", "/c":
		if err := r.rt.Chat.Reset(); err != nil {
			fmt.Fprintf(r.io.Err, "%s %v\n", ErrorStyle.Render("[Error]"), err)
			break
		}
		fmt.Fprintln(r.io.Out, DimStyle.Render("New conversation."))
		r.printWelcome()
	case "/usage":
		fmt.Fprintln(r.io.Out, usageLine(r.rt.Chat.Usage()))
	default:
		fmt.Fprintf(r.io.Err, "%s unknown command %s (try /help)\n", WarningStyle.Render("[?]"), fields[0])
	}
	return true
}

func (r *repl) printWelcome() {
	if r.quiet {
		return
	}
	who := "a guest"
	if st := r.rt.Store.Snapshot(); st.Authenticated() {
		who = "you"
		if st.User != nil {
			who = st.User.DisplayName()
		}
	}
	fmt.Fprintln(r.io.Out, TitleStyle.Render("zenitalk chat")+DimStyle.Render(" as "+who+"  (/help for commands)"))
	for _, m := range r.rt.Chat.Transcript() {
		fmt.Fprintln(r.io.Out, BotStyle.Render(m.Sender.DisplayName()+":")+" "+m.Text)
	}
}

func (r *repl) printExitSummary() {
	if r.quiet {
		return
	}
	if u := r.rt.Chat.Usage(); u != nil {
		fmt.Fprintln(r.io.Out, DimStyle.Render(usageLine(u)))
	}
	fmt.Fprintln(r.io.Out, DimStyle.Render("Take care."))
}

// =============================================================================
// PLACEHOLDER LINE
// =============================================================================

// setLive starts or stops the status line for a pending placeholder.
func (r *repl) setLive(placeholderID string) {
	r.liveMu.Lock()
	defer r.liveMu.Unlock()
	if placeholderID == "" && r.live != "" && r.tty {
		fmt.Fprint(r.io.Err, "\r\x1b[K")
	}
	r.live = placeholderID
}

// showPlaceholder redraws the rotating placeholder text. It runs on the
// controller's change notifications, possibly from the rotation goroutine.
func (r *repl) showPlaceholder() {
	r.liveMu.Lock()
	defer r.liveMu.Unlock()
	if r.live == "" || !r.tty {
		return
	}
	for _, m := range r.rt.Chat.Transcript() {
		if m.ID == r.live && m.IsLoading {
			fmt.Fprint(r.io.Err, "\r\x1b[K"+DimStyle.Render(m.Text))
			return
		}
	}
}
