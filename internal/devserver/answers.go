// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package devserver

import (
	"fmt"
	"strings"

	"github.com/zenitalk/zenitalk-tui/internal/util"
)

// Answerer produces the reply for a question.
type Answerer interface {
	Answer(question string, user string) string
}

// AnswerFunc adapts a function to Answerer.
type AnswerFunc func(question, user string) string

// Answer implements Answerer.
func (f AnswerFunc) Answer(question, user string) string { return f(question, user) }

// cannedAnswerer picks a reply by keyword and falls back to an echo.
type cannedAnswerer struct{}

var cannedReplies = []struct {
	keywords []string
	reply    string
}{
	{[]string{"hello", "hi", "merhaba", "hey"}, "Hello%s! What would you like to talk about?"},
	{[]string{"help", "yardım"}, "I can answer questions, explain ideas and help you think things through%s."},
	{[]string{"who are you", "your name"}, "I'm ZeniTalk, a development backend pretending to be clever%s."},
	{[]string{"code", "golang", "go "}, "Here is a tiny example%s:\n\n```go\nfmt.Println(\"hello\")\n```"},
}

func (cannedAnswerer) Answer(question, user string) string {
	addressee := ""
	if user != "" {
		addressee = ", " + user
	}
	lower := strings.ToLower(question)
	for _, c := range cannedReplies {
		for _, kw := range c.keywords {
			if strings.Contains(lower, kw) {
				return fmt.Sprintf(c.reply, addressee)
			}
		}
	}
	return fmt.Sprintf("You asked: **%s**\n\nThis is the development backend, so the answer is canned.",
		util.TruncateRunes(util.SingleLine(question), 200))
}
