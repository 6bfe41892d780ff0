// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/zenitalk/zenitalk-tui/internal/api"
	"github.com/zenitalk/zenitalk-tui/internal/util"
)

// Controller errors.
var (
	// ErrBusy is returned by Submit while another send is pending.
	ErrBusy = errors.New("a message is already being sent")

	// ErrEmptyInput is returned by Submit for blank input.
	ErrEmptyInput = errors.New("message is empty")

	// ErrAlreadyRun is returned when a Send is run twice.
	ErrAlreadyRun = errors.New("send already run")
)

// Texts placed in the transcript.
const (
	WelcomeMessage       = "Hello! I'm ZeniTalk. How can I help you today?"
	LimitExceededMessage = "You've used all of today's free messages. Register or log in to keep chatting."
	QuotaMessage         = "You've reached your daily message limit. Please try again tomorrow."
	RetryMessage         = "Sorry, something went wrong. Please try again."
	CancelledMessage     = "Request cancelled."
)

// DefaultPhrases are cycled while waiting for an answer.
var DefaultPhrases = []string{
	"Thinking...",
	"Gathering my thoughts...",
	"Almost there...",
}

// DefaultRotationInterval is the placeholder cadence.
const DefaultRotationInterval = 1500 * time.Millisecond

// Backend sends a question to the inference backend.
type Backend interface {
	Chat(ctx context.Context, token string, req api.ChatRequest) (*api.ChatResponse, error)
}

// TokenSource reports the current bearer token ("" when anonymous).
type TokenSource interface {
	Token() string
}

// Options configures a Controller.
type Options struct {
	// SessionID is the anonymous correlation key sent with every question.
	SessionID string
	// RotationInterval is the placeholder cadence (default 1.5s).
	RotationInterval time.Duration
	// Phrases replace DefaultPhrases.
	Phrases []string
	// Welcome is the first bot message. "-" disables it.
	Welcome string
	Logger  *zap.Logger
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller owns the transcript and send lifecycle of one conversation.
type Controller struct {
	mu sync.Mutex

	backend   Backend
	tokens    TokenSource
	sessionID string
	interval  time.Duration
	phrases   []string
	welcome   string
	logger    *zap.Logger
	ids       *idGenerator

	messages      []Message
	sending       bool
	usage         *api.Usage
	upgradePrompt bool

	// pending is the submitted send until it is released
	pending      *Send
	// clearPending resets the conversation when pending is released
	clearPending bool
	onChange     func()
}

// NewController creates a controller with a fresh transcript.
func NewController(backend Backend, tokens TokenSource, opts Options) *Controller {
	c := &Controller{
		backend:   backend,
		tokens:    tokens,
		sessionID: opts.SessionID,
		interval:  opts.RotationInterval,
		phrases:   opts.Phrases,
		welcome:   opts.Welcome,
		logger:    opts.Logger,
		ids:       newIDGenerator(),
	}
	if c.interval <= 0 {
		c.interval = DefaultRotationInterval
	}
	if len(c.phrases) == 0 {
		c.phrases = DefaultPhrases
	}
	c.phrases = append([]string(nil), c.phrases...)
	if c.welcome == "" {
		c.welcome = WelcomeMessage
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	c.messages = c.initialTranscript()
	return c
}

func (c *Controller) initialTranscript() []Message {
	if c.welcome == "-" {
		return nil
	}
	now := time.Now()
	return []Message{{
		ID:        c.ids.next(now),
		Text:      c.welcome,
		Sender:    SenderBot,
		CreatedAt: now,
	}}
}

// OnChange sets the function called after every transcript or state
// mutation. It may be called from a background goroutine.
func (c *Controller) OnChange(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

func (c *Controller) notify() {
	c.mu.Lock()
	fn := c.onChange
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Transcript returns a copy of the messages in order.
func (c *Controller) Transcript() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Sending reports whether a send is pending.
func (c *Controller) Sending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sending
}

// Usage returns the last usage reported by the backend, or nil.
func (c *Controller) Usage() *api.Usage {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.usage == nil {
		return nil
	}
	u := *c.usage
	return &u
}

// UpgradePrompt reports whether the anonymous limit was hit and the UI
// should offer registration.
func (c *Controller) UpgradePrompt() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.upgradePrompt
}

// DismissUpgradePrompt clears the upgrade prompt.
func (c *Controller) DismissUpgradePrompt() {
	c.mu.Lock()
	changed := c.upgradePrompt
	c.upgradePrompt = false
	c.mu.Unlock()
	if changed {
		c.notify()
	}
}

// SessionID returns the anonymous correlation key in use.
func (c *Controller) SessionID() string { return c.sessionID }

// Reset starts a new conversation. Fails with ErrBusy while sending.
func (c *Controller) Reset() error {
	c.mu.Lock()
	if c.sending {
		c.mu.Unlock()
		return ErrBusy
	}
	c.resetLocked()
	c.mu.Unlock()

	c.notify()
	return nil
}

// Clear cancels the pending send, if any, and starts a new conversation.
// With a send in flight the reset happens when that send is released, so
// nothing from the old conversation survives it.
func (c *Controller) Clear() {
	c.mu.Lock()
	s := c.pending
	if s == nil {
		c.resetLocked()
		c.mu.Unlock()
		c.notify()
		return
	}
	c.clearPending = true
	s.cancelLocked()
	c.mu.Unlock()

	// Releases at once when Run never started; otherwise Run releases.
	s.Discard()
}

func (c *Controller) resetLocked() {
	c.messages = c.initialTranscript()
	c.usage = nil
	c.upgradePrompt = false
	c.clearPending = false
}

// Cancel aborts the pending send, if any. The send still finalizes its
// placeholder. A send cancelled before Run returns OutcomeCancelled without
// calling the backend.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending != nil {
		c.pending.cancelLocked()
	}
}

// =============================================================================
// SEND LIFECYCLE
// =============================================================================

// Outcome classifies how a send ended.
type Outcome int

const (
	OutcomeAnswered Outcome = iota
	OutcomeAnonymousLimit
	OutcomeQuota
	OutcomeFailed
	OutcomeCancelled
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAnswered:
		return "answered"
	case OutcomeAnonymousLimit:
		return "anonymous-limit"
	case OutcomeQuota:
		return "quota"
	case OutcomeFailed:
		return "failed"
	case OutcomeCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Result is the terminal state of a send.
type Result struct {
	Outcome Outcome
	// Text is what the placeholder became.
	Text string
	// Usage is set when the backend reported it.
	Usage *api.Usage
	// Err is the underlying failure, nil when answered.
	Err error
}

// Send is a submitted question. Either Run or Discard it; until then the
// controller stays busy.
type Send struct {
	ctrl          *Controller
	question      string
	placeholderID string
	ran           atomic.Bool
	started       time.Time

	// guarded by ctrl.mu
	cancel    context.CancelFunc
	cancelled bool
}

func (s *Send) cancelLocked() {
	s.cancelled = true
	if s.cancel != nil {
		s.cancel()
	}
}

// Question returns the normalized question text.
func (s *Send) Question() string { return s.question }

// PlaceholderID returns the id of the bot message this send will finalize.
func (s *Send) PlaceholderID() string { return s.placeholderID }

// Submit appends the user message and a loading placeholder in one step and
// marks the controller as sending. The placeholder rotates once Run starts.
func (c *Controller) Submit(input string) (*Send, error) {
	question := util.NormalizeInput(input)
	if question == "" {
		return nil, ErrEmptyInput
	}

	c.mu.Lock()
	if c.sending {
		c.mu.Unlock()
		return nil, ErrBusy
	}
	c.sending = true

	now := time.Now()
	user := Message{ID: c.ids.next(now), Text: question, Sender: SenderUser, CreatedAt: now}
	placeholder := Message{ID: c.ids.next(now), Text: c.phrases[0], Sender: SenderBot, IsLoading: true, CreatedAt: now}
	c.messages = append(c.messages, user, placeholder)

	s := &Send{
		ctrl:          c,
		question:      question,
		placeholderID: placeholder.ID,
		started:       now,
	}
	c.pending = s
	c.mu.Unlock()

	c.notify()
	return s, nil
}

// rotate changes the placeholder text if it is still loading.
func (c *Controller) rotate(id, text string) {
	c.mu.Lock()
	i := c.indexLocked(id)
	if i < 0 || !c.messages[i].IsLoading {
		c.mu.Unlock()
		return
	}
	c.messages[i].Text = text
	c.mu.Unlock()
	c.notify()
}

func (c *Controller) indexLocked(id string) int {
	for i := len(c.messages) - 1; i >= 0; i-- {
		if c.messages[i].ID == id {
			return i
		}
	}
	return -1
}

// Run performs the request and finalizes the placeholder. The rotation is
// stopped and the sending flag cleared on every path, including panics.
func (s *Send) Run(ctx context.Context) (result Result) {
	if !s.ran.CompareAndSwap(false, true) {
		return Result{Outcome: OutcomeFailed, Err: ErrAlreadyRun}
	}
	c := s.ctrl

	ctx, cancel := context.WithCancel(ctx)
	c.mu.Lock()
	s.cancel = cancel
	cancelled := s.cancelled
	c.mu.Unlock()

	rot := startRotation(c.interval, c.phrases, func(text string) {
		c.rotate(s.placeholderID, text)
	})

	defer func() {
		panicked := recover()
		rot.Stop()
		cancel()
		s.release(&result, panicked)
	}()

	if cancelled {
		return Result{Outcome: OutcomeCancelled, Text: CancelledMessage, Err: context.Canceled}
	}

	token := c.tokens.Token()
	c.logger.Debug("chat_send",
		zap.String("placeholder_id", s.placeholderID),
		zap.Bool("authenticated", token != ""),
		zap.Int("question_runes", len([]rune(s.question))))

	resp, err := c.backend.Chat(ctx, token, api.ChatRequest{
		Question:  s.question,
		SessionID: c.sessionID,
	})
	return classify(resp, err)
}

// Discard releases a send that will never run: the placeholder becomes the
// cancelled message and the controller accepts new input. It does nothing
// once Run has started.
func (s *Send) Discard() {
	if !s.ran.CompareAndSwap(false, true) {
		return
	}
	result := Result{Outcome: OutcomeCancelled, Text: CancelledMessage, Err: context.Canceled}
	s.release(&result, nil)
}

// release writes the result into the placeholder and clears the sending
// flag. After a panic the placeholder gets the retry message.
func (s *Send) release(result *Result, panicked any) {
	c := s.ctrl

	if panicked != nil {
		*result = Result{Outcome: OutcomeFailed, Text: RetryMessage, Err: fmt.Errorf("chat send panicked: %v", panicked)}
	}

	c.mu.Lock()
	if i := c.indexLocked(s.placeholderID); i >= 0 {
		c.messages[i].Text = result.Text
		c.messages[i].IsLoading = false
	}
	switch result.Outcome {
	case OutcomeAnswered:
		if result.Usage != nil {
			u := *result.Usage
			c.usage = &u
		}
	case OutcomeAnonymousLimit:
		c.upgradePrompt = true
	}
	c.sending = false
	c.pending = nil
	if c.clearPending {
		c.resetLocked()
	}
	c.mu.Unlock()

	fields := []zap.Field{
		zap.String("outcome", result.Outcome.String()),
		zap.Duration("duration", time.Since(s.started)),
	}
	if result.Err != nil {
		fields = append(fields, zap.Int("status", api.StatusOf(result.Err)), zap.Error(result.Err))
	}
	c.logger.Info("chat_done", fields...)

	c.notify()
}

// classify maps a backend response to a Result.
func classify(resp *api.ChatResponse, err error) Result {
	if err == nil && resp == nil {
		err = errors.New("empty chat response")
	}
	if err == nil {
		return Result{Outcome: OutcomeAnswered, Text: resp.Answer, Usage: resp.Usage}
	}

	if errors.Is(err, context.Canceled) {
		return Result{Outcome: OutcomeCancelled, Text: CancelledMessage, Err: err}
	}

	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.IsRateLimited() {
		if apiErr.IsAnonymousLimit() {
			return Result{Outcome: OutcomeAnonymousLimit, Text: LimitExceededMessage, Err: err}
		}
		text := apiErr.Message
		if text == "" {
			text = QuotaMessage
		}
		return Result{Outcome: OutcomeQuota, Text: text, Err: err}
	}

	return Result{Outcome: OutcomeFailed, Text: RetryMessage, Err: err}
}

// Ask submits input and runs the send to completion.
func (c *Controller) Ask(ctx context.Context, input string) (Result, error) {
	send, err := c.Submit(input)
	if err != nil {
		return Result{}, err
	}
	return send.Run(ctx), nil
}
