// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zenitalk/zenitalk-tui/internal/logging"
)

// Configuration constants for the backend API.
const (
	// DefaultBaseURL is the backend the client talks to out of the box.
	DefaultBaseURL = "http://localhost:5001"

	// MaxResponseSize is the maximum allowed response body size.
	// SECURITY: Response size limit prevents memory exhaustion attacks.
	MaxResponseSize = 4 * 1024 * 1024

	// UserAgent identifies the client to the backend.
	UserAgent = "zenitalk-tui/1.0"

	// RequestIDHeader correlates client and backend logs.
	RequestIDHeader = "X-Request-ID"
)

// Endpoint paths.
const (
	PathLogin    = "/auth/login"
	PathRegister = "/auth/register"
	PathMe       = "/auth/me"
	PathChat     = "/chat"
)

// PERFORMANCE: Connection pooling reduces TCP handshake overhead.
// No client-level timeout; every call is bounded by its context.
var sharedHTTPClient = &http.Client{
	Transport: &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	},
}

// Client talks to the zenitalk backend. It is safe for concurrent use.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	logger      *zap.Logger
	authTimeout time.Duration
	chatTimeout time.Duration
}

// NewClient creates a client for baseURL (DefaultBaseURL if empty).
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: sharedHTTPClient,
		logger:     zap.NewNop(),
	}
}

// WithHTTPClient sets the underlying HTTP client.
func (c *Client) WithHTTPClient(h *http.Client) *Client {
	if h != nil {
		c.httpClient = h
	}
	return c
}

// WithLogger sets the logger.
func (c *Client) WithLogger(l *zap.Logger) *Client {
	if l != nil {
		c.logger = l
	}
	return c
}

// WithTimeouts bounds auth calls and chat calls. Zero disables a bound.
func (c *Client) WithTimeouts(auth, chat time.Duration) *Client {
	c.authTimeout = auth
	c.chatTimeout = chat
	return c
}

// BaseURL returns the backend root.
func (c *Client) BaseURL() string { return c.baseURL }

// =============================================================================
// ENDPOINTS
// =============================================================================

// Login exchanges credentials for a token and profile.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.do(ctx, c.authTimeout, http.MethodPost, PathLogin, "", req, &out); err != nil {
		return nil, err
	}
	if err := out.validate(); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates an account and returns a token and profile.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.do(ctx, c.authTimeout, http.MethodPost, PathRegister, "", req, &out); err != nil {
		return nil, err
	}
	if err := out.validate(); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me fetches the profile for token.
func (c *Client) Me(ctx context.Context, token string) (*User, error) {
	var out MeResponse
	if err := c.do(ctx, c.authTimeout, http.MethodGet, PathMe, token, nil, &out); err != nil {
		return nil, err
	}
	if out.User == nil {
		return nil, errors.New("malformed /auth/me response: missing user")
	}
	return out.User, nil
}

// Chat sends a question. token may be empty for anonymous visitors.
func (c *Client) Chat(ctx context.Context, token string, req ChatRequest) (*ChatResponse, error) {
	var out ChatResponse
	if err := c.do(ctx, c.chatTimeout, http.MethodPost, PathChat, token, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *AuthResponse) validate() error {
	if r.AccessToken == "" || r.User == nil {
		return errors.New("malformed auth response: missing access_token or user")
	}
	return nil
}

// =============================================================================
// REQUEST PLUMBING
// =============================================================================

// do performs one request. out is decoded only on 200.
func (c *Client) do(ctx context.Context, timeout time.Duration, method, path, token string, body, out any) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set(RequestIDHeader, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	// SECURITY: Clear Authorization header immediately after request to prevent logging
	req.Header.Del("Authorization")
	if err != nil {
		c.logger.Warn("api_request_failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", requestID),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err))
		return &TransportError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug("api_response",
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
		logging.Token(token))

	data, err := readResponse(resp)
	if err != nil {
		return &TransportError{Op: method + " " + path, Err: err}
	}

	// Every endpoint answers 200 on success; anything else is an error.
	if resp.StatusCode != http.StatusOK {
		return errorFromResponse(resp.StatusCode, data)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse %s response: %w", path, err)
	}
	return nil
}

// readResponse reads the response body with size limits to prevent memory exhaustion.
func readResponse(resp *http.Response) ([]byte, error) {
	limitedReader := io.LimitReader(resp.Body, MaxResponseSize+1)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) > MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}
	return body, nil
}

// errorFromResponse converts a non-200 response into *Error.
// Unparseable bodies keep the status with an empty message.
func errorFromResponse(status int, body []byte) *Error {
	apiErr := &Error{Status: status}

	var payload ErrorPayload
	if err := json.Unmarshal(body, &payload); err == nil {
		apiErr.Message = payload.Error
		if apiErr.Message == "" {
			apiErr.Message = payload.Msg
		}
		apiErr.UserType = payload.UserType
		apiErr.LimitReached = payload.LimitReached
	}
	return apiErr
}
