// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package devserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/zenitalk/zenitalk-tui/internal/api"
	"github.com/zenitalk/zenitalk-tui/internal/logging"
	"github.com/zenitalk/zenitalk-tui/internal/session"
)

// Response messages.
const (
	MsgInvalidJSON        = "invalid json"
	MsgInvalidCredentials = "Invalid email or password"
	MsgEmailTaken         = "Email is already registered"
	MsgQuestionRequired   = "Question is required"
	MsgAnonymousLimit     = "Daily message limit reached for guests. Log in to keep chatting."
	MsgUserLimit          = "Daily message limit reached. Try again tomorrow."
	MsgUserNotFound       = "User not found"
)

// UserTypeRegistered is reported on 429s for logged-in users.
const UserTypeRegistered = "registered"

// ============================================================================
// AUTH
// ============================================================================

func (s *Server) handleRegister(c *gin.Context) {
	var req api.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, MsgInvalidJSON)
		return
	}
	if err := session.ValidateRegister(session.RegisterForm{
		Name:            req.Name,
		Surname:         req.Surname,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.Password,
	}); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	hash, err := hashPassword(req.Password, s.bcryptCost)
	if err != nil {
		s.logger.Error("register_hash_failed", zap.Error(err))
		fail(c, http.StatusInternalServerError, "failed to hash password")
		return
	}
	user, err := s.users.create(req.Name, req.Surname, req.Email, hash)
	if errors.Is(err, ErrEmailTaken) {
		fail(c, http.StatusConflict, MsgEmailTaken)
		return
	}
	if err != nil {
		fail(c, http.StatusInternalServerError, "failed to create user")
		return
	}

	s.stats.record(func(st *Stats) { st.Registrations++ })
	s.issue(c, http.StatusOK, user)
}

func (s *Server) handleLogin(c *gin.Context) {
	var req api.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, MsgInvalidJSON)
		return
	}
	if req.Email == "" || req.Password == "" {
		fail(c, http.StatusBadRequest, "email and password required")
		return
	}

	acct, ok := s.users.byEmailAddr(req.Email)
	if !ok || !checkPassword(acct.passwordHash, req.Password) {
		s.stats.record(func(st *Stats) { st.FailedLogins++ })
		fail(c, http.StatusUnauthorized, MsgInvalidCredentials)
		return
	}

	s.stats.record(func(st *Stats) { st.Logins++ })
	s.issue(c, http.StatusOK, acct.user)
}

// issue signs a token for user and writes the auth response.
func (s *Server) issue(c *gin.Context, status int, user api.User) {
	token, err := s.tokens.Sign(string(user.ID))
	if err != nil {
		s.logger.Error("token_sign_failed", zap.Error(err))
		fail(c, http.StatusInternalServerError, "failed to sign token")
		return
	}
	s.logger.Info("token_issued", zap.String("user_id", string(user.ID)), logging.Token(token))
	c.JSON(status, api.AuthResponse{AccessToken: token, User: &user})
}

func (s *Server) handleMe(c *gin.Context) {
	user, ok := s.authenticate(c, true)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, api.MeResponse{User: user})
}

// authenticate resolves the bearer token to a user. With required false a
// missing header yields (nil, true). On failure the response is written.
func (s *Server) authenticate(c *gin.Context, required bool) (*api.User, bool) {
	token, err := bearerToken(c.GetHeader("Authorization"))
	switch {
	case errors.Is(err, ErrMissingHeader):
		if !required {
			return nil, true
		}
		failJWT(c, http.StatusUnauthorized, "Missing Authorization Header")
		return nil, false
	case err != nil:
		failJWT(c, http.StatusUnprocessableEntity, err.Error())
		return nil, false
	}

	id, err := s.tokens.Verify(token)
	if err != nil {
		failJWT(c, http.StatusUnauthorized, err.Error())
		return nil, false
	}
	user, found := s.users.get(id)
	if !found {
		failJWT(c, http.StatusUnauthorized, MsgUserNotFound)
		return nil, false
	}
	return &user, true
}

// ============================================================================
// CHAT
// ============================================================================

func (s *Server) handleChat(c *gin.Context) {
	user, ok := s.authenticate(c, false)
	if !ok {
		return
	}

	var req api.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, MsgInvalidJSON)
		return
	}
	question := strings.TrimSpace(req.Question)
	if question == "" {
		fail(c, http.StatusBadRequest, MsgQuestionRequired)
		return
	}

	key, limit, userType := s.quotaKey(c, user, req.SessionID)
	usage, allowed := s.quotas.take(key, limit)
	if !allowed {
		s.stats.record(func(st *Stats) { st.QuotaRejected++ })
		payload := api.ErrorPayload{Error: MsgUserLimit, UserType: userType, LimitReached: true}
		if userType == api.UserTypeAnonymous {
			payload.Error = MsgAnonymousLimit
		}
		s.logger.Info("chat_quota_exceeded", zap.String("user_type", userType), zap.Int("limit", limit))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, payload)
		return
	}

	name := ""
	if user != nil {
		name = user.Name
	}
	answer := s.answerer.Answer(question, name)
	s.stats.record(func(st *Stats) { st.Chats++ })
	c.JSON(http.StatusOK, api.ChatResponse{Answer: answer, Usage: &usage})
}

// quotaKey picks the quota bucket: the user id when logged in, otherwise
// the session id, falling back to the client address.
func (s *Server) quotaKey(c *gin.Context, user *api.User, sessionID string) (key string, limit int, userType string) {
	if user != nil {
		return "user:" + string(user.ID), s.cfg.UserDailyLimit, UserTypeRegistered
	}
	if sessionID = strings.TrimSpace(sessionID); sessionID != "" {
		return "session:" + sessionID, s.cfg.AnonymousDailyLimit, api.UserTypeAnonymous
	}
	return "ip:" + c.ClientIP(), s.cfg.AnonymousDailyLimit, api.UserTypeAnonymous
}

// ============================================================================
// HEALTH
// ============================================================================

type healthResponse struct {
	Status string `json:"status"`
	Users  int    `json:"users"`
	Stats  Stats  `json:"stats"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, healthResponse{
		Status: "ok",
		Users:  s.users.count(),
		Stats:  s.stats.snapshot(),
	})
}
