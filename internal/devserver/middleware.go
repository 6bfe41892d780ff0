// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package devserver

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/zenitalk/zenitalk-tui/internal/api"
)

const requestIDKey = "request_id"

// ============================================================================
// Request ID
// ============================================================================

// requestID echoes the client's X-Request-ID or assigns a new one.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(api.RequestIDHeader)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(api.RequestIDHeader, id)
		c.Next()
	}
}

// ============================================================================
// Recovery
// ============================================================================

// recovery turns a handler panic into a 500 and logs the stack.
func recovery(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("panic_recovered",
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path),
					zap.Any("error", err),
					zap.ByteString("stack", debug.Stack()))
				fail(c, http.StatusInternalServerError, "internal server error")
			}
		}()
		c.Next()
	}
}

// ============================================================================
// Security Headers
// ============================================================================

func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Cache-Control", "no-store")
		c.Next()
	}
}

// ============================================================================
// Request Logging
// ============================================================================

// requestLogger writes one line per request. Authorization is never logged.
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.String("client_ip", c.ClientIP()))
	}
}

// ============================================================================
// Rate Limiting
// ============================================================================

// rateLimit answers 429 without quota details when the bucket is empty.
func rateLimit(limiter *rate.Limiter, stats *statsBook) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow() {
			stats.record(func(s *Stats) { s.Throttled++ })
			fail(c, http.StatusTooManyRequests, "too many requests, slow down")
			return
		}
		c.Next()
	}
}

// ============================================================================
// Responses
// ============================================================================

// fail writes {"error": msg} and aborts the chain.
func fail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, api.ErrorPayload{Error: msg})
}

// failJWT writes the {"msg": ...} shape token middleware uses on the backend.
func failJWT(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, api.ErrorPayload{Msg: msg})
}
