// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package logging

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/zenitalk/zenitalk-tui/internal/config"
)

// Stderr selects stderr as the log sink instead of a file.
const Stderr = "stderr"

// ParseLevel maps a config level string to a zap level. Unknown values are info.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// New creates a JSON zap logger writing to path at the given level.
// path may be Stderr.
func New(level, path string) (*zap.Logger, error) {
	if path != Stderr {
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(ParseLevel(level))
	zcfg.OutputPaths = []string{path}
	zcfg.ErrorOutputPaths = []string{Stderr}
	zcfg.EncoderConfig.TimeKey = "ts"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zcfg.Sampling = nil

	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

// FromConfig creates the client logger from the [log] section.
func FromConfig(cfg *config.Config) (*zap.Logger, error) {
	path, err := cfg.LogPath()
	if err != nil {
		return nil, err
	}
	return New(cfg.Log.Level, path)
}

// Fingerprint returns a short SHA-256 fingerprint of a secret so it can be
// correlated in logs without being disclosed.
// SECURITY: Never log the raw token.
func Fingerprint(secret string) string {
	if secret == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])[:12]
}

// Token is a zap field carrying a token fingerprint.
func Token(token string) zap.Field {
	return zap.String("token_fp", Fingerprint(token))
}
