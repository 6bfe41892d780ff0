// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	testCases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"INFO":    zapcore.InfoLevel,
		"warning": zapcore.WarnLevel,
		" error ": zapcore.ErrorLevel,
		"":        zapcore.InfoLevel,
		"verbose": zapcore.InfoLevel,
	}
	for in, want := range testCases {
		assert.Equal(t, want, ParseLevel(in), "ParseLevel(%q)", in)
	}
}

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "zenitalk.log")

	logger, err := New("debug", path)
	require.NoError(t, err)
	logger.Debug("chat_send", zap.String("session_id", "user_1_abc"))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"chat_send"`)
	assert.Contains(t, string(data), `"session_id":"user_1_abc"`)
}

func TestNew_RespectsLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zenitalk.log")

	logger, err := New("warn", path)
	require.NoError(t, err)
	logger.Info("hidden")
	logger.Warn("shown")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "shown")
}

func TestFingerprint(t *testing.T) {
	token := "eyJhbGciOiJIUzI1NiJ9.payload.sig"

	fp := Fingerprint(token)
	assert.Len(t, fp, 12)
	assert.Equal(t, fp, Fingerprint(token), "deterministic")
	assert.NotEqual(t, fp, Fingerprint(token+"x"))
	assert.NotContains(t, token, fp)
	assert.Empty(t, Fingerprint(""))

	field := Token(token)
	assert.Equal(t, "token_fp", field.Key)
	assert.Equal(t, fp, field.String)
}
