// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "http://localhost:5001", cfg.API.BaseURL)
	assert.Equal(t, 60*time.Second, cfg.RequestTimeout())
	assert.Equal(t, 15*time.Second, cfg.AuthTimeout())
	assert.Equal(t, []int{401}, cfg.Session.InvalidatingStatuses)
	assert.Equal(t, 1500*time.Millisecond, cfg.RotationInterval())
	assert.Len(t, cfg.Chat.PlaceholderPhrases, 3)
	assert.False(t, cfg.Chat.RequireLogin)
	assert.Equal(t, "file", cfg.Storage.Backend)
	assert.NoError(t, cfg.Validate())
}

func TestDefault_PhrasesNotShared(t *testing.T) {
	cfg := Default()
	cfg.Chat.PlaceholderPhrases[0] = "changed"
	assert.Equal(t, "Thinking...", DefaultPlaceholderPhrases[0])
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"bad url", func(c *Config) { c.API.BaseURL = "localhost:5001" }, "api.base_url"},
		{"ftp url", func(c *Config) { c.API.BaseURL = "ftp://host" }, "api.base_url"},
		{"negative timeout", func(c *Config) { c.API.RequestTimeoutSecs = -1 }, "api.request_timeout_secs"},
		{"success status", func(c *Config) { c.Session.InvalidatingStatuses = []int{200} }, "session.invalidating_statuses"},
		{"bad backend", func(c *Config) { c.Storage.Backend = "redis" }, "storage.backend"},
		{"bad theme", func(c *Config) { c.UI.Theme = "neon" }, "ui.theme"},
		{"bad level", func(c *Config) { c.Log.Level = "trace" }, "log.level"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)

			var verrs ValidateErrors
			require.True(t, errors.As(err, &verrs))
			require.Len(t, verrs, 1)
			assert.Equal(t, tc.field, verrs[0].Field)
		})
	}
}

func TestValidate_ZeroTimeoutAllowed(t *testing.T) {
	cfg := Default()
	cfg.API.RequestTimeoutSecs = 0
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, time.Duration(0), cfg.RequestTimeout())
}

func TestLoadFromPath_TOMLPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[api]
base_url = "https://chat.example.com/"

[session]
invalidating_statuses = [401, 403]

[chat]
require_login = true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, "https://chat.example.com", cfg.API.BaseURL, "trailing slash trimmed")
	assert.Equal(t, []int{401, 403}, cfg.Session.InvalidatingStatuses)
	assert.True(t, cfg.Chat.RequireLogin)
	// untouched sections keep defaults
	assert.Equal(t, 1500, cfg.Chat.RotationIntervalMs)
	assert.Equal(t, "file", cfg.Storage.Backend)
}

func TestLoadFromPath_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"storage": {"backend": "sqlite", "path": "/tmp/z.db"}, "log": {"level": "debug"}}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, "/tmp/z.db", cfg.Storage.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadFromPath_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[storage]\nbackend = \"tape\"\n"), 0600))

	_, err := LoadFromPath(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage.backend")
}

func TestLoadFromPath_FixesPermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("version = \"1.0.0\"\n"), 0644))

	_, err := LoadFromPath(path)
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	if info.Mode().Perm() != 0600 && os.PathSeparator == '/' {
		t.Errorf("Mode = %o, want 0600", info.Mode().Perm())
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("ZENITALK_API_URL", "http://10.0.0.2:9000")
	t.Setenv("ZENITALK_REQUEST_TIMEOUT", "5")
	t.Setenv("ZENITALK_STORAGE", "memory")
	t.Setenv("ZENITALK_LOG_LEVEL", "warn")
	t.Setenv("ZENITALK_JWT_SECRET", "s3cret")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	assert.Equal(t, "http://10.0.0.2:9000", cfg.API.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout())
	assert.Equal(t, "memory", cfg.Storage.Backend)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "s3cret", cfg.DevServer.JWTSecret)
}

func TestApplyEnvOverrides_IgnoresBadTimeout(t *testing.T) {
	t.Setenv("ZENITALK_REQUEST_TIMEOUT", "soon")
	cfg := Default()
	cfg.ApplyEnvOverrides()
	assert.Equal(t, 60, cfg.API.RequestTimeoutSecs)
}

func TestSaveTOML_RoundTripsSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := Default()
	cfg.API.BaseURL = "https://api.zenitalk.test"
	cfg.Session.InvalidatingStatuses = []int{401, 403}
	require.NoError(t, SaveTOML(cfg, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# zenitalk configuration file"))

	loaded, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.API.BaseURL, loaded.API.BaseURL)
	assert.Equal(t, cfg.Session.InvalidatingStatuses, loaded.Session.InvalidatingStatuses)
}

func TestStoragePath(t *testing.T) {
	cfg := Default()
	cfg.Storage.Path = "/var/lib/zenitalk/state.db"
	p, err := cfg.StoragePath()
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/zenitalk/state.db", p)

	cfg.Storage.Path = ""
	cfg.Storage.Backend = "sqlite"
	p, err = cfg.StoragePath()
	require.NoError(t, err)
	assert.Equal(t, "state.db", filepath.Base(p))
}

func TestString_RedactsSecret(t *testing.T) {
	cfg := Default()
	cfg.DevServer.JWTSecret = "very-secret"
	out := cfg.String()
	assert.NotContains(t, out, "very-secret")
	assert.Contains(t, out, "[REDACTED]")
	assert.Equal(t, "very-secret", cfg.DevServer.JWTSecret, "original untouched")
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	require.NoError(t, LoadDotEnv(), "missing .env is not an error")

	require.NoError(t, os.WriteFile(".env", []byte("ZENITALK_LOG_LEVEL=error\n"), 0600))
	os.Unsetenv("ZENITALK_LOG_LEVEL")
	t.Cleanup(func() { os.Unsetenv("ZENITALK_LOG_LEVEL") })

	require.NoError(t, LoadDotEnv())
	assert.Equal(t, "error", os.Getenv("ZENITALK_LOG_LEVEL"))
}
