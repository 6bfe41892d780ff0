// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/zenitalk/zenitalk-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete zenitalk configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	API       APIConfig       `toml:"api" json:"api"`
	Session   SessionConfig   `toml:"session" json:"session"`
	Storage   StorageConfig   `toml:"storage" json:"storage"`
	Chat      ChatConfig      `toml:"chat" json:"chat"`
	UI        UIConfig        `toml:"ui" json:"ui"`
	Log       LogConfig       `toml:"log" json:"log"`
	DevServer DevServerConfig `toml:"devserver" json:"devserver"`
}

// APIConfig describes the inference backend.
type APIConfig struct {
	// BaseURL is the backend root, e.g. http://localhost:5001
	BaseURL string `toml:"base_url" json:"base_url"`
	// RequestTimeoutSecs bounds a single /chat call. 0 disables the timeout.
	RequestTimeoutSecs int `toml:"request_timeout_secs" json:"request_timeout_secs"`
	// AuthTimeoutSecs bounds /auth/* calls.
	AuthTimeoutSecs int `toml:"auth_timeout_secs" json:"auth_timeout_secs"`
}

// SessionConfig controls how persisted credentials are reconciled.
type SessionConfig struct {
	// InvalidatingStatuses are the /auth/me status codes that destroy the
	// session. Any other failure keeps the stored token.
	InvalidatingStatuses []int `toml:"invalidating_statuses" json:"invalidating_statuses"`
}

// StorageConfig selects the persistent key-value backend.
type StorageConfig struct {
	// Backend is one of "file", "sqlite", "memory"
	Backend string `toml:"backend" json:"backend"`
	// Path is the file or database location (empty = default under ~/.zenitalk)
	Path string `toml:"path" json:"path"`
}

// ChatConfig controls the chat session controller.
type ChatConfig struct {
	// RotationIntervalMs is the placeholder text cadence while waiting.
	RotationIntervalMs int `toml:"rotation_interval_ms" json:"rotation_interval_ms"`
	// PlaceholderPhrases are cycled in order while a request is in flight.
	PlaceholderPhrases []string `toml:"placeholder_phrases" json:"placeholder_phrases"`
	// RequireLogin puts the chat page behind the route guard.
	RequireLogin bool `toml:"require_login" json:"require_login"`
}

// UIConfig contains terminal presentation settings.
type UIConfig struct {
	// Theme is "dark", "light" or "auto"
	Theme string `toml:"theme" json:"theme"`
	// Markdown renders bot answers with glamour.
	Markdown bool `toml:"markdown" json:"markdown"`
	// WordWrap is the markdown wrap width.
	WordWrap int `toml:"word_wrap" json:"word_wrap"`
}

// LogConfig configures the zap file logger.
type LogConfig struct {
	// Level is one of debug, info, warn, error
	Level string `toml:"level" json:"level"`
	// Path is the log file (empty = ~/.zenitalk/zenitalk.log)
	Path string `toml:"path" json:"path"`
}

// DevServerConfig configures the local development backend.
type DevServerConfig struct {
	Addr                string  `toml:"addr" json:"addr"`
	JWTSecret           string  `toml:"jwt_secret" json:"jwt_secret"`
	TokenTTLHours       int     `toml:"token_ttl_hours" json:"token_ttl_hours"`
	AnonymousDailyLimit int     `toml:"anonymous_daily_limit" json:"anonymous_daily_limit"`
	UserDailyLimit      int     `toml:"user_daily_limit" json:"user_daily_limit"`
	RequestsPerSecond   float64 `toml:"requests_per_second" json:"requests_per_second"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// DefaultPlaceholderPhrases are shown while the bot is "thinking".
var DefaultPlaceholderPhrases = []string{
	"Thinking...",
	"Gathering my thoughts...",
	"Almost there...",
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1.0.0",

		API: APIConfig{
			BaseURL:            "http://localhost:5001",
			RequestTimeoutSecs: 60,
			AuthTimeoutSecs:    15,
		},

		Session: SessionConfig{
			InvalidatingStatuses: []int{401},
		},

		Storage: StorageConfig{
			Backend: "file",
		},

		Chat: ChatConfig{
			RotationIntervalMs: 1500,
			PlaceholderPhrases: append([]string(nil), DefaultPlaceholderPhrases...),
			RequireLogin:       false,
		},

		UI: UIConfig{
			Theme:    "auto",
			Markdown: true,
			WordWrap: 80,
		},

		Log: LogConfig{
			Level: "info",
		},

		DevServer: DevServerConfig{
			Addr:                "127.0.0.1:5001",
			JWTSecret:           "zenitalk-dev-secret",
			TokenTTLHours:       24,
			AnonymousDailyLimit: 5,
			UserDailyLimit:      50,
			RequestsPerSecond:   20,
		},
	}
}

// RequestTimeout returns the chat timeout (0 = none).
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.API.RequestTimeoutSecs) * time.Second
}

// AuthTimeout returns the timeout for /auth/* calls.
func (c *Config) AuthTimeout() time.Duration {
	return time.Duration(c.API.AuthTimeoutSecs) * time.Second
}

// RotationInterval returns the placeholder rotation cadence.
func (c *Config) RotationInterval() time.Duration {
	return time.Duration(c.Chat.RotationIntervalMs) * time.Millisecond
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the zenitalk configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".zenitalk"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// StoragePath resolves the storage location for the configured backend.
func (c *Config) StoragePath() (string, error) {
	if c.Storage.Path != "" {
		return c.Storage.Path, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	if c.Storage.Backend == "sqlite" {
		return filepath.Join(dir, "state.db"), nil
	}
	return filepath.Join(dir, "state.json"), nil
}

// LogPath resolves the log file location.
func (c *Config) LogPath() (string, error) {
	if c.Log.Path != "" {
		return c.Log.Path, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "zenitalk.log"), nil
}

// ensureSecurePermissions checks and fixes permissions on config files.
// SECURITY: Config files should be 0600 (owner read/write only).
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if mode := info.Mode().Perm(); mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}
	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// LoadDotEnv loads a .env file from the working directory if one exists.
// Variables already present in the environment win.
func LoadDotEnv() error {
	if _, err := os.Stat(".env"); err != nil {
		return nil
	}
	return godotenv.Load(".env")
}

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults.
// Environment overrides are applied last.
func Load() (*Config, error) {
	if tomlPath, err := ConfigPathTOML(); err == nil {
		if _, statErr := os.Stat(tomlPath); statErr == nil {
			return LoadFromPath(tomlPath)
		}
	}

	if jsonPath, err := ConfigPathJSON(); err == nil {
		if _, statErr := os.Stat(jsonPath); statErr == nil {
			return LoadFromPath(jsonPath)
		}
	}

	cfg := Default()
	return finish(cfg)
}

// LoadFromPath loads configuration from a specific file path with full validation.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if strings.HasSuffix(path, ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}

	return finish(cfg)
}

func finish(cfg *Config) (*Config, error) {
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes a TOML file over cfg.
func LoadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadJSON decodes a JSON file over cfg.
func LoadJSON(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// SetDefaults fills zero values left by a partial config file.
func (c *Config) SetDefaults() {
	d := Default()

	if c.Version == "" {
		c.Version = d.Version
	}
	if c.API.BaseURL == "" {
		c.API.BaseURL = d.API.BaseURL
	}
	c.API.BaseURL = strings.TrimSuffix(c.API.BaseURL, "/")
	if c.API.AuthTimeoutSecs <= 0 {
		c.API.AuthTimeoutSecs = d.API.AuthTimeoutSecs
	}
	if len(c.Session.InvalidatingStatuses) == 0 {
		c.Session.InvalidatingStatuses = d.Session.InvalidatingStatuses
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = d.Storage.Backend
	}
	if c.Chat.RotationIntervalMs <= 0 {
		c.Chat.RotationIntervalMs = d.Chat.RotationIntervalMs
	}
	if len(c.Chat.PlaceholderPhrases) == 0 {
		c.Chat.PlaceholderPhrases = d.Chat.PlaceholderPhrases
	}
	if c.UI.Theme == "" {
		c.UI.Theme = d.UI.Theme
	}
	if c.UI.WordWrap <= 0 {
		c.UI.WordWrap = d.UI.WordWrap
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.DevServer.Addr == "" {
		c.DevServer.Addr = d.DevServer.Addr
	}
	if c.DevServer.JWTSecret == "" {
		c.DevServer.JWTSecret = d.DevServer.JWTSecret
	}
	if c.DevServer.TokenTTLHours <= 0 {
		c.DevServer.TokenTTLHours = d.DevServer.TokenTTLHours
	}
	if c.DevServer.AnonymousDailyLimit <= 0 {
		c.DevServer.AnonymousDailyLimit = d.DevServer.AnonymousDailyLimit
	}
	if c.DevServer.UserDailyLimit <= 0 {
		c.DevServer.UserDailyLimit = d.DevServer.UserDailyLimit
	}
	if c.DevServer.RequestsPerSecond <= 0 {
		c.DevServer.RequestsPerSecond = d.DevServer.RequestsPerSecond
	}
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file with 0600 permissions.
func SaveTOML(cfg *Config, path string) error {
	var sb strings.Builder
	sb.WriteString("# zenitalk configuration file\n")
	sb.WriteString("# Generated by zenitalk - edit with care\n\n")

	if err := toml.NewEncoder(&sb).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	// RELIABILITY: Atomic write with fsync prevents data loss on crash
	if err := util.AtomicWriteFile(path, []byte(sb.String()), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, ValidationError{
			Field:   "api.base_url",
			Message: fmt.Sprintf("invalid URL '%s', must be http(s)://host[:port]", c.API.BaseURL),
		})
	}

	if c.API.RequestTimeoutSecs < 0 {
		errs = append(errs, ValidationError{
			Field:   "api.request_timeout_secs",
			Message: "must be >= 0 (0 disables the timeout)",
		})
	}

	for _, status := range c.Session.InvalidatingStatuses {
		if status < 400 || status > 599 {
			errs = append(errs, ValidationError{
				Field:   "session.invalidating_statuses",
				Message: fmt.Sprintf("%d is not an HTTP error status", status),
			})
		}
	}

	validBackends := map[string]bool{"file": true, "sqlite": true, "memory": true}
	if !validBackends[strings.ToLower(c.Storage.Backend)] {
		errs = append(errs, ValidationError{
			Field:   "storage.backend",
			Message: fmt.Sprintf("invalid backend '%s', must be one of: file, sqlite, memory", c.Storage.Backend),
		})
	}

	validThemes := map[string]bool{"dark": true, "light": true, "auto": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: dark, light, auto", c.UI.Theme),
		})
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("invalid level '%s', must be one of: debug, info, warn, error", c.Log.Level),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - ZENITALK_API_URL: overrides api.base_url
//   - ZENITALK_REQUEST_TIMEOUT: overrides api.request_timeout_secs
//   - ZENITALK_STORAGE: overrides storage.backend
//   - ZENITALK_STORAGE_PATH: overrides storage.path
//   - ZENITALK_LOG_LEVEL: overrides log.level
//   - ZENITALK_LOG_PATH: overrides log.path
//   - ZENITALK_JWT_SECRET: overrides devserver.jwt_secret
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("ZENITALK_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("ZENITALK_REQUEST_TIMEOUT"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			c.API.RequestTimeoutSecs = secs
		}
	}
	if v := os.Getenv("ZENITALK_STORAGE"); v != "" {
		c.Storage.Backend = v
	}
	if v := os.Getenv("ZENITALK_STORAGE_PATH"); v != "" {
		c.Storage.Path = v
	}
	if v := os.Getenv("ZENITALK_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("ZENITALK_LOG_PATH"); v != "" {
		c.Log.Path = v
	}
	if v := os.Getenv("ZENITALK_JWT_SECRET"); v != "" {
		c.DevServer.JWTSecret = v
	}
}

// =============================================================================
// DISPLAY
// =============================================================================

// Clone creates a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Session.InvalidatingStatuses = append([]int(nil), c.Session.InvalidatingStatuses...)
	clone.Chat.PlaceholderPhrases = append([]string(nil), c.Chat.PlaceholderPhrases...)
	return &clone
}

// String returns a JSON representation for debugging.
// SECURITY: The dev JWT secret is redacted.
func (c *Config) String() string {
	safe := c.Clone()
	if safe.DevServer.JWTSecret != "" {
		safe.DevServer.JWTSecret = "[REDACTED]"
	}
	data, _ := json.MarshalIndent(safe, "", "  ")
	return string(data)
}
