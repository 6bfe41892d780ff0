// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// status.go - The "status" command.
//
// Shows where zenitalk sends questions, where it keeps state and who is
// logged in, without touching the network.

package cli

import (
	"fmt"

	"github.com/zenitalk/zenitalk-tui/internal/config"
)

// StatusData is the JSON payload of "status --json".
type StatusData struct {
	Backend StatusBackendInfo `json:"backend"`
	Storage StatusStorageInfo `json:"storage"`
	Session StatusSessionInfo `json:"session"`
	Chat    StatusChatInfo    `json:"chat"`
}

// StatusBackendInfo describes the API endpoint.
type StatusBackendInfo struct {
	BaseURL            string `json:"base_url"`
	RequestTimeoutSecs int    `json:"request_timeout_secs"`
	AuthTimeoutSecs    int    `json:"auth_timeout_secs"`
}

// StatusStorageInfo describes persisted state.
type StatusStorageInfo struct {
	Backend    string `json:"backend"`
	Path       string `json:"path,omitempty"`
	ConfigFile string `json:"config_file,omitempty"`
	LogFile    string `json:"log_file,omitempty"`
}

// StatusSessionInfo summarizes the stored identity. The token itself is
// never included.
type StatusSessionInfo struct {
	Authenticated bool   `json:"authenticated"`
	DisplayName   string `json:"display_name,omitempty"`
	Email         string `json:"email,omitempty"`
	TokenFP       string `json:"token_fingerprint,omitempty"`
	SessionID     string `json:"session_id"`
}

// StatusChatInfo describes chat settings.
type StatusChatInfo struct {
	RequireLogin       bool `json:"require_login"`
	RotationIntervalMs int  `json:"rotation_interval_ms"`
	Markdown           bool `json:"markdown"`
}

func collectStatus(rt *Runtime, args Args) StatusData {
	cfg := rt.Config
	st := rt.Store.GetStatus()

	data := StatusData{
		Backend: StatusBackendInfo{
			BaseURL:            rt.Client.BaseURL(),
			RequestTimeoutSecs: cfg.API.RequestTimeoutSecs,
			AuthTimeoutSecs:    cfg.API.AuthTimeoutSecs,
		},
		Storage: StatusStorageInfo{Backend: cfg.Storage.Backend},
		Session: StatusSessionInfo{
			Authenticated: st.Authenticated,
			DisplayName:   st.DisplayName,
			Email:         st.Email,
			TokenFP:       st.TokenFP,
			SessionID:     rt.Chat.SessionID(),
		},
		Chat: StatusChatInfo{
			RequireLogin:       cfg.Chat.RequireLogin,
			RotationIntervalMs: cfg.Chat.RotationIntervalMs,
			Markdown:           cfg.UI.Markdown,
		},
	}
	if cfg.Storage.Backend != "memory" {
		data.Storage.Path, _ = cfg.StoragePath()
	}
	data.Storage.LogFile, _ = cfg.LogPath()
	data.Storage.ConfigFile = activeConfigFile(args)
	return data
}

// HandleStatus handles the "status" command.
func HandleStatus(rt *Runtime, io *IO, args Args) error {
	data := collectStatus(rt, args)
	if args.JSON {
		return NewJSONResponse("status", data).Print(io.Out)
	}

	fmt.Fprintln(io.Out, TitleStyle.Render("zenitalk status"))
	fmt.Fprintln(io.Out, RenderSeparator(40))

	fmt.Fprintln(io.Out, SectionStyle.Render("Backend"))
	fmt.Fprintln(io.Out, RenderLabel("URL")+data.Backend.BaseURL)
	fmt.Fprintln(io.Out, RenderLabel("Chat timeout")+secs(data.Backend.RequestTimeoutSecs))
	fmt.Fprintln(io.Out, RenderLabel("Auth timeout")+secs(data.Backend.AuthTimeoutSecs))

	fmt.Fprintln(io.Out, SectionStyle.Render("Session"))
	if data.Session.Authenticated {
		name := data.Session.DisplayName
		if name == "" {
			name = "(profile not loaded)"
		}
		fmt.Fprintln(io.Out, RenderLabel("Logged in")+RenderStatus("yes")+" "+name)
		fmt.Fprintln(io.Out, RenderLabel("Token")+data.Session.TokenFP)
	} else {
		fmt.Fprintln(io.Out, RenderLabel("Logged in")+RenderStatus("no")+" guest")
	}
	fmt.Fprintln(io.Out, RenderLabel("Session ID")+data.Session.SessionID)

	fmt.Fprintln(io.Out, SectionStyle.Render("Storage"))
	fmt.Fprintln(io.Out, RenderLabel("Backend")+data.Storage.Backend)
	if data.Storage.Path != "" {
		fmt.Fprintln(io.Out, RenderLabel("State")+data.Storage.Path)
	}
	fmt.Fprintln(io.Out, RenderLabel("Log")+data.Storage.LogFile)
	cfgFile := data.Storage.ConfigFile
	if cfgFile == "" {
		cfgFile = "(defaults)"
	}
	fmt.Fprintln(io.Out, RenderLabel("Config")+cfgFile)
	return nil
}

func secs(n int) string {
	if n <= 0 {
		return "none"
	}
	return fmt.Sprintf("%ds", n)
}

// activeConfigFile returns the config file in effect, or "" for defaults.
func activeConfigFile(args Args) string {
	if args.ConfigPath != "" {
		return args.ConfigPath
	}
	for _, fn := range []func() (string, error){config.ConfigPathTOML, config.ConfigPathJSON} {
		if path, err := fn(); err == nil && fileExists(path) {
			return path
		}
	}
	return ""
}
