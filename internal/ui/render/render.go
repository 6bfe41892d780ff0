// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package render turns bot answers into terminal text.
//
// Answers are markdown. When rendering is enabled they go through glamour
// at the requested wrap width; otherwise, or when glamour fails, the text is
// returned trimmed and unchanged so nothing is ever lost.
package render

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

// DefaultWordWrap is used when no width is known.
const DefaultWordWrap = 80

// Renderer renders markdown with one glamour renderer per wrap width.
type Renderer struct {
	enabled bool
	style   string

	mu        sync.Mutex
	renderers map[int]*glamour.TermRenderer
}

// New creates a renderer. style is "auto", "dark" or "light".
func New(enabled bool, style string) *Renderer {
	return &Renderer{
		enabled:   enabled,
		style:     style,
		renderers: make(map[int]*glamour.TermRenderer),
	}
}

// Plain returns a renderer that never styles.
func Plain() *Renderer { return New(false, "") }

// Enabled reports whether markdown styling is on.
func (r *Renderer) Enabled() bool { return r != nil && r.enabled }

// Markdown renders text wrapped to width. width <= 0 uses DefaultWordWrap.
func (r *Renderer) Markdown(text string, width int) string {
	if !r.Enabled() || strings.TrimSpace(text) == "" {
		return strings.TrimSpace(text)
	}
	if width <= 0 {
		width = DefaultWordWrap
	}

	tr := r.renderer(width)
	if tr == nil {
		return strings.TrimSpace(text)
	}
	out, err := tr.Render(text)
	if err != nil {
		return strings.TrimSpace(text)
	}
	return strings.Trim(out, "\n")
}

// renderer returns the cached glamour renderer for width, or nil.
// PERFORMANCE: glamour renderers are expensive to build; resizes reuse them.
func (r *Renderer) renderer(width int) *glamour.TermRenderer {
	r.mu.Lock()
	defer r.mu.Unlock()

	if tr, ok := r.renderers[width]; ok {
		return tr
	}

	styleOpt := glamour.WithAutoStyle()
	switch r.style {
	case "dark", "light":
		styleOpt = glamour.WithStandardStyle(r.style)
	}

	tr, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(width))
	if err != nil {
		tr = nil
	}
	r.renderers[width] = tr
	return tr
}
