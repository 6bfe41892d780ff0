// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
)

// =============================================================================
// SPINNER ANIMATIONS
// =============================================================================

// LineSpinner - Simple line rotation
var LineSpinner = SpinnerConfig{
	Frames: []string{"|", "/", "-", "\\"},
	FPS:    10,
}

// DotsSpinner - Classic three-dot animation
var DotsSpinner = SpinnerConfig{
	Frames: []string{".  ", ".. ", "...", " ..", "  .", "   "},
	FPS:    6,
}

// SpinnerConfig holds the configuration for a spinner animation.
type SpinnerConfig struct {
	Frames []string
	FPS    int
}

// Duration returns the duration for each frame.
func (s SpinnerConfig) Duration() time.Duration {
	if s.FPS <= 0 {
		return time.Second
	}
	return time.Second / time.Duration(s.FPS)
}

// Bubbles converts the config to a bubbles spinner definition.
func (s SpinnerConfig) Bubbles() spinner.Spinner {
	return spinner.Spinner{Frames: s.Frames, FPS: s.Duration()}
}

// =============================================================================
// PROGRESS INDICATORS
// =============================================================================

var (
	ProgressFull    = "#"
	ProgressEmpty   = "-"
	ProgressPartial = []string{".", ":", "+"}
)

// RenderProgressBar creates a progress bar string.
// width: total width of the bar in characters
// percent: 0-100 percentage complete
func RenderProgressBar(width int, percent float64) string {
	if width <= 0 {
		return ""
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	filled := float64(width) * percent / 100
	full := int(filled)
	partial := int((filled - float64(full)) * float64(len(ProgressPartial)+1))

	var sb strings.Builder
	sb.Grow(width)
	for i := 0; i < full && i < width; i++ {
		sb.WriteString(ProgressFull)
	}
	if full < width && partial > 0 {
		sb.WriteString(ProgressPartial[partial-1])
		full++
	}
	for i := full; i < width; i++ {
		sb.WriteString(ProgressEmpty)
	}
	return sb.String()
}

// RenderUsage renders "[###---] 3/5 today" for a daily quota.
func RenderUsage(width, count, limit int) string {
	if limit <= 0 {
		return fmt.Sprintf("%d today", count)
	}
	percent := float64(count) / float64(limit) * 100
	return fmt.Sprintf("[%s] %d/%d today", RenderProgressBar(width, percent), count, limit)
}
