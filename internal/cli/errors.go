// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// errors.go - Error types and display for zenitalk commands.
//
// Handlers always return errors; Run decides how to display them.

package cli

import (
	"encoding/json"
	"errors"
	"fmt"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0
	// ExitGeneralError indicates any failure other than bad usage
	ExitGeneralError = 1
	// ExitUsageError indicates invalid command usage or arguments
	ExitUsageError = 2
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// CommandError represents a CLI command error with context.
type CommandError struct {
	Command string // Command that failed (e.g., "ask", "login")
	Reason  string // Human-readable reason
	Err     error  // Underlying error (if any)
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Command, e.Reason)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// UsageError reports a malformed command line.
type UsageError struct {
	Reason string
}

func (e *UsageError) Error() string {
	return e.Reason
}

// IsUsageError reports whether err is a UsageError.
func IsUsageError(err error) bool {
	var ue *UsageError
	return errors.As(err, &ue)
}

// =============================================================================
// DISPLAY
// =============================================================================

// DisplayError prints err. In JSON mode a failed JSONResponse goes to
// stdout; otherwise "Error: ..." goes to stderr.
func DisplayError(io *IO, err error, jsonMode bool) {
	if err == nil {
		return
	}
	if jsonMode {
		DisplayErrorJSON(io, err)
		return
	}
	fmt.Fprintf(io.Err, "Error: %v\n", err)
}

// DisplayErrorJSON outputs an error as JSON.
func DisplayErrorJSON(io *IO, err error) {
	output := map[string]interface{}{
		"success": false,
		"error":   err.Error(),
	}

	var cmdErr *CommandError
	var usageErr *UsageError
	switch {
	case errors.As(err, &cmdErr):
		output["error_type"] = "command_error"
		output["command"] = cmdErr.Command
		output["reason"] = cmdErr.Reason
	case errors.As(err, &usageErr):
		output["error_type"] = "usage_error"
	default:
		output["error_type"] = "generic_error"
	}

	encoder := json.NewEncoder(io.Out)
	encoder.SetIndent("", "  ")
	_ = encoder.Encode(output)
}

// GetExitCode determines the exit code for an error.
func GetExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case IsUsageError(err):
		return ExitUsageError
	default:
		return ExitGeneralError
	}
}
