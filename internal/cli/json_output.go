// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// json_output.go - JSON output for scripts.
//
// Every command that supports --json wraps its payload in JSONResponse so
// callers can check one envelope.

package cli

import (
	"encoding/json"
	"io"
	"time"
)

// JSONResponse is the response envelope for --json output.
type JSONResponse struct {
	// Success indicates whether the command completed successfully
	Success bool `json:"success"`

	// Data contains the command-specific response data
	Data interface{} `json:"data"`

	// Error contains the error message if Success is false, null otherwise
	Error *string `json:"error"`

	// Timestamp is the RFC3339 time the response was generated
	Timestamp string `json:"timestamp"`

	// Command is the command that was executed
	Command string `json:"command,omitempty"`
}

// NewJSONResponse creates a new successful JSON response.
func NewJSONResponse(command string, data interface{}) *JSONResponse {
	return &JSONResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// NewJSONErrorResponse creates a failed JSON response that still carries
// data, e.g. the text shown for a refused question.
func NewJSONErrorResponse(command string, data interface{}, err error) *JSONResponse {
	errStr := err.Error()
	return &JSONResponse{
		Success:   false,
		Data:      data,
		Error:     &errStr,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// Print writes the response as indented JSON.
func (r *JSONResponse) Print(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(r)
}
