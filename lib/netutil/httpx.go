// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package netutil bounds HTTP response handling.
//
// The results service only ever answers with short status documents, so
// every body read here is capped: a misbehaving server or proxy cannot
// make the action buffer an unbounded response.
package netutil

import (
	"encoding/json"
	"io"
	"strings"
)

// MaxResponseSize caps response body reads at 1 MiB.
const MaxResponseSize int64 = 1 << 20

// maxErrorMessage caps the server text carried into an error message.
const maxErrorMessage = 512

// ErrorBody extracts a human-readable message from an error response.
// A JSON object's "message" or "error" field is preferred; otherwise the
// trimmed text is used, shortened to a few hundred bytes. Read errors
// are ignored: a partial or empty message is still useful.
func ErrorBody(body io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(body, MaxResponseSize))

	var document struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(data, &document) == nil {
		if document.Message != "" {
			return truncate(document.Message)
		}
		if document.Error != "" {
			return truncate(document.Error)
		}
	}
	return truncate(strings.TrimSpace(string(data)))
}

// DrainAndClose discards what remains of a body, up to MaxResponseSize,
// and closes it so the connection can be reused.
func DrainAndClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, MaxResponseSize))
	body.Close()
}

func truncate(message string) string {
	if len(message) <= maxErrorMessage {
		return message
	}
	return message[:maxErrorMessage] + "..."
}
