// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package zeklin

import (
	"errors"
	"fmt"
)

// APIError is a non-2xx response from the results service.
type APIError struct {
	// StatusCode is the HTTP response status code.
	StatusCode int

	// Status is the status line text, e.g. "503 Service Unavailable".
	Status string

	// Message is the server's explanation, taken from the response
	// body. May be empty.
	Message string
}

func (err *APIError) Error() string {
	if err.Message == "" {
		return fmt.Sprintf("zeklin: HTTP %s", err.Status)
	}
	return fmt.Sprintf("zeklin: HTTP %s: %s", err.Status, err.Message)
}

// ServerUnreachableError is returned by Ping when no attempt got a 2xx
// response.
type ServerUnreachableError struct {
	URL      string
	Attempts int
	Err      error
}

func (err *ServerUnreachableError) Error() string {
	return fmt.Sprintf("zeklin server %s unreachable after %d attempts: %v", err.URL, err.Attempts, err.Err)
}

func (err *ServerUnreachableError) Unwrap() error { return err.Err }

// UploadFailedError is returned by UploadJMHRun when no attempt got a
// 2xx response.
type UploadFailedError struct {
	RequestID string
	Attempts  int
	Err       error
}

func (err *UploadFailedError) Error() string {
	return fmt.Sprintf("uploading results failed after %d attempts (request %s): %v", err.Attempts, err.RequestID, err.Err)
}

func (err *UploadFailedError) Unwrap() error { return err.Err }

// IsUnauthorized reports whether err carries a 401 or 403 response,
// meaning the API key or key ID was rejected.
func IsUnauthorized(err error) bool {
	var apiError *APIError
	return errors.As(err, &apiError) && (apiError.StatusCode == 401 || apiError.StatusCode == 403)
}
