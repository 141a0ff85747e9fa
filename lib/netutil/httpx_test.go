// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package netutil

import (
	"fmt"
	"io"
	"strings"
	"testing"
)

func TestErrorBody(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"json message", `{"message":"invalid api key"}`, "invalid api key"},
		{"json error", `{"error":"payload too large"}`, "payload too large"},
		{"plain text", "  Service Unavailable\n", "Service Unavailable"},
		{"json without known fields", `{"code":7}`, `{"code":7}`},
		{"empty", "", ""},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := ErrorBody(strings.NewReader(test.body)); got != test.want {
				t.Errorf("ErrorBody = %q, want %q", got, test.want)
			}
		})
	}

	t.Run("long body truncated", func(t *testing.T) {
		got := ErrorBody(strings.NewReader(strings.Repeat("a", 2000)))
		if len(got) != maxErrorMessage+len("...") || !strings.HasSuffix(got, "...") {
			t.Errorf("ErrorBody returned %d bytes, want truncated message", len(got))
		}
	})

	t.Run("read error returns empty", func(t *testing.T) {
		if got := ErrorBody(&failReader{}); got != "" {
			t.Fatalf("expected empty from failing reader, got %q", got)
		}
	})
}

func TestDrainAndClose(t *testing.T) {
	body := &closeRecorder{Reader: strings.NewReader("leftover")}
	DrainAndClose(body)
	if !body.closed {
		t.Error("body not closed")
	}
	if body.Reader.(*strings.Reader).Len() != 0 {
		t.Error("body not drained")
	}
}

// failReader always returns an error on Read.
type failReader struct{}

func (*failReader) Read([]byte) (int, error) {
	return 0, fmt.Errorf("simulated read failure")
}

type closeRecorder struct {
	io.Reader
	closed bool
}

func (c *closeRecorder) Close() error {
	c.closed = true
	return nil
}
