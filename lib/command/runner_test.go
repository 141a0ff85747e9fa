// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/zeklin-io/zeklin-action/lib/testutil"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunOrderedOutput(t *testing.T) {
	var stdout strings.Builder
	runner := &Runner{Stdout: &stdout, Stderr: io.Discard, Logger: quietLogger()}

	code, err := runner.Run(context.Background(), []string{"echo one", "echo two", "printf three"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}
	if stdout.String() != "one\ntwo\nthree" {
		t.Errorf("stdout = %q, want %q", stdout.String(), "one\ntwo\nthree")
	}
}

func TestRunLastStatusWins(t *testing.T) {
	tests := []struct {
		name     string
		commands []string
		want     int
	}{
		{"earlier failure ignored", []string{"exit 3", "true"}, 0},
		{"last failure reported", []string{"true", "exit 7"}, 7},
		{"single failure", []string{"exit 1"}, 1},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			runner := &Runner{Stdout: io.Discard, Stderr: io.Discard, Logger: quietLogger()}
			code, err := runner.Run(context.Background(), test.commands)
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if code != test.want {
				t.Errorf("exit code = %d, want %d", code, test.want)
			}
		})
	}
}

func TestRunContinuesAfterFailure(t *testing.T) {
	marker := filepath.Join(t.TempDir(), "ran")
	runner := &Runner{Stdout: io.Discard, Stderr: io.Discard, Logger: quietLogger()}

	if _, err := runner.Run(context.Background(), []string{"false", "touch " + marker}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, err := os.Stat(marker); err != nil {
		t.Errorf("second command did not run: %v", err)
	}
}

func TestRunWorkingDirectory(t *testing.T) {
	directory := t.TempDir()
	runner := &Runner{Dir: directory, Stdout: io.Discard, Stderr: io.Discard, Logger: quietLogger()}

	if _, err := runner.Run(context.Background(), []string{`echo '{"score": 42}' > out.json`}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, err := os.Stat(filepath.Join(directory, "out.json")); err != nil {
		t.Errorf("out.json not written in Dir: %v", err)
	}
}

func TestRunStderr(t *testing.T) {
	var stderr strings.Builder
	runner := &Runner{Stdout: io.Discard, Stderr: &stderr, Logger: quietLogger()}

	if _, err := runner.Run(context.Background(), []string{"echo oops >&2"}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stderr.String() != "oops\n" {
		t.Errorf("stderr = %q, want %q", stderr.String(), "oops\n")
	}
}

func TestRunSharedOutputWriter(t *testing.T) {
	// bytes.Buffer is not safe for concurrent use; the race detector
	// flags any overlapping writes from the two streams.
	var output bytes.Buffer
	runner := &Runner{Stdout: &output, Stderr: &output, Logger: quietLogger()}

	script := `i=0; while [ $i -lt 200 ]; do echo out$i; echo err$i >&2; i=$((i+1)); done`
	if _, err := runner.Run(context.Background(), []string{script}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(output.String(), "\n"), "\n")
	if len(lines) != 400 {
		t.Fatalf("got %d lines, want 400", len(lines))
	}
	for _, line := range lines {
		if !strings.HasPrefix(line, "out") && !strings.HasPrefix(line, "err") {
			t.Errorf("interleaved line %q", line)
		}
	}
}

func TestSameWriter(t *testing.T) {
	var first, second bytes.Buffer
	if !sameWriter(&first, &first) {
		t.Error("sameWriter(&first, &first) = false")
	}
	if sameWriter(&first, &second) {
		t.Error("sameWriter(&first, &second) = true")
	}
	if sameWriter(sliceWriter{}, sliceWriter{}) {
		t.Error("uncomparable writers reported as the same")
	}
}

// sliceWriter has an uncomparable dynamic type.
type sliceWriter []byte

func (sliceWriter) Write(p []byte) (int, error) { return len(p), nil }

func TestRunSpawnFailure(t *testing.T) {
	marker := filepath.Join(t.TempDir(), "ran")
	tests := []struct {
		name   string
		runner Runner
	}{
		{"missing directory", Runner{Dir: filepath.Join(t.TempDir(), "absent")}},
		{"missing shell", Runner{Shell: "/nonexistent/shell"}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			runner := test.runner
			runner.Stdout, runner.Stderr, runner.Logger = io.Discard, io.Discard, quietLogger()

			code, err := runner.Run(context.Background(), []string{"true", "touch " + marker})
			if err == nil {
				t.Fatal("Run succeeded, want spawn error")
			}
			if code != -1 {
				t.Errorf("exit code = %d, want -1", code)
			}
			if _, statErr := os.Stat(marker); statErr == nil {
				t.Error("later command ran after a spawn failure")
			}
		})
	}
}

func TestRunSignalledCommand(t *testing.T) {
	runner := &Runner{Stdout: io.Discard, Stderr: io.Discard, Logger: quietLogger()}

	code, err := runner.Run(context.Background(), []string{"kill -KILL $$"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if code != -1 {
		t.Errorf("exit code = %d, want -1", code)
	}
}

func TestRunCancellationKillsProcessGroup(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	runner := &Runner{Stdout: io.Discard, Stderr: io.Discard, Logger: quietLogger()}

	done := make(chan error, 1)
	go func() {
		_, err := runner.Run(ctx, []string{"sleep 60 & wait"})
		done <- err
	}()

	time.Sleep(100 * time.Millisecond) //nolint:realclock let the shell start its child
	cancel()

	err := testutil.RequireReceive(t, done, 10*time.Second, "Run did not return after cancellation")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}
