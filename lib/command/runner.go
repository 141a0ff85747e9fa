// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sync"
	"syscall"
)

// DefaultShell interprets each command line.
const DefaultShell = "sh"

// Runner executes command lines. The zero value runs in the current
// directory with sh, inheriting the environment and writing to
// os.Stdout and os.Stderr.
type Runner struct {
	// Dir is the working directory. Empty means the current directory.
	Dir string

	// Shell is invoked as "<Shell> -c <line>". Empty means DefaultShell.
	Shell string

	// Env replaces the inherited environment when non-nil.
	Env []string

	Stdout io.Writer
	Stderr io.Writer

	Logger *slog.Logger
}

// Run executes commands in order and returns the exit status of the
// last one. A command that exits non-zero is logged and the sequence
// continues. A command that cannot be started (missing shell,
// nonexistent directory) stops the sequence and returns -1 with the
// error; so does cancellation of ctx, which kills the running command's
// whole process group. A command terminated by a signal reports -1.
func (r *Runner) Run(ctx context.Context, commands []string) (int, error) {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}

	stdoutTarget := writerOrDefault(r.Stdout, os.Stdout)
	stderrTarget := writerOrDefault(r.Stderr, os.Stderr)

	// A shared target sees one write at a time, as with exec.Cmd.
	stdoutLock := new(sync.Mutex)
	stderrLock := new(sync.Mutex)
	if sameWriter(stdoutTarget, stderrTarget) {
		stderrLock = stdoutLock
	}
	stdout := newLineWriter(stdoutTarget, stdoutLock)
	stderr := newLineWriter(stderrTarget, stderrLock)

	exitCode := 0
	for index, line := range commands {
		logger.Info("running command", "index", index+1, "count", len(commands), "command", line)

		code, err := r.runOne(ctx, line, stdout, stderr)
		stdout.Flush()
		stderr.Flush()
		if err != nil {
			return -1, fmt.Errorf("running command %d of %d: %w", index+1, len(commands), err)
		}

		exitCode = code
		if code != 0 && index < len(commands)-1 {
			logger.Warn("command failed, continuing with the next command",
				"index", index+1,
				"exit_code", code,
			)
		}
	}
	return exitCode, nil
}

func (r *Runner) runOne(ctx context.Context, line string, stdout, stderr io.Writer) (int, error) {
	shell := r.Shell
	if shell == "" {
		shell = DefaultShell
	}

	cmd := exec.CommandContext(ctx, shell, "-c", line)
	cmd.Dir = r.Dir
	cmd.Env = r.Env
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	// Own process group so cancellation reaches the shell's children.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	if ctx.Err() != nil {
		return -1, ctx.Err()
	}

	var exitError *exec.ExitError
	if errors.As(err, &exitError) {
		return exitError.ExitCode(), nil
	}
	return -1, err
}

// sameWriter reports whether a and b are the same writer. Writers whose
// dynamic type is not comparable are treated as distinct.
func sameWriter(a, b io.Writer) (same bool) {
	defer func() {
		if recover() != nil {
			same = false
		}
	}()
	return a == b
}

func writerOrDefault(w, fallback io.Writer) io.Writer {
	if w == nil {
		return fallback
	}
	return w
}
