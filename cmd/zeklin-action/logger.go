// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/zeklin-io/zeklin-action/lib/actions"
)

// newLogger picks the handler for where the action runs. In a workflow,
// records become workflow commands on stdout so the runner annotates
// warnings and errors. Elsewhere, a terminal gets slog's text format and
// piped stderr gets JSON.
func newLogger(inActions, debug bool, stdout, stderr io.Writer) *slog.Logger {
	options := &slog.HandlerOptions{Level: slog.LevelInfo}
	if debug {
		options.Level = slog.LevelDebug
	}

	var handler slog.Handler
	switch {
	case inActions:
		handler = actions.NewHandler(stdout, options)
	case isTerminal(stderr):
		handler = slog.NewTextHandler(stderr, options)
	default:
		handler = slog.NewJSONHandler(stderr, options)
	}
	return slog.New(handler)
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}
