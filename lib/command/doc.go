// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package command runs the benchmark's shell commands.
//
// Each command line is executed with "sh -c" in its own process group,
// strictly one after another. Output is forwarded to the configured
// writers a line at a time while the command runs, so long benchmarks
// show progress in the job log. Only the last command's exit status is
// returned; interpreting a non-zero status is up to the caller.
package command
