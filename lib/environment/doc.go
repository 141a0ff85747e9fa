// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package environment reads the CI-provided environment once at startup
// into a typed [Snapshot].
//
// Every variable is trimmed and coerced to its semantic type (non-empty
// string, https URL, integer, runner OS, runner architecture, ref).
// [Load] reports every problem it finds in one joined error so an
// operator fixing a workflow file sees all of them at once; each
// problem is a [MissingVariableError] or [InvalidFormatError] reachable
// with errors.As.
//
// Nothing below the entrypoint reads the process environment: the
// Snapshot is passed down by value. Variable semantics follow
// https://docs.github.com/en/actions/learn-github-actions/variables.
package environment
