// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package actions implements the parts of the GitHub Actions runner
// protocol the action needs, without the JavaScript toolkit:
//
//   - Inputs: action inputs arrive as INPUT_<NAME> environment variables.
//     [RequiredInput], [RequiredMultilineInput] and [OptionalInput] read
//     them through the [Inputs] interface so tests and local runs can
//     substitute other sources.
//   - Workflow commands: "::error::", "::debug::", "::add-mask::" lines
//     on stdout that the runner interprets ([WriteCommand], [AddMask],
//     [SetFailed]).
//   - Logging: [Handler] is a slog.Handler that renders records as
//     workflow commands so levels map onto the runner's annotations.
//   - Event context: [LoadEvent] reads the triggering event the same way
//     the toolkit's github.context does.
//
// Command syntax and escaping follow
// https://docs.github.com/en/actions/using-workflows/workflow-commands-for-github-actions.
package actions
