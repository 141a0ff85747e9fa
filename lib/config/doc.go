// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config builds the action's immutable [Configuration] from its
// inputs.
//
// Inputs come from the runner (INPUT_* variables, see
// [actions.EnvInputs]) and, for local runs, from an input file loaded
// with [LoadInputFile]. [Parse] validates every input in one pass and
// reports all problems together in an [InputValidationError], so an
// operator fixing a workflow file sees the full list at once.
package config
