// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package provenance builds the upload payload: the benchmark results
// together with where they came from (commit range, branch, actor,
// runner, workflow run).
//
// Everything here is pure. The timestamp and the results are passed
// in, so the same inputs always marshal to the same bytes.
package provenance
