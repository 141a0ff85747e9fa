// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers.
//
// [RequireReceive] encapsulates the timeout safety valve pattern
// (select with a time.After fallback) so that individual tests do not
// need direct time.After calls. It is the only place in the test suite
// where a real wall-clock timeout is used.
//
// [DriveClock] releases retry waits registered on a [clock.FakeClock]
// as soon as they appear, so code that sleeps between attempts runs to
// completion under test while the fake clock still records how much
// time it asked to wait.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
package testutil
