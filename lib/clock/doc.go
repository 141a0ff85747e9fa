// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time source for the action.
//
// The retry combinator waits between attempts and the run pipeline
// stamps results with a computation time. Both take a Clock instead of
// calling the time package so tests can drive them deterministically:
//
//	fakeClock := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	go func() { done <- retry.Do(ctx, fakeClock, policy, nil, operation) }()
//	fakeClock.WaitForTimers(1)        // the retry loop is now waiting
//	fakeClock.Advance(time.Second)    // release it
//
// Production code uses Real().
package clock
