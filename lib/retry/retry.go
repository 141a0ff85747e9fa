// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package retry runs an operation under a fixed retry policy.
//
// The policy is deliberately flat: a bounded number of retries at a
// constant spacing, with no jitter and no exponential growth. The
// results service is a single endpoint called once per run, so there
// is no thundering herd to spread out.
package retry

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/zeklin-io/zeklin-action/lib/clock"
)

// Policy bounds how often and how far apart an operation is retried.
type Policy struct {
	// MaxRetries is the number of retries after the first attempt.
	// Total attempts are MaxRetries+1.
	MaxRetries int

	// Spacing is the fixed wait between consecutive attempts.
	Spacing time.Duration
}

// DefaultPolicy is used for both the liveness check and the upload:
// 3 retries (4 attempts total) one second apart.
var DefaultPolicy = Policy{MaxRetries: 3, Spacing: time.Second}

// Attempts returns the total number of attempts the policy allows.
func (policy Policy) Attempts() int {
	if policy.MaxRetries < 0 {
		return 1
	}
	return policy.MaxRetries + 1
}

// ExhaustedError is returned by Do when every attempt failed. Err is
// the error from the final attempt.
type ExhaustedError struct {
	Attempts int
	Err      error
}

func (err *ExhaustedError) Error() string {
	return fmt.Sprintf("gave up after %d attempts: %v", err.Attempts, err.Err)
}

func (err *ExhaustedError) Unwrap() error { return err.Err }

// Operation is one attempt. attempt counts from 1.
type Operation func(ctx context.Context, attempt int) error

// Do calls operation until it succeeds or the policy is exhausted,
// waiting policy.Spacing on clk between attempts. Context cancellation
// during a wait returns ctx.Err() immediately.
//
// A nil logger disables the per-attempt warnings.
func Do(ctx context.Context, clk clock.Clock, policy Policy, logger *slog.Logger, operation Operation) error {
	attempts := policy.Attempts()

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = operation(ctx, attempt)
		if lastErr == nil {
			return nil
		}
		if attempt == attempts {
			break
		}

		if logger != nil {
			logger.Warn("attempt failed, retrying",
				"attempt", attempt,
				"max_attempts", attempts,
				"retry_in", policy.Spacing,
				"error", lastErr,
			)
		}

		select {
		case <-clk.After(policy.Spacing):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return &ExhaustedError{Attempts: attempts, Err: lastErr}
}
