// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"time"

	"github.com/zeklin-io/zeklin-action/lib/clock"
)

// DriveClock advances fakeClock by step whenever a waiter is pending,
// until the test finishes.
//
//	fakeClock := clock.Fake(epoch)
//	testutil.DriveClock(t, fakeClock, time.Second)
func DriveClock(t interface {
	Helper()
	Cleanup(func())
}, fakeClock *clock.FakeClock, step time.Duration) {
	t.Helper()
	stop := make(chan struct{})
	t.Cleanup(func() { close(stop) })
	go func() {
		for {
			select {
			case <-stop:
				return
			default:
			}
			if fakeClock.PendingCount() > 0 {
				fakeClock.Advance(step)
			} else {
				time.Sleep(time.Millisecond) //nolint:realclock polling the fake clock's waiters
			}
		}
	}()
}
