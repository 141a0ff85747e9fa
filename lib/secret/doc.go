// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package secret holds credential material outside the Go heap.
//
// [Buffer] is an anonymous mmap region locked into RAM (mlock) and
// excluded from core dumps (MADV_DONTDUMP). Close zeroes and unmaps it.
// [BasicAuth] encodes an HTTP Basic-Auth header value directly into a
// Buffer so the encoded API key never sits in a heap string longer than
// the request that sends it.
//
// Depends on golang.org/x/sys/unix.
package secret
