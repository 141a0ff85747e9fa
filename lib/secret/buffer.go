// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"encoding/base64"
	"fmt"
	"sync"

	"golang.org/x/sys/unix"
)

// Buffer holds sensitive bytes in locked, non-dumpable memory. A Buffer
// must not be copied. After Close, reads panic.
type Buffer struct {
	mu     sync.Mutex
	data   []byte
	closed bool
}

func allocate(size int) (*Buffer, error) {
	if size <= 0 {
		return nil, fmt.Errorf("secret: buffer size must be positive, got %d", size)
	}

	data, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return nil, fmt.Errorf("secret: mmap failed: %w", err)
	}
	if err := unix.Mlock(data); err != nil {
		unix.Munmap(data)
		return nil, fmt.Errorf("secret: mlock failed: %w", err)
	}
	if err := unix.Madvise(data, unix.MADV_DONTDUMP); err != nil {
		unix.Munlock(data)
		unix.Munmap(data)
		return nil, fmt.Errorf("secret: madvise(MADV_DONTDUMP) failed: %w", err)
	}
	return &Buffer{data: data}, nil
}

// BasicAuth returns a Buffer containing "Basic base64(username:password)",
// ready to be used as an Authorization header value.
func BasicAuth(username, password string) (*Buffer, error) {
	if username == "" && password == "" {
		return nil, fmt.Errorf("secret: basic auth requires a username or password")
	}

	const prefix = "Basic "
	rawLength := len(username) + 1 + len(password)
	buffer, err := allocate(len(prefix) + base64.StdEncoding.EncodedLen(rawLength))
	if err != nil {
		return nil, err
	}

	// The plaintext pair is staged in a second locked region rather
	// than a heap slice, then zeroed with it.
	staging, err := allocate(rawLength)
	if err != nil {
		buffer.Close()
		return nil, err
	}
	defer staging.Close()

	copy(staging.data, username)
	staging.data[len(username)] = ':'
	copy(staging.data[len(username)+1:], password)

	copy(buffer.data, prefix)
	base64.StdEncoding.Encode(buffer.data[len(prefix):], staging.data)
	return buffer, nil
}

// Bytes returns the secret bytes. The slice aliases the locked region;
// do not retain it past Close.
func (b *Buffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		panic("secret: read from closed buffer")
	}
	return b.data
}

// String returns a heap copy of the secret for APIs that need a string,
// such as http.Header.Set.
func (b *Buffer) String() string {
	return string(b.Bytes())
}

// Close zeroes, unlocks and unmaps the buffer. Close is idempotent.
func (b *Buffer) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	clear(b.data)

	var firstError error
	if err := unix.Munlock(b.data); err != nil {
		firstError = fmt.Errorf("secret: munlock failed: %w", err)
	}
	if err := unix.Munmap(b.data); err != nil && firstError == nil {
		firstError = fmt.Errorf("secret: munmap failed: %w", err)
	}
	b.data = nil
	return firstError
}
