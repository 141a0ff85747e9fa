// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package results locates and validates the JSON results file a
// benchmark run leaves behind. The content is opaque: it is read as
// UTF-8 text, checked to be well-formed JSON and otherwise passed on
// byte for byte.
package results

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/zeebo/blake3"
)

// NotFoundError reports that no file exists at the resolved path.
type NotFoundError struct {
	Path string
	Err  error
}

func (err *NotFoundError) Error() string {
	return fmt.Sprintf("results file %s not found", err.Path)
}

func (err *NotFoundError) Unwrap() error { return err.Err }

// UnreadableError reports an I/O failure other than absence, such as a
// permission error or a directory at the path.
type UnreadableError struct {
	Path string
	Err  error
}

func (err *UnreadableError) Error() string {
	return fmt.Sprintf("reading results file %s: %v", err.Path, err.Err)
}

func (err *UnreadableError) Unwrap() error { return err.Err }

// MalformedError reports a results file that is not valid JSON. Offset
// is the byte offset the decoder stopped at, when known.
type MalformedError struct {
	Path   string
	Offset int64
	Err    error
}

func (err *MalformedError) Error() string {
	if err.Offset > 0 {
		return fmt.Sprintf("results file %s is not valid JSON (offset %d): %v", err.Path, err.Offset, err.Err)
	}
	return fmt.Sprintf("results file %s is not valid JSON: %v", err.Path, err.Err)
}

func (err *MalformedError) Unwrap() error { return err.Err }

// Resolve returns the path the results file is read from. Absolute
// paths are used as given; relative paths are joined onto workdir when
// one is set and otherwise left relative to the current directory.
func Resolve(path, workdir string) string {
	if filepath.IsAbs(path) || workdir == "" {
		return path
	}
	return filepath.Join(workdir, path)
}

// Find reads the results file and returns its content after checking
// it is a single well-formed JSON value. Invalid UTF-8 sequences are
// replaced with U+FFFD; valid content is returned unchanged.
func Find(path, workdir string) (json.RawMessage, error) {
	resolved := Resolve(path, workdir)

	data, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Path: resolved, Err: err}
		}
		return nil, &UnreadableError{Path: resolved, Err: err}
	}

	if !utf8.Valid(data) {
		data = bytes.ToValidUTF8(data, []byte("\uFFFD"))
	}

	var raw json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		malformed := &MalformedError{Path: resolved, Err: err}
		var syntaxError *json.SyntaxError
		if errors.As(err, &syntaxError) {
			malformed.Offset = syntaxError.Offset
		}
		return nil, malformed
	}
	return json.RawMessage(data), nil
}

// Digest returns a BLAKE3 fingerprint of the results, formatted as
// "blake3:<hex>", for correlating log lines with uploaded content
// without logging the content itself.
func Digest(data json.RawMessage) string {
	sum := blake3.Sum256(data)
	return "blake3:" + hex.EncodeToString(sum[:])
}
