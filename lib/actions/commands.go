// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package actions

import (
	"io"
	"sort"
	"strings"
)

// WriteCommand writes one workflow command line:
//
//	::name key=value,key=value::message
//
// Properties are written in key order. The message and property values
// are escaped so embedded newlines cannot start a new command.
func WriteCommand(w io.Writer, name string, properties map[string]string, message string) error {
	var builder strings.Builder
	builder.WriteString("::")
	builder.WriteString(name)

	if len(properties) > 0 {
		keys := make([]string, 0, len(properties))
		for key, value := range properties {
			if value != "" {
				keys = append(keys, key)
			}
		}
		sort.Strings(keys)
		for index, key := range keys {
			if index == 0 {
				builder.WriteByte(' ')
			} else {
				builder.WriteByte(',')
			}
			builder.WriteString(key)
			builder.WriteByte('=')
			builder.WriteString(escapeProperty(properties[key]))
		}
	}

	builder.WriteString("::")
	builder.WriteString(escapeData(message))
	builder.WriteByte('\n')

	_, err := io.WriteString(w, builder.String())
	return err
}

// AddMask registers value with the runner so it is replaced by "***"
// in all subsequent log output.
func AddMask(w io.Writer, value string) error {
	if value == "" {
		return nil
	}
	return WriteCommand(w, "add-mask", nil, value)
}

// SetFailed writes an error annotation for message. The caller exits
// non-zero; the runner marks the step failed from the exit status.
func SetFailed(w io.Writer, message string) error {
	return WriteCommand(w, "error", nil, message)
}

// Group writes a collapsible log group start; EndGroup closes it.
func Group(w io.Writer, title string) error {
	return WriteCommand(w, "group", nil, title)
}

// EndGroup closes the innermost group opened with Group.
func EndGroup(w io.Writer) error {
	return WriteCommand(w, "endgroup", nil, "")
}

func escapeData(value string) string {
	return dataEscaper.Replace(value)
}

func escapeProperty(value string) string {
	return propertyEscaper.Replace(value)
}

var (
	dataEscaper = strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A")

	propertyEscaper = strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A", ":", "%3A", ",", "%2C")
)
