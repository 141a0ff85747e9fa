// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package actions

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Handler is a slog.Handler that renders records as workflow commands:
// debug records become "::debug::", warnings "::warning::", errors
// "::error::", and info records are printed as plain lines. Attributes
// are appended to the message as key=value pairs.
//
// The runner hides ::debug:: lines unless step debug logging is on, so
// the handler's own level is normally Debug when RUNNER_DEBUG=1 and Info
// otherwise.
type Handler struct {
	writer io.Writer
	mu     *sync.Mutex
	level  slog.Leveler

	// attrs holds attributes added with WithAttrs, already rendered.
	attrs  string
	prefix string
}

// NewHandler returns a Handler writing to w. A nil options value means
// Info level.
func NewHandler(w io.Writer, options *slog.HandlerOptions) *Handler {
	handler := &Handler{writer: w, mu: &sync.Mutex{}, level: slog.LevelInfo}
	if options != nil && options.Level != nil {
		handler.level = options.Level
	}
	return handler
}

// Enabled implements slog.Handler.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle implements slog.Handler.
func (h *Handler) Handle(_ context.Context, record slog.Record) error {
	var builder strings.Builder
	builder.WriteString(record.Message)
	builder.WriteString(h.attrs)
	record.Attrs(func(attr slog.Attr) bool {
		appendAttr(&builder, h.prefix, attr)
		return true
	})
	line := builder.String()

	h.mu.Lock()
	defer h.mu.Unlock()

	switch {
	case record.Level >= slog.LevelError:
		return WriteCommand(h.writer, "error", nil, line)
	case record.Level >= slog.LevelWarn:
		return WriteCommand(h.writer, "warning", nil, line)
	case record.Level >= slog.LevelInfo:
		_, err := io.WriteString(h.writer, line+"\n")
		return err
	default:
		return WriteCommand(h.writer, "debug", nil, line)
	}
}

// WithAttrs implements slog.Handler.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	var builder strings.Builder
	builder.WriteString(h.attrs)
	for _, attr := range attrs {
		appendAttr(&builder, h.prefix, attr)
	}
	clone := *h
	clone.attrs = builder.String()
	return &clone
}

// WithGroup implements slog.Handler.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.prefix = h.prefix + name + "."
	return &clone
}

func appendAttr(builder *strings.Builder, prefix string, attr slog.Attr) {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return
	}

	if attr.Value.Kind() == slog.KindGroup {
		group := attr.Value.Group()
		if len(group) == 0 {
			return
		}
		nested := prefix
		if attr.Key != "" {
			nested = prefix + attr.Key + "."
		}
		for _, member := range group {
			appendAttr(builder, nested, member)
		}
		return
	}

	builder.WriteByte(' ')
	builder.WriteString(prefix)
	builder.WriteString(attr.Key)
	builder.WriteByte('=')
	builder.WriteString(formatValue(attr.Value))
}

func formatValue(value slog.Value) string {
	var text string
	switch value.Kind() {
	case slog.KindString:
		text = value.String()
	case slog.KindTime:
		text = value.Time().UTC().Format(time.RFC3339Nano)
	case slog.KindAny:
		if err, ok := value.Any().(error); ok {
			text = err.Error()
		} else {
			text = value.String()
		}
	default:
		return value.String()
	}
	if needsQuoting(text) {
		return strconv.Quote(text)
	}
	return text
}

func needsQuoting(text string) bool {
	if text == "" {
		return true
	}
	for _, r := range text {
		if r == ' ' || r == '=' || r == '"' || r < 0x20 || r == 0x7f {
			return true
		}
	}
	return false
}
