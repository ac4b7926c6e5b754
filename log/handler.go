// Copyright 2017 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"sync"
	"time"
)

// Format names an output encoding of the root handler.
type Format string

const (
	// FormatTerminal aligns messages and colours levels for a human reader.
	FormatTerminal Format = "terminal"
	// FormatJSON writes one JSON object per record, for log shippers.
	FormatJSON Format = "json"
	// FormatLogfmt writes key=value lines.
	FormatLogfmt Format = "logfmt"
)

// ParseFormat accepts the names above; empty selects the terminal format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case "":
		return FormatTerminal, nil
	case FormatTerminal, FormatJSON, FormatLogfmt:
		return f, nil
	default:
		return "", fmt.Errorf("unknown log format %q", s)
	}
}

// NewHandler builds the handler for format writing to wr. Records below lvl are dropped;
// lvl stays live, so the admin API can move it at runtime. useColor only applies to
// the terminal format.
func NewHandler(format Format, wr io.Writer, lvl *slog.LevelVar, useColor bool) (slog.Handler, error) {
	switch format {
	case FormatTerminal, "":
		return NewTerminalHandlerWithLevel(wr, lvl, useColor), nil
	case FormatJSON:
		return JSONHandlerWithLevel(wr, lvl), nil
	case FormatLogfmt:
		return LogfmtHandlerWithLevel(wr, lvl), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}

type discardHandler struct{}

// DiscardHandler drops every record. It backs the root logger until SetDefault is called.
func DiscardHandler() slog.Handler {
	return &discardHandler{}
}

func (h *discardHandler) Handle(_ context.Context, _ slog.Record) error {
	return nil
}

func (h *discardHandler) Enabled(_ context.Context, _ slog.Level) bool {
	return false
}

func (h *discardHandler) WithGroup(_ string) slog.Handler {
	panic("not implemented")
}

func (h *discardHandler) WithAttrs(_ []slog.Attr) slog.Handler {
	return &discardHandler{}
}

// TerminalHandler writes one aligned line per record:
//
//	LEVEL[MM-DD|HH:MM:SS.mmm] message                          key=value ...
//
// For instance a published draw reads
//
//	INFO [05-16|20:58:45.000] ID=ord-1 RANDOMS=[7, 42]          pkg=notify seed=0x5b2c… slot=112
type TerminalHandler struct {
	mu       sync.Mutex
	wr       io.Writer
	lvl      *slog.LevelVar
	useColor bool
	attrs    []slog.Attr

	buf []byte
}

// NewTerminalHandler returns a terminal handler that emits every level.
func NewTerminalHandler(wr io.Writer, useColor bool) *TerminalHandler {
	var level slog.LevelVar
	level.Set(levelMaxVerbosity)
	return NewTerminalHandlerWithLevel(wr, &level, useColor)
}

// NewTerminalHandlerWithLevel returns a terminal handler that drops records below lvl.
func NewTerminalHandlerWithLevel(wr io.Writer, lvl *slog.LevelVar, useColor bool) *TerminalHandler {
	return &TerminalHandler{
		wr:       wr,
		lvl:      lvl,
		useColor: useColor,
	}
}

func (h *TerminalHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	buf := h.format(h.buf, r, h.useColor)
	_, err := h.wr.Write(buf)
	h.buf = buf[:0]
	return err
}

func (h *TerminalHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level.Level() >= h.lvl.Level()
}

func (h *TerminalHandler) WithGroup(_ string) slog.Handler {
	panic("not implemented")
}

// WithAttrs returns a handler sharing the writer and level; the attrs slice is copied
// so sibling loggers never append into each other.
func (h *TerminalHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &TerminalHandler{
		wr:       h.wr,
		lvl:      h.lvl,
		useColor: h.useColor,
		attrs:    append(append([]slog.Attr(nil), h.attrs...), attrs...),
	}
}

// leveler reads a LevelVar on every record.
type leveler struct{ minLevel *slog.LevelVar }

func (l *leveler) Level() slog.Level {
	return l.minLevel.Level()
}

// JSONHandler returns a JSON handler that emits every level.
func JSONHandler(wr io.Writer) slog.Handler {
	var level slog.LevelVar
	level.Set(levelMaxVerbosity)
	return JSONHandlerWithLevel(wr, &level)
}

// JSONHandlerWithLevel returns a JSON handler that drops records below level.
// Keys are shortened to t, lvl and msg.
func JSONHandlerWithLevel(wr io.Writer, level *slog.LevelVar) slog.Handler {
	return slog.NewJSONHandler(wr, &slog.HandlerOptions{
		ReplaceAttr: replaceAttr(false),
		Level:       &leveler{level},
	})
}

// LogfmtHandlerWithLevel returns a key=value handler that drops records below level.
func LogfmtHandlerWithLevel(wr io.Writer, level *slog.LevelVar) slog.Handler {
	return slog.NewTextHandler(wr, &slog.HandlerOptions{
		ReplaceAttr: replaceAttr(true),
		Level:       &leveler{level},
	})
}

// replaceAttr renames the builtin keys and renders Stringers (Bytes32 and the like)
// through String. Text output also formats times as timeFormat.
func replaceAttr(text bool) func([]string, slog.Attr) slog.Attr {
	return func(_ []string, attr slog.Attr) slog.Attr {
		switch attr.Key {
		case slog.TimeKey:
			if attr.Value.Kind() == slog.KindTime {
				if text {
					return slog.String("t", attr.Value.Time().Format(timeFormat))
				}
				return slog.Attr{Key: "t", Value: attr.Value}
			}
		case slog.LevelKey:
			if l, ok := attr.Value.Any().(slog.Level); ok {
				return slog.Any("lvl", LevelString(l))
			}
		}

		switch v := attr.Value.Any().(type) {
		case time.Time:
			if text {
				attr = slog.String(attr.Key, v.Format(timeFormat))
			}
		case fmt.Stringer:
			if v == nil || (reflect.ValueOf(v).Kind() == reflect.Pointer && reflect.ValueOf(v).IsNil()) {
				attr.Value = slog.StringValue("<nil>")
			} else {
				attr.Value = slog.StringValue(v.String())
			}
		}
		return attr
	}
}
