// Copyright 2026 The Typewrap Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package log provides a small fluent, severity-filtered logging layer
// built directly on top of context.Context.
//
// Basic usage is:
//
//	log.From(ctx).Infof().With("phase", "collect").With("symbol", name).Log("skipped")
package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
)

// Severity mirrors the subset of rfc5424 levels the pipeline actually emits.
type Severity int

const (
	Debug Severity = iota
	Info
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Debug:
		return "debug"
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

type ctxKey struct{}

// Context is a fluent wrapper around context.Context that carries a
// severity filter and an ordered set of key/value fields.
type Context struct {
	ctx    context.Context
	filter Severity
	fields []field
}

type field struct {
	key   string
	value interface{}
}

// From returns the Context wrapper for ctx, installing the default filter
// (Info) if none has been set yet.
func From(ctx context.Context) Context {
	if v, ok := ctx.Value(ctxKey{}).(Severity); ok {
		return Context{ctx: ctx, filter: v}
	}
	return Context{ctx: ctx, filter: Info}
}

// WithFilter returns a derived context.Context with a new minimum severity.
// Messages below the filter are dropped before formatting, so disabled
// Debug logging costs a single comparison.
func WithFilter(ctx context.Context, min Severity) context.Context {
	return context.WithValue(ctx, ctxKey{}, min)
}

// Unwrap returns the underlying context.Context.
func (c Context) Unwrap() context.Context { return c.ctx }

// With returns a copy of c with an additional structured field appended.
func (c Context) With(key string, value interface{}) Context {
	fields := make([]field, len(c.fields), len(c.fields)+1)
	copy(fields, c.fields)
	fields = append(fields, field{key, value})
	c.fields = fields
	return c
}

// entry is the severity-bound, loggable view returned by Debugf/Infof/Warningf/Errorf.
type entry struct {
	c     Context
	level Severity
}

func (c Context) Debugf() entry   { return entry{c, Debug} }
func (c Context) Infof() entry    { return entry{c, Info} }
func (c Context) Warningf() entry { return entry{c, Warning} }
func (c Context) Errorf() entry   { return entry{c, Error} }

// With chains an additional field onto the entry being built.
func (e entry) With(key string, value interface{}) entry {
	e.c = e.c.With(key, value)
	return e
}

// Log writes the message if the entry's level is at or above the context's
// filter. Fields are rendered in insertion order after the message.
func (e entry) Log(message string) {
	if e.level < e.c.filter {
		return
	}
	handlerMu.Lock()
	h := handler
	handlerMu.Unlock()
	h(e.level, message, e.c.fields)
}

// Logf is a convenience wrapper around Log + fmt.Sprintf.
func (e entry) Logf(format string, args ...interface{}) {
	if e.level < e.c.filter {
		return
	}
	e.Log(fmt.Sprintf(format, args...))
}

// Handler is the function invoked for every logged entry that survives the
// severity filter.
type Handler func(level Severity, message string, fields []field)

var (
	handlerMu sync.Mutex
	handler   Handler = writerHandler(os.Stderr)
)

// SetHandler replaces the global log sink. Returns the previous handler so
// tests can restore it.
func SetHandler(h Handler) Handler {
	handlerMu.Lock()
	defer handlerMu.Unlock()
	prev := handler
	handler = h
	return prev
}

// writerHandler renders entries as "level: message key=value ...\n" to w.
func writerHandler(w io.Writer) Handler {
	return func(level Severity, message string, fields []field) {
		fmt.Fprintf(w, "%s: %s", level, message)
		for _, f := range fields {
			fmt.Fprintf(w, " %s=%v", f.key, f.value)
		}
		fmt.Fprintln(w)
	}
}

// WriterHandler exposes writerHandler for callers that want to redirect
// logging output (e.g. tests capturing into a bytes.Buffer).
func WriterHandler(w io.Writer) Handler { return writerHandler(w) }
