// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package executor

import (
	"bytes"
	"context"
	"log/slog"
	"sync"

	"github.com/specialistvlad/buildchain/internal/ctxlog"
)

// tail keeps the last n lines written by any stream.
type tail struct {
	mu    sync.Mutex
	n     int
	lines []string
}

func (t *tail) add(line string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.n <= 0 {
		return
	}
	if len(t.lines) == t.n {
		copy(t.lines, t.lines[1:])
		t.lines = t.lines[:t.n-1]
	}
	t.lines = append(t.lines, line)
}

func (t *tail) snapshot() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, len(t.lines))
	copy(out, t.lines)
	return out
}

// lineWriter logs every complete line written to it.
type lineWriter struct {
	ctx    context.Context
	logger *slog.Logger
	level  slog.Level
	stream string
	tail   *tail
	buf    []byte
}

func newLineWriter(ctx context.Context, stream string, level slog.Level, t *tail) *lineWriter {
	return &lineWriter{ctx: ctx, logger: ctxlog.FromContext(ctx), level: level, stream: stream, tail: t}
}

// Write implements io.Writer. exec.Cmd calls it from a single goroutine per stream.
func (w *lineWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.emit(w.buf[:i])
		w.buf = w.buf[i+1:]
	}
	return len(p), nil
}

// Flush emits a trailing line that was not newline terminated.
func (w *lineWriter) Flush() {
	if len(w.buf) > 0 {
		w.emit(w.buf)
		w.buf = nil
	}
}

func (w *lineWriter) emit(line []byte) {
	s := string(bytes.TrimRight(line, "\r"))
	w.tail.add(s)
	w.logger.Log(w.ctx, w.level, s, "stream", w.stream)
}
