// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// 🎯 Logger is the console message sink. Human notices go to the out and
// err writers in color, and every notice is mirrored to zerolog at debug level.
// All writes share one mutex so lines from concurrent workers never interleave.
type Logger struct {
	zlog zerolog.Logger
	out  io.Writer
	err  io.Writer
	in   *bufio.Reader
	mu   sync.Mutex
}

// 🏭 New creates a new logger
func New(out, errOut io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog: zlog,
		out:  out,
		err:  errOut,
	}
}

// 🔇 Discard returns a logger that drops everything
func Discard() *Logger {
	return New(io.Discard, io.Discard, zerolog.Nop())
}

// ⌨️ WithInput sets the reader interactive prompts read answers from
func (l *Logger) WithInput(r io.Reader) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.in = bufio.NewReader(r)
	return l
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context, falling back to Discard
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		return Discard()
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 Copied reports a finished copy
func (l *Logger) Copied(src, dst string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.out, color.New(color.FgGreen).Sprintf("Copied: %s -> %s", src, dst))
	l.zlog.Debug().Str("source", src).Str("destination", dst).Msg("copied")
}

// 📝 Skipped reports a file the user declined to overwrite
func (l *Logger) Skipped(dst string) {
	l.notice(dst, "Skipping file %s", "skipped")
}

// 📝 NotOverwriting reports a file left alone because of no-clobber
func (l *Logger) NotOverwriting(dst string) {
	l.notice(dst, "Not overwriting existing file %s", "not overwriting")
}

// 📝 NotUpdating reports a destination that is already as new as its source
func (l *Logger) NotUpdating(dst string) {
	l.notice(dst, "Not updating file %s", "not updating")
}

func (l *Logger) notice(dst, format, event string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.out, color.New(color.FgYellow).Sprintf(format, dst))
	l.zlog.Debug().Str("destination", dst).Msg(event)
}

// 📝 Info logs an informational line
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.out, color.New(color.FgBlue).Sprint(msg))
	l.zlog.Debug().Msg(msg)
}

// 📝 Warning logs a warning line to the error stream
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.err, color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error line to the error stream
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.err, color.New(color.FgRed).Sprint(msg))
	l.zlog.Debug().Msg(msg)
}

// 🐛 Diagnostic writes uncolored detail lines to the error stream
func (l *Logger) Diagnostic(lines ...string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, line := range lines {
		fmt.Fprintln(l.err, line)
	}
}

// 📝 Raw writes pre-rendered text to the output stream
func (l *Logger) Raw(text string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprint(l.out, text)
}

// ❓ Confirm asks whether dst may be overwritten and reads one line of input.
// Only "y" or "yes" (any case, surrounding space ignored) count as consent.
// The prompt and the read happen under one lock, so prompts from
// concurrent workers are asked one at a time.
func (l *Logger) Confirm(dst string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.in == nil {
		return false, nil
	}

	fmt.Fprintf(l.out, "File %s already exists. Overwrite? (y/n): ", dst)

	answer, err := l.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}

	answer = strings.ToLower(strings.TrimSpace(answer))
	ok := answer == "y" || answer == "yes"
	l.zlog.Debug().Str("destination", dst).Str("answer", answer).Bool("overwrite", ok).Msg("prompted")
	return ok, nil
}
