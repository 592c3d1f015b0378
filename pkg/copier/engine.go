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

package copier

import (
	"bufio"
	"context"
	"io"
	"os"
	"os/user"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/walteh/fastcp/pkg/config"
	"github.com/walteh/fastcp/pkg/log"
	"github.com/walteh/fastcp/pkg/status"
	"gitlab.com/tozd/go/errors"
)

const (
	// BufferSize is the size of the buffered reader and writer
	BufferSize = 8 * 1024 * 1024

	// ChunkSize is how much each read hands to the writer
	ChunkSize = 128 * 1024
)

var (
	chunks  = sync.Pool{New: func() any { b := make([]byte, ChunkSize); return &b }}
	readers = sync.Pool{New: func() any { return bufio.NewReaderSize(nil, BufferSize) }}
	writers = sync.Pool{New: func() any { return bufio.NewWriterSize(nil, BufferSize) }}
)

// 🔧 Options configures an Engine
type Options struct {
	Config  config.Options
	Console *log.Logger
	Tally   *status.Tally
}

// 📦 Engine copies single files according to the overwrite and update policy
type Engine struct {
	cfg     config.Options
	console *log.Logger
	tally   *status.Tally
	verbose atomic.Bool
}

// 🏭 New creates a new engine
func New(opts Options) *Engine {
	console := opts.Console
	if console == nil {
		console = log.Discard()
	}
	e := &Engine{
		cfg:     opts.Config,
		console: console,
		tally:   opts.Tally,
	}
	e.verbose.Store(opts.Config.Verbose)
	return e
}

// CopyFile copies src to dst. The checks run in a fixed order: the overwrite
// policy for an existing dst, then the update policy, then the transfer.
// Declining to copy for policy reasons is a success.
func (e *Engine) CopyFile(ctx context.Context, src, dst string) error {
	logger := zerolog.Ctx(ctx).With().Str("source", src).Str("destination", dst).Logger()
	logger.Debug().Msg("attempting copy")

	dstInfo, statErr := os.Stat(dst)
	exists := statErr == nil

	if exists {
		// creating dst would truncate src
		if srcInfo, err := os.Stat(src); err == nil && os.SameFile(srcInfo, dstInfo) {
			return errors.Errorf("%s and %s: %w", src, dst, ErrSameFile)
		}
	}

	if exists && !e.cfg.Force {
		switch {
		case e.cfg.Interactive:
			ok, err := e.console.Confirm(dst)
			if err != nil {
				return &FileCopyError{Phase: PhasePromptInput, Source: src, Destination: dst, Err: err}
			}
			if !ok {
				e.console.Skipped(dst)
				e.tally.Record(status.OutcomeSkipped)
				return nil
			}
		case e.cfg.NoClobber:
			e.console.NotOverwriting(dst)
			e.tally.Record(status.OutcomeNotOverwritten)
			return nil
		default:
			logger.Debug().Msg("refusing to overwrite")
			return errors.Errorf("%s: %w", dst, ErrAlreadyExists)
		}
	}

	if e.cfg.Update && exists {
		srcInfo, err := os.Stat(src)
		if err != nil {
			return &FileCopyError{Phase: PhaseStat, Source: src, Destination: dst, Err: err}
		}
		if !srcInfo.ModTime().After(dstInfo.ModTime()) {
			e.console.NotUpdating(dst)
			e.tally.Record(status.OutcomeNotUpdated)
			return nil
		}
	}

	n, err := e.transfer(src, dst)
	if err != nil {
		logger.Debug().Err(err).Msg("copy failed")
		return err
	}

	e.tally.Record(status.OutcomeCopied)
	e.tally.AddBytes(n)
	logger.Debug().Int64("bytes", n).Msg("copy complete")

	if e.verbose.Load() {
		e.console.Copied(src, dst)
	}
	return nil
}

// transfer streams src into a truncated dst chunk by chunk
func (e *Engine) transfer(src, dst string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		e.diagnose(dst)
		return 0, &FileCopyError{Phase: PhaseOpenSource, Source: src, Destination: dst, Err: err}
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		e.diagnose(dst)
		return 0, &FileCopyError{Phase: PhaseCreateDest, Source: src, Destination: dst, Err: err}
	}
	closed := false
	defer func() {
		if !closed {
			out.Close()
		}
	}()

	r := readers.Get().(*bufio.Reader)
	r.Reset(in)
	defer func() { r.Reset(nil); readers.Put(r) }()

	w := writers.Get().(*bufio.Writer)
	w.Reset(out)
	defer func() { w.Reset(nil); writers.Put(w) }()

	chunk := chunks.Get().(*[]byte)
	defer chunks.Put(chunk)
	buf := *chunk

	var total int64
	for {
		n, err := r.Read(buf)
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				return total, &FileCopyError{Phase: PhaseWrite, Source: src, Destination: dst, Err: werr}
			}
			total += int64(n)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return total, &FileCopyError{Phase: PhaseRead, Source: src, Destination: dst, Err: err}
		}
	}

	if err := w.Flush(); err != nil {
		return total, &FileCopyError{Phase: PhaseFlush, Source: src, Destination: dst, Err: err}
	}
	closed = true
	if err := out.Close(); err != nil {
		return total, &FileCopyError{Phase: PhaseFlush, Source: src, Destination: dst, Err: err}
	}

	return total, nil
}

// diagnose prints where and as whom a failed open was attempted, in debug mode only
func (e *Engine) diagnose(dst string) {
	if !e.cfg.Debug {
		return
	}
	wd, err := os.Getwd()
	if err != nil {
		wd = "unknown (" + err.Error() + ")"
	}
	e.console.Diagnostic(
		"Destination path: "+dst,
		"Current user: "+currentUser(),
		"Current directory: "+wd,
	)
}

func currentUser() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	for _, key := range []string{"USERNAME", "USER"} {
		if name := os.Getenv(key); name != "" {
			return name
		}
	}
	return "unknown"
}
