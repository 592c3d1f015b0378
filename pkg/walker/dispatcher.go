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

package walker

import (
	"context"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/fastcp/pkg/log"
	"github.com/walteh/fastcp/pkg/status"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// 🔧 DispatcherOptions configures a Dispatcher
type DispatcherOptions struct {
	// Exclude holds doublestar globs matched against slash separated paths
	// relative to the walk root
	Exclude []string

	// MaxDescents bounds how many subdirectories are walked concurrently
	// across the whole tree. Defaults to the pool size.
	MaxDescents int

	// LevelDone, when set, is called after a directory's files have all
	// been handled, with the level's final pending count
	LevelDone func(dir string, pending int64)

	// Console and Tally receive per-file failure reports from the pool Walk builds
	Console *log.Logger
	Tally   *status.Tally
}

// 🚚 Dispatcher mirrors a directory tree and feeds its files to a shared pool
type Dispatcher struct {
	pool      *Pool
	exclude   []string
	descents  *semaphore.Weighted
	levelDone func(dir string, pending int64)
}

// 🏭 NewDispatcher creates a dispatcher that submits to pool
func NewDispatcher(pool *Pool, opts DispatcherOptions) *Dispatcher {
	maxDescents := opts.MaxDescents
	if maxDescents < 1 {
		maxDescents = pool.Size()
	}
	return &Dispatcher{
		pool:      pool,
		exclude:   opts.Exclude,
		descents:  semaphore.NewWeighted(int64(maxDescents)),
		levelDone: opts.LevelDone,
	}
}

// Walk copies the tree under src into dst. Only failures to create or list a
// directory are returned. File failures are reported by the pool.
func (d *Dispatcher) Walk(ctx context.Context, src, dst string) error {
	return d.walk(ctx, src, src, dst)
}

func (d *Dispatcher) walk(ctx context.Context, root, src, dst string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	logger := zerolog.Ctx(ctx).With().Str("dir", src).Logger()

	if err := os.MkdirAll(dst, 0o755); err != nil {
		logger.Debug().Err(err).Str("destination", dst).Msg("creating directory")
		return &DirectoryError{Op: DirOpCreate, Path: dst, Err: err}
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		logger.Debug().Err(err).Msg("reading directory")
		return &DirectoryError{Op: DirOpList, Path: src, Err: err}
	}

	pending := NewPending()
	g, gctx := errgroup.WithContext(ctx)
	var inlineErr error

	for _, entry := range entries {
		if gctx.Err() != nil {
			// a sibling subtree failed
			break
		}

		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		if d.excluded(root, srcPath) {
			logger.Debug().Str("path", srcPath).Msg("excluded")
			continue
		}

		if entry.IsDir() {
			if d.descents.TryAcquire(1) {
				g.Go(func() error {
					defer d.descents.Release(1)
					return d.walk(gctx, root, srcPath, dstPath)
				})
				continue
			}
			// every descent slot is busy, so walk this one here
			if err := d.walk(gctx, root, srcPath, dstPath); err != nil {
				inlineErr = err
				break
			}
			continue
		}

		pending.Add(1)
		d.pool.Submit(WorkItem{Source: srcPath, Destination: dstPath, pending: pending})
	}

	pending.Wait()
	if d.levelDone != nil {
		d.levelDone(src, pending.Count())
	}
	logger.Debug().Int("entries", len(entries)).Msg("directory level complete")

	if err := g.Wait(); err != nil {
		return err
	}
	return inlineErr
}

func (d *Dispatcher) excluded(root, path string) bool {
	if len(d.exclude) == 0 {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range d.exclude {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// Walk runs a whole tree copy with a pool of the given size and waits for it
// to finish
func Walk(ctx context.Context, src, dst string, copier Copier, threads int, opts DispatcherOptions) error {
	pool := NewPool(ctx, PoolOptions{
		Size:    threads,
		Copier:  copier,
		Console: opts.Console,
		Tally:   opts.Tally,
	})
	defer pool.Close()

	return NewDispatcher(pool, opts).Walk(ctx, src, dst)
}
