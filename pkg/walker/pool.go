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
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/walteh/fastcp/pkg/log"
	"github.com/walteh/fastcp/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 🔌 Copier copies one file
type Copier interface {
	CopyFile(ctx context.Context, src, dst string) error
}

// 📄 WorkItem is one outstanding file copy
type WorkItem struct {
	Source      string
	Destination string

	pending *Pending
}

// 🔧 PoolOptions configures a Pool
type PoolOptions struct {
	Size    int
	Copier  Copier
	Console *log.Logger
	Tally   *status.Tally
}

// 🏊 Pool is a fixed set of workers draining one queue of work items.
// Items are delivered in the order they were submitted. A failed item is
// reported and counted, and never stops its worker.
type Pool struct {
	items   chan WorkItem
	copier  Copier
	console *log.Logger
	tally   *status.Tally
	size    int

	wg        sync.WaitGroup
	closeOnce sync.Once
}

// 🏭 NewPool starts opts.Size workers (at least one)
func NewPool(ctx context.Context, opts PoolOptions) *Pool {
	size := opts.Size
	if size < 1 {
		size = 1
	}
	console := opts.Console
	if console == nil {
		console = log.Discard()
	}

	p := &Pool{
		items:   make(chan WorkItem, size),
		copier:  opts.Copier,
		console: console,
		tally:   opts.Tally,
		size:    size,
	}

	p.wg.Add(size)
	for i := 0; i < size; i++ {
		go p.work(ctx, i)
	}

	zerolog.Ctx(ctx).Debug().Int("workers", size).Msg("started worker pool")
	return p
}

// Size returns the number of workers
func (p *Pool) Size() int {
	return p.size
}

// Submit enqueues an item, blocking while the queue is full. It must not be
// called after Close.
func (p *Pool) Submit(item WorkItem) {
	p.items <- item
}

// Close stops accepting items and waits for every worker to drain the queue and exit
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		close(p.items)
	})
	p.wg.Wait()
}

func (p *Pool) work(ctx context.Context, id int) {
	defer p.wg.Done()
	logger := zerolog.Ctx(ctx).With().Int("worker", id).Logger()

	for item := range p.items {
		p.handle(ctx, &logger, item)
	}
}

// handle copies one item, reports a failure, then marks the item done
func (p *Pool) handle(ctx context.Context, logger *zerolog.Logger, item WorkItem) {
	defer func() {
		if item.pending != nil {
			item.pending.Done()
		}
	}()

	if err := p.copy(ctx, item); err != nil {
		p.tally.Record(status.OutcomeFailed)
		p.console.Error(fmt.Sprintf("Error copying %s: %v", item.Source, err))
		logger.Debug().Err(err).Str("source", item.Source).Str("destination", item.Destination).Msg("copy failed")
	}
}

// copy turns a panic in a single copy into an error for that item
func (p *Pool) copy(ctx context.Context, item WorkItem) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("panic while copying: %v", r)
		}
	}()
	return p.copier.CopyFile(ctx, item.Source, item.Destination)
}
