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
	"fmt"
	"sync"
	"sync/atomic"
)

// ⏳ Pending counts the work items of one directory level that have been
// enqueued but not yet handled. Wait returns once the count drops to zero.
type Pending struct {
	n    atomic.Int64
	mu   sync.Mutex
	cond *sync.Cond
}

// 🏭 NewPending creates a counter at zero
func NewPending() *Pending {
	p := &Pending{}
	p.cond = sync.NewCond(&p.mu)
	return p
}

// Add adjusts the count by delta. The count must never go negative.
func (p *Pending) Add(delta int64) {
	n := p.n.Add(delta)
	if n < 0 {
		panic(fmt.Sprintf("walker: pending count went negative (%d)", n))
	}
	if n == 0 {
		p.mu.Lock()
		p.cond.Broadcast()
		p.mu.Unlock()
	}
}

// Done marks one item as handled
func (p *Pending) Done() {
	p.Add(-1)
}

// Count returns the current number of outstanding items
func (p *Pending) Count() int64 {
	return p.n.Load()
}

// Wait blocks until the count is zero
func (p *Pending) Wait() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for p.n.Load() > 0 {
		p.cond.Wait()
	}
}
