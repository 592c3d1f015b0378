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
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPendingWaitReturnsAtZero(t *testing.T) {
	p := NewPending()
	p.Add(3)

	released := make(chan struct{})
	go func() {
		p.Wait()
		close(released)
	}()

	p.Done()
	p.Done()
	select {
	case <-released:
		t.Fatal("wait returned with items outstanding")
	case <-time.After(20 * time.Millisecond):
	}

	p.Done()
	select {
	case <-released:
	case <-time.After(time.Second):
		t.Fatal("wait did not return after the final done")
	}
	assert.Zero(t, p.Count())
}

func TestPendingWaitOnEmpty(t *testing.T) {
	p := NewPending()
	p.Wait()
	assert.Zero(t, p.Count())
}

func TestPendingConcurrent(t *testing.T) {
	p := NewPending()
	p.Add(1000)

	var wg sync.WaitGroup
	for i := 0; i < 1000; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.Done()
		}()
	}

	p.Wait()
	wg.Wait()
	assert.Zero(t, p.Count())
}

func TestPendingNegativePanics(t *testing.T) {
	p := NewPending()
	assert.Panics(t, func() { p.Done() })
}
