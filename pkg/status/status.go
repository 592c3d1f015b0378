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

package status

import (
	"sync/atomic"
)

// 📊 Outcome is what happened to a single file
type Outcome int

const (
	OutcomeCopied         Outcome = iota // Destination written from source
	OutcomeSkipped                       // User declined the overwrite prompt
	OutcomeNotOverwritten                // Left alone because of no-clobber
	OutcomeNotUpdated                    // Destination already as new as source
	OutcomeFailed                        // Copy failed, error was logged

	numOutcomes
)

// String returns a string representation of Outcome
func (o Outcome) String() string {
	switch o {
	case OutcomeCopied:
		return "copied"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeNotOverwritten:
		return "not overwritten"
	case OutcomeNotUpdated:
		return "not updated"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// 🧮 Tally counts file outcomes for one run. It is safe for concurrent use,
// and a nil *Tally ignores every call.
type Tally struct {
	counts [numOutcomes]atomic.Int64
	bytes  atomic.Int64
}

// 🏭 NewTally creates an empty tally
func NewTally() *Tally {
	return &Tally{}
}

// Record counts one outcome
func (t *Tally) Record(o Outcome) {
	if t == nil || o < 0 || o >= numOutcomes {
		return
	}
	t.counts[o].Add(1)
}

// AddBytes adds to the number of bytes written
func (t *Tally) AddBytes(n int64) {
	if t == nil {
		return
	}
	t.bytes.Add(n)
}

// Count returns how many files ended with the given outcome
func (t *Tally) Count(o Outcome) int64 {
	if t == nil || o < 0 || o >= numOutcomes {
		return 0
	}
	return t.counts[o].Load()
}

// Bytes returns the number of bytes written
func (t *Tally) Bytes() int64 {
	if t == nil {
		return 0
	}
	return t.bytes.Load()
}

// Total returns the number of files seen across all outcomes
func (t *Tally) Total() int64 {
	var total int64
	for o := Outcome(0); o < numOutcomes; o++ {
		total += t.Count(o)
	}
	return total
}
