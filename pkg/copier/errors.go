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
	"fmt"

	"gitlab.com/tozd/go/errors"
)

// ErrAlreadyExists is returned when the destination exists and neither
// force, interactive nor no-clobber allows deciding what to do with it
var ErrAlreadyExists = errors.Base("destination file already exists, use --force to overwrite")

// ErrSameFile is returned when the source and destination are the same file
var ErrSameFile = errors.Base("source and destination are the same file")

// 🏷️ Phase names the step of a copy that failed
type Phase string

const (
	PhaseStat        Phase = "stat"
	PhaseOpenSource  Phase = "open-source"
	PhaseCreateDest  Phase = "create-dest"
	PhaseRead        Phase = "read"
	PhaseWrite       Phase = "write"
	PhaseFlush       Phase = "flush"
	PhasePromptInput Phase = "prompt"
)

// ❌ FileCopyError is a failure confined to a single file
type FileCopyError struct {
	Phase       Phase
	Source      string
	Destination string
	Err         error
}

func (e *FileCopyError) Error() string {
	return fmt.Sprintf("%s %s -> %s: %v", e.Phase, e.Source, e.Destination, e.Err)
}

func (e *FileCopyError) Unwrap() error {
	return e.Err
}
