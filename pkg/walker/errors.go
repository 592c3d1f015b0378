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
)

// 📁 DirOp names the directory operation that failed
type DirOp string

const (
	DirOpCreate DirOp = "create"
	DirOpList   DirOp = "list"
)

// ❌ DirectoryError is fatal for the directory subtree it occurred in
type DirectoryError struct {
	Op   DirOp
	Path string
	Err  error
}

func (e *DirectoryError) Error() string {
	return fmt.Sprintf("%s directory %s: %v", e.Op, e.Path, e.Err)
}

func (e *DirectoryError) Unwrap() error {
	return e.Err
}
