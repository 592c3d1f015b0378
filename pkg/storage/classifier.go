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

package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/fastcp/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// 💽 Class is the coarse medium of the volume holding a path
type Class int

const (
	Unknown Class = iota
	SolidState
	Rotating
	Removable
)

// String returns a string representation of Class
func (c Class) String() string {
	switch c {
	case SolidState:
		return "SSD"
	case Rotating:
		return "HDD"
	case Removable:
		return "Removable"
	default:
		return "Unknown"
	}
}

// 📀 Volume is one mounted filesystem
type Volume struct {
	Mountpoint string
	Device     string
	Removable  bool
	// Kind is SolidState, Rotating or Unknown. It is never Removable.
	Kind Class
}

// 🔌 VolumeSource enumerates mounted volumes
type VolumeSource interface {
	Volumes(ctx context.Context) ([]Volume, error)
}

// ❌ PathResolutionError means a path could not be made canonical, usually
// because it does not exist
type PathResolutionError struct {
	Path string
	Err  error
}

func (e *PathResolutionError) Error() string {
	return "resolving path " + e.Path + ": " + e.Err.Error()
}

func (e *PathResolutionError) Unwrap() error {
	return e.Err
}

// 🔍 Classifier maps paths to storage classes
type Classifier struct {
	Source VolumeSource
}

// 🏭 NewClassifier creates a classifier backed by the host's mount table
func NewClassifier() *Classifier {
	return &Classifier{Source: NewSystemVolumes()}
}

// Classify resolves path and reports the class of the first volume, in
// enumeration order, whose mount point is a string prefix of the resolved
// path. No match is Unknown, not an error.
func (c *Classifier) Classify(ctx context.Context, path string) (Class, error) {
	canonical, err := Canonicalize(path)
	if err != nil {
		return Unknown, &PathResolutionError{Path: path, Err: err}
	}

	volumes, err := c.Source.Volumes(ctx)
	if err != nil {
		log.FromContext(ctx).Warning(fmt.Sprintf("Could not list mounted volumes, assuming unknown storage: %v", err))
		return Unknown, nil
	}

	for _, v := range volumes {
		if !strings.HasPrefix(canonical, v.Mountpoint) {
			continue
		}

		zerolog.Ctx(ctx).Debug().
			Str("path", canonical).
			Str("mountpoint", v.Mountpoint).
			Str("device", v.Device).
			Bool("removable", v.Removable).
			Stringer("kind", v.Kind).
			Msg("matched volume")

		if v.Removable {
			return Removable, nil
		}
		switch v.Kind {
		case SolidState, Rotating:
			return v.Kind, nil
		default:
			return Unknown, nil
		}
	}

	return Unknown, nil
}

// Canonicalize returns the absolute path with every symlink resolved. The
// path must exist.
func Canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Errorf("making path absolute: %w", err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", errors.Errorf("evaluating symlinks: %w", err)
	}
	return resolved, nil
}

// NearestExisting walks up from path until it finds something that exists.
// It is used to classify a destination that has not been created yet.
func NearestExisting(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Errorf("making path absolute: %w", err)
	}
	for {
		if _, err := os.Stat(abs); err == nil {
			return abs, nil
		}
		parent := filepath.Dir(abs)
		if parent == abs {
			return "", errors.Errorf("no existing ancestor of %s", path)
		}
		abs = parent
	}
}
