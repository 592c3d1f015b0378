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

package operation

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/fastcp/pkg/config"
	"github.com/walteh/fastcp/pkg/copier"
	"github.com/walteh/fastcp/pkg/log"
	"github.com/walteh/fastcp/pkg/status"
	"github.com/walteh/fastcp/pkg/storage"
	"github.com/walteh/fastcp/pkg/walker"
	"gitlab.com/tozd/go/errors"
)

var (
	// ErrNotRecursive is returned for a directory source when recursive copying is off
	ErrNotRecursive = errors.Base("source is a directory, use -r to copy recursively")

	// ErrDestinationInsideSource is returned when a tree would be copied into itself
	ErrDestinationInsideSource = errors.Base("destination is inside the source directory")

	// ErrNoBaseName is returned when a file source has no name to copy into a directory
	ErrNoBaseName = errors.Base("cannot determine the source file name")
)

// 🔍 Classifier reports the storage class of a path
type Classifier interface {
	Classify(ctx context.Context, path string) (storage.Class, error)
}

// 🔧 Options contains everything one run needs
type Options struct {
	Source      string
	Destination string

	// Config is the copy configuration, shared read-only by every worker
	Config config.Options

	// Console defaults to the logger carried by the context
	Console    *log.Logger
	Classifier Classifier

	// CPUs overrides the logical processor count used by the planner
	CPUs int

	// Tally collects per-file outcomes; one is created when nil
	Tally *status.Tally
}

// 🏃 Run copies opts.Source to opts.Destination
func Run(ctx context.Context, opts Options) error {
	logger := zerolog.Ctx(ctx).With().Str("source", opts.Source).Str("destination", opts.Destination).Logger()
	ctx = logger.WithContext(ctx)

	console := opts.Console
	if console == nil {
		console = log.FromContext(ctx)
	}
	ctx = log.NewContext(ctx, console)
	classifier := opts.Classifier
	if classifier == nil {
		classifier = storage.NewClassifier()
	}
	tally := opts.Tally
	if tally == nil {
		tally = status.NewTally()
	}

	srcClass, dstClass, err := classify(ctx, classifier, opts.Source, opts.Destination)
	if err != nil {
		return err
	}
	console.Info(fmt.Sprintf("Source storage type: %s", srcClass))
	console.Info(fmt.Sprintf("Destination storage type: %s", dstClass))

	cpus := opts.CPUs
	if cpus < 1 {
		cpus = storage.LogicalCPUs(ctx)
	}
	threads := storage.PlanThreads(srcClass, dstClass, opts.Config.Threads, cpus)
	console.Info(fmt.Sprintf("Using %d threads for copying", threads))

	if inert := opts.Config.InertFlags(); len(inert) > 0 {
		logger.Debug().Strs("flags", inert).Msg("accepted options that do not change copy behavior")
	}

	engine := copier.New(copier.Options{
		Config:  opts.Config,
		Console: console,
		Tally:   tally,
	})

	srcInfo, err := os.Stat(opts.Source)
	if err != nil {
		return errors.Errorf("stat source: %w", err)
	}

	if srcInfo.IsDir() {
		err = copyTree(ctx, opts, engine, console, tally, threads)
	} else {
		err = copySingle(ctx, opts, engine, tally)
	}

	if opts.Config.Verbose {
		summary, rerr := tally.Render()
		if rerr != nil {
			logger.Debug().Err(rerr).Msg("rendering summary")
		} else {
			console.Raw(summary)
		}
	}

	return err
}

func classify(ctx context.Context, c Classifier, src, dst string) (storage.Class, storage.Class, error) {
	srcClass, err := c.Classify(ctx, src)
	if err != nil {
		return storage.Unknown, storage.Unknown, errors.Errorf("classifying source: %w", err)
	}

	// the destination may not exist yet, so classify where it will be created
	target, err := storage.NearestExisting(dst)
	if err != nil {
		return storage.Unknown, storage.Unknown, &storage.PathResolutionError{Path: dst, Err: err}
	}
	dstClass, err := c.Classify(ctx, target)
	if err != nil {
		return storage.Unknown, storage.Unknown, errors.Errorf("classifying destination: %w", err)
	}

	return srcClass, dstClass, nil
}

func copyTree(ctx context.Context, opts Options, engine *copier.Engine, console *log.Logger, tally *status.Tally, threads int) error {
	if !opts.Config.Recursive {
		return errors.Errorf("%s: %w", opts.Source, ErrNotRecursive)
	}

	inside, err := insideSource(opts.Source, opts.Destination)
	if err != nil {
		return err
	}
	if inside {
		return errors.Errorf("%s into %s: %w", opts.Source, opts.Destination, ErrDestinationInsideSource)
	}

	err = walker.Walk(ctx, opts.Source, opts.Destination, engine, threads, walker.DispatcherOptions{
		Exclude: opts.Config.Exclude,
		Console: console,
		Tally:   tally,
	})
	if err != nil {
		return errors.Errorf("copying directory %s: %w", opts.Source, err)
	}
	return nil
}

func copySingle(ctx context.Context, opts Options, engine *copier.Engine, tally *status.Tally) error {
	dst := opts.Destination
	if info, err := os.Stat(dst); err == nil && info.IsDir() {
		base := filepath.Base(opts.Source)
		if base == "." || base == string(filepath.Separator) {
			return errors.Errorf("%s: %w", opts.Source, ErrNoBaseName)
		}
		dst = filepath.Join(dst, base)
	}

	if err := engine.CopyFile(ctx, opts.Source, dst); err != nil {
		tally.Record(status.OutcomeFailed)
		return err
	}
	return nil
}

// insideSource reports whether dst is src or lies beneath it once both are resolved
func insideSource(src, dst string) (bool, error) {
	root, err := storage.Canonicalize(src)
	if err != nil {
		return false, &storage.PathResolutionError{Path: src, Err: err}
	}

	target, err := resolveLoosely(dst)
	if err != nil {
		return false, &storage.PathResolutionError{Path: dst, Err: err}
	}

	rel, err := filepath.Rel(root, target)
	if err != nil {
		return false, nil
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))), nil
}

// resolveLoosely canonicalizes the existing part of path and appends the rest
func resolveLoosely(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Errorf("making path absolute: %w", err)
	}
	existing, err := storage.NearestExisting(abs)
	if err != nil {
		return "", err
	}
	resolved, err := storage.Canonicalize(existing)
	if err != nil {
		return "", err
	}
	rest, err := filepath.Rel(existing, abs)
	if err != nil {
		return "", errors.Errorf("relating %s to %s: %w", abs, existing, err)
	}
	return filepath.Join(resolved, rest), nil
}
