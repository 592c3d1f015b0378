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

package operation_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/fastcp/pkg/config"
	"github.com/walteh/fastcp/pkg/copier"
	"github.com/walteh/fastcp/pkg/log"
	"github.com/walteh/fastcp/pkg/operation"
	"github.com/walteh/fastcp/pkg/status"
	"github.com/walteh/fastcp/pkg/storage"
	"gitlab.com/tozd/go/errors"
)

// 🧪 rootVolume reports a single volume mounted at / with the given kind
type rootVolume storage.Class

func (r rootVolume) Volumes(context.Context) ([]storage.Volume, error) {
	return []storage.Volume{{Mountpoint: "/", Device: "/dev/fastcptest", Kind: storage.Class(r)}}, nil
}

type harness struct {
	ctx    context.Context
	out    *bytes.Buffer
	errOut *bytes.Buffer
	tally  *status.Tally
}

func newHarness(t *testing.T) *harness {
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	return &harness{
		ctx:    zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background()),
		out:    &bytes.Buffer{},
		errOut: &bytes.Buffer{},
		tally:  status.NewTally(),
	}
}

func (h *harness) run(src, dst string, cfg config.Options, kind storage.Class) error {
	return operation.Run(h.ctx, operation.Options{
		Source:      src,
		Destination: dst,
		Config:      cfg,
		Console:     log.New(h.out, h.errOut, zerolog.Nop()),
		Classifier:  &storage.Classifier{Source: rootVolume(kind)},
		CPUs:        2,
		Tally:       h.tally,
	})
}

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func read(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestRunRecursiveTree(t *testing.T) {
	h := newHarness(t)
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "dst")
	write(t, filepath.Join(src, "a.txt"), "hello")
	write(t, filepath.Join(src, "sub", "b.txt"), "world")

	require.NoError(t, h.run(src, dst, config.Options{Recursive: true}, storage.SolidState))

	assert.Equal(t, "hello", read(t, filepath.Join(dst, "a.txt")))
	assert.Equal(t, "world", read(t, filepath.Join(dst, "sub", "b.txt")))
	assert.Equal(t, int64(2), h.tally.Count(status.OutcomeCopied))

	assert.Contains(t, h.out.String(), "Source storage type: SSD")
	assert.Contains(t, h.out.String(), "Destination storage type: SSD")
	assert.Contains(t, h.out.String(), "Using 4 threads for copying")
}

func TestRunThreadPlanning(t *testing.T) {
	tests := []struct {
		name     string
		kind     storage.Class
		override int
		want     string
	}{
		{name: "ssd_to_ssd", kind: storage.SolidState, want: "Using 4 threads for copying"},
		{name: "hdd_to_hdd", kind: storage.Rotating, want: "Using 1 threads for copying"},
		{name: "unknown", kind: storage.Unknown, want: "Using 2 threads for copying"},
		{name: "override", kind: storage.SolidState, override: 7, want: "Using 7 threads for copying"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			src := filepath.Join(t.TempDir(), "a.txt")
			write(t, src, "x")

			cfg := config.Options{Threads: tt.override}
			require.NoError(t, h.run(src, filepath.Join(t.TempDir(), "b.txt"), cfg, tt.kind))
			assert.Contains(t, h.out.String(), tt.want)
		})
	}
}

func TestRunDirectoryRequiresRecursive(t *testing.T) {
	h := newHarness(t)
	src := t.TempDir()
	write(t, filepath.Join(src, "a.txt"), "hello")
	dst := filepath.Join(t.TempDir(), "dst")

	err := h.run(src, dst, config.Options{}, storage.SolidState)
	require.Error(t, err)
	assert.True(t, errors.Is(err, operation.ErrNotRecursive))

	_, statErr := os.Stat(dst)
	assert.True(t, os.IsNotExist(statErr), "nothing is created")
}

func TestRunDestinationInsideSource(t *testing.T) {
	h := newHarness(t)
	src := t.TempDir()
	write(t, filepath.Join(src, "a.txt"), "hello")

	for _, dst := range []string{src, filepath.Join(src, "nested", "copy")} {
		err := h.run(src, dst, config.Options{Recursive: true, Force: true}, storage.SolidState)
		require.Error(t, err)
		assert.True(t, errors.Is(err, operation.ErrDestinationInsideSource), dst)
	}
	assert.Equal(t, "hello", read(t, filepath.Join(src, "a.txt")))
}

func TestRunSingleFile(t *testing.T) {
	tests := []struct {
		name      string
		cfg       config.Options
		existing  *string
		intoDir   bool
		wantErr   error
		wantFinal string
	}{
		{
			name:      "fresh_destination",
			wantFinal: "new",
		},
		{
			name:      "into_existing_directory",
			intoDir:   true,
			wantFinal: "new",
		},
		{
			name:      "default_refuses_overwrite",
			existing:  ptr("old"),
			wantErr:   copier.ErrAlreadyExists,
			wantFinal: "old",
		},
		{
			name:      "no_clobber_keeps_destination",
			cfg:       config.Options{NoClobber: true},
			existing:  ptr("old"),
			wantFinal: "old",
		},
		{
			name:      "force_overwrites",
			cfg:       config.Options{Force: true},
			existing:  ptr("old"),
			wantFinal: "new",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			dir := t.TempDir()
			src := filepath.Join(dir, "src", "file.txt")
			write(t, src, "new")

			dst := filepath.Join(dir, "dst", "file.txt")
			require.NoError(t, os.MkdirAll(filepath.Dir(dst), 0o755))
			target := dst
			if tt.intoDir {
				target = filepath.Dir(dst)
			}
			if tt.existing != nil {
				write(t, dst, *tt.existing)
			}

			err := h.run(src, target, tt.cfg, storage.SolidState)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
				assert.Equal(t, int64(1), h.tally.Count(status.OutcomeFailed))
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantFinal, read(t, dst))
		})
	}
}

func TestRunTreeCountsFileFailures(t *testing.T) {
	h := newHarness(t)
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "dst")
	write(t, filepath.Join(src, "a.txt"), "new")
	write(t, filepath.Join(src, "b.txt"), "new")
	write(t, filepath.Join(dst, "a.txt"), "old")

	require.NoError(t, h.run(src, dst, config.Options{Recursive: true}, storage.SolidState))

	assert.Equal(t, "old", read(t, filepath.Join(dst, "a.txt")))
	assert.Equal(t, int64(1), h.tally.Count(status.OutcomeFailed))
	assert.Equal(t, int64(1), h.tally.Count(status.OutcomeCopied))
	assert.Contains(t, h.errOut.String(), "Error copying ")
}

func TestRunSingleFileOntoItself(t *testing.T) {
	h := newHarness(t)
	src := filepath.Join(t.TempDir(), "a.txt")
	write(t, src, "precious")

	err := h.run(src, src, config.Options{Force: true}, storage.SolidState)
	require.Error(t, err)
	assert.True(t, errors.Is(err, copier.ErrSameFile))
	assert.Equal(t, "precious", read(t, src))
	assert.Equal(t, int64(1), h.tally.Count(status.OutcomeFailed))
}

func TestRunUsesContextConsole(t *testing.T) {
	h := newHarness(t)
	src := filepath.Join(t.TempDir(), "a.txt")
	write(t, src, "hello")
	dst := filepath.Join(t.TempDir(), "b.txt")

	ctx := log.NewContext(h.ctx, log.New(h.out, h.errOut, zerolog.Nop()))
	err := operation.Run(ctx, operation.Options{
		Source:      src,
		Destination: dst,
		Config:      config.Options{Verbose: true},
		Classifier:  &storage.Classifier{Source: rootVolume(storage.SolidState)},
		CPUs:        1,
	})
	require.NoError(t, err)

	assert.Contains(t, h.out.String(), "Using 2 threads for copying")
	assert.Contains(t, h.out.String(), "Copied: "+src+" -> "+dst)
}

func TestRunMissingSource(t *testing.T) {
	h := newHarness(t)
	dir := t.TempDir()

	err := h.run(filepath.Join(dir, "absent"), filepath.Join(dir, "dst"), config.Options{}, storage.SolidState)
	require.Error(t, err)

	var pathErr *storage.PathResolutionError
	assert.True(t, errors.As(err, &pathErr))
	assert.Empty(t, h.out.String(), "nothing is printed before classification succeeds")
}

func TestRunVerboseSummary(t *testing.T) {
	h := newHarness(t)
	src := t.TempDir()
	write(t, filepath.Join(src, "a.txt"), "hello")
	write(t, filepath.Join(src, "skip.tmp"), "nope")
	dst := filepath.Join(t.TempDir(), "dst")

	cfg := config.Options{Recursive: true, Verbose: true, Exclude: []string{"*.tmp"}}
	require.NoError(t, h.run(src, dst, cfg, storage.Rotating))

	out := h.out.String()
	assert.Contains(t, out, "Copied: ")
	assert.Contains(t, out, "copied")
	assert.Contains(t, out, "bytes written")
	assert.Equal(t, int64(1), h.tally.Count(status.OutcomeCopied))

	_, err := os.Stat(filepath.Join(dst, "skip.tmp"))
	assert.True(t, os.IsNotExist(err))
}

func ptr(s string) *string {
	return &s
}
