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

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/fastcp/pkg/config"
)

type result struct {
	code   int
	stdout string
	stderr string
}

func invoke(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })
	t.Setenv(config.EnvConfigFile, "")

	var out, errOut bytes.Buffer
	code := run(args, strings.NewReader(stdin), &out, &errOut)
	return result{code: code, stdout: out.String(), stderr: errOut.String()}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestRunArgs(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		wantCode    int
		errContains string
		outContains string
	}{
		{
			name:        "no_arguments",
			args:        nil,
			wantCode:    1,
			errContains: "accepts 2 arg(s), received 0",
		},
		{
			name:        "too_many_arguments",
			args:        []string{"a", "b", "c"},
			wantCode:    1,
			errContains: "accepts 2 arg(s), received 3",
		},
		{
			name:        "negative_threads",
			args:        []string{"--threads=-1", "a", "b"},
			wantCode:    1,
			errContains: "threads must be zero (automatic) or positive",
		},
		{
			name:        "bad_exclude",
			args:        []string{"--exclude", "[", "a", "b"},
			wantCode:    1,
			errContains: "invalid exclude pattern",
		},
		{
			name:        "version",
			args:        []string{"--version"},
			wantCode:    0,
			outContains: "🚀 fastcp",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := invoke(t, "", tt.args...)
			assert.Equal(t, tt.wantCode, res.code)
			if tt.errContains != "" {
				assert.Contains(t, res.stderr, tt.errContains)
			}
			if tt.outContains != "" {
				assert.Contains(t, res.stdout, tt.outContains)
			}
		})
	}
}

func TestRunRecursiveCopy(t *testing.T) {
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "dst")
	writeFile(t, filepath.Join(src, "a.txt"), "hello")
	writeFile(t, filepath.Join(src, "sub", "b.txt"), "world")

	res := invoke(t, "", "-r", "-t", "3", src, dst)
	require.Equal(t, 0, res.code, res.stderr)

	assert.Equal(t, "hello", readFile(t, filepath.Join(dst, "a.txt")))
	assert.Equal(t, "world", readFile(t, filepath.Join(dst, "sub", "b.txt")))
	assert.Contains(t, res.stdout, "Source storage type: ")
	assert.Contains(t, res.stdout, "Using 3 threads for copying")
}

func TestRunDirectoryWithoutRecursive(t *testing.T) {
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "a.txt"), "hello")

	res := invoke(t, "", src, filepath.Join(t.TempDir(), "dst"))
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "use -r to copy recursively")
}

func TestRunExistingDestination(t *testing.T) {
	tests := []struct {
		name     string
		flags    []string
		stdin    string
		wantCode int
		want     string
		contains string
	}{
		{name: "default_refuses", wantCode: 1, want: "old", contains: "already exists"},
		{name: "no_clobber", flags: []string{"-n"}, want: "old"},
		{name: "force", flags: []string{"-f"}, want: "new"},
		{name: "interactive_yes", flags: []string{"-i"}, stdin: "y\n", want: "new"},
		{name: "interactive_no", flags: []string{"-i"}, stdin: "n\n", want: "old"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			src := filepath.Join(dir, "src.txt")
			dst := filepath.Join(dir, "dst.txt")
			writeFile(t, src, "new")
			writeFile(t, dst, "old")

			res := invoke(t, tt.stdin, append(tt.flags, src, dst)...)
			assert.Equal(t, tt.wantCode, res.code, res.stderr)
			assert.Equal(t, tt.want, readFile(t, dst))
			if tt.contains != "" {
				assert.Contains(t, res.stderr, tt.contains)
			}
		})
	}
}

func TestRunConfigFile(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		content  string
		flags    []string
		viaEnv   bool
		wantCode int
		threads  string
	}{
		{
			name:    "yaml_enables_recursive",
			file:    "fastcp.yaml",
			content: "recursive: true\nthreads: 3\n",
			threads: "Using 3 threads for copying",
		},
		{
			name:    "flag_overrides_file",
			file:    "fastcp.hcl",
			content: "recursive = true\nthreads = 3\n",
			flags:   []string{"-t", "5"},
			threads: "Using 5 threads for copying",
		},
		{
			name:    "json_from_environment",
			file:    "fastcp.json",
			content: `{"recursive": true, "threads": 2}`,
			viaEnv:  true,
			threads: "Using 2 threads for copying",
		},
		{
			name:     "unknown_key",
			file:     "fastcp.yaml",
			content:  "recursive: true\ncolour: blue\n",
			wantCode: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := t.TempDir()
			writeFile(t, filepath.Join(src, "a.txt"), "hello")
			dst := filepath.Join(t.TempDir(), "dst")

			cfgPath := filepath.Join(t.TempDir(), tt.file)
			writeFile(t, cfgPath, tt.content)

			color.NoColor = true
			t.Cleanup(func() { color.NoColor = false })

			args := append([]string{}, tt.flags...)
			if tt.viaEnv {
				t.Setenv(config.EnvConfigFile, cfgPath)
			} else {
				t.Setenv(config.EnvConfigFile, "")
				args = append(args, "--config", cfgPath)
			}
			args = append(args, src, dst)

			var out, errOut bytes.Buffer
			code := run(args, strings.NewReader(""), &out, &errOut)
			require.Equal(t, tt.wantCode, code, errOut.String())
			if tt.wantCode != 0 {
				return
			}

			assert.Contains(t, out.String(), tt.threads)
			assert.Equal(t, "hello", readFile(t, filepath.Join(dst, "a.txt")))
		})
	}
}

func TestReportPanic(t *testing.T) {
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	var quiet bytes.Buffer
	reportPanic(&quiet, "secret detail", false)
	assert.Contains(t, quiet.String(), "An unexpected error occurred:")
	assert.Contains(t, quiet.String(), "Run with --debug for more information.")
	assert.NotContains(t, quiet.String(), "secret detail")

	var loud bytes.Buffer
	reportPanic(&loud, "secret detail", true)
	assert.Contains(t, loud.String(), "secret detail")
	assert.NotContains(t, loud.String(), "Run with --debug")
}

func TestGetVersionInfo(t *testing.T) {
	info := GetVersionInfo()
	assert.NotEmpty(t, info.Version)
	assert.NotEmpty(t, info.GoVersion)
	assert.Contains(t, FormatVersion(), info.Platform)
}
