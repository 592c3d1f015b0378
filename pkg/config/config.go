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

package config

import (
	"context"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"
)

// 🔌 Parser is the interface for defaults file parsers
type Parser interface {
	// 📝 Parse parses the options from bytes
	Parse(ctx context.Context, filename string, data []byte) (*Options, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 🔧 Options is the copy policy for one run. It is built once at startup and
// only ever read afterwards, so it is safe to share between workers.
type Options struct {
	// Threads overrides the planned worker count. Zero means automatic.
	Threads int `json:"threads,omitempty" yaml:"threads,omitempty" hcl:"threads,optional"`

	Force       bool `json:"force,omitempty" yaml:"force,omitempty" hcl:"force,optional"`
	Interactive bool `json:"interactive,omitempty" yaml:"interactive,omitempty" hcl:"interactive,optional"`
	NoClobber   bool `json:"no_clobber,omitempty" yaml:"no_clobber,omitempty" hcl:"no_clobber,optional"`
	Update      bool `json:"update,omitempty" yaml:"update,omitempty" hcl:"update,optional"`
	Verbose     bool `json:"verbose,omitempty" yaml:"verbose,omitempty" hcl:"verbose,optional"`
	Debug       bool `json:"debug,omitempty" yaml:"debug,omitempty" hcl:"debug,optional"`
	Recursive   bool `json:"recursive,omitempty" yaml:"recursive,omitempty" hcl:"recursive,optional"`

	// Exclude holds doublestar globs matched against paths relative to the source root.
	Exclude []string `json:"exclude,omitempty" yaml:"exclude,omitempty" hcl:"exclude,optional"`

	// Accepted for compatibility with cp. None of these change how files are copied.
	Archive               bool `json:"archive,omitempty" yaml:"archive,omitempty" hcl:"archive,optional"`
	Backup                bool `json:"backup,omitempty" yaml:"backup,omitempty" hcl:"backup,optional"`
	NoDereference         bool `json:"no_dereference,omitempty" yaml:"no_dereference,omitempty" hcl:"no_dereference,optional"`
	Link                  bool `json:"link,omitempty" yaml:"link,omitempty" hcl:"link,optional"`
	NoDereferenceSymlinks bool `json:"no_dereference_symlinks,omitempty" yaml:"no_dereference_symlinks,omitempty" hcl:"no_dereference_symlinks,optional"`
	Preserve              bool `json:"preserve,omitempty" yaml:"preserve,omitempty" hcl:"preserve,optional"`
	SymbolicLink          bool `json:"symbolic_link,omitempty" yaml:"symbolic_link,omitempty" hcl:"symbolic_link,optional"`
	OneFileSystem         bool `json:"one_file_system,omitempty" yaml:"one_file_system,omitempty" hcl:"one_file_system,optional"`
}

// ✅ Validate checks the options for values that cannot be acted on
func (o *Options) Validate() error {
	if o.Threads < 0 {
		return errors.Errorf("threads must be zero (automatic) or positive, got %d", o.Threads)
	}
	for _, pattern := range o.Exclude {
		if strings.TrimSpace(pattern) == "" {
			return errors.New("exclude pattern is empty")
		}
		if !doublestar.ValidatePattern(pattern) {
			return errors.Errorf("invalid exclude pattern %q", pattern)
		}
	}
	return nil
}

// 🔀 Merge layers file defaults under o. A value from o wins when changed
// reports that its flag was set explicitly. Exclude patterns from both sources
// are kept, file patterns first.
func (o Options) Merge(file *Options, changed func(flag string) bool) Options {
	if file == nil {
		return o
	}

	out := o
	if !changed("threads") {
		out.Threads = file.Threads
	}

	bools := []struct {
		flag string
		dst  *bool
		src  bool
	}{
		{"force", &out.Force, file.Force},
		{"interactive", &out.Interactive, file.Interactive},
		{"no-clobber", &out.NoClobber, file.NoClobber},
		{"update", &out.Update, file.Update},
		{"verbose", &out.Verbose, file.Verbose},
		{"debug", &out.Debug, file.Debug},
		{"recursive", &out.Recursive, file.Recursive},
		{"archive", &out.Archive, file.Archive},
		{"backup", &out.Backup, file.Backup},
		{"no-dereference", &out.NoDereference, file.NoDereference},
		{"link", &out.Link, file.Link},
		{"no-dereference-symlinks", &out.NoDereferenceSymlinks, file.NoDereferenceSymlinks},
		{"preserve", &out.Preserve, file.Preserve},
		{"symbolic-link", &out.SymbolicLink, file.SymbolicLink},
		{"one-file-system", &out.OneFileSystem, file.OneFileSystem},
	}
	for _, b := range bools {
		if !changed(b.flag) {
			*b.dst = b.src
		}
	}

	out.Exclude = append(append([]string{}, file.Exclude...), o.Exclude...)
	return out
}

// 💤 InertFlags returns the names of the accepted-but-inert flags that are set
func (o *Options) InertFlags() []string {
	var set []string
	for _, f := range []struct {
		name string
		on   bool
	}{
		{"archive", o.Archive},
		{"backup", o.Backup},
		{"no-dereference", o.NoDereference},
		{"link", o.Link},
		{"no-dereference-symlinks", o.NoDereferenceSymlinks},
		{"preserve", o.Preserve},
		{"symbolic-link", o.SymbolicLink},
		{"one-file-system", o.OneFileSystem},
	} {
		if f.on {
			set = append(set, f.name)
		}
	}
	return set
}
