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
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/fastcp/pkg/config"
	"github.com/walteh/fastcp/pkg/log"
	"github.com/walteh/fastcp/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

// 🔧 rootOpts holds the parsed flags, then the merged options for the run
type rootOpts struct {
	config.Options

	configFile string

	// classifier and cpus are replaced in tests
	classifier operation.Classifier
	cpus       int
}

func newRootCmd(opts *rootOpts, stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fastcp [flags] SOURCE DESTINATION",
		Short: "Copy files and directory trees with storage-aware concurrency",
		Long: `fastcp copies a file or a directory tree using a pool of workers sized
for the storage behind the source and the destination.

Defaults may be read from a YAML, HCL or JSON file given with --config or
the ` + config.EnvConfigFile + ` environment variable. Flags set on the command line win.`,
		Args:          cobra.ExactArgs(2),
		Version:       FormatVersion(),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// arguments parsed, so later failures are not usage errors
			cmd.SilenceUsage = true
			return opts.run(cmd, args[0], args[1], stdin, stdout, stderr)
		},
	}
	cmd.SetVersionTemplate("{{.Version}}")
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	addFlags(cmd, opts)
	return cmd
}

func addFlags(cmd *cobra.Command, opts *rootOpts) {
	f := cmd.Flags()
	f.IntVarP(&opts.Threads, "threads", "t", 0, "number of worker threads (0 picks from the storage type)")
	f.BoolVarP(&opts.Archive, "archive", "a", false, "accepted for cp compatibility, has no effect")
	f.BoolVarP(&opts.Backup, "backup", "b", false, "accepted for cp compatibility, has no effect")
	f.BoolVarP(&opts.NoDereference, "no-dereference", "d", false, "accepted for cp compatibility, has no effect")
	f.BoolVarP(&opts.Force, "force", "f", false, "overwrite existing files without asking")
	f.BoolVarP(&opts.Interactive, "interactive", "i", false, "ask before overwriting existing files")
	f.BoolVarP(&opts.Link, "link", "l", false, "accepted for cp compatibility, has no effect")
	f.BoolVarP(&opts.NoClobber, "no-clobber", "n", false, "never overwrite existing files")
	f.BoolVarP(&opts.NoDereferenceSymlinks, "no-dereference-symlinks", "P", false, "accepted for cp compatibility, has no effect")
	f.BoolVarP(&opts.Preserve, "preserve", "p", false, "accepted for cp compatibility, has no effect")
	f.BoolVarP(&opts.Recursive, "recursive", "r", false, "copy directories recursively")
	f.BoolVarP(&opts.SymbolicLink, "symbolic-link", "s", false, "accepted for cp compatibility, has no effect")
	f.BoolVarP(&opts.Update, "update", "u", false, "copy only when the source is newer than the destination")
	f.BoolVarP(&opts.Verbose, "verbose", "v", false, "report every copied file and print a summary")
	f.BoolVarP(&opts.OneFileSystem, "one-file-system", "x", false, "accepted for cp compatibility, has no effect")
	f.BoolVar(&opts.Debug, "debug", false, "enable debug logging and diagnostics")
	f.StringArrayVar(&opts.Exclude, "exclude", nil, "skip paths matching this glob, relative to the source (repeatable)")
	f.StringVar(&opts.configFile, "config", "", "defaults file (.yaml, .yml, .hcl, .json or .fastcp)")
}

// run merges the defaults file under the flags and copies source to destination
func (o *rootOpts) run(cmd *cobra.Command, source, destination string, stdin io.Reader, stdout, stderr io.Writer) error {
	ctx := newLogger(stderr, o.Debug).WithContext(cmd.Context())

	if path := config.ResolvePath(o.configFile); path != "" {
		file, err := config.LoadFile(ctx, path)
		if err != nil {
			return errors.Errorf("loading %s: %w", path, err)
		}
		o.Options = o.Options.Merge(file, cmd.Flags().Changed)
		// the file may have turned on debug
		ctx = newLogger(stderr, o.Debug).WithContext(ctx)
	}

	if err := o.Validate(); err != nil {
		return errors.Errorf("invalid options: %w", err)
	}

	zlog := zerolog.Ctx(ctx)
	zlog.Debug().Interface("options", o.Options).Str("source", source).Str("destination", destination).Msg("starting copy")

	console := log.New(stdout, stderr, *zlog).WithInput(stdin)
	ctx = log.NewContext(ctx, console)

	return operation.Run(ctx, operation.Options{
		Source:      source,
		Destination: destination,
		Config:      o.Options,
		Console:     console,
		Classifier:  o.classifier,
		CPUs:        o.cpus,
	})
}

func newLogger(w io.Writer, debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w}).Level(level).With().Timestamp().Logger()
}
