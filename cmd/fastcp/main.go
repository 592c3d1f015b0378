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
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/fatih/color"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes one invocation and returns the process exit status
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) (code int) {
	opts := &rootOpts{}

	defer func() {
		if r := recover(); r != nil {
			reportPanic(stderr, r, opts.Debug)
			code = 1
		}
	}()

	cmd := newRootCmd(opts, stdin, stdout, stderr)
	cmd.SetArgs(args)

	if err := cmd.Execute(); err != nil {
		reportError(stderr, err, opts.Debug)
		return 1
	}
	return 0
}

func reportError(w io.Writer, err error, verbose bool) {
	fmt.Fprintln(w, color.New(color.FgRed).Sprintf("Error: %v", err))
	if verbose {
		fmt.Fprintf(w, "%+v\n", err)
	}
}

// reportPanic keeps the message generic unless debug output was asked for
func reportPanic(w io.Writer, r any, verbose bool) {
	fmt.Fprintln(w, color.New(color.FgRed).Sprint("An unexpected error occurred:"))
	if verbose {
		fmt.Fprintf(w, "%v\n%s", r, debug.Stack())
	} else {
		fmt.Fprintln(w, "Run with --debug for more information.")
	}
	fmt.Fprintln(w, color.New(color.FgYellow).Sprint("If you believe this is a bug in fastcp, please report it."))
}
