// SPDX-License-Identifier: MPL-2.0

package hook

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"instdirs-cli/pkg/types"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

type (
	// RunOptions configures one hook script execution.
	RunOptions struct {
		// Name labels the script in parse error positions (e.g. "install hook").
		Name string
		// Dir is the working directory; empty means the current directory.
		Dir string
		// Env entries are appended to the inherited process environment.
		Env []string
		// Stdin, Stdout, and Stderr are the script's standard streams.
		// Nil values fall back to the process streams.
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
	}

	// ExitStatusError reports a hook script that ran to completion but
	// exited non-zero.
	ExitStatusError struct {
		Name   string
		Status types.ExitCode
	}
)

// Error implements the error interface.
func (e *ExitStatusError) Error() string {
	return fmt.Sprintf("%s exited with status %d", e.Name, e.Status)
}

// RunScript parses and executes a POSIX shell script in-process. Parse
// errors surface before any part of the script runs; a non-zero exit maps
// to an ExitStatusError carrying the status.
func RunScript(ctx context.Context, script string, opts RunOptions) error {
	name := opts.Name
	if name == "" {
		name = "hook script"
	}

	prog, err := syntax.NewParser().Parse(strings.NewReader(script), name)
	if err != nil {
		return fmt.Errorf("%s has a syntax error: %w", name, err)
	}

	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	env := append(os.Environ(), opts.Env...)
	runner, err := interp.New(
		interp.Dir(opts.Dir),
		interp.Env(expand.ListEnviron(env...)),
		interp.StdIO(opts.Stdin, opts.Stdout, opts.Stderr),
	)
	if err != nil {
		return fmt.Errorf("failed to set up shell interpreter for %s: %w", name, err)
	}

	if err := runner.Run(ctx, prog); err != nil {
		var status interp.ExitStatus
		if errors.As(err, &status) {
			return &ExitStatusError{Name: name, Status: types.ExitCode(status)}
		}
		return fmt.Errorf("%s failed: %w", name, err)
	}
	return nil
}
