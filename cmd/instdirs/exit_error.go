// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"instdirs-cli/internal/container"
	"instdirs-cli/internal/pkginfo"
	"instdirs-cli/pkg/directives"
	"instdirs-cli/pkg/types"
)

// Exit codes distinguish failure classes so wrapping scripts can branch on
// them without parsing stderr.
const (
	// ExitFailure is the catch-all failure code.
	ExitFailure types.ExitCode = 1
	// ExitUsage signals bad arguments (unknown action, malformed package name).
	ExitUsage types.ExitCode = 2
	// ExitNotInstalled signals an uninstall without a prior install.
	ExitNotInstalled types.ExitCode = 3
	// ExitConfiguration signals an invalid manifest, config file, or artifact
	// dependency cycle.
	ExitConfiguration types.ExitCode = 4
	// ExitEngineUnavailable signals that a container engine was needed but
	// none is available.
	ExitEngineUnavailable types.ExitCode = 5
	// ExitPackageNotFound signals a package unknown to the package manager.
	ExitPackageNotFound types.ExitCode = 6
)

// ExitError signals a non-zero exit code without forcing os.Exit in RunE handlers.
type ExitError struct {
	Code types.ExitCode
	Err  error
}

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// exitCodeFor classifies an error into one of the typed exit codes.
func exitCodeFor(err error) types.ExitCode {
	switch {
	case errors.Is(err, types.ErrInvalidAction), errors.Is(err, types.ErrInvalidPackageName):
		return ExitUsage
	case errors.Is(err, pkginfo.ErrPackageNotFound):
		return ExitPackageNotFound
	case errors.Is(err, directives.ErrNotInstalled):
		return ExitNotInstalled
	case errors.Is(err, directives.ErrConfiguration):
		return ExitConfiguration
	case errors.Is(err, container.ErrNoEngineAvailable):
		return ExitEngineUnavailable
	default:
		return ExitFailure
	}
}

// asExitError wraps err with its classified exit code, preserving an existing
// ExitError untouched.
func asExitError(err error) error {
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return err
	}
	return &ExitError{Code: exitCodeFor(err), Err: err}
}
