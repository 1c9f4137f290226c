// SPDX-License-Identifier: MPL-2.0

package directives

import (
	"errors"
	"fmt"

	"instdirs-cli/pkg/types"
)

var (
	// ErrNotInstalled is the sentinel error wrapped by NotInstalledError.
	ErrNotInstalled = errors.New("package is not installed")

	// ErrConfiguration is the sentinel error wrapped by ConfigurationError.
	ErrConfiguration = errors.New("invalid directives configuration")
)

type (
	// NotInstalledError is returned by Uninstall when the package has no
	// recorded install state. It signals a usage/sequencing error (install
	// was never run), not a broken install or uninstall.
	NotInstalledError struct {
		Package  types.PackageName
		StateDir string
	}

	// InstallFailure wraps any error raised while running the install phase.
	// By the time it is returned, the partially-created state directory has
	// already been rolled back (best effort).
	InstallFailure struct {
		Package types.PackageName
		Cause   error
	}

	// UninstallFailure wraps any error raised while running the uninstall
	// phase. No rollback is attempted: whatever state the failure left
	// behind stays on disk.
	UninstallFailure struct {
		Package types.PackageName
		Cause   error
	}

	// ConfigurationError reports an invalid directives setup: a malformed
	// manifest, a package name mismatch, or a dependency cycle among build
	// artifacts. It always aborts before any state is mutated.
	ConfigurationError struct {
		Reason string
		Cause  error
	}
)

// Error implements the error interface.
func (e *NotInstalledError) Error() string {
	return fmt.Sprintf("package %q is not installed (no state at %s)", e.Package, e.StateDir)
}

// Unwrap returns ErrNotInstalled so callers can use errors.Is for programmatic detection.
func (e *NotInstalledError) Unwrap() error { return ErrNotInstalled }

// Error implements the error interface.
func (e *InstallFailure) Error() string {
	return fmt.Sprintf("install of package %q failed: %v; you may need to manually intervene to remove leftover pieces", e.Package, e.Cause)
}

// Unwrap returns the original cause so errors.Is/As can walk the chain.
func (e *InstallFailure) Unwrap() error { return e.Cause }

// Error implements the error interface.
func (e *UninstallFailure) Error() string {
	return fmt.Sprintf("uninstall of package %q failed: %v; you may need to manually intervene to remove leftover pieces", e.Package, e.Cause)
}

// Unwrap returns the original cause so errors.Is/As can walk the chain.
func (e *UninstallFailure) Unwrap() error { return e.Cause }

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid directives configuration: %s: %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("invalid directives configuration: %s", e.Reason)
}

// Unwrap returns the wrapped errors so both errors.Is(err, ErrConfiguration)
// and cause-chain inspection work.
func (e *ConfigurationError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrConfiguration, e.Cause}
	}
	return []error{ErrConfiguration}
}
