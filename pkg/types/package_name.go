// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidPackageName is the sentinel error wrapped by InvalidPackageNameError.
var ErrInvalidPackageName = errors.New("invalid package name")

type (
	// PackageName represents a normalized package name. Distribution
	// tooling treats dashes and underscores interchangeably, so names
	// are stored in their underscore form and used verbatim as state
	// directory components.
	PackageName string

	// InvalidPackageNameError is returned when a PackageName value is
	// empty, whitespace-only, or unusable as a directory component.
	InvalidPackageNameError struct {
		Value PackageName
	}
)

// NormalizePackageName converts a raw package name to its canonical
// underscore form ("my-pkg" and "my_pkg" normalize identically).
func NormalizePackageName(s string) PackageName {
	return PackageName(strings.ReplaceAll(strings.TrimSpace(s), "-", "_"))
}

// String returns the string representation of the PackageName.
func (n PackageName) String() string { return string(n) }

// IsValid returns whether the PackageName is valid. A valid name is
// non-empty, contains no whitespace or path separators, and is not a
// relative path component ("." or "..").
func (n PackageName) IsValid() (bool, []error) {
	s := string(n)
	if strings.TrimSpace(s) == "" {
		return false, []error{&InvalidPackageNameError{Value: n}}
	}
	if strings.ContainsAny(s, " \t\n/\\") || s == "." || s == ".." {
		return false, []error{&InvalidPackageNameError{Value: n}}
	}
	return true, nil
}

// Error implements the error interface for InvalidPackageNameError.
func (e *InvalidPackageNameError) Error() string {
	return fmt.Sprintf("invalid package name %q: must be non-empty and contain no whitespace or path separators", e.Value)
}

// Unwrap returns ErrInvalidPackageName for errors.Is() compatibility.
func (e *InvalidPackageNameError) Unwrap() error { return ErrInvalidPackageName }
