// SPDX-License-Identifier: MPL-2.0

package images

import (
	"errors"
	"fmt"

	"instdirs-cli/pkg/types"
)

var (
	// ErrNoImagesConfigured is the sentinel error wrapped by NoImagesConfiguredError.
	ErrNoImagesConfigured = errors.New("no images configured")

	// ErrSecretExists is the sentinel error wrapped by SecretExistsError.
	ErrSecretExists = errors.New("secret already exists")

	// ErrSecretNotFound is the sentinel error wrapped by SecretNotFoundError.
	ErrSecretNotFound = errors.New("secret not found")
)

type (
	// NoImagesConfiguredError is returned when an image lifecycle operation
	// is invoked for a package that declares no build artifacts. This is a
	// caller-usage error, not a transient fault.
	NoImagesConfiguredError struct {
		Package types.PackageName
	}

	// SecretExistsError is returned by SetSecret when the secret already
	// exists and the caller asked for that to be fatal.
	SecretExistsError struct {
		Name string
	}

	// SecretNotFoundError is returned by RemoveSecret when the secret does
	// not exist and the caller asked for that to be fatal.
	SecretNotFoundError struct {
		Name string
	}
)

// Error implements the error interface.
func (e *NoImagesConfiguredError) Error() string {
	return fmt.Sprintf("package %q declares no build artifacts", e.Package)
}

// Unwrap returns ErrNoImagesConfigured so callers can use errors.Is for programmatic detection.
func (e *NoImagesConfiguredError) Unwrap() error { return ErrNoImagesConfigured }

// Error implements the error interface.
func (e *SecretExistsError) Error() string {
	return fmt.Sprintf("secret %q already exists", e.Name)
}

// Unwrap returns ErrSecretExists so callers can use errors.Is for programmatic detection.
func (e *SecretExistsError) Unwrap() error { return ErrSecretExists }

// Error implements the error interface.
func (e *SecretNotFoundError) Error() string {
	return fmt.Sprintf("secret %q not found", e.Name)
}

// Unwrap returns ErrSecretNotFound so callers can use errors.Is for programmatic detection.
func (e *SecretNotFoundError) Unwrap() error { return ErrSecretNotFound }
