// SPDX-License-Identifier: MPL-2.0

package container

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// Engine defines the interface for container engine operations used by the
// directive lifecycle: image builds, tag bookkeeping, and secret management.
type Engine interface {
	// Name returns the engine name (docker or podman)
	Name() string
	// Available checks if the engine is available on the system
	Available() bool
	// Version returns the engine version
	Version(ctx context.Context) (string, error)

	// Build builds an image from a Dockerfile
	Build(ctx context.Context, opts BuildOptions) error
	// Tag applies an additional tag to an existing image
	Tag(ctx context.Context, source, target ImageTag) error
	// ImageExists checks if an image exists
	ImageExists(ctx context.Context, image ImageTag) (bool, error)
	// ResolveImageID resolves an image tag to its content-addressed ID.
	// Returns an ImageNotFoundError if the tag is unknown to the engine.
	ResolveImageID(ctx context.Context, image ImageTag) (ImageID, error)
	// RemoveImage removes an image by ID
	RemoveImage(ctx context.Context, image ImageID, force bool) error

	// SecretExists checks if an engine-level secret exists
	SecretExists(ctx context.Context, name SecretName) (bool, error)
	// CreateSecret creates an engine-level secret, reading its value from r
	CreateSecret(ctx context.Context, name SecretName, r io.Reader) error
	// RemoveSecret removes an engine-level secret
	RemoveSecret(ctx context.Context, name SecretName) error
}

// BuildOptions contains options for building an image
type BuildOptions struct {
	// ContextDir is the build context directory
	ContextDir string
	// Dockerfile is the path to the Dockerfile (relative to ContextDir)
	Dockerfile string
	// Tag is the image tag
	Tag ImageTag
	// BuildArgs are build-time variables
	BuildArgs map[string]string
	// NoCache disables the build cache
	NoCache bool
	// Stdout is where to write build output
	Stdout io.Writer
	// Stderr is where to write build errors
	Stderr io.Writer
}

// Validate returns an error if the BuildOptions are unusable: the context
// directory must be set, and the tag (if any) must be well-formed.
func (o BuildOptions) Validate() error {
	var errs []error
	if o.ContextDir == "" {
		errs = append(errs, errors.New("build context directory must be set"))
	}
	if o.Tag != "" {
		if err := o.Tag.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// EngineType identifies the container engine type
type EngineType string

const (
	EngineTypeDocker EngineType = "docker"
	EngineTypePodman EngineType = "podman"
)

// ErrNoEngineAvailable is the sentinel error wrapped by EngineNotAvailableError.
var ErrNoEngineAvailable = errors.New("no container engine available")

// EngineNotAvailableError is returned when a container engine is not available
type EngineNotAvailableError struct {
	Engine string
	Reason string
}

// Error implements the error interface.
func (e *EngineNotAvailableError) Error() string {
	return fmt.Sprintf("container engine '%s' is not available: %s", e.Engine, e.Reason)
}

// Unwrap returns ErrNoEngineAvailable so callers can use errors.Is for programmatic detection.
func (e *EngineNotAvailableError) Unwrap() error { return ErrNoEngineAvailable }

// ErrImageNotFound is the sentinel error wrapped by ImageNotFoundError.
var ErrImageNotFound = errors.New("image not found")

// ImageNotFoundError is returned by ResolveImageID when the engine does not
// know the given tag. Callers that tolerate missing images check for it with
// errors.As or errors.Is(err, ErrImageNotFound).
type ImageNotFoundError struct {
	Image ImageTag
}

// Error implements the error interface.
func (e *ImageNotFoundError) Error() string {
	return fmt.Sprintf("image %q not found", e.Image)
}

// Unwrap returns ErrImageNotFound so callers can use errors.Is for programmatic detection.
func (e *ImageNotFoundError) Unwrap() error { return ErrImageNotFound }

// NewEngine creates a new container engine based on preference. When the
// preferred engine is unavailable the other engine is tried; the returned
// bool reports that a fallback happened so callers can warn about it.
func NewEngine(preferredType EngineType) (Engine, bool, error) {
	switch preferredType {
	case EngineTypeDocker:
		return selectWithFallback(NewDockerEngine(), NewPodmanEngine())
	case EngineTypePodman:
		return selectWithFallback(NewPodmanEngine(), NewDockerEngine())
	default:
		return nil, false, fmt.Errorf("unknown container engine type: %s", preferredType)
	}
}

// selectWithFallback picks the preferred engine when it is available and the
// fallback engine (flagged) when only that one is.
func selectWithFallback(preferred, fallback Engine) (Engine, bool, error) {
	if preferred.Available() {
		return preferred, false, nil
	}
	if fallback.Available() {
		return fallback, true, nil
	}
	return nil, false, &EngineNotAvailableError{
		Engine: preferred.Name(),
		Reason: fmt.Sprintf("%s is not installed or not accessible, and the %s fallback is also not available",
			preferred.Name(), fallback.Name()),
	}
}

// AutoDetectEngine tries to find an available container engine.
// Docker is tried first, then Podman.
func AutoDetectEngine() (Engine, error) {
	docker := NewDockerEngine()
	if docker.Available() {
		return docker, nil
	}

	podman := NewPodmanEngine()
	if podman.Available() {
		return podman, nil
	}

	return nil, &EngineNotAvailableError{
		Engine: "any",
		Reason: "no container engine (docker or podman) is available on this system",
	}
}
