// SPDX-License-Identifier: MPL-2.0

package container

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"

	"instdirs-cli/internal/issue"
	"instdirs-cli/pkg/types"
)

var (
	// ErrInvalidImageTag is the sentinel error wrapped by InvalidImageTagError.
	ErrInvalidImageTag = errors.New("invalid image tag")

	// ErrInvalidImageID is the sentinel error wrapped by InvalidImageIDError.
	ErrInvalidImageID = errors.New("invalid image ID")

	// ErrInvalidSecretName is the sentinel error wrapped by InvalidSecretNameError.
	ErrInvalidSecretName = errors.New("invalid secret name")
)

// execCommand creates the exec.Cmd for every engine invocation. Tests swap
// this for a recorder so no real engine binary is spawned.
var execCommand ExecCommandFunc = exec.CommandContext

type (
	// ExecCommandFunc is the function signature for creating exec.Cmd.
	// This allows injection of mock implementations for testing.
	ExecCommandFunc func(ctx context.Context, name string, arg ...string) *exec.Cmd

	// BaseCLIEngineOption configures a BaseCLIEngine.
	BaseCLIEngineOption func(*BaseCLIEngine)

	// BaseCLIEngine provides common implementation for CLI-based container engines.
	// Docker and Podman engines embed this struct. Methods that are identical across
	// all CLI engines (Build, Tag, ResolveImageID, RemoveImage, and the secret
	// operations) are implemented here; engine-specific methods (Available, Version,
	// ImageExists) remain on the concrete types.
	BaseCLIEngine struct {
		name        string // Engine name for error messages (e.g., "docker", "podman")
		binaryPath  types.FilesystemPath
		execCommand ExecCommandFunc
	}

	// ImageTag represents an image reference in "name[:tag]" form.
	// A valid tag must be non-empty and contain no whitespace.
	ImageTag string

	// InvalidImageTagError is returned when an ImageTag is empty or contains whitespace.
	InvalidImageTagError struct {
		Value ImageTag
	}

	// ImageID represents a content-addressed image identifier as reported
	// by the engine (e.g., "sha256:abc..."). A valid ID must be non-empty.
	ImageID string

	// InvalidImageIDError is returned when an ImageID is empty or whitespace-only.
	InvalidImageIDError struct {
		Value ImageID
	}

	// SecretName represents the name of an engine-level secret.
	// A valid name must be non-empty and contain no whitespace.
	SecretName string

	// InvalidSecretNameError is returned when a SecretName is empty or contains whitespace.
	InvalidSecretNameError struct {
		Value SecretName
	}
)

// Error implements the error interface.
func (e *InvalidImageTagError) Error() string {
	return fmt.Sprintf("invalid image tag %q: must be non-empty and contain no whitespace", e.Value)
}

// Unwrap returns ErrInvalidImageTag so callers can use errors.Is for programmatic detection.
func (e *InvalidImageTagError) Unwrap() error { return ErrInvalidImageTag }

// Validate returns an error if the ImageTag is empty or contains whitespace.
func (t ImageTag) Validate() error {
	if strings.TrimSpace(string(t)) == "" || strings.ContainsAny(string(t), " \t\n") {
		return &InvalidImageTagError{Value: t}
	}
	return nil
}

// String returns the string representation of the ImageTag.
func (t ImageTag) String() string { return string(t) }

// Error implements the error interface.
func (e *InvalidImageIDError) Error() string {
	return fmt.Sprintf("invalid image ID %q: must be non-empty", e.Value)
}

// Unwrap returns ErrInvalidImageID so callers can use errors.Is for programmatic detection.
func (e *InvalidImageIDError) Unwrap() error { return ErrInvalidImageID }

// Validate returns an error if the ImageID is empty or whitespace-only.
func (i ImageID) Validate() error {
	if strings.TrimSpace(string(i)) == "" {
		return &InvalidImageIDError{Value: i}
	}
	return nil
}

// String returns the string representation of the ImageID.
func (i ImageID) String() string { return string(i) }

// Error implements the error interface.
func (e *InvalidSecretNameError) Error() string {
	return fmt.Sprintf("invalid secret name %q: must be non-empty and contain no whitespace", e.Value)
}

// Unwrap returns ErrInvalidSecretName so callers can use errors.Is for programmatic detection.
func (e *InvalidSecretNameError) Unwrap() error { return ErrInvalidSecretName }

// Validate returns an error if the SecretName is empty or contains whitespace.
func (n SecretName) Validate() error {
	if strings.TrimSpace(string(n)) == "" || strings.ContainsAny(string(n), " \t\n") {
		return &InvalidSecretNameError{Value: n}
	}
	return nil
}

// String returns the string representation of the SecretName.
func (n SecretName) String() string { return string(n) }

// --- Option Functions ---

// WithName sets the engine name used in error messages.
func WithName(name string) BaseCLIEngineOption {
	return func(e *BaseCLIEngine) {
		e.name = name
	}
}

// WithExecCommand sets a custom exec command function for testing.
func WithExecCommand(fn ExecCommandFunc) BaseCLIEngineOption {
	return func(e *BaseCLIEngine) {
		e.execCommand = fn
	}
}

// --- Constructor ---

// NewBaseCLIEngine creates a new base engine with the given binary path.
func NewBaseCLIEngine(binaryPath types.FilesystemPath, opts ...BaseCLIEngineOption) *BaseCLIEngine {
	e := &BaseCLIEngine{
		binaryPath:  binaryPath,
		execCommand: execCommand,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// --- Accessor Methods ---

// BinaryPath returns the path to the container engine binary.
func (e *BaseCLIEngine) BinaryPath() string {
	return string(e.binaryPath)
}

// --- Argument Builders ---

// BuildArgs constructs arguments for an image build command.
// Returns arguments in the order expected by docker/podman build.
//
// Generated command: <binary> build [options] <context>
func (e *BaseCLIEngine) BuildArgs(opts BuildOptions) []string {
	args := []string{"build"}

	if opts.Dockerfile != "" {
		// Resolve Dockerfile path relative to context directory.
		// If ContextDir is empty, the Dockerfile path is used as-is
		// (assumed resolvable from CWD by the container engine).
		dockerfilePath := opts.Dockerfile
		if !filepath.IsAbs(dockerfilePath) && opts.ContextDir != "" {
			dockerfilePath = filepath.Join(opts.ContextDir, dockerfilePath)
		}
		args = append(args, "-f", dockerfilePath)
	}

	if opts.Tag != "" {
		args = append(args, "-t", string(opts.Tag))
	}

	if opts.NoCache {
		args = append(args, "--no-cache")
	}

	for _, k := range slices.Sorted(maps.Keys(opts.BuildArgs)) {
		args = append(args, "--build-arg", fmt.Sprintf("%s=%s", k, opts.BuildArgs[k]))
	}

	args = append(args, opts.ContextDir)

	return args
}

// TagArgs constructs arguments for an image tag command.
func (e *BaseCLIEngine) TagArgs(source, target ImageTag) []string {
	return []string{"tag", string(source), string(target)}
}

// ResolveImageIDArgs constructs arguments for resolving a tag to an image ID.
func (e *BaseCLIEngine) ResolveImageIDArgs(image ImageTag) []string {
	return []string{"image", "inspect", "--format", "{{.Id}}", string(image)}
}

// RemoveImageArgs constructs arguments for an image remove command.
func (e *BaseCLIEngine) RemoveImageArgs(image ImageID, force bool) []string {
	args := []string{"rmi"}
	if force {
		args = append(args, "-f")
	}
	args = append(args, string(image))
	return args
}

// SecretInspectArgs constructs arguments for a secret existence check.
func (e *BaseCLIEngine) SecretInspectArgs(name SecretName) []string {
	return []string{"secret", "inspect", string(name)}
}

// SecretCreateArgs constructs arguments for a secret create command.
// The trailing "-" makes the engine read the secret value from stdin.
func (e *BaseCLIEngine) SecretCreateArgs(name SecretName) []string {
	return []string{"secret", "create", string(name), "-"}
}

// SecretRemoveArgs constructs arguments for a secret remove command.
func (e *BaseCLIEngine) SecretRemoveArgs(name SecretName) []string {
	return []string{"secret", "rm", string(name)}
}

// --- Command Execution ---

// RunCommand executes a command and returns its output.
// This is the low-level execution method used by concrete engines.
func (e *BaseCLIEngine) RunCommand(ctx context.Context, args ...string) ([]byte, error) {
	cmd := e.CreateCommand(ctx, args...)
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("command %s %v failed: %w", string(e.binaryPath), args, err)
	}
	return out, nil
}

// RunCommandCombined executes a command and returns combined stdout/stderr.
func (e *BaseCLIEngine) RunCommandCombined(ctx context.Context, args ...string) ([]byte, error) {
	cmd := e.CreateCommand(ctx, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return out, fmt.Errorf("command %s %v failed: %w", string(e.binaryPath), args, err)
	}
	return out, nil
}

// RunCommandStatus executes a command and returns only the error status.
func (e *BaseCLIEngine) RunCommandStatus(ctx context.Context, args ...string) error {
	cmd := e.CreateCommand(ctx, args...)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("command %s %v failed: %w", string(e.binaryPath), args, err)
	}
	return nil
}

// RunCommandWithOutput executes a command with stdout captured to a buffer.
func (e *BaseCLIEngine) RunCommandWithOutput(ctx context.Context, args ...string) (string, error) {
	cmd := e.CreateCommand(ctx, args...)
	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("command %s %v failed: %w", string(e.binaryPath), args, err)
	}

	return out.String(), nil
}

// CreateCommand creates an exec.Cmd for the given arguments.
// This is useful when the caller needs to customize stdin/stdout/stderr.
func (e *BaseCLIEngine) CreateCommand(ctx context.Context, args ...string) *exec.Cmd {
	return e.execCommand(ctx, string(e.binaryPath), args...)
}

// --- Promoted Engine Methods (shared by Docker and Podman) ---

// Build builds an image from a Dockerfile.
// It validates BuildOptions before executing to catch invalid fields early.
func (e *BaseCLIEngine) Build(ctx context.Context, opts BuildOptions) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	args := e.BuildArgs(opts)

	cmd := e.CreateCommand(ctx, args...)
	cmd.Stdout = opts.Stdout
	cmd.Stderr = opts.Stderr

	if err := cmd.Run(); err != nil {
		return buildContainerError(e.name, opts, err)
	}

	return nil
}

// Tag applies an additional tag to an existing image.
func (e *BaseCLIEngine) Tag(ctx context.Context, source, target ImageTag) error {
	if err := source.Validate(); err != nil {
		return err
	}
	if err := target.Validate(); err != nil {
		return err
	}
	return e.RunCommandStatus(ctx, e.TagArgs(source, target)...)
}

// ResolveImageID resolves an image tag to its content-addressed ID.
// An ImageNotFoundError is returned when the engine exits non-zero, which is
// how both docker and podman report an unknown tag to inspect.
func (e *BaseCLIEngine) ResolveImageID(ctx context.Context, image ImageTag) (ImageID, error) {
	if err := image.Validate(); err != nil {
		return "", err
	}

	out, err := e.RunCommandWithOutput(ctx, e.ResolveImageIDArgs(image)...)
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", &ImageNotFoundError{Image: image}
		}
		return "", err
	}

	id := ImageID(strings.TrimSpace(out))
	if id == "" {
		return "", &ImageNotFoundError{Image: image}
	}
	return id, nil
}

// RemoveImage removes an image by ID.
func (e *BaseCLIEngine) RemoveImage(ctx context.Context, image ImageID, force bool) error {
	if err := image.Validate(); err != nil {
		return err
	}
	return e.RunCommandStatus(ctx, e.RemoveImageArgs(image, force)...)
}

// SecretExists checks if an engine-level secret exists.
func (e *BaseCLIEngine) SecretExists(ctx context.Context, name SecretName) (bool, error) {
	if err := name.Validate(); err != nil {
		return false, err
	}
	err := e.RunCommandStatus(ctx, e.SecretInspectArgs(name)...)
	return err == nil, nil
}

// CreateSecret creates an engine-level secret, reading its value from r.
// The value travels over stdin so it never appears in process listings.
func (e *BaseCLIEngine) CreateSecret(ctx context.Context, name SecretName, r io.Reader) error {
	if err := name.Validate(); err != nil {
		return err
	}

	cmd := e.CreateCommand(ctx, e.SecretCreateArgs(name)...)
	cmd.Stdin = r
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			err = fmt.Errorf("%w: %s", err, msg)
		}
		return createSecretError(e.name, name, err)
	}
	return nil
}

// RemoveSecret removes an engine-level secret.
func (e *BaseCLIEngine) RemoveSecret(ctx context.Context, name SecretName) error {
	if err := name.Validate(); err != nil {
		return err
	}
	return e.RunCommandStatus(ctx, e.SecretRemoveArgs(name)...)
}

// --- Actionable Error Helpers ---

// buildContainerError creates an actionable error for image build failures.
func buildContainerError(engine string, opts BuildOptions, cause error) error {
	ctx := issue.NewErrorContext().
		WithOperation("build container image")

	// Determine resource (Dockerfile or image tag)
	switch {
	case opts.Dockerfile != "":
		ctx.WithResource(opts.Dockerfile)
	case opts.ContextDir != "":
		ctx.WithResource(opts.ContextDir + "/Dockerfile")
	case opts.Tag != "":
		ctx.WithResource(string(opts.Tag))
	}

	// Add suggestions based on common build issues
	ctx.WithSuggestion("Check Dockerfile syntax for errors")
	ctx.WithSuggestion("Verify the build context path exists and is accessible")
	ctx.WithSuggestion("Ensure base images are available (try: " + engine + " pull <base-image>)")
	ctx.WithSuggestion("Run with --verbose to see full build output")

	return ctx.Wrap(cause).BuildError()
}

// createSecretError creates an actionable error for secret create failures.
func createSecretError(engine string, name SecretName, cause error) error {
	ctx := issue.NewErrorContext().
		WithOperation("create engine secret").
		WithResource(string(name))

	ctx.WithSuggestion("Check that the " + engine + " daemon is running")
	if engine == "docker" {
		ctx.WithSuggestion("Docker secrets require swarm mode (try: docker swarm init)")
	}
	ctx.WithSuggestion("Verify a secret with this name does not already exist (try: " + engine + " secret ls)")

	return ctx.Wrap(cause).BuildError()
}
