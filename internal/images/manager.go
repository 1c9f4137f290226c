// SPDX-License-Identifier: MPL-2.0

package images

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"instdirs-cli/internal/container"
	"instdirs-cli/pkg/types"

	"github.com/charmbracelet/log"
)

const (
	// buildMaxAttempts bounds retries of transient engine build failures.
	buildMaxAttempts = 3
	// buildRetryBackoff is the base backoff between build retries.
	buildRetryBackoff = 2 * time.Second
)

type (
	// Manager drives the image and secret lifecycle for one package at one
	// version. It holds no persistent state: the artifact set and its build
	// order are re-derived on every invocation.
	Manager struct {
		engine    container.Engine
		pkg       types.PackageName
		version   string
		artifacts []Artifact
		logger    *log.Logger
		buildOut  io.Writer
		buildErr  io.Writer
		prompt    SecretPromptFunc

		buildAttempts int
		buildBackoff  time.Duration
	}

	// ManagerOption configures a Manager.
	ManagerOption func(*Manager)

	// SecretPromptFunc asks the user for a secret value. Implementations
	// must not echo the entered value.
	SecretPromptFunc func(name string) (string, error)
)

// WithLogger sets the logger the manager reports through.
func WithLogger(logger *log.Logger) ManagerOption {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithBuildOutput directs engine build output to the given writers.
func WithBuildOutput(stdout, stderr io.Writer) ManagerOption {
	return func(m *Manager) {
		m.buildOut = stdout
		m.buildErr = stderr
	}
}

// WithSecretPrompt replaces the interactive secret prompt. Tests use this to
// avoid reading from a terminal.
func WithSecretPrompt(prompt SecretPromptFunc) ManagerOption {
	return func(m *Manager) {
		if prompt != nil {
			m.prompt = prompt
		}
	}
}

// NewManager creates a Manager for the given package, version, and artifact
// set. An empty artifact set is permitted: secret operations still work, and
// BuildAll/RemoveAll report the usage error when called.
func NewManager(engine container.Engine, pkg types.PackageName, version string, artifacts []Artifact, opts ...ManagerOption) *Manager {
	m := &Manager{
		engine:    engine,
		pkg:       pkg,
		version:   version,
		artifacts: artifacts,
		logger:    log.New(io.Discard),
		buildOut:  os.Stdout,
		buildErr:  os.Stderr,
		prompt:    promptSecretValue,

		buildAttempts: buildMaxAttempts,
		buildBackoff:  buildRetryBackoff,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// versionedTag returns the "{name}:{version}" tag for an artifact.
func (m *Manager) versionedTag(name string) container.ImageTag {
	return container.ImageTag(fmt.Sprintf("%s:%s", name, m.version))
}

// BuildAll builds every artifact in dependency order. Each image is built as
// "{name}:{version}" and then additionally tagged "{name}" pointing at the
// same build. A package with no artifacts is a caller-usage error.
func (m *Manager) BuildAll(ctx context.Context) error {
	if len(m.artifacts) == 0 {
		return &NoImagesConfiguredError{Package: m.pkg}
	}

	order, err := BuildOrder(m.artifacts)
	if err != nil {
		return err
	}

	for _, artifact := range order {
		tag := m.versionedTag(artifact.Name)
		m.logger.Info("building image", "image", tag, "context", artifact.ContextDir)

		opts := container.BuildOptions{
			ContextDir: artifact.ContextDir,
			Tag:        tag,
			Stdout:     m.buildOut,
			Stderr:     m.buildErr,
		}
		err := container.RetryWithBackoff(ctx, m.buildAttempts, m.buildBackoff, func(attempt int) (bool, error) {
			buildErr := m.engine.Build(ctx, opts)
			if buildErr == nil {
				return false, nil
			}
			if container.IsTransientError(buildErr) {
				m.logger.Warn("transient build failure, retrying",
					"image", tag, "attempt", attempt, "error", buildErr)
				return true, buildErr
			}
			return false, buildErr
		})
		if err != nil {
			return fmt.Errorf("failed to build image %q: %w", tag, err)
		}
		if err := m.engine.Tag(ctx, tag, container.ImageTag(artifact.Name)); err != nil {
			return fmt.Errorf("failed to tag image %q as %q: %w", tag, artifact.Name, err)
		}
	}
	return nil
}

// RemoveAll force-removes every artifact's versioned image in reverse
// dependency order. An image whose tag cannot be resolved is skipped with a
// warning so one missing image never aborts the remaining teardown.
func (m *Manager) RemoveAll(ctx context.Context) error {
	if len(m.artifacts) == 0 {
		return &NoImagesConfiguredError{Package: m.pkg}
	}

	order, err := BuildOrder(m.artifacts)
	if err != nil {
		return err
	}

	for i := len(order) - 1; i >= 0; i-- {
		tag := m.versionedTag(order[i].Name)

		id, err := m.engine.ResolveImageID(ctx, tag)
		if err != nil {
			if errors.Is(err, container.ErrImageNotFound) {
				m.logger.Warn("image not found, skipping removal", "image", tag)
				continue
			}
			return fmt.Errorf("failed to resolve image %q: %w", tag, err)
		}

		m.logger.Info("removing image", "image", tag, "id", id)
		if err := m.engine.RemoveImage(ctx, id, true); err != nil {
			return fmt.Errorf("failed to remove image %q: %w", tag, err)
		}
	}
	return nil
}

// SetSecret creates the named engine-level secret. An existing secret is
// either a fatal SecretExistsError or a warn-and-return no-op depending on
// errorIfExists; in both cases the existing value is left untouched. An
// empty value triggers an interactive masked prompt.
func (m *Manager) SetSecret(ctx context.Context, name, value string, errorIfExists bool) error {
	secretName := container.SecretName(name)
	if err := secretName.Validate(); err != nil {
		return err
	}

	exists, err := m.engine.SecretExists(ctx, secretName)
	if err != nil {
		return fmt.Errorf("failed to check secret %q: %w", name, err)
	}
	if exists {
		if errorIfExists {
			return &SecretExistsError{Name: name}
		}
		m.logger.Warn("secret already exists, leaving it unchanged", "secret", name)
		return nil
	}

	if value == "" {
		value, err = m.prompt(name)
		if err != nil {
			return fmt.Errorf("failed to read value for secret %q: %w", name, err)
		}
	}

	m.logger.Info("creating secret", "secret", name)
	return m.engine.CreateSecret(ctx, secretName, strings.NewReader(value))
}

// RemoveSecret removes the named engine-level secret. A missing secret is
// either a fatal SecretNotFoundError or a warn-and-return no-op depending on
// errorIfNotExists.
func (m *Manager) RemoveSecret(ctx context.Context, name string, errorIfNotExists bool) error {
	secretName := container.SecretName(name)
	if err := secretName.Validate(); err != nil {
		return err
	}

	exists, err := m.engine.SecretExists(ctx, secretName)
	if err != nil {
		return fmt.Errorf("failed to check secret %q: %w", name, err)
	}
	if !exists {
		if errorIfNotExists {
			return &SecretNotFoundError{Name: name}
		}
		m.logger.Warn("secret not found, nothing to remove", "secret", name)
		return nil
	}

	m.logger.Info("removing secret", "secret", name)
	return m.engine.RemoveSecret(ctx, secretName)
}
