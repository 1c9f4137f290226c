// SPDX-License-Identifier: MPL-2.0

package hook

import (
	"context"
	"fmt"
	"io"

	"instdirs-cli/internal/images"
	"instdirs-cli/pkg/directivesfile"
	"instdirs-cli/pkg/types"

	"github.com/charmbracelet/log"
)

type (
	// LifecycleHooks implements the directives.Hooks interface from a
	// package's manifest: each phase runs the manifest's hook script first,
	// then the image lifecycle, then the secret lifecycle. Any failing step
	// aborts the phase.
	LifecycleHooks struct {
		pkg      types.PackageName
		location string
		stateDir string
		dataDir  string
		manifest *directivesfile.Manifest
		images   *images.Manager
		logger   *log.Logger
		stdin    io.Reader
		stdout   io.Writer
		stderr   io.Writer
	}

	// Config assembles a LifecycleHooks.
	Config struct {
		// Package is the normalized package name.
		Package types.PackageName
		// Location is the package's install location; hook scripts run there.
		Location string
		// StateDir and DataDir are exposed to hook scripts via the
		// environment. DataDir may be empty (unmanaged).
		StateDir string
		DataDir  string
		// Manifest drives which steps run. Required.
		Manifest *directivesfile.Manifest
		// Images must be set when Manifest.NeedsEngine() is true.
		Images *images.Manager
		// Logger reports step progress. Optional.
		Logger *log.Logger
		// Stdin, Stdout, and Stderr are passed through to hook scripts.
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
	}
)

// NewLifecycleHooks builds the hook pair for one package from its manifest.
func NewLifecycleHooks(cfg Config) *LifecycleHooks {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &LifecycleHooks{
		pkg:      cfg.Package,
		location: cfg.Location,
		stateDir: cfg.StateDir,
		dataDir:  cfg.DataDir,
		manifest: cfg.Manifest,
		images:   cfg.Images,
		logger:   logger,
		stdin:    cfg.Stdin,
		stdout:   cfg.Stdout,
		stderr:   cfg.Stderr,
	}
}

// OnInstall implements directives.Hooks: install script, then image builds,
// then secret provisioning. Secrets that already exist are warned about and
// left untouched (errorIfExists=false), so reinstalls stay idempotent.
func (h *LifecycleHooks) OnInstall(ctx context.Context, oldVersion, newVersion string) error {
	if script := h.manifest.Hooks.Install; script != "" {
		h.logger.Debug("running install hook script", "package", h.pkg)
		env := append(h.baseEnv(newVersion),
			"INSTDIRS_OLD_VERSION="+oldVersion,
			"INSTDIRS_NEW_VERSION="+newVersion,
		)
		if err := h.runScript(ctx, script, "install hook", env); err != nil {
			return err
		}
	}

	if h.manifest.HasImages() {
		if err := h.requireImages(); err != nil {
			return err
		}
		if err := h.images.BuildAll(ctx); err != nil {
			return err
		}
	}

	for _, secret := range h.manifest.Secrets {
		if err := h.requireImages(); err != nil {
			return err
		}
		if err := h.images.SetSecret(ctx, secret.Name, "", false); err != nil {
			return err
		}
	}
	return nil
}

// OnUninstall implements directives.Hooks: uninstall script, then image
// teardown, then removal of the secrets marked remove_on_uninstall. Missing
// secrets are warned about, not fatal (errorIfNotExists=false).
func (h *LifecycleHooks) OnUninstall(ctx context.Context, version string) error {
	if script := h.manifest.Hooks.Uninstall; script != "" {
		h.logger.Debug("running uninstall hook script", "package", h.pkg)
		if err := h.runScript(ctx, script, "uninstall hook", h.baseEnv(version)); err != nil {
			return err
		}
	}

	if h.manifest.HasImages() {
		if err := h.requireImages(); err != nil {
			return err
		}
		if err := h.images.RemoveAll(ctx); err != nil {
			return err
		}
	}

	for _, secret := range h.manifest.Secrets {
		if !secret.RemoveOnUninstall {
			continue
		}
		if err := h.requireImages(); err != nil {
			return err
		}
		if err := h.images.RemoveSecret(ctx, secret.Name, false); err != nil {
			return err
		}
	}
	return nil
}

func (h *LifecycleHooks) runScript(ctx context.Context, script, name string, env []string) error {
	return RunScript(ctx, script, RunOptions{
		Name:   name,
		Dir:    h.location,
		Env:    env,
		Stdin:  h.stdin,
		Stdout: h.stdout,
		Stderr: h.stderr,
	})
}

func (h *LifecycleHooks) baseEnv(version string) []string {
	return []string{
		"INSTDIRS_PACKAGE=" + string(h.pkg),
		"INSTDIRS_VERSION=" + version,
		"INSTDIRS_STATE_DIR=" + h.stateDir,
		"INSTDIRS_DATA_DIR=" + h.dataDir,
	}
}

func (h *LifecycleHooks) requireImages() error {
	if h.images == nil {
		return fmt.Errorf("package %q declares images or secrets but no container engine manager was provided", h.pkg)
	}
	return nil
}
