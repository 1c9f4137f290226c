// SPDX-License-Identifier: MPL-2.0

package directives

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"instdirs-cli/internal/pkginfo"
	"instdirs-cli/pkg/types"

	"github.com/charmbracelet/log"
)

type (
	// Engine runs one package through the install/uninstall lifecycle. It
	// owns the package's state directory for the duration of a single call
	// and assumes exclusive access to it (callers serialize per package).
	Engine struct {
		pkg       types.PackageName
		version   string
		stateRoot string
		dataDir   string // empty means no data directory is managed
		store     VersionStore
		hooks     Hooks
		logger    *log.Logger
	}

	// EngineOption configures an Engine.
	EngineOption func(*Engine)
)

// WithHooks sets the package-specific lifecycle hooks. The default is
// NoopHooks.
func WithHooks(h Hooks) EngineOption {
	return func(e *Engine) {
		if h != nil {
			e.hooks = h
		}
	}
}

// WithDataDir sets the managed data directory. It is created on install but
// deliberately NOT removed by install rollback (data is presumed precious);
// only a successful uninstall deletes it. An empty path disables data
// directory management.
func WithDataDir(dir string) EngineOption {
	return func(e *Engine) {
		e.dataDir = dir
	}
}

// WithLogger sets the logger handle the engine reports through. The engine
// never falls back to a package-global logger; without this option all
// output is discarded.
func WithLogger(logger *log.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine creates a lifecycle engine for one package at one version. The
// per-package state lives at <stateRoot>/<pkg>.
func NewEngine(pkg types.PackageName, version, stateRoot string, opts ...EngineOption) (*Engine, error) {
	if ok, errs := pkg.IsValid(); !ok {
		return nil, errs[0]
	}
	if version == "" {
		return nil, fmt.Errorf("package %q: version must not be empty", pkg)
	}
	if stateRoot == "" {
		return nil, fmt.Errorf("package %q: state root must not be empty", pkg)
	}

	e := &Engine{
		pkg:       pkg,
		version:   version,
		stateRoot: stateRoot,
		hooks:     NoopHooks{},
		logger:    log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// StateDir returns the per-package state directory.
func (e *Engine) StateDir() string {
	return filepath.Join(e.stateRoot, string(e.pkg))
}

// DataDir returns the managed data directory, or the empty string when no
// data directory is managed.
func (e *Engine) DataDir() string { return e.dataDir }

// Installed reports whether the package has install state on disk.
func (e *Engine) Installed() bool {
	info, err := os.Stat(e.StateDir())
	return err == nil && info.IsDir()
}

// InstalledVersion returns the recorded version, or the empty string when
// the package was never installed.
func (e *Engine) InstalledVersion() (string, error) {
	return e.store.Read(e.StateDir())
}

// Install runs the install phase: ensure the state directories exist, read
// the prior version, invoke the install hook, and persist the new version.
// Any failure rolls the state directory back (the data directory is kept)
// and is returned as an InstallFailure wrapping the cause.
func (e *Engine) Install(ctx context.Context) error {
	e.logger.Info("installing directives", "package", e.pkg, "version", e.version)

	if err := e.install(ctx); err != nil {
		e.logger.Error("install failed, rolling back state directory",
			"package", e.pkg, "state_dir", e.StateDir(), "error", err)
		if rmErr := os.RemoveAll(e.StateDir()); rmErr != nil {
			e.logger.Warn("rollback could not remove state directory",
				"state_dir", e.StateDir(), "error", rmErr)
		}
		return &InstallFailure{Package: e.pkg, Cause: err}
	}

	e.logger.Info("install directives completed", "package", e.pkg, "version", e.version)
	return nil
}

func (e *Engine) install(ctx context.Context) error {
	stateDir := e.StateDir()
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return fmt.Errorf("failed to create state directory %s: %w", stateDir, err)
	}
	e.logger.Debug("ensured state directory", "state_dir", stateDir)

	if e.dataDir != "" {
		if err := os.MkdirAll(e.dataDir, 0o755); err != nil {
			return fmt.Errorf("failed to create data directory %s: %w", e.dataDir, err)
		}
		e.logger.Debug("ensured data directory", "data_dir", e.dataDir)
	}

	oldVersion, err := e.store.Read(stateDir)
	if err != nil {
		return err
	}
	switch {
	case oldVersion == "":
		e.logger.Debug("first install", "version", e.version)
	case oldVersion == e.version:
		e.logger.Debug("no version change", "version", e.version)
	default:
		e.logger.Debug("version transition", "from", oldVersion, "to", e.version,
			"direction", transitionDirection(oldVersion, e.version))
	}

	if err := e.hooks.OnInstall(ctx, oldVersion, e.version); err != nil {
		return fmt.Errorf("install hook failed: %w", err)
	}

	return e.store.Write(stateDir, e.version)
}

// Uninstall runs the uninstall phase: invoke the uninstall hook, remove the
// data directory (when managed), and remove the state directory. A package
// with no install state fails with NotInstalledError before any hook runs.
// Unlike install, a failure here performs no rollback: partial state is left
// as-is and the returned UninstallFailure says manual intervention may be
// required.
func (e *Engine) Uninstall(ctx context.Context) error {
	stateDir := e.StateDir()
	if !e.Installed() {
		return &NotInstalledError{Package: e.pkg, StateDir: stateDir}
	}

	e.logger.Info("uninstalling directives", "package", e.pkg, "version", e.version)

	if err := e.uninstall(ctx); err != nil {
		e.logger.Error("uninstall failed, leaving partial state in place",
			"package", e.pkg, "state_dir", stateDir, "error", err)
		return &UninstallFailure{Package: e.pkg, Cause: err}
	}

	e.logger.Info("uninstall directives completed", "package", e.pkg)
	return nil
}

func (e *Engine) uninstall(ctx context.Context) error {
	if err := e.hooks.OnUninstall(ctx, e.version); err != nil {
		return fmt.Errorf("uninstall hook failed: %w", err)
	}

	if e.dataDir != "" {
		if _, err := os.Stat(e.dataDir); os.IsNotExist(err) {
			e.logger.Warn("data directory already absent", "data_dir", e.dataDir)
		} else if err := os.RemoveAll(e.dataDir); err != nil {
			return fmt.Errorf("failed to remove data directory %s: %w", e.dataDir, err)
		} else {
			e.logger.Debug("removed data directory", "data_dir", e.dataDir)
		}
	}

	if err := os.RemoveAll(e.StateDir()); err != nil {
		return fmt.Errorf("failed to remove state directory %s: %w", e.StateDir(), err)
	}
	e.logger.Debug("removed state directory", "state_dir", e.StateDir())
	return nil
}

// transitionDirection classifies a recorded-to-new version change for the
// transition log. Versions that do not parse as semver compare by string
// equality only, so an unrecognized change reports as an upgrade.
func transitionDirection(from, to string) string {
	switch c := pkginfo.CompareVersions(to, from); {
	case c > 0:
		return "upgrade"
	case c < 0:
		return "downgrade"
	default:
		return "unchanged"
	}
}
