// SPDX-License-Identifier: MPL-2.0

package directives

import "context"

type (
	// Hooks is the package-specific extension point of the lifecycle engine.
	// OnInstall runs after the state directories exist and before the new
	// version is persisted; OnUninstall runs before the managed directories
	// are removed. Any error returned from either hook aborts the phase and
	// is wrapped into the corresponding lifecycle failure.
	Hooks interface {
		// OnInstall is invoked with the previously recorded version
		// (empty on first install) and the version being installed.
		OnInstall(ctx context.Context, oldVersion, newVersion string) error
		// OnUninstall is invoked with the version being uninstalled.
		OnUninstall(ctx context.Context, version string) error
	}

	// NoopHooks is the default Hooks implementation: both callbacks succeed
	// without doing anything.
	NoopHooks struct{}

	// HookFuncs adapts a pair of functions to the Hooks interface so callers
	// do not need to declare a named type. A nil function is a no-op.
	HookFuncs struct {
		Install   func(ctx context.Context, oldVersion, newVersion string) error
		Uninstall func(ctx context.Context, version string) error
	}
)

// OnInstall implements Hooks.
func (NoopHooks) OnInstall(context.Context, string, string) error { return nil }

// OnUninstall implements Hooks.
func (NoopHooks) OnUninstall(context.Context, string) error { return nil }

// OnInstall implements Hooks.
func (h HookFuncs) OnInstall(ctx context.Context, oldVersion, newVersion string) error {
	if h.Install == nil {
		return nil
	}
	return h.Install(ctx, oldVersion, newVersion)
}

// OnUninstall implements Hooks.
func (h HookFuncs) OnUninstall(ctx context.Context, version string) error {
	if h.Uninstall == nil {
		return nil
	}
	return h.Uninstall(ctx, version)
}
