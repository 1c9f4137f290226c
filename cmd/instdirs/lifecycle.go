// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"instdirs-cli/internal/config"
	"instdirs-cli/internal/container"
	"instdirs-cli/internal/hook"
	"instdirs-cli/internal/images"
	"instdirs-cli/internal/pkginfo"
	"instdirs-cli/pkg/directives"
	"instdirs-cli/pkg/directivesfile"
	"instdirs-cli/pkg/types"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

// runLifecycle is the root command handler: it assembles the lifecycle engine
// for <package> and runs the requested action against it.
func runLifecycle(cmd *cobra.Command, args []string) error {
	action, err := types.ParseAction(args[1])
	if err != nil {
		return asExitError(err)
	}

	pkg := types.NormalizePackageName(args[0])
	if ok, errs := pkg.IsValid(); !ok {
		return asExitError(errs[0])
	}

	ctx := cmd.Context()
	cfg, err := loadConfig(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))
		return &ExitError{Code: ExitConfiguration, Err: err}
	}

	logger := newLogger(cfg)
	engine, err := assembleEngine(ctx, cfg, logger, pkg, args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))
		return asExitError(err)
	}

	switch action {
	case types.ActionInstall:
		err = engine.Install(ctx)
	case types.ActionUninstall:
		err = engine.Uninstall(ctx)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))
		return asExitError(err)
	}

	fmt.Println(SuccessStyle.Render("✓ ") + string(action) + " directives completed for " + HighlightStyle.Render(string(pkg)))
	return nil
}

// loadConfig loads the application config, honoring the --config flag.
func loadConfig(ctx context.Context) (*config.Config, error) {
	return config.NewProvider().Load(ctx, config.LoadOptions{ConfigFilePath: cfgFile})
}

// newLogger builds the log handle shared by the whole lifecycle run. The
// --verbose flag switches it to debug level.
func newLogger(cfg *config.Config) *log.Logger {
	opts := log.Options{ReportTimestamp: false}
	if verbose {
		opts.Level = log.DebugLevel
	}
	logger := log.NewWithOptions(os.Stderr, opts)
	if cfg.NoColor {
		logger.SetColorProfile(termenv.Ascii)
		lipgloss.SetColorProfile(termenv.Ascii)
	}
	return logger
}

// assembleEngine wires one package's lifecycle: metadata snapshot, manifest,
// container engine (only when the manifest needs one), image manager, hook
// composition, and finally the directives engine itself.
func assembleEngine(ctx context.Context, cfg *config.Config, logger *log.Logger, pkg types.PackageName, rawName string) (*directives.Engine, error) {
	provider := pkginfo.NewPipProvider(cfg.Python.Interpreter())
	info, err := provider.Show(ctx, rawName)
	if err != nil {
		return nil, err
	}
	logger.Debug("package metadata snapshot taken",
		"package", info.Name, "version", info.Version, "location", info.Location)

	manifest, err := directivesfile.Load(directivesfile.DefaultPath(info.Location, pkg), pkg)
	if err != nil {
		return nil, err
	}
	if manifest == nil {
		logger.Debug("no directives manifest, using defaults", "package", pkg)
		manifest = directivesfile.Default()
	}

	stateRoot, err := cfg.StateRoot.Resolve()
	if err != nil {
		return nil, err
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	dataDir := manifest.ResolveDataDir(home, pkg)

	var manager *images.Manager
	if manifest.NeedsEngine() {
		engine, err := newContainerEngine(cfg.Engine, logger)
		if err != nil {
			return nil, err
		}
		logger.Debug("container engine selected", "engine", engine.Name())

		var artifacts []images.Artifact
		if manifest.HasImages() {
			artifacts, err = images.Discover(manifest.ImagesContextDir(), manifest.Images.Names)
			if err != nil {
				return nil, err
			}
		}
		manager = images.NewManager(engine, pkg, info.Version, artifacts,
			images.WithLogger(logger),
			images.WithBuildOutput(os.Stdout, os.Stderr))
	}

	hooks := hook.NewLifecycleHooks(hook.Config{
		Package:  pkg,
		Location: filepath.Join(info.Location, string(pkg)),
		StateDir: filepath.Join(stateRoot, string(pkg)),
		DataDir:  dataDir,
		Manifest: manifest,
		Images:   manager,
		Logger:   logger,
		Stdin:    os.Stdin,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
	})

	return directives.NewEngine(pkg, info.Version, stateRoot,
		directives.WithHooks(hooks),
		directives.WithDataDir(dataDir),
		directives.WithLogger(logger))
}

// newContainerEngine maps the configured engine preference to a live engine
// handle, warning when the preference could not be honored.
func newContainerEngine(preference config.Engine, logger *log.Logger) (container.Engine, error) {
	switch preference {
	case config.EngineDocker, config.EnginePodman:
		engine, fellBack, err := container.NewEngine(container.EngineType(preference))
		if err != nil {
			return nil, err
		}
		if fellBack {
			logger.Warn("preferred container engine unavailable, using fallback",
				"preferred", preference.String(), "selected", engine.Name())
		}
		return engine, nil
	default:
		return container.AutoDetectEngine()
	}
}
