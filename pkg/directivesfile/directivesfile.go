// SPDX-License-Identifier: MPL-2.0

// Package directivesfile loads and validates per-package directives
// manifests.
//
// A package opts into lifecycle management by shipping a directives.cue file
// next to its code (at <install_location>/<package_name>/directives.cue).
// The manifest declares the data directory policy, auxiliary container
// images, engine-level secrets, and install/uninstall hook scripts. It is
// validated against an embedded CUE schema before use; a missing manifest is
// not an error and means all-default behavior.
package directivesfile

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"instdirs-cli/pkg/cueutil"
	"instdirs-cli/pkg/directives"
	"instdirs-cli/pkg/types"
)

// FileName is the manifest file name a package ships.
const FileName = "directives.cue"

// schemaPath is the root definition inside the embedded schema.
const schemaPath = "#Directives"

//go:embed directives_schema.cue
var directivesSchema []byte

type (
	// Manifest is the validated representation of a directives.cue file.
	Manifest struct {
		// Package optionally names the package the manifest belongs to.
		Package string `json:"package,omitempty"`
		// Data is the data directory policy.
		Data DataPolicy `json:"data"`
		// Images declares the auxiliary container images.
		Images ImagesSpec `json:"images"`
		// Secrets declares the engine-level secrets to provision.
		Secrets []SecretDecl `json:"secrets,omitempty"`
		// Hooks holds the install/uninstall shell scripts.
		Hooks HookScripts `json:"hooks"`

		// FilePath is where the manifest was loaded from. Empty for the
		// all-default manifest of packages that ship none.
		FilePath string `json:"-"`
	}

	// DataPolicy controls the managed data directory.
	DataPolicy struct {
		// Managed enables data directory management (default true).
		Managed bool `json:"managed"`
		// Dir overrides the default ~/.<package_name> location.
		Dir string `json:"dir,omitempty"`
	}

	// ImagesSpec declares the build artifacts of a package.
	ImagesSpec struct {
		// ContextDir holds one subdirectory per image, each with a
		// Dockerfile. Relative paths are resolved against the manifest's
		// directory.
		ContextDir string `json:"context_dir,omitempty"`
		// Names fixes the declaration order of the images. When empty, the
		// sorted subdirectories of ContextDir that contain a Dockerfile are
		// used.
		Names []string `json:"names,omitempty"`
	}

	// SecretDecl declares one engine-level secret.
	SecretDecl struct {
		// Name is the secret's engine-level name.
		Name string `json:"name"`
		// RemoveOnUninstall removes the secret during uninstall (default true).
		RemoveOnUninstall bool `json:"remove_on_uninstall"`
	}

	// HookScripts holds the POSIX shell hook scripts.
	HookScripts struct {
		Install   string `json:"install,omitempty"`
		Uninstall string `json:"uninstall,omitempty"`
	}
)

// Default returns the manifest used for packages that ship no directives.cue:
// a managed data directory, no images, no secrets, no-op hooks.
func Default() *Manifest {
	return &Manifest{Data: DataPolicy{Managed: true}}
}

// DefaultPath returns the conventional manifest location for a package
// installed at location.
func DefaultPath(location string, pkg types.PackageName) string {
	return filepath.Join(location, string(pkg), FileName)
}

// Load reads and validates the manifest at path for the given package. A
// missing file yields (nil, nil); callers substitute Default(). Schema
// violations and a package-name mismatch are configuration errors.
func Load(path string, pkg types.PackageName) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, &directives.ConfigurationError{
			Reason: fmt.Sprintf("unreadable directives manifest at %s", path),
			Cause:  err,
		}
	}

	result, err := cueutil.ParseAndDecode[Manifest](
		directivesSchema,
		data,
		schemaPath,
		cueutil.WithFilename(path),
		cueutil.WithConcrete(false),
	)
	if err != nil {
		return nil, &directives.ConfigurationError{
			Reason: "invalid directives manifest",
			Cause:  err,
		}
	}

	m := result.Value
	if m.Package != "" && types.NormalizePackageName(m.Package) != pkg {
		return nil, &directives.ConfigurationError{
			Reason: fmt.Sprintf("manifest at %s declares package %q, expected %q", path, m.Package, pkg),
		}
	}

	m.FilePath = path
	return m, nil
}

// HasImages reports whether the manifest declares an image build context.
func (m *Manifest) HasImages() bool {
	return m.Images.ContextDir != ""
}

// ImagesContextDir returns the absolute build context directory. Relative
// paths are resolved against the manifest's own directory.
func (m *Manifest) ImagesContextDir() string {
	if m.Images.ContextDir == "" || filepath.IsAbs(m.Images.ContextDir) {
		return m.Images.ContextDir
	}
	return filepath.Join(filepath.Dir(m.FilePath), m.Images.ContextDir)
}

// ResolveDataDir returns the managed data directory for the package, or the
// empty string when data directory management is disabled.
func (m *Manifest) ResolveDataDir(home string, pkg types.PackageName) string {
	if !m.Data.Managed {
		return ""
	}
	if m.Data.Dir != "" {
		return m.Data.Dir
	}
	return filepath.Join(home, "."+string(pkg))
}

// NeedsEngine reports whether running this manifest requires a container
// engine handle (it declares images or secrets).
func (m *Manifest) NeedsEngine() bool {
	return m.HasImages() || len(m.Secrets) > 0
}
