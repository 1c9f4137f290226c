// SPDX-License-Identifier: MPL-2.0

package directivesfile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"instdirs-cli/pkg/directives"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() returned error: %v", err)
	}
	return path
}

func TestLoad_MissingManifestIsNotAnError(t *testing.T) {
	t.Parallel()

	m, err := Load(filepath.Join(t.TempDir(), FileName), "my_pkg")
	if err != nil {
		t.Fatalf("Load() on missing manifest returned error: %v", err)
	}
	if m != nil {
		t.Errorf("Load() = %v, want nil for missing manifest", m)
	}
}

func TestLoad_FullManifest(t *testing.T) {
	t.Parallel()
	path := writeManifest(t, `
package: "my-pkg"
data: {
	managed: true
	dir:     "/var/lib/my_pkg"
}
images: {
	context_dir: "docker_images"
	names: ["base", "worker"]
}
secrets: [
	{name: "api_token"},
	{name: "db_password", remove_on_uninstall: false},
]
hooks: {
	install:   "echo installing"
	uninstall: "echo removing"
}
`)

	m, err := Load(path, "my_pkg")
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if m.Package != "my-pkg" {
		t.Errorf("Package = %q, want %q", m.Package, "my-pkg")
	}
	if !m.Data.Managed || m.Data.Dir != "/var/lib/my_pkg" {
		t.Errorf("Data = %+v, want managed with override dir", m.Data)
	}
	if !m.HasImages() {
		t.Error("HasImages() = false, want true")
	}
	if len(m.Images.Names) != 2 || m.Images.Names[0] != "base" {
		t.Errorf("Images.Names = %v, want [base worker]", m.Images.Names)
	}
	if len(m.Secrets) != 2 {
		t.Fatalf("Secrets = %v, want 2 declarations", m.Secrets)
	}
	if !m.Secrets[0].RemoveOnUninstall {
		t.Error("secrets[0].remove_on_uninstall should default to true")
	}
	if m.Secrets[1].RemoveOnUninstall {
		t.Error("secrets[1].remove_on_uninstall = true, want explicit false")
	}
	if m.Hooks.Install != "echo installing" || m.Hooks.Uninstall != "echo removing" {
		t.Errorf("Hooks = %+v", m.Hooks)
	}
	if !m.NeedsEngine() {
		t.Error("NeedsEngine() = false, want true")
	}
}

func TestLoad_MinimalManifestDefaults(t *testing.T) {
	t.Parallel()
	path := writeManifest(t, `package: "my_pkg"`)

	m, err := Load(path, "my_pkg")
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if !m.Data.Managed {
		t.Error("data.managed should default to true")
	}
	if m.HasImages() {
		t.Error("HasImages() = true for a manifest with no images block")
	}
	if m.NeedsEngine() {
		t.Error("NeedsEngine() = true for a manifest with no images or secrets")
	}
}

func TestLoad_EmptyImagesBlockGetsDefaultContextDir(t *testing.T) {
	t.Parallel()
	path := writeManifest(t, `images: {}`)

	m, err := Load(path, "my_pkg")
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if m.Images.ContextDir != "docker_images" {
		t.Errorf("Images.ContextDir = %q, want default %q", m.Images.ContextDir, "docker_images")
	}
	want := filepath.Join(filepath.Dir(path), "docker_images")
	if got := m.ImagesContextDir(); got != want {
		t.Errorf("ImagesContextDir() = %q, want %q", got, want)
	}
}

func TestLoad_PackageNameMismatch(t *testing.T) {
	t.Parallel()
	path := writeManifest(t, `package: "other_pkg"`)

	_, err := Load(path, "my_pkg")
	if !errors.Is(err, directives.ErrConfiguration) {
		t.Errorf("Load() error = %v, want configuration error", err)
	}
}

func TestLoad_DashedPackageNameMatchesNormalized(t *testing.T) {
	t.Parallel()
	path := writeManifest(t, `package: "my-pkg"`)

	if _, err := Load(path, "my_pkg"); err != nil {
		t.Errorf("Load() should accept the dashed form of the package name, got: %v", err)
	}
}

func TestLoad_SchemaViolation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{name: "wrong type for managed", content: `data: managed: "yes"`},
		{name: "empty secret name", content: `secrets: [{name: ""}]`},
		{name: "unknown field", content: `imagez: {}`},
		{name: "syntax error", content: `package: "my_pkg`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			path := writeManifest(t, tt.content)
			_, err := Load(path, "my_pkg")
			if !errors.Is(err, directives.ErrConfiguration) {
				t.Errorf("Load() error = %v, want configuration error", err)
			}
		})
	}
}

func TestManifest_ResolveDataDir(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		manifest Manifest
		want     string
	}{
		{
			name:     "managed default location",
			manifest: Manifest{Data: DataPolicy{Managed: true}},
			want:     filepath.Join("/home/u", ".my_pkg"),
		},
		{
			name:     "managed with override",
			manifest: Manifest{Data: DataPolicy{Managed: true, Dir: "/srv/data"}},
			want:     "/srv/data",
		},
		{
			name:     "unmanaged",
			manifest: Manifest{Data: DataPolicy{Managed: false}},
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.manifest.ResolveDataDir("/home/u", "my_pkg"); got != tt.want {
				t.Errorf("ResolveDataDir() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDefaultPath(t *testing.T) {
	t.Parallel()
	got := DefaultPath("/site-packages", "my_pkg")
	want := filepath.Join("/site-packages", "my_pkg", FileName)
	if got != want {
		t.Errorf("DefaultPath() = %q, want %q", got, want)
	}
}
