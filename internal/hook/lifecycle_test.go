// SPDX-License-Identifier: MPL-2.0

package hook

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"instdirs-cli/internal/container"
	"instdirs-cli/internal/images"
	"instdirs-cli/pkg/directivesfile"
	"instdirs-cli/pkg/types"
)

// fakeEngine is a minimal in-memory container.Engine for composition tests.
type fakeEngine struct {
	builds  []container.ImageTag
	secrets map[container.SecretName]string
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{secrets: make(map[container.SecretName]string)}
}

func (f *fakeEngine) Name() string                            { return "fake" }
func (f *fakeEngine) Available() bool                         { return true }
func (f *fakeEngine) Version(context.Context) (string, error) { return "0.0.0-test", nil }

func (f *fakeEngine) Build(_ context.Context, opts container.BuildOptions) error {
	f.builds = append(f.builds, opts.Tag)
	return nil
}

func (f *fakeEngine) Tag(context.Context, container.ImageTag, container.ImageTag) error { return nil }

func (f *fakeEngine) ImageExists(context.Context, container.ImageTag) (bool, error) {
	return false, nil
}

func (f *fakeEngine) ResolveImageID(_ context.Context, tag container.ImageTag) (container.ImageID, error) {
	for _, built := range f.builds {
		if built == tag {
			return container.ImageID("sha256:" + string(tag)), nil
		}
	}
	return "", &container.ImageNotFoundError{Image: tag}
}

func (f *fakeEngine) RemoveImage(context.Context, container.ImageID, bool) error { return nil }

func (f *fakeEngine) SecretExists(_ context.Context, name container.SecretName) (bool, error) {
	_, ok := f.secrets[name]
	return ok, nil
}

func (f *fakeEngine) CreateSecret(_ context.Context, name container.SecretName, r io.Reader) error {
	value, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	f.secrets[name] = string(value)
	return nil
}

func (f *fakeEngine) RemoveSecret(_ context.Context, name container.SecretName) error {
	delete(f.secrets, name)
	return nil
}

func writeImageDir(t *testing.T, root, name string) {
	t.Helper()
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll() returned error: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "Dockerfile"), []byte("FROM scratch\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() returned error: %v", err)
	}
}

func TestLifecycleHooks_OnInstallRunsScriptThenImagesThenSecrets(t *testing.T) {
	t.Parallel()
	location := t.TempDir()
	contextDir := filepath.Join(location, "docker_images")
	writeImageDir(t, contextDir, "app")

	engine := newFakeEngine()
	artifacts, err := images.Discover(contextDir, nil)
	if err != nil {
		t.Fatalf("Discover() returned error: %v", err)
	}
	manager := images.NewManager(engine, "my_pkg", "1.0.0", artifacts,
		images.WithSecretPrompt(func(string) (string, error) { return "prompted", nil }),
		images.WithBuildOutput(io.Discard, io.Discard))

	var out bytes.Buffer
	hooks := NewLifecycleHooks(Config{
		Package:  types.PackageName("my_pkg"),
		Location: location,
		StateDir: "/state/my_pkg",
		DataDir:  "/home/u/.my_pkg",
		Manifest: &directivesfile.Manifest{
			Data:    directivesfile.DataPolicy{Managed: true},
			Images:  directivesfile.ImagesSpec{ContextDir: contextDir},
			Secrets: []directivesfile.SecretDecl{{Name: "api_token", RemoveOnUninstall: true}},
			Hooks:   directivesfile.HookScripts{Install: `printf '%s\n' "install $INSTDIRS_OLD_VERSION=>$INSTDIRS_NEW_VERSION"`},
		},
		Images: manager,
		Stdout: &out,
		Stderr: &out,
	})

	if err := hooks.OnInstall(context.Background(), "", "1.0.0"); err != nil {
		t.Fatalf("OnInstall() returned error: %v", err)
	}

	if got := out.String(); !strings.Contains(got, "install =>1.0.0") {
		t.Errorf("install script output = %q, want the version transition", got)
	}
	if len(engine.builds) != 1 || engine.builds[0] != "app:1.0.0" {
		t.Errorf("builds = %v, want [app:1.0.0]", engine.builds)
	}
	if engine.secrets["api_token"] != "prompted" {
		t.Errorf("secret = %q, want the prompted value", engine.secrets["api_token"])
	}
}

func TestLifecycleHooks_OnUninstallRemovesMarkedSecretsOnly(t *testing.T) {
	t.Parallel()
	engine := newFakeEngine()
	engine.secrets["keep_me"] = "v"
	engine.secrets["drop_me"] = "v"
	manager := images.NewManager(engine, "my_pkg", "1.0.0", nil)

	hooks := NewLifecycleHooks(Config{
		Package:  types.PackageName("my_pkg"),
		Location: t.TempDir(),
		Manifest: &directivesfile.Manifest{
			Data: directivesfile.DataPolicy{Managed: true},
			Secrets: []directivesfile.SecretDecl{
				{Name: "keep_me", RemoveOnUninstall: false},
				{Name: "drop_me", RemoveOnUninstall: true},
			},
		},
		Images: manager,
	})

	if err := hooks.OnUninstall(context.Background(), "1.0.0"); err != nil {
		t.Fatalf("OnUninstall() returned error: %v", err)
	}

	if _, ok := engine.secrets["keep_me"]; !ok {
		t.Error("secret keep_me was removed despite remove_on_uninstall=false")
	}
	if _, ok := engine.secrets["drop_me"]; ok {
		t.Error("secret drop_me still present after uninstall")
	}
}

func TestLifecycleHooks_ScriptFailureAbortsPhase(t *testing.T) {
	t.Parallel()
	engine := newFakeEngine()
	manager := images.NewManager(engine, "my_pkg", "1.0.0", nil)

	hooks := NewLifecycleHooks(Config{
		Package:  types.PackageName("my_pkg"),
		Location: t.TempDir(),
		Manifest: &directivesfile.Manifest{
			Data:    directivesfile.DataPolicy{Managed: true},
			Secrets: []directivesfile.SecretDecl{{Name: "api_token", RemoveOnUninstall: true}},
			Hooks:   directivesfile.HookScripts{Install: "exit 7"},
		},
		Images: manager,
	})

	err := hooks.OnInstall(context.Background(), "", "1.0.0")
	var exitErr *ExitStatusError
	if !errors.As(err, &exitErr) || exitErr.Status != 7 {
		t.Fatalf("OnInstall() error = %v, want ExitStatusError with status 7", err)
	}
	if len(engine.secrets) != 0 {
		t.Error("secrets were provisioned despite the script failure")
	}
}

func TestLifecycleHooks_MissingManagerForDeclaredImages(t *testing.T) {
	t.Parallel()
	hooks := NewLifecycleHooks(Config{
		Package:  types.PackageName("my_pkg"),
		Location: t.TempDir(),
		Manifest: &directivesfile.Manifest{
			Data:   directivesfile.DataPolicy{Managed: true},
			Images: directivesfile.ImagesSpec{ContextDir: "docker_images"},
		},
	})

	if err := hooks.OnInstall(context.Background(), "", "1.0.0"); err == nil {
		t.Error("OnInstall() should fail when images are declared but no manager is set")
	}
}
