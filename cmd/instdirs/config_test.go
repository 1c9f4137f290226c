// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"instdirs-cli/internal/config"
)

// withConfigDir points the config package at a temp directory for one test.
// Not parallel safe: the override is package-global.
func withConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	config.SetConfigDirOverride(dir)
	t.Cleanup(config.Reset)
	return dir
}

func TestInitConfigFile_CreatesDefaultConfig(t *testing.T) {
	dir := withConfigDir(t)

	if err := initConfigFile(); err != nil {
		t.Fatalf("initConfigFile() returned error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "config.toml"))
	if err != nil {
		t.Fatalf("config file was not created: %v", err)
	}
	for _, key := range []string{"state_root", "engine", "python", "no_color"} {
		if !strings.Contains(string(data), key) {
			t.Errorf("default config is missing key %q", key)
		}
	}
}

func TestInitConfigFile_KeepsExistingConfig(t *testing.T) {
	dir := withConfigDir(t)
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("engine = \"podman\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() returned error: %v", err)
	}

	if err := initConfigFile(); err != nil {
		t.Fatalf("initConfigFile() returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() returned error: %v", err)
	}
	if !strings.Contains(string(data), "podman") {
		t.Error("initConfigFile() overwrote an existing config file")
	}
}

func TestSetConfigValue_PersistsAndReloads(t *testing.T) {
	withConfigDir(t)

	if err := setConfigValue(context.Background(), "engine", "podman"); err != nil {
		t.Fatalf("setConfigValue() returned error: %v", err)
	}

	cfg, err := config.NewProvider().Load(context.Background(), config.LoadOptions{})
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.Engine != config.EnginePodman {
		t.Errorf("Engine = %q after set, want podman", cfg.Engine)
	}
}

func TestSetConfigValue_RejectsInvalidInput(t *testing.T) {
	withConfigDir(t)

	if err := setConfigValue(context.Background(), "engine", "lxc"); err == nil {
		t.Error("setConfigValue() should reject an unknown engine")
	}
	if err := setConfigValue(context.Background(), "flavor", "spicy"); err == nil {
		t.Error("setConfigValue() should reject an unknown key")
	}
}
