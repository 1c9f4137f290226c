// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"instdirs-cli/internal/config"
	"instdirs-cli/internal/issue"

	"github.com/spf13/cobra"
)

// configCmd is the `instdirs config` command tree.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage instdirs configuration",
	Long: `Manage instdirs configuration.

Configuration is stored in:
  - Linux: ~/.config/instdirs/config.toml
  - macOS: ~/Library/Application Support/instdirs/config.toml
  - Windows: %APPDATA%\instdirs\config.toml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func init() {
	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.Context())
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfigFile()
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath()
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setConfigValue(cmd.Context(), args[0], args[1])
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output raw configuration as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return dumpConfig(cmd.Context())
		},
	})
}

func showConfig(ctx context.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		rendered, _ := issue.Get(issue.ConfigLoadFailedId).Render("dark")
		fmt.Fprint(os.Stderr, rendered)
		return &ExitError{Code: ExitConfiguration, Err: err}
	}

	fmt.Println(TitleStyle.Render("Current Configuration"))
	fmt.Println()

	if cfgPath, err := configFilePath(); err == nil && fileExists(cfgPath) {
		fmt.Printf("%s: %s\n", HighlightStyle.Render("Config file"), cfgPath)
	} else {
		fmt.Printf("%s: %s\n", HighlightStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Println()

	printConfigValue("state_root", cfg.StateRoot.String())
	printConfigValue("engine", cfg.Engine.String())
	printConfigValue("python", cfg.Python.String())
	printConfigValue("no_color", strconv.FormatBool(cfg.NoColor))
	return nil
}

// printConfigValue prints one key/value line; empty values render as the
// built-in default.
func printConfigValue(key, value string) {
	if value == "" {
		fmt.Printf("%s: %s\n", HighlightStyle.Render(key), SubtitleStyle.Render("(default)"))
		return
	}
	fmt.Printf("%s: %s\n", HighlightStyle.Render(key), SuccessStyle.Render(value))
}

func initConfigFile() error {
	if err := config.EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := config.CreateDefaultConfig(); err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}

	cfgPath, err := configFilePath()
	if err != nil {
		return err
	}
	fmt.Printf("%s Default configuration available at %s\n", SuccessStyle.Render("✓"), cfgPath)
	return nil
}

func showConfigPath() error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	fmt.Printf("Config directory: %s\n", cfgDir)
	fmt.Printf("Config file: %s\n", filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt))
	return nil
}

func setConfigValue(ctx context.Context, key, value string) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return &ExitError{Code: ExitConfiguration, Err: err}
	}

	switch key {
	case "state_root":
		root := config.StateRootPath(value)
		if ok, errs := root.IsValid(); !ok {
			return errs[0]
		}
		cfg.StateRoot = root

	case "engine":
		engine := config.Engine(value)
		if ok, errs := engine.IsValid(); !ok {
			return errs[0]
		}
		cfg.Engine = engine

	case "python":
		python := config.PythonPath(value)
		if ok, errs := python.IsValid(); !ok {
			return errs[0]
		}
		cfg.Python = python

	case "no_color":
		cfg.NoColor = value == "true" || value == "1"

	default:
		return fmt.Errorf("unknown configuration key: %s\nValid keys: state_root, engine, python, no_color", key)
	}

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("%s Set %s = %s\n", SuccessStyle.Render("✓"), key, value)
	return nil
}

func dumpConfig(ctx context.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return &ExitError{Code: ExitConfiguration, Err: err}
	}

	content, err := config.GenerateTOML(cfg)
	if err != nil {
		return err
	}
	fmt.Print(content)
	return nil
}

// configFilePath returns the standard config file location.
func configFilePath() (string, error) {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt), nil
}

// fileExists checks if a file exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}
