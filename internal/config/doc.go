// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with TOML as the file format.
//
// Configuration is loaded from ~/.config/instdirs/config.toml (or XDG equivalent on Linux,
// ~/Library/Application Support/instdirs/config.toml on macOS, %APPDATA%\instdirs\config.toml
// on Windows). Every key can be overridden through INSTDIRS_* environment variables.
// The package provides type-safe configuration access for the state root directory,
// container engine selection, and the Python interpreter used for package manager queries.
package config
