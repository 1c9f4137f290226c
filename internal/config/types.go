// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// EngineDocker selects Docker as the container engine.
	EngineDocker Engine = "docker"
	// EnginePodman selects Podman as the container engine.
	EnginePodman Engine = "podman"
	// EngineAuto probes for an available engine (Docker first, then Podman).
	EngineAuto Engine = "auto"
)

var (
	// ErrInvalidEngine is returned when an Engine value is not recognized.
	ErrInvalidEngine = errors.New("invalid container engine")
	// ErrInvalidStateRootPath is returned when a StateRootPath value is whitespace-only.
	ErrInvalidStateRootPath = errors.New("invalid state root path")
	// ErrInvalidPythonPath is returned when a PythonPath value is whitespace-only.
	ErrInvalidPythonPath = errors.New("invalid python interpreter path")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// Engine specifies which container engine to use for image and secret
	// operations.
	Engine string

	// InvalidEngineError is returned when an Engine value is not recognized.
	// It wraps ErrInvalidEngine for errors.Is() compatibility.
	InvalidEngineError struct {
		Value Engine
	}

	// StateRootPath represents the directory under which per-package state
	// directories are created. The zero value ("") is valid and means
	// "use ~/.instdirs".
	StateRootPath string

	// InvalidStateRootPathError is returned when a StateRootPath value is
	// non-empty but whitespace-only.
	InvalidStateRootPathError struct {
		Value StateRootPath
	}

	// PythonPath represents the Python interpreter used for package manager
	// queries. The zero value ("") is valid and means "python3".
	PythonPath string

	// InvalidPythonPathError is returned when a PythonPath value is
	// non-empty but whitespace-only.
	InvalidPythonPathError struct {
		Value PythonPath
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all fields.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// StateRoot is the directory holding per-package state directories.
		StateRoot StateRootPath `toml:"state_root" mapstructure:"state_root"`
		// Engine specifies whether to use "podman", "docker", or "auto".
		Engine Engine `toml:"engine" mapstructure:"engine"`
		// Python is the interpreter used for package manager queries.
		Python PythonPath `toml:"python" mapstructure:"python"`
		// NoColor disables styled terminal output.
		NoColor bool `toml:"no_color" mapstructure:"no_color"`
	}
)

// Error implements the error interface for InvalidEngineError.
func (e *InvalidEngineError) Error() string {
	return fmt.Sprintf("invalid container engine %q (valid: docker, podman, auto)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidEngineError) Unwrap() error { return ErrInvalidEngine }

// String returns the string representation of the Engine.
func (e Engine) String() string { return string(e) }

// IsValid returns whether the Engine is one of the defined engine values,
// and a list of validation errors if it is not.
func (e Engine) IsValid() (bool, []error) {
	switch e {
	case EngineDocker, EnginePodman, EngineAuto:
		return true, nil
	default:
		return false, []error{&InvalidEngineError{Value: e}}
	}
}

// Error implements the error interface for InvalidStateRootPathError.
func (e *InvalidStateRootPathError) Error() string {
	return fmt.Sprintf("invalid state root path %q: non-empty value must not be whitespace-only", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidStateRootPathError) Unwrap() error { return ErrInvalidStateRootPath }

// String returns the string representation of the StateRootPath.
func (p StateRootPath) String() string { return string(p) }

// IsValid returns whether the StateRootPath is valid.
// The zero value ("") is valid (means "use ~/.instdirs").
// Non-zero values must not be whitespace-only.
func (p StateRootPath) IsValid() (bool, []error) {
	if p == "" {
		return true, nil
	}
	if strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidStateRootPathError{Value: p}}
	}
	return true, nil
}

// Resolve expands the state root to an absolute path: the zero value becomes
// ~/.instdirs, and a leading "~/" is expanded against the user's home.
func (p StateRootPath) Resolve() (string, error) {
	if p == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return filepath.Join(home, "."+AppName), nil
	}
	if rest, found := strings.CutPrefix(string(p), "~/"); found {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return filepath.Join(home, rest), nil
	}
	return string(p), nil
}

// Error implements the error interface for InvalidPythonPathError.
func (e *InvalidPythonPathError) Error() string {
	return fmt.Sprintf("invalid python interpreter path %q: non-empty value must not be whitespace-only", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidPythonPathError) Unwrap() error { return ErrInvalidPythonPath }

// String returns the string representation of the PythonPath.
func (p PythonPath) String() string { return string(p) }

// IsValid returns whether the PythonPath is valid.
// The zero value ("") is valid (means "python3").
// Non-zero values must not be whitespace-only.
func (p PythonPath) IsValid() (bool, []error) {
	if p == "" {
		return true, nil
	}
	if strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidPythonPathError{Value: p}}
	}
	return true, nil
}

// Interpreter returns the interpreter to invoke, applying the default.
func (p PythonPath) Interpreter() string {
	if p == "" {
		return "python3"
	}
	return string(p)
}

// IsValid returns whether the Config has valid fields.
// It delegates to Engine.IsValid(), StateRoot.IsValid(), and
// Python.IsValid(); bool fields need no validation.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Engine.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.StateRoot.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Python.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, 0, len(e.FieldErrors))
	for _, fieldErr := range e.FieldErrors {
		msgs = append(msgs, fieldErr.Error())
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		StateRoot: "", // Will resolve to ~/.instdirs
		Engine:    EngineAuto,
		Python:    "", // Will resolve to python3
		NoColor:   false,
	}
}
