// SPDX-License-Identifier: MPL-2.0

// Package types defines cross-cutting DDD Value Types used by multiple domain
// packages (directives, directivesfile, etc.). These are foundation types that
// carry semantic meaning and validation but have no domain-specific dependencies.
//
// This package is a leaf dependency: it imports only the standard library.
// Domain packages import it; it never imports domain packages.
package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidAction is the sentinel error wrapped by InvalidActionError.
var ErrInvalidAction = errors.New("invalid action")

type (
	// Action identifies a lifecycle phase a package can be run through.
	Action string

	// InvalidActionError is returned when a string does not name a
	// known lifecycle action.
	InvalidActionError struct {
		Value string
	}
)

const (
	// ActionInstall runs a package's post-install directives.
	ActionInstall Action = "install"
	// ActionUninstall runs a package's pre-uninstall directives.
	ActionUninstall Action = "uninstall"
)

// ParseAction maps a user-supplied string to an Action. Matching is
// case-insensitive and ignores surrounding whitespace.
func ParseAction(s string) (Action, error) {
	switch Action(strings.ToLower(strings.TrimSpace(s))) {
	case ActionInstall:
		return ActionInstall, nil
	case ActionUninstall:
		return ActionUninstall, nil
	default:
		return "", &InvalidActionError{Value: s}
	}
}

// String returns the string representation of the Action.
func (a Action) String() string { return string(a) }

// IsValid returns whether the Action is one of the known lifecycle phases.
func (a Action) IsValid() (bool, []error) {
	switch a {
	case ActionInstall, ActionUninstall:
		return true, nil
	default:
		return false, []error{&InvalidActionError{Value: string(a)}}
	}
}

// Error implements the error interface for InvalidActionError.
func (e *InvalidActionError) Error() string {
	return fmt.Sprintf("invalid action %q (must be %q or %q)", e.Value, ActionInstall, ActionUninstall)
}

// Unwrap returns ErrInvalidAction for errors.Is() compatibility.
func (e *InvalidActionError) Unwrap() error { return ErrInvalidAction }
