// SPDX-License-Identifier: MPL-2.0

// Package directives implements the install/uninstall lifecycle engine for
// package directives.
//
// An Engine runs a package through one lifecycle phase at a time: Install
// creates the per-package state directory (and optionally a data directory),
// reads the previously recorded version, invokes the caller-supplied Hooks,
// and persists the new version marker. Uninstall runs the teardown hook and
// removes the managed directories. A failed install rolls the state directory
// back so the package returns to the "not installed" state; a failed
// uninstall leaves partial state in place and reports that manual
// intervention may be required.
//
// The engine performs no internal locking. Callers must serialize install and
// uninstall invocations per package; the package manager driving this tool
// typically already does.
package directives
