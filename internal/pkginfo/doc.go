// SPDX-License-Identifier: MPL-2.0

// Package pkginfo queries the external package manager (pip) for installed
// package metadata.
//
// The engine treats this package as a read-only collaborator: one metadata
// snapshot is taken per lifecycle invocation and never refreshed mid-run. A
// reported version of "0.0.0" marks an editable/development install and is
// substituted, best effort, with a VCS-derived version; every failure mode
// of that substitution is swallowed and the sentinel kept.
package pkginfo
