// SPDX-License-Identifier: MPL-2.0

// Package hook runs the lifecycle hooks a package declares in its
// directives manifest.
//
// Shell hook scripts execute in-process through an embedded POSIX shell
// interpreter (mvdan.cc/sh), so no external shell is required and syntax
// errors surface before anything runs. LifecycleHooks composes the full
// install/uninstall hook behavior from a manifest: hook script, then image
// builds/teardown, then secret provisioning/removal.
package hook
