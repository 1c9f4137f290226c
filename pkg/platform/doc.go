// SPDX-License-Identifier: MPL-2.0

// Package platform provides cross-platform compatibility utilities, such as
// named constants for runtime.GOOS comparisons.
package platform
