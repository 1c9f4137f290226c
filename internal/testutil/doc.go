// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that handle errors
// appropriately, reducing boilerplate and ensuring consistent error handling.
//
// Helpers cover directory setup (MustMkdirAll), environment variables
// (MustSetenv), fake home directories (SetHomeDir), and throttling of
// container integration tests that share one daemon (ContainerSemaphore).
package testutil
