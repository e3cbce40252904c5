// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that handle errors
// appropriately, reducing boilerplate and ensuring consistent error handling.
//
// Besides environment and directory helpers (MustSetenv,
// SetConfigHome) it builds bundle fixtures: JAR archives and exploded
// directories carrying a META-INF/MANIFEST.MF.
package testutil
