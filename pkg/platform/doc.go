// SPDX-License-Identifier: MPL-2.0

// Package platform describes the platform a generated launch configuration
// targets. The target is usually the host, but writers accept it explicitly so
// Windows-shaped artifacts can be produced and verified from any host.
//
// It also detects application sandboxes (Flatpak, Snap) so the launcher can
// spawn the runtime on the host instead of inside the sandbox.
package platform
