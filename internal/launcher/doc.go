// SPDX-License-Identifier: MPL-2.0

// Package launcher starts the framework once its launch configuration has
// been synthesized. It builds the java command line for
// org.eclipse.equinox.launcher.Main and runs it either attached to the
// caller's standard streams or on a pseudo-terminal.
package launcher
