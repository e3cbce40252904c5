// SPDX-License-Identifier: MPL-2.0

// Package config loads the launcher configuration: runtime boot arguments,
// start level overrides, JVM properties and a few scalar settings.
//
// Files are written in CUE (launcher.cue) or YAML (launcher.yaml). Both are
// validated against the embedded config_schema.cue. Scalar settings can also
// be overridden from OSGILAUNCH_* environment variables through Viper.
//
// The start level table is tri-state: a file without start_levels leaves the
// built-in levels in effect, while a file that declares the table replaces them
// entirely.
package config
