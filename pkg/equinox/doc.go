// SPDX-License-Identifier: MPL-2.0

// Package equinox writes the launch artifacts read by the Equinox bootstrap:
// the simple configurator's bundles.info registry and the framework's
// config.ini.
//
// Both files are deterministic for a given bundle set: bundles are emitted in
// symbolic name order and lines end with the target platform's native
// terminator.
//
// bundles.info holds plain file: URLs as the simple configurator reads them,
// while config.ini is a properties file and escapes every ':' as '\:'.
//
// A non-host Target also switches path handling: its paths are taken as
// absolute and joined in slash form instead of with the host's rules.
package equinox
