// SPDX-License-Identifier: MPL-2.0

// Package manifest reads the main section of a JAR manifest from an archive or
// from an exploded directory.
//
// A missing manifest is not an error: Read returns a nil *Manifest so callers
// can tell "not a module" apart from "could not read".
package manifest
