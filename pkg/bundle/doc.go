// SPDX-License-Identifier: MPL-2.0

// Package bundle identifies OSGi bundles on a classpath.
//
// A classpath entry is a bundle when its manifest declares a
// Bundle-SymbolicName. The Scanner reads every entry, classifies it, resolves
// its start level against a StartLevels table and collects the results in a
// Set keyed by symbolic name.
package bundle
