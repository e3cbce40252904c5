// SPDX-License-Identifier: MPL-2.0

// Package explode materializes bundles on disk the way the framework needs to
// load them.
//
// Bundles that declare Eclipse-BundleShape: dir but ship as archives are
// extracted once into a cache directory. Extraction happens in a private
// temporary directory that is renamed into place, so concurrent runs sharing a
// cache never observe a partial tree. Framework extension bundles are copied
// into the cache under their original file name.
package explode
