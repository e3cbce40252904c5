// SPDX-License-Identifier: MPL-2.0

package equinox

import (
	"path/filepath"

	"github.com/lauritziu/maven-osgi-plugin/pkg/explode"
	"github.com/lauritziu/maven-osgi-plugin/pkg/platform"
)

// Options controls how the writers render paths.
type Options struct {
	// Target selects path and line ending conventions; zero means the host.
	Target platform.Target
	// Materializer resolves bundle locations. Nil uses a Materializer without
	// extension handling that caches below <configDir>/.explode.
	Materializer *explode.Materializer
}

func (o Options) materializer(configDir string) *explode.Materializer {
	if o.Materializer != nil {
		return o.Materializer
	}
	return explode.NewMaterializer(filepath.Join(configDir, explode.CacheDirName))
}
