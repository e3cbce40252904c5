// SPDX-License-Identifier: MPL-2.0

package explode

import (
	"slices"
	"sync"

	"github.com/lauritziu/maven-osgi-plugin/pkg/bundle"
)

// Materializer resolves the on-disk location of each bundle for one
// synthesis run and remembers the framework extensions it copied.
type Materializer struct {
	// CacheDir receives exploded and copied bundles.
	CacheDir string
	// ExtensionMode is set when the osgi.framework.extensions property is
	// present, even if it names no bundle.
	ExtensionMode bool
	// Extensions are the symbolic names listed in osgi.framework.extensions.
	Extensions []string

	mu         sync.Mutex
	extensions map[string]string
}

// NewMaterializer returns a Materializer without extension handling.
func NewMaterializer(cacheDir string) *Materializer {
	return &Materializer{CacheDir: cacheDir}
}

// WithExtensions enables extension handling for the named bundles.
func (m *Materializer) WithExtensions(names []string) *Materializer {
	m.ExtensionMode = true
	m.Extensions = slices.Clone(names)
	return m
}

// IsExtension reports whether b is copied as a framework extension. The
// framework core itself always is once extension mode is on.
func (m *Materializer) IsExtension(b bundle.Bundle) bool {
	if !m.ExtensionMode {
		return false
	}
	return b.IsFrameworkCore() || slices.Contains(m.Extensions, b.SymbolicName)
}

// Resolve returns the path the framework should load b from. Dir-shaped
// bundles are exploded; extension bundles are copied into the cache; anything
// else keeps its original absolute path.
func (m *Materializer) Resolve(b bundle.Bundle) (string, error) {
	if b.DirShape {
		return Explode(b, m.CacheDir)
	}
	if !m.IsExtension(b) {
		return b.Path, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if path, ok := m.extensions[b.SymbolicName]; ok {
		return path, nil
	}
	path, err := CopyExtension(b.Path, m.CacheDir)
	if err != nil {
		return "", err
	}
	if m.extensions == nil {
		m.extensions = make(map[string]string)
	}
	m.extensions[b.SymbolicName] = path
	return path, nil
}

// ExtensionPaths returns the copied extension bundles, the framework core
// excluded, sorted.
func (m *Materializer) ExtensionPaths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, 0, len(m.extensions))
	for name, path := range m.extensions {
		if name == bundle.FrameworkCore {
			continue
		}
		out = append(out, path)
	}
	slices.Sort(out)
	return out
}
