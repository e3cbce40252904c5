// SPDX-License-Identifier: MPL-2.0

package bundle

import (
	"strings"

	"github.com/lauritziu/maven-osgi-plugin/pkg/manifest"
)

// Manifest headers inspected by the classifier.
const (
	HeaderSymbolicName = "Bundle-SymbolicName"
	HeaderVersion      = "Bundle-Version"
	HeaderShape        = "Eclipse-BundleShape"

	// ShapeDir is the Eclipse-BundleShape value that requires an exploded directory.
	ShapeDir = "dir"
)

// Well-known symbolic names.
const (
	// FrameworkCore is the framework implementation. It is referenced directly
	// from config.ini and never listed in bundles.info.
	FrameworkCore = "org.eclipse.osgi"
	// SimpleConfigurator reads bundles.info and installs the listed bundles.
	SimpleConfigurator = "org.eclipse.equinox.simpleconfigurator"
	// LauncherPrefix matches the bootstrap launcher bundle.
	LauncherPrefix = "org.eclipse.equinox.launcher"
)

// Identity is what a manifest declares about a bundle.
type Identity struct {
	SymbolicName string
	// Version is the raw Bundle-Version value; only meaningful when HasVersion is set.
	Version    string
	HasVersion bool
	// DirShape is set when the bundle must be on disk as a directory.
	DirShape bool
}

// Bundle is one classpath entry recognized as a bundle. Values are never
// mutated after construction.
type Bundle struct {
	SymbolicName string
	Version      string
	HasVersion   bool
	// Path is the absolute location of the archive or directory at scan time.
	Path       string
	StartLevel int
	AutoStart  bool
	DirShape   bool
}

// IsBundle reports whether m declares a Bundle-SymbolicName whose name part,
// before any directives, is non-blank.
func IsBundle(m *manifest.Manifest) bool {
	v, ok := m.Get(HeaderSymbolicName)
	return ok && symbolicName(v) != ""
}

func symbolicName(header string) string {
	name, _, _ := strings.Cut(header, ";")
	return strings.TrimSpace(name)
}

// Identify extracts the identity of the bundle described by m. The symbolic
// name is cut before the first ';' so directives such as singleton:=true are
// dropped; it is otherwise taken as is. The version is kept as written.
func Identify(m *manifest.Manifest) Identity {
	version, hasVersion := m.Get(HeaderVersion)
	return Identity{
		SymbolicName: symbolicName(m.Value(HeaderSymbolicName)),
		Version:      version,
		HasVersion:   hasVersion,
		DirShape:     strings.TrimSpace(m.Value(HeaderShape)) == ShapeDir,
	}
}

// New builds a bundle record from its identity, location and resolved start
// level. An unknown level becomes DefaultStartLevel without auto-start.
func New(id Identity, path string, res Resolution) Bundle {
	b := Bundle{
		SymbolicName: id.SymbolicName,
		Version:      id.Version,
		HasVersion:   id.HasVersion,
		Path:         path,
		DirShape:     id.DirShape,
		StartLevel:   DefaultStartLevel,
	}
	if res.Known {
		b.StartLevel = res.Level
		b.AutoStart = true
	}
	return b
}

// VersionString returns the version as written to launch artifacts, "null"
// when the manifest declares none.
func (b Bundle) VersionString() string {
	if !b.HasVersion {
		return "null"
	}
	return b.Version
}

// IsFrameworkCore reports whether b is the framework implementation.
func (b Bundle) IsFrameworkCore() bool {
	return b.SymbolicName == FrameworkCore
}

// IsLauncher reports whether b is a bootstrap launcher bundle.
func (b Bundle) IsLauncher() bool {
	return strings.Contains(b.SymbolicName, LauncherPrefix)
}
