// SPDX-License-Identifier: MPL-2.0

package equinox

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/lauritziu/maven-osgi-plugin/pkg/bundle"
	"github.com/lauritziu/maven-osgi-plugin/pkg/explode"
	"github.com/lauritziu/maven-osgi-plugin/pkg/platform"
)

// SynthesisOptions configures Synthesize.
type SynthesisOptions struct {
	// ConfigurationDir receives config.ini, the registry and the bundle cache.
	ConfigurationDir string
	Target           platform.Target
	// ExtensionMode is set when the osgi.framework.extensions property is
	// present; Extensions holds the names it lists.
	ExtensionMode bool
	Extensions    []string
	Logger        *log.Logger
}

// Synthesis describes the artifacts of one run.
type Synthesis struct {
	ConfigurationDir string
	ConfigIni        string
	BundlesInfo      string
	// FrameworkPath is where the framework core is loaded from, possibly a copy.
	FrameworkPath string
	// LauncherPath is the bootstrap launcher bundle, empty when none was scanned.
	LauncherPath string
	// ExtensionPaths are the copied framework extensions, core excluded.
	ExtensionPaths []string
}

// Synthesize validates set and writes bundles.info and config.ini into the
// configuration directory. A missing mandatory bundle fails before any file is
// written. A failure after that may leave earlier files on disk.
func Synthesize(ctx context.Context, set *bundle.Set, opts SynthesisOptions) (*Synthesis, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	if err := CheckMandatory(set); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	configDir, err := filepath.Abs(opts.ConfigurationDir)
	if err != nil {
		return nil, fmt.Errorf("resolve configuration directory: %w", err)
	}
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create configuration directory %s: %w", configDir, err)
	}

	m := explode.NewMaterializer(filepath.Join(configDir, explode.CacheDirName))
	if opts.ExtensionMode {
		m.WithExtensions(opts.Extensions)
	}
	writerOpts := Options{Target: opts.Target, Materializer: m}

	registry, err := WriteBundlesInfo(set, configDir, writerOpts)
	if err != nil {
		return nil, err
	}
	logger.Debug("wrote bundle registry", "path", registry, "bundles", set.Len()-1)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	configIni, err := WriteConfigIni(set, registry, configDir, writerOpts)
	if err != nil {
		return nil, err
	}
	logger.Debug("wrote framework configuration", "path", configIni)

	core, _ := set.Lookup(bundle.FrameworkCore)
	frameworkPath, err := m.Resolve(core)
	if err != nil {
		return nil, err
	}

	s := &Synthesis{
		ConfigurationDir: configDir,
		ConfigIni:        configIni,
		BundlesInfo:      registry,
		FrameworkPath:    frameworkPath,
		ExtensionPaths:   m.ExtensionPaths(),
	}
	if launcher, ok := set.Find(bundle.Bundle.IsLauncher); ok {
		s.LauncherPath = launcher.Path
	}
	return s, nil
}
