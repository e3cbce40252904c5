// SPDX-License-Identifier: MPL-2.0

package equinox

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/lauritziu/maven-osgi-plugin/pkg/bundle"
)

// BundlesInfoFile is the registry file name inside the simple configurator's
// configuration area.
const BundlesInfoFile = "bundles.info"

// BundlesInfoPath returns where the registry lives below configDir.
func BundlesInfoPath(configDir string) string {
	return filepath.Join(configDir, bundle.SimpleConfigurator, BundlesInfoFile)
}

// RenderBundlesInfo returns the content of bundles.info for set. The framework
// core is left out; config.ini references it directly.
func RenderBundlesInfo(set *bundle.Set, configDir string, opts Options) ([]byte, error) {
	m := opts.materializer(configDir)
	eol := opts.Target.LineEnding()

	var b strings.Builder
	b.WriteString("#encoding=UTF-8" + eol)
	b.WriteString("#version=1" + eol)
	for _, bnd := range set.Sorted() {
		if bnd.IsFrameworkCore() {
			continue
		}
		path, err := m.Resolve(bnd)
		if err != nil {
			return nil, err
		}
		b.WriteString(strings.Join([]string{
			bnd.SymbolicName,
			bnd.VersionString(),
			FileURL(opts.Target, path),
			strconv.Itoa(bnd.StartLevel),
			strconv.FormatBool(bnd.AutoStart),
		}, ","))
		b.WriteString(eol)
	}
	return []byte(b.String()), nil
}

// WriteBundlesInfo writes the registry for set below configDir, replacing any
// previous file, and returns its path.
func WriteBundlesInfo(set *bundle.Set, configDir string, opts Options) (string, error) {
	content, err := RenderBundlesInfo(set, configDir, opts)
	if err != nil {
		return "", err
	}
	path := BundlesInfoPath(configDir)
	if err := writeFile(path, content); err != nil {
		return "", err
	}
	return path, nil
}

func writeFile(path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
