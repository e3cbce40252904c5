// SPDX-License-Identifier: MPL-2.0

package equinox

import (
	"fmt"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/lauritziu/maven-osgi-plugin/pkg/bundle"
	"github.com/lauritziu/maven-osgi-plugin/pkg/platform"
)

// ConfigIniFile is the framework configuration file name.
const ConfigIniFile = "config.ini"

// config.ini keys, in the order they are written.
const (
	KeyBundles           = "osgi.bundles"
	KeyDefaultStartLevel = "osgi.bundles.defaultStartLevel"
	KeyInstallArea       = "osgi.install.area"
	KeyFramework         = "osgi.framework"
	KeyP2DataArea        = "eclipse.p2.data.area"
	KeyConfigURL         = "org.eclipse.equinox.simpleconfigurator.configUrl"
	KeyCascaded          = "osgi.configuration.cascaded"
)

// InstallArea returns the install directory, a sibling of configDir. Paths of
// a non-host target are handled in slash form.
func InstallArea(t platform.Target, configDir string) string {
	if t.IsHost() {
		return filepath.Join(filepath.Dir(configDir), "install")
	}
	return path.Join(path.Dir(t.ToSlash(configDir)), "install")
}

// absolute makes p absolute against the working directory when t is the host.
// Paths for another target cannot be resolved here and are kept as given.
func absolute(t platform.Target, p string) (string, error) {
	if !t.IsHost() {
		return p, nil
	}
	return filepath.Abs(p)
}

// RenderConfigIni returns the content of config.ini for set. registryPath is
// the bundles.info the simple configurator should read.
func RenderConfigIni(set *bundle.Set, registryPath, configDir string, opts Options) ([]byte, error) {
	if err := CheckMandatory(set); err != nil {
		return nil, err
	}
	configurator, _ := set.Lookup(bundle.SimpleConfigurator)
	core, _ := set.Lookup(bundle.FrameworkCore)

	t := opts.Target
	configDir, err := absolute(t, configDir)
	if err != nil {
		return nil, fmt.Errorf("resolve configuration directory: %w", err)
	}
	registryPath, err = absolute(t, registryPath)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", registryPath, err)
	}
	frameworkPath, err := opts.materializer(configDir).Resolve(core)
	if err != nil {
		return nil, err
	}

	start := "@start"
	if configurator.AutoStart {
		start = "@" + strconv.Itoa(configurator.StartLevel) + `\:start`
	}

	lines := []struct{ key, value string }{
		{KeyBundles, `reference\:` + propertyURL(t, configurator.Path) + start},
		{KeyDefaultStartLevel, strconv.Itoa(bundle.DefaultStartLevel)},
		{KeyInstallArea, propertyURL(t, InstallArea(t, configDir))},
		{KeyFramework, propertyURL(t, frameworkPath)},
		{KeyP2DataArea, "@config.dir/.p2"},
		{KeyConfigURL, propertyURL(t, registryPath)},
		{KeyCascaded, "false"},
	}

	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l.key)
		b.WriteByte('=')
		b.WriteString(l.value)
		b.WriteString(t.LineEnding())
	}
	return []byte(b.String()), nil
}

// WriteConfigIni writes config.ini into configDir and returns its path. A
// missing mandatory bundle fails with *MissingBundleError before anything is
// written.
func WriteConfigIni(set *bundle.Set, registryPath, configDir string, opts Options) (string, error) {
	content, err := RenderConfigIni(set, registryPath, configDir, opts)
	if err != nil {
		return "", err
	}
	path := filepath.Join(configDir, ConfigIniFile)
	if err := writeFile(path, content); err != nil {
		return "", err
	}
	return path, nil
}
