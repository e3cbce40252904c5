// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/lauritziu/maven-osgi-plugin/internal/issue"
)

const (
	// AppName is the application name.
	AppName = "osgilaunch"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "launcher"
	// EnvPrefix prefixes environment overrides (OSGILAUNCH_CONFIGURATION_DIR, ...).
	EnvPrefix = "OSGILAUNCH"
	// ConfigEnvVar names a config file to load.
	ConfigEnvVar = EnvPrefix + "_CONFIG"
)

// Scalar keys handled by Viper. Tables are decoded directly because Viper
// lower-cases map keys and splits them on dots, which would mangle bundle
// symbolic names and property names.
const (
	keyConfigurationDir = "configuration_dir"
	keyJavaBinary       = "java_binary"
	keyParallelism      = "parallelism"
)

// localConfigFiles are looked up in the working directory, in order.
var localConfigFiles = []string{ConfigFileName + ".cue", ConfigFileName + ".yaml", ConfigFileName + ".yml"}

// fileConfig mirrors the file format. Pointer and map fields stay nil when the
// file leaves them out.
type fileConfig struct {
	RuntimeArguments *[]string        `json:"runtime_arguments,omitempty"`
	StartLevels      map[string]int    `json:"start_levels,omitempty"`
	VMProperties     map[string]string `json:"vm_properties,omitempty"`
	ConfigurationDir *string           `json:"configuration_dir,omitempty"`
	JavaBinary       *string           `json:"java_binary,omitempty"`
	Parallelism      *int              `json:"parallelism,omitempty"`
}

// legacyYAMLKeys maps the key names of the earlier YAML launcher format.
var legacyYAMLKeys = map[string]string{
	"osgiRuntimeArguments": "runtime_arguments",
	"startLevels":          "start_levels",
	"vmProperties":         "vm_properties",
}

// ConfigDir returns the osgilaunch directory below the user configuration
// directory (%APPDATA%, ~/Library/Application Support or $XDG_CONFIG_HOME).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(dir, AppName), nil
}

// loadWithOptions loads the configuration and returns it with the path of
// the file it came from, empty when the defaults were used.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	defaults := DefaultConfig()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetDefault(keyConfigurationDir, defaults.ConfigurationDir)
	v.SetDefault(keyJavaBinary, defaults.JavaBinary)
	v.SetDefault(keyParallelism, defaults.Parallelism)
	if err := v.BindEnv("config_file", ConfigEnvVar); err != nil {
		return nil, "", fmt.Errorf("bind %s: %w", ConfigEnvVar, err)
	}

	path, explicit, err := resolveConfigPath(opts, v.GetString("config_file"))
	if err != nil {
		return nil, "", err
	}

	cfg := defaults
	if path != "" {
		fc, err := readConfigFile(path)
		if err != nil {
			suggestions := []string{
				"Check the file against the schema shown by 'osgilaunch config dump'",
				"Run 'osgilaunch config show' to see the effective configuration",
			}
			if explicit {
				suggestions = append(suggestions, "Unset "+ConfigEnvVar+" or drop --config to use the defaults")
			}
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(path).
				WithSuggestions(suggestions...).
				WithIssue(issue.ConfigLoadFailedId).
				Wrap(err).
				BuildError()
		}
		if err := v.MergeConfigMap(fc.scalars()); err != nil {
			return nil, "", fmt.Errorf("failed to merge config: %w", err)
		}
		fc.applyTables(cfg)
	}

	cfg.ConfigurationDir = v.GetString(keyConfigurationDir)
	cfg.JavaBinary = v.GetString(keyJavaBinary)
	cfg.Parallelism = v.GetInt(keyParallelism)

	if err := cfg.Validate(); err != nil {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(path).
			WithIssue(issue.ConfigLoadFailedId).
			Wrap(err).
			BuildError()
	}

	return cfg, path, nil
}

// resolveConfigPath picks the config file. Explicit paths, from options or
// the environment, must exist; the implicit locations are optional.
func resolveConfigPath(opts LoadOptions, envPath string) (path string, explicit bool, err error) {
	for _, p := range []string{opts.ConfigFilePath, envPath} {
		if p == "" {
			continue
		}
		if !fileExists(p) {
			return "", true, issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(p).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Check that the file exists and is readable").
				WithIssue(issue.ConfigLoadFailedId).
				Wrap(fmt.Errorf("%w: %s", ErrConfigNotFound, p)).
				BuildError()
		}
		return p, true, nil
	}

	cfgDir := opts.ConfigDirPath
	if cfgDir == "" {
		cfgDir, err = ConfigDir()
		if err != nil {
			return "", false, err
		}
	}
	if userPath := filepath.Join(cfgDir, ConfigFileName+".cue"); fileExists(userPath) {
		return userPath, false, nil
	}

	baseDir := opts.BaseDir
	for _, name := range localConfigFiles {
		if p := filepath.Join(baseDir, name); fileExists(p) {
			return p, false, nil
		}
	}
	return "", false, nil
}

// readConfigFile decodes a CUE or YAML config file.
func readConfigFile(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if len(data) > maxConfigFileSize {
		return nil, fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes", path, len(data), maxConfigFileSize)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var root yaml.Node
		if err := yaml.Unmarshal(data, &root); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, path, err)
		}
		var doc map[string]any
		if len(root.Content) > 0 {
			quoteStringTables(root.Content[0])
			if err := root.Decode(&doc); err != nil {
				return nil, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, path, err)
			}
		}
		if doc == nil {
			doc = map[string]any{}
		}
		for legacy, key := range legacyYAMLKeys {
			if value, ok := doc[legacy]; ok {
				if _, dup := doc[key]; dup {
					return nil, fmt.Errorf("%w: %s: both %s and %s are set", ErrInvalidConfig, path, legacy, key)
				}
				doc[key] = value
				delete(doc, legacy)
			}
		}
		return decodeDocument(doc, path)
	default:
		return decodeCUE(data, path)
	}
}

// stringTables hold strings only; YAML numbers and booleans inside them are
// kept as written, so "-console 8999" needs no quoting.
var stringTables = []string{"runtime_arguments", "vm_properties", "osgiRuntimeArguments", "vmProperties"}

// quoteStringTables retags the scalar items of the string tables in a YAML
// mapping as !!str.
func quoteStringTables(mapping *yaml.Node) {
	if mapping.Kind != yaml.MappingNode {
		return
	}
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if !slices.Contains(stringTables, mapping.Content[i].Value) {
			continue
		}
		table := mapping.Content[i+1]
		for j, item := range table.Content {
			// mapping keys sit at even indexes
			if table.Kind == yaml.MappingNode && j%2 == 0 {
				continue
			}
			if item.Kind == yaml.ScalarNode && item.Tag != "!!null" {
				item.Tag = "!!str"
			}
		}
	}
}

// scalars returns the scalar settings present in the file.
func (fc *fileConfig) scalars() map[string]any {
	m := make(map[string]any)
	if fc.ConfigurationDir != nil {
		m[keyConfigurationDir] = *fc.ConfigurationDir
	}
	if fc.JavaBinary != nil {
		m[keyJavaBinary] = *fc.JavaBinary
	}
	if fc.Parallelism != nil {
		m[keyParallelism] = *fc.Parallelism
	}
	return m
}

// applyTables replaces the tables of cfg with those present in the file.
func (fc *fileConfig) applyTables(cfg *Config) {
	if fc.RuntimeArguments != nil {
		cfg.RuntimeArguments = *fc.RuntimeArguments
	}
	if fc.StartLevels != nil {
		cfg.StartLevels = fc.StartLevels
	}
	if fc.VMProperties != nil {
		cfg.VMProperties = fc.VMProperties
	}
}

// fileExists checks if a file exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false
	}
	return err == nil && !info.IsDir()
}
