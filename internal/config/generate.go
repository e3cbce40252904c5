// SPDX-License-Identifier: MPL-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/exp/maps"
)

// GenerateCUE renders cfg as a launcher.cue file.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// osgilaunch launcher configuration\n\n")

	sb.WriteString("runtime_arguments: [")
	for i, arg := range cfg.RuntimeArguments {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%q", arg)
	}
	sb.WriteString("]\n")

	if len(cfg.StartLevels) > 0 {
		sb.WriteString("\nstart_levels: {\n")
		for _, name := range sortedKeys(cfg.StartLevels) {
			fmt.Fprintf(&sb, "\t%q: %d\n", name, cfg.StartLevels[name])
		}
		sb.WriteString("}\n")
	}

	sb.WriteString("\nvm_properties: {\n")
	for _, key := range sortedKeys(cfg.VMProperties) {
		fmt.Fprintf(&sb, "\t%q: %q\n", key, cfg.VMProperties[key])
	}
	sb.WriteString("}\n\n")

	fmt.Fprintf(&sb, "configuration_dir: %q\n", cfg.ConfigurationDir)
	if cfg.JavaBinary != "" {
		fmt.Fprintf(&sb, "java_binary: %q\n", cfg.JavaBinary)
	}
	fmt.Fprintf(&sb, "parallelism: %d\n", cfg.Parallelism)

	return sb.String()
}

// Save writes cfg to launcher.cue in the user config directory and returns
// the file path.
func Save(cfg *Config) (string, error) {
	cfgDir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	cfgPath := filepath.Join(cfgDir, ConfigFileName+".cue")
	if err := os.WriteFile(cfgPath, []byte(GenerateCUE(cfg)), 0o644); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}
	return cfgPath, nil
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
