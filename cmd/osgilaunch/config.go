// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"golang.org/x/exp/maps"
	"gopkg.in/yaml.v3"

	"github.com/lauritziu/maven-osgi-plugin/internal/config"
	"github.com/lauritziu/maven-osgi-plugin/internal/issue"
)

func newConfigCommand(app *App, root *rootFlagValues) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the launcher configuration",
		Long: `Inspect the launcher configuration.

The configuration is read from, in order:
  - the --config flag or the OSGILAUNCH_CONFIG environment variable
  - <user config dir>/osgilaunch/launcher.cue
  - launcher.cue, launcher.yaml or launcher.yml in the working directory
Scalar settings can be overridden with OSGILAUNCH_* environment variables.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.fail(showConfig(cmd, app, root), root.verbose)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show where configuration files are looked up",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.fail(showConfigPath(cmd, app, root), root.verbose)
		},
	})

	var format string
	dumpCmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the effective configuration as CUE, YAML, JSON or TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := app.Config.Load(cmd.Context(), config.LoadOptions{ConfigFilePath: root.configPath})
			if err != nil {
				return app.fail(err, root.verbose)
			}
			return app.fail(dumpConfig(app, cfg, format), root.verbose)
		},
	}
	dumpCmd.Flags().StringVarP(&format, "output", "o", "cue", "output format: cue, yaml, json or toml")
	cfgCmd.AddCommand(dumpCmd)

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration to the user config directory",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return app.fail(initConfig(app, force), root.verbose)
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	cfgCmd.AddCommand(initCmd)

	return cfgCmd
}

func showConfig(cmd *cobra.Command, app *App, root *rootFlagValues) error {
	cfg, source, err := app.Config.LoadWithSource(cmd.Context(), config.LoadOptions{ConfigFilePath: root.configPath})
	if err != nil {
		return err
	}

	w := app.stdout
	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)
	if source != "" {
		fmt.Fprintf(w, "%s: %s\n", KeyStyle.Render("Config file"), source)
	} else {
		fmt.Fprintf(w, "%s: %s\n", KeyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%s: %s\n", KeyStyle.Render("configuration_dir"), SuccessStyle.Render(cfg.ConfigurationDir))
	fmt.Fprintf(w, "%s: %s\n", KeyStyle.Render("java"), SuccessStyle.Render(cfg.ResolveJavaBinary(app.Getenv)))
	parallelism := "auto"
	if cfg.Parallelism > 0 {
		parallelism = strconv.Itoa(cfg.Parallelism)
	}
	fmt.Fprintf(w, "%s: %s\n", KeyStyle.Render("parallelism"), SuccessStyle.Render(parallelism))
	fmt.Fprintf(w, "%s: %s\n", KeyStyle.Render("runtime_arguments"), SuccessStyle.Render(strings.Join(cfg.RuntimeArguments, " ")))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", KeyStyle.Render("vm_properties"))
	if len(cfg.VMProperties) == 0 {
		fmt.Fprintf(w, "  %s\n", SubtitleStyle.Render("(none)"))
	}
	for _, key := range slices.Sorted(maps.Keys(cfg.VMProperties)) {
		fmt.Fprintf(w, "  %s=%s\n", key, SuccessStyle.Render(cfg.VMProperties[key]))
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", KeyStyle.Render("start_levels"))
	if len(cfg.StartLevels) == 0 {
		fmt.Fprintf(w, "  %s\n", SubtitleStyle.Render("(built-in table)"))
	}
	for _, name := range slices.Sorted(maps.Keys(cfg.StartLevels)) {
		fmt.Fprintf(w, "  %s: %s\n", name, SuccessStyle.Render(strconv.Itoa(cfg.StartLevels[name])))
	}
	return nil
}

func showConfigPath(cmd *cobra.Command, app *App, root *rootFlagValues) error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}
	_, source, err := app.Config.LoadWithSource(cmd.Context(), config.LoadOptions{ConfigFilePath: root.configPath})
	if err != nil {
		return err
	}

	fmt.Fprintf(app.stdout, "Config directory: %s\n", cfgDir)
	fmt.Fprintf(app.stdout, "User config file: %s\n", filepath.Join(cfgDir, config.ConfigFileName+".cue"))
	if source == "" {
		source = "(none, using defaults)"
	}
	fmt.Fprintf(app.stdout, "Active config file: %s\n", source)
	return nil
}

func dumpConfig(app *App, cfg *config.Config, format string) error {
	switch format {
	case "cue":
		fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
		return nil
	case outputYAML:
		return yaml.NewEncoder(app.stdout).Encode(cfg)
	case outputJSON:
		enc := json.NewEncoder(app.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(cfg)
	case outputTOML:
		return toml.NewEncoder(app.stdout).Encode(cfg)
	default:
		return fmt.Errorf("unknown output format %q (want cue, yaml, json or toml)", format)
	}
}

func initConfig(app *App, force bool) error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}
	target := filepath.Join(cfgDir, config.ConfigFileName+".cue")
	if _, statErr := os.Stat(target); statErr == nil && !force {
		return issue.NewErrorContext().
			WithOperation("create default configuration").
			WithResource(target).
			WithSuggestion("Pass --force to overwrite it").
			Wrap(os.ErrExist).
			BuildError()
	}

	path, err := config.Save(config.DefaultConfig())
	if err != nil {
		return err
	}
	fmt.Fprintf(app.stdout, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), path)
	return nil
}
