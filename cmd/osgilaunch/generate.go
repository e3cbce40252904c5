// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lauritziu/maven-osgi-plugin/pkg/equinox"
)

func newGenerateCommand(app *App, root *rootFlagValues) *cobra.Command {
	flags := &classpathFlagValues{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write config.ini and bundles.info without starting the framework",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.fail(runGenerate(cmd, app, root, flags), root.verbose)
		},
	}
	addClasspathFlags(cmd, flags)
	return cmd
}

func runGenerate(cmd *cobra.Command, app *App, root *rootFlagValues, flags *classpathFlagValues) error {
	ctx := cmd.Context()

	s, err := app.open(ctx, root, flags, nil)
	if err != nil {
		return err
	}
	syn, err := s.synthesize(ctx)
	if err != nil {
		return err
	}
	printSynthesis(app, s, syn)
	return nil
}

func printSynthesis(app *App, s *session, syn *equinox.Synthesis) {
	fmt.Fprintf(app.stdout, "%s %d bundles\n", SuccessStyle.Render("✓"), s.scan.Bundles.Len())
	fmt.Fprintf(app.stdout, "%s: %s\n", KeyStyle.Render("configuration"), syn.ConfigurationDir)
	fmt.Fprintf(app.stdout, "%s: %s\n", KeyStyle.Render("config.ini"), syn.ConfigIni)
	fmt.Fprintf(app.stdout, "%s: %s\n", KeyStyle.Render("bundles.info"), syn.BundlesInfo)
	fmt.Fprintf(app.stdout, "%s: %s\n", KeyStyle.Render("framework"), syn.FrameworkPath)
	if syn.LauncherPath != "" {
		fmt.Fprintf(app.stdout, "%s: %s\n", KeyStyle.Render("launcher"), syn.LauncherPath)
	}
	for _, ext := range syn.ExtensionPaths {
		fmt.Fprintf(app.stdout, "%s: %s\n", KeyStyle.Render("extension"), ext)
	}
	if n := len(s.scan.Warnings); n > 0 {
		fmt.Fprintf(app.stdout, "%s %d classpath entries skipped\n", WarningStyle.Render("!"), n)
	}
}
