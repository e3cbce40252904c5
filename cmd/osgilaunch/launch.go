// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

type launchFlagValues struct {
	classpathFlagValues
	dryRun      bool
	interactive bool
}

func newLaunchCommand(app *App, root *rootFlagValues) *cobra.Command {
	flags := &launchFlagValues{}

	cmd := &cobra.Command{
		Use:   "launch [flags] [-- framework-args...]",
		Short: "Synthesize the launch configuration and start the framework",
		Long: `Scan the classpath, write config.ini and bundles.info, then start
org.eclipse.equinox.launcher.Main in a new JVM.

Arguments after -- are passed to the framework after the configured runtime
arguments. A "-launcher.product.id <id>" pair among them selects the product.
The exit status of the framework becomes the exit status of osgilaunch.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.fail(runLaunch(cmd, app, root, flags, args), root.verbose)
		},
	}
	addClasspathFlags(cmd, &flags.classpathFlagValues)
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "print the java command line instead of running it")
	cmd.Flags().BoolVarP(&flags.interactive, "interactive", "i", false, "run the framework console on a pseudo-terminal")
	return cmd
}

func runLaunch(cmd *cobra.Command, app *App, root *rootFlagValues, flags *launchFlagValues, args []string) error {
	ctx := cmd.Context()

	s, err := app.open(ctx, root, &flags.classpathFlagValues, args)
	if err != nil {
		return err
	}
	syn, err := s.synthesize(ctx)
	if err != nil {
		return err
	}
	inv, err := s.invocation(syn, app.Getenv)
	if err != nil {
		return err
	}

	if flags.dryRun {
		fmt.Fprintln(app.stdout, inv.String())
		return nil
	}

	runner := app.runner(s.logger)
	s.logger.Info("starting framework", "configuration", syn.ConfigurationDir)
	var code int
	if flags.interactive {
		code, err = runner.RunInteractive(ctx, inv)
	} else {
		code, err = runner.Run(ctx, inv)
	}
	if err != nil {
		return runError(err, inv.Java)
	}
	if code != 0 {
		return &ExitError{Code: code}
	}
	return nil
}
