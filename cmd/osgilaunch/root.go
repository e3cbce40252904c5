// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/lauritziu/maven-osgi-plugin/internal/issue"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	root := &rootFlagValues{}

	rootCmd := &cobra.Command{
		Use:   "osgilaunch",
		Short: "Launch an Equinox OSGi framework from a classpath",
		Long: TitleStyle.Render("osgilaunch") + SubtitleStyle.Render(" - launch an Equinox OSGi framework from a classpath") + `

osgilaunch scans a classpath for OSGi bundles, writes the simple
configurator's bundles.info together with config.ini, and starts
org.eclipse.equinox.launcher.Main on the result.

` + SubtitleStyle.Render("Examples:") + `
  osgilaunch bundles --classpath "$(cat cp.txt)"
  osgilaunch generate --classpath-file cp.txt
  osgilaunch launch --classpath-file cp.txt -- -launcher.product.id my.product
  osgilaunch watch --classpath-file cp.txt`,
		SilenceUsage: true,
	}
	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	rootCmd.PersistentFlags().BoolVarP(&root.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&root.configPath, "config", "", "config file (default is <user config dir>/osgilaunch/launcher.cue)")

	rootCmd.AddCommand(
		newLaunchCommand(app, root),
		newGenerateCommand(app, root),
		newBundlesCommand(app, root),
		newWatchCommand(app, root),
		newConfigCommand(app, root),
	)
	return rootCmd
}

func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI and exits with the resulting status. It is called by
// main.main.
func Execute() {
	app := NewApp(Dependencies{})
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(handleError),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// handleError prints errors that no command has rendered yet, such as flag
// parsing failures.
func handleError(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}

// formatErrorForDisplay uses the ActionableError format when available. In
// verbose mode the full error chain is included.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
