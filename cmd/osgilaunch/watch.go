// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/lauritziu/maven-osgi-plugin/internal/watch"
	"github.com/lauritziu/maven-osgi-plugin/pkg/bundle"
)

type watchFlagValues struct {
	classpathFlagValues
	debounce time.Duration
	ignore   []string
}

func newWatchCommand(app *App, root *rootFlagValues) *cobra.Command {
	flags := &watchFlagValues{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate the launch configuration whenever a classpath entry changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.fail(runWatch(cmd, app, root, flags), root.verbose)
		},
	}
	addClasspathFlags(cmd, &flags.classpathFlagValues)
	cmd.Flags().DurationVar(&flags.debounce, "debounce", 500*time.Millisecond, "quiet period before regenerating")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns, relative to watched directories, to ignore")
	return cmd
}

func runWatch(cmd *cobra.Command, app *App, root *rootFlagValues, flags *watchFlagValues) error {
	ctx := cmd.Context()

	// The first run validates the configuration and resolves the
	// configuration directory, which the watcher must not observe.
	s, err := app.open(ctx, root, &flags.classpathFlagValues, nil)
	if err != nil {
		return err
	}
	syn, err := s.synthesize(ctx)
	if err != nil {
		return err
	}
	printSynthesis(app, s, syn)

	entries, err := readClasspath(flags.classpath, flags.classpathFile)
	if err != nil {
		return err
	}
	var local []string
	for _, entry := range entries {
		if path, pathErr := bundle.LocalPath(entry); pathErr == nil {
			local = append(local, path)
		}
	}

	regenerate := func(ctx context.Context, changed []string) error {
		s.logger.Debug("regenerating", "changed", changed)
		next, err := app.open(ctx, root, &flags.classpathFlagValues, nil)
		if err != nil {
			return err
		}
		syn, err := next.synthesize(ctx)
		if err != nil {
			return err
		}
		printSynthesis(app, next, syn)
		return nil
	}

	w, err := watch.New(watch.Config{
		Entries:  local,
		Ignore:   flags.ignore,
		Exclude:  []string{syn.ConfigurationDir},
		Debounce: flags.debounce,
		OnChange: regenerate,
		Logger:   s.logger,
	})
	if err != nil {
		return err
	}
	s.logger.Info("watching classpath", "entries", len(local))
	return w.Run(ctx)
}
