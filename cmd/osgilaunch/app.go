// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/charmbracelet/log"

	"github.com/lauritziu/maven-osgi-plugin/internal/config"
	"github.com/lauritziu/maven-osgi-plugin/internal/issue"
	"github.com/lauritziu/maven-osgi-plugin/internal/launcher"
	"github.com/lauritziu/maven-osgi-plugin/pkg/bundle"
	"github.com/lauritziu/maven-osgi-plugin/pkg/equinox"
	"github.com/lauritziu/maven-osgi-plugin/pkg/explode"
	"github.com/lauritziu/maven-osgi-plugin/pkg/platform"
)

type (
	// App is the composition root of the CLI. Command handlers receive it and
	// reach configuration, output streams and the process runner through it.
	App struct {
		Config config.Provider
		Runner Runner
		Getenv func(string) string
		stdout io.Writer
		stderr io.Writer
	}

	// Dependencies are the injection points of NewApp. Nil fields get
	// production defaults.
	Dependencies struct {
		Config config.Provider
		Runner Runner
		Getenv func(string) string
		Stdout io.Writer
		Stderr io.Writer
	}

	// Runner starts the framework process.
	Runner interface {
		Run(ctx context.Context, inv *launcher.Invocation) (int, error)
		RunInteractive(ctx context.Context, inv *launcher.Invocation) (int, error)
	}

	// rootFlagValues hold the persistent flags.
	rootFlagValues struct {
		verbose    bool
		configPath string
	}

	// classpathFlagValues hold the flags shared by commands that scan.
	classpathFlagValues struct {
		classpath        string
		classpathFile    string
		configurationDir string
		args             string
	}

	// session is the outcome of loading configuration and scanning.
	session struct {
		cfg      *config.Config
		source   string
		scan     *bundle.ScanResult
		trailing []string
		logger   *log.Logger
	}
)

// NewApp builds an App, filling unset dependencies with defaults.
func NewApp(deps Dependencies) *App {
	app := &App{
		Config: deps.Config,
		Runner: deps.Runner,
		Getenv: deps.Getenv,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
	}
	if app.Config == nil {
		app.Config = config.NewProvider()
	}
	if app.Getenv == nil {
		app.Getenv = os.Getenv
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	return app
}

func (a *App) logger(verbose bool) *log.Logger {
	logger := log.NewWithOptions(a.stderr, log.Options{Prefix: config.AppName})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

func (a *App) runner(logger *log.Logger) Runner {
	if a.Runner != nil {
		return a.Runner
	}
	return launcher.NewRunner(logger)
}

// open loads the configuration, applies flag overrides and the product id,
// and scans the classpath. Configuration conflicts are reported before any
// entry is read.
func (a *App) open(ctx context.Context, root *rootFlagValues, cp *classpathFlagValues, trailing []string) (*session, error) {
	logger := a.logger(root.verbose)

	cfg, source, err := a.Config.LoadWithSource(ctx, config.LoadOptions{ConfigFilePath: root.configPath})
	if err != nil {
		return nil, err
	}
	if source != "" {
		logger.Debug("loaded configuration", "file", source)
	}
	if cp.configurationDir != "" {
		cfg.ConfigurationDir = cp.configurationDir
	}

	raw, err := launcher.SplitArgs(cp.args, a.Getenv)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("parse --args").
			WithResource(cp.args).
			WithSuggestion("Check that quotes in --args are balanced").
			Wrap(err).
			BuildError()
	}
	trailing = append(raw, trailing...)

	trailing, err = cfg.ConsumeProductID(trailing)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("apply product id").
			WithIssue(issue.ConfigurationConflictId).
			Wrap(err).
			BuildError()
	}

	entries, err := readClasspath(cp.classpath, cp.classpathFile)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("read classpath file").
			WithResource(cp.classpathFile).
			Wrap(err).
			BuildError()
	}
	if len(entries) == 0 {
		return nil, issue.NewErrorContext().
			WithOperation("scan classpath").
			WithIssue(issue.ClasspathEmptyId).
			Wrap(errEmptyClasspath).
			BuildError()
	}

	scanner := bundle.NewScanner(
		bundle.WithStartLevels(cfg.StartLevelTable()),
		bundle.WithParallelism(cfg.Parallelism),
		bundle.WithLogger(logger),
	)
	scan, err := scanner.Scan(ctx, entries)
	if err != nil {
		return nil, err
	}
	logger.Debug("scanned classpath", "entries", len(entries), "bundles", scan.Bundles.Len(), "skipped", len(scan.Warnings))

	return &session{cfg: cfg, source: source, scan: scan, trailing: trailing, logger: logger}, nil
}

// synthesize writes the launch configuration for s.
func (s *session) synthesize(ctx context.Context) (*equinox.Synthesis, error) {
	extensions, extensionMode := s.cfg.FrameworkExtensions()
	syn, err := equinox.Synthesize(ctx, s.scan.Bundles, equinox.SynthesisOptions{
		ConfigurationDir: s.cfg.ConfigurationDir,
		Target:           platform.Host(),
		ExtensionMode:    extensionMode,
		Extensions:       extensions,
		Logger:           s.logger,
	})
	if err != nil {
		return nil, synthesisError(err, s.cfg.ConfigurationDir)
	}
	return syn, nil
}

// invocation builds the java command line for syn.
func (s *session) invocation(syn *equinox.Synthesis, getenv func(string) string) (*launcher.Invocation, error) {
	inv, err := launcher.New(launcher.Params{
		Java:             s.cfg.ResolveJavaBinary(getenv),
		VMProperties:     s.cfg.VMProperties,
		RuntimeArguments: s.cfg.RuntimeArguments,
		TrailingArgs:     s.trailing,
		Synthesis:        syn,
		Sandbox:          platform.DetectSandbox(),
	})
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("locate the framework launcher").
			WithIssue(issue.LauncherNotFoundId).
			Wrap(err).
			BuildError()
	}
	return inv, nil
}

func synthesisError(err error, configDir string) error {
	ctx := issue.NewErrorContext().
		WithOperation("synthesize launch configuration").
		WithResource(configDir).
		Wrap(err)

	var missing *equinox.MissingBundleError
	switch {
	case errors.As(err, &missing):
		ctx.WithIssue(issue.MissingMandatoryBundleId)
	case errors.Is(err, explode.ErrExtract):
		ctx.WithIssue(issue.ExtractionFailedId)
	case errors.Is(err, os.ErrPermission):
		ctx.WithIssue(issue.PermissionDeniedId)
	}
	return ctx.BuildError()
}

func runError(err error, java string) error {
	ctx := issue.NewErrorContext().
		WithOperation("start the framework").
		WithResource(java).
		Wrap(err)
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
		ctx.WithIssue(issue.JavaNotFoundId)
	}
	return ctx.BuildError()
}

// fail renders err to stderr and converts it to an ExitError, which the root
// error handler does not print a second time.
func (a *App) fail(err error, verbose bool) error {
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return err
	}

	fmt.Fprintln(a.stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))

	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		if catalog := ae.Issue(); catalog != nil {
			if rendered, renderErr := catalog.Render("dark"); renderErr == nil {
				fmt.Fprint(a.stderr, rendered)
			}
		}
	}

	return &ExitError{Code: 1, Err: err}
}
