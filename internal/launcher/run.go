// SPDX-License-Identifier: MPL-2.0

package launcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/charmbracelet/log"
)

// Runner starts invocations.
type Runner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	// Env is the process environment; nil inherits the current one.
	Env    []string
	Logger *log.Logger
}

// NewRunner returns a Runner attached to the process's standard streams.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Runner{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr, Logger: logger}
}

func (r *Runner) command(ctx context.Context, inv *Invocation) *exec.Cmd {
	argv := inv.Argv()
	//nolint:gosec // G204: the command line is built from the user's own configuration
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Env = r.Env
	return cmd
}

// Run starts the framework and waits for it. A non-zero exit status of the
// framework is returned as the exit code, not as an error.
func (r *Runner) Run(ctx context.Context, inv *Invocation) (int, error) {
	cmd := r.command(ctx, inv)
	cmd.Stdin = r.Stdin
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	r.Logger.Debug("starting framework", "command", inv.String())
	return exitCode(cmd.Run())
}

// RunInteractive runs the framework on a pseudo-terminal so its console
// behaves as if started from a shell.
func (r *Runner) RunInteractive(ctx context.Context, inv *Invocation) (int, error) {
	cmd := r.command(ctx, inv)

	r.Logger.Debug("starting framework on a pty", "command", inv.String())
	return exitCode(runPty(cmd, r.Stdin, r.Stdout))
}

func exitCode(err error) (int, error) {
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return 1, fmt.Errorf("failed to run framework: %w", err)
}
