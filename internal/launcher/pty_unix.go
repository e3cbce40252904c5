// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package launcher

import (
	"errors"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/creack/pty"
	"golang.org/x/term"
)

// runPty starts cmd on a new pseudo-terminal and relays it to in and out.
// When in is a terminal it is switched to raw mode for the duration.
func runPty(cmd *exec.Cmd, in io.Reader, out io.Writer) (err error) {
	ptmx, err := pty.Start(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := ptmx.Close(); closeErr != nil && err == nil && !errors.Is(closeErr, os.ErrClosed) {
			err = closeErr
		}
	}()

	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		_ = pty.InheritSize(f, ptmx) // best-effort, the default size still works

		winch := make(chan os.Signal, 1)
		signal.Notify(winch, syscall.SIGWINCH)
		defer func() {
			signal.Stop(winch)
			close(winch)
		}()
		go func() {
			for range winch {
				_ = pty.InheritSize(f, ptmx)
			}
		}()

		state, rawErr := term.MakeRaw(int(f.Fd()))
		if rawErr == nil {
			defer func() { _ = term.Restore(int(f.Fd()), state) }()
		}
	}

	if in != nil {
		go func() { _, _ = io.Copy(ptmx, in) }()
	}
	// EIO is how the pty reports the child side closing
	_, _ = io.Copy(out, ptmx)

	return cmd.Wait()
}
