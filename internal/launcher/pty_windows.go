// SPDX-License-Identifier: MPL-2.0

//go:build windows

package launcher

import (
	"errors"
	"io"
	"os/exec"
)

// ErrPtyUnsupported is returned by RunInteractive on Windows.
var ErrPtyUnsupported = errors.New("interactive mode needs a pseudo-terminal, which is not supported on Windows")

func runPty(_ *exec.Cmd, _ io.Reader, _ io.Writer) error {
	return ErrPtyUnsupported
}
