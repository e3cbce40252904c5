// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"runtime"
	"testing"
)

// SetConfigHome points os.UserConfigDir at dir for the duration of the test
// and returns a cleanup function that restores the original value.
//
// Platform handling:
//   - Windows: sets APPDATA
//   - macOS: sets HOME (the config dir is $HOME/Library/Application Support)
//   - others: sets XDG_CONFIG_HOME
func SetConfigHome(t testing.TB, dir string) func() {
	t.Helper()

	switch runtime.GOOS {
	case "windows":
		return MustSetenv(t, "APPDATA", dir)
	case "darwin":
		return MustSetenv(t, "HOME", dir)
	default:
		return MustSetenv(t, "XDG_CONFIG_HOME", dir)
	}
}
