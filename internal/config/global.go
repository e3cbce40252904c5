// SPDX-License-Identifier: MPL-2.0

package config

// configDirOverride lets tests bypass os.UserConfigDir, which does not follow
// HOME on every platform.
var configDirOverride string

// Reset clears test overrides. Call from test cleanup to restore defaults.
func Reset() {
	configDirOverride = ""
}

// SetConfigDirOverride sets a custom user config directory path.
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}
