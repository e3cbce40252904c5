// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"runtime"
	"strings"
)

// OS name constants for runtime.GOOS comparisons.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
)

// Target is the operating system a launch configuration is written for.
// The zero value means the host operating system.
type Target string

// Host returns the Target of the running process.
func Host() Target {
	return Target(runtime.GOOS)
}

// resolved maps the zero value to the host.
func (t Target) resolved() Target {
	if t == "" {
		return Host()
	}
	return t
}

// IsWindows reports whether the target uses Windows path and line conventions.
func (t Target) IsWindows() bool {
	return t.resolved() == Windows
}

// IsHost reports whether the target is the operating system of the running
// process, so host path functions apply to its paths.
func (t Target) IsHost() bool {
	return t.resolved() == Host()
}

// LineEnding returns the native line terminator of the target.
func (t Target) LineEnding() string {
	if t.IsWindows() {
		return "\r\n"
	}
	return "\n"
}

// ToSlash normalizes a native path of the target to forward slashes.
// Backslashes are only separators on Windows; elsewhere they are ordinary
// file name characters and are left untouched.
func (t Target) ToSlash(path string) string {
	if t.IsWindows() {
		return strings.ReplaceAll(path, `\`, "/")
	}
	return path
}

// String returns the operating system name.
func (t Target) String() string {
	return string(t.resolved())
}
