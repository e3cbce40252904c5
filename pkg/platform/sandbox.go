// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"os"
	"sync"
)

// Sandbox type constants.
const (
	// SandboxNone indicates no sandbox environment detected.
	SandboxNone SandboxType = ""
	// SandboxFlatpak indicates a Flatpak sandbox environment.
	SandboxFlatpak SandboxType = "flatpak"
	// SandboxSnap indicates a Snap sandbox environment.
	SandboxSnap SandboxType = "snap"
)

// detectOnce caches the sandbox detection result for the lifetime of the process.
// detectSandboxFrom must not panic: sync.OnceValue re-panics on every call.
var detectOnce = sync.OnceValue(func() SandboxType {
	return detectSandboxFrom(os.Getenv, statFile)
})

// SandboxType identifies the type of application sandbox, if any.
type SandboxType string

// DetectSandbox returns the sandbox the current process runs in. The result
// is cached after the first call.
func DetectSandbox() SandboxType {
	return detectOnce()
}

// HostSpawnPrefix returns the command prefix that starts a program on the host
// from inside the given sandbox. A Java runtime is rarely bundled into a
// Flatpak, so the launcher hands the process to flatpak-spawn. Snap confinement
// already exposes host binaries to classic snaps and needs no prefix.
func HostSpawnPrefix(st SandboxType) []string {
	switch st {
	case SandboxFlatpak:
		return []string{"flatpak-spawn", "--host"}
	case SandboxNone, SandboxSnap:
		return nil
	default:
		return nil
	}
}

// detectSandboxFrom performs sandbox detection using the provided lookup functions.
func detectSandboxFrom(lookupEnv func(string) string, statFile func(string) error) SandboxType {
	// /.flatpak-info is present inside every Flatpak sandbox and takes precedence.
	if err := statFile("/.flatpak-info"); err == nil {
		return SandboxFlatpak
	}

	if lookupEnv("SNAP_NAME") != "" {
		return SandboxSnap
	}

	return SandboxNone
}

func statFile(path string) error {
	_, err := os.Stat(path)
	return err
}
