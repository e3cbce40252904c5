// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"errors"
	"runtime"
	"testing"
)

func TestTarget_LineEnding(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		target Target
		want   string
	}{
		{"windows", Windows, "\r\n"},
		{"linux", Linux, "\n"},
		{"darwin", Darwin, "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.target.LineEnding(); got != tt.want {
				t.Errorf("LineEnding() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTarget_ZeroValueIsHost(t *testing.T) {
	t.Parallel()

	var zero Target
	if zero.String() != runtime.GOOS {
		t.Errorf("zero Target = %q, want %q", zero.String(), runtime.GOOS)
	}
	if zero.IsWindows() != (runtime.GOOS == Windows) {
		t.Errorf("zero Target IsWindows() = %v on %s", zero.IsWindows(), runtime.GOOS)
	}
	if !zero.IsHost() || !Host().IsHost() {
		t.Error("zero Target and Host() must report IsHost()")
	}
	other := Target(Windows)
	if runtime.GOOS == Windows {
		other = Linux
	}
	if other.IsHost() {
		t.Errorf("Target(%q).IsHost() = true on %s", other, runtime.GOOS)
	}
}

func TestTarget_ToSlash(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		target Target
		in     string
		want   string
	}{
		{"windows drive path", Windows, `C:\work\libs\core.jar`, "C:/work/libs/core.jar"},
		{"windows already slashed", Windows, "C:/work/core.jar", "C:/work/core.jar"},
		{"linux keeps backslash", Linux, `/tmp/odd\name.jar`, `/tmp/odd\name.jar`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.target.ToSlash(tt.in); got != tt.want {
				t.Errorf("ToSlash(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDetectSandboxFrom(t *testing.T) {
	t.Parallel()

	missing := func(string) error { return errors.New("not found") }
	present := func(string) error { return nil }

	tests := []struct {
		name string
		env  map[string]string
		stat func(string) error
		want SandboxType
	}{
		{"none", nil, missing, SandboxNone},
		{"flatpak", nil, present, SandboxFlatpak},
		{"snap", map[string]string{"SNAP_NAME": "osgilaunch"}, missing, SandboxSnap},
		{"flatpak wins over snap", map[string]string{"SNAP_NAME": "osgilaunch"}, present, SandboxFlatpak},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			lookup := func(key string) string { return tt.env[key] }
			if got := detectSandboxFrom(lookup, tt.stat); got != tt.want {
				t.Errorf("detectSandboxFrom() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHostSpawnPrefix(t *testing.T) {
	t.Parallel()

	if got := HostSpawnPrefix(SandboxFlatpak); len(got) != 2 || got[0] != "flatpak-spawn" || got[1] != "--host" {
		t.Errorf("HostSpawnPrefix(flatpak) = %v", got)
	}
	if got := HostSpawnPrefix(SandboxNone); got != nil {
		t.Errorf("HostSpawnPrefix(none) = %v, want nil", got)
	}
	if got := HostSpawnPrefix(SandboxSnap); got != nil {
		t.Errorf("HostSpawnPrefix(snap) = %v, want nil", got)
	}
}
