// SPDX-License-Identifier: MPL-2.0

package launcher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lauritziu/maven-osgi-plugin/pkg/equinox"
	"github.com/lauritziu/maven-osgi-plugin/pkg/platform"
)

const helperExitEnv = "OSGILAUNCH_TEST_HELPER_EXIT"

// TestMain lets the test binary stand in for java: with the helper variable
// set it echoes its arguments and exits with the requested status.
func TestMain(m *testing.M) {
	if code, ok := os.LookupEnv(helperExitEnv); ok {
		fmt.Println(strings.Join(os.Args[1:], "\n"))
		n, _ := strconv.Atoi(code)
		os.Exit(n)
	}
	os.Exit(m.Run())
}

func testSynthesis(dir string, extensions ...string) *equinox.Synthesis {
	return &equinox.Synthesis{
		ConfigurationDir: filepath.Join(dir, "configuration"),
		LauncherPath:     filepath.Join(dir, "org.eclipse.equinox.launcher_1.6.jar"),
		ExtensionPaths:   extensions,
	}
}

func TestNewRequiresLauncher(t *testing.T) {
	t.Parallel()

	if _, err := New(Params{Java: "java"}); !errors.Is(err, ErrLauncherNotFound) {
		t.Fatalf("New() without synthesis error = %v, want ErrLauncherNotFound", err)
	}
	syn := testSynthesis(t.TempDir())
	syn.LauncherPath = ""
	if _, err := New(Params{Java: "java", Synthesis: syn}); !errors.Is(err, ErrLauncherNotFound) {
		t.Fatalf("New() without launcher error = %v, want ErrLauncherNotFound", err)
	}
}

func TestArgvOrder(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	syn := testSynthesis(dir)
	inv, err := New(Params{
		Java:             "/opt/jdk/bin/java",
		VMProperties:     map[string]string{"z.last": "1", "a.first": "2"},
		RuntimeArguments: []string{"-console", "8999"},
		TrailingArgs:     []string{"-debug"},
		Synthesis:        syn,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	want := []string{
		"/opt/jdk/bin/java",
		"-Da.first=2",
		"-Dz.last=1",
		"-cp", syn.LauncherPath,
		MainClass,
		"-configuration", equinox.FileURL(platform.Host(), syn.ConfigurationDir),
		"-console", "8999",
		"-debug",
	}
	if diff := cmp.Diff(want, inv.Argv()); diff != "" {
		t.Errorf("Argv() mismatch (-want +got):\n%s", diff)
	}
}

func TestFrameworkClassPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	e1 := filepath.Join(dir, ".explode", "a.jar")
	e2 := filepath.Join(dir, ".explode", "b.jar")
	props := map[string]string{"k": "v"}
	inv, err := New(Params{Java: "java", VMProperties: props, Synthesis: testSynthesis(dir, e1, e2)})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	host := platform.Host()
	want := ".," + equinox.FileURL(host, e1) + "," + equinox.FileURL(host, e2)
	if got := inv.VMProperties[FrameworkClassPathProperty]; got != want {
		t.Errorf("%s = %q, want %q", FrameworkClassPathProperty, got, want)
	}
	if _, ok := props[FrameworkClassPathProperty]; ok {
		t.Error("New() modified the caller's property map")
	}
}

func TestNoFrameworkClassPathWithoutExtensions(t *testing.T) {
	t.Parallel()

	inv, err := New(Params{Java: "java", Synthesis: testSynthesis(t.TempDir())})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, ok := inv.VMProperties[FrameworkClassPathProperty]; ok {
		t.Errorf("unexpected %s without extensions", FrameworkClassPathProperty)
	}
}

func TestSandboxPrefix(t *testing.T) {
	t.Parallel()

	inv, err := New(Params{Java: "java", Synthesis: testSynthesis(t.TempDir()), Sandbox: platform.SandboxFlatpak})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	argv := inv.Argv()
	if diff := cmp.Diff([]string{"flatpak-spawn", "--host", "java"}, argv[:3]); diff != "" {
		t.Errorf("Argv() prefix mismatch (-want +got):\n%s", diff)
	}
}

func TestStringQuotes(t *testing.T) {
	t.Parallel()

	inv := &Invocation{
		Java:             "java",
		LauncherJar:      "/tmp/launcher.jar",
		ConfigurationDir: "/tmp/configuration",
		RuntimeArguments: []string{"-name", "my app"},
	}
	got := inv.String()
	if !strings.Contains(got, "'my app'") {
		t.Errorf("String() = %q, want the spaced argument quoted", got)
	}
	if !strings.HasPrefix(got, "java -cp /tmp/launcher.jar "+MainClass) {
		t.Errorf("String() = %q", got)
	}
}

func TestSplitArgs(t *testing.T) {
	t.Parallel()

	env := func(name string) string {
		if name == "WS" {
			return "/work"
		}
		return ""
	}
	tests := []struct {
		raw  string
		want []string
	}{
		{"", nil},
		{"   ", nil},
		{"-debug -data $WS", []string{"-debug", "-data", "/work"}},
		{`-name "my app" -x 'a b'`, []string{"-name", "my app", "-x", "a b"}},
	}
	for _, tt := range tests {
		got, err := SplitArgs(tt.raw, env)
		if err != nil {
			t.Fatalf("SplitArgs(%q) error = %v", tt.raw, err)
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("SplitArgs(%q) mismatch (-want +got):\n%s", tt.raw, diff)
		}
	}

	if _, err := SplitArgs(`-name "unterminated`, env); err == nil {
		t.Error("SplitArgs() with an open quote should fail")
	}
}

func helperInvocation(t *testing.T) *Invocation {
	t.Helper()
	exe, err := os.Executable()
	if err != nil {
		t.Fatalf("os.Executable() error = %v", err)
	}
	return &Invocation{
		Java:             exe,
		LauncherJar:      "launcher.jar",
		ConfigurationDir: t.TempDir(),
		TrailingArgs:     []string{"-trailing"},
	}
}

func TestRunPropagatesExitCode(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer
	r := NewRunner(nil)
	r.Stdin = nil
	r.Stdout = &stdout
	r.Stderr = &bytes.Buffer{}
	r.Env = append(os.Environ(), helperExitEnv+"=3")

	code, err := r.Run(context.Background(), helperInvocation(t))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if code != 3 {
		t.Errorf("Run() exit code = %d, want 3", code)
	}
	if !strings.Contains(stdout.String(), MainClass) || !strings.Contains(stdout.String(), "-trailing") {
		t.Errorf("child did not receive the command line, got:\n%s", stdout.String())
	}
}

func TestRunSuccess(t *testing.T) {
	t.Parallel()

	r := NewRunner(nil)
	r.Stdin = nil
	r.Stdout = &bytes.Buffer{}
	r.Stderr = &bytes.Buffer{}
	r.Env = append(os.Environ(), helperExitEnv+"=0")

	code, err := r.Run(context.Background(), helperInvocation(t))
	if err != nil || code != 0 {
		t.Fatalf("Run() = %d, %v; want 0, nil", code, err)
	}
}

func TestRunMissingJava(t *testing.T) {
	t.Parallel()

	inv := helperInvocation(t)
	inv.Java = filepath.Join(t.TempDir(), "no-such-java")
	r := NewRunner(nil)
	r.Stdin = nil

	if _, err := r.Run(context.Background(), inv); err == nil {
		t.Fatal("Run() with a missing binary should fail")
	}
}

func TestRunInteractive(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("pseudo-terminals are not supported on Windows")
	}

	var out bytes.Buffer
	r := NewRunner(nil)
	r.Stdin = nil
	r.Env = append(os.Environ(), helperExitEnv+"=5")
	r.Stdout = &out

	code, err := r.RunInteractive(context.Background(), helperInvocation(t))
	if err != nil {
		t.Fatalf("RunInteractive() error = %v", err)
	}
	if code != 5 {
		t.Errorf("RunInteractive() exit code = %d, want 5", code)
	}
	if !strings.Contains(out.String(), MainClass) {
		t.Errorf("pty output missing child output, got:\n%s", out.String())
	}
}
