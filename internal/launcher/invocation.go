// SPDX-License-Identifier: MPL-2.0

package launcher

import (
	"errors"
	"maps"
	"slices"
	"strings"

	"mvdan.cc/sh/v3/shell"
	"mvdan.cc/sh/v3/syntax"

	"github.com/lauritziu/maven-osgi-plugin/pkg/equinox"
	"github.com/lauritziu/maven-osgi-plugin/pkg/platform"
)

const (
	// MainClass is the bootstrap entry point inside the launcher bundle.
	MainClass = "org.eclipse.equinox.launcher.Main"
	// FrameworkClassPathProperty lists framework extensions for the launcher.
	FrameworkClassPathProperty = "osgi.frameworkClassPath"
)

// ErrLauncherNotFound is returned when no bundle provides the bootstrap launcher.
var ErrLauncherNotFound = errors.New("equinox launcher bundle not found")

// Invocation is a fully resolved java command line.
type Invocation struct {
	// Prefix runs the JVM through another program, e.g. flatpak-spawn.
	Prefix           []string
	Java             string
	VMProperties     map[string]string
	LauncherJar      string
	ConfigurationDir string
	RuntimeArguments []string
	TrailingArgs     []string
}

// Params are the inputs of New.
type Params struct {
	Java             string
	VMProperties     map[string]string
	RuntimeArguments []string
	TrailingArgs     []string
	Synthesis        *equinox.Synthesis
	// Sandbox selects a host spawn prefix; SandboxNone runs java directly.
	Sandbox platform.SandboxType
}

// New builds the invocation for a synthesized configuration. Copied framework
// extensions are handed to the launcher through osgi.frameworkClassPath.
func New(p Params) (*Invocation, error) {
	if p.Synthesis == nil || p.Synthesis.LauncherPath == "" {
		return nil, ErrLauncherNotFound
	}

	props := maps.Clone(p.VMProperties)
	if props == nil {
		props = make(map[string]string)
	}
	if len(p.Synthesis.ExtensionPaths) > 0 {
		entries := []string{"."}
		for _, path := range p.Synthesis.ExtensionPaths {
			entries = append(entries, equinox.FileURL(platform.Host(), path))
		}
		props[FrameworkClassPathProperty] = strings.Join(entries, ",")
	}

	return &Invocation{
		Prefix:           platform.HostSpawnPrefix(p.Sandbox),
		Java:             p.Java,
		VMProperties:     props,
		LauncherJar:      p.Synthesis.LauncherPath,
		ConfigurationDir: p.Synthesis.ConfigurationDir,
		RuntimeArguments: slices.Clone(p.RuntimeArguments),
		TrailingArgs:     slices.Clone(p.TrailingArgs),
	}, nil
}

// Argv returns the complete command line, program first.
func (inv *Invocation) Argv() []string {
	argv := slices.Clone(inv.Prefix)
	argv = append(argv, inv.Java)
	for _, key := range slices.Sorted(maps.Keys(inv.VMProperties)) {
		argv = append(argv, "-D"+key+"="+inv.VMProperties[key])
	}
	argv = append(argv,
		"-cp", inv.LauncherJar,
		MainClass,
		"-configuration", equinox.FileURL(platform.Host(), inv.ConfigurationDir),
	)
	argv = append(argv, inv.RuntimeArguments...)
	return append(argv, inv.TrailingArgs...)
}

// String renders the command line quoted for a POSIX shell.
func (inv *Invocation) String() string {
	argv := inv.Argv()
	quoted := make([]string, len(argv))
	for i, arg := range argv {
		q, err := syntax.Quote(arg, syntax.LangBash)
		if err != nil {
			q = arg
		}
		quoted[i] = q
	}
	return strings.Join(quoted, " ")
}

// SplitArgs splits a raw argument string with shell quoting rules. Variable
// references are expanded from lookupEnv; nil uses the process environment.
func SplitArgs(raw string, lookupEnv func(string) string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	return shell.Fields(raw, lookupEnv)
}
