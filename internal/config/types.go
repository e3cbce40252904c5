// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/lauritziu/maven-osgi-plugin/pkg/bundle"
)

const (
	// FrameworkExtensionsProperty names the JVM property listing framework
	// extension bundles, comma-separated.
	FrameworkExtensionsProperty = "osgi.framework.extensions"
	// BundleParentProperty selects the parent class loader of bundles.
	BundleParentProperty = "org.osgi.framework.bundle.parent"

	// ProductIDArgument introduces a product id among trailing arguments.
	ProductIDArgument = "-launcher.product.id"
	// ProductArgument selects the product in the runtime arguments.
	ProductArgument = "-product"
)

var (
	// ErrConfigurationConflict is the sentinel error wrapped by ConflictError.
	ErrConfigurationConflict = errors.New("configuration conflict")
	// ErrConfigNotFound is returned when an explicitly named config file does not exist.
	ErrConfigNotFound = errors.New("config file not found")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrMissingProductID is returned when -launcher.product.id has no value.
	ErrMissingProductID = errors.New("missing product id")
)

type (
	// Config is the effective launcher configuration.
	Config struct {
		// RuntimeArguments are passed to the framework launcher verbatim, in order.
		RuntimeArguments []string `json:"runtime_arguments" yaml:"runtime_arguments" toml:"runtime_arguments"`
		// StartLevels overrides the built-in start levels when non-empty.
		StartLevels map[string]int `json:"start_levels,omitempty" yaml:"start_levels,omitempty" toml:"start_levels,omitempty"`
		// VMProperties become -D options of the launched JVM.
		VMProperties map[string]string `json:"vm_properties" yaml:"vm_properties" toml:"vm_properties"`
		// ConfigurationDir receives config.ini, bundles.info and exploded bundles.
		ConfigurationDir string `json:"configuration_dir" yaml:"configuration_dir" toml:"configuration_dir"`
		// JavaBinary is the java executable; empty selects $JAVA_HOME/bin/java or java.
		JavaBinary string `json:"java_binary,omitempty" yaml:"java_binary,omitempty" toml:"java_binary,omitempty"`
		// Parallelism bounds concurrent classpath reads; zero selects GOMAXPROCS.
		Parallelism int `json:"parallelism" yaml:"parallelism" toml:"parallelism"`
	}

	// ConflictError is returned when arguments contradict the configuration,
	// such as a product id given while the runtime arguments already select a
	// product. It wraps ErrConfigurationConflict for errors.Is() compatibility.
	ConflictError struct {
		Argument string
		Reason   string
	}

	// InvalidConfigError is returned when Config.Validate finds problems.
	// It wraps ErrInvalidConfig for errors.Is() compatibility.
	InvalidConfigError struct {
		FieldErrors []error
	}
)

// Error implements the error interface.
func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrConfigurationConflict, e.Argument, e.Reason)
}

// Unwrap returns ErrConfigurationConflict for errors.Is() compatibility.
func (e *ConflictError) Unwrap() error { return ErrConfigurationConflict }

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %d field error(s): %v", len(e.FieldErrors), errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// DefaultConfigurationDir is where launch artifacts go unless configured.
func DefaultConfigurationDir() string {
	return filepath.Join(os.TempDir(), "eclipse.app.launcher", "configuration")
}

// DefaultConfig returns the configuration used when no file is found.
func DefaultConfig() *Config {
	return &Config{
		RuntimeArguments: []string{"-console", "8999", "-consoleLog", "-clearPersistedState", "-clean"},
		VMProperties:     map[string]string{BundleParentProperty: "ext"},
		ConfigurationDir: DefaultConfigurationDir(),
	}
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	out := *c
	out.RuntimeArguments = slices.Clone(c.RuntimeArguments)
	out.StartLevels = maps.Clone(c.StartLevels)
	out.VMProperties = maps.Clone(c.VMProperties)
	return &out
}

// Validate checks constraints the schema cannot express for values that did
// not come from a file, such as environment overrides.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.ConfigurationDir) == "" {
		errs = append(errs, errors.New("configuration_dir must not be empty"))
	}
	if c.Parallelism < 0 {
		errs = append(errs, fmt.Errorf("parallelism must not be negative, got %d", c.Parallelism))
	}
	for key := range c.VMProperties {
		if strings.TrimSpace(key) == "" || strings.ContainsAny(key, "= \t") {
			errs = append(errs, fmt.Errorf("vm_properties: invalid property name %q", key))
		}
	}
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// StartLevelTable returns the override table in the form the scanner expects.
func (c *Config) StartLevelTable() bundle.StartLevels {
	return bundle.NewStartLevels(c.StartLevels)
}

// FrameworkExtensions returns the bundle names listed in
// osgi.framework.extensions and whether the property is set at all.
func (c *Config) FrameworkExtensions() ([]string, bool) {
	raw, ok := c.VMProperties[FrameworkExtensionsProperty]
	if !ok {
		return nil, false
	}
	var names []string
	for name := range strings.SplitSeq(raw, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names, true
}

// ConsumeProductID removes a "-launcher.product.id <id>" pair from args and
// appends "-product <id>" to the runtime arguments. It fails with a
// *ConflictError when the runtime arguments already select a product. The
// remaining arguments are returned.
func (c *Config) ConsumeProductID(args []string) ([]string, error) {
	idx := slices.Index(args, ProductIDArgument)
	if idx < 0 {
		return args, nil
	}
	if idx+1 >= len(args) {
		return nil, fmt.Errorf("%w: %s needs a value", ErrMissingProductID, ProductIDArgument)
	}
	if slices.Contains(c.RuntimeArguments, ProductArgument) {
		return nil, &ConflictError{
			Argument: ProductIDArgument,
			Reason:   "runtime arguments already contain " + ProductArgument,
		}
	}

	id := args[idx+1]
	c.RuntimeArguments = append(slices.Clone(c.RuntimeArguments), ProductArgument, id)

	rest := make([]string, 0, len(args)-2)
	rest = append(rest, args[:idx]...)
	return append(rest, args[idx+2:]...), nil
}

// ResolveJavaBinary returns the java executable to run: the configured one,
// else $JAVA_HOME/bin/java, else java from PATH.
func (c *Config) ResolveJavaBinary(lookupEnv func(string) string) string {
	if c.JavaBinary != "" {
		return c.JavaBinary
	}
	exe := "java"
	if runtime.GOOS == "windows" {
		exe = "java.exe"
	}
	if home := lookupEnv("JAVA_HOME"); home != "" {
		return filepath.Join(home, "bin", exe)
	}
	return exe
}
