// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestConsumeProductID(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	rest, err := cfg.ConsumeProductID([]string{"-data", "ws", ProductIDArgument, "org.example.product", "-noSplash"})
	if err != nil {
		t.Fatalf("ConsumeProductID() error = %v", err)
	}
	if diff := cmp.Diff([]string{"-data", "ws", "-noSplash"}, rest); diff != "" {
		t.Errorf("remaining args mismatch (-want +got):\n%s", diff)
	}
	wantArgs := append(DefaultConfig().RuntimeArguments, ProductArgument, "org.example.product")
	if diff := cmp.Diff(wantArgs, cfg.RuntimeArguments); diff != "" {
		t.Errorf("runtime args mismatch (-want +got):\n%s", diff)
	}
}

func TestConsumeProductID_NoProduct(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	args := []string{"-debug"}
	rest, err := cfg.ConsumeProductID(args)
	if err != nil || len(rest) != 1 {
		t.Fatalf("ConsumeProductID() = %v, %v", rest, err)
	}
	if diff := cmp.Diff(DefaultConfig().RuntimeArguments, cfg.RuntimeArguments); diff != "" {
		t.Errorf("runtime args changed (-want +got):\n%s", diff)
	}
}

func TestConsumeProductID_Conflict(t *testing.T) {
	t.Parallel()

	cfg := &Config{RuntimeArguments: []string{ProductArgument, "existing"}}
	_, err := cfg.ConsumeProductID([]string{ProductIDArgument, "other"})

	var conflict *ConflictError
	if !errors.As(err, &conflict) || !errors.Is(err, ErrConfigurationConflict) {
		t.Fatalf("ConsumeProductID() error = %v, want *ConflictError", err)
	}
	if conflict.Argument != ProductIDArgument {
		t.Errorf("Argument = %q", conflict.Argument)
	}
}

func TestConsumeProductID_MissingValue(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if _, err := cfg.ConsumeProductID([]string{ProductIDArgument}); !errors.Is(err, ErrMissingProductID) {
		t.Errorf("ConsumeProductID() error = %v, want ErrMissingProductID", err)
	}
}

func TestFrameworkExtensions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		props  map[string]string
		want   []string
		wantOK bool
	}{
		{"unset", map[string]string{}, nil, false},
		{"empty", map[string]string{FrameworkExtensionsProperty: ""}, nil, true},
		{"list", map[string]string{FrameworkExtensionsProperty: "a, b,,c "}, []string{"a", "b", "c"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := &Config{VMProperties: tt.props}
			got, ok := cfg.FrameworkExtensions()
			if ok != tt.wantOK {
				t.Errorf("ok = %v, want %v", ok, tt.wantOK)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("names mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("defaults invalid: %v", err)
	}

	cfg := &Config{Parallelism: -1, VMProperties: map[string]string{"bad key": "x"}}
	err := cfg.Validate()
	var invalid *InvalidConfigError
	if !errors.As(err, &invalid) || !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("Validate() error = %v", err)
	}
	if len(invalid.FieldErrors) != 3 {
		t.Errorf("FieldErrors = %v, want 3", invalid.FieldErrors)
	}
}

func TestConfig_Clone(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.StartLevels = map[string]int{"a": 1}
	clone := cfg.Clone()
	clone.RuntimeArguments[0] = "changed"
	clone.StartLevels["a"] = 2
	clone.VMProperties["x"] = "y"

	if cfg.RuntimeArguments[0] == "changed" || cfg.StartLevels["a"] != 1 || cfg.VMProperties["x"] != "" {
		t.Error("Clone() shares state with the original")
	}
}

func TestResolveJavaBinary(t *testing.T) {
	t.Parallel()

	noEnv := func(string) string { return "" }
	javaHome := func(key string) string {
		if key == "JAVA_HOME" {
			return filepath.Join("opt", "jdk")
		}
		return ""
	}

	if got := (&Config{JavaBinary: "/custom/java"}).ResolveJavaBinary(javaHome); got != "/custom/java" {
		t.Errorf("configured = %q", got)
	}
	if got := (&Config{}).ResolveJavaBinary(javaHome); filepath.Dir(got) != filepath.Join("opt", "jdk", "bin") {
		t.Errorf("JAVA_HOME = %q", got)
	}
	if got := (&Config{}).ResolveJavaBinary(noEnv); got != "java" && got != "java.exe" {
		t.Errorf("PATH fallback = %q", got)
	}
}
