// SPDX-License-Identifier: MPL-2.0

package bundle

import "testing"

func TestStartLevels_Resolve(t *testing.T) {
	t.Parallel()

	overrides := NewStartLevels(map[string]int{"org.example.a": 3, "org.example.neg": -2})

	tests := []struct {
		name   string
		levels StartLevels
		bundle string
		want   Resolution
	}{
		{"override hit", overrides, "org.example.a", Resolution{Level: 3, Known: true, Source: SourceOverride}},
		{"negative override", overrides, "org.example.neg", Resolution{Level: -2, Known: true, Source: SourceOverride}},
		{"override miss", overrides, "org.example.b", Resolution{Source: SourceOverrideMiss}},
		// a present table never falls through to the built-in levels
		{"override miss on builtin name", overrides, FrameworkCore, Resolution{Source: SourceOverrideMiss}},
		{"builtin framework core", NoStartLevels(), FrameworkCore, Resolution{Level: -1, Known: true, Source: SourceBuiltin}},
		{"builtin simple configurator", NoStartLevels(), SimpleConfigurator, Resolution{Level: 1, Known: true, Source: SourceBuiltin}},
		{"builtin runtime", NoStartLevels(), "org.eclipse.core.runtime", Resolution{Level: 4, Known: true, Source: SourceBuiltin}},
		{"builtin miss", NoStartLevels(), "org.example.unknown", Resolution{Source: SourceBuiltinMiss}},
		{"empty table is absent", NewStartLevels(map[string]int{}), "org.eclipse.equinox.ds", Resolution{Level: 2, Known: true, Source: SourceBuiltin}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.levels.Resolve(tt.bundle); got != tt.want {
				t.Errorf("Resolve(%q) = %+v, want %+v", tt.bundle, got, tt.want)
			}
		})
	}
}

func TestStartLevels_OverridePrecedence(t *testing.T) {
	t.Parallel()

	levels := NewStartLevels(map[string]int{"bundle.a": 2})

	a := New(Identity{SymbolicName: "bundle.a"}, "/a.jar", levels.Resolve("bundle.a"))
	if a.StartLevel != 2 || !a.AutoStart {
		t.Errorf("bundle.a = %d/%v, want 2/true", a.StartLevel, a.AutoStart)
	}

	// matches a built-in entry but must not receive its value
	b := New(Identity{SymbolicName: SimpleConfigurator}, "/b.jar", levels.Resolve(SimpleConfigurator))
	if b.StartLevel != DefaultStartLevel || b.AutoStart {
		t.Errorf("%s = %d/%v, want %d/false", SimpleConfigurator, b.StartLevel, b.AutoStart, DefaultStartLevel)
	}
}

func TestNewStartLevels_Copies(t *testing.T) {
	t.Parallel()

	src := map[string]int{"a": 1}
	levels := NewStartLevels(src)
	src["a"] = 9

	if got := levels.Resolve("a"); got.Level != 1 {
		t.Errorf("table aliased caller map: level = %d", got.Level)
	}
	if !levels.Present() || NoStartLevels().Present() {
		t.Error("Present() mismatch")
	}
	if NoStartLevels().Table() != nil {
		t.Error("absent table returned a map")
	}
}

func TestBuiltinStartLevels(t *testing.T) {
	t.Parallel()

	got := BuiltinStartLevels()
	if got[FrameworkCore] != -1 || got[SimpleConfigurator] != 1 || len(got) != 6 {
		t.Errorf("BuiltinStartLevels() = %v", got)
	}
	got[FrameworkCore] = 100
	if NoStartLevels().Resolve(FrameworkCore).Level != -1 {
		t.Error("BuiltinStartLevels() exposed the shared table")
	}
}
