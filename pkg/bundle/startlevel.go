// SPDX-License-Identifier: MPL-2.0

package bundle

import "maps"

// DefaultStartLevel is assigned to bundles whose level is not known. It is
// also the value of osgi.bundles.defaultStartLevel.
const DefaultStartLevel = 4

// Source tells where a Resolution came from.
type Source int

const (
	// SourceBuiltin: no table was supplied and the built-in table knows the bundle.
	SourceBuiltin Source = iota
	// SourceBuiltinMiss: no table was supplied and the built-in table does not know the bundle.
	SourceBuiltinMiss
	// SourceOverride: the supplied table lists the bundle.
	SourceOverride
	// SourceOverrideMiss: a table was supplied but does not list the bundle.
	SourceOverrideMiss
)

func (s Source) String() string {
	switch s {
	case SourceBuiltin:
		return "builtin"
	case SourceBuiltinMiss:
		return "builtin-miss"
	case SourceOverride:
		return "override"
	case SourceOverrideMiss:
		return "override-miss"
	default:
		return "unknown"
	}
}

// Resolution is the outcome of a start level lookup. Level is only
// meaningful when Known is set.
type Resolution struct {
	Level  int
	Known  bool
	Source Source
}

// builtinStartLevels apply when no override table is supplied.
var builtinStartLevels = map[string]int{
	FrameworkCore:                -1,
	SimpleConfigurator:           1,
	"org.eclipse.equinox.common": 2,
	"org.eclipse.equinox.ds":     2,
	"org.eclipse.equinox.event":  2,
	"org.eclipse.core.runtime":   4,
}

// BuiltinStartLevels returns a copy of the table used when no overrides are supplied.
func BuiltinStartLevels() map[string]int {
	return maps.Clone(builtinStartLevels)
}

// StartLevels is an optional override table. The zero value means "no table":
// lookups fall back to the built-in levels. A table that is present is
// authoritative, and names it does not list are unknown even when the built-in
// table would know them.
type StartLevels struct {
	table   map[string]int
	present bool
}

// NoStartLevels returns the absent table.
func NoStartLevels() StartLevels {
	return StartLevels{}
}

// NewStartLevels returns a present table holding a copy of levels. An empty or
// nil map is treated as no table at all.
func NewStartLevels(levels map[string]int) StartLevels {
	if len(levels) == 0 {
		return NoStartLevels()
	}
	return StartLevels{table: maps.Clone(levels), present: true}
}

// Present reports whether an override table was supplied.
func (s StartLevels) Present() bool {
	return s.present
}

// Table returns a copy of the override table, or nil when absent.
func (s StartLevels) Table() map[string]int {
	if !s.present {
		return nil
	}
	return maps.Clone(s.table)
}

// Resolve looks up the start level of the named bundle.
func (s StartLevels) Resolve(symbolicName string) Resolution {
	if s.present {
		if level, ok := s.table[symbolicName]; ok {
			return Resolution{Level: level, Known: true, Source: SourceOverride}
		}
		return Resolution{Source: SourceOverrideMiss}
	}
	if level, ok := builtinStartLevels[symbolicName]; ok {
		return Resolution{Level: level, Known: true, Source: SourceBuiltin}
	}
	return Resolution{Source: SourceBuiltinMiss}
}
