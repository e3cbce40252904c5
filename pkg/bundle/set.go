// SPDX-License-Identifier: MPL-2.0

package bundle

import (
	"cmp"
	"slices"
)

// Set holds bundles keyed by symbolic name. Adding a bundle whose name is
// already present replaces the earlier record.
type Set struct {
	byName map[string]Bundle
}

// NewSet returns a set holding bundles, later entries winning on duplicate names.
func NewSet(bundles ...Bundle) *Set {
	s := &Set{byName: make(map[string]Bundle, len(bundles))}
	for _, b := range bundles {
		s.Add(b)
	}
	return s
}

// Add inserts b, replacing any bundle with the same symbolic name. It reports
// whether a bundle was replaced.
func (s *Set) Add(b Bundle) bool {
	if s.byName == nil {
		s.byName = make(map[string]Bundle)
	}
	_, replaced := s.byName[b.SymbolicName]
	s.byName[b.SymbolicName] = b
	return replaced
}

// Lookup returns the bundle with the given symbolic name.
func (s *Set) Lookup(symbolicName string) (Bundle, bool) {
	if s == nil {
		return Bundle{}, false
	}
	b, ok := s.byName[symbolicName]
	return b, ok
}

// Len returns the number of bundles.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.byName)
}

// Sorted returns the bundles ordered by symbolic name.
func (s *Set) Sorted() []Bundle {
	if s == nil {
		return nil
	}
	out := make([]Bundle, 0, len(s.byName))
	for _, b := range s.byName {
		out = append(out, b)
	}
	slices.SortFunc(out, func(a, b Bundle) int {
		return cmp.Compare(a.SymbolicName, b.SymbolicName)
	})
	return out
}

// Find returns the first bundle, in symbolic name order, for which match is true.
func (s *Set) Find(match func(Bundle) bool) (Bundle, bool) {
	for _, b := range s.Sorted() {
		if match(b) {
			return b, true
		}
	}
	return Bundle{}, false
}
