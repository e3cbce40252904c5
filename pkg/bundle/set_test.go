// SPDX-License-Identifier: MPL-2.0

package bundle

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSet_LastWriteWins(t *testing.T) {
	t.Parallel()

	s := NewSet(
		Bundle{SymbolicName: "b", Path: "/first/b.jar"},
		Bundle{SymbolicName: "a", Path: "/a.jar"},
	)
	if replaced := s.Add(Bundle{SymbolicName: "b", Path: "/second/b.jar"}); !replaced {
		t.Error("Add() did not report replacement")
	}

	got, ok := s.Lookup("b")
	if !ok || got.Path != "/second/b.jar" {
		t.Errorf("Lookup(b) = %+v, %v", got, ok)
	}
	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}
}

func TestSet_Sorted(t *testing.T) {
	t.Parallel()

	s := NewSet(Bundle{SymbolicName: "c"}, Bundle{SymbolicName: "a"}, Bundle{SymbolicName: "b"})

	var names []string
	for _, b := range s.Sorted() {
		names = append(names, b.SymbolicName)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, names); diff != "" {
		t.Errorf("Sorted() mismatch (-want +got):\n%s", diff)
	}
}

func TestSet_Find(t *testing.T) {
	t.Parallel()

	s := NewSet(Bundle{SymbolicName: "org.eclipse.equinox.launcher"}, Bundle{SymbolicName: FrameworkCore})

	b, ok := s.Find(Bundle.IsLauncher)
	if !ok || b.SymbolicName != "org.eclipse.equinox.launcher" {
		t.Errorf("Find(IsLauncher) = %+v, %v", b, ok)
	}
	var empty *Set
	if _, ok := empty.Lookup("x"); ok || empty.Len() != 0 {
		t.Error("nil set is not empty")
	}
}
