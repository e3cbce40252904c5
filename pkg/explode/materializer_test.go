// SPDX-License-Identifier: MPL-2.0

package explode

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lauritziu/maven-osgi-plugin/internal/testutil"
	"github.com/lauritziu/maven-osgi-plugin/pkg/bundle"
)

func TestMaterializer_Resolve(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	cache := filepath.Join(root, CacheDirName)

	core := bundle.Bundle{SymbolicName: bundle.FrameworkCore, Path: filepath.Join(root, "core.jar")}
	ext := bundle.Bundle{SymbolicName: "org.example.ext", Path: filepath.Join(root, "ext.jar")}
	plain := bundle.Bundle{SymbolicName: "org.example.plain", Path: filepath.Join(root, "plain.jar")}
	for _, b := range []bundle.Bundle{core, ext, plain} {
		testutil.MustWriteFile(t, b.Path, []byte(b.SymbolicName))
	}

	t.Run("without extensions", func(t *testing.T) {
		t.Parallel()

		m := NewMaterializer(filepath.Join(root, "a"))
		for _, b := range []bundle.Bundle{core, ext} {
			got, err := m.Resolve(b)
			if err != nil || got != b.Path {
				t.Errorf("Resolve(%s) = %q, %v", b.SymbolicName, got, err)
			}
		}
		if paths := m.ExtensionPaths(); len(paths) != 0 {
			t.Errorf("ExtensionPaths() = %v", paths)
		}
	})

	t.Run("with extensions", func(t *testing.T) {
		t.Parallel()

		m := NewMaterializer(cache).WithExtensions([]string{"org.example.ext"})

		gotCore, err := m.Resolve(core)
		if err != nil || gotCore != filepath.Join(cache, "core.jar") {
			t.Errorf("Resolve(core) = %q, %v", gotCore, err)
		}
		gotExt, err := m.Resolve(ext)
		if err != nil || gotExt != filepath.Join(cache, "ext.jar") {
			t.Errorf("Resolve(ext) = %q, %v", gotExt, err)
		}
		if got, err := m.Resolve(plain); err != nil || got != plain.Path {
			t.Errorf("Resolve(plain) = %q, %v", got, err)
		}

		if diff := cmp.Diff([]string{filepath.Join(cache, "ext.jar")}, m.ExtensionPaths()); diff != "" {
			t.Errorf("ExtensionPaths() mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestMaterializer_EmptyExtensionListStillCopiesCore(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	core := bundle.Bundle{SymbolicName: bundle.FrameworkCore, Path: filepath.Join(root, "org.eclipse.osgi.jar")}
	testutil.MustWriteFile(t, core.Path, []byte("core"))

	m := NewMaterializer(filepath.Join(root, CacheDirName)).WithExtensions(nil)
	got, err := m.Resolve(core)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got == core.Path {
		t.Error("framework core was not copied in extension mode")
	}
	if paths := m.ExtensionPaths(); len(paths) != 0 {
		t.Errorf("framework core listed as extension: %v", paths)
	}
}
