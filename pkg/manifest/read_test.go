// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/lauritziu/maven-osgi-plugin/internal/testutil"
)

func TestRead_Archive(t *testing.T) {
	t.Parallel()

	path := testutil.WriteBundleJar(t, filepath.Join(t.TempDir(), "a.jar"),
		testutil.BundleHeaders("org.example.a", "1.0.0", false), nil)

	m, err := Read(path)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got := m.Value("Bundle-SymbolicName"); got != "org.example.a" {
		t.Errorf("Bundle-SymbolicName = %q", got)
	}
}

func TestRead_ArchiveLowerCaseEntry(t *testing.T) {
	t.Parallel()

	path := testutil.WriteJar(t, filepath.Join(t.TempDir(), "lc.jar"), map[string]string{
		"meta-inf/manifest.mf": testutil.ManifestText(map[string]string{"Bundle-SymbolicName": "lower"}),
	})

	m, err := Read(path)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got := m.Value("Bundle-SymbolicName"); got != "lower" {
		t.Errorf("Bundle-SymbolicName = %q", got)
	}
}

func TestRead_ArchiveWithoutManifest(t *testing.T) {
	t.Parallel()

	path := testutil.WriteJar(t, filepath.Join(t.TempDir(), "plain.jar"), map[string]string{
		"com/example/Main.class": "cafebabe",
	})

	m, err := Read(path)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if m != nil {
		t.Errorf("Read() = %v, want nil manifest", m.Names())
	}
}

func TestRead_CorruptArchive(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "broken.jar")
	testutil.MustWriteFile(t, path, []byte("this is not a zip file"))

	_, err := Read(path)
	if !errors.Is(err, ErrCorruptArchive) {
		t.Fatalf("Read() error = %v, want ErrCorruptArchive", err)
	}
}

func TestRead_Directory(t *testing.T) {
	t.Parallel()

	dir := testutil.WriteBundleDir(t, filepath.Join(t.TempDir(), "bundle"),
		testutil.BundleHeaders("org.example.dir", "2.0", true))

	m, err := Read(dir)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got := m.Value("Eclipse-BundleShape"); got != "dir" {
		t.Errorf("Eclipse-BundleShape = %q", got)
	}
}

func TestRead_DirectoryWithoutManifest(t *testing.T) {
	t.Parallel()

	m, err := Read(t.TempDir())
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if m != nil {
		t.Error("Read() returned a manifest for an empty directory")
	}
}

func TestRead_MissingPath(t *testing.T) {
	t.Parallel()

	_, err := Read(filepath.Join(t.TempDir(), "nope.jar"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Read() error = %v, want ErrNotExist", err)
	}
}
