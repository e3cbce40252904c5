// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"archive/zip"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

// Common manifest headers used by bundle fixtures.
const (
	HeaderSymbolicName = "Bundle-SymbolicName"
	HeaderVersion      = "Bundle-Version"
	HeaderShape        = "Eclipse-BundleShape"
)

// ManifestText renders headers as a manifest main section. Manifest-Version
// comes first; the remaining headers follow in sorted order so fixtures are
// reproducible.
func ManifestText(headers map[string]string) string {
	var b strings.Builder
	b.WriteString("Manifest-Version: 1.0\r\n")
	names := make([]string, 0, len(headers))
	for name := range headers {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(headers[name])
		b.WriteString("\r\n")
	}
	b.WriteString("\r\n")
	return b.String()
}

// BundleHeaders returns the headers of a bundle with the given identity.
// An empty version omits Bundle-Version; dir adds Eclipse-BundleShape: dir.
func BundleHeaders(name, version string, dir bool) map[string]string {
	h := map[string]string{HeaderSymbolicName: name}
	if version != "" {
		h[HeaderVersion] = version
	}
	if dir {
		h[HeaderShape] = "dir"
	}
	return h
}

// WriteJar creates a zip archive at path holding files (slash-separated
// name to content). Directory entries are written for every parent so the
// archive looks like one produced by the jar tool.
func WriteJar(t testing.TB, path string, files map[string]string) string {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create %s: %v", path, err)
	}
	zw := zip.NewWriter(f)

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	slices.Sort(names)

	seenDirs := make(map[string]bool)
	for _, name := range names {
		parts := strings.Split(name, "/")
		for i := 1; i < len(parts); i++ {
			dir := strings.Join(parts[:i], "/") + "/"
			if seenDirs[dir] {
				continue
			}
			seenDirs[dir] = true
			if _, err := zw.Create(dir); err != nil {
				t.Fatalf("failed to add %s to %s: %v", dir, path, err)
			}
		}
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("failed to add %s to %s: %v", name, path, err)
		}
		if _, err := w.Write([]byte(files[name])); err != nil {
			t.Fatalf("failed to write %s in %s: %v", name, path, err)
		}
	}

	if err := zw.Close(); err != nil {
		t.Fatalf("failed to finish %s: %v", path, err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("failed to close %s: %v", path, err)
	}
	return path
}

// WriteBundleJar creates a jar at path whose manifest carries headers, plus any
// extra files.
func WriteBundleJar(t testing.TB, path string, headers map[string]string, extra map[string]string) string {
	t.Helper()

	files := map[string]string{"META-INF/MANIFEST.MF": ManifestText(headers)}
	for name, content := range extra {
		files[name] = content
	}
	return WriteJar(t, path, files)
}

// WriteBundleDir creates an exploded bundle directory at dir.
func WriteBundleDir(t testing.TB, dir string, headers map[string]string) string {
	t.Helper()

	MustWriteFile(t, filepath.Join(dir, "META-INF", "MANIFEST.MF"), []byte(ManifestText(headers)))
	return dir
}
