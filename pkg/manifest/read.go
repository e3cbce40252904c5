// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"archive/zip"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrCorruptArchive is returned when a file cannot be opened as a zip container.
var ErrCorruptArchive = errors.New("corrupt archive")

// Read returns the manifest of the archive or exploded directory at path.
// It returns (nil, nil) when path carries no manifest, and an error only when
// path or its manifest cannot be read.
func Read(path string) (*Manifest, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return readDir(path)
	}
	return readArchive(path)
}

func readDir(dir string) (m *Manifest, err error) {
	f, err := os.Open(filepath.Join(dir, filepath.FromSlash(Location)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open manifest in %s: %w", dir, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	m, err = Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", dir, err)
	}
	return m, nil
}

func readArchive(path string) (m *Manifest, err error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCorruptArchive, path, err)
	}
	defer func() {
		if closeErr := zr.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	entry := findEntry(zr.File)
	if entry == nil {
		return nil, nil
	}

	rc, err := entry.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCorruptArchive, path, err)
	}
	defer func() {
		if closeErr := rc.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	m, err = Parse(rc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// findEntry locates the manifest entry. JAR tooling treats the META-INF
// directory case-insensitively, so the lookup does too.
func findEntry(files []*zip.File) *zip.File {
	for _, f := range files {
		if f.Name == Location {
			return f
		}
	}
	for _, f := range files {
		if strings.EqualFold(f.Name, Location) {
			return f
		}
	}
	return nil
}
