// SPDX-License-Identifier: MPL-2.0

package explode

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/lauritziu/maven-osgi-plugin/pkg/bundle"
)

// CacheDirName is the directory below the configuration directory that holds
// exploded and copied bundles.
const CacheDirName = ".explode"

// ErrExtract is matched by every *ExtractError.
var ErrExtract = errors.New("bundle extraction failed")

// ExtractError reports a bundle archive that could not be exploded.
type ExtractError struct {
	SymbolicName string
	Archive      string
	Err          error
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("explode %s (%s): %v", e.SymbolicName, e.Archive, e.Err)
}

func (e *ExtractError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrExtract) hold for any *ExtractError.
func (e *ExtractError) Is(target error) bool { return target == ErrExtract }

// TargetName returns the cache directory name of an exploded bundle.
func TargetName(b bundle.Bundle) string {
	return b.SymbolicName + "_" + b.VersionString()
}

// Explode returns the on-disk directory of a dir-shaped bundle, extracting the
// archive into cacheDir on first use. Bundles that are not dir-shaped, or are
// already directories, are returned unchanged. An existing target directory is
// reused as is.
func Explode(b bundle.Bundle, cacheDir string) (string, error) {
	if !b.DirShape {
		return b.Path, nil
	}
	info, err := os.Stat(b.Path)
	if err != nil {
		return "", &ExtractError{SymbolicName: b.SymbolicName, Archive: b.Path, Err: err}
	}
	if info.IsDir() {
		return b.Path, nil
	}

	target := filepath.Join(cacheDir, TargetName(b))
	if isDir(target) {
		return target, nil
	}

	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create cache directory %s: %w", cacheDir, err)
	}

	tmp := filepath.Join(cacheDir, ".tmp-"+TargetName(b)+"-"+uuid.NewString())
	if err := extractArchive(b.Path, tmp); err != nil {
		_ = os.RemoveAll(tmp) // best-effort, the error below is what matters
		return "", &ExtractError{SymbolicName: b.SymbolicName, Archive: b.Path, Err: err}
	}

	if err := os.Rename(tmp, target); err != nil {
		_ = os.RemoveAll(tmp)
		// another run renamed its copy into place first
		if isDir(target) {
			return target, nil
		}
		return "", &ExtractError{SymbolicName: b.SymbolicName, Archive: b.Path, Err: err}
	}
	return target, nil
}

// extractArchive unpacks every entry of the zip at archivePath below destDir.
func extractArchive(archivePath, destDir string) (err error) {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := zr.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if err = os.MkdirAll(destDir, 0o755); err != nil {
		return err
	}

	for _, file := range zr.File {
		destPath := filepath.Join(destDir, filepath.FromSlash(file.Name))

		// reject entries escaping the destination
		relPath, relErr := filepath.Rel(destDir, destPath)
		if relErr != nil || relPath == ".." || strings.HasPrefix(relPath, ".."+string(filepath.Separator)) {
			return fmt.Errorf("invalid path in archive: %s", file.Name)
		}

		if file.FileInfo().IsDir() {
			if err = os.MkdirAll(destPath, 0o755); err != nil {
				return fmt.Errorf("failed to create directory: %w", err)
			}
			continue
		}

		if err = os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
			return fmt.Errorf("failed to create parent directory: %w", err)
		}
		if err = extractFile(file, destPath); err != nil {
			return fmt.Errorf("failed to extract %s: %w", file.Name, err)
		}
	}
	return nil
}

func extractFile(file *zip.File, destPath string) (err error) {
	rc, err := file.Open()
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := rc.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	mode := file.Mode().Perm()
	if mode == 0 {
		mode = 0o644
	}
	destFile, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := destFile.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	//nolint:gosec // G110: bundles come from the local build classpath
	_, err = io.Copy(destFile, rc)
	return err
}

// CopyExtension copies the archive at path into cacheDir under its original
// file name, replacing any earlier copy, and returns the copy's path.
// Directories are returned unchanged.
func CopyExtension(path, cacheDir string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("failed to stat extension bundle: %w", err)
	}
	if info.IsDir() {
		return path, nil
	}
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create cache directory %s: %w", cacheDir, err)
	}

	dest := filepath.Join(cacheDir, filepath.Base(path))
	tmp := dest + ".tmp-" + uuid.NewString()
	if err := copyFile(path, tmp); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("failed to copy extension bundle %s: %w", path, err)
	}
	if err := os.Rename(tmp, dest); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("failed to replace %s: %w", dest, err)
	}
	return dest, nil
}

func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := in.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	_, err = io.Copy(out, in)
	return err
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
