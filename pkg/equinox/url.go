// SPDX-License-Identifier: MPL-2.0

package equinox

import (
	"strings"

	"github.com/lauritziu/maven-osgi-plugin/pkg/platform"
)

// FileURL returns the file: URL of a native path on the target platform.
// Windows separators are normalized to forward slashes; the path is not
// percent-encoded since the framework reads it literally.
func FileURL(target platform.Target, path string) string {
	return "file:" + target.ToSlash(path)
}

// EscapeProperty escapes a value for a properties file, where ':' would
// otherwise be taken as a key separator.
func EscapeProperty(value string) string {
	return strings.ReplaceAll(value, ":", `\:`)
}

// propertyURL is FileURL escaped for config.ini.
func propertyURL(target platform.Target, path string) string {
	return EscapeProperty(FileURL(target, path))
}
