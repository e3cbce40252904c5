// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
)

// Location is the slash-separated path of the manifest inside an archive or
// exploded directory.
const Location = "META-INF/MANIFEST.MF"

// ErrMalformed is returned when a manifest line is neither a header, a
// continuation nor a section break.
var ErrMalformed = errors.New("malformed manifest")

// Manifest holds the main attributes of a JAR manifest.
// Header names are matched case-insensitively; values are kept verbatim.
type Manifest struct {
	// keyed by lower-cased header name
	values map[string]string
	// original spelling of each header, keyed like values
	names map[string]string
}

// New returns a manifest with the given main attributes. It is mostly useful for
// tests and for callers that synthesize manifests.
func New(headers map[string]string) *Manifest {
	m := &Manifest{
		values: make(map[string]string, len(headers)),
		names:  make(map[string]string, len(headers)),
	}
	for name, value := range headers {
		m.set(name, value)
	}
	return m
}

func (m *Manifest) set(name, value string) {
	key := strings.ToLower(name)
	m.values[key] = value
	m.names[key] = name
}

// Get returns the value of the named header and whether it is present.
func (m *Manifest) Get(name string) (string, bool) {
	if m == nil {
		return "", false
	}
	v, ok := m.values[strings.ToLower(name)]
	return v, ok
}

// Value returns the value of the named header, or "" when it is absent.
func (m *Manifest) Value(name string) string {
	v, _ := m.Get(name)
	return v
}

// Names returns the header names in their original spelling, sorted.
func (m *Manifest) Names() []string {
	if m == nil {
		return nil
	}
	out := make([]string, 0, len(m.names))
	for _, n := range m.names {
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}

// Parse reads the main section of a manifest. Parsing stops at the first blank
// line; per-entry sections that follow are ignored.
func Parse(r io.Reader) (*Manifest, error) {
	m := New(nil)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), 1<<20)
	sc.Split(scanManifestLines)

	var (
		name  string
		value strings.Builder
		line  int
	)
	flush := func() {
		if name != "" {
			m.set(name, value.String())
		}
		name = ""
		value.Reset()
	}

	for sc.Scan() {
		line++
		text := sc.Text()
		if line == 1 {
			text = strings.TrimPrefix(text, "\ufeff")
		}
		if text == "" {
			break
		}
		if text[0] == ' ' {
			if name == "" {
				return nil, fmt.Errorf("%w: line %d: continuation without header", ErrMalformed, line)
			}
			value.WriteString(text[1:])
			continue
		}

		flush()
		key, val, ok := strings.Cut(text, ":")
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: line %d: %q", ErrMalformed, line, text)
		}
		name = key
		value.WriteString(strings.TrimPrefix(val, " "))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	flush()

	return m, nil
}

// scanManifestLines splits on CRLF, LF or a lone CR, the three line breaks a
// manifest may use.
func scanManifestLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\n' {
			return i + 1, data[:i], nil
		}
		// CR: need one more byte to tell CR from CRLF
		if i+1 < len(data) {
			if data[i+1] == '\n' {
				return i + 2, data[:i], nil
			}
			return i + 1, data[:i], nil
		}
		if atEOF {
			return i + 1, data[:i], nil
		}
		return 0, nil, nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
