// SPDX-License-Identifier: MPL-2.0

package bundle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lauritziu/maven-osgi-plugin/pkg/manifest"
)

// ErrNotLocalPath is returned for classpath entries that do not name a local
// file, such as http: URLs.
var ErrNotLocalPath = errors.New("classpath entry is not a local path")

// Warning reasons.
const (
	ReasonNotLocal   = "not a local path"
	ReasonUnreadable = "unreadable manifest"
	ReasonNoManifest = "no manifest"
)

// Warning records a classpath entry that was skipped.
type Warning struct {
	Entry  string
	Reason string
	Err    error
}

func (w Warning) String() string {
	if w.Err != nil {
		return fmt.Sprintf("%s: %s: %v", w.Entry, w.Reason, w.Err)
	}
	return fmt.Sprintf("%s: %s", w.Entry, w.Reason)
}

// ScanResult is the outcome of a classpath scan.
type ScanResult struct {
	Bundles  *Set
	Warnings []Warning
}

// ScannerOption configures a Scanner.
type ScannerOption func(*Scanner)

// WithStartLevels sets the override table used to resolve start levels.
func WithStartLevels(levels StartLevels) ScannerOption {
	return func(s *Scanner) { s.levels = levels }
}

// WithLogger sets the logger skipped entries are reported to.
func WithLogger(logger *log.Logger) ScannerOption {
	return func(s *Scanner) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithParallelism bounds the number of entries read concurrently. Values below
// one select GOMAXPROCS.
func WithParallelism(n int) ScannerOption {
	return func(s *Scanner) { s.parallelism = n }
}

// Scanner turns classpath entries into bundles.
type Scanner struct {
	levels      StartLevels
	logger      *log.Logger
	parallelism int
}

// NewScanner creates a Scanner. Without options it uses the built-in start
// levels, logs nothing and reads up to GOMAXPROCS entries at a time.
func NewScanner(opts ...ScannerOption) *Scanner {
	s := &Scanner{
		levels: NoStartLevels(),
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.parallelism < 1 {
		s.parallelism = runtime.GOMAXPROCS(0)
	}
	return s
}

// entryResult is the outcome for a single classpath entry.
type entryResult struct {
	bundle  Bundle
	ok      bool
	warning *Warning
}

// Scan reads every entry and returns the bundles found. Entries that cannot be
// read are skipped and reported in ScanResult.Warnings. When two entries
// declare the same symbolic name the later entry wins. The only error
// returned is ctx's.
func (s *Scanner) Scan(ctx context.Context, entries []string) (*ScanResult, error) {
	results := make([]entryResult, len(entries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.parallelism)
	for i, entry := range entries {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = s.scanEntry(entry)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &ScanResult{Bundles: NewSet()}
	for i, r := range results {
		if r.warning != nil {
			s.logger.Warn("skipping classpath entry", "entry", r.warning.Entry, "reason", r.warning.Reason, "err", r.warning.Err)
			out.Warnings = append(out.Warnings, *r.warning)
			continue
		}
		if !r.ok {
			s.logger.Debug("not a bundle", "entry", entries[i])
			continue
		}
		if out.Bundles.Add(r.bundle) {
			s.logger.Debug("duplicate bundle, later entry wins", "name", r.bundle.SymbolicName, "path", r.bundle.Path)
		}
		s.logger.Debug("found bundle", "name", r.bundle.SymbolicName, "version", r.bundle.VersionString(),
			"level", r.bundle.StartLevel, "autostart", r.bundle.AutoStart)
	}
	return out, nil
}

func (s *Scanner) scanEntry(entry string) entryResult {
	path, err := LocalPath(entry)
	if err != nil {
		return entryResult{warning: &Warning{Entry: entry, Reason: ReasonNotLocal, Err: err}}
	}

	m, err := manifest.Read(path)
	if err != nil {
		return entryResult{warning: &Warning{Entry: entry, Reason: ReasonUnreadable, Err: err}}
	}
	if m == nil {
		return entryResult{warning: &Warning{Entry: entry, Reason: ReasonNoManifest}}
	}
	if !IsBundle(m) {
		return entryResult{}
	}

	id := Identify(m)
	return entryResult{bundle: New(id, path, s.levels.Resolve(id.SymbolicName)), ok: true}
}

// LocalPath converts a classpath entry, a plain path or a file: URL, into an
// absolute filesystem path.
func LocalPath(entry string) (string, error) {
	if entry == "" {
		return "", fmt.Errorf("%w: empty entry", ErrNotLocalPath)
	}
	if scheme, ok := urlScheme(entry); ok {
		if !strings.EqualFold(scheme, "file") {
			return "", fmt.Errorf("%w: %s", ErrNotLocalPath, entry)
		}
		u, err := url.Parse(entry)
		if err != nil {
			return "", fmt.Errorf("%w: %s: %w", ErrNotLocalPath, entry, err)
		}
		if u.Host != "" && u.Host != "localhost" {
			return "", fmt.Errorf("%w: %s: remote host", ErrNotLocalPath, entry)
		}
		p := u.Path
		if p == "" {
			p = u.Opaque
		}
		entry = fromURLPath(p)
	}
	abs, err := filepath.Abs(entry)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", entry, err)
	}
	return abs, nil
}

// urlScheme returns the scheme of entry when it looks like a URL. Single
// letter schemes are Windows drive letters, not URLs.
func urlScheme(entry string) (string, bool) {
	scheme, _, ok := strings.Cut(entry, ":")
	if !ok || len(scheme) < 2 {
		return "", false
	}
	for i, r := range scheme {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && (r >= '0' && r <= '9' || r == '+' || r == '-' || r == '.'):
		default:
			return "", false
		}
	}
	return scheme, true
}

// fromURLPath converts the path of a file: URL to a native path.
func fromURLPath(p string) string {
	// file:///C:/x has the path /C:/x
	if runtime.GOOS == "windows" && len(p) >= 3 && p[0] == '/' && p[2] == ':' {
		p = p[1:]
	}
	return filepath.FromSlash(p)
}
