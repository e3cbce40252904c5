// SPDX-License-Identifier: MPL-2.0

// Package watch re-runs a callback when classpath entries change.
//
// Directory entries are watched recursively. Archive entries are watched
// through their parent directory so that a build tool replacing the file
// by rename is still observed. Events arriving within the debounce window
// are coalesced into one callback.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 500 * time.Millisecond

// defaultIgnores are matched against paths relative to a watched directory.
var defaultIgnores = []string{
	"**/.git/**",
	"**/.explode/**",
	"**/*.swp",
	"**/*~",
	"**/.DS_Store",
}

var errNoEntries = errors.New("watch: no classpath entries to watch")

type (
	// Config holds the parameters for a Watcher.
	Config struct {
		// Entries are local classpath entries, archives or directories.
		Entries []string

		// Ignore are doublestar patterns, relative to a watched directory,
		// merged with the built-in ignores.
		Ignore []string

		// Exclude are absolute directories whose events are dropped, such as
		// the configuration directory the callback writes into.
		Exclude []string

		// Debounce is the quiet period before the callback fires. Zero or
		// negative values use 500ms.
		Debounce time.Duration

		// OnChange receives the sorted, absolute paths that changed.
		OnChange func(ctx context.Context, changed []string) error

		Logger *log.Logger
	}

	// Watcher monitors classpath entries. Run must be called exactly once.
	Watcher struct {
		cfg      Config
		fsw      *fsnotify.Watcher
		logger   *log.Logger
		ignores  []string
		exclude  []string
		debounce time.Duration
		// roots are watched directory entries.
		roots []string
		// files maps a watched parent directory to the archive names in it.
		files   map[string]map[string]struct{}
		started atomic.Bool
	}
)

// New registers every entry with fsnotify. Entries that do not exist are
// logged and skipped; at least one entry must be watchable.
func New(cfg Config) (*Watcher, error) {
	if err := validatePatterns(cfg.Ignore); err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		cfg:      cfg,
		fsw:      fsw,
		logger:   logger,
		ignores:  append(slices.Clone(defaultIgnores), cfg.Ignore...),
		debounce: debounce,
		files:    make(map[string]map[string]struct{}),
	}
	for _, dir := range cfg.Exclude {
		if abs, absErr := filepath.Abs(dir); absErr == nil {
			w.exclude = append(w.exclude, abs)
		}
	}

	if err := w.addEntries(); err != nil {
		if closeErr := fsw.Close(); closeErr != nil {
			logger.Warn("closing watcher after init failure", "err", closeErr)
		}
		return nil, err
	}
	return w, nil
}

// Run blocks until ctx is canceled. Clean cancellation returns nil.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return errors.New("watch: Run called more than once")
	}

	var (
		mu      sync.Mutex
		pending = make(map[string]struct{})
		timer   *time.Timer
		running atomic.Bool
	)

	// fire may run after cancellation through time.AfterFunc; the callback
	// still receives ctx. Overlapping runs are skipped and retried.
	fire := func() {
		if ctx.Err() != nil {
			return
		}
		if !running.CompareAndSwap(false, true) {
			w.logger.Debug("previous run still in progress, retrying")
			mu.Lock()
			if timer != nil {
				timer.Reset(w.debounce)
			}
			mu.Unlock()
			return
		}
		defer running.Store(false)

		mu.Lock()
		if len(pending) == 0 {
			mu.Unlock()
			return
		}
		changed := slices.Sorted(maps.Keys(pending))
		clear(pending)
		mu.Unlock()

		w.logger.Info("classpath changed", "paths", len(changed))
		if w.cfg.OnChange != nil {
			if err := w.cfg.OnChange(ctx, changed); err != nil {
				w.logger.Error("re-run failed", "err", err)
			}
		}
	}

	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
		if closeErr := w.fsw.Close(); closeErr != nil {
			w.logger.Warn("closing fsnotify", "err", closeErr)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: fsnotify event channel closed unexpectedly")
			}
			if !w.relevant(evt.Name) {
				continue
			}
			if evt.Has(fsnotify.Create) {
				w.maybeAddDir(evt.Name)
			}

			mu.Lock()
			pending[evt.Name] = struct{}{}
			if timer == nil {
				timer = time.AfterFunc(w.debounce, fire)
			} else {
				timer.Reset(w.debounce)
			}
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: fsnotify error channel closed unexpectedly")
			}
			if isFatalFsnotifyError(err) {
				return fmt.Errorf("watch: fatal fsnotify error: %w", err)
			}
			w.logger.Warn("fsnotify error", "err", err)
		}
	}
}

func (w *Watcher) addEntries() error {
	for _, entry := range w.cfg.Entries {
		abs, err := filepath.Abs(entry)
		if err != nil {
			w.logger.Warn("skipping classpath entry", "entry", entry, "err", err)
			continue
		}
		info, err := os.Stat(abs)
		if err != nil {
			w.logger.Warn("skipping classpath entry", "entry", entry, "err", err)
			continue
		}

		if info.IsDir() {
			if err := w.addTree(abs, abs); err != nil {
				return err
			}
			w.roots = append(w.roots, abs)
			continue
		}

		parent, name := filepath.Split(abs)
		parent = filepath.Clean(parent)
		if _, watched := w.files[parent]; !watched {
			if err := w.fsw.Add(parent); err != nil {
				return fmt.Errorf("watch: add directory %q: %w", parent, err)
			}
			w.files[parent] = make(map[string]struct{})
		}
		w.files[parent][name] = struct{}{}
	}

	if len(w.roots) == 0 && len(w.files) == 0 {
		return errNoEntries
	}
	return nil
}

// addTree registers start and every non-ignored directory below it. Ignore
// patterns are matched relative to root.
func (w *Watcher) addTree(root, start string) error {
	walkErr := filepath.WalkDir(start, func(path string, d os.DirEntry, walkDirErr error) error {
		if walkDirErr != nil {
			w.logger.Warn("skipping inaccessible path", "path", path, "err", walkDirErr)
			return nil //nolint:nilerr // inaccessible directories are skipped
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && (w.ignoredUnder(root, path) || w.excluded(path)) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watch: add directory %q: %w", path, err)
		}
		return nil
	})
	if walkErr != nil {
		return fmt.Errorf("watch: walk %q: %w", start, walkErr)
	}
	return nil
}

func (w *Watcher) maybeAddDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	root, ok := w.rootOf(path)
	if !ok {
		return
	}
	if err := w.addTree(root, path); err != nil {
		w.logger.Warn("watching new directory", "path", path, "err", err)
	}
}

// relevant reports whether an event path belongs to a watched entry.
func (w *Watcher) relevant(path string) bool {
	if w.excluded(path) {
		return false
	}
	if names, ok := w.files[filepath.Dir(path)]; ok {
		if _, tracked := names[filepath.Base(path)]; tracked {
			return true
		}
	}
	root, ok := w.rootOf(path)
	return ok && !w.ignoredUnder(root, path)
}

func (w *Watcher) rootOf(path string) (string, bool) {
	for _, root := range w.roots {
		if within(root, path) {
			return root, true
		}
	}
	return "", false
}

func (w *Watcher) excluded(path string) bool {
	return slices.ContainsFunc(w.exclude, func(dir string) bool { return within(dir, path) })
}

func (w *Watcher) ignoredUnder(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return matchesAny(w.ignores, rel) || matchesAny(w.ignores, rel+"/")
}

func within(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

func matchesAny(patterns []string, rel string) bool {
	normalized := filepath.ToSlash(rel)
	for _, pat := range patterns {
		if matched, err := doublestar.Match(pat, normalized); err == nil && matched {
			return true
		}
	}
	return false
}

// DefaultIgnores returns a copy of the built-in ignore patterns.
func DefaultIgnores() []string {
	return slices.Clone(defaultIgnores)
}

func validatePatterns(patterns []string) error {
	for _, pat := range patterns {
		if !doublestar.ValidatePattern(pat) {
			return fmt.Errorf("watch: invalid ignore pattern %q: %w", pat, doublestar.ErrBadPattern)
		}
	}
	return nil
}
