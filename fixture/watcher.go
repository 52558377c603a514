package fixture

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits for more writes before
// reporting a change.
const DefaultDebounce = 300 * time.Millisecond

const changeBuffer = 64

// Op is the kind of change observed on a fixture file.
type Op string

const (
	OpModify Op = "modify"
	OpRemove Op = "remove"
)

// Change is one debounced change to a watched fixture.
type Change struct {
	Path string
	Op   Op
}

// Watcher reports content changes to a fixed set of fixture files. Writes
// that leave the content unchanged are not reported.
type Watcher struct {
	fsw      *fsnotify.Watcher
	logger   *slog.Logger
	debounce time.Duration
	files    map[string]bool

	pendingMu sync.Mutex
	pending   map[string]fsnotify.Op

	hashMu sync.Mutex
	hashes map[string]string

	changes chan Change
}

// NewWatcher watches paths. A debounce of zero uses DefaultDebounce.
func NewWatcher(paths []string, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, errors.New("no fixtures to watch")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	files := make(map[string]bool, len(paths))
	for _, p := range paths {
		files[filepath.Clean(p)] = true
	}
	return &Watcher{
		fsw:      fsw,
		logger:   logger,
		debounce: debounce,
		files:    files,
		pending:  make(map[string]fsnotify.Op),
		hashes:   make(map[string]string),
		changes:  make(chan Change, changeBuffer),
	}, nil
}

// Changes returns the change channel. It is closed when the watcher stops.
func (w *Watcher) Changes() <-chan Change {
	return w.changes
}

// Start records the current content of every file and begins watching
// their directories.
func (w *Watcher) Start(ctx context.Context) error {
	dirs := make(map[string]bool)
	for path := range w.files {
		if content, err := os.ReadFile(path); err == nil {
			w.setHash(path, contentHash(content))
		}
		dirs[filepath.Dir(path)] = true
	}
	for dir := range dirs {
		if err := w.fsw.Add(dir); err != nil {
			return err
		}
		w.logger.Debug("Watching directory", "path", dir)
	}

	go w.processEvents(ctx)

	w.logger.Info("Fixture watcher started", "files", len(w.files), "debounce", w.debounce)
	return nil
}

// Stop closes the underlying watcher.
func (w *Watcher) Stop() error {
	return w.fsw.Close()
}

func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.changes)
	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			path := filepath.Clean(ev.Name)
			if !w.files[path] {
				continue
			}
			w.pendingMu.Lock()
			w.pending[path] |= ev.Op
			w.pendingMu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Error("Watcher error", "error", err)

		case <-ticker.C:
			w.flushPending(ctx)
		}
	}
}

func (w *Watcher) flushPending(ctx context.Context) {
	w.pendingMu.Lock()
	if len(w.pending) == 0 {
		w.pendingMu.Unlock()
		return
	}
	toProcess := w.pending
	w.pending = make(map[string]fsnotify.Op)
	w.pendingMu.Unlock()

	for path := range toProcess {
		if ctx.Err() != nil {
			return
		}

		content, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			// Editors often replace files by rename; only report a
			// removal once the file is really gone.
			w.hashMu.Lock()
			_, had := w.hashes[path]
			delete(w.hashes, path)
			w.hashMu.Unlock()
			if had {
				w.send(ctx, Change{Path: path, Op: OpRemove})
			}
			continue
		}
		if err != nil {
			w.logger.Warn("Failed to read fixture", "path", path, "error", err)
			continue
		}

		hash := contentHash(content)
		if old, ok := w.hash(path); ok && old == hash {
			continue
		}
		w.setHash(path, hash)
		w.send(ctx, Change{Path: path, Op: OpModify})
	}
}

func (w *Watcher) send(ctx context.Context, c Change) {
	select {
	case w.changes <- c:
		w.logger.Debug("Fixture changed", "path", c.Path, "op", c.Op)
	case <-ctx.Done():
	}
}

func (w *Watcher) hash(path string) (string, bool) {
	w.hashMu.Lock()
	defer w.hashMu.Unlock()
	h, ok := w.hashes[path]
	return h, ok
}

func (w *Watcher) setHash(path, hash string) {
	w.hashMu.Lock()
	defer w.hashMu.Unlock()
	w.hashes[path] = hash
}

func contentHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
