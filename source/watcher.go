package source

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

const (
	// eventChannelBuffer is the size of the watch event channel.
	eventChannelBuffer = 16

	// DefaultDebounce is how long a file must be quiet before a change is
	// reported.
	DefaultDebounce = 500 * time.Millisecond
)

// WatchEvent reports that the watched file settled after a change.
type WatchEvent struct {
	Path      string
	Operation WatchOperation
}

// WatchOperation indicates the type of file operation.
type WatchOperation string

// WatchOpCreate, WatchOpModify, and WatchOpDelete enumerate the file watch operation types.
const (
	WatchOpCreate WatchOperation = "create"
	WatchOpModify WatchOperation = "modify"
	WatchOpDelete WatchOperation = "delete"
)

// fingerprint identifies file content cheaply. GFA files can be large, so
// size and modification time stand in for a content hash.
type fingerprint struct {
	size    int64
	modTime time.Time
}

// FileWatcher watches a single input file. The parent directory is watched
// so that editors and tools that replace the file by rename are noticed.
type FileWatcher struct {
	path     string
	debounce time.Duration
	watcher  *fsnotify.Watcher
	logger   *slog.Logger

	pendingMu sync.Mutex
	pending   fsnotify.Op
	lastEvent time.Time

	last   fingerprint
	exists bool

	events        chan WatchEvent
	droppedEvents atomic.Int64
}

// NewFileWatcher creates a watcher for path. A zero debounce uses
// DefaultDebounce.
func NewFileWatcher(path string, debounce time.Duration, logger *slog.Logger) (*FileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w := &FileWatcher{
		path:     abs,
		debounce: debounce,
		watcher:  fsw,
		logger:   logger,
		events:   make(chan WatchEvent, eventChannelBuffer),
	}
	w.last, w.exists = w.stat()
	return w, nil
}

// Events returns the channel of watch events.
func (w *FileWatcher) Events() <-chan WatchEvent {
	return w.events
}

// Start begins watching. Events stop when ctx is done or Stop is called.
func (w *FileWatcher) Start(ctx context.Context) error {
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}
	go w.processEvents(ctx)

	w.logger.Info("File watcher started",
		"path", w.path,
		"debounce", w.debounce)
	return nil
}

// Stop stops the watcher.
// The events channel is closed by processEvents when it exits.
func (w *FileWatcher) Stop() error {
	return w.watcher.Close()
}

// DroppedEvents returns the number of events dropped due to channel overflow.
func (w *FileWatcher) DroppedEvents() int64 {
	return w.droppedEvents.Load()
}

// processEvents handles fsnotify events with debouncing.
func (w *FileWatcher) processEvents(ctx context.Context) {
	defer close(w.events)
	ticker := time.NewTicker(w.debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFSEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Watcher error", "error", err)

		case now := <-ticker.C:
			w.flushPending(now)
		}
	}
}

// handleFSEvent records an event for the watched file.
func (w *FileWatcher) handleFSEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}

	w.pendingMu.Lock()
	w.pending |= event.Op
	w.lastEvent = time.Now()
	w.pendingMu.Unlock()

	w.logger.Debug("Input change detected", "path", w.path, "op", event.Op.String())
}

// flushPending reports the accumulated change once the file has been quiet
// for the debounce delay.
func (w *FileWatcher) flushPending(now time.Time) {
	w.pendingMu.Lock()
	if w.pending == 0 || now.Sub(w.lastEvent) < w.debounce {
		w.pendingMu.Unlock()
		return
	}
	w.pending = 0
	w.pendingMu.Unlock()

	current, exists := w.stat()
	switch {
	case !exists && w.exists:
		w.exists = false
		w.sendEvent(WatchEvent{Path: w.path, Operation: WatchOpDelete})
	case !exists:
		return
	case !w.exists:
		w.exists, w.last = true, current
		w.sendEvent(WatchEvent{Path: w.path, Operation: WatchOpCreate})
	case !current.equal(w.last):
		w.last = current
		w.sendEvent(WatchEvent{Path: w.path, Operation: WatchOpModify})
	}
}

func (f fingerprint) equal(o fingerprint) bool {
	return f.size == o.size && f.modTime.Equal(o.modTime)
}

func (w *FileWatcher) stat() (fingerprint, bool) {
	info, err := os.Stat(w.path)
	if err != nil {
		return fingerprint{}, false
	}
	return fingerprint{size: info.Size(), modTime: info.ModTime()}, true
}

// sendEvent sends an event to the output channel.
func (w *FileWatcher) sendEvent(event WatchEvent) {
	select {
	case w.events <- event:
		w.logger.Debug("Sent watch event", "path", event.Path, "op", event.Operation)
	default:
		dropped := w.droppedEvents.Add(1)
		w.logger.Warn("Event channel full, dropping event",
			"path", event.Path,
			"total_dropped", dropped)
	}
}
