package props

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/datawire/dlib/dlog"
)

// FileWatcher is the single OS-level watch thread described in spec.md §4.7:
// it registers the parent directory of every watched path, debounces
// create/modify/delete events per path, and invokes pushUpdate on the
// corresponding source. Adapted from the teacher's WatchUserCache (formerly
// pkg/client/cache/watcher.go), generalized from one fixed file list behind a
// single callback to an arbitrary, growable set of (path, Source) pairs so
// one watcher thread can serve every file-backed source a Registry knows
// about.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration

	mu      sync.Mutex
	dirRefs map[string]int
	paths   map[string]Source
	delays  map[string]*time.Timer

	startOnce sync.Once
}

// NewFileWatcher creates a FileWatcher with no paths registered yet; Watch
// starts the underlying goroutine lazily, on its first call. debounce is the
// delay applied after each fsnotify event before refreshing the affected
// source (RegistryOptions.FileWatchDebounce); a value of 0 or less falls
// back to the same 5ms default regopts.defaultOptions uses.
func NewFileWatcher(debounce time.Duration) (*FileWatcher, error) {
	if debounce <= 0 {
		debounce = 5 * time.Millisecond
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &FileWatcher{
		watcher:  w,
		debounce: debounce,
		dirRefs:  map[string]int{},
		paths:    map[string]Source{},
		delays:   map[string]*time.Timer{},
	}, nil
}

// Watch registers path as the on-disk target of source: when path is
// created, modified, or removed, source.PushUpdate is called after the
// watcher's debounce delay.
func (w *FileWatcher) Watch(ctx context.Context, path string, source Source) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	// The directory containing the file must be watched, not the file
	// itself: editing a file typically ends with renaming the original and
	// creating a new one, and a watch that follows the inode would miss the
	// replacement being created.
	dir := filepath.Dir(abs)

	w.mu.Lock()
	if w.dirRefs[dir] == 0 {
		if err := w.watcher.Add(dir); err != nil {
			w.mu.Unlock()
			return err
		}
	}
	w.dirRefs[dir]++
	w.paths[abs] = source
	w.mu.Unlock()

	w.startOnce.Do(func() {
		go w.run(ctx)
	})
	return nil
}

// run is the dedicated watch loop; it never returns until ctx is done.
func (w *FileWatcher) run(ctx context.Context) {
	defer w.watcher.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			dlog.Error(ctx, err)
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove) == 0 {
				continue
			}
			w.scheduleRefresh(ctx, event.Name)
		}
	}
}

// scheduleRefresh debounces refresh of the source watching path: repeated
// events for the same path within the debounce window collapse into one
// PushUpdate call (spec.md §4.7's "duplicate events ... collapse to one
// refresh"). An overflow, which fsnotify reports on its error channel, is
// logged by run and triggers no refresh.
func (w *FileWatcher) scheduleRefresh(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	source, ok := w.paths[path]
	if !ok {
		return
	}
	if t, ok := w.delays[path]; ok {
		t.Reset(w.debounce)
		return
	}
	w.delays[path] = time.AfterFunc(w.debounce, func() {
		select {
		case <-ctx.Done():
		default:
			source.PushUpdate(ctx)
		}
	})
}
