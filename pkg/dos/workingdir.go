package dos

import (
	"context"
	"io/fs"
	"path/filepath"
	"sync"
)

// WorkingDirWrapper wraps a FileSystem that has no notion of a current
// directory (such as an afero.MemMapFs adapter) and gives it one, so that
// relative paths passed to Chdir/Open/ReadFile/... resolve the way they would
// against the real OS.
func WorkingDirWrapper(fs FileSystem) FileSystem {
	return &workingDirFS{FileSystem: fs, cwd: "/"}
}

type workingDirFS struct {
	FileSystem
	mu  sync.Mutex
	cwd string
}

func (w *workingDirFS) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	w.mu.Lock()
	cwd := w.cwd
	w.mu.Unlock()
	return filepath.Join(cwd, name)
}

func (w *workingDirFS) Open(name string) (File, error) { return w.FileSystem.Open(w.resolve(name)) }

func (w *workingDirFS) OpenFile(name string, flag int, perm fs.FileMode) (File, error) {
	return w.FileSystem.OpenFile(w.resolve(name), flag, perm)
}

func (w *workingDirFS) Create(name string) (File, error) {
	return w.FileSystem.Create(w.resolve(name))
}

func (w *workingDirFS) Stat(name string) (fs.FileInfo, error) {
	return w.FileSystem.Stat(w.resolve(name))
}

func (w *workingDirFS) Remove(name string) error { return w.FileSystem.Remove(w.resolve(name)) }

func (w *workingDirFS) RemoveAll(path string) error {
	return w.FileSystem.RemoveAll(w.resolve(path))
}

func (w *workingDirFS) MkdirAll(path string, perm fs.FileMode) error {
	return w.FileSystem.MkdirAll(w.resolve(path), perm)
}

func (w *workingDirFS) ReadFile(name string) ([]byte, error) {
	return w.FileSystem.ReadFile(w.resolve(name))
}

func (w *workingDirFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	return w.FileSystem.WriteFile(w.resolve(name), data, perm)
}

func (w *workingDirFS) Getwd() (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cwd, nil
}

func (w *workingDirFS) Chdir(dir string) error {
	next := w.resolve(dir)
	next = filepath.Clean(next)
	w.mu.Lock()
	w.cwd = next
	w.mu.Unlock()
	return nil
}

// WithLockedFs wraps the FileSystem currently attached to ctx (if any) with a
// mutex so that concurrent sources sharing one in-memory filesystem in tests
// don't race on its internal state, and reattaches it to a derived context.
func WithLockedFs(ctx context.Context) context.Context {
	return WithFS(ctx, &lockedFS{FileSystem: fromContext(ctx)})
}

type lockedFS struct {
	FileSystem
	mu sync.Mutex
}

func (l *lockedFS) ReadFile(name string) ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.FileSystem.ReadFile(name)
}

func (l *lockedFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.FileSystem.WriteFile(name, data, perm)
}
