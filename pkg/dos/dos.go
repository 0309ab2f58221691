// Package dos provides a context-scoped filesystem indirection. Production
// code calls the package-level functions (dos.Open, dos.ReadFile, ...), which
// delegate to whatever FileSystem is attached to the context, defaulting to
// the real OS. Tests attach an in-memory afero filesystem with WithFS so that
// file-backed sources and the file watcher can be exercised without touching
// disk.
package dos

import (
	"context"
	"io"
	"io/fs"
	"os"
)

// File is the subset of *os.File that callers of this package need.
type File interface {
	io.Reader
	io.Writer
	io.Closer
	io.Seeker
	Stat() (fs.FileInfo, error)
	Name() string
}

// FileSystem is the seam that WithFS overrides.
type FileSystem interface {
	Open(name string) (File, error)
	OpenFile(name string, flag int, perm fs.FileMode) (File, error)
	Create(name string) (File, error)
	Stat(name string) (fs.FileInfo, error)
	Remove(name string) error
	RemoveAll(path string) error
	MkdirAll(path string, perm fs.FileMode) error
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error
	Getwd() (string, error)
	Chdir(dir string) error
	Executable() (string, error)
}

type fsKey struct{}

// WithFS attaches fs to ctx so that subsequent package-level calls on that
// context (or any context derived from it) use it instead of the real OS.
func WithFS(ctx context.Context, fs FileSystem) context.Context {
	return context.WithValue(ctx, fsKey{}, fs)
}

func fromContext(ctx context.Context) FileSystem {
	if fs, ok := ctx.Value(fsKey{}).(FileSystem); ok {
		return fs
	}
	return osFS{}
}

func Open(ctx context.Context, name string) (File, error) {
	f, err := fromContext(ctx).Open(name)
	return nilIfNilFile(f), err
}

func OpenFile(ctx context.Context, name string, flag int, perm fs.FileMode) (File, error) {
	f, err := fromContext(ctx).OpenFile(name, flag, perm)
	return nilIfNilFile(f), err
}

func Create(ctx context.Context, name string) (File, error) {
	f, err := fromContext(ctx).Create(name)
	return nilIfNilFile(f), err
}

func Stat(ctx context.Context, name string) (fs.FileInfo, error) {
	return fromContext(ctx).Stat(name)
}

func Remove(ctx context.Context, name string) error {
	return fromContext(ctx).Remove(name)
}

func RemoveAll(ctx context.Context, path string) error {
	return fromContext(ctx).RemoveAll(path)
}

func MkdirAll(ctx context.Context, path string, perm fs.FileMode) error {
	return fromContext(ctx).MkdirAll(path, perm)
}

func ReadFile(ctx context.Context, name string) ([]byte, error) {
	return fromContext(ctx).ReadFile(name)
}

func WriteFile(ctx context.Context, name string, data []byte, perm fs.FileMode) error {
	return fromContext(ctx).WriteFile(name, data, perm)
}

func Getwd(ctx context.Context) (string, error) {
	return fromContext(ctx).Getwd()
}

func Chdir(ctx context.Context, dir string) error {
	return fromContext(ctx).Chdir(dir)
}

func Executable(ctx context.Context) (string, error) {
	return fromContext(ctx).Executable()
}

// nilIfNilFile guards against the well-known Go interface-nil trap: an
// (*os.File)(nil) wrapped in the File interface is non-nil when compared with
// `== nil`, so callers that open a missing file would otherwise receive a
// non-nil File that panics on first use.
func nilIfNilFile(f File) File {
	if osf, ok := f.(*os.File); ok && osf == nil {
		return nil
	}
	return f
}

type osFS struct{}

func (osFS) Open(name string) (File, error)  { return os.Open(name) }
func (osFS) Create(name string) (File, error) { return os.Create(name) }

func (osFS) OpenFile(name string, flag int, perm fs.FileMode) (File, error) {
	return os.OpenFile(name, flag, perm)
}

func (osFS) Stat(name string) (fs.FileInfo, error)      { return os.Stat(name) }
func (osFS) Remove(name string) error                   { return os.Remove(name) }
func (osFS) RemoveAll(path string) error                { return os.RemoveAll(path) }
func (osFS) MkdirAll(path string, perm fs.FileMode) error { return os.MkdirAll(path, perm) }
func (osFS) ReadFile(name string) ([]byte, error)        { return os.ReadFile(name) }

func (osFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	return os.WriteFile(name, data, perm)
}

func (osFS) Getwd() (string, error)          { return os.Getwd() }
func (osFS) Chdir(dir string) error          { return os.Chdir(dir) }
func (osFS) Executable() (string, error)     { return os.Executable() }
