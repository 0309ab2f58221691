// Package aferofs adapts an afero.Fs into a dos.FileSystem, so that any of
// afero's backends (in-memory, read-only overlay, copy-on-write) can be
// installed on a context with dos.WithFS.
package aferofs

import (
	"io/fs"

	"github.com/spf13/afero"

	"github.com/props-sh/props/pkg/dos"
)

type wrapper struct {
	afero.Fs
}

// Wrap adapts fs into a dos.FileSystem. The result has no notion of a
// current directory; pass it through dos.WorkingDirWrapper to get one.
func Wrap(fs afero.Fs) dos.FileSystem {
	return wrapper{Fs: fs}
}

func (w wrapper) Open(name string) (dos.File, error) {
	return w.Fs.Open(name)
}

func (w wrapper) OpenFile(name string, flag int, perm fs.FileMode) (dos.File, error) {
	return w.Fs.OpenFile(name, flag, perm)
}

func (w wrapper) Create(name string) (dos.File, error) {
	return w.Fs.Create(name)
}

func (w wrapper) ReadFile(name string) ([]byte, error) {
	return afero.ReadFile(w.Fs, name)
}

func (w wrapper) WriteFile(name string, data []byte, perm fs.FileMode) error {
	return afero.WriteFile(w.Fs, name, data, perm)
}

func (w wrapper) Getwd() (string, error) {
	return "/", nil
}

func (w wrapper) Chdir(string) error {
	return nil
}

func (w wrapper) Executable() (string, error) {
	return "/props-sh", nil
}
