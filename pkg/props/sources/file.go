package sources

import (
	"bytes"
	"context"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/datawire/dlib/dlog"
	"github.com/props-sh/props/pkg/dos"
)

// File is the file-backed Source from spec.md §6: read-only from the
// library's perspective, parsed as Java-properties text by default or as
// YAML when constructed with Format "yaml" (the declaration-file option
// `file=format=yaml`, spec.md §9 Supplemented Features). It reads through
// pkg/dos so tests can exercise it against an in-memory filesystem instead
// of real disk.
type File struct {
	pushable
	id     string
	path   string
	format string
}

// NewFile creates a File source that reads path, parsed per format ("" or
// "properties" for Java-properties text, "yaml" for YAML).
func NewFile(id, path, format string) *File {
	return &File{id: id, path: path, format: format}
}

func (f *File) ID() string { return f.id }

// Path returns the on-disk file this source reads, for FileWatcher.Watch.
func (f *File) Path() string { return f.path }

func (f *File) Snapshot(ctx context.Context) map[string]string {
	data, err := dos.ReadFile(ctx, f.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logSnapshotFailure(ctx, f.id, err)
		}
		return map[string]string{}
	}

	var snap map[string]string
	if f.format == "yaml" {
		snap = map[string]string{}
		var raw map[string]string
		if err := yaml.Unmarshal(data, &raw); err != nil {
			logSnapshotFailure(ctx, f.id, err)
			return map[string]string{}
		}
		for k, v := range raw {
			snap[k] = v
		}
	} else {
		snap, err = parseProperties(bytes.NewReader(data))
		if err != nil {
			logSnapshotFailure(ctx, f.id, err)
			return map[string]string{}
		}
	}
	dlog.Debugf(ctx, "source %q: read %d key(s) from %s", f.id, len(snap), f.path)
	return snap
}

func (f *File) PushUpdate(ctx context.Context) {
	f.push(ctx, f.Snapshot(ctx))
}
