package sources

import (
	"bytes"
	"context"
	"path/filepath"

	"github.com/props-sh/props/pkg/dos"
)

// Classpath stands in for Java's classpath resource lookup (spec.md §9
// Supplemented Features): an ordered list of root directories searched, in
// order, for a named Java-properties resource file; the first root that has
// the resource wins, matching classpath shadowing semantics.
type Classpath struct {
	pushable
	id       string
	roots    []string
	resource string
}

// NewClasspath creates a Classpath source searching roots in order for
// resource (a Java-properties file name, e.g. "app.properties").
func NewClasspath(id, resource string, roots ...string) *Classpath {
	return &Classpath{id: id, roots: roots, resource: resource}
}

func (c *Classpath) ID() string { return c.id }

func (c *Classpath) Snapshot(ctx context.Context) map[string]string {
	for _, root := range c.roots {
		path := filepath.Join(root, c.resource)
		data, err := dos.ReadFile(ctx, path)
		if err != nil {
			continue
		}
		snap, err := parseProperties(bytes.NewReader(data))
		if err != nil {
			logSnapshotFailure(ctx, c.id, err)
			return map[string]string{}
		}
		return snap
	}
	return map[string]string{}
}

func (c *Classpath) PushUpdate(ctx context.Context) {
	c.push(ctx, c.Snapshot(ctx))
}
