// Package sources holds the concrete props.Source implementations spec.md
// §6 names as standard declaration-file types — env, system, classpath,
// file — plus the Java-properties text format the file source defaults to.
package sources

import (
	"context"
	"sync"

	"github.com/datawire/dlib/dlog"
)

// pushable is the shared subscriber-bookkeeping every Source in this package
// embeds: Register appends a callback, PushUpdate snapshots and fans it out,
// exactly as spec.md §4.1 describes and independent of how each Source
// actually produces its snapshot.
type pushable struct {
	mu   sync.Mutex
	subs []func(map[string]string)
}

func (p *pushable) Register(subscriber func(map[string]string)) {
	p.mu.Lock()
	p.subs = append(p.subs, subscriber)
	p.mu.Unlock()
}

func (p *pushable) push(ctx context.Context, snap map[string]string) {
	p.mu.Lock()
	subs := append([]func(map[string]string)(nil), p.subs...)
	p.mu.Unlock()
	for _, s := range subs {
		s(snap)
	}
}

// logSnapshotFailure is the common "report, don't propagate" behavior spec.md
// §4.1 mandates for Snapshot I/O errors.
func logSnapshotFailure(ctx context.Context, sourceID string, err error) {
	dlog.Errorf(ctx, "source %q: snapshot failed, keeping previous mapping: %v", sourceID, err)
}
