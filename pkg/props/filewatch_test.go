package props_test

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/datawire/dlib/dlog"
	"github.com/stretchr/testify/require"

	"github.com/props-sh/props/pkg/props"
)

type pushCountingSource struct{ count int64 }

func (s *pushCountingSource) ID() string { return "watched" }

func (s *pushCountingSource) Snapshot(context.Context) map[string]string { return nil }

func (s *pushCountingSource) Register(func(map[string]string)) {}

func (s *pushCountingSource) PushUpdate(context.Context) {
	atomic.AddInt64(&s.count, 1)
}

// FileWatcher is inherently OS-dependent: fsnotify cannot watch an in-memory
// afero filesystem, so this test exercises a real temp directory rather than
// the deterministic dos/afero harness the rest of the suite uses.
func TestFileWatcher_DebouncesWritesIntoOneRefresh(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.properties")
	require.NoError(t, os.WriteFile(path, []byte("k=v\n"), 0o644))

	w, err := props.NewFileWatcher(5 * time.Millisecond)
	require.NoError(t, err)

	src := &pushCountingSource{}
	ctx, cancel := context.WithTimeout(dlog.NewTestContext(t, false), 2*time.Second)
	defer cancel()

	require.NoError(t, w.Watch(ctx, path, src))

	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(path, []byte("k=v2\n"), 0o644))
		time.Sleep(time.Millisecond)
	}

	require.Eventually(t, func() bool {
		return atomic.LoadInt64(&src.count) >= 1
	}, time.Second, 5*time.Millisecond, "expected at least one debounced refresh")
}
