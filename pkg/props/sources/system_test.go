package sources_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/props-sh/props/pkg/props/sources"
)

func TestSystem_SetAndUnsetPushUpdates(t *testing.T) {
	ctx := context.Background()
	sys := sources.NewSystem("sys1")

	var got map[string]string
	sys.Register(func(snap map[string]string) { got = snap })

	sys.Set(ctx, "k", "v")
	assert.Equal(t, map[string]string{"k": "v"}, got)
	assert.Equal(t, map[string]string{"k": "v"}, sys.Snapshot(ctx))

	sys.Unset(ctx, "k")
	assert.Empty(t, got)
	assert.Empty(t, sys.Snapshot(ctx))
}

func TestEnv_SnapshotReflectsProcessEnvironment(t *testing.T) {
	t.Setenv("PROPS_TEST_ENV_KEY", "here")

	env := sources.NewEnv("env1")
	snap := env.Snapshot(context.Background())

	assert.Equal(t, "here", snap["PROPS_TEST_ENV_KEY"])
	assert.Equal(t, "env1", env.ID())
}
