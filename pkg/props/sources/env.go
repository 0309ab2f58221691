package sources

import (
	"context"
	"os"
	"strings"
)

// Env is the process-environment Source (spec.md §6's "env" declaration
// type).
type Env struct {
	pushable
	id string
}

// NewEnv creates an Env source with the given stable id (see spec.md §4.1).
func NewEnv(id string) *Env { return &Env{id: id} }

func (e *Env) ID() string { return e.id }

func (e *Env) Snapshot(ctx context.Context) map[string]string {
	out := map[string]string{}
	for _, kv := range os.Environ() {
		if i := strings.IndexByte(kv, '='); i >= 0 {
			out[kv[:i]] = kv[i+1:]
		}
	}
	return out
}

func (e *Env) PushUpdate(ctx context.Context) {
	e.push(ctx, e.Snapshot(ctx))
}
