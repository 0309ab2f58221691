// Command propsctl is a small demo/debug CLI for the props registry: it
// loads a source-declaration file, binds a handful of string props to keys
// given on the command line, and prints every ownership transition as it
// happens. Grounded on cmd/podd/main.go and cmd/tst-manager/main.go's
// cobra.Command + dgroup.WithGoroutineName bootstrap shape.
package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/datawire/dlib/dgroup"
	"github.com/datawire/dlib/dlog"

	"github.com/props-sh/props/pkg/props"
	"github.com/props-sh/props/pkg/props/convert"
	"github.com/props-sh/props/pkg/props/regopts"
	"github.com/props-sh/props/pkg/proplog"
)

const processName = "propsctl"

type args struct {
	declFile string
	keys     []string
}

func main() {
	ctx := context.Background()
	ctx = dgroup.WithGoroutineName(ctx, "/"+processName)

	var a args
	cmd := &cobra.Command{
		Use:   processName,
		Short: "Load a source-declaration file and print live prop updates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), a)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&a.declFile, "decl", "", "path to a source-declaration file (spec.md §6 format)")
	flags.StringArrayVar(&a.keys, "watch", nil, "key to bind and print updates for; may be repeated")
	_ = cmd.MarkFlagRequired("decl")

	if err := cmd.ExecuteContext(ctx); err != nil {
		dlog.Errorf(ctx, "quit: %v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, a args) error {
	opts, err := regopts.Load(ctx, processName)
	if err != nil {
		return err
	}
	ctx = proplog.NewContext(ctx, proplog.ParseLevel(opts.LogLevel))

	f, err := os.Open(a.declFile)
	if err != nil {
		return err
	}
	defer f.Close()

	reg, err := props.NewRegistryFromDeclarations(ctx, f, nil)
	if err != nil {
		return err
	}

	scheduler := props.NewScheduler(ctx, opts.Workers)
	reg.ScheduleRefresh(scheduler, opts.RefreshInitialDelay, opts.RefreshPeriod)

	for _, key := range a.keys {
		key := key
		p := props.NewProp[string](key, convert.String{}, nil, 1, scheduler.WorkerPool())
		reg.Bind(p)
		p.Subscribe(func(v string) {
			dlog.Infof(ctx, "%s = %q", key, v)
		}, func(err error) {
			dlog.Errorf(ctx, "%s: %v", key, err)
		})
	}

	dlog.Infof(ctx, "watching %d key(s) from %s", len(a.keys), a.declFile)
	return scheduler.Wait()
}
