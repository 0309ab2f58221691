// Package regopts loads RegistryOptions: configuration about the props
// registry itself (worker pool size, refresh cadence, log level), not the
// layered prop data model. Grounded on the teacher's BaseConfig loading
// order (defaults, then an optional YAML file, then environment overrides)
// from pkg/client/config.go, scaled down to the handful of fields a props
// registry actually needs.
package regopts

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/sethvargo/go-envconfig"
	"gopkg.in/yaml.v3"

	"github.com/datawire/dlib/dlog"
	"github.com/props-sh/props/pkg/filelocation"
)

// RegistryOptions is the registry's own bootstrap configuration.
type RegistryOptions struct {
	// Workers bounds how many SubscriberProxy dispatches the Scheduler's
	// WorkerPool runs at once; 0 or less leaves that dispatch unbounded.
	// Scheduled source refreshes are not counted against it.
	Workers int `yaml:"workers" env:"PROPS_WORKERS,default=4"`

	// RefreshPeriod is the default period the Scheduler uses for sources
	// that don't specify their own.
	RefreshPeriod time.Duration `yaml:"refreshPeriod" env:"PROPS_REFRESH_PERIOD,default=30s"`

	// RefreshInitialDelay is the default initial delay before the first
	// scheduled refresh of a source.
	RefreshInitialDelay time.Duration `yaml:"refreshInitialDelay" env:"PROPS_REFRESH_INITIAL_DELAY,default=1s"`

	// FileWatchDebounce is the delay FileWatcher waits after an fsnotify
	// event before refreshing the affected source.
	FileWatchDebounce time.Duration `yaml:"fileWatchDebounce" env:"PROPS_FILE_WATCH_DEBOUNCE,default=5ms"`

	// LogLevel is the default proplog level name ("debug", "info", "warn",
	// "error").
	LogLevel string `yaml:"logLevel" env:"PROPS_LOG_LEVEL,default=info"`
}

// defaultOptions mirrors the zero-value tags above, used when no YAML file
// is present.
func defaultOptions() RegistryOptions {
	return RegistryOptions{
		Workers:             4,
		RefreshPeriod:       30 * time.Second,
		RefreshInitialDelay: time.Second,
		FileWatchDebounce:   5 * time.Millisecond,
		LogLevel:            "info",
	}
}

// Load builds a RegistryOptions the way the teacher loads BaseConfig:
// defaults, then an optional "registry.yaml" under
// filelocation.AppUserConfigDir(ctx, app), then environment variable
// overrides bound with go-envconfig.
func Load(ctx context.Context, app string) (RegistryOptions, error) {
	opts := defaultOptions()

	path := filepath.Join(filelocation.AppUserConfigDir(ctx, app), "registry.yaml")
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &opts); err != nil {
			return opts, err
		}
		dlog.Debugf(ctx, "regopts: loaded %s", path)
	} else if !os.IsNotExist(err) {
		dlog.Warnf(ctx, "regopts: could not read %s: %v", path, err)
	}

	if err := envconfig.Process(ctx, &opts); err != nil {
		return opts, err
	}
	return opts, nil
}
