package proplog

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/datawire/dlib/dlog"
)

// NewContext returns a context carrying a logrus-backed dlog.Logger, formatted
// with Formatter and filtered to level. Registries and schedulers derive their
// internal contexts from the one returned here (or from whatever context the
// embedding application already has a logger attached to).
func NewContext(ctx context.Context, level logrus.Level) context.Context {
	lr := logrus.New()
	lr.SetOutput(os.Stderr)
	lr.SetFormatter(NewFormatter("2006-01-02 15:04:05.0000"))
	lr.SetLevel(level)
	return dlog.WithLogger(ctx, dlog.WrapLogrus(lr))
}

// ParseLevel maps the case-insensitive level names accepted by
// RegistryOptions.LogLevel onto logrus levels, defaulting to Info.
func ParseLevel(name string) logrus.Level {
	lvl, err := logrus.ParseLevel(name)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}
