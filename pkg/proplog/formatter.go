// Package proplog is the structured-logging surface the registry, sources,
// and schedulers log through: a logrus formatter invoked via dlib/dlog's
// context-scoped logger, so every component logs with the goroutine name
// dgroup assigned it (THREAD) and no component needs a *logrus.Logger of its
// own.
package proplog

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// Formatter renders log entries as "<time> <goroutine> <message> k=v ...".
type Formatter struct {
	timestampFormat string
}

func NewFormatter(timestampFormat string) *Formatter {
	return &Formatter{timestampFormat: timestampFormat}
}

// Format implements logrus.Formatter
func (f *Formatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b *bytes.Buffer
	if entry.Buffer != nil {
		b = entry.Buffer
	} else {
		b = &bytes.Buffer{}
	}
	b.WriteString(entry.Time.Format(f.timestampFormat))
	b.WriteByte(' ')

	var keys []string
	if len(entry.Data) > 0 {
		keys = make([]string, 0, len(entry.Data))
		for k, v := range entry.Data {
			if k == "THREAD" {
				tn := v.(string)
				tn = strings.TrimPrefix(tn, "/")
				b.WriteString(tn)
				b.WriteByte(' ')
			} else {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
	}

	b.WriteString(entry.Message)
	for _, k := range keys {
		v := entry.Data[k]
		fmt.Fprintf(b, " %s=%+v", k, v)
	}
	b.WriteByte('\n')
	return b.Bytes(), nil
}
