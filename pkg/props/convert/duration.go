package convert

import (
	"fmt"
	"time"
)

// Duration decodes values accepted by time.ParseDuration ("5s", "2h45m").
type Duration struct{}

func (Duration) Decode(raw string, absent bool) (time.Duration, error) {
	if absent {
		return 0, fmt.Errorf("no value")
	}
	return time.ParseDuration(raw)
}

func (Duration) Encode(v time.Duration) string { return v.String() }
