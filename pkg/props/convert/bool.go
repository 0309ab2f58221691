package convert

import (
	"fmt"
	"strconv"
)

// Bool decodes Go's usual boolean spellings (strconv.ParseBool: 1/0,
// t/f, T/F, true/false, TRUE/FALSE, True/False).
type Bool struct{}

func (Bool) Decode(raw string, absent bool) (bool, error) {
	if absent {
		return false, fmt.Errorf("no value")
	}
	return strconv.ParseBool(raw)
}

func (Bool) Encode(v bool) string { return strconv.FormatBool(v) }
