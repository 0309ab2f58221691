package convert

import "strings"

// List is the separator-configurable list converter spec.md §6 calls for.
// An absent value decodes to an empty, non-nil slice.
type List struct {
	Separator string
}

// NewList returns a List using sep as the element separator; an empty sep
// defaults to ",".
func NewList(sep string) List {
	if sep == "" {
		sep = ","
	}
	return List{Separator: sep}
}

func (l List) Decode(raw string, absent bool) ([]string, error) {
	if absent || raw == "" {
		return []string{}, nil
	}
	parts := strings.Split(raw, l.Separator)
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = strings.TrimSpace(p)
	}
	return out, nil
}

func (l List) Encode(v []string) string { return strings.Join(v, l.Separator) }
