package props

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/props-sh/props/pkg/errs"
	"github.com/props-sh/props/pkg/props/sources"
)

// SourceFactory builds a Source from the OPTIONS portion of one declaration
// line (spec.md §6).
type SourceFactory func(opts map[string]string) (Source, error)

// defaultFactories are the standard declaration types spec.md §6 names:
// classpath, env, file, system.
func defaultFactories() map[string]SourceFactory {
	return map[string]SourceFactory{
		"env": func(opts map[string]string) (Source, error) {
			id := opts["id"]
			if id == "" {
				id = "env"
			}
			return sources.NewEnv(id), nil
		},
		"system": func(opts map[string]string) (Source, error) {
			id := opts["id"]
			if id == "" {
				id = "system"
			}
			return sources.NewSystem(id), nil
		},
		"file": func(opts map[string]string) (Source, error) {
			path := opts["path"]
			if path == "" {
				return nil, fmt.Errorf("file source requires a path")
			}
			id := opts["id"]
			if id == "" {
				id = path
			}
			return sources.NewFile(id, path, opts["format"]), nil
		},
		"classpath": func(opts map[string]string) (Source, error) {
			resource := opts["resource"]
			if resource == "" {
				return nil, fmt.Errorf("classpath source requires a resource")
			}
			id := opts["id"]
			if id == "" {
				id = resource
			}
			var roots []string
			if r := opts["roots"]; r != "" {
				roots = strings.Split(r, ":")
			}
			return sources.NewClasspath(id, resource, roots...), nil
		},
	}
}

// LoadDeclarations parses a source-declaration file per spec.md §6: one
// TYPE or TYPE=OPTIONS per line, TYPE case-insensitive, blank lines ignored.
// An unknown TYPE, or a recognized TYPE whose OPTIONS a factory rejects, is
// collected and reported as a single InvalidConfig error carrying every
// cause, rather than failing on the first bad line. factories extends or
// overrides the standard classpath/env/file/system types; pass nil to use
// only the standard set.
func LoadDeclarations(r io.Reader, factories map[string]SourceFactory) ([]Source, error) {
	all := defaultFactories()
	for k, f := range factories {
		all[strings.ToLower(k)] = f
	}

	var srcs []Source
	var causes []error

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		typ, optStr := line, ""
		if i := strings.IndexByte(line, '='); i >= 0 {
			typ, optStr = line[:i], line[i+1:]
		}

		factory, ok := all[strings.ToLower(strings.TrimSpace(typ))]
		if !ok {
			causes = append(causes, fmt.Errorf("line %d: unknown source type %q", lineNo, typ))
			continue
		}

		src, err := factory(parseOptions(optStr))
		if err != nil {
			causes = append(causes, fmt.Errorf("line %d: %w", lineNo, err))
			continue
		}
		srcs = append(srcs, src)
	}
	if err := scanner.Err(); err != nil {
		causes = append(causes, err)
	}

	if len(causes) > 0 {
		var me *multierror.Error
		for _, c := range causes {
			me = multierror.Append(me, c)
		}
		return nil, errs.InvalidConfig.Newf("source declaration file: %w", me)
	}
	return srcs, nil
}

// parseOptions splits "k1=v1,k2=v2" OPTIONS into a map. A bare value with no
// "=" (e.g. "file=/etc/app.properties") is stored under "path", "resource",
// and "id" at once, covering each factory's common single-argument form.
func parseOptions(s string) map[string]string {
	opts := map[string]string{}
	if s == "" {
		return opts
	}
	if !strings.Contains(s, "=") {
		opts["path"] = s
		opts["resource"] = s
		opts["id"] = s
		return opts
	}
	for _, kv := range strings.Split(s, ",") {
		if i := strings.IndexByte(kv, '='); i >= 0 {
			opts[strings.TrimSpace(kv[:i])] = strings.TrimSpace(kv[i+1:])
		}
	}
	return opts
}

// NewRegistryFromDeclarations parses a declaration file and builds a
// Registry from the resulting sources in file order (spec.md §4.8, §6).
func NewRegistryFromDeclarations(ctx context.Context, r io.Reader, factories map[string]SourceFactory) (*Registry, error) {
	srcs, err := LoadDeclarations(r, factories)
	if err != nil {
		return nil, err
	}
	return NewRegistry(ctx, srcs...), nil
}
