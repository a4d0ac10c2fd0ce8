package router

import (
	"errors"
	"fmt"
	"strings"

	"github.com/searchktools/fast-dispatch/core/http"
)

var (
	ErrUnnamedParam   = errors.New("wildcards must be named")
	ErrDuplicateParam = errors.New("duplicate parameter name")
)

// Pattern is a compiled path template made of literal and :param segments.
// Matching is exact over the whole path.
type Pattern struct {
	template string
	segments []segment
	params   []string
}

type segment struct {
	literal string
	param   string // non-empty for :param segments
}

// Compile parses a template such as "/users/:id/posts". A missing leading
// "/" is added.
func Compile(template string) (*Pattern, error) {
	template = http.NormalizePath(template)

	parts := strings.Split(template[1:], "/")
	p := &Pattern{
		template: template,
		segments: make([]segment, 0, len(parts)),
	}

	seen := make(map[string]bool)
	for _, part := range parts {
		if !strings.HasPrefix(part, ":") {
			p.segments = append(p.segments, segment{literal: part})
			continue
		}

		name := part[1:]
		if name == "" {
			return nil, fmt.Errorf("%w: %q", ErrUnnamedParam, template)
		}
		if seen[name] {
			return nil, fmt.Errorf("%w %q in %q", ErrDuplicateParam, name, template)
		}
		seen[name] = true

		p.segments = append(p.segments, segment{param: name})
		p.params = append(p.params, name)
	}

	return p, nil
}

// MustCompile is like Compile but panics on an invalid template.
func MustCompile(template string) *Pattern {
	p, err := Compile(template)
	if err != nil {
		panic(err)
	}
	return p
}

// Template returns the normalized template.
func (p *Pattern) Template() string {
	return p.template
}

// Params returns the parameter names in template order.
func (p *Pattern) Params() []string {
	return p.params
}

// Match tests path against the pattern. On success it returns the value of
// every parameter; the map is empty, not nil, for literal-only templates.
func (p *Pattern) Match(path string) (map[string]string, bool) {
	path = http.NormalizePath(path)

	rest := path[1:]
	params := make(map[string]string, len(p.params))

	for i, seg := range p.segments {
		var part string
		if i == len(p.segments)-1 {
			// Last segment must consume the rest of the path
			if strings.IndexByte(rest, '/') >= 0 {
				return nil, false
			}
			part = rest
		} else {
			end := strings.IndexByte(rest, '/')
			if end < 0 {
				return nil, false
			}
			part, rest = rest[:end], rest[end+1:]
		}

		if seg.param == "" {
			if part != seg.literal {
				return nil, false
			}
			continue
		}

		if part == "" {
			return nil, false
		}
		params[seg.param] = part
	}

	return params, true
}

func (p *Pattern) String() string {
	return p.template
}
