package http

import (
	stdhttp "net/http"
	"sort"

	"github.com/searchktools/fast-dispatch/core/codec"
)

// Result describes the response a handler wants written.
type Result struct {
	StatusCode  int
	ContentType string
	Headers     HeaderSource
	Payload     any
}

// NotFound is the result for requests no route matches.
func NotFound() *Result {
	return &Result{
		StatusCode:  stdhttp.StatusNotFound,
		ContentType: codec.DefaultContentType,
	}
}

// Status returns the effective status code.
func (r *Result) Status() int {
	if r == nil || r.StatusCode == 0 {
		return stdhttp.StatusOK
	}
	return r.StatusCode
}

// Type returns the effective content type.
func (r *Result) Type() string {
	if r == nil || r.ContentType == "" {
		return codec.DefaultContentType
	}
	return r.ContentType
}

// HeaderField is a single response header line.
type HeaderField struct {
	Name  string
	Value string
}

// HeaderSource is any of the header shapes a Result may carry.
// Fields flattens it into ordered (name, value) pairs.
type HeaderSource interface {
	Fields() []HeaderField
}

// NamedList keeps header lines in the order given.
type NamedList []HeaderField

// Fields returns the lines unchanged.
func (l NamedList) Fields() []HeaderField {
	return l
}

// SingleValued maps each header name to one value.
type SingleValued map[string]string

// Fields returns one line per name, sorted by name.
func (m SingleValued) Fields() []HeaderField {
	fields := make([]HeaderField, 0, len(m))
	for _, name := range sortedKeys(m) {
		fields = append(fields, HeaderField{Name: name, Value: m[name]})
	}
	return fields
}

// MultiValued maps each header name to an ordered list of values.
type MultiValued map[string][]string

// Fields returns every value, names sorted and values in order.
func (m MultiValued) Fields() []HeaderField {
	var fields []HeaderField
	for _, name := range sortedKeys(m) {
		for _, v := range m[name] {
			fields = append(fields, HeaderField{Name: name, Value: v})
		}
	}
	return fields
}

// HeaderSet adapts an already-built http.Header.
type HeaderSet stdhttp.Header

// Fields returns every value, names sorted and values in order.
func (h HeaderSet) Fields() []HeaderField {
	return MultiValued(h).Fields()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
