package http

import (
	"context"
	"fmt"
	"io"
	stdhttp "net/http"
	"net/url"
	"strings"
)

// HandlerFunc handles a matched request. A nil *Result is an empty result.
type HandlerFunc func(ctx *RequestContext) (*Result, error)

// RequestContext is the per-request record threaded through the pipeline.
// It is owned by a single request and never shared.
type RequestContext struct {
	Path    string
	Query   url.Values
	Method  string
	Headers stdhttp.Header

	// Groups holds path parameters. It is nil until a route matches and is
	// only set on the copy passed to the handler.
	Groups map[string]string

	// Body is the raw request stream. The body parser consumes it.
	Body io.ReadCloser

	payload    any
	hasPayload bool
	ctx        context.Context
}

// NewRequestContext normalizes a raw request. Path keeps the percent-encoding
// sent on the wire, so "%2F" never splits a segment and path parameters hold
// the segment exactly as received.
func NewRequestContext(r *stdhttp.Request) (*RequestContext, error) {
	if r.URL == nil {
		return nil, fmt.Errorf("request has no URL")
	}

	query, err := url.ParseQuery(r.URL.RawQuery)
	if err != nil {
		return nil, fmt.Errorf("parse query %q: %w", r.URL.RawQuery, err)
	}

	headers := r.Header.Clone()
	if headers == nil {
		headers = make(stdhttp.Header)
	}
	if r.Host != "" && headers.Get("Host") == "" {
		headers.Set("Host", r.Host)
	}

	return &RequestContext{
		Path:    NormalizePath(r.URL.EscapedPath()),
		Query:   query,
		Method:  r.Method,
		Headers: headers,
		Body:    r.Body,
		ctx:     r.Context(),
	}, nil
}

// NormalizePath makes p begin with "/".
func NormalizePath(p string) string {
	if !strings.HasPrefix(p, "/") {
		return "/" + p
	}
	return p
}

// Header returns the first value of a request header, case-insensitively.
func (c *RequestContext) Header(name string) string {
	return c.Headers.Get(name)
}

// Param returns a path parameter, or "" when unset.
func (c *RequestContext) Param(name string) string {
	return c.Groups[name]
}

// Payload returns the parsed request body, or nil when unset.
func (c *RequestContext) Payload() any {
	return c.payload
}

// HasPayload reports whether a payload has been set. A set payload may be nil
// (the JSON literal null).
func (c *RequestContext) HasPayload() bool {
	return c.hasPayload
}

// SetPayload replaces the payload and marks it as set.
func (c *RequestContext) SetPayload(v any) {
	c.payload = v
	c.hasPayload = true
}

// Context returns the request's context. It is never nil.
func (c *RequestContext) Context() context.Context {
	if c.ctx == nil {
		return context.Background()
	}
	return c.ctx
}

// WithGroups returns a shallow copy of c carrying groups.
func (c *RequestContext) WithGroups(groups map[string]string) *RequestContext {
	cp := *c
	cp.Groups = groups
	return &cp
}
