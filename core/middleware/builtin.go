package middleware

import (
	stdhttp "net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/searchktools/fast-dispatch/core/http"
)

// RequestIDHeader is the header RequestID fills in
const RequestIDHeader = "X-Request-Id"

// RequestID assigns a sequential id to requests that arrive without one
func RequestID() HandlerFunc {
	var counter atomic.Uint64
	prefix := strconv.FormatInt(time.Now().Unix(), 36) + "-"

	return func(ctx *http.RequestContext) error {
		if ctx.Header(RequestIDHeader) != "" {
			return nil
		}
		if ctx.Headers == nil {
			ctx.Headers = make(stdhttp.Header)
		}
		id := counter.Add(1)
		ctx.Headers.Set(RequestIDHeader, prefix+strconv.FormatUint(id, 10))
		return nil
	}
}

// Logger logs the method and path of every request
func Logger(logf func(format string, v ...any)) HandlerFunc {
	return func(ctx *http.RequestContext) error {
		logf("[%s] %s", ctx.Method, ctx.Path)
		return nil
	}
}
