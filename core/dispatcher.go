package core

import (
	"log"
	stdhttp "net/http"
	"os"
	"time"

	"github.com/searchktools/fast-dispatch/core/http"
	"github.com/searchktools/fast-dispatch/core/middleware"
	"github.com/searchktools/fast-dispatch/core/observability"
	"github.com/searchktools/fast-dispatch/core/pools"
	"github.com/searchktools/fast-dispatch/core/router"
)

// Logger is a Printf-style logging function
type Logger func(format string, v ...any)

// DefaultLogger writes to standard output
func DefaultLogger() Logger {
	return log.New(os.Stdout, "", log.LstdFlags).Printf
}

// RouteSpec describes a route registration
type RouteSpec struct {
	Path    string
	Method  string
	Handler http.HandlerFunc
}

// Option configures a Dispatcher
type Option func(*Dispatcher)

// WithLogger sets the logger. A nil logger keeps the default.
func WithLogger(logger Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithMonitor records per-route metrics into pm
func WithMonitor(pm *observability.PerformanceMonitor) Option {
	return func(d *Dispatcher) {
		d.monitor = pm
	}
}

// WithBufferPool sets the pool the body parser reads into
func WithBufferPool(bp *pools.BufferPool) Option {
	return func(d *Dispatcher) {
		d.buffers = bp
	}
}

// Dispatcher runs each request through the middleware chain, matches it
// against the registered routes and writes the handler's result.
// It implements http.Handler.
type Dispatcher struct {
	router   *router.Router
	pipeline *middleware.Pipeline
	logger   Logger
	monitor  *observability.PerformanceMonitor
	buffers  *pools.BufferPool
}

// NewDispatcher creates a dispatcher whose chain starts with the body parser
func NewDispatcher(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		router: router.NewRouter(),
		logger: DefaultLogger(),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.buffers == nil {
		d.buffers = pools.NewBufferPool()
	}
	d.pipeline = middleware.NewPipeline(middleware.BodyParser(d.buffers))
	return d
}

// Logger returns the configured logger
func (d *Dispatcher) Logger() Logger {
	return d.logger
}

// Monitor returns the metrics monitor, or nil
func (d *Dispatcher) Monitor() *observability.PerformanceMonitor {
	return d.monitor
}

// Use appends a middleware after the ones already registered
func (d *Dispatcher) Use(mw middleware.HandlerFunc) *Dispatcher {
	d.pipeline.Use(mw)
	return d
}

// Route registers a route. It panics on an invalid path template.
func (d *Dispatcher) Route(rs RouteSpec) *Dispatcher {
	if rs.Handler == nil {
		panic("dispatch: nil handler for " + rs.Method + " " + rs.Path)
	}
	if _, err := d.router.Add(rs.Method, rs.Path, rs.Handler); err != nil {
		panic("dispatch: " + err.Error())
	}
	return d
}

// Handle registers handler for method and path
func (d *Dispatcher) Handle(method, path string, handler http.HandlerFunc) *Dispatcher {
	return d.Route(RouteSpec{Path: path, Method: method, Handler: handler})
}

// GET registers a GET route
func (d *Dispatcher) GET(path string, handler http.HandlerFunc) *Dispatcher {
	return d.Handle(stdhttp.MethodGet, path, handler)
}

// POST registers a POST route
func (d *Dispatcher) POST(path string, handler http.HandlerFunc) *Dispatcher {
	return d.Handle(stdhttp.MethodPost, path, handler)
}

// PUT registers a PUT route
func (d *Dispatcher) PUT(path string, handler http.HandlerFunc) *Dispatcher {
	return d.Handle(stdhttp.MethodPut, path, handler)
}

// PATCH registers a PATCH route
func (d *Dispatcher) PATCH(path string, handler http.HandlerFunc) *Dispatcher {
	return d.Handle(stdhttp.MethodPatch, path, handler)
}

// DELETE registers a DELETE route
func (d *Dispatcher) DELETE(path string, handler http.HandlerFunc) *Dispatcher {
	return d.Handle(stdhttp.MethodDelete, path, handler)
}

// HEAD registers a HEAD route
func (d *Dispatcher) HEAD(path string, handler http.HandlerFunc) *Dispatcher {
	return d.Handle(stdhttp.MethodHead, path, handler)
}

// OPTIONS registers an OPTIONS route
func (d *Dispatcher) OPTIONS(path string, handler http.HandlerFunc) *Dispatcher {
	return d.Handle(stdhttp.MethodOptions, path, handler)
}

// Remove unregisters the newest route with this method and path template
func (d *Dispatcher) Remove(method, path string) bool {
	return d.router.Remove(method, path)
}

// Dispatch runs the middleware chain and the matching handler for ctx.
// Unmatched requests get the not-found result.
func (d *Dispatcher) Dispatch(ctx *http.RequestContext) (*http.Result, error) {
	_, res, err := d.dispatch(ctx)
	return res, err
}

func (d *Dispatcher) dispatch(ctx *http.RequestContext) (*router.Route, *http.Result, error) {
	if err := d.pipeline.Execute(ctx); err != nil {
		return nil, nil, err
	}

	route, groups := d.router.Find(ctx.Method, ctx.Path)
	if route == nil {
		return nil, http.NotFound(), nil
	}

	var res *http.Result
	err := middleware.Guard(func() (err error) {
		res, err = route.Handler(ctx.WithGroups(groups))
		return err
	})
	return route, res, err
}

// ServeHTTP handles one request from the listener. Any pipeline error is
// answered with 500 and the error message.
func (d *Dispatcher) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	start := time.Now()
	label := UnmatchedRoute

	resp, err := d.serve(r, &label)
	if err != nil {
		d.logger("%s %s: %v", r.Method, r.URL.Path, err)
		http.WriteError(w, err)
	} else if werr := resp.Send(w); werr != nil {
		d.logger("%s %s: write response: %v", r.Method, r.URL.Path, werr)
	}

	if d.monitor != nil {
		d.monitor.RecordRequest(label, time.Since(start), err != nil)
	}
}

func (d *Dispatcher) serve(r *stdhttp.Request, label *string) (*http.Response, error) {
	ctx, err := http.NewRequestContext(r)
	if err != nil {
		return nil, err
	}

	route, res, err := d.dispatch(ctx)
	if route != nil {
		*label = route.Label()
	}
	if err != nil {
		return nil, err
	}

	return http.Serialize(res)
}
