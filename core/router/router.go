package router

import (
	"strings"
	"sync"

	"github.com/searchktools/fast-dispatch/core/http"
)

// Route is an immutable method + pattern + handler registration
type Route struct {
	Method  string
	Pattern *Pattern
	Handler http.HandlerFunc
}

// Label identifies the route in logs and metrics, e.g. "GET /users/:id".
func (r *Route) Label() string {
	return r.Method + " " + r.Pattern.Template()
}

// Router keeps routes grouped by method. Within a method the most recently
// added route comes first, so it wins when several patterns match a path.
//
// Registration is safe during live traffic: lookups see either the table
// before or after a concurrent Add or Remove.
type Router struct {
	mu     sync.RWMutex
	routes map[string][]*Route
}

// NewRouter creates an empty router
func NewRouter() *Router {
	return &Router{
		routes: make(map[string][]*Route),
	}
}

// Add compiles path and inserts the route at the front of its method's list
func (r *Router) Add(method, path string, handler http.HandlerFunc) (*Route, error) {
	pattern, err := Compile(path)
	if err != nil {
		return nil, err
	}

	route := &Route{
		Method:  strings.ToUpper(method),
		Pattern: pattern,
		Handler: handler,
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing := r.routes[route.Method]
	list := make([]*Route, 0, len(existing)+1)
	list = append(list, route)
	r.routes[route.Method] = append(list, existing...)

	return route, nil
}

// Find returns the first route of method whose pattern matches path, along
// with the extracted parameters. It returns nil when nothing matches.
func (r *Router) Find(method, path string) (*Route, map[string]string) {
	r.mu.RLock()
	list := r.routes[strings.ToUpper(method)]
	r.mu.RUnlock()

	for _, route := range list {
		if params, ok := route.Pattern.Match(path); ok {
			return route, params
		}
	}
	return nil, nil
}

// Remove drops the most recently added route registered with exactly this
// method and template. It reports whether a route was removed.
func (r *Router) Remove(method, path string) bool {
	method = strings.ToUpper(method)
	template := http.NormalizePath(path)

	r.mu.Lock()
	defer r.mu.Unlock()

	existing := r.routes[method]
	for i, route := range existing {
		if route.Pattern.Template() != template {
			continue
		}

		list := make([]*Route, 0, len(existing)-1)
		list = append(list, existing[:i]...)
		list = append(list, existing[i+1:]...)
		if len(list) == 0 {
			delete(r.routes, method)
		} else {
			r.routes[method] = list
		}
		return true
	}
	return false
}

// Routes returns a snapshot of method's routes in match order
func (r *Router) Routes(method string) []*Route {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := r.routes[strings.ToUpper(method)]
	return append([]*Route(nil), list...)
}

// Len returns the number of registered routes across all methods
func (r *Router) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, list := range r.routes {
		n += len(list)
	}
	return n
}
