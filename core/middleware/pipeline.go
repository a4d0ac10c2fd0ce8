package middleware

import (
	"sync"

	"github.com/searchktools/fast-dispatch/core/http"
)

// HandlerFunc is the signature for middleware. It mutates the request
// context in place; a non-nil error aborts the request.
type HandlerFunc func(ctx *http.RequestContext) error

// Pipeline is an append-only, ordered middleware chain
type Pipeline struct {
	mu       sync.RWMutex
	handlers []HandlerFunc
}

// NewPipeline creates a pipeline holding handlers in order
func NewPipeline(handlers ...HandlerFunc) *Pipeline {
	p := &Pipeline{
		handlers: make([]HandlerFunc, 0, 16),
	}
	for _, h := range handlers {
		p.Use(h)
	}
	return p
}

// Use appends a middleware to the pipeline
func (p *Pipeline) Use(handler HandlerFunc) *Pipeline {
	if handler == nil {
		panic("middleware: nil handler passed to Use")
	}

	p.mu.Lock()
	p.handlers = append(p.handlers, handler)
	p.mu.Unlock()
	return p
}

// Len returns the number of middlewares
func (p *Pipeline) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.handlers)
}

// Execute runs every middleware in order, one after the other. The first
// error (or recovered panic) stops the chain and is returned.
func (p *Pipeline) Execute(ctx *http.RequestContext) error {
	p.mu.RLock()
	handlers := p.handlers
	p.mu.RUnlock()

	for _, h := range handlers {
		if err := Guard(func() error { return h(ctx) }); err != nil {
			return err
		}
	}
	return nil
}
