/*
Package fastdispatch is a small HTTP request-dispatch library.

Every request goes through the same pipeline:

 1. The request is normalized into an http.RequestContext (path, query, method, headers).
 2. The middleware chain runs in registration order. The built-in body parser is
    always first and decodes the body into the context's payload according to
    Content-Type (JSON when absent).
 3. The router picks the most recently registered route whose pattern matches
    the path. Patterns are literal segments and :name parameters.
 4. The handler's http.Result is serialized: status defaults to 200 and the
    content type to application/json.

Any error along the way is answered with status 500 and the error message.
Unmatched requests get an empty 404.

Quick Start

	package main

	import (
	    "github.com/searchktools/fast-dispatch/app"
	    "github.com/searchktools/fast-dispatch/config"
	    "github.com/searchktools/fast-dispatch/core/http"
	)

	func main() {
	    application := app.New(config.New())

	    application.Dispatcher().POST("/echo/:id", func(ctx *http.RequestContext) (*http.Result, error) {
	        return &http.Result{
	            StatusCode:  201,
	            ContentType: "text/plain",
	            Payload:     ctx.Param("id"),
	        }, nil
	    })

	    application.Run()
	}

Modules

  - app: process lifecycle (start, signal, graceful stop)
  - config: configuration from defaults, flags, JSON files and environment
  - core: Dispatcher and Server
  - core/http: request context, results and response serialization
  - core/router: path patterns and the route table
  - core/middleware: middleware pipeline and body parser
  - core/codec: content-type classification and payload codecs
  - core/pools: body buffer pool
  - core/observability: per-route metrics
*/
package fastdispatch
