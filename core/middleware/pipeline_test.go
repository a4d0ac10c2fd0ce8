package middleware

import (
	"errors"
	"testing"

	"github.com/searchktools/fast-dispatch/core/http"
)

// TestPipelineOrder tests middleware execution order
func TestPipelineOrder(t *testing.T) {
	order := []int{}

	pipeline := NewPipeline()
	for i := 1; i <= 3; i++ {
		n := i
		pipeline.Use(func(ctx *http.RequestContext) error {
			order = append(order, n)
			return nil
		})
	}

	if err := pipeline.Execute(&http.RequestContext{}); err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	expected := []int{1, 2, 3}
	if len(order) != len(expected) {
		t.Fatalf("Expected %d executions, got %d", len(expected), len(order))
	}

	for i, v := range expected {
		if order[i] != v {
			t.Errorf("Expected order[%d] = %d, got %d", i, v, order[i])
		}
	}
}

// TestPipelineAbort tests that an error stops the chain
func TestPipelineAbort(t *testing.T) {
	boom := errors.New("boom")
	secondExecuted := false

	pipeline := NewPipeline(
		func(ctx *http.RequestContext) error { return boom },
		func(ctx *http.RequestContext) error {
			secondExecuted = true
			return nil
		},
	)

	if err := pipeline.Execute(&http.RequestContext{}); !errors.Is(err, boom) {
		t.Errorf("Expected boom, got %v", err)
	}

	if secondExecuted {
		t.Error("Middleware 2 should not be executed after an error")
	}
}

// TestPipelineMutation tests that middlewares share the context
func TestPipelineMutation(t *testing.T) {
	pipeline := NewPipeline(
		func(ctx *http.RequestContext) error {
			ctx.SetPayload(1)
			return nil
		},
		func(ctx *http.RequestContext) error {
			ctx.SetPayload(ctx.Payload().(int) + 1)
			return nil
		},
	)

	ctx := &http.RequestContext{}
	pipeline.Execute(ctx)

	if ctx.Payload() != 2 {
		t.Errorf("Expected payload 2, got %v", ctx.Payload())
	}
}

// TestPipelineRecovery tests that panics become errors
func TestPipelineRecovery(t *testing.T) {
	pipeline := NewPipeline(func(ctx *http.RequestContext) error {
		panic("test panic")
	})

	err := pipeline.Execute(&http.RequestContext{})

	var pe *PanicError
	if !errors.As(err, &pe) {
		t.Fatalf("Expected *PanicError, got %v", err)
	}
	if err.Error() != "test panic" {
		t.Errorf("Expected message 'test panic', got %q", err.Error())
	}
	if len(pe.Stack) == 0 {
		t.Error("Expected a stack trace")
	}
}

func TestGuardPanicWithError(t *testing.T) {
	boom := errors.New("boom")
	err := Guard(func() error { panic(boom) })

	if !errors.Is(err, boom) {
		t.Errorf("Expected wrapped boom, got %v", err)
	}
	if err.Error() != "boom" {
		t.Errorf("Expected message boom, got %q", err.Error())
	}
}

func TestUseNilPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Use(nil) should panic")
		}
	}()
	NewPipeline().Use(nil)
}

// TestRequestIDMiddleware tests id assignment
func TestRequestIDMiddleware(t *testing.T) {
	middleware := RequestID()

	first := &http.RequestContext{}
	second := &http.RequestContext{}
	middleware(first)
	middleware(second)

	a, b := first.Header(RequestIDHeader), second.Header(RequestIDHeader)
	if a == "" || b == "" || a == b {
		t.Errorf("Expected distinct request ids, got %q and %q", a, b)
	}

	preset := &http.RequestContext{}
	preset.Headers = map[string][]string{RequestIDHeader: {"client-id"}}
	middleware(preset)
	if preset.Header(RequestIDHeader) != "client-id" {
		t.Error("RequestID must keep an id sent by the client")
	}
}

func TestLoggerMiddleware(t *testing.T) {
	var line string
	middleware := Logger(func(format string, v ...any) {
		line = format
		if len(v) == 2 {
			line = v[0].(string) + " " + v[1].(string)
		}
	})

	middleware(&http.RequestContext{Method: "GET", Path: "/ping"})

	if line != "GET /ping" {
		t.Errorf("Expected 'GET /ping', got %q", line)
	}
}

func BenchmarkPipeline(b *testing.B) {
	noop := func(ctx *http.RequestContext) error { return nil }
	pipeline := NewPipeline(noop, noop, noop)
	ctx := &http.RequestContext{}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pipeline.Execute(ctx)
	}
}
