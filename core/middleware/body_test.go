package middleware

import (
	"errors"
	"io"
	stdhttp "net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/searchktools/fast-dispatch/core/http"
	"github.com/searchktools/fast-dispatch/core/pools"
)

func newContext(t *testing.T, contentType string, body io.Reader) *http.RequestContext {
	t.Helper()
	req := httptest.NewRequest(stdhttp.MethodPost, "/echo", body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	ctx, err := http.NewRequestContext(req)
	if err != nil {
		t.Fatalf("NewRequestContext error: %v", err)
	}
	return ctx
}

func TestBodyParserJSON(t *testing.T) {
	ctx := newContext(t, "application/json", strings.NewReader(`{"hello":"world","n":[1,2]}`))

	if err := BodyParser(nil)(ctx); err != nil {
		t.Fatalf("BodyParser error: %v", err)
	}

	want := map[string]any{"hello": "world", "n": []any{1.0, 2.0}}
	if !reflect.DeepEqual(ctx.Payload(), want) {
		t.Errorf("Expected %v, got %v", want, ctx.Payload())
	}
}

// TestBodyParserDefaultsToJSON tests that a missing Content-Type parses JSON
func TestBodyParserDefaultsToJSON(t *testing.T) {
	ctx := newContext(t, "", strings.NewReader(`[1,"two"]`))

	if err := BodyParser(nil)(ctx); err != nil {
		t.Fatalf("BodyParser error: %v", err)
	}

	if !reflect.DeepEqual(ctx.Payload(), []any{1.0, "two"}) {
		t.Errorf("Expected JSON array, got %#v", ctx.Payload())
	}
}

// TestBodyParserEmptyBody tests that no body leaves the payload unset
func TestBodyParserEmptyBody(t *testing.T) {
	for _, contentType := range []string{"", "application/json", "text/plain"} {
		ctx := newContext(t, contentType, nil)

		if err := BodyParser(nil)(ctx); err != nil {
			t.Fatalf("%q: BodyParser error: %v", contentType, err)
		}
		if ctx.HasPayload() {
			t.Errorf("%q: expected payload to stay unset, got %#v", contentType, ctx.Payload())
		}
	}
}

func TestBodyParserJSONNull(t *testing.T) {
	ctx := newContext(t, "", strings.NewReader(`null`))
	BodyParser(nil)(ctx)

	if !ctx.HasPayload() || ctx.Payload() != nil {
		t.Errorf("Expected a set nil payload, got set=%v value=%v", ctx.HasPayload(), ctx.Payload())
	}
}

func TestBodyParserMalformedJSON(t *testing.T) {
	ctx := newContext(t, "", strings.NewReader(`{"invalid": json}`))

	err := BodyParser(nil)(ctx)
	if err == nil {
		t.Fatal("Expected a parse error")
	}
	if !strings.Contains(err.Error(), "invalid character") {
		t.Errorf("Expected JSON syntax error message, got %q", err.Error())
	}
	if ctx.HasPayload() {
		t.Error("Payload must stay unset on parse failure")
	}
}

func TestBodyParserText(t *testing.T) {
	ctx := newContext(t, "text/plain", strings.NewReader("plain text, not {json}"))

	if err := BodyParser(nil)(ctx); err != nil {
		t.Fatalf("BodyParser error: %v", err)
	}
	if ctx.Payload() != "plain text, not {json}" {
		t.Errorf("Expected verbatim text, got %#v", ctx.Payload())
	}
}

// TestBodyParserSplitMultibyte tests that characters split across reads survive
func TestBodyParserSplitMultibyte(t *testing.T) {
	text := strings.Repeat("日本語テキスト🎉", 300)
	ctx := newContext(t, "text/plain; charset=utf-8", iotest.OneByteReader(strings.NewReader(text)))

	if err := BodyParser(pools.NewBufferPool())(ctx); err != nil {
		t.Fatalf("BodyParser error: %v", err)
	}
	if ctx.Payload() != text {
		t.Error("Multi-byte text was corrupted while accumulating")
	}
}

func TestBodyParserCharset(t *testing.T) {
	// {"name":"José"} in ISO-8859-1
	latin1 := "{\"name\":\"Jos\xe9\"}"
	ctx := newContext(t, "application/json; charset=iso-8859-1", strings.NewReader(latin1))

	if err := BodyParser(nil)(ctx); err != nil {
		t.Fatalf("BodyParser error: %v", err)
	}

	got := ctx.Payload().(map[string]any)["name"]
	if got != "José" {
		t.Errorf("Expected José, got %q", got)
	}
}

func TestBodyParserBinary(t *testing.T) {
	ctx := newContext(t, "application/octet-stream", strings.NewReader("\x00\x01\x02"))
	BodyParser(nil)(ctx)

	if !reflect.DeepEqual(ctx.Payload(), []byte{0, 1, 2}) {
		t.Errorf("Expected raw bytes, got %#v", ctx.Payload())
	}
}

// TestBodyParserBinaryIgnoresCharset tests that binary kinds are never transcoded
func TestBodyParserBinaryIgnoresCharset(t *testing.T) {
	raw := "\x08\xe9\x07\xff"
	for _, contentType := range []string{
		"application/octet-stream; charset=iso-8859-1",
		"application/x-protobuf; charset=latin1",
	} {
		ctx := newContext(t, contentType, strings.NewReader(raw))
		if err := BodyParser(nil)(ctx); err != nil {
			t.Fatalf("%s: BodyParser error: %v", contentType, err)
		}
		if !reflect.DeepEqual(ctx.Payload(), []byte(raw)) {
			t.Errorf("%s: expected bytes % x, got % x", contentType, raw, ctx.Payload())
		}
	}
}

// TestBodyParserFormStub tests that form bodies are left alone
func TestBodyParserFormStub(t *testing.T) {
	ctx := newContext(t, "application/x-www-form-urlencoded", strings.NewReader("a=1&b=2"))

	if err := BodyParser(nil)(ctx); err != nil {
		t.Fatalf("BodyParser error: %v", err)
	}
	if ctx.HasPayload() {
		t.Error("Form bodies should not be parsed")
	}
}

func TestBodyParserReadError(t *testing.T) {
	boom := errors.New("connection reset")
	ctx := newContext(t, "", io.MultiReader(strings.NewReader(`{"a":`), iotest.ErrReader(boom)))

	if err := BodyParser(nil)(ctx); !errors.Is(err, boom) {
		t.Errorf("Expected read error to propagate, got %v", err)
	}
}

// TestBodyParserConsumesOnce tests that the body is drained exactly once
func TestBodyParserConsumesOnce(t *testing.T) {
	ctx := newContext(t, "text/plain", strings.NewReader("once"))
	parser := BodyParser(nil)

	parser(ctx)
	ctx.SetPayload("kept")
	parser(ctx)

	if ctx.Payload() != "kept" {
		t.Errorf("Second run must not re-read the body, payload = %v", ctx.Payload())
	}
}
