package middleware

import (
	"fmt"
	"io"
	stdhttp "net/http"
	"strconv"

	"github.com/searchktools/fast-dispatch/core/codec"
	"github.com/searchktools/fast-dispatch/core/http"
	"github.com/searchktools/fast-dispatch/core/pools"
)

// BodyParser reads the request body once and decodes it according to the
// Content-Type header (JSON when absent). An empty body leaves the payload
// unset. Form bodies are not parsed.
func BodyParser(pool *pools.BufferPool) HandlerFunc {
	if pool == nil {
		pool = pools.NewBufferPool()
	}

	return func(ctx *http.RequestContext) error {
		kind, params := codec.Classify(ctx.Header("Content-Type"))
		if kind == codec.KindForm || ctx.Body == nil {
			return nil
		}

		body := ctx.Body
		ctx.Body = stdhttp.NoBody
		defer body.Close()

		// Binary kinds are taken byte for byte
		var r io.Reader = body
		switch kind {
		case codec.KindJSON, codec.KindText, codec.KindOther:
			var err error
			if r, err = codec.NewReader(body, params["charset"]); err != nil {
				return err
			}
		}

		size, _ := strconv.Atoi(ctx.Header("Content-Length"))
		buf, err := pool.ReadAll(r, size)
		if err != nil {
			return fmt.Errorf("read body: %w", err)
		}
		defer pool.Put(buf)

		if len(*buf) == 0 {
			return nil
		}

		payload, err := decode(kind, *buf)
		if err != nil {
			return err
		}
		ctx.SetPayload(payload)
		return nil
	}
}

func decode(kind codec.Kind, data []byte) (any, error) {
	// Anything that is not text or binary is parsed as JSON
	switch kind {
	case codec.KindText, codec.KindProtobuf, codec.KindBinary:
	default:
		kind = codec.KindJSON
	}

	c, err := codec.GetCodec(kind)
	if err != nil {
		return nil, err
	}

	var payload any
	if err := c.Decode(data, &payload); err != nil {
		return nil, fmt.Errorf("invalid %s body: %w", c.Name(), err)
	}
	return payload, nil
}
