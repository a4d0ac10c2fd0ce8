package http

import (
	"fmt"
	stdhttp "net/http"

	"github.com/searchktools/fast-dispatch/core/codec"
)

// Response is a fully encoded Result, ready to be written.
type Response struct {
	StatusCode int
	Header     stdhttp.Header
	Body       []byte
}

// Serialize encodes res. Nothing is written, so an encoding failure can still
// be answered with an error response.
func Serialize(res *Result) (*Response, error) {
	status := res.Status()
	if status < 100 || status > 999 {
		return nil, fmt.Errorf("invalid status code %d", status)
	}
	contentType := res.Type()

	kind, _ := codec.Classify(contentType)
	c, err := codec.GetCodec(kind)
	if err != nil {
		return nil, err
	}

	var payload any
	if res != nil {
		payload = res.Payload
	}
	body, err := c.Encode(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", c.Name(), err)
	}

	header := make(stdhttp.Header)
	header.Set("Content-Type", contentType)

	if res != nil && res.Headers != nil {
		// The first line for a name replaces what is there, later lines append.
		seen := make(map[string]bool)
		for _, f := range res.Headers.Fields() {
			key := stdhttp.CanonicalHeaderKey(f.Name)
			if seen[key] {
				header.Add(key, f.Value)
				continue
			}
			seen[key] = true
			header.Set(key, f.Value)
		}
	}

	return &Response{
		StatusCode: status,
		Header:     header,
		Body:       body,
	}, nil
}

// Send writes the response. It is the single terminal write for a request.
func (r *Response) Send(w stdhttp.ResponseWriter) error {
	dst := w.Header()
	for name, values := range r.Header {
		dst[name] = values
	}
	w.WriteHeader(r.StatusCode)
	if len(r.Body) == 0 {
		return nil
	}
	_, err := w.Write(r.Body)
	return err
}

// WriteResult serializes res and writes it.
func WriteResult(w stdhttp.ResponseWriter, res *Result) error {
	resp, err := Serialize(res)
	if err != nil {
		return err
	}
	return resp.Send(w)
}

// WriteError answers with status 500 and the error message as the body.
func WriteError(w stdhttp.ResponseWriter, err error) {
	resp := &Response{
		StatusCode: stdhttp.StatusInternalServerError,
		Header:     stdhttp.Header{"Content-Type": {"text/plain; charset=utf-8"}},
		Body:       []byte(err.Error()),
	}
	resp.Send(w)
}
