package codec

import "fmt"

// TextCodec passes text through unchanged
type TextCodec struct{}

func (c *TextCodec) Encode(v any) ([]byte, error) {
	return verbatim(v)
}

func (c *TextCodec) Decode(data []byte, v any) error {
	switch dst := v.(type) {
	case *string:
		*dst = string(data)
	case *any:
		*dst = string(data)
	default:
		return fmt.Errorf("text codec cannot decode into %T", v)
	}
	return nil
}

func (c *TextCodec) Name() string {
	return "text"
}

// BinaryCodec passes bytes through unchanged. Decoded bytes are copied.
type BinaryCodec struct{}

func (c *BinaryCodec) Encode(v any) ([]byte, error) {
	return verbatim(v)
}

func (c *BinaryCodec) Decode(data []byte, v any) error {
	switch dst := v.(type) {
	case *[]byte:
		*dst = append([]byte(nil), data...)
	case *any:
		*dst = append([]byte(nil), data...)
	default:
		return fmt.Errorf("binary codec cannot decode into %T", v)
	}
	return nil
}

func (c *BinaryCodec) Name() string {
	return "binary"
}

func verbatim(v any) ([]byte, error) {
	switch p := v.(type) {
	case nil:
		return nil, nil
	case string:
		return []byte(p), nil
	case []byte:
		return p, nil
	}
	return nil, fmt.Errorf("%w, got %T", ErrPayloadType, v)
}
