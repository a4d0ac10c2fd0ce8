package codec

import (
	"fmt"

	"google.golang.org/protobuf/proto"
)

// ProtobufCodec implements Protocol Buffers encoding/decoding.
// Raw string or []byte payloads are passed through as already-encoded messages.
type ProtobufCodec struct{}

func (c *ProtobufCodec) Encode(v any) ([]byte, error) {
	if msg, ok := v.(proto.Message); ok {
		return proto.Marshal(msg)
	}
	data, err := verbatim(v)
	if err != nil {
		return nil, fmt.Errorf("value must implement proto.Message interface, got %T", v)
	}
	return data, nil
}

// Decode unmarshals into a proto.Message. Decoding into *any keeps the raw
// bytes, since the message type is only known to the handler.
func (c *ProtobufCodec) Decode(data []byte, v any) error {
	switch dst := v.(type) {
	case proto.Message:
		return proto.Unmarshal(data, dst)
	case *any:
		*dst = append([]byte(nil), data...)
		return nil
	}
	return fmt.Errorf("value must implement proto.Message interface, got %T", v)
}

func (c *ProtobufCodec) Name() string {
	return "protobuf"
}
