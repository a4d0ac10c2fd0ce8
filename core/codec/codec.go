package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"strings"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

var (
	ErrUnsupportedCodec = errors.New("unsupported codec")
	ErrPayloadType      = errors.New("payload must be a string or []byte")
)

// Codec defines the interface for encoding/decoding payloads of one content kind
type Codec interface {
	// Encode encodes a value to bytes
	Encode(v any) ([]byte, error)

	// Decode decodes bytes to a value
	Decode(data []byte, v any) error

	// Name returns the codec name
	Name() string
}

// Kind is the classification of a Content-Type header value
type Kind byte

const (
	KindJSON Kind = iota + 1
	KindText
	KindProtobuf
	KindBinary
	KindForm
	KindOther
)

// DefaultContentType is assumed when a request or result carries none
const DefaultContentType = "application/json"

var kindNames = map[Kind]string{
	KindJSON:     "json",
	KindText:     "text",
	KindProtobuf: "protobuf",
	KindBinary:   "binary",
	KindForm:     "form",
	KindOther:    "other",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", byte(k))
}

var codecs = map[Kind]Codec{
	KindJSON:     &JSONCodec{},
	KindText:     &TextCodec{},
	KindProtobuf: &ProtobufCodec{},
	KindBinary:   &BinaryCodec{},
	KindForm:     &BinaryCodec{},
	KindOther:    &BinaryCodec{},
}

// GetCodec returns the codec registered for a kind
func GetCodec(kind Kind) (Codec, error) {
	c, ok := codecs[kind]
	if !ok {
		return nil, ErrUnsupportedCodec
	}
	return c, nil
}

// Classify maps a Content-Type value to its kind and media type parameters.
// An empty value is JSON. A value that cannot be parsed is KindOther.
func Classify(contentType string) (Kind, map[string]string) {
	if strings.TrimSpace(contentType) == "" {
		return KindJSON, nil
	}

	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return KindOther, nil
	}

	switch {
	case mediaType == "application/json", strings.HasSuffix(mediaType, "+json"):
		return KindJSON, params
	case strings.HasPrefix(mediaType, "text/"):
		return KindText, params
	case mediaType == "application/x-protobuf",
		mediaType == "application/protobuf",
		mediaType == "application/vnd.google.protobuf":
		return KindProtobuf, params
	case mediaType == "application/octet-stream":
		return KindBinary, params
	case mediaType == "multipart/form-data", mediaType == "application/x-www-form-urlencoded":
		return KindForm, params
	}
	return KindOther, params
}

// JSONCodec implements JSON encoding/decoding.
// proto.Message values are encoded with protojson.
type JSONCodec struct{}

func (c *JSONCodec) Encode(v any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	if msg, ok := v.(proto.Message); ok {
		return protojson.Marshal(msg)
	}
	return json.Marshal(v)
}

func (c *JSONCodec) Decode(data []byte, v any) error {
	if msg, ok := v.(proto.Message); ok {
		return protojson.Unmarshal(data, msg)
	}
	return json.Unmarshal(data, v)
}

func (c *JSONCodec) Name() string {
	return "json"
}
