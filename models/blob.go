package models

import (
	"database/sql/driver"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// hexPrefix marks the textual bytea encoding, e.g. `\x89504e47`.
const hexPrefix = `\x`

// BufferObject is the serialized form of a length-prefixed byte buffer:
// {"type":"Buffer","data":[137,80,78,71]}.
type BufferObject struct {
	Type string `json:"type"`
	Data []int  `json:"data"`
}

func (b BufferObject) bytes() ([]byte, error) {
	if b.Type != "" && b.Type != "Buffer" {
		return nil, fmt.Errorf("unexpected buffer object type %q", b.Type)
	}
	out := make([]byte, len(b.Data))
	for i, v := range b.Data {
		if v < 0 || v > 255 {
			return nil, fmt.Errorf("buffer object byte %d out of range: %d", i, v)
		}
		out[i] = byte(v)
	}
	return out, nil
}

// NormalizeBytes flattens a blob value into a plain byte slice. Drivers hand
// blobs over either as raw bytes, as a buffer object (decoded or as JSON text),
// or as hex-escaped text. Nil and empty inputs yield nil. The result never
// aliases the input.
func NormalizeBytes(value any) ([]byte, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []byte:
		if len(v) == 0 {
			return nil, nil
		}
		out := make([]byte, len(v))
		copy(out, v)
		return out, nil
	case string:
		return decodeText(v)
	case BufferObject:
		return nonEmpty(v.bytes())
	case *BufferObject:
		if v == nil {
			return nil, nil
		}
		return nonEmpty(v.bytes())
	case map[string]any:
		return decodeBufferMap(v)
	default:
		return nil, fmt.Errorf("unsupported blob encoding %T", value)
	}
}

func decodeText(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if strings.HasPrefix(s, "{") {
		var obj BufferObject
		if err := json.Unmarshal([]byte(s), &obj); err != nil {
			return nil, fmt.Errorf("decoding buffer object: %w", err)
		}
		return nonEmpty(obj.bytes())
	}
	s = strings.TrimPrefix(s, hexPrefix)
	out, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decoding hex blob: %w", err)
	}
	return nonEmpty(out, nil)
}

func decodeBufferMap(m map[string]any) ([]byte, error) {
	var obj BufferObject
	if t, ok := m["type"].(string); ok {
		obj.Type = t
	}
	raw, ok := m["data"].([]any)
	if !ok {
		return nil, fmt.Errorf("buffer object has no data array")
	}
	obj.Data = make([]int, len(raw))
	for i, item := range raw {
		switch n := item.(type) {
		case float64:
			obj.Data[i] = int(n)
		case int:
			obj.Data[i] = n
		default:
			return nil, fmt.Errorf("buffer object byte %d has type %T", i, item)
		}
	}
	return nonEmpty(obj.bytes())
}

func nonEmpty(b []byte, err error) ([]byte, error) {
	if err != nil || len(b) == 0 {
		return nil, err
	}
	return b, nil
}

// Blob is a binary column whose scanned value is normalized with
// NormalizeBytes.
type Blob []byte

func (b *Blob) Scan(src any) error {
	out, err := NormalizeBytes(src)
	if err != nil {
		return err
	}
	*b = out
	return nil
}

func (b Blob) Value() (driver.Value, error) {
	if b == nil {
		return nil, nil
	}
	return []byte(b), nil
}

func (Blob) GormDataType() string {
	return "bytes"
}
