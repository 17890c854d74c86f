package codec

import (
	"encoding/json"
	"fmt"
)

// JSON is the self-describing text codec. Encodings are field-named and
// human-readable; larger than the compact binary form but debuggable with
// nothing more than a hex dump.
type JSON[V any] struct{}

// Encode writes v's JSON form into dst.
func (JSON[V]) Encode(dst []byte, v V) (int, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return 0, fmt.Errorf("codec: marshal json: %w", err)
	}
	if len(data) > len(dst) {
		return 0, ErrBufferTooSmall
	}
	return copy(dst, data), nil
}

// Decode parses a JSON encoding.
func (JSON[V]) Decode(src []byte) (V, error) {
	var v V
	if err := json.Unmarshal(src, &v); err != nil {
		var zero V
		return zero, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return v, nil
}
