// Package codec defines the serialization boundary between typed values and
// the raw blobs the index stores. A codec encodes into a caller-supplied
// bounded buffer and decodes a full encoded representation back into a
// value. Codecs are pure: no hidden state, and never a write past the
// buffer's declared length.
package codec

import "errors"

var (
	// ErrBufferTooSmall is returned when the destination buffer cannot
	// hold the encoding
	ErrBufferTooSmall = errors.New("codec: destination buffer too small")
	// ErrMalformed is returned when decode input is truncated or does not
	// parse as an encoding produced by this codec
	ErrMalformed = errors.New("codec: malformed or truncated input")
)

// Codec serializes values of type V. Encode writes the value's encoded form
// into dst and returns the number of bytes used, failing with
// ErrBufferTooSmall when the encoding does not fit. Decode parses a complete
// encoding, failing with an error wrapping ErrMalformed on bad input.
type Codec[V any] interface {
	Encode(dst []byte, v V) (int, error)
	Decode(src []byte) (V, error)
}

// BinaryValue is implemented by types that know their own compact binary
// form: fields written in a fixed order with no self-describing tags.
// DecodeBinary is called on the zero value and returns the parsed value.
type BinaryValue[V any] interface {
	EncodeBinary(dst []byte) (int, error)
	DecodeBinary(src []byte) (V, error)
}

// Binary is the compact schema-driven codec. It delegates the field layout
// to the value type itself, keeping the codec free of reflection.
type Binary[V BinaryValue[V]] struct{}

// Encode writes v's compact binary form into dst.
func (Binary[V]) Encode(dst []byte, v V) (int, error) {
	return v.EncodeBinary(dst)
}

// Decode parses a compact binary encoding.
func (Binary[V]) Decode(src []byte) (V, error) {
	var zero V
	return zero.DecodeBinary(src)
}
