package codec

import (
	"fmt"

	"github.com/klauspost/compress/snappy"
)

// DefaultMaxPlainSize bounds the uncompressed form a Snappy codec will
// stage while encoding or decoding.
const DefaultMaxPlainSize = 8192

// Snappy wraps an inner codec and snappy-compresses its output. Useful for
// large values (sensor logs, tables) where the blob bound would otherwise
// be the limiting factor. The wrapped encoding is still bounded: the
// compressed form must fit the caller's buffer, and the plain form must fit
// MaxPlainSize.
type Snappy[V any] struct {
	inner    Codec[V]
	maxPlain int
}

// NewSnappy wraps inner with snappy compression using DefaultMaxPlainSize.
func NewSnappy[V any](inner Codec[V]) Snappy[V] {
	return Snappy[V]{inner: inner, maxPlain: DefaultMaxPlainSize}
}

// NewSnappySize wraps inner with an explicit bound on the plain encoding.
func NewSnappySize[V any](inner Codec[V], maxPlain int) Snappy[V] {
	if maxPlain <= 0 {
		maxPlain = DefaultMaxPlainSize
	}
	return Snappy[V]{inner: inner, maxPlain: maxPlain}
}

// Encode runs the inner codec into a plain staging buffer, compresses the
// result, and copies the compressed frame into dst.
func (c Snappy[V]) Encode(dst []byte, v V) (int, error) {
	plain := make([]byte, c.maxPlain)
	n, err := c.inner.Encode(plain, v)
	if err != nil {
		return 0, err
	}
	packed := snappy.Encode(nil, plain[:n])
	if len(packed) > len(dst) {
		return 0, ErrBufferTooSmall
	}
	return copy(dst, packed), nil
}

// Decode decompresses src and hands the plain bytes to the inner codec.
func (c Snappy[V]) Decode(src []byte) (V, error) {
	var zero V
	plainLen, err := snappy.DecodedLen(src)
	if err != nil {
		return zero, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if plainLen > c.maxPlain {
		return zero, fmt.Errorf("%w: decoded length %d exceeds bound %d", ErrMalformed, plainLen, c.maxPlain)
	}
	plain, err := snappy.Decode(nil, src)
	if err != nil {
		return zero, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return c.inner.Decode(plain)
}
