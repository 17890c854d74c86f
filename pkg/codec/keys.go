package codec

import "encoding/binary"

// Key codecs: deterministic, compact byte serializations for the types
// commonly used as keys. The store uses these to produce the raw key bytes
// held by the index and written to the on-flash image.

// Uint32 encodes a uint32 as 4 little-endian bytes.
type Uint32 struct{}

func (Uint32) Encode(dst []byte, v uint32) (int, error) {
	if len(dst) < 4 {
		return 0, ErrBufferTooSmall
	}
	binary.LittleEndian.PutUint32(dst, v)
	return 4, nil
}

func (Uint32) Decode(src []byte) (uint32, error) {
	if len(src) < 4 {
		return 0, ErrMalformed
	}
	return binary.LittleEndian.Uint32(src), nil
}

// String encodes a string as a uvarint length followed by its bytes.
type String struct{}

func (String) Encode(dst []byte, v string) (int, error) {
	var hdr [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(hdr[:], uint64(len(v)))
	if n+len(v) > len(dst) {
		return 0, ErrBufferTooSmall
	}
	copy(dst, hdr[:n])
	copy(dst[n:], v)
	return n + len(v), nil
}

func (String) Decode(src []byte) (string, error) {
	length, n := binary.Uvarint(src)
	if n <= 0 || length > uint64(len(src)-n) {
		return "", ErrMalformed
	}
	return string(src[n : n+int(length)]), nil
}

// Bytes encodes a byte slice as a uvarint length followed by its bytes.
type Bytes struct{}

func (Bytes) Encode(dst []byte, v []byte) (int, error) {
	var hdr [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(hdr[:], uint64(len(v)))
	if n+len(v) > len(dst) {
		return 0, ErrBufferTooSmall
	}
	copy(dst, hdr[:n])
	copy(dst[n:], v)
	return n + len(v), nil
}

func (Bytes) Decode(src []byte) ([]byte, error) {
	length, n := binary.Uvarint(src)
	if n <= 0 || length > uint64(len(src)-n) {
		return nil, ErrMalformed
	}
	return append([]byte(nil), src[n:n+int(length)]...), nil
}
