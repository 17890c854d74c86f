// Package image implements the binary on-flash layout for a saved store:
// a 4-byte little-endian entry count followed by length-prefixed key and
// value records, padded with erased bytes to a word boundary.
//
//	offset 0:  u32 entry_count   (0xFFFFFFFF == no valid image)
//	repeated entry_count times:
//	  u32 key_len
//	  key_len bytes
//	  u32 val_len
//	  val_len bytes
//	-- padded with 0xFF to the next 4-byte boundary --
//
// The image is self-describing: the header count plus the per-record
// lengths delimit the whole image without knowing the erase-region size.
package image

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	// HeaderSize is the size of the entry-count header in bytes
	HeaderSize = 4
	// ErasedHeader is the header value read from erased flash, reserved
	// to mean "no valid image"
	ErasedHeader = uint32(0xFFFFFFFF)
	// DefaultMaxImageSize is the default staging-buffer bound
	DefaultMaxImageSize = 8192

	lengthSize = 4
	wordSize   = 4
)

var (
	// ErrImageTooLarge is returned when the staged image would exceed
	// the staging buffer; nothing is written to flash in that case
	ErrImageTooLarge = errors.New("image: staged image exceeds buffer")
	// ErrTruncated is returned when a length field would read past the
	// staging buffer's bound
	ErrTruncated = errors.New("image: record crosses image bound")
	// ErrNoImage is returned by Parse when the header is the erased
	// sentinel; callers treat it as "no data present", not a failure
	ErrNoImage = errors.New("image: erased header, no image present")
)

// EntryIterator yields key/blob pairs in a fixed order. index.Iterator
// satisfies it.
type EntryIterator interface {
	Valid() bool
	Next()
	Key() []byte
	Blob() []byte
}

// Encode stages an image of count entries drawn from it into dst and
// returns the padded image length. Encoding is all-or-nothing: if any
// record would overflow dst, ErrImageTooLarge is returned and the caller
// must not write dst to flash.
func Encode(dst []byte, count int, it EntryIterator) (int, error) {
	if HeaderSize > len(dst) {
		return 0, ErrImageTooLarge
	}
	if uint32(count) == ErasedHeader {
		return 0, fmt.Errorf("image: entry count %d collides with the erased sentinel", count)
	}
	binary.LittleEndian.PutUint32(dst, uint32(count))
	pos := HeaderSize

	for ; it.Valid(); it.Next() {
		key, blob := it.Key(), it.Blob()
		need := lengthSize + len(key) + lengthSize + len(blob)
		if pos+need > len(dst) {
			return 0, ErrImageTooLarge
		}
		binary.LittleEndian.PutUint32(dst[pos:], uint32(len(key)))
		pos += lengthSize
		pos += copy(dst[pos:], key)
		binary.LittleEndian.PutUint32(dst[pos:], uint32(len(blob)))
		pos += lengthSize
		pos += copy(dst[pos:], blob)
	}

	padded := PadLen(pos)
	if padded > len(dst) {
		return 0, ErrImageTooLarge
	}
	for i := pos; i < padded; i++ {
		dst[i] = 0xFF
	}
	return padded, nil
}

// IsErased reports whether src starts with the erased-flash sentinel.
func IsErased(src []byte) bool {
	return len(src) >= HeaderSize && binary.LittleEndian.Uint32(src) == ErasedHeader
}

// Parse walks the records of the image in src, invoking fn once per entry
// with slices into src. It returns ErrNoImage on the erased sentinel,
// ErrTruncated when a length field points past src, or the first error
// returned by fn.
func Parse(src []byte, fn func(key, blob []byte) error) error {
	if len(src) < HeaderSize {
		return ErrTruncated
	}
	count := binary.LittleEndian.Uint32(src)
	if count == ErasedHeader {
		return ErrNoImage
	}

	pos := HeaderSize
	for i := uint32(0); i < count; i++ {
		key, next, err := record(src, pos)
		if err != nil {
			return err
		}
		blob, after, err := record(src, next)
		if err != nil {
			return err
		}
		if err := fn(key, blob); err != nil {
			return err
		}
		pos = after
	}
	return nil
}

// record reads one length-prefixed field at pos and returns the field and
// the position after it.
func record(src []byte, pos int) ([]byte, int, error) {
	if pos+lengthSize > len(src) {
		return nil, 0, ErrTruncated
	}
	length := binary.LittleEndian.Uint32(src[pos:])
	pos += lengthSize
	if uint64(length) > uint64(len(src)-pos) {
		return nil, 0, ErrTruncated
	}
	return src[pos : pos+int(length)], pos + int(length), nil
}

// PadLen rounds n up to the next word boundary.
func PadLen(n int) int {
	return (n + wordSize - 1) &^ (wordSize - 1)
}

// EraseSpan returns the total size of the erase pages covering n bytes.
func EraseSpan(n, pageSize int) int {
	pages := (n + pageSize - 1) / pageSize
	return pages * pageSize
}
