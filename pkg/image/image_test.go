package image

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

// sliceIter adapts a list of key/blob pairs to EntryIterator for tests.
type sliceIter struct {
	keys  [][]byte
	blobs [][]byte
	pos   int
}

func (s *sliceIter) Valid() bool  { return s.pos < len(s.keys) }
func (s *sliceIter) Next()        { s.pos++ }
func (s *sliceIter) Key() []byte  { return s.keys[s.pos] }
func (s *sliceIter) Blob() []byte { return s.blobs[s.pos] }

func pairs(kv ...string) *sliceIter {
	it := &sliceIter{}
	for i := 0; i+1 < len(kv); i += 2 {
		it.keys = append(it.keys, []byte(kv[i]))
		it.blobs = append(it.blobs, []byte(kv[i+1]))
	}
	return it
}

func TestEncodeParseRoundTrip(t *testing.T) {
	dst := make([]byte, 256)
	n, err := Encode(dst, 2, pairs("alpha", "one", "bravo", "two"))
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if n%4 != 0 {
		t.Errorf("image length %d not word aligned", n)
	}

	var gotKeys, gotBlobs []string
	err = Parse(dst[:n], func(key, blob []byte) error {
		gotKeys = append(gotKeys, string(key))
		gotBlobs = append(gotBlobs, string(blob))
		return nil
	})
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(gotKeys) != 2 || gotKeys[0] != "alpha" || gotKeys[1] != "bravo" {
		t.Errorf("unexpected keys: %v", gotKeys)
	}
	if gotBlobs[0] != "one" || gotBlobs[1] != "two" {
		t.Errorf("unexpected blobs: %v", gotBlobs)
	}
}

func TestEncodePadsWithErasedBytes(t *testing.T) {
	dst := make([]byte, 64)
	// header(4) + 4+1 + 4+2 = 15 bytes, padded to 16
	n, err := Encode(dst, 1, pairs("k", "vv"))
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if n != 16 {
		t.Fatalf("expected padded length 16, got %d", n)
	}
	if dst[15] != 0xFF {
		t.Errorf("pad byte not erased: %#x", dst[15])
	}
}

func TestEncodeEmptyStore(t *testing.T) {
	dst := make([]byte, 16)
	n, err := Encode(dst, 0, pairs())
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if n != HeaderSize {
		t.Errorf("expected header-only image of %d bytes, got %d", HeaderSize, n)
	}
	if binary.LittleEndian.Uint32(dst) != 0 {
		t.Errorf("expected zero entry count")
	}

	// A valid-but-empty image is distinct from the erased sentinel
	count := 0
	if err := Parse(dst[:n], func(_, _ []byte) error { count++; return nil }); err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected no records, got %d", count)
	}
}

func TestEncodeImageTooLarge(t *testing.T) {
	dst := make([]byte, 16)
	_, err := Encode(dst, 1, pairs("key", "a blob that cannot possibly fit here"))
	if !errors.Is(err, ErrImageTooLarge) {
		t.Fatalf("expected ErrImageTooLarge, got %v", err)
	}
}

func TestParseErasedSentinel(t *testing.T) {
	src := bytes.Repeat([]byte{0xFF}, 32)
	if !IsErased(src) {
		t.Errorf("expected IsErased on all-ones buffer")
	}
	err := Parse(src, func(_, _ []byte) error {
		t.Fatalf("callback must not run for an erased image")
		return nil
	})
	if !errors.Is(err, ErrNoImage) {
		t.Fatalf("expected ErrNoImage, got %v", err)
	}
}

func TestParseTruncatedLengthField(t *testing.T) {
	// Header claims one entry but the buffer ends before the key length
	src := make([]byte, 6)
	binary.LittleEndian.PutUint32(src, 1)
	if err := Parse(src, func(_, _ []byte) error { return nil }); !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
}

func TestParseLengthPastBound(t *testing.T) {
	// key_len far larger than the remaining buffer
	src := make([]byte, 12)
	binary.LittleEndian.PutUint32(src[0:], 1)
	binary.LittleEndian.PutUint32(src[4:], 0xFFFF)
	if err := Parse(src, func(_, _ []byte) error { return nil }); !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
}

func TestParseCallbackError(t *testing.T) {
	dst := make([]byte, 64)
	n, err := Encode(dst, 2, pairs("a", "1", "b", "2"))
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	sentinel := errors.New("stop")
	calls := 0
	err = Parse(dst[:n], func(_, _ []byte) error {
		calls++
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected callback error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected parse to stop after the first error, got %d calls", calls)
	}
}

func TestPadLen(t *testing.T) {
	cases := map[int]int{0: 0, 1: 4, 3: 4, 4: 4, 5: 8, 15: 16, 16: 16}
	for in, want := range cases {
		if got := PadLen(in); got != want {
			t.Errorf("PadLen(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestEraseSpan(t *testing.T) {
	if got := EraseSpan(1, 4096); got != 4096 {
		t.Errorf("EraseSpan(1) = %d, want 4096", got)
	}
	if got := EraseSpan(4096, 4096); got != 4096 {
		t.Errorf("EraseSpan(4096) = %d, want 4096", got)
	}
	if got := EraseSpan(4097, 4096); got != 8192 {
		t.Errorf("EraseSpan(4097) = %d, want 8192", got)
	}
	if got := EraseSpan(0, 4096); got != 0 {
		t.Errorf("EraseSpan(0) = %d, want 0", got)
	}
}
