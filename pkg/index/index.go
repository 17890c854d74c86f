// Package index provides a fixed-capacity, insertion-ordered key/blob index.
// It is the in-memory backbone of the store: raw encoded keys mapped to raw
// encoded value blobs, with no serialization knowledge of its own.
package index

import (
	"bytes"
	"errors"

	"github.com/cespare/xxhash/v2"
)

var (
	// ErrIndexFull is returned when inserting a new key into an index
	// that already holds its full capacity of entries
	ErrIndexFull = errors.New("index: at capacity")
)

// entry is a single key/blob pair. The key's xxhash is cached so lookups
// can reject non-matching entries without comparing bytes.
type entry struct {
	hash uint64
	key  []byte
	blob []byte
}

// FixedIndex is an associative container whose capacity is fixed at
// construction. Entries iterate in insertion order; the order carries no
// recency meaning. A FixedIndex must not be shared between goroutines.
type FixedIndex struct {
	entries []entry
	cap     int
}

// NewFixedIndex creates an empty index that can hold up to capacity entries.
// It panics if capacity is not positive.
func NewFixedIndex(capacity int) *FixedIndex {
	if capacity <= 0 {
		panic("index: capacity must be positive")
	}
	return &FixedIndex{
		entries: make([]entry, 0, capacity),
		cap:     capacity,
	}
}

// Capacity returns the fixed maximum number of entries.
func (ix *FixedIndex) Capacity() int {
	return ix.cap
}

// Len returns the current number of entries.
func (ix *FixedIndex) Len() int {
	return len(ix.entries)
}

// IsFull reports whether the index holds its full capacity of entries.
func (ix *FixedIndex) IsFull() bool {
	return len(ix.entries) == ix.cap
}

// Clear drops all entries. Capacity is unchanged.
func (ix *FixedIndex) Clear() {
	ix.entries = ix.entries[:0]
}

// find returns the position of key, or -1 if absent.
// Hash comparison first, byte comparison only on a hash match.
func (ix *FixedIndex) find(hash uint64, key []byte) int {
	for i := range ix.entries {
		if ix.entries[i].hash == hash && bytes.Equal(ix.entries[i].key, key) {
			return i
		}
	}
	return -1
}

// Put inserts a new entry or overwrites an existing one. On overwrite the
// previous blob is returned. Inserting a new key into a full index fails
// with ErrIndexFull and mutates nothing; overwriting never fails. The key
// and blob are copied, so the caller keeps ownership of its slices.
func (ix *FixedIndex) Put(key, blob []byte) ([]byte, error) {
	h := xxhash.Sum64(key)
	if i := ix.find(h, key); i >= 0 {
		prev := ix.entries[i].blob
		ix.entries[i].blob = append([]byte(nil), blob...)
		return prev, nil
	}
	if ix.IsFull() {
		return nil, ErrIndexFull
	}
	ix.entries = append(ix.entries, entry{
		hash: h,
		key:  append([]byte(nil), key...),
		blob: append([]byte(nil), blob...),
	})
	return nil, nil
}

// Get returns the blob stored under key. The returned slice is the index's
// own storage: it is valid until the next mutation and must not be modified
// by the caller. Lookup performs no allocation.
func (ix *FixedIndex) Get(key []byte) ([]byte, bool) {
	i := ix.find(xxhash.Sum64(key), key)
	if i < 0 {
		return nil, false
	}
	return ix.entries[i].blob, true
}

// Contains reports whether key is present.
func (ix *FixedIndex) Contains(key []byte) bool {
	return ix.find(xxhash.Sum64(key), key) >= 0
}

// Remove deletes key and returns its blob. The insertion order of the
// remaining entries is preserved.
func (ix *FixedIndex) Remove(key []byte) ([]byte, bool) {
	i := ix.find(xxhash.Sum64(key), key)
	if i < 0 {
		return nil, false
	}
	blob := ix.entries[i].blob
	copy(ix.entries[i:], ix.entries[i+1:])
	ix.entries = ix.entries[:len(ix.entries)-1]
	return blob, true
}
