package index

import (
	"bytes"
	"errors"
	"fmt"
	"testing"
)

func TestFixedIndexBasicOperations(t *testing.T) {
	ix := NewFixedIndex(4)

	if ix.Capacity() != 4 {
		t.Errorf("expected capacity 4, got %d", ix.Capacity())
	}
	if ix.Len() != 0 {
		t.Errorf("expected empty index, got len %d", ix.Len())
	}

	prev, err := ix.Put([]byte("key1"), []byte("value1"))
	if err != nil {
		t.Fatalf("unexpected error on insert: %v", err)
	}
	if prev != nil {
		t.Errorf("expected no previous blob on first insert, got %q", prev)
	}

	blob, ok := ix.Get([]byte("key1"))
	if !ok {
		t.Fatalf("expected to find key1")
	}
	if string(blob) != "value1" {
		t.Errorf("expected value1, got %s", string(blob))
	}

	if _, ok := ix.Get([]byte("nonexistent")); ok {
		t.Errorf("expected key 'nonexistent' to not be found")
	}
	if !ix.Contains([]byte("key1")) {
		t.Errorf("expected Contains to report key1")
	}
}

func TestFixedIndexOverwrite(t *testing.T) {
	ix := NewFixedIndex(2)

	if _, err := ix.Put([]byte("key"), []byte("old")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	prev, err := ix.Put([]byte("key"), []byte("new"))
	if err != nil {
		t.Fatalf("unexpected error on overwrite: %v", err)
	}
	if string(prev) != "old" {
		t.Errorf("expected previous blob 'old', got %q", prev)
	}
	if ix.Len() != 1 {
		t.Errorf("overwrite must not consume capacity, got len %d", ix.Len())
	}

	blob, _ := ix.Get([]byte("key"))
	if string(blob) != "new" {
		t.Errorf("expected new, got %s", string(blob))
	}
}

func TestFixedIndexFull(t *testing.T) {
	ix := NewFixedIndex(2)
	ix.Put([]byte("a"), []byte("1"))
	ix.Put([]byte("b"), []byte("2"))

	if !ix.IsFull() {
		t.Fatalf("expected index to be full")
	}

	_, err := ix.Put([]byte("c"), []byte("3"))
	if !errors.Is(err, ErrIndexFull) {
		t.Fatalf("expected ErrIndexFull, got %v", err)
	}

	// Failed insert must not mutate existing state
	if ix.Len() != 2 {
		t.Errorf("expected len 2 after rejected insert, got %d", ix.Len())
	}
	if blob, _ := ix.Get([]byte("a")); string(blob) != "1" {
		t.Errorf("entry a changed after rejected insert: %q", blob)
	}
	if blob, _ := ix.Get([]byte("b")); string(blob) != "2" {
		t.Errorf("entry b changed after rejected insert: %q", blob)
	}

	// Overwrite of an existing key must still succeed when full
	if _, err := ix.Put([]byte("a"), []byte("updated")); err != nil {
		t.Fatalf("overwrite on full index failed: %v", err)
	}
	if blob, _ := ix.Get([]byte("a")); string(blob) != "updated" {
		t.Errorf("expected updated, got %s", string(blob))
	}
}

func TestFixedIndexRemove(t *testing.T) {
	ix := NewFixedIndex(4)
	ix.Put([]byte("a"), []byte("1"))
	ix.Put([]byte("b"), []byte("2"))
	ix.Put([]byte("c"), []byte("3"))

	blob, ok := ix.Remove([]byte("b"))
	if !ok {
		t.Fatalf("expected remove to find b")
	}
	if string(blob) != "2" {
		t.Errorf("expected removed blob 2, got %s", string(blob))
	}
	if ix.Len() != 2 {
		t.Errorf("expected len 2 after remove, got %d", ix.Len())
	}
	if _, ok := ix.Get([]byte("b")); ok {
		t.Errorf("expected b to be gone")
	}

	if _, ok := ix.Remove([]byte("b")); ok {
		t.Errorf("expected remove of absent key to report false")
	}
}

func TestFixedIndexIterationOrder(t *testing.T) {
	ix := NewFixedIndex(8)
	keys := []string{"delta", "alpha", "charlie", "bravo"}
	for i, k := range keys {
		ix.Put([]byte(k), []byte{byte(i)})
	}

	// Removal keeps the insertion order of the survivors
	ix.Remove([]byte("alpha"))
	want := []string{"delta", "charlie", "bravo"}

	var got []string
	for it := ix.NewIterator(); it.Valid(); it.Next() {
		got = append(got, string(it.Key()))
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], got[i])
		}
	}

	// A fresh iterator restarts from the beginning
	it := ix.NewIterator()
	if !it.Valid() || string(it.Key()) != "delta" {
		t.Errorf("expected fresh iterator to start at delta")
	}
}

func TestFixedIndexClear(t *testing.T) {
	ix := NewFixedIndex(4)
	ix.Put([]byte("a"), []byte("1"))
	ix.Put([]byte("b"), []byte("2"))

	ix.Clear()
	if ix.Len() != 0 {
		t.Errorf("expected empty index after clear, got len %d", ix.Len())
	}
	if ix.Capacity() != 4 {
		t.Errorf("clear must not change capacity, got %d", ix.Capacity())
	}
	if _, ok := ix.Get([]byte("a")); ok {
		t.Errorf("expected a to be gone after clear")
	}
}

func TestFixedIndexCopiesInputs(t *testing.T) {
	ix := NewFixedIndex(2)
	key := []byte("key")
	blob := []byte("blob")
	ix.Put(key, blob)

	// Mutating the caller's slices must not affect the stored entry
	key[0] = 'X'
	blob[0] = 'X'

	stored, ok := ix.Get([]byte("key"))
	if !ok {
		t.Fatalf("expected key to still be present")
	}
	if !bytes.Equal(stored, []byte("blob")) {
		t.Errorf("stored blob aliased caller memory: %q", stored)
	}
}

func TestFixedIndexManyKeys(t *testing.T) {
	const n = 64
	ix := NewFixedIndex(n)
	for i := 0; i < n; i++ {
		if _, err := ix.Put([]byte(fmt.Sprintf("key-%03d", i)), []byte(fmt.Sprintf("val-%03d", i))); err != nil {
			t.Fatalf("insert %d failed: %v", i, err)
		}
	}
	for i := 0; i < n; i++ {
		blob, ok := ix.Get([]byte(fmt.Sprintf("key-%03d", i)))
		if !ok {
			t.Fatalf("key %d not found", i)
		}
		if string(blob) != fmt.Sprintf("val-%03d", i) {
			t.Errorf("key %d: wrong blob %s", i, blob)
		}
	}
}
