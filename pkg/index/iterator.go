package index

// Iterator walks the index's entries in insertion order. It is positioned
// on the first entry when created; each call to NewIterator restarts from
// the beginning. The iterator reads the index's own storage, so the index
// must not be mutated while an iterator is in use.
type Iterator struct {
	ix  *FixedIndex
	pos int
}

// NewIterator returns an iterator positioned at the first entry.
func (ix *FixedIndex) NewIterator() *Iterator {
	return &Iterator{ix: ix}
}

// Valid reports whether the iterator is positioned on an entry.
func (it *Iterator) Valid() bool {
	return it.pos < len(it.ix.entries)
}

// Next advances to the next entry.
func (it *Iterator) Next() {
	if it.pos < len(it.ix.entries) {
		it.pos++
	}
}

// Key returns the current entry's key, or nil if the iterator is exhausted.
func (it *Iterator) Key() []byte {
	if !it.Valid() {
		return nil
	}
	return it.ix.entries[it.pos].key
}

// Blob returns the current entry's blob, or nil if the iterator is exhausted.
func (it *Iterator) Blob() []byte {
	if !it.Valid() {
		return nil
	}
	return it.ix.entries[it.pos].blob
}
