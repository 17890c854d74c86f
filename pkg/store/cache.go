package store

// linearCache is the fixed-capacity hot cache of decoded values. It is a
// small linear-scan map: iteration order is insertion order. When an
// insert finds the cache full, the first entry in iteration order is
// evicted. That victim has no defined relationship to recency; the
// container tracks neither age nor access order, so this is deliberately
// not an LRU.
type cacheEntry[K comparable, V any] struct {
	key K
	val V
}

type linearCache[K comparable, V any] struct {
	entries []cacheEntry[K, V]
	cap     int
}

func newLinearCache[K comparable, V any](capacity int) *linearCache[K, V] {
	return &linearCache[K, V]{
		entries: make([]cacheEntry[K, V], 0, capacity),
		cap:     capacity,
	}
}

func (c *linearCache[K, V]) find(key K) int {
	for i := range c.entries {
		if c.entries[i].key == key {
			return i
		}
	}
	return -1
}

func (c *linearCache[K, V]) get(key K) (V, bool) {
	if i := c.find(key); i >= 0 {
		return c.entries[i].val, true
	}
	var zero V
	return zero, false
}

// insert adds or overwrites an entry, evicting the front entry first if
// the cache is full. Reports whether an eviction happened.
func (c *linearCache[K, V]) insert(key K, val V) bool {
	evicted := false
	if len(c.entries) == c.cap {
		copy(c.entries, c.entries[1:])
		c.entries = c.entries[:len(c.entries)-1]
		evicted = true
	}
	if i := c.find(key); i >= 0 {
		c.entries[i].val = val
	} else {
		c.entries = append(c.entries, cacheEntry[K, V]{key: key, val: val})
	}
	return evicted
}

func (c *linearCache[K, V]) remove(key K) bool {
	i := c.find(key)
	if i < 0 {
		return false
	}
	copy(c.entries[i:], c.entries[i+1:])
	c.entries = c.entries[:len(c.entries)-1]
	return true
}

func (c *linearCache[K, V]) clear() {
	c.entries = c.entries[:0]
}

func (c *linearCache[K, V]) len() int {
	return len(c.entries)
}
