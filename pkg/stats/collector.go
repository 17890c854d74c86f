// Package stats collects operation counters for the store and the flash
// driver. Counters are atomic so a host that samples them from a monitor
// context sees consistent values; they are not a concurrency guarantee for
// the store itself, which remains single-owner.
package stats

import "sync/atomic"

// OperationType identifies a tracked store operation.
type OperationType string

const (
	OpPut    OperationType = "put"
	OpGet    OperationType = "get"
	OpDelete OperationType = "delete"
	OpSave   OperationType = "save"
	OpLoad   OperationType = "load"
)

// Collector accumulates counters for store and flash activity.
type Collector struct {
	puts    atomic.Uint64
	gets    atomic.Uint64
	deletes atomic.Uint64
	saves   atomic.Uint64
	loads   atomic.Uint64

	cacheHits      atomic.Uint64
	cacheMisses    atomic.Uint64
	cacheEvictions atomic.Uint64

	pagesErased  atomic.Uint64
	wordsWritten atomic.Uint64
	bytesRead    atomic.Uint64
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// TrackOperation increments the counter for the given operation type.
func (c *Collector) TrackOperation(op OperationType) {
	switch op {
	case OpPut:
		c.puts.Add(1)
	case OpGet:
		c.gets.Add(1)
	case OpDelete:
		c.deletes.Add(1)
	case OpSave:
		c.saves.Add(1)
	case OpLoad:
		c.loads.Add(1)
	}
}

// TrackCacheHit records a read served from the hot cache.
func (c *Collector) TrackCacheHit() { c.cacheHits.Add(1) }

// TrackCacheMiss records a read that had to decode from the index.
func (c *Collector) TrackCacheMiss() { c.cacheMisses.Add(1) }

// TrackCacheEviction records an entry pushed out of the hot cache.
func (c *Collector) TrackCacheEviction() { c.cacheEvictions.Add(1) }

// TrackPagesErased records pages erased by the flash driver.
func (c *Collector) TrackPagesErased(n int) { c.pagesErased.Add(uint64(n)) }

// TrackWordsWritten records words written by the flash driver.
func (c *Collector) TrackWordsWritten(n int) { c.wordsWritten.Add(uint64(n)) }

// TrackBytesRead records bytes read by the flash driver.
func (c *Collector) TrackBytesRead(n int) { c.bytesRead.Add(uint64(n)) }

// Snapshot is a point-in-time copy of all counters.
type Snapshot struct {
	Puts    uint64 `json:"puts"`
	Gets    uint64 `json:"gets"`
	Deletes uint64 `json:"deletes"`
	Saves   uint64 `json:"saves"`
	Loads   uint64 `json:"loads"`

	CacheHits      uint64 `json:"cache_hits"`
	CacheMisses    uint64 `json:"cache_misses"`
	CacheEvictions uint64 `json:"cache_evictions"`

	PagesErased  uint64 `json:"pages_erased"`
	WordsWritten uint64 `json:"words_written"`
	BytesRead    uint64 `json:"bytes_read"`
}

// GetStats returns a snapshot of all counters.
func (c *Collector) GetStats() Snapshot {
	return Snapshot{
		Puts:           c.puts.Load(),
		Gets:           c.gets.Load(),
		Deletes:        c.deletes.Load(),
		Saves:          c.saves.Load(),
		Loads:          c.loads.Load(),
		CacheHits:      c.cacheHits.Load(),
		CacheMisses:    c.cacheMisses.Load(),
		CacheEvictions: c.cacheEvictions.Load(),
		PagesErased:    c.pagesErased.Load(),
		WordsWritten:   c.wordsWritten.Load(),
		BytesRead:      c.bytesRead.Load(),
	}
}
