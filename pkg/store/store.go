// Package store implements the caching database layer: a typed get/put/
// delete interface over encoded blobs in a fixed index, accelerated by a
// small hot cache of decoded values, with save/load to a flash region.
//
// A Store is exclusively owned by a single caller context; it provides no
// internal synchronization. Hosts that need concurrent access must
// serialize calls externally.
package store

import (
	"errors"
	"fmt"

	"github.com/norkv/norkv/pkg/codec"
	"github.com/norkv/norkv/pkg/common/log"
	"github.com/norkv/norkv/pkg/config"
	"github.com/norkv/norkv/pkg/index"
	"github.com/norkv/norkv/pkg/stats"
)

var (
	// ErrKeyNotFound is returned when a key is not present
	ErrKeyNotFound = errors.New("store: key not found")
	// ErrStoreFull is returned when inserting a new key into a store that
	// already holds its full capacity of entries
	ErrStoreFull = errors.New("store: at capacity")
	// ErrBlobTooLarge is returned when a loaded blob exceeds the
	// configured maximum value size
	ErrBlobTooLarge = errors.New("store: blob exceeds max value size")
)

// Store maps typed keys to typed values. Values are encoded into bounded
// blobs held by a FixedIndex; decoded values for recently touched keys are
// held in a hot cache. Keys are encoded through their codec at the store
// boundary, so the index and the flash image only ever see raw bytes.
type Store[K comparable, V any] struct {
	cfg    *config.Config
	keys   codec.Codec[K]
	values codec.Codec[V]

	index *index.FixedIndex
	cache *linearCache[K, V]

	// Scratch encode buffers, sized once from the config
	keyBuf []byte
	valBuf []byte

	collector *stats.Collector
	logger    log.Logger
}

// New creates an empty store from the given configuration and codecs.
func New[K comparable, V any](cfg *config.Config, keys codec.Codec[K], values codec.Codec[V]) (*Store[K, V], error) {
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if keys == nil || values == nil {
		panic("store: nil codec")
	}
	return &Store[K, V]{
		cfg:       cfg,
		keys:      keys,
		values:    values,
		index:     index.NewFixedIndex(cfg.IndexCapacity),
		cache:     newLinearCache[K, V](cfg.CacheCapacity),
		keyBuf:    make([]byte, cfg.MaxKeySize),
		valBuf:    make([]byte, cfg.MaxValueSize),
		collector: stats.NewCollector(),
		logger:    log.GetDefaultLogger(),
	}, nil
}

// SetLogger replaces the store's logger.
func (s *Store[K, V]) SetLogger(logger log.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// Stats returns a snapshot of the store's operation counters.
func (s *Store[K, V]) Stats() stats.Snapshot {
	return s.collector.GetStats()
}

// Collector exposes the store's collector so a shared flash driver can
// feed the same counters.
func (s *Store[K, V]) Collector() *stats.Collector {
	return s.collector
}

// encodeKey serializes key into the store's key scratch buffer.
func (s *Store[K, V]) encodeKey(key K) ([]byte, error) {
	n, err := s.keys.Encode(s.keyBuf, key)
	if err != nil {
		return nil, fmt.Errorf("store: encode key: %w", err)
	}
	return s.keyBuf[:n], nil
}

// Put encodes value and stores it under key, inserting or overwriting.
// Encoding and index insertion complete before the cache is touched, so a
// failure leaves the store unchanged. Inserting a new key into a full
// store fails with ErrStoreFull; overwriting never does.
func (s *Store[K, V]) Put(key K, value V) error {
	kb, err := s.encodeKey(key)
	if err != nil {
		return err
	}
	n, err := s.values.Encode(s.valBuf, value)
	if err != nil {
		return fmt.Errorf("store: encode value: %w", err)
	}
	if _, err := s.index.Put(kb, s.valBuf[:n]); err != nil {
		if errors.Is(err, index.ErrIndexFull) {
			return fmt.Errorf("%w (%d entries)", ErrStoreFull, s.index.Len())
		}
		return err
	}
	s.cacheInsert(key, value)
	s.collector.TrackOperation(stats.OpPut)
	return nil
}

func (s *Store[K, V]) cacheInsert(key K, value V) {
	if s.cache.insert(key, value) {
		s.collector.TrackCacheEviction()
	}
}

// Get returns the value stored under key. A cache hit returns the decoded
// value directly; a miss decodes the blob from the index and populates the
// cache (read-through). Returns ErrKeyNotFound for absent keys; a decode
// failure of a stored blob is a hard error.
func (s *Store[K, V]) Get(key K) (V, error) {
	var zero V
	if v, ok := s.cache.get(key); ok {
		s.collector.TrackCacheHit()
		s.collector.TrackOperation(stats.OpGet)
		return v, nil
	}
	s.collector.TrackCacheMiss()

	kb, err := s.encodeKey(key)
	if err != nil {
		return zero, err
	}
	blob, ok := s.index.Get(kb)
	if !ok {
		return zero, ErrKeyNotFound
	}
	v, err := s.values.Decode(blob)
	if err != nil {
		return zero, fmt.Errorf("store: decode stored blob: %w", err)
	}
	s.cacheInsert(key, v)
	s.collector.TrackOperation(stats.OpGet)
	return v, nil
}

// GetUncached returns the value stored under key without consulting or
// populating the cache. Inspection paths use it to avoid perturbing hot
// entries.
func (s *Store[K, V]) GetUncached(key K) (V, error) {
	var zero V
	kb, err := s.encodeKey(key)
	if err != nil {
		return zero, err
	}
	blob, ok := s.index.Get(kb)
	if !ok {
		return zero, ErrKeyNotFound
	}
	v, err := s.values.Decode(blob)
	if err != nil {
		return zero, fmt.Errorf("store: decode stored blob: %w", err)
	}
	return v, nil
}

// Has reports whether key is present, without decoding anything.
func (s *Store[K, V]) Has(key K) bool {
	kb, err := s.encodeKey(key)
	if err != nil {
		return false
	}
	return s.index.Contains(kb)
}

// Delete removes key from the index and the cache, reporting whether the
// key existed.
func (s *Store[K, V]) Delete(key K) (bool, error) {
	kb, err := s.encodeKey(key)
	if err != nil {
		return false, err
	}
	_, removed := s.index.Remove(kb)
	s.cache.remove(key)
	if removed {
		s.collector.TrackOperation(stats.OpDelete)
	}
	return removed, nil
}

// Update overwrites the value under key only if the key is already
// present, reporting whether it was.
func (s *Store[K, V]) Update(key K, value V) (bool, error) {
	if !s.Has(key) {
		return false, nil
	}
	if err := s.Put(key, value); err != nil {
		return false, err
	}
	return true, nil
}

// Keys returns every key in insertion order, decoded.
func (s *Store[K, V]) Keys() ([]K, error) {
	keys := make([]K, 0, s.index.Len())
	for it := s.index.NewIterator(); it.Valid(); it.Next() {
		k, err := s.keys.Decode(it.Key())
		if err != nil {
			return nil, fmt.Errorf("store: decode stored key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, nil
}

// ForEach calls fn for every entry in insertion order, decoding values
// without touching the cache. Iteration stops at the first error.
func (s *Store[K, V]) ForEach(fn func(key K, value V) error) error {
	for it := s.index.NewIterator(); it.Valid(); it.Next() {
		k, err := s.keys.Decode(it.Key())
		if err != nil {
			return fmt.Errorf("store: decode stored key: %w", err)
		}
		v, err := s.values.Decode(it.Blob())
		if err != nil {
			return fmt.Errorf("store: decode stored blob: %w", err)
		}
		if err := fn(k, v); err != nil {
			return err
		}
	}
	return nil
}

// Clear drops every entry from the index and the cache.
func (s *Store[K, V]) Clear() {
	s.index.Clear()
	s.cache.clear()
}

// Len returns the number of entries in the index. The cache does not
// contribute to the observable size.
func (s *Store[K, V]) Len() int {
	return s.index.Len()
}

// Capacity returns the fixed maximum number of entries.
func (s *Store[K, V]) Capacity() int {
	return s.index.Capacity()
}
