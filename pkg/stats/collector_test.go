package stats

import "testing"

func TestCollectorTrackOperations(t *testing.T) {
	c := NewCollector()

	c.TrackOperation(OpPut)
	c.TrackOperation(OpPut)
	c.TrackOperation(OpGet)
	c.TrackOperation(OpDelete)
	c.TrackOperation(OpSave)
	c.TrackOperation(OpLoad)

	s := c.GetStats()
	if s.Puts != 2 {
		t.Errorf("expected 2 puts, got %d", s.Puts)
	}
	if s.Gets != 1 || s.Deletes != 1 || s.Saves != 1 || s.Loads != 1 {
		t.Errorf("unexpected counts: %+v", s)
	}
}

func TestCollectorCacheAndFlashCounters(t *testing.T) {
	c := NewCollector()

	c.TrackCacheHit()
	c.TrackCacheHit()
	c.TrackCacheMiss()
	c.TrackCacheEviction()
	c.TrackPagesErased(2)
	c.TrackWordsWritten(16)
	c.TrackBytesRead(64)

	s := c.GetStats()
	if s.CacheHits != 2 || s.CacheMisses != 1 || s.CacheEvictions != 1 {
		t.Errorf("unexpected cache counters: %+v", s)
	}
	if s.PagesErased != 2 || s.WordsWritten != 16 || s.BytesRead != 64 {
		t.Errorf("unexpected flash counters: %+v", s)
	}
}

func TestCollectorUnknownOperationIgnored(t *testing.T) {
	c := NewCollector()
	c.TrackOperation(OperationType("bogus"))
	if s := c.GetStats(); s != (Snapshot{}) {
		t.Errorf("unknown op must not change counters: %+v", s)
	}
}
