package store

import (
	"errors"
	"fmt"

	"github.com/norkv/norkv/pkg/flash"
	"github.com/norkv/norkv/pkg/image"
	"github.com/norkv/norkv/pkg/index"
	"github.com/norkv/norkv/pkg/stats"
)

// SaveToFlash serializes the store's persistent contents to the flash
// region at baseOffset. The whole image is staged in memory first; nothing
// touches flash until staging succeeds, so an oversized store fails before
// any erase. A failure after the erase leaves the flash state undefined;
// callers should retry or re-save, and the in-memory store is unaffected
// either way.
func (s *Store[K, V]) SaveToFlash(drv *flash.Driver, baseOffset uint32) error {
	staging := make([]byte, s.cfg.MaxImageSize)
	n, err := image.Encode(staging, s.index.Len(), s.index.NewIterator())
	if err != nil {
		return fmt.Errorf("store: stage flash image: %w", err)
	}

	span := image.EraseSpan(n, drv.Geometry().PageSize)
	if err := drv.Erase(baseOffset, baseOffset+uint32(span)); err != nil {
		return err
	}
	if err := drv.Write(baseOffset, staging[:n]); err != nil {
		return err
	}

	s.collector.TrackOperation(stats.OpSave)
	s.logger.Debug("saved %d entries (%d bytes) to flash at %#x", s.index.Len(), n, baseOffset)
	return nil
}

// LoadFromFlash reads the image at baseOffset and reconstructs the store
// from it. An erased region (all-ones header) is "no data present": the
// store is left unchanged and load succeeds. Otherwise the store is
// cleared and the image's records are inserted one by one; a parse failure
// partway through therefore leaves the store empty, not rolled back.
// Callers that cannot accept that should treat any load error as "proceed
// with whatever was already in memory" only after a fresh boot.
func (s *Store[K, V]) LoadFromFlash(drv *flash.Driver, baseOffset uint32) error {
	window := s.cfg.MaxImageSize
	if avail := drv.Capacity() - int(baseOffset); avail < window {
		window = avail
	}
	if window < image.HeaderSize {
		return fmt.Errorf("%w: base offset %#x leaves no room for an image header", flash.ErrOutOfBounds, baseOffset)
	}

	staging := make([]byte, window)
	if err := drv.Read(baseOffset, staging); err != nil {
		return err
	}

	if image.IsErased(staging) {
		s.logger.Debug("flash at %#x is erased, nothing to load", baseOffset)
		return nil
	}

	// Destructive load: existing contents are dropped before parsing
	s.index.Clear()
	s.cache.clear()

	err := image.Parse(staging, func(kb, blob []byte) error {
		if _, err := s.keys.Decode(kb); err != nil {
			return fmt.Errorf("store: decode stored key: %w", err)
		}
		if len(blob) > s.cfg.MaxValueSize {
			return fmt.Errorf("%w: %d bytes", ErrBlobTooLarge, len(blob))
		}
		if _, err := s.index.Put(kb, blob); err != nil {
			if errors.Is(err, index.ErrIndexFull) {
				return fmt.Errorf("%w: image holds more than %d entries", ErrStoreFull, s.index.Capacity())
			}
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.collector.TrackOperation(stats.OpLoad)
	s.logger.Debug("loaded %d entries from flash at %#x", s.index.Len(), baseOffset)
	return nil
}
