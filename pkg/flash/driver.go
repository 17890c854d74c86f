package flash

import (
	"encoding/binary"
	"fmt"

	"github.com/norkv/norkv/pkg/stats"
)

// Driver is the sole owner of a flash peripheral. It validates every
// operation against the geometry before the controller is touched, and
// blocks on the controller's busy flag until each erase and word write
// completes. A Driver must not be shared between goroutines; a host that
// needs concurrent access must serialize calls externally.
type Driver struct {
	ctrl  Controller
	geo   Geometry
	stats *stats.Collector
}

// DriverOption configures a Driver.
type DriverOption func(*Driver)

// WithCollector attaches a stats collector to the driver.
func WithCollector(c *stats.Collector) DriverOption {
	return func(d *Driver) {
		d.stats = c
	}
}

// NewDriver creates a driver over the given controller and geometry.
// It panics if ctrl is nil, and fails if the geometry is inconsistent.
func NewDriver(ctrl Controller, geo Geometry, options ...DriverOption) (*Driver, error) {
	if ctrl == nil {
		panic("flash: nil controller")
	}
	if err := geo.Validate(); err != nil {
		return nil, err
	}
	d := &Driver{ctrl: ctrl, geo: geo}
	for _, option := range options {
		option(d)
	}
	return d, nil
}

// Geometry returns the driver's geometry.
func (d *Driver) Geometry() Geometry {
	return d.geo
}

// Capacity returns the size of the reserved region in bytes.
func (d *Driver) Capacity() int {
	return d.geo.Capacity
}

// waitReady polls the controller until it is no longer busy. There is no
// timeout: a stuck peripheral hangs the caller, per the hardware contract.
func (d *Driver) waitReady() {
	for d.ctrl.Busy() {
	}
}

// Erase resets every page in [from, to) to the all-ones erased pattern.
// Both bounds must be page multiples. Pages are erased one at a time, each
// blocking until the hardware reports ready.
func (d *Driver) Erase(from, to uint32) error {
	pageSize := uint32(d.geo.PageSize)
	if from%pageSize != 0 || to%pageSize != 0 {
		return fmt.Errorf("%w: erase bounds %#x..%#x not multiples of page size %d", ErrUnaligned, from, to, pageSize)
	}
	if to < from || int(to) > d.geo.Capacity {
		return fmt.Errorf("%w: erase bounds %#x..%#x exceed region of %d bytes", ErrOutOfBounds, from, to, d.geo.Capacity)
	}

	for addr := from; addr < to; addr += pageSize {
		d.waitReady()
		if err := d.ctrl.ErasePage(addr); err != nil {
			return fmt.Errorf("flash: erase page %#x: %w", addr, err)
		}
		d.waitReady()
		if d.stats != nil {
			d.stats.TrackPagesErased(1)
		}
	}
	return nil
}

// Write writes data starting at offset, which must be a word multiple. The
// destination region must already be erased; the driver does not verify
// this. Full words are written directly; a trailing partial word is padded
// with 1-bits so its unwritten bytes stay in the erased state. Each word
// write blocks until the hardware reports ready.
func (d *Driver) Write(offset uint32, data []byte) error {
	wordSize := uint32(d.geo.WordSize)
	if offset%wordSize != 0 {
		return fmt.Errorf("%w: write offset %#x not a multiple of %d", ErrUnaligned, offset, wordSize)
	}
	if int(offset)+len(data) > d.geo.Capacity {
		return fmt.Errorf("%w: write of %d bytes at %#x exceeds region of %d bytes", ErrOutOfBounds, len(data), offset, d.geo.Capacity)
	}

	pos := 0
	for ; pos+4 <= len(data); pos += 4 {
		word := binary.LittleEndian.Uint32(data[pos:])
		if err := d.writeWord(offset+uint32(pos), word); err != nil {
			return err
		}
	}

	if pos < len(data) {
		// Pad the final partial word with erased bits
		word := uint32(0xFFFFFFFF)
		for i := 0; pos+i < len(data); i++ {
			shift := uint(i) * 8
			word &^= 0xFF << shift
			word |= uint32(data[pos+i]) << shift
		}
		if err := d.writeWord(offset+uint32(pos), word); err != nil {
			return err
		}
	}
	return nil
}

func (d *Driver) writeWord(addr uint32, word uint32) error {
	d.waitReady()
	if err := d.ctrl.WriteWord(addr, word); err != nil {
		return fmt.Errorf("flash: write word at %#x: %w", addr, err)
	}
	d.waitReady()
	if d.stats != nil {
		d.stats.TrackWordsWritten(1)
	}
	return nil
}

// Read copies len(dst) bytes starting at offset into dst. Reads have no
// alignment constraint and never wait on the busy flag.
func (d *Driver) Read(offset uint32, dst []byte) error {
	if int(offset)+len(dst) > d.geo.Capacity {
		return fmt.Errorf("%w: read of %d bytes at %#x exceeds region of %d bytes", ErrOutOfBounds, len(dst), offset, d.geo.Capacity)
	}
	if err := d.ctrl.ReadAt(dst, offset); err != nil {
		return fmt.Errorf("flash: read at %#x: %w", offset, err)
	}
	if d.stats != nil {
		d.stats.TrackBytesRead(len(dst))
	}
	return nil
}
