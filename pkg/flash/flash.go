// Package flash implements a NOR-flash driver over an abstract
// register-level controller. The driver owns all alignment and bounds
// checking; upper layers address flash purely by logical offset and
// length. NOR semantics: erase resets whole pages to all-ones, writes can
// only clear bits from 1 to 0, reads are unconstrained.
package flash

import "errors"

var (
	// ErrUnaligned is returned when an erase bound is not a page multiple
	// or a write offset is not a word multiple
	ErrUnaligned = errors.New("flash: address not aligned")
	// ErrOutOfBounds is returned when an operation would touch addresses
	// outside the reserved region
	ErrOutOfBounds = errors.New("flash: address out of bounds")
)

// Geometry describes the reserved flash region and its hardware constraints.
type Geometry struct {
	// PageSize is the erase unit in bytes
	PageSize int
	// WordSize is the write alignment in bytes
	WordSize int
	// Capacity is the size of the reserved region in bytes, independent
	// of the total device flash size
	Capacity int
}

// DefaultGeometry matches a 64KB region on a part with 4KB pages and
// 4-byte word writes.
func DefaultGeometry() Geometry {
	return Geometry{
		PageSize: 4096,
		WordSize: 4,
		Capacity: 64 * 1024,
	}
}

// Validate checks that the geometry is internally consistent.
func (g Geometry) Validate() error {
	if g.WordSize <= 0 {
		return errors.New("flash: word size must be positive")
	}
	if g.PageSize <= 0 || g.PageSize%g.WordSize != 0 {
		return errors.New("flash: page size must be a positive word multiple")
	}
	if g.Capacity <= 0 || g.Capacity%g.PageSize != 0 {
		return errors.New("flash: capacity must be a positive page multiple")
	}
	return nil
}

// Controller is the register-level capability the driver is built on: a
// busy flag, page erase, single word write, and raw byte reads. Addresses
// handed to a Controller have already been alignment- and bounds-checked
// by the driver. Implementations may return errors to model hardware
// faults; the driver wraps them with operation context.
type Controller interface {
	// Busy reports whether the peripheral is still executing an erase or
	// write. The driver polls this until it returns false.
	Busy() bool
	// ErasePage resets the page starting at addr to all-ones.
	ErasePage(addr uint32) error
	// WriteWord writes one little-endian word at addr. Hardware can only
	// clear bits, so the destination is expected to be erased.
	WriteWord(addr uint32, word uint32) error
	// ReadAt copies len(dst) bytes starting at off into dst.
	ReadAt(dst []byte, off uint32) error
}
