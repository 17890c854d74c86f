package flash

import "encoding/binary"

// MemController simulates a NOR-flash peripheral in memory. Erase resets
// pages to 0xFF; word writes AND bits into place, so a write can only
// clear bits that a prior erase set. Each erase or write leaves the
// controller "busy" for a configurable number of polls, which exercises
// the driver's ready loop. Operations can be made to fail for tests by
// setting the Fail fields.
type MemController struct {
	mem        []byte
	geo        Geometry
	busyLeft   int
	busyCycles int

	// Injected faults, returned verbatim by the corresponding operation.
	FailErase error
	FailWrite error
	FailRead  error
}

// NewMemController creates a fully erased simulated region.
func NewMemController(geo Geometry) *MemController {
	mem := make([]byte, geo.Capacity)
	for i := range mem {
		mem[i] = 0xFF
	}
	return &MemController{mem: mem, geo: geo}
}

// SetBusyCycles sets how many Busy polls follow each erase or write.
func (c *MemController) SetBusyCycles(n int) {
	c.busyCycles = n
}

// Busy reports whether a previous operation is still "executing".
func (c *MemController) Busy() bool {
	if c.busyLeft > 0 {
		c.busyLeft--
		return true
	}
	return false
}

// ErasePage resets one page to the erased pattern.
func (c *MemController) ErasePage(addr uint32) error {
	if c.FailErase != nil {
		return c.FailErase
	}
	page := c.mem[addr : int(addr)+c.geo.PageSize]
	for i := range page {
		page[i] = 0xFF
	}
	c.busyLeft = c.busyCycles
	return nil
}

// WriteWord ANDs one little-endian word into the array, clearing bits only.
func (c *MemController) WriteWord(addr uint32, word uint32) error {
	if c.FailWrite != nil {
		return c.FailWrite
	}
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], word)
	for i := 0; i < 4; i++ {
		c.mem[int(addr)+i] &= buf[i]
	}
	c.busyLeft = c.busyCycles
	return nil
}

// ReadAt copies from the array into dst.
func (c *MemController) ReadAt(dst []byte, off uint32) error {
	if c.FailRead != nil {
		return c.FailRead
	}
	copy(dst, c.mem[off:])
	return nil
}

// Bytes returns the raw backing array. Intended for persistence of the
// simulated region and for test assertions.
func (c *MemController) Bytes() []byte {
	return c.mem
}

// Restore overwrites the backing array with a previously captured region
// image. Extra input bytes are ignored; missing bytes stay erased.
func (c *MemController) Restore(img []byte) {
	for i := range c.mem {
		c.mem[i] = 0xFF
	}
	copy(c.mem, img)
}
