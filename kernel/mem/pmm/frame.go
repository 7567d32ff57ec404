// Package pmm provides access to physical memory frames and their contents.
package pmm

import "kmon/kernel/mem"

// Frame describes a physical memory page index.
type Frame uint32

// Address returns the physical memory address pointed to by this Frame.
func (f Frame) Address() uint32 {
	return uint32(f) << mem.PageShift
}

// FrameFromAddress returns a Frame that corresponds to the given physical
// address. Addresses that are not page-aligned are rounded down to the frame
// that contains them.
func FrameFromAddress(physAddr uint32) Frame {
	return Frame(physAddr >> mem.PageShift)
}
