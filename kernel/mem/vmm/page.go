package vmm

import "kmon/kernel/mem"

// Page describes a virtual memory page index.
type Page uint32

// Address returns the virtual memory address pointed to by this Page.
func (p Page) Address() uint32 {
	return uint32(p) << mem.PageShift
}

// PageFromAddress returns a Page that corresponds to the given virtual
// address. This function can handle both page-aligned and not aligned virtual
// addresses. in the latter case, the input address will be rounded down to the
// page that contains it.
func PageFromAddress(virtAddr uint32) Page {
	return Page(virtAddr >> mem.PageShift)
}

// PageOffset returns the offset within the page specified by a virtual
// address.
func PageOffset(virtAddr uint32) uint32 {
	return virtAddr & uint32(mem.PageSize-1)
}

// LargePageOffset returns the offset of a virtual address within the large
// page that contains it.
func LargePageOffset(virtAddr uint32) uint32 {
	return virtAddr & uint32(mem.LargePageSize-1)
}
