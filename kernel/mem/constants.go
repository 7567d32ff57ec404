package mem

// The constants below describe the 32-bit x86 paging layout inspected by the
// monitor. They do not depend on the architecture the code is compiled for.
const (
	// PointerShift is equal to log2 of the size of a page table entry.
	PointerShift = 2

	// PageShift is equal to log2(PageSize). This constant is used when
	// we need to convert a physical address to a page number (shift right by PageShift)
	// and vice-versa.
	PageShift = 12

	// PageSize defines the size of a page mapped by a page table entry.
	PageSize = Size(1 << PageShift)

	// LargePageShift is equal to log2(LargePageSize).
	LargePageShift = 22

	// LargePageSize defines the size of a region mapped directly by a page
	// directory entry with the large page flag set. It is also the size of
	// the region covered by a single page table.
	LargePageSize = Size(1 << LargePageShift)

	// KernBase is the virtual address where the kernel maps all of physical
	// memory.
	KernBase = uint32(0xf0000000)
)
