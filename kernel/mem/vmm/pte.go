package vmm

const (
	// ptePhysPageMask is a mask that allows us to extract the physical
	// memory address pointed to by a page table entry. Bits 12-31 contain
	// the physical frame address.
	ptePhysPageMask = uint32(0xfffff000)

	// pdeLargePageMask extracts the physical address of a 4MB page mapped
	// by a page directory entry with FlagLargePage set.
	pdeLargePageMask = uint32(0xffc00000)
)

// PageTableEntryFlag describes a flag that can be applied to a page table entry.
type PageTableEntryFlag uint32

const (
	// FlagPresent is set when the page is available in memory and not swapped out.
	FlagPresent PageTableEntryFlag = 1 << iota

	// FlagRW is set if the page can be written to.
	FlagRW

	// FlagUserAccessible is set if user-mode processes can access this page. If
	// not set only kernel code can access this page.
	FlagUserAccessible

	// FlagWriteThroughCaching implies write-through caching when set and write-back
	// caching if cleared.
	FlagWriteThroughCaching

	// FlagDoNotCache prevents this page from being cached if set.
	FlagDoNotCache

	// FlagAccessed is set by the CPU when this page is accessed.
	FlagAccessed

	// FlagDirty is set by the CPU when this page is modified.
	FlagDirty

	// FlagLargePage is set on page directory entries that map a 4MB page
	// directly instead of pointing to a page table.
	FlagLargePage

	// FlagGlobal if set, prevents the TLB from flushing the cached memory address
	// for this page when the swapping page tables by updating the CR3 register.
	FlagGlobal
)

// PageTableEntry describes a page directory or page table entry. These
// entries encode a physical address and a set of flags.
type PageTableEntry uint32

// HasFlags returns true if this entry has all the input flags set.
func (pte PageTableEntry) HasFlags(flags PageTableEntryFlag) bool {
	return (uint32(pte) & uint32(flags)) == uint32(flags)
}

// Address returns the physical address of the page or page table that this
// entry points to.
func (pte PageTableEntry) Address() uint32 {
	return uint32(pte) & ptePhysPageMask
}

// LargePageAddress returns the physical address of the 4MB page mapped by a
// page directory entry with FlagLargePage set.
func (pte PageTableEntry) LargePageAddress() uint32 {
	return uint32(pte) & pdeLargePageMask
}
