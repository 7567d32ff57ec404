package vmm

import (
	"kmon/kernel"
	"kmon/kernel/mem"
	"kmon/kernel/mem/pmm"
)

// AddressSpace inspects the mappings installed by a page directory. It only
// ever reads page tables; constructing and updating them is the job of the
// memory manager.
type AddressSpace struct {
	pdtFrame pmm.Frame
	physMem  pmm.Memory
}

// NewAddressSpace returns an AddressSpace for the page directory located at
// pdtPhysAddr. Page tables and page contents are read from physMem.
func NewAddressSpace(pdtPhysAddr uint32, physMem pmm.Memory) *AddressSpace {
	return &AddressSpace{
		pdtFrame: pmm.FrameFromAddress(pdtPhysAddr),
		physMem:  physMem,
	}
}

// MappingInfo describes the page directory and page table entries that
// translate a virtual address. It is a snapshot taken when Lookup was called.
type MappingInfo struct {
	// VirtAddr is the address that was looked up.
	VirtAddr uint32

	// PDE is the page directory entry covering VirtAddr.
	PDE PageTableEntry

	// PTE is the page table entry covering VirtAddr. It is only valid when
	// PDE is present and LargePage is false.
	PTE PageTableEntry

	// LargePage is true when PDE is present and maps a 4MB page directly.
	LargePage bool
}

// DirIndex returns the index of the page directory entry covering VirtAddr.
func (mi MappingInfo) DirIndex() uint32 {
	return mi.VirtAddr >> pageLevelShifts[0]
}

// TableIndex returns the index of the page table entry covering VirtAddr.
func (mi MappingInfo) TableIndex() uint32 {
	return (mi.VirtAddr >> pageLevelShifts[1]) & ((1 << pageLevelBits[1]) - 1)
}

// HasTable returns true if the page table entry of this mapping is valid.
func (mi MappingInfo) HasTable() bool {
	return mi.PDE.HasFlags(FlagPresent) && !mi.LargePage
}

// Mapped returns true if VirtAddr is backed by physical memory.
func (mi MappingInfo) Mapped() bool {
	return mi.LargePage || (mi.HasTable() && mi.PTE.HasFlags(FlagPresent))
}

// PhysRange returns the inclusive physical bounds of the page that the
// mapping points to. For large pages this is the whole 4MB region no matter
// where VirtAddr falls inside it.
func (mi MappingInfo) PhysRange() (uint32, uint32) {
	if mi.LargePage {
		start := mi.PDE.LargePageAddress()
		return start, start + uint32(mem.LargePageSize-1)
	}

	start := mi.PTE.Address()
	return start, start + uint32(mem.PageSize-1)
}

// PhysAddr returns the physical address that VirtAddr translates to. The
// result is only meaningful if Mapped returns true.
func (mi MappingInfo) PhysAddr() uint32 {
	if mi.LargePage {
		return mi.PDE.LargePageAddress() + LargePageOffset(mi.VirtAddr)
	}
	return mi.PTE.Address() + PageOffset(mi.VirtAddr)
}

// Lookup walks the page tables and reports the entries that translate
// virtAddr. An absent page directory entry leaves the table entry zeroed. An
// error is only returned if a page table lies outside of physical memory.
func (as *AddressSpace) Lookup(virtAddr uint32) (MappingInfo, *kernel.Error) {
	info := MappingInfo{VirtAddr: virtAddr}

	err := walk(as.physMem, as.pdtFrame.Address(), virtAddr, func(pteLevel uint8, pte PageTableEntry) bool {
		if pteLevel == 0 {
			info.PDE = pte
			info.LargePage = pte.HasFlags(FlagPresent | FlagLargePage)

			// Large pages and absent entries have no second level
			return info.HasTable()
		}

		info.PTE = pte
		return true
	})

	return info, err
}
