package vmm

import (
	"encoding/binary"
	"kmon/kernel"
	"kmon/kernel/mem"
	"kmon/kernel/mem/pmm"
)

const (
	// pageLevels indicates the number of page levels used by 32-bit x86
	// paging without PAE.
	pageLevels = 2
)

var (
	// pageLevelBits defines the number of virtual address bits that
	// correspond to each page level. Each level uses 10 bits which amounts
	// to 1024 entries per table.
	pageLevelBits = [pageLevels]uint8{
		10,
		10,
	}

	// pageLevelShifts defines the shift required to access each page table
	// component of a virtual address.
	pageLevelShifts = [pageLevels]uint8{
		22,
		12,
	}
)

// pageTableWalker is a function that can be passed to the walk method. The
// function receives the current page level and page table entry as its
// arguments.  If the function returns false, then the page walk is aborted.
type pageTableWalker func(pteLevel uint8, pte PageTableEntry) bool

// walk performs a page table walk for the given virtual address starting at
// the page directory located at pdtAddr. Entries are read from physMem and
// walkFn is called with the entry that corresponds to each page table level.
// Returning false from walkFn aborts the walk. The walk also stops with an
// error if an entry lies outside of physical memory.
func walk(physMem pmm.Memory, pdtAddr, virtAddr uint32, walkFn pageTableWalker) *kernel.Error {
	var (
		level                            uint8
		tableAddr, entryAddr, entryIndex uint32
		entryBuf                         [1 << mem.PointerShift]byte
		pte                              PageTableEntry
	)

	for level, tableAddr = uint8(0), pdtAddr; level < pageLevels; level, tableAddr = level+1, pte.Address() {
		// Extract the bits from virtual address that correspond to the
		// index in this level's page table
		entryIndex = (virtAddr >> pageLevelShifts[level]) & ((1 << pageLevelBits[level]) - 1)
		entryAddr = tableAddr + (entryIndex << mem.PointerShift)

		if err := pmm.Read(physMem, uint64(entryAddr), entryBuf[:]); err != nil {
			return err
		}

		pte = PageTableEntry(binary.LittleEndian.Uint32(entryBuf[:]))
		if !walkFn(level, pte) {
			return nil
		}
	}

	return nil
}
