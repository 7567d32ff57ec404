package monitor

import (
	"kmon/kernel"
	"kmon/kernel/mem/pmm"
)

const (
	dumpCols = 16

	memDumpUsage = "Command format: mem_dump p|v START END\n" +
		"\t p|v, physical address or virtual address\n" +
		"\t START <= END and they should both be in HEX form."
)

// physReader copies physical memory at physAddr into p.
type physReader func(physAddr uint64, p []byte) *kernel.Error

// cmdMemDump prints the bytes between START and END, treating them as
// physical or virtual addresses.
func cmdMemDump(m *Monitor, args []string) int {
	if len(args) != 4 || (args[1] != "p" && args[1] != "v") {
		m.Printf("%s\n", memDumpUsage)
		return 0
	}

	start, end, err := parseRange(args[2], args[3])
	if err != nil {
		m.Printf("%s\n", memDumpUsage)
		return 0
	}

	var ok bool
	if args[1] == "p" {
		ok = m.dumpPhys(start, end)
	} else {
		ok = m.dumpVirt(start, end)
	}

	if ok && end%dumpCols != dumpCols-1 {
		m.Printf("\n")
	}
	return 0
}

// dumpPhys prints the physical memory range [start, end].
func (m *Monitor) dumpPhys(start, end uint32) bool {
	read := func(physAddr uint64, p []byte) *kernel.Error {
		return pmm.Read(m.env.PhysMem, physAddr, p)
	}

	return m.dumpRange(read, uint64(start), uint64(end), uint64(start), true)
}

// dumpVirt prints the virtual memory range [start, end], one physically
// contiguous extent at a time. The dump stops at the first address without
// a valid mapping.
func (m *Monitor) dumpVirt(start, end uint32) bool {
	first := true
	for va := uint64(start); va <= uint64(end); {
		e, err := m.as.Extent(uint32(va))
		if err != nil {
			m.Printf("VA: %x has no valid physical address mapping.\n", uint32(va))
			return false
		}
		e = e.Clip(end)

		read := func(physAddr uint64, p []byte) *kernel.Error {
			return m.as.ReadExtent(e, physAddr, p)
		}
		if !m.dumpRange(read, uint64(e.PhysStart()), uint64(e.PhysEnd()), va, first) {
			return false
		}

		first = false
		va += e.Len()
	}

	return true
}

// dumpRange prints the physical bytes in [physStart, physEnd] as rows of
// dumpCols bytes. Rows are labelled with addresses counted from label. If
// pad is set and label is not row aligned, the columns of the first row that
// precede label are left blank.
func (m *Monitor) dumpRange(read physReader, physStart, physEnd, label uint64, pad bool) bool {
	if size := uint64(m.env.PhysMem.Size()); physEnd >= size {
		if physStart < size {
			physStart = size
		}
		m.Printf("PA: %x is beyond the end of physical memory.\n", physStart)
		return false
	}

	if pad && label%dumpCols != 0 {
		m.Printf("%08x   ", uint32(label&^(dumpCols-1)))
		for col := label % dumpCols; col > 0; col-- {
			m.Printf("   ")
		}
	}

	var row [dumpCols]byte
	for physAddr := physStart; physAddr <= physEnd; {
		count := dumpCols - label%dumpCols
		if rem := physEnd - physAddr + 1; rem < count {
			count = rem
		}

		if err := read(physAddr, row[:count]); err != nil {
			m.Printf("PA: %x could not be read: %s\n", physAddr, err.Message)
			return false
		}

		for _, b := range row[:count] {
			if label%dumpCols == 0 {
				m.Printf("%08x   ", uint32(label))
			}
			m.Printf("%02x ", b)
			if label%dumpCols == dumpCols-1 {
				m.Printf("\n")
			}
			label++
		}
		physAddr += count
	}

	return true
}
