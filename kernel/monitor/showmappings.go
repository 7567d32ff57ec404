package monitor

import (
	"kmon/kernel/mem"
	"kmon/kernel/mem/vmm"
)

const showMappingsUsage = "Command format: mem_showmappings START END\n" +
	"\tSTART <= END and they should both be in HEX form."

func onOff(pte vmm.PageTableEntry) string {
	if pte.HasFlags(vmm.FlagPresent) {
		return " ON"
	}
	return "OFF"
}

func readWrite(pte vmm.PageTableEntry) string {
	if pte.HasFlags(vmm.FlagRW) {
		return "W"
	}
	return "R"
}

func userSupervisor(pte vmm.PageTableEntry) string {
	if pte.HasFlags(vmm.FlagUserAccessible) {
		return "U"
	}
	return "S"
}

// cmdShowMappings reports the page directory and page table entries for
// every 4KB page between START and END.
func cmdShowMappings(m *Monitor, args []string) int {
	if len(args) != 3 {
		m.Printf("%s\n", showMappingsUsage)
		return 0
	}

	start, end, err := parseRange(args[1], args[2])
	if err != nil {
		m.Printf("%s\n", showMappingsUsage)
		return 0
	}

	first := vmm.PageFromAddress(start)
	last := vmm.PageFromAddress(end)
	for page := uint64(first); page <= uint64(last); page++ {
		if !m.showMapping(vmm.Page(page).Address()) {
			break
		}
	}
	return 0
}

// showMapping prints the entries that translate the page at virtAddr. It
// returns false if the page tables could not be read.
func (m *Monitor) showMapping(virtAddr uint32) bool {
	m.Printf("VA: 0x%08x to 0x%08x\n", virtAddr, virtAddr+uint32(mem.PageSize-1))

	info, err := m.as.Lookup(virtAddr)
	if err != nil {
		m.Printf("    page tables are beyond the end of physical memory\n")
		return false
	}

	if info.LargePage {
		physStart, physEnd := info.PhysRange()
		m.Printf("    PDE[%4d] P = %s | R/W = %s | S/U = %s | 0x%08x - 0x%08x\n",
			info.DirIndex(), onOff(info.PDE), readWrite(info.PDE), userSupervisor(info.PDE),
			physStart, physEnd,
		)
		return true
	}

	m.Printf("    PDE[%4d], P = %s | R/W = %s | S/U = %s\n",
		info.DirIndex(), onOff(info.PDE), readWrite(info.PDE), userSupervisor(info.PDE),
	)
	if !info.HasTable() {
		return true
	}

	physStart, physEnd := info.PhysRange()
	m.Printf("    PTE[%4d], P = %s | R/W = %s | S/U = %s | 0x%08x - 0x%08x\n",
		info.TableIndex(), onOff(info.PTE), readWrite(info.PTE), userSupervisor(info.PTE),
		physStart, physEnd,
	)
	return true
}
