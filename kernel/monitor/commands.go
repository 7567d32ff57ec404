package monitor

import (
	"kmon/device/video/console"
	"kmon/kernel/mem"
)

const (
	matrixUsage = "Command format: matrix on|off"
	matrixOK    = "You should already see the difference. :-)"
)

func builtinCommands() []Command {
	return []Command{
		{Name: "help", Desc: "Display this list of commands", Func: cmdHelp},
		{Name: "kerninfo", Desc: "Display information about the kernel", Func: cmdKernInfo},
		{Name: "backtrace", Desc: "Display stack backtrace", Func: cmdBacktrace},
		{Name: "matrix", Desc: "Turn on/off matrix style", Func: cmdMatrix},
		{Name: "mem_showmappings", Desc: "Show virtual memory mappings", Func: cmdShowMappings},
		{Name: "mem_dump", Desc: "dump memory", Func: cmdMemDump},
	}
}

func cmdHelp(m *Monitor, _ []string) int {
	for _, cmd := range m.commands {
		m.Printf("%s - %s\n", cmd.Name, cmd.Desc)
	}
	return 0
}

func cmdKernInfo(m *Monitor, _ []string) int {
	layout := m.env.Layout

	m.Printf("Special kernel symbols:\n")
	for _, sym := range []struct {
		name string
		addr uint32
	}{
		{"entry", layout.Entry},
		{"etext", layout.Etext},
		{"edata", layout.Edata},
		{"end", layout.End},
	} {
		m.Printf("  %-6s %08x (virt)  %08x (phys)\n", sym.name, sym.addr, sym.addr-mem.KernBase)
	}

	m.Printf("Kernel executable memory footprint: %dKB\n", mem.Size(layout.End-layout.Entry).Kilobytes())
	return 0
}

func cmdMatrix(m *Monitor, args []string) int {
	if len(args) != 2 {
		m.Printf("%s\n", matrixUsage)
		return 0
	}

	switch args[1] {
	case "on":
		console.SetColorScheme(console.SchemeMatrix)
	case "off":
		console.SetColorScheme(console.SchemeDefault)
	default:
		m.Printf("%s\n", matrixUsage)
		return 0
	}

	m.Printf("%s\n", matrixOK)
	return 0
}
