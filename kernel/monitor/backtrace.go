package monitor

import (
	"kmon/kernel"
	"kmon/kernel/kdebug"
)

// frameArgs is the number of argument words printed for each frame.
const frameArgs = 5

// StackFrame holds the words stored at the base of a call frame.
type StackFrame struct {
	// EBP is the address of the frame.
	EBP uint32

	// Next is the saved frame pointer of the caller.
	Next uint32

	// EIP is the return address into the caller.
	EIP uint32

	Args [frameArgs]uint32
}

// readFrame reads the frame at ebp through the kernel page tables. Each
// word is translated before it is read.
func (m *Monitor) readFrame(ebp uint32) (StackFrame, *kernel.Error) {
	var (
		words [2 + frameArgs]uint32
		err   *kernel.Error
	)
	for i := range words {
		if words[i], err = m.as.ReadUint32(ebp + uint32(4*i)); err != nil {
			return StackFrame{}, err
		}
	}

	frame := StackFrame{EBP: ebp}
	frame.Next, frame.EIP = words[0], words[1]
	copy(frame.Args[:], words[2:])
	return frame, nil
}

// debugInfo resolves eip using the configured resolver. Resolvers report a
// best-effort value for unknown addresses so their error is not checked.
func (m *Monitor) debugInfo(eip uint32) kdebug.EipDebugInfo {
	if m.env.Symbols == nil {
		return kdebug.Unknown(eip)
	}

	info, _ := m.env.Symbols.DebugInfo(eip)
	return info
}

// cmdBacktrace walks the chain of saved frame pointers starting at the
// frame of the code that entered the monitor. The walk ends at a zero frame
// pointer or at the first frame that cannot be read.
func cmdBacktrace(m *Monitor, _ []string) int {
	var ebp uint32
	if m.env.ReadEBP != nil {
		ebp = m.env.ReadEBP()
	}

	m.Printf("Stack backtrace:\n")
	for ebp != 0 {
		frame, err := m.readFrame(ebp)
		if err != nil {
			m.Printf("  ebp %08x  frame is not mapped\n", ebp)
			break
		}

		m.Printf("  ebp %08x  eip %08x  args %08x %08x %08x %08x %08x\n",
			frame.EBP, frame.EIP,
			frame.Args[0], frame.Args[1], frame.Args[2], frame.Args[3], frame.Args[4],
		)

		info := m.debugInfo(frame.EIP)
		m.Printf("         %s:%d: %s+%d\n", info.File, info.Line, info.Name(), frame.EIP-info.FnAddr)

		ebp = frame.Next
	}

	return 0
}
