// Package kdebug resolves kernel code addresses to source locations and
// function names.
package kdebug

import (
	"kmon/kernel"
	"sort"
)

const unknownName = "<unknown>"

var (
	// ErrNoDebugInfo is returned when an address is not covered by any
	// known function.
	ErrNoDebugInfo = &kernel.Error{Module: "kdebug", Message: "no debug information for address"}
)

// EipDebugInfo describes the source location of an instruction address.
type EipDebugInfo struct {
	// File is the source file that contains the instruction.
	File string

	// Line is the source line of the instruction.
	Line int

	// FnName is the name of the function containing the instruction. Only
	// the first FnNameLen bytes are part of the name.
	FnName string

	// FnNameLen is the length of the function name.
	FnNameLen int

	// FnAddr is the address of the first instruction of the function.
	FnAddr uint32
}

// Name returns the function name limited to FnNameLen bytes.
func (info EipDebugInfo) Name() string {
	if info.FnNameLen >= 0 && info.FnNameLen < len(info.FnName) {
		return info.FnName[:info.FnNameLen]
	}
	return info.FnName
}

// Unknown returns the debug info reported for eip when nothing is known
// about it. The function address equals eip so that offsets print as 0.
func Unknown(eip uint32) EipDebugInfo {
	return EipDebugInfo{
		File:      unknownName,
		FnName:    unknownName,
		FnNameLen: len(unknownName),
		FnAddr:    eip,
	}
}

// Resolver is implemented by objects that can look up the debug info for an
// instruction address. Implementations return ErrNoDebugInfo together with a
// best-effort info value when eip is not covered.
type Resolver interface {
	DebugInfo(eip uint32) (EipDebugInfo, *kernel.Error)
}

// LineEntry maps an instruction address to a source line.
type LineEntry struct {
	Addr uint32
	File string
	Line int
}

// Func describes the address range of a function.
type Func struct {
	Name  string
	Start uint32

	// End is the first address after the function. A zero End means that
	// the function extends till the next known function.
	End uint32
}

// SymbolTable is a Resolver backed by sorted function and line tables.
type SymbolTable struct {
	funcs []Func
	lines []LineEntry
}

// NewSymbolTable builds a SymbolTable from unsorted function and line
// entries.
func NewSymbolTable(funcs []Func, lines []LineEntry) *SymbolTable {
	st := &SymbolTable{
		funcs: append([]Func(nil), funcs...),
		lines: append([]LineEntry(nil), lines...),
	}

	sort.SliceStable(st.funcs, func(i, j int) bool { return st.funcs[i].Start < st.funcs[j].Start })
	sort.SliceStable(st.lines, func(i, j int) bool { return st.lines[i].Addr < st.lines[j].Addr })
	return st
}

// DebugInfo implements Resolver.
func (st *SymbolTable) DebugInfo(eip uint32) (EipDebugInfo, *kernel.Error) {
	info := Unknown(eip)

	// Source location
	if i := sort.Search(len(st.lines), func(i int) bool { return st.lines[i].Addr > eip }); i > 0 {
		info.File = st.lines[i-1].File
		info.Line = st.lines[i-1].Line
	}

	// Containing function
	i := sort.Search(len(st.funcs), func(i int) bool { return st.funcs[i].Start > eip })
	if i == 0 {
		return info, ErrNoDebugInfo
	}

	fn := st.funcs[i-1]
	if fn.End != 0 && eip >= fn.End {
		return info, ErrNoDebugInfo
	}

	info.FnName = fn.Name
	info.FnNameLen = len(fn.Name)
	info.FnAddr = fn.Start
	return info, nil
}
