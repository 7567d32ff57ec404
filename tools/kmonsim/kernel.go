package main

import (
	"encoding/binary"
	"errors"
	"fmt"
	"kmon/kernel/kdebug"
	"kmon/kernel/mem"
	"kmon/kernel/mem/pmm"
	"kmon/kernel/monitor"
	"os"
)

// symbolSource is implemented by objects that look up ELF symbols.
type symbolSource interface {
	Symbol(name string) (uint32, bool)
}

func loadKernel(path string) (*kdebug.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := kdebug.LoadELF(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// kernelLayout looks up the linker symbols that delimit the kernel image.
// Missing symbols are left zeroed and reported in the returned error.
func kernelLayout(syms symbolSource) (monitor.KernelLayout, error) {
	var (
		layout  monitor.KernelLayout
		missing []string
	)

	for _, sym := range []struct {
		name string
		dst  *uint32
	}{
		{"entry", &layout.Entry},
		{"etext", &layout.Etext},
		{"edata", &layout.Edata},
		{"end", &layout.End},
	} {
		addr, ok := syms.Symbol(sym.name)
		if !ok {
			missing = append(missing, sym.name)
			continue
		}
		*sym.dst = addr
	}

	if len(missing) != 0 {
		return layout, fmt.Errorf("kernel image is missing symbols %v", missing)
	}
	return layout, nil
}

// findPageDirectory returns the physical address of the page directory that
// the kernel variable kern_pgdir points to.
func findPageDirectory(syms symbolSource, physMem pmm.Memory) (uint32, error) {
	va, ok := syms.Symbol("kern_pgdir")
	if !ok {
		return 0, errors.New("kernel image has no kern_pgdir symbol; use -pgdir")
	}
	if va < mem.KernBase {
		return 0, fmt.Errorf("kern_pgdir at 0x%x is not a kernel address", va)
	}

	var buf [4]byte
	if err := pmm.Read(physMem, uint64(va-mem.KernBase), buf[:]); err != nil {
		return 0, fmt.Errorf("reading kern_pgdir at 0x%x: %s", va, err.Message)
	}

	pgdir := binary.LittleEndian.Uint32(buf[:])
	if pgdir < mem.KernBase {
		return 0, fmt.Errorf("kern_pgdir holds 0x%x which is not a kernel address", pgdir)
	}
	return pgdir - mem.KernBase, nil
}
