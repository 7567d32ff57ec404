package vmm

import (
	"kmon/kernel/mem"
	"kmon/kernel/mem/pmm"
	"kmon/kernel/mem/vmm/vmmtest"
	"testing"
)

func TestWalk(t *testing.T) {
	b := vmmtest.New(64*mem.Kb, 0x1000, 0x2000)

	// This address breaks down to:
	// pd index: 960
	// pt index: 257
	// offset  : 0x123
	targetAddr := uint32(0xf0101123)
	b.MapPage(targetAddr, 0x8000, vmmtest.Writable)

	var (
		levels  []uint8
		entries []PageTableEntry
	)
	err := walk(b.Image(), b.PageDirectory(), targetAddr, func(level uint8, pte PageTableEntry) bool {
		levels = append(levels, level)
		entries = append(entries, pte)
		return true
	})

	if err != nil {
		t.Fatal(err)
	}

	if len(levels) != pageLevels {
		t.Fatalf("expected walkFn to be called %d times; got %d", pageLevels, len(levels))
	}

	if exp := b.Uint32(0x1000 + 960*4); uint32(entries[0]) != exp {
		t.Errorf("expected level 0 entry to be 0x%x; got 0x%x", exp, uint32(entries[0]))
	}

	if exp := b.Uint32(0x2000 + 257*4); uint32(entries[1]) != exp {
		t.Errorf("expected level 1 entry to be 0x%x; got 0x%x", exp, uint32(entries[1]))
	}

	if entries[1].Address() != 0x8000 {
		t.Errorf("expected level 1 entry to point to 0x8000; got 0x%x", entries[1].Address())
	}
}

func TestWalkAbort(t *testing.T) {
	b := vmmtest.New(64*mem.Kb, 0x1000, 0x2000)
	b.MapPage(0x400000, 0x8000, 0)

	calls := 0
	err := walk(b.Image(), b.PageDirectory(), 0x400000, func(_ uint8, _ PageTableEntry) bool {
		calls++
		return false
	})

	if err != nil {
		t.Fatal(err)
	}

	if calls != 1 {
		t.Fatalf("expected walk to stop after the first level; got %d calls", calls)
	}
}

func TestWalkOutsidePhysicalMemory(t *testing.T) {
	b := vmmtest.New(16*mem.Kb, 0x1000, 0x2000)

	// Point the directory entry to a table beyond the end of memory
	b.SetPDE(0, 0x100000|vmmtest.Present)

	err := walk(b.Image(), b.PageDirectory(), 0x10, func(_ uint8, _ PageTableEntry) bool {
		return true
	})

	if err != pmm.ErrOutOfRange {
		t.Fatalf("expected pmm.ErrOutOfRange; got %v", err)
	}
}
