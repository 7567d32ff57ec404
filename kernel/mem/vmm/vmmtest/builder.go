// Package vmmtest builds physical memory images that contain 32-bit x86 page
// tables. It is used by tests that need a populated address space without
// running on real hardware.
package vmmtest

import (
	"encoding/binary"
	"kmon/kernel/mem"
	"kmon/kernel/mem/pmm"
)

// Raw entry bits understood by the builder.
const (
	Present   = uint32(1 << 0)
	Writable  = uint32(1 << 1)
	User      = uint32(1 << 2)
	LargePage = uint32(1 << 7)
)

// Builder populates a physical memory image with a page directory and the
// page tables it points to.
type Builder struct {
	img       pmm.Image
	pgdir     uint32
	nextTable uint32
}

// New returns a builder for an image of size bytes. The page directory is
// placed at pgdirAddr and page tables are allocated one page at a time
// starting at tableAddr.
func New(size mem.Size, pgdirAddr, tableAddr uint32) *Builder {
	return &Builder{
		img:       make(pmm.Image, size),
		pgdir:     pgdirAddr,
		nextTable: tableAddr,
	}
}

// Image returns the physical memory image.
func (b *Builder) Image() pmm.Image {
	return b.img
}

// PageDirectory returns the physical address of the page directory.
func (b *Builder) PageDirectory() uint32 {
	return b.pgdir
}

// PutUint32 stores v at physAddr using the little-endian byte order.
func (b *Builder) PutUint32(physAddr, v uint32) {
	binary.LittleEndian.PutUint32(b.img[physAddr:], v)
}

// Uint32 loads the little-endian value stored at physAddr.
func (b *Builder) Uint32(physAddr uint32) uint32 {
	return binary.LittleEndian.Uint32(b.img[physAddr:])
}

// Fill copies data into the image starting at physAddr.
func (b *Builder) Fill(physAddr uint32, data []byte) {
	copy(b.img[physAddr:], data)
}

// SetPDE stores a raw page directory entry for the region containing va.
func (b *Builder) SetPDE(va, entry uint32) {
	b.PutUint32(b.pdeAddr(va), entry)
}

// SetPTE stores a raw page table entry for va, allocating a page table and
// pointing a present, writable, user accessible directory entry to it if
// the region has no table yet.
func (b *Builder) SetPTE(va, entry uint32) {
	b.PutUint32(b.pteAddr(va), entry)
}

// MapPage maps the 4KB page containing va to the frame containing pa.
func (b *Builder) MapPage(va, pa, flags uint32) {
	b.SetPTE(va, (pa&^0xfff)|flags|Present)
}

// MapLarge maps the 4MB region containing va to the 4MB aligned region
// containing pa.
func (b *Builder) MapLarge(va, pa, flags uint32) {
	b.SetPDE(va, (pa&^0x3fffff)|flags|Present|LargePage)
}

func (b *Builder) pdeAddr(va uint32) uint32 {
	return b.pgdir + (va>>22)<<2
}

func (b *Builder) pteAddr(va uint32) uint32 {
	pde := b.Uint32(b.pdeAddr(va))
	if pde&Present == 0 || pde&LargePage != 0 {
		pde = b.nextTable | Present | Writable | User
		b.nextTable += uint32(mem.PageSize)
		b.SetPDE(va, pde)
	}

	return (pde &^ 0xfff) + ((va>>12)&0x3ff)<<2
}
