package vmm

import (
	"encoding/binary"
	"kmon/kernel"
	"kmon/kernel/mem/pmm"
)

var (
	// ErrInvalidMapping is returned when trying to lookup a virtual memory address that is not yet mapped.
	ErrInvalidMapping = &kernel.Error{Module: "vmm", Message: "virtual address does not point to a mapped physical page"}

	errOutsideExtent = &kernel.Error{Module: "vmm", Message: "read crosses the bounds of a translated extent"}
)

// Extent describes a run of physically contiguous memory that backs a range
// of virtual addresses. Extents are only created by AddressSpace.Extent so
// holding one means that its range went through a successful translation.
type Extent struct {
	virtAddr  uint32
	physStart uint32
	physEnd   uint32
}

// VirtAddr returns the first virtual address covered by the extent.
func (e Extent) VirtAddr() uint32 {
	return e.virtAddr
}

// PhysStart returns the physical address backing VirtAddr.
func (e Extent) PhysStart() uint32 {
	return e.physStart
}

// PhysEnd returns the last physical address (inclusive) of the extent.
func (e Extent) PhysEnd() uint32 {
	return e.physEnd
}

// Len returns the number of bytes in the extent.
func (e Extent) Len() uint64 {
	return uint64(e.physEnd-e.physStart) + 1
}

// Clip returns a copy of the extent that ends at virtEnd if virtEnd falls
// before the end of the extent.
func (e Extent) Clip(virtEnd uint32) Extent {
	if virtEnd >= e.virtAddr && e.physEnd-e.physStart > virtEnd-e.virtAddr {
		e.physEnd = e.physStart + (virtEnd - e.virtAddr)
	}
	return e
}

// Extent translates virtAddr and returns the physically contiguous run that
// starts at virtAddr and ends at the last byte of the page (or large page)
// containing it. ErrInvalidMapping is returned if virtAddr is not mapped.
func (as *AddressSpace) Extent(virtAddr uint32) (Extent, *kernel.Error) {
	info, err := as.Lookup(virtAddr)
	if err != nil {
		return Extent{}, err
	}

	if !info.Mapped() {
		return Extent{}, ErrInvalidMapping
	}

	_, physEnd := info.PhysRange()
	return Extent{
		virtAddr:  virtAddr,
		physStart: info.PhysAddr(),
		physEnd:   physEnd,
	}, nil
}

// ReadExtent reads len(p) bytes starting at physAddr into p. The range must
// lie within e.
func (as *AddressSpace) ReadExtent(e Extent, physAddr uint64, p []byte) *kernel.Error {
	if len(p) == 0 {
		return nil
	}

	if physAddr < uint64(e.physStart) || physAddr+uint64(len(p))-1 > uint64(e.physEnd) {
		return errOutsideExtent
	}

	return pmm.Read(as.physMem, physAddr, p)
}

// ReadVirt reads len(p) bytes starting at virtAddr into p. Each page touched
// by the read is translated before any of its bytes are accessed; the read
// stops at the first page that is not mapped.
func (as *AddressSpace) ReadVirt(virtAddr uint32, p []byte) *kernel.Error {
	for off := 0; off < len(p); {
		e, err := as.Extent(virtAddr + uint32(off))
		if err != nil {
			return err
		}

		n := len(p) - off
		if uint64(n) > e.Len() {
			n = int(e.Len())
		}

		if err = as.ReadExtent(e, uint64(e.physStart), p[off:off+n]); err != nil {
			return err
		}
		off += n
	}

	return nil
}

// ReadUint32 reads the little-endian 32-bit word stored at virtAddr.
func (as *AddressSpace) ReadUint32(virtAddr uint32) (uint32, *kernel.Error) {
	var buf [4]byte
	if err := as.ReadVirt(virtAddr, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}
