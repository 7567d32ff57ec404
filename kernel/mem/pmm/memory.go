package pmm

import (
	"io"
	"kmon/kernel"
	"kmon/kernel/mem"
)

var (
	// ErrOutOfRange is returned when reading physical addresses that are
	// not backed by physical memory.
	ErrOutOfRange = &kernel.Error{Module: "pmm", Message: "physical address is beyond the end of physical memory"}

	errShortRead = &kernel.Error{Module: "pmm", Message: "short read from physical memory"}
)

// Memory is implemented by objects that provide read access to the contents
// of physical memory. Offsets passed to ReadAt are physical addresses.
type Memory interface {
	io.ReaderAt

	// Size returns the number of bytes of physical memory, starting at
	// physical address 0.
	Size() mem.Size
}

// Read copies len(p) bytes of physical memory starting at physAddr into p.
// The whole range is checked against the size of m before any byte is read
// so a failed call never touches memory outside of m.
func Read(m Memory, physAddr uint64, p []byte) *kernel.Error {
	if len(p) == 0 {
		return nil
	}

	size := uint64(m.Size())
	if physAddr >= size || uint64(len(p)) > size-physAddr {
		return ErrOutOfRange
	}

	if n, _ := m.ReadAt(p, int64(physAddr)); n < len(p) {
		return errShortRead
	}

	return nil
}

// Image is a Memory backed by a byte slice holding a copy of physical
// memory that starts at physical address 0.
type Image []byte

// Size returns the number of bytes in the image.
func (img Image) Size() mem.Size {
	return mem.Size(len(img))
}

// ReadAt implements io.ReaderAt.
func (img Image) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off >= int64(len(img)) {
		return 0, io.EOF
	}

	n := copy(p, img[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}
