package main

import (
	"fmt"
	"kmon/kernel/mem/pmm"
	"os"

	"golang.org/x/sys/unix"
)

// maxImageSize is the largest physical memory image addressable with 32-bit
// physical addresses.
const maxImageSize = 1 << 32

// mapImage maps the physical memory image at path read-only. The returned
// function unmaps the image.
func mapImage(path string) (pmm.Image, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, nil, err
	}

	switch size := info.Size(); {
	case size == 0:
		return nil, nil, fmt.Errorf("%s: memory image is empty", path)
	case size > maxImageSize:
		return nil, nil, fmt.Errorf("%s: memory image exceeds 4GB", path)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(info.Size()), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: mapping memory image: %w", path, err)
	}

	return pmm.Image(data), func() error { return unix.Munmap(data) }, nil
}
