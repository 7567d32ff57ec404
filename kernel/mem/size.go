package mem

// Size represents a memory block size in bytes.
type Size uint64

// Common memory block sizes.
const (
	Byte Size = 1
	Kb        = 1024 * Byte
	Mb        = 1024 * Kb
	Gb        = 1024 * Mb
)

// Kilobytes returns the size in KB, rounding up partial kilobytes.
func (s Size) Kilobytes() uint64 {
	return uint64((s + Kb - 1) / Kb)
}
