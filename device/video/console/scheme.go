// Package console keeps the display color scheme shared by everything that
// writes to the text-mode console.
package console

// ColorScheme holds the attribute byte of a text-mode cell, shifted into the
// high byte of the cell. The low nibble of the attribute selects the
// foreground color and the high nibble selects the background color.
type ColorScheme uint16

const (
	// SchemeDefault renders light gray text on a black background.
	SchemeDefault ColorScheme = 0x0700

	// SchemeMatrix renders green text on a black background.
	SchemeMatrix ColorScheme = 0x0200

	attrMask = 0xff00
)

// activeScheme is read by the console output path and written by the
// monitor. The kernel runs the monitor to completion on a single CPU so
// accesses never overlap.
var activeScheme = SchemeDefault

// ActiveColorScheme returns the scheme applied to cells without an
// explicit attribute.
func ActiveColorScheme() ColorScheme {
	return activeScheme
}

// SetColorScheme replaces the active color scheme.
func SetColorScheme(scheme ColorScheme) {
	activeScheme = scheme
}

// Foreground returns the EGA foreground color index of the scheme.
func (s ColorScheme) Foreground() uint8 {
	return uint8(s>>8) & 0xf
}

// Background returns the EGA background color index of the scheme.
func (s ColorScheme) Background() uint8 {
	return uint8(s>>12) & 0xf
}

// Cell encodes ch as a text-mode cell. Cells that do not carry an attribute
// are rendered with the active color scheme.
func Cell(ch uint16) uint16 {
	if ch&attrMask == 0 {
		ch |= uint16(activeScheme)
	}
	return ch
}
