package main

import (
	"fmt"
	"io"
	"kmon/device/video/console"
)

// egaToANSI maps the low three bits of an EGA color index to the matching
// ANSI color offset.
var egaToANSI = [8]int{0, 4, 2, 6, 1, 5, 3, 7}

// schemeWriter renders monitor output in the colors that a text-mode cell
// would get from the active console color scheme. Output is passed through
// untouched while the default scheme is active.
type schemeWriter struct {
	w io.Writer
}

// ansiColors returns the ANSI foreground and background codes for the
// attribute of a blank cell.
func ansiColors() (int, int, bool) {
	attr := console.ColorScheme(console.Cell(' ') &^ 0xff)
	if attr == console.SchemeDefault {
		return 0, 0, false
	}

	fg, bg := attr.Foreground(), attr.Background()
	fgCode := 30 + egaToANSI[fg&7]
	if fg&8 != 0 {
		fgCode += 60
	}
	return fgCode, 40 + egaToANSI[bg&7], true
}

func (sw *schemeWriter) Write(p []byte) (int, error) {
	fg, bg, ok := ansiColors()
	if !ok {
		return sw.w.Write(p)
	}

	if _, err := fmt.Fprintf(sw.w, "\x1b[%d;%dm", fg, bg); err != nil {
		return 0, err
	}

	n, err := sw.w.Write(p)
	if err != nil {
		return n, err
	}

	_, err = io.WriteString(sw.w, "\x1b[0m")
	return n, err
}
