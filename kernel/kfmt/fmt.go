// Package kfmt implements the formatted output primitives used by kernel
// code. Its verbs and flags follow the C cprintf conventions that the
// monitor output formats are written against.
package kfmt

import "io"

// maxBufSize defines the buffer size for formatting numbers.
const maxBufSize = 32

var (
	errMissingArg   = []byte("%!(MISSING)")
	errWrongArgType = []byte("%!(WRONGTYPE)")
	errNoVerb       = []byte("%!(NOVERB)")
	errBadVerb      = []byte("%!(BADVERB)")
	errExtraArg     = []byte("%!(EXTRA)")
	trueValue       = "true"
	falseValue      = "false"

	hexDigits = "0123456789abcdef"

	// outputSink is the io.Writer where Printf sends its output. Output is
	// dropped while no sink is attached.
	outputSink io.Writer
)

// SetOutputSink sets the default target for calls to Printf.
func SetOutputSink(w io.Writer) {
	outputSink = w
}

// OutputSink returns the writer that Printf currently writes to.
func OutputSink() io.Writer {
	return outputSink
}

// fmtSpec holds the flags and width parsed from a single formatting verb.
type fmtSpec struct {
	width     int
	zeroPad   bool
	leftAlign bool
}

// printer carries the scratch buffers used while formatting a single
// Fprintf call.
type printer struct {
	w   io.Writer
	num [maxBufSize]byte
	one [1]byte
}

// Printf writes formatted output to the active output sink.
//
// The following subset of verbs is supported:
//
// Strings:
//		%s the uninterpreted bytes of the string or byte slice
//		%c a single character
//
// Integers:
//		%o base 8
//		%d base 10
//		%x base 16, with lower-case letters for a-f
//
// Booleans:
//		%t "true" or "false"
//
// A verb may be preceded by the flags '-' (left-align within the field) and
// '0' (pad numbers with leading zeroes instead of spaces) followed by an
// optional decimal field width. Values shorter than the width are padded with
// spaces unless the '0' flag is given.
func Printf(format string, args ...interface{}) {
	Fprintf(outputSink, format, args...)
}

// Fprintf behaves exactly like Printf but it writes the formatted output to
// the specified io.Writer.
func Fprintf(w io.Writer, format string, args ...interface{}) {
	if w == nil {
		w = io.Discard
	}

	var (
		p        = printer{w: w}
		argIndex int
		spec     fmtSpec
		fmtLen   = len(format)
	)

	for i := 0; i < fmtLen; i++ {
		blockStart := i
		for i < fmtLen && format[i] != '%' {
			i++
		}
		if blockStart < i {
			io.WriteString(w, format[blockStart:i])
		}
		if i >= fmtLen {
			break
		}

		// Skip the '%' and parse flags followed by the field width
		spec = fmtSpec{}
		for i++; i < fmtLen; i++ {
			if format[i] == '-' {
				spec.leftAlign = true
			} else if format[i] == '0' {
				spec.zeroPad = true
			} else {
				break
			}
		}
		for ; i < fmtLen && format[i] >= '0' && format[i] <= '9'; i++ {
			spec.width = (spec.width * 10) + int(format[i]-'0')
		}

		if i >= fmtLen {
			w.Write(errNoVerb)
			break
		}

		verb := format[i]
		if verb == '%' {
			p.writeByte('%')
			continue
		}

		if argIndex >= len(args) {
			w.Write(errMissingArg)
			continue
		}

		arg := args[argIndex]
		argIndex++

		switch verb {
		case 'o':
			p.fmtInt(arg, 8, spec)
		case 'd':
			p.fmtInt(arg, 10, spec)
		case 'x':
			p.fmtInt(arg, 16, spec)
		case 's':
			p.fmtString(arg, spec)
		case 'c':
			p.fmtChar(arg, spec)
		case 't':
			p.fmtBool(arg, spec)
		default:
			w.Write(errBadVerb)
		}
	}

	// Check for unused args
	for ; argIndex < len(args); argIndex++ {
		w.Write(errExtraArg)
	}
}

func (p *printer) writeByte(b byte) {
	p.one[0] = b
	p.w.Write(p.one[:])
}

// fmtRepeat writes count bytes with value ch.
func (p *printer) fmtRepeat(ch byte, count int) {
	for ; count > 0; count-- {
		p.writeByte(ch)
	}
}

// fmtPadded writes s applying the field width of spec. Strings are never
// zero-padded.
func (p *printer) fmtPadded(s string, spec fmtSpec) {
	padLen := spec.width - len(s)
	if !spec.leftAlign {
		p.fmtRepeat(' ', padLen)
	}
	io.WriteString(p.w, s)
	if spec.leftAlign {
		p.fmtRepeat(' ', padLen)
	}
}

func (p *printer) fmtBool(v interface{}, spec fmtSpec) {
	bVal, ok := v.(bool)
	switch {
	case !ok:
		p.w.Write(errWrongArgType)
	case bVal:
		p.fmtPadded(trueValue, spec)
	default:
		p.fmtPadded(falseValue, spec)
	}
}

func (p *printer) fmtString(v interface{}, spec fmtSpec) {
	switch castedVal := v.(type) {
	case string:
		p.fmtPadded(castedVal, spec)
	case []byte:
		p.fmtPadded(string(castedVal), spec)
	default:
		p.w.Write(errWrongArgType)
	}
}

func (p *printer) fmtChar(v interface{}, spec fmtSpec) {
	var ch byte
	switch castedVal := v.(type) {
	case byte:
		ch = castedVal
	case rune:
		ch = byte(castedVal)
	default:
		p.w.Write(errWrongArgType)
		return
	}

	if !spec.leftAlign {
		p.fmtRepeat(' ', spec.width-1)
	}
	p.writeByte(ch)
	if spec.leftAlign {
		p.fmtRepeat(' ', spec.width-1)
	}
}

// fmtInt prints out a formatted version of v in the requested base. All
// built-in signed and unsigned integer types are supported.
func (p *printer) fmtInt(v interface{}, base uint64, spec fmtSpec) {
	var (
		uval uint64
		neg  bool
	)

	switch castedVal := v.(type) {
	case uint8:
		uval = uint64(castedVal)
	case uint16:
		uval = uint64(castedVal)
	case uint32:
		uval = uint64(castedVal)
	case uint64:
		uval = castedVal
	case uint:
		uval = uint64(castedVal)
	case uintptr:
		uval = uint64(castedVal)
	case int8:
		uval, neg = abs(int64(castedVal))
	case int16:
		uval, neg = abs(int64(castedVal))
	case int32:
		uval, neg = abs(int64(castedVal))
	case int64:
		uval, neg = abs(castedVal)
	case int:
		uval, neg = abs(int64(castedVal))
	default:
		p.w.Write(errWrongArgType)
		return
	}

	// Digits are generated right to left
	left := len(p.num)
	for {
		left--
		p.num[left] = hexDigits[uval%base]
		uval /= base
		if uval == 0 {
			break
		}
	}

	digitCount := len(p.num) - left
	if neg {
		digitCount++
	}
	padLen := spec.width - digitCount

	switch {
	case spec.leftAlign:
		if neg {
			p.writeByte('-')
		}
		p.w.Write(p.num[left:])
		p.fmtRepeat(' ', padLen)
	case spec.zeroPad:
		if neg {
			p.writeByte('-')
		}
		p.fmtRepeat('0', padLen)
		p.w.Write(p.num[left:])
	default:
		p.fmtRepeat(' ', padLen)
		if neg {
			p.writeByte('-')
		}
		p.w.Write(p.num[left:])
	}
}

// abs returns the magnitude of v and whether v is negative.
func abs(v int64) (uint64, bool) {
	if v < 0 {
		return uint64(-v), true
	}
	return uint64(v), false
}
