package monitor

import (
	"kmon/kernel"
	"strconv"
	"strings"
)

const whitespace = "\t\r\n "

// MaxArgs bounds the number of tokens in a command line. A line may hold at
// most MaxArgs-1 tokens.
const MaxArgs = 16

func isSpace(ch byte) bool {
	return strings.IndexByte(whitespace, ch) >= 0
}

// Parse splits line into whitespace separated tokens. ErrTooManyArgs is
// returned if the line holds more than MaxArgs-1 tokens.
func Parse(line string) ([]string, *kernel.Error) {
	var args []string

	for i := 0; ; {
		for i < len(line) && isSpace(line[i]) {
			i++
		}
		if i == len(line) {
			return args, nil
		}

		if len(args) == MaxArgs-1 {
			return nil, ErrTooManyArgs
		}

		start := i
		for i < len(line) && !isSpace(line[i]) {
			i++
		}
		args = append(args, line[start:i])
	}
}

// parseHex parses a 32-bit hex value with an optional 0x prefix. The whole
// token must be consumed.
func parseHex(s string) (uint32, *kernel.Error) {
	digits := s
	if len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		digits = s[2:]
	}

	v, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return 0, ErrFormat
	}
	return uint32(v), nil
}

// parseRange parses a START END pair of hex values with START <= END.
func parseRange(startArg, endArg string) (uint32, uint32, *kernel.Error) {
	start, err := parseHex(startArg)
	if err != nil {
		return 0, 0, err
	}

	end, err := parseHex(endArg)
	if err != nil {
		return 0, 0, err
	}

	if start > end {
		return 0, 0, ErrFormat
	}
	return start, end, nil
}
