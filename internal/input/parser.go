package input

import (
	"unicode/utf8"
)

// ParseSequence decodes the leading terminal input sequence in buf.
// It returns the decoded event and the number of bytes consumed, or
// (nil, n>0) for sequences that decode to nothing meaningful. A zero
// consumed count means buf holds an incomplete escape sequence and
// more bytes are needed.
func ParseSequence(buf []byte) (Event, int) {
	if len(buf) == 0 {
		return nil, 0
	}

	switch buf[0] {
	case 0x03:
		return KeyEvent{Key: KeyCtrlC}, 1
	case '\r', '\n':
		return KeyEvent{Key: KeyEnter}, 1
	case '\t':
		return KeyEvent{Key: KeyTab}, 1
	case 0x7f, 0x08:
		return KeyEvent{Key: KeyBackspace}, 1
	case 0x1b:
		return parseEscape(buf)
	}

	if buf[0] < 0x20 {
		// other control bytes are ignored
		return nil, 1
	}
	r, size := utf8.DecodeRune(buf)
	if r == utf8.RuneError && size == 1 {
		if !utf8.FullRune(buf) {
			return nil, 0
		}
		return nil, 1
	}
	return KeyEvent{Key: KeyRune, Rune: r}, size
}

func parseEscape(buf []byte) (Event, int) {
	// a lone ESC byte is the escape key
	if len(buf) == 1 {
		return KeyEvent{Key: KeyEscape}, 1
	}
	if buf[1] != '[' {
		return KeyEvent{Key: KeyEscape}, 1
	}
	if len(buf) < 3 {
		return nil, 0
	}

	switch buf[2] {
	case 'A':
		return KeyEvent{Key: KeyUp}, 3
	case 'B':
		return KeyEvent{Key: KeyDown}, 3
	case '<':
		return parseSGRMouse(buf)
	}

	// unrecognized CSI sequence: skip through its final byte
	for i := 2; i < len(buf); i++ {
		if buf[i] >= 0x40 && buf[i] <= 0x7e {
			return nil, i + 1
		}
	}
	return nil, 0
}

// parseSGRMouse decodes an SGR mouse report: ESC [ < b ; x ; y (M|m).
// Only left-button presses and wheel motions are reported; everything
// else, including releases, decodes to nil.
func parseSGRMouse(buf []byte) (Event, int) {
	params := [3]int{}
	idx := 0
	i := 3
	for ; i < len(buf); i++ {
		c := buf[i]
		switch {
		case c >= '0' && c <= '9':
			params[idx] = params[idx]*10 + int(c-'0')
		case c == ';':
			idx++
			if idx > 2 {
				return nil, i + 1
			}
		case c == 'M' || c == 'm':
			if idx != 2 {
				return nil, i + 1
			}
			// coordinates on the wire are 1-based
			x, y := params[1]-1, params[2]-1
			if x < 0 || y < 0 {
				return nil, i + 1
			}
			if c == 'm' {
				return nil, i + 1
			}
			switch params[0] {
			case 0:
				return MouseEvent{Kind: MouseLeftClick, X: x, Y: y}, i + 1
			case 64:
				return MouseEvent{Kind: MouseWheelUp, X: x, Y: y}, i + 1
			case 65:
				return MouseEvent{Kind: MouseWheelDown, X: x, Y: y}, i + 1
			}
			return nil, i + 1
		default:
			return nil, i + 1
		}
	}
	return nil, 0
}
