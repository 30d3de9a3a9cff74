package ui

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

// Terminal owns the raw-mode and screen-mode lifecycle: alternate
// screen, hidden cursor and SGR mouse reporting while the dashboard
// runs, all restored on exit.
type Terminal struct {
	in   *os.File
	out  *os.File
	prev *term.State
}

// OpenTerminal switches the terminal into dashboard mode.
func OpenTerminal() (*Terminal, error) {
	in, out := os.Stdin, os.Stdout
	if !term.IsTerminal(int(in.Fd())) {
		return nil, fmt.Errorf("stdin is not a terminal")
	}
	prev, err := term.MakeRaw(int(in.Fd()))
	if err != nil {
		return nil, fmt.Errorf("failed to enter raw mode: %w", err)
	}
	fmt.Fprint(out, "\x1b[?1049h\x1b[?25l\x1b[?1000h\x1b[?1006h")
	return &Terminal{in: in, out: out, prev: prev}, nil
}

// Out is the writer the renderer draws to.
func (t *Terminal) Out() *os.File { return t.out }

// In is the raw input stream.
func (t *Terminal) In() *os.File { return t.in }

// Size returns the current terminal dimensions, falling back to 80x24
// when they cannot be determined.
func (t *Terminal) Size() (width, height int) {
	width, height, err := term.GetSize(int(t.out.Fd()))
	if err != nil || width <= 0 || height <= 0 {
		return 80, 24
	}
	return width, height
}

// Restore leaves dashboard mode and returns the terminal to its
// previous state. Only the first call emits the mode resets; repeated
// calls are no-ops so every exit path can restore unconditionally.
func (t *Terminal) Restore() {
	if t.prev == nil {
		return
	}
	fmt.Fprint(t.out, "\x1b[?1006l\x1b[?1000l\x1b[?25h\x1b[?1049l")
	term.Restore(int(t.in.Fd()), t.prev)
	t.prev = nil
}
