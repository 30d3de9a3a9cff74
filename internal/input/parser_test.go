package input

import (
	"testing"
)

func TestParseSequence_Keys(t *testing.T) {
	cases := []struct {
		name     string
		in       []byte
		want     Event
		consumed int
	}{
		{"rune", []byte("q"), KeyEvent{Key: KeyRune, Rune: 'q'}, 1},
		{"utf8 rune", []byte("é"), KeyEvent{Key: KeyRune, Rune: 'é'}, 2},
		{"enter cr", []byte("\r"), KeyEvent{Key: KeyEnter}, 1},
		{"enter lf", []byte("\n"), KeyEvent{Key: KeyEnter}, 1},
		{"tab", []byte("\t"), KeyEvent{Key: KeyTab}, 1},
		{"backspace del", []byte{0x7f}, KeyEvent{Key: KeyBackspace}, 1},
		{"backspace bs", []byte{0x08}, KeyEvent{Key: KeyBackspace}, 1},
		{"ctrl-c", []byte{0x03}, KeyEvent{Key: KeyCtrlC}, 1},
		{"lone escape", []byte{0x1b}, KeyEvent{Key: KeyEscape}, 1},
		{"arrow up", []byte("\x1b[A"), KeyEvent{Key: KeyUp}, 3},
		{"arrow down", []byte("\x1b[B"), KeyEvent{Key: KeyDown}, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, n := ParseSequence(tc.in)
			if got != tc.want || n != tc.consumed {
				t.Errorf("ParseSequence(%q) = (%v, %d), want (%v, %d)",
					tc.in, got, n, tc.want, tc.consumed)
			}
		})
	}
}

func TestParseSequence_SGRMouse(t *testing.T) {
	ev, n := ParseSequence([]byte("\x1b[<0;12;5M"))
	if n != 10 {
		t.Fatalf("consumed %d, want 10", n)
	}
	me, ok := ev.(MouseEvent)
	if !ok {
		t.Fatalf("event = %T, want MouseEvent", ev)
	}
	if me.Kind != MouseLeftClick || me.X != 11 || me.Y != 4 {
		t.Errorf("got %+v, want left click at (11, 4)", me)
	}

	ev, _ = ParseSequence([]byte("\x1b[<64;1;1M"))
	if me, ok := ev.(MouseEvent); !ok || me.Kind != MouseWheelUp {
		t.Errorf("wheel up decoded as %v", ev)
	}
	ev, _ = ParseSequence([]byte("\x1b[<65;1;1M"))
	if me, ok := ev.(MouseEvent); !ok || me.Kind != MouseWheelDown {
		t.Errorf("wheel down decoded as %v", ev)
	}
}

func TestParseSequence_MouseReleaseIgnored(t *testing.T) {
	ev, n := ParseSequence([]byte("\x1b[<0;12;5m"))
	if ev != nil || n != 10 {
		t.Errorf("release = (%v, %d), want (nil, 10)", ev, n)
	}
}

func TestParseSequence_IncompleteNeedsMore(t *testing.T) {
	for _, in := range [][]byte{
		[]byte("\x1b["),
		[]byte("\x1b[<0;12"),
	} {
		if ev, n := ParseSequence(in); n != 0 {
			t.Errorf("ParseSequence(%q) = (%v, %d), want consumed 0", in, ev, n)
		}
	}
}

func TestParseSequence_UnknownCSISkipped(t *testing.T) {
	ev, n := ParseSequence([]byte("\x1b[5~q"))
	if ev != nil || n != 4 {
		t.Fatalf("unknown CSI = (%v, %d), want (nil, 4)", ev, n)
	}
}

func TestParseSequence_ControlByteIgnored(t *testing.T) {
	ev, n := ParseSequence([]byte{0x01})
	if ev != nil || n != 1 {
		t.Errorf("control byte = (%v, %d), want (nil, 1)", ev, n)
	}
}
