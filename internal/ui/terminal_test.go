package ui

import (
	"os"
	"testing"
)

func TestRestore_NoopWithoutRawState(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe failed: %v", err)
	}
	defer r.Close()

	// prev is nil once a restore has run (or if raw mode never engaged):
	// further calls must not write mode resets onto the screen.
	term := &Terminal{in: r, out: w}
	term.Restore()
	term.Restore()

	w.Close()
	buf := make([]byte, 64)
	if n, _ := r.Read(buf); n != 0 {
		t.Errorf("Restore wrote %q, want nothing", buf[:n])
	}
}
