package input

// Key identifies a decoded keyboard key.
type Key int

const (
	KeyRune Key = iota
	KeyEnter
	KeyEscape
	KeyBackspace
	KeyTab
	KeyUp
	KeyDown
	KeyCtrlC
)

// MouseKind identifies a decoded mouse action.
type MouseKind int

const (
	MouseLeftClick MouseKind = iota
	MouseWheelUp
	MouseWheelDown
)

// Event is a decoded terminal input event.
type Event interface {
	isInputEvent()
}

// KeyEvent is a single key press. Rune is set only for KeyRune.
type KeyEvent struct {
	Key  Key
	Rune rune
}

// MouseEvent is a mouse action at 0-based cell coordinates.
type MouseEvent struct {
	Kind MouseKind
	X, Y int
}

func (KeyEvent) isInputEvent()   {}
func (MouseEvent) isInputEvent() {}
