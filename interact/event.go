package interact

import (
	"errors"

	"github.com/soypat/scene/render"
)

// ErrLoopDone is returned by a tick function to make Display.Loop return nil.
var ErrLoopDone = errors.New("interact: loop done")

// EventKind identifies the type of an input Event.
type EventKind uint8

const (
	_ EventKind = iota
	MouseMove
	ButtonPress
	ButtonRelease
	Wheel
	KeyPress
	// WindowClose is sent when the user asks to close the window.
	WindowClose
)

func (k EventKind) String() string {
	switch k {
	case MouseMove:
		return "mousemove"
	case ButtonPress:
		return "press"
	case ButtonRelease:
		return "release"
	case Wheel:
		return "wheel"
	case KeyPress:
		return "key"
	case WindowClose:
		return "close"
	}
	return "unknown"
}

// Button is a pointer button.
type Button uint8

const (
	ButtonLeft Button = iota
	ButtonMiddle
	ButtonRight
)

// Event is a single input event. Pointer coordinates are in window pixels
// with the origin at the top left corner.
type Event struct {
	Kind   EventKind
	X, Y   int
	Button Button
	// Key is the character of a KeyPress event.
	Key rune
	// Delta is the wheel motion, positive when scrolling away from the user.
	Delta float64
	Shift bool
	Ctrl  bool
}

// Display is a window on screen or elsewhere that shows rendered frames and
// produces input events.
type Display interface {
	render.Surface
	// Open acquires the display resources.
	Open(title string, width, height int) error
	// Loop calls tick once per frame with the events gathered since the
	// previous call until the window is closed or tick returns an error.
	// Loop returns nil when the window is closed or tick returns ErrLoopDone.
	Loop(tick func(events []Event) error) error
	// Close releases the display resources.
	Close() error
}

// Drag returns the events of dragging the pointer with button from (x0,y0)
// to (x1,y1) in steps moves.
func Drag(button Button, x0, y0, x1, y1, steps int) []Event {
	if steps < 1 {
		steps = 1
	}
	events := make([]Event, 0, steps+2)
	events = append(events, Event{Kind: ButtonPress, Button: button, X: x0, Y: y0})
	for i := 1; i <= steps; i++ {
		events = append(events, Event{
			Kind: MouseMove,
			X:    x0 + (x1-x0)*i/steps,
			Y:    y0 + (y1-y0)*i/steps,
		})
	}
	return append(events, Event{Kind: ButtonRelease, Button: button, X: x1, Y: y1})
}
