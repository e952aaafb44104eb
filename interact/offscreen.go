package interact

import (
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/soypat/scene"
)

// Offscreen is a Display without a screen. Its loop replays a script of
// events, one entry per frame, and then behaves as if the user closed the
// window.
type Offscreen struct {
	script [][]Event
	// KeepOpen makes Loop keep ticking with no events after the script ends
	// instead of closing.
	KeepOpen bool
	// FrameDelay is the time Loop waits between ticks.
	FrameDelay time.Duration

	open          bool
	title         string
	width, height int
	last          *image.RGBA
	presented     int
	opens, closes int
}

var _ Display = (*Offscreen)(nil)

// NewOffscreen returns a display that replays script.
func NewOffscreen(script ...[]Event) *Offscreen {
	return &Offscreen{script: script}
}

// Open implements Display.
func (o *Offscreen) Open(title string, width, height int) error {
	if o.open {
		return errors.New("offscreen display already open")
	}
	if width <= 0 || height <= 0 {
		return scene.ParamErr("offscreen size", [2]int{width, height}, "must be positive")
	}
	o.open = true
	o.title = title
	o.width, o.height = width, height
	o.opens++
	return nil
}

// Present implements render.Surface. It keeps a copy of the frame.
func (o *Offscreen) Present(frame *image.RGBA) {
	if o.last == nil || o.last.Bounds() != frame.Bounds() {
		o.last = image.NewRGBA(frame.Bounds())
	}
	copy(o.last.Pix, frame.Pix)
	o.presented++
}

// Loop implements Display.
func (o *Offscreen) Loop(tick func(events []Event) error) error {
	if !o.open {
		return fmt.Errorf("offscreen loop: %w", scene.ErrNotConfigured)
	}
	for i := 0; o.KeepOpen || i < len(o.script); i++ {
		var events []Event
		if i < len(o.script) {
			events = o.script[i]
		}
		err := tick(events)
		if errors.Is(err, ErrLoopDone) {
			return nil
		} else if err != nil {
			return err
		}
		if o.FrameDelay > 0 {
			time.Sleep(o.FrameDelay)
		}
	}
	return nil
}

// Close implements Display.
func (o *Offscreen) Close() error {
	if !o.open {
		return errors.New("offscreen display not open")
	}
	o.open = false
	o.closes++
	return nil
}

// IsOpen reports whether the display holds resources.
func (o *Offscreen) IsOpen() bool { return o.open }

// Title returns the title the display was opened with.
func (o *Offscreen) Title() string { return o.title }

// Size returns the size the display was opened with.
func (o *Offscreen) Size() (width, height int) { return o.width, o.height }

// Last returns the last presented frame, nil if none. The display keeps
// its own copy of each frame and overwrites it on the next Present.
func (o *Offscreen) Last() *image.RGBA { return o.last }

// Presented returns how many frames were presented.
func (o *Offscreen) Presented() int { return o.presented }

// Opens and Closes return how many times the display was opened and closed.
func (o *Offscreen) Opens() int  { return o.opens }
func (o *Offscreen) Closes() int { return o.closes }
