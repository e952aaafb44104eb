// Package ebitenwin shows a render window on screen with ebiten.
package ebitenwin

import (
	"errors"
	"fmt"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/soypat/scene"
	"github.com/soypat/scene/interact"
)

// Display is an on-screen interact.Display. ebiten runs a single game per
// process so a Display can run its loop only once.
type Display struct {
	title         string
	width, height int
	open          bool
	ran           bool

	frame *image.RGBA
	dirty bool
	img   *ebiten.Image

	tick         func([]interact.Event) error
	events       []interact.Event
	chars        []rune
	lastX, lastY int
}

var _ interact.Display = (*Display)(nil)

// New returns a closed display.
func New() *Display { return &Display{} }

// Open implements interact.Display. It configures the window, which appears
// when Loop is called.
func (d *Display) Open(title string, width, height int) error {
	if d.open {
		return errors.New("ebitenwin: display already open")
	}
	if width <= 0 || height <= 0 {
		return scene.ParamErr("window size", [2]int{width, height}, "must be positive")
	}
	d.title, d.width, d.height = title, width, height
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowClosingHandled(true)
	d.open = true
	return nil
}

// Present implements render.Surface. The frame is copied and uploaded on
// the next draw.
func (d *Display) Present(frame *image.RGBA) {
	if d.frame == nil || d.frame.Bounds() != frame.Bounds() {
		d.frame = image.NewRGBA(frame.Bounds())
	}
	copy(d.frame.Pix, frame.Pix)
	d.dirty = true
}

// Loop implements interact.Display. It blocks running the ebiten game loop.
func (d *Display) Loop(tick func([]interact.Event) error) error {
	if !d.open {
		return fmt.Errorf("ebitenwin loop: %w", scene.ErrNotConfigured)
	}
	if d.ran {
		return errors.New("ebitenwin: loop can only run once per process")
	}
	d.ran = true
	d.tick = tick
	d.lastX, d.lastY = ebiten.CursorPosition()
	return ebiten.RunGame(game{d})
}

// Close implements interact.Display.
func (d *Display) Close() error {
	if !d.open {
		return errors.New("ebitenwin: display not open")
	}
	if d.img != nil {
		d.img.Deallocate()
		d.img = nil
	}
	d.open = false
	return nil
}

var buttons = [...]struct {
	eb ebiten.MouseButton
	b  interact.Button
}{
	{ebiten.MouseButtonLeft, interact.ButtonLeft},
	{ebiten.MouseButtonMiddle, interact.ButtonMiddle},
	{ebiten.MouseButtonRight, interact.ButtonRight},
}

// poll gathers the input of the current frame as events.
func (d *Display) poll() []interact.Event {
	d.events = d.events[:0]
	x, y := ebiten.CursorPosition()
	shift := ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight)
	ctrl := ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight)
	add := func(ev interact.Event) {
		ev.X, ev.Y = x, y
		ev.Shift, ev.Ctrl = shift, ctrl
		d.events = append(d.events, ev)
	}
	for _, b := range buttons {
		if inpututil.IsMouseButtonJustPressed(b.eb) {
			add(interact.Event{Kind: interact.ButtonPress, Button: b.b})
		}
	}
	if x != d.lastX || y != d.lastY {
		add(interact.Event{Kind: interact.MouseMove})
		d.lastX, d.lastY = x, y
	}
	for _, b := range buttons {
		if inpututil.IsMouseButtonJustReleased(b.eb) {
			add(interact.Event{Kind: interact.ButtonRelease, Button: b.b})
		}
	}
	if _, dy := ebiten.Wheel(); dy != 0 {
		add(interact.Event{Kind: interact.Wheel, Delta: dy})
	}
	d.chars = ebiten.AppendInputChars(d.chars[:0])
	for _, r := range d.chars {
		add(interact.Event{Kind: interact.KeyPress, Key: r})
	}
	if ebiten.IsWindowBeingClosed() {
		add(interact.Event{Kind: interact.WindowClose})
	}
	return d.events
}

type game struct{ d *Display }

func (g game) Update() error {
	err := g.d.tick(g.d.poll())
	if errors.Is(err, interact.ErrLoopDone) {
		return ebiten.Termination
	}
	return err
}

func (g game) Draw(screen *ebiten.Image) {
	d := g.d
	if d.frame == nil {
		return
	}
	b := d.frame.Bounds()
	if d.img == nil || d.img.Bounds().Size() != b.Size() {
		if d.img != nil {
			d.img.Deallocate()
		}
		d.img = ebiten.NewImage(b.Dx(), b.Dy())
		d.dirty = true
	}
	if d.dirty {
		d.img.WritePixels(d.frame.Pix)
		d.dirty = false
	}
	screen.DrawImage(d.img, nil)
}

func (g game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.d.width, g.d.height
}
