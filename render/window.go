package render

import (
	"fmt"
	"image"

	"github.com/fogleman/fauxgl"
	"github.com/soypat/scene"
	"golang.org/x/image/draw"
)

// Surface shows finished window frames, usually on a display.
type Surface interface {
	Present(frame *image.RGBA)
}

// Window owns renderers and composites their frames into a single image
// which is presented to its Surface.
type Window struct {
	renderers     []*Renderer
	width, height int
	title         string
	surface       Surface
	buf           *image.RGBA
	frames        uint64
}

// NewWindow returns a 300x300 window with no renderers and no surface.
func NewWindow() *Window {
	return &Window{
		width:  defaultSize,
		height: defaultSize,
		title:  "scene",
	}
}

// AddRenderer adds r to the window. Adding a renderer already present or a
// nil renderer does nothing.
func (w *Window) AddRenderer(r *Renderer) {
	if r == nil || w.HasRenderer(r) {
		return
	}
	w.renderers = append(w.renderers, r)
}

// RemoveRenderer removes r from the window. It does nothing if r is absent.
func (w *Window) RemoveRenderer(r *Renderer) {
	for i, got := range w.renderers {
		if got == r {
			w.renderers = append(w.renderers[:i], w.renderers[i+1:]...)
			return
		}
	}
}

// HasRenderer reports whether r was added to the window.
func (w *Window) HasRenderer(r *Renderer) bool {
	for _, got := range w.renderers {
		if got == r {
			return true
		}
	}
	return false
}

// Renderers returns the renderers in the order they are drawn.
func (w *Window) Renderers() []*Renderer {
	return append([]*Renderer(nil), w.renderers...)
}

// SetSize sets the window size in pixels.
func (w *Window) SetSize(width, height int) error {
	if width <= 0 || height <= 0 {
		return scene.ParamErr("window size", [2]int{width, height}, "must be positive")
	}
	w.width, w.height = width, height
	return nil
}

// Size returns the window size in pixels.
func (w *Window) Size() (width, height int) { return w.width, w.height }

func (w *Window) SetTitle(title string) { w.title = title }
func (w *Window) Title() string         { return w.title }

// SetSurface sets where rendered frames are presented. A nil surface
// renders offscreen.
func (w *Window) SetSurface(s Surface) { w.surface = s }

// Surface returns the presentation surface or nil.
func (w *Window) Surface() Surface { return w.surface }

// Render renders every renderer in insertion order, composites the frames
// into the window image and presents it to the surface, if any.
func (w *Window) Render() error {
	if len(w.renderers) == 0 {
		return fmt.Errorf("window has no renderers: %w", scene.ErrNotConfigured)
	}
	if w.buf == nil || w.buf.Bounds().Dx() != w.width || w.buf.Bounds().Dy() != w.height {
		w.buf = image.NewRGBA(image.Rect(0, 0, w.width, w.height))
	}
	for i, r := range w.renderers {
		rect := r.ViewportRect(w.width, w.height)
		if rect.Empty() {
			continue
		}
		if err := r.SetSize(rect.Dx(), rect.Dy()); err != nil {
			return err
		}
		if err := r.Render(); err != nil {
			return fmt.Errorf("renderer %d: %w", i, err)
		}
		draw.Draw(w.buf, rect, r.Frame(), image.Point{}, draw.Src)
	}
	w.frames++
	if w.surface != nil {
		w.surface.Present(w.buf)
	}
	return nil
}

// Image returns the last composited frame, nil before the first Render.
// It is reused by the next Render.
func (w *Window) Image() *image.RGBA { return w.buf }

// Frames returns how many times the window was rendered.
func (w *Window) Frames() uint64 { return w.frames }

// FindPokedRenderer returns the last renderer whose viewport contains the
// pixel (x, y), measured from the top left corner of the window.
func (w *Window) FindPokedRenderer(x, y int) *Renderer {
	pt := image.Pt(x, y)
	for i := len(w.renderers) - 1; i >= 0; i-- {
		r := w.renderers[i]
		if pt.In(r.ViewportRect(w.width, w.height)) {
			return r
		}
	}
	if len(w.renderers) > 0 {
		return w.renderers[0]
	}
	return nil
}

// SavePNG writes the last composited frame to a PNG file.
func (w *Window) SavePNG(path string) error {
	if w.buf == nil {
		return fmt.Errorf("window was never rendered: %w", scene.ErrNotConfigured)
	}
	return fauxgl.SavePNG(path, w.buf)
}
