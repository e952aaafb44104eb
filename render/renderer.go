package render

import (
	"fmt"
	"image"
	"math"

	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"
	"github.com/soypat/scene"
	"github.com/soypat/scene/internal/d3"
	"golang.org/x/image/draw"
	"gonum.org/v1/gonum/spatial/r3"
)

const defaultSize = 300

// Renderer draws a set of actors as seen from its camera over a background
// color. A Renderer draws into its own frame which a Window composites
// into its viewport.
type Renderer struct {
	actors      []*Actor
	background  scene.Color
	camera      *Camera
	cameraReset bool // whether the default camera has been fitted to the scene.
	viewport    [4]float64
	supersample int

	width, height int
	ctx           *fauxgl.Context
	frame         *image.RGBA
}

// NewRenderer returns a renderer with black background covering the whole
// window.
func NewRenderer() *Renderer {
	return &Renderer{
		viewport:    [4]float64{0, 0, 1, 1},
		supersample: 1,
		width:       defaultSize,
		height:      defaultSize,
	}
}

// AddActor adds a to the renderer. Adding an actor already present or a
// nil actor does nothing.
func (r *Renderer) AddActor(a *Actor) {
	if a == nil || r.HasActor(a) {
		return
	}
	r.actors = append(r.actors, a)
}

// RemoveActor removes a from the renderer. It does nothing if a is absent.
func (r *Renderer) RemoveActor(a *Actor) {
	for i, got := range r.actors {
		if got == a {
			r.actors = append(r.actors[:i], r.actors[i+1:]...)
			return
		}
	}
}

// HasActor reports whether a was added to the renderer.
func (r *Renderer) HasActor(a *Actor) bool {
	for _, got := range r.actors {
		if got == a {
			return true
		}
	}
	return false
}

// Actors returns the actors in draw order.
func (r *Renderer) Actors() []*Actor {
	return append([]*Actor(nil), r.actors...)
}

// NumberOfActors returns how many actors the renderer holds.
func (r *Renderer) NumberOfActors() int { return len(r.actors) }

// SetBackground sets the clear color. Components must be in [0,1].
func (r *Renderer) SetBackground(red, green, blue float64) error {
	c, err := scene.NewColor(red, green, blue)
	if err != nil {
		return fmt.Errorf("renderer background: %w", err)
	}
	r.background = c
	return nil
}

// Background returns the clear color.
func (r *Renderer) Background() scene.Color { return r.background }

// SetViewport sets the normalized region of the window the renderer draws
// into. The origin is the lower left corner of the window.
func (r *Renderer) SetViewport(xmin, ymin, xmax, ymax float64) error {
	for _, v := range [4]float64{xmin, ymin, xmax, ymax} {
		if err := scene.Unit("viewport", v); err != nil {
			return err
		}
	}
	if xmin >= xmax || ymin >= ymax {
		return scene.ParamErr("viewport", [4]float64{xmin, ymin, xmax, ymax}, "must have min < max")
	}
	r.viewport = [4]float64{xmin, ymin, xmax, ymax}
	return nil
}

// Viewport returns the normalized viewport as xmin, ymin, xmax, ymax.
func (r *Renderer) Viewport() [4]float64 { return r.viewport }

// SetSupersample sets the antialiasing factor. The scene is rasterized at k
// times the frame size and downsampled.
func (r *Renderer) SetSupersample(k int) error {
	if k < 1 || k > 8 {
		return scene.ParamErr("supersample", k, "must be in [1,8]")
	}
	r.supersample = k
	return nil
}

// SetSize sets the size of the renderer's frame in pixels. Windows set it
// from the viewport before every render.
func (r *Renderer) SetSize(width, height int) error {
	if width <= 0 || height <= 0 {
		return scene.ParamErr("renderer size", [2]int{width, height}, "must be positive")
	}
	r.width, r.height = width, height
	return nil
}

// Size returns the frame size in pixels.
func (r *Renderer) Size() (width, height int) { return r.width, r.height }

// ActiveCamera returns the renderer's camera, creating a default one if
// none was set.
func (r *Renderer) ActiveCamera() *Camera {
	if r.camera == nil {
		r.camera = NewCamera()
	}
	return r.camera
}

// SetActiveCamera replaces the camera. A camera set explicitly is not
// fitted to the scene automatically on first render.
func (r *Renderer) SetActiveCamera(c *Camera) {
	r.camera = c
	r.cameraReset = c != nil
}

// VisibleBounds returns the bounds of all visible actors with a mapper.
// ok is false if there are none.
func (r *Renderer) VisibleBounds() (bb r3.Box, ok bool, err error) {
	box := d3.Empty()
	for _, a := range r.actors {
		abb, aok, err := a.Bounds()
		if err != nil {
			return r3.Box{}, false, err
		}
		if aok {
			box = box.Extend(d3.Box(abb))
		}
	}
	if box.IsEmpty() {
		return r3.Box{}, false, nil
	}
	return r3.Box(box), true, nil
}

// ResetCamera fits the camera to the visible actors keeping its direction.
// It does nothing when there is nothing visible.
func (r *Renderer) ResetCamera() error {
	bb, ok, err := r.VisibleBounds()
	if err != nil {
		return err
	}
	if ok {
		r.ActiveCamera().ResetToBounds(bb)
		r.cameraReset = true
	}
	return nil
}

// Render clears the frame to the background color and draws every visible
// actor that has a mapper. Calling Render again with no changes in between
// produces the same frame.
func (r *Renderer) Render() error {
	bb, ok, err := r.VisibleBounds()
	if err != nil {
		return err
	}
	cam := r.ActiveCamera()
	if ok {
		if !r.cameraReset {
			cam.ResetToBounds(bb)
			r.cameraReset = true
		}
		cam.ResetClippingRange(bb)
	}

	k := r.supersample
	ctx := r.context(r.width*k, r.height*k)
	ctx.ClearColorBufferWith(fauxColor(r.background))
	ctx.ClearDepthBuffer()

	matrix := cam.Matrix(float64(r.width) / float64(r.height))
	eyePos := cam.Position()
	eye := fauxgl.V(eyePos.X, eyePos.Y, eyePos.Z)
	dop := cam.DirectionOfProjection()
	headlight := fauxgl.V(-dop.X, -dop.Y, -dop.Z)
	for i, a := range r.actors {
		if !a.visible || a.mapper == nil {
			continue
		}
		prims, err := a.mapper.Primitives()
		if err != nil {
			return fmt.Errorf("actor %d: %w", i, err)
		}
		mesh := prims.fauxMesh()
		if m := a.Matrix(); m != fauxgl.Identity() {
			mesh = mesh.Copy()
			mesh.Transform(m)
		}
		ctx.Shader = a.prop.shader(matrix, headlight, eye)
		ctx.Wireframe = a.prop.rep == RepWireframe
		ctx.DrawMesh(mesh)
	}

	var img image.Image = ctx.Image()
	if k > 1 {
		img = resize.Resize(uint(r.width), uint(r.height), img, resize.Bilinear)
	}
	if r.frame == nil || r.frame.Bounds().Dx() != r.width || r.frame.Bounds().Dy() != r.height {
		r.frame = image.NewRGBA(image.Rect(0, 0, r.width, r.height))
	}
	draw.Draw(r.frame, r.frame.Bounds(), img, img.Bounds().Min, draw.Src)
	return nil
}

// Frame returns the last rendered frame or nil if Render was never called.
// The frame is reused by the next Render.
func (r *Renderer) Frame() *image.RGBA { return r.frame }

func (r *Renderer) context(width, height int) *fauxgl.Context {
	if r.ctx == nil || r.ctx.Width != width || r.ctx.Height != height {
		r.ctx = fauxgl.NewContext(width, height)
		r.ctx.Cull = fauxgl.CullNone
	}
	return r.ctx
}

// ViewportRect returns the region of a width x height window covered by the
// viewport, in image coordinates (origin top left).
func (r *Renderer) ViewportRect(width, height int) image.Rectangle {
	vp := r.viewport
	x0 := int(math.Round(vp[0] * float64(width)))
	x1 := int(math.Round(vp[2] * float64(width)))
	y0 := int(math.Round((1 - vp[3]) * float64(height)))
	y1 := int(math.Round((1 - vp[1]) * float64(height)))
	return image.Rect(x0, y0, x1, y1)
}
