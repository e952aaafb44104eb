package render

import (
	"math"

	"github.com/fogleman/fauxgl"
	"github.com/soypat/scene"
	"github.com/soypat/scene/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Camera is a perspective camera looking from Position at FocalPoint.
type Camera struct {
	position  r3.Vec
	focal     r3.Vec
	viewUp    r3.Vec
	viewAngle float64 // degrees.
	near, far float64
}

// NewCamera returns a camera at (0,0,1) looking at the origin with +Y up
// and a 30 degree view angle.
func NewCamera() *Camera {
	return &Camera{
		position:  r3.Vec{Z: 1},
		viewUp:    r3.Vec{Y: 1},
		viewAngle: 30,
		near:      0.01,
		far:       1000.01,
	}
}

func (c *Camera) Position() r3.Vec   { return c.position }
func (c *Camera) FocalPoint() r3.Vec { return c.focal }
func (c *Camera) ViewUp() r3.Vec     { return c.viewUp }
func (c *Camera) ViewAngle() float64 { return c.viewAngle }

// ClippingRange returns the distances to the near and far clipping planes.
func (c *Camera) ClippingRange() (near, far float64) { return c.near, c.far }

// SetPosition moves the camera. It may not coincide with the focal point.
func (c *Camera) SetPosition(p r3.Vec) error {
	if d3.IsBad(p) || d3.IsBad(r3.Unit(r3.Sub(c.focal, p))) {
		return scene.ParamErr("camera position", p, "must be finite and differ from focal point")
	}
	c.position = p
	return nil
}

// SetFocalPoint sets the point the camera looks at. It may not coincide
// with the camera position.
func (c *Camera) SetFocalPoint(p r3.Vec) error {
	if d3.IsBad(p) || d3.IsBad(r3.Unit(r3.Sub(p, c.position))) {
		return scene.ParamErr("camera focal point", p, "must be finite and differ from position")
	}
	c.focal = p
	return nil
}

// SetViewUp sets the up direction of the camera. It is normalized.
func (c *Camera) SetViewUp(up r3.Vec) error {
	if d3.IsBad(up) || d3.IsBad(r3.Unit(up)) {
		return scene.ParamErr("camera view up", up, "must be finite and non-zero")
	}
	c.viewUp = r3.Unit(up)
	return nil
}

// SetViewAngle sets the vertical field of view in degrees.
func (c *Camera) SetViewAngle(deg float64) error {
	if math.IsNaN(deg) || deg <= 0 || deg >= 180 {
		return scene.ParamErr("camera view angle", deg, "must be in (0,180) degrees")
	}
	c.viewAngle = deg
	return nil
}

// SetClippingRange sets the near and far plane distances, 0 < near < far.
func (c *Camera) SetClippingRange(near, far float64) error {
	if math.IsNaN(near) || math.IsNaN(far) || math.IsInf(far, 0) || near <= 0 || far <= near {
		return scene.ParamErr("camera clipping range", [2]float64{near, far}, "must satisfy 0 < near < far")
	}
	c.near, c.far = near, far
	return nil
}

// Distance returns the distance from the position to the focal point.
func (c *Camera) Distance() float64 {
	return r3.Norm(r3.Sub(c.focal, c.position))
}

// DirectionOfProjection returns the unit vector from position to focal point.
func (c *Camera) DirectionOfProjection() r3.Vec {
	return r3.Unit(r3.Sub(c.focal, c.position))
}

// right returns the unit vector pointing to the right of the view.
func (c *Camera) right() r3.Vec {
	return r3.Unit(r3.Cross(c.DirectionOfProjection(), c.viewUp))
}

// Azimuth rotates the camera about the view up vector centered at the
// focal point.
func (c *Camera) Azimuth(deg float64) {
	c.orbit(c.viewUp, deg)
}

// Elevation rotates the camera about the cross product of the view up
// vector and the direction of projection, centered at the focal point.
// Positive angles move the camera up. The view up vector is not changed,
// call OrthogonalizeViewUp afterwards to keep it perpendicular.
func (c *Camera) Elevation(deg float64) {
	c.orbit(r3.Scale(-1, c.right()), deg)
}

func (c *Camera) orbit(axis r3.Vec, deg float64) {
	if deg == 0 || r3.Norm(axis) == 0 {
		return
	}
	rot := r3.NewRotation(deg*math.Pi/180, r3.Unit(axis))
	rel := rot.Rotate(r3.Sub(c.position, c.focal))
	c.position = r3.Add(c.focal, rel)
}

// Roll rotates the view up vector about the direction of projection.
func (c *Camera) Roll(deg float64) {
	if deg == 0 {
		return
	}
	rot := r3.NewRotation(deg*math.Pi/180, c.DirectionOfProjection())
	c.viewUp = r3.Unit(rot.Rotate(c.viewUp))
}

// OrthogonalizeViewUp makes the view up vector perpendicular to the
// direction of projection.
func (c *Camera) OrthogonalizeViewUp() {
	right := c.right()
	if d3.IsBad(right) {
		return
	}
	c.viewUp = r3.Unit(r3.Cross(right, c.DirectionOfProjection()))
}

// Dolly moves the camera towards the focal point dividing the distance by
// factor. factor > 1 moves closer. Non-positive factors are ignored.
func (c *Camera) Dolly(factor float64) {
	if !(factor > 0) || math.IsInf(factor, 0) {
		return
	}
	dop := c.DirectionOfProjection()
	d := c.Distance() / factor
	c.position = r3.Sub(c.focal, r3.Scale(d, dop))
}

// Zoom narrows the view angle by factor. factor > 1 zooms in.
// Non-positive factors are ignored.
func (c *Camera) Zoom(factor float64) {
	if !(factor > 0) || math.IsInf(factor, 0) {
		return
	}
	c.viewAngle = math.Min(179, math.Max(1e-3, c.viewAngle/factor))
}

// Pan translates both position and focal point in the view plane by dx
// to the right and dy up, in world units.
func (c *Camera) Pan(dx, dy float64) {
	right := c.right()
	up := r3.Cross(right, c.DirectionOfProjection())
	delta := r3.Add(r3.Scale(dx, right), r3.Scale(dy, up))
	c.position = r3.Add(c.position, delta)
	c.focal = r3.Add(c.focal, delta)
}

// ResetToBounds keeps the direction of projection and moves the camera so
// that the sphere enclosing bb fills the view.
func (c *Camera) ResetToBounds(bb r3.Box) {
	box := d3.Box(bb)
	center := box.Center()
	radius := box.Radius()
	if radius == 0 {
		radius = 0.5
	}
	dop := c.DirectionOfProjection()
	dist := radius / math.Sin(c.viewAngle*math.Pi/360)
	c.focal = center
	c.position = r3.Sub(center, r3.Scale(dist, dop))
	if r3.Norm(r3.Cross(dop, c.viewUp)) < 1e-9 {
		u, _ := d3.Basis(dop)
		c.viewUp = u
	}
	c.OrthogonalizeViewUp()
	c.ResetClippingRange(bb)
}

// ResetClippingRange places the clipping planes just outside bb.
func (c *Camera) ResetClippingRange(bb r3.Box) {
	dop := c.DirectionOfProjection()
	minD, maxD := math.Inf(1), math.Inf(-1)
	for _, v := range d3.Box(bb).Vertices() {
		d := r3.Dot(r3.Sub(v, c.position), dop)
		minD = math.Min(minD, d)
		maxD = math.Max(maxD, d)
	}
	pad := 0.01 * (maxD - minD)
	if pad == 0 {
		pad = 0.01 * math.Max(1, math.Abs(maxD))
	}
	far := maxD + pad
	near := minD - pad
	if far <= 0 {
		far = 1
	}
	if minNear := far * 1e-3; near < minNear {
		near = minNear
	}
	c.near, c.far = near, far
}

// Matrix returns the combined view and projection transform for a viewport
// of the given width/height aspect ratio.
func (c *Camera) Matrix(aspect float64) fauxgl.Matrix {
	eye := fauxgl.V(c.position.X, c.position.Y, c.position.Z)
	center := fauxgl.V(c.focal.X, c.focal.Y, c.focal.Z)
	up := fauxgl.V(c.viewUp.X, c.viewUp.Y, c.viewUp.Z)
	return fauxgl.LookAt(eye, center, up).Perspective(c.viewAngle, aspect, c.near, c.far)
}
