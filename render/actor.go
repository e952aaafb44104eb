package render

import (
	"math"

	"github.com/fogleman/fauxgl"
	"github.com/soypat/scene"
	"github.com/soypat/scene/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Actor is a scene node that places a mapper's primitives in the world and
// gives them an appearance. An actor without a mapper is valid and draws
// nothing.
type Actor struct {
	mapper      Mapper
	prop        *Property
	visible     bool
	position    r3.Vec
	orientation r3.Vec // degrees about X, Y, Z.
	scale       r3.Vec
	origin      r3.Vec
}

// NewActor returns a visible actor with no mapper, default property and
// identity transform.
func NewActor() *Actor {
	return &Actor{
		prop:    NewProperty(),
		visible: true,
		scale:   d3.Elem(1),
	}
}

// SetMapper binds m to the actor, replacing any previous mapper.
// A nil m leaves the actor without a mapper.
func (a *Actor) SetMapper(m Mapper) { a.mapper = m }

// Mapper returns the bound mapper or nil.
func (a *Actor) Mapper() Mapper { return a.mapper }

// Property returns the actor's appearance. It is never nil.
func (a *Actor) Property() *Property { return a.prop }

// SetProperty replaces the actor's appearance. Properties may be shared
// between actors.
func (a *Actor) SetProperty(p *Property) {
	if p == nil {
		p = NewProperty()
	}
	a.prop = p
}

func (a *Actor) SetVisibility(visible bool) { a.visible = visible }
func (a *Actor) Visibility() bool           { return a.visible }

// SetPosition sets the world translation of the actor.
func (a *Actor) SetPosition(p r3.Vec) error {
	if d3.IsBad(p) {
		return scene.ParamErr("actor position", p, "must be finite")
	}
	a.position = p
	return nil
}

// SetOrientation sets rotations in degrees about the X, Y and Z axes.
// They are applied in Z, X, Y order.
func (a *Actor) SetOrientation(deg r3.Vec) error {
	if d3.IsBad(deg) {
		return scene.ParamErr("actor orientation", deg, "must be finite")
	}
	a.orientation = deg
	return nil
}

// SetScale sets the scale along each axis. All components must be positive.
func (a *Actor) SetScale(s r3.Vec) error {
	if d3.IsBad(s) || s.X <= 0 || s.Y <= 0 || s.Z <= 0 {
		return scene.ParamErr("actor scale", s, "must be positive")
	}
	a.scale = s
	return nil
}

// SetOrigin sets the point about which the actor is rotated and scaled.
func (a *Actor) SetOrigin(o r3.Vec) error {
	if d3.IsBad(o) {
		return scene.ParamErr("actor origin", o, "must be finite")
	}
	a.origin = o
	return nil
}

func (a *Actor) Position() r3.Vec    { return a.position }
func (a *Actor) Orientation() r3.Vec { return a.orientation }
func (a *Actor) Scale() r3.Vec       { return a.scale }
func (a *Actor) Origin() r3.Vec      { return a.origin }

// Matrix returns the model transform of the actor.
func (a *Actor) Matrix() fauxgl.Matrix {
	if a.position == (r3.Vec{}) && a.orientation == (r3.Vec{}) && a.scale == d3.Elem(1) {
		return fauxgl.Identity()
	}
	origin := fauxgl.V(a.origin.X, a.origin.Y, a.origin.Z)
	return fauxgl.Identity().
		Translate(origin.MulScalar(-1)).
		Scale(fauxgl.V(a.scale.X, a.scale.Y, a.scale.Z)).
		Rotate(fauxgl.V(0, 0, 1), fauxgl.Radians(a.orientation.Z)).
		Rotate(fauxgl.V(1, 0, 0), fauxgl.Radians(a.orientation.X)).
		Rotate(fauxgl.V(0, 1, 0), fauxgl.Radians(a.orientation.Y)).
		Translate(origin.Add(fauxgl.V(a.position.X, a.position.Y, a.position.Z)))
}

// Bounds returns the world space bounding box of the actor. ok is false if
// the actor has no mapper or is not visible.
func (a *Actor) Bounds() (bb r3.Box, ok bool, err error) {
	if a.mapper == nil || !a.visible {
		return r3.Box{}, false, nil
	}
	local, err := a.mapper.Bounds()
	if err != nil {
		return r3.Box{}, false, err
	}
	m := a.Matrix()
	world := d3.Empty()
	for _, v := range d3.Box(local).Vertices() {
		p := m.MulPosition(fauxgl.V(v.X, v.Y, v.Z))
		world = world.Include(r3.Vec{X: p.X, Y: p.Y, Z: p.Z})
	}
	if world.IsEmpty() || math.IsNaN(world.Min.X) {
		return r3.Box{}, false, nil
	}
	return r3.Box(world), true, nil
}
