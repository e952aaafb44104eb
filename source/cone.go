package source

import (
	"math"

	"github.com/soypat/scene"
	"github.com/soypat/scene/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

var _ scene.Producer = (*Cone)(nil)

// Cone produces a faceted right circular cone. The apex lies at
// Center + Direction*Height/2 and the base is a regular polygon of
// Resolution sides centered at Center - Direction*Height/2.
//
// The zero value is not ready for use, create Cones with NewCone.
type Cone struct {
	height     float64
	radius     float64
	resolution int
	center     r3.Vec
	direction  r3.Vec
	capping    bool

	gen    uint64 // incremented on every attribute change.
	outGen uint64 // gen at which out was generated.
	out    scene.PolyData
	valid  bool
}

// NewCone returns a cone of height 1, radius 0.5 and resolution 6 centered
// at the origin and pointing along +X with its base capped.
func NewCone() *Cone {
	return &Cone{
		height:     1,
		radius:     0.5,
		resolution: 6,
		direction:  r3.Vec{X: 1},
		capping:    true,
		gen:        1,
	}
}

// SetHeight sets the distance from the base to the apex. h must be positive.
func (c *Cone) SetHeight(h float64) error {
	if err := scene.Positive("cone height", h); err != nil {
		return err
	}
	if h != c.height {
		c.height = h
		c.modified()
	}
	return nil
}

// SetRadius sets the radius of the base circumcircle. r must be positive.
func (c *Cone) SetRadius(r float64) error {
	if err := scene.Positive("cone radius", r); err != nil {
		return err
	}
	if r != c.radius {
		c.radius = r
		c.modified()
	}
	return nil
}

// MaxResolution is the largest number of lateral faces a Cone accepts.
const MaxResolution = 512

// SetResolution sets the number of lateral faces. A closed solid needs at
// least 3.
func (c *Cone) SetResolution(n int) error {
	if n < 3 || n > MaxResolution {
		return scene.ParamErr("cone resolution", n, "must be in [3,512]")
	}
	if n != c.resolution {
		c.resolution = n
		c.modified()
	}
	return nil
}

// SetAngle sets the radius from the current height so that the half angle
// at the apex is deg degrees.
func (c *Cone) SetAngle(deg float64) error {
	if math.IsNaN(deg) || deg <= 0 || deg >= 90 {
		return scene.ParamErr("cone angle", deg, "must be in (0,90) degrees")
	}
	return c.SetRadius(c.height * math.Tan(deg*math.Pi/180))
}

// SetCenter sets the midpoint between apex and base center.
func (c *Cone) SetCenter(center r3.Vec) error {
	if d3.IsBad(center) {
		return scene.ParamErr("cone center", center, "must be finite")
	}
	if center != c.center {
		c.center = center
		c.modified()
	}
	return nil
}

// SetDirection sets the axis of the cone pointing from base to apex.
// It need not be normalized but must be non-zero.
func (c *Cone) SetDirection(dir r3.Vec) error {
	if d3.IsBad(dir) || d3.IsBad(r3.Unit(dir)) {
		return scene.ParamErr("cone direction", dir, "must be finite and non-zero")
	}
	if dir != c.direction {
		c.direction = dir
		c.modified()
	}
	return nil
}

// SetCapping sets whether the base polygon is generated.
func (c *Cone) SetCapping(capped bool) {
	if capped != c.capping {
		c.capping = capped
		c.modified()
	}
}

func (c *Cone) Height() float64   { return c.height }
func (c *Cone) Radius() float64   { return c.radius }
func (c *Cone) Resolution() int   { return c.resolution }
func (c *Cone) Center() r3.Vec    { return c.center }
func (c *Cone) Direction() r3.Vec { return c.direction }
func (c *Cone) Capping() bool     { return c.capping }

// Angle returns the half angle at the apex in degrees.
func (c *Cone) Angle() float64 {
	return math.Atan2(c.radius, c.height) * 180 / math.Pi
}

// Generation returns a number that changes every time an attribute of the
// cone changes.
func (c *Cone) Generation() uint64 { return c.gen }

// PolyData returns the cone mesh, regenerating it if any attribute changed
// since the last call. The returned value is a copy owned by the caller.
func (c *Cone) PolyData() (scene.PolyData, error) {
	if !c.valid || c.outGen != c.gen {
		c.out = c.generate()
		c.outGen = c.gen
		c.valid = true
	}
	return c.out.Copy(), nil
}

func (c *Cone) modified() { c.gen++ }

func (c *Cone) generate() scene.PolyData {
	n := c.resolution
	axis := r3.Unit(c.direction)
	u, v := d3.Basis(axis)
	half := r3.Scale(c.height/2, axis)
	apex := r3.Add(c.center, half)
	base := r3.Sub(c.center, half)

	pd := scene.PolyData{
		Points: make([]r3.Vec, 0, n+1),
		Polys:  make([][]int, 0, n+1),
	}
	pd.Points = append(pd.Points, apex)
	for i := 0; i < n; i++ {
		theta := 2 * math.Pi * float64(i) / float64(n)
		s, co := math.Sincos(theta)
		offset := r3.Add(r3.Scale(c.radius*co, u), r3.Scale(c.radius*s, v))
		pd.Points = append(pd.Points, r3.Add(base, offset))
	}
	for i := 1; i <= n; i++ {
		next := i%n + 1
		pd.Polys = append(pd.Polys, []int{0, i, next})
	}
	if c.capping {
		// Base is seen from outside looking along the axis, so reverse the order.
		bottom := make([]int, n)
		for i := range bottom {
			bottom[i] = n - i
		}
		pd.Polys = append(pd.Polys, bottom)
	}
	return pd
}
