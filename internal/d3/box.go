package d3

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Box is a 3d bounding box.
type Box r3.Box

// Empty returns a box that contains nothing. Including a point in it
// yields the box containing only that point.
func Empty() Box {
	inf := math.Inf(1)
	return Box{Min: Elem(inf), Max: Elem(-inf)}
}

// IsEmpty returns true if the box was never extended.
func (a Box) IsEmpty() bool {
	return a.Min.X > a.Max.X || a.Min.Y > a.Max.Y || a.Min.Z > a.Max.Z
}

// Extend returns a box enclosing two 3d boxes.
func (a Box) Extend(b Box) Box {
	return Box{
		Min: MinElem(a.Min, b.Min),
		Max: MaxElem(a.Max, b.Max),
	}
}

// Include enlarges a 3d box to include a point.
func (a Box) Include(v r3.Vec) Box {
	return Box{
		Min: MinElem(a.Min, v),
		Max: MaxElem(a.Max, v),
	}
}

// Size returns the size of a 3d box.
func (a Box) Size() r3.Vec {
	return r3.Sub(a.Max, a.Min)
}

// Center returns the center of a 3d box.
func (a Box) Center() r3.Vec {
	return r3.Add(a.Min, r3.Scale(0.5, a.Size()))
}

// Radius returns half the length of the box diagonal, the radius of the
// smallest sphere centered at Center that contains the box.
func (a Box) Radius() float64 {
	return 0.5 * r3.Norm(a.Size())
}

// Vertices returns the 8 corners of the box.
func (a Box) Vertices() [8]r3.Vec {
	return [8]r3.Vec{
		a.Min,
		{X: a.Min.X, Y: a.Min.Y, Z: a.Max.Z},
		{X: a.Min.X, Y: a.Max.Y, Z: a.Min.Z},
		{X: a.Min.X, Y: a.Max.Y, Z: a.Max.Z},
		{X: a.Max.X, Y: a.Min.Y, Z: a.Min.Z},
		{X: a.Max.X, Y: a.Min.Y, Z: a.Max.Z},
		{X: a.Max.X, Y: a.Max.Y, Z: a.Min.Z},
		a.Max,
	}
}
