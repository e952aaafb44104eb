package d3

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// R3 vector helpers not provided by gonum.

// Elem returns a vector with all components set to v.
func Elem(v float64) r3.Vec {
	return r3.Vec{X: v, Y: v, Z: v}
}

// EqualWithin returns true if every component of a and b differ by at most tol.
func EqualWithin(a, b r3.Vec, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol &&
		math.Abs(a.Y-b.Y) <= tol &&
		math.Abs(a.Z-b.Z) <= tol
}

// MinElem return a vector with the minimum components of two vectors.
func MinElem(a, b r3.Vec) r3.Vec {
	return r3.Vec{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y), Z: math.Min(a.Z, b.Z)}
}

// MaxElem return a vector with the maximum components of two vectors.
func MaxElem(a, b r3.Vec) r3.Vec {
	return r3.Vec{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y), Z: math.Max(a.Z, b.Z)}
}

// IsBad returns true if any component of a is NaN or infinite.
func IsBad(a r3.Vec) bool {
	return math.IsNaN(a.X) || math.IsInf(a.X, 0) ||
		math.IsNaN(a.Y) || math.IsInf(a.Y, 0) ||
		math.IsNaN(a.Z) || math.IsInf(a.Z, 0)
}

// Basis returns two unit vectors that together with unit(dir) form a right
// handed orthonormal basis. dir must be non-zero.
func Basis(dir r3.Vec) (u, v r3.Vec) {
	n := r3.Unit(dir)
	// Pick the world axis least aligned with n to avoid a degenerate cross product.
	ref := r3.Vec{X: 1}
	a := r3.Vec{X: math.Abs(n.X), Y: math.Abs(n.Y), Z: math.Abs(n.Z)}
	if a.X > a.Y || a.X > a.Z {
		ref = r3.Vec{Y: 1}
		if a.Y > a.Z {
			ref = r3.Vec{Z: 1}
		}
	}
	u = r3.Unit(r3.Cross(n, ref))
	v = r3.Cross(n, u)
	return u, v
}
