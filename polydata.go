package scene

import (
	"fmt"

	"github.com/soypat/scene/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// PolyData is a polygonal dataset: a list of vertices and a list of faces.
// Each face lists indices into Points in counter-clockwise order as seen
// from outside of the surface.
type PolyData struct {
	Points []r3.Vec
	Polys  [][]int
}

// Producer is the output port of a pipeline stage that produces polygonal
// data. Generation changes every time the data the producer would return
// changes, which lets downstream stages cache their results.
type Producer interface {
	PolyData() (PolyData, error)
	Generation() uint64
}

// NumberOfPoints returns the amount of vertices in the dataset.
func (pd PolyData) NumberOfPoints() int { return len(pd.Points) }

// NumberOfPolys returns the amount of faces in the dataset.
func (pd PolyData) NumberOfPolys() int { return len(pd.Polys) }

// Copy returns a deep copy of pd.
func (pd PolyData) Copy() PolyData {
	cp := PolyData{
		Points: append([]r3.Vec(nil), pd.Points...),
		Polys:  make([][]int, len(pd.Polys)),
	}
	for i, poly := range pd.Polys {
		cp.Polys[i] = append([]int(nil), poly...)
	}
	return cp
}

// Bounds returns the axis aligned box containing all points of pd.
// The zero box is returned for an empty dataset.
func (pd PolyData) Bounds() r3.Box {
	if len(pd.Points) == 0 {
		return r3.Box{}
	}
	bb := d3.Box{Min: pd.Points[0], Max: pd.Points[0]}
	for _, p := range pd.Points[1:] {
		bb = bb.Include(p)
	}
	return r3.Box(bb)
}

// Validate checks faces have at least three vertices and reference existing
// points, and that no point is NaN or infinite.
func (pd PolyData) Validate() error {
	for i, p := range pd.Points {
		if d3.IsBad(p) {
			return fmt.Errorf("point %d is not finite: %v", i, p)
		}
	}
	for i, poly := range pd.Polys {
		if len(poly) < 3 {
			return fmt.Errorf("face %d has %d vertices, need at least 3", i, len(poly))
		}
		for _, idx := range poly {
			if idx < 0 || idx >= len(pd.Points) {
				return fmt.Errorf("face %d references point %d out of %d", i, idx, len(pd.Points))
			}
		}
	}
	return nil
}

// Area returns the total surface area of pd's faces, computed by fan
// triangulating each face.
func (pd PolyData) Area() float64 {
	var area float64
	for _, poly := range pd.Polys {
		for j := 1; j+1 < len(poly); j++ {
			a, b, c := pd.Points[poly[0]], pd.Points[poly[j]], pd.Points[poly[j+1]]
			area += r3.Norm(r3.Cross(r3.Sub(b, a), r3.Sub(c, a))) / 2
		}
	}
	return area
}
