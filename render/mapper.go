package render

import (
	"fmt"

	"github.com/fogleman/fauxgl"
	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/scene"
	"gonum.org/v1/gonum/spatial/r3"
)

// Mapper converts geometry into primitives a Renderer can draw.
type Mapper interface {
	// Primitives returns the drawable primitives of the mapper's input.
	Primitives() (*Primitives, error)
	// Bounds returns the bounding box of the mapper's input geometry.
	Bounds() (r3.Box, error)
}

// Primitives is a triangulated, render ready version of a polygonal dataset.
// It must not be modified after creation.
type Primitives struct {
	triangles []ms3.Triangle
	mesh      *fauxgl.Mesh
}

// Triangles returns the triangles of the primitives. The returned slice
// must not be modified.
func (p *Primitives) Triangles() []ms3.Triangle { return p.triangles }

// Len returns the number of triangles.
func (p *Primitives) Len() int { return len(p.triangles) }

func (p *Primitives) fauxMesh() *fauxgl.Mesh {
	if p.mesh != nil {
		return p.mesh
	}
	tris := make([]*fauxgl.Triangle, len(p.triangles))
	for i, t := range p.triangles {
		tris[i] = fauxgl.NewTriangleForPoints(fauxVec(t[0]), fauxVec(t[1]), fauxVec(t[2]))
	}
	p.mesh = fauxgl.NewTriangleMesh(tris)
	return p.mesh
}

func fauxVec(v ms3.Vec) fauxgl.Vector {
	return fauxgl.V(float64(v.X), float64(v.Y), float64(v.Z))
}

var _ Mapper = (*PolyDataMapper)(nil)

// PolyDataMapper maps the output of a scene.Producer to Primitives by fan
// triangulating every face. The result is cached until the producer's
// generation changes.
type PolyDataMapper struct {
	input  scene.Producer
	gen    uint64
	prims  *Primitives
	bounds r3.Box
}

// NewPolyDataMapper returns a mapper with no input.
func NewPolyDataMapper() *PolyDataMapper {
	return &PolyDataMapper{}
}

// SetInputConnection binds the mapper to p, replacing any previous binding.
// A nil p unbinds the mapper.
func (m *PolyDataMapper) SetInputConnection(p scene.Producer) {
	m.input = p
	m.prims = nil
	m.bounds = r3.Box{}
}

// Input returns the bound producer or nil.
func (m *PolyDataMapper) Input() scene.Producer { return m.input }

// Primitives returns the triangulated input. It fails with
// scene.ErrNotConnected if no input is bound.
func (m *PolyDataMapper) Primitives() (*Primitives, error) {
	if err := m.update(); err != nil {
		return nil, err
	}
	return m.prims, nil
}

// Bounds returns the bounding box of the input geometry.
func (m *PolyDataMapper) Bounds() (r3.Box, error) {
	if err := m.update(); err != nil {
		return r3.Box{}, err
	}
	return m.bounds, nil
}

func (m *PolyDataMapper) update() error {
	if m.input == nil {
		return fmt.Errorf("poly data mapper has no input: %w", scene.ErrNotConnected)
	}
	gen := m.input.Generation()
	if m.prims != nil && gen == m.gen {
		return nil
	}
	pd, err := m.input.PolyData()
	if err != nil {
		return err
	}
	if err = pd.Validate(); err != nil {
		return fmt.Errorf("mapper input: %w", err)
	}
	m.prims = &Primitives{triangles: Triangulate(nil, pd)}
	m.bounds = pd.Bounds()
	m.gen = gen
	return nil
}

// Triangulate appends the fan triangulation of every face in pd to dst.
// A face of n vertices yields n-2 triangles.
func Triangulate(dst []ms3.Triangle, pd scene.PolyData) []ms3.Triangle {
	for _, poly := range pd.Polys {
		v0 := vec32(pd.Points[poly[0]])
		for j := 1; j+1 < len(poly); j++ {
			dst = append(dst, ms3.Triangle{v0, vec32(pd.Points[poly[j]]), vec32(pd.Points[poly[j+1]])})
		}
	}
	return dst
}

func vec32(v r3.Vec) ms3.Vec {
	return ms3.Vec{X: float32(v.X), Y: float32(v.Y), Z: float32(v.Z)}
}
