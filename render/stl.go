package render

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms3"
)

// CreateSTL writes the primitives of m to a binary STL file at path.
func CreateSTL(path string, m Mapper) error {
	prims, err := m.Primitives()
	if err != nil {
		return err
	}
	fp, err := os.Create(path)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(fp)
	_, err = WriteSTL(bw, prims.Triangles())
	if err == nil {
		err = bw.Flush()
	}
	if cerr := fp.Close(); err == nil {
		err = cerr
	}
	return err
}

// WriteSTL writes model triangles to a writer in binary STL file format.
func WriteSTL(w io.Writer, model []ms3.Triangle) (int, error) {
	if len(model) == 0 {
		return 0, errors.New("empty triangle slice")
	}
	nt := int64(len(model)) // int64 so the comparison works on 32 bit machines.
	if nt > math.MaxUint32 {
		return 0, errors.New("amount of triangles in model exceeds STL design limits")
	}
	header := stlHeader{Count: uint32(nt)}

	var buf [84]byte
	header.put(buf[:])
	n, err := w.Write(buf[:84])
	if err != nil {
		return n, err
	} else if n != len(buf) {
		return n, io.ErrShortWrite
	}
	var d stlTriangle
	for _, triangle := range model {
		d = makeSTLTriangle(triangle)
		d.put(buf[:])
		ngot, err := w.Write(buf[:stlTriangleSize])
		n += ngot
		if err != nil {
			return n, err
		} else if ngot != stlTriangleSize {
			return n, io.ErrShortWrite
		}
	}
	return n, nil
}

// ReadSTL reads a binary STL file. Triangles whose stored normal does not
// match the winding of their vertices are still returned.
func ReadSTL(r io.Reader) ([]ms3.Triangle, error) {
	var buf [84]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return nil, errors.New("encountered EOF while reading STL header")
		}
		return nil, fmt.Errorf("STL header read failed: %w", err)
	}
	var header stlHeader
	header.get(buf[:])
	if header.Count == 0 {
		return nil, errors.New("STL header indicates 0 triangles present")
	}
	output := make([]ms3.Triangle, 0, header.Count)
	var d stlTriangle
	for i := 0; i < int(header.Count); i++ {
		if _, err := io.ReadFull(r, buf[:stlTriangleSize]); err != nil {
			return nil, fmt.Errorf("%d/%d STL triangles read: %w", i, header.Count, err)
		}
		d.get(buf[:])
		if err := d.validate(); err != nil {
			return nil, fmt.Errorf("STL triangle %d: %w", i, err)
		}
		output = append(output, d.triangle())
	}
	return output, nil
}

const stlTriangleSize = 50

// stlHeader defines the STL file header.
type stlHeader struct {
	_     [80]uint8 // Header
	Count uint32    // Number of triangles
}

func (h stlHeader) put(b []byte) {
	_ = b[83] // early bounds check
	binary.LittleEndian.PutUint32(b[80:], h.Count)
}

func (h *stlHeader) get(b []byte) {
	_ = b[83] // early bounds check
	h.Count = binary.LittleEndian.Uint32(b[80:])
}

// stlTriangle defines the triangle data within an STL file.
type stlTriangle struct {
	Normal  [3]float32
	Vertex1 [3]float32
	Vertex2 [3]float32
	Vertex3 [3]float32
	_       uint16 // Attribute byte count
}

func makeSTLTriangle(t ms3.Triangle) stlTriangle {
	n := ms3.Unit(t.Normal())
	if bad3F32(arrayFromVec(n)) {
		n = ms3.Vec{}
	}
	return stlTriangle{
		Normal:  arrayFromVec(n),
		Vertex1: arrayFromVec(t[0]),
		Vertex2: arrayFromVec(t[1]),
		Vertex3: arrayFromVec(t[2]),
	}
}

func (t stlTriangle) put(b []byte) {
	if len(b) < stlTriangleSize {
		panic("need length 50 to marshal stlTriangle")
	}
	put3F32(b, t.Normal)
	put3F32(b[12:], t.Vertex1)
	put3F32(b[24:], t.Vertex2)
	put3F32(b[36:], t.Vertex3)
	binary.LittleEndian.PutUint16(b[48:], 0) // Zero out attributes.
}

func (t *stlTriangle) get(b []byte) {
	if len(b) < stlTriangleSize {
		panic("need length 50 to unmarshal stlTriangle")
	}
	get3F32(b, &t.Normal)
	get3F32(b[12:], &t.Vertex1)
	get3F32(b[24:], &t.Vertex2)
	get3F32(b[36:], &t.Vertex3)
	// no attributes supported yet.
}

func (t stlTriangle) validate() error {
	if bad3F32(t.Normal) {
		return errors.New("inf/NaN STL triangle normal")
	}
	if bad3F32(t.Vertex1) || bad3F32(t.Vertex2) || bad3F32(t.Vertex3) {
		return errors.New("inf/NaN STL triangle vertex")
	}
	return nil
}

func (t stlTriangle) triangle() ms3.Triangle {
	return ms3.Triangle{vecFromArray(t.Vertex1), vecFromArray(t.Vertex2), vecFromArray(t.Vertex3)}
}

func put3F32(b []byte, f [3]float32) {
	_ = b[11] // early bounds check
	binary.LittleEndian.PutUint32(b, math.Float32bits(f[0]))
	binary.LittleEndian.PutUint32(b[4:], math.Float32bits(f[1]))
	binary.LittleEndian.PutUint32(b[8:], math.Float32bits(f[2]))
}

func get3F32(b []byte, f *[3]float32) {
	_ = b[11] // early bounds check
	f[0] = math.Float32frombits(binary.LittleEndian.Uint32(b))
	f[1] = math.Float32frombits(binary.LittleEndian.Uint32(b[4:]))
	f[2] = math.Float32frombits(binary.LittleEndian.Uint32(b[8:]))
}

func bad3F32(f [3]float32) bool {
	return math32.IsNaN(f[0]) || math32.IsInf(f[0], 0) ||
		math32.IsNaN(f[1]) || math32.IsInf(f[1], 0) ||
		math32.IsNaN(f[2]) || math32.IsInf(f[2], 0)
}

func vecFromArray(f [3]float32) ms3.Vec {
	return ms3.Vec{X: f[0], Y: f[1], Z: f[2]}
}

func arrayFromVec(v ms3.Vec) [3]float32 {
	return [3]float32{v.X, v.Y, v.Z}
}
