package render

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/soypat/scene"
	"github.com/soypat/scene/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/cmpimg"
)

// coneScene builds source -> mapper -> actor -> renderer -> window.
func coneScene(t testing.TB) (*source.Cone, *PolyDataMapper, *Actor, *Renderer, *Window) {
	cone := source.NewCone()
	require.NoError(t, cone.SetHeight(3))
	require.NoError(t, cone.SetRadius(1))
	require.NoError(t, cone.SetResolution(10))
	mapper := NewPolyDataMapper()
	mapper.SetInputConnection(cone)
	actor := NewActor()
	actor.SetMapper(mapper)
	ren := NewRenderer()
	ren.AddActor(actor)
	require.NoError(t, ren.SetBackground(0.1, 0.2, 0.4))
	win := NewWindow()
	win.AddRenderer(ren)
	require.NoError(t, win.SetSize(300, 300))
	return cone, mapper, actor, ren, win
}

func near8(a, b uint8) bool {
	d := int(a) - int(b)
	return d >= -1 && d <= 1
}

func isColor(c color.RGBA, want scene.Color) bool {
	w := want.RGBA8()
	return near8(c.R, w.R) && near8(c.G, w.G) && near8(c.B, w.B)
}

// diffFraction returns the fraction of pixels that differ between a and b.
func diffFraction(a, b *image.RGBA) float64 {
	if a.Bounds() != b.Bounds() {
		return 1
	}
	var diff int
	for i := 0; i < len(a.Pix); i += 4 {
		if !bytes.Equal(a.Pix[i:i+4], b.Pix[i:i+4]) {
			diff++
		}
	}
	return float64(diff) / float64(len(a.Pix)/4)
}

func encodePNG(t testing.TB, img image.Image) []byte {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestMapperNotConnected(t *testing.T) {
	m := NewPolyDataMapper()
	_, err := m.Primitives()
	assert.True(t, errors.Is(err, scene.ErrNotConnected), "got %v", err)
	_, err = m.Bounds()
	assert.True(t, errors.Is(err, scene.ErrNotConnected), "got %v", err)
}

func TestMapperRebind(t *testing.T) {
	a := source.NewCone()
	require.NoError(t, a.SetResolution(5))
	b := source.NewCone()
	require.NoError(t, b.SetResolution(7))
	genA := a.Generation()

	m := NewPolyDataMapper()
	m.SetInputConnection(a)
	prims, err := m.Primitives()
	require.NoError(t, err)
	// 5 lateral triangles plus a pentagon fanned into 3.
	assert.Equal(t, 5+3, prims.Len())

	m.SetInputConnection(b)
	assert.Equal(t, b, m.Input())
	prims, err = m.Primitives()
	require.NoError(t, err)
	assert.Equal(t, 7+5, prims.Len())
	assert.Equal(t, genA, a.Generation(), "rebinding must not touch the prior source")

	m.SetInputConnection(nil)
	_, err = m.Primitives()
	assert.True(t, errors.Is(err, scene.ErrNotConnected))
}

func TestMapperCache(t *testing.T) {
	cone := source.NewCone()
	m := NewPolyDataMapper()
	m.SetInputConnection(cone)
	p1, err := m.Primitives()
	require.NoError(t, err)
	p2, err := m.Primitives()
	require.NoError(t, err)
	assert.Same(t, p1, p2)

	require.NoError(t, cone.SetResolution(12))
	p3, err := m.Primitives()
	require.NoError(t, err)
	assert.NotSame(t, p1, p3)
	assert.Equal(t, 12+10, p3.Len())
}

func TestTriangulate(t *testing.T) {
	cone := source.NewCone()
	require.NoError(t, cone.SetResolution(10))
	pd, err := cone.PolyData()
	require.NoError(t, err)
	tris := Triangulate(nil, pd)
	assert.Len(t, tris, 10+8)
	for _, tri := range tris {
		assert.False(t, tri.IsDegenerate(1e-6))
	}
}

func TestRendererEmptyIsBackground(t *testing.T) {
	ren := NewRenderer()
	require.NoError(t, ren.SetBackground(0.1, 0.2, 0.4))
	require.NoError(t, ren.SetSize(64, 48))
	require.NoError(t, ren.Render())
	frame := ren.Frame()
	require.NotNil(t, frame)
	assert.Equal(t, image.Rect(0, 0, 64, 48), frame.Bounds())
	for y := 0; y < 48; y++ {
		for x := 0; x < 64; x++ {
			if c := frame.RGBAAt(x, y); !isColor(c, ren.Background()) {
				t.Fatalf("pixel (%d,%d) = %v is not background", x, y, c)
			}
		}
	}
	want := image.NewRGBA(frame.Bounds())
	for i := 0; i < len(want.Pix); i += 4 {
		copy(want.Pix[i:], frame.Pix[:4])
	}
	equal, err := cmpimg.EqualApprox("png", encodePNG(t, frame), encodePNG(t, want), 0)
	require.NoError(t, err)
	assert.True(t, equal)
}

func TestActorWithoutMapperIsInvisible(t *testing.T) {
	ren := NewRenderer()
	require.NoError(t, ren.SetBackground(1, 0, 0))
	actor := NewActor()
	assert.Nil(t, actor.Mapper())
	ren.AddActor(actor)
	require.NoError(t, ren.Render())
	w, h := ren.Size()
	assert.True(t, isColor(ren.Frame().RGBAAt(w/2, h/2), ren.Background()))
}

func TestActorMapperNotConnected(t *testing.T) {
	ren := NewRenderer()
	actor := NewActor()
	actor.SetMapper(NewPolyDataMapper())
	ren.AddActor(actor)
	err := ren.Render()
	assert.True(t, errors.Is(err, scene.ErrNotConnected), "got %v", err)
}

func TestRendererActorSet(t *testing.T) {
	ren := NewRenderer()
	a, b := NewActor(), NewActor()
	ren.AddActor(a)
	ren.AddActor(a)
	assert.Equal(t, 1, ren.NumberOfActors())
	ren.AddActor(nil)
	ren.AddActor(b)
	assert.Equal(t, []*Actor{a, b}, ren.Actors())
	ren.RemoveActor(NewActor())
	assert.Equal(t, 2, ren.NumberOfActors())
	ren.RemoveActor(a)
	assert.Equal(t, []*Actor{b}, ren.Actors())
	ren.RemoveActor(a)
	assert.Equal(t, 1, ren.NumberOfActors())
}

func TestRendererBackgroundValidation(t *testing.T) {
	ren := NewRenderer()
	require.NoError(t, ren.SetBackground(0.1, 0.2, 0.4))
	for _, bg := range [][3]float64{
		{-0.1, 0, 0},
		{0, 1.1, 0},
		{0, 0, 2},
	} {
		err := ren.SetBackground(bg[0], bg[1], bg[2])
		assert.True(t, errors.Is(err, scene.ErrInvalidParameter), "%v: got %v", bg, err)
	}
	assert.Equal(t, scene.Color{R: 0.1, G: 0.2, B: 0.4}, ren.Background())
	require.NoError(t, ren.SetBackground(0, 1, 1))
}

func TestRendererDrawsCone(t *testing.T) {
	_, _, _, ren, win := coneScene(t)
	require.NoError(t, win.Render())
	img := win.Image()
	require.NotNil(t, img)
	bg := ren.Background()
	assert.True(t, isColor(img.RGBAAt(0, 0), bg), "corner should be background")
	assert.True(t, isColor(img.RGBAAt(299, 299), bg), "corner should be background")
	assert.False(t, isColor(img.RGBAAt(150, 150), bg), "center should show the cone")
}

func TestRenderRedundantCalls(t *testing.T) {
	_, _, _, ren, win := coneScene(t)
	require.NoError(t, win.Render())
	first := image.NewRGBA(win.Image().Bounds())
	copy(first.Pix, win.Image().Pix)
	cam := *ren.ActiveCamera()
	for i := 0; i < 3; i++ {
		require.NoError(t, win.Render())
	}
	assert.Equal(t, cam, *ren.ActiveCamera(), "rendering must not move the camera")
	// Rasterization runs concurrently, pixels on shared edges may differ.
	assert.Less(t, diffFraction(first, win.Image()), 0.01)
	assert.Equal(t, uint64(4), win.Frames())
}

func TestRendererSupersample(t *testing.T) {
	_, _, _, ren, win := coneScene(t)
	require.NoError(t, ren.SetSupersample(2))
	require.NoError(t, win.Render())
	assert.Equal(t, image.Rect(0, 0, 300, 300), ren.Frame().Bounds())
	assert.False(t, isColor(win.Image().RGBAAt(150, 150), ren.Background()))
	assert.Error(t, ren.SetSupersample(0))
}

func TestActorTransformBounds(t *testing.T) {
	_, _, actor, _, _ := coneScene(t)
	bb, ok, err := actor.Bounds()
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, -1.5, bb.Min.X, 1e-9)
	assert.InDelta(t, 1.5, bb.Max.X, 1e-9)

	require.NoError(t, actor.SetPosition(scene3(0, 10, 0)))
	bb, _, err = actor.Bounds()
	require.NoError(t, err)
	assert.InDelta(t, 10, (bb.Min.Y+bb.Max.Y)/2, 1e-6)

	require.NoError(t, actor.SetScale(scene3(2, 2, 2)))
	bb, _, err = actor.Bounds()
	require.NoError(t, err)
	assert.InDelta(t, 6, bb.Max.X-bb.Min.X, 1e-6)
	assert.Error(t, actor.SetScale(scene3(0, 1, 1)))

	actor.SetVisibility(false)
	_, ok, err = actor.Bounds()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWindowRequiresRenderer(t *testing.T) {
	win := NewWindow()
	err := win.Render()
	assert.True(t, errors.Is(err, scene.ErrNotConfigured), "got %v", err)
	assert.Error(t, win.SavePNG(filepath.Join(t.TempDir(), "x.png")))
}

func TestWindowSize(t *testing.T) {
	win := NewWindow()
	w, h := win.Size()
	assert.Equal(t, 300, w)
	assert.Equal(t, 300, h)
	for _, size := range [][2]int{{0, 10}, {10, 0}, {-1, 5}} {
		err := win.SetSize(size[0], size[1])
		assert.True(t, errors.Is(err, scene.ErrInvalidParameter), "%v: got %v", size, err)
	}
	w, h = win.Size()
	assert.Equal(t, [2]int{300, 300}, [2]int{w, h})
}

func TestWindowRendererSet(t *testing.T) {
	win := NewWindow()
	ren := NewRenderer()
	win.AddRenderer(ren)
	win.AddRenderer(ren)
	win.AddRenderer(nil)
	assert.Len(t, win.Renderers(), 1)
	win.RemoveRenderer(NewRenderer())
	assert.Len(t, win.Renderers(), 1)
}

func TestWindowViewports(t *testing.T) {
	left, right := NewRenderer(), NewRenderer()
	require.NoError(t, left.SetBackground(1, 0, 0))
	require.NoError(t, right.SetBackground(0, 0, 1))
	require.NoError(t, left.SetViewport(0, 0, 0.5, 1))
	require.NoError(t, right.SetViewport(0.5, 0, 1, 1))
	win := NewWindow()
	require.NoError(t, win.SetSize(100, 50))
	win.AddRenderer(left)
	win.AddRenderer(right)
	require.NoError(t, win.Render())
	img := win.Image()
	assert.True(t, isColor(img.RGBAAt(10, 25), left.Background()))
	assert.True(t, isColor(img.RGBAAt(90, 25), right.Background()))
	w, h := left.Size()
	assert.Equal(t, [2]int{50, 50}, [2]int{w, h})
	assert.Same(t, right, win.FindPokedRenderer(90, 10))
	assert.Same(t, left, win.FindPokedRenderer(10, 10))

	assert.Error(t, left.SetViewport(0.5, 0, 0.5, 1))
	assert.Error(t, left.SetViewport(0, 0, 1.5, 1))
}

type countSurface struct {
	presented int
	last      *image.RGBA
}

func (s *countSurface) Present(frame *image.RGBA) {
	s.presented++
	s.last = frame
}

func TestWindowPresents(t *testing.T) {
	_, _, _, _, win := coneScene(t)
	surf := &countSurface{}
	win.SetSurface(surf)
	require.NoError(t, win.Render())
	require.NoError(t, win.Render())
	assert.Equal(t, 2, surf.presented)
	assert.Same(t, win.Image(), surf.last)
}

func TestWindowSavePNG(t *testing.T) {
	_, _, _, _, win := coneScene(t)
	require.NoError(t, win.Render())
	path := filepath.Join(t.TempDir(), "cone.png")
	require.NoError(t, win.SavePNG(path))
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	equal, err := cmpimg.EqualApprox("png", got, encodePNG(t, win.Image()), 0)
	require.NoError(t, err)
	assert.True(t, equal)
}

func TestSTLReadback(t *testing.T) {
	_, mapper, _, _, _ := coneScene(t)
	path := filepath.Join(t.TempDir(), "cone.stl")
	require.NoError(t, CreateSTL(path, mapper))
	fp, err := os.Open(path)
	require.NoError(t, err)
	defer fp.Close()
	got, err := ReadSTL(fp)
	require.NoError(t, err)
	prims, err := mapper.Primitives()
	require.NoError(t, err)
	assert.Equal(t, prims.Triangles(), got)

	_, err = WriteSTL(&bytes.Buffer{}, nil)
	assert.Error(t, err)
	_, err = ReadSTL(bytes.NewReader(make([]byte, 10)))
	assert.Error(t, err)
}
