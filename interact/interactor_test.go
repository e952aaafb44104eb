package interact

import (
	"errors"
	"image"
	"testing"
	"time"

	"github.com/soypat/scene"
	"github.com/soypat/scene/render"
	"github.com/soypat/scene/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// coneWindow builds the demonstration scene: a 10 segment cone of height 3
// and radius 1 over a dark blue background in a 300x300 window.
func coneWindow(t testing.TB) (*render.Window, *render.Renderer) {
	cone := source.NewCone()
	require.NoError(t, cone.SetHeight(3))
	require.NoError(t, cone.SetRadius(1))
	require.NoError(t, cone.SetResolution(10))
	mapper := render.NewPolyDataMapper()
	mapper.SetInputConnection(cone)
	actor := render.NewActor()
	actor.SetMapper(mapper)
	ren := render.NewRenderer()
	ren.AddActor(actor)
	require.NoError(t, ren.SetBackground(0.1, 0.2, 0.4))
	win := render.NewWindow()
	win.AddRenderer(ren)
	require.NoError(t, win.SetSize(300, 300))
	win.SetTitle("Cone")
	return win, ren
}

func cloneRGBA(img *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(img.Bounds())
	copy(dst.Pix, img.Pix)
	return dst
}

func differingPixels(a, b *image.RGBA) int {
	var n int
	for i := 0; i < len(a.Pix); i += 4 {
		if a.Pix[i] != b.Pix[i] || a.Pix[i+1] != b.Pix[i+1] || a.Pix[i+2] != b.Pix[i+2] {
			n++
		}
	}
	return n
}

func TestStartBeforeInitialize(t *testing.T) {
	win, _ := coneWindow(t)
	d := NewOffscreen()
	it := NewInteractor(d)
	require.NoError(t, it.SetRenderWindow(win))
	err := it.Start()
	assert.True(t, errors.Is(err, scene.ErrInvalidState), "got %v", err)
	assert.Equal(t, Uninitialized, it.State())
	assert.Zero(t, d.Opens())
}

func TestInitializeWithoutWindow(t *testing.T) {
	d := NewOffscreen()
	it := NewInteractor(d)
	err := it.Initialize()
	assert.True(t, errors.Is(err, scene.ErrNotConfigured), "got %v", err)
	assert.Equal(t, Uninitialized, it.State())
	assert.Zero(t, d.Opens())

	win, _ := coneWindow(t)
	it = NewInteractor(nil)
	require.NoError(t, it.SetRenderWindow(win))
	err = it.Initialize()
	assert.True(t, errors.Is(err, scene.ErrNotConfigured), "got %v", err)
}

func TestInitializeFailedRenderReleasesDisplay(t *testing.T) {
	for name, win := range map[string]*render.Window{
		"no renderers": render.NewWindow(),
		"unconnected mapper": func() *render.Window {
			actor := render.NewActor()
			actor.SetMapper(render.NewPolyDataMapper())
			ren := render.NewRenderer()
			ren.AddActor(actor)
			w := render.NewWindow()
			w.AddRenderer(ren)
			return w
		}(),
	} {
		t.Run(name, func(t *testing.T) {
			d := NewOffscreen()
			it := NewInteractor(d)
			require.NoError(t, it.SetRenderWindow(win))
			require.Error(t, it.Initialize())
			assert.Equal(t, Uninitialized, it.State())
			assert.Equal(t, 1, d.Opens())
			assert.Equal(t, 1, d.Closes())
			assert.False(t, d.IsOpen())
			assert.Nil(t, win.Surface())
		})
	}
}

func TestLifecycleStateErrors(t *testing.T) {
	win, _ := coneWindow(t)
	d := NewOffscreen()
	it := NewInteractor(d)
	assert.Equal(t, "uninitialized", it.State().String())
	require.NoError(t, it.SetRenderWindow(win))
	require.NoError(t, it.Initialize())
	assert.Equal(t, Initialized, it.State())
	assert.Equal(t, "Cone", d.Title())
	w, h := d.Size()
	assert.Equal(t, [2]int{300, 300}, [2]int{w, h})
	assert.Equal(t, 1, d.Presented())

	err := it.SetRenderWindow(render.NewWindow())
	assert.True(t, errors.Is(err, scene.ErrInvalidState), "got %v", err)
	assert.Same(t, win, it.RenderWindow())
	err = it.Initialize()
	assert.True(t, errors.Is(err, scene.ErrInvalidState), "got %v", err)
	assert.Equal(t, 1, d.Opens())

	require.NoError(t, it.SetInteractorStyle(NewTrackballCamera()))
	assert.True(t, errors.Is(it.SetInteractorStyle(nil), scene.ErrInvalidParameter))

	require.NoError(t, it.Start())
	assert.Equal(t, Stopped, it.State())
	for _, err := range []error{
		it.Start(),
		it.Initialize(),
		it.SetInteractorStyle(NewTrackballCamera()),
		it.SetRenderWindow(win),
	} {
		assert.True(t, errors.Is(err, scene.ErrInvalidState), "got %v", err)
	}
	assert.Equal(t, 1, d.Closes())
}

func TestConeScenario(t *testing.T) {
	win, ren := coneWindow(t)
	script := [][]Event{
		Drag(ButtonLeft, 150, 150, 200, 130, 5),
		{{Kind: Wheel, X: 150, Y: 150, Delta: 1}},
		{},
		{{Kind: WindowClose}},
		{{Kind: KeyPress, Key: 'w'}},
	}
	d := NewOffscreen(script...)
	it := NewInteractor(d)
	require.NoError(t, it.SetRenderWindow(win))
	require.NoError(t, it.Initialize())

	first := cloneRGBA(d.Last())
	bg, corner := ren.Background().RGBA8(), first.RGBAAt(0, 0)
	assert.InDelta(t, bg.R, corner.R, 1)
	assert.InDelta(t, bg.G, corner.G, 1)
	assert.InDelta(t, bg.B, corner.B, 1)
	startPos := ren.ActiveCamera().Position()
	startDist := ren.ActiveCamera().Distance()

	require.NoError(t, it.Start())
	assert.Equal(t, Stopped, it.State())
	assert.Equal(t, 1, d.Closes())
	assert.False(t, d.IsOpen())

	cam := ren.ActiveCamera()
	assert.NotEqual(t, startPos, cam.Position(), "drag should orbit the camera")
	assert.InDelta(t, startDist/(1.1*1.1), cam.Distance(), 1e-9)
	// Drag and wheel each render once, the empty tick does not.
	assert.Equal(t, 3, d.Presented())
	assert.Greater(t, differingPixels(first, d.Last()), 100)
	// Events after the close are not dispatched.
	assert.Equal(t, render.RepSurface, ren.Actors()[0].Property().Representation())
}

func TestStopFromAnotherGoroutine(t *testing.T) {
	win, _ := coneWindow(t)
	d := NewOffscreen()
	d.KeepOpen = true
	d.FrameDelay = time.Millisecond
	it := NewInteractor(d)
	require.NoError(t, it.SetRenderWindow(win))
	it.Stop() // Not running, ignored.
	require.NoError(t, it.Initialize())

	done := make(chan error, 1)
	go func() { done <- it.Start() }()
	require.Eventually(t, func() bool { return it.State() == Running }, 5*time.Second, time.Millisecond)
	it.Stop()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after Stop")
	}
	assert.Equal(t, Stopped, it.State())
	assert.Equal(t, 1, d.Closes())
}

type panicStyle struct{}

func (panicStyle) OnEvent(*render.Window, Event) (Command, error) { panic("style panic") }

type errStyle struct{ err error }

func (s errStyle) OnEvent(*render.Window, Event) (Command, error) { return 0, s.err }

func TestDisplayReleasedOnPanic(t *testing.T) {
	win, _ := coneWindow(t)
	d := NewOffscreen([]Event{{Kind: MouseMove}})
	it := NewInteractor(d)
	require.NoError(t, it.SetRenderWindow(win))
	require.NoError(t, it.SetInteractorStyle(panicStyle{}))
	require.NoError(t, it.Initialize())
	assert.PanicsWithValue(t, "style panic", func() { it.Start() })
	assert.Equal(t, Stopped, it.State())
	assert.Equal(t, 1, d.Closes())
	assert.False(t, d.IsOpen())
}

func TestDisplayReleasedOnError(t *testing.T) {
	win, _ := coneWindow(t)
	d := NewOffscreen([]Event{{Kind: KeyPress, Key: 'x'}})
	it := NewInteractor(d)
	require.NoError(t, it.SetRenderWindow(win))
	errBoom := errors.New("boom")
	require.NoError(t, it.SetInteractorStyle(errStyle{err: errBoom}))
	require.NoError(t, it.Initialize())
	err := it.Start()
	assert.True(t, errors.Is(err, errBoom), "got %v", err)
	assert.Equal(t, Stopped, it.State())
	assert.Equal(t, 1, d.Closes())
}

func TestExitKey(t *testing.T) {
	for _, key := range []rune{'q', 'e', 'Q'} {
		win, ren := coneWindow(t)
		d := NewOffscreen(
			[]Event{{Kind: KeyPress, Key: key}},
			Drag(ButtonLeft, 150, 150, 250, 150, 4),
		)
		it := NewInteractor(d)
		require.NoError(t, it.SetRenderWindow(win))
		require.NoError(t, it.Initialize())
		pos := ren.ActiveCamera().Position()
		require.NoError(t, it.Start())
		assert.Equal(t, pos, ren.ActiveCamera().Position(), "key %q", key)
		assert.Equal(t, 1, d.Presented())
	}
}

func TestStateString(t *testing.T) {
	for s, want := range map[State]string{
		Uninitialized: "uninitialized",
		Initialized:   "initialized",
		Running:       "running",
		Stopped:       "stopped",
		State(9):      "State(9)",
	} {
		assert.Equal(t, want, s.String())
	}
}

func TestOffscreenKeepsOwnFrame(t *testing.T) {
	d := NewOffscreen()
	assert.Nil(t, d.Last())
	frame := image.NewRGBA(image.Rect(0, 0, 2, 2))
	frame.Pix[0] = 7
	d.Present(frame)
	last := d.Last()
	assert.NotSame(t, frame, last)
	frame.Pix[0] = 9
	assert.Equal(t, uint8(7), last.Pix[0], "caller buffer reuse must not alter the presented frame")
	d.Present(frame)
	assert.Same(t, last, d.Last(), "frame storage is reused across presents")
	assert.Equal(t, uint8(9), d.Last().Pix[0])
	assert.Equal(t, 2, d.Presented())
}
