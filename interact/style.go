package interact

import (
	"image"
	"math"
	"unicode"

	"github.com/soypat/scene/render"
)

// Command tells the interactor what to do after a Style handled an event.
type Command uint8

const (
	// Redraw requests a new frame.
	Redraw Command = 1 << iota
	// Exit ends the event loop.
	Exit
)

// Style turns input events into changes to the scene shown by a window.
type Style interface {
	OnEvent(win *render.Window, ev Event) (Command, error)
}

type motion uint8

const (
	motionNone motion = iota
	motionRotate
	motionPan
	motionDolly
	motionSpin
)

// TrackballCamera moves the camera of the renderer under the pointer.
//
//	left drag            rotate about the focal point
//	shift + left drag    pan
//	ctrl + left drag     spin about the direction of projection
//	ctrl + shift + left  dolly
//	middle drag          pan
//	right drag           dolly
//	wheel                dolly
//
// Keys: q or e exit, r resets the camera, w and s switch all actors of the
// renderer to wireframe and surface representation.
type TrackballCamera struct {
	// MotionFactor scales pointer motion into camera motion.
	MotionFactor float64

	motion       motion
	ren          *render.Renderer
	lastX, lastY int
}

// NewTrackballCamera returns a style with a motion factor of 10.
func NewTrackballCamera() *TrackballCamera {
	return &TrackballCamera{MotionFactor: 10}
}

// OnEvent implements Style.
func (s *TrackballCamera) OnEvent(win *render.Window, ev Event) (Command, error) {
	switch ev.Kind {
	case ButtonPress:
		s.ren = win.FindPokedRenderer(ev.X, ev.Y)
		s.lastX, s.lastY = ev.X, ev.Y
		s.motion = motionFor(ev)
	case ButtonRelease:
		s.motion = motionNone
		s.ren = nil
	case MouseMove:
		defer func() { s.lastX, s.lastY = ev.X, ev.Y }()
		if s.motion == motionNone || s.ren == nil {
			return 0, nil
		}
		w, h := win.Size()
		s.move(s.ren.ViewportRect(w, h), ev.X, ev.Y)
		return Redraw, nil
	case Wheel:
		ren := win.FindPokedRenderer(ev.X, ev.Y)
		if ren == nil || ev.Delta == 0 {
			return 0, nil
		}
		ren.ActiveCamera().Dolly(math.Pow(1.1, 0.2*s.MotionFactor*ev.Delta))
		return Redraw, nil
	case KeyPress:
		return s.key(win, ev)
	}
	return 0, nil
}

func motionFor(ev Event) motion {
	switch ev.Button {
	case ButtonMiddle:
		return motionPan
	case ButtonRight:
		return motionDolly
	}
	switch {
	case ev.Shift && ev.Ctrl:
		return motionDolly
	case ev.Shift:
		return motionPan
	case ev.Ctrl:
		return motionSpin
	}
	return motionRotate
}

// move applies pointer motion to (x,y) inside the viewport rect.
func (s *TrackballCamera) move(rect image.Rectangle, x, y int) {
	cam := s.ren.ActiveCamera()
	w, h := float64(rect.Dx()), float64(rect.Dy())
	if w <= 0 || h <= 0 {
		return
	}
	// Pixel rows grow downwards, camera up is positive.
	dx, dy := float64(x-s.lastX), float64(s.lastY-y)
	switch s.motion {
	case motionRotate:
		cam.Azimuth(dx * -20 / w * s.MotionFactor)
		cam.Elevation(dy * -20 / h * s.MotionFactor)
		cam.OrthogonalizeViewUp()
	case motionPan:
		perPixel := 2 * cam.Distance() * math.Tan(cam.ViewAngle()*math.Pi/360) / h
		cam.Pan(-dx*perPixel, -dy*perPixel)
	case motionDolly:
		cam.Dolly(math.Pow(1.1, s.MotionFactor*dy/(h/2)))
	case motionSpin:
		cx := float64(rect.Min.X) + w/2
		cy := float64(rect.Min.Y) + h/2
		newAngle := math.Atan2(cy-float64(y), float64(x)-cx)
		oldAngle := math.Atan2(cy-float64(s.lastY), float64(s.lastX)-cx)
		cam.Roll((newAngle - oldAngle) * 180 / math.Pi)
		cam.OrthogonalizeViewUp()
	}
}

func (s *TrackballCamera) key(win *render.Window, ev Event) (Command, error) {
	switch unicode.ToLower(ev.Key) {
	case 'q', 'e':
		return Exit, nil
	case 'r':
		ren := win.FindPokedRenderer(ev.X, ev.Y)
		if ren == nil {
			return 0, nil
		}
		if err := ren.ResetCamera(); err != nil {
			return 0, err
		}
		return Redraw, nil
	case 'w', 's':
		ren := win.FindPokedRenderer(ev.X, ev.Y)
		if ren == nil {
			return 0, nil
		}
		rep := render.RepSurface
		if unicode.ToLower(ev.Key) == 'w' {
			rep = render.RepWireframe
		}
		for _, a := range ren.Actors() {
			if err := a.Property().SetRepresentation(rep); err != nil {
				return 0, err
			}
		}
		return Redraw, nil
	}
	return 0, nil
}
