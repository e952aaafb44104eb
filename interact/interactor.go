package interact

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/soypat/scene"
	"github.com/soypat/scene/render"
)

// State is the lifecycle state of an Interactor.
type State uint32

const (
	Uninitialized State = iota
	Initialized
	Running
	// Stopped is terminal.
	Stopped
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Initialized:
		return "initialized"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	}
	return fmt.Sprintf("State(%d)", uint32(s))
}

// Interactor drives a render window: it shows it on a Display and turns
// input events into scene changes through a Style.
//
// The lifecycle is Uninitialized -> Initialized -> Running -> Stopped.
// Only Stop and State may be called from another goroutine.
type Interactor struct {
	display Display
	window  *render.Window
	style   Style
	log     *slog.Logger
	state   atomic.Uint32
	stop    atomic.Bool
}

// NewInteractor returns an uninitialized interactor showing on d with a
// TrackballCamera style.
func NewInteractor(d Display) *Interactor {
	return &Interactor{
		display: d,
		style:   NewTrackballCamera(),
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// State returns the lifecycle state.
func (it *Interactor) State() State { return State(it.state.Load()) }

func (it *Interactor) setState(s State) {
	old := State(it.state.Swap(uint32(s)))
	it.log.Debug("interactor state", slog.String("from", old.String()), slog.String("to", s.String()))
}

// SetLogger sets the logger for lifecycle messages. A nil logger discards.
func (it *Interactor) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	it.log = l
}

// SetRenderWindow sets the window to drive. It is only valid before
// Initialize.
func (it *Interactor) SetRenderWindow(w *render.Window) error {
	if s := it.State(); s != Uninitialized {
		return fmt.Errorf("set render window while %s: %w", s, scene.ErrInvalidState)
	}
	it.window = w
	return nil
}

// RenderWindow returns the driven window or nil.
func (it *Interactor) RenderWindow() *render.Window { return it.window }

// SetInteractorStyle replaces the style. It is only valid before Start.
func (it *Interactor) SetInteractorStyle(s Style) error {
	if st := it.State(); st != Uninitialized && st != Initialized {
		return fmt.Errorf("set interactor style while %s: %w", st, scene.ErrInvalidState)
	}
	if s == nil {
		return scene.ParamErr("interactor style", s, "must not be nil")
	}
	it.style = s
	return nil
}

// InteractorStyle returns the current style.
func (it *Interactor) InteractorStyle() Style { return it.style }

// Initialize opens the display, attaches it to the window and renders the
// first frame. If the first frame fails to render the display is released
// and the interactor remains uninitialized.
func (it *Interactor) Initialize() error {
	if s := it.State(); s != Uninitialized {
		return fmt.Errorf("initialize while %s: %w", s, scene.ErrInvalidState)
	}
	if it.window == nil {
		return fmt.Errorf("interactor has no render window: %w", scene.ErrNotConfigured)
	}
	if it.display == nil {
		return fmt.Errorf("interactor has no display: %w", scene.ErrNotConfigured)
	}
	w, h := it.window.Size()
	if err := it.display.Open(it.window.Title(), w, h); err != nil {
		return fmt.Errorf("opening display: %w", err)
	}
	it.window.SetSurface(it.display)
	if err := it.window.Render(); err != nil {
		it.window.SetSurface(nil)
		if cerr := it.display.Close(); cerr != nil {
			it.log.Error("closing display", slog.Any("err", cerr))
		}
		return fmt.Errorf("first render: %w", err)
	}
	it.setState(Initialized)
	return nil
}

// Start runs the event loop on the calling goroutine until the window is
// closed, the style asks to exit or Stop is called. The display is released
// and the interactor is Stopped when Start returns, also when the loop
// panics.
func (it *Interactor) Start() (err error) {
	if s := it.State(); s != Initialized {
		return fmt.Errorf("start while %s: %w", s, scene.ErrInvalidState)
	}
	it.setState(Running)
	it.log.Info("interactor started", slog.String("window", it.window.Title()))
	defer func() {
		cerr := it.display.Close()
		it.window.SetSurface(nil)
		it.setState(Stopped)
		if err == nil && cerr != nil {
			err = fmt.Errorf("closing display: %w", cerr)
		}
		it.log.Info("interactor stopped", slog.Uint64("frames", it.window.Frames()), slog.Any("err", err))
	}()
	err = it.display.Loop(it.tick)
	if errors.Is(err, ErrLoopDone) {
		err = nil
	}
	return err
}

// Stop makes a running Start return. It does nothing if the interactor is
// not running.
func (it *Interactor) Stop() {
	if it.State() == Running {
		it.stop.Store(true)
	}
}

func (it *Interactor) tick(events []Event) error {
	if it.stop.Load() {
		return ErrLoopDone
	}
	redraw := false
	for _, ev := range events {
		if ev.Kind == WindowClose {
			return ErrLoopDone
		}
		cmd, err := it.style.OnEvent(it.window, ev)
		if err != nil {
			return fmt.Errorf("handling %s event: %w", ev.Kind, err)
		}
		if cmd&Exit != 0 {
			return ErrLoopDone
		}
		redraw = redraw || cmd&Redraw != 0
	}
	if !redraw {
		return nil
	}
	return it.window.Render()
}
