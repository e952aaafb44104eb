package config

import (
	"fmt"

	"github.com/soypat/scene"
	"github.com/soypat/scene/render"
	"github.com/soypat/scene/source"
	"gonum.org/v1/gonum/spatial/r3"
)

// Pipeline is a cone scene assembled from a Scene description.
type Pipeline struct {
	Cone     *source.Cone
	Mapper   *render.PolyDataMapper
	Actor    *render.Actor
	Renderer *render.Renderer
	Window   *render.Window
}

// Build assembles source, mapper, actor, renderer and window bottom-up.
// Values out of range are reported by the setter that rejects them.
func Build(s Scene) (*Pipeline, error) {
	if err := s.checkVectors(); err != nil {
		return nil, err
	}
	p := &Pipeline{
		Cone:     source.NewCone(),
		Mapper:   render.NewPolyDataMapper(),
		Actor:    render.NewActor(),
		Renderer: render.NewRenderer(),
		Window:   render.NewWindow(),
	}
	c := s.Cone
	if err := p.Cone.SetHeight(c.Height); err != nil {
		return nil, err
	}
	if err := p.Cone.SetRadius(c.Radius); err != nil {
		return nil, err
	}
	if err := p.Cone.SetResolution(c.Resolution); err != nil {
		return nil, err
	}
	if err := p.Cone.SetCenter(vec(c.Center)); err != nil {
		return nil, err
	}
	if err := p.Cone.SetDirection(vec(c.Direction)); err != nil {
		return nil, err
	}
	p.Cone.SetCapping(c.Capping)

	a := s.Actor
	color, err := scene.NewColor(a.Color[0], a.Color[1], a.Color[2])
	if err != nil {
		return nil, fmt.Errorf("actor color: %w", err)
	}
	if err = p.Actor.Property().SetColor(color); err != nil {
		return nil, err
	}
	rep, err := render.ParseRepresentation(a.Representation)
	if err != nil {
		return nil, err
	}
	if err = p.Actor.Property().SetRepresentation(rep); err != nil {
		return nil, err
	}
	if err = p.Actor.SetPosition(vec(a.Position)); err != nil {
		return nil, err
	}
	if err = p.Actor.SetOrientation(vec(a.Orientation)); err != nil {
		return nil, err
	}

	bg := s.Renderer.Background
	if err = p.Renderer.SetBackground(bg[0], bg[1], bg[2]); err != nil {
		return nil, err
	}
	if err = p.Renderer.SetSupersample(s.Renderer.Supersample); err != nil {
		return nil, err
	}
	if err = p.Window.SetSize(s.Window.Width, s.Window.Height); err != nil {
		return nil, err
	}
	p.Window.SetTitle(s.Window.Title)

	p.Mapper.SetInputConnection(p.Cone)
	p.Actor.SetMapper(p.Mapper)
	p.Renderer.AddActor(p.Actor)
	p.Window.AddRenderer(p.Renderer)
	return p, nil
}

// vec converts a checked 3 component slice.
func vec(a []float64) r3.Vec { return r3.Vec{X: a[0], Y: a[1], Z: a[2]} }
