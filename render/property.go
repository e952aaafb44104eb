package render

import (
	"fmt"
	"math"

	"github.com/fogleman/fauxgl"
	"github.com/soypat/scene"
)

// Representation selects how an actor's surface is drawn.
type Representation uint8

const (
	RepSurface Representation = iota
	RepWireframe
)

func (r Representation) String() string {
	switch r {
	case RepSurface:
		return "surface"
	case RepWireframe:
		return "wireframe"
	}
	return fmt.Sprintf("Representation(%d)", uint8(r))
}

// ParseRepresentation parses the names returned by Representation.String.
func ParseRepresentation(s string) (Representation, error) {
	switch s {
	case "surface", "":
		return RepSurface, nil
	case "wireframe":
		return RepWireframe, nil
	}
	return 0, scene.ParamErr("representation", s, "must be surface or wireframe")
}

// Property holds the appearance of an actor.
type Property struct {
	color         scene.Color
	rep           Representation
	ambient       float64
	diffuse       float64
	specular      float64
	specularPower float64
}

// NewProperty returns a white, diffusely lit surface property.
func NewProperty() *Property {
	return &Property{
		color:         scene.White,
		ambient:       0.1,
		diffuse:       0.9,
		specularPower: 32,
	}
}

// SetColor sets the object color.
func (p *Property) SetColor(c scene.Color) error {
	if err := c.Validate(); err != nil {
		return err
	}
	p.color = c
	return nil
}

// SetRepresentation sets how the surface is drawn.
func (p *Property) SetRepresentation(rep Representation) error {
	if rep > RepWireframe {
		return scene.ParamErr("representation", rep, "unknown")
	}
	p.rep = rep
	return nil
}

// SetAmbient sets the ambient lighting coefficient in [0,1].
func (p *Property) SetAmbient(v float64) error {
	if err := scene.Unit("ambient", v); err != nil {
		return err
	}
	p.ambient = v
	return nil
}

// SetDiffuse sets the diffuse lighting coefficient in [0,1].
func (p *Property) SetDiffuse(v float64) error {
	if err := scene.Unit("diffuse", v); err != nil {
		return err
	}
	p.diffuse = v
	return nil
}

// SetSpecular sets the specular lighting coefficient in [0,1].
func (p *Property) SetSpecular(v float64) error {
	if err := scene.Unit("specular", v); err != nil {
		return err
	}
	p.specular = v
	return nil
}

// SetSpecularPower sets the specular exponent, a non-negative number.
func (p *Property) SetSpecularPower(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return scene.ParamErr("specular power", v, "must be non-negative")
	}
	p.specularPower = v
	return nil
}

func (p *Property) Color() scene.Color             { return p.color }
func (p *Property) Representation() Representation { return p.rep }
func (p *Property) Ambient() float64               { return p.ambient }
func (p *Property) Diffuse() float64               { return p.diffuse }
func (p *Property) Specular() float64              { return p.specular }
func (p *Property) SpecularPower() float64         { return p.specularPower }

func (p *Property) shader(matrix fauxgl.Matrix, light, eye fauxgl.Vector) *fauxgl.PhongShader {
	shader := fauxgl.NewPhongShader(matrix, light, eye)
	shader.ObjectColor = fauxColor(p.color)
	shader.AmbientColor = fauxgl.Gray(p.ambient)
	shader.DiffuseColor = fauxgl.Gray(p.diffuse)
	shader.SpecularColor = fauxgl.Gray(p.specular)
	shader.SpecularPower = p.specularPower
	return shader
}

func fauxColor(c scene.Color) fauxgl.Color {
	return fauxgl.Color{R: c.R, G: c.G, B: c.B, A: 1}
}
