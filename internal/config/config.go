// Package config reads scene descriptions from TOML files.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/soypat/scene"
)

// Scene describes the cone scene shown by the example program.
type Scene struct {
	Cone     Cone     `toml:"cone"`
	Actor    Actor    `toml:"actor"`
	Renderer Renderer `toml:"renderer"`
	Window   Window   `toml:"window"`
}

// Cone configures the cone source. Center and Direction hold 3 components.
type Cone struct {
	Height     float64   `toml:"height"`
	Radius     float64   `toml:"radius"`
	Resolution int       `toml:"resolution"`
	Capping    bool      `toml:"capping"`
	Center     []float64 `toml:"center"`
	Direction  []float64 `toml:"direction"`
}

// Actor configures the appearance and placement of the cone. Color,
// Position and Orientation (degrees) hold 3 components.
type Actor struct {
	Color          []float64 `toml:"color"`
	Representation string    `toml:"representation"`
	Position       []float64 `toml:"position"`
	Orientation    []float64 `toml:"orientation"`
}

// Renderer configures the background RGB color and antialiasing factor.
type Renderer struct {
	Background  []float64 `toml:"background"`
	Supersample int       `toml:"supersample"`
}

// Window configures the size in pixels and title of the window.
type Window struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Title  string `toml:"title"`
}

// Default returns a 10 segment cone of height 3 and radius 1 pointing
// along +X, drawn white on dark blue in a 300x300 window.
func Default() Scene {
	return Scene{
		Cone: Cone{
			Height:     3,
			Radius:     1,
			Resolution: 10,
			Capping:    true,
			Center:     []float64{0, 0, 0},
			Direction:  []float64{1, 0, 0},
		},
		Actor: Actor{
			Color:          []float64{1, 1, 1},
			Representation: "surface",
			Position:       []float64{0, 0, 0},
			Orientation:    []float64{0, 0, 0},
		},
		Renderer: Renderer{
			Background:  []float64{0.1, 0.2, 0.4},
			Supersample: 1,
		},
		Window: Window{Width: 300, Height: 300, Title: "Cone"},
	}
}

// Load reads the TOML file at path over Default. Keys not present in the
// file keep their default value. Unknown keys and vectors without exactly
// 3 components are an error.
func Load(path string) (Scene, error) {
	fp, err := os.Open(path)
	if err != nil {
		return Scene{}, err
	}
	defer fp.Close()
	s, err := Decode(fp)
	if err != nil {
		return Scene{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Decode reads a TOML scene over Default.
func Decode(r io.Reader) (Scene, error) {
	s := Default()
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return Scene{}, errors.New(strict.String())
		}
		return Scene{}, err
	}
	if err := s.checkVectors(); err != nil {
		return Scene{}, err
	}
	return s, nil
}

func (s *Scene) checkVectors() error {
	for _, v := range []struct {
		name string
		v    []float64
	}{
		{"cone.center", s.Cone.Center},
		{"cone.direction", s.Cone.Direction},
		{"actor.color", s.Actor.Color},
		{"actor.position", s.Actor.Position},
		{"actor.orientation", s.Actor.Orientation},
		{"renderer.background", s.Renderer.Background},
	} {
		if len(v.v) != 3 {
			return scene.ParamErr(v.name, v.v, "must have 3 components")
		}
	}
	return nil
}

// Encode writes s as TOML.
func Encode(w io.Writer, s Scene) error {
	return toml.NewEncoder(w).Encode(s)
}
