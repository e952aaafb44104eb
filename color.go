package scene

import "image/color"

// Color is a normalized RGB color. Each component is in [0,1].
type Color struct {
	R, G, B float64
}

// White is the default actor color.
var White = Color{R: 1, G: 1, B: 1}

// NewColor returns a validated Color.
func NewColor(r, g, b float64) (Color, error) {
	c := Color{R: r, G: g, B: b}
	return c, c.Validate()
}

// Validate returns an error wrapping ErrInvalidParameter if any component
// is outside [0,1].
func (c Color) Validate() error {
	if err := Unit("red", c.R); err != nil {
		return err
	}
	if err := Unit("green", c.G); err != nil {
		return err
	}
	return Unit("blue", c.B)
}

// RGBA8 returns the opaque 8 bit color closest to c.
func (c Color) RGBA8() color.RGBA {
	return color.RGBA{R: to8(c.R), G: to8(c.G), B: to8(c.B), A: 0xff}
}

func to8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 0xff
	}
	return uint8(v*0xff + 0.5)
}
