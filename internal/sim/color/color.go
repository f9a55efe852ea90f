// Package color holds the linear-light color values shared by blocks and lighting.
package color

import (
	"fmt"

	"github.com/chewxy/math32"
)

// RGB is a linear color with unbounded, non-NaN components.
type RGB struct {
	R float32 `json:"r"`
	G float32 `json:"g"`
	B float32 `json:"b"`
}

// RGBA is RGB plus coverage. Alpha 0 is fully transparent, 1 fully opaque.
type RGBA struct {
	R float32 `json:"r"`
	G float32 `json:"g"`
	B float32 `json:"b"`
	A float32 `json:"a"`
}

var (
	ZeroRGB = RGB{}
	OneRGB  = RGB{R: 1, G: 1, B: 1}

	Transparent = RGBA{}
	Black       = RGBA{A: 1}
	White       = RGBA{R: 1, G: 1, B: 1, A: 1}
)

// NewRGB panics on NaN components; NaN would break equality and map keys of blocks.
func NewRGB(r, g, b float32) RGB {
	mustNotNaN(r, g, b)
	return RGB{R: r, G: g, B: b}
}

// NewRGBA panics on NaN components.
func NewRGBA(r, g, b, a float32) RGBA {
	mustNotNaN(r, g, b, a)
	return RGBA{R: r, G: g, B: b, A: a}
}

func mustNotNaN(vs ...float32) {
	for _, v := range vs {
		if math32.IsNaN(v) {
			panic("color: components may not be NaN")
		}
	}
}

func (c RGB) Add(o RGB) RGB { return RGB{R: c.R + o.R, G: c.G + o.G, B: c.B + o.B} }
func (c RGB) Sub(o RGB) RGB { return RGB{R: c.R - o.R, G: c.G - o.G, B: c.B - o.B} }
func (c RGB) Mul(o RGB) RGB { return RGB{R: c.R * o.R, G: c.G * o.G, B: c.B * o.B} }

func (c RGB) Scale(s float32) RGB {
	return RGB{R: c.R * s, G: c.G * s, B: c.B * s}
}

// Div divides every component by n; n must be nonzero.
func (c RGB) Div(n float32) RGB {
	return RGB{R: c.R / n, G: c.G / n, B: c.B / n}
}

// MaxComponent is used for quick brightness comparisons.
func (c RGB) MaxComponent() float32 {
	return math32.Max(c.R, math32.Max(c.G, c.B))
}

func (c RGB) WithAlpha(a float32) RGBA { return RGBA{R: c.R, G: c.G, B: c.B, A: a} }
func (c RGB) WithAlphaOne() RGBA       { return c.WithAlpha(1) }

func (c RGB) String() string { return fmt.Sprintf("RGB(%g, %g, %g)", c.R, c.G, c.B) }

func (c RGBA) RGB() RGB { return RGB{R: c.R, G: c.G, B: c.B} }

func (c RGBA) FullyTransparent() bool { return c.A <= 0 }
func (c RGBA) FullyOpaque() bool      { return c.A >= 1 }

func (c RGBA) Add(o RGBA) RGBA {
	return RGBA{R: c.R + o.R, G: c.G + o.G, B: c.B + o.B, A: c.A + o.A}
}

// ToSaturating32bit converts to 8 bits per channel, truncating and clamping to [0, 255].
func (c RGBA) ToSaturating32bit() [4]uint8 {
	return [4]uint8{saturate8(c.R), saturate8(c.G), saturate8(c.B), saturate8(c.A)}
}

func FromSaturating32bit(v [4]uint8) RGBA {
	return RGBA{
		R: float32(v[0]) / 255,
		G: float32(v[1]) / 255,
		B: float32(v[2]) / 255,
		A: float32(v[3]) / 255,
	}
}

func saturate8(x float32) uint8 {
	v := math32.Trunc(x * 255)
	if math32.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}

func (c RGBA) String() string {
	return fmt.Sprintf("RGBA(%g, %g, %g, %g)", c.R, c.G, c.B, c.A)
}
