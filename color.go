package strokemesh

import (
	"image/color"
	"math"
)

// RGBA is a color with red, green, blue and alpha components in [0, 1],
// not premultiplied.
type RGBA struct {
	R, G, B, A float64
}

// Color converts c to a color.Color.
func (c RGBA) Color() color.Color {
	return color.NRGBA{
		R: uint8(clamp255(c.R * 255)),
		G: uint8(clamp255(c.G * 255)),
		B: uint8(clamp255(c.B * 255)),
		A: uint8(clamp255(c.A * 255)),
	}
}

// FromColor converts a color.Color to RGBA.
func FromColor(c color.Color) RGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGBA{
		R: float64(n.R) / 255,
		G: float64(n.G) / 255,
		B: float64(n.B) / 255,
		A: float64(n.A) / 255,
	}
}

// RGB returns an opaque color.
func RGB(r, g, b float64) RGBA {
	return RGBA{R: r, G: g, B: b, A: 1}
}

// Hex parses "RGB", "RGBA", "RRGGBB" or "RRGGBBAA", with or without a
// leading '#'. Malformed input yields opaque black.
func Hex(hex string) RGBA {
	if hex != "" && hex[0] == '#' {
		hex = hex[1:]
	}

	var v [4]uint32
	v[3] = 255
	switch len(hex) {
	case 3, 4:
		for i := range hex {
			v[i] = parseHex(hex[i:i+1]) * 17
		}
	case 6, 8:
		for i := 0; i < len(hex); i += 2 {
			v[i/2] = parseHex(hex[i : i+2])
		}
	default:
		return Black
	}
	return RGBA{
		R: float64(v[0]) / 255,
		G: float64(v[1]) / 255,
		B: float64(v[2]) / 255,
		A: float64(v[3]) / 255,
	}
}

func parseHex(s string) uint32 {
	var val uint32
	for i := 0; i < len(s); i++ {
		c := s[i]
		val *= 16
		switch {
		case '0' <= c && c <= '9':
			val += uint32(c - '0')
		case 'a' <= c && c <= 'f':
			val += uint32(c - 'a' + 10)
		case 'A' <= c && c <= 'F':
			val += uint32(c - 'A' + 10)
		default:
			return 0
		}
	}
	return val
}

// Premultiply returns c with its color components scaled by alpha, the
// form the GPU blend state expects.
func (c RGBA) Premultiply() RGBA {
	return RGBA{R: c.R * c.A, G: c.G * c.A, B: c.B * c.A, A: c.A}
}

func clamp255(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 255 {
		return 255
	}
	return math.Round(x)
}

// Common colors.
var (
	Black       = RGB(0, 0, 0)
	White       = RGB(1, 1, 1)
	Red         = RGB(1, 0, 0)
	Green       = RGB(0, 1, 0)
	Blue        = RGB(0, 0, 1)
	Transparent = RGBA{}
)

// Brush is how a draw is colored. Only solid colors are supported; image
// and gradient sources belong to the backend.
type Brush struct {
	Color RGBA
}

// Solid returns a brush of color c.
func Solid(c RGBA) Brush { return Brush{Color: c} }
