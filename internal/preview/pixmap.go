// Package preview rasterizes painter draws on the CPU.
//
// Triangles are rasterized with golang.org/x/image/vector; a pixel is
// covered when at least half of it lies inside. Each pixel keeps an
// integer depth and accepts a fragment only when its depth is greater,
// which reproduces the occlusion of the GPU backend: every pixel of a
// stroke blends once, and occluders hide later draws with lower depth.
//
// Anti-aliasing fringes and glyph atlas sampling are not reproduced;
// glyph quads are filled with the draw brush.
package preview

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"

	"github.com/gogpu/strokemesh"
)

// Pixmap is an RGBA target with a depth value per pixel. Colors are
// stored premultiplied, 4 bytes per pixel.
type Pixmap struct {
	width  int
	height int
	data   []uint8
	depth  []int32
}

// NewPixmap creates a transparent pixmap with every depth cleared.
func NewPixmap(width, height int) *Pixmap {
	p := &Pixmap{
		width:  width,
		height: height,
		data:   make([]uint8, width*height*4),
		depth:  make([]int32, width*height),
	}
	p.ClearDepth()
	return p
}

// Width returns the width of the pixmap.
func (p *Pixmap) Width() int { return p.width }

// Height returns the height of the pixmap.
func (p *Pixmap) Height() int { return p.height }

// Clear fills the pixmap with c.
func (p *Pixmap) Clear(c strokemesh.RGBA) {
	pm := c.Premultiply()
	r, g, b, a := to8(pm.R), to8(pm.G), to8(pm.B), to8(pm.A)
	for i := 0; i < len(p.data); i += 4 {
		p.data[i+0] = r
		p.data[i+1] = g
		p.data[i+2] = b
		p.data[i+3] = a
	}
}

// ClearDepth resets every depth below any draw.
func (p *Pixmap) ClearDepth() {
	for i := range p.depth {
		p.depth[i] = math.MinInt32
	}
}

// Depth returns the depth stored at (x, y), or math.MinInt32 when nothing
// has been drawn there.
func (p *Pixmap) Depth(x, y int) int32 {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return math.MinInt32
	}
	return p.depth[y*p.width+x]
}

// Pixel returns the unpremultiplied color at (x, y).
func (p *Pixmap) Pixel(x, y int) strokemesh.RGBA {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return strokemesh.Transparent
	}
	i := (y*p.width + x) * 4
	a := float64(p.data[i+3]) / 255
	if a == 0 {
		return strokemesh.Transparent
	}
	return strokemesh.RGBA{
		R: float64(p.data[i+0]) / 255 / a,
		G: float64(p.data[i+1]) / 255 / a,
		B: float64(p.data[i+2]) / 255 / a,
		A: a,
	}
}

// blend combines the premultiplied color src into pixel i.
func (p *Pixmap) blend(i int, src [4]float64, mode strokemesh.BlendMode) {
	d := p.data[i*4 : i*4+4]
	for k := 0; k < 4; k++ {
		dst := float64(d[k]) / 255
		var v float64
		switch mode {
		case strokemesh.BlendSource:
			v = src[k]
		case strokemesh.BlendAdd:
			v = math.Min(1, dst+src[k])
		default:
			v = src[k] + dst*(1-src[3])
		}
		d[k] = to8(v)
	}
}

// ToImage copies the pixmap into an image.RGBA.
func (p *Pixmap) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, p.width, p.height))
	copy(img.Pix, p.data)
	return img
}

// EncodePNG writes the pixmap as PNG.
func (p *Pixmap) EncodePNG(w io.Writer) error {
	return png.Encode(w, p.ToImage())
}

// SavePNG writes the pixmap to a PNG file.
func (p *Pixmap) SavePNG(path string) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	if err := p.EncodePNG(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// At implements the image.Image interface.
func (p *Pixmap) At(x, y int) color.Color {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return color.RGBA{}
	}
	i := (y*p.width + x) * 4
	return color.RGBA{R: p.data[i], G: p.data[i+1], B: p.data[i+2], A: p.data[i+3]}
}

// Bounds implements the image.Image interface.
func (p *Pixmap) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.width, p.height)
}

// ColorModel implements the image.Image interface.
func (p *Pixmap) ColorModel() color.Model {
	return color.RGBAModel
}

func to8(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}
