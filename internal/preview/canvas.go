package preview

import (
	"errors"
	"fmt"
	"image"

	"golang.org/x/image/vector"

	"github.com/gogpu/strokemesh"
	"github.com/gogpu/strokemesh/internal/attrib"
	"github.com/gogpu/strokemesh/internal/stroke"
)

// ErrNotBegun is returned by Draw and End outside a frame.
var ErrNotBegun = errors.New("preview: draw outside Begin/End")

// Canvas is a strokemesh.Backend drawing into a Pixmap.
type Canvas struct {
	background strokemesh.RGBA
	pixmap     *Pixmap
	begun      bool

	ras  vector.Rasterizer
	mask []uint8
	pos  []vertex

	stats Stats
}

// Stats counts the work of the last frame.
type Stats struct {
	Draws     int
	Triangles int
	Fragments int
}

type vertex struct {
	p     strokemesh.Vec2
	depth int32
	ok    bool
}

// New returns a canvas clearing every frame to background.
func New(background strokemesh.RGBA) *Canvas {
	return &Canvas{background: background}
}

// Begin implements strokemesh.Backend.
func (c *Canvas) Begin(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("preview: invalid size %dx%d", width, height)
	}
	if c.pixmap == nil || c.pixmap.width != width || c.pixmap.height != height {
		c.pixmap = NewPixmap(width, height)
	} else {
		c.pixmap.ClearDepth()
	}
	c.pixmap.Clear(c.background)
	c.stats = Stats{}
	c.begun = true
	return nil
}

// End implements strokemesh.Backend.
func (c *Canvas) End() error {
	if !c.begun {
		return ErrNotBegun
	}
	c.begun = false
	return nil
}

// Pixmap returns the target of the last frame.
func (c *Canvas) Pixmap() *Pixmap { return c.pixmap }

// Stats returns the counters of the last frame.
func (c *Canvas) Stats() Stats { return c.stats }

// Draw implements strokemesh.Backend.
func (c *Canvas) Draw(d *strokemesh.Draw) error {
	if !c.begun {
		return ErrNotBegun
	}
	switch d.Shader {
	case strokemesh.ShaderStrokeAA, strokemesh.ShaderArcStrokeAA:
		return nil
	}
	c.stats.Draws++

	pm := d.Brush.Color.Premultiply()
	src := [4]float64{pm.R, pm.G, pm.B, pm.A}
	params := stroke.EvalParams{Radius: d.StrokeRadius, MiterLimit: d.MiterLimit}

	for _, ch := range d.Chunks {
		c.evaluate(d, &ch, params)
		for i := 0; i+2 < len(ch.Indices); i += 3 {
			a := int(ch.Indices[i]) + ch.IndexAdjust
			b := int(ch.Indices[i+1]) + ch.IndexAdjust
			e := int(ch.Indices[i+2]) + ch.IndexAdjust
			if a < 0 || b < 0 || e < 0 || a >= len(c.pos) || b >= len(c.pos) || e >= len(c.pos) {
				return fmt.Errorf("preview: %v index out of range", d.Shader)
			}
			c.triangle(d, &c.pos[a], &c.pos[b], &c.pos[e], src)
		}
	}
	return nil
}

// evaluate computes the pixel position and depth of every vertex of ch.
func (c *Canvas) evaluate(d *strokemesh.Draw, ch *attrib.Chunk, params stroke.EvalParams) {
	c.pos = c.pos[:0]
	arc := d.Shader.IsArc()
	for _, a := range ch.Attributes {
		var local strokemesh.Vec2
		depth := int32(d.Z)
		switch {
		case d.Shader.IsStroke():
			local = stroke.Evaluate(a, arc, params)
			if arc {
				pt := stroke.UnpackArcPoint(a)
				depth += int32(pt.Depth())
			} else {
				pt := stroke.UnpackStrokedPoint(a)
				depth += int32(pt.Depth())
			}
		default:
			local = strokemesh.V2(attrib.UnpackFloat(a.Attrib0[0]), attrib.UnpackFloat(a.Attrib0[1]))
		}
		h := d.Transform.Apply(local)
		v := vertex{depth: depth, ok: h.Z > 0}
		if v.ok {
			v.p = strokemesh.V2(h.X/h.Z, h.Y/h.Z)
		}
		c.pos = append(c.pos, v)
	}
}

// triangle rasterizes one triangle. Its depth is that of its first vertex;
// the packers give every vertex of a triangle the same depth.
func (c *Canvas) triangle(d *strokemesh.Draw, v0, v1, v2 *vertex, src [4]float64) {
	if !v0.ok || !v1.ok || !v2.ok {
		return
	}
	c.stats.Triangles++

	minX := min(v0.p.X, v1.p.X, v2.p.X)
	minY := min(v0.p.Y, v1.p.Y, v2.p.Y)
	maxX := max(v0.p.X, v1.p.X, v2.p.X)
	maxY := max(v0.p.Y, v1.p.Y, v2.p.Y)
	r := image.Rect(int(minX)-1, int(minY)-1, int(maxX)+2, int(maxY)+2).Intersect(c.pixmap.Bounds())
	if r.Empty() {
		return
	}

	w, h := r.Dx(), r.Dy()
	if cap(c.mask) < w*h {
		c.mask = make([]uint8, w*h)
	}
	mask := &image.Alpha{Pix: c.mask[:w*h], Stride: w, Rect: image.Rect(0, 0, w, h)}
	clear(mask.Pix)

	ox, oy := float64(r.Min.X), float64(r.Min.Y)
	c.ras.Reset(w, h)
	c.ras.MoveTo(float32(v0.p.X-ox), float32(v0.p.Y-oy))
	c.ras.LineTo(float32(v1.p.X-ox), float32(v1.p.Y-oy))
	c.ras.LineTo(float32(v2.p.X-ox), float32(v2.p.Y-oy))
	c.ras.ClosePath()
	c.ras.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})

	pw, ph := float64(c.pixmap.width), float64(c.pixmap.height)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if mask.Pix[y*w+x] < 128 {
				continue
			}
			px, py := r.Min.X+x, r.Min.Y+y
			if !inside(d.ClipEquations, 2*(float64(px)+0.5)/pw-1, 2*(float64(py)+0.5)/ph-1) {
				continue
			}
			i := py*c.pixmap.width + px
			if v0.depth <= c.pixmap.depth[i] {
				continue
			}
			c.pixmap.depth[i] = v0.depth
			c.stats.Fragments++
			if d.ColorWrite {
				c.pixmap.blend(i, src, d.Blend)
			}
		}
	}
}

func inside(eqs []strokemesh.Vec3, x, y float64) bool {
	for _, e := range eqs {
		if e.Eval(strokemesh.V2(x, y)) < 0 {
			return false
		}
	}
	return true
}
