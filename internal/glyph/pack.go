package glyph

import (
	"github.com/gogpu/strokemesh/internal/attrib"
	"github.com/gogpu/strokemesh/internal/geom"
)

// quad is one uploaded glyph.
type quad struct {
	pen geom.Vec2
	loc Location
}

// quadFiller writes one chunk holding every quad; glyphs carry no depth
// of their own.
type quadFiller struct {
	quads []quad
	t     RenderType
	size  float64
}

func (f *quadFiller) ComputeSizes() attrib.Sizes {
	return attrib.Sizes{Attributes: 4 * len(f.quads), Indices: 6 * len(f.quads), Chunks: 1}
}

func (f *quadFiller) FillData(attrs []attrib.Attribute, indices []uint32, chunks []attrib.Chunk) {
	idx := indices[:0]
	for i, q := range f.quads {
		p0 := q.pen.Add(q.loc.Bearing)
		p1 := p0.Add(q.loc.Size)
		corners := [4][2]geom.Vec2{
			{p0, q.loc.TexMin},
			{geom.V2(p1.X, p0.Y), geom.V2(q.loc.TexMax.X, q.loc.TexMin.Y)},
			{p1, q.loc.TexMax},
			{geom.V2(p0.X, p1.Y), geom.V2(q.loc.TexMin.X, q.loc.TexMax.Y)},
		}
		v := 4 * i
		for k, c := range corners {
			attrs[v+k] = attrib.Attribute{
				Attrib0: attrib.PackVec4(c[0].X, c[0].Y, c[1].X, c[1].Y),
				Attrib1: [4]uint32{uint32(q.loc.Layer), uint32(f.t), attrib.PackFloat(f.size), 0},
			}
		}
		idx = attrib.AddTriangleFan(uint32(v), uint32(v+4), idx)
	}
	chunks[0] = attrib.Chunk{
		Attributes: attrs,
		Indices:    indices,
		ZRange:     attrib.Range{Begin: 0, End: 1},
	}
}

// Pack uploads glyphs to atlas and builds their quads. It stops at the
// first glyph the atlas rejects and returns its index together with
// ErrAtlasFull; the data holds the glyphs before it. When every glyph is
// uploaded the index is len(glyphs).
func Pack(glyphs []Glyph, atlas Atlas, size float64, t RenderType) (*attrib.Data, int, error) {
	f := &quadFiller{quads: make([]quad, 0, len(glyphs)), t: t, size: size}
	for i, g := range glyphs {
		loc, ok := atlas.Upload(g.ID, size, t)
		if !ok {
			return attrib.New(f), i, ErrAtlasFull
		}
		if loc.Size.X == 0 || loc.Size.Y == 0 {
			// blank glyphs such as spaces
			continue
		}
		f.quads = append(f.quads, quad{pen: g.Position, loc: loc})
	}
	return attrib.New(f), len(glyphs), nil
}
