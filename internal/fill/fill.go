// Package fill decomposes filled paths into triangles grouped by winding
// number, so that one decomposition serves every fill rule.
package fill

import (
	"slices"

	"github.com/gogpu/strokemesh/internal/attrib"
	"github.com/gogpu/strokemesh/internal/geom"
	"github.com/gogpu/strokemesh/internal/path"
)

// Rule decides from a winding number whether a point is filled.
type Rule int

const (
	NonZero Rule = iota
	EvenOdd
	// ComplementNonZero and ComplementEvenOdd fill what their base rule
	// leaves empty, within the path bounds.
	ComplementNonZero
	ComplementEvenOdd
)

// Inside reports whether winding number w is filled under r.
func (r Rule) Inside(w int) bool {
	switch r {
	case NonZero:
		return w != 0
	case EvenOdd:
		return w%2 != 0
	case ComplementNonZero:
		return w == 0
	case ComplementEvenOdd:
		return w%2 == 0
	default:
		return false
	}
}

// Complement returns the rule filling the opposite region.
func (r Rule) Complement() Rule {
	switch r {
	case NonZero:
		return ComplementNonZero
	case EvenOdd:
		return ComplementEvenOdd
	case ComplementNonZero:
		return NonZero
	default:
		return EvenOdd
	}
}

func (r Rule) String() string {
	switch r {
	case NonZero:
		return "NonZero"
	case EvenOdd:
		return "EvenOdd"
	case ComplementNonZero:
		return "ComplementNonZero"
	case ComplementEvenOdd:
		return "ComplementEvenOdd"
	default:
		return "Unknown"
	}
}

// ChunkFromWinding returns the chunk holding winding number w: zero maps
// to chunk 0, positive w to 2w-1 and negative w to -2w.
func ChunkFromWinding(w int) int {
	switch {
	case w > 0:
		return 2*w - 1
	case w < 0:
		return -2 * w
	default:
		return 0
	}
}

// WindingFromChunk is the inverse of ChunkFromWinding.
func WindingFromChunk(c int) int {
	if c%2 == 1 {
		return (c + 1) / 2
	}
	return -c / 2
}

// FilledPath is the trapezoid decomposition of a path together with its
// attribute data, one chunk per winding number.
type FilledPath struct {
	bounds   geom.BoundingBox
	cells    []Trapezoid
	windings []int
	data     *attrib.Data
}

// NewFilledPath decomposes tp. Arc segments are filled along their chords,
// so tp should be tessellated without arcs.
func NewFilledPath(tp *path.TessellatedPath) *FilledPath {
	var edges []edge
	for i := range tp.Segments {
		s := &tp.Segments[i]
		if e, ok := newEdge(s.Start, s.End); ok {
			edges = append(edges, e)
		}
	}
	p := &FilledPath{bounds: tp.Bounds}
	p.cells = decompose(edges, tp.Bounds)
	slices.SortStableFunc(p.cells, func(a, b Trapezoid) int {
		return ChunkFromWinding(a.Winding) - ChunkFromWinding(b.Winding)
	})
	for i := range p.cells {
		w := p.cells[i].Winding
		if len(p.windings) == 0 || p.windings[len(p.windings)-1] != w {
			p.windings = append(p.windings, w)
		}
	}
	p.data = attrib.New(&filler{cells: p.cells})
	return p
}

// Bounds returns the bounding box of the path.
func (p *FilledPath) Bounds() geom.BoundingBox { return p.bounds }

// Trapezoids returns the cells, ordered by chunk.
func (p *FilledPath) Trapezoids() []Trapezoid { return p.cells }

// Windings returns the winding numbers present, in chunk order.
func (p *FilledPath) Windings() []int { return p.windings }

// Data returns the attribute data; chunk ChunkFromWinding(w) holds the
// cells of winding w.
func (p *FilledPath) Data() *attrib.Data { return p.data }

// Select appends to dst the chunks filled under r.
func (p *FilledPath) Select(r Rule, dst []int) []int {
	for _, w := range p.windings {
		if r.Inside(w) {
			dst = append(dst, ChunkFromWinding(w))
		}
	}
	return dst
}

// filler writes each cell as a quad of two triangles. Attrib0 holds the
// position; the other slots are zero.
type filler struct {
	cells []Trapezoid
}

var _ attrib.Filler = (*filler)(nil)

func (f *filler) ComputeSizes() attrib.Sizes {
	n := 0
	for i := range f.cells {
		n = max(n, ChunkFromWinding(f.cells[i].Winding)+1)
	}
	return attrib.Sizes{Attributes: 4 * len(f.cells), Indices: 6 * len(f.cells), Chunks: n}
}

func (f *filler) FillData(attrs []attrib.Attribute, indices []uint32, chunks []attrib.Chunk) {
	for begin := 0; begin < len(f.cells); {
		w := f.cells[begin].Winding
		end := begin
		for end < len(f.cells) && f.cells[end].Winding == w {
			c := &f.cells[end]
			v := uint32(4 * end)
			for k, q := range c.Corners {
				attrs[int(v)+k] = attrib.Attribute{Attrib0: attrib.PackVec4(q.X, q.Y, 0, 0)}
			}
			copy(indices[6*end:], []uint32{v, v + 1, v + 2, v, v + 2, v + 3})
			end++
		}
		chunks[ChunkFromWinding(w)] = attrib.Chunk{
			Attributes:  attrs[4*begin : 4*end],
			Indices:     indices[6*begin : 6*end],
			IndexAdjust: -4 * begin,
			ZRange:      attrib.Range{Begin: 0, End: 1},
		}
		begin = end
	}
}
