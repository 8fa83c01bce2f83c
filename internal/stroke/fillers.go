package stroke

import (
	"github.com/gogpu/strokemesh/internal/attrib"
)

// offsets records where each element starts in the attribute and index
// buffers; entry n is the end of the last element.
type offsets struct {
	attrs, indices []int
}

func newOffsets(n int) offsets {
	return offsets{attrs: make([]int, 0, n+1), indices: make([]int, 0, n+1)}
}

func (o *offsets) mark(w *meshWriter) {
	o.attrs = append(o.attrs, len(w.attrs))
	o.indices = append(o.indices, len(w.indices))
}

// chunk returns the view of elements r.
func (o *offsets) chunk(attrs []attrib.Attribute, indices []uint32, r attrib.Range, z attrib.Range) attrib.Chunk {
	a0, a1 := o.attrs[r.Begin], o.attrs[r.End]
	i0, i1 := o.indices[r.Begin], o.indices[r.End]
	return attrib.Chunk{
		Attributes:  attrs[a0:a1],
		Indices:     indices[i0:i1],
		IndexAdjust: -a0,
		ZRange:      z,
	}
}

func (o *offsets) setNodeChunk(chunks []attrib.Chunk, attrs []attrib.Attribute, indices []uint32, r RangeAndChunk) {
	if r.Empty() {
		return
	}
	chunks[r.Chunk] = o.chunk(attrs, indices, r.Elements, r.Depth)
}

func depthRange(d uint32) attrib.Range {
	return attrib.Range{Begin: int(d), End: int(d) + 1}
}

// EdgeFiller writes the sub-edges of Subsets in their draw order. Chunk i
// is the chunk id of a subset node.
type EdgeFiller struct {
	Style   EdgeStyle
	Subsets *EdgeSubsets
}

var _ attrib.Filler = (*EdgeFiller)(nil)

// ComputeSizes implements attrib.Filler.
func (f *EdgeFiller) ComputeSizes() attrib.Sizes {
	var sz attrib.Sizes
	for i := range f.Subsets.Edges {
		a, n := edgeSize(f.Style, &f.Subsets.Edges[i])
		sz.Attributes += a
		sz.Indices += n
	}
	sz.Chunks = f.Subsets.NumChunks
	return sz
}

// FillData implements attrib.Filler.
func (f *EdgeFiller) FillData(attrs []attrib.Attribute, indices []uint32, chunks []attrib.Chunk) {
	s := f.Subsets
	w := newMeshWriter(attrs, indices)
	off := newOffsets(len(s.Edges))
	for i := range s.Edges {
		off.mark(&w)
		if f.Style == ArcEdges {
			packArcEdge(&w, &s.Edges[i], s.Depths[i])
		} else {
			packLineEdge(&w, &s.Edges[i], s.Depths[i])
		}
	}
	off.mark(&w)

	for id := range s.nodes {
		off.setNodeChunk(chunks, attrs, indices, s.nodes[id].nonClosing)
		off.setNodeChunk(chunks, attrs, indices, s.nodes[id].closing)
	}
}

// JoinFiller writes the joins of Subsets. Every join has a chunk of its
// own besides the chunks of the subset nodes. Threshold is the rounding
// tolerance of RoundedJoins in units of the stroking radius.
type JoinFiller struct {
	Style     JoinStyle
	Threshold float64
	Subsets   *JoinSubsets
}

var _ attrib.Filler = (*JoinFiller)(nil)

// ComputeSizes implements attrib.Filler.
func (f *JoinFiller) ComputeSizes() attrib.Sizes {
	var sz attrib.Sizes
	for i := range f.Subsets.Joins {
		a, n := joinSize(f.Style, &f.Subsets.Joins[i].Join, f.Threshold)
		sz.Attributes += a
		sz.Indices += n
	}
	sz.Chunks = f.Subsets.NumJoinChunks
	return sz
}

// FillData implements attrib.Filler.
func (f *JoinFiller) FillData(attrs []attrib.Attribute, indices []uint32, chunks []attrib.Chunk) {
	s := f.Subsets
	w := newMeshWriter(attrs, indices)
	off := newOffsets(len(s.Joins))
	for i := range s.Joins {
		off.mark(&w)
		packJoin(&w, f.Style, &s.Joins[i].Join, f.Threshold, s.Joins[i].Depth)
	}
	off.mark(&w)

	for i := range s.Joins {
		r := attrib.Range{Begin: i, End: i + 1}
		chunks[s.Joins[i].Chunk] = off.chunk(attrs, indices, r, depthRange(s.Joins[i].Depth))
	}
	for id := range s.nodes {
		off.setNodeChunk(chunks, attrs, indices, s.nodes[id].nonClosing)
		off.setNodeChunk(chunks, attrs, indices, s.nodes[id].closing)
	}
}

// CapFiller writes the caps of Subsets, each with a chunk of its own
// besides the chunks of the subset nodes.
type CapFiller struct {
	Style     CapStyle
	Threshold float64
	Subsets   *JoinSubsets
}

var _ attrib.Filler = (*CapFiller)(nil)

// ComputeSizes implements attrib.Filler.
func (f *CapFiller) ComputeSizes() attrib.Sizes {
	a, n := capSize(f.Style, f.Threshold)
	c := len(f.Subsets.Caps)
	return attrib.Sizes{Attributes: a * c, Indices: n * c, Chunks: f.Subsets.NumCapChunks}
}

// FillData implements attrib.Filler.
func (f *CapFiller) FillData(attrs []attrib.Attribute, indices []uint32, chunks []attrib.Chunk) {
	s := f.Subsets
	w := newMeshWriter(attrs, indices)
	off := newOffsets(len(s.Caps))
	for i := range s.Caps {
		off.mark(&w)
		packCap(&w, f.Style, &s.Caps[i].Cap, f.Threshold, s.Caps[i].Depth)
	}
	off.mark(&w)

	for i := range s.Caps {
		r := attrib.Range{Begin: i, End: i + 1}
		chunks[s.Caps[i].Chunk] = off.chunk(attrs, indices, r, depthRange(s.Caps[i].Depth))
	}
	for id := range s.nodes {
		off.setNodeChunk(chunks, attrs, indices, s.nodes[id].caps)
	}
}
