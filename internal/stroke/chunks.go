package stroke

import (
	"errors"
	"math"

	"github.com/gogpu/strokemesh/internal/attrib"
	"github.com/gogpu/strokemesh/internal/clip"
	"github.com/gogpu/strokemesh/internal/geom"
)

// ErrBudgetExceeded is reported when a single primitive, or a leaf with no
// finer chunks, needs more attributes or indices than one draw may use.
// The offending chunk is left out of the selection.
var ErrBudgetExceeded = errors.New("stroke: chunk exceeds attribute/index budget")

// Scratch is reusable work memory for chunk selection. It is owned by one
// caller; Clear keeps the allocations.
type Scratch struct {
	clip    clip.Scratch
	planes  []geom.Vec3
	pending []int
}

// Clear empties the scratch buffers.
func (s *Scratch) Clear() {
	s.clip.Clear()
	s.planes = s.planes[:0]
	s.pending = s.pending[:0]
}

// SelectParams describe the visible region and the draw budget.
type SelectParams struct {
	// ClipEquations are half-planes in clip coordinates; a point is
	// visible when dot(eq, (x, y, 1)) >= 0 for all of them.
	ClipEquations []geom.Vec3
	// ClipMatrix maps local coordinates to clip coordinates.
	ClipMatrix geom.Mat3
	// RecipResolution is the size of one pixel in clip coordinates.
	RecipResolution geom.Vec2
	// PixelSlack grows the visible region by that many pixels.
	PixelSlack float64

	// MaxAttributes and MaxIndices bound a single chunk. Zero means no
	// bound.
	MaxAttributes int
	MaxIndices    int

	// IncludeClosing selects the closing edges and their joins; caps are
	// selected only without it.
	IncludeClosing bool
}

func (p *SelectParams) fits(c attrib.Chunk) bool {
	return (p.MaxAttributes <= 0 || len(c.Attributes) <= p.MaxAttributes) &&
		(p.MaxIndices <= 0 || len(c.Indices) <= p.MaxIndices)
}

// ChunkSet is the result of chunk selection: chunk ids into the edge,
// join and cap data, in draw order.
type ChunkSet struct {
	Edges []int
	Joins []int
	Caps  []int
}

// Reset empties the set and keeps its allocations.
func (c *ChunkSet) Reset() {
	c.Edges = c.Edges[:0]
	c.Joins = c.Joins[:0]
	c.Caps = c.Caps[:0]
}

// prepare grows the clip equations by the pixel slack and pulls them
// back into local coordinates.
func (s *Scratch) prepare(p *SelectParams) {
	s.planes = s.planes[:0]
	for _, c := range p.ClipEquations {
		f := math.Abs(c.X)*p.RecipResolution.X + math.Abs(c.Y)*p.RecipResolution.Y
		c.Z += p.PixelSlack * f
		s.planes = append(s.planes, p.ClipMatrix.PullbackPlane(c))
	}
}

// cull clips box, grown by slack, against the prepared planes. It reports
// whether anything is left and whether the box is entirely inside.
func (s *Scratch) cull(box geom.BoundingBox, slack float64) (visible, unclipped bool) {
	if box.Empty() {
		return false, false
	}
	corners := box.InflatedPolygon(slack)
	out, unclipped := clip.ClipAgainstPlanes(s.planes, corners[:], &s.clip)
	return len(out) > 0, unclipped
}

// ComputeChunks appends to dst.Edges the chunks of data, built from t,
// whose sub-edges may be visible. itemSlack grows the node boxes in local
// units, typically by the stroking radius. It returns ErrBudgetExceeded
// when a leaf did not fit the budget.
func (t *EdgeSubsets) ComputeChunks(s *Scratch, p *SelectParams, itemSlack float64, data *attrib.Data, dst *ChunkSet) error {
	if len(t.nodes) == 0 {
		return nil
	}
	s.prepare(p)
	s.pending = s.pending[:0]
	sel := edgeSelection{t: t, s: s, p: p, data: data, slack: itemSlack}
	sel.visit(0, dst)
	// closing edges are drawn after every non-closing edge
	dst.Edges = append(dst.Edges, s.pending...)
	if sel.overflow {
		return ErrBudgetExceeded
	}
	return nil
}

type edgeSelection struct {
	t        *EdgeSubsets
	s        *Scratch
	p        *SelectParams
	data     *attrib.Data
	slack    float64
	overflow bool
}

func (e *edgeSelection) visit(id int, dst *ChunkSet) {
	visible, unclipped := e.s.cull(e.t.nodes[id].bounds, e.slack)
	if !visible {
		return
	}
	c0, c1, ok := e.t.Children(id)
	if unclipped || !ok {
		dst.Edges = e.take(id, false, dst.Edges)
		if e.p.IncludeClosing {
			e.s.pending = e.take(id, true, e.s.pending)
		}
		return
	}
	e.visit(c0, dst)
	e.visit(c1, dst)
}

// take appends the chunk of node id, descending into the children while
// the chunk is over budget.
func (e *edgeSelection) take(id int, closing bool, dst []int) []int {
	r := e.t.nodes[id].nonClosing
	if closing {
		r = e.t.nodes[id].closing
	}
	if r.Empty() {
		return dst
	}
	if e.p.fits(e.data.Chunk(r.Chunk)) {
		return append(dst, r.Chunk)
	}
	c0, c1, ok := e.t.Children(id)
	if !ok {
		e.overflow = true
		return dst
	}
	dst = e.take(c0, closing, dst)
	return e.take(c1, closing, dst)
}

// ComputeChunks appends to dst the join chunks of joins and the cap
// chunks of caps that may be visible. With takeJoinsOutside every join is
// selected regardless of the clip region; caps are still culled. Either
// data may be nil, in which case nothing of that kind is selected.
func (t *JoinSubsets) ComputeChunks(s *Scratch, p *SelectParams, itemSlack float64, takeJoinsOutside bool,
	joins, caps *attrib.Data, dst *ChunkSet) error {
	if len(t.nodes) == 0 {
		return nil
	}
	s.prepare(p)
	s.pending = s.pending[:0]
	sel := joinSelection{t: t, s: s, p: p, joins: joins, caps: caps, slack: itemSlack}
	if takeJoinsOutside && joins != nil {
		dst.Joins = sel.takeJoins(0, false, dst.Joins)
		if p.IncludeClosing {
			s.pending = sel.takeJoins(0, true, s.pending)
		}
		sel.joins = nil
	}
	sel.visit(0, dst)
	dst.Joins = append(dst.Joins, s.pending...)
	if sel.overflow {
		return ErrBudgetExceeded
	}
	return nil
}

type joinSelection struct {
	t           *JoinSubsets
	s           *Scratch
	p           *SelectParams
	joins, caps *attrib.Data
	slack       float64
	overflow    bool
}

func (j *joinSelection) visit(id int, dst *ChunkSet) {
	visible, unclipped := j.s.cull(j.t.nodes[id].bounds, j.slack)
	if !visible {
		return
	}
	c0, c1, ok := j.t.Children(id)
	if unclipped || !ok {
		if j.joins != nil {
			dst.Joins = j.takeJoins(id, false, dst.Joins)
			if j.p.IncludeClosing {
				j.s.pending = j.takeJoins(id, true, j.s.pending)
			}
		}
		if j.caps != nil && !j.p.IncludeClosing {
			dst.Caps = j.takeCaps(id, dst.Caps)
		}
		return
	}
	j.visit(c0, dst)
	j.visit(c1, dst)
}

func (j *joinSelection) takeJoins(id int, closing bool, dst []int) []int {
	n := &j.t.nodes[id]
	r := n.nonClosing
	if closing {
		r = n.closing
	}
	if r.Empty() {
		return dst
	}
	if j.p.fits(j.joins.Chunk(r.Chunk)) {
		return append(dst, r.Chunk)
	}
	if c0, c1, ok := j.t.Children(id); ok {
		dst = j.takeJoins(c0, closing, dst)
		return j.takeJoins(c1, closing, dst)
	}
	// a leaf falls back to the chunk of each join
	for i := r.Elements.Begin; i < r.Elements.End; i++ {
		c := j.t.Joins[i].Chunk
		if j.p.fits(j.joins.Chunk(c)) {
			dst = append(dst, c)
		} else {
			j.overflow = true
		}
	}
	return dst
}

func (j *joinSelection) takeCaps(id int, dst []int) []int {
	r := j.t.nodes[id].caps
	if r.Empty() {
		return dst
	}
	if j.p.fits(j.caps.Chunk(r.Chunk)) {
		return append(dst, r.Chunk)
	}
	if c0, c1, ok := j.t.Children(id); ok {
		dst = j.takeCaps(c0, dst)
		return j.takeCaps(c1, dst)
	}
	for i := r.Elements.Begin; i < r.Elements.End; i++ {
		c := j.t.Caps[i].Chunk
		if j.p.fits(j.caps.Chunk(c)) {
			dst = append(dst, c)
		} else {
			j.overflow = true
		}
	}
	return dst
}
