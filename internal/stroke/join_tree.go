package stroke

import (
	"slices"

	"github.com/gogpu/strokemesh/internal/attrib"
	"github.com/gogpu/strokemesh/internal/geom"
)

// joinSplitThreshold is the join plus cap count from which a node is split.
const joinSplitThreshold = 10

// joinCullNode is a node of the transient join and cap culling tree.
// Leaves own their joins, non-closing first, and their caps.
type joinCullNode struct {
	bounds     geom.BoundingBox
	children   children
	joins      []Join
	nonClosing int
	caps       []Cap
}

type joinCullingTree struct {
	nodes []joinCullNode
}

// buildJoinCullingTree gathers the joins drawn in every case, then the
// closing joins of open contours, then the caps of open contours, and
// partitions them. Closed contours contribute all their joins to the
// first run and no caps.
func buildJoinCullingTree(b *JoinBuilder) *joinCullingTree {
	var joins []Join
	var caps []Cap
	contours := b.Contours()
	for i := range contours {
		c := &contours[i]
		if c.Closed {
			joins = append(joins, c.Joins...)
			continue
		}
		caps = append(caps, c.Caps[0], c.Caps[1])
		joins = append(joins, c.NonClosing()...)
	}
	for i := range contours {
		if contours[i].Closed {
			continue
		}
		for _, j := range contours[i].Closing() {
			j.optional = true
			joins = append(joins, j)
		}
	}

	t := &joinCullingTree{}
	t.build(b.Bounds(), joins, caps)
	return t
}

func (t *joinCullingTree) build(bounds geom.BoundingBox, joins []Join, caps []Cap) int {
	id := len(t.nodes)
	t.nodes = append(t.nodes, joinCullNode{bounds: bounds, children: leaf()})

	if c, v, ok := chooseJoinSplit(bounds, joins, caps); ok {
		var childJoins [2][]Join
		var childCaps [2][]Cap
		var childBounds [2]geom.BoundingBox

		// joins arrive non-closing first, so the children keep that order
		for _, j := range joins {
			s := side(j.Position.Coord(c) < v)
			childJoins[s] = append(childJoins[s], j)
			childBounds[s].UnionPoint(j.Position)
		}
		for _, cp := range caps {
			s := side(cp.Position.Coord(c) < v)
			childCaps[s] = append(childCaps[s], cp)
			childBounds[s].UnionPoint(cp.Position)
		}

		total := len(joins) + len(caps)
		if len(childJoins[0])+len(childCaps[0]) < total && len(childJoins[1])+len(childCaps[1]) < total {
			c0 := t.build(childBounds[0], childJoins[0], childCaps[0])
			c1 := t.build(childBounds[1], childJoins[1], childCaps[1])
			t.nodes[id].children = link(c0, c1)
			return id
		}
	}

	n := &t.nodes[id]
	n.joins = joins
	n.caps = caps
	for n.nonClosing < len(joins) && !joins[n.nonClosing].optional {
		n.nonClosing++
	}
	return id
}

// side maps "below the split" to child 1.
func side(below bool) int {
	if below {
		return 1
	}
	return 0
}

// chooseJoinSplit splits along the longer side of the box at the median
// of the join and cap positions.
func chooseJoinSplit(bounds geom.BoundingBox, joins []Join, caps []Cap) (int, float64, bool) {
	n := len(joins) + len(caps)
	if n < joinSplitThreshold {
		return -1, 0, false
	}
	sz := bounds.Size()
	c := 1
	if sz.X > sz.Y {
		c = 0
	}

	qs := make([]float64, 0, n)
	for i := range joins {
		qs = append(qs, joins[i].Position.Coord(c))
	}
	for i := range caps {
		qs = append(qs, caps[i].Position.Coord(c))
	}
	slices.Sort(qs)
	hi := min(n/2+1, n-1)
	return c, 0.5 * (qs[n/2] + qs[hi]), true
}

// JoinEntry is a join at its place in the draw ordering.
type JoinEntry struct {
	Join
	Chunk int
	Depth uint32
}

// CapEntry is a cap at its place in the draw ordering.
type CapEntry struct {
	Cap
	Chunk int
	Depth uint32
}

// JoinCreationValues carries the chunk counters and orderings while join
// subsets are built. Every join and cap claims a chunk of its own, and
// every node claims one per primitive kind after its children.
type JoinCreationValues struct {
	NonClosingJoinChunks int
	ClosingJoinChunks    int
	CapChunks            int

	nonClosing []JoinEntry
	closing    []JoinEntry
	caps       []CapEntry
}

type joinSubset struct {
	bounds     geom.BoundingBox
	children   children
	nonClosing RangeAndChunk
	closing    RangeAndChunk
	caps       RangeAndChunk
}

// JoinSubsets is the flattened join and cap culling tree. Node 0 is the
// root.
type JoinSubsets struct {
	nodes []joinSubset

	// Joins lists non-closing joins, then closing ones, in draw order.
	Joins         []JoinEntry
	Caps          []CapEntry
	NumNonClosing int

	NumJoinChunks int
	NumCapChunks  int
}

// NewJoinSubsets partitions the joins and caps of b and flattens the
// result.
func NewJoinSubsets(b *JoinBuilder) *JoinSubsets {
	s := &JoinSubsets{}
	if b.Bounds().Empty() {
		return s
	}
	tree := buildJoinCullingTree(b)

	var cv JoinCreationValues
	s.build(tree, 0, &cv)

	s.NumNonClosing = len(cv.nonClosing)
	s.Joins = append(cv.nonClosing, cv.closing...)
	s.Caps = cv.caps
	s.NumJoinChunks = cv.NonClosingJoinChunks + cv.ClosingJoinChunks
	s.NumCapChunks = cv.CapChunks

	vars := joinDepthVariables{nonClosing: uint32(len(cv.closing))}
	s.postProcess(0, &vars, &cv)

	for i := s.NumNonClosing; i < len(s.Joins); i++ {
		s.Joins[i].Chunk += cv.NonClosingJoinChunks
	}
	return s
}

func (s *JoinSubsets) build(tree *joinCullingTree, src int, cv *JoinCreationValues) int {
	id := len(s.nodes)
	s.nodes = append(s.nodes, joinSubset{bounds: tree.nodes[src].bounds, children: leaf()})

	nonClosingBegin, closingBegin, capBegin := len(cv.nonClosing), len(cv.closing), len(cv.caps)
	cn := &tree.nodes[src]
	if cn.children.ok {
		c0 := s.build(tree, cn.children.ids[0], cv)
		c1 := s.build(tree, cn.children.ids[1], cv)
		s.nodes[id].children = link(c0, c1)
	} else {
		for i, j := range cn.joins {
			if i < cn.nonClosing {
				cv.nonClosing = append(cv.nonClosing, JoinEntry{Join: j, Chunk: cv.NonClosingJoinChunks})
				cv.NonClosingJoinChunks++
			} else {
				cv.closing = append(cv.closing, JoinEntry{Join: j, Chunk: cv.ClosingJoinChunks})
				cv.ClosingJoinChunks++
			}
		}
		for _, c := range cn.caps {
			cv.caps = append(cv.caps, CapEntry{Cap: c, Chunk: cv.CapChunks})
			cv.CapChunks++
		}
	}

	n := &s.nodes[id]
	n.nonClosing = RangeAndChunk{
		Elements: attrib.Range{Begin: nonClosingBegin, End: len(cv.nonClosing)},
		Chunk:    cv.NonClosingJoinChunks,
	}
	n.closing = RangeAndChunk{
		Elements: attrib.Range{Begin: closingBegin, End: len(cv.closing)},
		Chunk:    cv.ClosingJoinChunks,
	}
	n.caps = RangeAndChunk{
		Elements: attrib.Range{Begin: capBegin, End: len(cv.caps)},
		Chunk:    cv.CapChunks,
	}
	cv.NonClosingJoinChunks++
	cv.ClosingJoinChunks++
	cv.CapChunks++
	return id
}

type joinDepthVariables struct {
	nonClosing, closing, caps uint32
}

func (s *JoinSubsets) postProcess(id int, v *joinDepthVariables, cv *JoinCreationValues) {
	n := &s.nodes[id]
	n.nonClosing.Depth.Begin = int(v.nonClosing)
	n.closing.Depth.Begin = int(v.closing)
	n.caps.Depth.Begin = int(v.caps)

	if n.children.ok {
		s.postProcess(n.children.ids[1], v, cv)
		s.postProcess(n.children.ids[0], v, cv)
	} else {
		assignJoinDepths(s.Joins, n.nonClosing.Elements, 0, &v.nonClosing)
		assignJoinDepths(s.Joins, n.closing.Elements, s.NumNonClosing, &v.closing)
		d := v.caps + uint32(n.caps.Elements.Len())
		for i := n.caps.Elements.Begin; i < n.caps.Elements.End; i++ {
			d--
			s.Caps[i].Depth = min(d, MaxDepth)
		}
		v.caps += uint32(n.caps.Elements.Len())
	}

	n = &s.nodes[id]
	n.nonClosing.Depth.End = int(v.nonClosing)
	n.closing.Depth.End = int(v.closing)
	n.caps.Depth.End = int(v.caps)

	n.closing.Elements.Begin += s.NumNonClosing
	n.closing.Elements.End += s.NumNonClosing
	n.closing.Chunk += cv.NonClosingJoinChunks
}

// assignJoinDepths is assignDescending for join entries.
func assignJoinDepths(dst []JoinEntry, r attrib.Range, offset int, depth *uint32) {
	d := *depth + uint32(r.Len())
	for i := r.Begin; i < r.End; i++ {
		d--
		dst[offset+i].Depth = min(d, MaxDepth)
	}
	*depth += uint32(r.Len())
}

// NumNodes returns the number of subset nodes.
func (s *JoinSubsets) NumNodes() int { return len(s.nodes) }

// NonClosingJoins returns the non-closing join share of node id.
func (s *JoinSubsets) NonClosingJoins(id int) RangeAndChunk { return s.nodes[id].nonClosing }

// ClosingJoins returns the closing join share of node id.
func (s *JoinSubsets) ClosingJoins(id int) RangeAndChunk { return s.nodes[id].closing }

// CapRange returns the cap share of node id.
func (s *JoinSubsets) CapRange(id int) RangeAndChunk { return s.nodes[id].caps }

// Children returns the children of node id and whether it has any.
func (s *JoinSubsets) Children(id int) (int, int, bool) {
	c := s.nodes[id].children
	return c.ids[0], c.ids[1], c.ok
}

// Bounds returns the box of node id.
func (s *JoinSubsets) Bounds(id int) geom.BoundingBox { return s.nodes[id].bounds }
