package stroke

import (
	"slices"

	"github.com/gogpu/strokemesh/internal/attrib"
	"github.com/gogpu/strokemesh/internal/geom"
)

const (
	// edgeSplitThreshold is the sub-edge count from which a node is split.
	edgeSplitThreshold = 50
	// edgeMaxRecursion bounds the depth of the edge culling tree.
	edgeMaxRecursion = 10
)

// children links a tree node to its two children. A node has both
// children or neither.
type children struct {
	ids [2]int
	ok  bool
}

func leaf() children { return children{ids: [2]int{-1, -1}} }

func link(c0, c1 int) children {
	if c0 < 0 || c1 < 0 {
		panic("stroke: tree node needs both children")
	}
	return children{ids: [2]int{c0, c1}, ok: true}
}

// edgeCullNode is a node of the transient edge culling tree. Leaves own
// their sub-edges: the non-closing ones first, then the closing ones.
type edgeCullNode struct {
	bounds     geom.BoundingBox
	children   children
	edges      []SubEdge
	nonClosing int
}

type edgeCullingTree struct {
	nodes []edgeCullNode
}

func buildEdgeCullingTree(edges []SubEdge, nonClosing int) *edgeCullingTree {
	t := &edgeCullingTree{}
	var bounds geom.BoundingBox
	for i := range edges {
		bounds.UnionBox(edges[i].Bounds)
	}
	t.build(bounds, edges, nonClosing, 0)
	return t
}

func (t *edgeCullingTree) build(bounds geom.BoundingBox, edges []SubEdge, nonClosing, depth int) int {
	id := len(t.nodes)
	t.nodes = append(t.nodes, edgeCullNode{bounds: bounds, children: leaf()})

	if len(edges) >= edgeSplitThreshold && depth <= edgeMaxRecursion {
		if c, v, ok := chooseEdgeSplit(bounds, edges); ok {
			var parts [2][]SubEdge
			var partNonClosing [2]int
			var partBounds [2]geom.BoundingBox
			add := func(side int, e SubEdge, closing bool) {
				parts[side] = append(parts[side], e)
				partBounds[side].UnionBox(e.Bounds)
				if !closing {
					partNonClosing[side]++
				}
			}
			for i := range edges {
				e := &edges[i]
				closing := i >= nonClosing
				switch e.splitSide(c, v) {
				case -1:
					add(0, *e, closing)
				case 1:
					add(1, *e, closing)
				default:
					first, second := e.splitAt(c, v)
					if e.Start.Coord(c) < v {
						add(0, first, closing)
						add(1, second, closing)
					} else {
						add(1, first, closing)
						add(0, second, closing)
					}
				}
			}
			c0 := t.build(partBounds[0], parts[0], partNonClosing[0], depth+1)
			c1 := t.build(partBounds[1], parts[1], partNonClosing[1], depth+1)
			t.nodes[id].children = link(c0, c1)
			return id
		}
	}

	n := &t.nodes[id]
	n.edges = edges
	n.nonClosing = nonClosing
	return id
}

// chooseEdgeSplit picks the split coordinate and value for edges. For
// each axis the candidate is the median of the box extremes and the
// segment end points; the axis cutting fewer sub-edges wins. When the
// winner would not shrink both children the node stays whole; the other
// axis is not tried.
func chooseEdgeSplit(bounds geom.BoundingBox, edges []SubEdge) (int, float64, bool) {
	var values [2]float64
	var splitCounts [2]int
	var childCounts [2][2]int

	qs := make([]float64, 0, len(edges)+3)
	for c := 0; c < 2; c++ {
		qs = qs[:0]
		qs = append(qs, bounds.Min().Coord(c), bounds.Max().Coord(c))
		for i := range edges {
			qs = append(qs, edges[i].Start.Coord(c))
		}
		qs = append(qs, edges[len(edges)-1].End.Coord(c))
		slices.Sort(qs)
		values[c] = qs[len(qs)/2]

		for i := range edges {
			a := edges[i].Start.Coord(c) < values[c]
			b := edges[i].End.Coord(c) < values[c]
			if a != b {
				splitCounts[c]++
				childCounts[c][0]++
				childCounts[c][1]++
			} else if a {
				childCounts[c][0]++
			} else {
				childCounts[c][1]++
			}
		}
	}

	c := 1
	if splitCounts[0] < splitCounts[1] {
		c = 0
	}
	if childCounts[c][0] < len(edges) && childCounts[c][1] < len(edges) {
		return c, values[c], true
	}
	return -1, 0, false
}

// RangeAndChunk is the share of one subset node in a primitive ordering:
// the elements it covers, their depth values and the chunk drawing them.
type RangeAndChunk struct {
	Elements attrib.Range
	Depth    attrib.Range
	Chunk    int
}

// Empty reports whether the node draws none of these primitives.
func (r RangeAndChunk) Empty() bool { return r.Elements.Empty() }

// EdgeCreationValues carries the chunk counters and orderings while edge
// subsets are built.
type EdgeCreationValues struct {
	NonClosingChunks int
	ClosingChunks    int

	nonClosing []SubEdge
	closing    []SubEdge
}

type edgeSubset struct {
	bounds     geom.BoundingBox
	children   children
	nonClosing RangeAndChunk
	closing    RangeAndChunk
}

// EdgeSubsets is the flattened edge culling tree. Every node owns a
// contiguous run of Edges for the non-closing and for the closing
// sub-edges, and the chunk ids drawing them. Node 0 is the root.
type EdgeSubsets struct {
	nodes []edgeSubset

	// Edges lists non-closing sub-edges, then closing ones, in draw order.
	Edges         []SubEdge
	Depths        []uint32
	NumNonClosing int
	NumChunks     int
}

// NewEdgeSubsets partitions edges, whose first nonClosing entries are of
// non-closing edges, and flattens the result.
func NewEdgeSubsets(edges []SubEdge, nonClosing int) *EdgeSubsets {
	s := &EdgeSubsets{}
	if len(edges) == 0 {
		return s
	}
	tree := buildEdgeCullingTree(edges, nonClosing)

	var cv EdgeCreationValues
	s.build(tree, 0, &cv)

	s.NumNonClosing = len(cv.nonClosing)
	s.Edges = append(cv.nonClosing, cv.closing...)
	s.Depths = make([]uint32, len(s.Edges))
	s.NumChunks = cv.NonClosingChunks + cv.ClosingChunks

	vars := edgeDepthVariables{
		nonClosing: uint32(len(cv.closing)),
		closing:    0,
	}
	s.postProcess(0, &vars, &cv)
	return s
}

func (s *EdgeSubsets) build(tree *edgeCullingTree, src int, cv *EdgeCreationValues) int {
	id := len(s.nodes)
	s.nodes = append(s.nodes, edgeSubset{bounds: tree.nodes[src].bounds, children: leaf()})

	nonClosingBegin, closingBegin := len(cv.nonClosing), len(cv.closing)
	cn := &tree.nodes[src]
	if cn.children.ok {
		c0 := s.build(tree, cn.children.ids[0], cv)
		c1 := s.build(tree, cn.children.ids[1], cv)
		s.nodes[id].children = link(c0, c1)
	} else {
		cv.nonClosing = append(cv.nonClosing, cn.edges[:cn.nonClosing]...)
		cv.closing = append(cv.closing, cn.edges[cn.nonClosing:]...)
	}

	n := &s.nodes[id]
	n.nonClosing = RangeAndChunk{
		Elements: attrib.Range{Begin: nonClosingBegin, End: len(cv.nonClosing)},
		Chunk:    cv.NonClosingChunks,
	}
	n.closing = RangeAndChunk{
		Elements: attrib.Range{Begin: closingBegin, End: len(cv.closing)},
		Chunk:    cv.ClosingChunks,
	}
	cv.NonClosingChunks++
	cv.ClosingChunks++
	return id
}

type edgeDepthVariables struct {
	nonClosing, closing uint32
}

// postProcess assigns depth values in reverse draw order: child 1 before
// child 0, and descending inside a leaf, so that a sub-edge drawn earlier
// always has the larger depth.
func (s *EdgeSubsets) postProcess(id int, v *edgeDepthVariables, cv *EdgeCreationValues) {
	n := &s.nodes[id]
	n.nonClosing.Depth.Begin = int(v.nonClosing)
	n.closing.Depth.Begin = int(v.closing)

	if n.children.ok {
		s.postProcess(n.children.ids[1], v, cv)
		s.postProcess(n.children.ids[0], v, cv)
	} else {
		assignDescending(s.Depths, n.nonClosing.Elements, 0, &v.nonClosing)
		assignDescending(s.Depths, n.closing.Elements, s.NumNonClosing, &v.closing)
	}

	n = &s.nodes[id]
	n.nonClosing.Depth.End = int(v.nonClosing)
	n.closing.Depth.End = int(v.closing)

	n.closing.Elements.Begin += s.NumNonClosing
	n.closing.Elements.End += s.NumNonClosing
	n.closing.Chunk += cv.NonClosingChunks
}

// assignDescending gives the elements r, shifted by offset, the depths
// depth+len-1 down to depth and advances depth past them. Depths saturate
// at MaxDepth, the largest a packed word carries; elements past it share
// that depth and lose their relative order.
func assignDescending(dst []uint32, r attrib.Range, offset int, depth *uint32) {
	d := *depth + uint32(r.Len())
	for i := r.Begin; i < r.End; i++ {
		d--
		dst[offset+i] = min(d, MaxDepth)
	}
	*depth += uint32(r.Len())
}

// NumNodes returns the number of subset nodes.
func (s *EdgeSubsets) NumNodes() int { return len(s.nodes) }

// NonClosing returns the non-closing share of node id.
func (s *EdgeSubsets) NonClosing(id int) RangeAndChunk { return s.nodes[id].nonClosing }

// Closing returns the closing share of node id.
func (s *EdgeSubsets) Closing(id int) RangeAndChunk { return s.nodes[id].closing }

// Children returns the children of node id and whether it has any.
func (s *EdgeSubsets) Children(id int) (int, int, bool) {
	c := s.nodes[id].children
	return c.ids[0], c.ids[1], c.ok
}

// Bounds returns the box of node id.
func (s *EdgeSubsets) Bounds(id int) geom.BoundingBox { return s.nodes[id].bounds }
