package stroke

import (
	"sync"

	"github.com/gogpu/strokemesh/internal/attrib"
	"github.com/gogpu/strokemesh/internal/geom"
	"github.com/gogpu/strokemesh/internal/path"
)

// StrokedPath is the stroking geometry of one tessellated path: its edge
// and join subset trees and the attribute data of every style, built on
// first use. A StrokedPath is safe for concurrent use.
type StrokedPath struct {
	edges *EdgeSubsets
	joins *JoinSubsets
	// bounds of every primitive position, before stroking
	bounds  geom.BoundingBox
	hasArcs bool

	mu        sync.Mutex
	edgeData  [2]*attrib.Data
	joinData  map[JoinStyle]*attrib.Data
	capData   map[CapStyle]*attrib.Data
	roundJoin roundedCache
	roundCap  roundedCache
}

// NewStrokedPath builds the subset trees of tp.
func NewStrokedPath(tp *path.TessellatedPath) *StrokedPath {
	sub, nonClosing := BuildSubEdges(tp)
	p := &StrokedPath{
		edges:    NewEdgeSubsets(sub, nonClosing),
		joins:    NewJoinSubsets(BuildJoins(tp)),
		bounds:   tp.Bounds,
		hasArcs:  tp.HasArcs,
		joinData: make(map[JoinStyle]*attrib.Data),
		capData:  make(map[CapStyle]*attrib.Data),
	}
	p.roundJoin.build = func(t float64) *attrib.Data {
		return attrib.New(&JoinFiller{Style: RoundedJoins, Threshold: t, Subsets: p.joins})
	}
	p.roundCap.build = func(t float64) *attrib.Data {
		return attrib.New(&CapFiller{Style: RoundedCaps, Threshold: t, Subsets: p.joins})
	}
	return p
}

// Edges returns the edge subset tree.
func (p *StrokedPath) Edges() *EdgeSubsets { return p.edges }

// Joins returns the join and cap subset tree.
func (p *StrokedPath) Joins() *JoinSubsets { return p.joins }

// Bounds returns the box of the path before stroking.
func (p *StrokedPath) Bounds() geom.BoundingBox { return p.bounds }

// HasArcs reports whether the path has arc segments, which only ArcEdges
// draw exactly.
func (p *StrokedPath) HasArcs() bool { return p.hasArcs }

// EdgeData returns the edge data in style s.
func (p *StrokedPath) EdgeData(s EdgeStyle) *attrib.Data {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.edgeData[s] == nil {
		p.edgeData[s] = attrib.New(&EdgeFiller{Style: s, Subsets: p.edges})
	}
	return p.edgeData[s]
}

// JoinData returns the join data in style s, or nil for NoJoins. thresh is
// used by RoundedJoins only.
func (p *StrokedPath) JoinData(s JoinStyle, thresh float64) *attrib.Data {
	switch s {
	case NoJoins:
		return nil
	case RoundedJoins:
		return p.roundJoin.fetch(thresh)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	d, ok := p.joinData[s]
	if !ok {
		d = attrib.New(&JoinFiller{Style: s, Subsets: p.joins})
		p.joinData[s] = d
	}
	return d
}

// CapData returns the cap data in style s, or nil for FlatCaps. thresh is
// used by RoundedCaps only.
func (p *StrokedPath) CapData(s CapStyle, thresh float64) *attrib.Data {
	switch s {
	case FlatCaps:
		return nil
	case RoundedCaps:
		return p.roundCap.fetch(thresh)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	d, ok := p.capData[s]
	if !ok {
		d = attrib.New(&CapFiller{Style: s, Subsets: p.joins})
		p.capData[s] = d
	}
	return d
}

// RoundedJoinLevels returns the thresholds at which rounded joins have
// been built, coarsest first.
func (p *StrokedPath) RoundedJoinLevels() []float64 { return p.roundJoin.levels() }

// RoundedCapLevels returns the thresholds at which rounded caps have been
// built, coarsest first.
func (p *StrokedPath) RoundedCapLevels() []float64 { return p.roundCap.levels() }

// Selection names the data a stroke draws from.
type Selection struct {
	Edges, Joins, Caps *attrib.Data
	// JoinSlack and EdgeSlack grow subset boxes in local units before
	// culling: the stroking radius, or the miter length for miter joins.
	EdgeSlack, JoinSlack float64
	// JoinsOutside selects every join without culling, for strokes whose
	// joins may reach arbitrarily far, such as unclamped miters.
	JoinsOutside bool
}

// ComputeChunks fills dst with the visible chunks of sel. The first error
// met is returned; the selection is complete apart from the offending
// chunks.
func (p *StrokedPath) ComputeChunks(s *Scratch, params *SelectParams, sel *Selection, dst *ChunkSet) error {
	dst.Reset()
	var err error
	if sel.Edges != nil {
		err = p.edges.ComputeChunks(s, params, sel.EdgeSlack, sel.Edges, dst)
	}
	if sel.Joins != nil || sel.Caps != nil {
		if e := p.joins.ComputeChunks(s, params, sel.JoinSlack, sel.JoinsOutside, sel.Joins, sel.Caps, dst); err == nil {
			err = e
		}
	}
	return err
}
