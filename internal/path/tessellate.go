package path

import (
	"math"

	"github.com/gogpu/strokemesh/internal/geom"
)

// DefaultThreshold is the curve flattening tolerance in path units.
const DefaultThreshold = 0.25

// minThreshold keeps flattening finite for tiny requested tolerances.
const minThreshold = 1e-4

// degenerateLength is the length below which a segment is treated as a
// point.
const degenerateLength = 1e-9

// Options control tessellation.
type Options struct {
	// Threshold is the maximum distance between a curve and its
	// approximation.
	Threshold float64

	// Arcs keeps ArcTo elements as arc segments instead of flattening them
	// into chords.
	Arcs bool
}

// Edge is the run of segments produced by one path element.
type Edge struct {
	Begin, End   int // segment range
	Start, Stop  geom.Vec2
	EnterTangent geom.Vec2
	LeaveTangent geom.Vec2
	Length       float64
	Closing      bool
}

// Contour is one closed loop of edges. The last edge is always the closing
// edge running from the last point back to the start; it may be degenerate.
type Contour struct {
	Edges        []Edge
	Start        geom.Vec2
	Closed       bool // ended with an explicit Close
	OpenLength   float64
	ClosedLength float64
}

// ClosingEdge returns the edge that closes the contour.
func (c *Contour) ClosingEdge() Edge {
	return c.Edges[len(c.Edges)-1]
}

// TessellatedPath is the segment form of a path at one threshold.
type TessellatedPath struct {
	Segments  []Segment
	Contours  []Contour
	Bounds    geom.BoundingBox
	Threshold float64
	HasArcs   bool
}

// EdgeSegments returns the segments of e.
func (tp *TessellatedPath) EdgeSegments(e Edge) []Segment {
	return tp.Segments[e.Begin:e.End]
}

// Tessellate converts elements into line and arc segments.
func Tessellate(elements []Element, opts Options) *TessellatedPath {
	if opts.Threshold <= 0 {
		opts.Threshold = DefaultThreshold
	}
	opts.Threshold = math.Max(opts.Threshold, minThreshold)

	t := tessellator{
		opts: opts,
		tp:   &TessellatedPath{Threshold: opts.Threshold},
	}
	for _, e := range elements {
		switch e := e.(type) {
		case MoveTo:
			t.endContour(false)
			t.beginContour(e.Point)
		case LineTo:
			t.ensureContour()
			t.addEdge(append(t.scratch[:0], lineSegment(t.cur, e.Point)))
		case QuadTo:
			t.ensureContour()
			t.polylineEdge(flattenQuad(t.cur, e.Control, e.Point, opts.Threshold, t.pts[:0]))
		case CubicTo:
			t.ensureContour()
			t.polylineEdge(flattenCubic(t.cur, e.Control1, e.Control2, e.Point, opts.Threshold, t.pts[:0]))
		case ArcTo:
			t.ensureContour()
			t.arcEdge(e)
		case Close:
			t.endContour(true)
		}
	}
	t.endContour(false)
	return t.tp
}

type tessellator struct {
	opts      Options
	tp        *TessellatedPath
	inContour bool
	start     geom.Vec2
	cur       geom.Vec2
	edges     [][]Segment
	scratch   []Segment
	pts       []geom.Vec2
}

func (t *tessellator) beginContour(p geom.Vec2) {
	t.inContour = true
	t.start = p
	t.cur = p
	t.edges = t.edges[:0]
}

func (t *tessellator) ensureContour() {
	if !t.inContour {
		t.beginContour(t.cur)
	}
}

func (t *tessellator) addEdge(segs []Segment) {
	t.edges = append(t.edges, append([]Segment(nil), segs...))
	t.cur = segs[len(segs)-1].End
}

func (t *tessellator) polylineEdge(pts []geom.Vec2) {
	t.pts = pts
	segs := t.scratch[:0]
	prev := t.cur
	for _, p := range pts {
		segs = append(segs, lineSegment(prev, p))
		prev = p
	}
	t.scratch = segs
	t.addEdge(segs)
}

func (t *tessellator) arcEdge(e ArcTo) {
	a, ok := arcFromChord(t.cur, e.Point, e.Angle)
	if !ok {
		t.addEdge(append(t.scratch[:0], lineSegment(t.cur, e.Point)))
		return
	}
	if t.opts.Arcs {
		t.scratch = splitArcAtQuadrants(a, t.scratch[:0])
		t.addEdge(t.scratch)
		t.tp.HasArcs = true
		return
	}
	t.polylineEdge(flattenArc(&a, t.opts.Threshold, t.pts[:0]))
}

// endContour appends the closing edge and computes the arc-length fields
// of every segment of the contour.
func (t *tessellator) endContour(closed bool) {
	if !t.inContour {
		return
	}
	t.inContour = false
	t.edges = append(t.edges, []Segment{lineSegment(t.cur, t.start)})
	t.cur = t.start

	tp := t.tp
	ci := len(tp.Contours)
	contour := Contour{Start: t.start, Closed: closed}
	tangent := firstTangent(t.edges)
	begin := len(tp.Segments)

	var dist float64
	for ei, segs := range t.edges {
		segs = dropDegenerate(segs)
		closing := ei == len(t.edges)-1
		var edgeLength float64
		for i := range segs {
			edgeLength += segs[i].Length
		}

		e := Edge{
			Begin:   len(tp.Segments),
			Start:   segs[0].Start,
			Stop:    segs[len(segs)-1].End,
			Length:  edgeLength,
			Closing: closing,
		}
		var d float64
		for i, s := range segs {
			if s.Length <= degenerateLength {
				s.EnterTangent, s.LeaveTangent = tangent, tangent
			}
			tangent = s.LeaveTangent
			s.DistanceFromEdgeStart = d
			s.DistanceFromContourStart = dist + d
			s.EdgeLength = edgeLength
			s.Continuation = i > 0
			s.LastOfEdge = i == len(segs)-1
			s.OfClosingEdge = closing
			s.Contour = ci
			s.Edge = ei
			d += s.Length
			tp.Segments = append(tp.Segments, s)
			tp.Bounds.UnionBox(s.Bounds())
		}
		e.End = len(tp.Segments)
		e.EnterTangent = tp.Segments[e.Begin].EnterTangent
		e.LeaveTangent = tp.Segments[e.End-1].LeaveTangent
		contour.Edges = append(contour.Edges, e)
		dist += edgeLength
	}

	contour.ClosedLength = dist
	contour.OpenLength = dist - contour.ClosingEdge().Length
	for i := begin; i < len(tp.Segments); i++ {
		tp.Segments[i].OpenContourLength = contour.OpenLength
		tp.Segments[i].ClosedContourLength = contour.ClosedLength
	}
	tp.Contours = append(tp.Contours, contour)
}

// dropDegenerate removes point-like segments, keeping one when the whole
// edge is a point.
func dropDegenerate(segs []Segment) []Segment {
	out := segs[:0]
	for _, s := range segs {
		if s.Length > degenerateLength {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		s := segs[0]
		s.Length = 0
		s.End = s.Start
		s.Type = LineSegment
		return append(segs[:0], s)
	}
	return out
}

func firstTangent(edges [][]Segment) geom.Vec2 {
	for _, segs := range edges {
		for _, s := range segs {
			if s.Length > degenerateLength {
				return s.EnterTangent
			}
		}
	}
	return geom.V2(1, 0)
}
