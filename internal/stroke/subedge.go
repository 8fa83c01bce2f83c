package stroke

import (
	"math"

	"github.com/gogpu/strokemesh/internal/geom"
	"github.com/gogpu/strokemesh/internal/path"
)

// SubEdge is one monotone piece of a stroked edge together with the data
// needed to draw the bevel between it and the piece before it.
type SubEdge struct {
	Type       path.SegmentType
	Start, End geom.Vec2

	DistanceFromEdgeStart    float64
	DistanceFromContourStart float64
	EdgeLength               float64
	ContourLength            float64
	Length                   float64

	// BeginNormal and EndNormal are J(tangent) at either end.
	BeginNormal geom.Vec2
	EndNormal   geom.Vec2

	// Delta is End - Start.
	Delta geom.Vec2

	Center     geom.Vec2
	Radius     float64
	AngleBegin float64
	AngleEnd   float64

	HasBevel       bool
	BevelLambda    float64
	BevelNormal    geom.Vec2
	UseArcForBevel bool

	OfClosingEdge bool
	Bounds        geom.BoundingBox
}

// newSubEdge builds the sub-edge of s. prev is the segment drawn just
// before s in the same contour, or nil.
func newSubEdge(s, prev *path.Segment) SubEdge {
	e := SubEdge{
		Type:                     s.Type,
		Start:                    s.Start,
		End:                      s.End,
		DistanceFromEdgeStart:    s.DistanceFromEdgeStart,
		DistanceFromContourStart: s.DistanceFromContourStart,
		EdgeLength:               s.EdgeLength,
		ContourLength:            s.OpenContourLength,
		Length:                   s.Length,
		BeginNormal:              s.EnterTangent.Perp(),
		EndNormal:                s.LeaveTangent.Perp(),
		Delta:                    s.End.Sub(s.Start),
		Center:                   s.Center,
		Radius:                   s.Radius,
		AngleBegin:               s.AngleBegin,
		AngleEnd:                 s.AngleEnd,
		OfClosingEdge:            s.OfClosingEdge,
		Bounds:                   s.Bounds(),
	}
	if s.OfClosingEdge {
		e.ContourLength = s.ClosedContourLength
	}

	// a negative dot product is a cusp, which gets no bevel
	if s.Continuation || prev == nil || prev.LeaveTangent.Dot(s.EnterTangent) < 0 {
		return e
	}
	e.HasBevel = true
	e.BevelNormal = prev.LeaveTangent.Perp()
	e.BevelLambda = 1
	if s.EnterTangent.Dot(e.BevelNormal) > 0 {
		e.BevelLambda = -1
	}
	e.UseArcForBevel = prev.Type == path.ArcSegment || s.Type == path.ArcSegment
	return e
}

// BuildSubEdges converts the segments of tp into sub-edges. The result
// lists the sub-edges drawn in every case first, then those of the closing
// edges of open contours; numNonClosing is the length of the first run.
// The closing edge of a contour ended with Close is in the first run.
func BuildSubEdges(tp *path.TessellatedPath) (edges []SubEdge, numNonClosing int) {
	var closing []SubEdge
	for ci := range tp.Contours {
		c := &tp.Contours[ci]
		var prev *path.Segment
		for _, edge := range c.Edges {
			segs := tp.EdgeSegments(edge)
			for i := range segs {
				e := newSubEdge(&segs[i], prev)
				if edge.Closing && !c.Closed {
					closing = append(closing, e)
				} else {
					edges = append(edges, e)
				}
				prev = &segs[i]
			}
		}
	}
	numNonClosing = len(edges)
	return append(edges, closing...), numNonClosing
}

func (e *SubEdge) arcPoint(a float64) geom.Vec2 {
	sin, cos := math.Sincos(a)
	return geom.V2(e.Center.X+e.Radius*cos, e.Center.Y+e.Radius*sin)
}

func (e *SubEdge) arcNormal(a float64) geom.Vec2 {
	sin, cos := math.Sincos(a)
	// J of the tangent: the radial direction, flipped for clockwise arcs
	if e.AngleEnd < e.AngleBegin {
		return geom.V2(cos, sin)
	}
	return geom.V2(-cos, -sin)
}

// splitSide classifies e against the line coordinate c == v: -1 when the
// sub-edge lies at or below v, 1 when it lies at or above v with neither
// end below it, and 0 when it crosses v.
func (e *SubEdge) splitSide(c int, v float64) int {
	s, t := e.Start.Coord(c), e.End.Coord(c)
	a, b := s < v, t < v
	switch {
	case a && b:
		return -1
	case !a && !b:
		return 1
	case math.Max(s, t) == v:
		return -1
	default:
		return 0
	}
}

// splitAt cuts e where coordinate c equals v. first keeps Start and
// second keeps End. e must cross v, see splitSide.
func (e *SubEdge) splitAt(c int, v float64) (first, second SubEdge) {
	var p geom.Vec2
	var n geom.Vec2
	var d float64

	first, second = *e, *e
	if e.Type == path.ArcSegment {
		a := e.crossingAngle(c, v)
		p = e.arcPoint(a)
		// pin the split coordinate exactly
		if c == 0 {
			p.X = v
		} else {
			p.Y = v
		}
		n = e.arcNormal(a)
		d = e.Radius * math.Abs(a-e.AngleBegin)
		first.AngleEnd = a
		second.AngleBegin = a
	} else {
		t := (v - e.Start.Coord(c)) / (e.End.Coord(c) - e.Start.Coord(c))
		p = e.Start.Lerp(e.End, t)
		if c == 0 {
			p.X = v
		} else {
			p.Y = v
		}
		n = e.BeginNormal
		d = e.Length * t
	}

	first.End = p
	first.EndNormal = n
	first.Length = d
	first.Delta = p.Sub(e.Start)
	first.Bounds = geom.NewBoundingBox(e.Start, p)

	second.Start = p
	second.BeginNormal = n
	second.Length = e.Length - d
	second.Delta = e.End.Sub(p)
	second.DistanceFromEdgeStart += d
	second.DistanceFromContourStart += d
	second.HasBevel = false
	second.BevelLambda = 0
	second.BevelNormal = geom.Vec2{}
	second.UseArcForBevel = false
	second.Bounds = geom.NewBoundingBox(p, e.End)
	return first, second
}

// crossingAngle returns the angle in the arc's range at which coordinate c
// of the arc equals v.
func (e *SubEdge) crossingAngle(c int, v float64) float64 {
	lo, hi := e.AngleBegin, e.AngleEnd
	if lo > hi {
		lo, hi = hi, lo
	}
	x := (v - e.Center.Coord(c)) / e.Radius
	x = math.Max(-1, math.Min(1, x))

	var base [2]float64
	if c == 0 {
		a := math.Acos(x)
		base = [2]float64{a, -a}
	} else {
		a := math.Asin(x)
		base = [2]float64{a, math.Pi - a}
	}

	best, bestDist := 0.5*(lo+hi), math.Inf(1)
	for _, b := range base {
		// bring b near the range before testing
		k := math.Round((0.5*(lo+hi) - b) / (2 * math.Pi))
		a := b + 2*math.Pi*k
		var dist float64
		switch {
		case a < lo:
			dist = lo - a
		case a > hi:
			dist = a - hi
		}
		if dist < bestDist {
			best, bestDist = a, dist
		}
	}
	return math.Max(lo, math.Min(hi, best))
}
