package path

import (
	"math"

	"github.com/gogpu/strokemesh/internal/geom"
)

// SegmentType tells lines from arcs.
type SegmentType uint8

const (
	LineSegment SegmentType = iota
	ArcSegment
)

// Segment is one monotone piece of a tessellated edge. Arc segments never
// cross a quadrant boundary, so their bounding box is spanned by their end
// points.
type Segment struct {
	Type       SegmentType
	Start, End geom.Vec2

	// Arc geometry, valid when Type == ArcSegment. The arc runs from
	// AngleBegin to AngleEnd; AngleEnd < AngleBegin means clockwise.
	Center     geom.Vec2
	Radius     float64
	AngleBegin float64
	AngleEnd   float64

	// Unit tangents at Start and End in the direction of travel.
	EnterTangent geom.Vec2
	LeaveTangent geom.Vec2

	Length                   float64
	DistanceFromEdgeStart    float64
	DistanceFromContourStart float64
	EdgeLength               float64
	OpenContourLength        float64
	ClosedContourLength      float64

	// Continuation is set for every segment except the first of its edge.
	Continuation  bool
	LastOfEdge    bool
	OfClosingEdge bool

	Contour int
	Edge    int
}

// PointAt returns the arc point at angle a.
func (s *Segment) PointAt(a float64) geom.Vec2 {
	sin, cos := math.Sincos(a)
	return geom.V2(s.Center.X+s.Radius*cos, s.Center.Y+s.Radius*sin)
}

// TangentAt returns the unit tangent of the arc at angle a.
func (s *Segment) TangentAt(a float64) geom.Vec2 {
	sin, cos := math.Sincos(a)
	if s.AngleEnd < s.AngleBegin {
		return geom.V2(sin, -cos)
	}
	return geom.V2(-sin, cos)
}

// Bounds returns the bounding box of the segment.
func (s *Segment) Bounds() geom.BoundingBox {
	b := geom.NewBoundingBox(s.Start, s.End)
	if s.Type != ArcSegment {
		return b
	}
	lo, hi := s.AngleBegin, s.AngleEnd
	if lo > hi {
		lo, hi = hi, lo
	}
	for k := math.Ceil(lo / (math.Pi / 2)); k*math.Pi/2 < hi; k++ {
		b.UnionPoint(s.PointAt(k * math.Pi / 2))
	}
	return b
}

// arcFromChord builds the arc from p0 to p1 sweeping angle radians.
func arcFromChord(p0, p1 geom.Vec2, angle float64) (Segment, bool) {
	chord := p1.Sub(p0)
	l := chord.Length()
	if l == 0 || angle == 0 || math.Abs(angle) >= 2*math.Pi {
		return Segment{}, false
	}
	d := 0.5 * l / math.Tan(0.5*angle)
	center := p0.Lerp(p1, 0.5).Add(chord.Mul(1 / l).Perp().Mul(d))
	v := p0.Sub(center)
	a0 := math.Atan2(v.Y, v.X)
	s := Segment{
		Type:       ArcSegment,
		Start:      p0,
		End:        p1,
		Center:     center,
		Radius:     v.Length(),
		AngleBegin: a0,
		AngleEnd:   a0 + angle,
	}
	s.Length = s.Radius * math.Abs(angle)
	s.EnterTangent = s.TangentAt(s.AngleBegin)
	s.LeaveTangent = s.TangentAt(s.AngleEnd)
	return s, true
}

// splitArcAtQuadrants cuts an arc at every multiple of pi/2 strictly
// inside its angle range.
func splitArcAtQuadrants(s Segment, dst []Segment) []Segment {
	const quadrantSlack = 1e-9
	const q = math.Pi / 2
	a0, a1 := s.AngleBegin, s.AngleEnd
	dir := 1.0
	if a1 < a0 {
		dir = -1
	}
	cur := a0
	for {
		next := (math.Floor(cur/q) + 1) * q
		if dir < 0 {
			next = (math.Ceil(cur/q) - 1) * q
		}
		if math.Abs(next-cur) < quadrantSlack {
			next += dir * q
		}
		if dir*(a1-next) < quadrantSlack {
			break
		}
		piece := arcPiece(s, cur, next)
		if cur == a0 {
			piece.Start = s.Start
		}
		dst = append(dst, piece)
		cur = next
	}
	p := arcPiece(s, cur, a1)
	p.End = s.End
	if cur == a0 {
		p.Start = s.Start
	}
	return append(dst, p)
}

func arcPiece(s Segment, a0, a1 float64) Segment {
	p := s
	p.AngleBegin, p.AngleEnd = a0, a1
	p.Start = s.PointAt(a0)
	p.End = s.PointAt(a1)
	p.Length = s.Radius * math.Abs(a1-a0)
	p.EnterTangent = p.TangentAt(a0)
	p.LeaveTangent = p.TangentAt(a1)
	return p
}

func lineSegment(p0, p1 geom.Vec2) Segment {
	d := p1.Sub(p0)
	t := d.Normalize()
	return Segment{
		Type:         LineSegment,
		Start:        p0,
		End:          p1,
		Length:       d.Length(),
		EnterTangent: t,
		LeaveTangent: t,
	}
}
