package stroke

import (
	"math"

	"github.com/gogpu/strokemesh/internal/geom"
	"github.com/gogpu/strokemesh/internal/path"
)

// Join is one corner of a contour, between two edges.
type Join struct {
	Position                 geom.Vec2
	TangentIn                geom.Vec2
	TangentOut               geom.Vec2
	DistanceFromPreviousJoin float64
	DistanceFromContourStart float64
	OpenContourLength        float64
	ClosedContourLength      float64
	// OfClosingEdge marks the two joins at either end of the closing edge.
	OfClosingEdge bool
	// optional joins belong to the closing edge of an open contour and
	// are only drawn when contours are forced closed.
	optional bool
}

// NormalIn returns J(TangentIn).
func (j *Join) NormalIn() geom.Vec2 { return j.TangentIn.Perp() }

// NormalOut returns J(TangentOut).
func (j *Join) NormalOut() geom.Vec2 { return j.TangentOut.Perp() }

// Lambda returns the sign selecting the outer side of the corner: the
// join geometry is built on the side of Lambda * normal.
func (j *Join) Lambda() float64 {
	if j.TangentOut.Dot(j.NormalIn()) > 0 {
		return -1
	}
	return 1
}

// Angle returns the signed angle from Lambda*NormalIn to Lambda*NormalOut.
func (j *Join) Angle() float64 {
	l := j.Lambda()
	n0, n1 := j.NormalIn().Mul(l), j.NormalOut().Mul(l)
	// n1 * conj(n0) as complex numbers
	re := n1.X*n0.X + n1.Y*n0.Y
	im := n1.Y*n0.X - n1.X*n0.Y
	return math.Atan2(im, re)
}

// ContourLength is the contour length recorded in packed join vertices.
func (j *Join) ContourLength() float64 {
	if j.OfClosingEdge {
		return j.ClosedContourLength
	}
	return j.OpenContourLength
}

// Cap terminates an open contour.
type Cap struct {
	Position geom.Vec2
	// TangentInto points out of the stroke, away from the contour.
	TangentInto              geom.Vec2
	DistanceFromEdgeStart    float64
	DistanceFromContourStart float64
	// EdgeLength is the length of the edge the cap sits on.
	EdgeLength          float64
	OpenContourLength   float64
	ClosedContourLength float64
	Starting            bool
}

// ContourJoins are the joins and caps of one contour. The two joins of the
// closing edge come last in Joins.
type ContourJoins struct {
	Joins  []Join
	Caps   [2]Cap
	// Closed is set for contours ended with Close. Their closing joins are
	// always drawn and their caps never.
	Closed bool
	count  int
}

// NonClosing returns the joins shared by open and closed stroking.
func (c *ContourJoins) NonClosing() []Join {
	if len(c.Joins) > 2 {
		return c.Joins[:len(c.Joins)-2]
	}
	return nil
}

// Closing returns the joins only drawn when the closing edge is stroked.
func (c *ContourJoins) Closing() []Join {
	if len(c.Joins) > 2 {
		return c.Joins[len(c.Joins)-2:]
	}
	return c.Joins
}

// JoinBuilder collects the joins and caps of contours one corner at a time.
type JoinBuilder struct {
	contours []ContourJoins
	bounds   geom.BoundingBox
}

// BeginContour starts a contour at p whose first edge leaves along tangent.
func (b *JoinBuilder) BeginContour(p, tangent geom.Vec2) {
	b.bounds.UnionPoint(p)
	b.contours = append(b.contours, ContourJoins{count: 1})
	c := &b.contours[len(b.contours)-1]
	c.Caps[0] = Cap{
		Position:    p,
		TangentInto: tangent.Neg(),
		Starting:    true,
	}
}

// AddJoin adds the corner at p reached after distanceFromPreviousJoin.
func (b *JoinBuilder) AddJoin(p geom.Vec2, distanceFromPreviousJoin float64, tangentIn, tangentOut geom.Vec2) {
	c := b.current()
	b.bounds.UnionPoint(p)
	c.Joins = append(c.Joins, Join{
		Position:                 p,
		TangentIn:                tangentIn,
		TangentOut:               tangentOut,
		DistanceFromPreviousJoin: distanceFromPreviousJoin,
	})
}

// EndContour finishes the contour. distanceFromPreviousJoin is the length
// of the closing edge and tangentIn its direction at the contour start.
func (b *JoinBuilder) EndContour(distanceFromPreviousJoin float64, tangentIn geom.Vec2) {
	c := b.current()

	var endPoint, endDirection geom.Vec2
	var endEdgeDistance float64
	if len(c.Joins) > 0 {
		// the last join starts the closing edge
		last := &c.Joins[len(c.Joins)-1]
		endPoint = last.Position
		endDirection = last.TangentIn
		endEdgeDistance = last.DistanceFromPreviousJoin
		last.OfClosingEdge = true

		c.Joins = append(c.Joins, Join{
			Position:                 c.Caps[0].Position,
			TangentIn:                tangentIn,
			TangentOut:               c.Caps[0].TangentInto.Neg(),
			DistanceFromPreviousJoin: distanceFromPreviousJoin,
			OfClosingEdge:            true,
		})
	} else {
		endPoint = c.Caps[0].Position
		endDirection = c.Caps[0].TangentInto.Neg()
	}

	var d float64
	for i := range c.Joins {
		d += c.Joins[i].DistanceFromPreviousJoin
		c.Joins[i].DistanceFromContourStart = d
	}
	for i := range c.Joins {
		c.Joins[i].ClosedContourLength = d
		c.Joins[i].OpenContourLength = d - distanceFromPreviousJoin
	}

	openLength, closedLength := distanceFromPreviousJoin, 0.0
	if len(c.Joins) > 0 {
		openLength, closedLength = d-distanceFromPreviousJoin, d
	}
	c.Caps[0].OpenContourLength = openLength
	c.Caps[0].ClosedContourLength = closedLength
	if len(c.Joins) > 0 {
		c.Caps[0].EdgeLength = c.Joins[0].DistanceFromPreviousJoin
	}
	c.Caps[1] = Cap{
		Position:                 endPoint,
		TangentInto:              endDirection,
		DistanceFromEdgeStart:    endEdgeDistance,
		EdgeLength:               endEdgeDistance,
		DistanceFromContourStart: openLength,
		OpenContourLength:        openLength,
		ClosedContourLength:      closedLength,
	}
	c.count = 2
}

func (b *JoinBuilder) current() *ContourJoins {
	if len(b.contours) == 0 || b.contours[len(b.contours)-1].count != 1 {
		panic("stroke: join added outside of a contour")
	}
	return &b.contours[len(b.contours)-1]
}

// Contours returns the finished contours.
func (b *JoinBuilder) Contours() []ContourJoins {
	return b.contours
}

// Bounds returns the box of every join and cap position.
func (b *JoinBuilder) Bounds() geom.BoundingBox {
	return b.bounds
}

// BuildJoins walks the contours of tp and records a join between every
// pair of consecutive edges.
func BuildJoins(tp *path.TessellatedPath) *JoinBuilder {
	var b JoinBuilder
	for ci := range tp.Contours {
		c := &tp.Contours[ci]
		first := c.Edges[0]
		b.BeginContour(c.Start, first.EnterTangent)
		for i := 0; i+1 < len(c.Edges); i++ {
			in, out := c.Edges[i], c.Edges[i+1]
			b.AddJoin(in.Stop, in.Length, in.LeaveTangent, out.EnterTangent)
		}
		closing := c.ClosingEdge()
		b.EndContour(closing.Length, closing.LeaveTangent)
		b.contours[len(b.contours)-1].Closed = c.Closed
	}
	return &b
}
