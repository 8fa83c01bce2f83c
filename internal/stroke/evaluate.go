package stroke

import (
	"math"

	"github.com/gogpu/strokemesh/internal/attrib"
	"github.com/gogpu/strokemesh/internal/geom"
)

// EvalParams are the stroking values the vertex shader applies.
type EvalParams struct {
	Radius     float64
	MiterLimit float64
}

// Evaluate returns the local position of a stroked vertex. arcFormat tells
// ArcPoint vertices (arc edges, arc rounded joins and caps) from
// StrokedPoint ones. Beyond-boundary arc vertices stay on the boundary;
// the fragment work that trims them is not reproduced.
func Evaluate(a attrib.Attribute, arcFormat bool, p EvalParams) geom.Vec2 {
	if arcFormat {
		pt := UnpackArcPoint(a)
		return pt.Position.Add(pt.offset(p))
	}
	pt := UnpackStrokedPoint(a)
	return pt.Position.Add(pt.Offset(p.MiterLimit).Mul(p.Radius))
}

// Offset returns the displacement of p per unit of stroking radius.
func (p *StrokedPoint) Offset(miterLimit float64) geom.Vec2 {
	switch p.Type() {
	case PointSubEdge, PointSharedWithEdge:
		return p.PreOffset

	case PointSquareCap:
		return p.PreOffset.Add(p.AuxiliaryOffset)

	case PointAdjustableCap:
		if p.Packed&AdjustableCapEndingMask != 0 {
			return p.PreOffset.Add(p.AuxiliaryOffset)
		}
		return p.PreOffset

	case PointRoundedCap:
		n := p.PreOffset
		v := geom.V2(n.Y, -n.X)
		return v.Mul(p.AuxiliaryOffset.X).Add(n.Mul(p.AuxiliaryOffset.Y))

	case PointRoundedJoin:
		c := p.AuxiliaryOffset.Y
		s := math.Sqrt(math.Max(0, 1-c*c))
		if p.Packed&SinSignMask != 0 {
			s = -s
		}
		return geom.V2(c, s)

	case PointMiterClipJoin:
		return miterClipOffset(p.PreOffset, p.AuxiliaryOffset, p.Packed&LambdaNegatedMask != 0, miterLimit)

	case PointMiterJoin, PointMiterBevelJoin:
		return miterOffset(p.PreOffset, p.AuxiliaryOffset, p.Type() == PointMiterBevelJoin, miterLimit)

	default:
		return geom.Vec2{}
	}
}

// MiterDistance returns how far, per unit of stroking radius, a miter
// vertex reaches from the join.
func (p *StrokedPoint) MiterDistance() float64 {
	n0, n1 := p.PreOffset, p.AuxiliaryOffset
	switch p.Type() {
	case PointMiterClipJoin:
		r, _ := miterClipR(n0, n1)
		return math.Sqrt(1 + r*r)
	case PointMiterJoin, PointMiterBevelJoin:
		den := 1 + n0.Dot(n1)
		if den == 0 {
			return 0
		}
		return n0.Add(n1).Length() / den
	default:
		return 0
	}
}

// jrot returns (v.y, -v.x).
func jrot(v geom.Vec2) geom.Vec2 { return geom.V2(v.Y, -v.X) }

func sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}

func miterClipR(n0, n1 geom.Vec2) (r, det float64) {
	det = jrot(n1).Dot(n0)
	if det == 0 {
		return 0, 0
	}
	return (n0.Dot(n1) - 1) / det, det
}

func miterClipOffset(n0, n1 geom.Vec2, negated bool, limit float64) geom.Vec2 {
	r, det := miterClipR(n0, n1)
	lambda := -sign(det)
	if negated {
		lambda = -lambda
	}
	// the clip line sits at the miter limit along the miter direction
	if limit >= 1 && 1+r*r > limit*limit {
		r = sign(r) * math.Sqrt(limit*limit-1)
	}
	return n0.Add(jrot(n0).Mul(r)).Mul(lambda)
}

func miterOffset(n0, n1 geom.Vec2, bevel bool, limit float64) geom.Vec2 {
	lambda := sign(jrot(n0).Dot(n1))
	den := 1 + n0.Dot(n1)
	if den == 0 {
		return geom.Vec2{}
	}
	sum := n0.Add(n1)
	off := sum.Mul(lambda / den)
	if d := sum.Length() / den; limit >= 1 && d > limit {
		if bevel {
			// collapses onto the incoming boundary point
			return n0.Mul(lambda)
		}
		off = off.Mul(limit / d)
	}
	return off
}

// offset returns the displacement of an arc vertex.
func (p *ArcPoint) offset(e EvalParams) geom.Vec2 {
	if !p.OnBoundary() && p.Packed&ArcMoveToCenterMask == 0 {
		return geom.Vec2{}
	}
	dir := p.OffsetDirection
	switch p.Type() {
	case ArcPointLineSegment, ArcPointDashedCapper:
		return dir.Mul(e.Radius)
	}

	if p.Packed&ArcInnerStrokingMask == 0 {
		if p.Packed&ArcMoveToCenterMask != 0 {
			// on the arc until the stroke is wider than the arc radius
			if e.Radius > p.Radius() {
				return dir.Mul(-p.Radius())
			}
			return geom.Vec2{}
		}
		return dir.Mul(e.Radius)
	}
	if p.Packed&ArcMoveToCenterMask != 0 || e.Radius > p.Radius() {
		return dir.Mul(-math.Min(e.Radius, p.Radius()))
	}
	return dir.Mul(-e.Radius)
}
