package stroke

import (
	"github.com/gogpu/strokemesh/internal/attrib"
	"github.com/gogpu/strokemesh/internal/geom"
)

// PointType is the offset type of a StrokedPoint. It decides how the
// vertex shader reads PreOffset and AuxiliaryOffset.
type PointType uint32

const (
	// PointSubEdge starts or ends a sub-edge quad. PreOffset is the normal
	// to move along, AuxiliaryOffset reaches the other end of the sub-edge.
	PointSubEdge PointType = iota
	// PointSharedWithEdge is a join or cap point that coincides with an
	// edge point. PreOffset may be zero.
	PointSharedWithEdge
	// PointRoundedJoin lies on the arc of a rounded join. PreOffset holds
	// the x components of both join normals, AuxiliaryOffset holds the
	// interpolation parameter and the cosine of the arc angle.
	PointRoundedJoin
	PointMiterClipJoin
	PointMiterBevelJoin
	PointMiterJoin
	// PointRoundedCap lies on a rounded cap; AuxiliaryOffset is (sin, cos).
	PointRoundedCap
	PointSquareCap
	PointAdjustableCap
)

// StrokedPoint packed word layout.
const (
	PointTypeBit0    = 0
	PointTypeNumBits = 4
	BoundaryBit      = PointTypeBit0 + PointTypeNumBits
	DepthBit0        = BoundaryBit + 1
	DepthNumBits     = 20
	JoinBit          = DepthBit0 + DepthNumBits
	NumCommonBits    = JoinBit + 1

	EndSubEdgeBit = NumCommonBits
	BevelEdgeBit  = NumCommonBits + 1

	Normal0YSignBit = NumCommonBits
	Normal1YSignBit = NumCommonBits + 1
	SinSignBit      = NumCommonBits + 2

	LambdaNegatedBit = NumCommonBits

	AdjustableCapEndingBit       = NumCommonBits
	AdjustableCapIsEndContourBit = NumCommonBits + 1
)

// StrokedPoint packed word masks.
const (
	PointTypeMask                 = 1<<PointTypeNumBits - 1
	BoundaryMask                  = 1 << BoundaryBit
	DepthMask                     = (1<<DepthNumBits - 1) << DepthBit0
	JoinMask                      = 1 << JoinBit
	EndSubEdgeMask                = 1 << EndSubEdgeBit
	BevelEdgeMask                 = 1 << BevelEdgeBit
	Normal0YSignMask              = 1 << Normal0YSignBit
	Normal1YSignMask              = 1 << Normal1YSignBit
	SinSignMask                   = 1 << SinSignBit
	LambdaNegatedMask             = 1 << LambdaNegatedBit
	AdjustableCapEndingMask       = 1 << AdjustableCapEndingBit
	AdjustableCapIsEndContourMask = 1 << AdjustableCapIsEndContourBit
)

// MaxDepth is the largest depth a packed word can carry. Larger depths
// are clamped.
const MaxDepth = 1<<DepthNumBits - 1

// StrokedPoint is a vertex of line stroking. The stroke width and miter
// limit are applied by the vertex shader, so the data stays valid when
// either changes.
type StrokedPoint struct {
	Position                 geom.Vec2
	PreOffset                geom.Vec2
	AuxiliaryOffset          geom.Vec2
	DistanceFromEdgeStart    float64
	DistanceFromContourStart float64
	EdgeLength               float64
	ContourLength            float64
	Packed                   uint32
}

// PackStrokedBits builds the common bits of a StrokedPoint word.
func PackStrokedBits(onBoundary bool, t PointType, depth uint32) uint32 {
	var b uint32
	if onBoundary {
		b = 1
	}
	depth = min(depth, MaxDepth)
	return attrib.PackBits(PointTypeBit0, PointTypeNumBits, uint32(t)) |
		attrib.PackBits(BoundaryBit, 1, b) |
		attrib.PackBits(DepthBit0, DepthNumBits, depth)
}

// Type returns the offset type.
func (p *StrokedPoint) Type() PointType {
	return PointType(attrib.UnpackBits(PointTypeBit0, PointTypeNumBits, p.Packed))
}

// OnBoundary reports whether the point moves by the stroke radius.
func (p *StrokedPoint) OnBoundary() bool {
	return p.Packed&BoundaryMask != 0
}

// Depth returns the relative depth.
func (p *StrokedPoint) Depth() uint32 {
	return attrib.UnpackBits(DepthBit0, DepthNumBits, p.Packed)
}

// SetDepth replaces the relative depth, clamping it to MaxDepth.
func (p *StrokedPoint) SetDepth(d uint32) {
	p.Packed &^= DepthMask
	p.Packed |= attrib.PackBits(DepthBit0, DepthNumBits, min(d, MaxDepth))
}

// Pack writes p into an attribute:
//
//	attrib0 = (position.xy, pre_offset.xy)
//	attrib1 = (distance_from_edge_start, distance_from_contour_start, auxiliary_offset.xy)
//	attrib2 = (packed, edge_length, contour_length, 0)
func (p *StrokedPoint) Pack() attrib.Attribute {
	return attrib.Attribute{
		Attrib0: attrib.PackVec4(p.Position.X, p.Position.Y, p.PreOffset.X, p.PreOffset.Y),
		Attrib1: attrib.PackVec4(p.DistanceFromEdgeStart, p.DistanceFromContourStart,
			p.AuxiliaryOffset.X, p.AuxiliaryOffset.Y),
		Attrib2: [4]uint32{p.Packed, attrib.PackFloat(p.EdgeLength), attrib.PackFloat(p.ContourLength), 0},
	}
}

// UnpackStrokedPoint reverses Pack, up to float32 precision.
func UnpackStrokedPoint(a attrib.Attribute) StrokedPoint {
	f := attrib.UnpackFloat
	return StrokedPoint{
		Position:                 geom.V2(f(a.Attrib0[0]), f(a.Attrib0[1])),
		PreOffset:                geom.V2(f(a.Attrib0[2]), f(a.Attrib0[3])),
		DistanceFromEdgeStart:    f(a.Attrib1[0]),
		DistanceFromContourStart: f(a.Attrib1[1]),
		AuxiliaryOffset:          geom.V2(f(a.Attrib1[2]), f(a.Attrib1[3])),
		Packed:                   a.Attrib2[0],
		EdgeLength:               f(a.Attrib2[1]),
		ContourLength:            f(a.Attrib2[2]),
	}
}
