package stroke

import (
	"github.com/gogpu/strokemesh/internal/attrib"
	"github.com/gogpu/strokemesh/internal/geom"
)

// ArcPointType is the offset type of an ArcPoint.
type ArcPointType uint32

const (
	// ArcPointArc is a point of an arc; Data is (radius, arc angle).
	ArcPointArc ArcPointType = iota
	// ArcPointLineSegment is a point of a line segment; Data reaches the
	// other end of the segment.
	ArcPointLineSegment
	// ArcPointDashedCapper is a point of the capper that closes a dash
	// at the start or end of an edge. Strokes are drawn undashed and
	// carry no such points; the value keeps its place in the layout.
	ArcPointDashedCapper
)

// ArcPoint packed word layout.
const (
	ArcTypeBit0            = 0
	ArcTypeNumBits         = 2
	ArcBoundaryBit         = ArcTypeBit0 + ArcTypeNumBits
	ArcEndSegmentBit       = ArcBoundaryBit + 1
	ArcDistanceConstantBit = ArcEndSegmentBit + 1
	ArcJoinBit             = ArcDistanceConstantBit + 1
	ArcDepthBit0           = ArcJoinBit + 1
	ArcDepthNumBits        = 20
	ArcNumCommonBits       = ArcDepthBit0 + ArcDepthNumBits
	ArcBeyondBoundaryBit   = ArcNumCommonBits
	ArcInnerStrokingBit    = ArcNumCommonBits + 1
	ArcMoveToCenterBit     = ArcNumCommonBits + 2
	ArcExtendBit           = ArcNumCommonBits
)

// ArcPoint packed word masks.
const (
	ArcTypeMask             = 1<<ArcTypeNumBits - 1
	ArcBoundaryMask         = 1 << ArcBoundaryBit
	ArcEndSegmentMask       = 1 << ArcEndSegmentBit
	ArcDistanceConstantMask = 1 << ArcDistanceConstantBit
	ArcJoinMask             = 1 << ArcJoinBit
	ArcDepthMask            = (1<<ArcDepthNumBits - 1) << ArcDepthBit0
	ArcBeyondBoundaryMask   = 1 << ArcBeyondBoundaryBit
	ArcInnerStrokingMask    = 1 << ArcInnerStrokingBit
	ArcMoveToCenterMask     = 1 << ArcMoveToCenterBit
	ArcExtendMask           = 1 << ArcExtendBit
)

// ArcPoint is a vertex of arc stroking.
type ArcPoint struct {
	Position                 geom.Vec2
	OffsetDirection          geom.Vec2
	Data                     geom.Vec2
	DistanceFromEdgeStart    float64
	DistanceFromContourStart float64
	EdgeLength               float64
	ContourLength            float64
	Packed                   uint32
}

// PackArcBits builds the common bits of an ArcPoint word.
func PackArcBits(onBoundary bool, t ArcPointType, depth uint32) uint32 {
	var b uint32
	if onBoundary {
		b = 1
	}
	depth = min(depth, MaxDepth)
	return attrib.PackBits(ArcTypeBit0, ArcTypeNumBits, uint32(t)) |
		attrib.PackBits(ArcBoundaryBit, 1, b) |
		attrib.PackBits(ArcDepthBit0, ArcDepthNumBits, depth)
}

// Type returns the offset type.
func (p *ArcPoint) Type() ArcPointType {
	return ArcPointType(attrib.UnpackBits(ArcTypeBit0, ArcTypeNumBits, p.Packed))
}

// OnBoundary reports whether the point moves by the stroke radius.
func (p *ArcPoint) OnBoundary() bool {
	return p.Packed&ArcBoundaryMask != 0
}

// Depth returns the relative depth.
func (p *ArcPoint) Depth() uint32 {
	return attrib.UnpackBits(ArcDepthBit0, ArcDepthNumBits, p.Packed)
}

// Radius and ArcAngle alias Data for arc points.
func (p *ArcPoint) Radius() float64   { return p.Data.X }
func (p *ArcPoint) ArcAngle() float64 { return p.Data.Y }

// Pack writes p into an attribute with the StrokedPoint slot layout,
// OffsetDirection in place of the pre-offset and Data in place of the
// auxiliary offset.
func (p *ArcPoint) Pack() attrib.Attribute {
	return attrib.Attribute{
		Attrib0: attrib.PackVec4(p.Position.X, p.Position.Y, p.OffsetDirection.X, p.OffsetDirection.Y),
		Attrib1: attrib.PackVec4(p.DistanceFromEdgeStart, p.DistanceFromContourStart, p.Data.X, p.Data.Y),
		Attrib2: [4]uint32{p.Packed, attrib.PackFloat(p.EdgeLength), attrib.PackFloat(p.ContourLength), 0},
	}
}

// UnpackArcPoint reverses Pack, up to float32 precision.
func UnpackArcPoint(a attrib.Attribute) ArcPoint {
	f := attrib.UnpackFloat
	return ArcPoint{
		Position:                 geom.V2(f(a.Attrib0[0]), f(a.Attrib0[1])),
		OffsetDirection:          geom.V2(f(a.Attrib0[2]), f(a.Attrib0[3])),
		DistanceFromEdgeStart:    f(a.Attrib1[0]),
		DistanceFromContourStart: f(a.Attrib1[1]),
		Data:                     geom.V2(f(a.Attrib1[2]), f(a.Attrib1[3])),
		Packed:                   a.Attrib2[0],
		EdgeLength:               f(a.Attrib2[1]),
		ContourLength:            f(a.Attrib2[2]),
	}
}
