package stroke

import (
	"math"
	"testing"

	"github.com/gogpu/strokemesh/internal/geom"
)

func TestStrokedPointBitLayout(t *testing.T) {
	tests := []struct {
		name string
		got  uint32
		want uint32
	}{
		{"type mask", PointTypeMask, 0x0000000F},
		{"boundary", BoundaryMask, 0x00000010},
		{"depth mask", DepthMask, 0x01FFFFE0},
		{"join", JoinMask, 0x02000000},
		{"end sub-edge", EndSubEdgeMask, 0x04000000},
		{"bevel edge", BevelEdgeMask, 0x08000000},
		{"normal0 y sign", Normal0YSignMask, 0x04000000},
		{"normal1 y sign", Normal1YSignMask, 0x08000000},
		{"sin sign", SinSignMask, 0x10000000},
		{"lambda negated", LambdaNegatedMask, 0x04000000},
		{"adjustable ending", AdjustableCapEndingMask, 0x04000000},
		{"adjustable end contour", AdjustableCapIsEndContourMask, 0x08000000},
		{"rounded join word", PackStrokedBits(true, PointRoundedJoin, 3) | JoinMask, 0x02000072},
		{"sub-edge word", PackStrokedBits(false, PointSubEdge, 1), 0x00000020},
		{"adjustable cap word", PackStrokedBits(true, PointAdjustableCap, 0), 0x00000018},
		{"depth clamp", PackStrokedBits(false, PointSubEdge, 1<<21), 0x01FFFFE0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %#08x, want %#08x", tt.got, tt.want)
			}
		})
	}
}

func TestArcPointBitLayout(t *testing.T) {
	tests := []struct {
		name string
		got  uint32
		want uint32
	}{
		{"type mask", ArcTypeMask, 0x00000003},
		{"boundary", ArcBoundaryMask, 0x00000004},
		{"end segment", ArcEndSegmentMask, 0x00000008},
		{"distance constant", ArcDistanceConstantMask, 0x00000010},
		{"join", ArcJoinMask, 0x00000020},
		{"depth mask", ArcDepthMask, 0x03FFFFC0},
		{"beyond boundary", ArcBeyondBoundaryMask, 0x04000000},
		{"inner stroking", ArcInnerStrokingMask, 0x08000000},
		{"move to center", ArcMoveToCenterMask, 0x10000000},
		{"extend", ArcExtendMask, 0x04000000},
		{"line segment word", PackArcBits(true, ArcPointLineSegment, 7), 0x000001C5},
		{"capper word", PackArcBits(false, ArcPointDashedCapper, 0), 0x00000002},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %#08x, want %#08x", tt.got, tt.want)
			}
		})
	}
}

func TestStrokedPointPackSlots(t *testing.T) {
	p := StrokedPoint{
		Position:                 geom.V2(1, 2),
		PreOffset:                geom.V2(0, -1),
		AuxiliaryOffset:          geom.V2(3, 4),
		DistanceFromEdgeStart:    5,
		DistanceFromContourStart: 6,
		EdgeLength:               7,
		ContourLength:            8,
		Packed:                   0xDEADBEEF,
	}
	a := p.Pack()
	want := [3][4]uint32{
		{math.Float32bits(1), math.Float32bits(2), math.Float32bits(0), math.Float32bits(-1)},
		{math.Float32bits(5), math.Float32bits(6), math.Float32bits(3), math.Float32bits(4)},
		{0xDEADBEEF, math.Float32bits(7), math.Float32bits(8), 0},
	}
	got := [3][4]uint32{a.Attrib0, a.Attrib1, a.Attrib2}
	if got != want {
		t.Errorf("Pack() = %#x, want %#x", got, want)
	}
	if back := UnpackStrokedPoint(a); back != p {
		t.Errorf("UnpackStrokedPoint() = %+v, want %+v", back, p)
	}
}

func TestStrokedPointAccessors(t *testing.T) {
	p := StrokedPoint{Packed: PackStrokedBits(true, PointMiterJoin, 42) | LambdaNegatedMask}
	if p.Type() != PointMiterJoin {
		t.Errorf("Type() = %v, want %v", p.Type(), PointMiterJoin)
	}
	if !p.OnBoundary() {
		t.Error("OnBoundary() = false, want true")
	}
	if p.Depth() != 42 {
		t.Errorf("Depth() = %d, want 42", p.Depth())
	}
	p.SetDepth(7)
	if p.Depth() != 7 || p.Packed&LambdaNegatedMask == 0 || p.Type() != PointMiterJoin {
		t.Errorf("SetDepth() corrupted word %#x", p.Packed)
	}
}

func TestArcPointPackSlots(t *testing.T) {
	p := ArcPoint{
		Position:        geom.V2(-1, 0.5),
		OffsetDirection: geom.V2(1, 0),
		Data:            geom.V2(10, math.Pi/2),
		Packed:          PackArcBits(true, ArcPointArc, 9) | ArcEndSegmentMask,
	}
	a := p.Pack()
	if a.Attrib1[2] != math.Float32bits(10) || a.Attrib1[3] != math.Float32bits(float32(math.Pi/2)) {
		t.Errorf("Data slots = %#x %#x", a.Attrib1[2], a.Attrib1[3])
	}
	back := UnpackArcPoint(a)
	if back.Type() != ArcPointArc || back.Depth() != 9 || !back.OnBoundary() {
		t.Errorf("UnpackArcPoint() word = %#x", back.Packed)
	}
	if back.Radius() != 10 {
		t.Errorf("Radius() = %v, want 10", back.Radius())
	}
}
