package path

import (
	"math"
	"testing"

	"github.com/gogpu/strokemesh/internal/geom"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestTessellateOpenPolyline(t *testing.T) {
	var p Path
	p.MoveTo(0, 0)
	p.LineTo(10, 0)
	p.LineTo(10, 5)

	tp := Tessellate(p.Elements(), Options{})
	if len(tp.Contours) != 1 {
		t.Fatalf("len(Contours) = %d, want 1", len(tp.Contours))
	}
	c := tp.Contours[0]
	if len(c.Edges) != 3 {
		t.Fatalf("len(Edges) = %d, want 3 (two lines and the closing edge)", len(c.Edges))
	}
	if !c.ClosingEdge().Closing {
		t.Error("last edge should be the closing edge")
	}
	closing := math.Hypot(10, 5)
	if !approx(c.OpenLength, 15) || !approx(c.ClosedLength, 15+closing) {
		t.Errorf("lengths = %v, %v; want 15, %v", c.OpenLength, c.ClosedLength, 15+closing)
	}

	s := tp.Segments[1]
	if !approx(s.DistanceFromContourStart, 10) || !approx(s.DistanceFromEdgeStart, 0) {
		t.Errorf("segment 1 distances = %v, %v; want 10, 0", s.DistanceFromContourStart, s.DistanceFromEdgeStart)
	}
	if s.EnterTangent != geom.V2(0, 1) {
		t.Errorf("segment 1 tangent = %v, want (0, 1)", s.EnterTangent)
	}
	if c.Closed {
		t.Error("contour without Close should not be marked closed")
	}
}

func TestTessellateCubicIsContinuous(t *testing.T) {
	var p Path
	p.MoveTo(0, 0)
	p.CubicTo(0, 50, 100, 50, 100, 0)
	p.Close()

	tp := Tessellate(p.Elements(), Options{Threshold: 0.1})
	e := tp.Contours[0].Edges[0]
	segs := tp.EdgeSegments(e)
	if len(segs) < 4 {
		t.Fatalf("cubic flattened into %d segments, want several", len(segs))
	}
	var d float64
	for i, s := range segs {
		if s.Continuation != (i > 0) {
			t.Errorf("segment %d Continuation = %v", i, s.Continuation)
		}
		if !approx(s.DistanceFromEdgeStart, d) {
			t.Errorf("segment %d DistanceFromEdgeStart = %v, want %v", i, s.DistanceFromEdgeStart, d)
		}
		if i > 0 && segs[i-1].End != s.Start {
			t.Errorf("segment %d does not start where %d ends", i, i-1)
		}
		d += s.Length
	}
	if !approx(d, e.Length) {
		t.Errorf("sum of lengths = %v, want %v", d, e.Length)
	}
	if !segs[len(segs)-1].LastOfEdge {
		t.Error("last segment should be LastOfEdge")
	}
	if !tp.Contours[0].Closed {
		t.Error("contour should be marked closed")
	}
}

func TestTessellateArcSplitsAtQuadrants(t *testing.T) {
	var p Path
	p.MoveTo(10, 0)
	p.ArcTo(-10, 0, math.Pi)

	tp := Tessellate(p.Elements(), Options{Arcs: true})
	if !tp.HasArcs {
		t.Fatal("HasArcs = false, want true")
	}
	segs := tp.EdgeSegments(tp.Contours[0].Edges[0])
	if len(segs) != 2 {
		t.Fatalf("half circle split into %d pieces, want 2", len(segs))
	}
	for i, s := range segs {
		if s.Type != ArcSegment {
			t.Errorf("segment %d type = %v, want arc", i, s.Type)
		}
		if !approx(s.Radius, 10) {
			t.Errorf("segment %d radius = %v, want 10", i, s.Radius)
		}
		if !approx(s.Length, 5*math.Pi) {
			t.Errorf("segment %d length = %v, want 5pi", i, s.Length)
		}
	}
	if !segs[0].End.Approx(geom.V2(0, 10), 1e-9) {
		t.Errorf("split point = %v, want (0, 10)", segs[0].End)
	}
	if !segs[0].EnterTangent.Approx(geom.V2(0, 1), 1e-9) {
		t.Errorf("enter tangent = %v, want (0, 1)", segs[0].EnterTangent)
	}
	b := tp.Bounds
	if !approx(b.Max().Y, 10) {
		t.Errorf("bounds max y = %v, want 10", b.Max().Y)
	}
}

func TestTessellateArcAsChords(t *testing.T) {
	var p Path
	p.MoveTo(10, 0)
	p.ArcTo(-10, 0, math.Pi)

	tp := Tessellate(p.Elements(), Options{Threshold: 0.01})
	if tp.HasArcs {
		t.Error("HasArcs = true, want false")
	}
	for _, s := range tp.EdgeSegments(tp.Contours[0].Edges[0]) {
		if s.Type != LineSegment {
			t.Fatalf("segment type = %v, want line", s.Type)
		}
		mid := s.Start.Lerp(s.End, 0.5)
		if d := 10 - mid.Length(); d > 0.01+1e-9 {
			t.Errorf("chord sagitta %v exceeds threshold", d)
		}
	}
}

func TestTessellateDegenerateContour(t *testing.T) {
	var p Path
	p.MoveTo(3, 4)
	p.MoveTo(5, 5)
	p.LineTo(5, 5)

	tp := Tessellate(p.Elements(), Options{})
	if len(tp.Contours) != 2 {
		t.Fatalf("len(Contours) = %d, want 2", len(tp.Contours))
	}
	c := tp.Contours[0]
	if len(c.Edges) != 1 || c.ClosedLength != 0 {
		t.Errorf("point contour: %d edges, length %v; want 1, 0", len(c.Edges), c.ClosedLength)
	}
	for _, s := range tp.Segments {
		if s.EnterTangent.LengthSq() == 0 {
			t.Errorf("degenerate segment has zero tangent")
		}
	}
}

func TestArcSegmentCount(t *testing.T) {
	tests := []struct {
		name                     string
		radius, sweep, tolerance float64
		want                     int
	}{
		{"zero sweep", 10, 0, 0.1, 1},
		{"huge tolerance", 1, math.Pi, 5, 2},
		{"full circle", 100, 2 * math.Pi, 100, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ArcSegmentCount(tt.radius, tt.sweep, tt.tolerance); got != tt.want {
				t.Errorf("ArcSegmentCount() = %d, want %d", got, tt.want)
			}
		})
	}
}
