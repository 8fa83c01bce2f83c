package stroke

import (
	"math"
	"testing"

	"github.com/gogpu/strokemesh/internal/geom"
	"github.com/gogpu/strokemesh/internal/path"
)

const evalEps = 1e-4

func TestEvaluateJoins(t *testing.T) {
	sp := NewStrokedPath(corner())
	// the first join turns left at (10, 0); its outer side is below
	first := sp.Joins().Joins[0].Chunk

	tests := []struct {
		name   string
		style  JoinStyle
		vertex int
		limit  float64
		want   geom.Vec2
	}{
		{"bevel", BevelJoins, 0, 4, geom.V2(10, -2)},
		{"bevel inner", BevelJoins, 1, 4, geom.V2(10, 0)},
		{"miter tip", MiterJoins, 2, 4, geom.V2(12, -2)},
		{"miter clamped", MiterJoins, 2, 1, geom.V2(10+math.Sqrt2, -math.Sqrt2)},
		{"miter bevel collapsed", MiterBevelJoins, 2, 1, geom.V2(10, -2)},
		{"miter bevel tip", MiterBevelJoins, 2, 4, geom.V2(12, -2)},
		{"miter clip tip", MiterClipJoins, 2, 4, geom.V2(12, -2)},
		{"miter clip tip negated", MiterClipJoins, 3, 4, geom.V2(12, -2)},
		{"miter clip clipped", MiterClipJoins, 2, 1.2, geom.V2(10+2*math.Sqrt(0.44), -2)},
		{"miter clip clipped negated", MiterClipJoins, 3, 1.2, geom.V2(12, -2*math.Sqrt(0.44))},
		// a limit below 1 leaves every miter unbounded
		{"miter unbounded", MiterJoins, 2, 0, geom.V2(12, -2)},
		{"miter bevel unbounded", MiterBevelJoins, 2, 0, geom.V2(12, -2)},
		{"miter clip unbounded", MiterClipJoins, 2, 0, geom.V2(12, -2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := sp.JoinData(tt.style, 0).Chunk(first)
			got := Evaluate(c.Attributes[tt.vertex], false, EvalParams{Radius: 2, MiterLimit: tt.limit})
			if !got.Approx(tt.want, evalEps) {
				t.Errorf("Evaluate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMiterDistance(t *testing.T) {
	sp := NewStrokedPath(corner())
	first := sp.Joins().Joins[0].Chunk
	for _, s := range []JoinStyle{MiterJoins, MiterClipJoins} {
		c := sp.JoinData(s, 0).Chunk(first)
		p := UnpackStrokedPoint(c.Attributes[2])
		if got := p.MiterDistance(); math.Abs(got-math.Sqrt2) > evalEps {
			t.Errorf("%v: MiterDistance() = %v, want %v", s, got, math.Sqrt2)
		}
	}
}

func TestEvaluateRoundedJoinOnCircle(t *testing.T) {
	sp := NewStrokedPath(corner())
	first := sp.Joins().Joins[0].Chunk
	c := sp.JoinData(RoundedJoins, 0.01).Chunk(first)
	center := geom.V2(10, 0)
	for i := 1; i < len(c.Attributes); i++ {
		got := Evaluate(c.Attributes[i], false, EvalParams{Radius: 3})
		if d := got.Sub(center).Length(); math.Abs(d-3) > evalEps {
			t.Errorf("vertex %d at %v is %v from the join, want 3", i, got, d)
		}
		// the outer side of the left turn at (10, 0)
		if got.X < 10-evalEps || got.Y > evalEps {
			t.Errorf("vertex %d at %v is not on the outer quadrant", i, got)
		}
	}
}

func TestEvaluateCaps(t *testing.T) {
	sp := NewStrokedPath(corner())
	start := sp.Joins().Caps[0]
	if !start.Cap.Starting {
		start = sp.Joins().Caps[1]
	}
	p := EvalParams{Radius: 1}

	round := sp.CapData(RoundedCaps, 0.05).Chunk(start.Chunk)
	for i := 1; i < len(round.Attributes); i++ {
		got := Evaluate(round.Attributes[i], false, p)
		if d := got.Length(); math.Abs(d-1) > evalEps {
			t.Errorf("rounded cap vertex %d at %v is %v from the end, want 1", i, got, d)
		}
		if got.X > evalEps {
			t.Errorf("rounded cap vertex %d at %v points into the stroke", i, got)
		}
	}

	square := sp.CapData(SquareCaps, 0).Chunk(start.Chunk)
	want := []geom.Vec2{geom.V2(0, 0), geom.V2(0, -1), geom.V2(-1, -1), geom.V2(-1, 1), geom.V2(0, 1)}
	for i, w := range want {
		if got := Evaluate(square.Attributes[i], false, p); !got.Approx(w, evalEps) {
			t.Errorf("square cap vertex %d = %v, want %v", i, got, w)
		}
	}

	adj := sp.CapData(AdjustableCaps, 0).Chunk(start.Chunk)
	for i := range adj.Attributes {
		pt := UnpackStrokedPoint(adj.Attributes[i])
		got := Evaluate(adj.Attributes[i], false, p)
		ending := pt.Packed&AdjustableCapEndingMask != 0
		if ending != (got.X < -0.5) {
			t.Errorf("adjustable cap vertex %d at %v: ending = %v", i, got, ending)
		}
	}
}

func TestEvaluateArcJoin(t *testing.T) {
	sp := NewStrokedPath(corner())
	first := sp.Joins().Joins[0].Chunk
	c := sp.JoinData(ArcRoundedJoins, 0).Chunk(first)
	center := geom.V2(10, 0)
	for i := range c.Attributes {
		got := Evaluate(c.Attributes[i], true, EvalParams{Radius: 2})
		d := got.Sub(center).Length()
		if math.Abs(d) > evalEps && math.Abs(d-2) > evalEps {
			t.Errorf("vertex %d at %v is %v from the join, want 0 or 2", i, got, d)
		}
	}
}

func TestEvaluateArcEdgeStaysNearArc(t *testing.T) {
	var p path.Path
	p.MoveTo(10, 0)
	p.ArcTo(-10, 0, math.Pi)
	tp := path.Tessellate(p.Elements(), path.Options{Arcs: true})
	sp := NewStrokedPath(tp)
	if !sp.HasArcs() {
		t.Fatal("HasArcs() = false, want true")
	}

	d := sp.EdgeData(ArcEdges)
	box := sp.Bounds()
	box.Enlarge(geom.V2(2+evalEps, 2+evalEps))
	for i, a := range d.Attributes() {
		got := Evaluate(a, true, EvalParams{Radius: 2})
		if !box.Contains(got) {
			t.Errorf("vertex %d at %v is outside %v", i, got, box)
		}
	}
}

func TestArcPointOffset(t *testing.T) {
	dir := geom.V2(0, 1)
	tests := []struct {
		name   string
		packed uint32
		radius float64
		want   geom.Vec2
	}{
		{"center", PackArcBits(false, ArcPointArc, 0), 1, geom.Vec2{}},
		{"outer", PackArcBits(true, ArcPointArc, 0), 1, geom.V2(0, 1)},
		{"inner", PackArcBits(true, ArcPointArc, 0) | ArcInnerStrokingMask, 1, geom.V2(0, -1)},
		{"inner past center", PackArcBits(true, ArcPointArc, 0) | ArcInnerStrokingMask, 8, geom.V2(0, -5)},
		{"move to center narrow", PackArcBits(false, ArcPointArc, 0) | ArcMoveToCenterMask, 1, geom.Vec2{}},
		{"move to center wide", PackArcBits(false, ArcPointArc, 0) | ArcMoveToCenterMask, 8, geom.V2(0, -5)},
		{"line", PackArcBits(true, ArcPointLineSegment, 0), 3, geom.V2(0, 3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pt := ArcPoint{OffsetDirection: dir, Data: geom.V2(5, 0), Packed: tt.packed}
			if got := pt.offset(EvalParams{Radius: tt.radius}); !got.Approx(tt.want, 1e-12) {
				t.Errorf("offset() = %v, want %v", got, tt.want)
			}
		})
	}
}
