package geom

import "testing"

func TestBoundingBoxEmpty(t *testing.T) {
	var b BoundingBox
	if !b.Empty() {
		t.Fatal("zero BoundingBox should be empty")
	}
	b.Translate(V2(1, 1))
	b.ScaleUp(V2(2, 2))
	b.ScaleDown(V2(2, 2))
	b.Enlarge(V2(1, 1))
	if !b.Empty() {
		t.Error("mutating an empty box must leave it empty")
	}
	if b.Contains(V2(0, 0)) {
		t.Error("empty box contains nothing")
	}
	if b.Intersects(NewBoundingBox(V2(-1, -1), V2(1, 1))) {
		t.Error("empty box intersects nothing")
	}
}

func TestBoundingBoxUnion(t *testing.T) {
	var b BoundingBox
	if !b.UnionPoint(V2(1, 2)) {
		t.Error("UnionPoint() on empty box = false, want true")
	}
	if b.UnionPoint(V2(1, 2)) {
		t.Error("UnionPoint() with same point = true, want false")
	}
	if !b.UnionPoint(V2(-1, 5)) {
		t.Error("UnionPoint() outside = false, want true")
	}
	if got, want := b.Min(), V2(-1, 2); got != want {
		t.Errorf("Min() = %v, want %v", got, want)
	}
	if got, want := b.Max(), V2(1, 5); got != want {
		t.Errorf("Max() = %v, want %v", got, want)
	}

	inner := NewBoundingBox(V2(0, 3), V2(0.5, 4))
	if b.UnionBox(inner) {
		t.Error("UnionBox() of contained box = true, want false")
	}
	if b.UnionBox(BoundingBox{}) {
		t.Error("UnionBox() of empty box = true, want false")
	}
	if !b.UnionBox(NewBoundingBox(V2(0, 0), V2(2, 2))) {
		t.Error("UnionBox() of larger box = false, want true")
	}
	if !b.ContainsBox(inner) {
		t.Error("ContainsBox() = false, want true")
	}
}

func TestBoundingBoxIntersects(t *testing.T) {
	a := NewBoundingBox(V2(0, 0), V2(10, 10))
	tests := []struct {
		name string
		b    BoundingBox
		want bool
	}{
		{"overlap", NewBoundingBox(V2(5, 5), V2(15, 15)), true},
		{"touching", NewBoundingBox(V2(10, 0), V2(20, 10)), true},
		{"disjoint x", NewBoundingBox(V2(11, 0), V2(20, 10)), false},
		{"disjoint y", NewBoundingBox(V2(0, -5), V2(10, -1)), false},
		{"inside", NewBoundingBox(V2(2, 2), V2(3, 3)), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Intersects(tt.b); got != tt.want {
				t.Errorf("Intersects() = %v, want %v", got, tt.want)
			}
			if got := tt.b.Intersects(a); got != tt.want {
				t.Errorf("Intersects() reversed = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBoundingBoxIntersect(t *testing.T) {
	a := NewBoundingBox(V2(0, 0), V2(10, 10))
	a.Intersect(NewBoundingBox(V2(5, -5), V2(20, 5)))
	if a.Min() != V2(5, 0) || a.Max() != V2(10, 5) {
		t.Errorf("Intersect() = [%v %v], want [(5,0) (10,5)]", a.Min(), a.Max())
	}
	a.Intersect(NewBoundingBox(V2(50, 50), V2(60, 60)))
	if !a.Empty() {
		t.Error("Intersect() with disjoint box should be empty")
	}
}

func TestBoundingBoxSplit(t *testing.T) {
	b := NewBoundingBox(V2(0, 0), V2(10, 4))
	l, r := b.SplitX()
	if l.Max().X != 5 || r.Min().X != 5 || l.Min() != b.Min() || r.Max() != b.Max() {
		t.Errorf("SplitX() = [%v %v] [%v %v]", l.Min(), l.Max(), r.Min(), r.Max())
	}
	lo, hi := b.SplitY()
	if lo.Max().Y != 2 || hi.Min().Y != 2 {
		t.Errorf("SplitY() = [%v %v] [%v %v]", lo.Min(), lo.Max(), hi.Min(), hi.Max())
	}
}

func TestBoundingBoxInflatedPolygon(t *testing.T) {
	b := NewBoundingBox(V2(0, 0), V2(2, 1))
	got := b.InflatedPolygon(1)
	want := [4]Vec2{{-1, -1}, {3, -1}, {3, 2}, {-1, 2}}
	if got != want {
		t.Errorf("InflatedPolygon(1) = %v, want %v", got, want)
	}
}

func TestBoundingBoxTransform(t *testing.T) {
	b := NewBoundingBox(V2(1, 1), V2(2, 3))
	b.Translate(V2(1, -1))
	if b.Min() != V2(2, 0) || b.Max() != V2(3, 2) {
		t.Errorf("Translate() = [%v %v]", b.Min(), b.Max())
	}
	b.ScaleUp(V2(2, 3))
	if b.Min() != V2(4, 0) || b.Max() != V2(6, 6) {
		t.Errorf("ScaleUp() = [%v %v]", b.Min(), b.Max())
	}
	b.ScaleDown(V2(2, 3))
	if b.Min() != V2(2, 0) || b.Max() != V2(3, 2) {
		t.Errorf("ScaleDown() = [%v %v]", b.Min(), b.Max())
	}
}
