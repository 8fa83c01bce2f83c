package strokemesh

import (
	"math"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		m    Matrix
		want MatrixType
	}{
		{"identity", Identity(), NonScaling},
		{"translation", Translate(10, -4), NonScaling},
		{"rotation", Rotate(0.7), NonScaling},
		{"uniform scale", Scale(2, 2), Scaling},
		{"mirrored uniform scale", Scale(-3, 3), Scaling},
		{"rotated scale", Rotate(1).Multiply(Scale(0.5, 0.5)), Scaling},
		{"non-uniform scale", Scale(1, 2), Shearing},
		{"skew", Skew(0.5, 0), Shearing},
		{"perspective", Matrix{{1, 0, 0}, {0, 1, 0}, {0.001, 0, 1}}, Perspective},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.Classify(); got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatrixMultiplyOrder(t *testing.T) {
	// translate after scaling
	m := Translate(10, 0).Multiply(Scale(2, 2))
	if got := m.TransformPoint(V2(1, 1)); !got.Approx(V2(12, 2), 1e-12) {
		t.Errorf("TransformPoint() = %v, want (12, 2)", got)
	}
	if got := m.TransformVector(V2(1, 1)); !got.Approx(V2(2, 2), 1e-12) {
		t.Errorf("TransformVector() = %v, want (2, 2)", got)
	}
}

func TestInvert(t *testing.T) {
	m := Translate(3, 4).Multiply(Rotate(0.3)).Multiply(Scale(2, 5))
	inv, ok := m.Invert()
	if !ok {
		t.Fatal("Invert() reported a singular matrix")
	}
	p := V2(-7, 11)
	if got := inv.TransformPoint(m.TransformPoint(p)); !got.Approx(p, 1e-9) {
		t.Errorf("round trip = %v, want %v", got, p)
	}
	if _, ok := Scale(0, 1).Invert(); ok {
		t.Error("Invert() of a singular matrix reported ok")
	}
}

func TestInverseTransposeMapsLines(t *testing.T) {
	tests := []struct {
		name string
		m    Matrix
	}{
		{"scale translate", Translate(5, 1).Multiply(Scale(2, 3))},
		{"mirror", Scale(-1, 1)},
		{"rotation", Rotate(2)},
	}
	// the half-plane x >= 1
	line := V3(1, 0, -1)
	inside, outside := V2(2, 0), V2(0, 0)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := tt.m.InverseTranspose().mat3().ApplyVec3(line)
			if d := l.Eval(tt.m.TransformPoint(inside)); d <= 0 {
				t.Errorf("mapped inside point evaluates to %v, want > 0", d)
			}
			if d := l.Eval(tt.m.TransformPoint(outside)); d >= 0 {
				t.Errorf("mapped outside point evaluates to %v, want < 0", d)
			}
			if d := l.Eval(tt.m.TransformPoint(V2(1, 7))); math.Abs(d) > 1e-9 {
				t.Errorf("mapped boundary point evaluates to %v, want 0", d)
			}
		})
	}
}

func TestPreservesAxes(t *testing.T) {
	if !Scale(2, -1).Multiply(Translate(1, 1)).PreservesAxes() {
		t.Error("scale and translation should preserve axes")
	}
	if Rotate(math.Pi / 4).PreservesAxes() {
		t.Error("a 45 degree rotation should not preserve axes")
	}
}

func TestOperatorNorm(t *testing.T) {
	if got := Scale(3, 0.5).OperatorNorm(); math.Abs(got-3) > 1e-12 {
		t.Errorf("OperatorNorm() = %v, want 3", got)
	}
	if got := Rotate(1).Multiply(Scale(2, 2)).OperatorNorm(); math.Abs(got-2) > 1e-9 {
		t.Errorf("OperatorNorm() = %v, want 2", got)
	}
}
