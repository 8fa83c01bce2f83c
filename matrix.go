package strokemesh

import (
	"math"

	"github.com/gogpu/strokemesh/internal/geom"
)

// Matrix is a 3x3 projective transform acting on column vectors
// (x, y, 1). M[r][c] is the entry of row r and column c; an affine
// transform has the last row (0, 0, 1):
//
//	| a  b  c |
//	| d  e  f |
//	| 0  0  1 |
type Matrix [3][3]float64

// Identity returns the identity transform.
func Identity() Matrix {
	return Matrix{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

// Translate returns a translation by (x, y).
func Translate(x, y float64) Matrix {
	return Matrix{{1, 0, x}, {0, 1, y}, {0, 0, 1}}
}

// Scale returns a scale by x and y along the axes.
func Scale(x, y float64) Matrix {
	return Matrix{{x, 0, 0}, {0, y, 0}, {0, 0, 1}}
}

// Rotate returns a rotation by angle radians.
func Rotate(angle float64) Matrix {
	sin, cos := math.Sincos(angle)
	return Matrix{{cos, -sin, 0}, {sin, cos, 0}, {0, 0, 1}}
}

// Skew returns x' = x + kx*y, y' = ky*x + y.
func Skew(kx, ky float64) Matrix {
	return Matrix{{1, kx, 0}, {ky, 1, 0}, {0, 0, 1}}
}

func (m Matrix) mat3() geom.Mat3 { return geom.Mat3(m) }

// Multiply returns m * n: the transform applying n first, then m.
func (m Matrix) Multiply(n Matrix) Matrix {
	return Matrix(m.mat3().Mul(n.mat3()))
}

// TransformPoint maps p, dividing by the homogeneous coordinate.
func (m Matrix) TransformPoint(p Vec2) Vec2 {
	return m.mat3().Project(p)
}

// Apply maps p to homogeneous coordinates.
func (m Matrix) Apply(p Vec2) Vec3 {
	return m.mat3().Apply(p)
}

// TransformVector maps the direction v by the linear part of m.
func (m Matrix) TransformVector(v Vec2) Vec2 {
	return V2(m[0][0]*v.X+m[0][1]*v.Y, m[1][0]*v.X+m[1][1]*v.Y)
}

// Invert returns the inverse of m and false when m is singular.
func (m Matrix) Invert() (Matrix, bool) {
	inv, ok := m.mat3().Inverse()
	return Matrix(inv), ok
}

// InverseTranspose returns the transform of line equations matching m:
// if a point p satisfies l, m*p satisfies InverseTranspose*l. It is
// computed from the adjugate, so it exists up to scale even for singular
// m.
func (m Matrix) InverseTranspose() Matrix {
	adj := m.mat3().Adjugate().Transpose()
	if m.mat3().Det() < 0 {
		// keep the positive side of every equation
		for i := range adj {
			for j := range adj[i] {
				adj[i][j] = -adj[i][j]
			}
		}
	}
	return Matrix(adj)
}

// SingularValues returns the singular values of the linear part, largest
// first.
func (m Matrix) SingularValues() (float64, float64) {
	return m.mat3().SingularValues()
}

// IsIdentity reports whether m is exactly the identity.
func (m Matrix) IsIdentity() bool {
	return m == Identity()
}

// IsTranslation reports whether m only translates.
func (m Matrix) IsTranslation() bool {
	return m[0][0] == 1 && m[0][1] == 0 && m[1][0] == 0 && m[1][1] == 1 && m.IsAffine()
}

// IsAffine reports whether m has no perspective.
func (m Matrix) IsAffine() bool {
	return m.mat3().IsAffine()
}

// PreservesAxes reports whether m maps axis-aligned rectangles to
// axis-aligned rectangles.
func (m Matrix) PreservesAxes() bool {
	return m.IsAffine() && m[0][1] == 0 && m[1][0] == 0
}

// MatrixType classifies a transform by how it changes lengths. The
// values are ordered: a later type is harder to handle.
type MatrixType int

const (
	// NonScaling transforms preserve lengths: rotations and translations.
	NonScaling MatrixType = iota
	// Scaling transforms scale lengths uniformly.
	Scaling
	// Shearing transforms scale lengths by direction.
	Shearing
	// Perspective transforms have a non-trivial last row.
	Perspective
)

func (t MatrixType) String() string {
	switch t {
	case NonScaling:
		return "NonScaling"
	case Scaling:
		return "Scaling"
	case Shearing:
		return "Shearing"
	case Perspective:
		return "Perspective"
	default:
		return "Unknown"
	}
}

// classifyEpsilon is the relative tolerance on singular values.
const classifyEpsilon = 1e-6

// Classify returns the type of m from its singular values.
func (m Matrix) Classify() MatrixType {
	if !m.IsAffine() {
		return Perspective
	}
	s0, s1 := m.SingularValues()
	switch {
	case math.Abs(s0-1) <= classifyEpsilon && math.Abs(s1-1) <= classifyEpsilon:
		return NonScaling
	case math.Abs(s0-s1) <= classifyEpsilon*s0:
		return Scaling
	default:
		return Shearing
	}
}

// OperatorNorm returns the largest factor by which the linear part of m
// stretches a vector.
func (m Matrix) OperatorNorm() float64 {
	s0, _ := m.SingularValues()
	return s0
}
