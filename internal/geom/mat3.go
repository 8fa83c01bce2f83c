package geom

import "math"

// Mat3 is a 3x3 matrix acting on column vectors (x, y, w). M[r][c] is the
// entry of row r and column c.
type Mat3 [3][3]float64

// Identity3 returns the identity matrix.
func Identity3() Mat3 {
	return Mat3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

// Mul returns m * n, the transform applying n first.
func (m Mat3) Mul(n Mat3) Mat3 {
	var r Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = m[i][0]*n[0][j] + m[i][1]*n[1][j] + m[i][2]*n[2][j]
		}
	}
	return r
}

// Apply maps the point (p, 1) to homogeneous coordinates.
func (m Mat3) Apply(p Vec2) Vec3 {
	return Vec3{
		X: m[0][0]*p.X + m[0][1]*p.Y + m[0][2],
		Y: m[1][0]*p.X + m[1][1]*p.Y + m[1][2],
		Z: m[2][0]*p.X + m[2][1]*p.Y + m[2][2],
	}
}

// ApplyVec3 returns m * v.
func (m Mat3) ApplyVec3(v Vec3) Vec3 {
	return Vec3{
		X: m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		Y: m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		Z: m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

// Project maps p and divides by the homogeneous coordinate.
func (m Mat3) Project(p Vec2) Vec2 {
	q := m.Apply(p)
	return Vec2{X: q.X / q.Z, Y: q.Y / q.Z}
}

// Transpose returns the transpose of m.
func (m Mat3) Transpose() Mat3 {
	var r Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = m[j][i]
		}
	}
	return r
}

// PullbackPlane returns the plane in the source space of m equivalent to
// plane in its target space: transpose(m) * plane.
func (m Mat3) PullbackPlane(plane Vec3) Vec3 {
	return Vec3{
		X: m[0][0]*plane.X + m[1][0]*plane.Y + m[2][0]*plane.Z,
		Y: m[0][1]*plane.X + m[1][1]*plane.Y + m[2][1]*plane.Z,
		Z: m[0][2]*plane.X + m[1][2]*plane.Y + m[2][2]*plane.Z,
	}
}

// Det returns the determinant.
func (m Mat3) Det() float64 {
	return m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
}

// Adjugate returns the classical adjoint, the inverse times the
// determinant.
func (m Mat3) Adjugate() Mat3 {
	return Mat3{
		{
			m[1][1]*m[2][2] - m[1][2]*m[2][1],
			m[0][2]*m[2][1] - m[0][1]*m[2][2],
			m[0][1]*m[1][2] - m[0][2]*m[1][1],
		},
		{
			m[1][2]*m[2][0] - m[1][0]*m[2][2],
			m[0][0]*m[2][2] - m[0][2]*m[2][0],
			m[0][2]*m[1][0] - m[0][0]*m[1][2],
		},
		{
			m[1][0]*m[2][1] - m[1][1]*m[2][0],
			m[0][1]*m[2][0] - m[0][0]*m[2][1],
			m[0][0]*m[1][1] - m[0][1]*m[1][0],
		},
	}
}

// Inverse returns the inverse of m and false when m is singular.
func (m Mat3) Inverse() (Mat3, bool) {
	det := m.Det()
	if det == 0 || math.IsNaN(det) {
		return Mat3{}, false
	}
	adj := m.Adjugate()
	inv := 1 / det
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			adj[i][j] *= inv
		}
	}
	return adj, true
}

// SingularValues returns the singular values of the upper-left 2x2 block,
// largest first.
func (m Mat3) SingularValues() (float64, float64) {
	a, b := m[0][0], m[0][1]
	c, d := m[1][0], m[1][1]
	// eigenvalues of transpose(A) * A
	p := a*a + c*c
	q := a*b + c*d
	r := b*b + d*d
	mid := 0.5 * (p + r)
	disc := math.Sqrt(0.25*(p-r)*(p-r) + q*q)
	s0 := math.Sqrt(mid + disc)
	s1 := math.Sqrt(math.Max(mid-disc, 0))
	return s0, s1
}

// IsAffine reports whether the last row is (0, 0, 1).
func (m Mat3) IsAffine() bool {
	return m[2][0] == 0 && m[2][1] == 0 && m[2][2] == 1
}
