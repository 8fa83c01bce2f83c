package path

import (
	"math"

	"github.com/gogpu/strokemesh/internal/geom"
)

// maxSubdivision bounds the recursion of curve flattening.
const maxSubdivision = 16

// flattenQuad appends the end points of a polyline approximating the
// quadratic Bezier p0 p1 p2 within tolerance. p0 itself is not appended.
func flattenQuad(p0, p1, p2 geom.Vec2, tolerance float64, dst []geom.Vec2) []geom.Vec2 {
	return flattenQuadRec(p0, p1, p2, tolerance, 0, dst)
}

func flattenQuadRec(p0, p1, p2 geom.Vec2, tolerance float64, depth int, dst []geom.Vec2) []geom.Vec2 {
	if depth >= maxSubdivision || distanceToLine(p1, p0, p2) < tolerance {
		return append(dst, p2)
	}

	q0 := p0.Lerp(p1, 0.5)
	q1 := p1.Lerp(p2, 0.5)
	q2 := q0.Lerp(q1, 0.5)

	dst = flattenQuadRec(p0, q0, q2, tolerance, depth+1, dst)
	return flattenQuadRec(q2, q1, p2, tolerance, depth+1, dst)
}

// flattenCubic appends the end points of a polyline approximating the cubic
// Bezier p0..p3 within tolerance. p0 itself is not appended.
func flattenCubic(p0, p1, p2, p3 geom.Vec2, tolerance float64, dst []geom.Vec2) []geom.Vec2 {
	return flattenCubicRec(p0, p1, p2, p3, tolerance, 0, dst)
}

func flattenCubicRec(p0, p1, p2, p3 geom.Vec2, tolerance float64, depth int, dst []geom.Vec2) []geom.Vec2 {
	dist := math.Max(distanceToLine(p1, p0, p3), distanceToLine(p2, p0, p3))
	if depth >= maxSubdivision || dist < tolerance {
		return append(dst, p3)
	}

	// de Casteljau
	q0 := p0.Lerp(p1, 0.5)
	q1 := p1.Lerp(p2, 0.5)
	q2 := p2.Lerp(p3, 0.5)
	r0 := q0.Lerp(q1, 0.5)
	r1 := q1.Lerp(q2, 0.5)
	s := r0.Lerp(r1, 0.5)

	dst = flattenCubicRec(p0, q0, r0, s, tolerance, depth+1, dst)
	return flattenCubicRec(s, r1, q2, p3, tolerance, depth+1, dst)
}

// flattenArc appends the chord end points approximating arc a.
func flattenArc(a *Segment, tolerance float64, dst []geom.Vec2) []geom.Vec2 {
	sweep := a.AngleEnd - a.AngleBegin
	n := ArcSegmentCount(a.Radius, sweep, tolerance)
	for i := 1; i < n; i++ {
		dst = append(dst, a.PointAt(a.AngleBegin+sweep*float64(i)/float64(n)))
	}
	return append(dst, a.End)
}

// ArcSegmentCount returns how many chords approximate an arc of the given
// radius and sweep so that no chord strays more than tolerance from it.
func ArcSegmentCount(radius, sweep, tolerance float64) int {
	sweep = math.Abs(sweep)
	if sweep == 0 {
		return 1
	}
	maxStep := math.Pi / 2
	if tolerance < radius {
		maxStep = math.Min(maxStep, 2*math.Acos(1-tolerance/radius))
	}
	return max(1, int(math.Ceil(sweep/maxStep)))
}

// distanceToLine returns the distance from p to the segment (a, b).
func distanceToLine(p, a, b geom.Vec2) float64 {
	ab := b.Sub(a)
	abLen := ab.Length()
	if abLen < 1e-10 {
		return p.Sub(a).Length()
	}

	t := p.Sub(a).Dot(ab) / (abLen * abLen)
	if t < 0 {
		return p.Sub(a).Length()
	}
	if t > 1 {
		return p.Sub(b).Length()
	}
	return p.Sub(a.Add(ab.Mul(t))).Length()
}
