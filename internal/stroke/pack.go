package stroke

import (
	"math"

	"github.com/gogpu/strokemesh/internal/attrib"
	"github.com/gogpu/strokemesh/internal/geom"
)

// meshWriter appends vertices and indices to buffers preallocated to their
// final size, so appends write in place.
type meshWriter struct {
	attrs   []attrib.Attribute
	indices []uint32
}

func newMeshWriter(attrs []attrib.Attribute, indices []uint32) meshWriter {
	return meshWriter{attrs: attrs[:0], indices: indices[:0]}
}

func (w *meshWriter) vertex() uint32 { return uint32(len(w.attrs)) }

func (w *meshWriter) stroked(p *StrokedPoint) {
	w.attrs = append(w.attrs, p.Pack())
}

func (w *meshWriter) arc(p *ArcPoint) {
	w.attrs = append(w.attrs, p.Pack())
}

// fan closes the vertices written since begin into a triangle fan.
func (w *meshWriter) fan(begin uint32) {
	w.indices = attrib.AddTriangleFan(begin, w.vertex(), w.indices)
}

// tris appends tris, relative to base.
func (w *meshWriter) tris(base uint32, tris []uint32) {
	for _, t := range tris {
		w.indices = append(w.indices, base+t)
	}
}

// SegmentsForArc returns how many pieces an arc of angle radians needs so
// that no chord strays more than thresh, in units of the radius, from it.
// At least four pieces are used.
func SegmentsForArc(angle, thresh float64) int {
	d := math.Max(1-thresh, 0.5)
	theta := math.Max(1e-5, 0.5*math.Acos(d))
	return 1 + max(3, int(math.Abs(angle)/theta))
}

// cmul multiplies a and b as complex numbers.
func cmul(a, b geom.Vec2) geom.Vec2 {
	return geom.V2(a.X*b.X-a.Y*b.Y, a.X*b.Y+a.Y*b.X)
}

// angleBetween returns the signed angle from n0 to n1.
func angleBetween(n0, n1 geom.Vec2) float64 {
	// n1 * conj(n0)
	re := n1.X*n0.X + n1.Y*n0.Y
	im := n1.Y*n0.X - n1.X*n0.Y
	return math.Atan2(im, re)
}

func joinPoint(j *Join) StrokedPoint {
	return StrokedPoint{
		Position:                 j.Position,
		DistanceFromEdgeStart:    j.DistanceFromPreviousJoin,
		DistanceFromContourStart: j.DistanceFromContourStart,
		EdgeLength:               j.DistanceFromPreviousJoin,
		ContourLength:            j.ContourLength(),
	}
}

func joinArcPoint(j *Join) ArcPoint {
	return ArcPoint{
		Position:                 j.Position,
		DistanceFromEdgeStart:    j.DistanceFromPreviousJoin,
		DistanceFromContourStart: j.DistanceFromContourStart,
		EdgeLength:               j.DistanceFromPreviousJoin,
		ContourLength:            j.ContourLength(),
	}
}

func capPoint(c *Cap) StrokedPoint {
	p := StrokedPoint{
		Position:      c.Position,
		EdgeLength:    c.EdgeLength,
		ContourLength: c.OpenContourLength,
	}
	if !c.Starting {
		p.DistanceFromEdgeStart = c.EdgeLength
		p.DistanceFromContourStart = c.OpenContourLength
	}
	return p
}

func capArcPoint(c *Cap) ArcPoint {
	return ArcPoint{
		Position:                 c.Position,
		DistanceFromEdgeStart:    c.DistanceFromEdgeStart,
		DistanceFromContourStart: c.DistanceFromContourStart,
		EdgeLength:               c.EdgeLength,
		ContourLength:            c.OpenContourLength,
	}
}

func joinBits(onBoundary bool, t PointType, depth uint32) uint32 {
	return PackStrokedBits(onBoundary, t, depth) | JoinMask
}

// joinSize returns the vertex and index count of one join of style s.
func joinSize(s JoinStyle, j *Join, thresh float64) (int, int) {
	switch s {
	case BevelJoins:
		return 3, 3
	case MiterClipJoins:
		return 5, 9
	case MiterBevelJoins, MiterJoins:
		return 4, 6
	case RoundedJoins:
		n := SegmentsForArc(j.Angle(), thresh)
		return n + 1, 3 * (n - 1)
	case ArcRoundedJoins:
		n := arcJoinCount(j.Angle())
		return 3*n + 2, 9 * n
	default:
		return 0, 0
	}
}

// arcJoinCount returns how many arcs of at most 45 degrees an arc rounded
// join of angle radians uses.
func arcJoinCount(angle float64) int {
	return 1 + int(math.Abs(angle)/(math.Pi/4))
}

// packJoin writes one join of style s at depth.
func packJoin(w *meshWriter, s JoinStyle, j *Join, thresh float64, depth uint32) {
	l := j.Lambda()
	n0, n1 := j.NormalIn().Mul(l), j.NormalOut().Mul(l)
	pt := joinPoint(j)
	begin := w.vertex()

	switch s {
	case BevelJoins:
		pt.PreOffset, pt.Packed = n0, joinBits(true, PointSharedWithEdge, depth)
		w.stroked(&pt)
		pt.PreOffset, pt.Packed = geom.Vec2{}, joinBits(false, PointSharedWithEdge, depth)
		w.stroked(&pt)
		pt.PreOffset, pt.Packed = n1, joinBits(true, PointSharedWithEdge, depth)
		w.stroked(&pt)

	case MiterClipJoins:
		pt.Packed = joinBits(false, PointSharedWithEdge, depth)
		w.stroked(&pt)
		pt.PreOffset, pt.Packed = n0, joinBits(true, PointSharedWithEdge, depth)
		w.stroked(&pt)
		pt.PreOffset, pt.AuxiliaryOffset = j.NormalIn(), j.NormalOut()
		pt.Packed = joinBits(true, PointMiterClipJoin, depth)
		w.stroked(&pt)
		pt.PreOffset, pt.AuxiliaryOffset = j.NormalOut(), j.NormalIn()
		pt.Packed = joinBits(true, PointMiterClipJoin, depth) | LambdaNegatedMask
		w.stroked(&pt)
		pt.PreOffset, pt.AuxiliaryOffset = n1, geom.Vec2{}
		pt.Packed = joinBits(true, PointSharedWithEdge, depth)
		w.stroked(&pt)

	case MiterBevelJoins, MiterJoins:
		t := PointMiterJoin
		if s == MiterBevelJoins {
			t = PointMiterBevelJoin
		}
		pt.Packed = joinBits(false, PointSharedWithEdge, depth)
		w.stroked(&pt)
		pt.PreOffset, pt.Packed = n0, joinBits(true, PointSharedWithEdge, depth)
		w.stroked(&pt)
		pt.PreOffset, pt.AuxiliaryOffset = j.NormalIn(), j.NormalOut()
		pt.Packed = joinBits(true, t, depth)
		w.stroked(&pt)
		pt.PreOffset, pt.AuxiliaryOffset = n1, geom.Vec2{}
		pt.Packed = joinBits(true, PointSharedWithEdge, depth)
		w.stroked(&pt)

	case RoundedJoins:
		packRoundedJoin(w, j, n0, n1, thresh, depth)

	case ArcRoundedJoins:
		a := joinArcPoint(j)
		packArcJoin(w, &a, arcJoinCount(j.Angle()), n0, j.Angle(), n1, depth, true)
		return

	default:
		return
	}
	w.fan(begin)
}

func packRoundedJoin(w *meshWriter, j *Join, n0, n1 geom.Vec2, thresh float64, depth uint32) {
	pt := joinPoint(j)
	pt.Packed = joinBits(false, PointSharedWithEdge, depth)
	w.stroked(&pt)
	pt.PreOffset, pt.Packed = n0, joinBits(true, PointSharedWithEdge, depth)
	w.stroked(&pt)

	num := SegmentsForArc(j.Angle(), thresh)
	delta := j.Angle() / float64(num-1)
	word := joinBits(true, PointRoundedJoin, depth)
	if n0.Y < 0 {
		word |= Normal0YSignMask
	}
	if n1.Y < 0 {
		word |= Normal1YSignMask
	}
	pt.PreOffset = geom.V2(n0.X, n1.X)
	for i := 1; i < num-1; i++ {
		sin, cos := math.Sincos(float64(i) * delta)
		z := cmul(geom.V2(cos, sin), n0)
		pt.AuxiliaryOffset = geom.V2(float64(i)/float64(num-1), z.X)
		pt.Packed = word
		if z.Y < 0 {
			pt.Packed |= SinSignMask
		}
		w.stroked(&pt)
	}

	pt.PreOffset, pt.AuxiliaryOffset = n1, geom.Vec2{}
	pt.Packed = joinBits(true, PointSharedWithEdge, depth)
	w.stroked(&pt)
}

// packArcJoin writes count arcs sweeping angle from nStart to nEnd around
// pt. It uses 3*count+2 vertices and 9*count indices.
func packArcJoin(w *meshWriter, pt *ArcPoint, count int, nStart geom.Vec2, angle float64, nEnd geom.Vec2,
	depth uint32, isJoin bool) {
	per := angle / float64(count)
	sin, cos := math.Sincos(per)
	da := geom.V2(cos, sin)

	var joinMask uint32
	if isJoin {
		joinMask = ArcJoinMask
	}
	arcValue := joinMask | ArcDistanceConstantMask | PackArcBits(true, ArcPointArc, depth)
	beyond := arcValue | ArcBeyondBoundaryMask

	center := w.vertex()
	pt.Data = geom.V2(0, per)
	pt.OffsetDirection = geom.Vec2{}
	pt.Packed = joinMask | ArcDistanceConstantMask | PackArcBits(false, ArcPointArc, depth)
	w.arc(pt)

	theta := nStart
	for i := 0; i <= count; i++ {
		switch i {
		case 0:
			pt.OffsetDirection = nStart
		case count:
			pt.OffsetDirection = nEnd
		default:
			pt.OffsetDirection = theta
		}
		if i != 0 {
			pt.Packed = beyond | ArcEndSegmentMask
			w.arc(pt)
		}
		start := w.vertex()
		pt.Packed = arcValue
		w.arc(pt)
		if i != count {
			pt.Packed = beyond
			w.arc(pt)
			vo := w.vertex()
			w.indices = append(w.indices,
				center, start, vo+1,
				start, start+1, vo,
				start, vo, vo+1)
		}
		theta = cmul(theta, da)
	}
}

// capSize returns the vertex and index count of one cap of style s.
func capSize(s CapStyle, thresh float64) (int, int) {
	switch s {
	case SquareCaps:
		return 5, 9
	case AdjustableCaps:
		return 6, 12
	case RoundedCaps:
		n := SegmentsForArc(math.Pi, thresh)
		return n + 1, 3 * (n - 1)
	case ArcRoundedCaps:
		return 3*arcCapCount + 2, 9 * arcCapCount
	default:
		return 0, 0
	}
}

const arcCapCount = 4

// packCap writes one cap of style s at depth.
func packCap(w *meshWriter, s CapStyle, c *Cap, thresh float64, depth uint32) {
	v := c.TangentInto
	n := geom.V2(-v.Y, v.X)
	pt := capPoint(c)
	begin := w.vertex()

	switch s {
	case SquareCaps:
		pt.Packed = PackStrokedBits(false, PointSharedWithEdge, depth)
		w.stroked(&pt)
		pt.PreOffset, pt.Packed = n, PackStrokedBits(true, PointSharedWithEdge, depth)
		w.stroked(&pt)
		pt.AuxiliaryOffset, pt.Packed = v, PackStrokedBits(true, PointSquareCap, depth)
		w.stroked(&pt)
		pt.PreOffset = n.Neg()
		w.stroked(&pt)
		pt.AuxiliaryOffset, pt.Packed = geom.Vec2{}, PackStrokedBits(true, PointSharedWithEdge, depth)
		w.stroked(&pt)

	case AdjustableCaps:
		var mask uint32
		if !c.Starting {
			mask = AdjustableCapIsEndContourMask
		}
		pt.AuxiliaryOffset = v
		verts := [6]struct {
			pre      geom.Vec2
			boundary bool
			ending   bool
		}{
			{geom.Vec2{}, false, false},
			{n, true, false},
			{n, true, true},
			{geom.Vec2{}, false, true},
			{n.Neg(), true, true},
			{n.Neg(), true, false},
		}
		for _, q := range verts {
			pt.PreOffset = q.pre
			pt.Packed = PackStrokedBits(q.boundary, PointAdjustableCap, depth) | mask
			if q.ending {
				pt.Packed |= AdjustableCapEndingMask
			}
			w.stroked(&pt)
		}

	case RoundedCaps:
		pt.Packed = PackStrokedBits(false, PointSharedWithEdge, depth)
		w.stroked(&pt)
		pt.PreOffset, pt.Packed = n, PackStrokedBits(true, PointSharedWithEdge, depth)
		w.stroked(&pt)
		num := SegmentsForArc(math.Pi, thresh)
		delta := math.Pi / float64(num-1)
		pt.Packed = PackStrokedBits(true, PointRoundedCap, depth)
		for i := 1; i < num-1; i++ {
			sin, cos := math.Sincos(float64(i) * delta)
			pt.AuxiliaryOffset = geom.V2(sin, cos)
			w.stroked(&pt)
		}
		pt.PreOffset, pt.AuxiliaryOffset = n.Neg(), geom.Vec2{}
		pt.Packed = PackStrokedBits(true, PointSharedWithEdge, depth)
		w.stroked(&pt)

	case ArcRoundedCaps:
		a := capArcPoint(c)
		nn := geom.V2(v.Y, -v.X)
		packArcJoin(w, &a, arcCapCount, nn, math.Pi, nn.Neg(), depth, false)
		return

	default:
		return
	}
	w.fan(begin)
}
