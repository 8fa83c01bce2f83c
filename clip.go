package strokemesh

import (
	"github.com/gogpu/strokemesh/internal/attrib"
	"github.com/gogpu/strokemesh/internal/clip"
	"github.com/gogpu/strokemesh/internal/geom"
)

// planeEpsilon is the tolerance of the corner tests against clip planes.
const planeEpsilon = 1e-9

// ClipInRect intersects the clip region with the rectangle at (x, y) of
// size w by h in item coordinates. An empty intersection culls every draw
// until the matching Restore.
//
// While the transform has only translated and scaled since the clip
// rectangle was set, the intersection is computed directly. Otherwise the
// rectangle becomes the clip region and the part of it outside the old
// region is hidden by occluders, one per old clip plane that does not
// already contain the rectangle.
func (p *Painter) ClipInRect(x, y, w, h float64) {
	st := &p.state
	if st.culled {
		return
	}
	lo := V2(min(x, x+w), min(y, y+h))
	hi := V2(max(x, x+w), max(y, y+h))
	if !(lo.X < hi.X && lo.Y < hi.Y) {
		st.culled = true
		return
	}

	switch {
	case !st.rect.enabled:
		p.setClipRect(lo, hi)

	case !st.tricky:
		lo = V2(max(lo.X, st.rect.min.X), max(lo.Y, st.rect.min.Y))
		hi = V2(min(hi.X, st.rect.max.X), min(hi.Y, st.rect.max.Y))
		if !(lo.X < hi.X && lo.Y < hi.Y) {
			st.culled = true
			return
		}
		p.setClipRect(lo, hi)

	default:
		old := p.clipEqs.Current()
		m := p.clipMatrix()
		corners := [4]Vec3{
			m.Apply(lo), m.Apply(V2(hi.X, lo.Y)),
			m.Apply(hi), m.Apply(V2(lo.X, hi.Y)),
		}
		var o occluder
		for _, e := range old {
			if containsAll(e, corners[:]) {
				continue
			}
			if i, ok := p.stageHalfPlaneOccluder(e); ok {
				o.patches = append(o.patches, pendingPatch{target: i})
			}
		}
		p.setClipRect(lo, hi)
		p.pushOccluder(o)
	}
}

// setClipRect makes the rectangle the clip region.
func (p *Painter) setClipRect(lo, hi Vec2) {
	st := &p.state
	st.rect = clipRect{min: lo, max: hi, enabled: true}
	st.tricky = false

	it := p.clipMatrix().InverseTranspose().mat3()
	local := [4]geom.Vec3{
		{X: 1, Y: 0, Z: -lo.X},
		{X: -1, Y: 0, Z: hi.X},
		{X: 0, Y: 1, Z: -lo.Y},
		{X: 0, Y: -1, Z: hi.Y},
	}
	eqs := make([]geom.Vec3, 0, len(local))
	for _, l := range local {
		eqs = append(eqs, it.ApplyVec3(l))
	}
	p.clipEqs.Set(eqs)
}

// containsAll reports whether every homogeneous point is on the positive
// side of plane.
func containsAll(plane Vec3, pts []Vec3) bool {
	for _, q := range pts {
		d := plane.X*q.X + plane.Y*q.Y + plane.Z*q.Z
		if q.Z < 0 {
			d = -d
		}
		if d < -planeEpsilon {
			return false
		}
	}
	return true
}

// stageHalfPlaneOccluder stages a depth-only draw covering the part of the
// render target outside the clip plane e. The draw uses pixel coordinates
// and receives its depth when its occluder pops.
func (p *Painter) stageHalfPlaneOccluder(e Vec3) (int, bool) {
	screen := []Vec2{V2(-1, -1), V2(1, -1), V2(1, 1), V2(-1, 1)}
	outside, _ := clip.ClipAgainstPlane(e.Mul(-1), screen, nil)
	if len(outside) < 3 {
		return 0, false
	}
	for i, q := range outside {
		outside[i] = p.clipToPixel(q)
	}
	d := Draw{
		Shader:    ShaderFill,
		Chunks:    []Chunk{attrib.New(&polygonFiller{pts: outside}).Chunk(0)},
		Transform: Identity(),
	}
	return p.stage(d), true
}

// ClipOutPath removes the region the path fills under rule from the clip
// region, until the matching Restore.
func (p *Painter) ClipOutPath(path *Path, rule FillRule) {
	if p.state.culled || path.Empty() {
		return
	}
	d, ok := p.fillDraw(path, rule)
	if !ok {
		return
	}
	d.ColorWrite = false
	d.Brush = Brush{}
	p.pushOccluder(occluder{patches: []pendingPatch{{target: p.stage(d)}}})
}

// ClipInPath intersects the clip region with the region the path fills
// under rule.
func (p *Painter) ClipInPath(path *Path, rule FillRule) {
	if path.Empty() {
		p.state.culled = true
		return
	}
	b := path.Bounds()
	size := b.Size()
	p.ClipInRect(b.Min().X, b.Min().Y, size.X, size.Y)
	p.ClipOutPath(path, rule.Complement())
}

// Culled reports whether the clip region is empty.
func (p *Painter) Culled() bool { return p.state.culled }
