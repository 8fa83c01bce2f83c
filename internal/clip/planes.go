package clip

import "github.com/gogpu/strokemesh/internal/geom"

// Scratch holds the ping-pong buffers used by ClipAgainstPlanes. A Scratch
// is owned by one caller and reused across calls; the slice returned by
// ClipAgainstPlanes aliases it and is valid until the next call.
type Scratch struct {
	bufs [2][]geom.Vec2
}

// Clear drops the contents of the buffers and keeps their capacity.
func (s *Scratch) Clear() {
	s.bufs[0] = s.bufs[0][:0]
	s.bufs[1] = s.bufs[1][:0]
}

// ClipAgainstPlane clips the convex polygon pts against the half-plane
// dot(plane, (x, y, 1)) >= 0 and appends the result to dst[:0].
//
// The returned flag is true when every input vertex was inside, in which
// case the output equals the input. An empty polygon yields an empty
// result and false.
func ClipAgainstPlane(plane geom.Vec3, pts, dst []geom.Vec2) ([]geom.Vec2, bool) {
	dst = dst[:0]
	if len(pts) == 0 {
		return dst, false
	}

	unclipped := true
	allClipped := true
	for _, p := range pts {
		if plane.Eval(p) >= 0 {
			allClipped = false
		} else {
			unclipped = false
		}
	}
	if unclipped {
		return append(dst, pts...), true
	}
	if allClipped {
		return dst, false
	}

	n := len(pts)
	for i := range pts {
		cur, next := pts[i], pts[(i+1)%n]
		dc, dn := plane.Eval(cur), plane.Eval(next)
		inCur, inNext := dc >= 0, dn >= 0
		if inCur {
			dst = append(dst, cur)
		}
		if inCur != inNext {
			t := dc / (dc - dn)
			dst = append(dst, cur.Lerp(next, t))
		}
	}
	return dst, false
}

// ClipAgainstPlanes clips pts against every plane in turn. It stops early
// once the polygon is empty. The flag is the AND of the per-plane flags.
func ClipAgainstPlanes(planes []geom.Vec3, pts []geom.Vec2, s *Scratch) ([]geom.Vec2, bool) {
	src := append(s.bufs[0][:0], pts...)
	s.bufs[0] = src
	unclipped := true
	cur := 0
	for _, plane := range planes {
		if len(src) == 0 {
			break
		}
		out, ok := ClipAgainstPlane(plane, src, s.bufs[1-cur])
		s.bufs[1-cur] = out
		unclipped = unclipped && ok
		cur = 1 - cur
		src = out
	}
	if len(src) == 0 {
		return src, false
	}
	return src, unclipped
}
