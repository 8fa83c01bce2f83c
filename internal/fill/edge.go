package fill

import "github.com/gogpu/strokemesh/internal/geom"

// edge is a non-horizontal path segment ordered so that y0 < y1.
type edge struct {
	x0, y0 float64
	x1, y1 float64
	dir    int // +1 when the segment runs towards larger y
}

// newEdge returns the edge from p0 to p1 and false for horizontal
// segments, which never bound a slab.
func newEdge(p0, p1 geom.Vec2) (edge, bool) {
	// direction before the swap, for the winding number
	dir := 1
	if p0.Y > p1.Y {
		dir = -1
		p0, p1 = p1, p0
	}
	if p0.Y == p1.Y {
		return edge{}, false
	}
	return edge{x0: p0.X, y0: p0.Y, x1: p1.X, y1: p1.Y, dir: dir}, true
}

// xAt returns the x coordinate of the edge line at y.
func (e *edge) xAt(y float64) float64 {
	t := (y - e.y0) / (e.y1 - e.y0)
	return e.x0 + (e.x1-e.x0)*t
}

// spans reports whether the edge covers the whole slab [y0, y1].
func (e *edge) spans(y0, y1 float64) bool {
	return e.y0 <= y0 && e.y1 >= y1
}

// crossing returns the y in (y0, y1) where e and o meet.
func (e *edge) crossing(o *edge, y0, y1 float64) (float64, bool) {
	a0, a1 := e.xAt(y0)-o.xAt(y0), e.xAt(y1)-o.xAt(y1)
	if a0 == a1 {
		return 0, false
	}
	t := a0 / (a0 - a1)
	if t <= 0 || t >= 1 {
		return 0, false
	}
	return y0 + t*(y1-y0), true
}
