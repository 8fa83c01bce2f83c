package fill

import (
	"slices"

	"github.com/gogpu/strokemesh/internal/geom"
)

// minSlabHeight stops slab splitting at edge crossings that are closer
// together than floating point can separate.
const minSlabHeight = 1e-9

// Trapezoid is a cell of the decomposition: the region between two edges
// within one horizontal slab, all of it at one winding number.
type Trapezoid struct {
	// Corners run (left, top), (right, top), (right, bottom),
	// (left, bottom) with top at the smaller y.
	Corners [4]geom.Vec2
	Winding int
}

// decomposer cuts the region of a set of edges into trapezoids.
type decomposer struct {
	edges  []edge
	minX   float64
	maxX   float64
	active []int
	out    []Trapezoid
}

// decompose splits bounds into horizontal slabs at every edge end point and
// every edge crossing, and each slab into cells between consecutive edges.
// The cells outside all edges but inside bounds get winding zero.
func decompose(edges []edge, bounds geom.BoundingBox) []Trapezoid {
	if bounds.Empty() {
		return nil
	}
	d := decomposer{edges: edges, minX: bounds.Min().X, maxX: bounds.Max().X}

	ys := make([]float64, 0, 2*len(edges)+2)
	ys = append(ys, bounds.Min().Y, bounds.Max().Y)
	for i := range edges {
		ys = append(ys, edges[i].y0, edges[i].y1)
	}
	slices.Sort(ys)
	ys = slices.Compact(ys)
	for i := 0; i+1 < len(ys); i++ {
		d.slab(ys[i], ys[i+1])
	}
	return d.out
}

func (d *decomposer) slab(y0, y1 float64) {
	d.active = d.active[:0]
	for i := range d.edges {
		if d.edges[i].spans(y0, y1) {
			d.active = append(d.active, i)
		}
	}
	mid := 0.5 * (y0 + y1)
	slices.SortFunc(d.active, func(a, b int) int {
		xa, xb := d.edges[a].xAt(mid), d.edges[b].xAt(mid)
		switch {
		case xa < xb:
			return -1
		case xa > xb:
			return 1
		}
		return 0
	})

	// two edges crossing inside the slab swap places; cut the slab there
	if y1-y0 > minSlabHeight {
		for i := 0; i+1 < len(d.active); i++ {
			a, b := &d.edges[d.active[i]], &d.edges[d.active[i+1]]
			if yc, ok := a.crossing(b, y0, y1); ok && yc-y0 > minSlabHeight && y1-yc > minSlabHeight {
				d.slab(y0, yc)
				d.slab(yc, y1)
				return
			}
		}
	}

	left := func(y float64) float64 { return d.minX }
	winding := 0
	for _, i := range d.active {
		e := &d.edges[i]
		d.emit(y0, y1, left, e.xAt, winding)
		left = e.xAt
		winding += e.dir
	}
	d.emit(y0, y1, left, func(float64) float64 { return d.maxX }, winding)
}

func (d *decomposer) emit(y0, y1 float64, left, right func(float64) float64, winding int) {
	l0, r0 := left(y0), right(y0)
	l1, r1 := left(y1), right(y1)
	if r0-l0 <= 0 && r1-l1 <= 0 {
		return
	}
	d.out = append(d.out, Trapezoid{
		Corners: [4]geom.Vec2{
			geom.V2(l0, y0), geom.V2(r0, y0),
			geom.V2(r1, y1), geom.V2(l1, y1),
		},
		Winding: winding,
	})
}
