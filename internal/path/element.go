// Package path turns path outlines into the line and arc segments consumed by
// the stroking core, carrying the arc-length bookkeeping every stroked
// primitive needs.
package path

import "github.com/gogpu/strokemesh/internal/geom"

// Element is one command of a path outline.
type Element interface {
	isElement()
}

// MoveTo starts a new contour.
type MoveTo struct{ Point geom.Vec2 }

func (MoveTo) isElement() {}

// LineTo adds a line edge.
type LineTo struct{ Point geom.Vec2 }

func (LineTo) isElement() {}

// QuadTo adds a quadratic Bezier edge.
type QuadTo struct{ Control, Point geom.Vec2 }

func (QuadTo) isElement() {}

// CubicTo adds a cubic Bezier edge.
type CubicTo struct{ Control1, Control2, Point geom.Vec2 }

func (CubicTo) isElement() {}

// ArcTo adds a circular arc edge ending at Point that sweeps Angle radians,
// counter-clockwise when Angle is positive.
type ArcTo struct {
	Point geom.Vec2
	Angle float64
}

func (ArcTo) isElement() {}

// Close ends the current contour.
type Close struct{}

func (Close) isElement() {}

// Path records path elements. The zero value is an empty path.
type Path struct {
	elements []Element
	bounds   geom.BoundingBox
	open     bool
	start    geom.Vec2
	version  uint64
}

// MoveTo starts a new contour at (x, y).
func (p *Path) MoveTo(x, y float64) {
	pt := geom.V2(x, y)
	p.add(MoveTo{Point: pt}, pt)
	p.open = true
	p.start = pt
}

// LineTo adds a line to (x, y). Without a current contour it acts as MoveTo.
func (p *Path) LineTo(x, y float64) {
	if !p.ensureContour(x, y) {
		return
	}
	pt := geom.V2(x, y)
	p.add(LineTo{Point: pt}, pt)
}

// QuadTo adds a quadratic Bezier through control (cx, cy) to (x, y).
func (p *Path) QuadTo(cx, cy, x, y float64) {
	p.ensureContour(cx, cy)
	c, pt := geom.V2(cx, cy), geom.V2(x, y)
	p.bounds.UnionPoint(c)
	p.add(QuadTo{Control: c, Point: pt}, pt)
}

// CubicTo adds a cubic Bezier through the two control points to (x, y).
func (p *Path) CubicTo(c1x, c1y, c2x, c2y, x, y float64) {
	p.ensureContour(c1x, c1y)
	c1, c2, pt := geom.V2(c1x, c1y), geom.V2(c2x, c2y), geom.V2(x, y)
	p.bounds.UnionPoint(c1)
	p.bounds.UnionPoint(c2)
	p.add(CubicTo{Control1: c1, Control2: c2, Point: pt}, pt)
}

// ArcTo adds an arc to (x, y) sweeping angle radians.
func (p *Path) ArcTo(x, y, angle float64) {
	if !p.ensureContour(x, y) {
		return
	}
	pt := geom.V2(x, y)
	p.add(ArcTo{Point: pt, Angle: angle}, pt)
	if angle != 0 {
		// the arc may bulge past its end points
		if a, ok := arcFromChord(p.lastPoint(1), pt, angle); ok {
			p.bounds.UnionBox(a.Bounds())
		}
	}
}

// Close ends the current contour.
func (p *Path) Close() {
	if !p.open {
		return
	}
	p.elements = append(p.elements, Close{})
	p.open = false
	p.version++
}

// Elements returns the recorded elements.
func (p *Path) Elements() []Element {
	return p.elements
}

// Bounds returns a box containing the path, control points included.
func (p *Path) Bounds() geom.BoundingBox {
	return p.bounds
}

// Empty reports whether the path has no elements.
func (p *Path) Empty() bool {
	return len(p.elements) == 0
}

// Version changes every time the path is modified.
func (p *Path) Version() uint64 {
	return p.version
}

// Reset clears the path, keeping allocated storage.
func (p *Path) Reset() {
	p.elements = p.elements[:0]
	p.bounds = geom.BoundingBox{}
	p.open = false
	p.version++
}

func (p *Path) ensureContour(x, y float64) bool {
	if p.open {
		return true
	}
	p.MoveTo(x, y)
	return false
}

func (p *Path) add(e Element, pt geom.Vec2) {
	p.elements = append(p.elements, e)
	p.bounds.UnionPoint(pt)
	p.version++
}

// lastPoint returns the end point of the element skip positions from the
// end, or the contour start.
func (p *Path) lastPoint(skip int) geom.Vec2 {
	i := len(p.elements) - 1 - skip
	if i < 0 {
		return p.start
	}
	return endPoint(p.elements[i], p.start)
}

func endPoint(e Element, start geom.Vec2) geom.Vec2 {
	switch e := e.(type) {
	case MoveTo:
		return e.Point
	case LineTo:
		return e.Point
	case QuadTo:
		return e.Point
	case CubicTo:
		return e.Point
	case ArcTo:
		return e.Point
	}
	return start
}
