package geom

// BoundingBox is an axis-aligned box. The zero value is empty; emptiness is
// tracked by a flag rather than a sentinel min/max.
type BoundingBox struct {
	min, max Vec2
	nonEmpty bool
}

// NewBoundingBox returns the box spanning the two corners.
func NewBoundingBox(p, q Vec2) BoundingBox {
	var b BoundingBox
	b.UnionPoint(p)
	b.UnionPoint(q)
	return b
}

// Empty reports whether the box holds no point.
func (b BoundingBox) Empty() bool { return !b.nonEmpty }

// Min returns the minimum corner. Undefined for an empty box.
func (b BoundingBox) Min() Vec2 { return b.min }

// Max returns the maximum corner. Undefined for an empty box.
func (b BoundingBox) Max() Vec2 { return b.max }

// Size returns max - min, or the zero vector when empty.
func (b BoundingBox) Size() Vec2 {
	if !b.nonEmpty {
		return Vec2{}
	}
	return b.max.Sub(b.min)
}

// Center returns the midpoint of the box.
func (b BoundingBox) Center() Vec2 {
	return b.min.Add(b.max).Mul(0.5)
}

// UnionPoint grows the box to contain p and reports whether it grew.
func (b *BoundingBox) UnionPoint(p Vec2) bool {
	if !b.nonEmpty {
		b.nonEmpty = true
		b.min, b.max = p, p
		return true
	}
	grew := false
	if p.X < b.min.X {
		b.min.X = p.X
		grew = true
	}
	if p.Y < b.min.Y {
		b.min.Y = p.Y
		grew = true
	}
	if p.X > b.max.X {
		b.max.X = p.X
		grew = true
	}
	if p.Y > b.max.Y {
		b.max.Y = p.Y
		grew = true
	}
	return grew
}

// UnionBox grows the box to contain o and reports whether it grew.
func (b *BoundingBox) UnionBox(o BoundingBox) bool {
	if !o.nonEmpty {
		return false
	}
	g0 := b.UnionPoint(o.min)
	g1 := b.UnionPoint(o.max)
	return g0 || g1
}

// Intersects reports whether the two boxes overlap; touching counts.
func (b BoundingBox) Intersects(o BoundingBox) bool {
	if !b.nonEmpty || !o.nonEmpty {
		return false
	}
	return b.min.X <= o.max.X && o.min.X <= b.max.X &&
		b.min.Y <= o.max.Y && o.min.Y <= b.max.Y
}

// Contains reports whether p lies inside the closed box.
func (b BoundingBox) Contains(p Vec2) bool {
	return b.nonEmpty &&
		p.X >= b.min.X && p.X <= b.max.X &&
		p.Y >= b.min.Y && p.Y <= b.max.Y
}

// ContainsBox reports whether o lies entirely inside b.
func (b BoundingBox) ContainsBox(o BoundingBox) bool {
	if !o.nonEmpty {
		return true
	}
	return b.Contains(o.min) && b.Contains(o.max)
}

// Intersect shrinks b to its overlap with o. The result is empty when the
// boxes do not overlap.
func (b *BoundingBox) Intersect(o BoundingBox) {
	if !b.Intersects(o) {
		*b = BoundingBox{}
		return
	}
	b.min.X = max(b.min.X, o.min.X)
	b.min.Y = max(b.min.Y, o.min.Y)
	b.max.X = min(b.max.X, o.max.X)
	b.max.Y = min(b.max.Y, o.max.Y)
}

// InflatedPolygon returns the 4 corners of the box grown by rad on every
// side, counter-clockwise starting at the minimum corner.
func (b BoundingBox) InflatedPolygon(rad float64) [4]Vec2 {
	return [4]Vec2{
		{b.min.X - rad, b.min.Y - rad},
		{b.max.X + rad, b.min.Y - rad},
		{b.max.X + rad, b.max.Y + rad},
		{b.min.X - rad, b.max.Y + rad},
	}
}

// Enlarge grows the box by d on every side. No-op when empty.
func (b *BoundingBox) Enlarge(d Vec2) {
	if !b.nonEmpty {
		return
	}
	b.min = b.min.Sub(d)
	b.max = b.max.Add(d)
}

// SplitX bisects the box at its horizontal midpoint.
func (b BoundingBox) SplitX() (left, right BoundingBox) {
	return b.split(0)
}

// SplitY bisects the box at its vertical midpoint.
func (b BoundingBox) SplitY() (bottom, top BoundingBox) {
	return b.split(1)
}

func (b BoundingBox) split(c int) (BoundingBox, BoundingBox) {
	if !b.nonEmpty {
		return BoundingBox{}, BoundingBox{}
	}
	lo, hi := b, b
	if c == 0 {
		mid := 0.5 * (b.min.X + b.max.X)
		lo.max.X = mid
		hi.min.X = mid
	} else {
		mid := 0.5 * (b.min.Y + b.max.Y)
		lo.max.Y = mid
		hi.min.Y = mid
	}
	return lo, hi
}

// Translate moves the box by d. No-op when empty.
func (b *BoundingBox) Translate(d Vec2) {
	if !b.nonEmpty {
		return
	}
	b.min = b.min.Add(d)
	b.max = b.max.Add(d)
}

// ScaleUp multiplies both corners by s componentwise. No-op when empty.
func (b *BoundingBox) ScaleUp(s Vec2) {
	if !b.nonEmpty {
		return
	}
	b.min = Vec2{b.min.X * s.X, b.min.Y * s.Y}
	b.max = Vec2{b.max.X * s.X, b.max.Y * s.Y}
}

// ScaleDown divides both corners by s componentwise. No-op when empty.
func (b *BoundingBox) ScaleDown(s Vec2) {
	if !b.nonEmpty {
		return
	}
	b.min = Vec2{b.min.X / s.X, b.min.Y / s.Y}
	b.max = Vec2{b.max.X / s.X, b.max.Y / s.Y}
}
