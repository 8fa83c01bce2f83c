package strokemesh

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/gogpu/strokemesh/internal/cache"
	"github.com/gogpu/strokemesh/internal/fill"
	"github.com/gogpu/strokemesh/internal/geom"
	"github.com/gogpu/strokemesh/internal/path"
	"github.com/gogpu/strokemesh/internal/stroke"
)

// maxCachedLevels bounds the tessellations a Path keeps.
const maxCachedLevels = 8

// Path is a vector path together with the geometry derived from it. The
// geometry is built on first use at the detail a draw needs and reused by
// later draws at the same or coarser detail.
//
// The zero value is an empty path. A Path may be drawn from several
// goroutines, but must not be modified while it is.
type Path struct {
	p      path.Path
	levels *cache.Cache[levelKey, *pathLevel]
	// version of the path the cached levels were built from
	built atomic.Uint64
	init  sync.Once
}

type levelKey struct {
	version uint64
	// the tessellation threshold is 2^level
	level int
	arcs  bool
}

// pathLevel is the geometry of one tessellation.
type pathLevel struct {
	tp      *path.TessellatedPath
	stroked func() *stroke.StrokedPath
	filled  func() *fill.FilledPath
}

// NewPath creates an empty path.
func NewPath() *Path {
	return &Path{}
}

func (p *Path) cache() *cache.Cache[levelKey, *pathLevel] {
	p.init.Do(func() {
		p.levels = cache.New[levelKey, *pathLevel](maxCachedLevels)
	})
	return p.levels
}

// MoveTo starts a new contour at (x, y).
func (p *Path) MoveTo(x, y float64) { p.p.MoveTo(x, y) }

// LineTo adds a line to (x, y).
func (p *Path) LineTo(x, y float64) { p.p.LineTo(x, y) }

// QuadTo adds a quadratic Bezier curve.
func (p *Path) QuadTo(cx, cy, x, y float64) { p.p.QuadTo(cx, cy, x, y) }

// CubicTo adds a cubic Bezier curve.
func (p *Path) CubicTo(c1x, c1y, c2x, c2y, x, y float64) { p.p.CubicTo(c1x, c1y, c2x, c2y, x, y) }

// ArcTo adds a circular arc to (x, y) sweeping angle radians;
// positive angles turn counterclockwise.
func (p *Path) ArcTo(x, y, angle float64) { p.p.ArcTo(x, y, angle) }

// Close closes the current contour.
func (p *Path) Close() { p.p.Close() }

// Rectangle adds a closed rectangle contour.
func (p *Path) Rectangle(x, y, w, h float64) {
	p.MoveTo(x, y)
	p.LineTo(x+w, y)
	p.LineTo(x+w, y+h)
	p.LineTo(x, y+h)
	p.Close()
}

// Circle adds a closed circle made of two arcs.
func (p *Path) Circle(cx, cy, r float64) {
	p.MoveTo(cx+r, cy)
	p.ArcTo(cx-r, cy, math.Pi)
	p.ArcTo(cx+r, cy, math.Pi)
	p.Close()
}

// Reset clears the path and drops its geometry.
func (p *Path) Reset() {
	p.p.Reset()
	p.cache().Clear()
}

// Empty reports whether the path has no elements.
func (p *Path) Empty() bool { return p.p.Empty() }

// Bounds returns a box containing the path and its control points.
func (p *Path) Bounds() geom.BoundingBox { return p.p.Bounds() }

// thresholdLevel returns the level whose threshold 2^level is the largest
// power of two not above t.
func thresholdLevel(t float64) int {
	return int(math.Floor(math.Log2(t)))
}

// level returns the geometry tessellated at most threshold away from the
// curves.
func (p *Path) level(threshold float64, arcs bool) *pathLevel {
	if threshold <= 0 || math.IsInf(threshold, 0) || math.IsNaN(threshold) {
		threshold = DefaultCurveFlatness
	}
	key := levelKey{version: p.p.Version(), level: thresholdLevel(threshold), arcs: arcs}
	if p.built.Swap(key.version) != key.version {
		p.cache().DeleteFunc(func(k levelKey) bool { return k.version != key.version })
	}
	return p.cache().GetOrCreate(key, func() *pathLevel {
		tp := path.Tessellate(p.p.Elements(), path.Options{
			Threshold: math.Ldexp(1, key.level),
			Arcs:      arcs,
		})
		return &pathLevel{
			tp:      tp,
			stroked: sync.OnceValue(func() *stroke.StrokedPath { return stroke.NewStrokedPath(tp) }),
			filled:  sync.OnceValue(func() *fill.FilledPath { return fill.NewFilledPath(tp) }),
		}
	})
}
