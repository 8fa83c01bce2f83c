package strokemesh

import (
	"errors"
	"math"
	"testing"
)

// recorder is a Backend keeping every draw of the last frame.
type recorder struct {
	width, height int
	draws         []Draw
	frames        int
}

func (r *recorder) Begin(width, height int) error {
	r.width, r.height = width, height
	r.draws = r.draws[:0]
	return nil
}

func (r *recorder) Draw(d *Draw) error {
	r.draws = append(r.draws, *d)
	return nil
}

func (r *recorder) End() error {
	r.frames++
	return nil
}

func (r *recorder) byShader(s Shader) []Draw {
	var out []Draw
	for _, d := range r.draws {
		if d.Shader == s {
			out = append(out, d)
		}
	}
	return out
}

func (r *recorder) occluders() []Draw {
	var out []Draw
	for _, d := range r.draws {
		if !d.ColorWrite {
			out = append(out, d)
		}
	}
	return out
}

func newTestPainter(t *testing.T, opts ...PainterOption) (*Painter, *recorder) {
	t.Helper()
	r := &recorder{}
	opts = append([]PainterOption{WithBackend(r), WithTargetResolution(200, 200)}, opts...)
	p := NewPainter(opts...)
	if err := p.Begin(); err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	return p, r
}

func mustEnd(t *testing.T, p *Painter) {
	t.Helper()
	if err := p.End(); err != nil {
		t.Fatalf("End() error = %v", err)
	}
}

func cornerPath() *Path {
	p := NewPath()
	p.MoveTo(20, 20)
	p.LineTo(120, 20)
	p.LineTo(120, 120)
	p.LineTo(20, 120)
	return p
}

func trianglePath() *Path {
	p := NewPath()
	p.MoveTo(10, 10)
	p.LineTo(90, 10)
	p.LineTo(10, 90)
	p.Close()
	return p
}

func TestMatrixClassificationNeverDowngrades(t *testing.T) {
	p, _ := newTestPainter(t)
	if got := p.MatrixType(); got != NonScaling {
		t.Fatalf("initial MatrixType() = %v, want NonScaling", got)
	}
	p.Save()

	steps := []struct {
		name string
		op   func()
		want MatrixType
	}{
		{"translate", func() { p.Translate(5, 5) }, NonScaling},
		{"scale", func() { p.Scale(2) }, Scaling},
		{"rotate", func() { p.Rotate(0.5) }, Scaling},
		{"uneven shear", func() { p.Shear(1, 2) }, Shearing},
		{"undo shear", func() { p.Shear(1, 0.5) }, Shearing},
		{"undo scale", func() { p.Scale(0.5) }, Shearing},
	}
	for _, s := range steps {
		s.op()
		if got := p.MatrixType(); got != s.want {
			t.Errorf("after %s: MatrixType() = %v, want %v", s.name, got, s.want)
		}
	}

	if err := p.Restore(); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if got := p.MatrixType(); got != NonScaling {
		t.Errorf("after Restore: MatrixType() = %v, want NonScaling", got)
	}
	p.SetTransform(Scale(3, 3))
	if got := p.MatrixType(); got != Scaling {
		t.Errorf("after SetTransform: MatrixType() = %v, want Scaling", got)
	}
}

func TestRestoreWithoutSave(t *testing.T) {
	p, _ := newTestPainter(t)
	if err := p.Restore(); !errors.Is(err, ErrNoSavedState) {
		t.Errorf("Restore() error = %v, want ErrNoSavedState", err)
	}
}

func TestSaveRestoreState(t *testing.T) {
	p, _ := newTestPainter(t)
	p.SetBrush(Solid(Red))
	p.Save()
	p.Translate(10, 0)
	p.SetBrush(Solid(Blue))
	p.ClipInRect(0, 0, 1, 1)
	p.ClipInRect(5, 5, 1, 1)
	if !p.Culled() {
		t.Fatal("disjoint clip rectangles should cull")
	}
	if err := p.Restore(); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if !p.Transform().IsIdentity() {
		t.Errorf("Transform() = %v, want identity", p.Transform())
	}
	if p.Brush() != Solid(Red) {
		t.Errorf("Brush() = %v, want red", p.Brush())
	}
	if p.Culled() {
		t.Error("Restore should undo culling")
	}
}

func TestClipInRectFollowsTranslateAndScale(t *testing.T) {
	p, r := newTestPainter(t)
	p.ClipInRect(0, 0, 100, 100)
	p.Translate(10, 10)
	p.Scale(0.5)
	// the first rectangle is (-20, -20) to (180, 180) in the new item space
	p.ClipInRect(50, 50, 200, 200)

	want := clipRect{min: V2(50, 50), max: V2(180, 180), enabled: true}
	got := p.state.rect
	if !got.min.Approx(want.min, 1e-9) || !got.max.Approx(want.max, 1e-9) || !got.enabled {
		t.Errorf("clip rect = %+v, want %+v", got, want)
	}
	if p.OccluderDepth() != 0 {
		t.Errorf("OccluderDepth() = %d, want 0", p.OccluderDepth())
	}

	// inside: (100, 100) in item space is pixel (60, 60)
	if err := p.DrawRect(100, 100, 10, 10); err != nil {
		t.Fatal(err)
	}
	// outside the intersection
	if err := p.DrawRect(190, 60, 5, 5); err != nil {
		t.Fatal(err)
	}
	mustEnd(t, p)
	if got := len(r.draws); got != 1 {
		t.Errorf("draws = %d, want 1", got)
	}
}

func TestClipEquationsMatchRect(t *testing.T) {
	p, _ := newTestPainter(t)
	p.Scale(2)
	p.ClipInRect(10, 20, 30, 40)
	eqs := p.clipEqs.Current()
	if len(eqs) != 4 {
		t.Fatalf("len(clip equations) = %d, want 4", len(eqs))
	}
	m := p.clipMatrix()
	tests := []struct {
		pt     Vec2
		inside bool
	}{
		{V2(25, 40), true},
		{V2(10.5, 59.5), true},
		{V2(9, 40), false},
		{V2(25, 61), false},
	}
	for _, tt := range tests {
		c := m.TransformPoint(tt.pt)
		in := true
		for _, e := range eqs {
			if e.Eval(c) < 0 {
				in = false
			}
		}
		if in != tt.inside {
			t.Errorf("point %v inside = %v, want %v", tt.pt, in, tt.inside)
		}
	}
}

func TestTrickyClipDrawsOccluders(t *testing.T) {
	p, r := newTestPainter(t)
	p.ClipInRect(20, 20, 130, 130)
	p.Rotate(0.3)
	p.Save()
	// the rotated rectangle leaves the old clip across x = 20 and y = 20
	p.ClipInRect(10, 10, 50, 50)
	if got := p.OccluderDepth(); got != 1 {
		t.Fatalf("OccluderDepth() = %d, want 1", got)
	}
	for range 3 {
		if err := p.DrawRect(20, 20, 10, 10); err != nil {
			t.Fatal(err)
		}
	}
	zAtPop := p.Z()
	if err := p.Restore(); err != nil {
		t.Fatal(err)
	}
	if p.Z() != zAtPop+1 {
		t.Errorf("Z() after pop = %d, want %d", p.Z(), zAtPop+1)
	}
	mustEnd(t, p)

	occ := r.occluders()
	if len(occ) != 2 {
		t.Fatalf("occluder draws = %d, want 2", len(occ))
	}
	for i, d := range occ {
		if d.Z != zAtPop {
			t.Errorf("occluder %d Z = %d, want %d", i, d.Z, zAtPop)
		}
		if !d.Transform.IsIdentity() || len(d.ClipEquations) != 0 {
			t.Errorf("occluder %d should be drawn in pixels without clipping", i)
		}
	}
	for _, d := range r.byShader(ShaderFill) {
		if d.ColorWrite && d.Z >= zAtPop {
			t.Errorf("clipped draw at Z %d is not below the occluder at %d", d.Z, zAtPop)
		}
	}
}

func TestClipOutPathPatchesDepth(t *testing.T) {
	p, r := newTestPainter(t)
	if err := p.DrawRect(0, 0, 5, 5); err != nil {
		t.Fatal(err)
	}
	p.Save()
	p.ClipOutPath(trianglePath(), NonZero)
	style := DefaultStrokeStyle()
	style.Width = 4
	for range 2 {
		if err := p.StrokePath(cornerPath(), style); err != nil {
			t.Fatal(err)
		}
	}
	zAtPop := p.Z()
	if err := p.Restore(); err != nil {
		t.Fatal(err)
	}
	if err := p.DrawRect(0, 0, 5, 5); err != nil {
		t.Fatal(err)
	}
	mustEnd(t, p)

	occ := r.occluders()
	if len(occ) != 1 {
		t.Fatalf("occluder draws = %d, want 1", len(occ))
	}
	if occ[0].Z != zAtPop {
		t.Errorf("occluder Z = %d, want %d", occ[0].Z, zAtPop)
	}
	last := r.draws[len(r.draws)-1]
	if last.Z <= zAtPop {
		t.Errorf("draw after the pop at Z %d, want above %d", last.Z, zAtPop)
	}
}

func TestClipInPath(t *testing.T) {
	p, r := newTestPainter(t)
	p.ClipInPath(trianglePath(), NonZero)
	mustEnd(t, p)
	occ := r.occluders()
	if len(occ) != 1 {
		t.Fatalf("occluder draws = %d, want 1", len(occ))
	}
	// the complement of the triangle in its bounds
	if n := len(occ[0].Chunks); n != 1 {
		t.Errorf("occluder chunks = %d, want 1", n)
	}
}

// maxIncrement returns the depth range the chunks of d use.
func maxIncrement(d Draw) int {
	z := 0
	for _, c := range d.Chunks {
		z = max(z, c.IncrementZ())
	}
	return z
}

func TestStrokePathDepthLayout(t *testing.T) {
	p, r := newTestPainter(t)
	if err := p.DrawRect(0, 0, 1, 1); err != nil {
		t.Fatal(err)
	}
	start := p.Z()
	style := StrokeStyle{Width: 6, Join: BevelJoins, Cap: SquareCaps, MiterLimit: 4, AntiAlias: true}
	if err := p.StrokePath(cornerPath(), style); err != nil {
		t.Fatalf("StrokePath() error = %v", err)
	}
	end := p.Z()
	mustEnd(t, p)

	solid := r.byShader(ShaderStroke)
	if len(solid) != 3 {
		t.Fatalf("stroke draws = %d, want 3 (caps, joins, edges)", len(solid))
	}
	caps, joins, edges := solid[0], solid[1], solid[2]
	zc, zj, ze := maxIncrement(caps), maxIncrement(joins), maxIncrement(edges)
	if caps.Z != start+1 {
		t.Errorf("caps Z = %d, want %d", caps.Z, start+1)
	}
	if joins.Z != start+zc+1 {
		t.Errorf("joins Z = %d, want %d", joins.Z, start+zc+1)
	}
	if edges.Z != start+zc+zj+1 {
		t.Errorf("edges Z = %d, want %d", edges.Z, start+zc+zj+1)
	}
	if end != start+zc+zj+ze+1 {
		t.Errorf("Z() after stroke = %d, want %d", end, start+zc+zj+ze+1)
	}
	if caps.StrokeRadius != 3 || edges.MiterLimit != 4 {
		t.Errorf("stroke parameters = %v, %v; want 3, 4", caps.StrokeRadius, edges.MiterLimit)
	}

	aa := r.byShader(ShaderStrokeAA)
	if len(aa) != 3 {
		t.Fatalf("anti-alias draws = %d, want 3", len(aa))
	}
	for _, d := range aa {
		if d.Z != start {
			t.Errorf("anti-alias draw Z = %d, want %d", d.Z, start)
		}
	}
}

func TestStrokeArcsUseArcShader(t *testing.T) {
	p, r := newTestPainter(t)
	path := NewPath()
	path.Circle(100, 100, 50)
	style := StrokeStyle{Width: 4, Join: RoundedJoins, Cap: RoundedCaps, Arcs: true}
	if err := p.StrokePath(path, style); err != nil {
		t.Fatal(err)
	}
	mustEnd(t, p)
	if len(r.byShader(ShaderArcStroke)) == 0 {
		t.Error("no arc stroke draws")
	}
	if len(r.byShader(ShaderStroke)) != 0 {
		t.Error("arc stroke should not use the line stroke shader")
	}
}

func TestStrokeOffscreenDrawsNothing(t *testing.T) {
	p, r := newTestPainter(t)
	path := NewPath()
	path.MoveTo(1000, 1000)
	path.LineTo(1100, 1050)
	if err := p.StrokePath(path, DefaultStrokeStyle()); err != nil {
		t.Fatal(err)
	}
	if p.Z() != 0 {
		t.Errorf("Z() = %d, want 0", p.Z())
	}
	mustEnd(t, p)
	if len(r.draws) != 0 {
		t.Errorf("draws = %d, want 0", len(r.draws))
	}
}

func TestStrokeBudgetExceeded(t *testing.T) {
	p, _ := newTestPainter(t, WithAttributeBudget(5, 5))
	err := p.StrokePath(cornerPath(), StrokeStyle{Width: 2, Join: BevelJoins})
	if !errors.Is(err, ErrBudgetExceeded) {
		t.Errorf("StrokePath() error = %v, want ErrBudgetExceeded", err)
	}
}

func TestComputeMagnification(t *testing.T) {
	p, _ := newTestPainter(t)
	box := trianglePath().Bounds()
	if got := p.computeMagnification(box); got != 1 {
		t.Errorf("identity magnification = %v, want 1", got)
	}
	p.Shear(3, 1)
	if got := p.computeMagnification(box); math.Abs(got-3) > 1e-12 {
		t.Errorf("sheared magnification = %v, want 3", got)
	}

	p.SetTransform(Matrix{{1, 0, 0}, {0, 1, 0}, {0, 0, 2}})
	if p.MatrixType() != Perspective {
		t.Fatalf("MatrixType() = %v, want Perspective", p.MatrixType())
	}
	if got := p.computeMagnification(box); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("perspective magnification = %v, want 0.5", got)
	}
}

func TestFillPath(t *testing.T) {
	p, r := newTestPainter(t)
	p.SetBrush(Solid(Green))
	if err := p.FillPath(trianglePath(), EvenOdd); err != nil {
		t.Fatal(err)
	}
	empty := NewPath()
	if err := p.FillPath(empty, NonZero); err != nil {
		t.Fatal(err)
	}
	if p.Z() != 1 {
		t.Errorf("Z() = %d, want 1", p.Z())
	}
	mustEnd(t, p)
	fills := r.byShader(ShaderFill)
	if len(fills) != 1 || fills[0].Brush != Solid(Green) {
		t.Fatalf("fill draws = %+v", fills)
	}
}

// oneSlotAtlas takes a single glyph.
type oneSlotAtlas struct {
	id   uint32
	used bool
}

func (a *oneSlotAtlas) Upload(id uint32, size float64, _ GlyphRenderType) (GlyphLocation, bool) {
	if a.used && a.id != id {
		return GlyphLocation{}, false
	}
	a.id, a.used = id, true
	return GlyphLocation{TexMax: V2(16, 16), Bearing: V2(0, -size), Size: V2(size, size)}, true
}

func TestDrawGlyphs(t *testing.T) {
	p, r := newTestPainter(t)
	p.Scale(4)
	glyphs := []Glyph{
		{ID: 7, Position: V2(5, 20), Advance: 6},
		{ID: 7, Position: V2(11, 20), Advance: 6},
		{ID: 8, Position: V2(17, 20), Advance: 6},
	}
	n, err := p.DrawGlyphs(glyphs, 12, &oneSlotAtlas{})
	if !errors.Is(err, ErrAtlasFull) || n != 2 {
		t.Errorf("DrawGlyphs() = %d, %v; want 2, ErrAtlasFull", n, err)
	}
	mustEnd(t, p)
	draws := r.byShader(ShaderGlyph)
	if len(draws) != 1 {
		t.Fatalf("glyph draws = %d, want 1", len(draws))
	}
	// 12 units at scale 4 are 48 pixels
	if draws[0].GlyphType != GlyphDistanceField {
		t.Errorf("GlyphType = %v, want DistanceField", draws[0].GlyphType)
	}
	if got := len(draws[0].Chunks[0].Attributes); got != 8 {
		t.Errorf("glyph vertices = %d, want 8", got)
	}
}

func TestNotBegun(t *testing.T) {
	p := NewPainter()
	if err := p.End(); !errors.Is(err, ErrNotBegun) {
		t.Errorf("End() error = %v, want ErrNotBegun", err)
	}
	if err := p.DrawRect(0, 0, 1, 1); !errors.Is(err, ErrNotBegun) {
		t.Errorf("DrawRect() error = %v, want ErrNotBegun", err)
	}
	if err := p.StrokePath(cornerPath(), DefaultStrokeStyle()); !errors.Is(err, ErrNotBegun) {
		t.Errorf("StrokePath() error = %v, want ErrNotBegun", err)
	}
}

func TestEndPopsOccluders(t *testing.T) {
	p, r := newTestPainter(t)
	p.ClipOutPath(trianglePath(), NonZero)
	p.ClipOutPath(trianglePath(), EvenOdd)
	mustEnd(t, p)
	occ := r.occluders()
	if len(occ) != 2 {
		t.Fatalf("occluder draws = %d, want 2", len(occ))
	}
	// the inner occluder pops first
	if occ[0].Z != 1 || occ[1].Z != 0 {
		t.Errorf("occluder Z = %d, %d; want 1, 0", occ[0].Z, occ[1].Z)
	}
	if r.frames != 1 {
		t.Errorf("frames = %d, want 1", r.frames)
	}
}
