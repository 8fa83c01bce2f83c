package strokemesh

import (
	"fmt"
	"math"

	"github.com/gogpu/strokemesh/internal/clip"
	"github.com/gogpu/strokemesh/internal/geom"
	"github.com/gogpu/strokemesh/internal/stroke"
)

// clipRect is an axis-aligned clip rectangle in item coordinates.
type clipRect struct {
	min, max Vec2
	enabled  bool
}

// painterState is the part of the painter state that Save and Restore
// bundle.
type painterState struct {
	transform  Matrix
	matrixType MatrixType
	// tricky is set once the transform changed by something that does not
	// map axis-aligned rectangles to axis-aligned rectangles since rect
	// was last expressed in item coordinates.
	tricky bool
	rect   clipRect
	// culled is set when the clip region is empty; every draw is skipped.
	culled bool

	brush Brush
	blend BlendMode

	// occluders is the occluder stack height at Save.
	occluders int
}

// Painter records draws of paths and glyphs for one render target. It
// keeps the transform and clip state, selects the visible chunks of each
// draw and assigns the depth values that order the draws of a frame.
//
// Draws are staged between Begin and End and handed to the Backend at
// End, once the depth values of every occluder are known.
//
// A Painter is not safe for concurrent use.
type Painter struct {
	opts    painterOptions
	backend Backend

	state     painterState
	saved     []painterState
	clipEqs   *clip.EquationStack
	occluders []occluder

	// staged draws of the current frame
	draws []Draw
	z     int
	begun bool

	scratch     stroke.Scratch
	chunkSet    stroke.ChunkSet
	planes      []geom.Vec3
	clipScratch clip.Scratch
}

// NewPainter creates a painter. Without WithBackend, draws are discarded.
func NewPainter(opts ...PainterOption) *Painter {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	b := o.backend
	if b == nil {
		b = discardBackend{}
	}
	propagateLogger(b)

	p := &Painter{
		opts:    o,
		backend: b,
		clipEqs: clip.NewEquationStack(nil),
	}
	p.reset()
	return p
}

func (p *Painter) reset() {
	p.state = painterState{
		transform: Identity(),
		brush:     Solid(Black),
	}
	p.saved = p.saved[:0]
	p.clipEqs.Reset(nil)
	p.occluders = p.occluders[:0]
	for i := range p.draws {
		p.draws[i] = Draw{}
	}
	p.draws = p.draws[:0]
	p.z = 0
}

// TargetResolution returns the size of the render target in pixels.
func (p *Painter) TargetResolution() (width, height int) {
	return p.opts.width, p.opts.height
}

// SetTargetResolution changes the size of the render target. It takes
// effect at the next Begin.
func (p *Painter) SetTargetResolution(width, height int) {
	if width > 0 && height > 0 {
		p.opts.width, p.opts.height = width, height
	}
}

// Begin starts a frame: the state is reset to the identity transform with
// no clipping and the depth counter to zero.
func (p *Painter) Begin() error {
	p.reset()
	if err := p.backend.Begin(p.opts.width, p.opts.height); err != nil {
		p.begun = false
		return fmt.Errorf("strokemesh: begin frame: %w", err)
	}
	p.begun = true
	Logger().Debug("strokemesh: begin frame", "width", p.opts.width, "height", p.opts.height)
	return nil
}

// End finishes a frame. Open occluders are popped, then every staged draw
// is handed to the backend in submission order. The first backend error is
// returned; later draws are still submitted.
func (p *Painter) End() error {
	if !p.begun {
		return ErrNotBegun
	}
	p.begun = false
	for len(p.occluders) > 0 {
		p.popOccluder()
	}

	var first error
	for i := range p.draws {
		if err := p.backend.Draw(&p.draws[i]); err != nil && first == nil {
			first = fmt.Errorf("strokemesh: draw %d: %w", i, err)
		}
	}
	Logger().Debug("strokemesh: end frame", "draws", len(p.draws), "depth", p.z)
	if err := p.backend.End(); err != nil && first == nil {
		first = fmt.Errorf("strokemesh: end frame: %w", err)
	}
	p.reset()
	return first
}

// Z returns the depth counter: the depth the next draw receives.
func (p *Painter) Z() int { return p.z }

// Save pushes the transform, clip, brush and blend mode.
func (p *Painter) Save() {
	p.state.occluders = len(p.occluders)
	p.saved = append(p.saved, p.state)
	p.clipEqs.Push()
}

// Restore pops the state pushed by the matching Save. Occluders opened
// since then are popped, which fixes their depth values. It returns
// ErrNoSavedState without a matching Save.
func (p *Painter) Restore() error {
	if len(p.saved) == 0 {
		return ErrNoSavedState
	}
	last := len(p.saved) - 1
	s := p.saved[last]
	p.saved = p.saved[:last]

	for len(p.occluders) > s.occluders {
		p.popOccluder()
	}
	p.clipEqs.Pop()
	p.state = s
	p.state.matrixType = s.transform.Classify()
	return nil
}

// SetBrush sets the brush of later draws.
func (p *Painter) SetBrush(b Brush) { p.state.brush = b }

// Brush returns the current brush.
func (p *Painter) Brush() Brush { return p.state.brush }

// SetBlendMode sets the blend mode of later draws.
func (p *Painter) SetBlendMode(b BlendMode) { p.state.blend = b }

// Transform returns the transform from item coordinates to pixels.
func (p *Painter) Transform() Matrix { return p.state.transform }

// MatrixType returns the classification of the transform. Each matrix
// operation raises it to at least the type of the operation; it is
// recomputed from the matrix only by SetTransform and Restore, so it may
// overstate the transform after operations that cancel out.
func (p *Painter) MatrixType() MatrixType { return p.state.matrixType }

// SetTransform replaces the transform.
func (p *Painter) SetTransform(m Matrix) {
	p.state.transform = m
	p.state.matrixType = m.Classify()
	p.state.tricky = true
}

// Concat applies m before the current transform.
func (p *Painter) Concat(m Matrix) {
	p.concat(m, m.Classify(), !m.PreservesAxes())
}

// Translate moves the item origin to (x, y).
func (p *Painter) Translate(x, y float64) {
	p.concat(Translate(x, y), NonScaling, false)
}

// Scale scales item coordinates uniformly by s.
func (p *Painter) Scale(s float64) {
	p.concat(Scale(s, s), Scaling, false)
}

// Shear scales item coordinates by sx along x and sy along y.
func (p *Painter) Shear(sx, sy float64) {
	t := Shearing
	if math.Abs(sx) == math.Abs(sy) {
		t = Scaling
	}
	p.concat(Scale(sx, sy), t, false)
}

// Rotate rotates item coordinates by angle radians.
func (p *Painter) Rotate(angle float64) {
	p.concat(Rotate(angle), NonScaling, true)
}

func (p *Painter) concat(m Matrix, t MatrixType, tricky bool) {
	st := &p.state
	st.transform = st.transform.Multiply(m)
	st.matrixType = max(st.matrixType, t)

	if tricky || st.tricky || !st.rect.enabled {
		st.tricky = st.tricky || tricky
		return
	}
	// keep the clip rectangle in the new item coordinates
	inv, ok := m.Invert()
	if !ok {
		st.tricky = true
		return
	}
	a, b := inv.TransformPoint(st.rect.min), inv.TransformPoint(st.rect.max)
	st.rect.min = V2(min(a.X, b.X), min(a.Y, b.Y))
	st.rect.max = V2(max(a.X, b.X), max(a.Y, b.Y))
}

// projection maps pixels to clip coordinates.
func (p *Painter) projection() Matrix {
	w, h := float64(p.opts.width), float64(p.opts.height)
	return Matrix{{2 / w, 0, -1}, {0, 2 / h, -1}, {0, 0, 1}}
}

// clipMatrix maps item coordinates to clip coordinates.
func (p *Painter) clipMatrix() Matrix {
	return p.projection().Multiply(p.state.transform)
}

// clipToPixel maps clip coordinates to pixels.
func (p *Painter) clipToPixel(c Vec2) Vec2 {
	return V2((c.X+1)*float64(p.opts.width)/2, (c.Y+1)*float64(p.opts.height)/2)
}

// screenPlanes bound the render target in clip coordinates.
var screenPlanes = [4]geom.Vec3{
	{X: 1, Y: 0, Z: 1},
	{X: -1, Y: 0, Z: 1},
	{X: 0, Y: 1, Z: 1},
	{X: 0, Y: -1, Z: 1},
}

// clipPlanes returns the active clip equations followed by the target
// edges. The slice is reused by the next call.
func (p *Painter) clipPlanes() []geom.Vec3 {
	p.planes = append(p.planes[:0], p.clipEqs.Current()...)
	p.planes = append(p.planes, screenPlanes[:]...)
	return p.planes
}

// localPlanes returns the clip planes in item coordinates. Under a
// perspective transform the plane w > 0 is added.
func (p *Painter) localPlanes() []geom.Vec3 {
	m := p.clipMatrix().mat3()
	planes := p.clipPlanes()
	for i, pl := range planes {
		planes[i] = m.PullbackPlane(pl)
	}
	if p.state.matrixType == Perspective {
		planes = append(planes, geom.V3(m[2][0], m[2][1], m[2][2]-minPerspectiveW))
	}
	p.planes = planes
	return planes
}

// minPerspectiveW is the smallest homogeneous w considered in front of
// the viewer.
const minPerspectiveW = 1e-6

// selectParams returns the culling parameters of the current state.
func (p *Painter) selectParams(includeClosing bool) stroke.SelectParams {
	return stroke.SelectParams{
		ClipEquations:   p.clipPlanes(),
		ClipMatrix:      p.clipMatrix().mat3(),
		RecipResolution: V2(2/float64(p.opts.width), 2/float64(p.opts.height)),
		PixelSlack:      p.opts.pixelSlack,
		MaxAttributes:   p.opts.maxAttributes,
		MaxIndices:      p.opts.maxIndices,
		IncludeClosing:  includeClosing,
	}
}

// clippedBox clips box, grown by slack item units, against the clip
// region. The result is only valid until the next call.
func (p *Painter) clippedBox(box geom.BoundingBox, slack float64) []Vec2 {
	if box.Empty() {
		return nil
	}
	corners := box.InflatedPolygon(slack)
	pts, _ := clip.ClipAgainstPlanes(p.localPlanes(), corners[:], &p.clipScratch)
	return pts
}

// visible reports whether any of box, grown by slack, may be visible.
func (p *Painter) visible(box geom.BoundingBox, slack float64) bool {
	if p.state.culled {
		return false
	}
	return len(p.clippedBox(box, slack)) > 0
}

// computeMagnification returns how many pixels one item unit covers
// around box. Under perspective the largest scale is divided by the
// smallest w of the visible part of box, since distances shrink with w.
// It returns 0 when nothing of box is visible.
func (p *Painter) computeMagnification(box geom.BoundingBox) float64 {
	s0 := p.state.transform.OperatorNorm()
	if p.state.matrixType != Perspective {
		return s0
	}
	pts := p.clippedBox(box, 0)
	if len(pts) == 0 {
		return 0
	}
	m := p.state.transform
	minW := math.Inf(1)
	for _, q := range pts {
		minW = min(minW, m[2][0]*q.X+m[2][1]*q.Y+m[2][2])
	}
	return s0 / max(minW, minPerspectiveW)
}

// stage appends d to the draws of the frame and returns its index.
func (p *Painter) stage(d Draw) int {
	p.draws = append(p.draws, d)
	return len(p.draws) - 1
}

// newDraw returns a draw with the current state filled in.
func (p *Painter) newDraw(s Shader, chunks []Chunk) Draw {
	return Draw{
		Shader:        s,
		Chunks:        chunks,
		Transform:     p.state.transform,
		ClipEquations: p.clipEqs.Current(),
		Z:             p.z,
		Brush:         p.state.brush,
		Blend:         p.state.blend,
		ColorWrite:    true,
	}
}
