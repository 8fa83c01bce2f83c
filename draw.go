package strokemesh

import (
	"errors"

	"github.com/gogpu/strokemesh/internal/attrib"
	"github.com/gogpu/strokemesh/internal/geom"
	"github.com/gogpu/strokemesh/internal/glyph"
	"github.com/gogpu/strokemesh/internal/stroke"
)

// StrokeStyle describes how StrokePath draws a path.
type StrokeStyle struct {
	// Width is the stroke width in item units.
	Width float64
	Join  JoinStyle
	Cap   CapStyle
	// MiterLimit bounds miter joins, as a multiple of half the width.
	// Below 1 miters are unbounded and their joins are never culled.
	MiterLimit float64
	// Arcs draws arcs of the path exactly instead of flattening them;
	// rounded joins and caps are then drawn as arcs too.
	Arcs bool
	// AntiAlias adds a second pass drawing the anti-aliased fringe.
	AntiAlias bool
	// CloseContours strokes open contours as if they were closed. Contours
	// ended with Close are always stroked closed.
	CloseContours bool
}

// DefaultStrokeStyle returns a one unit wide stroke with miter joins
// clipped at 4 and flat caps.
func DefaultStrokeStyle() StrokeStyle {
	return StrokeStyle{
		Width:      1,
		Join:       MiterClipJoins,
		Cap:        FlatCaps,
		MiterLimit: 4,
		AntiAlias:  true,
	}
}

// StrokePath draws the stroke of path.
//
// Caps, joins and edges are drawn from the chunks visible in the clip
// region, each kind in a depth range of its own: caps lowest, then joins,
// then edges, so that where they overlap the edges win. Within a kind,
// earlier primitives have larger depths. The anti-aliasing pass draws at
// the depth the stroke started at.
//
// ErrBudgetExceeded is returned when a primitive did not fit the attribute
// budget; the rest of the stroke is drawn.
func (p *Painter) StrokePath(path *Path, style StrokeStyle) error {
	if !p.begun {
		return ErrNotBegun
	}
	radius := style.Width / 2
	if p.state.culled || path.Empty() || radius <= 0 {
		return nil
	}
	joinSlack := radius
	unboundedMiters := style.Join.IsMiter() && style.MiterLimit < 1
	if style.Join.IsMiter() {
		joinSlack = radius * max(style.MiterLimit, 1)
	}
	if !unboundedMiters && !p.visible(path.Bounds(), joinSlack) {
		return nil
	}
	mag := p.computeMagnification(path.Bounds())
	if mag <= 0 {
		return nil
	}

	lvl := path.level(p.opts.curveFlatness/mag, style.Arcs)
	sp := lvl.stroked()

	join, capStyle, edgeStyle := style.Join, style.Cap, stroke.LineEdges
	if style.Arcs {
		edgeStyle = stroke.ArcEdges
		if join == RoundedJoins {
			join = ArcRoundedJoins
		}
		if capStyle == RoundedCaps {
			capStyle = ArcRoundedCaps
		}
	}
	roundThresh := p.opts.curveFlatness / (radius * mag)
	sel := stroke.Selection{
		Edges:        sp.EdgeData(edgeStyle),
		Joins:        sp.JoinData(join, roundThresh),
		Caps:         sp.CapData(capStyle, roundThresh),
		EdgeSlack:    radius,
		JoinSlack:    joinSlack,
		JoinsOutside: unboundedMiters,
	}
	params := p.selectParams(style.CloseContours)
	err := sp.ComputeChunks(&p.scratch, &params, &sel, &p.chunkSet)
	if errors.Is(err, stroke.ErrBudgetExceeded) {
		Logger().Warn("strokemesh: stroke chunk over budget",
			"maxAttributes", p.opts.maxAttributes, "maxIndices", p.opts.maxIndices)
	}

	caps, zc := collectChunks(sel.Caps, p.chunkSet.Caps)
	joins, zj := collectChunks(sel.Joins, p.chunkSet.Joins)
	edges, ze := collectChunks(sel.Edges, p.chunkSet.Edges)
	Logger().Debug("strokemesh: stroke chunks",
		"edges", len(edges), "joins", len(joins), "caps", len(caps), "magnification", mag)

	edgeShader := strokeShader(edgeStyle == stroke.ArcEdges)
	joinShader := strokeShader(join == ArcRoundedJoins)
	capShader := strokeShader(capStyle == ArcRoundedCaps)

	startZ := p.z
	p.stageStroke(capShader, caps, startZ+1, radius, style.MiterLimit)
	p.stageStroke(joinShader, joins, startZ+zc+1, radius, style.MiterLimit)
	p.stageStroke(edgeShader, edges, startZ+zc+zj+1, radius, style.MiterLimit)
	if style.AntiAlias {
		p.stageStroke(aaShader(capShader), caps, startZ, radius, style.MiterLimit)
		p.stageStroke(aaShader(joinShader), joins, startZ, radius, style.MiterLimit)
		p.stageStroke(aaShader(edgeShader), edges, startZ, radius, style.MiterLimit)
	}
	p.z = startZ + zc + zj + ze + 1
	return err
}

func strokeShader(arc bool) Shader {
	if arc {
		return ShaderArcStroke
	}
	return ShaderStroke
}

func aaShader(s Shader) Shader {
	if s == ShaderArcStroke {
		return ShaderArcStrokeAA
	}
	return ShaderStrokeAA
}

// collectChunks returns the non-empty chunks ids of d and the depth range
// they need.
func collectChunks(d *attrib.Data, ids []int) ([]Chunk, int) {
	if d == nil || len(ids) == 0 {
		return nil, 0
	}
	out := make([]Chunk, 0, len(ids))
	z := 0
	for _, id := range ids {
		c := d.Chunk(id)
		if c.Empty() {
			continue
		}
		out = append(out, c)
		z = max(z, c.IncrementZ())
	}
	return out, z
}

func (p *Painter) stageStroke(s Shader, chunks []Chunk, z int, radius, miterLimit float64) {
	if len(chunks) == 0 {
		return
	}
	d := p.newDraw(s, chunks)
	d.Z = z
	d.StrokeRadius = radius
	d.MiterLimit = miterLimit
	p.stage(d)
}

// fillDraw builds the draw filling path under rule at the current depth.
func (p *Painter) fillDraw(path *Path, rule FillRule) (Draw, bool) {
	if !p.visible(path.Bounds(), 0) {
		return Draw{}, false
	}
	mag := p.computeMagnification(path.Bounds())
	if mag <= 0 {
		return Draw{}, false
	}
	fp := path.level(p.opts.curveFlatness/mag, false).filled()
	data := fp.Data()
	var chunks []Chunk
	for _, id := range fp.Select(rule, nil) {
		if c := data.Chunk(id); !c.Empty() {
			chunks = append(chunks, c)
		}
	}
	if len(chunks) == 0 {
		return Draw{}, false
	}
	return p.newDraw(ShaderFill, chunks), true
}

// FillPath fills path under rule with the current brush.
func (p *Painter) FillPath(path *Path, rule FillRule) error {
	if !p.begun {
		return ErrNotBegun
	}
	if p.state.culled || path.Empty() {
		return nil
	}
	if d, ok := p.fillDraw(path, rule); ok {
		p.stage(d)
		p.z++
	}
	return nil
}

// DrawQuad fills the convex quadrilateral with corners p0, p1, p2, p3.
func (p *Painter) DrawQuad(p0, p1, p2, p3 Vec2) error {
	if !p.begun {
		return ErrNotBegun
	}
	pts := []Vec2{p0, p1, p2, p3}
	var box geom.BoundingBox
	for _, q := range pts {
		box.UnionPoint(q)
	}
	if !p.visible(box, 0) {
		return nil
	}
	data := attrib.New(&polygonFiller{pts: pts})
	p.stage(p.newDraw(ShaderFill, []Chunk{data.Chunk(0)}))
	p.z++
	return nil
}

// DrawRect fills the rectangle at (x, y) of size w by h.
func (p *Painter) DrawRect(x, y, w, h float64) error {
	return p.DrawQuad(V2(x, y), V2(x+w, y), V2(x+w, y+h), V2(x, y+h))
}

// DrawGlyphs draws glyphs size pixels tall, in item coordinates, from
// atlas. The glyph encoding is chosen from the size the glyphs take on
// the target. When the atlas fills up, the glyphs before the first one
// that could not be uploaded are drawn and ErrAtlasFull is returned with
// that glyph's index; otherwise the index is len(glyphs).
func (p *Painter) DrawGlyphs(glyphs []Glyph, size float64, atlas GlyphAtlas) (int, error) {
	if !p.begun {
		return 0, ErrNotBegun
	}
	if len(glyphs) == 0 || p.state.culled || size <= 0 {
		return len(glyphs), nil
	}
	var box geom.BoundingBox
	for _, g := range glyphs {
		box.UnionPoint(g.Position.Add(V2(-size, -size)))
		box.UnionPoint(g.Position.Add(V2(g.Advance+size, size)))
	}
	if !p.visible(box, 0) {
		return len(glyphs), nil
	}
	mag := p.computeMagnification(box)
	t := glyph.SelectRenderType(size*mag, p.opts.coverageMax, p.opts.distanceMax)

	data, n, err := glyph.Pack(glyphs, atlas, size, t)
	if c := data.Chunk(0); !c.Empty() {
		d := p.newDraw(ShaderGlyph, []Chunk{c})
		d.GlyphType = t
		p.stage(d)
		p.z++
	}
	if err != nil {
		Logger().Warn("strokemesh: glyph atlas full", "drawn", n, "glyphs", len(glyphs))
	}
	return n, err
}

// DrawText shapes text in the Go Regular font and draws it with its
// baseline starting at (x, y). The results are those of DrawGlyphs.
func (p *Painter) DrawText(text string, size, x, y float64, atlas GlyphAtlas) (int, error) {
	s, err := glyph.Default()
	if err != nil {
		return 0, err
	}
	return p.DrawGlyphs(s.Shape(text, size, V2(x, y)), size, atlas)
}

// polygonFiller writes a convex polygon as one triangle fan chunk.
type polygonFiller struct {
	pts []Vec2
}

func (f *polygonFiller) ComputeSizes() attrib.Sizes {
	n := len(f.pts)
	return attrib.Sizes{Attributes: n, Indices: 3 * max(n-2, 0), Chunks: 1}
}

func (f *polygonFiller) FillData(attrs []attrib.Attribute, indices []uint32, chunks []attrib.Chunk) {
	for i, q := range f.pts {
		attrs[i] = attrib.Attribute{Attrib0: attrib.PackVec4(q.X, q.Y, 0, 0)}
	}
	attrib.AddTriangleFan(0, uint32(len(f.pts)), indices[:0])
	chunks[0] = attrib.Chunk{
		Attributes: attrs,
		Indices:    indices,
		ZRange:     attrib.Range{Begin: 0, End: 1},
	}
}
