package strokemesh

// Shader selects how a backend draws the chunks of a Draw.
type Shader int

const (
	// ShaderStroke expands StrokedPoint vertices by the stroke radius.
	ShaderStroke Shader = iota
	// ShaderArcStroke expands ArcPoint vertices.
	ShaderArcStroke
	// ShaderStrokeAA and ShaderArcStrokeAA draw the anti-aliased fringe of
	// a stroke drawn before with the matching solid shader.
	ShaderStrokeAA
	ShaderArcStrokeAA
	// ShaderFill draws attribute positions as they are.
	ShaderFill
	// ShaderGlyph draws atlas quads.
	ShaderGlyph
)

func (s Shader) String() string {
	switch s {
	case ShaderStroke:
		return "Stroke"
	case ShaderArcStroke:
		return "ArcStroke"
	case ShaderStrokeAA:
		return "StrokeAA"
	case ShaderArcStrokeAA:
		return "ArcStrokeAA"
	case ShaderFill:
		return "Fill"
	case ShaderGlyph:
		return "Glyph"
	default:
		return "Unknown"
	}
}

// IsArc reports whether the shader reads ArcPoint vertices.
func (s Shader) IsArc() bool {
	return s == ShaderArcStroke || s == ShaderArcStrokeAA
}

// IsStroke reports whether the shader expands stroke vertices.
func (s Shader) IsStroke() bool {
	return s <= ShaderArcStrokeAA
}

// BlendMode selects how a draw combines with the target.
type BlendMode int

const (
	// BlendSourceOver composites premultiplied color over the target.
	BlendSourceOver BlendMode = iota
	// BlendSource replaces the target.
	BlendSource
	// BlendAdd adds to the target.
	BlendAdd
)

func (b BlendMode) String() string {
	switch b {
	case BlendSourceOver:
		return "SourceOver"
	case BlendSource:
		return "Source"
	case BlendAdd:
		return "Add"
	default:
		return "Unknown"
	}
}

// Draw is one draw call handed to a Backend.
//
// The depth of a vertex is Z plus the depth packed in the vertex, if any.
// The backend draws with a GREATER depth test without depth clears, so of
// two overlapping vertices the one with the larger depth wins.
type Draw struct {
	Shader Shader
	Chunks []Chunk

	// Transform maps item coordinates to pixels.
	Transform Matrix
	// ClipEquations are half-planes in clip coordinates, where the target
	// spans [-1, 1] on both axes; a point is visible when
	// dot(eq, (x, y, 1)) >= 0 for each. The target edges are not included.
	ClipEquations []Vec3

	Z     int
	Brush Brush
	Blend BlendMode
	// ColorWrite is false for occluders, which only write depth.
	ColorWrite bool

	// StrokeRadius and MiterLimit parameterize the stroke shaders.
	StrokeRadius float64
	MiterLimit   float64

	// GlyphType is the encoding of the glyph quads.
	GlyphType GlyphRenderType
}

// Backend receives the draws of a frame. Draws arrive between Begin and
// End in submission order; the Draw and its chunks stay valid only during
// the Draw call.
type Backend interface {
	Begin(width, height int) error
	Draw(d *Draw) error
	End() error
}

// discardBackend drops every draw.
type discardBackend struct{}

func (discardBackend) Begin(int, int) error { return nil }
func (discardBackend) Draw(*Draw) error     { return nil }
func (discardBackend) End() error           { return nil }
