package strokemesh

import (
	"github.com/gogpu/strokemesh/internal/attrib"
	"github.com/gogpu/strokemesh/internal/fill"
	"github.com/gogpu/strokemesh/internal/glyph"
	"github.com/gogpu/strokemesh/internal/stroke"
)

// Chunk is one independently drawable range of attributes and indices.
// Indices address the attribute array of the data the chunk came from;
// adding IndexAdjust rebases them onto Attributes.
type Chunk = attrib.Chunk

// Attribute is one packed vertex.
type Attribute = attrib.Attribute

// JoinStyle selects the geometry at path corners.
type JoinStyle = stroke.JoinStyle

const (
	NoJoins         = stroke.NoJoins
	BevelJoins      = stroke.BevelJoins
	MiterClipJoins  = stroke.MiterClipJoins
	MiterBevelJoins = stroke.MiterBevelJoins
	MiterJoins      = stroke.MiterJoins
	RoundedJoins    = stroke.RoundedJoins
	ArcRoundedJoins = stroke.ArcRoundedJoins
)

// CapStyle selects the geometry at the ends of open contours.
type CapStyle = stroke.CapStyle

const (
	FlatCaps       = stroke.FlatCaps
	SquareCaps     = stroke.SquareCaps
	RoundedCaps    = stroke.RoundedCaps
	AdjustableCaps = stroke.AdjustableCaps
	ArcRoundedCaps = stroke.ArcRoundedCaps
)

// FillRule decides from a winding number whether a point is inside.
type FillRule = fill.Rule

const (
	NonZero           = fill.NonZero
	EvenOdd           = fill.EvenOdd
	ComplementNonZero = fill.ComplementNonZero
	ComplementEvenOdd = fill.ComplementEvenOdd
)

// Glyph is a glyph at its pen position, as produced by shaping.
type Glyph = glyph.Glyph

// GlyphAtlas stores glyph renders for the backend.
type GlyphAtlas = glyph.Atlas

// GlyphLocation is where an atlas keeps a glyph.
type GlyphLocation = glyph.Location

// GlyphRenderType is the encoding glyphs are drawn with.
type GlyphRenderType = glyph.RenderType

const (
	GlyphCoverage       = glyph.Coverage
	GlyphDistanceField  = glyph.DistanceField
	GlyphRestrictedRays = glyph.RestrictedRays
)
