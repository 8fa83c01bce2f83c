// Package glyph turns text into glyph quads. Shaping is done with
// HarfBuzz from go-text/typesetting; glyph renders live in an Atlas
// owned by the backend.
package glyph

import (
	"errors"

	"github.com/gogpu/strokemesh/internal/geom"
)

// ErrAtlasFull is returned when the atlas cannot take another glyph.
var ErrAtlasFull = errors.New("glyph: atlas full")

// RenderType is the encoding a glyph is rendered with.
type RenderType int

const (
	// Coverage renders hold one coverage value per texel; they suit small
	// glyphs.
	Coverage RenderType = iota
	// DistanceField renders hold the signed distance to the outline and
	// scale up moderately.
	DistanceField
	// RestrictedRays renders hold the curves themselves and stay exact at
	// any size.
	RestrictedRays
)

func (t RenderType) String() string {
	switch t {
	case Coverage:
		return "Coverage"
	case DistanceField:
		return "DistanceField"
	case RestrictedRays:
		return "RestrictedRays"
	default:
		return "Unknown"
	}
}

// SelectRenderType picks the encoding for glyphs drawn pixelSize pixels
// tall: coverage up to coverageMax, distance field up to distanceMax.
func SelectRenderType(pixelSize, coverageMax, distanceMax float64) RenderType {
	switch {
	case pixelSize <= coverageMax:
		return Coverage
	case pixelSize <= distanceMax:
		return DistanceField
	default:
		return RestrictedRays
	}
}

// Location is where the atlas keeps a glyph render.
type Location struct {
	// TexMin and TexMax bound the render in atlas texels.
	TexMin, TexMax geom.Vec2
	// Layer is the atlas page.
	Layer int
	// Bearing is the offset from the pen position to the top left corner
	// of the quad, and Size the quad size, both in pixels at the requested
	// size.
	Bearing geom.Vec2
	Size    geom.Vec2
}

// Atlas stores glyph renders. Upload returns false when the glyph does
// not fit; the caller may clear the atlas and retry later.
type Atlas interface {
	Upload(id uint32, size float64, t RenderType) (Location, bool)
}
