package strokemesh

// Defaults used when a PainterOption is not given.
const (
	DefaultWidth  = 800
	DefaultHeight = 600

	// DefaultMaxAttributes and DefaultMaxIndices bound one stroke chunk.
	DefaultMaxAttributes = 1 << 16
	DefaultMaxIndices    = 3 << 16

	// DefaultCurveFlatness is the flattening tolerance in pixels.
	DefaultCurveFlatness = 0.5

	// DefaultPixelSlack grows the clip region before culling so that
	// anti-aliased fringes are not culled.
	DefaultPixelSlack = 1.0

	// DefaultCoverageCutoff and DefaultDistanceFieldCutoff are the pixel
	// sizes up to which glyphs use coverage and distance field renders.
	DefaultCoverageCutoff      = 24.0
	DefaultDistanceFieldCutoff = 96.0
)

// PainterOption configures a Painter during creation.
//
// Example:
//
//	p := strokemesh.NewPainter(
//	    strokemesh.WithBackend(backend),
//	    strokemesh.WithTargetResolution(1024, 768),
//	)
type PainterOption func(*painterOptions)

type painterOptions struct {
	backend       Backend
	width, height int
	maxAttributes int
	maxIndices    int
	curveFlatness float64
	pixelSlack    float64
	coverageMax   float64
	distanceMax   float64
}

func defaultOptions() painterOptions {
	return painterOptions{
		width:         DefaultWidth,
		height:        DefaultHeight,
		maxAttributes: DefaultMaxAttributes,
		maxIndices:    DefaultMaxIndices,
		curveFlatness: DefaultCurveFlatness,
		pixelSlack:    DefaultPixelSlack,
		coverageMax:   DefaultCoverageCutoff,
		distanceMax:   DefaultDistanceFieldCutoff,
	}
}

// WithBackend sets the backend receiving the draws. Without one, draws are
// kept by an internal recorder and dropped at End.
func WithBackend(b Backend) PainterOption {
	return func(o *painterOptions) {
		o.backend = b
	}
}

// WithTargetResolution sets the size in pixels of the render target.
func WithTargetResolution(width, height int) PainterOption {
	return func(o *painterOptions) {
		if width > 0 && height > 0 {
			o.width, o.height = width, height
		}
	}
}

// WithAttributeBudget bounds the attributes and indices of one chunk. A
// non-positive value removes that bound.
func WithAttributeBudget(maxAttributes, maxIndices int) PainterOption {
	return func(o *painterOptions) {
		o.maxAttributes, o.maxIndices = maxAttributes, maxIndices
	}
}

// WithCurveFlatness sets the curve flattening tolerance in pixels.
func WithCurveFlatness(pixels float64) PainterOption {
	return func(o *painterOptions) {
		if pixels > 0 {
			o.curveFlatness = pixels
		}
	}
}

// WithPixelSlack sets how many pixels the clip region grows by before
// culling.
func WithPixelSlack(pixels float64) PainterOption {
	return func(o *painterOptions) {
		o.pixelSlack = max(pixels, 0)
	}
}

// WithGlyphCutoffs sets the on-screen glyph sizes, in pixels, up to which
// coverage and then distance field renders are used. Larger glyphs are
// drawn from their curves.
func WithGlyphCutoffs(coverage, distanceField float64) PainterOption {
	return func(o *painterOptions) {
		o.coverageMax, o.distanceMax = coverage, max(coverage, distanceField)
	}
}
