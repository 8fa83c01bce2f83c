package stroke

// unknownStr is the string returned for unknown enum values.
const unknownStr = "Unknown"

// JoinStyle selects the geometry drawn at the corners of a path.
type JoinStyle int

const (
	// NoJoins draws nothing at corners; edge bevels still close the gap.
	NoJoins JoinStyle = iota
	BevelJoins
	// MiterClipJoins cut the miter at the miter limit.
	MiterClipJoins
	// MiterBevelJoins fall back to a bevel past the miter limit.
	MiterBevelJoins
	// MiterJoins clamp the miter length to the miter limit.
	MiterJoins
	RoundedJoins
	// ArcRoundedJoins are rounded joins drawn with arc stroking.
	ArcRoundedJoins
)

// String returns the string representation of the join style.
func (s JoinStyle) String() string {
	switch s {
	case NoJoins:
		return "None"
	case BevelJoins:
		return "Bevel"
	case MiterClipJoins:
		return "MiterClip"
	case MiterBevelJoins:
		return "MiterBevel"
	case MiterJoins:
		return "Miter"
	case RoundedJoins:
		return "Rounded"
	case ArcRoundedJoins:
		return "ArcRounded"
	default:
		return unknownStr
	}
}

// IsMiter reports whether the style extends joins up to the miter limit.
func (s JoinStyle) IsMiter() bool {
	return s == MiterClipJoins || s == MiterBevelJoins || s == MiterJoins
}

// CapStyle selects the geometry drawn at the ends of open contours.
type CapStyle int

const (
	FlatCaps CapStyle = iota
	SquareCaps
	RoundedCaps
	// AdjustableCaps are squares whose extent the shader picks per dash.
	AdjustableCaps
	ArcRoundedCaps
)

// String returns the string representation of the cap style.
func (s CapStyle) String() string {
	switch s {
	case FlatCaps:
		return "Flat"
	case SquareCaps:
		return "Square"
	case RoundedCaps:
		return "Rounded"
	case AdjustableCaps:
		return "Adjustable"
	case ArcRoundedCaps:
		return "ArcRounded"
	default:
		return unknownStr
	}
}

// EdgeStyle selects the vertex format of edges.
type EdgeStyle int

const (
	// LineEdges use StrokedPoint; arcs are drawn as their chords.
	LineEdges EdgeStyle = iota
	// ArcEdges use ArcPoint and keep arcs exact.
	ArcEdges
)

// String returns the string representation of the edge style.
func (s EdgeStyle) String() string {
	switch s {
	case LineEdges:
		return "Line"
	case ArcEdges:
		return "Arc"
	default:
		return unknownStr
	}
}
