// Package stroke builds the GPU stroking geometry of tessellated paths.
//
// A path is split into sub-edges, joins and caps. Each kind is organised
// in a subset tree: a hierarchy of bounding boxes whose nodes own a
// contiguous run of primitives, so that culling against the clip region
// selects whole runs at once. The attribute data of a primitive style is
// written once per path and sliced into chunks, one per subset node and
// one per join or cap.
//
// Vertices do not carry final positions. Each one is a StrokedPoint or an
// ArcPoint: a path position plus offset vectors and a packed word that tell
// the vertex shader how to move it for a given stroking radius and miter
// limit. Evaluate applies the same rules on the CPU.
//
// # Depth
//
// Every primitive owns a relative depth. Within a kind, primitives drawn
// later get smaller depths, and the closing edges and joins of open
// contours use the lowest values so that they can be drawn or skipped as a
// block. Contours ended with Close keep theirs with the rest. Depths
// saturate at MaxDepth. A painter
// adds a base depth and relies on the depth test so that overlapping parts
// of one stroke are shaded once.
//
// # Usage
//
//	sp := stroke.NewStrokedPath(tessellated)
//	sel := stroke.Selection{
//	    Edges:     sp.EdgeData(stroke.LineEdges),
//	    Joins:     sp.JoinData(stroke.MiterClipJoins, 0),
//	    EdgeSlack: radius,
//	    JoinSlack: radius * miterLimit,
//	}
//	var scratch stroke.Scratch
//	var chunks stroke.ChunkSet
//	err := sp.ComputeChunks(&scratch, &params, &sel, &chunks)
package stroke
