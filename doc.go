// Package strokemesh turns vector paths and glyph runs into triangle
// meshes for a GPU, together with the per-frame state needed to draw them:
// transform and clip tracking, occluders and depth ordering.
//
// # Overview
//
// Stroking is done mostly on the GPU. A path is converted once into packed
// vertices that carry their position, the direction to offset along and a
// depth; the vertex shader pushes each vertex out by the stroke radius.
// The geometry is split into a tree of chunks so that only the chunks
// visible in the clip region are drawn, and depth values order overlapping
// primitives of one stroke so that it covers each pixel once without
// blending artifacts.
//
// # Quick Start
//
//	p := strokemesh.NewPainter(
//	    strokemesh.WithBackend(backend),
//	    strokemesh.WithTargetResolution(512, 512),
//	)
//	if err := p.Begin(); err != nil {
//	    return err
//	}
//
//	path := strokemesh.NewPath()
//	path.MoveTo(64, 64)
//	path.LineTo(448, 64)
//	path.ArcTo(448, 448, math.Pi/2)
//
//	style := strokemesh.DefaultStrokeStyle()
//	style.Width = 12
//	style.Join = strokemesh.RoundedJoins
//	p.StrokePath(path, style)
//
//	err := p.End()
//
// # Depth
//
// Every draw receives a depth from a counter that only increases within a
// frame, and the backend keeps a fragment only if its depth is greater
// than what is stored. Occluders made by ClipOutPath and by clipping under
// rotations get their depth when they are popped at Restore or End, above
// everything drawn while they were open.
//
// # Backends
//
// A Backend receives Draw records at End. The internal/gpu package draws
// them with WebGPU and internal/preview rasterizes them on the CPU; both
// serve cmd/strokedemo.
//
// # Logging
//
// Nothing is logged by default. See SetLogger.
package strokemesh
