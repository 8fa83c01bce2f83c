//go:build !nogpu

// Package gpu draws strokemesh frames with a WebGPU HAL device.
//
// StrokeRenderer implements strokemesh.Backend. Every Draw is copied into
// CPU-side vertex, index and uniform buffers; End uploads them and records
// one indexed draw per Draw into a single MSAA render pass with a
// Depth24PlusStencil8 target cleared to zero and compared GREATER, then
// reads the resolved target back.
//
// The WGSL shader in shaders/stroke.wgsl expands the packed stroke
// vertices by the stroke radius and miter limit of each draw, the same
// math as stroke.Evaluate, and discards fragments outside the clip
// equations. It is compiled to SPIR-V with naga.
//
// Build with the nogpu tag to leave the package out.
package gpu
