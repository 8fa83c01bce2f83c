//go:build !nogpu

// Package gpu draws strokemesh frames on a WebGPU device.
//
// A StrokeRenderer is a strokemesh.Backend: pass it to
// strokemesh.WithBackend and read each frame from Image after End.
// Share the device of a host application with NewStrokeRenderer, or let
// OpenStrokeRenderer open one of its own.
//
// Usage:
//
//	r, err := gpu.OpenStrokeRenderer()
//	if err != nil {
//		// no Vulkan device; draw with another backend
//	}
//	defer r.Destroy()
//	p := strokemesh.NewPainter(strokemesh.WithBackend(r), strokemesh.WithTargetResolution(w, h))
//
// Build with the nogpu tag to leave the package out.
package gpu

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	gpuimpl "github.com/gogpu/strokemesh/internal/gpu"
)

// StrokeRenderer renders Draws with an MSAA render pass into an offscreen
// target and reads it back.
type StrokeRenderer = gpuimpl.StrokeRenderer

// NewStrokeRenderer creates a renderer on the device of provider, which
// must also implement gpucontext.HalProvider. strokemesh.ErrNoDevice is
// returned otherwise.
func NewStrokeRenderer(provider gpucontext.DeviceProvider) (*StrokeRenderer, error) {
	return gpuimpl.NewStrokeRenderer(provider)
}

// OpenStrokeRenderer creates a renderer on a Vulkan device of its own.
// Destroy releases the device.
func OpenStrokeRenderer() (*StrokeRenderer, error) {
	return gpuimpl.OpenStrokeRenderer(gputypes.BackendVulkan)
}
