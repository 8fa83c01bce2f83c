//go:build !nogpu

package main

import (
	"image"

	"github.com/gogpu/strokemesh/gpu"
)

// renderGPU draws scene on a device of its own and returns the frame.
func renderGPU(scene *Scene) (*image.RGBA, error) {
	r, err := gpu.OpenStrokeRenderer()
	if err != nil {
		return nil, err
	}
	defer r.Destroy()
	if err := drawFrame(r, scene, true); err != nil {
		return nil, err
	}
	return r.Image(), nil
}
