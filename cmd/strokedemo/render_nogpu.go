//go:build nogpu

package main

import (
	"fmt"
	"image"

	"github.com/gogpu/strokemesh"
)

func renderGPU(*Scene) (*image.RGBA, error) {
	return nil, fmt.Errorf("built without GPU support: %w", strokemesh.ErrNoDevice)
}
