//go:build !nogpu

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/strokemesh"
)

// OpenStrokeRenderer creates a renderer on a device of its own, opened on
// the first discrete or integrated adapter of backend. Destroy releases
// the device. strokemesh.ErrNoDevice is returned when backend is not
// compiled in or has no adapter.
func OpenStrokeRenderer(backend gputypes.Backend) (*StrokeRenderer, error) {
	b, ok := hal.GetBackend(backend)
	if !ok {
		return nil, fmt.Errorf("gpu: backend %v not available: %w", backend, strokemesh.ErrNoDevice)
	}
	return openStrokeRenderer(b)
}

func openStrokeRenderer(b hal.Backend) (*StrokeRenderer, error) {
	instance, err := b.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("gpu: create instance: %w", err)
	}

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, fmt.Errorf("gpu: no adapters found: %w", strokemesh.ErrNoDevice)
	}
	selected := &adapters[0]
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("gpu: open device: %w", err)
	}
	r := NewStrokeRendererWithDevice(openDev.Device, openDev.Queue)
	r.instance = instance
	slogger().Info("gpu: stroke renderer initialized (standalone)", "adapter", selected.Info.Name)
	return r, nil
}
