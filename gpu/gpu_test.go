//go:build !nogpu

package gpu

import (
	"errors"
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/strokemesh"
)

var _ strokemesh.Backend = (*StrokeRenderer)(nil)

type noopProvider struct {
	device hal.Device
	queue  hal.Queue
}

func (noopProvider) Device() gpucontext.Device             { return nil }
func (noopProvider) Queue() gpucontext.Queue               { return nil }
func (noopProvider) Adapter() gpucontext.Adapter           { return nil }
func (noopProvider) SurfaceFormat() gputypes.TextureFormat { return gputypes.TextureFormatUndefined }
func (p noopProvider) HalDevice() any                      { return p.device }
func (p noopProvider) HalQueue() any                       { return p.queue }

func TestNewStrokeRenderer(t *testing.T) {
	if _, err := NewStrokeRenderer(nil); !errors.Is(err, strokemesh.ErrNoDevice) {
		t.Errorf("NewStrokeRenderer(nil) error = %v, want ErrNoDevice", err)
	}

	instance, err := noop.API{}.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	defer instance.Destroy()
	openDev, err := instance.EnumerateAdapters(nil)[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer openDev.Device.Destroy()

	r, err := NewStrokeRenderer(noopProvider{device: openDev.Device, queue: openDev.Queue})
	if err != nil {
		t.Fatalf("NewStrokeRenderer() error = %v", err)
	}
	defer r.Destroy()

	p := strokemesh.NewPainter(strokemesh.WithBackend(r), strokemesh.WithTargetResolution(32, 32))
	if err := p.Begin(); err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	path := strokemesh.NewPath()
	path.MoveTo(4, 16)
	path.LineTo(28, 16)
	if err := p.StrokePath(path, strokemesh.DefaultStrokeStyle()); err != nil {
		t.Errorf("StrokePath() error = %v", err)
	}
	if img := r.Image(); img != nil {
		t.Errorf("Image() before End = %v, want nil", img.Bounds())
	}
}
