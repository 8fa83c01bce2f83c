//go:build !nogpu

package gpu

import (
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/strokemesh"
)

// copyPitchAlignment is the row alignment of texture to buffer copies.
const copyPitchAlignment = 256

// StrokeRenderer is a strokemesh.Backend drawing with a WebGPU HAL device
// into an offscreen target. Draws are buffered on the CPU between Begin
// and End; End uploads them, draws the frame in one render pass and reads
// the result back into Image.
type StrokeRenderer struct {
	device hal.Device
	queue  hal.Queue
	format gputypes.TextureFormat

	// instance is set when the renderer opened its own device.
	instance hal.Instance

	pipeline *strokePipeline
	textures strokeTextures
	frame    strokeFrame
	begun    bool

	image *image.RGBA
}

// strokeTextures are the render targets of a frame size.
type strokeTextures struct {
	width, height uint32
	msaaTex       hal.Texture
	msaaView      hal.TextureView
	depthTex      hal.Texture
	depthView     hal.TextureView
	resolveTex    hal.Texture
	resolveView   hal.TextureView
}

// NewStrokeRenderer creates a renderer on the device of provider. The
// provider must expose its HAL objects through HalDevice() and HalQueue();
// otherwise strokemesh.ErrNoDevice is returned.
func NewStrokeRenderer(provider gpucontext.DeviceProvider) (*StrokeRenderer, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	if provider == nil {
		return nil, strokemesh.ErrNoDevice
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, fmt.Errorf("gpu: provider does not expose HAL types: %w", strokemesh.ErrNoDevice)
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("gpu: provider HalDevice is not hal.Device: %w", strokemesh.ErrNoDevice)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("gpu: provider HalQueue is not hal.Queue: %w", strokemesh.ErrNoDevice)
	}
	r := NewStrokeRendererWithDevice(device, queue)
	if f := provider.SurfaceFormat(); f == gputypes.TextureFormatRGBA8Unorm {
		r.format = f
		r.pipeline.format = f
	}
	return r, nil
}

// NewStrokeRendererWithDevice creates a renderer on device and queue.
// Pipelines and targets are created on first use.
func NewStrokeRendererWithDevice(device hal.Device, queue hal.Queue) *StrokeRenderer {
	format := gputypes.TextureFormatBGRA8Unorm
	return &StrokeRenderer{
		device:   device,
		queue:    queue,
		format:   format,
		pipeline: newStrokePipeline(device, format),
	}
}

// SetLogger sets the logger of the gpu package. strokemesh.SetLogger
// reaches it through any Painter using the renderer.
func (r *StrokeRenderer) SetLogger(l *slog.Logger) {
	setLogger(l)
}

// Image returns the pixels of the last frame, or nil before the first End.
func (r *StrokeRenderer) Image() *image.RGBA { return r.image }

// Begin implements strokemesh.Backend.
func (r *StrokeRenderer) Begin(width, height int) error {
	if r.device == nil || r.queue == nil {
		return strokemesh.ErrNoDevice
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("gpu: invalid size %dx%d", width, height)
	}
	r.frame.reset(width, height)
	r.begun = true
	return nil
}

// Draw implements strokemesh.Backend.
func (r *StrokeRenderer) Draw(d *strokemesh.Draw) error {
	if !r.begun {
		return fmt.Errorf("gpu: draw outside a frame")
	}
	return r.frame.add(d)
}

// End implements strokemesh.Backend.
func (r *StrokeRenderer) End() error {
	if !r.begun {
		return fmt.Errorf("gpu: end outside a frame")
	}
	r.begun = false

	w, h := uint32(r.frame.width), uint32(r.frame.height)
	if err := r.ensureTextures(w, h); err != nil {
		return err
	}
	for _, dr := range r.frame.ranges {
		if _, err := r.pipeline.variant(dr.key); err != nil {
			return err
		}
	}

	res, err := r.upload()
	if err != nil {
		return err
	}
	defer res.destroy(r.device)

	if err := r.encodeSubmitReadback(w, h, res); err != nil {
		slogger().Warn("gpu: stroke frame failed", "err", err)
		return err
	}
	slogger().Debug("gpu: stroke frame",
		"draws", len(r.frame.ranges), "vertices", r.frame.vertexCount(), "indices", r.frame.indexCount())
	return nil
}

// Destroy releases every GPU resource of the renderer, and the device
// when the renderer opened it.
func (r *StrokeRenderer) Destroy() {
	r.pipeline.destroy()
	r.destroyTextures()
	if r.instance != nil {
		r.device.Destroy()
		r.instance.Destroy()
		r.instance = nil
	}
}

// strokeFrameResources holds the buffers and bind groups of one frame.
type strokeFrameResources struct {
	vertBuf    hal.Buffer
	idxBuf     hal.Buffer
	uniformBuf hal.Buffer
	bindGroups []hal.BindGroup
}

func (res *strokeFrameResources) destroy(device hal.Device) {
	for _, bg := range res.bindGroups {
		if bg != nil {
			device.DestroyBindGroup(bg)
		}
	}
	if res.uniformBuf != nil {
		device.DestroyBuffer(res.uniformBuf)
	}
	if res.idxBuf != nil {
		device.DestroyBuffer(res.idxBuf)
	}
	if res.vertBuf != nil {
		device.DestroyBuffer(res.vertBuf)
	}
}

// upload creates the frame buffers and one bind group per draw.
func (r *StrokeRenderer) upload() (*strokeFrameResources, error) {
	res := &strokeFrameResources{}
	if len(r.frame.ranges) == 0 {
		return res, nil
	}
	var err error
	res.vertBuf, err = r.createAndUploadBuffer("stroke_verts", r.frame.vertices,
		gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
	if err != nil {
		return nil, err
	}
	res.idxBuf, err = r.createAndUploadBuffer("stroke_indices", r.frame.indices,
		gputypes.BufferUsageIndex|gputypes.BufferUsageCopyDst)
	if err != nil {
		res.destroy(r.device)
		return nil, err
	}
	res.uniformBuf, err = r.createAndUploadBuffer("stroke_uniforms", r.frame.uniforms,
		gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		res.destroy(r.device)
		return nil, err
	}

	for _, dr := range r.frame.ranges {
		bg, err := r.device.CreateBindGroup(&hal.BindGroupDescriptor{
			Label:  "stroke_bind",
			Layout: r.pipeline.uniformLayout,
			Entries: []gputypes.BindGroupEntry{
				{Binding: 0, Resource: gputypes.BufferBinding{
					Buffer: res.uniformBuf.NativeHandle(), Offset: uint64(dr.uniform), Size: drawUniformSize,
				}},
			},
		})
		if err != nil {
			res.destroy(r.device)
			return nil, fmt.Errorf("create stroke bind group: %w", err)
		}
		res.bindGroups = append(res.bindGroups, bg)
	}
	return res, nil
}

func (r *StrokeRenderer) createAndUploadBuffer(label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	r.queue.WriteBuffer(buf, 0, data)
	return buf, nil
}

// recordDraws issues the draws of the frame in submission order.
func (r *StrokeRenderer) recordDraws(rp hal.RenderPassEncoder, res *strokeFrameResources) {
	if len(res.bindGroups) == 0 {
		return
	}
	rp.SetVertexBuffer(0, res.vertBuf, 0)
	rp.SetIndexBuffer(res.idxBuf, gputypes.IndexFormatUint32, 0)
	var current hal.RenderPipeline
	for i, dr := range r.frame.ranges {
		pipeline := r.pipeline.variants[dr.key]
		if pipeline != current {
			rp.SetPipeline(pipeline)
			current = pipeline
		}
		rp.SetBindGroup(0, res.bindGroups[i], nil)
		rp.DrawIndexed(dr.indexCount, 1, dr.firstIndex, 0, 0)
	}
}

// encodeSubmitReadback draws the frame, copies the resolve texture to a
// staging buffer, submits, waits and reads the pixels back.
func (r *StrokeRenderer) encodeSubmitReadback(w, h uint32, res *strokeFrameResources) error {
	encoder, err := r.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "stroke_encoder",
	})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("stroke_frame"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "stroke_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:          r.textures.msaaView,
			ResolveTarget: r.textures.resolveView,
			LoadOp:        gputypes.LoadOpClear,
			StoreOp:       gputypes.StoreOpStore,
			ClearValue:    gputypes.Color{R: 0, G: 0, B: 0, A: 0},
		}},
		DepthStencilAttachment: &hal.RenderPassDepthStencilAttachment{
			View:              r.textures.depthView,
			DepthLoadOp:       gputypes.LoadOpClear,
			DepthStoreOp:      gputypes.StoreOpDiscard,
			DepthClearValue:   0.0,
			StencilLoadOp:     gputypes.LoadOpClear,
			StencilStoreOp:    gputypes.StoreOpDiscard,
			StencilClearValue: 0,
		},
	})
	r.recordDraws(rp, res)
	rp.End()

	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: r.textures.resolveTex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})

	bytesPerRow := w * 4
	alignedBytesPerRow := (bytesPerRow + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)
	stagingSize := uint64(alignedBytesPerRow) * uint64(h)
	stagingBuf, err := r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "stroke_staging",
		Size:  stagingSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		encoder.DiscardEncoding()
		return fmt.Errorf("create staging buffer: %w", err)
	}
	defer r.device.DestroyBuffer(stagingBuf)

	encoder.CopyTextureToBuffer(r.textures.resolveTex, stagingBuf, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: alignedBytesPerRow, RowsPerImage: h},
		TextureBase:  hal.ImageCopyTexture{Texture: r.textures.resolveTex, MipLevel: 0},
		Size:         hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: r.textures.resolveTex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopySrc,
			NewUsage: gputypes.TextureUsageRenderAttachment,
		},
	}})

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer r.device.FreeCommandBuffer(cmdBuf)

	fence, err := r.device.CreateFence()
	if err != nil {
		return fmt.Errorf("create fence: %w", err)
	}
	defer r.device.DestroyFence(fence)

	if err := r.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	fenceOK, err := r.device.Wait(fence, 1, 5*time.Second)
	if err != nil || !fenceOK {
		return fmt.Errorf("wait for GPU: ok=%v err=%w", fenceOK, err)
	}

	readback := make([]byte, stagingSize)
	if err := r.queue.ReadBuffer(stagingBuf, 0, readback); err != nil {
		return fmt.Errorf("readback: %w", err)
	}
	r.storeImage(readback, int(w), int(h), int(alignedBytesPerRow))
	return nil
}

// storeImage strips the row padding of readback into Image, swapping
// channels for BGRA targets.
func (r *StrokeRenderer) storeImage(readback []byte, w, h, pitch int) {
	if r.image == nil || r.image.Rect.Dx() != w || r.image.Rect.Dy() != h {
		r.image = image.NewRGBA(image.Rect(0, 0, w, h))
	}
	for y := 0; y < h; y++ {
		src := readback[y*pitch : y*pitch+w*4]
		dst := r.image.Pix[y*r.image.Stride : y*r.image.Stride+w*4]
		if r.format == gputypes.TextureFormatBGRA8Unorm {
			convertBGRAToRGBA(src, dst, w)
		} else {
			copy(dst, src)
		}
	}
}

// ensureTextures creates the MSAA color, depth and resolve targets when the
// frame size changes.
func (r *StrokeRenderer) ensureTextures(width, height uint32) error {
	if r.textures.width == width && r.textures.height == height && r.textures.msaaTex != nil {
		return nil
	}
	r.destroyTextures()

	size := hal.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1}
	create := func(label string, samples uint32, format gputypes.TextureFormat, usage gputypes.TextureUsage) (hal.Texture, hal.TextureView, error) {
		tex, err := r.device.CreateTexture(&hal.TextureDescriptor{
			Label:         label,
			Size:          size,
			MipLevelCount: 1,
			SampleCount:   samples,
			Dimension:     gputypes.TextureDimension2D,
			Format:        format,
			Usage:         usage,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("create %s texture: %w", label, err)
		}
		view, err := r.device.CreateTextureView(tex, &hal.TextureViewDescriptor{Label: label + "_view"})
		if err != nil {
			r.device.DestroyTexture(tex)
			return nil, nil, fmt.Errorf("create %s texture view: %w", label, err)
		}
		return tex, view, nil
	}

	var err error
	t := &r.textures
	if t.msaaTex, t.msaaView, err = create("stroke_msaa_color", sampleCount, r.format,
		gputypes.TextureUsageRenderAttachment); err != nil {
		return err
	}
	if t.depthTex, t.depthView, err = create("stroke_depth", sampleCount, gputypes.TextureFormatDepth24PlusStencil8,
		gputypes.TextureUsageRenderAttachment); err != nil {
		r.destroyTextures()
		return err
	}
	if t.resolveTex, t.resolveView, err = create("stroke_resolve", 1, r.format,
		gputypes.TextureUsageRenderAttachment|gputypes.TextureUsageCopySrc); err != nil {
		r.destroyTextures()
		return err
	}
	t.width, t.height = width, height
	slogger().Info("gpu: stroke targets ready", "width", width, "height", height)
	return nil
}

// destroyTextures releases the render targets. Each resource is nil-checked
// to support partial cleanup.
func (r *StrokeRenderer) destroyTextures() {
	t := &r.textures
	if r.device == nil {
		return
	}
	for _, v := range []*hal.TextureView{&t.resolveView, &t.depthView, &t.msaaView} {
		if *v != nil {
			r.device.DestroyTextureView(*v)
			*v = nil
		}
	}
	for _, tex := range []*hal.Texture{&t.resolveTex, &t.depthTex, &t.msaaTex} {
		if *tex != nil {
			r.device.DestroyTexture(*tex)
			*tex = nil
		}
	}
	t.width, t.height = 0, 0
}
