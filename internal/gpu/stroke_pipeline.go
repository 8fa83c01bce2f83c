//go:build !nogpu

package gpu

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/strokemesh"
)

//go:embed shaders/stroke.wgsl
var strokeShaderSource string

// sampleCount is the MSAA sample count of the color and depth targets.
const sampleCount = 4

// strokePipeline owns the shader, layouts and the pipeline variants of the
// stroke renderer. Variants differ in blend state and color write mask and
// are created on first use.
type strokePipeline struct {
	device hal.Device
	format gputypes.TextureFormat

	shader        hal.ShaderModule
	uniformLayout hal.BindGroupLayout
	pipeLayout    hal.PipelineLayout
	variants      map[pipelineKey]hal.RenderPipeline
}

func newStrokePipeline(device hal.Device, format gputypes.TextureFormat) *strokePipeline {
	return &strokePipeline{
		device:   device,
		format:   format,
		variants: make(map[pipelineKey]hal.RenderPipeline),
	}
}

// compileStrokeShader translates the WGSL source to SPIR-V words.
func compileStrokeShader() ([]uint32, error) {
	if strokeShaderSource == "" {
		return nil, fmt.Errorf("stroke shader source is empty")
	}
	spirvBytes, err := naga.Compile(strokeShaderSource)
	if err != nil {
		return nil, fmt.Errorf("compile stroke shader: %w", err)
	}
	code := make([]uint32, len(spirvBytes)/4)
	for i := range code {
		code[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return code, nil
}

// ensureBase creates the shader module and layouts shared by every variant.
func (p *strokePipeline) ensureBase() error {
	if p.shader != nil {
		return nil
	}
	code, err := compileStrokeShader()
	if err != nil {
		return err
	}
	shader, err := p.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "stroke_shader",
		Source: hal.ShaderSource{SPIRV: code},
	})
	if err != nil {
		return fmt.Errorf("create stroke shader module: %w", err)
	}
	p.shader = shader

	uniformLayout, err := p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "stroke_uniform_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
		},
	})
	if err != nil {
		p.destroy()
		return fmt.Errorf("create stroke uniform layout: %w", err)
	}
	p.uniformLayout = uniformLayout

	pipeLayout, err := p.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "stroke_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.uniformLayout},
	})
	if err != nil {
		p.destroy()
		return fmt.Errorf("create stroke pipeline layout: %w", err)
	}
	p.pipeLayout = pipeLayout
	return nil
}

// variant returns the pipeline for key, creating it on first use.
func (p *strokePipeline) variant(key pipelineKey) (hal.RenderPipeline, error) {
	if rp, ok := p.variants[key]; ok {
		return rp, nil
	}
	if err := p.ensureBase(); err != nil {
		return nil, err
	}

	target := gputypes.ColorTargetState{
		Format:    p.format,
		Blend:     blendState(key),
		WriteMask: gputypes.ColorWriteMaskAll,
	}
	if !key.colorWrite {
		target.WriteMask = gputypes.ColorWriteMaskNone
	}

	rp, err := p.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  fmt.Sprintf("stroke_pipeline_%v_%t", key.blend, key.colorWrite),
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.shader,
			EntryPoint: "vs_main",
			Buffers:    strokeVertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     p.shader,
			EntryPoint: "fs_main",
			Targets:    []gputypes.ColorTargetState{target},
		},
		DepthStencil: depthState(),
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: sampleCount,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create stroke pipeline: %w", err)
	}
	p.variants[key] = rp
	return rp, nil
}

// depthState writes depth and passes fragments strictly above the stored
// depth. The stencil is unused.
func depthState() *hal.DepthStencilState {
	keep := hal.StencilFaceState{
		Compare:     gputypes.CompareFunctionAlways,
		FailOp:      hal.StencilOperationKeep,
		DepthFailOp: hal.StencilOperationKeep,
		PassOp:      hal.StencilOperationKeep,
	}
	return &hal.DepthStencilState{
		Format:            gputypes.TextureFormatDepth24PlusStencil8,
		DepthWriteEnabled: true,
		DepthCompare:      gputypes.CompareFunctionGreater,
		StencilFront:      keep,
		StencilBack:       keep,
		StencilReadMask:   0x00,
		StencilWriteMask:  0x00,
	}
}

func blendState(key pipelineKey) *gputypes.BlendState {
	if !key.colorWrite {
		return nil
	}
	switch key.blend {
	case strokemesh.BlendSource:
		return nil
	case strokemesh.BlendAdd:
		add := gputypes.BlendComponent{
			SrcFactor: gputypes.BlendFactorOne,
			DstFactor: gputypes.BlendFactorOne,
			Operation: gputypes.BlendOperationAdd,
		}
		return &gputypes.BlendState{Color: add, Alpha: add}
	default:
		premul := gputypes.BlendStatePremultiplied()
		return &premul
	}
}

// strokeVertexLayout returns the vertex buffer layout: three vec4 slots,
// the last one integer.
func strokeVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: strokeVertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x4, Offset: 0, ShaderLocation: 0},  // attrib0
				{Format: gputypes.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 1}, // attrib1
				{Format: gputypes.VertexFormatUint32x4, Offset: 32, ShaderLocation: 2},  // attrib2
			},
		},
	}
}

// destroy releases all pipeline resources in reverse creation order.
func (p *strokePipeline) destroy() {
	if p.device == nil {
		return
	}
	for k, rp := range p.variants {
		p.device.DestroyRenderPipeline(rp)
		delete(p.variants, k)
	}
	if p.pipeLayout != nil {
		p.device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.uniformLayout != nil {
		p.device.DestroyBindGroupLayout(p.uniformLayout)
		p.uniformLayout = nil
	}
	if p.shader != nil {
		p.device.DestroyShaderModule(p.shader)
		p.shader = nil
	}
}
