//go:build !nogpu

package gpu

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/strokemesh"
)

// strokeVertexStride is the byte stride per vertex. Layout per vertex:
//
//	attrib0 (vec4<f32>) = 16 bytes (location 0)
//	attrib1 (vec4<f32>) = 16 bytes (location 1)
//	attrib2 (vec4<u32>) = 16 bytes (location 2)
//
// The words are copied as packed; float slots hold float32 bits.
const strokeVertexStride = 48

// drawUniformSize is the byte size of DrawUniforms in the shader:
// three transform columns, color, params, info (6 x 16 bytes) and
// maxClipPlanes clip equations.
const drawUniformSize = 6*16 + maxClipPlanes*16

// drawUniformStride is the offset between the uniforms of two draws. It
// honors the minimum uniform buffer offset alignment.
const drawUniformStride = 256

// maxClipPlanes is the number of clip equations a draw may carry.
const maxClipPlanes = 8

// Shader modes, in the order the shader tests them.
const (
	modeStroke uint32 = iota
	modeArcStroke
	modeStrokeAA
	modeArcStrokeAA
	modeFill
	modeGlyph
)

func shaderMode(s strokemesh.Shader) uint32 {
	switch s {
	case strokemesh.ShaderStroke:
		return modeStroke
	case strokemesh.ShaderArcStroke:
		return modeArcStroke
	case strokemesh.ShaderStrokeAA:
		return modeStrokeAA
	case strokemesh.ShaderArcStrokeAA:
		return modeArcStrokeAA
	case strokemesh.ShaderGlyph:
		return modeGlyph
	default:
		return modeFill
	}
}

// pipelineKey selects a pipeline variant.
type pipelineKey struct {
	blend      strokemesh.BlendMode
	colorWrite bool
}

func keyOf(d *strokemesh.Draw) pipelineKey {
	if !d.ColorWrite {
		return pipelineKey{}
	}
	return pipelineKey{blend: d.Blend, colorWrite: true}
}

// drawRange is one indexed draw of a frame.
type drawRange struct {
	key        pipelineKey
	firstIndex uint32
	indexCount uint32
	uniform    int
}

// strokeFrame accumulates the buffers of a frame on the CPU. Draws are
// copied in, so the caller's chunks may be reused after Draw returns.
type strokeFrame struct {
	width, height int
	vertices      []byte
	indices       []byte
	uniforms      []byte
	ranges        []drawRange
}

func (f *strokeFrame) reset(width, height int) {
	f.width, f.height = width, height
	f.vertices = f.vertices[:0]
	f.indices = f.indices[:0]
	f.uniforms = f.uniforms[:0]
	f.ranges = f.ranges[:0]
}

func (f *strokeFrame) vertexCount() uint32 {
	return uint32(len(f.vertices) / strokeVertexStride)
}

func (f *strokeFrame) indexCount() uint32 {
	return uint32(len(f.indices) / 4)
}

// add appends the chunks of d. Indices are rebased onto the frame vertex
// buffer so the whole draw is a single DrawIndexed.
func (f *strokeFrame) add(d *strokemesh.Draw) error {
	if len(d.ClipEquations) > maxClipPlanes {
		return fmt.Errorf("gpu: %d clip equations, at most %d supported", len(d.ClipEquations), maxClipPlanes)
	}
	first := f.indexCount()
	for _, ch := range d.Chunks {
		if ch.Empty() {
			continue
		}
		base := int(f.vertexCount())
		for _, a := range ch.Attributes {
			f.vertices = appendWords(f.vertices, a.Attrib0)
			f.vertices = appendWords(f.vertices, a.Attrib1)
			f.vertices = appendWords(f.vertices, a.Attrib2)
		}
		for _, idx := range ch.Indices {
			local := int(idx) + ch.IndexAdjust
			if local < 0 || local >= len(ch.Attributes) {
				return fmt.Errorf("gpu: %v index %d outside chunk of %d attributes", d.Shader, idx, len(ch.Attributes))
			}
			f.indices = binary.LittleEndian.AppendUint32(f.indices, uint32(base+local))
		}
	}
	count := f.indexCount() - first
	if count == 0 {
		return nil
	}
	f.ranges = append(f.ranges, drawRange{
		key:        keyOf(d),
		firstIndex: first,
		indexCount: count,
		uniform:    len(f.uniforms),
	})
	f.uniforms = appendDrawUniforms(f.uniforms, d, f.width, f.height)
	return nil
}

func appendWords(buf []byte, w [4]uint32) []byte {
	for _, v := range w {
		buf = binary.LittleEndian.AppendUint32(buf, v)
	}
	return buf
}

func appendF32(buf []byte, vs ...float64) []byte {
	for _, v := range vs {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(float32(v)))
	}
	return buf
}

// appendDrawUniforms appends one drawUniformStride block:
//
//	col0, col1, col2 (vec4<f32>) transform columns, item to pixel
//	color  (vec4<f32>) premultiplied brush color
//	params (vec4<f32>) stroke radius, miter limit, 2/width, 2/height
//	info   (vec4<u32>) shader mode, z, clip equation count, glyph type
//	clip   (array<vec4<f32>, 8>) clip equations
func appendDrawUniforms(buf []byte, d *strokemesh.Draw, width, height int) []byte {
	start := len(buf)
	m := d.Transform
	for col := 0; col < 3; col++ {
		buf = appendF32(buf, m[0][col], m[1][col], m[2][col], 0)
	}
	c := d.Brush.Color.Premultiply()
	buf = appendF32(buf, c.R, c.G, c.B, c.A)
	buf = appendF32(buf, d.StrokeRadius, d.MiterLimit, 2/float64(width), 2/float64(height))
	buf = appendWords(buf, [4]uint32{shaderMode(d.Shader), uint32(max(d.Z, 0)), uint32(len(d.ClipEquations)), uint32(d.GlyphType)})
	for i := 0; i < maxClipPlanes; i++ {
		if i < len(d.ClipEquations) {
			e := d.ClipEquations[i]
			buf = appendF32(buf, e.X, e.Y, e.Z, 0)
		} else {
			buf = appendF32(buf, 0, 0, 0, 0)
		}
	}
	for len(buf)-start < drawUniformStride {
		buf = append(buf, 0)
	}
	return buf
}

// convertBGRAToRGBA swaps the red and blue channels of n pixels from src
// into dst.
func convertBGRAToRGBA(src, dst []byte, n int) {
	for i := 0; i < n; i++ {
		o := i * 4
		dst[o+0] = src[o+2]
		dst[o+1] = src[o+1]
		dst[o+2] = src[o+0]
		dst[o+3] = src[o+3]
	}
}
