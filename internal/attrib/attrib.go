// Package attrib holds flat attribute and index buffers together with the
// chunk views a painter selects and submits.
package attrib

import "math"

// Attribute is one packed vertex: three vec4 slots of 32-bit words.
type Attribute struct {
	Attrib0 [4]uint32
	Attrib1 [4]uint32
	Attrib2 [4]uint32
}

// Range is a half-open integer interval.
type Range struct {
	Begin, End int
}

// Len returns End - Begin.
func (r Range) Len() int { return r.End - r.Begin }

// Empty reports whether the range holds nothing.
func (r Range) Empty() bool { return r.End <= r.Begin }

// Chunk is an independently drawable piece of a Data.
//
// Indices address the full attribute array of the owning Data; adding
// IndexAdjust rebases them onto Attributes. ZRange is the interval of
// relative depth values used by the chunk's vertices.
type Chunk struct {
	Attributes  []Attribute
	Indices     []uint32
	IndexAdjust int
	ZRange      Range
}

// Empty reports whether the chunk draws nothing.
func (c Chunk) Empty() bool {
	return len(c.Indices) == 0
}

// IncrementZ returns how far the depth counter must advance past the base
// depth of a draw of the chunk: every vertex depth is below it.
func (c Chunk) IncrementZ() int {
	return c.ZRange.End
}

// Sizes are the buffer sizes a Filler needs.
type Sizes struct {
	Attributes int
	Indices    int
	Chunks     int
}

// Filler computes and writes the content of a Data.
type Filler interface {
	ComputeSizes() Sizes
	// FillData writes into buffers sized by ComputeSizes. Chunk views
	// must slice attributes and indices.
	FillData(attributes []Attribute, indices []uint32, chunks []Chunk)
}

// Data owns one flat attribute array, one flat index array and the chunk
// views into them. It is immutable once built and safe for concurrent
// readers.
type Data struct {
	attributes []Attribute
	indices    []uint32
	chunks     []Chunk
}

// New builds a Data with f.
func New(f Filler) *Data {
	sz := f.ComputeSizes()
	d := &Data{
		attributes: make([]Attribute, sz.Attributes),
		indices:    make([]uint32, sz.Indices),
		chunks:     make([]Chunk, sz.Chunks),
	}
	f.FillData(d.attributes, d.indices, d.chunks)
	return d
}

// Attributes returns the whole attribute array.
func (d *Data) Attributes() []Attribute { return d.attributes }

// Indices returns the whole index array.
func (d *Data) Indices() []uint32 { return d.indices }

// NumChunks returns the number of chunks.
func (d *Data) NumChunks() int { return len(d.chunks) }

// Chunk returns chunk i, or an empty chunk when i is out of range.
func (d *Data) Chunk(i int) Chunk {
	if d == nil || i < 0 || i >= len(d.chunks) {
		return Chunk{}
	}
	return d.chunks[i]
}

// PackFloat returns the bits of f as a float32.
func PackFloat(f float64) uint32 {
	return math.Float32bits(float32(f))
}

// UnpackFloat is the inverse of PackFloat.
func UnpackFloat(u uint32) float64 {
	return float64(math.Float32frombits(u))
}

// PackVec4 packs four floats.
func PackVec4(x, y, z, w float64) [4]uint32 {
	return [4]uint32{PackFloat(x), PackFloat(y), PackFloat(z), PackFloat(w)}
}

// PackBits places the low numBits of v at bit0.
func PackBits(bit0, numBits, v uint32) uint32 {
	mask := uint32(1)<<numBits - 1
	return (v & mask) << bit0
}

// UnpackBits extracts numBits bits starting at bit0.
func UnpackBits(bit0, numBits, v uint32) uint32 {
	mask := uint32(1)<<numBits - 1
	return (v >> bit0) & mask
}

// Mask returns numBits set bits starting at bit0.
func Mask(bit0, numBits uint32) uint32 {
	return (uint32(1)<<numBits - 1) << bit0
}

// AddTriangleFan appends the fan over vertices [begin, end) to dst.
func AddTriangleFan(begin, end uint32, dst []uint32) []uint32 {
	for i := begin + 1; i+1 < end; i++ {
		dst = append(dst, begin, i, i+1)
	}
	return dst
}
