// Package geometry holds the vertex format and the GPU buffers of the scene.
//
// The scene is one triangle described by three vertices and three 16-bit
// indices. Vertex data is uploaded once at startup and never changes.
package geometry

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/gputypes"
)

// Vertex is one vertex as seen by the vertex shader: a position in clip
// space followed by a linear RGB color. Both fields are three packed float32
// values with no padding.
type Vertex struct {
	Position [3]float32
	Color    [3]float32
}

// VertexSize is the byte size of one packed Vertex.
const VertexSize = 24

// colorOffset is the byte offset of Vertex.Color, the size of one vec3<f32>.
var colorOffset = gputypes.VertexFormatFloat32x3.Size()

// Triangle is the scene: red at the top, green bottom-left, blue
// bottom-right, wound counter-clockwise.
var Triangle = []Vertex{
	{Position: [3]float32{0, 0.5, 0}, Color: [3]float32{1, 0, 0}},
	{Position: [3]float32{-0.5, -0.5, 0}, Color: [3]float32{0, 1, 0}},
	{Position: [3]float32{0.5, -0.5, 0}, Color: [3]float32{0, 0, 1}},
}

// TriangleIndices draws Triangle once.
var TriangleIndices = []uint16{0, 1, 2}

// Layout returns the vertex buffer layout of Vertex: position at shader
// location 0, color at location 1.
func Layout() gputypes.VertexBufferLayout {
	return gputypes.VertexBufferLayout{
		ArrayStride: VertexSize,
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes: []gputypes.VertexAttribute{
			{Format: gputypes.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			{Format: gputypes.VertexFormatFloat32x3, Offset: colorOffset, ShaderLocation: 1},
		},
	}
}

// VertexBytes packs vertices little-endian with no padding between fields
// or vertices.
func VertexBytes(vertices []Vertex) []byte {
	buf := make([]byte, 0, len(vertices)*VertexSize)
	for _, v := range vertices {
		for _, f := range v.Position {
			buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(f))
		}
		for _, f := range v.Color {
			buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(f))
		}
	}
	return buf
}

// IndexBytes packs 16-bit indices little-endian and pads the result to a
// multiple of 4 bytes, the copy alignment of buffer writes.
func IndexBytes(indices []uint16) []byte {
	buf := make([]byte, 0, align4(len(indices)*2))
	for _, i := range indices {
		buf = binary.LittleEndian.AppendUint16(buf, i)
	}
	for len(buf)%4 != 0 {
		buf = append(buf, 0)
	}
	return buf
}

func align4(n int) int {
	return (n + 3) &^ 3
}
