package geometry

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/tri/gfx"
)

// ErrEmptyGeometry is returned when there is nothing to draw.
var ErrEmptyGeometry = errors.New("geometry: no vertices or indices")

// Buffers owns the GPU-resident vertex and index buffers of the scene.
// They are written once at creation and released at shutdown.
type Buffers struct {
	Vertex      gfx.Buffer
	Index       gfx.Buffer
	IndexCount  uint32
	IndexFormat gputypes.IndexFormat
}

// NewTriangle uploads Triangle and TriangleIndices.
func NewTriangle(dev gfx.Device) (*Buffers, error) {
	return NewBuffers(dev, Triangle, TriangleIndices)
}

// NewBuffers creates vertex and index buffers and uploads the data through
// the device queue. Indices must address vertices.
func NewBuffers(dev gfx.Device, vertices []Vertex, indices []uint16) (*Buffers, error) {
	if len(vertices) == 0 || len(indices) == 0 {
		return nil, ErrEmptyGeometry
	}
	for i, idx := range indices {
		if int(idx) >= len(vertices) {
			return nil, fmt.Errorf("geometry: index %d at position %d out of range (%d vertices)", idx, i, len(vertices))
		}
	}

	vdata := VertexBytes(vertices)
	idata := IndexBytes(indices)

	vb, err := dev.CreateBuffer(&gfx.BufferDescriptor{
		Label: "Vertex Buffer",
		Size:  uint64(len(vdata)),
		Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("geometry: create vertex buffer: %w", err)
	}
	ib, err := dev.CreateBuffer(&gfx.BufferDescriptor{
		Label: "Index Buffer",
		Size:  uint64(len(idata)),
		Usage: gputypes.BufferUsageIndex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		vb.Release()
		return nil, fmt.Errorf("geometry: create index buffer: %w", err)
	}

	b := &Buffers{
		Vertex:      vb,
		Index:       ib,
		IndexCount:  uint32(len(indices)),
		IndexFormat: gputypes.IndexFormatUint16,
	}
	q := dev.Queue()
	if err := q.WriteBuffer(vb, 0, vdata); err != nil {
		b.Release()
		return nil, fmt.Errorf("geometry: upload vertices: %w", err)
	}
	if err := q.WriteBuffer(ib, 0, idata); err != nil {
		b.Release()
		return nil, fmt.Errorf("geometry: upload indices: %w", err)
	}
	return b, nil
}

// Release frees both buffers. Safe to call more than once.
func (b *Buffers) Release() {
	if b.Vertex != nil {
		b.Vertex.Release()
		b.Vertex = nil
	}
	if b.Index != nil {
		b.Index.Release()
		b.Index = nil
	}
}
