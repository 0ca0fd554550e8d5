package overlay

import (
	"errors"
	"fmt"
	"math"
)

// ErrMalformedDrawData is wrapped by every draw data validation failure.
var ErrMalformedDrawData = errors.New("overlay: malformed draw data")

// TextureID names a texture referenced by draw commands.
type TextureID uintptr

// FontTexture is the ID of the font atlas, the only texture the overlay
// renderer owns.
const FontTexture TextureID = 1

// Vertex is one UI vertex in logical display coordinates. Color is packed
// RGBA with red in the low byte.
type Vertex struct {
	Pos   [2]float32
	UV    [2]float32
	Color uint32
}

// VertexSize is the byte size of one packed Vertex.
const VertexSize = 20

// RGBA packs an 8-bit color into Vertex.Color layout.
func RGBA(r, g, b, a uint8) uint32 {
	return uint32(r) | uint32(g)<<8 | uint32(b)<<16 | uint32(a)<<24
}

// DrawCommand draws ElemCount indices starting at IndexOffset of its list,
// clipped to ClipRect (min x, min y, max x, max y in display coordinates).
type DrawCommand struct {
	ElemCount   uint32
	IndexOffset uint32
	ClipRect    [4]float32
	Texture     TextureID
}

// DrawList is one UI layer. Indices address Vertices of the same list.
type DrawList struct {
	Vertices []Vertex
	Indices  []uint16
	Commands []DrawCommand
}

// DrawData is everything the UI produced for one frame.
type DrawData struct {
	DisplayPos       [2]float32
	DisplaySize      [2]float32
	FramebufferScale [2]float32
	Lists            []DrawList
}

// Counts returns the total vertex and index counts over all lists.
func (d *DrawData) Counts() (vertices, indices int) {
	for i := range d.Lists {
		vertices += len(d.Lists[i].Vertices)
		indices += len(d.Lists[i].Indices)
	}
	return vertices, indices
}

// Validate checks that every command stays inside its list's buffers and
// every index addresses an existing vertex.
func (d *DrawData) Validate() error {
	if d == nil {
		return fmt.Errorf("%w: nil", ErrMalformedDrawData)
	}
	for _, v := range []float32{d.DisplaySize[0], d.DisplaySize[1], d.FramebufferScale[0], d.FramebufferScale[1]} {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) || v < 0 {
			return fmt.Errorf("%w: display size %v scale %v", ErrMalformedDrawData, d.DisplaySize, d.FramebufferScale)
		}
	}
	for li := range d.Lists {
		l := &d.Lists[li]
		if len(l.Vertices) > math.MaxUint16+1 {
			return fmt.Errorf("%w: list %d has %d vertices, more than 16-bit indices address",
				ErrMalformedDrawData, li, len(l.Vertices))
		}
		for ii, idx := range l.Indices {
			if int(idx) >= len(l.Vertices) {
				return fmt.Errorf("%w: list %d index %d = %d, only %d vertices",
					ErrMalformedDrawData, li, ii, idx, len(l.Vertices))
			}
		}
		for ci, c := range l.Commands {
			if uint64(c.IndexOffset)+uint64(c.ElemCount) > uint64(len(l.Indices)) {
				return fmt.Errorf("%w: list %d command %d reads indices [%d, %d) of %d",
					ErrMalformedDrawData, li, ci, c.IndexOffset, c.IndexOffset+c.ElemCount, len(l.Indices))
			}
		}
	}
	return nil
}
