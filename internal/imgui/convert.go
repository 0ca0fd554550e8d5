package imgui

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/tri/host"
	"github.com/gogpu/tri/overlay"
)

// errLayout is returned when the vertex or index buffers of a draw list do
// not match the layout the library reports.
var errLayout = errors.New("imgui: unexpected buffer layout")

// vertexLayout describes one packed ImDrawVert.
type vertexLayout struct {
	size, pos, uv, col int
}

// command is a draw command as read from a draw list, before index
// offsets are assigned.
type command struct {
	elems    int
	clip     [4]float32
	texture  uintptr
	callback bool
}

func decodeVertices(b []byte, l vertexLayout) ([]overlay.Vertex, error) {
	if l.size <= 0 || len(b)%l.size != 0 || l.col+4 > l.size {
		return nil, fmt.Errorf("%w: %d vertex bytes, stride %d", errLayout, len(b), l.size)
	}
	le := binary.LittleEndian
	f32 := func(off int) float32 { return math.Float32frombits(le.Uint32(b[off:])) }

	out := make([]overlay.Vertex, len(b)/l.size)
	for i := range out {
		base := i * l.size
		out[i] = overlay.Vertex{
			Pos:   [2]float32{f32(base + l.pos), f32(base + l.pos + 4)},
			UV:    [2]float32{f32(base + l.uv), f32(base + l.uv + 4)},
			Color: le.Uint32(b[base+l.col:]),
		}
	}
	return out, nil
}

func decodeIndices(b []byte, size int) ([]uint16, error) {
	if size != 2 || len(b)%2 != 0 {
		return nil, fmt.Errorf("%w: %d index bytes, index size %d", errLayout, len(b), size)
	}
	out := make([]uint16, len(b)/2)
	for i := range out {
		out[i] = binary.LittleEndian.Uint16(b[2*i:])
	}
	return out, nil
}

// commands assigns each command the index range it draws. Dear ImGui lays
// commands out back to back in the list's index buffer; callbacks consume
// no indices and are dropped.
func commands(cmds []command) []overlay.DrawCommand {
	out := make([]overlay.DrawCommand, 0, len(cmds))
	offset := 0
	for _, c := range cmds {
		if c.callback {
			continue
		}
		out = append(out, overlay.DrawCommand{
			ElemCount:   uint32(c.elems),
			IndexOffset: uint32(offset),
			ClipRect:    c.clip,
			Texture:     overlay.TextureID(c.texture),
		})
		offset += c.elems
	}
	return out
}

// mouseButton is the Dear ImGui button index for b.
func mouseButton(b gpucontext.MouseButton) (int, bool) {
	switch b {
	case gpucontext.MouseButtonLeft:
		return 0, true
	case gpucontext.MouseButtonRight:
		return 1, true
	case gpucontext.MouseButtonMiddle:
		return 2, true
	}
	return 0, false
}

// isModifier reports whether k is a modifier key.
func isModifier(k gpucontext.Key) bool {
	switch k {
	case gpucontext.KeyLeftShift, gpucontext.KeyRightShift,
		gpucontext.KeyLeftControl, gpucontext.KeyRightControl,
		gpucontext.KeyLeftAlt, gpucontext.KeyRightAlt,
		gpucontext.KeyLeftSuper, gpucontext.KeyRightSuper:
		return true
	}
	return false
}

// inputText is the text a CharEvent adds, or "" for control characters.
func inputText(ev host.CharEvent) string {
	if ev.Char < 0x20 || ev.Char == 0x7f {
		return ""
	}
	return string(ev.Char)
}
