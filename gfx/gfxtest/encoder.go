package gfxtest

import (
	"errors"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/tri/gfx"
)

// Encoder is a recording gfx.CommandEncoder.
type Encoder struct {
	Label     string
	Passes    []*Pass
	Finished  bool
	Discarded bool

	dev *Device
}

// BeginRenderPass implements gfx.CommandEncoder.
func (e *Encoder) BeginRenderPass(desc *gfx.RenderPassDescriptor) (gfx.RenderPass, error) {
	if err := e.dev.fault("BeginRenderPass"); err != nil {
		return nil, err
	}
	if e.Finished {
		return nil, errors.New("gfxtest: encoder already finished")
	}
	for _, p := range e.Passes {
		if !p.Ended {
			return nil, errors.New("gfxtest: previous pass not ended")
		}
	}
	p := &Pass{Desc: *desc, VertexBuffers: make(map[uint32]gfx.Buffer), BindGroups: make(map[uint32]gfx.BindGroup), dev: e.dev}
	e.Passes = append(e.Passes, p)
	return p, nil
}

// Finish implements gfx.CommandEncoder.
func (e *Encoder) Finish() (gfx.CommandBuffer, error) {
	if err := e.dev.fault("Finish"); err != nil {
		return nil, err
	}
	for _, p := range e.Passes {
		if !p.Ended {
			return nil, errors.New("gfxtest: finish with open pass")
		}
	}
	e.Finished = true
	return &CommandBuffer{Resource: Resource{Label: e.Label}, Encoder: e}, nil
}

// Discard implements gfx.CommandEncoder.
func (e *Encoder) Discard() { e.Discarded = true }

// Draw is one recorded DrawIndexed call.
type Draw struct {
	IndexCount    uint32
	InstanceCount uint32
	FirstIndex    uint32
	BaseVertex    int32
	FirstInstance uint32

	// Scissor is the scissor rectangle in effect, zero if never set.
	Scissor [4]uint32
}

// Pass is a recording gfx.RenderPass.
type Pass struct {
	Desc          gfx.RenderPassDescriptor
	Pipeline      gfx.RenderPipeline
	VertexBuffers map[uint32]gfx.Buffer
	BindGroups    map[uint32]gfx.BindGroup
	IndexBuffer   gfx.Buffer
	IndexFormat   gputypes.IndexFormat
	Viewport      [6]float32
	Draws         []Draw
	Ended         bool

	dev     *Device
	scissor [4]uint32
}

// SetPipeline implements gfx.RenderPass.
func (p *Pass) SetPipeline(pl gfx.RenderPipeline) { p.Pipeline = pl }

// SetBindGroup implements gfx.RenderPass.
func (p *Pass) SetBindGroup(index uint32, group gfx.BindGroup, _ []uint32) {
	p.BindGroups[index] = group
}

// SetVertexBuffer implements gfx.RenderPass.
func (p *Pass) SetVertexBuffer(slot uint32, buf gfx.Buffer, _ uint64) {
	p.VertexBuffers[slot] = buf
}

// SetIndexBuffer implements gfx.RenderPass.
func (p *Pass) SetIndexBuffer(buf gfx.Buffer, format gputypes.IndexFormat, _ uint64) {
	p.IndexBuffer = buf
	p.IndexFormat = format
}

// SetViewport implements gfx.RenderPass.
func (p *Pass) SetViewport(x, y, width, height, minDepth, maxDepth float32) {
	p.Viewport = [6]float32{x, y, width, height, minDepth, maxDepth}
}

// SetScissorRect implements gfx.RenderPass.
func (p *Pass) SetScissorRect(x, y, width, height uint32) {
	p.scissor = [4]uint32{x, y, width, height}
}

// DrawIndexed implements gfx.RenderPass.
func (p *Pass) DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32) {
	p.Draws = append(p.Draws, Draw{
		IndexCount:    indexCount,
		InstanceCount: instanceCount,
		FirstIndex:    firstIndex,
		BaseVertex:    baseVertex,
		FirstInstance: firstInstance,
		Scissor:       p.scissor,
	})
}

// End implements gfx.RenderPass.
func (p *Pass) End() error {
	if err := p.dev.fault("EndPass"); err != nil {
		return err
	}
	if p.Ended {
		return errors.New("gfxtest: pass ended twice")
	}
	p.Ended = true
	return nil
}
