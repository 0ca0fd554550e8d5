package webgpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu"

	"github.com/gogpu/tri/gfx"
)

type encoder struct {
	enc      *wgpu.CommandEncoder
	finished bool
}

func (e *encoder) BeginRenderPass(desc *gfx.RenderPassDescriptor) (gfx.RenderPass, error) {
	attachments := make([]wgpu.RenderPassColorAttachment, len(desc.ColorAttachments))
	for i, a := range desc.ColorAttachments {
		view, err := unwrap[*wgpu.TextureView](a.View, "attachment view")
		if err != nil {
			return nil, err
		}
		attachments[i] = wgpu.RenderPassColorAttachment{
			View:       view,
			LoadOp:     a.LoadOp,
			StoreOp:    a.StoreOp,
			ClearValue: a.ClearValue,
		}
	}
	p, err := e.enc.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label:            desc.Label,
		ColorAttachments: attachments,
	})
	if err != nil {
		return nil, mapError(err)
	}
	return &pass{p: p}, nil
}

func (e *encoder) Finish() (gfx.CommandBuffer, error) {
	cb, err := e.enc.Finish()
	if err != nil {
		return nil, mapError(err)
	}
	e.finished = true
	return cb, nil
}

func (e *encoder) Discard() {
	if !e.finished {
		e.enc.DiscardEncoding()
		e.finished = true
	}
}

// pass adapts a wgpu render pass. Resources from another backend cannot be
// bound; the first such mismatch is reported by End.
type pass struct {
	p   *wgpu.RenderPassEncoder
	err error
}

func (p *pass) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}

func (p *pass) SetPipeline(rp gfx.RenderPipeline) {
	pl, err := unwrap[*wgpu.RenderPipeline](rp, "pipeline")
	if err != nil {
		p.fail(err)
		return
	}
	p.p.SetPipeline(pl)
}

func (p *pass) SetBindGroup(index uint32, group gfx.BindGroup, offsets []uint32) {
	g, err := unwrap[*wgpu.BindGroup](group, "bind group")
	if err != nil {
		p.fail(err)
		return
	}
	p.p.SetBindGroup(index, g, offsets)
}

func (p *pass) SetVertexBuffer(slot uint32, buf gfx.Buffer, offset uint64) {
	b, err := unwrap[*wgpu.Buffer](buf, "vertex buffer")
	if err != nil {
		p.fail(err)
		return
	}
	p.p.SetVertexBuffer(slot, b, offset)
}

func (p *pass) SetIndexBuffer(buf gfx.Buffer, format gputypes.IndexFormat, offset uint64) {
	b, err := unwrap[*wgpu.Buffer](buf, "index buffer")
	if err != nil {
		p.fail(err)
		return
	}
	p.p.SetIndexBuffer(b, format, offset)
}

func (p *pass) SetViewport(x, y, width, height, minDepth, maxDepth float32) {
	p.p.SetViewport(x, y, width, height, minDepth, maxDepth)
}

func (p *pass) SetScissorRect(x, y, width, height uint32) {
	p.p.SetScissorRect(x, y, width, height)
}

func (p *pass) DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32) {
	if p.err != nil {
		return
	}
	p.p.DrawIndexed(indexCount, instanceCount, firstIndex, baseVertex, firstInstance)
}

func (p *pass) End() error {
	err := mapError(p.p.End())
	if p.err != nil {
		return fmt.Errorf("webgpu: render pass: %w", errors.Join(p.err, err))
	}
	return err
}
