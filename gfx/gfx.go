// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gfx defines the narrow GPU surface the renderer is written against.
//
// The interfaces mirror the subset of WebGPU that a single-pass forward
// renderer needs: buffers, textures, samplers, shader modules, bind groups,
// pipelines, command encoders and render passes, plus a presentable surface.
// Descriptor types reuse [gputypes] for every enum and fixed-function state,
// so values built here can be handed to github.com/gogpu/wgpu unchanged.
//
// The production implementation lives in backend/webgpu. Tests use the
// recording implementation in gfx/gfxtest.
package gfx

import (
	"errors"

	"github.com/gogpu/gputypes"
)

// Errors reported by Surface.Acquire. Backends translate their native
// errors into these so callers can classify failures with errors.Is.
var (
	// ErrTimeout means no drawable image became ready within the backend's
	// acquisition timeout.
	ErrTimeout = errors.New("gfx: acquire timeout")

	// ErrOutdated means the surface no longer matches its configuration
	// (window resized, display changed) and must be reconfigured.
	ErrOutdated = errors.New("gfx: surface outdated")

	// ErrSurfaceLost means the surface was lost and must be reconfigured
	// from fresh capabilities.
	ErrSurfaceLost = errors.New("gfx: surface lost")

	// ErrDeviceLost means the logical device is gone. Not recoverable.
	ErrDeviceLost = errors.New("gfx: device lost")
)

// Resource is any GPU object with explicit lifetime.
type Resource interface {
	Release()
}

// Buffer is a linear GPU allocation.
type Buffer interface {
	Resource
	Size() uint64
}

// Texture is a GPU image.
type Texture interface {
	Resource
}

// TextureView is a view of a texture usable as an attachment or binding.
type TextureView interface {
	Resource
}

// Sampler is a texture sampler.
type Sampler interface {
	Resource
}

// ShaderModule is a compiled shader module.
type ShaderModule interface {
	Resource
}

// BindGroupLayout describes the shape of a bind group.
type BindGroupLayout interface {
	Resource
}

// BindGroup binds resources to a pipeline.
type BindGroup interface {
	Resource
}

// PipelineLayout lists the bind group layouts of a pipeline.
type PipelineLayout interface {
	Resource
}

// RenderPipeline is an immutable render pipeline state object.
type RenderPipeline interface {
	Resource
}

// CommandBuffer is a finished, submittable command list.
type CommandBuffer interface {
	Resource
}

// Device creates GPU resources and command encoders.
type Device interface {
	// Backend reports the graphics API the device runs on.
	Backend() gputypes.Backend

	// AdapterInfo describes the physical adapter behind the device.
	AdapterInfo() gputypes.AdapterInfo

	Queue() Queue

	CreateBuffer(desc *BufferDescriptor) (Buffer, error)
	CreateTexture(desc *TextureDescriptor) (Texture, error)
	CreateTextureView(tex Texture, label string) (TextureView, error)
	CreateSampler(desc *SamplerDescriptor) (Sampler, error)
	CreateShaderModule(desc *ShaderModuleDescriptor) (ShaderModule, error)
	CreateBindGroupLayout(desc *BindGroupLayoutDescriptor) (BindGroupLayout, error)
	CreateBindGroup(desc *BindGroupDescriptor) (BindGroup, error)
	CreatePipelineLayout(desc *PipelineLayoutDescriptor) (PipelineLayout, error)
	CreateRenderPipeline(desc *RenderPipelineDescriptor) (RenderPipeline, error)
	CreateCommandEncoder(label string) (CommandEncoder, error)

	// WaitIdle blocks until all submitted work has completed.
	WaitIdle() error
}

// Queue uploads data and submits command buffers.
type Queue interface {
	// WriteBuffer copies data into buf at offset. len(data) must be a
	// multiple of 4.
	WriteBuffer(buf Buffer, offset uint64, data []byte) error

	// WriteTexture uploads a tightly described 2D region at the origin of
	// mip level 0.
	WriteTexture(tex Texture, data []byte, bytesPerRow, width, height uint32) error

	Submit(cmds ...CommandBuffer) error
}

// CommandEncoder records passes into a command buffer.
type CommandEncoder interface {
	BeginRenderPass(desc *RenderPassDescriptor) (RenderPass, error)
	Finish() (CommandBuffer, error)

	// Discard abandons the recording. Safe to call after Finish.
	Discard()
}

// RenderPass records draw commands for one set of attachments.
type RenderPass interface {
	SetPipeline(p RenderPipeline)
	SetBindGroup(index uint32, group BindGroup, offsets []uint32)
	SetVertexBuffer(slot uint32, buf Buffer, offset uint64)
	SetIndexBuffer(buf Buffer, format gputypes.IndexFormat, offset uint64)
	SetViewport(x, y, width, height, minDepth, maxDepth float32)
	SetScissorRect(x, y, width, height uint32)
	DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32)
	End() error
}

// Surface is a presentable window surface bound to one adapter.
type Surface interface {
	// Capabilities reports what the surface supports on the device's adapter.
	Capabilities() SurfaceCapabilities

	Configure(cfg *SurfaceConfiguration) error
	Unconfigure()

	// Acquire blocks until the next drawable image is ready or the backend's
	// timeout elapses. suboptimal reports that the image is usable but the
	// surface should be reconfigured soon.
	Acquire() (tex SurfaceTexture, suboptimal bool, err error)

	Present(tex SurfaceTexture) error

	// Discard returns an acquired image without presenting it.
	Discard()

	Release()
}

// SurfaceTexture is a drawable image acquired from a Surface.
type SurfaceTexture interface {
	CreateView() (TextureView, error)
}
