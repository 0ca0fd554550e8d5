package gfx

import (
	"slices"

	"github.com/gogpu/gputypes"
)

// BufferDescriptor describes a buffer.
type BufferDescriptor struct {
	Label string
	Size  uint64
	Usage gputypes.BufferUsage
}

// TextureDescriptor describes a single-sampled 2D texture with one mip level.
type TextureDescriptor struct {
	Label  string
	Width  uint32
	Height uint32
	Format gputypes.TextureFormat
	Usage  gputypes.TextureUsage
}

// SamplerDescriptor describes a sampler. The address mode applies to all axes,
// the filter to magnification, minification and mipmaps.
type SamplerDescriptor struct {
	Label       string
	AddressMode gputypes.AddressMode
	Filter      gputypes.FilterMode
}

// ShaderModuleDescriptor carries exactly one of WGSL or SPIRV.
type ShaderModuleDescriptor struct {
	Label string
	WGSL  string
	SPIRV []uint32
}

// BindGroupLayoutDescriptor describes a bind group layout.
type BindGroupLayoutDescriptor struct {
	Label   string
	Entries []gputypes.BindGroupLayoutEntry
}

// BindGroupEntry binds one resource. Exactly one of Buffer, Sampler or
// TextureView is set.
type BindGroupEntry struct {
	Binding     uint32
	Buffer      Buffer
	Offset      uint64
	Size        uint64
	Sampler     Sampler
	TextureView TextureView
}

// BindGroupDescriptor describes a bind group.
type BindGroupDescriptor struct {
	Label   string
	Layout  BindGroupLayout
	Entries []BindGroupEntry
}

// PipelineLayoutDescriptor describes a pipeline layout.
type PipelineLayoutDescriptor struct {
	Label            string
	BindGroupLayouts []BindGroupLayout
}

// VertexState is the vertex stage of a render pipeline.
type VertexState struct {
	Module     ShaderModule
	EntryPoint string
	Buffers    []gputypes.VertexBufferLayout
}

// FragmentState is the fragment stage of a render pipeline.
type FragmentState struct {
	Module     ShaderModule
	EntryPoint string
	Targets    []gputypes.ColorTargetState
}

// RenderPipelineDescriptor describes a render pipeline. Pipelines built
// through this package never attach a depth/stencil state.
type RenderPipelineDescriptor struct {
	Label       string
	Layout      PipelineLayout
	Vertex      VertexState
	Primitive   gputypes.PrimitiveState
	Multisample gputypes.MultisampleState
	Fragment    *FragmentState
}

// ColorAttachment is one color target of a render pass.
type ColorAttachment struct {
	View       TextureView
	LoadOp     gputypes.LoadOp
	StoreOp    gputypes.StoreOp
	ClearValue gputypes.Color
}

// RenderPassDescriptor describes a render pass.
type RenderPassDescriptor struct {
	Label            string
	ColorAttachments []ColorAttachment
}

// SurfaceConfiguration configures a surface's presentation chain.
type SurfaceConfiguration struct {
	Width       uint32
	Height      uint32
	Format      gputypes.TextureFormat
	Usage       gputypes.TextureUsage
	PresentMode gputypes.PresentMode
	AlphaMode   gputypes.CompositeAlphaMode
}

// SurfaceCapabilities lists what a surface supports. Slices are in the
// backend's preference order.
type SurfaceCapabilities struct {
	Formats      []gputypes.TextureFormat
	PresentModes []gputypes.PresentMode
	AlphaModes   []gputypes.CompositeAlphaMode
}

// SupportsFormat reports whether f is among the supported formats.
func (c SurfaceCapabilities) SupportsFormat(f gputypes.TextureFormat) bool {
	return slices.Contains(c.Formats, f)
}

// SupportsPresentMode reports whether m is among the supported present modes.
func (c SurfaceCapabilities) SupportsPresentMode(m gputypes.PresentMode) bool {
	return slices.Contains(c.PresentModes, m)
}

// SupportsAlphaMode reports whether m is among the supported alpha modes.
func (c SurfaceCapabilities) SupportsAlphaMode(m gputypes.CompositeAlphaMode) bool {
	return slices.Contains(c.AlphaModes, m)
}
