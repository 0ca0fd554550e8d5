// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package pipeline builds the fixed render pipeline of the triangle.
//
// The pipeline is immutable once built and is tied to one color target
// format. Callers rebuild it only when the presentation format changes.
package pipeline

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/tri/gfx"
	"github.com/gogpu/tri/shader"
)

// Pipeline is a render pipeline together with the objects it was built from.
type Pipeline struct {
	format   gputypes.TextureFormat
	vertex   gfx.ShaderModule
	fragment gfx.ShaderModule
	layout   gfx.PipelineLayout
	pipeline gfx.RenderPipeline
}

// Descriptor assembles the pipeline description:
//   - vertex input from layout, triangle list, counter-clockwise front faces,
//     back faces culled
//   - no depth/stencil state, so no depth bias
//   - one color target in format, replace blending, all channels written
//   - one sample per pixel, every sample enabled, no alpha-to-coverage
func Descriptor(format gputypes.TextureFormat, layout gfx.PipelineLayout, vs, fs gfx.ShaderModule, vertex gputypes.VertexBufferLayout) *gfx.RenderPipelineDescriptor {
	blend := gputypes.BlendStateReplace()
	return &gfx.RenderPipelineDescriptor{
		Label:  "Render Pipeline",
		Layout: layout,
		Vertex: gfx.VertexState{
			Module:     vs,
			EntryPoint: shader.EntryPoint,
			Buffers:    []gputypes.VertexBufferLayout{vertex},
		},
		Primitive: gputypes.PrimitiveState{
			Topology:  gputypes.PrimitiveTopologyTriangleList,
			FrontFace: gputypes.FrontFaceCCW,
			CullMode:  gputypes.CullModeBack,
		},
		Multisample: gputypes.MultisampleState{
			Count:                  1,
			Mask:                   0xFFFFFFFF,
			AlphaToCoverageEnabled: false,
		},
		Fragment: &gfx.FragmentState{
			Module:     fs,
			EntryPoint: shader.EntryPoint,
			Targets: []gputypes.ColorTargetState{{
				Format:    format,
				Blend:     &blend,
				WriteMask: gputypes.ColorWriteMaskAll,
			}},
		},
	}
}

// Build compiles both shader stages and creates the pipeline for format.
// Any failure here is a startup failure.
func Build(dev gfx.Device, format gputypes.TextureFormat, vertex gputypes.VertexBufferLayout) (*Pipeline, error) {
	if format == gputypes.TextureFormatUndefined {
		return nil, fmt.Errorf("pipeline: undefined target format")
	}

	p := &Pipeline{format: format}
	var err error
	if p.vertex, err = shader.CreateModule(dev, shader.Vertex); err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	if p.fragment, err = shader.CreateModule(dev, shader.Fragment); err != nil {
		p.Release()
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	p.layout, err = dev.CreatePipelineLayout(&gfx.PipelineLayoutDescriptor{Label: "Pipeline Layout"})
	if err != nil {
		p.Release()
		return nil, fmt.Errorf("pipeline: create layout: %w", err)
	}
	p.pipeline, err = dev.CreateRenderPipeline(Descriptor(format, p.layout, p.vertex, p.fragment, vertex))
	if err != nil {
		p.Release()
		return nil, fmt.Errorf("pipeline: create render pipeline: %w", err)
	}
	return p, nil
}

// Format returns the color target format the pipeline was built for.
func (p *Pipeline) Format() gputypes.TextureFormat { return p.format }

// Handle returns the device pipeline object.
func (p *Pipeline) Handle() gfx.RenderPipeline { return p.pipeline }

// Release frees the pipeline, its layout and both shader modules.
func (p *Pipeline) Release() {
	for _, r := range []gfx.Resource{p.pipeline, p.layout, p.fragment, p.vertex} {
		if r != nil {
			r.Release()
		}
	}
	p.pipeline, p.layout, p.fragment, p.vertex = nil, nil, nil, nil
}
