package overlay

import (
	_ "embed"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/tri/gfx"
	"github.com/gogpu/tri/shader"
)

//go:embed overlay.wgsl
var overlaySource string

const uniformSize = 32

// Renderer translates DrawData into GPU commands drawn over an existing
// color target.
type Renderer struct {
	device    gfx.Device
	format    gputypes.TextureFormat
	linearize bool

	module     gfx.ShaderModule
	bindLayout gfx.BindGroupLayout
	layout     gfx.PipelineLayout
	pipeline   gfx.RenderPipeline
	uniforms   gfx.Buffer
	sampler    gfx.Sampler
	font       gfx.Texture
	fontView   gfx.TextureView
	bindGroup  gfx.BindGroup

	vertices gfx.Buffer
	indices  gfx.Buffer
}

// vertexLayout is the buffer layout of Vertex.
func vertexLayout() gputypes.VertexBufferLayout {
	return gputypes.VertexBufferLayout{
		ArrayStride: VertexSize,
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes: []gputypes.VertexAttribute{
			{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
			{Format: gputypes.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},
			{Format: gputypes.VertexFormatUnorm8x4, Offset: 16, ShaderLocation: 2},
		},
	}
}

// NewRenderer creates the overlay pipeline for format and uploads font.
func NewRenderer(dev gfx.Device, format gputypes.TextureFormat, font Image) (*Renderer, error) {
	if font.Width <= 0 || font.Height <= 0 || len(font.Pixels) < font.Width*font.Height*4 {
		return nil, fmt.Errorf("overlay: invalid font atlas %dx%d (%d bytes)", font.Width, font.Height, len(font.Pixels))
	}
	r := &Renderer{device: dev, format: format, linearize: format.IsSrgb()}
	if err := r.createPipeline(); err != nil {
		r.Release()
		return nil, err
	}
	if err := r.createBindings(font); err != nil {
		r.Release()
		return nil, err
	}
	return r, nil
}

func (r *Renderer) createPipeline() error {
	var err error
	r.module, err = shader.CreateModule(r.device, shader.Source{Label: "overlay", WGSL: overlaySource})
	if err != nil {
		return fmt.Errorf("overlay: %w", err)
	}
	r.bindLayout, err = r.device.CreateBindGroupLayout(&gfx.BindGroupLayoutDescriptor{
		Label: "Overlay Bind Group Layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
			{
				Binding:    2,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("overlay: create bind group layout: %w", err)
	}
	r.layout, err = r.device.CreatePipelineLayout(&gfx.PipelineLayoutDescriptor{
		Label:            "Overlay Pipeline Layout",
		BindGroupLayouts: []gfx.BindGroupLayout{r.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("overlay: create pipeline layout: %w", err)
	}

	blend := gputypes.BlendStateAlpha()
	r.pipeline, err = r.device.CreateRenderPipeline(&gfx.RenderPipelineDescriptor{
		Label:  "Overlay Pipeline",
		Layout: r.layout,
		Vertex: gfx.VertexState{
			Module:     r.module,
			EntryPoint: "vs_main",
			Buffers:    []gputypes.VertexBufferLayout{vertexLayout()},
		},
		Primitive: gputypes.PrimitiveState{
			Topology:  gputypes.PrimitiveTopologyTriangleList,
			FrontFace: gputypes.FrontFaceCCW,
			CullMode:  gputypes.CullModeNone,
		},
		Multisample: gputypes.DefaultMultisampleState(),
		Fragment: &gfx.FragmentState{
			Module:     r.module,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{{
				Format:    r.format,
				Blend:     &blend,
				WriteMask: gputypes.ColorWriteMaskAll,
			}},
		},
	})
	if err != nil {
		return fmt.Errorf("overlay: create pipeline: %w", err)
	}
	return nil
}

func (r *Renderer) createBindings(font Image) error {
	var err error
	r.uniforms, err = r.device.CreateBuffer(&gfx.BufferDescriptor{
		Label: "Overlay Uniforms",
		Size:  uniformSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("overlay: create uniform buffer: %w", err)
	}
	r.sampler, err = r.device.CreateSampler(&gfx.SamplerDescriptor{
		Label:       "Overlay Sampler",
		AddressMode: gputypes.AddressModeClampToEdge,
		Filter:      gputypes.FilterModeLinear,
	})
	if err != nil {
		return fmt.Errorf("overlay: create sampler: %w", err)
	}

	w, h := uint32(font.Width), uint32(font.Height)
	r.font, err = r.device.CreateTexture(&gfx.TextureDescriptor{
		Label:  "Overlay Font Atlas",
		Width:  w,
		Height: h,
		Format: gputypes.TextureFormatRGBA8Unorm,
		Usage:  gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("overlay: create font texture: %w", err)
	}
	if err := r.device.Queue().WriteTexture(r.font, font.Pixels, 4*w, w, h); err != nil {
		return fmt.Errorf("overlay: upload font atlas: %w", err)
	}
	r.fontView, err = r.device.CreateTextureView(r.font, "Overlay Font Atlas View")
	if err != nil {
		return fmt.Errorf("overlay: create font view: %w", err)
	}

	r.bindGroup, err = r.device.CreateBindGroup(&gfx.BindGroupDescriptor{
		Label:  "Overlay Bind Group",
		Layout: r.bindLayout,
		Entries: []gfx.BindGroupEntry{
			{Binding: 0, Buffer: r.uniforms, Size: uniformSize},
			{Binding: 1, Sampler: r.sampler},
			{Binding: 2, TextureView: r.fontView},
		},
	})
	if err != nil {
		return fmt.Errorf("overlay: create bind group: %w", err)
	}
	return nil
}

// drawCall is one scissored indexed draw into the shared buffers.
type drawCall struct {
	scissor    [4]uint32
	count      uint32
	firstIndex uint32
	baseVertex int32
}

// frameUpload is a validated frame ready to be written and drawn.
type frameUpload struct {
	uniforms []byte
	vertices []byte
	indices  []byte
	calls    []drawCall
}

// prepare validates data and flattens it into upload buffers and clipped
// draw calls. It touches no GPU state.
func (r *Renderer) prepare(data *DrawData, fbWidth, fbHeight int) (*frameUpload, error) {
	if err := data.Validate(); err != nil {
		return nil, err
	}
	nv, ni := data.Counts()
	up := &frameUpload{
		uniforms: projection(data, r.linearize),
		vertices: make([]byte, 0, nv*VertexSize),
		indices:  make([]byte, 0, align4(ni*2)),
	}

	fbw, fbh := float32(fbWidth), float32(fbHeight)
	sx, sy := data.FramebufferScale[0], data.FramebufferScale[1]
	var baseVertex, baseIndex uint32
	for li := range data.Lists {
		l := &data.Lists[li]
		for ci, c := range l.Commands {
			if c.Texture != FontTexture {
				return nil, fmt.Errorf("%w: list %d command %d uses unknown texture %d",
					ErrMalformedDrawData, li, ci, c.Texture)
			}
			x0 := clampf((c.ClipRect[0]-data.DisplayPos[0])*sx, 0, fbw)
			y0 := clampf((c.ClipRect[1]-data.DisplayPos[1])*sy, 0, fbh)
			x1 := clampf((c.ClipRect[2]-data.DisplayPos[0])*sx, 0, fbw)
			y1 := clampf((c.ClipRect[3]-data.DisplayPos[1])*sy, 0, fbh)
			if x1 <= x0 || y1 <= y0 || c.ElemCount == 0 {
				continue
			}
			up.calls = append(up.calls, drawCall{
				scissor:    [4]uint32{uint32(x0), uint32(y0), uint32(x1 - x0), uint32(y1 - y0)},
				count:      c.ElemCount,
				firstIndex: baseIndex + c.IndexOffset,
				baseVertex: int32(baseVertex),
			})
		}
		for _, v := range l.Vertices {
			up.vertices = appendVertex(up.vertices, v)
		}
		for _, i := range l.Indices {
			up.indices = binary.LittleEndian.AppendUint16(up.indices, i)
		}
		baseVertex += uint32(len(l.Vertices))
		baseIndex += uint32(len(l.Indices))
	}
	for len(up.indices)%4 != 0 {
		up.indices = append(up.indices, 0)
	}
	return up, nil
}

// Record validates data, uploads it and records one render pass that draws
// it over target. Nothing is recorded when data fails validation. Data with
// nothing visible still records the pass, without draws. If ending the pass
// fails, the pass has already been recorded and enc is no longer usable.
func (r *Renderer) Record(enc gfx.CommandEncoder, target gfx.TextureView, fbWidth, fbHeight int, data *DrawData) error {
	up, err := r.prepare(data, fbWidth, fbHeight)
	if err != nil {
		return err
	}
	if len(up.calls) > 0 {
		if err := r.upload(up); err != nil {
			return err
		}
	}

	pass, err := enc.BeginRenderPass(&gfx.RenderPassDescriptor{
		Label: "Overlay Pass",
		ColorAttachments: []gfx.ColorAttachment{{
			View:    target,
			LoadOp:  gputypes.LoadOpLoad,
			StoreOp: gputypes.StoreOpStore,
		}},
	})
	if err != nil {
		return fmt.Errorf("overlay: begin pass: %w", err)
	}
	if len(up.calls) > 0 {
		pass.SetPipeline(r.pipeline)
		pass.SetBindGroup(0, r.bindGroup, nil)
		pass.SetVertexBuffer(0, r.vertices, 0)
		pass.SetIndexBuffer(r.indices, gputypes.IndexFormatUint16, 0)
		pass.SetViewport(0, 0, float32(fbWidth), float32(fbHeight), 0, 1)
	}
	for _, c := range up.calls {
		pass.SetScissorRect(c.scissor[0], c.scissor[1], c.scissor[2], c.scissor[3])
		pass.DrawIndexed(c.count, 1, c.firstIndex, c.baseVertex, 0)
	}
	if err := pass.End(); err != nil {
		return fmt.Errorf("overlay: end pass: %w", err)
	}
	return nil
}

func (r *Renderer) upload(up *frameUpload) error {
	var err error
	if r.vertices, err = r.ensure(r.vertices, uint64(len(up.vertices)), "Overlay Vertices", gputypes.BufferUsageVertex); err != nil {
		return err
	}
	if r.indices, err = r.ensure(r.indices, uint64(len(up.indices)), "Overlay Indices", gputypes.BufferUsageIndex); err != nil {
		return err
	}
	q := r.device.Queue()
	if err := q.WriteBuffer(r.uniforms, 0, up.uniforms); err != nil {
		return fmt.Errorf("overlay: write uniforms: %w", err)
	}
	if err := q.WriteBuffer(r.vertices, 0, up.vertices); err != nil {
		return fmt.Errorf("overlay: write vertices: %w", err)
	}
	if err := q.WriteBuffer(r.indices, 0, up.indices); err != nil {
		return fmt.Errorf("overlay: write indices: %w", err)
	}
	return nil
}

// ensure returns buf if it holds at least size bytes, otherwise a new
// buffer with room to grow.
func (r *Renderer) ensure(buf gfx.Buffer, size uint64, label string, usage gputypes.BufferUsage) (gfx.Buffer, error) {
	if buf != nil && buf.Size() >= size {
		return buf, nil
	}
	newSize := size
	if buf != nil {
		newSize = max(size, buf.Size()*2)
		buf.Release()
	}
	newSize = uint64(align4(int(newSize)))
	nb, err := r.device.CreateBuffer(&gfx.BufferDescriptor{
		Label: label,
		Size:  newSize,
		Usage: usage | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("overlay: grow %s to %d bytes: %w", label, newSize, err)
	}
	slogger().Debug("overlay: buffer grown", "label", label, "size", newSize)
	return nb, nil
}

// Release frees every GPU object of the renderer.
func (r *Renderer) Release() {
	for _, res := range []gfx.Resource{
		r.vertices, r.indices, r.bindGroup, r.fontView, r.font, r.sampler,
		r.uniforms, r.pipeline, r.layout, r.bindLayout, r.module,
	} {
		if res != nil {
			res.Release()
		}
	}
	*r = Renderer{device: r.device, format: r.format}
}

// projection maps the display rectangle to clip space with y pointing down.
func projection(data *DrawData, linearize bool) []byte {
	l, t := data.DisplayPos[0], data.DisplayPos[1]
	w, h := data.DisplaySize[0], data.DisplaySize[1]
	if w == 0 {
		w = 1
	}
	if h == 0 {
		h = 1
	}
	sx, sy := 2/w, -2/h
	vals := [8]float32{sx, sy, -1 - l*sx, 1 - t*sy}
	if linearize {
		vals[4] = 1
	}
	buf := make([]byte, 0, uniformSize)
	for _, v := range vals {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v))
	}
	return buf
}

func appendVertex(buf []byte, v Vertex) []byte {
	buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v.Pos[0]))
	buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v.Pos[1]))
	buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v.UV[0]))
	buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v.UV[1]))
	return binary.LittleEndian.AppendUint32(buf, v.Color)
}

func clampf(v, lo, hi float32) float32 {
	return min(max(v, lo), hi)
}

func align4(n int) int {
	return (n + 3) &^ 3
}
