package webgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu"

	"github.com/gogpu/tri/gfx"
)

// Device implements gfx.Device on a wgpu logical device. Resources it
// creates are the wgpu objects themselves.
type Device struct {
	dev     *wgpu.Device
	adapter *wgpu.Adapter
	queue   *Queue
	info    gputypes.AdapterInfo
}

var _ gfx.Device = (*Device)(nil)

func newDevice(dev *wgpu.Device, adapter *wgpu.Adapter) *Device {
	return &Device{dev: dev, adapter: adapter, queue: &Queue{q: dev.Queue()}, info: adapter.Info()}
}

// Backend implements gfx.Device.
func (d *Device) Backend() gputypes.Backend { return d.info.Backend }

// AdapterInfo implements gfx.Device.
func (d *Device) AdapterInfo() gputypes.AdapterInfo { return d.info }

// Queue implements gfx.Device.
func (d *Device) Queue() gfx.Queue { return d.queue }

// Raw returns the wgpu device.
func (d *Device) Raw() *wgpu.Device { return d.dev }

// Adapter returns the *wgpu.Adapter the device was requested from.
func (d *Device) Adapter() any { return d.adapter }

func (d *Device) CreateBuffer(desc *gfx.BufferDescriptor) (gfx.Buffer, error) {
	b, err := d.dev.CreateBuffer(&wgpu.BufferDescriptor{
		Label: desc.Label,
		Size:  desc.Size,
		Usage: desc.Usage,
	})
	if err != nil {
		return nil, mapError(err)
	}
	return b, nil
}

func (d *Device) CreateTexture(desc *gfx.TextureDescriptor) (gfx.Texture, error) {
	t, err := d.dev.CreateTexture(&wgpu.TextureDescriptor{
		Label:         desc.Label,
		Size:          wgpu.Extent3D{Width: desc.Width, Height: desc.Height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        desc.Format,
		Usage:         desc.Usage,
	})
	if err != nil {
		return nil, mapError(err)
	}
	return t, nil
}

func (d *Device) CreateTextureView(tex gfx.Texture, label string) (gfx.TextureView, error) {
	t, err := unwrap[*wgpu.Texture](tex, "texture")
	if err != nil {
		return nil, err
	}
	v, err := d.dev.CreateTextureView(t, &wgpu.TextureViewDescriptor{
		Label:           label,
		Dimension:       gputypes.TextureViewDimension2D,
		Aspect:          gputypes.TextureAspectAll,
		MipLevelCount:   1,
		ArrayLayerCount: 1,
	})
	if err != nil {
		return nil, mapError(err)
	}
	return v, nil
}

func (d *Device) CreateSampler(desc *gfx.SamplerDescriptor) (gfx.Sampler, error) {
	s, err := d.dev.CreateSampler(&wgpu.SamplerDescriptor{
		Label:        desc.Label,
		AddressModeU: desc.AddressMode,
		AddressModeV: desc.AddressMode,
		AddressModeW: desc.AddressMode,
		MagFilter:    desc.Filter,
		MinFilter:    desc.Filter,
		MipmapFilter: desc.Filter,
		LodMaxClamp:  32,
		Anisotropy:   1,
	})
	if err != nil {
		return nil, mapError(err)
	}
	return s, nil
}

func (d *Device) CreateShaderModule(desc *gfx.ShaderModuleDescriptor) (gfx.ShaderModule, error) {
	m, err := d.dev.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: desc.Label,
		WGSL:  desc.WGSL,
		SPIRV: desc.SPIRV,
	})
	if err != nil {
		return nil, mapError(err)
	}
	return m, nil
}

func (d *Device) CreateBindGroupLayout(desc *gfx.BindGroupLayoutDescriptor) (gfx.BindGroupLayout, error) {
	l, err := d.dev.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   desc.Label,
		Entries: desc.Entries,
	})
	if err != nil {
		return nil, mapError(err)
	}
	return l, nil
}

func (d *Device) CreateBindGroup(desc *gfx.BindGroupDescriptor) (gfx.BindGroup, error) {
	layout, err := unwrap[*wgpu.BindGroupLayout](desc.Layout, "bind group layout")
	if err != nil {
		return nil, err
	}
	entries := make([]wgpu.BindGroupEntry, len(desc.Entries))
	for i, e := range desc.Entries {
		entries[i] = wgpu.BindGroupEntry{Binding: e.Binding, Offset: e.Offset, Size: e.Size}
		switch {
		case e.Buffer != nil:
			entries[i].Buffer, err = unwrap[*wgpu.Buffer](e.Buffer, "buffer")
		case e.Sampler != nil:
			entries[i].Sampler, err = unwrap[*wgpu.Sampler](e.Sampler, "sampler")
		case e.TextureView != nil:
			entries[i].TextureView, err = unwrap[*wgpu.TextureView](e.TextureView, "texture view")
		default:
			err = fmt.Errorf("webgpu: bind group entry %d binds nothing", e.Binding)
		}
		if err != nil {
			return nil, err
		}
	}
	g, err := d.dev.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   desc.Label,
		Layout:  layout,
		Entries: entries,
	})
	if err != nil {
		return nil, mapError(err)
	}
	return g, nil
}

func (d *Device) CreatePipelineLayout(desc *gfx.PipelineLayoutDescriptor) (gfx.PipelineLayout, error) {
	layouts := make([]*wgpu.BindGroupLayout, len(desc.BindGroupLayouts))
	for i, l := range desc.BindGroupLayouts {
		var err error
		if layouts[i], err = unwrap[*wgpu.BindGroupLayout](l, "bind group layout"); err != nil {
			return nil, err
		}
	}
	l, err := d.dev.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            desc.Label,
		BindGroupLayouts: layouts,
	})
	if err != nil {
		return nil, mapError(err)
	}
	return l, nil
}

func (d *Device) CreateRenderPipeline(desc *gfx.RenderPipelineDescriptor) (gfx.RenderPipeline, error) {
	layout, err := unwrap[*wgpu.PipelineLayout](desc.Layout, "pipeline layout")
	if err != nil {
		return nil, err
	}
	vs, err := unwrap[*wgpu.ShaderModule](desc.Vertex.Module, "vertex module")
	if err != nil {
		return nil, err
	}
	wdesc := &wgpu.RenderPipelineDescriptor{
		Label:  desc.Label,
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     vs,
			EntryPoint: desc.Vertex.EntryPoint,
			Buffers:    desc.Vertex.Buffers,
		},
		Primitive:   desc.Primitive,
		Multisample: desc.Multisample,
	}
	if desc.Fragment != nil {
		fs, err := unwrap[*wgpu.ShaderModule](desc.Fragment.Module, "fragment module")
		if err != nil {
			return nil, err
		}
		wdesc.Fragment = &wgpu.FragmentState{
			Module:     fs,
			EntryPoint: desc.Fragment.EntryPoint,
			Targets:    desc.Fragment.Targets,
		}
	}
	p, err := d.dev.CreateRenderPipeline(wdesc)
	if err != nil {
		return nil, mapError(err)
	}
	return p, nil
}

func (d *Device) CreateCommandEncoder(label string) (gfx.CommandEncoder, error) {
	enc, err := d.dev.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{Label: label})
	if err != nil {
		return nil, mapError(err)
	}
	return &encoder{enc: enc}, nil
}

// WaitIdle implements gfx.Device.
func (d *Device) WaitIdle() error { return mapError(d.dev.WaitIdle()) }

// Release destroys the logical device.
func (d *Device) Release() { d.dev.Release() }

// Queue implements gfx.Queue.
type Queue struct {
	q *wgpu.Queue
}

func (q *Queue) WriteBuffer(buf gfx.Buffer, offset uint64, data []byte) error {
	b, err := unwrap[*wgpu.Buffer](buf, "buffer")
	if err != nil {
		return err
	}
	return mapError(q.q.WriteBuffer(b, offset, data))
}

func (q *Queue) WriteTexture(tex gfx.Texture, data []byte, bytesPerRow, width, height uint32) error {
	t, err := unwrap[*wgpu.Texture](tex, "texture")
	if err != nil {
		return err
	}
	return mapError(q.q.WriteTexture(
		&wgpu.ImageCopyTexture{Texture: t, Aspect: gputypes.TextureAspectAll},
		data,
		&wgpu.ImageDataLayout{BytesPerRow: bytesPerRow, RowsPerImage: height},
		&wgpu.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
	))
}

func (q *Queue) Submit(cmds ...gfx.CommandBuffer) error {
	bufs := make([]*wgpu.CommandBuffer, len(cmds))
	for i, c := range cmds {
		var err error
		if bufs[i], err = unwrap[*wgpu.CommandBuffer](c, "command buffer"); err != nil {
			return err
		}
	}
	_, err := q.q.Submit(bufs...)
	return mapError(err)
}

// unwrap recovers the wgpu object behind a gfx resource created by this
// package.
func unwrap[T gfx.Resource](r gfx.Resource, what string) (T, error) {
	t, ok := r.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("webgpu: %s %T was not created by this backend", what, r)
	}
	return t, nil
}
