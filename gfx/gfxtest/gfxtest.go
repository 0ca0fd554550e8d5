// Package gfxtest provides a recording implementation of the gfx interfaces.
//
// Every call is captured in plain exported fields so tests can assert on the
// exact GPU command stream a component produced without a real device.
// Failures are injected per operation name with FailOn.
package gfxtest

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/tri/gfx"
)

// ErrInjected is a convenience error for FailOn.
var ErrInjected = errors.New("gfxtest: injected failure")

// Faults maps operation names ("CreateBuffer", "Submit", ...) to the error
// the next matching call should return.
type Faults struct {
	errs map[string]error
}

// FailOn makes every subsequent call of op return err. A nil err clears it.
func (f *Faults) FailOn(op string, err error) {
	if f.errs == nil {
		f.errs = make(map[string]error)
	}
	if err == nil {
		delete(f.errs, op)
		return
	}
	f.errs[op] = err
}

func (f *Faults) fault(op string) error {
	if f.errs == nil {
		return nil
	}
	return f.errs[op]
}

// Resource is the common state of every recorded object.
type Resource struct {
	Label    string
	Released bool
}

// Release marks the resource as released.
func (r *Resource) Release() { r.Released = true }

// Buffer is a recorded buffer. Data mirrors every WriteBuffer.
type Buffer struct {
	Resource
	Desc gfx.BufferDescriptor
	Data []byte
}

// Size returns the descriptor size.
func (b *Buffer) Size() uint64 { return b.Desc.Size }

// Texture is a recorded texture.
type Texture struct {
	Resource
	Desc gfx.TextureDescriptor
	Data []byte
}

// TextureView is a recorded texture view.
type TextureView struct {
	Resource
	Texture any
}

// Sampler is a recorded sampler.
type Sampler struct {
	Resource
	Desc gfx.SamplerDescriptor
}

// ShaderModule is a recorded shader module.
type ShaderModule struct {
	Resource
	Desc gfx.ShaderModuleDescriptor
}

// BindGroupLayout is a recorded bind group layout.
type BindGroupLayout struct {
	Resource
	Desc gfx.BindGroupLayoutDescriptor
}

// BindGroup is a recorded bind group.
type BindGroup struct {
	Resource
	Desc gfx.BindGroupDescriptor
}

// PipelineLayout is a recorded pipeline layout.
type PipelineLayout struct {
	Resource
	Desc gfx.PipelineLayoutDescriptor
}

// RenderPipeline is a recorded render pipeline.
type RenderPipeline struct {
	Resource
	Desc gfx.RenderPipelineDescriptor
}

// CommandBuffer is the result of Encoder.Finish.
type CommandBuffer struct {
	Resource
	Encoder *Encoder
}

// Device is a recording gfx.Device.
type Device struct {
	Faults

	BackendType gputypes.Backend
	Info        gputypes.AdapterInfo

	Buffers          []*Buffer
	Textures         []*Texture
	Views            []*TextureView
	Samplers         []*Sampler
	Modules          []*ShaderModule
	BindGroupLayouts []*BindGroupLayout
	BindGroups       []*BindGroup
	Layouts          []*PipelineLayout
	Pipelines        []*RenderPipeline
	Encoders         []*Encoder

	// Submissions holds one entry per successful Queue.Submit call.
	Submissions [][]*CommandBuffer

	WaitIdleCalls int

	queue *Queue
}

// NewDevice returns an empty recording device.
func NewDevice() *Device {
	d := &Device{
		Info: gputypes.AdapterInfo{
			Name:       "gfxtest",
			DeviceType: gputypes.DeviceTypeCPU,
		},
	}
	d.queue = &Queue{dev: d}
	return d
}

// Backend implements gfx.Device.
func (d *Device) Backend() gputypes.Backend { return d.BackendType }

// AdapterInfo implements gfx.Device.
func (d *Device) AdapterInfo() gputypes.AdapterInfo { return d.Info }

// Queue implements gfx.Device.
func (d *Device) Queue() gfx.Queue { return d.queue }

// CreateBuffer implements gfx.Device.
func (d *Device) CreateBuffer(desc *gfx.BufferDescriptor) (gfx.Buffer, error) {
	if err := d.fault("CreateBuffer"); err != nil {
		return nil, err
	}
	b := &Buffer{Resource: Resource{Label: desc.Label}, Desc: *desc, Data: make([]byte, desc.Size)}
	d.Buffers = append(d.Buffers, b)
	return b, nil
}

// CreateTexture implements gfx.Device.
func (d *Device) CreateTexture(desc *gfx.TextureDescriptor) (gfx.Texture, error) {
	if err := d.fault("CreateTexture"); err != nil {
		return nil, err
	}
	t := &Texture{Resource: Resource{Label: desc.Label}, Desc: *desc}
	d.Textures = append(d.Textures, t)
	return t, nil
}

// CreateTextureView implements gfx.Device.
func (d *Device) CreateTextureView(tex gfx.Texture, label string) (gfx.TextureView, error) {
	if err := d.fault("CreateTextureView"); err != nil {
		return nil, err
	}
	v := &TextureView{Resource: Resource{Label: label}, Texture: tex}
	d.Views = append(d.Views, v)
	return v, nil
}

// CreateSampler implements gfx.Device.
func (d *Device) CreateSampler(desc *gfx.SamplerDescriptor) (gfx.Sampler, error) {
	if err := d.fault("CreateSampler"); err != nil {
		return nil, err
	}
	s := &Sampler{Resource: Resource{Label: desc.Label}, Desc: *desc}
	d.Samplers = append(d.Samplers, s)
	return s, nil
}

// CreateShaderModule implements gfx.Device.
func (d *Device) CreateShaderModule(desc *gfx.ShaderModuleDescriptor) (gfx.ShaderModule, error) {
	if err := d.fault("CreateShaderModule"); err != nil {
		return nil, err
	}
	if (desc.WGSL == "") == (len(desc.SPIRV) == 0) {
		return nil, fmt.Errorf("gfxtest: shader module %q needs exactly one source", desc.Label)
	}
	m := &ShaderModule{Resource: Resource{Label: desc.Label}, Desc: *desc}
	d.Modules = append(d.Modules, m)
	return m, nil
}

// CreateBindGroupLayout implements gfx.Device.
func (d *Device) CreateBindGroupLayout(desc *gfx.BindGroupLayoutDescriptor) (gfx.BindGroupLayout, error) {
	if err := d.fault("CreateBindGroupLayout"); err != nil {
		return nil, err
	}
	l := &BindGroupLayout{Resource: Resource{Label: desc.Label}, Desc: *desc}
	d.BindGroupLayouts = append(d.BindGroupLayouts, l)
	return l, nil
}

// CreateBindGroup implements gfx.Device.
func (d *Device) CreateBindGroup(desc *gfx.BindGroupDescriptor) (gfx.BindGroup, error) {
	if err := d.fault("CreateBindGroup"); err != nil {
		return nil, err
	}
	g := &BindGroup{Resource: Resource{Label: desc.Label}, Desc: *desc}
	d.BindGroups = append(d.BindGroups, g)
	return g, nil
}

// CreatePipelineLayout implements gfx.Device.
func (d *Device) CreatePipelineLayout(desc *gfx.PipelineLayoutDescriptor) (gfx.PipelineLayout, error) {
	if err := d.fault("CreatePipelineLayout"); err != nil {
		return nil, err
	}
	l := &PipelineLayout{Resource: Resource{Label: desc.Label}, Desc: *desc}
	d.Layouts = append(d.Layouts, l)
	return l, nil
}

// CreateRenderPipeline implements gfx.Device.
func (d *Device) CreateRenderPipeline(desc *gfx.RenderPipelineDescriptor) (gfx.RenderPipeline, error) {
	if err := d.fault("CreateRenderPipeline"); err != nil {
		return nil, err
	}
	p := &RenderPipeline{Resource: Resource{Label: desc.Label}, Desc: *desc}
	d.Pipelines = append(d.Pipelines, p)
	return p, nil
}

// CreateCommandEncoder implements gfx.Device.
func (d *Device) CreateCommandEncoder(label string) (gfx.CommandEncoder, error) {
	if err := d.fault("CreateCommandEncoder"); err != nil {
		return nil, err
	}
	e := &Encoder{Label: label, dev: d}
	d.Encoders = append(d.Encoders, e)
	return e, nil
}

// WaitIdle implements gfx.Device.
func (d *Device) WaitIdle() error {
	d.WaitIdleCalls++
	return d.fault("WaitIdle")
}

// LastEncoder returns the most recently created encoder, or nil.
func (d *Device) LastEncoder() *Encoder {
	if len(d.Encoders) == 0 {
		return nil
	}
	return d.Encoders[len(d.Encoders)-1]
}

// Queue is the recording gfx.Queue of a Device.
type Queue struct {
	dev *Device
}

// WriteBuffer implements gfx.Queue.
func (q *Queue) WriteBuffer(buf gfx.Buffer, offset uint64, data []byte) error {
	if err := q.dev.fault("WriteBuffer"); err != nil {
		return err
	}
	b, ok := buf.(*Buffer)
	if !ok {
		return fmt.Errorf("gfxtest: foreign buffer %T", buf)
	}
	if len(data)%4 != 0 {
		return fmt.Errorf("gfxtest: write size %d not a multiple of 4", len(data))
	}
	if offset+uint64(len(data)) > b.Desc.Size {
		return fmt.Errorf("gfxtest: write of %d bytes at %d overflows buffer %q (%d bytes)",
			len(data), offset, b.Label, b.Desc.Size)
	}
	copy(b.Data[offset:], data)
	return nil
}

// WriteTexture implements gfx.Queue.
func (q *Queue) WriteTexture(tex gfx.Texture, data []byte, bytesPerRow, width, height uint32) error {
	if err := q.dev.fault("WriteTexture"); err != nil {
		return err
	}
	t, ok := tex.(*Texture)
	if !ok {
		return fmt.Errorf("gfxtest: foreign texture %T", tex)
	}
	if width != t.Desc.Width || height != t.Desc.Height {
		return fmt.Errorf("gfxtest: write %dx%d into %dx%d texture", width, height, t.Desc.Width, t.Desc.Height)
	}
	if uint64(len(data)) < uint64(bytesPerRow)*uint64(height) {
		return fmt.Errorf("gfxtest: short texture data: %d bytes", len(data))
	}
	t.Data = append(t.Data[:0], data...)
	return nil
}

// Submit implements gfx.Queue.
func (q *Queue) Submit(cmds ...gfx.CommandBuffer) error {
	if err := q.dev.fault("Submit"); err != nil {
		return err
	}
	batch := make([]*CommandBuffer, 0, len(cmds))
	for _, c := range cmds {
		cb, ok := c.(*CommandBuffer)
		if !ok {
			return fmt.Errorf("gfxtest: foreign command buffer %T", c)
		}
		batch = append(batch, cb)
	}
	q.dev.Submissions = append(q.dev.Submissions, batch)
	return nil
}
