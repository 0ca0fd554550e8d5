package gfxtest

import (
	"errors"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/tri/gfx"
)

// Surface is a recording gfx.Surface.
type Surface struct {
	Faults

	Caps gfx.SurfaceCapabilities

	// Configs holds every successful Configure call in order.
	Configs      []gfx.SurfaceConfiguration
	Unconfigured int

	// AcquireErrs are returned by successive Acquire calls before any image
	// is handed out. Nil entries acquire normally.
	AcquireErrs []error

	// Suboptimal is reported by every successful Acquire.
	Suboptimal bool

	Acquired  int
	Presented int
	Discarded int
	Released  bool

	current *SurfaceTexture
}

// NewSurface returns a surface offering sRGB BGRA, Fifo and Mailbox, and
// Opaque alpha.
func NewSurface() *Surface {
	return &Surface{
		Caps: gfx.SurfaceCapabilities{
			Formats: []gputypes.TextureFormat{
				gputypes.TextureFormatBGRA8Unorm,
				gputypes.TextureFormatBGRA8UnormSrgb,
			},
			PresentModes: []gputypes.PresentMode{gputypes.PresentModeFifo, gputypes.PresentModeMailbox},
			AlphaModes:   []gputypes.CompositeAlphaMode{gputypes.CompositeAlphaModeOpaque},
		},
	}
}

// Capabilities implements gfx.Surface.
func (s *Surface) Capabilities() gfx.SurfaceCapabilities { return s.Caps }

// Configure implements gfx.Surface.
func (s *Surface) Configure(cfg *gfx.SurfaceConfiguration) error {
	if err := s.fault("Configure"); err != nil {
		return err
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return errors.New("gfxtest: zero-area surface configuration")
	}
	s.Configs = append(s.Configs, *cfg)
	return nil
}

// Unconfigure implements gfx.Surface.
func (s *Surface) Unconfigure() { s.Unconfigured++ }

// LastConfig returns the most recent configuration.
func (s *Surface) LastConfig() (gfx.SurfaceConfiguration, bool) {
	if len(s.Configs) == 0 {
		return gfx.SurfaceConfiguration{}, false
	}
	return s.Configs[len(s.Configs)-1], true
}

// Acquire implements gfx.Surface.
func (s *Surface) Acquire() (gfx.SurfaceTexture, bool, error) {
	if len(s.AcquireErrs) > 0 {
		err := s.AcquireErrs[0]
		s.AcquireErrs = s.AcquireErrs[1:]
		if err != nil {
			return nil, false, err
		}
	}
	if len(s.Configs) == 0 {
		return nil, false, errors.New("gfxtest: acquire from unconfigured surface")
	}
	if s.current != nil {
		return nil, false, errors.New("gfxtest: image already acquired")
	}
	s.Acquired++
	s.current = &SurfaceTexture{surface: s, Config: s.Configs[len(s.Configs)-1]}
	return s.current, s.Suboptimal, nil
}

// Present implements gfx.Surface.
func (s *Surface) Present(tex gfx.SurfaceTexture) error {
	if err := s.fault("Present"); err != nil {
		return err
	}
	if tex == nil || tex != gfx.SurfaceTexture(s.current) {
		return errors.New("gfxtest: present of unknown image")
	}
	s.current = nil
	s.Presented++
	return nil
}

// Discard implements gfx.Surface.
func (s *Surface) Discard() {
	if s.current != nil {
		s.current = nil
		s.Discarded++
	}
}

// Release implements gfx.Surface.
func (s *Surface) Release() { s.Released = true }

// SurfaceTexture is an image handed out by Surface.Acquire.
type SurfaceTexture struct {
	// Config is the surface configuration the image was acquired under.
	Config gfx.SurfaceConfiguration
	Views  []*TextureView

	surface *Surface
}

// CreateView implements gfx.SurfaceTexture.
func (t *SurfaceTexture) CreateView() (gfx.TextureView, error) {
	if err := t.surface.fault("CreateView"); err != nil {
		return nil, err
	}
	v := &TextureView{Resource: Resource{Label: "surface"}, Texture: t}
	t.Views = append(t.Views, v)
	return v, nil
}
