package webgpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/wgpu"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/tri/gfx"
)

// Surface implements gfx.Surface on a wgpu window surface.
type Surface struct {
	surface *wgpu.Surface
	adapter *wgpu.Adapter
	device  *wgpu.Device
}

var _ gfx.Surface = (*Surface)(nil)

// Capabilities implements gfx.Surface.
func (s *Surface) Capabilities() gfx.SurfaceCapabilities {
	caps := s.adapter.GetSurfaceCapabilities(s.surface)
	if caps == nil {
		return gfx.SurfaceCapabilities{}
	}
	return gfx.SurfaceCapabilities{
		Formats:      caps.Formats,
		PresentModes: caps.PresentModes,
		AlphaModes:   caps.AlphaModes,
	}
}

func (s *Surface) Configure(cfg *gfx.SurfaceConfiguration) error {
	err := s.surface.Configure(s.device, &wgpu.SurfaceConfiguration{
		Width:       cfg.Width,
		Height:      cfg.Height,
		Format:      cfg.Format,
		Usage:       cfg.Usage,
		PresentMode: cfg.PresentMode,
		AlphaMode:   cfg.AlphaMode,
	})
	return mapError(err)
}

func (s *Surface) Unconfigure() { s.surface.Unconfigure() }

func (s *Surface) Acquire() (gfx.SurfaceTexture, bool, error) {
	tex, suboptimal, err := s.surface.GetCurrentTexture()
	if err != nil {
		return nil, false, mapError(err)
	}
	return &surfaceTexture{tex: tex}, suboptimal, nil
}

func (s *Surface) Present(tex gfx.SurfaceTexture) error {
	st, ok := tex.(*surfaceTexture)
	if !ok {
		return fmt.Errorf("webgpu: surface texture %T was not acquired from this surface", tex)
	}
	return mapError(s.surface.Present(st.tex))
}

func (s *Surface) Discard() { s.surface.DiscardTexture() }

func (s *Surface) Release() { s.surface.Release() }

type surfaceTexture struct {
	tex *wgpu.SurfaceTexture
}

func (t *surfaceTexture) CreateView() (gfx.TextureView, error) {
	v, err := t.tex.CreateView(nil)
	if err != nil {
		return nil, mapError(err)
	}
	return v, nil
}

// mapError attaches the gfx classification to wgpu and HAL errors so the
// presentation chain can tell recoverable surface states from failures.
func mapError(err error) error {
	var kind error
	switch {
	case err == nil:
		return nil
	case errors.Is(err, wgpu.ErrTimeout), errors.Is(err, hal.ErrNotReady):
		kind = gfx.ErrTimeout
	case errors.Is(err, wgpu.ErrSurfaceOutdated), errors.Is(err, hal.ErrZeroArea):
		kind = gfx.ErrOutdated
	case errors.Is(err, wgpu.ErrSurfaceLost):
		kind = gfx.ErrSurfaceLost
	case errors.Is(err, wgpu.ErrDeviceLost):
		kind = gfx.ErrDeviceLost
	default:
		return err
	}
	return fmt.Errorf("%w: %w", kind, err)
}
