// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package present keeps a window surface configured for presentation.
//
// A Chain picks a pixel format the surface supports, configures the surface
// at the window size, hands out one drawable image per frame and follows
// window resizes. Acquisition problems that only cost a frame are reported
// as errors wrapping ErrSkipFrame; the caller drops the frame and tries
// again on the next loop iteration.
package present

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/tri/gfx"
)

var (
	// ErrNoCompatibleFormat is returned by New when the surface offers no
	// usable color format.
	ErrNoCompatibleFormat = errors.New("present: no compatible surface format")

	// ErrSkipFrame is wrapped by every acquisition error after which the
	// frame should be dropped and rendering continue.
	ErrSkipFrame = errors.New("present: frame skipped")

	// ErrAcquireTimeout means no image became ready in time.
	ErrAcquireTimeout = errors.New("present: acquire timeout")

	// ErrSuspended means the window has zero area.
	ErrSuspended = errors.New("present: suspended")

	// ErrOutdated means the surface went stale and was reconfigured.
	ErrOutdated = errors.New("present: surface outdated")

	// ErrFrameInFlight means Acquire was called before the previous image
	// was presented or discarded.
	ErrFrameInFlight = errors.New("present: frame already acquired")

	// ErrReleased is returned by operations on a released chain.
	ErrReleased = errors.New("present: chain released")
)

// preferredFormats are tried in order before falling back to whatever the
// surface lists first.
var preferredFormats = []gputypes.TextureFormat{
	gputypes.TextureFormatBGRA8UnormSrgb,
	gputypes.TextureFormatRGBA8UnormSrgb,
}

// Frame is one acquired drawable image and its render target view.
type Frame struct {
	View gfx.TextureView

	texture    gfx.SurfaceTexture
	suboptimal bool
}

// Chain is the presentation chain of one surface.
type Chain struct {
	device  gfx.Device
	surface gfx.Surface

	width, height int
	format        gputypes.TextureFormat
	presentMode   gputypes.PresentMode
	alphaMode     gputypes.CompositeAlphaMode

	suspended  bool
	stale      bool // last Configure failed; retried before the next acquire
	inFlight   bool
	released   bool
	configured int
}

// New creates a chain for surface sized width x height. It fails when the
// surface cannot be presented to at all; a zero size starts the chain
// suspended. The chain owns surface from here on, so a failed New releases
// it.
func New(dev gfx.Device, surface gfx.Surface, width, height int, opts ...Option) (*Chain, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	c := &Chain{device: dev, surface: surface}
	if err := c.selectModes(o.presentMode); err != nil {
		surface.Release()
		return nil, err
	}
	c.width, c.height = width, height
	if width <= 0 || height <= 0 {
		c.suspended = true
		slogger().Info("present: created suspended", "width", width, "height", height)
		return c, nil
	}
	if err := c.configure(); err != nil {
		surface.Release()
		return nil, err
	}
	return c, nil
}

// selectModes picks format, present mode and alpha mode from the surface
// capabilities.
func (c *Chain) selectModes(wantMode gputypes.PresentMode) error {
	caps := c.surface.Capabilities()
	format, ok := SelectFormat(caps.Formats)
	if !ok {
		return ErrNoCompatibleFormat
	}
	c.format = format

	c.presentMode = gputypes.PresentModeFifo
	if caps.SupportsPresentMode(wantMode) {
		c.presentMode = wantMode
	} else if wantMode != gputypes.PresentModeFifo {
		slogger().Warn("present: present mode unsupported, using Fifo", "requested", wantMode)
	}

	c.alphaMode = gputypes.CompositeAlphaModeAuto
	if caps.SupportsAlphaMode(gputypes.CompositeAlphaModeOpaque) {
		c.alphaMode = gputypes.CompositeAlphaModeOpaque
	} else if len(caps.AlphaModes) > 0 {
		c.alphaMode = caps.AlphaModes[0]
	}
	return nil
}

// SelectFormat returns the preferred sRGB format if formats offers one,
// otherwise the first offered format.
func SelectFormat(formats []gputypes.TextureFormat) (gputypes.TextureFormat, bool) {
	for _, want := range preferredFormats {
		for _, f := range formats {
			if f == want {
				return f, true
			}
		}
	}
	for _, f := range formats {
		if f != gputypes.TextureFormatUndefined {
			return f, true
		}
	}
	return gputypes.TextureFormatUndefined, false
}

func (c *Chain) configure() error {
	err := c.surface.Configure(&gfx.SurfaceConfiguration{
		Width:       uint32(c.width),
		Height:      uint32(c.height),
		Format:      c.format,
		Usage:       gputypes.TextureUsageRenderAttachment,
		PresentMode: c.presentMode,
		AlphaMode:   c.alphaMode,
	})
	if err != nil {
		c.stale = true
		return fmt.Errorf("present: configure %dx%d: %w", c.width, c.height, err)
	}
	c.stale = false
	c.configured++
	slogger().Debug("present: configured",
		"width", c.width, "height", c.height,
		"format", c.format, "present_mode", c.presentMode)
	return nil
}

// Resize rebuilds the chain at the new size. Unchanged dimensions are a
// no-op unless the last configuration failed. A zero dimension suspends the
// chain until a usable size arrives.
func (c *Chain) Resize(width, height int) error {
	if c.released {
		return ErrReleased
	}
	if width == c.width && height == c.height && !c.stale {
		return nil
	}
	c.width, c.height = width, height
	if width <= 0 || height <= 0 {
		if !c.suspended {
			slogger().Info("present: suspended", "width", width, "height", height)
		}
		c.suspended = true
		return nil
	}
	c.suspended = false
	return c.configure()
}

// Acquire returns the next drawable image. It blocks for at most the
// backend's acquisition timeout.
func (c *Chain) Acquire() (*Frame, error) {
	switch {
	case c.released:
		return nil, ErrReleased
	case c.inFlight:
		return nil, ErrFrameInFlight
	case c.suspended:
		return nil, fmt.Errorf("%w: %w", ErrSkipFrame, ErrSuspended)
	case c.stale:
		if err := c.configure(); err != nil {
			return nil, err
		}
	}

	tex, suboptimal, err := c.surface.Acquire()
	if err != nil {
		return nil, c.acquireError(err)
	}
	view, err := tex.CreateView()
	if err != nil {
		c.surface.Discard()
		return nil, fmt.Errorf("present: create view: %w", err)
	}
	c.inFlight = true
	return &Frame{View: view, texture: tex, suboptimal: suboptimal}, nil
}

func (c *Chain) acquireError(err error) error {
	switch {
	case errors.Is(err, gfx.ErrTimeout):
		return fmt.Errorf("%w: %w", ErrSkipFrame, ErrAcquireTimeout)
	case errors.Is(err, gfx.ErrOutdated):
		if cerr := c.configure(); cerr != nil {
			return cerr
		}
		return fmt.Errorf("%w: %w", ErrSkipFrame, ErrOutdated)
	case errors.Is(err, gfx.ErrSurfaceLost):
		// Capabilities may differ after a loss, so the format is chosen again.
		c.surface.Unconfigure()
		if serr := c.selectModes(c.presentMode); serr != nil {
			return serr
		}
		if cerr := c.configure(); cerr != nil {
			return cerr
		}
		return fmt.Errorf("%w: %w", ErrSkipFrame, ErrOutdated)
	default:
		return fmt.Errorf("present: acquire: %w", err)
	}
}

// Present queues the frame's image for display and releases its view.
// A suboptimal image triggers a reconfiguration afterwards. The error only
// reports a failed presentation: if that reconfiguration fails, the image
// was still shown and the next Acquire tries again.
func (c *Chain) Present(f *Frame) error {
	if !c.inFlight {
		return errors.New("present: no frame in flight")
	}
	c.inFlight = false
	f.View.Release()
	if err := c.surface.Present(f.texture); err != nil {
		return fmt.Errorf("present: %w", err)
	}
	if f.suboptimal {
		if err := c.configure(); err != nil {
			slogger().Warn("present: reconfigure after suboptimal image failed", "err", err)
		}
	}
	return nil
}

// Discard gives the frame's image back without presenting it.
func (c *Chain) Discard(f *Frame) {
	if !c.inFlight {
		return
	}
	c.inFlight = false
	f.View.Release()
	c.surface.Discard()
}

// Size returns the current chain dimensions.
func (c *Chain) Size() (width, height int) { return c.width, c.height }

// Format returns the presentation pixel format.
func (c *Chain) Format() gputypes.TextureFormat { return c.format }

// PresentMode returns the configured present mode.
func (c *Chain) PresentMode() gputypes.PresentMode { return c.presentMode }

// Suspended reports whether the chain is waiting for a non-zero size.
func (c *Chain) Suspended() bool { return c.suspended }

// Configurations returns how many times the surface has been configured.
func (c *Chain) Configurations() int { return c.configured }

// Release unconfigures and releases the surface. Safe to call more than once.
func (c *Chain) Release() {
	if c.released {
		return
	}
	c.released = true
	if c.inFlight {
		c.surface.Discard()
		c.inFlight = false
	}
	c.surface.Unconfigure()
	c.surface.Release()
}
