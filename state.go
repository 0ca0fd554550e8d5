// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package tri

import (
	"errors"
	"fmt"
	"time"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/tri/geometry"
	"github.com/gogpu/tri/gfx"
	"github.com/gogpu/tri/host"
	"github.com/gogpu/tri/internal/hud"
	"github.com/gogpu/tri/overlay"
	"github.com/gogpu/tri/pipeline"
	"github.com/gogpu/tri/present"
)

// ClearColor is the background the geometry pass clears to.
var ClearColor = gputypes.Color{R: 0.1, G: 0.2, B: 0.3, A: 0.2}

// Stats are the diagnostic counters of a State.
type Stats struct {
	// Frames counts presented frames.
	Frames uint64
	// Skipped counts frames dropped before anything was submitted.
	Skipped uint64
	// OverlayFailures counts frames drawn without their overlay pass.
	OverlayFailures uint64
	Submissions     uint64
	PipelineBuilds  uint64

	// FrameTime is the delta measured by the last Update.
	FrameTime time.Duration
}

// State owns the presentation chain, the pipeline, the geometry and the
// overlay for one window. It is not safe for concurrent use; all methods
// run on the thread that drives the event loop.
type State struct {
	device gfx.Device
	window host.Window

	chain    *present.Chain
	pipeline *pipeline.Pipeline
	geometry *geometry.Buffers
	overlay  *overlay.State

	overlayKey gpucontext.Key

	clock func() time.Time
	last  time.Time
	delta time.Duration

	stats  Stats
	closed bool
}

// New creates the render state for win. surface must belong to dev's
// adapter and is owned by the state from then on, even when New fails. The
// chain is sized from the window's framebuffer; a minimized window starts
// suspended.
func New(dev gfx.Device, surface gfx.Surface, win host.Window, opts ...Option) (*State, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	s := &State{
		device:     dev,
		window:     win,
		overlayKey: o.overlayKey,
		clock:      o.clock,
	}
	s.last = s.clock()

	w, h := win.FramebufferSize()
	chain, err := present.New(dev, surface, w, h, present.WithPresentMode(o.presentMode))
	if err != nil {
		return nil, fmt.Errorf("tri: create presentation chain: %w", err)
	}
	s.chain = chain

	if err := s.buildPipeline(); err != nil {
		s.release()
		return nil, err
	}

	s.geometry, err = geometry.NewTriangle(dev)
	if err != nil {
		s.release()
		return nil, fmt.Errorf("tri: %w", err)
	}

	ui := o.ui
	if ui == nil {
		panel, err := hud.New(s.snapshot)
		if err != nil {
			s.release()
			return nil, fmt.Errorf("tri: create hud: %w", err)
		}
		ui = panel
	}
	s.overlay, err = overlay.New(dev, chain.Format(), ui, win, o.overlayEnabled)
	if err != nil {
		s.release()
		return nil, fmt.Errorf("tri: create overlay: %w", err)
	}

	slogger().Info("tri: ready",
		"width", w, "height", h,
		"format", chain.Format(),
		"present_mode", chain.PresentMode(),
		"overlay", o.overlayEnabled)
	return s, nil
}

func (s *State) buildPipeline() error {
	p, err := pipeline.Build(s.device, s.chain.Format(), geometry.Layout())
	if err != nil {
		return fmt.Errorf("tri: %w", err)
	}
	if s.pipeline != nil {
		s.pipeline.Release()
	}
	s.pipeline = p
	s.stats.PipelineBuilds++
	slogger().Debug("tri: pipeline built", "format", p.Format(), "builds", s.stats.PipelineBuilds)
	return nil
}

// retarget rebuilds everything that depends on the surface format. It only
// does work after surface loss picked a different format.
func (s *State) retarget() error {
	format := s.chain.Format()
	if format == s.pipeline.Format() {
		return nil
	}
	slogger().Info("tri: surface format changed", "from", s.pipeline.Format(), "to", format)
	if err := s.buildPipeline(); err != nil {
		return err
	}
	if err := s.overlay.Retarget(format); err != nil {
		return fmt.Errorf("tri: %w", err)
	}
	return nil
}

// Update advances the frame clock.
func (s *State) Update() {
	now := s.clock()
	s.delta = now.Sub(s.last)
	if s.delta < 0 {
		s.delta = 0
	}
	s.last = now
	s.stats.FrameTime = s.delta
}

// Render draws and presents one frame.
//
// Frames the surface cannot provide are skipped and Render returns nil.
// A failing overlay costs only the overlay pass. Render returns an error
// only when rendering cannot continue: the device was lost, or command
// recording failed.
func (s *State) Render() error {
	if s.closed {
		return ErrClosed
	}
	if err := s.retarget(); err != nil {
		return err
	}

	frame, err := s.chain.Acquire()
	if err != nil {
		return s.skip("acquire", err)
	}

	enc, err := s.device.CreateCommandEncoder("Render Encoder")
	if err != nil {
		s.chain.Discard(frame)
		return fmt.Errorf("tri: create command encoder: %w", err)
	}
	if err := s.recordGeometry(enc, frame.View); err != nil {
		enc.Discard()
		s.chain.Discard(frame)
		return err
	}

	if s.overlay.Enabled() {
		w, h := s.chain.Size()
		if err := s.overlay.Record(enc, frame.View, w, h, s.delta); err != nil {
			s.stats.OverlayFailures++
			slogger().Warn("tri: frame drawn without overlay", "err", err)
		}
	}

	// Finish also fails after an overlay pass that could not end.
	cmds, err := enc.Finish()
	if err != nil {
		enc.Discard()
		s.chain.Discard(frame)
		return s.skip("finish", err)
	}

	if err := s.device.Queue().Submit(cmds); err != nil {
		cmds.Release()
		s.chain.Discard(frame)
		return s.skip("submit", err)
	}
	s.stats.Submissions++

	if err := s.chain.Present(frame); err != nil {
		if errors.Is(err, gfx.ErrDeviceLost) {
			return fmt.Errorf("tri: present: %w", err)
		}
		slogger().Warn("tri: present failed", "err", err)
		return nil
	}
	s.stats.Frames++
	return nil
}

// skip accounts for a frame that was dropped before presentation. Device
// loss is the only cause reported to the caller.
func (s *State) skip(op string, err error) error {
	if errors.Is(err, gfx.ErrDeviceLost) {
		return fmt.Errorf("tri: %s: %w", op, err)
	}
	s.stats.Skipped++
	if errors.Is(err, present.ErrSkipFrame) {
		slogger().Debug("tri: frame skipped", "op", op, "reason", err)
	} else {
		slogger().Warn("tri: frame skipped", "op", op, "err", err)
	}
	return nil
}

func (s *State) recordGeometry(enc gfx.CommandEncoder, target gfx.TextureView) error {
	pass, err := enc.BeginRenderPass(&gfx.RenderPassDescriptor{
		Label: "Render Pass",
		ColorAttachments: []gfx.ColorAttachment{{
			View:       target,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: ClearColor,
		}},
	})
	if err != nil {
		return fmt.Errorf("tri: begin render pass: %w", err)
	}
	g := s.geometry
	pass.SetPipeline(s.pipeline.Handle())
	pass.SetVertexBuffer(0, g.Vertex, 0)
	pass.SetIndexBuffer(g.Index, g.IndexFormat, 0)
	pass.DrawIndexed(g.IndexCount, 1, 0, 0, 0)
	if err := pass.End(); err != nil {
		return fmt.Errorf("tri: end render pass: %w", err)
	}
	return nil
}

// Input routes one host event and reports whether it was consumed.
//
// The overlay sees events first while it is shown. Resize and close events
// are always handled. Escape requests the window to close and the overlay
// key toggles the overlay, unless the overlay captured the key press.
func (s *State) Input(ev host.Event) bool {
	if s.closed {
		return false
	}
	captured := s.overlay.HandleEvent(ev)

	switch e := ev.(type) {
	case host.ResizeEvent:
		if err := s.Resize(e.Width, e.Height); err != nil {
			slogger().Warn("tri: resize failed", "err", err)
		}
		return true
	case host.CloseEvent:
		s.window.SetShouldClose(true)
		return true
	case host.KeyEvent:
		if captured || !e.Pressed || e.Repeat {
			return captured
		}
		switch e.Key {
		case gpucontext.KeyEscape:
			slogger().Info("tri: escape pressed, closing")
			s.window.SetShouldClose(true)
			return true
		case s.overlayKey:
			s.overlay.Toggle()
			slogger().Info("tri: overlay toggled", "enabled", s.overlay.Enabled())
			return true
		}
	}
	return captured
}

// Resize reconfigures the presentation chain for a framebuffer of width x
// height pixels before the next frame is rendered. A zero size suspends
// rendering.
func (s *State) Resize(width, height int) error {
	if s.closed {
		return ErrClosed
	}
	slogger().Debug("tri: resizing to", "width", width, "height", height)
	if err := s.chain.Resize(width, height); err != nil {
		return fmt.Errorf("tri: %w", err)
	}
	return nil
}

// Stats returns the current counters.
func (s *State) Stats() Stats { return s.stats }

// OverlayEnabled reports whether the overlay is shown.
func (s *State) OverlayEnabled() bool { return s.overlay != nil && s.overlay.Enabled() }

// SetOverlayEnabled shows or hides the overlay.
func (s *State) SetOverlayEnabled(enabled bool) { s.overlay.SetEnabled(enabled) }

// Size returns the size of the presentation chain in pixels.
func (s *State) Size() (width, height int) { return s.chain.Size() }

// snapshot feeds the built-in HUD.
func (s *State) snapshot() hud.Snapshot {
	info := s.device.AdapterInfo()
	w, h := s.chain.Size()
	return hud.Snapshot{
		Adapter:         info.Name,
		Backend:         info.Backend.String(),
		Width:           w,
		Height:          h,
		Format:          s.chain.Format().String(),
		PresentMode:     s.chain.PresentMode().String(),
		Frames:          s.stats.Frames,
		Skipped:         s.stats.Skipped,
		OverlayFailures: s.stats.OverlayFailures,
		FrameTime:       s.stats.FrameTime,
	}
}

// Close waits for the GPU and releases the chain, which owns the surface,
// together with everything State created. The device and the window stay
// with the caller. Safe to call more than once.
func (s *State) Close() {
	if s.closed {
		return
	}
	s.closed = true
	if err := s.device.WaitIdle(); err != nil {
		slogger().Warn("tri: wait idle", "err", err)
	}
	s.release()
}

// release frees resources in reverse creation order.
func (s *State) release() {
	if s.overlay != nil {
		s.overlay.Release()
		s.overlay = nil
	}
	if s.geometry != nil {
		s.geometry.Release()
		s.geometry = nil
	}
	if s.pipeline != nil {
		s.pipeline.Release()
		s.pipeline = nil
	}
	if s.chain != nil {
		s.chain.Release()
		s.chain = nil
	}
}
