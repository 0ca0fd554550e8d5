// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package overlay draws an immediate-mode UI on top of the rendered scene.
//
// State owns the UI library, the GPU renderer that draws its output and the
// platform the UI exchanges cursor shapes and clipboard text with. All of
// them are created once. The enabled flag only decides whether a frame
// records the overlay pass and whether input reaches the UI; hiding the
// overlay keeps the UI's widget state.
package overlay

import (
	"fmt"
	"time"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/tri/gfx"
	"github.com/gogpu/tri/host"
)

// Platform is the host side of the overlay: window metrics plus clipboard
// and cursor access.
type Platform interface {
	gpucontext.WindowProvider
	gpucontext.PlatformProvider
}

// State is the overlay bridge between the UI library, the renderer and the
// host window.
type State struct {
	device   gfx.Device
	ui       UI
	renderer *Renderer
	platform Platform

	lastCursor  gpucontext.CursorShape
	cursorKnown bool
	enabled     bool
	resumed     bool
}

// New attaches ui to platform and creates the renderer for format.
func New(dev gfx.Device, format gputypes.TextureFormat, ui UI, platform Platform, enabled bool) (*State, error) {
	ui.Attach(platform)
	r, err := NewRenderer(dev, format, ui.FontAtlas())
	if err != nil {
		return nil, err
	}
	return &State{device: dev, ui: ui, renderer: r, platform: platform, enabled: enabled}, nil
}

// Retarget rebuilds the renderer for a new target format. The UI and its
// widget state are kept.
func (s *State) Retarget(format gputypes.TextureFormat) error {
	r, err := NewRenderer(s.device, format, s.ui.FontAtlas())
	if err != nil {
		return err
	}
	if s.renderer != nil {
		s.renderer.Release()
	}
	s.renderer = r
	slogger().Debug("overlay: retargeted", "format", format)
	return nil
}

// Enabled reports whether the overlay is shown.
func (s *State) Enabled() bool { return s.enabled }

// SetEnabled shows or hides the overlay.
func (s *State) SetEnabled(enabled bool) {
	if s.enabled != enabled {
		slogger().Debug("overlay: visibility changed", "enabled", enabled)
		s.resumed = s.resumed || enabled
	}
	s.enabled = enabled
}

// Toggle flips visibility.
func (s *State) Toggle() { s.SetEnabled(!s.enabled) }

// HandleEvent forwards ev to the UI while the overlay is shown and reports
// whether the UI captured it. Hidden overlays ignore input.
func (s *State) HandleEvent(ev host.Event) bool {
	if !s.enabled {
		return false
	}
	return s.ui.HandleEvent(ev)
}

// Record runs one UI frame and records its draw commands over target, a
// framebuffer of fbWidth x fbHeight pixels. Errors before the overlay pass
// begins leave enc untouched. A failure to end the pass leaves enc in an
// error state, and the caller must discard it.
func (s *State) Record(enc gfx.CommandEncoder, target gfx.TextureView, fbWidth, fbHeight int, delta time.Duration) error {
	s.ui.NewFrame(s.frameInput(fbWidth, fbHeight, delta))
	s.resumed = false
	s.ui.Build()
	s.syncCursor()

	data, err := s.ui.Render()
	if err != nil {
		return fmt.Errorf("overlay: render ui: %w", err)
	}
	return s.renderer.Record(enc, target, fbWidth, fbHeight, data)
}

// frameInput derives the logical display size from the window, falling
// back to the framebuffer size divided by the scale factor.
func (s *State) frameInput(fbWidth, fbHeight int, delta time.Duration) FrameInput {
	w, h := s.platform.Size()
	if w <= 0 || h <= 0 {
		scale := s.platform.ScaleFactor()
		if scale <= 0 {
			scale = 1
		}
		w, h = int(float64(fbWidth)/scale), int(float64(fbHeight)/scale)
	}
	in := FrameInput{
		DisplayWidth:     float32(w),
		DisplayHeight:    float32(h),
		FramebufferScale: [2]float32{1, 1},
		Delta:            delta,
		Resumed:          s.resumed,
	}
	if w > 0 && h > 0 {
		in.FramebufferScale = [2]float32{float32(fbWidth) / float32(w), float32(fbHeight) / float32(h)}
	}
	return in
}

// syncCursor pushes the UI's cursor to the platform when it changed.
func (s *State) syncCursor() {
	c := s.ui.Cursor()
	if s.cursorKnown && c == s.lastCursor {
		return
	}
	s.platform.SetCursor(c)
	s.lastCursor = c
	s.cursorKnown = true
}

// Release frees the renderer and closes the UI if it supports closing.
func (s *State) Release() {
	if s.renderer != nil {
		s.renderer.Release()
		s.renderer = nil
	}
	if c, ok := s.ui.(interface{ Close() }); ok {
		c.Close()
	}
}
