// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package host defines what the renderer needs from the native window:
// drawable size queries, close requests, clipboard and cursor access, and a
// stream of decoded input events.
//
// Keys, modifiers, mouse buttons and cursor shapes are the gpucontext
// types, so any gogpu window integration can feed the renderer.
package host

import "github.com/gogpu/gpucontext"

// Window is the host window the renderer draws into.
//
// Size and ScaleFactor come from gpucontext.WindowProvider and describe the
// window in logical units. FramebufferSize is the drawable size in pixels.
// Clipboard and cursor access come from gpucontext.PlatformProvider.
type Window interface {
	gpucontext.WindowProvider
	gpucontext.PlatformProvider

	FramebufferSize() (width, height int)
	SetShouldClose(bool)
	ShouldClose() bool
}

// Event is an input or window event delivered by the host event loop.
type Event interface {
	event()
}

// KeyEvent is a key press, repeat or release.
type KeyEvent struct {
	Key     gpucontext.Key
	Mods    gpucontext.Modifiers
	Pressed bool
	Repeat  bool
}

// CharEvent is a typed Unicode character.
type CharEvent struct {
	Char rune
}

// MouseMoveEvent reports the cursor position in logical window coordinates.
type MouseMoveEvent struct {
	X, Y float64
}

// MouseButtonEvent is a mouse button press or release.
type MouseButtonEvent struct {
	Button  gpucontext.MouseButton
	Mods    gpucontext.Modifiers
	Pressed bool
}

// ScrollEvent reports wheel or trackpad scrolling.
type ScrollEvent struct {
	DX, DY float64
}

// ResizeEvent reports a new framebuffer size in pixels.
type ResizeEvent struct {
	Width, Height int
}

// CloseEvent is a close request from the window system.
type CloseEvent struct{}

func (KeyEvent) event()         {}
func (CharEvent) event()        {}
func (MouseMoveEvent) event()   {}
func (MouseButtonEvent) event() {}
func (ScrollEvent) event()      {}
func (ResizeEvent) event()      {}
func (CloseEvent) event()       {}
