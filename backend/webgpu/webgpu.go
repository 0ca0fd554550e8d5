// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package webgpu implements the gfx interfaces on github.com/gogpu/wgpu.
//
// Open performs the whole negotiation in one blocking call: instance,
// window surface, an adapter compatible with that surface, then the
// logical device. All HAL backends available for the platform are
// registered by importing this package.
package webgpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu"

	// Register Vulkan, Metal, DX12 and GLES for the target platform.
	_ "github.com/gogpu/wgpu/hal/allbackends"
)

// ErrNoAdapter is returned when no adapter can present to the surface.
var ErrNoAdapter = errors.New("webgpu: no compatible adapter")

// SurfaceTarget holds the native handles a window surface is created from.
// On Windows Display is the HINSTANCE (zero picks the current module) and
// Window the HWND. On Linux they are the X11 Display and Window, or the
// Wayland display and surface.
type SurfaceTarget struct {
	Display uintptr
	Window  uintptr
}

// GPU owns every object created during negotiation.
type GPU struct {
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *Device
	surface  *Surface
	released bool

	surfaceTaken bool
}

// Open creates the instance, window surface, adapter and device.
func Open(target SurfaceTarget, opts ...Option) (*GPU, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	flags := gputypes.InstanceFlagsNone
	if o.debug {
		flags = gputypes.InstanceFlagsDebug
	}
	instance, err := wgpu.CreateInstance(&wgpu.InstanceDescriptor{Backends: o.backends, Flags: flags})
	if err != nil {
		return nil, fmt.Errorf("webgpu: create instance: %w", err)
	}
	g := &GPU{instance: instance}

	surface, err := instance.CreateSurface(target.Display, target.Window)
	if err != nil {
		g.Release()
		return nil, fmt.Errorf("webgpu: create surface: %w", err)
	}
	g.surface = &Surface{surface: surface}

	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference:      o.power,
		ForceFallbackAdapter: o.fallback,
		CompatibleSurface:    surface,
	})
	if err != nil {
		g.Release()
		return nil, fmt.Errorf("%w: %w", ErrNoAdapter, err)
	}
	g.adapter = adapter
	g.surface.adapter = adapter
	logGPUInfo(adapter.Info())

	dev, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label:          o.label,
		RequiredLimits: gputypes.DefaultLimits(),
	})
	if err != nil {
		g.Release()
		return nil, fmt.Errorf("webgpu: request device: %w", err)
	}
	g.device = newDevice(dev, adapter)
	g.surface.device = dev

	slogger().Debug("webgpu: device ready", "label", o.label, "backends", o.backends)
	return g, nil
}

// Device returns the logical device.
func (g *GPU) Device() *Device { return g.device }

// Surface returns the window surface and hands it to the caller, which
// must release it before the GPU. Release leaves a taken surface alone.
func (g *GPU) Surface() *Surface {
	g.surfaceTaken = true
	return g.surface
}

// Adapter returns the wgpu adapter.
func (g *GPU) Adapter() *wgpu.Adapter { return g.adapter }

// Info describes the selected GPU.
func (g *GPU) Info() *GPUInfo { return gpuInfo(g.adapter.Info()) }

// Release destroys the surface unless it was taken, then the device,
// adapter and instance. Safe to call more than once.
func (g *GPU) Release() {
	if g.released {
		return
	}
	g.released = true
	if g.surface != nil && !g.surfaceTaken {
		g.surface.Release()
	}
	if g.device != nil {
		g.device.Release()
	}
	if g.adapter != nil {
		g.adapter.Release()
	}
	if g.instance != nil {
		g.instance.Release()
	}
}
