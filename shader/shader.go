// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package shader compiles the renderer's WGSL sources and turns them into
// device shader modules.
//
// Every source is compiled with naga before it reaches the device, so a
// broken shader is reported with its label and the source position naga
// points at, rather than as an opaque pipeline creation failure. Vulkan
// devices receive the SPIR-V naga produced; other backends receive WGSL and
// translate it themselves.
package shader

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"

	"github.com/gogpu/tri/gfx"
)

// EntryPoint is the entry point name of both triangle stages.
const EntryPoint = "main"

//go:embed triangle.vert.wgsl
var vertexSource string

//go:embed triangle.frag.wgsl
var fragmentSource string

// Source is a labeled WGSL module.
type Source struct {
	Label string
	WGSL  string
}

var (
	// Vertex passes position through and forwards the vertex color.
	Vertex = Source{Label: "triangle.vert", WGSL: vertexSource}

	// Fragment writes the interpolated color with full alpha.
	Fragment = Source{Label: "triangle.frag", WGSL: fragmentSource}
)

// CompileError reports a shader that failed to compile. Err carries naga's
// message including the line and column of the offending token.
type CompileError struct {
	Label string
	Err   error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("shader: compile %s: %v", e.Label, e.Err)
}

func (e *CompileError) Unwrap() error { return e.Err }

// Compile translates src to SPIR-V words.
func Compile(src Source) ([]uint32, error) {
	spirvBytes, err := naga.Compile(src.WGSL)
	if err != nil {
		return nil, &CompileError{Label: src.Label, Err: err}
	}
	if len(spirvBytes)%4 != 0 {
		return nil, &CompileError{Label: src.Label, Err: fmt.Errorf("SPIR-V size %d is not word aligned", len(spirvBytes))}
	}

	// SPIR-V is a stream of little-endian 32-bit words.
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return words, nil
}

// CreateModule compiles src and creates a shader module on dev.
func CreateModule(dev gfx.Device, src Source) (gfx.ShaderModule, error) {
	words, err := Compile(src)
	if err != nil {
		return nil, err
	}

	desc := &gfx.ShaderModuleDescriptor{Label: src.Label}
	if dev.Backend() == gputypes.BackendVulkan {
		desc.SPIRV = words
	} else {
		desc.WGSL = src.WGSL
	}

	m, err := dev.CreateShaderModule(desc)
	if err != nil {
		return nil, fmt.Errorf("shader: create module %s: %w", src.Label, err)
	}
	return m, nil
}
