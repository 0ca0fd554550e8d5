package shader

import (
	"errors"
	"strings"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/tri/gfx/gfxtest"
)

const spirvMagic = 0x07230203

func TestCompileEmbeddedSources(t *testing.T) {
	for _, src := range []Source{Vertex, Fragment} {
		t.Run(src.Label, func(t *testing.T) {
			if !strings.Contains(src.WGSL, "fn "+EntryPoint) {
				t.Fatalf("%s has no %q entry point", src.Label, EntryPoint)
			}
			words, err := Compile(src)
			if err != nil {
				t.Fatalf("Compile(%s) error = %v", src.Label, err)
			}
			if len(words) < 5 {
				t.Fatalf("Compile(%s) produced %d words, want a SPIR-V header", src.Label, len(words))
			}
			if words[0] != spirvMagic {
				t.Errorf("Compile(%s) magic = %#x, want %#x", src.Label, words[0], spirvMagic)
			}
		})
	}
}

func TestCompileErrorCarriesLabel(t *testing.T) {
	src := Source{Label: "broken.wgsl", WGSL: "@vertex fn main( -> {"}
	_, err := Compile(src)
	if err == nil {
		t.Fatal("Compile() of invalid WGSL succeeded")
	}
	var ce *CompileError
	if !errors.As(err, &ce) {
		t.Fatalf("Compile() error = %T, want *CompileError", err)
	}
	if ce.Label != "broken.wgsl" {
		t.Errorf("CompileError.Label = %q, want %q", ce.Label, "broken.wgsl")
	}
	if !strings.Contains(err.Error(), "broken.wgsl") {
		t.Errorf("Error() = %q, want it to mention the label", err.Error())
	}
}

func TestCreateModuleSourceByBackend(t *testing.T) {
	tests := []struct {
		backend   gputypes.Backend
		wantSPIRV bool
	}{
		{gputypes.BackendVulkan, true},
		{gputypes.BackendMetal, false},
		{gputypes.BackendDX12, false},
		{gputypes.BackendGL, false},
	}
	for _, tt := range tests {
		t.Run(tt.backend.String(), func(t *testing.T) {
			dev := gfxtest.NewDevice()
			dev.BackendType = tt.backend
			if _, err := CreateModule(dev, Vertex); err != nil {
				t.Fatalf("CreateModule() error = %v", err)
			}
			desc := dev.Modules[0].Desc
			if got := len(desc.SPIRV) > 0; got != tt.wantSPIRV {
				t.Errorf("SPIR-V source = %v, want %v", got, tt.wantSPIRV)
			}
			if got := desc.WGSL != ""; got == tt.wantSPIRV {
				t.Errorf("WGSL source = %v, want %v", got, !tt.wantSPIRV)
			}
			if desc.Label != Vertex.Label {
				t.Errorf("Label = %q, want %q", desc.Label, Vertex.Label)
			}
		})
	}
}

func TestCreateModuleDeviceError(t *testing.T) {
	dev := gfxtest.NewDevice()
	dev.FailOn("CreateShaderModule", gfxtest.ErrInjected)
	_, err := CreateModule(dev, Fragment)
	if !errors.Is(err, gfxtest.ErrInjected) {
		t.Errorf("CreateModule() error = %v, want wrapped ErrInjected", err)
	}
}
