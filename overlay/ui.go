package overlay

import (
	"time"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/tri/host"
)

// Image is an RGBA8 image with tightly packed rows.
type Image struct {
	Pixels        []byte
	Width, Height int
}

// FrameInput is the per-frame state handed to the UI before it builds.
type FrameInput struct {
	// DisplayWidth and DisplayHeight are the window size in logical units.
	DisplayWidth, DisplayHeight float32

	// FramebufferScale converts logical units to framebuffer pixels.
	FramebufferScale [2]float32

	Delta time.Duration

	// Resumed is set on the first frame after the overlay was shown again.
	// Button releases that happened while it was hidden were never
	// delivered, so held-button state must be dropped.
	Resumed bool
}

// UI is an immediate-mode UI library driven by the overlay.
//
// Each enabled frame runs NewFrame, Build, then Render. The UI keeps its
// widget state between frames, including frames where the overlay is
// hidden.
type UI interface {
	// Attach hands the UI the platform it reads and writes the clipboard
	// through. Called once before the first frame.
	Attach(platform gpucontext.PlatformProvider)

	// FontAtlas returns the RGBA font atlas. Draw commands sample it
	// through FontTexture.
	FontAtlas() Image

	// HandleEvent feeds one input event to the UI and reports whether the
	// UI wants to capture it.
	HandleEvent(ev host.Event) bool

	NewFrame(in FrameInput)

	// Build emits this frame's widgets.
	Build()

	// Render finishes the frame and returns its draw data.
	Render() (*DrawData, error)

	// Cursor is the cursor shape the UI wants for the current frame.
	Cursor() gpucontext.CursorShape
}
