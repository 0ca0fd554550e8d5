// Package glfwhost implements host.Window on a GLFW window without a client
// API, so the surface can be created from the native handles.
//
// GLFW must be driven from the main OS thread. Callers lock it with
// runtime.LockOSThread before Open and call every method from it.
package glfwhost

import (
	"errors"
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/gogpu/gpucontext"

	"github.com/gogpu/tri/host"
)

// ErrUnsupportedPlatform is returned by SurfaceHandles on platforms whose
// surfaces cannot be created from a plain window handle.
var ErrUnsupportedPlatform = errors.New("glfwhost: unsupported platform")

// Config describes the window to open.
type Config struct {
	Width, Height int
	Title         string
	Resizable     bool
}

// Window is a GLFW window with a queue of decoded input events.
type Window struct {
	gpucontext.NullPlatformProvider

	win     *glfw.Window
	events  []host.Event
	cursors map[glfw.StandardCursor]*glfw.Cursor
	hidden  bool
}

var _ host.Window = (*Window)(nil)

// Open initializes GLFW and creates the window.
func Open(cfg Config) (*Window, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("glfwhost: invalid window size %dx%d", cfg.Width, cfg.Height)
	}
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfwhost: init: %w", err)
	}
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	resizable := glfw.False
	if cfg.Resizable {
		resizable = glfw.True
	}
	glfw.WindowHint(glfw.Resizable, resizable)

	win, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("glfwhost: create window: %w", err)
	}

	w := &Window{win: win, cursors: make(map[glfw.StandardCursor]*glfw.Cursor)}
	w.installCallbacks()
	return w, nil
}

func (w *Window) installCallbacks() {
	w.win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, mods glfw.ModifierKey) {
		w.push(host.KeyEvent{
			Key:     translateKey(key),
			Mods:    translateMods(mods),
			Pressed: action != glfw.Release,
			Repeat:  action == glfw.Repeat,
		})
	})
	w.win.SetCharCallback(func(_ *glfw.Window, char rune) {
		w.push(host.CharEvent{Char: char})
	})
	w.win.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		w.push(host.MouseMoveEvent{X: x, Y: y})
	})
	w.win.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		b, ok := translateButton(button)
		if !ok {
			return
		}
		w.push(host.MouseButtonEvent{Button: b, Mods: translateMods(mods), Pressed: action == glfw.Press})
	})
	w.win.SetScrollCallback(func(_ *glfw.Window, dx, dy float64) {
		w.push(host.ScrollEvent{DX: dx, DY: dy})
	})
	w.win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.push(host.ResizeEvent{Width: width, Height: height})
	})
	w.win.SetCloseCallback(func(_ *glfw.Window) {
		w.push(host.CloseEvent{})
	})
}

func (w *Window) push(ev host.Event) { w.events = append(w.events, ev) }

// PollEvents processes pending window system events and returns the
// decoded events in arrival order. The returned slice is valid until the
// next call.
func (w *Window) PollEvents() []host.Event {
	w.events = w.events[:0]
	glfw.PollEvents()
	return w.events
}

// WaitEvents is PollEvents but blocks until at least one event arrives.
func (w *Window) WaitEvents() []host.Event {
	w.events = w.events[:0]
	glfw.WaitEvents()
	return w.events
}

// FramebufferSize returns the drawable size in pixels.
func (w *Window) FramebufferSize() (int, int) { return w.win.GetFramebufferSize() }

// Size returns the window size in logical units.
func (w *Window) Size() (int, int) { return w.win.GetSize() }

// ScaleFactor returns the horizontal content scale.
func (w *Window) ScaleFactor() float64 {
	x, _ := w.win.GetContentScale()
	if x <= 0 {
		return 1
	}
	return float64(x)
}

// RequestRedraw wakes a blocked event wait. The render loop polls, so this
// only matters to callers that wait for events.
func (w *Window) RequestRedraw() { glfw.PostEmptyEvent() }

func (w *Window) SetShouldClose(v bool) { w.win.SetShouldClose(v) }

func (w *Window) ShouldClose() bool { return w.win.ShouldClose() }

// ClipboardRead returns the system clipboard text.
func (w *Window) ClipboardRead() (string, error) {
	return w.win.GetClipboardString(), nil
}

// ClipboardWrite replaces the system clipboard text.
func (w *Window) ClipboardWrite(text string) error {
	w.win.SetClipboardString(text)
	return nil
}

// SetCursor switches to the closest GLFW standard cursor. Shapes GLFW 3.3
// has no cursor for fall back to the arrow.
func (w *Window) SetCursor(shape gpucontext.CursorShape) {
	if shape == gpucontext.CursorNone {
		w.win.SetInputMode(glfw.CursorMode, glfw.CursorHidden)
		w.hidden = true
		return
	}
	if w.hidden {
		w.win.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
		w.hidden = false
	}

	std := standardCursor(shape)
	c, ok := w.cursors[std]
	if !ok {
		c = glfw.CreateStandardCursor(std)
		w.cursors[std] = c
	}
	w.win.SetCursor(c)
}

// Close destroys the window and terminates GLFW.
func (w *Window) Close() {
	for _, c := range w.cursors {
		c.Destroy()
	}
	clear(w.cursors)
	if w.win != nil {
		w.win.Destroy()
		w.win = nil
	}
	glfw.Terminate()
}
