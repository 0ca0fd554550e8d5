//go:build (linux || freebsd || netbsd || openbsd) && !wayland

package glfwhost

import (
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// SurfaceHandles returns the Xlib Display pointer and the X11 window ID.
func (w *Window) SurfaceHandles() (display, window uintptr, err error) {
	return uintptr(unsafe.Pointer(glfw.GetX11Display())), uintptr(w.win.GetX11Window()), nil
}
