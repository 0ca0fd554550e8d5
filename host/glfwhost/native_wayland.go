//go:build (linux || freebsd || netbsd || openbsd) && wayland

package glfwhost

import (
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// SurfaceHandles returns the wl_display and wl_surface pointers.
func (w *Window) SurfaceHandles() (display, window uintptr, err error) {
	return uintptr(unsafe.Pointer(glfw.GetWaylandDisplay())), uintptr(unsafe.Pointer(w.win.GetWaylandWindow())), nil
}
