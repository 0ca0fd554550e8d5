//go:build !windows && !linux && !freebsd && !netbsd && !openbsd

package glfwhost

import "fmt"

// SurfaceHandles is not available here.
//
// TODO: attach a CAMetalLayer to the Cocoa window so macOS can create a
// Metal surface.
func (w *Window) SurfaceHandles() (display, window uintptr, err error) {
	return 0, 0, fmt.Errorf("%w: no window surface handles", ErrUnsupportedPlatform)
}
