//go:build windows

package glfwhost

import "unsafe"

// SurfaceHandles returns the HWND. The instance handle is left zero and
// resolved by the backend.
func (w *Window) SurfaceHandles() (display, window uintptr, err error) {
	return 0, uintptr(unsafe.Pointer(w.win.GetWin32Window())), nil
}
