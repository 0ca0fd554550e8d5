//go:build !imgui

package main

import "github.com/gogpu/tri/overlay"

// newUI returns nil so the built-in diagnostics panel is used.
func newUI() overlay.UI { return nil }
