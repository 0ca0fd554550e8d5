//go:build imgui

package main

import (
	"github.com/gogpu/tri/internal/imgui"
	"github.com/gogpu/tri/overlay"
)

func newUI() overlay.UI { return imgui.New() }
