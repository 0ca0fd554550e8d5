// Package imgui drives Dear ImGui through github.com/inkyblackness/imgui-go
// as the overlay UI. It shows the Dear ImGui demo window and a small
// control window that can reopen it.
//
// The UI itself needs cgo and is only built with the imgui build tag. The
// draw data conversion it relies on is always built.
package imgui
