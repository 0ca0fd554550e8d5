// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package hud is a small immediate-mode diagnostics panel. Text is shaped
// with go-text/typesetting and drawn from a Go Regular atlas built at
// startup. It implements overlay.UI without cgo, so the default build has
// an overlay with no native dependencies beyond the window.
package hud

import (
	"math"
	"strings"
	"time"

	"github.com/gogpu/gpucontext"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/tri/host"
	"github.com/gogpu/tri/overlay"
)

// Snapshot is the renderer state shown by the panel.
type Snapshot struct {
	Adapter string
	Backend string

	Width, Height int
	Format        string
	PresentMode   string

	Frames          uint64
	Skipped         uint64
	OverlayFailures uint64
	FrameTime       time.Duration
}

const (
	padding     = 6
	lineSpacing = 2
	clipMax     = 40
)

var (
	panelColor   = overlay.RGBA(0x10, 0x14, 0x1c, 0xd0)
	titleColor   = overlay.RGBA(0xff, 0xd0, 0x60, 0xff)
	textColor    = overlay.RGBA(0xe8, 0xe8, 0xe8, 0xff)
	dimTextColor = overlay.RGBA(0x98, 0xa0, 0xa8, 0xff)
)

// HUD is the diagnostics panel. The panel can be dragged with the left
// mouse button. Ctrl+C copies the current statistics and Ctrl+V shows the
// clipboard text.
type HUD struct {
	source   func() Snapshot
	atlas    *atlas
	shaper   *shaper
	platform gpucontext.PlatformProvider
	printer  *message.Printer

	display [2]float32
	scale   [2]float32

	pos      [2]float32
	size     [2]float32
	mouse    [2]float32
	hovered  bool
	dragging bool
	grab     [2]float32

	clipboard string
	lines     []line
	list      overlay.DrawList
}

type line struct {
	text  string
	color uint32

	glyphs []placedGlyph
	width  float32
}

// New returns a HUD that shows whatever source reports each frame.
func New(source func() Snapshot) (*HUD, error) {
	a, err := newAtlas()
	if err != nil {
		return nil, err
	}
	s, err := newShaper()
	if err != nil {
		return nil, err
	}
	return &HUD{
		source:   source,
		atlas:    a,
		shaper:   s,
		platform: gpucontext.NullPlatformProvider{},
		printer:  message.NewPrinter(language.English),
		scale:    [2]float32{1, 1},
		pos:      [2]float32{10, 10},
	}, nil
}

// Attach implements overlay.UI.
func (h *HUD) Attach(platform gpucontext.PlatformProvider) {
	if platform != nil {
		h.platform = platform
	}
}

// FontAtlas implements overlay.UI.
func (h *HUD) FontAtlas() overlay.Image { return h.atlas.image() }

// HandleEvent implements overlay.UI.
func (h *HUD) HandleEvent(ev host.Event) bool {
	switch e := ev.(type) {
	case host.MouseMoveEvent:
		h.mouse = [2]float32{float32(e.X), float32(e.Y)}
		if h.dragging {
			h.pos = [2]float32{h.mouse[0] - h.grab[0], h.mouse[1] - h.grab[1]}
			return true
		}
		h.hovered = h.contains(h.mouse)
		return h.hovered
	case host.MouseButtonEvent:
		if e.Button != gpucontext.MouseButtonLeft {
			return h.hovered
		}
		if !e.Pressed {
			was := h.dragging
			h.dragging = false
			return was
		}
		if !h.contains(h.mouse) {
			return false
		}
		h.dragging = true
		h.grab = [2]float32{h.mouse[0] - h.pos[0], h.mouse[1] - h.pos[1]}
		return true
	case host.ScrollEvent:
		return h.hovered
	case host.KeyEvent:
		if !e.Pressed || !e.Mods.HasControl() {
			return false
		}
		switch e.Key {
		case gpucontext.KeyC:
			if err := h.platform.ClipboardWrite(h.summary()); err != nil {
				h.clipboard = "copy failed"
			}
			return true
		case gpucontext.KeyV:
			text, err := h.platform.ClipboardRead()
			if err != nil {
				h.clipboard = "unavailable"
			} else {
				h.clipboard = sanitize(text)
			}
			return true
		}
	}
	return false
}

// NewFrame implements overlay.UI.
func (h *HUD) NewFrame(in overlay.FrameInput) {
	h.display = [2]float32{in.DisplayWidth, in.DisplayHeight}
	h.scale = in.FramebufferScale
	if in.Resumed {
		h.dragging = false
		h.hovered = false
	}
}

// Build implements overlay.UI.
func (h *HUD) Build() {
	h.lines = h.layout(h.source())

	var width float32
	for i := range h.lines {
		l := &h.lines[i]
		l.glyphs, l.width = h.shaper.shape(l.glyphs[:0], l.text)
		width = max(width, l.width)
	}
	lineH := h.atlas.lineHeight + lineSpacing
	h.size = [2]float32{
		float32(math.Ceil(float64(width))) + 2*padding,
		float32(len(h.lines)*lineH - lineSpacing + 2*padding),
	}
	h.clampPosition()

	h.list.Vertices = h.list.Vertices[:0]
	h.list.Indices = h.list.Indices[:0]
	h.list.Commands = h.list.Commands[:0]

	h.rect(h.pos[0], h.pos[1], h.size[0], h.size[1], panelColor)
	y := h.pos[1] + padding
	for _, l := range h.lines {
		h.text(h.pos[0]+padding, y+float32(h.atlas.ascent), l.glyphs, l.color)
		y += float32(lineH)
	}

	h.list.Commands = append(h.list.Commands, overlay.DrawCommand{
		ElemCount: uint32(len(h.list.Indices)),
		ClipRect:  [4]float32{0, 0, h.display[0], h.display[1]},
		Texture:   overlay.FontTexture,
	})
}

// Render implements overlay.UI.
func (h *HUD) Render() (*overlay.DrawData, error) {
	return &overlay.DrawData{
		DisplaySize:      h.display,
		FramebufferScale: h.scale,
		Lists:            []overlay.DrawList{h.list},
	}, nil
}

// Cursor implements overlay.UI.
func (h *HUD) Cursor() gpucontext.CursorShape {
	if h.dragging || h.hovered {
		return gpucontext.CursorMove
	}
	return gpucontext.CursorDefault
}

func (h *HUD) layout(s Snapshot) []line {
	p := h.printer
	lines := []line{
		{"tri  F3 hide  Esc quit", titleColor},
		{p.Sprintf("adapter  %s (%s)", s.Adapter, s.Backend), textColor},
		{p.Sprintf("surface  %dx%d %s %s", s.Width, s.Height, s.Format, s.PresentMode), textColor},
		{p.Sprintf("frames   %d  skipped %d", s.Frames, s.Skipped), textColor},
		{p.Sprintf("frame    %.2f ms", float64(s.FrameTime)/float64(time.Millisecond)), textColor},
		{p.Sprintf("overlay  %d failures", s.OverlayFailures), textColor},
	}
	if h.clipboard != "" {
		lines = append(lines, line{"clipboard: " + h.clipboard, dimTextColor})
	}
	return lines
}

// summary is the text Ctrl+C copies.
func (h *HUD) summary() string {
	lines := h.layout(h.source())
	var b strings.Builder
	for _, l := range lines[1:] {
		b.WriteString(strings.Join(strings.Fields(l.text), " "))
		b.WriteByte('\n')
	}
	return b.String()
}

func (h *HUD) contains(p [2]float32) bool {
	return p[0] >= h.pos[0] && p[0] < h.pos[0]+h.size[0] &&
		p[1] >= h.pos[1] && p[1] < h.pos[1]+h.size[1]
}

// clampPosition keeps the panel inside the display when it fits.
func (h *HUD) clampPosition() {
	for i := range 2 {
		if h.pos[i]+h.size[i] > h.display[i] {
			h.pos[i] = h.display[i] - h.size[i]
		}
		if h.pos[i] < 0 {
			h.pos[i] = 0
		}
	}
}

func (h *HUD) rect(x, y, w, hgt float32, col uint32) {
	uv := h.atlas.solidUV()
	h.quad(x, y, x+w, y+hgt, uv[0], uv[1], uv[0], uv[1], col)
}

// text draws shaped glyphs with the pen starting at x on baseline y. Glyph
// corners are snapped to whole pixels so the atlas is sampled 1:1.
func (h *HUD) text(x, baseline float32, glyphs []placedGlyph, col uint32) {
	for _, pg := range glyphs {
		g := h.atlas.lookup(pg.gid)
		if g.w == 0 {
			continue
		}
		x0 := float32(math.Round(float64(x+pg.x))) + float32(g.offX)
		y0 := float32(math.Round(float64(baseline+pg.y))) + float32(g.offY)
		u0, v0, u1, v1 := h.atlas.uv(g)
		h.quad(x0, y0, x0+float32(g.w), y0+float32(g.h), u0, v0, u1, v1, col)
	}
}

func (h *HUD) quad(x0, y0, x1, y1, u0, v0, u1, v1 float32, col uint32) {
	base := uint16(len(h.list.Vertices))
	h.list.Vertices = append(h.list.Vertices,
		overlay.Vertex{Pos: [2]float32{x0, y0}, UV: [2]float32{u0, v0}, Color: col},
		overlay.Vertex{Pos: [2]float32{x1, y0}, UV: [2]float32{u1, v0}, Color: col},
		overlay.Vertex{Pos: [2]float32{x1, y1}, UV: [2]float32{u1, v1}, Color: col},
		overlay.Vertex{Pos: [2]float32{x0, y1}, UV: [2]float32{u0, v1}, Color: col},
	)
	h.list.Indices = append(h.list.Indices, base, base+1, base+2, base, base+2, base+3)
}

// sanitize flattens clipboard text to one printable line.
func sanitize(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	var b strings.Builder
	n := 0
	for _, r := range s {
		if n == clipMax {
			b.WriteString("...")
			break
		}
		if r < firstGlyph || r > lastGlyph {
			r = '?'
		}
		b.WriteRune(r)
		n++
	}
	return b.String()
}
