package hud

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/tri/host"
	"github.com/gogpu/tri/overlay"
)

type fakePlatform struct {
	gpucontext.NullPlatformProvider
	clip    string
	readErr error
	writes  []string
}

func (p *fakePlatform) ClipboardRead() (string, error) { return p.clip, p.readErr }
func (p *fakePlatform) ClipboardWrite(s string) error {
	p.writes = append(p.writes, s)
	p.clip = s
	return nil
}

func testSnapshot() Snapshot {
	return Snapshot{
		Adapter:     "gfxtest",
		Backend:     "vulkan",
		Width:       1280,
		Height:      720,
		Format:      "BGRA8UnormSrgb",
		PresentMode: "Fifo",
		Frames:      1234,
		Skipped:     2,
		FrameTime:   16 * time.Millisecond,
	}
}

func newTestHUD(t *testing.T, w, h float32) *HUD {
	t.Helper()
	hud, err := New(testSnapshot)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	hud.NewFrame(overlay.FrameInput{DisplayWidth: w, DisplayHeight: h, FramebufferScale: [2]float32{1, 1}})
	hud.Build()
	return hud
}

func testAtlas(t *testing.T) *atlas {
	t.Helper()
	a, err := newAtlas()
	if err != nil {
		t.Fatalf("newAtlas() error = %v", err)
	}
	return a
}

func TestAtlas(t *testing.T) {
	img := testAtlas(t).image()

	if img.Width != atlasWidth || img.Height <= solidSize {
		t.Fatalf("atlas size = %dx%d, want %d wide", img.Width, img.Height, atlasWidth)
	}
	if len(img.Pixels) != img.Width*img.Height*4 {
		t.Fatalf("len(Pixels) = %d, want %d", len(img.Pixels), img.Width*img.Height*4)
	}
	for i := 0; i < len(img.Pixels); i += 4 {
		if img.Pixels[i] != 0xff || img.Pixels[i+1] != 0xff || img.Pixels[i+2] != 0xff {
			t.Fatalf("texel %d rgb = %v, want white", i/4, img.Pixels[i:i+3])
		}
	}
	if a := img.Pixels[3]; a != 0xff {
		t.Errorf("solid texel alpha = %d, want 255", a)
	}
}

func TestAtlasGlyphCoverage(t *testing.T) {
	a := testAtlas(t)
	coverage := func(r rune) int {
		gid, ok := a.gids[r]
		if !ok {
			t.Fatalf("no glyph for %q", r)
		}
		g := a.glyphs[gid]
		n := 0
		for y := g.y; y < g.y+g.h; y++ {
			for x := g.x; x < g.x+g.w; x++ {
				if a.img.RGBAAt(x, y).A != 0 {
					n++
				}
			}
		}
		return n
	}

	if n := coverage(' '); n != 0 {
		t.Errorf("space covers %d texels, want 0", n)
	}
	for _, r := range "A0~g" {
		if coverage(r) == 0 {
			t.Errorf("glyph %q has no coverage", r)
		}
	}
	if g := a.glyphs[a.gids['g']]; g.offY+g.h <= 0 {
		t.Errorf("'g' ink ends at %d, want below the baseline", g.offY+g.h)
	}
}

func TestAtlasLookupFallback(t *testing.T) {
	a := testAtlas(t)
	want := a.glyphs[a.gids['?']]
	if got := a.lookup(9999); got != want {
		t.Errorf("lookup(unknown) = %+v, want '?' %+v", got, want)
	}
}

func TestShapedGlyphsIndexAtlas(t *testing.T) {
	a := testAtlas(t)
	s, err := newShaper()
	if err != nil {
		t.Fatalf("newShaper() error = %v", err)
	}
	for r := firstGlyph; r <= lastGlyph; r++ {
		glyphs, _ := s.shape(nil, string(r))
		if len(glyphs) != 1 {
			t.Fatalf("shape(%q) = %d glyphs, want 1", r, len(glyphs))
		}
		if glyphs[0].gid != a.gids[r] {
			t.Errorf("shape(%q) gid = %d, atlas has %d", r, glyphs[0].gid, a.gids[r])
		}
	}
}

func TestShapeAdvances(t *testing.T) {
	s, err := newShaper()
	if err != nil {
		t.Fatalf("newShaper() error = %v", err)
	}

	glyphs, width := s.shape(nil, "Hello")
	if len(glyphs) != 5 {
		t.Fatalf("shape(Hello) = %d glyphs, want 5", len(glyphs))
	}
	for i := 1; i < len(glyphs); i++ {
		if glyphs[i].x <= glyphs[i-1].x {
			t.Errorf("glyph %d at x=%v, not right of %v", i, glyphs[i].x, glyphs[i-1].x)
		}
	}
	if width <= glyphs[4].x {
		t.Errorf("width = %v, want past the last pen position %v", width, glyphs[4].x)
	}

	if _, w := s.shape(nil, ""); w != 0 {
		t.Errorf("shape(\"\") width = %v, want 0", w)
	}
	_, wide := s.shape(nil, "WWWW")
	_, narrow := s.shape(nil, "iiii")
	if wide <= narrow {
		t.Errorf("width(WWWW) = %v, width(iiii) = %v: want proportional advances", wide, narrow)
	}
}

func TestPanelFitsLongestLine(t *testing.T) {
	h := newTestHUD(t, 800, 600)
	for _, l := range h.lines {
		if l.width+2*padding > h.size[0] {
			t.Errorf("line %q is %v wide, panel %v", l.text, l.width, h.size[0])
		}
	}
}

func TestRenderDrawData(t *testing.T) {
	h := newTestHUD(t, 800, 600)

	data, err := h.Render()
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if err := data.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	if len(data.Lists) != 1 || len(data.Lists[0].Commands) != 1 {
		t.Fatalf("got %d lists, want 1 list with 1 command", len(data.Lists))
	}
	l := data.Lists[0]
	cmd := l.Commands[0]
	if int(cmd.ElemCount) != len(l.Indices) {
		t.Errorf("ElemCount = %d, want %d", cmd.ElemCount, len(l.Indices))
	}
	if cmd.ClipRect != [4]float32{0, 0, 800, 600} {
		t.Errorf("ClipRect = %v, want display", cmd.ClipRect)
	}
	if cmd.Texture != overlay.FontTexture {
		t.Errorf("Texture = %v, want FontTexture", cmd.Texture)
	}
	if len(l.Vertices)%4 != 0 || len(l.Indices) != len(l.Vertices)/4*6 {
		t.Errorf("%d vertices, %d indices: not whole quads", len(l.Vertices), len(l.Indices))
	}
}

func TestRebuildDoesNotGrow(t *testing.T) {
	h := newTestHUD(t, 800, 600)
	first := len(h.list.Vertices)
	h.Build()
	h.Build()
	if got := len(h.list.Vertices); got != first {
		t.Errorf("vertices after rebuild = %d, want %d", got, first)
	}
}

func TestCountersUseGrouping(t *testing.T) {
	h := newTestHUD(t, 800, 600)
	var found bool
	for _, l := range h.lines {
		if strings.Contains(l.text, "1,234") {
			found = true
		}
	}
	if !found {
		t.Errorf("no line shows 1,234: %v", h.lines)
	}
}

func TestDrag(t *testing.T) {
	h := newTestHUD(t, 800, 600)

	if h.HandleEvent(host.MouseMoveEvent{X: 500, Y: 500}) {
		t.Error("move outside panel captured")
	}
	if c := h.Cursor(); c != gpucontext.CursorDefault {
		t.Errorf("Cursor() = %v, want default", c)
	}
	if h.HandleEvent(host.MouseButtonEvent{Button: gpucontext.MouseButtonLeft, Pressed: true}) {
		t.Error("press outside panel captured")
	}

	if !h.HandleEvent(host.MouseMoveEvent{X: 15, Y: 15}) {
		t.Error("move over panel not captured")
	}
	if c := h.Cursor(); c != gpucontext.CursorMove {
		t.Errorf("Cursor() = %v, want move", c)
	}
	if !h.HandleEvent(host.MouseButtonEvent{Button: gpucontext.MouseButtonLeft, Pressed: true}) {
		t.Error("press on panel not captured")
	}
	h.HandleEvent(host.MouseMoveEvent{X: 115, Y: 65})
	if h.pos != [2]float32{110, 60} {
		t.Errorf("pos = %v, want [110 60]", h.pos)
	}
	if !h.HandleEvent(host.MouseButtonEvent{Button: gpucontext.MouseButtonLeft}) {
		t.Error("release after drag not captured")
	}
	if h.dragging {
		t.Error("still dragging after release")
	}
}

func TestDragDroppedWhileHidden(t *testing.T) {
	h := newTestHUD(t, 800, 600)
	h.HandleEvent(host.MouseMoveEvent{X: 15, Y: 15})
	h.HandleEvent(host.MouseButtonEvent{Button: gpucontext.MouseButtonLeft, Pressed: true})

	// Hidden here: the release never reaches the HUD.
	h.NewFrame(overlay.FrameInput{DisplayWidth: 800, DisplayHeight: 600, FramebufferScale: [2]float32{1, 1}, Resumed: true})
	if h.dragging {
		t.Fatal("still dragging after the overlay was shown again")
	}
	if h.HandleEvent(host.MouseMoveEvent{X: 300, Y: 300}) {
		t.Error("move outside panel captured")
	}
	if h.pos != [2]float32{10, 10} {
		t.Errorf("pos = %v, want [10 10]", h.pos)
	}
	if c := h.Cursor(); c != gpucontext.CursorDefault {
		t.Errorf("Cursor() = %v, want default", c)
	}
}

func TestPanelStaysOnScreen(t *testing.T) {
	h := newTestHUD(t, 800, 600)
	h.pos = [2]float32{790, 590}
	h.Build()
	if h.pos[0]+h.size[0] > 800 || h.pos[1]+h.size[1] > 600 {
		t.Errorf("panel %v+%v leaves 800x600 display", h.pos, h.size)
	}

	h.NewFrame(overlay.FrameInput{DisplayWidth: 50, DisplayHeight: 50, FramebufferScale: [2]float32{1, 1}})
	h.Build()
	if h.pos != [2]float32{0, 0} {
		t.Errorf("pos on tiny display = %v, want origin", h.pos)
	}
}

func TestClipboard(t *testing.T) {
	h := newTestHUD(t, 800, 600)
	p := &fakePlatform{}
	h.Attach(p)

	ctrl := gpucontext.ModControl
	if !h.HandleEvent(host.KeyEvent{Key: gpucontext.KeyC, Mods: ctrl, Pressed: true}) {
		t.Fatal("Ctrl+C not captured")
	}
	if len(p.writes) != 1 || !strings.Contains(p.writes[0], "frames 1,234 skipped 2") {
		t.Errorf("clipboard writes = %q", p.writes)
	}

	p.clip = "hello\n  world"
	if !h.HandleEvent(host.KeyEvent{Key: gpucontext.KeyV, Mods: ctrl, Pressed: true}) {
		t.Fatal("Ctrl+V not captured")
	}
	h.Build()
	last := h.lines[len(h.lines)-1]
	if last.text != "clipboard: hello world" {
		t.Errorf("last line = %q, want clipboard text", last.text)
	}

	p.readErr = errors.New("no clipboard")
	h.HandleEvent(host.KeyEvent{Key: gpucontext.KeyV, Mods: ctrl, Pressed: true})
	if h.clipboard != "unavailable" {
		t.Errorf("clipboard after read error = %q", h.clipboard)
	}
}

func TestKeysWithoutControlPassThrough(t *testing.T) {
	h := newTestHUD(t, 800, 600)
	tests := []host.KeyEvent{
		{Key: gpucontext.KeyC, Pressed: true},
		{Key: gpucontext.KeyEscape, Pressed: true},
		{Key: gpucontext.KeyC, Mods: gpucontext.ModControl},
	}
	for _, ev := range tests {
		if h.HandleEvent(ev) {
			t.Errorf("HandleEvent(%+v) = true, want false", ev)
		}
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"a\tb\nc", "a b c"},
		{"café", "caf?"},
		{strings.Repeat("x", 50), strings.Repeat("x", 40) + "..."},
	}
	for _, tt := range tests {
		if got := sanitize(tt.in); got != tt.want {
			t.Errorf("sanitize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
