package tri

import (
	"errors"
	"testing"
	"time"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/tri/gfx"
	"github.com/gogpu/tri/gfx/gfxtest"
	"github.com/gogpu/tri/host"
	"github.com/gogpu/tri/overlay"
	"github.com/gogpu/tri/present"
)

type testWindow struct {
	gpucontext.NullPlatformProvider
	gpucontext.NullWindowProvider

	fbW, fbH    int
	shouldClose bool
	cursors     []gpucontext.CursorShape
}

func newTestWindow(w, h int) *testWindow {
	return &testWindow{
		NullWindowProvider: gpucontext.NullWindowProvider{W: w, H: h, SF: 1},
		fbW:                w,
		fbH:                h,
	}
}

func (w *testWindow) FramebufferSize() (int, int)        { return w.fbW, w.fbH }
func (w *testWindow) SetShouldClose(v bool)              { w.shouldClose = v }
func (w *testWindow) ShouldClose() bool                  { return w.shouldClose }
func (w *testWindow) SetCursor(c gpucontext.CursorShape) { w.cursors = append(w.cursors, c) }

type stubUI struct {
	events  []host.Event
	capture bool
	data    *overlay.DrawData
	err     error
	frames  []overlay.FrameInput
	closed  bool
}

func (u *stubUI) Attach(gpucontext.PlatformProvider) {}
func (u *stubUI) FontAtlas() overlay.Image {
	return overlay.Image{Pixels: make([]byte, 4*4*4), Width: 4, Height: 4}
}
func (u *stubUI) HandleEvent(ev host.Event) bool     { u.events = append(u.events, ev); return u.capture }
func (u *stubUI) NewFrame(in overlay.FrameInput)     { u.frames = append(u.frames, in) }
func (u *stubUI) Build()                             {}
func (u *stubUI) Render() (*overlay.DrawData, error) { return u.data, u.err }
func (u *stubUI) Cursor() gpucontext.CursorShape     { return gpucontext.CursorDefault }
func (u *stubUI) Close()                             { u.closed = true }

// emptyFrame is valid draw data with nothing to draw.
func emptyFrame() *overlay.DrawData {
	return &overlay.DrawData{DisplaySize: [2]float32{1280, 720}, FramebufferScale: [2]float32{1, 1}}
}

func newTestState(t *testing.T, opts ...Option) (*State, *gfxtest.Device, *gfxtest.Surface, *testWindow) {
	t.Helper()
	dev := gfxtest.NewDevice()
	surf := gfxtest.NewSurface()
	win := newTestWindow(1280, 720)
	st, err := New(dev, surf, win, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(st.Close)
	return st, dev, surf, win
}

func lastEncoder(t *testing.T, dev *gfxtest.Device) *gfxtest.Encoder {
	t.Helper()
	if len(dev.Encoders) == 0 {
		t.Fatal("no command encoder was created")
	}
	return dev.Encoders[len(dev.Encoders)-1]
}

func key(k gpucontext.Key) host.KeyEvent { return host.KeyEvent{Key: k, Pressed: true} }

func TestRenderResizeRender(t *testing.T) {
	st, dev, surf, _ := newTestState(t)

	cfg, ok := surf.LastConfig()
	if !ok || cfg.Width != 1280 || cfg.Height != 720 {
		t.Fatalf("initial config = %+v, want 1280x720", cfg)
	}

	if err := st.Render(); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if got := len(dev.Submissions); got != 1 {
		t.Fatalf("submissions = %d, want 1", got)
	}
	enc := lastEncoder(t, dev)
	if enc.Label != "Render Encoder" {
		t.Errorf("encoder label = %q, want %q", enc.Label, "Render Encoder")
	}
	if got := len(enc.Passes); got != 2 {
		t.Fatalf("passes = %d, want 2 (geometry + overlay)", got)
	}

	geo := enc.Passes[0]
	att := geo.Desc.ColorAttachments[0]
	if att.LoadOp != gputypes.LoadOpClear || att.StoreOp != gputypes.StoreOpStore {
		t.Errorf("geometry pass ops = %v/%v, want Clear/Store", att.LoadOp, att.StoreOp)
	}
	if att.ClearValue != ClearColor {
		t.Errorf("clear value = %+v, want %+v", att.ClearValue, ClearColor)
	}
	if len(geo.Draws) != 1 {
		t.Fatalf("geometry draws = %d, want 1", len(geo.Draws))
	}
	if d := geo.Draws[0]; d.IndexCount != 3 || d.InstanceCount != 1 || d.FirstIndex != 0 || d.BaseVertex != 0 {
		t.Errorf("draw = %+v, want DrawIndexed(3, 1, 0, 0, 0)", d)
	}
	if geo.IndexFormat != gputypes.IndexFormatUint16 {
		t.Errorf("index format = %v, want Uint16", geo.IndexFormat)
	}
	if geo.VertexBuffers[0] == nil {
		t.Error("vertex buffer slot 0 not bound")
	}
	if ov := enc.Passes[1].Desc.ColorAttachments[0]; ov.LoadOp != gputypes.LoadOpLoad {
		t.Errorf("overlay pass load op = %v, want Load", ov.LoadOp)
	}
	if surf.Presented != 1 {
		t.Errorf("presented = %d, want 1", surf.Presented)
	}

	pipelines := len(dev.Pipelines)
	if consumed := st.Input(host.ResizeEvent{Width: 640, Height: 480}); !consumed {
		t.Error("Input(resize) = false, want true")
	}
	cfg, _ = surf.LastConfig()
	if cfg.Width != 640 || cfg.Height != 480 {
		t.Errorf("config after resize = %dx%d, want 640x480", cfg.Width, cfg.Height)
	}

	if err := st.Render(); err != nil {
		t.Fatalf("Render() after resize error = %v", err)
	}
	if surf.Acquired != 2 {
		t.Errorf("acquired = %d, want 2", surf.Acquired)
	}
	if len(dev.Pipelines) != pipelines {
		t.Errorf("pipelines after resize = %d, want %d (no rebuild)", len(dev.Pipelines), pipelines)
	}

	s := st.Stats()
	if s.Frames != 2 || s.Submissions != 2 || s.Skipped != 0 || s.PipelineBuilds != 1 {
		t.Errorf("Stats() = %+v", s)
	}
}

func TestRenderAfterFailedResize(t *testing.T) {
	st, _, surf, _ := newTestState(t)

	surf.FailOn("Configure", gfxtest.ErrInjected)
	if err := st.Resize(640, 480); !errors.Is(err, gfxtest.ErrInjected) {
		t.Fatalf("Resize() error = %v, want injected", err)
	}
	surf.FailOn("Configure", nil)
	if err := st.Resize(640, 480); err != nil {
		t.Fatalf("Resize() retry error = %v", err)
	}

	if err := st.Render(); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	cfg, _ := surf.LastConfig()
	if cfg.Width != 640 || cfg.Height != 480 {
		t.Errorf("frame rendered at %dx%d, want 640x480", cfg.Width, cfg.Height)
	}
	if got := st.Stats().Frames; got != 1 {
		t.Errorf("Frames = %d, want 1", got)
	}
}

func TestSuboptimalFrameCounted(t *testing.T) {
	st, _, surf, _ := newTestState(t)
	surf.Suboptimal = true
	surf.FailOn("Configure", gfxtest.ErrInjected)

	if err := st.Render(); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if surf.Presented != 1 {
		t.Fatalf("presented = %d, want 1", surf.Presented)
	}
	if s := st.Stats(); s.Frames != 1 || s.Skipped != 0 {
		t.Errorf("Stats() = %+v, want one frame and no skips", s)
	}
}

func TestRenderTimeoutSkipsFrame(t *testing.T) {
	st, dev, surf, _ := newTestState(t)
	surf.AcquireErrs = []error{gfx.ErrTimeout}

	if err := st.Render(); err != nil {
		t.Fatalf("Render() error = %v, want nil", err)
	}
	if len(dev.Submissions) != 0 {
		t.Errorf("submissions = %d, want 0", len(dev.Submissions))
	}
	if len(dev.Encoders) != 0 {
		t.Errorf("encoders = %d, want 0", len(dev.Encoders))
	}
	if got := st.Stats().Skipped; got != 1 {
		t.Errorf("Skipped = %d, want 1", got)
	}

	if err := st.Render(); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if len(dev.Submissions) != 1 {
		t.Errorf("submissions after recovery = %d, want 1", len(dev.Submissions))
	}
}

func TestRenderDeviceLost(t *testing.T) {
	st, dev, surf, _ := newTestState(t)
	surf.AcquireErrs = []error{gfx.ErrDeviceLost}

	err := st.Render()
	if !errors.Is(err, gfx.ErrDeviceLost) {
		t.Fatalf("Render() error = %v, want ErrDeviceLost", err)
	}
	if len(dev.Submissions) != 0 {
		t.Errorf("submissions = %d, want 0", len(dev.Submissions))
	}
}

func TestRenderSubmitFailure(t *testing.T) {
	st, dev, surf, _ := newTestState(t)
	dev.FailOn("Submit", gfxtest.ErrInjected)

	if err := st.Render(); err != nil {
		t.Fatalf("Render() error = %v, want nil", err)
	}
	if surf.Discarded != 1 || surf.Presented != 0 {
		t.Errorf("discarded/presented = %d/%d, want 1/0", surf.Discarded, surf.Presented)
	}
	if st.Stats().Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", st.Stats().Skipped)
	}

	dev.FailOn("Submit", nil)
	if err := st.Render(); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if surf.Presented != 1 {
		t.Errorf("presented = %d, want 1", surf.Presented)
	}
}

func TestRenderFinishFailureSkipsFrame(t *testing.T) {
	st, dev, surf, _ := newTestState(t)
	dev.FailOn("Finish", gfxtest.ErrInjected)

	if err := st.Render(); err != nil {
		t.Fatalf("Render() error = %v, want nil", err)
	}
	if len(dev.Submissions) != 0 {
		t.Errorf("submissions = %d, want 0", len(dev.Submissions))
	}
	if surf.Discarded != 1 || surf.Presented != 0 {
		t.Errorf("discarded/presented = %d/%d, want 1/0", surf.Discarded, surf.Presented)
	}
	if got := st.Stats().Skipped; got != 1 {
		t.Errorf("Skipped = %d, want 1", got)
	}

	dev.FailOn("Finish", nil)
	if err := st.Render(); err != nil {
		t.Fatalf("Render() after recovery error = %v", err)
	}
	if got := st.Stats().Frames; got != 1 {
		t.Errorf("Frames = %d, want 1", got)
	}
}

func TestRenderEncoderFailure(t *testing.T) {
	st, dev, surf, _ := newTestState(t)
	dev.FailOn("CreateCommandEncoder", gfxtest.ErrInjected)

	if err := st.Render(); !errors.Is(err, gfxtest.ErrInjected) {
		t.Fatalf("Render() error = %v, want injected", err)
	}
	if surf.Discarded != 1 {
		t.Errorf("discarded = %d, want 1", surf.Discarded)
	}
}

func TestPassCountFollowsOverlay(t *testing.T) {
	tests := []struct {
		name    string
		enabled bool
		want    int
	}{
		{"overlay shown", true, 2},
		{"overlay hidden", false, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ui := &stubUI{data: emptyFrame()}
			st, dev, _, _ := newTestState(t, WithUI(ui), WithOverlayEnabled(tt.enabled))
			if err := st.Render(); err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			if got := len(lastEncoder(t, dev).Passes); got != tt.want {
				t.Errorf("passes = %d, want %d", got, tt.want)
			}
			if len(dev.Submissions) != 1 {
				t.Errorf("submissions = %d, want 1", len(dev.Submissions))
			}
		})
	}
}

func TestToggleTwice(t *testing.T) {
	ui := &stubUI{data: emptyFrame()}
	st, dev, _, _ := newTestState(t, WithUI(ui))

	for i, want := range []bool{false, true} {
		if !st.Input(key(gpucontext.KeyF3)) {
			t.Errorf("toggle %d: Input() = false, want true", i)
		}
		if st.OverlayEnabled() != want {
			t.Errorf("toggle %d: OverlayEnabled() = %v, want %v", i, st.OverlayEnabled(), want)
		}
	}

	if err := st.Render(); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if got := len(lastEncoder(t, dev).Passes); got != 2 {
		t.Errorf("passes = %d, want 2", got)
	}
}

func TestCustomOverlayKey(t *testing.T) {
	st, _, _, _ := newTestState(t, WithUI(&stubUI{data: emptyFrame()}), WithOverlayKey(gpucontext.KeyF1))

	st.Input(key(gpucontext.KeyF3))
	if !st.OverlayEnabled() {
		t.Error("F3 toggled the overlay although the key is F1")
	}
	st.Input(key(gpucontext.KeyF1))
	if st.OverlayEnabled() {
		t.Error("F1 did not toggle the overlay")
	}
}

func TestKeyRepeatAndReleaseIgnored(t *testing.T) {
	st, _, _, win := newTestState(t, WithUI(&stubUI{data: emptyFrame()}))

	st.Input(host.KeyEvent{Key: gpucontext.KeyF3, Pressed: true, Repeat: true})
	st.Input(host.KeyEvent{Key: gpucontext.KeyEscape, Pressed: false})
	if !st.OverlayEnabled() || win.shouldClose {
		t.Error("repeat or release events must not trigger bindings")
	}
}

func TestEscapeCloses(t *testing.T) {
	st, _, _, win := newTestState(t, WithUI(&stubUI{data: emptyFrame()}))
	if !st.Input(key(gpucontext.KeyEscape)) {
		t.Error("Input(Escape) = false, want true")
	}
	if !win.ShouldClose() {
		t.Error("Escape did not request close")
	}
}

func TestCloseEvent(t *testing.T) {
	st, _, _, win := newTestState(t, WithUI(&stubUI{data: emptyFrame()}))
	st.Input(host.CloseEvent{})
	if !win.ShouldClose() {
		t.Error("CloseEvent did not request close")
	}
}

func TestOverlayCapturesFirst(t *testing.T) {
	ui := &stubUI{data: emptyFrame(), capture: true}
	st, _, surf, win := newTestState(t, WithUI(ui))

	if !st.Input(key(gpucontext.KeyEscape)) {
		t.Error("captured event should be reported as consumed")
	}
	if win.shouldClose {
		t.Error("Escape captured by the overlay closed the window")
	}
	st.Input(key(gpucontext.KeyF3))
	if !st.OverlayEnabled() {
		t.Error("toggle key captured by the overlay hid it")
	}

	st.Input(host.ResizeEvent{Width: 800, Height: 600})
	if cfg, _ := surf.LastConfig(); cfg.Width != 800 || cfg.Height != 600 {
		t.Errorf("resize captured by the overlay was not applied: %dx%d", cfg.Width, cfg.Height)
	}
	if len(ui.events) != 3 {
		t.Errorf("ui saw %d events, want 3", len(ui.events))
	}
}

func TestHiddenOverlaySeesNoInput(t *testing.T) {
	ui := &stubUI{data: emptyFrame(), capture: true}
	st, _, _, win := newTestState(t, WithUI(ui), WithOverlayEnabled(false))

	st.Input(key(gpucontext.KeyEscape))
	if len(ui.events) != 0 {
		t.Errorf("hidden overlay saw %d events", len(ui.events))
	}
	if !win.shouldClose {
		t.Error("Escape did not close with the overlay hidden")
	}
}

func TestUnhandledEventNotConsumed(t *testing.T) {
	st, _, _, _ := newTestState(t, WithUI(&stubUI{data: emptyFrame()}))
	if st.Input(host.MouseMoveEvent{X: 1, Y: 2}) {
		t.Error("Input(mouse move) = true, want false")
	}
	if st.Input(key(gpucontext.KeyA)) {
		t.Error("Input(A) = true, want false")
	}
}

func TestOverlayFailureStillDrawsGeometry(t *testing.T) {
	ui := &stubUI{err: errors.New("ui exploded")}
	st, dev, surf, _ := newTestState(t, WithUI(ui))

	if err := st.Render(); err != nil {
		t.Fatalf("Render() error = %v, want nil", err)
	}
	enc := lastEncoder(t, dev)
	if len(enc.Passes) != 1 {
		t.Errorf("passes = %d, want 1 (geometry only)", len(enc.Passes))
	}
	if len(dev.Submissions) != 1 || surf.Presented != 1 {
		t.Errorf("submissions/presented = %d/%d, want 1/1", len(dev.Submissions), surf.Presented)
	}
	if got := st.Stats().OverlayFailures; got != 1 {
		t.Errorf("OverlayFailures = %d, want 1", got)
	}
}

func TestMalformedOverlayDataDropsOnlyOverlay(t *testing.T) {
	bad := emptyFrame()
	bad.Lists = []overlay.DrawList{{
		Vertices: []overlay.Vertex{{}},
		Indices:  []uint16{0, 1, 2},
		Commands: []overlay.DrawCommand{{ElemCount: 3}},
	}}
	st, dev, _, _ := newTestState(t, WithUI(&stubUI{data: bad}))

	if err := st.Render(); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if got := len(lastEncoder(t, dev).Passes); got != 1 {
		t.Errorf("passes = %d, want 1", got)
	}
	if st.Stats().OverlayFailures != 1 {
		t.Errorf("OverlayFailures = %d, want 1", st.Stats().OverlayFailures)
	}
}

func TestZeroSizeSuspends(t *testing.T) {
	st, dev, _, _ := newTestState(t, WithUI(&stubUI{data: emptyFrame()}))

	if err := st.Resize(0, 0); err != nil {
		t.Fatalf("Resize(0, 0) error = %v", err)
	}
	if err := st.Render(); err != nil {
		t.Fatalf("Render() while suspended error = %v", err)
	}
	if len(dev.Encoders) != 0 {
		t.Errorf("encoders while suspended = %d, want 0", len(dev.Encoders))
	}

	if err := st.Resize(800, 600); err != nil {
		t.Fatalf("Resize(800, 600) error = %v", err)
	}
	if err := st.Render(); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if len(dev.Submissions) != 1 {
		t.Errorf("submissions = %d, want 1", len(dev.Submissions))
	}
	if w, h := st.Size(); w != 800 || h != 600 {
		t.Errorf("Size() = %dx%d, want 800x600", w, h)
	}
}

func TestMinimizedAtStartup(t *testing.T) {
	dev := gfxtest.NewDevice()
	surf := gfxtest.NewSurface()
	win := newTestWindow(0, 0)
	st, err := New(dev, surf, win, WithUI(&stubUI{data: emptyFrame()}))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer st.Close()

	if len(surf.Configs) != 0 {
		t.Errorf("configs = %d, want 0", len(surf.Configs))
	}
	if err := st.Render(); err != nil {
		t.Errorf("Render() error = %v", err)
	}
}

func TestFormatChangeRebuildsPipeline(t *testing.T) {
	st, dev, surf, _ := newTestState(t, WithUI(&stubUI{data: emptyFrame()}))
	if st.SurfaceFormat() != gputypes.TextureFormatBGRA8UnormSrgb {
		t.Fatalf("SurfaceFormat() = %v, want BGRA8UnormSrgb", st.SurfaceFormat())
	}
	old := st.pipeline.Handle().(*gfxtest.RenderPipeline)

	surf.Caps.Formats = []gputypes.TextureFormat{gputypes.TextureFormatRGBA8UnormSrgb}
	surf.AcquireErrs = []error{gfx.ErrSurfaceLost}

	if err := st.Render(); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if err := st.Render(); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if got := st.Stats().PipelineBuilds; got != 2 {
		t.Errorf("PipelineBuilds = %d, want 2", got)
	}
	if !old.Released {
		t.Error("pipeline for the old format not released")
	}
	cur := st.pipeline.Handle().(*gfxtest.RenderPipeline)
	if f := cur.Desc.Fragment.Targets[0].Format; f != gputypes.TextureFormatRGBA8UnormSrgb {
		t.Errorf("pipeline target = %v, want RGBA8UnormSrgb", f)
	}
	if pass := lastEncoder(t, dev).Passes[0]; pass.Pipeline != gfx.RenderPipeline(cur) {
		t.Error("geometry pass did not use the rebuilt pipeline")
	}
	if len(dev.Submissions) != 1 {
		t.Errorf("submissions = %d, want 1", len(dev.Submissions))
	}
}

func TestUpdateFrameTime(t *testing.T) {
	now := time.Unix(0, 0)
	ui := &stubUI{data: emptyFrame()}
	st, _, _, _ := newTestState(t, WithUI(ui), WithClock(func() time.Time { return now }))

	now = now.Add(16 * time.Millisecond)
	st.Update()
	if got := st.Stats().FrameTime; got != 16*time.Millisecond {
		t.Errorf("FrameTime = %v, want 16ms", got)
	}
	if err := st.Render(); err != nil {
		t.Fatal(err)
	}
	if got := ui.frames[len(ui.frames)-1].Delta; got != 16*time.Millisecond {
		t.Errorf("overlay delta = %v, want 16ms", got)
	}

	now = now.Add(-time.Second)
	st.Update()
	if got := st.Stats().FrameTime; got != 0 {
		t.Errorf("FrameTime after clock step back = %v, want 0", got)
	}
}

func TestBuiltinPanel(t *testing.T) {
	st, dev, _, _ := newTestState(t)
	for range 3 {
		st.Update()
		if err := st.Render(); err != nil {
			t.Fatalf("Render() error = %v", err)
		}
	}
	if st.Stats().OverlayFailures != 0 {
		t.Errorf("OverlayFailures = %d, want 0", st.Stats().OverlayFailures)
	}
	ov := lastEncoder(t, dev).Passes[1]
	if len(ov.Draws) == 0 {
		t.Error("built-in panel drew nothing")
	}

	snap := st.snapshot()
	if snap.Adapter != "gfxtest" || snap.Width != 1280 || snap.Height != 720 || snap.Frames != 3 {
		t.Errorf("snapshot() = %+v", snap)
	}
}

func TestCloseReleases(t *testing.T) {
	ui := &stubUI{data: emptyFrame()}
	st, dev, surf, _ := newTestState(t, WithUI(ui))

	st.Close()
	st.Close()

	if dev.WaitIdleCalls != 1 {
		t.Errorf("WaitIdle calls = %d, want 1", dev.WaitIdleCalls)
	}
	if !surf.Released {
		t.Error("surface not released")
	}
	if !ui.closed {
		t.Error("ui not closed")
	}
	for _, b := range dev.Buffers {
		if !b.Released {
			t.Errorf("buffer %q not released", b.Label)
		}
	}
	for _, p := range dev.Pipelines {
		if !p.Released {
			t.Errorf("pipeline %q not released", p.Label)
		}
	}
	if err := st.Render(); !errors.Is(err, ErrClosed) {
		t.Errorf("Render() after Close = %v, want ErrClosed", err)
	}
	if err := st.Resize(10, 10); !errors.Is(err, ErrClosed) {
		t.Errorf("Resize() after Close = %v, want ErrClosed", err)
	}
	if st.Input(key(gpucontext.KeyEscape)) {
		t.Error("Input() after Close = true")
	}
}

func TestNewCleansUpOnFailure(t *testing.T) {
	dev := gfxtest.NewDevice()
	surf := gfxtest.NewSurface()
	dev.FailOn("CreateSampler", gfxtest.ErrInjected)

	_, err := New(dev, surf, newTestWindow(320, 240), WithUI(&stubUI{}))
	if !errors.Is(err, gfxtest.ErrInjected) {
		t.Fatalf("New() error = %v, want injected", err)
	}
	if !surf.Released {
		t.Error("surface not released after failed New")
	}
	for _, b := range dev.Buffers {
		if !b.Released {
			t.Errorf("buffer %q leaked", b.Label)
		}
	}
}

func TestNewNoCompatibleFormat(t *testing.T) {
	surf := gfxtest.NewSurface()
	surf.Caps.Formats = nil
	_, err := New(gfxtest.NewDevice(), surf, newTestWindow(320, 240))
	if !errors.Is(err, present.ErrNoCompatibleFormat) {
		t.Errorf("New() error = %v, want ErrNoCompatibleFormat", err)
	}
	if !surf.Released {
		t.Error("surface not released after failed New")
	}
}

func TestDeviceProvider(t *testing.T) {
	st, dev, _, _ := newTestState(t, WithUI(&stubUI{data: emptyFrame()}))

	var p gpucontext.DeviceProvider = st
	if p.Device() != gpucontext.Device(dev) {
		t.Error("Device() is not the render device")
	}
	if p.Queue() != gpucontext.Queue(dev.Queue()) {
		t.Error("Queue() is not the device queue")
	}
	if p.Adapter() != nil {
		t.Errorf("Adapter() = %v, want nil", p.Adapter())
	}
	info := p.AdapterInfo()
	if info.Name != "gfxtest" || info.Type != gpucontext.AdapterTypeSoftware {
		t.Errorf("AdapterInfo() = %+v", info)
	}
}

func TestAdapterType(t *testing.T) {
	tests := []struct {
		in   gputypes.DeviceType
		want gpucontext.AdapterType
	}{
		{gputypes.DeviceTypeDiscreteGPU, gpucontext.AdapterTypeDiscrete},
		{gputypes.DeviceTypeIntegratedGPU, gpucontext.AdapterTypeIntegrated},
		{gputypes.DeviceTypeCPU, gpucontext.AdapterTypeSoftware},
		{gputypes.DeviceTypeVirtualGPU, gpucontext.AdapterTypeUnknown},
		{gputypes.DeviceTypeOther, gpucontext.AdapterTypeUnknown},
	}
	for _, tt := range tests {
		if got := adapterType(tt.in); got != tt.want {
			t.Errorf("adapterType(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
