//go:build imgui

package imgui

import (
	"errors"
	"fmt"
	"unsafe"

	ig "github.com/inkyblackness/imgui-go/v4"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/tri/host"
	"github.com/gogpu/tri/overlay"
)

// UI implements overlay.UI with a Dear ImGui context.
type UI struct {
	ctx  *ig.Context
	io   ig.IO
	font overlay.Image

	display [2]float32
	scale   [2]float32

	showDemo bool
}

var _ overlay.UI = (*UI)(nil)

// New creates the Dear ImGui context. Settings are not persisted.
func New() *UI {
	ctx := ig.CreateContext(nil)
	io := ig.CurrentIO()
	io.SetIniFilename("")
	mapKeys(io)

	fonts := io.Fonts()
	img := fonts.TextureDataRGBA32()
	pixels := unsafe.Slice((*byte)(img.Pixels), img.Width*img.Height*4)
	fonts.SetTextureID(ig.TextureID(overlay.FontTexture))

	return &UI{
		ctx:      ctx,
		io:       io,
		font:     overlay.Image{Pixels: append([]byte(nil), pixels...), Width: img.Width, Height: img.Height},
		scale:    [2]float32{1, 1},
		showDemo: true,
	}
}

func mapKeys(io ig.IO) {
	for imguiKey, key := range map[int]gpucontext.Key{
		ig.KeyTab:        gpucontext.KeyTab,
		ig.KeyLeftArrow:  gpucontext.KeyLeft,
		ig.KeyRightArrow: gpucontext.KeyRight,
		ig.KeyUpArrow:    gpucontext.KeyUp,
		ig.KeyDownArrow:  gpucontext.KeyDown,
		ig.KeyPageUp:     gpucontext.KeyPageUp,
		ig.KeyPageDown:   gpucontext.KeyPageDown,
		ig.KeyHome:       gpucontext.KeyHome,
		ig.KeyEnd:        gpucontext.KeyEnd,
		ig.KeyInsert:     gpucontext.KeyInsert,
		ig.KeyDelete:     gpucontext.KeyDelete,
		ig.KeyBackspace:  gpucontext.KeyBackspace,
		ig.KeySpace:      gpucontext.KeySpace,
		ig.KeyEnter:      gpucontext.KeyEnter,
		ig.KeyEscape:     gpucontext.KeyEscape,
		ig.KeyA:          gpucontext.KeyA,
		ig.KeyC:          gpucontext.KeyC,
		ig.KeyV:          gpucontext.KeyV,
		ig.KeyX:          gpucontext.KeyX,
		ig.KeyY:          gpucontext.KeyY,
		ig.KeyZ:          gpucontext.KeyZ,
	} {
		io.KeyMap(imguiKey, int(key))
	}
}

// clipboard adapts the platform clipboard to ig.Clipboard.
type clipboard struct {
	platform gpucontext.PlatformProvider
}

func (c clipboard) Text() (string, error) { return c.platform.ClipboardRead() }

// SetText has no error path in Dear ImGui; a failed write leaves the
// clipboard unchanged.
func (c clipboard) SetText(value string) { _ = c.platform.ClipboardWrite(value) }

// Attach implements overlay.UI.
func (u *UI) Attach(platform gpucontext.PlatformProvider) {
	u.io.SetClipboard(clipboard{platform: platform})
}

// FontAtlas implements overlay.UI.
func (u *UI) FontAtlas() overlay.Image { return u.font }

// HandleEvent implements overlay.UI.
func (u *UI) HandleEvent(ev host.Event) bool {
	switch e := ev.(type) {
	case host.MouseMoveEvent:
		u.io.SetMousePosition(ig.Vec2{X: float32(e.X), Y: float32(e.Y)})
		return u.io.WantCaptureMouse()
	case host.MouseButtonEvent:
		b, ok := mouseButton(e.Button)
		if !ok {
			return false
		}
		u.io.SetMouseButtonDown(b, e.Pressed)
		return u.io.WantCaptureMouse()
	case host.ScrollEvent:
		u.io.AddMouseWheelDelta(float32(e.DX), float32(e.DY))
		return u.io.WantCaptureMouse()
	case host.KeyEvent:
		if e.Pressed {
			u.io.KeyPress(int(e.Key))
		} else {
			u.io.KeyRelease(int(e.Key))
		}
		u.io.KeyCtrl(int(gpucontext.KeyLeftControl), int(gpucontext.KeyRightControl))
		u.io.KeyShift(int(gpucontext.KeyLeftShift), int(gpucontext.KeyRightShift))
		u.io.KeyAlt(int(gpucontext.KeyLeftAlt), int(gpucontext.KeyRightAlt))
		u.io.KeySuper(int(gpucontext.KeyLeftSuper), int(gpucontext.KeyRightSuper))
		if isModifier(e.Key) {
			return false
		}
		return u.io.WantCaptureKeyboard()
	case host.CharEvent:
		if s := inputText(e); s != "" {
			u.io.AddInputCharacters(s)
		}
		return u.io.WantCaptureKeyboard()
	}
	return false
}

// NewFrame implements overlay.UI.
func (u *UI) NewFrame(in overlay.FrameInput) {
	u.display = [2]float32{in.DisplayWidth, in.DisplayHeight}
	u.scale = in.FramebufferScale
	u.io.SetDisplaySize(ig.Vec2{X: in.DisplayWidth, Y: in.DisplayHeight})
	if in.Resumed {
		for b := 0; b < 3; b++ {
			u.io.SetMouseButtonDown(b, false)
		}
	}

	dt := float32(in.Delta.Seconds())
	if dt <= 0 {
		dt = 1.0 / 60
	}
	u.io.SetDeltaTime(dt)
	ig.NewFrame()
}

// Build implements overlay.UI.
func (u *UI) Build() {
	if u.showDemo {
		ig.ShowDemoWindow(&u.showDemo)
	}
	if ig.Begin("tri") {
		ig.Text(fmt.Sprintf("%.1f FPS", u.io.Framerate()))
		if !u.showDemo && ig.Button("Show demo window") {
			u.showDemo = true
		}
	}
	ig.End()
}

// Render implements overlay.UI.
func (u *UI) Render() (*overlay.DrawData, error) {
	ig.Render()
	dd := ig.RenderedDrawData()
	if !dd.Valid() {
		return nil, errors.New("imgui: no draw data")
	}

	size, pos, uv, col := ig.VertexBufferLayout()
	layout := vertexLayout{size: size, pos: pos, uv: uv, col: col}
	indexSize := ig.IndexBufferLayout()

	out := &overlay.DrawData{DisplaySize: u.display, FramebufferScale: u.scale}
	for _, list := range dd.CommandLists() {
		vp, vn := list.VertexBuffer()
		vertices, err := decodeVertices(unsafe.Slice((*byte)(vp), vn), layout)
		if err != nil {
			return nil, err
		}
		ip, in := list.IndexBuffer()
		indices, err := decodeIndices(unsafe.Slice((*byte)(ip), in), indexSize)
		if err != nil {
			return nil, err
		}

		raw := list.Commands()
		cmds := make([]command, len(raw))
		for i, c := range raw {
			r := c.ClipRect()
			cmds[i] = command{
				elems:    c.ElementCount(),
				clip:     [4]float32{r.X, r.Y, r.Z, r.W},
				texture:  uintptr(c.TextureID()),
				callback: c.HasUserCallback(),
			}
			if cmds[i].callback {
				c.CallUserCallback(list)
			}
		}
		out.Lists = append(out.Lists, overlay.DrawList{
			Vertices: vertices,
			Indices:  indices,
			Commands: commands(cmds),
		})
	}
	return out, nil
}

// Cursor implements overlay.UI.
func (u *UI) Cursor() gpucontext.CursorShape {
	switch ig.MouseCursor() {
	case ig.MouseCursorNone:
		return gpucontext.CursorNone
	case ig.MouseCursorTextInput:
		return gpucontext.CursorText
	case ig.MouseCursorResizeAll:
		return gpucontext.CursorMove
	case ig.MouseCursorResizeNS:
		return gpucontext.CursorResizeNS
	case ig.MouseCursorResizeEW:
		return gpucontext.CursorResizeEW
	case ig.MouseCursorResizeNESW:
		return gpucontext.CursorResizeNESW
	case ig.MouseCursorResizeNWSE:
		return gpucontext.CursorResizeNWSE
	case ig.MouseCursorHand:
		return gpucontext.CursorPointer
	}
	return gpucontext.CursorDefault
}

// Close destroys the Dear ImGui context.
func (u *UI) Close() {
	if u.ctx != nil {
		u.ctx.Destroy()
		u.ctx = nil
	}
}
