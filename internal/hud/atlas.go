package hud

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/tri/overlay"
)

const (
	fontSize = 13

	firstGlyph = ' '
	lastGlyph  = '~'

	atlasWidth = 256

	// solid texels used for untextured quads sit in the top-left corner
	solidSize = 2
)

// glyph is the atlas region of one glyph. offX and offY place the ink box
// relative to the pen position on the baseline. Blank glyphs have w == 0.
type glyph struct {
	x, y, w, h int
	offX, offY int
}

// atlas is the HUD font texture. Glyphs are keyed by glyph index so shaped
// output maps onto it without going back to runes.
type atlas struct {
	img  *image.RGBA
	w, h float32

	glyphs map[sfnt.GlyphIndex]glyph
	gids   map[rune]sfnt.GlyphIndex

	ascent     int
	lineHeight int
}

func newAtlas() (*atlas, error) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("hud: parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    fontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("hud: create face: %w", err)
	}
	defer func() {
		_ = face.Close()
	}()

	m := face.Metrics()
	a := &atlas{
		glyphs:     make(map[sfnt.GlyphIndex]glyph),
		gids:       make(map[rune]sfnt.GlyphIndex),
		ascent:     m.Ascent.Ceil(),
		lineHeight: m.Height.Ceil(),
	}

	// Shelf-pack the ink boxes, one texel apart, right of the solid block.
	var buf sfnt.Buffer
	inks := make(map[rune]image.Rectangle)
	x, y, rowH := solidSize+1, 0, solidSize+1
	for r := firstGlyph; r <= lastGlyph; r++ {
		gid, err := f.GlyphIndex(&buf, r)
		if err != nil || gid == 0 {
			continue
		}
		bounds, _, ok := face.GlyphBounds(r)
		if !ok {
			continue
		}
		a.gids[r] = gid
		ink := image.Rect(bounds.Min.X.Floor(), bounds.Min.Y.Floor(), bounds.Max.X.Ceil(), bounds.Max.Y.Ceil())
		if ink.Empty() {
			a.glyphs[gid] = glyph{}
			continue
		}
		if x+ink.Dx() > atlasWidth {
			x, y, rowH = 0, y+rowH, 0
		}
		inks[r] = ink
		a.glyphs[gid] = glyph{x: x, y: y, w: ink.Dx(), h: ink.Dy(), offX: ink.Min.X, offY: ink.Min.Y}
		x += ink.Dx() + 1
		rowH = max(rowH, ink.Dy()+1)
	}
	if _, ok := a.gids['?']; !ok {
		return nil, errors.New("hud: font has no fallback glyph")
	}

	img := image.NewRGBA(image.Rect(0, 0, atlasWidth, y+rowH))
	for py := range solidSize {
		for px := range solidSize {
			img.Set(px, py, color.White)
		}
	}

	d := &font.Drawer{Dst: img, Src: image.White, Face: face}
	for r, ink := range inks {
		g := a.glyphs[a.gids[r]]
		d.Dot = fixed.P(g.x-ink.Min.X, g.y-ink.Min.Y)
		d.DrawString(string(r))
	}

	// Coverage lives in alpha; color is white everywhere so the vertex
	// color alone decides the tint.
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2] = 0xff, 0xff, 0xff
	}

	a.img = img
	b := img.Bounds()
	a.w, a.h = float32(b.Dx()), float32(b.Dy())
	return a, nil
}

func (a *atlas) image() overlay.Image {
	b := a.img.Bounds()
	return overlay.Image{Pixels: a.img.Pix, Width: b.Dx(), Height: b.Dy()}
}

// solidUV is the center of the solid white block.
func (a *atlas) solidUV() [2]float32 {
	return [2]float32{1 / a.w, 1 / a.h}
}

// lookup returns the atlas entry for gid, substituting '?' for glyphs the
// atlas does not carry.
func (a *atlas) lookup(gid sfnt.GlyphIndex) glyph {
	if g, ok := a.glyphs[gid]; ok {
		return g
	}
	return a.glyphs[a.gids['?']]
}

func (a *atlas) uv(g glyph) (u0, v0, u1, v1 float32) {
	return float32(g.x) / a.w, float32(g.y) / a.h,
		float32(g.x+g.w) / a.w, float32(g.y+g.h) / a.h
}
