package hud

import (
	"bytes"
	"fmt"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// shaper positions HUD text with HarfBuzz shaping. It reads the same Go
// Regular data the atlas is rasterized from, so its glyph IDs index the
// atlas directly.
type shaper struct {
	face *font.Face
	hb   shaping.HarfbuzzShaper
	lang language.Language
}

func newShaper() (*shaper, error) {
	face, err := font.ParseTTF(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("hud: parse font: %w", err)
	}
	return &shaper{face: face, lang: language.NewLanguage("en")}, nil
}

// placedGlyph is a shaped glyph with its pen position relative to the start
// of the line, y growing downwards.
type placedGlyph struct {
	gid  sfnt.GlyphIndex
	x, y float32
}

// shape appends the glyphs of text to dst and returns them with the line's
// advance width in pixels.
func (s *shaper) shape(dst []placedGlyph, text string) ([]placedGlyph, float32) {
	runes := []rune(text)
	if len(runes) == 0 {
		return dst, 0
	}
	out := s.hb.Shape(shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		Face:      s.face,
		Size:      fixed.I(fontSize),
		Script:    language.Latin,
		Language:  s.lang,
	})

	var pen fixed.Int26_6
	for _, g := range out.Glyphs {
		dst = append(dst, placedGlyph{
			gid: sfnt.GlyphIndex(g.GlyphID),
			x:   fixedToFloat(pen + g.XOffset),
			y:   -fixedToFloat(g.YOffset),
		})
		pen += g.Advance
	}
	return dst, fixedToFloat(pen)
}

func fixedToFloat(v fixed.Int26_6) float32 { return float32(v) / 64 }
