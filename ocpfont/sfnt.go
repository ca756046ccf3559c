package ocpfont

import (
	"fmt"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// CharacterProvider is implemented by fonts and other glyph sources.
type CharacterProvider interface {
	// HasChar reports whether a glyph for ch is available.
	HasChar(ch rune) bool
	// Advance returns the advance width of the glyph for ch, in font units.
	// The second return value is false if there is no glyph for ch.
	Advance(ch rune) (fixed.Int26_6, bool)
}

// SFNTFont is a CharacterProvider for OpenType and TrueType fonts.
// It is safe for concurrent use.
type SFNTFont struct {
	Fontname string
	SFNT     *sfnt.Font
	upem     fixed.Int26_6
}

// LoadFont loads an OpenType font (TTF or OTF) from a file.
func LoadFont(fontfile string) (*SFNTFont, error) {
	bytez, err := os.ReadFile(fontfile)
	if err != nil {
		return nil, err
	}
	f, err := ParseFont(bytez)
	if err != nil {
		return nil, fmt.Errorf("font %s: %w", fontfile, err)
	}
	return f, nil
}

// ParseFont loads an OpenType font (TTF or OTF) from memory.
func ParseFont(fbytes []byte) (*SFNTFont, error) {
	otf, err := sfnt.Parse(fbytes)
	if err != nil {
		return nil, err
	}
	f := &SFNTFont{SFNT: otf, upem: fixed.I(int(otf.UnitsPerEm()))}
	if f.Fontname, err = otf.Name(nil, sfnt.NameIDFull); err != nil {
		f.Fontname = "?"
	}
	tracer().Debugf("loaded and parsed SFNT %s, %d glyphs", f.Fontname, otf.NumGlyphs())
	return f, nil
}

// HasChar is part of interface CharacterProvider.
func (f *SFNTFont) HasChar(ch rune) bool {
	var buf sfnt.Buffer
	gi, err := f.SFNT.GlyphIndex(&buf, ch)
	return err == nil && gi != 0
}

// Advance is part of interface CharacterProvider. Advances are unhinted and
// measured at a size of one em, so they are in font units.
func (f *SFNTFont) Advance(ch rune) (fixed.Int26_6, bool) {
	var buf sfnt.Buffer
	gi, err := f.SFNT.GlyphIndex(&buf, ch)
	if err != nil || gi == 0 {
		return 0, false
	}
	adv, err := f.SFNT.GlyphAdvance(&buf, gi, f.upem, font.HintingNone)
	if err != nil {
		tracer().Errorf("advance of glyph %d for %U: %v", gi, ch, err)
		return 0, false
	}
	return adv, true
}
