package gfx

import (
	"github.com/npillmayer/hieroset/core"
	"github.com/npillmayer/hieroset/core/font"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// TextMetrics are the typographic dimensions of a string, in pixels.
type TextMetrics struct {
	Advance float64 // sum of advances, including kerning
	Ascent  float64 // above the baseline, positive
	Descent float64 // below the baseline, positive
}

// Height is ascent plus descent.
func (tm TextMetrics) Height() float64 {
	return tm.Ascent + tm.Descent
}

// MeasureText returns the metrics of text in font f at size ppem.
// Ink extents are not part of the metrics: glyphs routinely exceed them.
func MeasureText(text string, f *font.ScalableFont, ppem float64) (TextMetrics, error) {
	var tm TextMetrics
	if f == nil || f.SFNT == nil {
		return tm, core.Error(core.EMISSING, "no font to measure %q", text)
	}
	var buf sfnt.Buffer
	upem := float64(f.SFNT.UnitsPerEm())
	units := fixed.Int26_6(upem * 64)
	scale := ppem / upem
	m, err := f.SFNT.Metrics(&buf, units, xfont.HintingNone)
	if err != nil {
		return tm, core.WrapError(err, core.EINVALID, "cannot read metrics of font %s", f.Fontname)
	}
	tm.Ascent = f26(m.Ascent) * scale
	tm.Descent = f26(m.Descent) * scale
	var prev sfnt.GlyphIndex
	for _, r := range text {
		gi, e := f.SFNT.GlyphIndex(&buf, r)
		if e != nil || gi == 0 {
			err = core.Error(core.EMISSING, "font %s has no glyph for %U", f.Fontname, r)
			continue
		}
		if prev != 0 {
			if k, e := f.SFNT.Kern(&buf, prev, gi, units, xfont.HintingNone); e == nil {
				tm.Advance += f26(k) * scale
			}
		}
		if adv, e := f.SFNT.GlyphAdvance(&buf, gi, units, xfont.HintingNone); e == nil {
			tm.Advance += f26(adv) * scale
		}
		prev = gi
	}
	return tm, err
}
