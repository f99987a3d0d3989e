package typeset

import (
	"math"
	"strings"

	"github.com/npillmayer/hieroset/backend/gfx"
	"github.com/npillmayer/hieroset/core"
	"github.com/npillmayer/hieroset/core/dimen"
	"github.com/npillmayer/hieroset/core/font"
	"github.com/npillmayer/hieroset/engine/glyphtree"
	"github.com/npillmayer/hieroset/engine/oracle"
	"golang.org/x/image/math/f64"
)

// sign is a text drawn as a single shape: a named glyph or a part of a box.
type sign struct {
	text           string
	font           *font.ScalableFont
	ppem           float64 // font size in pixels, before dynamic scaling
	rotate         float64
	mirror         bool
	xscale, yscale float64
	color          string
}

// local is the transform from text space to logical pixels, with the origin of
// the text at origin.
func (sg sign) local(origin dimen.Point) f64.Aff3 {
	m := gfx.Translate(origin.X, origin.Y)
	if sg.mirror {
		m = gfx.Concat(m, gfx.Scale(-1, 1))
	}
	return gfx.Concat(m, gfx.Rotate(sg.rotate), gfx.Scale(sg.xscale, sg.yscale))
}

// draw draws the sign at dynamic scale k with its origin at origin (logical
// pixels).
func (sg sign) draw(s gfx.Surface, device f64.Aff3, origin dimen.Point, k float64, col gfx.ColorResolver) error {
	c, cerr := col.Resolve(sg.color)
	err := s.DrawText(sg.text, sg.font, sg.ppem*k, gfx.Concat(device, sg.local(origin)), c)
	if err == nil {
		err = cerr
	}
	return err
}

type signKey struct {
	text           string
	font           *font.ScalableFont
	ppem           float64
	rotate         float64
	mirror         bool
	xscale, yscale float64
}

func (sg sign) key() signKey {
	return signKey{sg.text, sg.font, sg.ppem, sg.rotate, sg.mirror, sg.xscale, sg.yscale}
}

// resolve finds text and font of a sign name. Names unknown to the catalog or
// not covered by the sign font resolve to the fallback glyph; an error is
// collected once per name.
func (f *Formatting) resolve(name string) (string, *font.ScalableFont) {
	ts := f.ts
	if text, ok := ts.catalog.Lookup(name); ok && ts.font.HasGlyphs(text) {
		return text, ts.font
	}
	if !f.missing[name] {
		f.missing[name] = true
		msg := ""
		if sugg := ts.catalog.Suggest(name, 3); len(sugg) > 0 {
			msg = ", did you mean " + strings.Join(sugg, " or ") + "?"
		}
		f.errorf(core.EMISSING, "sign %q not found%s", name, msg)
	}
	return font.FallbackGlyph, font.FallbackFont()
}

// glyphSign is the sign of a named glyph.
func (f *Formatting) glyphSign(g *glyphtree.NamedGlyph) sign {
	if sg, ok := f.signs[g]; ok {
		return sg
	}
	glob := f.res.Globals(g)
	text, fnt := f.resolve(g.Name)
	sg := sign{
		text:   text,
		font:   fnt,
		ppem:   f.p.UnitPx * glob.Size * positive(g.Scale),
		rotate: g.Rotate,
		mirror: g.Mirror.Or(glob.Mirror),
		xscale: positive(g.XScale),
		yscale: positive(g.YScale),
		color:  g.Color.Or(glob.Color),
	}
	f.signs[g] = sg
	return sg
}

// boxSign is the sign of one part of a box.
func (f *Formatting) boxSign(b *glyphtree.Box, part string, horizontal bool) sign {
	glob := f.res.Globals(b)
	text, fnt := f.resolve(glyphtree.BoxPartName(b.Type, part, horizontal))
	return sign{
		text:   text,
		font:   fnt,
		ppem:   f.p.UnitPx * glob.Size * positive(b.Scale),
		mirror: b.Mirror.Or(glob.Mirror),
		xscale: 1,
		yscale: 1,
		color:  b.Color.Or(glob.Color),
	}
}

// measure returns the ink rectangle of a sign relative to its origin, in units,
// before dynamic scaling. Results are cached.
func (f *Formatting) measure(sg sign) dimen.Rect {
	key := sg.key()
	if r, ok := f.rects[key]; ok {
		return r
	}
	n := float64(len([]rune(sg.text)))
	est := sg.ppem * math.Max(sg.xscale, sg.yscale) * math.Max(n, 1)
	r, err := oracle.GlyphRect(f.ts.factory, dimen.Size{W: est, H: est}, f.p.GlyphRectTries,
		func(s gfx.Surface, origin dimen.Point) error {
			// ascent is about one em; start the baseline at the bottom of the estimate
			o := dimen.Point{X: origin.X, Y: origin.Y + est}
			return s.DrawText(sg.text, sg.font, sg.ppem, sg.local(o), blackInk)
		})
	f.collect(err)
	r = r.Shift(0, -est)
	r = dimen.R(f.p.Units(r.X), f.p.Units(r.Y), f.p.Units(r.W), f.p.Units(r.H))
	tracer().Debugf("sign %q measures %s", sg.text, r)
	f.rects[key] = r
	return r
}

// origin returns the position of the origin of a sign (logical pixels) such
// that its ink at scale k starts at the top left corner of cell (units).
func (f *Formatting) origin(ink dimen.Rect, cell dimen.Rect, k float64) dimen.Point {
	return dimen.Point{
		X: f.p.Px(cell.X - ink.X*k),
		Y: f.p.Px(cell.Y - ink.Y*k),
	}
}

func positive(x float64) float64 {
	if x <= 0 {
		return 1
	}
	return x
}
