package typeset

import (
	"math"

	"github.com/npillmayer/hieroset/core/dimen"
	"github.com/npillmayer/hieroset/engine/glyphtree"
	"github.com/npillmayer/hieroset/engine/oracle"
)

// axes maps between (main, cross) coordinates of a layout direction and
// (x, y) coordinates.
type axes bool

func (a axes) rect(main, cross, mainLen, crossLen float64) dimen.Rect {
	if a {
		return dimen.R(main, cross, mainLen, crossLen)
	}
	return dimen.R(cross, main, crossLen, mainLen)
}

func (a axes) main(r dimen.Rect) (pos, length float64) {
	if a {
		return r.X, r.W
	}
	return r.Y, r.H
}

func (a axes) cross(r dimen.Rect) (pos, length float64) {
	if a {
		return r.Y, r.H
	}
	return r.X, r.W
}

func (a axes) point(main, cross float64) dimen.Point {
	if a {
		return dimen.Point{X: main, Y: cross}
	}
	return dimen.Point{X: cross, Y: main}
}

// boxParts are the measured signs of a box, independent of scaling.
type boxParts struct {
	horizontal bool
	open       sign
	segment    sign
	close      sign
	ro, rs, rc dimen.Rect // ink relative to the sign origins, units
	lo, hi     float64    // opening across the box, relative to the origins, units
}

func (f *Formatting) parts(b *glyphtree.Box) *boxParts {
	if bp, ok := f.boxes[b]; ok {
		return bp
	}
	hor := b.IsHorizontal(f.res.Globals(b).Direction)
	bp := &boxParts{
		horizontal: hor,
		open:       f.boxSign(b, "open", hor),
		segment:    f.boxSign(b, "segment", hor),
		close:      f.boxSign(b, "close", hor),
	}
	bp.ro, bp.rs, bp.rc = f.measure(bp.open), f.measure(bp.segment), f.measure(bp.close)
	ax := axes(hor)
	segPos, segLen := ax.cross(bp.rs)
	bp.lo, bp.hi = segPos, segPos+segLen
	if !bp.rs.IsEmpty() {
		m := f.maskOf(bp.rs, func(dc *drawCtx) {
			f.collect(bp.segment.draw(dc.s, dc.device, dimen.Point{}, 1, f.ts.colors))
		})
		if lo, hi, ok := oracle.Opening(m, hor); ok {
			bp.lo, bp.hi = segPos+f.p.Units(float64(lo)), segPos+f.p.Units(float64(hi))
		} else {
			tracer().Debugf("segment of %s has no opening, using its full extent", b.Type)
		}
	}
	f.boxes[b] = bp
	return bp
}

// boxGeo is the layout of a box at its current scale.
type boxGeo struct {
	horizontal  bool
	cell        dimen.Rect // the whole box
	origin      float64    // cross position of the sign origins
	open, close dimen.Rect // ink cells of the caps
	segFrom     float64    // main-axis extent of the segment tiles
	segTo       float64
	inner       dimen.Rect // cell of the inner content
	innerTarget float64    // cross extent available to the inner content
	openSep     float64
	closeSep    float64
}

// boxGeometry lays out box b with its top left corner at at, in units.
func (f *Formatting) boxGeometry(b *glyphtree.Box, at dimen.Point) boxGeo {
	bp := f.parts(b)
	ax := axes(bp.horizontal)
	d := f.scale(b)
	glob := f.res.Globals(b)
	unit := f.p.BoxSepUnit * glob.Size * d
	fits := f.boxFits[b]
	geo := boxGeo{
		horizontal: bp.horizontal,
		openSep:    b.OpenSep*unit - fits[0]*d,
		closeSep:   b.CloseSep*unit - fits[1]*d,
	}
	// cross extent covering all three parts, aligned at their origins
	c0, c1 := math.Inf(1), math.Inf(-1)
	for _, r := range []dimen.Rect{bp.ro, bp.rs, bp.rc} {
		if r.IsEmpty() {
			continue
		}
		pos, l := ax.cross(r)
		c0, c1 = math.Min(c0, pos), math.Max(c1, pos+l)
	}
	if c0 > c1 {
		c0, c1 = 0, 0
	}
	var innerMain, innerCross float64
	if b.IsEmpty() {
		innerMain = f.p.EmptyBoxLength * glob.Size * positive(b.Size) * d
	} else {
		sz := f.hieroSize(b.Inner, bp.horizontal)
		innerMain, innerCross = sz.Main(bp.horizontal), sz.Cross(bp.horizontal)
	}
	_, openLen := ax.main(bp.ro)
	_, closeLen := ax.main(bp.rc)
	main := openLen*d + geo.openSep + innerMain + geo.closeSep + closeLen*d
	m0, x0 := at.X, at.Y
	if !bp.horizontal {
		m0, x0 = at.Y, at.X
	}
	geo.cell = ax.rect(m0, x0, main, (c1-c0)*d)
	geo.origin = x0 - c0*d
	oPos, oLen := ax.cross(bp.ro)
	geo.open = ax.rect(m0, geo.origin+oPos*d, openLen*d, oLen*d)
	cPos, cLen := ax.cross(bp.rc)
	geo.close = ax.rect(m0+main-closeLen*d, geo.origin+cPos*d, closeLen*d, cLen*d)
	geo.segFrom, geo.segTo = m0+openLen*d, m0+main-closeLen*d
	lo := geo.origin + bp.lo*d + b.OverSep*unit
	hi := geo.origin + bp.hi*d - b.UnderSep*unit
	geo.innerTarget = math.Max(hi-lo, 0)
	mid := (lo + hi) / 2
	geo.inner = ax.rect(geo.segFrom+geo.openSep, mid-innerCross/2, innerMain, innerCross)
	return geo
}

// drawBox draws the parts of a box and its inner content.
func (f *Formatting) drawBox(dc *drawCtx, b *glyphtree.Box, at dimen.Point) {
	bp := f.parts(b)
	ax := axes(bp.horizontal)
	geo := f.boxGeometry(b, at)
	d := f.scale(b)
	draw := func(sg sign, ink dimen.Rect, cell dimen.Rect) {
		f.collect(sg.draw(dc.s, dc.device, f.origin(ink, cell, d), d, f.ts.colors))
	}
	draw(bp.open, bp.ro, geo.open)
	if _, segLen := ax.main(bp.rs); segLen > 0 && geo.segTo > geo.segFrom {
		step := segLen*d - f.p.Units(float64(f.p.SegmentOverlap))
		if step <= f.p.Units(1) {
			step = segLen * d
		}
		sPos, sLen := ax.cross(bp.rs)
		pad := f.p.Units(2)
		band := ax.rect(geo.segFrom, geo.origin+sPos*d-pad, geo.segTo-geo.segFrom, sLen*d+2*pad)
		restore, visible := dc.clip(band)
		for t := geo.segFrom; visible && t < geo.segTo; t += step {
			draw(bp.segment, bp.rs, ax.rect(t, geo.origin+sPos*d, segLen*d, sLen*d))
		}
		restore()
	}
	draw(bp.close, bp.rc, geo.close)
	dc.ensure(geo.cell)
	if !b.IsEmpty() {
		f.drawSeq(dc, b.Inner.Groups, b.Inner.Ops, geo.inner, bp.horizontal, nil)
	}
	f.shade(dc, geo.cell, b.Shade, b.Shades, f.res.Globals(b))
	f.addNotes(dc, b.Notes, geo.cell, f.res.Globals(b))
}
