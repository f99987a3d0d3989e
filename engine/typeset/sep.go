package typeset

import (
	"math"

	"github.com/npillmayer/hieroset/core/dimen"
	"github.com/npillmayer/hieroset/engine/glyphtree"
	"github.com/npillmayer/hieroset/engine/oracle"
)

// isFit is true for ops which let their neighbours approach each other.
func isFit(op *glyphtree.Op, glob glyphtree.Globals) bool {
	return !op.Fix && op.Fit.Or(glob.Fit)
}

// opScale is the dynamic scale an op between prev and next follows: the larger
// one of the facing sides.
func (f *Formatting) opScale(prev, next glyphtree.Group, horizontal bool) float64 {
	end, start := dimen.Bottom, dimen.Top
	if horizontal {
		end, start = dimen.Right, dimen.Left
	}
	return math.Max(f.sideScale(prev, end), f.sideScale(next, start))
}

// opNominal is the fixed size of an op, per unit of side scale.
func (f *Formatting) opNominal(op *glyphtree.Op) float64 {
	glob := f.res.OpGlobals(op)
	return f.p.SepUnit * glob.Sep * op.Sep.Or(1) * glob.Size
}

// opSize is the extent of op between prev and next along the main axis, in
// units. Fitted ops may have negative extent, letting the cells of their
// neighbours overlap.
func (f *Formatting) opSize(op *glyphtree.Op, prev, next glyphtree.Group, horizontal bool) float64 {
	base := f.opNominal(op)
	if isFit(op, f.res.OpGlobals(op)) {
		base -= f.fits[op]
	}
	return base * f.opScale(prev, next, horizontal)
}

// --- Fitting ---------------------------------------------------------------

// fitHiero measures the fitted ops of a sequence and of everything in it.
func (f *Formatting) fitHiero(h *glyphtree.Hieroglyphic) {
	for _, g := range h.Groups {
		f.fitGroup(g)
	}
	f.fitSeq(h.Groups, h.Ops, f.res.HieroGlobals(h).Direction.IsHorizontal())
}

// fitGroup measures fits bottom-up: the extent of a composite depends on the
// fits of its content.
func (f *Formatting) fitGroup(g glyphtree.Group) {
	if f.ctx.Err() != nil {
		return
	}
	switch n := g.(type) {
	case *glyphtree.Box:
		if !n.IsEmpty() {
			f.fitHiero(n.Inner)
		}
		f.fitBox(n)
	case *glyphtree.HorizontalGroup:
		for _, c := range glyphtree.Children(n) {
			f.fitGroup(c)
		}
		f.fitSeq(glyphtree.Children(n), n.Ops, true)
	case *glyphtree.VerticalGroup:
		for _, c := range glyphtree.Children(n) {
			f.fitGroup(c)
		}
		f.fitSeq(glyphtree.Children(n), n.Ops, false)
	default:
		for _, c := range glyphtree.Children(g) {
			f.fitGroup(c)
		}
	}
}

// fitSeq measures how much closer the neighbours of each fitted op may move.
// Both neighbours are drawn separately, centered across the main axis as
// they are in the sequence, and their ink is compared.
func (f *Formatting) fitSeq(groups []glyphtree.Group, ops []*glyphtree.Op, horizontal bool) {
	ax := axes(horizontal)
	for i, op := range ops {
		if i+1 >= len(groups) {
			break
		}
		glob := f.res.OpGlobals(op)
		if !isFit(op, glob) {
			continue
		}
		prev, next := groups[i], groups[i+1]
		sp, sn := f.size(prev), f.size(next)
		cross := math.Max(sp.Cross(horizontal), sn.Cross(horizontal))
		k := f.opScale(prev, next, horizontal)
		first := f.maskOf(ax.rect(0, 0, sp.Main(horizontal), cross), func(dc *drawCtx) {
			f.draw(dc, prev, ax.point(0, (cross-sp.Cross(horizontal))/2))
		})
		second := f.maskOf(ax.rect(0, 0, sn.Main(horizontal), cross), func(dc *drawCtx) {
			f.draw(dc, next, ax.point(0, (cross-sn.Cross(horizontal))/2))
		})
		nominal := f.p.Px(f.opNominal(op) * k)
		limit := f.p.Px(f.p.MaxFitReduction * glob.Size * k)
		red := fitMasks(first, second, nominal, limit, horizontal)
		tracer().Debugf("op between %s and %s fits by %.1fpx", prev, next, red)
		if k > 0 {
			f.fits[op] = f.p.Units(red) / k
		}
	}
}

// fitBox lets the caps of a box approach the first and the last inner groups.
func (f *Formatting) fitBox(b *glyphtree.Box) {
	glob := f.res.Globals(b)
	if b.IsEmpty() || !glob.Fit {
		return
	}
	bp := f.parts(b)
	ax := axes(bp.horizontal)
	d := f.scale(b)
	geo := f.boxGeometry(b, dimen.Point{})
	groups := b.Inner.Groups
	cells := f.seqCells(groups, b.Inner.Ops, geo.inner, bp.horizontal)
	c0, cl := ax.cross(geo.cell)
	limit := f.p.Px(f.p.MaxFitReduction * glob.Size * d)
	n, k := len(groups), f.p.BoxFitGroups
	if k < 1 {
		k = 1
	}
	// inner draws groups [from,to) and returns their ink, in a rectangle spanning
	// their cells along the main axis and the box across it
	inner := func(from, to int) *oracle.Mask {
		p0, p1 := math.Inf(1), math.Inf(-1)
		for i := from; i < to; i++ {
			p, l := ax.main(cells[i])
			p0, p1 = math.Min(p0, p), math.Max(p1, p+l)
		}
		return f.maskOf(ax.rect(p0, c0, p1-p0, cl), func(dc *drawCtx) {
			for i := from; i < to; i++ {
				f.draw(dc, groups[i], cells[i].TopLeft())
			}
		})
	}
	capMask := func(sg sign, ink, cell dimen.Rect) *oracle.Mask {
		p, l := ax.main(cell)
		return f.maskOf(ax.rect(p, c0, l, cl), func(dc *drawCtx) {
			f.collect(sg.draw(dc.s, dc.device, f.origin(ink, cell, d), d, f.ts.colors))
		})
	}
	var fits [2]float64
	if geo.openSep > 0 {
		red := fitMasks(capMask(bp.open, bp.ro, geo.open), inner(0, min(k, n)),
			f.p.Px(geo.openSep), limit, bp.horizontal)
		fits[0] = f.p.Units(red) / d
	}
	if geo.closeSep > 0 {
		red := fitMasks(inner(max(n-k, 0), n), capMask(bp.close, bp.rc, geo.close),
			f.p.Px(geo.closeSep), limit, bp.horizontal)
		fits[1] = f.p.Units(red) / d
	}
	tracer().Debugf("box %s fits caps by %.3f and %.3f units", b.Type, fits[0], fits[1])
	f.boxFits[b] = fits
}

// fitMasks keeps the neighbours nominal pixels apart, measured between their
// ink instead of their cells.
func fitMasks(first, second *oracle.Mask, nominal, limit float64, horizontal bool) float64 {
	if horizontal {
		return oracle.FitHor(first, second, nominal, nominal, limit)
	}
	return oracle.FitVert(first, second, nominal, nominal, limit)
}
