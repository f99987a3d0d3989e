package typeset

import (
	"math"

	"github.com/npillmayer/hieroset/core/dimen"
	"github.com/npillmayer/hieroset/engine/glyphtree"
)

// placement is the result of the search for an insert's secondary group. It
// does not depend on the scale of the insert: the secondary is scaled
// relative to its natural size and positioned by fractions of the primary's
// extent.
type placement struct {
	scale  float64
	fx, fy float64 // anchor, as fractions of the primary's extent
}

// at returns the top left corner of a secondary of size sz within cell.
// The point of the secondary at fractions (fx,fy) of its extent coincides
// with the point of cell at the same fractions.
func (pl placement) at(cell dimen.Rect, sz dimen.Size) dimen.Point {
	return dimen.Point{
		X: cell.X + pl.fx*(cell.W-sz.W),
		Y: cell.Y + pl.fy*(cell.H-sz.H),
	}
}

// anchor returns the starting anchor of an insert and whether the anchor is
// fixed. Edge placements are fixed, floating inserts only with fix set.
func anchor(ins *glyphtree.Insert) (fx, fy float64, fixed bool) {
	switch ins.Place {
	case "t":
		return ins.X, 0, true
	case "b":
		return ins.X, 1, true
	case "s":
		return 0, ins.Y, true
	case "e":
		return 1, ins.Y, true
	case "ts":
		return 0, 0, true
	case "te":
		return 1, 0, true
	case "bs":
		return 0, 1, true
	case "be":
		return 1, 1, true
	}
	return ins.X, ins.Y, ins.Fix
}

// drawInsert draws the primary group into cell and the secondary at its
// placement.
func (f *Formatting) drawInsert(dc *drawCtx, ins *glyphtree.Insert, cell dimen.Rect) {
	f.draw(dc, ins.G1, cell.TopLeft())
	pl := f.place(ins)
	f.withScale(ins.G2, pl.scale, func() {
		f.draw(dc, ins.G2, pl.at(cell, f.size(ins.G2)))
	})
}

// insertKey identifies a placement: the radius of the aura and the ink of the
// primary depend on the scale of the insert, which changes while an
// enclosing insert tries scales for its secondary.
type insertKey struct {
	ins   *glyphtree.Insert
	scale float64
}

// fitTest reports whether a secondary at a placement lies within the
// primary's cell (inside) and keeps clear of the primary's aura (apart).
type fitTest func(pl placement) (inside, apart bool)

// place searches the largest scale at which the secondary group of an insert
// fits into the primary one, keeping a distance to the primary's ink.
// Results are cached per scale of the insert.
func (f *Formatting) place(ins *glyphtree.Insert) placement {
	key := insertKey{ins: ins, scale: f.scale(ins)}
	if pl, ok := f.inserts[key]; ok {
		return pl
	}
	glob := f.res.Globals(ins)
	cell := dimen.RectAt(dimen.Point{}, f.size(ins.G1))
	primary := f.maskOf(cell, func(dc *drawCtx) {
		f.draw(dc, ins.G1, dimen.Point{})
	})
	radius := f.p.Px(ins.Sep.Or(1) * f.p.InsertSep * glob.Size * key.scale)
	aura := primary.Dilate(radius)
	test := func(pl placement) (inside, apart bool) {
		f.withScale(ins.G2, pl.scale, func() {
			sz := f.size(ins.G2)
			r := dimen.RectAt(pl.at(cell, sz), sz)
			if inside = cell.Contains(r, 1e-9); !inside {
				return
			}
			m := f.maskOf(cell, func(dc *drawCtx) {
				f.draw(dc, ins.G2, r.TopLeft())
			})
			apart = !m.Intersects(aura)
		})
		return
	}
	fx, fy, fixed := anchor(ins)
	best := placement{fx: fx, fy: fy}
	best.scale = f.climb(best, test)
	if !fixed {
		best = f.descend(best, test)
	}
	tracer().Debugf("insert %s: scale %.3f at (%.2f,%.2f)", ins, best.scale, best.fx, best.fy)
	f.inserts[key] = best
	return best
}

// maxShrink caps the halvings of an initial scale which does not fit.
const maxShrink = 32

// initialScale halves s until the secondary fits at pl. If it never keeps
// clear of the primary's ink, the largest scale at which it lies within the
// primary's cell is used.
func (f *Formatting) initialScale(pl placement, s float64, test fitTest) float64 {
	within := 0.0
	for i := 0; i < maxShrink && f.ctx.Err() == nil; i++ {
		pl.scale = s
		inside, apart := test(pl)
		if inside && apart {
			return s
		}
		if inside && within == 0 {
			within = s
		}
		s /= 2
	}
	if within > 0 {
		return within
	}
	return s
}

// climb increases the scale of the secondary at a fixed anchor as long as it
// fits, with a shrinking step. The scale never exceeds 1. An initial scale
// which does not fit is reduced first.
func (f *Formatting) climb(pl placement, test fitTest) float64 {
	s := f.initialScale(pl, f.p.InsertInitialScale, test)
	step := f.p.InsertScaleStep
	for step >= f.p.InsertMinScaleStep && step > 0 {
		if f.ctx.Err() != nil {
			break
		}
		cand := pl
		cand.scale = math.Min(s*(1+step), 1)
		if cand.scale <= s {
			step /= 2
			continue
		}
		if inside, apart := test(cand); inside && apart {
			s = cand.scale
		} else {
			step /= 2
		}
	}
	return s
}

// maxDescent caps the number of moves of a floating insert.
const maxDescent = 64

// descend moves the anchor of a floating insert in the four directions,
// keeping a move whenever it allows a strictly larger scale. The move step
// halves when no direction improves.
func (f *Formatting) descend(best placement, test fitTest) placement {
	move := f.p.InsertMoveStep
	dirs := [4][2]float64{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	for i := 0; i < maxDescent && move >= f.p.InsertMinMoveStep && move > 0; i++ {
		if f.ctx.Err() != nil {
			break
		}
		improved := false
		for _, d := range dirs {
			cand := best
			cand.fx = clamp01(best.fx + d[0]*move)
			cand.fy = clamp01(best.fy + d[1]*move)
			if cand.fx == best.fx && cand.fy == best.fy {
				continue
			}
			if cand.scale = f.climb(cand, test); cand.scale > best.scale {
				best, improved = cand, true
				break
			}
		}
		if !improved {
			move /= 2
		}
	}
	return best
}

func clamp01(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}
