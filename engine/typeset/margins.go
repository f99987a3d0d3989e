package typeset

import (
	"context"
	"errors"
	"image"
	"math"

	"github.com/npillmayer/hieroset/backend/gfx"
	"github.com/npillmayer/hieroset/core"
	"github.com/npillmayer/hieroset/core/dimen"
	"github.com/npillmayer/hieroset/engine/hachure"
)

// pass is the outcome of one rendering pass.
type pass struct {
	dc     *drawCtx
	groups []image.Rectangle
}

// Render draws the formatted fragment.
//
// Drawing starts with margins of Params.Margin pixels. Whenever ink reaches
// beyond the margins, they are grown and the fragment is rendered again, at
// most Params.MaxMarginPasses times. Rendering with the final margins again
// does not change them. Shading is drawn after the last pass.
func (f *Formatting) Render(ctx context.Context) (*Result, error) {
	p := f.p
	size := f.Size()
	content := dimen.R(0, 0, p.Px(size.W), p.Px(size.H))
	m := float64(p.Margin)
	margins := overflow{m, m, m, m}
	var ps pass
	n := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n++
		ps = f.renderPass(content, margins)
		grown := false
		for s, o := range ps.dc.over {
			if need := math.Ceil(o) + m; need > margins[s] {
				margins[s] = need
				grown = true
			}
		}
		if !grown {
			break
		}
		if n >= p.MaxMarginPasses {
			tracer().Infof("margins still growing after %d passes", n)
			break
		}
		tracer().Debugf("pass %d: growing margins to %v", n, margins)
	}
	if !ps.dc.plan.IsEmpty() {
		col, err := f.ts.colors.Resolve(p.ShadeColor)
		f.collect(err)
		ps.dc.plan.Draw(ps.dc.s, col)
	}
	res := &Result{
		Image:  ps.dc.s.Image(),
		Groups: ps.groups,
		Size:   size,
		Passes: n,
	}
	for s := range margins {
		res.Margins[s] = int(margins[s])
	}
	if f.res.Root.Direction.IsRightToLeft() {
		res.Margins[dimen.Left], res.Margins[dimen.Right] = res.Margins[dimen.Right], res.Margins[dimen.Left]
	}
	tracer().Infof("rendered %dx%d pixels in %d passes", res.Image.Rect.Dx(), res.Image.Rect.Dy(), n)
	return res, errors.Join(f.errs...)
}

// renderPass draws the fragment onto a fresh surface with the given margins.
func (f *Formatting) renderPass(content dimen.Rect, margins overflow) pass {
	p := f.p
	w := int(math.Ceil(content.W + margins[dimen.Left] + margins[dimen.Right]))
	h := int(math.Ceil(content.H + margins[dimen.Top] + margins[dimen.Bottom]))
	if w < 1 || h < 1 {
		f.errorf(core.EINVALID, "cannot render surface of size %dx%d, using 1x1", w, h)
		w, h = max(w, 1), max(h, 1)
	}
	device := gfx.Translate(margins[dimen.Left], margins[dimen.Top])
	dir := p.ShadeDir
	rtl := f.res.Root.Direction.IsRightToLeft()
	if rtl {
		device = gfx.Concat(gfx.MirrorX(float64(w)), device)
		dir = hachure.Flip(dir)
	}
	var notes []noteRequest
	dc := &drawCtx{
		s:       f.ts.factory(w, h),
		device:  device,
		unitPx:  p.UnitPx,
		plan:    hachure.NewPlan(dir, p.ShadeSep, p.ShadeWidth, p.ShadeTolerance),
		over:    &overflow{},
		notes:   &notes,
		content: content,
	}
	var ps pass
	ps.dc = dc
	if hiero := f.frag.Hiero; hiero != nil {
		horizontal := f.res.Root.Direction.IsHorizontal()
		var cells []dimen.Rect
		cell := dimen.RectAt(dimen.Point{}, f.Size())
		f.drawSeq(dc, hiero.Groups, hiero.Ops, cell, horizontal, &cells)
		for _, c := range cells {
			ps.groups = append(ps.groups, dc.deviceRect(c).Pixels())
		}
	}
	f.drawNotes(dc, notes)
	return ps
}
