package typeset

import (
	"math"

	"github.com/npillmayer/hieroset/backend/gfx"
	"github.com/npillmayer/hieroset/core/dimen"
	"github.com/npillmayer/hieroset/core/option"
	"github.com/npillmayer/hieroset/engine/glyphtree"
	"github.com/npillmayer/hieroset/engine/hachure"
	"github.com/npillmayer/hieroset/engine/oracle"
	"golang.org/x/image/math/f64"
)

// drawCtx carries the target of a drawing pass. Layout positions are in
// units; device is the transform from logical pixels to the surface.
//
// Temporary drawings, e.g. for measuring fits, leave plan, over and notes nil:
// they neither shade, nor grow margins, nor place annotations.
type drawCtx struct {
	s       gfx.Surface
	device  f64.Aff3
	unitPx  float64
	plan    *hachure.Plan
	over    *overflow
	notes   *[]noteRequest
	content dimen.Rect // extent of the inscription, logical pixels
}

func (dc *drawCtx) px(r dimen.Rect) dimen.Rect {
	k := dc.unitPx
	return dimen.R(r.X*k, r.Y*k, r.W*k, r.H*k)
}

// deviceRect maps a rectangle in units to device pixels.
func (dc *drawCtx) deviceRect(r dimen.Rect) dimen.Rect {
	return gfx.ApplyRect(dc.device, dc.px(r))
}

// ensure reports a drawn extent (units) to the margin bookkeeping.
func (dc *drawCtx) ensure(r dimen.Rect) {
	if dc.over != nil {
		dc.over.ensure(dc.px(r), dc.content)
	}
}

// clip restricts drawing to r (units) until the returned function is called.
// If nothing of r is visible, visible is false and drawing should be skipped.
func (dc *drawCtx) clip(r dimen.Rect) (restore func(), visible bool) {
	saved := dc.s.Clip()
	c := dc.deviceRect(r).Round().Intersect(saved)
	if c.Empty() {
		return func() {}, false
	}
	dc.s.SetClip(c)
	return func() { dc.s.SetClip(saved) }, true
}

// temp returns a context for drawing onto a fresh surface of the same size
// and transform as dc.
func (f *Formatting) temp(dc *drawCtx) *drawCtx {
	b := dc.s.Bounds()
	t := *dc
	t.s = f.ts.factory(b.Dx(), b.Dy())
	t.s.SetClip(dc.s.Clip())
	return &t
}

// maskOf draws onto a temporary surface covering r (units) and returns the
// ink found there. The mask's rectangle starts at (0,0).
func (f *Formatting) maskOf(r dimen.Rect, draw func(dc *drawCtx)) *oracle.Mask {
	px := dimen.R(f.p.Px(r.X), f.p.Px(r.Y), f.p.Px(r.W), f.p.Px(r.H))
	w, h := int(math.Ceil(px.W)), int(math.Ceil(px.H))
	s := f.ts.factory(w, h)
	draw(&drawCtx{s: s, device: gfx.Translate(-px.X, -px.Y), unitPx: f.p.UnitPx})
	return oracle.InkMask(s.Image(), s.Bounds())
}

// --- Groups ----------------------------------------------------------------

// draw draws g with the top left corner of its cell at at (units).
func (f *Formatting) draw(dc *drawCtx, g glyphtree.Group, at dimen.Point) {
	sz := f.size(g)
	cell := dimen.RectAt(at, sz)
	glob := f.res.Globals(g)
	switch n := g.(type) {
	case *glyphtree.NamedGlyph:
		sg := f.glyphSign(n)
		ink := f.measure(sg)
		d := f.scale(n)
		f.collect(sg.draw(dc.s, dc.device, f.origin(ink, cell, d), d, f.ts.colors))
		dc.ensure(cell)
		f.shade(dc, cell, n.Shade, n.Shades, glob)
		f.addNotes(dc, n.Notes, cell, glob)
	case *glyphtree.EmptyGlyph:
		if n.Firm {
			col, err := f.ts.colors.Resolve(glob.Color)
			f.collect(err)
			dc.s.StrokeRect(dc.px(cell), 1, dc.device, col)
		}
		dc.ensure(cell)
		f.shade(dc, cell, n.Shade, n.Shades, glob)
		f.addNotes(dc, n.Notes, cell, glob)
	case *glyphtree.Box:
		f.drawBox(dc, n, at)
	case *glyphtree.Stack:
		f.drawStack(dc, n, cell)
	case *glyphtree.Insert:
		f.drawInsert(dc, n, cell)
	case *glyphtree.Modify:
		f.drawModify(dc, n, cell)
	case *glyphtree.HorizontalGroup:
		f.drawSeq(dc, glyphtree.Children(n), n.Ops, cell, true, nil)
	case *glyphtree.VerticalGroup:
		f.drawSeq(dc, glyphtree.Children(n), n.Ops, cell, false, nil)
	}
}

// seqCells lays out a sequence of groups in cell: children follow each other
// along the main axis, separated by their ops, and are centered across it.
// It returns the cells of the children.
func (f *Formatting) seqCells(groups []glyphtree.Group, ops []*glyphtree.Op, cell dimen.Rect,
	horizontal bool) []dimen.Rect {
	//
	ax := axes(horizontal)
	pos, _ := ax.main(cell)
	c0, cl := ax.cross(cell)
	cells := make([]dimen.Rect, len(groups))
	for i, g := range groups {
		sz := f.size(g)
		m, c := sz.Main(horizontal), sz.Cross(horizontal)
		cells[i] = ax.rect(pos, c0+(cl-c)/2, m, c)
		pos += m
		if i < len(ops) && i+1 < len(groups) {
			pos += f.opSize(ops[i], g, groups[i+1], horizontal)
		}
	}
	return cells
}

// drawSeq draws a sequence of groups into cell and shades its ops. If cells is
// not nil, the cells of the children are appended to it.
func (f *Formatting) drawSeq(dc *drawCtx, groups []glyphtree.Group, ops []*glyphtree.Op,
	cell dimen.Rect, horizontal bool, cells *[]dimen.Rect) {
	//
	ax := axes(horizontal)
	cs := f.seqCells(groups, ops, cell, horizontal)
	for i, g := range groups {
		f.draw(dc, g, cs[i].TopLeft())
	}
	c0, cl := ax.cross(cell)
	for i, op := range ops {
		if i+1 >= len(groups) {
			break
		}
		p0, l0 := ax.main(cs[i])
		p1, _ := ax.main(cs[i+1])
		gap := ax.rect(p0+l0, c0, p1-p0-l0, cl)
		f.shade(dc, gap, op.Shade, op.Shades, f.res.OpGlobals(op))
	}
	if cells != nil {
		*cells = append(*cells, cs...)
	}
}

// drawStack overlays the two groups of a stack. The group "on" top erases the
// ink of the other one inside its silhouette.
func (f *Formatting) drawStack(dc *drawCtx, st *glyphtree.Stack, cell dimen.Rect) {
	s1, s2 := f.size(st.G1), f.size(st.G2)
	at1 := dimen.Point{X: cell.X + (cell.W-s1.W)/2, Y: cell.Y + (cell.H-s1.H)/2}
	at2 := dimen.Point{X: cell.X + st.X*cell.W - s2.W/2, Y: cell.Y + st.Y*cell.H - s2.H/2}
	var front, back glyphtree.Group
	var atFront, atBack dimen.Point
	switch st.OnUnder {
	case "on":
		front, back, atFront, atBack = st.G1, st.G2, at1, at2
	case "under":
		front, back, atFront, atBack = st.G2, st.G1, at2, at1
	default:
		f.draw(dc, st.G1, at1)
		f.draw(dc, st.G2, at2)
		return
	}
	tf, tb := f.temp(dc), f.temp(dc)
	f.draw(tf, front, atFront)
	f.draw(tb, back, atBack)
	bounds := dc.deviceRect(dimen.RectAt(atFront, f.size(front))).Pixels()
	sil := oracle.Silhouette(tf.s.Image(), bounds.Intersect(tf.s.Bounds()))
	tb.s.Erase(sil.Alpha())
	dc.s.Composite(tb.s.Image())
	dc.s.Composite(tf.s.Image())
}

// drawModify draws the content of a modify node centered in its padded cell.
func (f *Formatting) drawModify(dc *drawCtx, m *glyphtree.Modify, cell dimen.Rect) {
	inner := f.modifyInner(m)
	box := dimen.R(cell.X+m.Before*inner.W, cell.Y+m.Above*inner.H, inner.W, inner.H)
	sz := f.size(m.Group)
	at := dimen.Point{X: box.X + (box.W-sz.W)/2, Y: box.Y + (box.H-sz.H)/2}
	if m.Omit {
		restore, visible := dc.clip(cell)
		if visible {
			f.draw(dc, m.Group, at)
		}
		restore()
	} else {
		f.draw(dc, m.Group, at)
	}
	f.shade(dc, cell, m.Shade, m.Shades, f.res.Globals(m))
}

// --- Shading ---------------------------------------------------------------

// shade requests shading of a cell. An explicit shade attribute decides;
// otherwise shading patterns select parts of the cell; otherwise the shade of
// the globals applies to the whole cell.
func (f *Formatting) shade(dc *drawCtx, cell dimen.Rect, shade option.Value[bool], patterns []string,
	glob glyphtree.Globals) {
	//
	if dc.plan == nil || cell.IsEmpty() {
		return
	}
	if on, ok := shade.Get(); ok {
		if on {
			dc.plan.Add(dc.deviceRect(cell))
		}
		return
	}
	if len(patterns) > 0 {
		for _, pat := range patterns {
			dc.plan.Add(dc.deviceRect(shadePattern(cell, pat)))
		}
		return
	}
	if glob.Shade {
		dc.plan.Add(dc.deviceRect(cell))
	}
}

// shadePattern selects a part of r: every letter of pattern halves it towards
// the top (t), bottom (b), start (s) or end (e).
func shadePattern(r dimen.Rect, pattern string) dimen.Rect {
	for _, c := range pattern {
		switch c {
		case 't':
			r = r.Chop(dimen.Top)
		case 'b':
			r = r.Chop(dimen.Bottom)
		case 's':
			r = r.Chop(dimen.Left)
		case 'e':
			r = r.Chop(dimen.Right)
		}
	}
	return r
}

// --- Margins ---------------------------------------------------------------

// overflow collects how far drawn extents reach beyond the content rectangle,
// in logical pixels, indexed by dimen.Side.
type overflow [4]float64

func (o *overflow) ensure(r, content dimen.Rect) {
	o[dimen.Top] = math.Max(o[dimen.Top], content.Y-r.Y)
	o[dimen.Left] = math.Max(o[dimen.Left], content.X-r.X)
	o[dimen.Bottom] = math.Max(o[dimen.Bottom], r.Bottom()-content.Bottom())
	o[dimen.Right] = math.Max(o[dimen.Right], r.Right()-content.Right())
}
