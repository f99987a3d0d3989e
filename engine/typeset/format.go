package typeset

import (
	"context"
	"errors"
	"image/color"
	"math"

	"github.com/npillmayer/hieroset/core"
	"github.com/npillmayer/hieroset/core/dimen"
	"github.com/npillmayer/hieroset/core/parameters"
	"github.com/npillmayer/hieroset/engine/glyphtree"
)

var blackInk = color.Black

// Formatting is a fragment prepared for rendering at one unit size. It holds
// the side tables of formatting: resolved globals, dynamic scale factors,
// measured signs and fitted separators.
type Formatting struct {
	ts      *Typesetter
	p       *parameters.Params
	frag    *glyphtree.Fragment
	res     *glyphtree.Resolution
	ctx     context.Context
	dyn     map[glyphtree.Group]float64 // dynamic scale, 1 if absent
	signs   map[*glyphtree.NamedGlyph]sign
	rects   map[signKey]dimen.Rect // ink rectangles of signs, in units
	boxes   map[*glyphtree.Box]*boxParts
	fits    map[*glyphtree.Op]float64 // reduction of fitted ops, per side scale
	boxFits map[*glyphtree.Box][2]float64
	inserts map[insertKey]placement
	missing map[string]bool
	seen    map[string]bool
	errs    []error
}

// Format resolves the attributes of fragment f and computes its layout.
// Back-propagation of switches changes the switches of f's tree.
func (ts *Typesetter) Format(ctx context.Context, f *glyphtree.Fragment) (*Formatting, error) {
	if f == nil {
		return nil, core.Error(core.EINVALID, "no fragment to format")
	}
	glyphtree.PropagateBack(f)
	fmtg := &Formatting{
		ts:      ts,
		p:       ts.params,
		frag:    f,
		res:     glyphtree.Propagate(f),
		ctx:     ctx,
		dyn:     make(map[glyphtree.Group]float64),
		signs:   make(map[*glyphtree.NamedGlyph]sign),
		rects:   make(map[signKey]dimen.Rect),
		boxes:   make(map[*glyphtree.Box]*boxParts),
		fits:    make(map[*glyphtree.Op]float64),
		boxFits: make(map[*glyphtree.Box][2]float64),
		inserts: make(map[insertKey]placement),
		missing: make(map[string]bool),
		seen:    make(map[string]bool),
	}
	if f.Hiero == nil {
		return fmtg, nil
	}
	if err := fmtg.layout(f.Hiero); err != nil {
		return nil, err
	}
	tracer().Infof("formatted %s to %s units", f.Hiero, fmtg.Size())
	return fmtg, nil
}

// Size returns the extent of the formatted fragment, in units.
func (f *Formatting) Size() dimen.Size {
	if f.frag.Hiero == nil {
		return dimen.Size{}
	}
	return f.hieroSize(f.frag.Hiero, f.res.Root.Direction.IsHorizontal())
}

// GroupSize returns the current extent of g, in units.
func (f *Formatting) GroupSize(g glyphtree.Group) dimen.Size {
	return f.size(g)
}

// Err returns the problems collected so far, joined.
func (f *Formatting) Err() error {
	return errors.Join(f.errs...)
}

func (f *Formatting) errorf(code int, format string, v ...interface{}) {
	f.collect(core.Error(code, format, v...))
}

// collect records err, once per message.
func (f *Formatting) collect(err error) {
	if err == nil || f.seen[err.Error()] {
		return
	}
	f.seen[err.Error()] = true
	tracer().Errorf("%v", err)
	f.errs = append(f.errs, err)
}

// --- Sizes -----------------------------------------------------------------

// scale returns the dynamic scale of g.
func (f *Formatting) scale(g glyphtree.Group) float64 {
	if d, ok := f.dyn[g]; ok {
		return d
	}
	return 1
}

// scaleDown multiplies the dynamic scale of g and all its descendants by
// factor. A factor of 1 changes nothing.
func (f *Formatting) scaleDown(g glyphtree.Group, factor float64) {
	if factor == 1 {
		return
	}
	glyphtree.Walk(g, func(n glyphtree.Group) {
		f.dyn[n] = f.scale(n) * factor
	})
}

// withScale runs fn with the dynamic scales of g's sub-tree multiplied by
// factor, then restores them.
func (f *Formatting) withScale(g glyphtree.Group, factor float64, fn func()) {
	saved := make(map[glyphtree.Group]float64)
	glyphtree.Walk(g, func(n glyphtree.Group) {
		saved[n] = f.scale(n)
	})
	f.scaleDown(g, factor)
	defer func() {
		for n, d := range saved {
			f.dyn[n] = d
		}
	}()
	fn()
}

// size computes the current extent of g, in units.
func (f *Formatting) size(g glyphtree.Group) dimen.Size {
	switch n := g.(type) {
	case *glyphtree.NamedGlyph:
		return f.measure(f.glyphSign(n)).Size().Scale(f.scale(n))
	case *glyphtree.EmptyGlyph:
		k := f.res.Globals(n).Size * f.scale(n)
		return dimen.Size{W: math.Max(n.Width, 0) * k, H: math.Max(n.Height, 0) * k}
	case *glyphtree.Box:
		return f.boxGeometry(n, dimen.Point{}).cell.Size()
	case *glyphtree.Stack:
		s1, s2 := f.size(n.G1), f.size(n.G2)
		return dimen.Size{W: math.Max(s1.W, s2.W), H: math.Max(s1.H, s2.H)}
	case *glyphtree.Insert:
		return f.size(n.G1)
	case *glyphtree.Modify:
		inner := f.modifyInner(n)
		return dimen.Size{
			W: inner.W * (1 + n.Before + n.After),
			H: inner.H * (1 + n.Above + n.Below),
		}
	case *glyphtree.HorizontalGroup:
		return f.seqSize(glyphtree.Children(n), n.Ops, true)
	case *glyphtree.VerticalGroup:
		return f.seqSize(glyphtree.Children(n), n.Ops, false)
	}
	tracer().Errorf("unknown group type %T", g)
	return dimen.Size{}
}

// modifyInner is the extent of the content of a modify node, before padding.
func (f *Formatting) modifyInner(m *glyphtree.Modify) dimen.Size {
	sz := f.size(m.Group)
	k := f.res.Globals(m).Size * f.scale(m)
	if w, ok := m.Width.Get(); ok {
		sz.W = w * k
	}
	if h, ok := m.Height.Get(); ok {
		sz.H = h * k
	}
	return sz
}

// seqSize is the extent of a sequence of groups: the sum of the children and
// of the separators along the main axis, the maximum across it.
func (f *Formatting) seqSize(groups []glyphtree.Group, ops []*glyphtree.Op, horizontal bool) dimen.Size {
	var main, cross float64
	for _, g := range groups {
		sz := f.size(g)
		main += sz.Main(horizontal)
		cross = math.Max(cross, sz.Cross(horizontal))
	}
	for i, op := range ops {
		if i+1 < len(groups) {
			main += f.opSize(op, groups[i], groups[i+1], horizontal)
		}
	}
	return dimen.Oriented(horizontal, main, cross)
}

// hieroSize is the extent of a sequence of top-level or box-inner groups.
func (f *Formatting) hieroSize(h *glyphtree.Hieroglyphic, horizontal bool) dimen.Size {
	return f.seqSize(h.Groups, h.Ops, horizontal)
}

// sideScale is the dynamic scale of g as seen from a neighbour at side s.
func (f *Formatting) sideScale(g glyphtree.Group, s dimen.Side) float64 {
	switch n := g.(type) {
	case *glyphtree.Stack:
		return math.Max(f.sideScale(n.G1, s), f.sideScale(n.G2, s))
	case *glyphtree.Insert:
		return f.sideScale(n.G1, s)
	case *glyphtree.Modify:
		return f.sideScale(n.Group, s)
	case *glyphtree.HorizontalGroup:
		return f.seqSideScale(glyphtree.Children(n), s, dimen.Left, dimen.Right)
	case *glyphtree.VerticalGroup:
		return f.seqSideScale(glyphtree.Children(n), s, dimen.Top, dimen.Bottom)
	}
	return f.scale(g)
}

func (f *Formatting) seqSideScale(gs []glyphtree.Group, s, start, end dimen.Side) float64 {
	if len(gs) == 0 {
		return 1
	}
	switch s {
	case start:
		return f.sideScale(gs[0], s)
	case end:
		return f.sideScale(gs[len(gs)-1], s)
	}
	k := 0.0
	for _, g := range gs {
		k = math.Max(k, f.sideScale(g, s))
	}
	return k
}

// --- Size constraints ------------------------------------------------------

// layout alternates between fitting separators and applying the size
// constraints. Fitted separators are part of the extent a constraint limits,
// and a fit depends on the scale of its neighbours. Every round starts from
// natural scale, with the fits of the previous round, until the fits change
// by less than half a pixel.
func (f *Formatting) layout(h *glyphtree.Hieroglyphic) error {
	f.fitHiero(h)
	tol := f.p.Units(0.5)
	for i := 1; ; i++ {
		f.dyn = make(map[glyphtree.Group]float64)
		f.constrainTop(h)
		if err := f.ctx.Err(); err != nil {
			return err
		}
		if i >= f.p.MaxScaleIterations {
			return nil
		}
		fits, boxFits := copyFits(f.fits), copyBoxFits(f.boxFits)
		f.fitHiero(h)
		if err := f.ctx.Err(); err != nil {
			return err
		}
		if fitsSettled(fits, f.fits, tol) && boxFitsSettled(boxFits, f.boxFits, tol) {
			tracer().Debugf("fits settled after %d rounds", i)
			return nil
		}
	}
}

func copyFits(m map[*glyphtree.Op]float64) map[*glyphtree.Op]float64 {
	c := make(map[*glyphtree.Op]float64, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

func copyBoxFits(m map[*glyphtree.Box][2]float64) map[*glyphtree.Box][2]float64 {
	c := make(map[*glyphtree.Box][2]float64, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

func fitsSettled(before, after map[*glyphtree.Op]float64, tol float64) bool {
	for op, v := range after {
		if math.Abs(v-before[op]) > tol {
			return false
		}
	}
	return true
}

func boxFitsSettled(before, after map[*glyphtree.Box][2]float64, tol float64) bool {
	for b, v := range after {
		w := before[b]
		if math.Abs(v[0]-w[0]) > tol || math.Abs(v[1]-w[1]) > tol {
			return false
		}
	}
	return true
}

// constrainTop applies the constraints of a sequence of top-level groups: each
// group is limited to the unit size across the direction of writing, unless
// the group carries a size constraint of its own.
func (f *Formatting) constrainTop(h *glyphtree.Hieroglyphic) {
	glob := f.res.HieroGlobals(h)
	limit := 1.0
	if len(h.Ops) > 0 {
		if v, ok := h.Ops[0].Size.Get(); ok {
			limit = v
		}
	}
	for _, g := range h.Groups {
		f.constrain(g)
		target := limit
		if ops := firstOps(g); len(ops) > 0 && ops[0].Size.IsSome() {
			target = ops[0].Size.Unwrap()
		}
		if !math.IsInf(target, 1) {
			f.shrink(g, glob.Direction.IsHorizontal(), target*f.res.Globals(g).Size)
		}
	}
}

func firstOps(g glyphtree.Group) []*glyphtree.Op {
	switch n := g.(type) {
	case *glyphtree.HorizontalGroup:
		return n.Ops
	case *glyphtree.VerticalGroup:
		return n.Ops
	}
	return nil
}

// constrain applies the constraints within g, innermost first.
func (f *Formatting) constrain(g glyphtree.Group) {
	for _, c := range glyphtree.Children(g) {
		f.constrain(c)
	}
	switch n := g.(type) {
	case *glyphtree.Box:
		if n.IsEmpty() {
			return
		}
		geo := f.boxGeometry(n, dimen.Point{})
		for _, c := range n.Inner.Groups {
			f.shrink(c, geo.horizontal, geo.innerTarget)
		}
	case *glyphtree.HorizontalGroup, *glyphtree.VerticalGroup:
		ops := firstOps(n)
		if len(ops) == 0 || ops[0].Size.IsNone() || ops[0].IsUnconstrained() {
			return
		}
		glob := f.res.Globals(n)
		f.shrink(n, glob.Direction.IsHorizontal(), ops[0].Size.Unwrap()*glob.Size)
	}
}

// shrink scales g down until its extent across the main axis of a
// horizontal (or vertical) arrangement does not exceed target.
func (f *Formatting) shrink(g glyphtree.Group, horizontal bool, target float64) {
	target = math.Max(target, f.p.ScaleFloor)
	for i := 0; i < f.p.MaxScaleIterations; i++ {
		cur := f.size(g).Cross(horizontal)
		if cur <= target || cur <= f.p.ScaleFloor {
			return
		}
		tracer().Debugf("scaling %s by %.3f", g, target/cur)
		f.scaleDown(g, target/cur)
	}
}
