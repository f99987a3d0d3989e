package typeset

import (
	"context"
	"image"
	"testing"

	"github.com/npillmayer/hieroset/core"
	"github.com/npillmayer/hieroset/core/dimen"
	"github.com/npillmayer/hieroset/core/font"
	"github.com/npillmayer/hieroset/core/option"
	"github.com/npillmayer/hieroset/core/parameters"
	"github.com/npillmayer/hieroset/engine/glyphtree"
	"github.com/npillmayer/hieroset/engine/oracle"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testCatalog maps sign names to letters of the fallback font.
func testCatalog() *font.Catalog {
	c := font.NewCatalog()
	c.Add("A1", "A")
	c.Add("B1", "B")
	c.Add("D36", "L")
	c.Add("G17", "T")
	c.Add("X1", ".")
	c.Add("Z1", "I")
	c.Add("cartouche.open.h", "(")
	c.Add("cartouche.segment.h", "Ξ")
	c.Add("cartouche.close.h", ")")
	c.Add("cartouche.open.v", "n")
	c.Add("cartouche.segment.v", "ll")
	c.Add("cartouche.close.v", "u")
	return c
}

func testTypesetter(tweak func(p *parameters.Params)) *Typesetter {
	p := parameters.Defaults()
	if tweak != nil {
		tweak(p)
	}
	return New(WithParams(p), WithCatalog(testCatalog()), WithFont(font.FallbackFont()))
}

func hgroup(gs ...glyphtree.Group) *glyphtree.HorizontalGroup {
	h := &glyphtree.HorizontalGroup{}
	for i, g := range gs {
		h.Groups = append(h.Groups, glyphtree.Subgroup{Group: g})
		if i > 0 {
			h.Ops = append(h.Ops, &glyphtree.Op{})
		}
	}
	return h
}

func format(t *testing.T, ts *Typesetter, groups ...glyphtree.Group) *Formatting {
	f, err := ts.Format(context.Background(), glyphtree.NewFragment(glyphtree.NewHieroglyphic(groups...)))
	require.NoError(t, err)
	return f
}

func TestScaleDownByOneIsIdentity(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hieroset.typeset")
	defer teardown()
	//
	a, b := glyphtree.NewNamedGlyph("A1"), glyphtree.NewNamedGlyph("B1")
	hg := hgroup(a, b)
	f := format(t, testTypesetter(nil), hg)
	before := f.size(hg)
	f.scaleDown(hg, 1)
	assert.Equal(t, before, f.size(hg))
	assert.Equal(t, 1.0, f.scale(a))
}

func TestMainAxisIsExactSum(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hieroset.typeset")
	defer teardown()
	//
	a, b := glyphtree.NewNamedGlyph("A1"), glyphtree.NewNamedGlyph("B1")
	hg := hgroup(a, b)
	f := format(t, testTypesetter(nil), hg)
	sa, sb := f.size(a), f.size(b)
	sz := f.size(hg)
	assert.Equal(t, sa.W+sb.W+f.opSize(hg.Ops[0], a, b, true), sz.W)
	assert.GreaterOrEqual(t, sz.H, sa.H)
	assert.GreaterOrEqual(t, sz.H, sb.H)
	//
	vg := &glyphtree.VerticalGroup{
		Groups: []glyphtree.Subgroup{{Group: glyphtree.NewNamedGlyph("X1")}, {Group: glyphtree.NewNamedGlyph("Z1")}},
		Ops:    []*glyphtree.Op{{}},
	}
	f = format(t, testTypesetter(nil), vg)
	x, z := vg.Groups[0].Group, vg.Groups[1].Group
	assert.Equal(t, f.size(x).H+f.size(z).H+f.opSize(vg.Ops[0], x, z, false), f.size(vg).H)
}

func TestFixedSeparator(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hieroset.typeset")
	defer teardown()
	//
	ts := testTypesetter(func(p *parameters.Params) {
		p.UnitPx = 100
		p.SepUnit = 1
	})
	a, b := glyphtree.NewNamedGlyph("A1"), glyphtree.NewNamedGlyph("B1")
	hg := hgroup(a, b)
	f := format(t, ts, hg)
	assert.InDelta(t, f.size(a).W+1+f.size(b).W, f.size(hg).W, 0.01)
	res, err := f.Render(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Groups, 1)
	assert.InDelta(t, 100*f.size(hg).W, float64(res.Groups[0].Dx()), 2)
}

func TestEmptyGlyphScales(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hieroset.typeset")
	defer teardown()
	//
	e := glyphtree.NewEmptyGlyph(2, 1)
	f := format(t, testTypesetter(nil), e)
	assert.Equal(t, dimen.Size{W: 2, H: 1}, f.size(e))
	f.scaleDown(e, 0.5)
	assert.Equal(t, dimen.Size{W: 1, H: 0.5}, f.size(e))
}

func TestTopLevelGroupsAreConstrained(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hieroset.typeset")
	defer teardown()
	//
	big := glyphtree.NewNamedGlyph("Z1")
	big.Scale = 3
	tall := glyphtree.NewEmptyGlyph(1, 2.5)
	f := format(t, testTypesetter(nil), big, tall)
	assert.LessOrEqual(t, f.size(big).H, 1.0+1e-9)
	assert.InDelta(t, 1.0, f.size(tall).H, 1e-9)
	assert.InDelta(t, 0.4, f.size(tall).W, 1e-9)
	//
	free := glyphtree.NewEmptyGlyph(1, 2.5)
	vg := &glyphtree.VerticalGroup{
		Groups: []glyphtree.Subgroup{{Group: free}, {Group: glyphtree.NewEmptyGlyph(1, 1)}},
		Ops:    []*glyphtree.Op{{Size: option.Some(dimen.Infinity)}},
	}
	f = format(t, testTypesetter(nil), vg)
	assert.InDelta(t, 2.5, f.size(free).H, 1e-9, "unconstrained group keeps its size")
}

func TestInsertFitsIntoPrimary(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hieroset.typeset")
	defer teardown()
	//
	ins := glyphtree.NewInsert(glyphtree.NewNamedGlyph("D36"), glyphtree.NewNamedGlyph("X1"))
	f := format(t, testTypesetter(nil), ins)
	pl := f.place(ins)
	assert.Greater(t, pl.scale, 0.0)
	assert.LessOrEqual(t, pl.scale, 1.0)
	cell := dimen.RectAt(dimen.Point{}, f.size(ins.G1))
	primary := f.maskOf(cell, func(dc *drawCtx) {
		f.draw(dc, ins.G1, dimen.Point{})
	})
	var secondary *oracle.Mask
	f.withScale(ins.G2, pl.scale, func() {
		sz := f.size(ins.G2)
		at := pl.at(cell, sz)
		assert.True(t, cell.Contains(dimen.RectAt(at, sz), 1e-9), "secondary inside primary")
		secondary = f.maskOf(cell, func(dc *drawCtx) {
			f.draw(dc, ins.G2, at)
		})
	})
	assert.False(t, secondary.IsEmpty())
	assert.False(t, primary.Intersects(secondary), "secondary does not touch primary ink")
	assert.Equal(t, pl, f.place(ins), "placement is cached")
}

func TestInsertAtTopEdge(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hieroset.typeset")
	defer teardown()
	//
	ins := glyphtree.NewInsert(glyphtree.NewNamedGlyph("D36"), glyphtree.NewNamedGlyph("X1"))
	ins.Place = "t"
	ins.Fix = true
	f := format(t, testTypesetter(nil), ins)
	pl := f.place(ins)
	cell := dimen.RectAt(dimen.Point{X: 3, Y: 2}, f.size(ins.G1))
	f.withScale(ins.G2, pl.scale, func() {
		assert.Equal(t, 2.0, pl.at(cell, f.size(ins.G2)).Y)
	})
	_, err := f.Render(context.Background())
	assert.NoError(t, err)
}

func TestOversizedInsertIsShrunk(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hieroset.typeset")
	defer teardown()
	//
	ins := glyphtree.NewInsert(glyphtree.NewNamedGlyph("D36"), glyphtree.NewEmptyGlyph(40, 40))
	ins.Place = "t"
	ins.Fix = true
	f := format(t, testTypesetter(nil), ins)
	pl := f.place(ins)
	assert.Greater(t, pl.scale, 0.0)
	assert.Less(t, pl.scale, f.p.InsertInitialScale)
	cell := dimen.RectAt(dimen.Point{}, f.size(ins.G1))
	f.withScale(ins.G2, pl.scale, func() {
		sz := f.size(ins.G2)
		at := pl.at(cell, sz)
		assert.True(t, cell.Contains(dimen.RectAt(at, sz), 1e-9), "secondary inside primary")
		assert.Equal(t, 0.0, at.Y)
	})
}

func TestPlacementDependsOnScale(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hieroset.typeset")
	defer teardown()
	//
	ins := glyphtree.NewInsert(glyphtree.NewNamedGlyph("D36"), glyphtree.NewNamedGlyph("X1"))
	f := format(t, testTypesetter(nil), ins)
	pl := f.place(ins)
	f.withScale(ins, 0.5, func() {
		f.place(ins)
	})
	assert.Len(t, f.inserts, 2, "one placement per scale of the insert")
	assert.Equal(t, pl, f.place(ins))
	//
	// an insert within the secondary of another one
	inner := glyphtree.NewInsert(glyphtree.NewNamedGlyph("D36"), glyphtree.NewNamedGlyph("X1"))
	outer := glyphtree.NewInsert(glyphtree.NewEmptyGlyph(2, 2), inner)
	f = format(t, testTypesetter(nil), outer)
	_, err := f.Render(context.Background())
	require.NoError(t, err)
	final := f.place(outer)
	f.withScale(outer.G2, final.scale, func() {
		_, ok := f.inserts[insertKey{ins: inner, scale: f.scale(inner)}]
		assert.True(t, ok, "inner insert placed at its final scale")
	})
}

func TestFitWithinConstrainedGroup(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hieroset.typeset")
	defer teardown()
	//
	build := func(fit bool, scale float64) (*Formatting, *glyphtree.HorizontalGroup) {
		l, t1 := glyphtree.NewNamedGlyph("D36"), glyphtree.NewNamedGlyph("G17")
		l.Scale, t1.Scale = scale, scale
		hg := hgroup(l, t1)
		hg.Ops[0].Fit = option.Some(fit)
		frag := glyphtree.NewFragment(glyphtree.NewHieroglyphic(hg))
		frag.Direction = glyphtree.VLR
		f, err := testTypesetter(nil).Format(context.Background(), frag)
		require.NoError(t, err)
		return f, hg
	}
	f, hg := build(false, 2)
	require.Less(t, f.scale(hg), 1.0, "group is wider than a column")
	assert.InDelta(t, 1.0, f.size(hg).W, 1e-6)
	//
	f, hg = build(true, 2)
	assert.Greater(t, f.fits[hg.Ops[0]], 0.0, "signs move closer")
	assert.InDelta(t, 1.0, f.size(hg).W, 0.02, "fitted group fills the column")
	res, err := f.Render(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, f.p.Px(1), float64(res.Groups[0].Dx()), 3)
	//
	// wider than a column with a fixed separator, narrower when fitted
	f, hg = build(false, 1)
	require.Less(t, f.scale(hg), 1.0)
	f, hg = build(true, 1)
	assert.Equal(t, 1.0, f.scale(hg), "fitted group needs no scaling")
	assert.LessOrEqual(t, f.size(hg).W, 1.0)
}

func TestVerticalText(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hieroset.typeset")
	defer teardown()
	//
	for _, dir := range []glyphtree.Direction{glyphtree.VLR, glyphtree.VRL} {
		frag := glyphtree.NewFragment(glyphtree.NewHieroglyphic(
			glyphtree.NewNamedGlyph("A1"), glyphtree.NewNamedGlyph("B1"), glyphtree.NewNamedGlyph("Z1")))
		frag.Direction = dir
		res, err := testTypesetter(nil).Render(context.Background(), frag)
		require.NoError(t, err)
		require.Len(t, res.Groups, 3)
		for i := 1; i < 3; i++ {
			assert.GreaterOrEqual(t, res.Groups[i].Min.Y, res.Groups[i-1].Max.Y-1, "%s: group %d below", dir, i)
		}
		assert.Greater(t, res.Image.Rect.Dy(), res.Image.Rect.Dx(), "%s: a column", dir)
	}
}

func TestModifySize(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hieroset.typeset")
	defer teardown()
	//
	m := glyphtree.NewModify(glyphtree.NewNamedGlyph("A1"))
	m.Width = option.Some(2.0)
	m.Height = option.Some(0.5)
	m.Before, m.After = 0.5, 0.5
	m.Above = 0.2
	f := format(t, testTypesetter(nil), m)
	assert.InDelta(t, 4.0, f.size(m).W, 1e-9)
	assert.InDelta(t, 0.6, f.size(m).H, 1e-9)
	//
	plain := glyphtree.NewNamedGlyph("A1")
	m = glyphtree.NewModify(plain)
	f = format(t, testTypesetter(nil), m)
	assert.Equal(t, f.size(plain), f.size(m), "modify without attributes keeps the size")
}

func TestModifyPadding(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hieroset.typeset")
	defer teardown()
	//
	m := glyphtree.NewModify(glyphtree.NewNamedGlyph("A1"))
	m.Before = 1
	res, err := testTypesetter(nil).Render(context.Background(),
		glyphtree.NewFragment(glyphtree.NewHieroglyphic(m)))
	require.NoError(t, err)
	cell := res.Groups[0]
	ink := oracle.InkBounds(res.Image, res.Image.Rect)
	require.False(t, ink.Empty())
	assert.GreaterOrEqual(t, ink.Min.X, cell.Min.X+cell.Dx()/2-1, "ink in the end half")
}

func TestModifyOmitClips(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hieroset.typeset")
	defer teardown()
	//
	render := func(omit bool) (*Result, image.Rectangle) {
		m := glyphtree.NewModify(glyphtree.NewNamedGlyph("Z1"))
		m.Height = option.Some(0.2)
		m.Omit = omit
		res, err := testTypesetter(nil).Render(context.Background(),
			glyphtree.NewFragment(glyphtree.NewHieroglyphic(m)))
		require.NoError(t, err)
		ink := oracle.InkBounds(res.Image, res.Image.Rect)
		require.False(t, ink.Empty())
		return res, ink
	}
	res, ink := render(false)
	assert.Greater(t, ink.Dy(), res.Groups[0].Dy()+2, "ink overflows the cell")
	res, ink = render(true)
	assert.True(t, ink.In(res.Groups[0].Inset(-1)), "ink clipped to the cell")
}

func TestCartouche(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hieroset.typeset")
	defer teardown()
	//
	box := glyphtree.NewBox("cartouche", glyphtree.NewHieroglyphic(
		glyphtree.NewNamedGlyph("A1"), glyphtree.NewNamedGlyph("B1")))
	frag := glyphtree.NewFragment(glyphtree.NewHieroglyphic(box))
	frag.Switch = glyphtree.Switch{Fit: option.Some(true)}
	ts := testTypesetter(nil)
	f, err := ts.Format(context.Background(), frag)
	require.NoError(t, err)
	bp := f.parts(box)
	d := f.scale(box)
	inner := f.hieroSize(box.Inner, true)
	sz := f.size(box)
	limit := 2 * ts.Params().MaxFitReduction * d
	assert.GreaterOrEqual(t, sz.W+1e-9, (bp.ro.W+bp.rc.W)*d+inner.W-limit)
	geo := f.boxGeometry(box, dimen.Point{})
	assert.LessOrEqual(t, inner.H, geo.innerTarget+1e-6, "inner content fits the opening")
	assert.Less(t, bp.lo, bp.hi)
	res, err := f.Render(context.Background())
	require.NoError(t, err)
	ink := oracle.InkBounds(res.Image, res.Image.Rect)
	assert.False(t, ink.Empty())
}

func TestEmptyVerticalBox(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hieroset.typeset")
	defer teardown()
	//
	box := glyphtree.NewBox("cartouche", nil)
	box.Orientation = "v"
	f := format(t, testTypesetter(nil), box)
	assert.False(t, f.parts(box).horizontal)
	assert.Greater(t, f.size(box).H, f.p.EmptyBoxLength*f.scale(box))
	_, err := f.Render(context.Background())
	assert.NoError(t, err)
}

func TestMarginsReachFixedPoint(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hieroset.typeset")
	defer teardown()
	//
	// the secondary of the stack is centered on the end edge and overflows
	st := glyphtree.NewStack(glyphtree.NewNamedGlyph("Z1"), glyphtree.NewNamedGlyph("A1"))
	st.X = 1
	f := format(t, testTypesetter(nil), st)
	res, err := f.Render(context.Background())
	require.NoError(t, err)
	assert.Greater(t, res.Passes, 1)
	assert.Greater(t, res.Margins[dimen.Right], f.p.Margin)
	var margins overflow
	for s := range margins {
		margins[s] = float64(res.Margins[s])
	}
	size := f.Size()
	ps := f.renderPass(dimen.R(0, 0, f.p.Px(size.W), f.p.Px(size.H)), margins)
	for s, o := range ps.dc.over {
		assert.LessOrEqual(t, o+float64(f.p.Margin), margins[s]+1e-9, "side %v", dimen.Side(s))
	}
	assert.Equal(t, res.Image.Rect, ps.dc.s.Bounds())
}

func TestMissingSign(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hieroset.typeset")
	defer teardown()
	//
	ts := testTypesetter(nil)
	frag := glyphtree.NewFragment(glyphtree.NewHieroglyphic(glyphtree.NewNamedGlyph("A")))
	res, err := ts.Render(context.Background(), frag)
	require.NotNil(t, res)
	assert.Equal(t, core.EMISSING, core.Code(err))
	assert.Contains(t, err.Error(), "A1", "suggests similar names")
	assert.False(t, oracle.InkBounds(res.Image, res.Image.Rect).Empty(), "fallback glyph drawn")
}

func TestZeroSizeSurface(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hieroset.typeset")
	defer teardown()
	//
	ts := testTypesetter(func(p *parameters.Params) { p.Margin = 0 })
	res, err := ts.Render(context.Background(), glyphtree.NewFragment(nil))
	require.NotNil(t, res)
	assert.Equal(t, core.EINVALID, core.Code(err))
	assert.Equal(t, image.Rect(0, 0, 1, 1), res.Image.Rect)
}

func TestRightToLeft(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hieroset.typeset")
	defer teardown()
	//
	ts := testTypesetter(nil)
	frag := glyphtree.NewFragment(glyphtree.NewHieroglyphic(
		glyphtree.NewNamedGlyph("A1"), glyphtree.NewNamedGlyph("B1")))
	frag.Direction = glyphtree.HRL
	res, err := ts.Render(context.Background(), frag)
	require.NoError(t, err)
	require.Len(t, res.Groups, 2)
	assert.Greater(t, res.Groups[0].Min.X, res.Groups[1].Min.X, "first group is on the right")
}

func TestShadingOfEmptyGlyph(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hieroset.typeset")
	defer teardown()
	//
	e := glyphtree.NewEmptyGlyph(1, 1)
	e.Shade = option.Some(true)
	ts := testTypesetter(nil)
	res, err := ts.Render(context.Background(), glyphtree.NewFragment(glyphtree.NewHieroglyphic(e)))
	require.NoError(t, err)
	ink := oracle.InkBounds(res.Image, res.Image.Rect)
	assert.False(t, ink.Empty(), "hachure drawn")
	assert.True(t, ink.In(res.Groups[0].Inset(-2)))
}

func TestShadePattern(t *testing.T) {
	r := dimen.R(0, 0, 4, 4)
	assert.Equal(t, dimen.R(0, 0, 2, 2), shadePattern(r, "ts"))
	assert.Equal(t, dimen.R(2, 2, 2, 2), shadePattern(r, "be"))
	assert.Equal(t, r, shadePattern(r, ""))
}

func TestNotesAreDrawnOutside(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hieroset.typeset")
	defer teardown()
	//
	e := glyphtree.NewEmptyGlyph(1, 1)
	e.Notes = []glyphtree.Note{{Text: "12"}}
	ts := testTypesetter(nil)
	res, err := ts.Render(context.Background(), glyphtree.NewFragment(glyphtree.NewHieroglyphic(e)))
	require.NoError(t, err)
	ink := oracle.InkBounds(res.Image, res.Image.Rect)
	require.False(t, ink.Empty())
	assert.False(t, ink.In(res.Groups[0]), "note placed next to the group")
	assert.True(t, ink.In(res.Image.Rect))
}

func TestStackOnErases(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hieroset.typeset")
	defer teardown()
	//
	plain := glyphtree.NewStack(glyphtree.NewNamedGlyph("A1"), glyphtree.NewNamedGlyph("Z1"))
	ts := testTypesetter(nil)
	r1, err := ts.Render(context.Background(), glyphtree.NewFragment(glyphtree.NewHieroglyphic(plain)))
	require.NoError(t, err)
	on := glyphtree.NewStack(glyphtree.NewNamedGlyph("A1"), glyphtree.NewNamedGlyph("Z1"))
	on.OnUnder = "on"
	r2, err := ts.Render(context.Background(), glyphtree.NewFragment(glyphtree.NewHieroglyphic(on)))
	require.NoError(t, err)
	count := func(img *image.RGBA) int {
		return oracle.InkMask(img, img.Rect).Count()
	}
	assert.Less(t, count(r2.Image), count(r1.Image), "occluded ink is erased")
}

func TestCancelledRender(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hieroset.typeset")
	defer teardown()
	//
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ts := testTypesetter(nil)
	res, err := ts.Render(ctx, glyphtree.NewFragment(glyphtree.NewHieroglyphic(glyphtree.NewNamedGlyph("A1"))))
	assert.Nil(t, res)
	assert.ErrorIs(t, err, context.Canceled)
}
