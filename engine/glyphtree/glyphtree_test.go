package glyphtree

import (
	"testing"

	"github.com/npillmayer/hieroset/core/option"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func red() Switch {
	return Switch{Color: option.Some("red")}
}

func hgroup(gs ...Group) *HorizontalGroup {
	h := &HorizontalGroup{}
	for i, g := range gs {
		h.Groups = append(h.Groups, Subgroup{Group: g})
		if i > 0 {
			h.Ops = append(h.Ops, &Op{})
		}
	}
	return h
}

func TestSwitchJoin(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hieroset.tree")
	defer teardown()
	//
	a := Switch{Color: option.Some("red"), Sep: option.Some(2.0)}
	b := Switch{Color: option.Some("blue"), Shade: option.Some(true)}
	j := a.Join(b)
	assert.Equal(t, "blue", j.Color.Unwrap())
	assert.Equal(t, 2.0, j.Sep.Unwrap())
	assert.True(t, j.Shade.Unwrap())
	assert.True(t, Switch{}.IsIdentity())
	assert.Equal(t, a, a.Join(Switch{}), "identity joins to no-op")
	assert.Equal(t, a, Switch{}.Join(a))
	//
	g := DefaultGlobals().Update(j)
	assert.Equal(t, "blue", g.Color)
	assert.True(t, g.Shade)
	assert.Equal(t, 2.0, g.Sep)
	assert.False(t, g.Mirror)
	assert.Equal(t, "!color=blue,shade=true,sep=2", j.String())
}

func TestDirection(t *testing.T) {
	d, err := ParseDirection("VRL")
	require.NoError(t, err)
	assert.Equal(t, VRL, d)
	assert.Equal(t, HRL, d.Rotated(true))
	assert.Equal(t, VLR, HLR.Rotated(false))
	_, err = ParseDirection("up")
	assert.Error(t, err)
}

func TestBackPropagationIntoLeaf(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hieroset.tree")
	defer teardown()
	//
	a, b := NewNamedGlyph("A1"), NewNamedGlyph("B1")
	h := NewHieroglyphic(hgroup(a, b))
	h.Switches[0] = red()
	PropagateBack(NewFragment(h))
	assert.True(t, h.Switches[0].IsIdentity(), "switch has been absorbed")
	assert.Equal(t, "red", b.Trailing.Color.Unwrap())
	assert.True(t, a.Trailing.IsIdentity())
}

func TestBackPropagationStopsAtBoundary(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hieroset.tree")
	defer teardown()
	//
	a, b := NewNamedGlyph("A1"), NewNamedGlyph("B1")
	hg := hgroup(a, b)
	hg.Groups[1].Trailing = Switch{Shade: option.Some(true)}
	// the explicit trailing switch of the subgroup is pushed into b first,
	// then the outer switch follows the same way
	h := NewHieroglyphic(hg)
	h.Switches[0] = red()
	PropagateBack(NewFragment(h))
	assert.True(t, hg.Groups[1].Trailing.IsIdentity())
	assert.Equal(t, "red", b.Trailing.Color.Unwrap())
	assert.True(t, b.Trailing.Shade.Unwrap())
	//
	// a boundary that is not processed before the outer switch arrives
	sub := []Subgroup{{Group: NewNamedGlyph("C1"), Trailing: Switch{Fit: option.Some(true)}}}
	rest := pushBackSubgroups(sub, red())
	assert.True(t, rest.IsIdentity())
	assert.Equal(t, "red", sub[0].Trailing.Color.Unwrap())
	assert.True(t, sub[0].Trailing.Fit.Unwrap())
}

func TestBackPropagationIntoBoxes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hieroset.tree")
	defer teardown()
	//
	empty := NewBox("cartouche", nil)
	n := NewNamedGlyph("N5")
	full := NewBox("cartouche", NewHieroglyphic(NewNamedGlyph("Ra"), n))
	h := NewHieroglyphic(empty, full)
	h.Switches[0] = red()
	h.Switches[1] = Switch{Mirror: option.Some(true)}
	PropagateBack(NewFragment(h))
	assert.Equal(t, "red", empty.Trailing.Color.Unwrap())
	assert.True(t, n.Trailing.Mirror.Unwrap())
	assert.True(t, full.Trailing.IsIdentity())
}

func TestForwardPropagation(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hieroset.tree")
	defer teardown()
	//
	a, b, c := NewNamedGlyph("A1"), NewNamedGlyph("B1"), NewNamedGlyph("C1")
	hg := hgroup(a, b)
	hg.Ops[0].Switch = red()
	box := NewBox("cartouche", NewHieroglyphic(c))
	box.Size = 0.5
	box.Leading = Switch{Shade: option.Some(true)}
	d := NewNamedGlyph("D1")
	h := NewHieroglyphic(hg, box, d)
	f := NewFragment(h)
	f.Direction = HRL
	f.Size = 2
	PropagateBack(f)
	res := Propagate(f)
	//
	assert.Equal(t, "black", res.Globals(a).Color)
	assert.Equal(t, "black", res.OpGlobals(hg.Ops[0]).Color)
	assert.Equal(t, "red", res.Globals(b).Color)
	assert.Equal(t, "red", res.Globals(box).Color, "color switch persists")
	inner := res.Globals(c)
	assert.Equal(t, 1.0, inner.Size)
	assert.True(t, inner.Shade)
	assert.Equal(t, HRL, inner.Direction)
	after := res.Globals(d)
	assert.Equal(t, 2.0, after.Size, "box scope restores size")
	assert.True(t, after.Shade, "switches inside the box leak out")
	assert.Equal(t, 6, res.Len())
}

func TestVerticalBoxRotatesInnerDirection(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hieroset.tree")
	defer teardown()
	//
	c := NewNamedGlyph("C1")
	box := NewBox("serekh", NewHieroglyphic(c))
	box.Orientation = "v"
	f := NewFragment(NewHieroglyphic(box, NewNamedGlyph("D1")))
	res := Propagate(f)
	assert.Equal(t, VLR, res.Globals(c).Direction)
	assert.Equal(t, VLR, res.HieroGlobals(box.Inner).Direction)
	assert.Equal(t, HLR, res.Globals(f.Hiero.Groups[1]).Direction)
}

func TestPropagationIsStable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hieroset.tree")
	defer teardown()
	//
	ins := NewInsert(NewNamedGlyph("D36"), NewNamedGlyph("X1"))
	st := NewStack(NewNamedGlyph("Z9"), NewNamedGlyph("D46"))
	mod := NewModify(NewEmptyGlyph(1, 1))
	vg := &VerticalGroup{Groups: []Subgroup{{Group: ins}, {Group: st, Trailing: red()}}, Ops: []*Op{{}}}
	h := NewHieroglyphic(vg, mod)
	h.Switches[0] = Switch{Sep: option.Some(0.5)}
	f := NewFragment(h)
	PropagateBack(f)
	r1 := Propagate(f)
	r2 := Propagate(f)
	require.Equal(t, r1.Len(), r2.Len())
	for g, glob := range r1.groups {
		assert.Equal(t, glob, r2.Globals(g), "globals of %s", g)
	}
	assert.Equal(t, 0.5, r1.Globals(mod).Sep)
	assert.Equal(t, "red", r1.Globals(mod).Color)
	assert.Equal(t, "insert[](D36,X1):stack(Z9,D46)-modify(empty[1,1])", h.String())
}

func TestWalk(t *testing.T) {
	h := hgroup(NewNamedGlyph("A1"), NewStack(NewNamedGlyph("B1"), NewNamedGlyph("C1")))
	var names []string
	Walk(h, func(g Group) {
		if n, ok := g.(*NamedGlyph); ok {
			names = append(names, n.Name)
		}
	})
	assert.Equal(t, []string{"A1", "B1", "C1"}, names)
}
