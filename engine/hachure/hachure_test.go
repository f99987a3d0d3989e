package hachure

import (
	"image/color"
	"testing"

	"github.com/npillmayer/hieroset/backend/gfx"
	"github.com/npillmayer/hieroset/core/dimen"
	"github.com/npillmayer/hieroset/engine/oracle"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdjacentAreasMerge(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hieroset.typeset")
	defer teardown()
	//
	p := NewPlan(NorthEast, 4, 1, 1)
	assert.True(t, p.IsEmpty())
	p.Add(dimen.R(0, 0, 20, 20))
	n := len(p.Lines())
	require.Greater(t, n, 5)
	p.Add(dimen.R(20, 0, 20, 20))
	lines := p.Lines()
	assert.Equal(t, 2, p.Areas())
	// the two squares form a 40×20 rectangle, which has more lines than a square,
	// but fewer than two separate squares
	assert.Greater(t, len(lines), n)
	assert.Less(t, len(lines), 2*n)
	for _, l := range lines {
		assert.InDelta(t, l.From.X+l.From.Y, l.To.X+l.To.Y, 1e-9, "ne lines have constant x+y")
		assert.True(t, l.To.X >= l.From.X)
	}
}

func TestNorthWestLines(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hieroset.typeset")
	defer teardown()
	//
	p := NewPlan(NorthWest, 3, 1, 0)
	p.Add(dimen.R(5, 5, 10, 10))
	area := dimen.R(5, 5, 10, 10)
	for _, l := range p.Lines() {
		assert.InDelta(t, l.From.X-l.From.Y, l.To.X-l.To.Y, 1e-9)
		assert.True(t, area.Contains(dimen.R(l.From.X, l.From.Y, 0, 0), 1e-9))
		assert.True(t, area.Contains(dimen.R(l.To.X, l.To.Y, 0, 0), 1e-9))
	}
	assert.Equal(t, NorthEast, Flip(p.Direction()))
}

func TestMergeRespectsTolerance(t *testing.T) {
	spans := merge([]span{{5, 6}, {0, 2}, {2.5, 4}}, 0.5)
	assert.Equal(t, []span{{0, 4}, {5, 6}}, spans)
}

func TestDrawStaysInArea(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hieroset.typeset")
	defer teardown()
	//
	c := gfx.NewCanvas(60, 60)
	p := NewPlan(NorthEast, 4, 1, 1)
	p.Add(dimen.R(10, 10, 30, 20))
	p.Draw(c, color.Black)
	ink := oracle.InkBounds(c.Image(), c.Bounds())
	assert.False(t, ink.Empty())
	assert.True(t, ink.In(dimen.R(10, 10, 30, 20).Grow(1).Pixels()))
}
