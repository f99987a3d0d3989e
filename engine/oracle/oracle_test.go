package oracle

import (
	"image"
	"image/color"
	"testing"

	"github.com/npillmayer/hieroset/backend/gfx"
	"github.com/npillmayer/hieroset/core/dimen"
	"github.com/npillmayer/hieroset/core/font"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fill(img *image.RGBA, r image.Rectangle) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetRGBA(x, y, color.RGBA{0, 0, 0, 0xff})
		}
	}
}

func TestInkTest(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hieroset.oracle")
	defer teardown()
	//
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.SetRGBA(1, 1, color.RGBA{0, 0, 0, 1})
	assert.True(t, IsInk(img, 1, 1))
	assert.False(t, IsInk(img, 2, 2))
	assert.False(t, IsInk(img, 9, 9))
	assert.Equal(t, image.Rect(1, 1, 2, 2), InkBounds(img, img.Rect))
}

func TestGlyphRectGrowsMargins(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hieroset.oracle")
	defer teardown()
	//
	calls := 0
	// a 30×10 bar at origin offset (-5,-5), far larger than the estimate
	r, err := GlyphRect(gfx.SoftwareFactory, dimen.Size{W: 2, H: 2}, 6,
		func(s gfx.Surface, origin dimen.Point) error {
			calls++
			s.FillRect(dimen.R(-5, -5, 30, 10), gfx.Translate(origin.X, origin.Y), color.Black)
			return nil
		})
	require.NoError(t, err)
	assert.Greater(t, calls, 1)
	assert.Equal(t, dimen.R(-5, -5, 30, 10), r)
}

func TestGlyphRectOfText(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hieroset.oracle")
	defer teardown()
	//
	f := font.FallbackFont()
	r, err := GlyphRect(gfx.SoftwareFactory, dimen.Size{W: 40, H: 40}, 6,
		func(s gfx.Surface, origin dimen.Point) error {
			return s.DrawText("H", f, 40, gfx.Translate(origin.X, origin.Y), color.Black)
		})
	require.NoError(t, err)
	assert.True(t, r.Y < -20, "H rises above the baseline")
	assert.InDelta(t, 0, r.Bottom(), 1.5)
	//
	empty, err := GlyphRect(gfx.SoftwareFactory, dimen.Size{W: 10, H: 10}, 3,
		func(s gfx.Surface, origin dimen.Point) error { return nil })
	require.NoError(t, err)
	assert.True(t, empty.IsEmpty())
}

func TestExternalPixels(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hieroset.oracle")
	defer teardown()
	//
	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	// a ring with a hole, and a U open to the top
	fill(img, image.Rect(2, 2, 9, 9))
	img.SetRGBA(5, 5, color.RGBA{})
	fill(img, image.Rect(11, 4, 18, 12))
	for y := 4; y < 10; y++ {
		for x := 13; x < 16; x++ {
			img.SetRGBA(x, y, color.RGBA{})
		}
	}
	ext := ExternalPixels(img, img.Rect)
	assert.True(t, ext.At(0, 0))
	assert.False(t, ext.At(5, 5), "hole is enclosed")
	assert.False(t, ext.At(3, 3), "ink is never external")
	assert.True(t, ext.At(14, 8), "U is open to the top")
	sil := Silhouette(img, img.Rect)
	assert.True(t, sil.At(5, 5))
	assert.Equal(t, 7*7+7*8-3*6, sil.Count())
}

func TestDilateAndIntersect(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hieroset.oracle")
	defer teardown()
	//
	a := image.NewRGBA(image.Rect(0, 0, 20, 20))
	b := image.NewRGBA(image.Rect(0, 0, 20, 20))
	fill(a, image.Rect(0, 0, 5, 5))
	fill(b, image.Rect(8, 0, 12, 5))
	ma, mb := InkMask(a, a.Rect), InkMask(b, b.Rect)
	assert.False(t, ma.Intersects(mb))
	assert.False(t, ma.Intersects(mb.Dilate(3)))
	assert.True(t, ma.Intersects(mb.Dilate(4)))
	fill(b, image.Rect(4, 4, 5, 5))
	assert.True(t, ma.Intersects(InkMask(b, b.Rect)))
}

func TestFitHor(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hieroset.oracle")
	defer teardown()
	//
	// first: block at the top right of its cell, second: square at the bottom left
	first := NewMask(image.Rect(0, 0, 10, 20))
	second := NewMask(image.Rect(0, 0, 10, 20))
	for y := 0; y < 5; y++ {
		for x := 6; x < 10; x++ {
			first.Set(x, y, true)
		}
	}
	for y := 15; y < 20; y++ {
		for x := 0; x < 4; x++ {
			second.Set(x, y, true)
		}
	}
	assert.Equal(t, 3.0, FitHor(first, second, 3, 2, 3), "no common scanline")
	for y := 10; y < 20; y++ {
		first.Set(2, y, true)
	}
	// trailing gap 7, nominal 3, aura lead -2
	assert.Equal(t, 8.0, FitHor(first, second, 3, 2, 20))
	assert.Equal(t, 5.0, FitHor(first, second, 3, 2, 5))
}

func TestFitVert(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hieroset.oracle")
	defer teardown()
	//
	first := NewMask(image.Rect(0, 0, 10, 10))
	second := NewMask(image.Rect(0, 0, 10, 10))
	first.Set(5, 9, true) // touches the bottom
	second.Set(5, 0, true)
	assert.Equal(t, 0.0, FitVert(first, second, 1, 1, 4))
	assert.Equal(t, 2.0, FitVert(first, second, 3, 1, 4))
}

func TestFindFree(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hieroset.oracle")
	defer teardown()
	//
	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	fill(img, image.Rect(0, 0, 20, 10))
	tab := NewInkTable(img, img.Rect)
	assert.Equal(t, 200, tab.Count(img.Rect))
	q, ok := tab.FindFree(img.Rect, 5, 5, dimen.Top)
	require.True(t, ok)
	assert.Equal(t, image.Rect(0, 10, 5, 15), q)
	q, ok = tab.FindFree(img.Rect, 5, 5, dimen.Bottom)
	require.True(t, ok)
	assert.Equal(t, image.Rect(0, 15, 5, 20), q)
	q, ok = tab.FindFree(img.Rect, 5, 5, dimen.Right)
	require.True(t, ok)
	assert.Equal(t, image.Rect(15, 10, 20, 15), q)
	_, ok = tab.FindFree(img.Rect, 5, 11, dimen.Left)
	assert.False(t, ok)
}

func TestOpening(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hieroset.oracle")
	defer teardown()
	//
	m := NewMask(image.Rect(0, 0, 10, 30))
	for x := 0; x < 10; x++ {
		for _, y := range []int{2, 3, 26, 27} {
			m.Set(x, y, true)
		}
	}
	lo, hi, ok := Opening(m, true)
	require.True(t, ok)
	assert.Equal(t, 4, lo)
	assert.Equal(t, 26, hi)
	_, _, ok = Opening(m, false)
	assert.False(t, ok)
}
