package dimen

import (
	"image"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func TestRectIntersect(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hieroset.core")
	defer teardown()
	//
	r := R(0, 0, 10, 10)
	o := R(5, 5, 10, 10)
	assert.Equal(t, R(5, 5, 5, 5), r.Intersect(o))
	assert.True(t, r.Intersect(R(20, 20, 1, 1)).IsEmpty())
	assert.Equal(t, R(0, 0, 15, 15), r.Union(o))
	assert.Equal(t, o, Rect{}.Union(o))
}

func TestRectChop(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hieroset.core")
	defer teardown()
	//
	r := R(10, 20, 40, 80)
	assert.Equal(t, R(10, 20, 40, 40), r.Chop(Top))
	assert.Equal(t, R(10, 60, 40, 40), r.Chop(Bottom))
	assert.Equal(t, R(10, 20, 20, 80), r.Chop(Left))
	assert.Equal(t, R(30, 20, 20, 80), r.Chop(Right))
	assert.Equal(t, R(10, 20, 20, 40), r.Chop(Top).Chop(Left))
	assert.Equal(t, Point{30, 60}, r.Center())
}

func TestRectPixels(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hieroset.core")
	defer teardown()
	//
	r := R(0.5, 1.2, 3, 2)
	assert.Equal(t, image.Rect(0, 1, 4, 4), r.Pixels())
	assert.Equal(t, R(5, 0, 3, 2), R(2, 0, 3, 2).Mirror(10))
	assert.True(t, R(0, 0, 10, 10).Contains(R(2, 2, 8, 8), 0))
	assert.False(t, R(0, 0, 10, 10).Contains(R(2, 2, 9, 8), 0))
}

func TestSizeAxes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hieroset.core")
	defer teardown()
	//
	sz := Size{2, 1}
	assert.Equal(t, 2.0, sz.Main(true))
	assert.Equal(t, 1.0, sz.Cross(true))
	assert.Equal(t, 1.0, sz.Main(false))
	assert.Equal(t, Size{1, 0.5}, sz.Scale(0.5))
	assert.Equal(t, Size{3, 4}, Oriented(false, 4, 3))
	assert.Equal(t, Left, Right.Opposite())
}
