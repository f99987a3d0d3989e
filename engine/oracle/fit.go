package oracle

import (
	"math"
)

// FitHor computes how much closer than nominal distance two shapes may be
// placed side by side, keeping a separation of sep pixels between their ink.
//
// first and second are ink masks sharing the y coordinates; their rectangles are
// the cells of the shapes. Nominally the cell of second starts nominal pixels to
// the right of the cell of first. The leading edge of second is dilated by sep,
// then for every scanline the gap between the trailing ink of first and the
// dilated leading ink of second is taken. The result is the smallest gap over
// all scanlines, limited to [0, max]. Shapes without common scanlines may move
// by max.
func FitHor(first, second *Mask, nominal, sep, max float64) float64 {
	aura := second.Dilate(sep)
	best := math.Inf(1)
	for y := aura.Rect.Min.Y; y < aura.Rect.Max.Y; y++ {
		trail, ok1 := trailingGapRow(first, y)
		lead, ok2 := leadingGapRow(aura, second.Rect.Min.X, y)
		if ok1 && ok2 {
			best = math.Min(best, trail+nominal+lead)
		}
	}
	return clampReduction(best, max)
}

// FitVert is FitHor for shapes stacked top to bottom.
func FitVert(first, second *Mask, nominal, sep, max float64) float64 {
	aura := second.Dilate(sep)
	best := math.Inf(1)
	for x := aura.Rect.Min.X; x < aura.Rect.Max.X; x++ {
		trail, ok1 := trailingGapCol(first, x)
		lead, ok2 := leadingGapCol(aura, second.Rect.Min.Y, x)
		if ok1 && ok2 {
			best = math.Min(best, trail+nominal+lead)
		}
	}
	return clampReduction(best, max)
}

func clampReduction(d, max float64) float64 {
	if math.IsInf(d, 1) || d > max {
		return max
	}
	if d < 0 {
		return 0
	}
	return d
}

// trailingGapRow is the distance from the last ink pixel in row y to the right
// edge of the cell.
func trailingGapRow(m *Mask, y int) (float64, bool) {
	for x := m.Rect.Max.X - 1; x >= m.Rect.Min.X; x-- {
		if m.At(x, y) {
			return float64(m.Rect.Max.X - 1 - x), true
		}
	}
	return 0, false
}

// leadingGapRow is the distance from start to the first ink pixel in row y.
// It is negative for aura pixels left of start.
func leadingGapRow(m *Mask, start int, y int) (float64, bool) {
	for x := m.Rect.Min.X; x < m.Rect.Max.X; x++ {
		if m.At(x, y) {
			return float64(x - start), true
		}
	}
	return 0, false
}

func trailingGapCol(m *Mask, x int) (float64, bool) {
	for y := m.Rect.Max.Y - 1; y >= m.Rect.Min.Y; y-- {
		if m.At(x, y) {
			return float64(m.Rect.Max.Y - 1 - y), true
		}
	}
	return 0, false
}

func leadingGapCol(m *Mask, start int, x int) (float64, bool) {
	for y := m.Rect.Min.Y; y < m.Rect.Max.Y; y++ {
		if m.At(x, y) {
			return float64(y - start), true
		}
	}
	return 0, false
}
