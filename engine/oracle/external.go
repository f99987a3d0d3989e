package oracle

import (
	"image"
)

// ExternalPixels marks every blank pixel of img within r which is reachable
// from the border of r through blank pixels.
//
// Blank runs are flooded row by row, then column by column, until a pass
// changes nothing.
func ExternalPixels(img *image.RGBA, r image.Rectangle) *Mask {
	ext := NewMask(r)
	if r.Empty() {
		return ext
	}
	blank := InkMask(img, r).Invert()
	open := func(x, y int) bool {
		return blank.bits[blank.index(x, y)] && !ext.bits[ext.index(x, y)]
	}
	mark := func(x, y int) {
		ext.bits[ext.index(x, y)] = true
	}
	for changed := true; changed; {
		changed = false
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ { // left to right
				if open(x, y) && (x == r.Min.X || y == r.Min.Y || y == r.Max.Y-1 ||
					ext.At(x-1, y) || ext.At(x, y-1) || ext.At(x, y+1)) {
					mark(x, y)
					changed = true
				}
			}
			for x := r.Max.X - 1; x >= r.Min.X; x-- { // right to left
				if open(x, y) && (x == r.Max.X-1 || ext.At(x+1, y)) {
					mark(x, y)
					changed = true
				}
			}
		}
		for x := r.Min.X; x < r.Max.X; x++ {
			for y := r.Min.Y; y < r.Max.Y; y++ { // top to bottom
				if open(x, y) && (y == r.Min.Y || ext.At(x, y-1) || ext.At(x-1, y) || ext.At(x+1, y)) {
					mark(x, y)
					changed = true
				}
			}
			for y := r.Max.Y - 1; y >= r.Min.Y; y-- { // bottom to top
				if open(x, y) && (y == r.Max.Y-1 || ext.At(x, y+1)) {
					mark(x, y)
					changed = true
				}
			}
		}
	}
	return ext
}

// Silhouette is the complement of the external pixels: the ink of img within r
// together with all enclosed blank areas.
func Silhouette(img *image.RGBA, r image.Rectangle) *Mask {
	return ExternalPixels(img, r).Invert()
}
