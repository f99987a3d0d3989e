package oracle

import (
	"image"

	"github.com/npillmayer/hieroset/core/dimen"
)

// InkTable is a summed-area table of the ink of an image, answering
// "is this rectangle blank" in constant time.
type InkTable struct {
	rect image.Rectangle
	sum  []int32 // (w+1)×(h+1), first row and column zero
}

// NewInkTable builds the table for img within r.
func NewInkTable(img *image.RGBA, r image.Rectangle) *InkTable {
	r = r.Intersect(img.Rect)
	w, h := r.Dx(), r.Dy()
	t := &InkTable{rect: r, sum: make([]int32, (w+1)*(h+1))}
	for y := 0; y < h; y++ {
		var row int32
		for x := 0; x < w; x++ {
			if IsInk(img, r.Min.X+x, r.Min.Y+y) {
				row++
			}
			t.sum[(y+1)*(w+1)+x+1] = t.sum[y*(w+1)+x+1] + row
		}
	}
	return t
}

// Count returns the number of ink pixels in q. Parts of q outside of the table
// count as blank.
func (t *InkTable) Count(q image.Rectangle) int {
	q = q.Intersect(t.rect)
	if q.Empty() {
		return 0
	}
	w := t.rect.Dx() + 1
	x0, y0 := q.Min.X-t.rect.Min.X, q.Min.Y-t.rect.Min.Y
	x1, y1 := q.Max.X-t.rect.Min.X, q.Max.Y-t.rect.Min.Y
	return int(t.sum[y1*w+x1] - t.sum[y0*w+x1] - t.sum[y1*w+x0] + t.sum[y0*w+x0])
}

// Blank is true if q contains no ink.
func (t *InkTable) Blank(q image.Rectangle) bool {
	return t.Count(q) == 0
}

// FindFree searches area for a blank rectangle of size w×h, scanning from side
// from inward. The rectangle found lies completely inside area.
func (t *InkTable) FindFree(area image.Rectangle, w, h int, from dimen.Side) (image.Rectangle, bool) {
	if w <= 0 || h <= 0 || area.Dx() < w || area.Dy() < h {
		return image.Rectangle{}, false
	}
	try := func(x, y int) (image.Rectangle, bool) {
		q := image.Rect(x, y, x+w, y+h)
		return q, t.Blank(q)
	}
	switch from {
	case dimen.Top:
		for y := area.Min.Y; y+h <= area.Max.Y; y++ {
			for x := area.Min.X; x+w <= area.Max.X; x++ {
				if q, ok := try(x, y); ok {
					return q, true
				}
			}
		}
	case dimen.Bottom:
		for y := area.Max.Y - h; y >= area.Min.Y; y-- {
			for x := area.Min.X; x+w <= area.Max.X; x++ {
				if q, ok := try(x, y); ok {
					return q, true
				}
			}
		}
	case dimen.Left:
		for x := area.Min.X; x+w <= area.Max.X; x++ {
			for y := area.Min.Y; y+h <= area.Max.Y; y++ {
				if q, ok := try(x, y); ok {
					return q, true
				}
			}
		}
	case dimen.Right:
		for x := area.Max.X - w; x >= area.Min.X; x-- {
			for y := area.Min.Y; y+h <= area.Max.Y; y++ {
				if q, ok := try(x, y); ok {
					return q, true
				}
			}
		}
	}
	return image.Rectangle{}, false
}
