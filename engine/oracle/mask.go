package oracle

import (
	"image"
	"math"
)

// IsInk is the ink test for a single pixel.
func IsInk(img *image.RGBA, x, y int) bool {
	if !(image.Point{x, y}.In(img.Rect)) {
		return false
	}
	i := img.PixOffset(x, y)
	p := img.Pix[i : i+4 : i+4]
	return p[0]|p[1]|p[2]|p[3] != 0
}

// Mask is a set of pixels within a rectangle.
type Mask struct {
	Rect image.Rectangle
	bits []bool
}

// NewMask creates an empty mask.
func NewMask(r image.Rectangle) *Mask {
	r = r.Canon()
	return &Mask{Rect: r, bits: make([]bool, r.Dx()*r.Dy())}
}

// InkMask collects the ink pixels of img within r.
func InkMask(img *image.RGBA, r image.Rectangle) *Mask {
	m := NewMask(r)
	v := r.Intersect(img.Rect)
	for y := v.Min.Y; y < v.Max.Y; y++ {
		for x := v.Min.X; x < v.Max.X; x++ {
			if IsInk(img, x, y) {
				m.Set(x, y, true)
			}
		}
	}
	return m
}

func (m *Mask) index(x, y int) int {
	return (y-m.Rect.Min.Y)*m.Rect.Dx() + x - m.Rect.Min.X
}

// At reports whether (x,y) is set. Pixels outside of the mask's rectangle are
// never set.
func (m *Mask) At(x, y int) bool {
	if m == nil || !(image.Point{x, y}.In(m.Rect)) {
		return false
	}
	return m.bits[m.index(x, y)]
}

// Set sets or clears (x,y). Pixels outside of the mask's rectangle are ignored.
func (m *Mask) Set(x, y int, v bool) {
	if image.Pt(x, y).In(m.Rect) {
		m.bits[m.index(x, y)] = v
	}
}

// Count returns the number of set pixels.
func (m *Mask) Count() int {
	n := 0
	for _, b := range m.bits {
		if b {
			n++
		}
	}
	return n
}

// IsEmpty is true if no pixel is set.
func (m *Mask) IsEmpty() bool {
	if m == nil {
		return true
	}
	for _, b := range m.bits {
		if b {
			return false
		}
	}
	return true
}

// Bounds returns the tight bounding box of the set pixels.
func (m *Mask) Bounds() image.Rectangle {
	var b image.Rectangle
	for y := m.Rect.Min.Y; y < m.Rect.Max.Y; y++ {
		for x := m.Rect.Min.X; x < m.Rect.Max.X; x++ {
			if m.bits[m.index(x, y)] {
				b = b.Union(image.Rect(x, y, x+1, y+1))
			}
		}
	}
	return b
}

// Invert returns the complement of m within its rectangle.
func (m *Mask) Invert() *Mask {
	inv := NewMask(m.Rect)
	for i, b := range m.bits {
		inv.bits[i] = !b
	}
	return inv
}

// Intersects is true if m and o share at least one pixel.
func (m *Mask) Intersects(o *Mask) bool {
	r := m.Rect.Intersect(o.Rect)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if m.bits[m.index(x, y)] && o.bits[o.index(x, y)] {
				return true
			}
		}
	}
	return false
}

// Shift returns a copy of m moved by d.
func (m *Mask) Shift(d image.Point) *Mask {
	s := &Mask{Rect: m.Rect.Add(d), bits: make([]bool, len(m.bits))}
	copy(s.bits, m.bits)
	return s
}

// Alpha converts m to an opaque alpha mask, e.g. for erasing.
func (m *Mask) Alpha() *image.Alpha {
	a := image.NewAlpha(m.Rect)
	for y := m.Rect.Min.Y; y < m.Rect.Max.Y; y++ {
		for x := m.Rect.Min.X; x < m.Rect.Max.X; x++ {
			if m.bits[m.index(x, y)] {
				a.Pix[a.PixOffset(x, y)] = 0xff
			}
		}
	}
	return a
}

// Dilate returns the aura of m: every pixel within distance radius of a set
// pixel is set. The rectangle grows accordingly.
func (m *Mask) Dilate(radius float64) *Mask {
	if radius <= 0 {
		return m.Shift(image.Point{})
	}
	rr := int(math.Ceil(radius))
	d := NewMask(m.Rect.Inset(-rr))
	disk := diskOffsets(radius)
	for y := m.Rect.Min.Y; y < m.Rect.Max.Y; y++ {
		for x := m.Rect.Min.X; x < m.Rect.Max.X; x++ {
			if !m.bits[m.index(x, y)] {
				continue
			}
			if m.interior(x, y) {
				d.bits[d.index(x, y)] = true
				continue
			}
			for _, o := range disk {
				d.bits[d.index(x+o.X, y+o.Y)] = true
			}
		}
	}
	return d
}

// interior is true for set pixels whose 4 neighbours are set, too. Their disks
// are covered by the disks of the boundary pixels.
func (m *Mask) interior(x, y int) bool {
	return m.At(x-1, y) && m.At(x+1, y) && m.At(x, y-1) && m.At(x, y+1)
}

func diskOffsets(radius float64) []image.Point {
	rr := int(math.Ceil(radius))
	var pts []image.Point
	for dy := -rr; dy <= rr; dy++ {
		for dx := -rr; dx <= rr; dx++ {
			if float64(dx*dx+dy*dy) <= radius*radius {
				pts = append(pts, image.Pt(dx, dy))
			}
		}
	}
	return pts
}

// InkBounds returns the tight bounding box of the ink of img within r.
func InkBounds(img *image.RGBA, r image.Rectangle) image.Rectangle {
	var b image.Rectangle
	v := r.Intersect(img.Rect)
	for y := v.Min.Y; y < v.Max.Y; y++ {
		for x := v.Min.X; x < v.Max.X; x++ {
			if IsInk(img, x, y) {
				b = b.Union(image.Rect(x, y, x+1, y+1))
			}
		}
	}
	return b
}
