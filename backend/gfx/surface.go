package gfx

import (
	"image"
	"image/color"
	"math"

	"github.com/npillmayer/hieroset/core/dimen"
	"github.com/npillmayer/hieroset/core/font"
	"golang.org/x/image/math/f64"
)

// Surface is the rasterization capability the typesetter draws on.
type Surface interface {
	Bounds() image.Rectangle
	Image() *image.RGBA // backing pixels, for inspection
	Clear()
	// SetClip restricts drawing to r (device coordinates). An empty rectangle
	// resets the clip to the full surface.
	SetClip(r image.Rectangle)
	Clip() image.Rectangle
	// DrawText fills the outlines of text. Text space has its origin at the start
	// of the baseline, with 1 unit = 1 pixel at font size ppem.
	DrawText(text string, f *font.ScalableFont, ppem float64, m f64.Aff3, col color.Color) error
	FillRect(r dimen.Rect, m f64.Aff3, col color.Color)
	StrokeRect(r dimen.Rect, width float64, m f64.Aff3, col color.Color)
	StrokeLine(a, b dimen.Point, width float64, m f64.Aff3, col color.Color)
	// Erase removes ink wherever mask has coverage, proportional to it.
	Erase(mask *image.Alpha)
	// Composite draws src over the surface, respecting the clip.
	Composite(src *image.RGBA)
}

// Factory creates surfaces. Sizes are clamped to at least 1×1.
type Factory func(w, h int) Surface

// SoftwareFactory creates Canvas surfaces.
func SoftwareFactory(w, h int) Surface {
	return NewCanvas(w, h)
}

// --- Transforms ------------------------------------------------------------

// Identity is the identity transform.
var Identity = f64.Aff3{1, 0, 0, 0, 1, 0}

// Translate returns a translation by (dx,dy).
func Translate(dx, dy float64) f64.Aff3 {
	return f64.Aff3{1, 0, dx, 0, 1, dy}
}

// Scale returns a scaling around the origin.
func Scale(sx, sy float64) f64.Aff3 {
	return f64.Aff3{sx, 0, 0, 0, sy, 0}
}

// Rotate returns a clockwise rotation around the origin (y grows downwards).
func Rotate(degrees float64) f64.Aff3 {
	s, c := math.Sincos(degrees * math.Pi / 180)
	return f64.Aff3{c, -s, 0, s, c, 0}
}

// MirrorX returns a reflection mapping x to w-x.
func MirrorX(w float64) f64.Aff3 {
	return f64.Aff3{-1, 0, w, 0, 1, 0}
}

// Concat returns the transform applying ms from right to left, i.e.
// Concat(a, b) applies b first, then a.
func Concat(ms ...f64.Aff3) f64.Aff3 {
	r := Identity
	for _, m := range ms {
		r = mul(r, m)
	}
	return r
}

func mul(a, b f64.Aff3) f64.Aff3 {
	return f64.Aff3{
		a[0]*b[0] + a[1]*b[3], a[0]*b[1] + a[1]*b[4], a[0]*b[2] + a[1]*b[5] + a[2],
		a[3]*b[0] + a[4]*b[3], a[3]*b[1] + a[4]*b[4], a[3]*b[2] + a[4]*b[5] + a[5],
	}
}

// Apply maps a point.
func Apply(m f64.Aff3, x, y float64) (float64, float64) {
	return m[0]*x + m[1]*y + m[2], m[3]*x + m[4]*y + m[5]
}

// ApplyRect returns the bounding box of a transformed rectangle.
func ApplyRect(m f64.Aff3, r dimen.Rect) dimen.Rect {
	x0, y0 := math.Inf(1), math.Inf(1)
	x1, y1 := math.Inf(-1), math.Inf(-1)
	for _, p := range [4][2]float64{{r.X, r.Y}, {r.Right(), r.Y}, {r.X, r.Bottom()}, {r.Right(), r.Bottom()}} {
		x, y := Apply(m, p[0], p[1])
		x0, y0 = math.Min(x0, x), math.Min(y0, y)
		x1, y1 = math.Max(x1, x), math.Max(y1, y)
	}
	return dimen.R(x0, y0, x1-x0, y1-y0)
}

// Invert returns the inverse transform. Singular transforms invert to the
// identity.
func Invert(m f64.Aff3) f64.Aff3 {
	det := m[0]*m[4] - m[1]*m[3]
	if det == 0 {
		tracer().Errorf("cannot invert singular transform %v", m)
		return Identity
	}
	a, b, d, e := m[4]/det, -m[1]/det, -m[3]/det, m[0]/det
	return f64.Aff3{
		a, b, -(a*m[2] + b*m[5]),
		d, e, -(d*m[2] + e*m[5]),
	}
}
