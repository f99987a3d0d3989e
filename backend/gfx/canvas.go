package gfx

import (
	"image"
	"image/color"
	"math"

	"github.com/npillmayer/hieroset/core"
	"github.com/npillmayer/hieroset/core/dimen"
	"github.com/npillmayer/hieroset/core/font"
	"golang.org/x/image/draw"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// Canvas is a software surface. It is not safe for concurrent use; create one
// canvas per goroutine.
type Canvas struct {
	img  *image.RGBA
	clip image.Rectangle
	z    *vector.Rasterizer
	buf  sfnt.Buffer
	m    f64.Aff3    // transform of the current path
	off  image.Point // rasterizer origin in device space
	open bool        // a sub-path is open
}

var _ Surface = &Canvas{}

// NewCanvas creates a transparent canvas. Sizes are clamped to at least 1×1.
func NewCanvas(w, h int) *Canvas {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	c := &Canvas{img: image.NewRGBA(image.Rect(0, 0, w, h))}
	c.clip = c.img.Bounds()
	c.z = vector.NewRasterizer(w, h)
	return c
}

// Bounds returns the device rectangle of the canvas.
func (c *Canvas) Bounds() image.Rectangle {
	return c.img.Bounds()
}

// Image returns the backing pixels.
func (c *Canvas) Image() *image.RGBA {
	return c.img
}

// Clear makes every pixel transparent.
func (c *Canvas) Clear() {
	draw.Draw(c.img, c.img.Bounds(), image.Transparent, image.Point{}, draw.Src)
}

// SetClip restricts drawing to r.
func (c *Canvas) SetClip(r image.Rectangle) {
	if r.Empty() {
		c.clip = c.img.Bounds()
		return
	}
	c.clip = r.Intersect(c.img.Bounds())
}

// Clip returns the current clip rectangle.
func (c *Canvas) Clip() image.Rectangle {
	return c.clip
}

// --- Paths -----------------------------------------------------------------

func (c *Canvas) begin(m f64.Aff3) bool {
	if c.clip.Empty() {
		return false
	}
	c.off = c.clip.Min
	c.m = m
	c.open = false
	c.z.Reset(c.clip.Dx(), c.clip.Dy())
	return true
}

func (c *Canvas) pt(x, y float64) (float32, float32) {
	x, y = Apply(c.m, x, y)
	return float32(x - float64(c.off.X)), float32(y - float64(c.off.Y))
}

func (c *Canvas) moveTo(x, y float64) {
	if c.open {
		c.z.ClosePath()
	}
	c.z.MoveTo(c.pt(x, y))
	c.open = true
}

func (c *Canvas) lineTo(x, y float64) {
	c.z.LineTo(c.pt(x, y))
}

func (c *Canvas) quadTo(x1, y1, x2, y2 float64) {
	bx, by := c.pt(x1, y1)
	cx, cy := c.pt(x2, y2)
	c.z.QuadTo(bx, by, cx, cy)
}

func (c *Canvas) cubeTo(x1, y1, x2, y2, x3, y3 float64) {
	bx, by := c.pt(x1, y1)
	cx, cy := c.pt(x2, y2)
	dx, dy := c.pt(x3, y3)
	c.z.CubeTo(bx, by, cx, cy, dx, dy)
}

func (c *Canvas) fill(col color.Color) {
	if c.open {
		c.z.ClosePath()
		c.open = false
	}
	c.z.DrawOp = draw.Over
	c.z.Draw(c.img, c.clip, image.NewUniform(col), image.Point{})
}

func (c *Canvas) rect(r dimen.Rect, clockwise bool) {
	c.moveTo(r.X, r.Y)
	if clockwise {
		c.lineTo(r.Right(), r.Y)
		c.lineTo(r.Right(), r.Bottom())
		c.lineTo(r.X, r.Bottom())
	} else {
		c.lineTo(r.X, r.Bottom())
		c.lineTo(r.Right(), r.Bottom())
		c.lineTo(r.Right(), r.Y)
	}
}

// FillRect fills a rectangle given in user space.
func (c *Canvas) FillRect(r dimen.Rect, m f64.Aff3, col color.Color) {
	if r.IsEmpty() || !c.begin(m) {
		return
	}
	c.rect(r, true)
	c.fill(col)
}

// StrokeRect draws the outline of r, centered on its edges.
func (c *Canvas) StrokeRect(r dimen.Rect, width float64, m f64.Aff3, col color.Color) {
	if r.IsEmpty() || width <= 0 || !c.begin(m) {
		return
	}
	c.rect(r.Grow(width/2), true)
	if inner := r.Grow(-width / 2); !inner.IsEmpty() {
		c.rect(inner, false)
	}
	c.fill(col)
}

// StrokeLine draws a line from a to b with butt ends.
func (c *Canvas) StrokeLine(a, b dimen.Point, width float64, m f64.Aff3, col color.Color) {
	dx, dy := b.X-a.X, b.Y-a.Y
	l := math.Hypot(dx, dy)
	if l == 0 || width <= 0 || !c.begin(m) {
		return
	}
	nx, ny := -dy/l*width/2, dx/l*width/2
	c.moveTo(a.X+nx, a.Y+ny)
	c.lineTo(b.X+nx, b.Y+ny)
	c.lineTo(b.X-nx, b.Y-ny)
	c.lineTo(a.X-nx, a.Y-ny)
	c.fill(col)
}

// DrawText fills the outlines of text, in font f at size ppem.
// Code points without a glyph are skipped and reported with an error of code
// core.EMISSING.
func (c *Canvas) DrawText(text string, f *font.ScalableFont, ppem float64, m f64.Aff3, col color.Color) error {
	if f == nil || f.SFNT == nil {
		return core.Error(core.EMISSING, "no font to draw %q", text)
	}
	if !c.begin(m) {
		return nil
	}
	upem := float64(f.SFNT.UnitsPerEm())
	units := fixed.Int26_6(upem * 64) // outlines in font units
	scale := ppem / upem
	var err error
	var prev sfnt.GlyphIndex
	x := 0.0
	for _, r := range text {
		gi, e := f.SFNT.GlyphIndex(&c.buf, r)
		if e != nil || gi == 0 {
			err = core.Error(core.EMISSING, "font %s has no glyph for %U", f.Fontname, r)
			continue
		}
		if prev != 0 {
			if k, e := f.SFNT.Kern(&c.buf, prev, gi, units, xfont.HintingNone); e == nil {
				x += float64(k) / 64
			}
		}
		segs, e := f.SFNT.LoadGlyph(&c.buf, gi, units, nil)
		if e != nil {
			err = core.WrapError(e, core.EINVALID, "cannot load outline for %U", r)
			continue
		}
		c.m = Concat(m, Scale(scale, scale), Translate(x, 0))
		for _, seg := range segs {
			a := seg.Args
			switch seg.Op {
			case sfnt.SegmentOpMoveTo:
				c.moveTo(f26(a[0].X), f26(a[0].Y))
			case sfnt.SegmentOpLineTo:
				c.lineTo(f26(a[0].X), f26(a[0].Y))
			case sfnt.SegmentOpQuadTo:
				c.quadTo(f26(a[0].X), f26(a[0].Y), f26(a[1].X), f26(a[1].Y))
			case sfnt.SegmentOpCubeTo:
				c.cubeTo(f26(a[0].X), f26(a[0].Y), f26(a[1].X), f26(a[1].Y), f26(a[2].X), f26(a[2].Y))
			}
		}
		adv, e := f.SFNT.GlyphAdvance(&c.buf, gi, units, xfont.HintingNone)
		if e == nil {
			x += float64(adv) / 64
		}
		prev = gi
	}
	c.fill(col)
	return err
}

func f26(x fixed.Int26_6) float64 {
	return float64(x) / 64
}

// --- Compositing -----------------------------------------------------------

// Erase removes ink wherever mask has coverage, within the clip.
func (c *Canvas) Erase(mask *image.Alpha) {
	r := c.clip.Intersect(mask.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			a := uint32(mask.AlphaAt(x, y).A)
			if a == 0 {
				continue
			}
			i := c.img.PixOffset(x, y)
			for k := 0; k < 4; k++ {
				c.img.Pix[i+k] = uint8(uint32(c.img.Pix[i+k]) * (255 - a) / 255)
			}
		}
	}
}

// Composite draws src over the canvas, within the clip.
func (c *Canvas) Composite(src *image.RGBA) {
	draw.Draw(c.img, c.clip, src, c.clip.Min, draw.Over)
}

// Scaled returns a resampled copy of img, e.g. for previews.
func Scaled(img *image.RGBA, factor float64) *image.RGBA {
	if factor <= 0 || factor == 1 {
		return img
	}
	w := int(math.Max(1, math.Round(float64(img.Bounds().Dx())*factor)))
	h := int(math.Max(1, math.Round(float64(img.Bounds().Dy())*factor)))
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	tracer().Debugf("scaled image to %dx%d", w, h)
	return dst
}
