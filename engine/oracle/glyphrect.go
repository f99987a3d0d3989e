package oracle

import (
	"image"
	"math"

	"github.com/npillmayer/hieroset/backend/gfx"
	"github.com/npillmayer/hieroset/core/dimen"
)

// Drawer draws a shape onto a surface, with the shape's logical origin placed
// at device position origin.
type Drawer func(s gfx.Surface, origin dimen.Point) error

// GlyphRect discovers the ink rectangle of a shape relative to its logical origin.
//
// The shape is drawn onto a temporary surface with margins around an estimated
// extent est. As long as any border row or column of the surface shows ink, the
// margins are doubled and the shape is drawn again, at most tries times. If the
// limit is reached, the ink found in the last attempt is reported.
// A shape without ink has an empty rectangle.
func GlyphRect(factory gfx.Factory, est dimen.Size, tries int, draw Drawer) (dimen.Rect, error) {
	margin := math.Max(math.Max(est.W, est.H)/2, 4)
	var ink image.Rectangle
	var m float64
	for i := 0; i < tries || i == 0; i++ {
		m = math.Ceil(margin)
		w := int(math.Ceil(math.Max(est.W, 1) + 2*m))
		h := int(math.Ceil(math.Max(est.H, 1) + 2*m))
		s := factory(w, h)
		if err := draw(s, dimen.Point{X: m, Y: m}); err != nil {
			return dimen.Rect{}, err
		}
		img := s.Image()
		ink = InkBounds(img, img.Rect)
		if ink.Empty() {
			return dimen.Rect{}, nil
		}
		if ink.Min.X > img.Rect.Min.X && ink.Min.Y > img.Rect.Min.Y &&
			ink.Max.X < img.Rect.Max.X && ink.Max.Y < img.Rect.Max.Y {
			break
		}
		tracer().Debugf("ink touches border with margin %.0f, retrying", m)
		margin *= 2
	}
	return dimen.FromImageRect(ink).Shift(-m, -m), nil
}
