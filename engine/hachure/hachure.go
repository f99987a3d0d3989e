/*
Package hachure collects shading requests and draws them as diagonal hatching.

Shaded areas are rectangles in device space. Each one is covered with 45°
lines of a single family: rising to the north-east or to the north-west. Lines
are spaced a fixed distance apart and identified by their axis intercept, so
segments of adjacent rectangles lying on the same line are merged into one
stroke before drawing. This avoids the visible dashes at rectangle borders that
stroking each rectangle separately would produce.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package hachure

import (
	"image/color"
	"math"
	"sort"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/npillmayer/hieroset/backend/gfx"
	"github.com/npillmayer/hieroset/core/dimen"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'hieroset.typeset'.
func tracer() tracing.Trace {
	return tracing.Select("hieroset.typeset")
}

// Direction of the hatching lines.
const (
	NorthEast = "ne" // lines rise to the right
	NorthWest = "nw" // lines rise to the left
)

// Flip returns the direction seen in a mirror.
func Flip(dir string) string {
	if dir == NorthWest {
		return NorthEast
	}
	return NorthWest
}

// Plan is a collection of shaded areas.
type Plan struct {
	dir     string
	step    float64 // distance of intercepts of neighbouring lines
	width   float64
	tol     float64
	buckets *treemap.Map // intercept index → []span
	areas   int
}

// span is a segment of a hatching line, given by its x-extent.
type span struct {
	x0, x1 float64
}

// Line is a stroke of the hatching.
type Line struct {
	From, To dimen.Point
}

// NewPlan creates an empty plan. sep is the distance between lines, width the
// stroke width, tol the gap between segments on the same line which is still
// bridged, all in pixels.
func NewPlan(dir string, sep, width, tol float64) *Plan {
	if dir != NorthWest {
		dir = NorthEast
	}
	if sep <= 0 {
		sep = 1
	}
	return &Plan{
		dir:     dir,
		step:    sep * math.Sqrt2,
		width:   width,
		tol:     tol,
		buckets: treemap.NewWithIntComparator(),
	}
}

// Direction returns the direction of the hatching lines.
func (p *Plan) Direction() string {
	return p.dir
}

// IsEmpty is true if nothing is to be shaded.
func (p *Plan) IsEmpty() bool {
	return p.buckets.Empty()
}

// Areas returns the number of rectangles added.
func (p *Plan) Areas() int {
	return p.areas
}

// Add requests shading of rectangle r.
func (p *Plan) Add(r dimen.Rect) {
	if r.IsEmpty() {
		return
	}
	p.areas++
	// ne: y = c - x, c ranges over x+y; nw: y = x - c, c ranges over x-y
	var cmin, cmax float64
	if p.dir == NorthEast {
		cmin, cmax = r.X+r.Y, r.Right()+r.Bottom()
	} else {
		cmin, cmax = r.X-r.Bottom(), r.Right()-r.Y
	}
	for k := int(math.Ceil(cmin / p.step)); float64(k)*p.step <= cmax; k++ {
		c := float64(k) * p.step
		var x0, x1 float64
		if p.dir == NorthEast {
			x0, x1 = math.Max(r.X, c-r.Bottom()), math.Min(r.Right(), c-r.Y)
		} else {
			x0, x1 = math.Max(r.X, c+r.Y), math.Min(r.Right(), c+r.Bottom())
		}
		if x1 <= x0 {
			continue
		}
		var spans []span
		if v, found := p.buckets.Get(k); found {
			spans = v.([]span)
		}
		p.buckets.Put(k, append(spans, span{x0, x1}))
	}
}

// Lines returns the merged strokes, ordered by intercept.
func (p *Plan) Lines() []Line {
	var lines []Line
	it := p.buckets.Iterator()
	for it.Next() {
		c := float64(it.Key().(int)) * p.step
		for _, s := range merge(it.Value().([]span), p.tol) {
			lines = append(lines, Line{From: p.point(c, s.x0), To: p.point(c, s.x1)})
		}
	}
	return lines
}

func (p *Plan) point(c, x float64) dimen.Point {
	if p.dir == NorthEast {
		return dimen.Point{X: x, Y: c - x}
	}
	return dimen.Point{X: x, Y: x - c}
}

func merge(spans []span, tol float64) []span {
	sort.Slice(spans, func(i, j int) bool { return spans[i].x0 < spans[j].x0 })
	var merged []span
	for _, s := range spans {
		if n := len(merged); n > 0 && s.x0 <= merged[n-1].x1+tol {
			merged[n-1].x1 = math.Max(merged[n-1].x1, s.x1)
			continue
		}
		merged = append(merged, s)
	}
	return merged
}

// Draw strokes the plan onto a surface, in device coordinates.
func (p *Plan) Draw(s gfx.Surface, col color.Color) {
	lines := p.Lines()
	tracer().Debugf("shading %d areas with %d lines", p.areas, len(lines))
	for _, l := range lines {
		s.StrokeLine(l.From, l.To, p.width, gfx.Identity, col)
	}
}
