// Package dimen implements the geometry primitives of the typesetter: points,
// sizes and rectangles.
//
// Sizes of groups are measured in units (1 unit = 1 em of the hieroglyphic font),
// positions on a raster surface are measured in pixels. Both use float64; conversion
// between them is the business of the formatter.
//
/*
BSD License

Copyright (c) 2017–21, Norbert Pillmayer (norbert@pillmayer.com)

All rights reserved.

Redistribution and use in source and binary forms, with or without
modification, are permitted provided that the following conditions
are met:

1. Redistributions of source code must retain the above copyright
notice, this list of conditions and the following disclaimer.

2. Redistributions in binary form must reproduce the above copyright
notice, this list of conditions and the following disclaimer in the
documentation and/or other materials provided with the distribution.

3. Neither the name of this software nor the names of its contributors
may be used to endorse or promote products derived from this software
without specific prior written permission.

THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS
"AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT
LIMITED TO, THE IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR
A PARTICULAR PURPOSE ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT
HOLDER OR CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL,
SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT
LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR SERVICES; LOSS OF USE,
DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER CAUSED AND ON ANY
THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT
(INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.  */
package dimen

import (
	"fmt"
	"image"
	"math"
)

// Infinity is used for unconstrained sizes.
var Infinity = math.Inf(1)

// Side denotes one of the four sides of a rectangle.
// 4-way values always start at the top and travel clockwise.
type Side int8

// Sides of a rectangle.
const (
	Top Side = iota
	Right
	Bottom
	Left
)

func (s Side) String() string {
	switch s {
	case Top:
		return "top"
	case Right:
		return "right"
	case Bottom:
		return "bottom"
	case Left:
		return "left"
	}
	return "?"
}

// Opposite returns the side across from s.
func (s Side) Opposite() Side {
	return (s + 2) % 4
}

// IsVertical is true for the left and right side.
func (s Side) IsVertical() bool {
	return s == Left || s == Right
}

// Point is a point on a surface.
type Point struct {
	X, Y float64
}

// Origin is origin
var Origin = Point{0, 0}

// Shift returns p moved along a vector.
func (p Point) Shift(vector Point) Point {
	return Point{p.X + vector.X, p.Y + vector.Y}
}

func (p Point) String() string {
	return fmt.Sprintf("(%.2f,%.2f)", p.X, p.Y)
}

// --- Sizes -----------------------------------------------------------------

// Size is the extent of a group, usually in units.
type Size struct {
	W, H float64
}

// Scale returns the size multiplied by f.
func (sz Size) Scale(f float64) Size {
	return Size{sz.W * f, sz.H * f}
}

// Main returns the extent along the main axis, i.e. the width for horizontal
// layout and the height otherwise.
func (sz Size) Main(horizontal bool) float64 {
	if horizontal {
		return sz.W
	}
	return sz.H
}

// Cross returns the extent along the cross axis.
func (sz Size) Cross(horizontal bool) float64 {
	if horizontal {
		return sz.H
	}
	return sz.W
}

// Oriented builds a size from extents along main and cross axis.
func Oriented(horizontal bool, main, cross float64) Size {
	if horizontal {
		return Size{main, cross}
	}
	return Size{cross, main}
}

func (sz Size) String() string {
	return fmt.Sprintf("%.3fx%.3f", sz.W, sz.H)
}

// --- Rectangles ------------------------------------------------------------

// Rect is an axis-parallel rectangle with its top-left corner at (X,Y).
type Rect struct {
	X, Y, W, H float64
}

// R is a shortcut for a rectangle literal.
func R(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// RectAt creates a rectangle of a given size at position p.
func RectAt(p Point, sz Size) Rect {
	return Rect{p.X, p.Y, sz.W, sz.H}
}

// FromImageRect converts an integer rectangle.
func FromImageRect(r image.Rectangle) Rect {
	return Rect{float64(r.Min.X), float64(r.Min.Y), float64(r.Dx()), float64(r.Dy())}
}

func (r Rect) String() string {
	return fmt.Sprintf("[%.2f,%.2f %.2fx%.2f]", r.X, r.Y, r.W, r.H)
}

// Right is the x-coordinate of the right edge.
func (r Rect) Right() float64 {
	return r.X + r.W
}

// Bottom is the y-coordinate of the bottom edge.
func (r Rect) Bottom() float64 {
	return r.Y + r.H
}

// TopLeft returns the top-left corner.
func (r Rect) TopLeft() Point {
	return Point{r.X, r.Y}
}

// Size returns the extent of r.
func (r Rect) Size() Size {
	return Size{r.W, r.H}
}

// Center returns the center point of r.
func (r Rect) Center() Point {
	return Point{r.X + r.W/2, r.Y + r.H/2}
}

// IsEmpty is true for rectangles without area.
func (r Rect) IsEmpty() bool {
	return r.W <= 0 || r.H <= 0
}

// Shift moves r by (dx,dy).
func (r Rect) Shift(dx, dy float64) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// Grow enlarges r by d on every side. Negative values shrink it.
func (r Rect) Grow(d float64) Rect {
	return Rect{r.X - d, r.Y - d, r.W + 2*d, r.H + 2*d}
}

// Intersect returns the largest rectangle contained in both r and o.
// If there is no overlap, an empty rectangle at r's position is returned.
func (r Rect) Intersect(o Rect) Rect {
	x0 := math.Max(r.X, o.X)
	y0 := math.Max(r.Y, o.Y)
	x1 := math.Min(r.Right(), o.Right())
	y1 := math.Min(r.Bottom(), o.Bottom())
	if x1 <= x0 || y1 <= y0 {
		return Rect{X: r.X, Y: r.Y}
	}
	return Rect{x0, y0, x1 - x0, y1 - y0}
}

// Union returns the smallest rectangle containing both r and o. Empty
// rectangles do not contribute.
func (r Rect) Union(o Rect) Rect {
	if r.IsEmpty() {
		return o
	}
	if o.IsEmpty() {
		return r
	}
	x0 := math.Min(r.X, o.X)
	y0 := math.Min(r.Y, o.Y)
	x1 := math.Max(r.Right(), o.Right())
	y1 := math.Max(r.Bottom(), o.Bottom())
	return Rect{x0, y0, x1 - x0, y1 - y0}
}

// Contains is true if o lies completely inside r. A tolerance eps is allowed
// on every side.
func (r Rect) Contains(o Rect, eps float64) bool {
	return o.X >= r.X-eps && o.Y >= r.Y-eps &&
		o.Right() <= r.Right()+eps && o.Bottom() <= r.Bottom()+eps
}

// Chop returns the half of r adjacent to side s.
func (r Rect) Chop(s Side) Rect {
	return r.ChopFrac(s, 0.5)
}

// ChopFrac returns the part of r adjacent to side s, with fraction f of the
// original extent perpendicular to s.
func (r Rect) ChopFrac(s Side, f float64) Rect {
	switch s {
	case Top:
		return Rect{r.X, r.Y, r.W, r.H * f}
	case Bottom:
		return Rect{r.X, r.Y + r.H*(1-f), r.W, r.H * f}
	case Left:
		return Rect{r.X, r.Y, r.W * f, r.H}
	case Right:
		return Rect{r.X + r.W*(1-f), r.Y, r.W * f, r.H}
	}
	return r
}

// Mirror reflects r horizontally within a band of width w, i.e. maps x to w-x.
func (r Rect) Mirror(w float64) Rect {
	return Rect{w - r.Right(), r.Y, r.W, r.H}
}

// Main returns the extent along the main axis.
func (r Rect) Main(horizontal bool) float64 {
	return r.Size().Main(horizontal)
}

// Cross returns the extent along the cross axis.
func (r Rect) Cross(horizontal bool) float64 {
	return r.Size().Cross(horizontal)
}

// Pixels returns the smallest integer rectangle covering r.
func (r Rect) Pixels() image.Rectangle {
	return image.Rect(
		int(math.Floor(r.X)), int(math.Floor(r.Y)),
		int(math.Ceil(r.Right())), int(math.Ceil(r.Bottom())),
	)
}

// Round returns an integer rectangle with rounded corners coordinates.
func (r Rect) Round() image.Rectangle {
	return image.Rect(
		int(math.Round(r.X)), int(math.Round(r.Y)),
		int(math.Round(r.Right())), int(math.Round(r.Bottom())),
	)
}
