package glyphtree

import (
	"fmt"
	"strings"

	"github.com/npillmayer/hieroset/core"
	"github.com/npillmayer/hieroset/core/option"
)

// Direction is the reading direction of a fragment.
type Direction int8

// Reading directions: horizontal or vertical, left-to-right or right-to-left.
// For vertical text the direction tells the order of columns and the side signs
// face to.
const (
	HLR Direction = iota
	HRL
	VLR
	VRL
)

var directionNames = []string{"hlr", "hrl", "vlr", "vrl"}

func (d Direction) String() string {
	if d < 0 || int(d) >= len(directionNames) {
		return "?"
	}
	return directionNames[d]
}

// ParseDirection reads a direction name (hlr, hrl, vlr, vrl).
func ParseDirection(s string) (Direction, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range directionNames {
		if n == s {
			return Direction(i), nil
		}
	}
	return HLR, core.Error(core.EINVALID, "unknown direction %q", s)
}

// IsHorizontal is true for HLR and HRL.
func (d Direction) IsHorizontal() bool {
	return d == HLR || d == HRL
}

// IsRightToLeft is true for HRL and VRL.
func (d Direction) IsRightToLeft() bool {
	return d == HRL || d == VRL
}

// Rotated returns the direction with the same handedness and the given
// orientation.
func (d Direction) Rotated(horizontal bool) Direction {
	switch {
	case horizontal && d.IsRightToLeft():
		return HRL
	case horizontal:
		return HLR
	case d.IsRightToLeft():
		return VRL
	}
	return VLR
}

// Globals is the inherited rendering context. It is a value type: nodes derive
// new Globals for their descendants and never change their parent's.
type Globals struct {
	Direction Direction
	Size      float64 // unit size, relative to the font size
	Color     string
	Shade     bool
	Sep       float64 // separation factor
	Fit       bool
	Mirror    bool
}

// DefaultGlobals are the Globals at the root of a fragment without header
// attributes.
func DefaultGlobals() Globals {
	return Globals{
		Direction: HLR,
		Size:      1,
		Color:     "black",
		Sep:       1,
	}
}

// Update returns g with the set fields of sw applied.
func (g Globals) Update(sw Switch) Globals {
	g.Color = sw.Color.Or(g.Color)
	g.Shade = sw.Shade.Or(g.Shade)
	g.Sep = sw.Sep.Or(g.Sep)
	g.Fit = sw.Fit.Or(g.Fit)
	g.Mirror = sw.Mirror.Or(g.Mirror)
	return g
}

func (g Globals) String() string {
	return fmt.Sprintf("{%s size=%g color=%s shade=%v sep=%g fit=%v mirror=%v}",
		g.Direction, g.Size, g.Color, g.Shade, g.Sep, g.Fit, g.Mirror)
}

// Switch is a sparse override of Globals, written at a position in the text.
// The zero value is the identity.
type Switch struct {
	Color  option.Value[string]
	Shade  option.Value[bool]
	Sep    option.Value[float64]
	Fit    option.Value[bool]
	Mirror option.Value[bool]
}

// IsIdentity is true if no field is set.
func (sw Switch) IsIdentity() bool {
	return sw.Color.IsNone() && sw.Shade.IsNone() && sw.Sep.IsNone() &&
		sw.Fit.IsNone() && sw.Mirror.IsNone()
}

// Join combines sw with a switch written later: set fields of later win.
func (sw Switch) Join(later Switch) Switch {
	return Switch{
		Color:  sw.Color.Join(later.Color),
		Shade:  sw.Shade.Join(later.Shade),
		Sep:    sw.Sep.Join(later.Sep),
		Fit:    sw.Fit.Join(later.Fit),
		Mirror: sw.Mirror.Join(later.Mirror),
	}
}

func (sw Switch) String() string {
	if sw.IsIdentity() {
		return "!"
	}
	var b strings.Builder
	b.WriteString("!")
	add := func(k string, v interface {
		fmt.Stringer
		IsSome() bool
	}) {
		if v.IsSome() {
			fmt.Fprintf(&b, "%s=%s,", k, v)
		}
	}
	add("color", sw.Color)
	add("shade", sw.Shade)
	add("sep", sw.Sep)
	add("fit", sw.Fit)
	add("mirror", sw.Mirror)
	return strings.TrimSuffix(b.String(), ",")
}
