package glyphtree

import (
	"fmt"
	"math"
	"strings"

	"github.com/npillmayer/hieroset/core/option"
)

// Group is a node of the attribute tree. The set of implementations is closed:
// clients dispatch with a type switch over the pointer types of this package.
type Group interface {
	fmt.Stringer
	isGroup()
}

// Note is an annotation label attached to a glyph or box.
type Note struct {
	Text  string
	Color option.Value[string]
}

// --- Leaves ----------------------------------------------------------------

// NamedGlyph is a single sign.
type NamedGlyph struct {
	Name     string // catalog name or mnemonic
	Rotate   float64
	Mirror   option.Value[bool]
	Scale    float64
	XScale   float64
	YScale   float64
	Color    option.Value[string]
	Shade    option.Value[bool]
	Shades   []string // shading patterns, e.g. "ts" for the top start quarter
	Notes    []Note
	Trailing Switch
}

// NewNamedGlyph creates a glyph with neutral attributes.
func NewNamedGlyph(name string) *NamedGlyph {
	return &NamedGlyph{Name: name, Scale: 1, XScale: 1, YScale: 1}
}

func (g *NamedGlyph) isGroup() {}

func (g *NamedGlyph) String() string {
	return g.Name
}

// EmptyGlyph is an invisible placeholder. Width and height are in units.
type EmptyGlyph struct {
	Width, Height float64
	Firm          bool // draw the outline
	Shade         option.Value[bool]
	Shades        []string
	Notes         []Note
	Trailing      Switch
}

// NewEmptyGlyph creates a placeholder of size w×h.
func NewEmptyGlyph(w, h float64) *EmptyGlyph {
	return &EmptyGlyph{Width: w, Height: h}
}

func (e *EmptyGlyph) isGroup() {}

func (e *EmptyGlyph) String() string {
	return fmt.Sprintf("empty[%g,%g]", e.Width, e.Height)
}

// --- Composites ------------------------------------------------------------

// Box surrounds an optional inner Hieroglyphic with an open, a segment and a
// close part. Part glyphs are taken from the catalog by BoxPartName.
type Box struct {
	Type        string // cartouche, oval, serekh, inb, rectangle, Hwt, …
	Orientation string // "h", "v", or empty for the orientation of the text
	Mirror      option.Value[bool]
	Scale       float64
	Color       option.Value[string]
	Shade       option.Value[bool]
	Shades      []string
	Size        float64 // unit size of the inner content, relative
	OpenSep     float64
	CloseSep    float64
	UnderSep    float64
	OverSep     float64
	Inner       *Hieroglyphic
	Notes       []Note
	Leading     Switch // after the opening bracket
	Trailing    Switch
}

// NewBox creates a box with neutral attributes.
func NewBox(typ string, inner *Hieroglyphic) *Box {
	return &Box{Type: typ, Scale: 1, Size: 1, OpenSep: 1, CloseSep: 1, UnderSep: 1, OverSep: 1,
		Inner: inner}
}

func (b *Box) isGroup() {}

func (b *Box) String() string {
	if b.Inner == nil {
		return b.Type + "()"
	}
	return b.Type + "(" + b.Inner.String() + ")"
}

// IsHorizontal tells the orientation of the box within text of direction d.
func (b *Box) IsHorizontal(d Direction) bool {
	switch b.Orientation {
	case "h":
		return true
	case "v":
		return false
	}
	return d.IsHorizontal()
}

// IsEmpty is true for boxes without inner groups.
func (b *Box) IsEmpty() bool {
	return b.Inner == nil || len(b.Inner.Groups) == 0
}

// BoxPartName is the catalog name of a box part: "open", "segment" or "close".
func BoxPartName(typ, part string, horizontal bool) string {
	if horizontal {
		return typ + "." + part + ".h"
	}
	return typ + "." + part + ".v"
}

// Stack overlays two groups. G1 is centered in the stack, G2 is centered at
// fractions X,Y of the stack's extent.
type Stack struct {
	X, Y    float64
	OnUnder string // "on": G1 occludes G2, "under": G2 occludes G1
	G1, G2  Group
}

// NewStack creates a stack with both groups centered.
func NewStack(g1, g2 Group) *Stack {
	return &Stack{X: 0.5, Y: 0.5, G1: g1, G2: g2}
}

func (s *Stack) isGroup() {}

func (s *Stack) String() string {
	return fmt.Sprintf("stack(%s,%s)", s.G1, s.G2)
}

// Insert places the secondary group G2 into the primary group G1.
type Insert struct {
	Place  string // t, b, s, e, ts, te, bs, be; empty for floating
	X, Y   float64
	Fix    bool // keep the anchor, search for the scale only
	Sep    option.Value[float64]
	G1, G2 Group
}

// NewInsert creates a floating insert.
func NewInsert(g1, g2 Group) *Insert {
	return &Insert{X: 0.5, Y: 0.5, G1: g1, G2: g2}
}

func (ins *Insert) isGroup() {}

func (ins *Insert) String() string {
	return fmt.Sprintf("insert[%s](%s,%s)", ins.Place, ins.G1, ins.G2)
}

// Modify overrides the extent of a group and pads it.
type Modify struct {
	Width, Height option.Value[float64] // in units
	Before, After float64               // padding, as shares of the width
	Above, Below  float64               // padding, as shares of the height
	Omit          bool                  // clip ink outside of the padded cell
	Shade         option.Value[bool]
	Shades        []string
	Group         Group
}

// NewModify wraps a group without changes.
func NewModify(g Group) *Modify {
	return &Modify{Group: g}
}

func (m *Modify) isGroup() {}

func (m *Modify) String() string {
	return fmt.Sprintf("modify(%s)", m.Group)
}

// Subgroup is an element of a horizontal or vertical group, together with the
// switches written around it.
type Subgroup struct {
	Leading  Switch
	Group    Group
	Trailing Switch
}

// HorizontalGroup sets its groups side by side. Ops has one element less than
// Groups.
type HorizontalGroup struct {
	Groups []Subgroup
	Ops    []*Op
}

func (h *HorizontalGroup) isGroup() {}

func (h *HorizontalGroup) String() string {
	return joinSubgroups(h.Groups, "*", func(g Group) bool {
		_, ok := g.(*VerticalGroup)
		return ok
	})
}

// VerticalGroup sets its groups on top of each other. Ops has one element less
// than Groups.
type VerticalGroup struct {
	Groups []Subgroup
	Ops    []*Op
}

func (v *VerticalGroup) isGroup() {}

func (v *VerticalGroup) String() string {
	return joinSubgroups(v.Groups, ":", func(g Group) bool {
		_, ok := g.(*HorizontalGroup)
		return ok
	})
}

func joinSubgroups(subs []Subgroup, sep string, parens func(Group) bool) string {
	parts := make([]string, len(subs))
	for i, s := range subs {
		if parens(s.Group) {
			parts[i] = "(" + s.Group.String() + ")"
		} else {
			parts[i] = s.Group.String()
		}
	}
	return strings.Join(parts, sep)
}

// Op is the separator between two groups.
type Op struct {
	Sep    option.Value[float64] // separation factor
	Fit    option.Value[bool]
	Fix    bool // never fit
	Shade  option.Value[bool]
	Shades []string
	Size   option.Value[float64] // on the first op only: unit size constraint, may be +Inf
	Switch Switch                // written after the op
}

// IsUnconstrained is true if Size is set to infinity.
func (op *Op) IsUnconstrained() bool {
	return op != nil && op.Size.IsSome() && math.IsInf(op.Size.Unwrap(), 1)
}

// --- Sequences -------------------------------------------------------------

// Hieroglyphic is a sequence of groups separated by ops. Switches[i] is written
// after Groups[i]; Ops has one element less than Groups.
type Hieroglyphic struct {
	Groups   []Group
	Ops      []*Op
	Switches []Switch
}

// NewHieroglyphic creates a sequence of groups with default ops between them.
func NewHieroglyphic(groups ...Group) *Hieroglyphic {
	h := &Hieroglyphic{Groups: groups, Switches: make([]Switch, len(groups))}
	for i := 1; i < len(groups); i++ {
		h.Ops = append(h.Ops, &Op{})
	}
	return h
}

func (h *Hieroglyphic) String() string {
	parts := make([]string, len(h.Groups))
	for i, g := range h.Groups {
		parts[i] = g.String()
	}
	return strings.Join(parts, "-")
}

// Fragment is the root of a line or column of text.
type Fragment struct {
	Direction Direction
	Size      float64
	Switch    Switch
	Hiero     *Hieroglyphic // may be nil
}

// NewFragment creates a fragment of default direction and size.
func NewFragment(h *Hieroglyphic) *Fragment {
	return &Fragment{Direction: HLR, Size: 1, Hiero: h}
}

// Globals returns the Globals at the root of the fragment.
func (f *Fragment) Globals() Globals {
	g := DefaultGlobals()
	g.Direction = f.Direction
	if f.Size > 0 {
		g.Size = f.Size
	}
	return g.Update(f.Switch)
}

// --- Helpers ---------------------------------------------------------------

// Children returns the direct sub-groups of g, in reading order.
func Children(g Group) []Group {
	switch n := g.(type) {
	case *Box:
		if n.Inner == nil {
			return nil
		}
		return n.Inner.Groups
	case *Stack:
		return []Group{n.G1, n.G2}
	case *Insert:
		return []Group{n.G1, n.G2}
	case *Modify:
		return []Group{n.Group}
	case *HorizontalGroup:
		return subgroupList(n.Groups)
	case *VerticalGroup:
		return subgroupList(n.Groups)
	}
	return nil
}

func subgroupList(subs []Subgroup) []Group {
	gs := make([]Group, len(subs))
	for i, s := range subs {
		gs[i] = s.Group
	}
	return gs
}

// Walk calls visit for g and all its descendants, depth first.
func Walk(g Group, visit func(Group)) {
	if g == nil {
		return
	}
	visit(g)
	for _, c := range Children(g) {
		Walk(c, visit)
	}
}

// NotesOf returns the annotations attached to g.
func NotesOf(g Group) []Note {
	switch n := g.(type) {
	case *NamedGlyph:
		return n.Notes
	case *EmptyGlyph:
		return n.Notes
	case *Box:
		return n.Notes
	}
	return nil
}
