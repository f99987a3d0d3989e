package restree

// Document is the JSON form of a glyphtree.Fragment.
type Document struct {
	Direction string  `json:"direction,omitempty"`
	Size      float64 `json:"size,omitempty"`
	Switch    *Switch `json:"switch,omitempty"`
	Hiero     *Hiero  `json:"hiero,omitempty"`
}

// Hiero is a sequence of groups. Ops may be omitted for default operators;
// otherwise there is one operator less than groups. Switches[i] follows
// Groups[i].
type Hiero struct {
	Groups   []*Node   `json:"groups"`
	Ops      []*Op     `json:"ops,omitempty"`
	Switches []*Switch `json:"switches,omitempty"`
}

// Node is a group of any type. Which fields apply depends on Type.
type Node struct {
	Type string `json:"type"`

	// glyph
	Name   string   `json:"name,omitempty"`
	Rotate float64  `json:"rotate,omitempty"`
	XScale *float64 `json:"xscale,omitempty"`
	YScale *float64 `json:"yscale,omitempty"`

	// glyph, box
	Mirror *bool    `json:"mirror,omitempty"`
	Scale  *float64 `json:"scale,omitempty"`
	Color  *string  `json:"color,omitempty"`

	// glyph, empty, box, modify
	Shade  *bool    `json:"shade,omitempty"`
	Shades []string `json:"shades,omitempty"`

	// glyph, empty, box
	Notes    []Note  `json:"notes,omitempty"`
	Trailing *Switch `json:"trailing,omitempty"`

	// empty, modify
	Width  *float64 `json:"width,omitempty"`
	Height *float64 `json:"height,omitempty"`
	Firm   bool     `json:"firm,omitempty"`

	// box
	BoxType     string   `json:"boxtype,omitempty"`
	Orientation string   `json:"orientation,omitempty"`
	Size        *float64 `json:"size,omitempty"`
	OpenSep     *float64 `json:"opensep,omitempty"`
	CloseSep    *float64 `json:"closesep,omitempty"`
	UnderSep    *float64 `json:"undersep,omitempty"`
	OverSep     *float64 `json:"oversep,omitempty"`
	Leading     *Switch  `json:"leading,omitempty"`
	Inner       *Hiero   `json:"inner,omitempty"`

	// stack, insert
	X  *float64 `json:"x,omitempty"`
	Y  *float64 `json:"y,omitempty"`
	G1 *Node    `json:"g1,omitempty"`
	G2 *Node    `json:"g2,omitempty"`

	// stack
	OnUnder string `json:"onunder,omitempty"`

	// insert
	Place string   `json:"place,omitempty"`
	Fix   bool     `json:"fix,omitempty"`
	Sep   *float64 `json:"sep,omitempty"`

	// modify
	Before float64 `json:"before,omitempty"`
	After  float64 `json:"after,omitempty"`
	Above  float64 `json:"above,omitempty"`
	Below  float64 `json:"below,omitempty"`
	Omit   bool    `json:"omit,omitempty"`
	Group  *Node   `json:"group,omitempty"`

	// hor, vert
	Groups []*Subgroup `json:"groups,omitempty"`
	Ops    []*Op       `json:"ops,omitempty"`
}

// Subgroup is an element of a hor or vert group.
type Subgroup struct {
	Leading  *Switch `json:"leading,omitempty"`
	Group    *Node   `json:"group"`
	Trailing *Switch `json:"trailing,omitempty"`
}

// Op is an operator between two groups. Size is a unit size constraint, only
// meaningful on the first operator of a sequence; Unconstrained lifts the
// constraint altogether.
type Op struct {
	Sep           *float64 `json:"sep,omitempty"`
	Fit           *bool    `json:"fit,omitempty"`
	Fix           bool     `json:"fix,omitempty"`
	Shade         *bool    `json:"shade,omitempty"`
	Shades        []string `json:"shades,omitempty"`
	Size          *float64 `json:"size,omitempty"`
	Unconstrained bool     `json:"unconstrained,omitempty"`
	Switch        *Switch  `json:"switch,omitempty"`
}

// Switch is a sparse override of inherited attributes.
type Switch struct {
	Color  *string  `json:"color,omitempty"`
	Shade  *bool    `json:"shade,omitempty"`
	Sep    *float64 `json:"sep,omitempty"`
	Fit    *bool    `json:"fit,omitempty"`
	Mirror *bool    `json:"mirror,omitempty"`
}

// Note is an annotation label.
type Note struct {
	Text  string  `json:"text"`
	Color *string `json:"color,omitempty"`
}

// Node types.
const (
	TypeGlyph  = "glyph"
	TypeEmpty  = "empty"
	TypeBox    = "box"
	TypeStack  = "stack"
	TypeInsert = "insert"
	TypeModify = "modify"
	TypeHor    = "hor"
	TypeVert   = "vert"
)
