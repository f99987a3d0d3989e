package restree

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/npillmayer/hieroset/core"
	"github.com/npillmayer/hieroset/core/option"
	"github.com/npillmayer/hieroset/engine/glyphtree"
)

// ReadFile decodes the JSON tree in file path.
func ReadFile(path string) (*glyphtree.Fragment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, core.WrapError(err, core.EMISSING, "cannot open tree file %s", path)
	}
	defer f.Close()
	return Read(f)
}

// Read decodes a JSON tree from r. Unknown fields are rejected.
func Read(r io.Reader) (*glyphtree.Fragment, error) {
	var doc Document
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, core.WrapError(err, core.EINVALID, "cannot decode tree: %v", err)
	}
	return Decode(&doc)
}

// Decode converts a document to a fragment, validating its attributes. All
// violations are reported, joined into one error; the fragment is nil in this
// case.
func Decode(doc *Document) (*glyphtree.Fragment, error) {
	if doc == nil {
		return nil, core.Error(core.EINVALID, "no document")
	}
	d := &decoder{}
	frag := glyphtree.NewFragment(nil)
	if doc.Direction != "" {
		dir, err := glyphtree.ParseDirection(doc.Direction)
		if err != nil {
			d.invalid("unknown direction %q", doc.Direction)
		}
		frag.Direction = dir
	}
	if doc.Size < 0 || math.IsNaN(doc.Size) {
		d.invalid("size must not be negative, is %g", doc.Size)
	} else if doc.Size > 0 {
		frag.Size = doc.Size
	}
	frag.Switch = d.switchOf(doc.Switch)
	if doc.Hiero != nil {
		d.in("hiero", func() {
			frag.Hiero = d.hiero(doc.Hiero)
		})
	}
	if len(d.errs) > 0 {
		return nil, errors.Join(d.errs...)
	}
	tracer().Debugf("decoded tree %s", frag.Hiero)
	return frag, nil
}

// decoder keeps track of the position within the document and collects
// violations.
type decoder struct {
	path []string
	errs []error
}

func (d *decoder) in(elem string, fn func()) {
	d.path = append(d.path, elem)
	fn()
	d.path = d.path[:len(d.path)-1]
}

func (d *decoder) invalid(format string, v ...interface{}) {
	where := strings.Join(d.path, ".")
	if where == "" {
		where = "document"
	}
	err := core.Error(core.EINVALID, "%s: %s", where, fmt.Sprintf(format, v...))
	tracer().Infof("%v", err)
	d.errs = append(d.errs, err)
}

// --- Sequences -------------------------------------------------------------

func (d *decoder) hiero(h *Hiero) *glyphtree.Hieroglyphic {
	out := &glyphtree.Hieroglyphic{}
	for i, n := range h.Groups {
		d.in(fmt.Sprintf("groups[%d]", i), func() {
			if g := d.group(n); g != nil {
				out.Groups = append(out.Groups, g)
			}
		})
	}
	out.Ops = d.ops(h.Ops, len(h.Groups))
	switch len(h.Switches) {
	case 0:
		out.Switches = make([]glyphtree.Switch, len(h.Groups))
	case len(h.Groups):
		for _, sw := range h.Switches {
			out.Switches = append(out.Switches, d.switchOf(sw))
		}
	default:
		d.invalid("%d switches for %d groups", len(h.Switches), len(h.Groups))
	}
	return out
}

// ops converts the operators of a sequence of n groups. No operators at all
// stand for default operators.
func (d *decoder) ops(ops []*Op, n int) []*glyphtree.Op {
	var out []*glyphtree.Op
	if len(ops) == 0 {
		for i := 1; i < n; i++ {
			out = append(out, &glyphtree.Op{})
		}
		return out
	}
	if len(ops) != n-1 {
		d.invalid("%d operators for %d groups", len(ops), n)
	}
	for i, op := range ops {
		d.in(fmt.Sprintf("ops[%d]", i), func() {
			out = append(out, d.op(op, i == 0))
		})
	}
	return out
}

func (d *decoder) op(op *Op, first bool) *glyphtree.Op {
	if op == nil {
		return &glyphtree.Op{}
	}
	out := &glyphtree.Op{
		Sep:    d.nonNegative("sep", op.Sep),
		Fit:    opt(op.Fit),
		Fix:    op.Fix,
		Shade:  opt(op.Shade),
		Shades: d.shades(op.Shades),
		Switch: d.switchOf(op.Switch),
	}
	if (op.Size != nil || op.Unconstrained) && !first {
		d.invalid("size constraint on an operator other than the first")
	}
	switch {
	case op.Unconstrained && op.Size != nil:
		d.invalid("operator is both constrained and unconstrained")
	case op.Unconstrained:
		out.Size = option.Some(math.Inf(1))
	case op.Size != nil:
		if *op.Size <= 0 {
			d.invalid("size must be positive, is %g", *op.Size)
		}
		out.Size = opt(op.Size)
	}
	return out
}

// --- Groups ----------------------------------------------------------------

func (d *decoder) group(n *Node) glyphtree.Group {
	if n == nil {
		d.invalid("missing group")
		return nil
	}
	switch n.Type {
	case TypeGlyph:
		return d.glyph(n)
	case TypeEmpty:
		e := glyphtree.NewEmptyGlyph(d.length("width", n.Width, 1), d.length("height", n.Height, 1))
		e.Firm = n.Firm
		e.Shade, e.Shades = opt(n.Shade), d.shades(n.Shades)
		e.Notes = d.notes(n.Notes)
		e.Trailing = d.switchOf(n.Trailing)
		return e
	case TypeBox:
		return d.box(n)
	case TypeStack:
		st := glyphtree.NewStack(d.child("g1", n.G1), d.child("g2", n.G2))
		st.X, st.Y = d.fraction("x", n.X, st.X), d.fraction("y", n.Y, st.Y)
		switch n.OnUnder {
		case "", "on", "under":
			st.OnUnder = n.OnUnder
		default:
			d.invalid("onunder must be on or under, is %q", n.OnUnder)
		}
		return st
	case TypeInsert:
		ins := glyphtree.NewInsert(d.child("g1", n.G1), d.child("g2", n.G2))
		ins.X, ins.Y = d.fraction("x", n.X, ins.X), d.fraction("y", n.Y, ins.Y)
		ins.Fix = n.Fix
		ins.Sep = d.nonNegative("sep", n.Sep)
		switch n.Place {
		case "", "t", "b", "s", "e", "ts", "te", "bs", "be":
			ins.Place = n.Place
		default:
			d.invalid("unknown insert place %q", n.Place)
		}
		return ins
	case TypeModify:
		m := glyphtree.NewModify(d.child("group", n.Group))
		m.Width, m.Height = d.nonNegative("width", n.Width), d.nonNegative("height", n.Height)
		m.Before, m.After = d.padding("before", n.Before), d.padding("after", n.After)
		m.Above, m.Below = d.padding("above", n.Above), d.padding("below", n.Below)
		m.Omit = n.Omit
		m.Shade, m.Shades = opt(n.Shade), d.shades(n.Shades)
		return m
	case TypeHor:
		subs := d.subgroups(n.Groups)
		return &glyphtree.HorizontalGroup{Groups: subs, Ops: d.ops(n.Ops, len(subs))}
	case TypeVert:
		subs := d.subgroups(n.Groups)
		return &glyphtree.VerticalGroup{Groups: subs, Ops: d.ops(n.Ops, len(subs))}
	case "":
		d.invalid("group without type")
	default:
		d.invalid("unknown group type %q", n.Type)
	}
	return nil
}

func (d *decoder) glyph(n *Node) *glyphtree.NamedGlyph {
	if strings.TrimSpace(n.Name) == "" {
		d.invalid("glyph without name")
	}
	g := glyphtree.NewNamedGlyph(n.Name)
	g.Rotate = n.Rotate
	g.Mirror = opt(n.Mirror)
	g.Scale = d.positive("scale", n.Scale, 1)
	g.XScale = d.positive("xscale", n.XScale, 1)
	g.YScale = d.positive("yscale", n.YScale, 1)
	g.Color = opt(n.Color)
	g.Shade, g.Shades = opt(n.Shade), d.shades(n.Shades)
	g.Notes = d.notes(n.Notes)
	g.Trailing = d.switchOf(n.Trailing)
	return g
}

func (d *decoder) box(n *Node) *glyphtree.Box {
	if strings.TrimSpace(n.BoxType) == "" {
		d.invalid("box without boxtype")
	}
	b := glyphtree.NewBox(n.BoxType, nil)
	switch n.Orientation {
	case "", "h", "v":
		b.Orientation = n.Orientation
	default:
		d.invalid("box orientation must be h or v, is %q", n.Orientation)
	}
	b.Mirror = opt(n.Mirror)
	b.Scale = d.positive("scale", n.Scale, 1)
	b.Color = opt(n.Color)
	b.Shade, b.Shades = opt(n.Shade), d.shades(n.Shades)
	b.Size = d.positive("size", n.Size, 1)
	b.OpenSep = d.length("opensep", n.OpenSep, 1)
	b.CloseSep = d.length("closesep", n.CloseSep, 1)
	b.UnderSep = d.length("undersep", n.UnderSep, 1)
	b.OverSep = d.length("oversep", n.OverSep, 1)
	b.Notes = d.notes(n.Notes)
	b.Leading = d.switchOf(n.Leading)
	b.Trailing = d.switchOf(n.Trailing)
	if n.Inner != nil {
		d.in("inner", func() {
			b.Inner = d.hiero(n.Inner)
		})
	}
	return b
}

func (d *decoder) child(name string, n *Node) (g glyphtree.Group) {
	d.in(name, func() {
		g = d.group(n)
	})
	return
}

func (d *decoder) subgroups(subs []*Subgroup) []glyphtree.Subgroup {
	if len(subs) == 0 {
		d.invalid("group without elements")
	}
	var out []glyphtree.Subgroup
	for i, s := range subs {
		d.in(fmt.Sprintf("groups[%d]", i), func() {
			if s == nil {
				d.invalid("missing group")
				return
			}
			if g := d.group(s.Group); g != nil {
				out = append(out, glyphtree.Subgroup{
					Leading:  d.switchOf(s.Leading),
					Group:    g,
					Trailing: d.switchOf(s.Trailing),
				})
			}
		})
	}
	return out
}

// --- Attributes ------------------------------------------------------------

func (d *decoder) switchOf(sw *Switch) glyphtree.Switch {
	if sw == nil {
		return glyphtree.Switch{}
	}
	return glyphtree.Switch{
		Color:  opt(sw.Color),
		Shade:  opt(sw.Shade),
		Sep:    d.nonNegative("sep", sw.Sep),
		Fit:    opt(sw.Fit),
		Mirror: opt(sw.Mirror),
	}
}

func (d *decoder) notes(notes []Note) []glyphtree.Note {
	var out []glyphtree.Note
	for _, n := range notes {
		if n.Text == "" {
			d.invalid("empty note")
			continue
		}
		out = append(out, glyphtree.Note{Text: n.Text, Color: opt(n.Color)})
	}
	return out
}

// shades checks shading patterns: letters t, b, s and e, each at most once.
func (d *decoder) shades(pats []string) []string {
	for _, p := range pats {
		if p == "" || len(p) > 4 || strings.Trim(p, "tbse") != "" {
			d.invalid("bad shading pattern %q", p)
			continue
		}
		for _, c := range p {
			if strings.Count(p, string(c)) > 1 {
				d.invalid("bad shading pattern %q", p)
				break
			}
		}
	}
	return pats
}

func (d *decoder) positive(name string, p *float64, dflt float64) float64 {
	if p == nil {
		return dflt
	}
	if !(*p > 0) || math.IsInf(*p, 0) {
		d.invalid("%s must be positive, is %g", name, *p)
		return dflt
	}
	return *p
}

func (d *decoder) length(name string, p *float64, dflt float64) float64 {
	if p == nil {
		return dflt
	}
	if !(*p >= 0) || math.IsInf(*p, 0) {
		d.invalid("%s must not be negative, is %g", name, *p)
		return dflt
	}
	return *p
}

func (d *decoder) nonNegative(name string, p *float64) option.Value[float64] {
	if p == nil {
		return option.None[float64]()
	}
	return option.Some(d.length(name, p, 0))
}

func (d *decoder) padding(name string, v float64) float64 {
	return d.length(name, &v, 0)
}

func (d *decoder) fraction(name string, p *float64, dflt float64) float64 {
	if p == nil {
		return dflt
	}
	if !(*p >= 0 && *p <= 1) {
		d.invalid("%s must be between 0 and 1, is %g", name, *p)
		return dflt
	}
	return *p
}

func opt[T any](p *T) option.Value[T] {
	if p == nil {
		return option.None[T]()
	}
	return option.Some(*p)
}
