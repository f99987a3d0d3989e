package restree

import (
	"encoding/json"
	"io"
	"math"

	"github.com/npillmayer/hieroset/core"
	"github.com/npillmayer/hieroset/core/option"
	"github.com/npillmayer/hieroset/engine/glyphtree"
)

// Write encodes fragment f as indented JSON to w.
func Write(w io.Writer, f *glyphtree.Fragment) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Encode(f)); err != nil {
		return core.WrapError(err, core.EINTERNAL, "cannot encode tree: %v", err)
	}
	return nil
}

// Encode converts a fragment to its document form. Attributes at their
// default values are left out.
func Encode(f *glyphtree.Fragment) *Document {
	if f == nil {
		return nil
	}
	doc := &Document{
		Switch: encodeSwitch(f.Switch),
		Hiero:  encodeHiero(f.Hiero),
	}
	if f.Direction != glyphtree.HLR {
		doc.Direction = f.Direction.String()
	}
	if f.Size != 1 {
		doc.Size = f.Size
	}
	return doc
}

func encodeHiero(h *glyphtree.Hieroglyphic) *Hiero {
	if h == nil {
		return nil
	}
	out := &Hiero{}
	for _, g := range h.Groups {
		out.Groups = append(out.Groups, encodeGroup(g))
	}
	out.Ops = encodeOps(h.Ops)
	written := false
	switches := make([]*Switch, len(h.Switches))
	for i, sw := range h.Switches {
		switches[i] = encodeSwitch(sw)
		written = written || switches[i] != nil
	}
	if written { // positions matter: write all of them
		out.Switches = switches
	}
	return out
}

// encodeOps leaves out sequences of default operators.
func encodeOps(ops []*glyphtree.Op) []*Op {
	plain := true
	out := make([]*Op, len(ops))
	for i, op := range ops {
		if op == nil {
			continue
		}
		o := &Op{
			Sep:    ptr(op.Sep),
			Fit:    ptr(op.Fit),
			Fix:    op.Fix,
			Shade:  ptr(op.Shade),
			Shades: op.Shades,
			Switch: encodeSwitch(op.Switch),
		}
		if op.IsUnconstrained() {
			o.Unconstrained = true
		} else {
			o.Size = ptr(op.Size)
		}
		if o.Sep != nil || o.Fit != nil || o.Fix || o.Shade != nil || len(o.Shades) > 0 ||
			o.Size != nil || o.Unconstrained || o.Switch != nil {
			plain = false
		}
		out[i] = o
	}
	if plain {
		return nil
	}
	return out
}

func encodeGroup(g glyphtree.Group) *Node {
	switch n := g.(type) {
	case *glyphtree.NamedGlyph:
		return &Node{
			Type:     TypeGlyph,
			Name:     n.Name,
			Rotate:   n.Rotate,
			Mirror:   ptr(n.Mirror),
			Scale:    unlessOne(n.Scale),
			XScale:   unlessOne(n.XScale),
			YScale:   unlessOne(n.YScale),
			Color:    ptr(n.Color),
			Shade:    ptr(n.Shade),
			Shades:   n.Shades,
			Notes:    encodeNotes(n.Notes),
			Trailing: encodeSwitch(n.Trailing),
		}
	case *glyphtree.EmptyGlyph:
		return &Node{
			Type:     TypeEmpty,
			Width:    unlessOne(n.Width),
			Height:   unlessOne(n.Height),
			Firm:     n.Firm,
			Shade:    ptr(n.Shade),
			Shades:   n.Shades,
			Notes:    encodeNotes(n.Notes),
			Trailing: encodeSwitch(n.Trailing),
		}
	case *glyphtree.Box:
		return &Node{
			Type:        TypeBox,
			BoxType:     n.Type,
			Orientation: n.Orientation,
			Mirror:      ptr(n.Mirror),
			Scale:       unlessOne(n.Scale),
			Color:       ptr(n.Color),
			Shade:       ptr(n.Shade),
			Shades:      n.Shades,
			Size:        unlessOne(n.Size),
			OpenSep:     unlessOne(n.OpenSep),
			CloseSep:    unlessOne(n.CloseSep),
			UnderSep:    unlessOne(n.UnderSep),
			OverSep:     unlessOne(n.OverSep),
			Notes:       encodeNotes(n.Notes),
			Leading:     encodeSwitch(n.Leading),
			Trailing:    encodeSwitch(n.Trailing),
			Inner:       encodeHiero(n.Inner),
		}
	case *glyphtree.Stack:
		return &Node{
			Type:    TypeStack,
			X:       unlessHalf(n.X),
			Y:       unlessHalf(n.Y),
			OnUnder: n.OnUnder,
			G1:      encodeGroup(n.G1),
			G2:      encodeGroup(n.G2),
		}
	case *glyphtree.Insert:
		return &Node{
			Type:  TypeInsert,
			Place: n.Place,
			X:     unlessHalf(n.X),
			Y:     unlessHalf(n.Y),
			Fix:   n.Fix,
			Sep:   ptr(n.Sep),
			G1:    encodeGroup(n.G1),
			G2:    encodeGroup(n.G2),
		}
	case *glyphtree.Modify:
		return &Node{
			Type:   TypeModify,
			Width:  ptr(n.Width),
			Height: ptr(n.Height),
			Before: n.Before,
			After:  n.After,
			Above:  n.Above,
			Below:  n.Below,
			Omit:   n.Omit,
			Shade:  ptr(n.Shade),
			Shades: n.Shades,
			Group:  encodeGroup(n.Group),
		}
	case *glyphtree.HorizontalGroup:
		return &Node{Type: TypeHor, Groups: encodeSubgroups(n.Groups), Ops: encodeOps(n.Ops)}
	case *glyphtree.VerticalGroup:
		return &Node{Type: TypeVert, Groups: encodeSubgroups(n.Groups), Ops: encodeOps(n.Ops)}
	}
	tracer().Errorf("cannot encode group of type %T", g)
	return nil
}

func encodeSubgroups(subs []glyphtree.Subgroup) []*Subgroup {
	out := make([]*Subgroup, len(subs))
	for i, s := range subs {
		out[i] = &Subgroup{
			Leading:  encodeSwitch(s.Leading),
			Group:    encodeGroup(s.Group),
			Trailing: encodeSwitch(s.Trailing),
		}
	}
	return out
}

func encodeSwitch(sw glyphtree.Switch) *Switch {
	if sw.IsIdentity() {
		return nil
	}
	return &Switch{
		Color:  ptr(sw.Color),
		Shade:  ptr(sw.Shade),
		Sep:    ptr(sw.Sep),
		Fit:    ptr(sw.Fit),
		Mirror: ptr(sw.Mirror),
	}
}

func encodeNotes(notes []glyphtree.Note) []Note {
	var out []Note
	for _, n := range notes {
		out = append(out, Note{Text: n.Text, Color: ptr(n.Color)})
	}
	return out
}

func ptr[T any](v option.Value[T]) *T {
	if x, ok := v.Get(); ok {
		return &x
	}
	return nil
}

func unlessOne(x float64) *float64 {
	if x == 1 {
		return nil
	}
	return &x
}

func unlessHalf(x float64) *float64 {
	if math.Abs(x-0.5) < 1e-12 {
		return nil
	}
	return &x
}
