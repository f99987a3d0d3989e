package glyphtree

// --- Back-propagation ------------------------------------------------------

// PropagateBack folds every switch written after a group into the trailing
// slot of that group's innermost last component. A switch after a closing
// bracket thereby becomes part of the group it closes. PropagateBack changes
// the tree and must run exactly once, before Propagate.
func PropagateBack(f *Fragment) {
	if f == nil || f.Hiero == nil {
		return
	}
	backHiero(f.Hiero)
}

func backHiero(h *Hieroglyphic) {
	for i, g := range h.Groups {
		backGroup(g)
		if i < len(h.Switches) {
			h.Switches[i] = pushBack(g, h.Switches[i])
		}
	}
}

func backGroup(g Group) {
	switch n := g.(type) {
	case *Box:
		if n.Inner != nil {
			backHiero(n.Inner)
		}
	case *Stack:
		backGroup(n.G1)
		backGroup(n.G2)
	case *Insert:
		backGroup(n.G1)
		backGroup(n.G2)
	case *Modify:
		backGroup(n.Group)
	case *HorizontalGroup:
		backSubgroups(n.Groups)
	case *VerticalGroup:
		backSubgroups(n.Groups)
	}
}

func backSubgroups(subs []Subgroup) {
	for i := range subs {
		backGroup(subs[i].Group)
		subs[i].Trailing = pushBack(subs[i].Group, subs[i].Trailing)
	}
}

// pushBack moves sw into g. It returns the switch still to be applied after
// g, which is the identity once sw has been absorbed.
func pushBack(g Group, sw Switch) Switch {
	if sw.IsIdentity() {
		return sw
	}
	switch n := g.(type) {
	case *NamedGlyph:
		n.Trailing = n.Trailing.Join(sw)
		return Switch{}
	case *EmptyGlyph:
		n.Trailing = n.Trailing.Join(sw)
		return Switch{}
	case *Box:
		if n.IsEmpty() {
			n.Trailing = n.Trailing.Join(sw)
			return Switch{}
		}
		last := len(n.Inner.Groups) - 1
		if last < len(n.Inner.Switches) && !n.Inner.Switches[last].IsIdentity() {
			n.Inner.Switches[last] = n.Inner.Switches[last].Join(sw)
			return Switch{}
		}
		return pushBack(n.Inner.Groups[last], sw)
	case *Stack:
		return pushBack(n.G2, sw)
	case *Insert:
		return pushBack(n.G2, sw)
	case *Modify:
		return pushBack(n.Group, sw)
	case *HorizontalGroup:
		return pushBackSubgroups(n.Groups, sw)
	case *VerticalGroup:
		return pushBackSubgroups(n.Groups, sw)
	}
	return sw
}

func pushBackSubgroups(subs []Subgroup, sw Switch) Switch {
	if len(subs) == 0 {
		return sw
	}
	last := &subs[len(subs)-1]
	if !last.Trailing.IsIdentity() { // explicit switch boundary
		last.Trailing = last.Trailing.Join(sw)
		return Switch{}
	}
	return pushBack(last.Group, sw)
}

// --- Forward propagation ---------------------------------------------------

// Resolution holds the effective Globals of every node of a tree, as computed
// by Propagate. For an Op the Globals effective at the op's position are
// recorded, before the op's own switch applies.
type Resolution struct {
	Root    Globals
	groups  map[Group]Globals
	ops     map[*Op]Globals
	inner   map[*Hieroglyphic]Globals
	visited int
}

// Globals returns the effective Globals of g.
func (r *Resolution) Globals(g Group) Globals {
	if glob, ok := r.groups[g]; ok {
		return glob
	}
	tracer().Errorf("no globals resolved for %s", g)
	return r.Root
}

// OpGlobals returns the Globals effective at op.
func (r *Resolution) OpGlobals(op *Op) Globals {
	if glob, ok := r.ops[op]; ok {
		return glob
	}
	return r.Root
}

// HieroGlobals returns the Globals at the start of a (possibly inner) sequence.
func (r *Resolution) HieroGlobals(h *Hieroglyphic) Globals {
	if glob, ok := r.inner[h]; ok {
		return glob
	}
	return r.Root
}

// Len returns the number of resolved groups.
func (r *Resolution) Len() int {
	return len(r.groups)
}

// Propagate threads the Globals of the fragment's header through the tree in
// reading order and returns the effective Globals of every node. It does not
// modify the tree.
func Propagate(f *Fragment) *Resolution {
	r := &Resolution{
		Root:   f.Globals(),
		groups: make(map[Group]Globals),
		ops:    make(map[*Op]Globals),
		inner:  make(map[*Hieroglyphic]Globals),
	}
	if f.Hiero != nil {
		r.hiero(f.Hiero, r.Root)
	}
	tracer().Debugf("propagated globals to %d groups", r.visited)
	return r
}

func (r *Resolution) hiero(h *Hieroglyphic, glob Globals) Globals {
	r.inner[h] = glob
	for i, g := range h.Groups {
		glob = r.group(g, glob)
		if i < len(h.Switches) {
			glob = glob.Update(h.Switches[i])
		}
		if i < len(h.Ops) {
			r.ops[h.Ops[i]] = glob
			glob = glob.Update(h.Ops[i].Switch)
		}
	}
	return glob
}

func (r *Resolution) subgroups(subs []Subgroup, ops []*Op, glob Globals) Globals {
	for i, s := range subs {
		glob = glob.Update(s.Leading)
		glob = r.group(s.Group, glob)
		glob = glob.Update(s.Trailing)
		if i < len(ops) {
			r.ops[ops[i]] = glob
			glob = glob.Update(ops[i].Switch)
		}
	}
	return glob
}

// group records the Globals of g and returns the Globals after g.
func (r *Resolution) group(g Group, glob Globals) Globals {
	r.groups[g] = glob
	r.visited++
	switch n := g.(type) {
	case *NamedGlyph:
		return glob.Update(n.Trailing)
	case *EmptyGlyph:
		return glob.Update(n.Trailing)
	case *Box:
		in := glob
		if n.Size > 0 {
			in.Size = glob.Size * n.Size
		}
		in.Direction = glob.Direction.Rotated(n.IsHorizontal(glob.Direction))
		in = in.Update(n.Leading)
		if n.Inner != nil {
			in = r.hiero(n.Inner, in)
		}
		return restore(in, glob).Update(n.Trailing)
	case *Stack:
		out := r.group(n.G2, r.group(n.G1, glob))
		return restore(out, glob)
	case *Insert:
		out := r.group(n.G2, r.group(n.G1, glob))
		return restore(out, glob)
	case *Modify:
		return restore(r.group(n.Group, glob), glob)
	case *HorizontalGroup:
		return r.subgroups(n.Groups, n.Ops, glob)
	case *VerticalGroup:
		return r.subgroups(n.Groups, n.Ops, glob)
	}
	return glob
}

// restore leaves a scope: size and direction revert to the values outside.
func restore(inner, outer Globals) Globals {
	inner.Size = outer.Size
	inner.Direction = outer.Direction
	return inner
}
