package oracle

// Opening finds the inner opening of a box segment: the blank run between the
// first and the last ink run along the center line across the segment.
// For horizontal segments the center column is scanned top to bottom and the
// opening is returned as y-coordinates [lo,hi); for vertical segments the center
// row is scanned and x-coordinates are returned.
//
// If the center line shows fewer than two ink runs, ok is false.
func Opening(m *Mask, horizontal bool) (lo, hi int, ok bool) {
	var at func(i int) bool
	var from, to int
	if horizontal {
		x := (m.Rect.Min.X + m.Rect.Max.X) / 2
		at = func(y int) bool { return m.At(x, y) }
		from, to = m.Rect.Min.Y, m.Rect.Max.Y
	} else {
		y := (m.Rect.Min.Y + m.Rect.Max.Y) / 2
		at = func(x int) bool { return m.At(x, y) }
		from, to = m.Rect.Min.X, m.Rect.Max.X
	}
	i := from
	for i < to && !at(i) { // blank before first run
		i++
	}
	for i < to && at(i) { // first run
		i++
	}
	lo = i
	j := to - 1
	for j >= lo && !at(j) {
		j--
	}
	for j >= lo && at(j) {
		j--
	}
	hi = j + 1
	if lo >= to || hi <= lo || j < lo {
		return 0, 0, false
	}
	return lo, hi, true
}
