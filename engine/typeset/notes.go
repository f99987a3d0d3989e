package typeset

import (
	"image"
	"math"

	"github.com/npillmayer/hieroset/backend/gfx"
	"github.com/npillmayer/hieroset/core/dimen"
	"github.com/npillmayer/hieroset/engine/glyphtree"
	"github.com/npillmayer/hieroset/engine/oracle"
	"golang.org/x/text/unicode/norm"
)

// noteRequest is an annotation waiting to be placed.
type noteRequest struct {
	note   glyphtree.Note
	anchor dimen.Rect // cell of the annotated group, units
	size   float64    // unit size at the annotated group
}

func (f *Formatting) addNotes(dc *drawCtx, notes []glyphtree.Note, cell dimen.Rect, glob glyphtree.Globals) {
	if dc.notes == nil {
		return
	}
	for _, n := range notes {
		*dc.notes = append(*dc.notes, noteRequest{note: n, anchor: cell, size: glob.Size})
	}
}

// drawNotes places annotations next to their groups, where the surface is
// blank. Annotations are drawn in device orientation, i.e. never mirrored.
func (f *Formatting) drawNotes(dc *drawCtx, reqs []noteRequest) {
	inverse := gfx.Invert(dc.device)
	for _, req := range reqs {
		text := norm.NFC.String(req.note.Text)
		if text == "" {
			continue
		}
		ppem := f.p.Px(f.p.NoteSize * req.size)
		tm, err := gfx.MeasureText(text, f.ts.noteFont, ppem)
		f.collect(err)
		w, h := int(math.Ceil(tm.Advance)), int(math.Ceil(tm.Height()))
		if w <= 0 || h <= 0 {
			continue
		}
		q := f.findNoteRect(dc.s.Image(), dc.deviceRect(req.anchor).Pixels(), w, h)
		col, err := f.ts.colors.Resolve(req.note.Color.Or(f.p.NoteColor))
		f.collect(err)
		m := gfx.Translate(float64(q.Min.X), float64(q.Min.Y)+tm.Ascent)
		f.collect(dc.s.DrawText(text, f.ts.noteFont, ppem, m, col))
		tracer().Debugf("note %q placed at %v", text, q)
		if dc.over != nil {
			dc.over.ensure(gfx.ApplyRect(inverse, dimen.FromImageRect(q)), dc.content)
		}
	}
}

// findNoteRect searches a blank w×h rectangle next to anchor a: above, after,
// below and before it, with a growing distance. If none is found, the
// rectangle directly above a is returned.
func (f *Formatting) findNoteRect(img *image.RGBA, a image.Rectangle, w, h int) image.Rectangle {
	tab := oracle.NewInkTable(img, img.Rect)
	gap := h/2 + 1
	for i := 0; i < f.p.NoteSearchTries; i++ {
		areas := [4]struct {
			r    image.Rectangle
			from dimen.Side
		}{
			{image.Rect(a.Min.X-w/2, a.Min.Y-h-gap, a.Max.X+w/2, a.Min.Y), dimen.Bottom},
			{image.Rect(a.Max.X, a.Min.Y-h/2, a.Max.X+w+gap, a.Max.Y+h/2), dimen.Left},
			{image.Rect(a.Min.X-w/2, a.Max.Y, a.Max.X+w/2, a.Max.Y+h+gap), dimen.Top},
			{image.Rect(a.Min.X-w-gap, a.Min.Y-h/2, a.Min.X, a.Max.Y+h/2), dimen.Right},
		}
		for _, area := range areas {
			if q, ok := tab.FindFree(area.r, w, h, area.from); ok {
				return q
			}
		}
		gap *= 2
	}
	return image.Rect(a.Min.X, a.Min.Y-h, a.Min.X+w, a.Min.Y)
}
