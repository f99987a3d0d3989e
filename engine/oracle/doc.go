/*
Package oracle answers geometric questions about shapes by inspecting pixels.

Hieroglyphs do not fit into their font metrics: rotation, mirroring and
non-uniform scaling move ink far outside of advance boxes, and scribal layout
packs signs by their visible shape. Clients therefore draw shapes onto
temporary surfaces (see package gfx) and ask the oracle

  - where the ink is (InkMask, GlyphRect),
  - which blank pixels are reachable from the outside (ExternalPixels),
  - how close two shapes may get (FitHor, FitVert, Dilate, Mask.Intersects),
  - where a blank rectangle of a given size is (InkTable.FindFree),
  - where the opening of a box segment is (Opening).

A pixel is ink if any of its channels, alpha included, is nonzero.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package oracle

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'hieroset.oracle'.
func tracer() tracing.Trace {
	return tracing.Select("hieroset.oracle")
}
