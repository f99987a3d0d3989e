/*
Package typeset formats and renders hieroglyphic fragments.

Formatting works on a tree of groups (package glyphtree) whose attributes have
been resolved by propagation. It proceeds in three steps:

 1. Leaves are measured by rasterizing them once: the size of a sign is the
    extent of its ink, not of its font metrics.
 2. Composites with a size constraint scale their content down until it fits.
    Scale factors are kept in a side table of the Formatting, the tree itself
    is never changed.
 3. Separators between groups which are allowed to fit are shortened by the
    distance the two neighbours may approach each other without their ink
    touching.

Rendering draws the formatted tree onto a surface (package gfx). Boxes tile
their segment glyphs, stacks mask one group by the silhouette of the other,
inserts search for the largest scale at which a secondary group fits into
the primary one. Ink may overflow the nominal extent of the inscription; the
renderer then grows the margins of the surface and renders again, until the
margins are stable. Shading is drawn last, as hachure.

	ts := typeset.New(typeset.WithCatalog(catalog), typeset.WithFont(f))
	result, err := ts.Render(ctx, fragment)

Render returns a complete image even in the presence of errors, e.g. for signs
missing from the catalog. Such errors are collected and returned joined.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package typeset

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'hieroset.typeset'.
func tracer() tracing.Trace {
	return tracing.Select("hieroset.typeset")
}
