/*
Package glyphtree implements the attribute tree of a hieroglyphic inscription.

A Fragment is the root of one line or column of text. It holds a Hieroglyphic,
which is a sequence of top-level groups separated by operators (Op). Groups come
in a closed set of variants:

   NamedGlyph        a sign, referenced by catalog name or mnemonic
   EmptyGlyph        an invisible placeholder of given size
   Box               cartouche, serekh and friends, around an inner Hieroglyphic
   Stack             two groups overlaid
   Insert            a group inserted into (or against) another
   Modify            a group with overridden size, padding or clipping
   HorizontalGroup   groups side by side
   VerticalGroup     groups on top of each other

Rendering attributes are inherited through the tree as Globals (direction, unit
size, color, shading, separation, fit, mirror). Switches are sparse overrides
written at positions in the text. After the tree is constructed, two passes
resolve the attributes: PropagateBack moves switches written after a group into
the trailing slot of its innermost last component; Propagate threads Globals
through the tree in reading order and records the effective Globals of every
node in a Resolution. Nodes are never modified by Propagate.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package glyphtree

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'hieroset.tree'.
func tracer() tracing.Trace {
	return tracing.Select("hieroset.tree")
}
