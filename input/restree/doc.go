/*
Package restree reads and writes hieroglyphic attribute trees as JSON.

The JSON form mirrors package glyphtree closely. A document is a fragment:

   {
     "direction": "hrl",
     "size": 1,
     "hiero": {
       "groups": [
         { "type": "glyph", "name": "A1" },
         { "type": "box", "boxtype": "cartouche",
           "inner": { "groups": [ { "type": "glyph", "name": "D36" } ] } }
       ]
     }
   }

Groups are objects with a "type" of glyph, empty, box, stack, insert, modify,
hor or vert. Attributes which are optional in the tree are optional in JSON,
and absent attributes take the defaults of the glyphtree constructors.

Decoding validates attribute domains (directions, scales, places, shading
patterns, number of operators). Violations are reported as errors with code
core.EINVALID, naming the position of the offending node. This is a tree
codec, not a parser of any hieroglyphic markup.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package restree

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'hieroset.input'.
func tracer() tracing.Trace {
	return tracing.Select("hieroset.input")
}
