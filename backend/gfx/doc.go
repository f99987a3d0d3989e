/*
Package gfx is the rasterization backend of the typesetter.

The layout engine measures and packs shapes by drawing them and inspecting
pixels. It does so through the Surface interface, which offers just enough to
draw glyph outlines, rectangles and lines under an affine transform, to clip and
to erase. Canvas is a software implementation on top of golang.org/x/image/vector,
drawing onto a premultiplied *image.RGBA.

Coordinates are device pixels with y growing downwards. Transforms are
f64.Aff3 matrices mapping user space to device space.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package gfx

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'hieroset.gfx'.
func tracer() tracing.Trace {
	return tracing.Select("hieroset.gfx")
}
