/*
Package option implements optional values.

Attribute records of the typesetter are sparse: a switch may set a color but
leave the separation alone, a glyph may override the shading or inherit it.
Optional values make this explicit without resorting to pointers or in-band
null values.

    sep := option.Some(2.0)
    sep.Or(1.0)        // 2.0
    option.None[float64]().Or(1.0)  // 1.0

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package option
