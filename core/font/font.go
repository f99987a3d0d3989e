/*
Package font is for the fonts hieroglyphs and annotations are drawn with.

The typesetter never parses font files itself beyond what golang.org/x/image/font/sfnt
offers: it needs glyph outlines, advances and vertical metrics. Hieroglyphs are
addressed by catalog names (Gardiner numbers like "A1", or mnemonics like "ra"),
which a Catalog maps to code points of the hieroglyphic font.

If a glyph cannot be resolved, a fallback font is used. It is always present.
Currently we use Go Sans.

______________________________________________________________________

BSD License

Copyright (c) 2017-21, Norbert Pillmayer

All rights reserved.

Redistribution and use in source and binary forms, with or without
modification, are permitted provided that the following conditions
are met:

1. Redistributions of source code must retain the above copyright
notice, this list of conditions and the following disclaimer.

2. Redistributions in binary form must reproduce the above copyright
notice, this list of conditions and the following disclaimer in the
documentation and/or other materials provided with the distribution.

3. Neither the name of this software nor the names of its contributors
may be used to endorse or promote products derived from this software
without specific prior written permission.

THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS
"AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT
LIMITED TO, THE IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR
A PARTICULAR PURPOSE ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT
HOLDER OR CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL,
SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT
LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR SERVICES; LOSS OF USE,
DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER CAUSED AND ON ANY
THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT
(INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE. */
package font

import (
	"os"
	"strings"
	"sync"

	"github.com/npillmayer/hieroset/core"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
)

// tracer traces with key 'hieroset.fonts'.
func tracer() tracing.Trace {
	return tracing.Select("hieroset.fonts")
}

// ScalableFont is a font in a format understood by sfnt (TrueType or
// OpenType with CFF outlines).
type ScalableFont struct {
	Fontname string
	Filepath string     // file path, if loaded from a file
	Binary   []byte     // raw data
	SFNT     *sfnt.Font // safe for concurrent use, given distinct buffers
}

// LoadOpenTypeFont loads and parses a font file.
func LoadOpenTypeFont(fontfile string) (*ScalableFont, error) {
	bytez, err := os.ReadFile(fontfile)
	if err != nil {
		return nil, core.WrapError(err, core.EMISSING, "cannot read font file %s", fontfile)
	}
	f, err := ParseOpenTypeFont(bytez)
	if err != nil {
		return nil, err
	}
	f.Filepath = fontfile
	return f, nil
}

// ParseOpenTypeFont parses font data.
func ParseOpenTypeFont(fbytes []byte) (f *ScalableFont, err error) {
	f = &ScalableFont{Binary: fbytes}
	f.SFNT, err = sfnt.Parse(f.Binary)
	if err != nil {
		return nil, core.WrapError(err, core.EINVALID, "cannot parse font data")
	}
	f.Fontname, _ = f.SFNT.Name(nil, sfnt.NameIDFull)
	return
}

// HasGlyphs is true if every rune of s maps to a glyph other than .notdef.
func (sf *ScalableFont) HasGlyphs(s string) bool {
	if sf == nil || sf.SFNT == nil || s == "" {
		return false
	}
	var buf sfnt.Buffer
	for _, r := range s {
		gi, err := sf.SFNT.GlyphIndex(&buf, r)
		if err != nil || gi == 0 {
			return false
		}
	}
	return true
}

func (sf *ScalableFont) String() string {
	if sf == nil {
		return "<no font>"
	}
	return sf.Fontname
}

// --- Fallback font ---------------------------------------------------------

// FallbackFont returns a font to be used if everything else failes. It is
// always present. Currently we use Go Sans.
func FallbackFont() *ScalableFont {
	fallbackFontLoading.Do(func() {
		fallbackFont = loadFallbackFont()
	})
	return fallbackFont
}

// FallbackGlyph is the text drawn, in the fallback font, for unresolvable glyphs.
const FallbackGlyph = "?"

var fallbackFontLoading sync.Once

var fallbackFont *ScalableFont

func loadFallbackFont() *ScalableFont {
	var err error
	gofont := &ScalableFont{
		Fontname: "Go Sans",
		Filepath: "internal",
		Binary:   goregular.TTF,
	}
	gofont.SFNT, err = sfnt.Parse(gofont.Binary)
	if err != nil {
		panic("cannot load default font") // this cannot happen
	}
	return gofont
}

// --- Registry --------------------------------------------------------------

// Registry is a type for holding loaded fonts by normalized name.
type Registry struct {
	sync.Mutex
	fonts map[string]*ScalableFont
}

// NewRegistry creates an empty font registry.
func NewRegistry() *Registry {
	return &Registry{fonts: make(map[string]*ScalableFont)}
}

// StoreFont pushes a font into the registry, using the normalized name as a key.
// An existing entry for the same key is replaced.
func (fr *Registry) StoreFont(name string, f *ScalableFont) {
	if f == nil {
		tracer().Errorf("registry cannot store null font")
		return
	}
	fr.Lock()
	defer fr.Unlock()
	fname := NormalizeFontname(name)
	tracer().Debugf("registry stores font %s as %s", f.Fontname, fname)
	fr.fonts[fname] = f
}

// Font returns a font previously stored under name. If none is found, the
// fallback font is returned, together with an error.
func (fr *Registry) Font(name string) (*ScalableFont, error) {
	fname := NormalizeFontname(name)
	fr.Lock()
	defer fr.Unlock()
	if f, ok := fr.fonts[fname]; ok {
		return f, nil
	}
	tracer().Infof("registry does not contain font %s", name)
	return FallbackFont(), core.Error(core.EMISSING, "font %s not found in registry", name)
}

// NormalizeFontname strips a font name of path and extension and lower-cases it.
func NormalizeFontname(fname string) string {
	fname = strings.TrimSpace(fname)
	if slash := strings.LastIndexAny(fname, "/\\"); slash >= 0 {
		fname = fname[slash+1:]
	}
	if dot := strings.LastIndex(fname, "."); dot > 0 {
		fname = fname[:dot]
	}
	fname = strings.ReplaceAll(fname, " ", "_")
	return strings.ToLower(fname)
}
