package gfx

import (
	"image/color"
	"strings"

	"github.com/npillmayer/hieroset/core"
)

// ColorResolver maps color names to colors.
type ColorResolver interface {
	Resolve(name string) (color.Color, error)
}

// Palette is a ColorResolver from a fixed table. Names are case-insensitive.
type Palette map[string]color.RGBA

// DefaultPalette knows the 16 basic HTML colors.
func DefaultPalette() Palette {
	return Palette{
		"black":   {0x00, 0x00, 0x00, 0xff},
		"silver":  {0xc0, 0xc0, 0xc0, 0xff},
		"gray":    {0x80, 0x80, 0x80, 0xff},
		"white":   {0xff, 0xff, 0xff, 0xff},
		"maroon":  {0x80, 0x00, 0x00, 0xff},
		"red":     {0xff, 0x00, 0x00, 0xff},
		"purple":  {0x80, 0x00, 0x80, 0xff},
		"fuchsia": {0xff, 0x00, 0xff, 0xff},
		"green":   {0x00, 0x80, 0x00, 0xff},
		"lime":    {0x00, 0xff, 0x00, 0xff},
		"olive":   {0x80, 0x80, 0x00, 0xff},
		"yellow":  {0xff, 0xff, 0x00, 0xff},
		"navy":    {0x00, 0x00, 0x80, 0xff},
		"blue":    {0x00, 0x00, 0xff, 0xff},
		"teal":    {0x00, 0x80, 0x80, 0xff},
		"aqua":    {0x00, 0xff, 0xff, 0xff},
	}
}

// Resolve looks up a color name. Unknown names resolve to black, together with
// an error of code core.EMISSING.
func (p Palette) Resolve(name string) (color.Color, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return color.Black, nil
	}
	if c, ok := p[name]; ok {
		return c, nil
	}
	return color.Black, core.Error(core.EMISSING, "unknown color %q", name)
}
