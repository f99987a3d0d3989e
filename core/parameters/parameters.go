/*
Package parameters holds the named constants governing layout and rendering.

All constants have defaults (see Defaults). Applications may override them from a
schuko configuration, using keys of the form `hieroset.<name>`, where name is the
lower-cased field name, e.g. `hieroset.unitpx`.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package parameters

import (
	"strconv"
	"strings"

	"github.com/npillmayer/hieroset/core"
	"github.com/npillmayer/schuko"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'hieroset.core'.
func tracer() tracing.Trace {
	return tracing.Select("hieroset.core")
}

// Params collects the constants of the formatter and renderer.
// Lengths are in units (ems of the hieroglyphic font) unless noted otherwise.
type Params struct {
	UnitPx float64 // pixels per unit, i.e. the font size in pixels

	SepUnit            float64 // fixed separation between groups
	MaxFitReduction    float64 // how much closer than SepUnit fitted groups may move
	ScaleFloor         float64 // sizes below are accepted as irreducible
	MaxScaleIterations int     // cap of the scale-down loop

	BoxSepUnit     float64 // default distance between box parts and inner content
	BoxFitGroups   int     // inner groups sampled when fitting box caps
	SegmentOverlap int     // overlap of box segment tiles, in pixels
	EmptyBoxLength float64 // inner length of boxes without content

	InsertSep          float64 // minimum distance between inserted and primary ink
	InsertInitialScale float64
	InsertScaleStep    float64 // relative increment of the scale hill-climb
	InsertMinScaleStep float64
	InsertMoveStep     float64 // anchor move as fraction of the primary's extent
	InsertMinMoveStep  float64

	ShadeSep       float64 // distance of hachure lines, in pixels
	ShadeWidth     float64 // stroke width of hachure lines, in pixels
	ShadeDir       string  // "ne" or "nw": direction the hachure lines rise to
	ShadeColor     string
	ShadeTolerance float64 // gap between collinear segments to still merge, in pixels

	NoteSize        float64 // font size of annotations
	NoteColor       string
	NoteSearchTries int

	Margin          int // initial margin around the inscription, in pixels
	MaxMarginPasses int // cap of the margin fixed-point loop
	GlyphRectTries  int // cap of the margin doubling when measuring glyphs
}

// Defaults returns a fresh set of parameters with default values.
func Defaults() *Params {
	return &Params{
		UnitPx:             50,
		SepUnit:            0.07,
		MaxFitReduction:    0.25,
		ScaleFloor:         0.01,
		MaxScaleIterations: 8,
		BoxSepUnit:         0.04,
		BoxFitGroups:       3,
		SegmentOverlap:     1,
		EmptyBoxLength:     1.0,
		InsertSep:          0.02,
		InsertInitialScale: 0.05,
		InsertScaleStep:    1.0,
		InsertMinScaleStep: 0.02,
		InsertMoveStep:     0.25,
		InsertMinMoveStep:  0.02,
		ShadeSep:           4,
		ShadeWidth:         1,
		ShadeDir:           "ne",
		ShadeColor:         "gray",
		ShadeTolerance:     1,
		NoteSize:           0.25,
		NoteColor:          "red",
		NoteSearchTries:    6,
		Margin:             2,
		MaxMarginPasses:    8,
		GlyphRectTries:     6,
	}
}

// Clone returns a copy of p.
func (p *Params) Clone() *Params {
	c := *p
	return &c
}

// Px converts units to pixels.
func (p *Params) Px(units float64) float64 {
	return units * p.UnitPx
}

// Units converts pixels to units.
func (p *Params) Units(px float64) float64 {
	if p.UnitPx == 0 {
		return 0
	}
	return px / p.UnitPx
}

// --- Loading from configuration --------------------------------------------

type setter func(p *Params, value string) error

func floatSetter(field func(*Params) *float64) setter {
	return func(p *Params, value string) error {
		f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return err
		}
		*field(p) = f
		return nil
	}
}

func intSetter(field func(*Params) *int) setter {
	return func(p *Params, value string) error {
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return err
		}
		*field(p) = n
		return nil
	}
}

func stringSetter(field func(*Params) *string) setter {
	return func(p *Params, value string) error {
		*field(p) = strings.TrimSpace(value)
		return nil
	}
}

var setters = map[string]setter{
	"unitpx":             floatSetter(func(p *Params) *float64 { return &p.UnitPx }),
	"sepunit":            floatSetter(func(p *Params) *float64 { return &p.SepUnit }),
	"maxfitreduction":    floatSetter(func(p *Params) *float64 { return &p.MaxFitReduction }),
	"scalefloor":         floatSetter(func(p *Params) *float64 { return &p.ScaleFloor }),
	"maxscaleiterations": intSetter(func(p *Params) *int { return &p.MaxScaleIterations }),
	"boxsepunit":         floatSetter(func(p *Params) *float64 { return &p.BoxSepUnit }),
	"boxfitgroups":       intSetter(func(p *Params) *int { return &p.BoxFitGroups }),
	"segmentoverlap":     intSetter(func(p *Params) *int { return &p.SegmentOverlap }),
	"emptyboxlength":     floatSetter(func(p *Params) *float64 { return &p.EmptyBoxLength }),
	"insertsep":          floatSetter(func(p *Params) *float64 { return &p.InsertSep }),
	"insertinitialscale": floatSetter(func(p *Params) *float64 { return &p.InsertInitialScale }),
	"insertscalestep":    floatSetter(func(p *Params) *float64 { return &p.InsertScaleStep }),
	"insertminscalestep": floatSetter(func(p *Params) *float64 { return &p.InsertMinScaleStep }),
	"insertmovestep":     floatSetter(func(p *Params) *float64 { return &p.InsertMoveStep }),
	"insertminmovestep":  floatSetter(func(p *Params) *float64 { return &p.InsertMinMoveStep }),
	"shadesep":           floatSetter(func(p *Params) *float64 { return &p.ShadeSep }),
	"shadewidth":         floatSetter(func(p *Params) *float64 { return &p.ShadeWidth }),
	"shadedir":           stringSetter(func(p *Params) *string { return &p.ShadeDir }),
	"shadecolor":         stringSetter(func(p *Params) *string { return &p.ShadeColor }),
	"shadetolerance":     floatSetter(func(p *Params) *float64 { return &p.ShadeTolerance }),
	"notesize":           floatSetter(func(p *Params) *float64 { return &p.NoteSize }),
	"notecolor":          stringSetter(func(p *Params) *string { return &p.NoteColor }),
	"notesearchtries":    intSetter(func(p *Params) *int { return &p.NoteSearchTries }),
	"margin":             intSetter(func(p *Params) *int { return &p.Margin }),
	"maxmarginpasses":    intSetter(func(p *Params) *int { return &p.MaxMarginPasses }),
	"glyphrecttries":     intSetter(func(p *Params) *int { return &p.GlyphRectTries }),
}

// Keys returns the configuration keys understood by FromConfig, without prefix.
func Keys() []string {
	keys := make([]string, 0, len(setters))
	for k := range setters {
		keys = append(keys, k)
	}
	return keys
}

// FromConfig returns default parameters, overridden by values from conf.
// Keys not present in conf (empty strings) keep their default. If a value cannot
// be parsed or fails validation, an error with code core.EINVALID is returned
// together with the defaults.
func FromConfig(conf schuko.Configuration) (*Params, error) {
	p := Defaults()
	if conf == nil {
		return p, nil
	}
	for key, set := range setters {
		value := conf.GetString("hieroset." + key)
		if value == "" {
			continue
		}
		if err := set(p, value); err != nil {
			return Defaults(), core.WrapError(err, core.EINVALID,
				"configuration value for hieroset.%s not understood: %q", key, value)
		}
		tracer().Debugf("parameter %s = %s", key, value)
	}
	if err := p.Validate(); err != nil {
		return Defaults(), err
	}
	return p, nil
}

// Validate checks the domain of every parameter.
func (p *Params) Validate() error {
	positive := map[string]float64{
		"unitpx":             p.UnitPx,
		"scalefloor":         p.ScaleFloor,
		"insertinitialscale": p.InsertInitialScale,
		"insertscalestep":    p.InsertScaleStep,
		"insertminscalestep": p.InsertMinScaleStep,
		"insertmovestep":     p.InsertMoveStep,
		"insertminmovestep":  p.InsertMinMoveStep,
		"shadesep":           p.ShadeSep,
		"shadewidth":         p.ShadeWidth,
		"notesize":           p.NoteSize,
	}
	for k, v := range positive {
		if v <= 0 {
			return core.Error(core.EINVALID, "parameter %s must be positive, is %g", k, v)
		}
	}
	nonneg := map[string]float64{
		"sepunit":         p.SepUnit,
		"maxfitreduction": p.MaxFitReduction,
		"boxsepunit":      p.BoxSepUnit,
		"emptyboxlength":  p.EmptyBoxLength,
		"insertsep":       p.InsertSep,
		"shadetolerance":  p.ShadeTolerance,
	}
	for k, v := range nonneg {
		if v < 0 {
			return core.Error(core.EINVALID, "parameter %s must not be negative, is %g", k, v)
		}
	}
	if p.MaxScaleIterations < 1 || p.MaxMarginPasses < 1 || p.GlyphRectTries < 1 ||
		p.NoteSearchTries < 1 || p.BoxFitGroups < 1 {
		return core.Error(core.EINVALID, "iteration limits must be at least 1")
	}
	if p.SegmentOverlap < 0 || p.Margin < 0 {
		return core.Error(core.EINVALID, "pixel distances must not be negative")
	}
	if p.ShadeDir != "ne" && p.ShadeDir != "nw" {
		return core.Error(core.EINVALID, "shade direction must be 'ne' or 'nw', is %q", p.ShadeDir)
	}
	return nil
}
