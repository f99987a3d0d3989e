package typeset

import (
	"context"
	"image"

	"github.com/npillmayer/hieroset/backend/gfx"
	"github.com/npillmayer/hieroset/core/dimen"
	"github.com/npillmayer/hieroset/core/font"
	"github.com/npillmayer/hieroset/core/parameters"
	"github.com/npillmayer/hieroset/engine/glyphtree"
)

// Typesetter holds the collaborators of formatting and rendering: parameters,
// the glyph catalog, fonts, color names and a factory for drawing surfaces.
// A Typesetter is not changed by formatting and may be shared between
// goroutines, as long as its collaborators are.
type Typesetter struct {
	params   *parameters.Params
	catalog  *font.Catalog
	font     *font.ScalableFont // hieroglyphic signs
	noteFont *font.ScalableFont // annotations
	colors   gfx.ColorResolver
	factory  gfx.Factory
}

// Option configures a Typesetter.
type Option func(*Typesetter)

// WithParams sets the formatting parameters. The typesetter keeps a copy.
func WithParams(p *parameters.Params) Option {
	return func(ts *Typesetter) {
		if p != nil {
			ts.params = p.Clone()
		}
	}
}

// WithCatalog sets the catalog mapping sign names to code points.
func WithCatalog(c *font.Catalog) Option {
	return func(ts *Typesetter) {
		ts.catalog = c
	}
}

// WithFont sets the font of the signs.
func WithFont(f *font.ScalableFont) Option {
	return func(ts *Typesetter) {
		ts.font = f
	}
}

// WithNoteFont sets the font of annotations.
func WithNoteFont(f *font.ScalableFont) Option {
	return func(ts *Typesetter) {
		ts.noteFont = f
	}
}

// WithColors sets the resolver for color names.
func WithColors(c gfx.ColorResolver) Option {
	return func(ts *Typesetter) {
		ts.colors = c
	}
}

// WithSurfaces sets the factory for drawing surfaces.
func WithSurfaces(f gfx.Factory) Option {
	return func(ts *Typesetter) {
		ts.factory = f
	}
}

// New creates a typesetter. Collaborators not given as options default to
// parameters.Defaults, an empty catalog, the fallback font, the default palette
// and software canvases.
func New(opts ...Option) *Typesetter {
	ts := &Typesetter{}
	for _, opt := range opts {
		opt(ts)
	}
	if ts.params == nil {
		ts.params = parameters.Defaults()
	}
	if ts.catalog == nil {
		ts.catalog = font.NewCatalog()
	}
	if ts.font == nil {
		ts.font = font.FallbackFont()
	}
	if ts.noteFont == nil {
		ts.noteFont = font.FallbackFont()
	}
	if ts.colors == nil {
		ts.colors = gfx.DefaultPalette()
	}
	if ts.factory == nil {
		ts.factory = gfx.SoftwareFactory
	}
	return ts
}

// Params returns the parameters in use.
func (ts *Typesetter) Params() *parameters.Params {
	return ts.params
}

// Result is the outcome of rendering a fragment.
type Result struct {
	Image *image.RGBA
	// Groups are the device rectangles of the top-level groups, in reading order.
	Groups []image.Rectangle
	// Margins are the final margins of the image in pixels, indexed by
	// dimen.Side, in device orientation.
	Margins [4]int
	Size    dimen.Size // extent of the inscription without margins, in units
	Passes  int        // number of rendering passes
}

// Render formats fragment f and draws it. The result is complete even if
// err reports problems like unknown signs; it is nil only if the context is
// cancelled.
//
// Back-propagation of switches is applied to f first, which changes the
// switches of f's tree.
func (ts *Typesetter) Render(ctx context.Context, f *glyphtree.Fragment) (*Result, error) {
	fmtg, err := ts.Format(ctx, f)
	if err != nil {
		return nil, err
	}
	return fmtg.Render(ctx)
}
