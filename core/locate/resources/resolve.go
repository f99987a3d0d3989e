package resources

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/flopp/go-findfont"
	"github.com/npillmayer/hieroset/core"
	"github.com/npillmayer/hieroset/core/font"
)

// NotFound returns an application error for a missing font.
func NotFound(res string) error {
	e := fmt.Errorf("resource missing: %v", res)
	return core.WrapError(e, core.EMISSING, "font not found: %s", res)
}

// --- Fonts -----------------------------------------------------------------

// FontPromise is returned by ResolveFont. Every call delivers the same
// result.
type FontPromise interface {
	Font() (*font.ScalableFont, error)
	Await(ctx context.Context) (*font.ScalableFont, error)
}

// fontLoader holds the result of a resolver goroutine. done is closed once
// font and err are set.
type fontLoader struct {
	done chan struct{}
	font *font.ScalableFont
	err  error
}

func (loader *fontLoader) Font() (*font.ScalableFont, error) {
	return loader.Await(context.Background())
}

func (loader *fontLoader) Await(ctx context.Context) (*font.ScalableFont, error) {
	select {
	case <-loader.done:
		return loader.font, loader.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// ResolveFont resolves a font, trying in order
//
//   - the registry, if non-nil,
//   - name as a file path, optionally relative to fontdir,
//   - name as a system font (see github.com/flopp/go-findfont).
//
// Fonts found are stored into the registry. If no font is found, the promise
// delivers the fallback font together with an error of code core.EMISSING.
func ResolveFont(name string, fontdir string, registry *font.Registry) FontPromise {
	loader := &fontLoader{done: make(chan struct{})}
	go func() {
		defer close(loader.done)
		loader.font, loader.err = resolve(name, fontdir, registry)
	}()
	return loader
}

func resolve(name string, fontdir string, registry *font.Registry) (*font.ScalableFont, error) {
	if registry != nil {
		if f, err := registry.Font(name); err == nil {
			return f, nil
		}
	}
	var f *font.ScalableFont
	var err error
	for _, fpath := range candidatePaths(name, fontdir) {
		if _, e := os.Stat(fpath); e != nil {
			continue
		}
		tracer().Debugf("found font as file %s", fpath)
		if f, err = font.LoadOpenTypeFont(fpath); err == nil {
			break
		}
	}
	if f == nil && err == nil {
		fpath, e := findfont.Find(name) // try to find as system font
		if e == nil && fpath != "" {
			tracer().Debugf("%s is a system font at %s", name, fpath)
			f, err = font.LoadOpenTypeFont(fpath)
		}
	}
	if f == nil {
		if err == nil {
			err = NotFound(name)
		}
		tracer().Infof("using fallback font for %s", name)
		return font.FallbackFont(), err
	}
	if registry != nil {
		registry.StoreFont(name, f)
	}
	return f, nil
}

func candidatePaths(name string, fontdir string) []string {
	if name == "" {
		return nil
	}
	paths := []string{name}
	if fontdir != "" && !filepath.IsAbs(name) {
		paths = append(paths, filepath.Join(fontdir, name))
	}
	return paths
}
