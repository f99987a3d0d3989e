package main

import (
	"context"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/npillmayer/hieroset/core"
	"github.com/npillmayer/hieroset/core/font"
	"github.com/npillmayer/hieroset/core/locate/resources"
	"github.com/npillmayer/hieroset/core/parameters"
	"github.com/npillmayer/hieroset/engine/typeset"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
)

// traceKeys are the tracers of the packages of this module.
var traceKeys = []string{
	"hieroset.cli",
	"hieroset.core",
	"hieroset.fonts",
	"hieroset.gfx",
	"hieroset.input",
	"hieroset.oracle",
	"hieroset.resources",
	"hieroset.tree",
	"hieroset.typeset",
}

// loadConfig reads a TOML configuration file into a flat configuration.
// Nested tables become dotted keys. An empty path yields the defaults.
func loadConfig(path string) (testconfig.Conf, error) {
	conf := testconfig.Conf{
		"tracing.adapter": "go",
	}
	if path == "" {
		return conf, nil
	}
	var tree map[string]interface{}
	if _, err := toml.DecodeFile(path, &tree); err != nil {
		return nil, core.WrapError(err, core.EINVALID, "cannot read configuration %s", path)
	}
	flatten("", tree, conf)
	return conf, nil
}

func flatten(prefix string, tree map[string]interface{}, conf testconfig.Conf) {
	for k, v := range tree {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if sub, ok := v.(map[string]interface{}); ok {
			flatten(key, sub, conf)
			continue
		}
		conf[strings.ToLower(key)] = v
	}
}

// setupTracing routes tracing to the Go logger. level applies to every tracer
// without a level of its own in conf.
func setupTracing(conf testconfig.Conf, level string) error {
	for _, key := range traceKeys {
		if !conf.IsSet("trace." + key) {
			conf["trace."+key] = level
		}
	}
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		return core.WrapError(err, core.EINVALID, "error configuring tracing")
	}
	tracing.SetTraceSelector(trace2go.Selector())
	for _, key := range traceKeys {
		tracing.Select(key).SetTraceLevel(tracing.TraceLevelFromString(conf.GetString("trace." + key)))
	}
	return nil
}

// newTypesetter creates a typesetter from the settings in conf: parameters,
// sign font, note font and glyph catalog. Fonts are resolved concurrently.
func newTypesetter(ctx context.Context, conf testconfig.Conf) (*typeset.Typesetter, error) {
	params, err := parameters.FromConfig(conf)
	if err != nil {
		return nil, err
	}
	opts := []typeset.Option{typeset.WithParams(params)}
	fontdir := conf.GetString("hieroset.fontdir")
	registry := font.NewRegistry()
	var signFont, noteFont resources.FontPromise
	if name := conf.GetString("hieroset.font"); name != "" {
		signFont = resources.ResolveFont(name, fontdir, registry)
	}
	if name := conf.GetString("hieroset.notefont"); name != "" {
		noteFont = resources.ResolveFont(name, fontdir, registry)
	}
	if path := conf.GetString("hieroset.catalog"); path != "" {
		cat, err := loadCatalog(path)
		if err != nil {
			return nil, err
		}
		opts = append(opts, typeset.WithCatalog(cat))
	}
	if signFont != nil {
		f, err := signFont.Await(ctx)
		if err != nil {
			return nil, err
		}
		tracer().Infof("sign font is %s", f)
		opts = append(opts, typeset.WithFont(f))
	}
	if noteFont != nil {
		f, err := noteFont.Await(ctx)
		if err != nil {
			return nil, err
		}
		opts = append(opts, typeset.WithNoteFont(f))
	}
	return typeset.New(opts...), nil
}

func loadCatalog(path string) (*font.Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, core.WrapError(err, core.EMISSING, "cannot open glyph catalog %s", path)
	}
	defer f.Close()
	return font.LoadCatalog(f)
}
