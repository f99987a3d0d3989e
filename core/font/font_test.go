package font

import (
	"strings"
	"testing"

	"github.com/npillmayer/hieroset/core"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeFont(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hieroset.fonts")
	defer teardown()
	//
	assert.Equal(t, "newgardinerbmp", NormalizeFontname("fonts/NewGardinerBMP.ttf"))
	assert.Equal(t, "gill_sans_mt", NormalizeFontname("Gill Sans MT"))
}

func TestFallbackFont(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hieroset.fonts")
	defer teardown()
	//
	f := FallbackFont()
	require.NotNil(t, f.SFNT)
	assert.True(t, f.HasGlyphs(FallbackGlyph))
	assert.True(t, f.HasGlyphs("A=("))
	assert.False(t, f.HasGlyphs("\U00013000"), "Go Sans has no hieroglyphs")
	assert.False(t, f.HasGlyphs(""))
}

func TestRegistry(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hieroset.fonts")
	defer teardown()
	//
	r := NewRegistry()
	r.StoreFont("Go Sans.ttf", FallbackFont())
	f, err := r.Font("go sans")
	require.NoError(t, err)
	assert.Same(t, FallbackFont(), f)
	f, err = r.Font("NewGardiner")
	assert.Equal(t, core.EMISSING, core.Code(err))
	assert.Same(t, FallbackFont(), f)
}

func TestCatalogLookup(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hieroset.fonts")
	defer teardown()
	//
	c := NewCatalog()
	c.Add("A1", "\U00013000")
	c.Add("D21", "\U0001308B", "r")
	c.Add("D2", "\U00013077", "Hr")
	require.NoError(t, c.Alias("ra", "D21"))
	assert.Equal(t, 6, c.Len(), "names and aliases")
	//
	text, ok := c.Lookup("r")
	require.True(t, ok)
	assert.Equal(t, "\U0001308B", text)
	assert.Equal(t, "D21", c.Canonical("ra"))
	assert.Equal(t, "X99", c.Canonical("X99"))
	_, ok = c.Lookup("X99")
	assert.False(t, ok)
	assert.Equal(t, []string{"D2", "D21"}, c.Suggest("D", 0))
	assert.Len(t, c.Suggest("", 2), 2)
	//
	err := c.Alias("x", "unknown")
	assert.Equal(t, core.EMISSING, core.Code(err))
}

const testCatalog = `
[glyphs]
A1  = "U+13000"
N35 = "U+13216"
two = "U+13000 U+13216"
lit = "("

[aliases]
n = "N35"
`

func TestLoadCatalog(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hieroset.fonts")
	defer teardown()
	//
	c, err := LoadCatalog(strings.NewReader(testCatalog))
	require.NoError(t, err)
	text, ok := c.Lookup("n")
	require.True(t, ok)
	assert.Equal(t, "\U00013216", text)
	text, _ = c.Lookup("two")
	assert.Equal(t, "\U00013000\U00013216", text)
	text, _ = c.Lookup("lit")
	assert.Equal(t, "(", text)
	//
	_, err = LoadCatalog(strings.NewReader("[glyphs]\nA1 = \"U+zz\"\n"))
	assert.Equal(t, core.EINVALID, core.Code(err))
	_, err = LoadCatalog(strings.NewReader("[aliases]\nn = \"N35\"\n"))
	assert.Equal(t, core.EMISSING, core.Code(err))
}
