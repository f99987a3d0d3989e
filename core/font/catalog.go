package font

import (
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/derekparker/trie"
	"github.com/npillmayer/hieroset/core"
	"golang.org/x/text/unicode/norm"
)

// Catalog maps glyph names to the text drawn for them in the hieroglyphic font.
// Names are catalog numbers (e.g. "A1", "N35") or mnemonic aliases (e.g. "ra"),
// which resolve to the catalog number they stand for. Names are case sensitive
// and NFC-normalized.
//
// A Catalog is safe for concurrent use.
type Catalog struct {
	mx      sync.RWMutex
	index   *trie.Trie
	entries int
}

type catalogEntry struct {
	Canonical string // catalog number the key resolves to
	Text      string // code points to draw
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{index: trie.New()}
}

func catalogKey(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// Add enters a glyph into the catalog, together with any number of aliases.
// Re-adding a name replaces the previous entry.
func (c *Catalog) Add(name string, text string, aliases ...string) {
	key := catalogKey(name)
	if key == "" || text == "" {
		tracer().Errorf("catalog refuses empty glyph entry %q", name)
		return
	}
	entry := catalogEntry{Canonical: key, Text: text}
	c.mx.Lock()
	defer c.mx.Unlock()
	c.put(key, entry)
	for _, a := range aliases {
		if akey := catalogKey(a); akey != "" {
			c.put(akey, entry)
		}
	}
}

func (c *Catalog) put(key string, entry catalogEntry) {
	if _, ok := c.index.Find(key); !ok {
		c.entries++
	}
	c.index.Add(key, entry)
}

// Alias makes alias resolve to the same glyph as name. It returns an error with
// code core.EMISSING if name is unknown.
func (c *Catalog) Alias(alias, name string) error {
	c.mx.Lock()
	defer c.mx.Unlock()
	node, ok := c.index.Find(catalogKey(name))
	if !ok {
		return core.Error(core.EMISSING, "cannot alias %q to unknown glyph %q", alias, name)
	}
	c.put(catalogKey(alias), node.Meta().(catalogEntry))
	return nil
}

// Lookup returns the text for a glyph name.
func (c *Catalog) Lookup(name string) (string, bool) {
	if c == nil {
		return "", false
	}
	c.mx.RLock()
	defer c.mx.RUnlock()
	node, ok := c.index.Find(catalogKey(name))
	if !ok {
		return "", false
	}
	return node.Meta().(catalogEntry).Text, true
}

// Canonical returns the catalog number a name or alias resolves to. Unknown names
// are returned unchanged.
func (c *Catalog) Canonical(name string) string {
	key := catalogKey(name)
	c.mx.RLock()
	defer c.mx.RUnlock()
	if node, ok := c.index.Find(key); ok {
		return node.Meta().(catalogEntry).Canonical
	}
	return key
}

// Suggest returns up to max known names starting with prefix, sorted.
// It is used to produce helpful messages for unresolvable names.
func (c *Catalog) Suggest(prefix string, max int) []string {
	c.mx.RLock()
	keys := c.index.PrefixSearch(catalogKey(prefix))
	c.mx.RUnlock()
	sort.Strings(keys)
	if max > 0 && len(keys) > max {
		keys = keys[:max]
	}
	return keys
}

// Len returns the number of names (including aliases) in the catalog.
func (c *Catalog) Len() int {
	c.mx.RLock()
	defer c.mx.RUnlock()
	return c.entries
}

// --- Loading ---------------------------------------------------------------

// catalogFile is the TOML layout of catalog files:
//
//	[glyphs]
//	A1  = "U+13000"
//	N35 = "U+13216"
//
//	[aliases]
//	n = "N35"
//
// Glyph values are either literal text or blank-separated "U+XXXX" code points.
type catalogFile struct {
	Glyphs  map[string]string `toml:"glyphs"`
	Aliases map[string]string `toml:"aliases"`
}

// LoadCatalog reads a catalog in TOML format.
func LoadCatalog(r io.Reader) (*Catalog, error) {
	var cf catalogFile
	if _, err := toml.NewDecoder(r).Decode(&cf); err != nil {
		return nil, core.WrapError(err, core.EINVALID, "cannot decode glyph catalog")
	}
	c := NewCatalog()
	for name, value := range cf.Glyphs {
		text, err := ParseCodepoints(value)
		if err != nil {
			return nil, core.WrapError(err, core.EINVALID, "glyph catalog entry %s", name)
		}
		c.Add(name, text)
	}
	for alias, name := range cf.Aliases {
		if err := c.Alias(alias, name); err != nil {
			return nil, err
		}
	}
	tracer().Infof("glyph catalog loaded with %d names", c.Len())
	return c, nil
}

// ParseCodepoints converts a catalog value to text. Values consisting of
// "U+XXXX" tokens are converted rune by rune, everything else is taken literally.
func ParseCodepoints(value string) (string, error) {
	fields := strings.Fields(value)
	if len(fields) == 0 {
		return "", core.Error(core.EINVALID, "empty code point value")
	}
	if !strings.HasPrefix(fields[0], "U+") && !strings.HasPrefix(fields[0], "u+") {
		return value, nil
	}
	var b strings.Builder
	for _, f := range fields {
		if len(f) < 3 || (f[0] != 'U' && f[0] != 'u') || f[1] != '+' {
			return "", core.Error(core.EINVALID, "malformed code point %q", f)
		}
		n, err := strconv.ParseUint(f[2:], 16, 32)
		if err != nil {
			return "", core.WrapError(err, core.EINVALID, "malformed code point %q", f)
		}
		b.WriteRune(rune(n))
	}
	return b.String(), nil
}
