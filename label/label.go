// Package label localizes Caliper action labels.
//
// Labels are keyed by canonical action key and loaded from per-locale YAML
// files into an x/text catalog. A Catalog is an explicit value passed to
// whoever renders labels; nothing is registered process-wide.
package label

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"

	"github.com/c360studio/caliper/vocabulary/caliper"
)

// BaseLocale is the locale every other locale falls back to.
const BaseLocale = "en"

//go:embed locales/*.yaml
var embedded embed.FS

type localeFile struct {
	Locale   string            `yaml:"locale"`
	Messages map[string]string `yaml:"messages"`
}

// Catalog holds the action labels of every loaded locale.
type Catalog struct {
	builder  *catalog.Builder
	tags     []language.Tag
	matcher  language.Matcher
	messages map[language.Tag]map[string]string
}

// Load returns the catalog built from the embedded locale files.
func Load() (*Catalog, error) {
	return LoadFromFS(embedded)
}

// LoadFromFS builds a catalog from locales/*.yaml in fsys. The base locale
// must be present.
func LoadFromFS(fsys fs.FS) (*Catalog, error) {
	paths, err := fs.Glob(fsys, "locales/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locale files: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no locale files found")
	}
	sort.Strings(paths)

	base := language.Make(BaseLocale)
	c := &Catalog{
		builder:  catalog.NewBuilder(catalog.Fallback(base)),
		messages: make(map[language.Tag]map[string]string),
	}

	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("read locale %s: %w", p, err)
		}
		if err := c.add(p, data); err != nil {
			return nil, err
		}
	}

	if _, ok := c.messages[base]; !ok {
		return nil, fmt.Errorf("base locale %s is not defined", BaseLocale)
	}

	// The matcher prefers its first tag, so the base locale leads.
	sort.Slice(c.tags, func(i, j int) bool {
		if c.tags[i] == base || c.tags[j] == base {
			return c.tags[i] == base
		}
		return c.tags[i].String() < c.tags[j].String()
	})
	c.matcher = language.NewMatcher(c.tags)
	return c, nil
}

func (c *Catalog) add(p string, data []byte) error {
	var file localeFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse locale %s: %w", p, err)
	}

	name := strings.TrimSuffix(path.Base(p), path.Ext(p))
	if file.Locale != name {
		return fmt.Errorf("locale %s: locale %q must match file name %q", p, file.Locale, name)
	}
	tag, err := language.Parse(file.Locale)
	if err != nil {
		return fmt.Errorf("locale %s: %w", p, err)
	}
	if _, dup := c.messages[tag]; dup {
		return fmt.Errorf("locale %s: %s already loaded", p, tag)
	}

	msgs := make(map[string]string, len(file.Messages))
	for key, text := range file.Messages {
		if _, ok := caliper.ActionForKey(key); !ok {
			return fmt.Errorf("locale %s: unknown action key %q", p, key)
		}
		if err := c.builder.SetString(tag, key, text); err != nil {
			return fmt.Errorf("locale %s: set %q: %w", p, key, err)
		}
		msgs[key] = text
	}

	c.messages[tag] = msgs
	c.tags = append(c.tags, tag)
	return nil
}

// Languages returns the loaded locales, base locale first.
func (c *Catalog) Languages() []language.Tag {
	return append([]language.Tag(nil), c.tags...)
}

// Match resolves a requested locale such as "es-MX" to the closest loaded
// one. Unparseable or unsupported input resolves to the base locale.
func (c *Catalog) Match(locale string) language.Tag {
	desired, _, err := language.ParseAcceptLanguage(locale)
	if err != nil || len(desired) == 0 {
		return c.tags[0]
	}
	_, idx, _ := c.matcher.Match(desired...)
	return c.tags[idx]
}

// Printer returns an x/text printer over this catalog for tag.
func (c *Catalog) Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag, message.Catalog(c.builder))
}

// Label returns the localized label of a in the locale closest to tag.
// Actions without a label in that locale use the base locale, then the
// action token itself.
func (c *Catalog) Label(tag language.Tag, a caliper.Action) string {
	if !a.IsValid() {
		return string(a)
	}
	key := a.Key()
	_, idx, _ := c.matcher.Match(tag)
	if text, ok := c.messages[c.tags[idx]][key]; ok {
		return text
	}
	if text, ok := c.messages[c.tags[0]][key]; ok {
		return text
	}
	return string(a)
}

// Missing returns the canonical action keys tag has no label for.
func (c *Catalog) Missing(tag language.Tag) []string {
	msgs := c.messages[tag]
	var out []string
	for _, a := range caliper.Actions() {
		if _, ok := msgs[a.Key()]; !ok {
			out = append(out, a.Key())
		}
	}
	return out
}
