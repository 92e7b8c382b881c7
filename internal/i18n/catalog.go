// Package i18n translates facet keys into display labels.
package i18n

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"
)

// Config holds catalog settings.
type Config struct {
	Path      string // YAML file: {lang: {key: text}}, nested keys joined with "."
	Language  string // BCP 47 tag, default "en"
	Namespace string // prefix of every lookup key, e.g. "facets"
	// Humanize turns untranslated keys into title case ("pub_year" → "Pub Year")
	// instead of returning them unchanged.
	Humanize bool
	Logger   *zap.Logger
}

// Catalog looks up "<namespace>.<key>" in a message catalog. It is safe for
// concurrent use; Reload swaps the catalog atomically.
type Catalog struct {
	path      string
	lang      language.Tag
	namespace string
	humanize  bool
	logger    *zap.Logger

	printer atomic.Pointer[message.Printer]
}

// New creates a Catalog and loads Path when set.
func New(cfg Config) (*Catalog, error) {
	tag := language.English
	if cfg.Language != "" {
		t, err := language.Parse(cfg.Language)
		if err != nil {
			return nil, fmt.Errorf("parse language %q: %w", cfg.Language, err)
		}
		tag = t
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Catalog{
		path:      cfg.Path,
		lang:      tag,
		namespace: strings.Trim(cfg.Namespace, "."),
		humanize:  cfg.Humanize,
		logger:    logger,
	}
	if c.path == "" {
		return c, c.load(nil)
	}
	if err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}

// NewFromEntries creates a Catalog from in-memory entries (lang → key → text).
func NewFromEntries(lang, namespace string, entries map[string]map[string]string) (*Catalog, error) {
	c, err := New(Config{Language: lang, Namespace: namespace})
	if err != nil {
		return nil, err
	}
	return c, c.load(entries)
}

// Translate returns the label for key. A lookup that comes back unchanged
// means "no translation" and yields the key itself.
func (c *Catalog) Translate(key string) string {
	lookup := key
	if c.namespace != "" {
		lookup = c.namespace + "." + key
	}
	if p := c.printer.Load(); p != nil {
		if out := p.Sprintf(lookup); out != lookup {
			return out
		}
	}
	if c.humanize {
		return cases.Title(c.lang).String(strings.ReplaceAll(key, "_", " "))
	}
	return key
}

// Language returns the catalog language.
func (c *Catalog) Language() language.Tag { return c.lang }

// Reload re-reads the catalog file. On error the previous catalog stays.
func (c *Catalog) Reload() error {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return fmt.Errorf("read translations: %w", err)
	}
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse translations: %w", err)
	}

	entries := make(map[string]map[string]string, len(doc))
	for lang, tree := range doc {
		flat := make(map[string]string)
		flatten("", tree, flat)
		entries[lang] = flat
	}
	return c.load(entries)
}

func (c *Catalog) load(entries map[string]map[string]string) error {
	b := catalog.NewBuilder(catalog.Fallback(c.lang))
	langs := make([]string, 0, len(entries))
	for l := range entries {
		langs = append(langs, l)
	}
	sort.Strings(langs)

	for _, l := range langs {
		tag, err := language.Parse(l)
		if err != nil {
			return fmt.Errorf("translations: invalid language %q: %w", l, err)
		}
		for key, text := range entries[l] {
			// Texts are literal; the printer treats them as format strings.
			if err := b.SetString(tag, key, strings.ReplaceAll(text, "%", "%%")); err != nil {
				return fmt.Errorf("translations: %s/%s: %w", l, key, err)
			}
		}
	}
	c.printer.Store(message.NewPrinter(c.lang, message.Catalog(b)))
	return nil
}

func flatten(prefix string, v any, out map[string]string) {
	switch t := v.(type) {
	case map[string]any:
		for k, child := range t {
			key := k
			if prefix != "" {
				key = prefix + "." + k
			}
			flatten(key, child, out)
		}
	case nil:
	default:
		if prefix != "" {
			out[prefix] = fmt.Sprint(t)
		}
	}
}
