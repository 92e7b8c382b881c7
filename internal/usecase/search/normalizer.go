package search

import (
	"fmt"

	"github.com/kailas-cloud/xfind/internal/domain/document"
	"github.com/kailas-cloud/xfind/internal/domain/search/facet"
	"github.com/kailas-cloud/xfind/internal/domain/search/result"
)

// Normalizer shapes raw backend responses. It performs no I/O.
type Normalizer struct {
	model      *document.Model
	translator Translator
}

// NewNormalizer creates a Normalizer. A nil translator keeps keys as labels.
func NewNormalizer(model *document.Model, tr Translator) *Normalizer {
	if tr == nil {
		tr = Identity
	}
	return &Normalizer{model: model, translator: tr}
}

// Normalize relabels facets through the alias table of facets, translates
// labels, attaches default buckets, drops empty facets and hydrates
// documents in engine order.
func (n *Normalizer) Normalize(raw *result.Raw, facets *facet.Set) (*result.Result, error) {
	if raw == nil {
		raw = &result.Raw{}
	}

	docs := make([]document.Document, 0, len(raw.Docs))
	for i, m := range raw.Docs {
		doc, err := n.model.Hydrate(m)
		if err != nil {
			return nil, fmt.Errorf("hydrate document %d: %w", i, err)
		}
		docs = append(docs, doc)
	}

	hl := raw.Highlighting
	if hl == nil {
		hl = result.Highlighting{}
	}

	return &result.Result{
		Documents:    docs,
		Facets:       n.facets(raw.Facets, facets),
		Highlighting: hl,
		TotalFound:   max(raw.NumFound, 0),
	}, nil
}

func (n *Normalizer) facets(raw []result.RawFacet, set *facet.Set) []result.Facet {
	out := make([]result.Facet, 0, len(raw))
	for _, rf := range raw {
		if len(rf.Values) == 0 {
			continue
		}
		key := rf.Key
		if key == "" {
			key = set.NameFor(rf.Field)
		}
		f := result.Facet{
			Key:    key,
			Label:  n.label(key),
			Values: rf.Values,
		}
		if def, ok := set.DefaultFor(key); ok {
			f.Default = &def
		}
		out = append(out, f)
	}
	return out
}

func (n *Normalizer) label(key string) string {
	if l := n.translator.Translate(key); l != "" {
		return l
	}
	return key
}
