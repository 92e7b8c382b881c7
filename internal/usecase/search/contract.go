package search

import (
	"context"

	"github.com/kailas-cloud/xfind/internal/domain/search/query"
	"github.com/kailas-cloud/xfind/internal/domain/search/result"
)

// Backend executes a composed query against the search engine.
type Backend interface {
	Execute(ctx context.Context, q *query.Query) (*result.Raw, error)
}

// Translator formats a facet label. Untranslated keys are returned unchanged.
type Translator interface {
	Translate(key string) string
}

// TranslatorFunc adapts a function to Translator.
type TranslatorFunc func(key string) string

// Translate implements Translator.
func (f TranslatorFunc) Translate(key string) string { return f(key) }

// Identity returns keys unchanged.
var Identity Translator = TranslatorFunc(func(key string) string { return key })
