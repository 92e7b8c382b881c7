package xfind

import (
	"fmt"
	"reflect"

	"github.com/kailas-cloud/xfind/internal/domain/document"
	searchuc "github.com/kailas-cloud/xfind/internal/usecase/search"
)

// IndexOption configures an Index.
type IndexOption func(*indexConfig)

type indexConfig struct {
	facetDefaults map[string]string
	modelOpts     []document.ModelOption
}

// FacetDefault marks value as the default bucket of facet name.
func FacetDefault(name, value string) IndexOption {
	return func(c *indexConfig) {
		if c.facetDefaults == nil {
			c.facetDefaults = make(map[string]string)
		}
		c.facetDefaults[name] = value
	}
}

// Fillable restricts FirstOrNew attributes to keys.
func Fillable(keys ...string) IndexOption {
	return func(c *indexConfig) {
		c.modelOpts = append(c.modelOpts, document.WithFillable(keys...))
	}
}

// Guarded rejects every FirstOrNew attribute with ErrMassAssignment.
func Guarded() IndexOption {
	return func(c *indexConfig) {
		c.modelOpts = append(c.modelOpts, document.WithGuard(document.GuardAll()))
	}
}

// Defaults sets values FirstOrNew applies to missing or empty attributes.
func Defaults(values map[string]any) IndexOption {
	return func(c *indexConfig) {
		c.modelOpts = append(c.modelOpts, document.WithDefaults(values))
	}
}

// WithoutTimestamps stops treating created_at, updated_at and indexed_at as dates.
func WithoutTimestamps() IndexOption {
	return func(c *indexConfig) {
		c.modelOpts = append(c.modelOpts, document.WithTimestamps(document.NoTimestamps{}))
	}
}

// Index is a typed view of the search core. Schema is inferred from T's
// struct tags at construction time.
type Index[T any] struct {
	client        *Client
	model         *document.Model
	svc           *searchuc.Service
	facetDefaults map[string]string
	convert       func(Document) (T, error)
}

// NewIndex creates a typed index handle. T must be a struct with xfind tags,
// or Document for the client schema. Schema is parsed once and cached.
func NewIndex[T any](client *Client, opts ...IndexOption) (*Index[T], error) {
	if reflect.TypeFor[T]() == reflect.TypeFor[Document]() {
		idx, ok := any(client.docs).(*Index[T])
		if !ok {
			return nil, fmt.Errorf("xfind: document index unavailable")
		}
		if len(opts) == 0 {
			return idx, nil
		}
		return newIndex(client, client.docs.model.Schema(), idx.convert, opts...), nil
	}

	meta, err := parseSchema[T]()
	if err != nil {
		return nil, fmt.Errorf("new index: %w", err)
	}
	convert := func(doc Document) (T, error) {
		item, ok := meta.fromDocument(doc).(T)
		if !ok {
			var zero T
			return zero, fmt.Errorf("xfind: type assertion failed")
		}
		return item, nil
	}
	return newIndex(client, meta.schema, convert, opts...), nil
}

func newIndex[T any](client *Client, schema Schema, convert func(Document) (T, error), opts ...IndexOption) *Index[T] {
	var cfg indexConfig
	for _, o := range opts {
		o(&cfg)
	}
	model := document.NewModel(schema, cfg.modelOpts...)
	return &Index[T]{
		client:        client,
		model:         model,
		svc:           searchuc.New(client.backend, searchuc.NewNormalizer(model, client.translator), client.logger),
		facetDefaults: cfg.facetDefaults,
		convert:       convert,
	}
}

func documentIdentity(doc Document) (Document, error) { return doc, nil }

// Schema returns the index schema.
func (idx *Index[T]) Schema() Schema { return idx.model.Schema() }

// Query starts a fluent query over this index.
func (idx *Index[T]) Query() *Builder[T] {
	return newBuilder(idx)
}
