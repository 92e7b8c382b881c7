package xfind

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/kailas-cloud/xfind/internal/domain"
	"github.com/kailas-cloud/xfind/internal/domain/search/expression"
	"github.com/kailas-cloud/xfind/internal/domain/search/facet"
	"github.com/kailas-cloud/xfind/internal/domain/search/page"
	"github.com/kailas-cloud/xfind/internal/domain/search/query"
)

// Builder is a fluent builder for typed search queries. It is not safe for
// concurrent use.
//
// Configuration mistakes are recorded instead of returned: the first one is
// reported by Err and by every executing method, and the backend is never
// called while it is set.
type Builder[T any] struct {
	idx     *Index[T]
	q       *query.Query
	perPage int
	page    int
	err     error
}

func newBuilder[T any](idx *Index[T]) *Builder[T] {
	return &Builder[T]{idx: idx, q: query.New()}
}

func (b *Builder[T]) fail(err error) {
	if err != nil && b.err == nil {
		b.err = err
	}
}

// Err returns the first configuration error, if any.
func (b *Builder[T]) Err() error { return b.err }

// Text returns the composed query expression.
func (b *Builder[T]) Text() string { return b.q.Text() }

// Filters returns the named filter queries.
func (b *Builder[T]) Filters() map[string]string { return b.q.FilterMap() }

// String returns the canonical form of the composed query.
func (b *Builder[T]) String() string { return b.q.String() }

// Where adds field:value joined with AND.
func (b *Builder[T]) Where(field, value string) *Builder[T] {
	b.q.Expression().Append(expression.Clause(field, value), expression.And)
	return b
}

// OrWhere adds field:value joined with OR.
func (b *Builder[T]) OrWhere(field, value string) *Builder[T] {
	b.q.Expression().Append(expression.Clause(field, value), expression.Or)
	return b
}

// WhereOp adds field:value wrapped by op, joined with AND. An And or Or op
// is its own connector, so WhereOp(f, And, v) is equivalent to Where(f, v).
func (b *Builder[T]) WhereOp(field string, op Connector, value string) *Builder[T] {
	b.q.Expression().Append(expression.OperatorClause(field, op, value), expression.And)
	return b
}

// OrWhereOp adds field:value wrapped by op, joined with OR. An And or Or op
// is its own connector.
func (b *Builder[T]) OrWhereOp(field string, op Connector, value string) *Builder[T] {
	b.q.Expression().Append(expression.OperatorClause(field, op, value), expression.Or)
	return b
}

// WhereClause adds a clause from 2 (field, value) or 3 (field, op, value)
// arguments, joined with AND. Any other arity is a configuration error.
func (b *Builder[T]) WhereClause(args ...string) *Builder[T] {
	return b.appendClause(expression.And, args)
}

// OrWhereClause is WhereClause joined with OR.
func (b *Builder[T]) OrWhereClause(args ...string) *Builder[T] {
	return b.appendClause(expression.Or, args)
}

func (b *Builder[T]) appendClause(c Connector, args []string) *Builder[T] {
	clause, err := expression.BuildClause(args...)
	if err != nil {
		b.fail(err)
		return b
	}
	b.q.Expression().Append(clause, c)
	return b
}

// WhereGroup adds a parenthesized sub-expression built by fn, joined with AND.
func (b *Builder[T]) WhereGroup(fn func(*Expression)) *Builder[T] {
	b.q.Expression().Append(expression.Group(fn), expression.And)
	return b
}

// OrWhereGroup adds a parenthesized sub-expression built by fn, joined with OR.
func (b *Builder[T]) OrWhereGroup(fn func(*Expression)) *Builder[T] {
	b.q.Expression().Append(expression.Group(fn), expression.Or)
	return b
}

// WhereKey matches the document whose key equals id.
func (b *Builder[T]) WhereKey(id string) *Builder[T] {
	return b.Where(b.idx.Schema().Key(), expression.Quote(id))
}

// AddFilter adds a named filter query. An empty name gets a generated one;
// reusing a name replaces that filter.
func (b *Builder[T]) AddFilter(expr, name string) *Builder[T] {
	_, err := b.q.AddFilter(expr, name)
	b.fail(err)
	return b
}

// AddFacet requests facet counts for field, reported under name.
// An empty field means the facet is named after its field.
func (b *Builder[T]) AddFacet(name, field string, settings *FacetSettings) *Builder[T] {
	b.fail(b.q.Facets().Attach(name, field, settings))
	return b
}

// AddFacetOptions is AddFacet with settings given as an option map
// (prefix, contains, sort, limit, minCount, default, ...).
func (b *Builder[T]) AddFacetOptions(name, field string, opts map[string]any) *Builder[T] {
	settings, err := facet.FromOptions(opts)
	if err != nil {
		b.fail(err)
		return b
	}
	return b.AddFacet(name, field, settings)
}

// WithFacets requests every facet declared by the schema. When settings is
// given, all of them share it and the index facet defaults are not applied.
func (b *Builder[T]) WithFacets(settings ...*FacetSettings) *Builder[T] {
	if len(settings) > 0 && settings[0] != nil {
		for _, name := range b.idx.Schema().Facets() {
			b.AddFacet(name, "", settings[0])
		}
		return b
	}
	for _, name := range b.idx.Schema().Facets() {
		settings := facet.NewSettings()
		if def, ok := b.idx.facetDefaults[name]; ok {
			settings.SetDefault(def)
		}
		b.AddFacet(name, "", settings)
	}
	return b
}

// OrderBy sorts by field. Ordering by the same field again replaces it.
func (b *Builder[T]) OrderBy(field string, dir Direction) *Builder[T] {
	b.fail(b.q.OrderBy(field, dir))
	return b
}

// Limit sets the page size and the 1-based page used by Get.
func (b *Builder[T]) Limit(perPage, pageNum int) *Builder[T] {
	if perPage <= 0 {
		b.fail(domain.Configf("per page must be positive, got %d", perPage))
		return b
	}
	b.perPage = perPage
	b.page = pageNum
	return b
}

// Select restricts the returned fields.
func (b *Builder[T]) Select(fields ...string) *Builder[T] {
	b.q.Select(fields...)
	return b
}

// Highlight enables highlighting on fields, or on the schema highlight
// fields when none are given.
func (b *Builder[T]) Highlight(fields ...string) *Builder[T] {
	if len(fields) == 0 {
		fields = b.idx.Schema().Highlight()
	}
	b.q.SetHighlight(fields...)
	return b
}

// Get executes the query and returns one window of results.
func (b *Builder[T]) Get(ctx context.Context) (_ *Result[T], err error) {
	defer b.observe("get", time.Now(), &err)
	if b.err != nil {
		return nil, b.err
	}

	q := b.q.Clone()
	if b.perPage > 0 {
		if err := q.SetRows(b.perPage); err != nil {
			return nil, err
		}
		q.SetStart(page.Offset(b.perPage, b.page))
	}

	res, err := b.idx.svc.Search(ctx, q)
	if err != nil {
		return nil, err
	}
	items, err := b.convertAll(res.Documents)
	if err != nil {
		return nil, err
	}
	return &Result[T]{
		Items:        items,
		Facets:       res.Facets,
		Highlighting: res.Highlighting,
		Total:        res.TotalFound,
	}, nil
}

// Paginate executes the query for one page and returns it with navigation
// metadata, facets and highlighting.
func (b *Builder[T]) Paginate(ctx context.Context, perPage, current int) (_ *Page[T], err error) {
	defer b.observe("paginate", time.Now(), &err)
	if b.err != nil {
		return nil, b.err
	}

	p, err := b.idx.svc.Paginate(ctx, b.q.Clone(), perPage, current)
	if err != nil {
		return nil, err
	}
	return page.Map(p, b.idx.convert)
}

// First returns the first match. ok is false when nothing matches.
func (b *Builder[T]) First(ctx context.Context) (item T, ok bool, err error) {
	defer b.observe("first", time.Now(), &err)
	if b.err != nil {
		return item, false, b.err
	}
	return b.first(ctx, b.q)
}

// FirstOrFail returns the first match or a NotFoundError.
func (b *Builder[T]) FirstOrFail(ctx context.Context) (T, error) {
	item, ok, err := b.First(ctx)
	if err != nil {
		return item, err
	}
	if !ok {
		return item, domain.NewNotFound(b.q.Text())
	}
	return item, nil
}

// Find returns the document whose key equals id, within the current query.
func (b *Builder[T]) Find(ctx context.Context, id string) (item T, ok bool, err error) {
	defer b.observe("find", time.Now(), &err)
	if b.err != nil {
		return item, false, b.err
	}
	q := b.q.Clone()
	q.Expression().Append(expression.Clause(b.idx.Schema().Key(), expression.Quote(id)), expression.And)
	return b.first(ctx, q)
}

// FindOrFail is Find with a NotFoundError when nothing matches.
func (b *Builder[T]) FindOrFail(ctx context.Context, id string) (T, error) {
	item, ok, err := b.Find(ctx, id)
	if err != nil {
		return item, err
	}
	if !ok {
		return item, domain.NewNotFound(id)
	}
	return item, nil
}

// FirstOrNew returns the first document whose attributes equal attrs, or a
// new, not yet indexed one filled from attrs through the index guard and
// defaults. Nothing is written to the engine.
func (b *Builder[T]) FirstOrNew(ctx context.Context, attrs map[string]any) (item T, err error) {
	defer b.observe("first_or_new", time.Now(), &err)
	if b.err != nil {
		return item, b.err
	}

	q := b.q.Clone()
	for _, k := range slices.Sorted(maps.Keys(attrs)) {
		q.Expression().Append(expression.Clause(k, expression.Quote(fmt.Sprint(attrs[k]))), expression.And)
	}
	found, ok, err := b.first(ctx, q)
	if err != nil || ok {
		return found, err
	}

	doc, err := b.idx.model.Fill(attrs)
	if err != nil {
		return item, err
	}
	return b.idx.convert(doc)
}

func (b *Builder[T]) first(ctx context.Context, q *query.Query) (T, bool, error) {
	var zero T
	doc, ok, err := b.idx.svc.First(ctx, q)
	if err != nil || !ok {
		return zero, false, err
	}
	item, err := b.idx.convert(doc)
	if err != nil {
		return zero, false, err
	}
	return item, true, nil
}

func (b *Builder[T]) convertAll(docs []Document) ([]T, error) {
	items := make([]T, 0, len(docs))
	for _, d := range docs {
		item, err := b.idx.convert(d)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (b *Builder[T]) observe(op string, start time.Time, err *error) {
	if b.idx.client != nil {
		b.idx.client.obs.observe(op, start, *err)
	}
}
