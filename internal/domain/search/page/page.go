// Package page computes pagination metadata over a search result slice.
package page

import (
	"encoding/json"
	"maps"

	"github.com/kailas-cloud/xfind/internal/domain"
)

// Page is one page of items plus navigation metadata.
type Page[T any] struct {
	items       []T
	total       int
	perPage     int
	currentPage int
	hasMore     *bool
	custom      map[string]any
}

// Option configures a Page.
type Option func(*options)

type options struct {
	hasMore *bool
	custom  map[string]any
}

// WithHasMore overrides the "more pages" flag reported by the backend.
func WithHasMore(v bool) Option {
	return func(o *options) { o.hasMore = &v }
}

// WithField adds a custom field to the JSON view (facets, highlighting).
func WithField(key string, v any) Option {
	return func(o *options) {
		if o.custom == nil {
			o.custom = make(map[string]any)
		}
		o.custom[key] = v
	}
}

// New creates a page. perPage must be positive; an invalid current page
// falls back to 1. A negative total is treated as 0.
func New[T any](items []T, total, perPage, currentPage int, opts ...Option) (*Page[T], error) {
	if perPage <= 0 {
		return nil, domain.Configf("per page must be positive, got %d", perPage)
	}
	if !IsValidPageNumber(currentPage) {
		currentPage = 1
	}
	var o options
	for _, fn := range opts {
		fn(&o)
	}
	return &Page[T]{
		items:       items,
		total:       max(total, 0),
		perPage:     perPage,
		currentPage: currentPage,
		hasMore:     o.hasMore,
		custom:      o.custom,
	}, nil
}

// IsValidPageNumber reports whether n is a usable 1-based page number.
func IsValidPageNumber(n int) bool { return n >= 1 }

// Offset converts a 1-based page into an engine row offset.
func Offset(perPage, page int) int {
	if page <= 0 || perPage <= 0 {
		return 0
	}
	return perPage * (page - 1)
}

// Items returns the items on this page.
func (p *Page[T]) Items() []T { return p.items }

// Total returns the total number of matches.
func (p *Page[T]) Total() int { return p.total }

// PerPage returns the page size.
func (p *Page[T]) PerPage() int { return p.perPage }

// CurrentPage returns the 1-based page number.
func (p *Page[T]) CurrentPage() int { return p.currentPage }

// FirstItem returns the 1-based index of the first item on the page.
func (p *Page[T]) FirstItem() (int, bool) {
	if len(p.items) == 0 {
		return 0, false
	}
	return (p.currentPage-1)*p.perPage + 1, true
}

// LastItem returns the 1-based index of the last item on the page.
func (p *Page[T]) LastItem() (int, bool) {
	first, ok := p.FirstItem()
	if !ok {
		return 0, false
	}
	return first + len(p.items) - 1, true
}

// HasMorePages reports whether the total exceeds one page, unless the
// backend overrode it.
func (p *Page[T]) HasMorePages() bool {
	if p.hasMore != nil {
		return *p.hasMore
	}
	return p.total > p.perPage
}

// LastPage returns ceil(total/perPage); 0 when there are no matches.
func (p *Page[T]) LastPage() int {
	return (p.total + p.perPage - 1) / p.perPage
}

// NextPage returns the following page number, clamped to the last page.
func (p *Page[T]) NextPage() int {
	next := p.currentPage
	if p.HasMorePages() {
		next++
	}
	next = min(next, p.LastPage())
	return max(next, 1)
}

// PrevPage returns the preceding page number, clamped to [1, last page].
func (p *Page[T]) PrevPage() int {
	prev := min(p.currentPage-1, p.LastPage())
	if prev >= p.NextPage() {
		prev--
	}
	return max(prev, 1)
}

// OnFirstPage reports whether this is the first page.
func (p *Page[T]) OnFirstPage() bool { return p.currentPage <= 1 }

// HasPages reports whether there is more than one page to navigate.
func (p *Page[T]) HasPages() bool { return p.currentPage != 1 || p.HasMorePages() }

// IsEmpty reports whether the page holds no items.
func (p *Page[T]) IsEmpty() bool { return len(p.items) == 0 }

// Field returns a custom field.
func (p *Page[T]) Field(key string) (any, bool) {
	v, ok := p.custom[key]
	return v, ok
}

// ToMap returns the JSON view: navigation metadata, data and custom fields.
// Custom fields never override the standard keys.
func (p *Page[T]) ToMap() map[string]any {
	data := p.items
	if data == nil {
		data = []T{}
	}
	out := map[string]any{
		"total":        p.total,
		"per_page":     p.perPage,
		"current_page": p.currentPage,
		"last_page":    p.LastPage(),
		"next_page":    p.NextPage(),
		"prev_page":    p.PrevPage(),
		"data":         data,
	}
	for k, v := range maps.All(p.custom) {
		if _, taken := out[k]; !taken {
			out[k] = v
		}
	}
	return out
}

// MarshalJSON encodes ToMap.
func (p *Page[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.ToMap())
}

// Map converts the items of p, keeping its metadata.
func Map[T, U any](p *Page[T], fn func(T) (U, error)) (*Page[U], error) {
	items := make([]U, 0, len(p.items))
	for _, it := range p.items {
		u, err := fn(it)
		if err != nil {
			return nil, err
		}
		items = append(items, u)
	}
	return &Page[U]{
		items:       items,
		total:       p.total,
		perPage:     p.perPage,
		currentPage: p.currentPage,
		hasMore:     p.hasMore,
		custom:      p.custom,
	}, nil
}
