// Package query holds the per-request state a backend executes: the boolean
// expression, filter queries, sort, facets, paging, field list and
// highlighting.
package query

import (
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/kailas-cloud/xfind/internal/domain"
	"github.com/kailas-cloud/xfind/internal/domain/search/expression"
	"github.com/kailas-cloud/xfind/internal/domain/search/facet"
)

// Paging and highlighting defaults.
const (
	DefaultRows     = 20
	DefaultFragSize = 160
	DefaultPre      = "<b>"
	DefaultPost     = "</b>"
)

// Direction is a sort direction.
type Direction string

const (
	// Asc sorts ascending.
	Asc Direction = "asc"
	// Desc sorts descending.
	Desc Direction = "desc"
)

// ParseDirection accepts asc/desc in any case.
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(strings.ToLower(strings.TrimSpace(s))); d {
	case Asc, Desc:
		return d, nil
	}
	return "", domain.Configf("invalid sort direction %q", s)
}

// Filter is a named filter query. Filters constrain the result set without
// touching relevance and are sent separately from the main expression.
type Filter struct {
	Name string
	Expr string
}

// SortField is one sort criterion.
type SortField struct {
	Field     string
	Direction Direction
}

// Highlight configures highlighted snippets.
type Highlight struct {
	Fields   []string
	FragSize int
	Pre      string
	Post     string
}

// Query is mutable build state for a single request. Not safe for
// concurrent use.
type Query struct {
	expr      *expression.Expression
	filters   []Filter
	sort      []SortField
	facets    *facet.Set
	rows      int
	start     int
	fields    []string
	highlight *Highlight
}

// New returns a match-all query with default rows.
func New() *Query {
	return &Query{
		expr:   expression.New(),
		facets: facet.NewSet(),
		rows:   DefaultRows,
	}
}

// Expression returns the main boolean expression for in-place building.
func (q *Query) Expression() *expression.Expression { return q.expr }

// Text returns the main expression text.
func (q *Query) Text() string { return q.expr.Text() }

// AddFilter registers a filter query and returns its name. An empty name gets
// a generated unique one; an existing name is replaced in place.
func (q *Query) AddFilter(expr, name string) (string, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return "", domain.Configf("filter expression is required")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = uuid.NewString()
	}
	i := slices.IndexFunc(q.filters, func(f Filter) bool { return f.Name == name })
	if i >= 0 {
		q.filters[i].Expr = expr
	} else {
		q.filters = append(q.filters, Filter{Name: name, Expr: expr})
	}
	return name, nil
}

// Filters returns filters in registration order.
func (q *Query) Filters() []Filter { return slices.Clone(q.filters) }

// FilterMap returns name → expression.
func (q *Query) FilterMap() map[string]string {
	out := make(map[string]string, len(q.filters))
	for _, f := range q.filters {
		out[f.Name] = f.Expr
	}
	return out
}

// OrderBy adds a sort criterion. Re-ordering by the same field replaces the
// direction and keeps the original position.
func (q *Query) OrderBy(field string, dir Direction) error {
	field = strings.TrimSpace(field)
	if field == "" {
		return domain.Configf("sort field is required")
	}
	if dir != Asc && dir != Desc {
		return domain.Configf("invalid sort direction %q", dir)
	}
	i := slices.IndexFunc(q.sort, func(s SortField) bool { return s.Field == field })
	if i >= 0 {
		q.sort[i].Direction = dir
		return nil
	}
	q.sort = append(q.sort, SortField{Field: field, Direction: dir})
	return nil
}

// Sort returns sort criteria in order.
func (q *Query) Sort() []SortField { return slices.Clone(q.sort) }

// Facets returns the facet set for attaching requests.
func (q *Query) Facets() *facet.Set { return q.facets }

// SetRows sets the page size. Non-positive values are rejected.
func (q *Query) SetRows(n int) error {
	if n <= 0 {
		return domain.Configf("rows must be positive, got %d", n)
	}
	q.rows = n
	return nil
}

// Rows returns the page size.
func (q *Query) Rows() int { return q.rows }

// SetStart sets the row offset; negative values become 0.
func (q *Query) SetStart(n int) { q.start = max(n, 0) }

// Start returns the row offset.
func (q *Query) Start() int { return q.start }

// Select restricts the returned fields. No fields means all.
func (q *Query) Select(fields ...string) {
	q.fields = nil
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" && !slices.Contains(q.fields, f) {
			q.fields = append(q.fields, f)
		}
	}
}

// Fields returns the selected fields.
func (q *Query) Fields() []string { return slices.Clone(q.fields) }

// SetHighlight enables highlighting for fields with default fragment
// settings. No fields disables highlighting.
func (q *Query) SetHighlight(fields ...string) {
	if len(fields) == 0 {
		q.highlight = nil
		return
	}
	q.highlight = &Highlight{
		Fields:   slices.Clone(fields),
		FragSize: DefaultFragSize,
		Pre:      DefaultPre,
		Post:     DefaultPost,
	}
}

// Highlight returns the highlighting config, nil when disabled.
func (q *Query) Highlight() *Highlight { return q.highlight }

// Clone returns an independent copy.
func (q *Query) Clone() *Query {
	c := *q
	c.expr = expression.New().Set(q.expr.Text())
	c.filters = slices.Clone(q.filters)
	c.sort = slices.Clone(q.sort)
	c.facets = q.facets.Clone()
	c.fields = slices.Clone(q.fields)
	if q.highlight != nil {
		h := *q.highlight
		h.Fields = slices.Clone(q.highlight.Fields)
		c.highlight = &h
	}
	return &c
}

// String renders a canonical form used for logs and cache keys. Filter
// names are omitted: generated names must not split the cache. Separator
// characters inside components are percent-escaped, so distinct queries
// never render alike.
func (q *Query) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "q=%s", esc(q.expr.Text()))
	for _, f := range q.filters {
		fmt.Fprintf(&b, "&fq=%s", esc(f.Expr))
	}
	for _, s := range q.sort {
		fmt.Fprintf(&b, "&sort=%s %s", esc(s.Field), s.Direction)
	}
	fmt.Fprintf(&b, "&start=%d&rows=%d", q.start, q.rows)
	if len(q.fields) > 0 {
		fmt.Fprintf(&b, "&fl=%s", escJoin(q.fields))
	}
	for _, r := range q.facets.Requests() {
		fmt.Fprintf(&b, "&facet=%s>%s", esc(r.Name), esc(r.Field))
		for k, v := range r.Settings.All() {
			fmt.Fprintf(&b, ";%s=%s", k, esc(fmt.Sprint(v)))
		}
	}
	if h := q.highlight; h != nil {
		fmt.Fprintf(&b, "&hl=%s;%d;%s;%s", escJoin(h.Fields), h.FragSize, esc(h.Pre), esc(h.Post))
	}
	return b.String()
}

var separatorEscaper = strings.NewReplacer(
	"%", "%25",
	"&", "%26",
	";", "%3B",
	"=", "%3D",
	">", "%3E",
	",", "%2C",
)

func esc(s string) string { return separatorEscaper.Replace(s) }

func escJoin(parts []string) string {
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = esc(p)
	}
	return strings.Join(out, ",")
}
