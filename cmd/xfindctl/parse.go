package main

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/xfind"
)

type searchArgs struct {
	raw       string
	where     []string
	orWhere   []string
	filters   []string
	facets    []string
	sort      []string
	highlight []string
}

// buildSearch applies command line arguments to b in a fixed order: raw
// query, AND clauses, OR clauses, filters, facets, sort, highlight.
func buildSearch(b *xfind.Builder[xfind.Document], a searchArgs) (*xfind.Builder[xfind.Document], error) {
	if a.raw != "" {
		b.WhereGroup(func(e *xfind.Expression) { e.Set(a.raw) })
	}
	for _, w := range a.where {
		b.WhereClause(splitClause(w)...)
	}
	for _, w := range a.orWhere {
		b.OrWhereClause(splitClause(w)...)
	}
	for _, f := range a.filters {
		name, expr, err := splitPair(f, "=")
		if err != nil {
			return nil, fmt.Errorf("--filter: %w", err)
		}
		b.AddFilter(expr, name)
	}
	for _, f := range a.facets {
		name, field, _ := strings.Cut(f, "=")
		b.AddFacet(strings.TrimSpace(name), strings.TrimSpace(field), nil)
	}
	for _, s := range a.sort {
		field, dir, err := parseSort(s)
		if err != nil {
			return nil, err
		}
		b.OrderBy(field, dir)
	}
	if len(a.highlight) > 0 {
		b.Highlight(a.highlight...)
	}
	return b, b.Err()
}

// splitClause reads "field,value" or "field,OP,value".
func splitClause(s string) []string {
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func splitPair(s, sep string) (string, string, error) {
	k, v, ok := strings.Cut(s, sep)
	k, v = strings.TrimSpace(k), strings.TrimSpace(v)
	if !ok || k == "" || v == "" {
		return "", "", fmt.Errorf("expected key%svalue, got %q", sep, s)
	}
	return k, v, nil
}

// parseSort reads "field" or "field:dir". The direction defaults to asc.
func parseSort(s string) (string, xfind.Direction, error) {
	field, dir, _ := strings.Cut(s, ":")
	field = strings.TrimSpace(field)
	if field == "" {
		return "", "", fmt.Errorf("--sort: empty field in %q", s)
	}
	if dir == "" {
		return field, xfind.Asc, nil
	}
	d, err := xfind.ParseDirection(dir)
	if err != nil {
		return "", "", fmt.Errorf("--sort: %w", err)
	}
	return field, d, nil
}
