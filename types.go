package xfind

import (
	"github.com/kailas-cloud/xfind/internal/domain/document"
	"github.com/kailas-cloud/xfind/internal/domain/search/expression"
	"github.com/kailas-cloud/xfind/internal/domain/search/facet"
	"github.com/kailas-cloud/xfind/internal/domain/search/page"
	"github.com/kailas-cloud/xfind/internal/domain/search/query"
	"github.com/kailas-cloud/xfind/internal/domain/search/result"
	healthuc "github.com/kailas-cloud/xfind/internal/usecase/health"
	searchuc "github.com/kailas-cloud/xfind/internal/usecase/search"
)

// Query building.
type (
	// Expression is the boolean query accumulated by Where calls.
	Expression = expression.Expression
	// Connector joins a clause to an expression.
	Connector = expression.Connector
	// Direction is a sort direction.
	Direction = query.Direction
	// Query is the composed query handed to a Backend.
	Query = query.Query
	// FacetSettings holds optional per-facet engine parameters.
	FacetSettings = facet.Settings
)

// Connectors.
const (
	And     = expression.And
	Or      = expression.Or
	Not     = expression.Not
	Exclude = expression.Exclude
	Require = expression.Require
)

// Sort directions.
const (
	Asc  = query.Asc
	Desc = query.Desc
)

// MatchAll is the query text of a builder without clauses.
const MatchAll = expression.MatchAll

// ParseDirection accepts asc or desc in any case.
func ParseDirection(s string) (Direction, error) { return query.ParseDirection(s) }

// NewFacetSettings returns empty facet settings.
func NewFacetSettings() *FacetSettings { return facet.NewSettings() }

// Documents and schema.
type (
	// Document is an untyped search document.
	Document = document.Document
	// Schema maps declared fields to semantic types.
	Schema = document.Schema
	// Field declares a typed schema field.
	Field = document.Field
	// FieldType is the semantic type of a field.
	FieldType = document.FieldType
)

// Field types.
const (
	String  = document.String
	Strings = document.Strings
	Int     = document.Int
	Float   = document.Float
	Bool    = document.Bool
	Time    = document.Time
)

// NewSchema validates and creates a Schema.
func NewSchema(key string, fields []Field, opts ...document.SchemaOption) (Schema, error) {
	return document.NewSchema(key, fields, opts...)
}

// SchemaFacets declares the facets attached by Builder.WithFacets.
func SchemaFacets(names ...string) document.SchemaOption { return document.WithFacets(names...) }

// SchemaHighlight declares the fields highlighted by default.
func SchemaHighlight(names ...string) document.SchemaOption { return document.WithHighlight(names...) }

// Results.
type (
	// Page is one page of items with navigation metadata.
	Page[T any] = page.Page[T]
	// Facet is a normalized facet: key, translated label and buckets.
	Facet = result.Facet
	// Bucket is one facet value with its count.
	Bucket = result.Bucket
	// Highlighting maps document id to field to fragments.
	Highlighting = result.Highlighting
	// RawResult is the backend response before normalization.
	RawResult = result.Raw
	// RawFacet is one facet as returned by the backend.
	RawFacet = result.RawFacet
	// HealthReport aggregates backend and cache health.
	HealthReport = healthuc.Report
	// HealthStatus is the aggregated status of a HealthReport.
	HealthStatus = healthuc.Status
)

// Collaborators.
type (
	// Backend executes a composed query.
	Backend = searchuc.Backend
	// Translator turns a facet key into a display label.
	Translator = searchuc.Translator
	// TranslatorFunc adapts a function to Translator.
	TranslatorFunc = searchuc.TranslatorFunc
)

// Health statuses.
const (
	Healthy   = healthuc.Healthy
	Degraded  = healthuc.Degraded
	Unhealthy = healthuc.Unhealthy
)

// Result is a typed, normalized search result.
type Result[T any] struct {
	Items        []T          `json:"data"`
	Facets       []Facet      `json:"facets"`
	Highlighting Highlighting `json:"highlighting"`
	Total        int          `json:"total"`
}

// Facet returns the facet with the given key.
func (r *Result[T]) Facet(key string) (Facet, bool) {
	for _, f := range r.Facets {
		if f.Key == key {
			return f, true
		}
	}
	return Facet{}, false
}

// PageFacets returns the facets Paginate attached to p.
func PageFacets[T any](p *Page[T]) []Facet {
	v, _ := p.Field(searchuc.PageFieldFacets)
	facets, _ := v.([]Facet)
	return facets
}
