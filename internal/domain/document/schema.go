package document

import (
	"fmt"
	"strings"
)

// FieldType is the semantic type of a declared document field.
type FieldType string

// Field type constants.
const (
	String  FieldType = "string"
	Strings FieldType = "strings"
	Int     FieldType = "int"
	Float   FieldType = "float"
	Bool    FieldType = "bool"
	Time    FieldType = "time"
)

// IsValid reports whether t is a supported field type.
func (t FieldType) IsValid() bool {
	switch t {
	case String, Strings, Int, Float, Bool, Time:
		return true
	}
	return false
}

// DefaultKey is the primary key field used when none is configured.
const DefaultKey = "id"

// Field declares a typed document field.
type Field struct {
	Name string
	Type FieldType
}

// Schema is the fixed mapping of declared fields to semantic types.
// Undeclared fields returned by the engine land in Document.Extra.
type Schema struct {
	key       string
	fields    []Field
	index     map[string]FieldType
	facets    []string
	highlight []string
}

// SchemaOption configures a Schema.
type SchemaOption func(*Schema)

// WithFacets declares the facets WithFacets() attaches by default.
func WithFacets(names ...string) SchemaOption {
	return func(s *Schema) { s.facets = append(s.facets, names...) }
}

// WithHighlight declares fields highlighted by default.
func WithHighlight(names ...string) SchemaOption {
	return func(s *Schema) { s.highlight = append(s.highlight, names...) }
}

// NewSchema validates and creates a Schema. An empty key defaults to "id";
// an undeclared key is added as a string field.
func NewSchema(key string, fields []Field, opts ...SchemaOption) (Schema, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		key = DefaultKey
	}

	s := Schema{key: key, index: make(map[string]FieldType, len(fields)+1)}
	for _, f := range fields {
		if f.Name == "" {
			return Schema{}, fmt.Errorf("field name is required")
		}
		if !f.Type.IsValid() {
			return Schema{}, fmt.Errorf("invalid type %q for field %q", f.Type, f.Name)
		}
		if _, dup := s.index[f.Name]; dup {
			return Schema{}, fmt.Errorf("duplicate field %q", f.Name)
		}
		s.index[f.Name] = f.Type
		s.fields = append(s.fields, f)
	}
	if _, ok := s.index[key]; !ok {
		s.index[key] = String
		s.fields = append([]Field{{Name: key, Type: String}}, s.fields...)
	}

	for _, o := range opts {
		o(&s)
	}
	return s, nil
}

// MustSchema calls NewSchema and panics on error.
func MustSchema(key string, fields []Field, opts ...SchemaOption) Schema {
	s, err := NewSchema(key, fields, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

// Key returns the primary key field name.
func (s Schema) Key() string {
	if s.key == "" {
		return DefaultKey
	}
	return s.key
}

// Fields returns the declared fields in declaration order.
func (s Schema) Fields() []Field { return s.fields }

// FieldNames returns the declared field names in declaration order.
func (s Schema) FieldNames() []string {
	out := make([]string, len(s.fields))
	for i, f := range s.fields {
		out[i] = f.Name
	}
	return out
}

// TypeOf returns the declared type of name.
func (s Schema) TypeOf(name string) (FieldType, bool) {
	t, ok := s.index[name]
	return t, ok
}

// Has reports whether name is declared.
func (s Schema) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Facets returns the declared facet names.
func (s Schema) Facets() []string { return s.facets }

// Highlight returns the fields highlighted by default.
func (s Schema) Highlight() []string { return s.highlight }
