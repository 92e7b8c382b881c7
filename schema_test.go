package xfind

import (
	"slices"
	"strings"
	"testing"
)

func TestParseSchema(t *testing.T) {
	meta, err := parseSchema[item]()
	if err != nil {
		t.Fatalf("parseSchema: %v", err)
	}
	s := meta.schema
	if s.Key() != "id" {
		t.Errorf("key = %q", s.Key())
	}
	if got := s.Facets(); !slices.Equal(got, []string{"lang", "tags"}) {
		t.Errorf("facets = %v", got)
	}
	if got := s.Highlight(); !slices.Equal(got, []string{"title"}) {
		t.Errorf("highlight = %v", got)
	}
	if typ, ok := s.TypeOf("tags"); !ok || typ != Strings {
		t.Errorf("tags type = %v, %v", typ, ok)
	}
	if typ, ok := s.TypeOf("published"); !ok || typ != Time {
		t.Errorf("published type = %v, %v", typ, ok)
	}
	if _, ok := s.TypeOf("internal"); ok {
		t.Error("untagged field should not be in schema")
	}
}

func TestParseSchema_Errors(t *testing.T) {
	type noKey struct {
		Name string `xfind:"name"`
	}
	type twoKeys struct {
		A string `xfind:"a,key"`
		B string `xfind:"b,key"`
	}
	type badModifier struct {
		ID string `xfind:"id,key,sortable"`
	}
	type badType struct {
		ID   string         `xfind:"id,key"`
		Meta map[string]int `xfind:"meta"`
	}

	tests := []struct {
		name  string
		parse func() error
		want  string
	}{
		{"not a struct", func() error { _, err := parseSchema[string](); return err }, "not a struct"},
		{"no key", func() error { _, err := parseSchema[noKey](); return err }, "no field with"},
		{"duplicate key", func() error { _, err := parseSchema[twoKeys](); return err }, "duplicate key"},
		{"unknown modifier", func() error { _, err := parseSchema[badModifier](); return err }, `unknown modifier "sortable"`},
		{"unsupported type", func() error { _, err := parseSchema[badType](); return err }, "unsupported type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.parse()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestFromDocument_UnsignedClamp(t *testing.T) {
	type uintItem struct {
		Key   string `xfind:"sku,key"`
		Count uint16 `xfind:"count"`
	}
	meta, err := parseSchema[*uintItem]()
	if err != nil {
		t.Fatal(err)
	}
	schema, _ := NewSchema("sku", []Field{{Name: "count", Type: Int}})
	c := newTestClient(t, &fakeBackend{}, WithSchema(schema))
	doc, err := c.docs.model.Hydrate(map[string]any{"sku": "S-9", "count": -4})
	if err != nil {
		t.Fatal(err)
	}

	got, ok := meta.fromDocument(doc).(*uintItem)
	if !ok {
		t.Fatalf("fromDocument returned %T", meta.fromDocument(doc))
	}
	if got.Key != "S-9" || got.Count != 0 {
		t.Errorf("item = %+v", got)
	}
}
