package document

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/xfind/internal/domain"
)

func testSchema(t *testing.T) Schema {
	t.Helper()
	s, err := NewSchema("id", []Field{
		{Name: "title", Type: String},
		{Name: "lang", Type: String},
		{Name: "tags", Type: Strings},
		{Name: "views", Type: Int},
		{Name: "score", Type: Float},
		{Name: "published", Type: Bool},
	}, WithFacets("lang", "tags"), WithHighlight("title"))
	if err != nil {
		t.Fatalf("NewSchema: %v", err)
	}
	return s
}

func TestNewSchema_AddsKey(t *testing.T) {
	s := testSchema(t)
	if s.Key() != "id" {
		t.Errorf("Key() = %q", s.Key())
	}
	if typ, ok := s.TypeOf("id"); !ok || typ != String {
		t.Errorf("TypeOf(id) = %q, %v", typ, ok)
	}
	if names := s.FieldNames(); names[0] != "id" {
		t.Errorf("FieldNames() = %v, key first", names)
	}
	if len(s.Facets()) != 2 || s.Highlight()[0] != "title" {
		t.Errorf("facets = %v, highlight = %v", s.Facets(), s.Highlight())
	}
}

func TestNewSchema_EmptyKeyDefaults(t *testing.T) {
	s, err := NewSchema(" ", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Key() != DefaultKey {
		t.Errorf("Key() = %q, want %q", s.Key(), DefaultKey)
	}
}

func TestNewSchema_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		fields []Field
	}{
		{"empty name", []Field{{Name: "", Type: String}}},
		{"bad type", []Field{{Name: "a", Type: "blob"}}},
		{"duplicate", []Field{{Name: "a", Type: String}, {Name: "a", Type: Int}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewSchema("id", tt.fields); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestHydrate_TypedAndExtra(t *testing.T) {
	m := NewModel(testSchema(t))
	doc, err := m.Hydrate(map[string]any{
		"id":        "doc-1",
		"title":     []any{"Hello", "ignored"},
		"tags":      []any{"go", "search"},
		"views":     json.Number("42"),
		"score":     json.Number("1.5"),
		"published": true,
		"_version_": json.Number("17"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.ID() != "doc-1" || !doc.Exists() {
		t.Errorf("ID() = %q, Exists() = %v", doc.ID(), doc.Exists())
	}
	if doc.String("title") != "Hello" {
		t.Errorf("title = %q, want first value", doc.String("title"))
	}
	if got := doc.Strings("tags"); len(got) != 2 || got[1] != "search" {
		t.Errorf("tags = %v", got)
	}
	if doc.Int("views") != 42 {
		t.Errorf("views = %d", doc.Int("views"))
	}
	if doc.Float("score") != 1.5 {
		t.Errorf("score = %v", doc.Float("score"))
	}
	if !doc.Bool("published") {
		t.Error("published = false")
	}
	if v, ok := doc.Extra()["_version_"]; !ok || v != json.Number("17") {
		t.Errorf("extra = %v", doc.Extra())
	}
	if v, ok := doc.Get("_version_"); !ok || v == nil {
		t.Error("Get must fall back to extra fields")
	}
}

func TestHydrate_Timestamps(t *testing.T) {
	m := NewModel(testSchema(t))
	doc, err := m.Hydrate(map[string]any{
		"id":         "doc-1",
		"created_at": []any{"2024-03-01T10:00:00Z", "2024-03-02T10:00:00Z"},
		"indexed_at": "2024-03-05",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	if !doc.Time("created_at").Equal(want) {
		t.Errorf("created_at = %v, want %v", doc.Time("created_at"), want)
	}
	if doc.Time("indexed_at").Day() != 5 {
		t.Errorf("indexed_at = %v", doc.Time("indexed_at"))
	}
}

func TestHydrate_NoTimestamps(t *testing.T) {
	m := NewModel(testSchema(t), WithTimestamps(NoTimestamps{}))
	doc, err := m.Hydrate(map[string]any{"created_at": "2024-03-01T10:00:00Z"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := doc.Extra()["created_at"]; !ok {
		t.Error("created_at must stay raw without a timestamp policy")
	}
}

func TestHydrate_CoercionError(t *testing.T) {
	m := NewModel(testSchema(t))
	if _, err := m.Hydrate(map[string]any{"views": "many"}); err == nil {
		t.Error("expected coercion error")
	}
	if _, err := m.Hydrate(map[string]any{"views": 1.5}); err == nil {
		t.Error("expected error for fractional int")
	}
}

func TestFill_GuardAndDefaults(t *testing.T) {
	m := NewModel(testSchema(t),
		WithFillable("id", "title", "lang"),
		WithDefaults(map[string]any{"lang": "en", "views": 0}),
	)
	doc, err := m.Fill(map[string]any{
		"id":    "new-1",
		"title": "Draft",
		"lang":  "",
		"score": 9.9,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Exists() {
		t.Error("filled document must not exist yet")
	}
	if doc.String("lang") != "en" {
		t.Errorf("lang = %q, want default", doc.String("lang"))
	}
	if _, ok := doc.Get("score"); ok {
		t.Error("guarded attribute score was assigned")
	}
	if v, ok := doc.Get("views"); !ok || v != int64(0) {
		t.Errorf("views = %v, want default 0", v)
	}
}

func TestFill_TotallyGuarded(t *testing.T) {
	m := NewModel(testSchema(t), WithGuard(GuardAll()))
	_, err := m.Fill(map[string]any{"title": "x"})
	if !errors.Is(err, domain.ErrMassAssignment) || !errors.Is(err, domain.ErrConfiguration) {
		t.Errorf("err = %v, want mass assignment configuration error", err)
	}
	if _, err := m.Fill(nil); err != nil {
		t.Errorf("empty fill must succeed, got %v", err)
	}
}

func TestDocument_MarshalJSON(t *testing.T) {
	doc := Reconstruct("1",
		map[string]any{"id": "1", "title": "typed"},
		map[string]any{"title": "raw", "x": 1},
		true,
	)
	b, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got["title"] != "typed" {
		t.Errorf("title = %v, declared fields must win", got["title"])
	}
	if got["x"] != float64(1) {
		t.Errorf("x = %v", got["x"])
	}
}
