package result

import "github.com/kailas-cloud/xfind/internal/domain/document"

// Bucket is one facet value and its document count.
type Bucket struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Highlighting maps document id → field → fragments.
type Highlighting map[string]map[string][]string

// RawFacet is a facet as the engine reports it. Key is the requested facet
// name when the engine reports facets by name; otherwise the facet is
// matched back through its indexed field.
type RawFacet struct {
	Field  string   `json:"field"`
	Key    string   `json:"key,omitempty"`
	Values []Bucket `json:"values"`
}

// Raw is the backend response before normalization.
type Raw struct {
	Docs         []map[string]any `json:"docs"`
	Facets       []RawFacet       `json:"facets,omitempty"`
	Highlighting Highlighting     `json:"highlighting,omitempty"`
	NumFound     int              `json:"num_found"`
}

// Facet is a normalized facet: relabeled, translated, never empty.
type Facet struct {
	Key     string   `json:"key"`
	Label   string   `json:"label"`
	Values  []Bucket `json:"values"`
	Default *string  `json:"default,omitempty"`
}

// Counts returns the value → count mapping.
func (f Facet) Counts() map[string]int {
	out := make(map[string]int, len(f.Values))
	for _, b := range f.Values {
		out[b.Value] = b.Count
	}
	return out
}

// Result is the normalized search response.
type Result struct {
	Documents    []document.Document `json:"documents"`
	Facets       []Facet             `json:"facets"`
	Highlighting Highlighting        `json:"highlighting"`
	TotalFound   int                 `json:"total_found"`
}

// Facet returns the facet registered under key.
func (r *Result) Facet(key string) (Facet, bool) {
	for _, f := range r.Facets {
		if f.Key == key {
			return f, true
		}
	}
	return Facet{}, false
}
