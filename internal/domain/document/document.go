package document

import (
	"encoding/json"
	"maps"
	"time"
)

// Document is a search hit shaped by a Schema: declared fields hold typed
// values (string, []string, int64, float64, bool, time.Time) and every other
// engine field is kept verbatim in Extra.
type Document struct {
	id     string
	fields map[string]any
	extra  map[string]any
	exists bool
}

// Reconstruct creates a Document without decoding (tests, cache hydration).
func Reconstruct(id string, fields, extra map[string]any, exists bool) Document {
	return Document{id: id, fields: fields, extra: extra, exists: exists}
}

// ID returns the primary key value.
func (d Document) ID() string { return d.id }

// Exists reports whether the document came from the engine.
func (d Document) Exists() bool { return d.exists }

// Fields returns the declared, typed fields.
func (d Document) Fields() map[string]any { return d.fields }

// Extra returns the undeclared fields.
func (d Document) Extra() map[string]any { return d.extra }

// Get returns a declared or extra field.
func (d Document) Get(name string) (any, bool) {
	if v, ok := d.fields[name]; ok {
		return v, true
	}
	v, ok := d.extra[name]
	return v, ok
}

// String returns a string field, or "" when absent or not a string.
func (d Document) String(name string) string {
	v, _ := d.fields[name].(string)
	return v
}

// Strings returns a multi-valued string field.
func (d Document) Strings(name string) []string {
	v, _ := d.fields[name].([]string)
	return v
}

// Int returns an integer field.
func (d Document) Int(name string) int64 {
	v, _ := d.fields[name].(int64)
	return v
}

// Float returns a float field.
func (d Document) Float(name string) float64 {
	v, _ := d.fields[name].(float64)
	return v
}

// Bool returns a boolean field.
func (d Document) Bool(name string) bool {
	v, _ := d.fields[name].(bool)
	return v
}

// Time returns a date field.
func (d Document) Time(name string) time.Time {
	v, _ := d.fields[name].(time.Time)
	return v
}

// ToMap merges declared and extra fields. Declared fields win on conflict.
func (d Document) ToMap() map[string]any {
	out := make(map[string]any, len(d.fields)+len(d.extra))
	maps.Copy(out, d.extra)
	maps.Copy(out, d.fields)
	return out
}

// MarshalJSON encodes the merged field map.
func (d Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.ToMap())
}
