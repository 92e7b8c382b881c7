package document

import (
	"fmt"
	"maps"
	"slices"

	"github.com/kailas-cloud/xfind/internal/domain"
)

// Guard decides which attributes may be mass assigned.
type Guard interface {
	IsFillable(key string) bool
	// TotallyGuarded reports that no attribute is fillable.
	TotallyGuarded() bool
}

// TimestampPolicy lists the fields that always decode as dates.
type TimestampPolicy interface {
	DateFields() []string
}

// FillableGuard allows only the listed keys. An empty list allows every key.
type FillableGuard []string

// IsFillable implements Guard.
func (g FillableGuard) IsFillable(key string) bool {
	return len(g) == 0 || slices.Contains(g, key)
}

// TotallyGuarded implements Guard.
func (g FillableGuard) TotallyGuarded() bool { return false }

type guardAll struct{}

func (guardAll) IsFillable(string) bool { return false }
func (guardAll) TotallyGuarded() bool   { return true }

// GuardAll rejects every mass assignment.
func GuardAll() Guard { return guardAll{} }

// Timestamps is the standard policy: created_at, updated_at and indexed_at.
type Timestamps struct{}

// DateFields implements TimestampPolicy.
func (Timestamps) DateFields() []string {
	return []string{"created_at", "updated_at", "indexed_at"}
}

// NoTimestamps disables implicit date fields.
type NoTimestamps struct{}

// DateFields implements TimestampPolicy.
func (NoTimestamps) DateFields() []string { return nil }

// Model turns raw engine maps into Documents and fills new ones.
// It is immutable after construction and safe for concurrent use.
type Model struct {
	schema     Schema
	guard      Guard
	timestamps TimestampPolicy
	defaults   map[string]any
}

// ModelOption configures a Model.
type ModelOption func(*Model)

// WithGuard sets the mass assignment guard.
func WithGuard(g Guard) ModelOption {
	return func(m *Model) { m.guard = g }
}

// WithFillable allows mass assignment of the listed keys only.
func WithFillable(keys ...string) ModelOption {
	return WithGuard(FillableGuard(keys))
}

// WithTimestamps sets the date field policy.
func WithTimestamps(p TimestampPolicy) ModelOption {
	return func(m *Model) { m.timestamps = p }
}

// WithDefaults sets values applied by Fill to missing or empty attributes.
func WithDefaults(defaults map[string]any) ModelOption {
	return func(m *Model) { m.defaults = maps.Clone(defaults) }
}

// NewModel creates a Model over schema. Defaults: every key fillable,
// standard timestamps, no default values.
func NewModel(schema Schema, opts ...ModelOption) *Model {
	m := &Model{
		schema:     schema,
		guard:      FillableGuard(nil),
		timestamps: Timestamps{},
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Schema returns the model schema.
func (m *Model) Schema() Schema { return m.schema }

// Hydrate decodes a raw engine document. Declared fields are coerced to
// their types; undeclared fields go to Extra unchanged.
func (m *Model) Hydrate(raw map[string]any) (Document, error) {
	doc, err := m.decode(raw)
	if err != nil {
		return Document{}, err
	}
	doc.exists = true
	return doc, nil
}

// Fill builds a new, not-yet-indexed Document from attrs. Keys rejected by
// the guard are dropped; defaults fill missing or empty attributes.
func (m *Model) Fill(attrs map[string]any) (Document, error) {
	if m.guard.TotallyGuarded() && len(attrs) > 0 {
		return Document{}, fmt.Errorf("%w: %w: model is totally guarded", domain.ErrConfiguration, domain.ErrMassAssignment)
	}

	filtered := make(map[string]any, len(attrs)+len(m.defaults))
	for k, v := range attrs {
		if m.guard.IsFillable(k) {
			filtered[k] = v
		}
	}
	for k, v := range m.defaults {
		if isEmpty(filtered[k]) {
			filtered[k] = v
		}
	}
	return m.decode(filtered)
}

func (m *Model) decode(raw map[string]any) (Document, error) {
	fields := make(map[string]any, len(m.schema.fields))
	extra := make(map[string]any)

	dates := m.timestamps.DateFields()
	for name, v := range raw {
		t, declared := m.schema.TypeOf(name)
		if !declared && slices.Contains(dates, name) {
			t, declared = Time, true
		}
		if !declared {
			extra[name] = v
			continue
		}
		if v == nil {
			continue
		}
		typed, err := coerce(v, t)
		if err != nil {
			return Document{}, fmt.Errorf("field %q: %w", name, err)
		}
		fields[name] = typed
	}

	var id string
	if v, ok := fields[m.schema.Key()]; ok {
		id = fmt.Sprint(v)
	}
	return Document{id: id, fields: fields, extra: extra}, nil
}

func isEmpty(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case []any:
		return len(x) == 0
	case []string:
		return len(x) == 0
	}
	return false
}
