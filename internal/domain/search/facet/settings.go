package facet

import (
	"fmt"
	"iter"

	"github.com/kailas-cloud/xfind/internal/domain"
)

// Sort orders facet buckets.
type Sort string

const (
	// SortIndex orders buckets by term (index order).
	SortIndex Sort = "index"
	// SortCount orders buckets by descending count.
	SortCount Sort = "count"
)

// IsValid reports whether s is a known sort mode.
func (s Sort) IsValid() bool { return s == SortIndex || s == SortCount }

// Method selects the engine's facet computation algorithm.
type Method string

const (
	// MethodEnum enumerates all terms in the field.
	MethodEnum Method = "enum"
	// MethodFC uses the field cache.
	MethodFC Method = "fc"
)

// IsValid reports whether m is a known method.
func (m Method) IsValid() bool { return m == MethodEnum || m == MethodFC }

// Parameter names, in serialization order.
const (
	ParamPrefix             = "prefix"
	ParamContains           = "contains"
	ParamContainsIgnoreCase = "containsIgnoreCase"
	ParamSort               = "sort"
	ParamLimit              = "limit"
	ParamOffset             = "offset"
	ParamMinCount           = "minCount"
	ParamMissing            = "missing"
	ParamMethod             = "method"

	// OptionDefault is the raw option key for the default bucket. It shapes
	// results only and is never sent to the engine.
	OptionDefault = "default"
)

// Settings holds optional facet parameters. A nil field means "engine default".
// Settings is not safe for concurrent mutation; treat it as immutable once
// attached to a Request.
type Settings struct {
	prefix             *string
	contains           *string
	containsIgnoreCase *bool
	sort               *Sort
	limit              *int
	offset             *int
	minCount           *int
	missing            *bool
	method             *Method

	defaultValue *string
}

// NewSettings returns empty settings.
func NewSettings() *Settings { return &Settings{} }

// SetPrefix limits buckets to terms starting with p.
func (s *Settings) SetPrefix(p string) *Settings { s.prefix = &p; return s }

// SetContains limits buckets to terms containing sub.
func (s *Settings) SetContains(sub string) *Settings { s.contains = &sub; return s }

// SetContainsIgnoreCase makes the contains match case-insensitive.
func (s *Settings) SetContainsIgnoreCase(v bool) *Settings { s.containsIgnoreCase = &v; return s }

// SetSort sets the bucket order.
func (s *Settings) SetSort(v Sort) *Settings { s.sort = &v; return s }

// SetLimit caps the number of buckets. Negative means unbounded (engine convention).
func (s *Settings) SetLimit(n int) *Settings { s.limit = &n; return s }

// SetOffset skips the first n buckets.
func (s *Settings) SetOffset(n int) *Settings { s.offset = &n; return s }

// SetMinCount drops buckets with fewer than n documents.
func (s *Settings) SetMinCount(n int) *Settings { s.minCount = &n; return s }

// SetMissing adds a bucket for documents without a value.
func (s *Settings) SetMissing(v bool) *Settings { s.missing = &v; return s }

// SetMethod sets the computation method.
func (s *Settings) SetMethod(m Method) *Settings { s.method = &m; return s }

// SetDefault registers a default bucket reported with the normalized facet.
func (s *Settings) SetDefault(v string) *Settings { s.defaultValue = &v; return s }

// Prefix returns the prefix filter.
func (s *Settings) Prefix() (string, bool) { return deref(s.prefix) }

// Contains returns the substring filter.
func (s *Settings) Contains() (string, bool) { return deref(s.contains) }

// ContainsIgnoreCase returns the case sensitivity flag.
func (s *Settings) ContainsIgnoreCase() (bool, bool) { return deref(s.containsIgnoreCase) }

// Sort returns the bucket order.
func (s *Settings) Sort() (Sort, bool) { return deref(s.sort) }

// Limit returns the bucket limit.
func (s *Settings) Limit() (int, bool) { return deref(s.limit) }

// Offset returns the bucket offset.
func (s *Settings) Offset() (int, bool) { return deref(s.offset) }

// MinCount returns the minimum bucket count.
func (s *Settings) MinCount() (int, bool) { return deref(s.minCount) }

// Missing returns the missing-bucket flag.
func (s *Settings) Missing() (bool, bool) { return deref(s.missing) }

// Method returns the computation method.
func (s *Settings) Method() (Method, bool) { return deref(s.method) }

// Default returns the registered default bucket.
func (s *Settings) Default() (string, bool) {
	if s == nil {
		return "", false
	}
	return deref(s.defaultValue)
}

// All yields every explicitly set engine parameter in declaration order.
// The default bucket is not an engine parameter and is never yielded.
func (s *Settings) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		if s == nil {
			return
		}
		fields := []struct {
			name string
			set  bool
			val  func() any
		}{
			{ParamPrefix, s.prefix != nil, func() any { return *s.prefix }},
			{ParamContains, s.contains != nil, func() any { return *s.contains }},
			{ParamContainsIgnoreCase, s.containsIgnoreCase != nil, func() any { return *s.containsIgnoreCase }},
			{ParamSort, s.sort != nil, func() any { return *s.sort }},
			{ParamLimit, s.limit != nil, func() any { return *s.limit }},
			{ParamOffset, s.offset != nil, func() any { return *s.offset }},
			{ParamMinCount, s.minCount != nil, func() any { return *s.minCount }},
			{ParamMissing, s.missing != nil, func() any { return *s.missing }},
			{ParamMethod, s.method != nil, func() any { return *s.method }},
		}
		for _, f := range fields {
			if !f.set {
				continue
			}
			if !yield(f.name, f.val()) {
				return
			}
		}
	}
}

// IsEmpty reports whether no engine parameter is set.
func (s *Settings) IsEmpty() bool {
	for range s.All() {
		return false
	}
	return true
}

// FromOptions builds Settings from a raw option mapping. Unknown keys are
// ignored; a value of the wrong type is a configuration error.
func FromOptions(opts map[string]any) (*Settings, error) {
	s := NewSettings()
	for key, raw := range opts {
		if err := s.applyOption(key, raw); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Settings) applyOption(key string, raw any) error {
	var err error
	switch key {
	case ParamPrefix:
		var v string
		if v, err = asString(key, raw); err == nil {
			s.SetPrefix(v)
		}
	case ParamContains:
		var v string
		if v, err = asString(key, raw); err == nil {
			s.SetContains(v)
		}
	case ParamContainsIgnoreCase:
		var v bool
		if v, err = asBool(key, raw); err == nil {
			s.SetContainsIgnoreCase(v)
		}
	case ParamSort:
		var v string
		if v, err = asString(key, raw); err == nil {
			if !Sort(v).IsValid() {
				return domain.Configf("facet option %q: unknown sort %q", key, v)
			}
			s.SetSort(Sort(v))
		}
	case ParamLimit:
		var v int
		if v, err = asInt(key, raw); err == nil {
			s.SetLimit(v)
		}
	case ParamOffset:
		var v int
		if v, err = asInt(key, raw); err == nil {
			s.SetOffset(v)
		}
	case ParamMinCount:
		var v int
		if v, err = asInt(key, raw); err == nil {
			s.SetMinCount(v)
		}
	case ParamMissing:
		var v bool
		if v, err = asBool(key, raw); err == nil {
			s.SetMissing(v)
		}
	case ParamMethod:
		var v string
		if v, err = asString(key, raw); err == nil {
			if !Method(v).IsValid() {
				return domain.Configf("facet option %q: unknown method %q", key, v)
			}
			s.SetMethod(Method(v))
		}
	case OptionDefault:
		s.SetDefault(fmt.Sprint(raw))
	}
	return err
}

func asString(key string, raw any) (string, error) {
	switch v := raw.(type) {
	case string:
		return v, nil
	case Sort:
		return string(v), nil
	case Method:
		return string(v), nil
	default:
		return "", domain.Configf("facet option %q must be a string, got %T", key, raw)
	}
}

func asBool(key string, raw any) (bool, error) {
	v, ok := raw.(bool)
	if !ok {
		return false, domain.Configf("facet option %q must be a bool, got %T", key, raw)
	}
	return v, nil
}

func asInt(key string, raw any) (int, error) {
	switch v := raw.(type) {
	case int:
		return v, nil
	case int32:
		return int(v), nil
	case int64:
		return int(v), nil
	case float64:
		if v != float64(int(v)) {
			return 0, domain.Configf("facet option %q must be an integer, got %v", key, v)
		}
		return int(v), nil
	default:
		return 0, domain.Configf("facet option %q must be an integer, got %T", key, raw)
	}
}

func deref[T any](p *T) (T, bool) {
	if p == nil {
		var zero T
		return zero, false
	}
	return *p, true
}
