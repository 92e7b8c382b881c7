package facet

import (
	"strings"

	"github.com/kailas-cloud/xfind/internal/domain"
)

// Request binds a facet name to an indexed field and its settings.
type Request struct {
	Name     string
	Field    string
	Settings *Settings // nil: engine defaults
}

// Set is an ordered collection of facet requests plus the alias table used to
// relabel raw buckets. Re-attaching a name replaces the previous request in place.
// Several names may share one field; the field then maps back to the most
// recently attached of them.
type Set struct {
	requests    []Request
	fieldByName map[string]string
	nameByField map[string]string
}

// NewSet returns an empty facet set.
func NewSet() *Set {
	return &Set{
		fieldByName: make(map[string]string),
		nameByField: make(map[string]string),
	}
}

// Attach registers a facet. An empty field defaults to the name.
func (s *Set) Attach(name, field string, settings *Settings) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Configf("facet name is required")
	}
	field = strings.TrimSpace(field)
	if field == "" {
		field = name
	}

	req := Request{Name: name, Field: field, Settings: settings}
	if old, ok := s.fieldByName[name]; ok {
		for i := range s.requests {
			if s.requests[i].Name == name {
				s.requests[i] = req
				break
			}
		}
		if s.nameByField[old] == name {
			delete(s.nameByField, old)
			s.restoreAlias(old)
		}
	} else {
		s.requests = append(s.requests, req)
	}
	s.fieldByName[name] = field
	s.nameByField[field] = name
	return nil
}

// restoreAlias points field back at the last other request still using it.
func (s *Set) restoreAlias(field string) {
	for i := len(s.requests) - 1; i >= 0; i-- {
		if r := s.requests[i]; r.Field == field {
			s.nameByField[field] = r.Name
			return
		}
	}
}

// Requests returns the facet requests in attach order.
func (s *Set) Requests() []Request {
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// Len returns the number of attached facets.
func (s *Set) Len() int { return len(s.requests) }

// Aliases returns a copy of the name → field table.
func (s *Set) Aliases() map[string]string {
	out := make(map[string]string, len(s.fieldByName))
	for k, v := range s.fieldByName {
		out[k] = v
	}
	return out
}

// NameFor maps an engine field back to the caller's facet name.
// Unknown fields map to themselves.
func (s *Set) NameFor(field string) string {
	if s == nil {
		return field
	}
	if name, ok := s.nameByField[field]; ok {
		return name
	}
	return field
}

// Lookup returns the request registered under name.
func (s *Set) Lookup(name string) (Request, bool) {
	if s == nil {
		return Request{}, false
	}
	for _, r := range s.requests {
		if r.Name == name {
			return r, true
		}
	}
	return Request{}, false
}

// DefaultFor returns the default bucket registered for the facet name.
func (s *Set) DefaultFor(name string) (string, bool) {
	r, ok := s.Lookup(name)
	if !ok {
		return "", false
	}
	return r.Settings.Default()
}

// Clone returns an independent copy. Settings are shared; they are immutable
// once attached.
func (s *Set) Clone() *Set {
	c := NewSet()
	c.requests = append(c.requests, s.requests...)
	for k, v := range s.fieldByName {
		c.fieldByName[k] = v
	}
	for k, v := range s.nameByField {
		c.nameByField[k] = v
	}
	return c
}
