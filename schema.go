package xfind

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/kailas-cloud/xfind/internal/domain/document"
)

const tagKey = "xfind"

var timeType = reflect.TypeFor[time.Time]()

// schemaMeta holds parsed struct tag metadata, cached per Index.
type schemaMeta struct {
	typ    reflect.Type // struct type for reconstruction
	ptr    bool         // T is a pointer to typ
	keyIdx int
	schema Schema
	fields []fieldMapping
}

type fieldMapping struct {
	structIdx int
	name      string
	typ       FieldType
}

// parseSchema reflects on T and extracts xfind struct tag metadata.
//
// Tag format: `xfind:"name[,key][,facet][,highlight]"`. The field type is
// derived from the Go type: string, []string, integers, floats, bool and
// time.Time are supported.
func parseSchema[T any]() (*schemaMeta, error) {
	t := reflect.TypeFor[T]()
	ptr := t.Kind() == reflect.Pointer
	if ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("xfind: type %s is not a struct", t)
	}

	meta := &schemaMeta{typ: t, ptr: ptr, keyIdx: -1}
	var (
		key               string
		fields            []Field
		facets, highlight []string
	)
	for i := range t.NumField() {
		f := t.Field(i)
		tag := f.Tag.Get(tagKey)
		if tag == "" || tag == "-" || !f.IsExported() {
			continue
		}
		name, modifiers, _ := strings.Cut(tag, ",")
		if name == "" {
			name = strings.ToLower(f.Name)
		}
		ft, err := fieldTypeOf(f.Type)
		if err != nil {
			return nil, fmt.Errorf("xfind: field %s: %w", f.Name, err)
		}

		for _, m := range strings.Split(modifiers, ",") {
			switch m {
			case "":
			case "key":
				if meta.keyIdx != -1 {
					return nil, fmt.Errorf("xfind: duplicate key tag on field %s", f.Name)
				}
				meta.keyIdx = i
				key = name
			case "facet":
				facets = append(facets, name)
			case "highlight":
				highlight = append(highlight, name)
			default:
				return nil, fmt.Errorf("xfind: unknown modifier %q on field %s", m, f.Name)
			}
		}
		fields = append(fields, Field{Name: name, Type: ft})
		meta.fields = append(meta.fields, fieldMapping{structIdx: i, name: name, typ: ft})
	}

	if meta.keyIdx == -1 {
		return nil, fmt.Errorf("xfind: no field with `xfind:\"...,key\"` tag in %s", t)
	}
	schema, err := document.NewSchema(key, fields,
		document.WithFacets(facets...),
		document.WithHighlight(highlight...),
	)
	if err != nil {
		return nil, fmt.Errorf("xfind: schema of %s: %w", t, err)
	}
	meta.schema = schema
	return meta, nil
}

func fieldTypeOf(t reflect.Type) (FieldType, error) {
	if t == timeType {
		return Time, nil
	}
	switch t.Kind() {
	case reflect.String:
		return String, nil
	case reflect.Slice:
		if t.Elem().Kind() == reflect.String {
			return Strings, nil
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Int, nil
	case reflect.Float32, reflect.Float64:
		return Float, nil
	case reflect.Bool:
		return Bool, nil
	}
	return "", fmt.Errorf("unsupported type %s", t)
}

// fromDocument converts a Document to a typed struct using schema metadata.
// Fields absent from the document keep their zero value.
func (m *schemaMeta) fromDocument(doc Document) any {
	v := reflect.New(m.typ).Elem()

	for _, fm := range m.fields {
		if _, ok := doc.Get(fm.name); !ok {
			continue
		}
		dst := v.Field(fm.structIdx)
		switch fm.typ {
		case String:
			dst.SetString(doc.String(fm.name))
		case Strings:
			dst.Set(reflect.ValueOf(slices.Clone(doc.Strings(fm.name))).Convert(dst.Type()))
		case Int:
			setInt(dst, doc.Int(fm.name))
		case Float:
			dst.SetFloat(doc.Float(fm.name))
		case Bool:
			dst.SetBool(doc.Bool(fm.name))
		case Time:
			dst.Set(reflect.ValueOf(doc.Time(fm.name)))
		}
	}
	if key := v.Field(m.keyIdx); key.Kind() == reflect.String && key.String() == "" {
		key.SetString(doc.ID())
	}
	if m.ptr {
		return v.Addr().Interface()
	}
	return v.Interface()
}

func setInt(v reflect.Value, n int64) {
	switch v.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v.SetUint(uint64(max(n, 0)))
	default:
		v.SetInt(n)
	}
}
