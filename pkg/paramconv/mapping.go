package paramconv

import (
	"reflect"
	"sort"
	"strings"
)

// fieldTag is the struct tag read from document types that do not implement
// FieldDefiner.
const fieldTag = "odm"

// ResolveMapping builds the finder criteria from the request attributes.
//
// Each attribute/field pair of opts.Mapping (or identity over attrs.Keys() when
// Mapping is nil) contributes field -> attrs.Get(attribute) when signature
// binding is on or field is one of knownFields. Other pairs are dropped.
func ResolveMapping(attrs Attributes, opts Options, knownFields []string) Criteria {
	mapping := opts.Mapping
	if mapping == nil {
		mapping = identityMapping(attrs)
	}

	known := make(map[string]struct{}, len(knownFields))
	for _, f := range knownFields {
		known[f] = struct{}{}
	}

	resolved := make(Criteria, len(mapping))
	for _, pair := range mappingPairs(mapping) {
		attr, field := pair[0], pair[1]
		if _, ok := known[field]; opts.MapMethodSignature || ok {
			resolved[field] = attrs.Get(attr)
		}
	}
	return resolved
}

func identityMapping(attrs Attributes) map[string]string {
	keys := attrs.Keys()
	m := make(map[string]string, len(keys))
	for _, k := range keys {
		m[k] = k
	}
	return m
}

// FieldsOf returns the persisted field names declared by a document instance,
// sorted. Instances implementing FieldDefiner report their definitions; structs
// report fields tagged `odm:"name"`. Anything else declares no fields.
func FieldsOf(instance any) []string {
	if fd, ok := instance.(FieldDefiner); ok {
		defs := fd.FieldDefinitions()
		fields := make([]string, 0, len(defs))
		for name := range defs {
			fields = append(fields, name)
		}
		sort.Strings(fields)
		return fields
	}
	return taggedFields(instance)
}

func taggedFields(instance any) []string {
	if instance == nil {
		return nil
	}
	t := reflect.TypeOf(instance)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}

	var fields []string
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		tag, ok := sf.Tag.Lookup(fieldTag)
		if !ok {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")
		if name == "" || name == "-" {
			continue
		}
		fields = append(fields, name)
	}
	sort.Strings(fields)
	return fields
}
