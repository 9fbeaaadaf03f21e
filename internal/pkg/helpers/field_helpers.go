package helpers

import (
	"reflect"
	"strings"
)

// SparseFields flattens a request struct into a column map keyed by json name.
// Nil pointers, slices and maps are treated as not supplied and left out, so the
// result only carries what the client actually sent.
func SparseFields(v interface{}) map[string]interface{} {
	fields := make(map[string]interface{})
	collectFields(reflect.ValueOf(v), fields, false)
	return fields
}

// AllFields flattens a request struct like SparseFields but keeps unset fields as nil.
func AllFields(v interface{}) map[string]interface{} {
	fields := make(map[string]interface{})
	collectFields(reflect.ValueOf(v), fields, true)
	return fields
}

func collectFields(val reflect.Value, out map[string]interface{}, keepNil bool) {
	for val.Kind() == reflect.Ptr || val.Kind() == reflect.Interface {
		if val.IsNil() {
			return
		}
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return
	}

	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		fv := val.Field(i)

		if field.Anonymous && indirectKind(field.Type) == reflect.Struct {
			collectFields(fv, out, keepNil)
			continue
		}
		if !field.IsExported() {
			continue
		}

		name := jsonName(field)
		if name == "" {
			continue
		}

		switch fv.Kind() {
		case reflect.Ptr, reflect.Interface:
			if fv.IsNil() {
				if keepNil {
					out[name] = nil
				}
				continue
			}
			out[name] = fv.Elem().Interface()
		case reflect.Slice, reflect.Map:
			if fv.IsNil() {
				if keepNil {
					out[name] = nil
				}
				continue
			}
			out[name] = fv.Interface()
		default:
			out[name] = fv.Interface()
		}
	}
}

func indirectKind(t reflect.Type) reflect.Kind {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Kind()
}

func jsonName(field reflect.StructField) string {
	tag := field.Tag.Get("json")
	if tag == "-" {
		return ""
	}
	name := strings.SplitN(tag, ",", 2)[0]
	if name == "" {
		return field.Name
	}
	return name
}
