package storage

import (
	"reflect"
	"time"

	time_parser "taskflow/internal/util/time"
)

// Document is a schemaless record. Values are normalized on write: named
// string types become string, integers become int64, slices become []any,
// nested maps become map[string]any and nil pointers become nil.
type Document map[string]any

func (d Document) ID() string {
	return d.String("id")
}

func (d Document) Has(key string) bool {
	_, ok := d[key]
	return ok
}

func (d Document) String(key string) string {
	if s, ok := d[key].(string); ok {
		return s
	}

	return ""
}

// OptionalString is nil when the field is absent, null or empty.
func (d Document) OptionalString(key string) *string {
	s := d.String(key)
	if s == "" {
		return nil
	}

	return &s
}

func (d Document) StringSlice(key string) []string {
	result := make([]string, 0)

	switch values := d[key].(type) {
	case []any:
		for _, v := range values {
			if s, ok := v.(string); ok {
				result = append(result, s)
			}
		}
	case []string:
		result = append(result, values...)
	}

	return result
}

func (d Document) Float(key string) float64 {
	switch n := d[key].(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int64:
		return float64(n)
	case int32:
		return float64(n)
	case int:
		return float64(n)
	}

	return 0
}

func (d Document) Bool(key string) bool {
	b, _ := d[key].(bool)
	return b
}

// Time accepts every timestamp shape understood by time_parser and returns
// the zero time for anything else.
func (d Document) Time(key string) time.Time {
	t, _ := time_parser.NormalizeTimestamp(d[key])
	return t
}

func (d Document) OptionalTime(key string) *time.Time {
	t, ok := time_parser.NormalizeTimestamp(d[key])
	if !ok {
		return nil
	}

	return &t
}

func (d Document) Map(key string) map[string]any {
	m, _ := d[key].(map[string]any)
	return m
}

func (d Document) Maps(key string) []map[string]any {
	result := make([]map[string]any, 0)

	values, _ := d[key].([]any)
	for _, v := range values {
		if m, ok := v.(map[string]any); ok {
			result = append(result, m)
		}
	}

	return result
}

func (d Document) clone() Document {
	return normalizeMap(d)
}

func normalizeMap(m map[string]any) Document {
	if m == nil {
		return nil
	}

	result := make(Document, len(m))
	for k, v := range m {
		result[k] = normalizeValue(v)
	}

	return result
}

func normalizeValue(value any) any {
	switch v := value.(type) {
	case nil:
		return nil
	case string, bool, int64, float64:
		return v
	case time.Time:
		return v.UTC()
	case Document:
		return map[string]any(normalizeMap(v))
	case map[string]any:
		return map[string]any(normalizeMap(v))
	case []any:
		result := make([]any, len(v))
		for i, item := range v {
			result[i] = normalizeValue(item)
		}
		return result
	}

	rv := reflect.ValueOf(value)

	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return normalizeValue(rv.Elem().Interface())

	case reflect.String:
		return rv.String()

	case reflect.Bool:
		return rv.Bool()

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(rv.Uint())

	case reflect.Float32, reflect.Float64:
		return rv.Float()

	case reflect.Slice, reflect.Array:
		result := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			result[i] = normalizeValue(rv.Index(i).Interface())
		}
		return result

	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return value
		}

		result := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			result[iter.Key().String()] = normalizeValue(iter.Value().Interface())
		}
		return result
	}

	return value
}
