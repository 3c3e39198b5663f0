package storage

import (
	"fmt"
	"reflect"
	"slices"
	"sort"
	"strings"
	"time"

	time_parser "taskflow/internal/util/time"
)

type Operator string

const (
	OpEqual            Operator = "=="
	OpArrayContains    Operator = "array-contains"
	OpNotArrayContains Operator = "not-array-contains"
	OpIn               Operator = "in"
	OpGreaterOrEqual   Operator = ">="
	OpLessOrEqual      Operator = "<="
	OpLessThan         Operator = "<"
)

// MaxInValues bounds the value list of an "in" predicate.
const MaxInValues = 30

type Predicate struct {
	Field string
	Op    Operator
	Value any
}

func Where(field string, op Operator, value any) Predicate {
	return Predicate{Field: field, Op: op, Value: value}
}

type Query struct {
	Predicates []Predicate
	OrderBy    string
	Descending bool
	Offset     int
	Limit      int
}

// Patch describes a partial update. Append adds a value to an array field
// unless an equal value is already present; Remove drops every equal value.
type Patch struct {
	Set    map[string]any
	Unset  []string
	Append map[string]any
	Remove map[string]any
}

func (p Patch) IsEmpty() bool {
	return len(p.Set) == 0 && len(p.Unset) == 0 && len(p.Append) == 0 && len(p.Remove) == 0
}

func (q Query) Validate() error {
	if q.Limit < 0 || q.Offset < 0 {
		return fmt.Errorf("%w: negative limit or offset", ErrInvalidQuery)
	}

	return validatePredicates(q.Predicates)
}

func validatePredicates(predicates []Predicate) error {
	for _, p := range predicates {
		if p.Field == "" {
			return fmt.Errorf("%w: empty field", ErrInvalidQuery)
		}

		switch p.Op {
		case OpEqual, OpArrayContains, OpNotArrayContains, OpGreaterOrEqual, OpLessOrEqual, OpLessThan:
		case OpIn:
			values, ok := inValues(p.Value)
			if !ok {
				return fmt.Errorf("%w: %q expects a list", ErrInvalidQuery, p.Op)
			}
			if len(values) > MaxInValues {
				return fmt.Errorf("%w: %d values in %q, max %d", ErrInvalidQuery, len(values), p.Op, MaxInValues)
			}
		default:
			return fmt.Errorf("%w: unknown operator %q", ErrInvalidQuery, p.Op)
		}
	}

	return nil
}

func inValues(value any) ([]any, bool) {
	values, ok := normalizeValue(value).([]any)
	return values, ok
}

func matchesAll(doc Document, predicates []Predicate) bool {
	for _, p := range predicates {
		if !matches(doc, p) {
			return false
		}
	}

	return true
}

func matches(doc Document, p Predicate) bool {
	fieldValue := doc[p.Field]

	switch p.Op {
	case OpEqual:
		return valuesEqual(fieldValue, p.Value)

	case OpArrayContains:
		return arrayContains(fieldValue, p.Value)

	case OpNotArrayContains:
		return !arrayContains(fieldValue, p.Value)

	case OpIn:
		values, _ := inValues(p.Value)
		return slices.ContainsFunc(values, func(v any) bool { return valuesEqual(fieldValue, v) })

	case OpGreaterOrEqual:
		cmp, ok := compareValues(fieldValue, p.Value)
		return ok && cmp >= 0

	case OpLessOrEqual:
		cmp, ok := compareValues(fieldValue, p.Value)
		return ok && cmp <= 0

	case OpLessThan:
		cmp, ok := compareValues(fieldValue, p.Value)
		return ok && cmp < 0
	}

	return false
}

func arrayContains(fieldValue any, value any) bool {
	values, ok := fieldValue.([]any)
	if !ok {
		return false
	}

	return slices.ContainsFunc(values, func(v any) bool { return valuesEqual(v, value) })
}

func valuesEqual(a, b any) bool {
	if cmp, ok := compareValues(a, b); ok {
		return cmp == 0
	}

	return reflect.DeepEqual(normalizeValue(a), normalizeValue(b))
}

// compareValues orders strings, numbers, booleans and timestamps. A time
// compared against a string is parsed, since SQL backends keep times as text.
func compareValues(a, b any) (int, bool) {
	a, b = normalizeValue(a), normalizeValue(b)

	_, aIsTime := a.(time.Time)
	_, bIsTime := b.(time.Time)
	if aIsTime || bIsTime {
		at, aok := time_parser.NormalizeTimestamp(a)
		bt, bok := time_parser.NormalizeTimestamp(b)
		if !aok || !bok {
			return 0, false
		}
		return at.Compare(bt), true
	}

	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(av, bv), true

	case bool:
		bv, ok := b.(bool)
		if !ok {
			return 0, false
		}
		switch {
		case av == bv:
			return 0, true
		case !av:
			return -1, true
		default:
			return 1, true
		}

	case int64, float64:
		af, _ := toFloat(av)
		bf, ok := toFloat(b)
		if !ok {
			return 0, false
		}
		switch {
		case af < bf:
			return -1, true
		case af > bf:
			return 1, true
		default:
			return 0, true
		}
	}

	return 0, false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}

	return 0, false
}

func applyPatch(doc Document, patch Patch) {
	for field, value := range patch.Set {
		doc[field] = normalizeValue(value)
	}

	for _, field := range patch.Unset {
		delete(doc, field)
	}

	for field, value := range patch.Append {
		values, _ := doc[field].([]any)
		if !slices.ContainsFunc(values, func(v any) bool { return valuesEqual(v, value) }) {
			values = append(values, normalizeValue(value))
		}
		doc[field] = values
	}

	for field, value := range patch.Remove {
		values, _ := doc[field].([]any)
		kept := make([]any, 0, len(values))
		for _, v := range values {
			if !valuesEqual(v, value) {
				kept = append(kept, v)
			}
		}
		doc[field] = kept
	}
}

// sortAndLimit orders docs by the query's field, then applies offset and
// limit. Documents without a comparable value sort after the others.
func sortAndLimit(docs []Document, query Query) []Document {
	if query.OrderBy != "" {
		sort.SliceStable(docs, func(i, j int) bool {
			cmp, ok := compareValues(docs[i][query.OrderBy], docs[j][query.OrderBy])
			if !ok {
				return docs[i].Has(query.OrderBy) && !docs[j].Has(query.OrderBy)
			}
			if query.Descending {
				return cmp > 0
			}
			return cmp < 0
		})
	}

	if query.Offset > 0 {
		if query.Offset >= len(docs) {
			return docs[:0]
		}
		docs = docs[query.Offset:]
	}

	if query.Limit > 0 && len(docs) > query.Limit {
		docs = docs[:query.Limit]
	}

	return docs
}
