package time_parser

import (
	"math"
	"time"
)

// SortableLayout is a fixed-width UTC layout, so stored timestamps compare
// correctly as plain strings.
const SortableLayout = "2006-01-02T15:04:05.000000000Z"

var stringLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// NormalizeTimestamp converts any stored timestamp shape to a UTC time.
// Supported shapes:
//   - time.Time and *time.Time
//   - strings in RFC3339, RFC3339Nano, ISO without zone, space separated, date only
//   - unix seconds (< 1e12) or milliseconds (>= 1e12) as int, int32, int64 or float64
//   - the seconds wrapper {seconds, nanoseconds} and its {_seconds, _nanoseconds} variant
//
// The boolean result is false for nil, empty and unrecognised values.
func NormalizeTimestamp(value any) (time.Time, bool) {
	switch v := value.(type) {
	case nil:
		return time.Time{}, false

	case time.Time:
		if v.IsZero() {
			return time.Time{}, false
		}
		return v.UTC(), true

	case *time.Time:
		if v == nil {
			return time.Time{}, false
		}
		return NormalizeTimestamp(*v)

	case string:
		if v == "" {
			return time.Time{}, false
		}

		for _, layout := range stringLayouts {
			if t, err := time.Parse(layout, v); err == nil {
				return t.UTC(), true
			}
		}

		return time.Time{}, false

	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return time.Time{}, false
		}
		return fromEpoch(int64(v)), true

	case int64:
		return fromEpoch(v), true

	case int32:
		return fromEpoch(int64(v)), true

	case int:
		return fromEpoch(int64(v)), true

	case map[string]any:
		return fromSecondsWrapper(v)

	default:
		return time.Time{}, false
	}
}

func fromEpoch(v int64) time.Time {
	if v >= 1e12 {
		return time.Unix(0, v*int64(time.Millisecond)).UTC()
	}

	return time.Unix(v, 0).UTC()
}

func fromSecondsWrapper(wrapper map[string]any) (time.Time, bool) {
	seconds, ok := wrapperNumber(wrapper, "seconds", "_seconds")
	if !ok {
		return time.Time{}, false
	}

	nanoseconds, _ := wrapperNumber(wrapper, "nanoseconds", "_nanoseconds")

	return time.Unix(seconds, nanoseconds).UTC(), true
}

func wrapperNumber(wrapper map[string]any, keys ...string) (int64, bool) {
	for _, key := range keys {
		switch n := wrapper[key].(type) {
		case float64:
			return int64(n), true
		case int64:
			return n, true
		case int32:
			return int64(n), true
		case int:
			return int64(n), true
		}
	}

	return 0, false
}

// FormatSortable renders t in SortableLayout.
func FormatSortable(t time.Time) string {
	return t.UTC().Format(SortableLayout)
}
