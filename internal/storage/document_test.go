package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type status string

func Test_NormalizeValue_ConvertsNamedTypesSlicesAndPointers(t *testing.T) {
	due := time.Date(2024, 5, 1, 10, 0, 0, 0, time.FixedZone("X", 7200))
	var missing *time.Time

	doc := Document{
		"status":   status("todo"),
		"members":  []string{"a", "b"},
		"count":    3,
		"dueDate":  &due,
		"endDate":  missing,
		"voice":    map[string]any{"duration": 12},
		"attached": []map[string]any{{"uri": "u"}},
	}.clone()

	assert.Equal(t, "todo", doc["status"])
	assert.Equal(t, []any{"a", "b"}, doc["members"])
	assert.Equal(t, int64(3), doc["count"])
	assert.Equal(t, due.UTC(), doc["dueDate"])
	assert.Nil(t, doc["endDate"])
	assert.Equal(t, map[string]any{"duration": int64(12)}, doc["voice"])
	assert.Equal(t, []any{map[string]any{"uri": "u"}}, doc["attached"])
}

func Test_DocumentAccessors_WithMissingOrWrongTypes_ReturnZeroValues(t *testing.T) {
	doc := Document{"name": 12, "tags": "not-a-list", "createdAt": "garbage"}

	assert.Equal(t, "", doc.String("name"))
	assert.Nil(t, doc.OptionalString("missing"))
	assert.Empty(t, doc.StringSlice("tags"))
	assert.True(t, doc.Time("createdAt").IsZero())
	assert.Nil(t, doc.OptionalTime("createdAt"))
	assert.Empty(t, doc.Maps("attachments"))
	assert.Equal(t, float64(0), doc.Float("missing"))
	assert.False(t, doc.Bool("missing"))
}

func Test_DocumentTime_AcceptsEveryStoredShape(t *testing.T) {
	expected := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	shapes := []any{
		expected,
		"2024-01-02T03:04:05Z",
		expected.Unix(),
		float64(expected.UnixMilli()),
		map[string]any{"seconds": float64(expected.Unix()), "nanoseconds": float64(0)},
		map[string]any{"_seconds": expected.Unix(), "_nanoseconds": int64(0)},
	}

	for _, shape := range shapes {
		doc := Document{"createdAt": shape}
		assert.Equal(t, expected, doc.Time("createdAt"), "shape %#v", shape)
	}
}

func Test_CompareValues_MixesTimeAndSortableText(t *testing.T) {
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	cmp, ok := compareValues(at, "2024-01-02T03:04:05.000000000Z")
	assert.True(t, ok)
	assert.Equal(t, 0, cmp)

	cmp, ok = compareValues(int64(2), float64(1.5))
	assert.True(t, ok)
	assert.Equal(t, 1, cmp)

	_, ok = compareValues("a", int64(1))
	assert.False(t, ok)
}
