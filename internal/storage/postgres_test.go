package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_PostgresCondition_WithEachOperator_BuildsSQLAndArgs(t *testing.T) {
	dueAt := time.Date(2025, 5, 1, 10, 0, 0, 0, time.FixedZone("CEST", 2*60*60))

	testCases := []struct {
		name         string
		predicate    Predicate
		expectedSQL  string
		expectedArgs []any
	}{
		{
			name:         "equal with string",
			predicate:    Where("status", OpEqual, "done"),
			expectedSQL:  "data->? = ?::jsonb",
			expectedArgs: []any{"status", `"done"`},
		},
		{
			name:         "equal with time uses sortable text",
			predicate:    Where("dueDate", OpEqual, dueAt),
			expectedSQL:  "data->? = ?::jsonb",
			expectedArgs: []any{"dueDate", `"2025-05-01T08:00:00.000000000Z"`},
		},
		{
			name:         "array contains",
			predicate:    Where("members", OpArrayContains, "user-1"),
			expectedSQL:  "data->? @> ?::jsonb",
			expectedArgs: []any{"members", `["user-1"]`},
		},
		{
			name:         "not array contains tolerates missing field",
			predicate:    Where("members", OpNotArrayContains, "user-1"),
			expectedSQL:  "NOT COALESCE(data->? @> ?::jsonb, false)",
			expectedArgs: []any{"members", `["user-1"]`},
		},
		{
			name:         "in",
			predicate:    Where("projectId", OpIn, []string{"p1", "p2"}),
			expectedSQL:  "COALESCE(?::jsonb @> data->?, false)",
			expectedArgs: []any{`["p1","p2"]`, "projectId"},
		},
		{
			name:         "greater or equal with int",
			predicate:    Where("priority", OpGreaterOrEqual, 3),
			expectedSQL:  "(data->>?)::numeric >= ?",
			expectedArgs: []any{"priority", int64(3)},
		},
		{
			name:         "less or equal with float",
			predicate:    Where("duration", OpLessOrEqual, 4.5),
			expectedSQL:  "(data->>?)::numeric <= ?",
			expectedArgs: []any{"duration", 4.5},
		},
		{
			name:         "less than with string compares bytewise",
			predicate:    Where("name", OpLessThan, "m"),
			expectedSQL:  `(data->>?) COLLATE "C" < ?`,
			expectedArgs: []any{"name", "m"},
		},
		{
			name:         "greater or equal with time compares sortable text",
			predicate:    Where("createdAt", OpGreaterOrEqual, dueAt),
			expectedSQL:  `(data->>?) COLLATE "C" >= ?`,
			expectedArgs: []any{"createdAt", "2025-05-01T08:00:00.000000000Z"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sql, args, err := postgresCondition(tc.predicate)
			require.NoError(t, err)

			assert.Equal(t, tc.expectedSQL, sql)
			assert.Equal(t, tc.expectedArgs, args)
		})
	}
}

func Test_PostgresCondition_WithRangeOnBool_ReturnsInvalidQuery(t *testing.T) {
	_, _, err := postgresCondition(Where("hasSetPassword", OpLessThan, true))

	assert.ErrorIs(t, err, ErrInvalidQuery)
}

func Test_PostgresCondition_WithUnknownOperator_ReturnsInvalidQuery(t *testing.T) {
	_, _, err := postgresCondition(Where("status", Operator("like"), "do%"))

	assert.ErrorIs(t, err, ErrInvalidQuery)
}

func Test_ToJSONValue_WithNestedTimes_ConvertsEveryLevel(t *testing.T) {
	createdAt := time.Date(2025, 1, 2, 3, 4, 5, 6, time.UTC)

	converted := toJSONValue(map[string]any{
		"voiceNote": map[string]any{"createdAt": createdAt, "duration": 4.5},
		"history":   []any{createdAt, "note"},
		"title":     "x",
	})

	assert.Equal(t, map[string]any{
		"voiceNote": map[string]any{"createdAt": "2025-01-02T03:04:05.000000006Z", "duration": 4.5},
		"history":   []any{"2025-01-02T03:04:05.000000006Z", "note"},
		"title":     "x",
	}, converted)
}
