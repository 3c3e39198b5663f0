package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func Test_MongoFilter_WithEachOperator_BuildsMatchingClause(t *testing.T) {
	dueAt := time.Date(2025, 5, 1, 10, 0, 0, 0, time.FixedZone("CEST", 2*60*60))

	testCases := []struct {
		name      string
		predicate Predicate
		expected  bson.M
	}{
		{
			name:      "equal",
			predicate: Where("status", OpEqual, "done"),
			expected:  bson.M{"status": bson.M{"$eq": "done"}},
		},
		{
			name:      "equal on id targets _id",
			predicate: Where("id", OpEqual, "task-1"),
			expected:  bson.M{"_id": bson.M{"$eq": "task-1"}},
		},
		{
			name:      "array contains",
			predicate: Where("members", OpArrayContains, "user-1"),
			expected:  bson.M{"members": bson.M{"$eq": "user-1"}},
		},
		{
			name:      "not array contains",
			predicate: Where("members", OpNotArrayContains, "user-1"),
			expected:  bson.M{"members": bson.M{"$ne": "user-1"}},
		},
		{
			name:      "in with typed slice",
			predicate: Where("projectId", OpIn, []string{"p1", "p2"}),
			expected:  bson.M{"projectId": bson.M{"$in": []any{"p1", "p2"}}},
		},
		{
			name:      "greater or equal with int",
			predicate: Where("priority", OpGreaterOrEqual, 3),
			expected:  bson.M{"priority": bson.M{"$gte": int64(3)}},
		},
		{
			name:      "less or equal with time in UTC",
			predicate: Where("dueDate", OpLessOrEqual, dueAt),
			expected:  bson.M{"dueDate": bson.M{"$lte": dueAt.UTC()}},
		},
		{
			name:      "less than with string",
			predicate: Where("name", OpLessThan, "m"),
			expected:  bson.M{"name": bson.M{"$lt": "m"}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			filter := mongoFilter([]Predicate{tc.predicate})

			assert.Equal(t, bson.M{"$and": []bson.M{tc.expected}}, filter)
		})
	}
}

func Test_MongoFilter_WithoutPredicates_MatchesEverything(t *testing.T) {
	assert.Equal(t, bson.M{}, mongoFilter(nil))
}

func Test_MongoFilter_WithSeveralPredicates_KeepsOrderInsideAnd(t *testing.T) {
	filter := mongoFilter([]Predicate{
		Where("createdBy", OpEqual, "user-1"),
		Where("status", OpIn, []any{"todo", "to do"}),
	})

	assert.Equal(t, bson.M{"$and": []bson.M{
		{"createdBy": bson.M{"$eq": "user-1"}},
		{"status": bson.M{"$in": []any{"todo", "to do"}}},
	}}, filter)
}

func Test_MongoUpdate_WithEveryPatchPart_BuildsMatchingOperators(t *testing.T) {
	updatedAt := time.Date(2025, 5, 1, 10, 0, 0, 0, time.FixedZone("CEST", 2*60*60))
	var noDueDate *time.Time

	update := mongoUpdate(Patch{
		Set:    map[string]any{"name": "Beta", "updatedAt": updatedAt, "dueDate": noDueDate},
		Unset:  []string{"prenom", "nom"},
		Append: map[string]any{"members": "user-2"},
		Remove: map[string]any{"members": "user-3"},
	})

	assert.Equal(t, bson.M{
		"$set":      bson.M{"name": "Beta", "updatedAt": updatedAt.UTC(), "dueDate": nil},
		"$unset":    bson.M{"prenom": "", "nom": ""},
		"$addToSet": bson.M{"members": "user-2"},
		"$pull":     bson.M{"members": "user-3"},
	}, update)
}

func Test_MongoUpdate_WithOnlySet_OmitsOtherOperators(t *testing.T) {
	update := mongoUpdate(Patch{Set: map[string]any{"status": "done"}})

	assert.Equal(t, bson.M{"$set": bson.M{"status": "done"}}, update)
}
