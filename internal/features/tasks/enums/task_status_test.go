package tasks_enums

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Canonical_WithKnownSpellings_MapsToColumnStatus(t *testing.T) {
	cases := []struct {
		input    TaskStatus
		expected TaskStatus
	}{
		{"todo", TaskStatusTodo},
		{"to do", TaskStatusTodo},
		{"To Do", TaskStatusTodo},
		{" doing ", TaskStatusDoing},
		{"DONE", TaskStatusDone},
		{"blocked", "blocked"},
		{"", ""},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.expected, tc.input.Canonical(), "input %q", tc.input)
	}
}

func Test_StoredVariants_ForTodo_IncludesLegacySpelling(t *testing.T) {
	assert.ElementsMatch(t, []TaskStatus{TaskStatusTodo, TaskStatusTodoLegacy}, TaskStatusTodoLegacy.StoredVariants())
	assert.Equal(t, []TaskStatus{TaskStatusDone}, TaskStatusDone.StoredVariants())
	assert.Equal(t, []TaskStatus{"review"}, TaskStatus("review").StoredVariants())
}

func Test_StoredVariants_ForNonCanonicalSpelling_IncludesValueAsStored(t *testing.T) {
	assert.Equal(t, []TaskStatus{"Done", TaskStatusDone}, TaskStatus("Done").StoredVariants())
	assert.Equal(t, []TaskStatus{" doing", TaskStatusDoing}, TaskStatus(" doing").StoredVariants())
	assert.Equal(
		t,
		[]TaskStatus{"To Do", TaskStatusTodo, TaskStatusTodoLegacy},
		TaskStatus("To Do").StoredVariants(),
	)
}
