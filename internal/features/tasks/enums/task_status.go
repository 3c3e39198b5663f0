package tasks_enums

import (
	"slices"
	"strings"
)

type TaskStatus string

const (
	TaskStatusTodo  TaskStatus = "todo"
	TaskStatusDoing TaskStatus = "doing"
	TaskStatusDone  TaskStatus = "done"

	// TaskStatusTodoLegacy is written by older clients and means todo.
	TaskStatusTodoLegacy TaskStatus = "to do"
)

// Canonical maps known spellings onto todo, doing or done. Unknown values
// are returned unchanged.
func (s TaskStatus) Canonical() TaskStatus {
	switch TaskStatus(strings.ToLower(strings.TrimSpace(string(s)))) {
	case TaskStatusTodo, TaskStatusTodoLegacy:
		return TaskStatusTodo
	case TaskStatusDoing:
		return TaskStatusDoing
	case TaskStatusDone:
		return TaskStatusDone
	default:
		return s
	}
}

func (s TaskStatus) IsCanonical() bool {
	switch s {
	case TaskStatusTodo, TaskStatusDoing, TaskStatusDone:
		return true
	default:
		return false
	}
}

// StoredVariants lists every stored value that belongs to the same column
// as s. The value s itself always comes first, since SetStatus stores it
// verbatim.
func (s TaskStatus) StoredVariants() []TaskStatus {
	variants := []TaskStatus{s}

	var aliases []TaskStatus
	switch s.Canonical() {
	case TaskStatusTodo:
		aliases = []TaskStatus{TaskStatusTodo, TaskStatusTodoLegacy}
	case TaskStatusDoing:
		aliases = []TaskStatus{TaskStatusDoing}
	case TaskStatusDone:
		aliases = []TaskStatus{TaskStatusDone}
	}

	for _, alias := range aliases {
		if !slices.Contains(variants, alias) {
			variants = append(variants, alias)
		}
	}

	return variants
}
